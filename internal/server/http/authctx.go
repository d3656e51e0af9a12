package httpserver

import (
	"context"

	"github.com/movievault/movievault/internal/model"
)

type ctxKey string

const principalKey ctxKey = "mv.principal"

// WithPrincipal stores the authenticated user in the request context.
func WithPrincipal(ctx context.Context, u *model.User) context.Context {
	return context.WithValue(ctx, principalKey, u)
}

// PrincipalFromCtx fetches the authenticated user from the request context.
func PrincipalFromCtx(ctx context.Context) (*model.User, bool) {
	u, ok := ctx.Value(principalKey).(*model.User)
	return u, ok
}
