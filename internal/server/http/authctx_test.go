package httpserver

import (
	"context"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/movievault/movievault/internal/model"
)

func TestPrincipalContext_RoundTrip(t *testing.T) {
	t.Parallel()

	u := &model.User{ID: primitive.NewObjectID(), Username: "alice"}
	ctx := WithPrincipal(context.Background(), u)

	got, ok := PrincipalFromCtx(ctx)
	if !ok || got.Username != "alice" {
		t.Fatalf("got=%v ok=%v", got, ok)
	}
}

func TestPrincipalContext_Empty(t *testing.T) {
	t.Parallel()

	if _, ok := PrincipalFromCtx(context.Background()); ok {
		t.Fatalf("unexpected principal in empty context")
	}
}
