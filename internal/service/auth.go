// Package service contains application services for authentication, accounts
// and the movie catalog.
package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	pkgcrypto "github.com/movievault/movievault/internal/crypto"
	"github.com/movievault/movievault/internal/errs"
	"github.com/movievault/movievault/internal/limiter"
	"github.com/movievault/movievault/internal/model"
	"github.com/movievault/movievault/internal/repository"
	"github.com/movievault/movievault/internal/token"
)

// usernameRe keeps usernames to a sane, URL-safe alphabet.
var usernameRe = regexp.MustCompile(`^[a-zA-Z0-9_]{3,30}$`)

// AuthService defines registration and login operations.
type AuthService interface {
	// Register creates a new account, hashing the password exactly once.
	Register(ctx context.Context, nu model.NewUser) (*model.User, error)
	// Authenticate verifies credentials and issues an access token.
	// Unknown username and wrong password are indistinguishable to the caller.
	Authenticate(ctx context.Context, username, password, ip string) (string, *model.User, error)
}

type AuthServiceImpl struct {
	users  repository.UserRepository
	issuer *token.Issuer
	cost   int
	lim    limiter.Limiter
}

// NewAuthService constructs AuthService with required dependencies.
func NewAuthService(users repository.UserRepository, issuer *token.Issuer, bcryptCost int, lim limiter.Limiter) *AuthServiceImpl {
	return &AuthServiceImpl{users: users, issuer: issuer, cost: bcryptCost, lim: lim}
}

// Register validates input, hashes the plaintext and stores the new account.
// The plaintext never leaves this call.
func (s *AuthServiceImpl) Register(ctx context.Context, nu model.NewUser) (*model.User, error) {
	if nu.Username == "" || nu.Password == "" || nu.Email == "" {
		return nil, fmt.Errorf("%w: username, password and email are required", errs.ErrValidation)
	}
	if !usernameRe.MatchString(nu.Username) {
		return nil, fmt.Errorf("%w: username must be 3-30 alphanumeric characters", errs.ErrValidation)
	}

	hash, err := pkgcrypto.HashPassword(nu.Password, s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &model.User{
		Username:     nu.Username,
		PasswordHash: hash,
		Email:        nu.Email,
		Birthday:     nu.Birthday,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Authenticate looks up the account, verifies the password and issues a token.
// The sequence short-circuits on failure and persists nothing.
func (s *AuthServiceImpl) Authenticate(ctx context.Context, username, password, ip string) (string, *model.User, error) {
	ipHash := limiter.HashIP(ip)

	allowed, _, err := s.lim.Allow(ctx, username, ipHash)
	if err != nil {
		return "", nil, fmt.Errorf("limiter: %w", err)
	}
	if !allowed {
		return "", nil, errs.ErrRateLimited
	}

	u, err := s.users.GetByUsername(ctx, username)
	if err != nil && !errors.Is(err, errs.ErrNotFound) {
		// store failure is an internal error, not a credential problem
		return "", nil, fmt.Errorf("lookup user: %w", err)
	}
	if err != nil || !pkgcrypto.VerifyPassword(password, u.PasswordHash) {
		if blocked, _, ferr := s.lim.Failure(ctx, username, ipHash); ferr == nil && blocked {
			return "", nil, errs.ErrRateLimited
		}
		// unknown username and wrong password collapse to one error
		return "", nil, errs.ErrInvalidCredentials
	}

	_ = s.lim.Success(ctx, username, ipHash)

	tok, err := s.issuer.Issue(u.ID.Hex())
	if err != nil {
		return "", nil, fmt.Errorf("issue token: %w", err)
	}
	return tok, u, nil
}
