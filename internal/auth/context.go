package auth

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"phonebook-api/internal/store"
	"phonebook-api/internal/token"
	"phonebook-api/pkg/logger"
)

const bearerPrefix = "bearer "

// Context carries the identity resolved for one request. Account is nil
// for anonymous requests and for tokens whose account no longer exists.
type Context struct {
	Account *store.Account
}

// Authenticated reports whether the context holds a resolved account
func (c *Context) Authenticated() bool {
	return c != nil && c.Account != nil
}

// AccountLoader loads an account with its friends resolved
type AccountLoader interface {
	FindAccountByID(ctx context.Context, id string, withFriends bool) (*store.Account, error)
}

// TokenVerifier verifies a bearer token string
type TokenVerifier interface {
	Verify(tokenString string) (*token.Claims, error)
}

// Resolver builds the per-request auth context from the Authorization header
type Resolver struct {
	accounts AccountLoader
	tokens   TokenVerifier
	logger   *zap.Logger
}

// NewResolver creates an auth context resolver
func NewResolver(accounts AccountLoader, tokens TokenVerifier) *Resolver {
	return &Resolver{
		accounts: accounts,
		tokens:   tokens,
		logger:   logger.Get(),
	}
}

// Resolve turns a raw Authorization header value into an auth context.
// A missing or non-bearer header yields an anonymous context so that open
// queries keep working. A bearer token that fails verification is an error
// for the whole request. A verified token whose account has vanished
// yields an anonymous context, not an error.
func (r *Resolver) Resolve(ctx context.Context, header string) (*Context, error) {
	if header == "" || !strings.HasPrefix(strings.ToLower(header), bearerPrefix) {
		return &Context{}, nil
	}

	claims, err := r.tokens.Verify(header[len(bearerPrefix):])
	if err != nil {
		return nil, err
	}

	account, err := r.accounts.FindAccountByID(ctx, claims.AccountID, true)
	if err != nil {
		return nil, err
	}
	if account == nil {
		r.logger.Warn("Token references a missing account",
			zap.String("account_id", claims.AccountID),
		)
		return &Context{}, nil
	}

	return &Context{Account: account}, nil
}
