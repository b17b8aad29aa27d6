package auth

import (
	"context"
	"testing"

	"phonebook-api/internal/store"
	"phonebook-api/internal/token"
	apperrors "phonebook-api/pkg/errors"
)

// Mock implementations for testing

type mockAccountLoader struct {
	account *store.Account
	err     error
}

func (m *mockAccountLoader) FindAccountByID(ctx context.Context, id string, withFriends bool) (*store.Account, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.account != nil && m.account.ID == id {
		return m.account, nil
	}
	return nil, nil
}

type mockVerifier struct {
	claims *token.Claims
	err    error
}

func (m *mockVerifier) Verify(tokenString string) (*token.Claims, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.claims, nil
}

func TestResolver_Resolve_NoHeader(t *testing.T) {
	resolver := NewResolver(&mockAccountLoader{}, &mockVerifier{})

	authCtx, err := resolver.Resolve(context.Background(), "")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if authCtx.Authenticated() {
		t.Error("Expected anonymous context for missing header")
	}
}

func TestResolver_Resolve_NonBearerHeader(t *testing.T) {
	resolver := NewResolver(&mockAccountLoader{}, &mockVerifier{})

	authCtx, err := resolver.Resolve(context.Background(), "Basic dXNlcjpwYXNz")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if authCtx.Authenticated() {
		t.Error("Expected anonymous context for non-bearer header")
	}
}

func TestResolver_Resolve_InvalidToken(t *testing.T) {
	verifier := &mockVerifier{err: apperrors.NewInvalidTokenError("token is malformed", nil)}
	resolver := NewResolver(&mockAccountLoader{}, verifier)

	_, err := resolver.Resolve(context.Background(), "Bearer not-a-token")
	if err == nil {
		t.Fatal("Expected error for invalid token")
	}
	if !apperrors.IsInvalidToken(err) {
		t.Errorf("Expected InvalidTokenError, got %T", err)
	}
}

func TestResolver_Resolve_ValidToken(t *testing.T) {
	account := &store.Account{
		ID:       "account-1",
		Username: "mluukkai",
		Friends: []store.Contact{
			{ID: "contact-1", Name: "Arto Hellas"},
		},
	}
	verifier := &mockVerifier{claims: &token.Claims{Username: "mluukkai", AccountID: "account-1"}}
	resolver := NewResolver(&mockAccountLoader{account: account}, verifier)

	// Bearer prefix is matched case-insensitively
	for _, header := range []string{"Bearer token", "bearer token", "BEARER token"} {
		authCtx, err := resolver.Resolve(context.Background(), header)
		if err != nil {
			t.Fatalf("Resolve failed for header %q: %v", header, err)
		}
		if !authCtx.Authenticated() {
			t.Fatalf("Expected authenticated context for header %q", header)
		}
		if authCtx.Account.Username != "mluukkai" {
			t.Errorf("Expected username 'mluukkai', got '%s'", authCtx.Account.Username)
		}
		if len(authCtx.Account.Friends) != 1 {
			t.Errorf("Expected friends to be resolved, got %d", len(authCtx.Account.Friends))
		}
	}
}

func TestResolver_Resolve_VanishedAccount(t *testing.T) {
	// A verified token whose account no longer exists resolves to an
	// anonymous context, not an error
	verifier := &mockVerifier{claims: &token.Claims{Username: "ghost", AccountID: "gone"}}
	resolver := NewResolver(&mockAccountLoader{}, verifier)

	authCtx, err := resolver.Resolve(context.Background(), "Bearer token")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if authCtx.Authenticated() {
		t.Error("Expected anonymous context for vanished account")
	}
}
