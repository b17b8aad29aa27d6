package resolver

import (
	"context"

	"phonebook-api/internal/auth"
	"phonebook-api/internal/store"
)

// ============================================================================
// Query Resolvers (no auth required)
// ============================================================================

// ContactCount returns the total number of contacts
func (r *Resolver) ContactCount(ctx context.Context) (int64, error) {
	return r.store.CountContacts(ctx)
}

// ListContacts returns all contacts, optionally filtered by phone presence
func (r *Resolver) ListContacts(ctx context.Context, phone store.PhoneFilter) ([]store.Contact, error) {
	return r.store.FindContacts(ctx, phone)
}

// FindContact returns the contact with the given name. Absence yields nil,
// not an error.
func (r *Resolver) FindContact(ctx context.Context, name string) (*store.Contact, error) {
	return r.store.FindContactByName(ctx, name)
}

// ListAccounts returns every registered account
func (r *Resolver) ListAccounts(ctx context.Context) ([]store.Account, error) {
	return r.store.FindAccounts(ctx)
}

// Me returns the account resolved for this request, or nil when anonymous.
// Anonymous is not an error.
func (r *Resolver) Me(ctx context.Context, authCtx *auth.Context) (*store.Account, error) {
	if !authCtx.Authenticated() {
		return nil, nil
	}
	return authCtx.Account, nil
}
