package resolver

import (
	"context"

	"go.uber.org/zap"

	"phonebook-api/internal/store"
	"phonebook-api/pkg/logger"
)

// EntityStore is the document-store capability the resolvers run against
type EntityStore interface {
	CountContacts(ctx context.Context) (int64, error)
	FindContacts(ctx context.Context, filter store.PhoneFilter) ([]store.Contact, error)
	FindContactByName(ctx context.Context, name string) (*store.Contact, error)
	FindAccounts(ctx context.Context) ([]store.Account, error)
	FindAccountByUsername(ctx context.Context, username string) (*store.Account, error)
	FindAccountByID(ctx context.Context, id string, withFriends bool) (*store.Account, error)
	SaveContact(ctx context.Context, contact *store.Contact) error
	SaveAccount(ctx context.Context, account *store.Account) error
	AddFriend(ctx context.Context, accountID, contactID string) (*store.Account, error)
}

// TokenIssuer mints bearer tokens for a verified identity
type TokenIssuer interface {
	Issue(username, accountID string) (string, error)
}

// CredentialVerifier checks a login attempt against an account's
// credentials. Injected so the static shared secret can be replaced with
// per-account verification without touching the resolvers.
type CredentialVerifier interface {
	VerifyCredentials(ctx context.Context, account *store.Account, password string) error
}

// Token is the login result carrying a signed bearer token
type Token struct {
	Value string `json:"value"`
}

// Resolver holds the dependencies the query and mutation handlers need.
// Each handler is a pure function of its arguments and the auth context;
// no state is retained across invocations.
type Resolver struct {
	store       EntityStore
	tokens      TokenIssuer
	credentials CredentialVerifier
	logger      *zap.Logger
}

// NewResolver creates a resolver with its collaborators injected
func NewResolver(entityStore EntityStore, tokens TokenIssuer, credentials CredentialVerifier) *Resolver {
	return &Resolver{
		store:       entityStore,
		tokens:      tokens,
		credentials: credentials,
		logger:      logger.Get(),
	}
}
