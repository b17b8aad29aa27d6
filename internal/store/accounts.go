package store

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	apperrors "phonebook-api/pkg/errors"
)

// ============================================================================
// Account Operations
// ============================================================================

// friendsProjection collects a FRIEND-edge ordered list of contact maps.
// Edge insertion time preserves the order friends were added in.
const friendsProjection = `
	OPTIONAL MATCH (a)-[f:FRIEND]->(c:Contact)
	WITH a, c, f ORDER BY f.since
	WITH a, collect({
		id: c.id, name: c.name, phone: c.phone,
		street: c.street, city: c.city
	}) as friends
`

// FindAccounts returns every registered account with friends resolved.
func (r *Repository) FindAccounts(ctx context.Context) ([]Account, error) {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	query := `
		MATCH (a:Account)
		` + friendsProjection + `
		RETURN a.id as id, a.username as username, a.created_at as created_at, friends
		ORDER BY username
	`

	result, err := session.Run(ctx, query, nil)
	if err != nil {
		return nil, apperrors.NewStoreError("find accounts", err)
	}

	accounts := []Account{}
	for result.Next(ctx) {
		record := result.Record()
		accounts = append(accounts, Account{
			ID:        getStringFromRecord(record, "id"),
			Username:  getStringFromRecord(record, "username"),
			Friends:   friendsFromRecord(record, "friends"),
			CreatedAt: getTimeFromRecord(record, "created_at"),
		})
	}
	if err := result.Err(); err != nil {
		return nil, apperrors.NewStoreError("find accounts", err)
	}

	return accounts, nil
}

// FindAccountByUsername returns the account with the given username, or nil
// when no such account exists. Absence is not an error.
func (r *Repository) FindAccountByUsername(ctx context.Context, username string) (*Account, error) {
	return r.findOneAccount(ctx, "username", username, false)
}

// FindAccountByID returns the account with the given id, or nil when absent.
// With withFriends set, each FRIEND edge is resolved to a full Contact in
// insertion order.
func (r *Repository) FindAccountByID(ctx context.Context, id string, withFriends bool) (*Account, error) {
	return r.findOneAccount(ctx, "id", id, withFriends)
}

func (r *Repository) findOneAccount(ctx context.Context, field, value string, withFriends bool) (*Account, error) {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	query := `MATCH (a:Account {` + field + `: $value})`
	if withFriends {
		query += friendsProjection + `
			RETURN a.id as id, a.username as username, a.created_at as created_at, friends
		`
	} else {
		query += `
			RETURN a.id as id, a.username as username, a.created_at as created_at
		`
	}
	query += `LIMIT 1`

	result, err := session.Run(ctx, query, map[string]interface{}{
		"value": value,
	})
	if err != nil {
		return nil, apperrors.NewStoreError("find account", err)
	}

	if result.Next(ctx) {
		record := result.Record()
		account := Account{
			ID:        getStringFromRecord(record, "id"),
			Username:  getStringFromRecord(record, "username"),
			Friends:   []Contact{},
			CreatedAt: getTimeFromRecord(record, "created_at"),
		}
		if withFriends {
			account.Friends = friendsFromRecord(record, "friends")
		}
		return &account, nil
	}
	if err := result.Err(); err != nil {
		return nil, apperrors.NewStoreError("find account", err)
	}

	return nil, nil
}

// SaveAccount inserts the account when it has no id. Username is required
// and must be unique; violations surface as ValidationError.
func (r *Repository) SaveAccount(ctx context.Context, account *Account) error {
	if account.Username == "" {
		return apperrors.NewValidationError("account validation failed", map[string]string{
			"username": "required",
		})
	}

	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	if account.ID == "" {
		existing, err := r.FindAccountByUsername(ctx, account.Username)
		if err != nil {
			return err
		}
		if existing != nil {
			return apperrors.NewValidationError("account validation failed", map[string]string{
				"username": "already taken",
			})
		}
		account.ID = uuid.NewString()
		account.CreatedAt = time.Now().UTC()
	}

	query := `
		MERGE (a:Account {id: $id})
		ON CREATE SET a.created_at = datetime($now)
		SET a.username = $username
		RETURN a.id as id
	`

	result, err := session.Run(ctx, query, map[string]interface{}{
		"id":       account.ID,
		"username": account.Username,
		"now":      time.Now().UTC().Format(time.RFC3339Nano),
	})
	if err != nil {
		return mapAccountWriteError(err)
	}
	if _, err := result.Single(ctx); err != nil {
		return mapAccountWriteError(err)
	}

	r.logger.Info("Account saved",
		zap.String("account_id", account.ID),
		zap.String("username", account.Username),
	)
	return nil
}

// mapAccountWriteError surfaces the uniqueness constraint as a
// ValidationError; the constraint backstops the pre-check under
// concurrent creates.
func mapAccountWriteError(err error) error {
	var neo4jErr *neo4j.Neo4jError
	if errors.As(err, &neo4jErr) && strings.Contains(neo4jErr.Code, "ConstraintValidationFailed") {
		return apperrors.NewValidationError("account validation failed", map[string]string{
			"username": "already taken",
		})
	}
	return apperrors.NewStoreError("save account", err)
}

// AddFriend links the contact to the account with an idempotent MERGE.
// The duplicate check and the write happen inside one transaction, so
// concurrent calls for the same pair cannot produce a second edge.
// Returns the account with friends resolved.
func (r *Repository) AddFriend(ctx context.Context, accountID, contactID string) (*Account, error) {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	query := `
		MATCH (a:Account {id: $accountID})
		MATCH (c:Contact {id: $contactID})
		MERGE (a)-[f:FRIEND]->(c)
		ON CREATE SET f.since = datetime($now)
		RETURN a.id as id
	`

	result, err := session.Run(ctx, query, map[string]interface{}{
		"accountID": accountID,
		"contactID": contactID,
		"now":       time.Now().UTC().Format(time.RFC3339Nano),
	})
	if err != nil {
		return nil, apperrors.NewStoreError("add friend", err)
	}
	if _, err := result.Single(ctx); err != nil {
		return nil, apperrors.NewStoreError("add friend", err)
	}

	r.logger.Info("Friend edge ensured",
		zap.String("account_id", accountID),
		zap.String("contact_id", contactID),
	)

	return r.FindAccountByID(ctx, accountID, true)
}
