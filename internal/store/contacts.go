package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	apperrors "phonebook-api/pkg/errors"
)

// ============================================================================
// Contact Operations
// ============================================================================

const contactReturn = `
	RETURN c.id as id, c.name as name, c.phone as phone,
	       c.street as street, c.city as city, c.created_at as created_at
`

// CountContacts returns the number of contact nodes
func (r *Repository) CountContacts(ctx context.Context) (int64, error) {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	result, err := session.Run(ctx, `MATCH (c:Contact) RETURN count(c) as total`, nil)
	if err != nil {
		return 0, apperrors.NewStoreError("count contacts", err)
	}

	record, err := result.Single(ctx)
	if err != nil {
		return 0, apperrors.NewStoreError("count contacts", err)
	}

	return getInt64FromRecord(record, "total"), nil
}

// FindContacts returns contacts, optionally filtered by phone presence.
// Results are ordered by creation time.
func (r *Repository) FindContacts(ctx context.Context, filter PhoneFilter) ([]Contact, error) {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	var predicate string
	switch filter {
	case PhoneFilterYes:
		predicate = "WHERE c.phone IS NOT NULL"
	case PhoneFilterNo:
		predicate = "WHERE c.phone IS NULL"
	}

	query := fmt.Sprintf(`
		MATCH (c:Contact)
		%s
		WITH c ORDER BY c.created_at
		%s
	`, predicate, contactReturn)

	result, err := session.Run(ctx, query, nil)
	if err != nil {
		return nil, apperrors.NewStoreError("find contacts", err)
	}

	contacts := []Contact{}
	for result.Next(ctx) {
		contacts = append(contacts, contactFromRecord(result.Record()))
	}
	if err := result.Err(); err != nil {
		return nil, apperrors.NewStoreError("find contacts", err)
	}

	return contacts, nil
}

// FindContactByName returns the contact with the given name, or nil when
// no such contact exists. Absence is not an error.
func (r *Repository) FindContactByName(ctx context.Context, name string) (*Contact, error) {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	query := `MATCH (c:Contact {name: $name})` + contactReturn + `LIMIT 1`

	result, err := session.Run(ctx, query, map[string]interface{}{
		"name": name,
	})
	if err != nil {
		return nil, apperrors.NewStoreError("find contact", err)
	}

	if result.Next(ctx) {
		contact := contactFromRecord(result.Record())
		return &contact, nil
	}
	if err := result.Err(); err != nil {
		return nil, apperrors.NewStoreError("find contact", err)
	}

	return nil, nil
}

// SaveContact inserts the contact when it has no id, or persists field
// mutations otherwise. Required fields (name, street, city) are validated
// before any write; a partially populated address is never stored.
func (r *Repository) SaveContact(ctx context.Context, contact *Contact) error {
	if err := validateContact(contact); err != nil {
		return err
	}

	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	insert := contact.ID == ""
	if insert {
		contact.ID = uuid.NewString()
		contact.CreatedAt = time.Now().UTC()
	}

	query := `
		MERGE (c:Contact {id: $id})
		ON CREATE SET c.created_at = datetime($now)
		SET c.name = $name,
		    c.street = $street,
		    c.city = $city,
		    c.phone = CASE WHEN $phone = '' THEN null ELSE $phone END
		RETURN c.id as id
	`

	result, err := session.Run(ctx, query, map[string]interface{}{
		"id":     contact.ID,
		"name":   contact.Name,
		"phone":  contact.Phone,
		"street": contact.Address.Street,
		"city":   contact.Address.City,
		"now":    time.Now().UTC().Format(time.RFC3339Nano),
	})
	if err != nil {
		return apperrors.NewStoreError("save contact", err)
	}
	if _, err := result.Single(ctx); err != nil {
		return apperrors.NewStoreError("save contact", err)
	}

	if insert {
		r.logger.Info("Contact created",
			zap.String("contact_id", contact.ID),
			zap.String("name", contact.Name),
		)
	}
	return nil
}

func validateContact(contact *Contact) error {
	invalid := map[string]string{}
	if contact.Name == "" {
		invalid["name"] = "required"
	}
	if contact.Address.Street == "" {
		invalid["street"] = "required"
	}
	if contact.Address.City == "" {
		invalid["city"] = "required"
	}
	if len(invalid) > 0 {
		return apperrors.NewValidationError("contact validation failed", invalid)
	}
	return nil
}
