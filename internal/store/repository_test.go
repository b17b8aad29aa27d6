package store

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"golang.org/x/sync/errgroup"

	apperrors "phonebook-api/pkg/errors"
)

// These tests require a running Neo4j instance.
// Set NEO4J_URI, NEO4J_USER, NEO4J_PASSWORD environment variables.

func TestRepository_SaveAndFindContact(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	ctx := context.Background()
	repo, cleanup := newTestRepository(t)
	defer cleanup()

	name := testName("Arto Hellas")
	contact := &Contact{
		Name:  name,
		Phone: "040-123543",
		Address: Address{
			Street: "Tapiolankatu 5 A",
			City:   "Espoo",
		},
	}

	if err := repo.SaveContact(ctx, contact); err != nil {
		t.Fatalf("SaveContact failed: %v", err)
	}
	if contact.ID == "" {
		t.Fatal("Expected an id to be assigned on insert")
	}
	defer deleteContact(t, repo, contact.ID)

	found, err := repo.FindContactByName(ctx, name)
	if err != nil {
		t.Fatalf("FindContactByName failed: %v", err)
	}
	if found == nil {
		t.Fatal("Expected contact to be found")
	}
	if found.Address.Street != "Tapiolankatu 5 A" || found.Address.City != "Espoo" {
		t.Errorf("Expected address to be assembled from flat fields, got %+v", found.Address)
	}
}

func TestRepository_SaveContact_Validation(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	ctx := context.Background()
	repo, cleanup := newTestRepository(t)
	defer cleanup()

	err := repo.SaveContact(ctx, &Contact{Name: "incomplete"})
	if err == nil {
		t.Fatal("Expected validation error for missing address")
	}
	if !apperrors.IsValidation(err) {
		t.Errorf("Expected ValidationError, got %T", err)
	}
}

func TestRepository_FindContacts_PhoneFilter(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	ctx := context.Background()
	repo, cleanup := newTestRepository(t)
	defer cleanup()

	withPhone := &Contact{
		Name:    testName("with-phone"),
		Phone:   "040-123543",
		Address: Address{Street: "Street 1", City: "Espoo"},
	}
	withoutPhone := &Contact{
		Name:    testName("without-phone"),
		Address: Address{Street: "Street 2", City: "Helsinki"},
	}
	for _, c := range []*Contact{withPhone, withoutPhone} {
		if err := repo.SaveContact(ctx, c); err != nil {
			t.Fatalf("SaveContact failed: %v", err)
		}
		defer deleteContact(t, repo, c.ID)
	}

	yes, err := repo.FindContacts(ctx, PhoneFilterYes)
	if err != nil {
		t.Fatalf("FindContacts(YES) failed: %v", err)
	}
	if containsContact(yes, withoutPhone.ID) {
		t.Error("Phone-less contact returned by YES filter")
	}
	if !containsContact(yes, withPhone.ID) {
		t.Error("Contact with phone missing from YES filter")
	}

	no, err := repo.FindContacts(ctx, PhoneFilterNo)
	if err != nil {
		t.Fatalf("FindContacts(NO) failed: %v", err)
	}
	if containsContact(no, withPhone.ID) {
		t.Error("Contact with phone returned by NO filter")
	}
	if !containsContact(no, withoutPhone.ID) {
		t.Error("Phone-less contact missing from NO filter")
	}
}

func TestRepository_SaveAccount_DuplicateUsername(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	ctx := context.Background()
	repo, cleanup := newTestRepository(t)
	defer cleanup()

	username := testName("mluukkai")
	account := &Account{Username: username}
	if err := repo.SaveAccount(ctx, account); err != nil {
		t.Fatalf("SaveAccount failed: %v", err)
	}
	defer deleteAccount(t, repo, account.ID)

	err := repo.SaveAccount(ctx, &Account{Username: username})
	if err == nil {
		t.Fatal("Expected error for duplicate username")
	}
	if !apperrors.IsValidation(err) {
		t.Errorf("Expected ValidationError, got %T", err)
	}
}

func TestRepository_AddFriend_Idempotent(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	ctx := context.Background()
	repo, cleanup := newTestRepository(t)
	defer cleanup()

	account := &Account{Username: testName("mluukkai")}
	if err := repo.SaveAccount(ctx, account); err != nil {
		t.Fatalf("SaveAccount failed: %v", err)
	}
	defer deleteAccount(t, repo, account.ID)

	contact := &Contact{
		Name:    testName("Arto Hellas"),
		Address: Address{Street: "Tapiolankatu 5 A", City: "Espoo"},
	}
	if err := repo.SaveContact(ctx, contact); err != nil {
		t.Fatalf("SaveContact failed: %v", err)
	}
	defer deleteContact(t, repo, contact.ID)

	if _, err := repo.AddFriend(ctx, account.ID, contact.ID); err != nil {
		t.Fatalf("AddFriend failed: %v", err)
	}
	updated, err := repo.AddFriend(ctx, account.ID, contact.ID)
	if err != nil {
		t.Fatalf("Second AddFriend failed: %v", err)
	}

	occurrences := 0
	for _, f := range updated.Friends {
		if f.ID == contact.ID {
			occurrences++
		}
	}
	if occurrences != 1 {
		t.Errorf("Expected contact in friends exactly once, got %d", occurrences)
	}
}

func TestRepository_AddFriend_Concurrent(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	ctx := context.Background()
	repo, cleanup := newTestRepository(t)
	defer cleanup()

	account := &Account{Username: testName("mluukkai")}
	if err := repo.SaveAccount(ctx, account); err != nil {
		t.Fatalf("SaveAccount failed: %v", err)
	}
	defer deleteAccount(t, repo, account.ID)

	contact := &Contact{
		Name:    testName("Arto Hellas"),
		Address: Address{Street: "Tapiolankatu 5 A", City: "Espoo"},
	}
	if err := repo.SaveContact(ctx, contact); err != nil {
		t.Fatalf("SaveContact failed: %v", err)
	}
	defer deleteContact(t, repo, contact.ID)

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < 10; i++ {
		g.Go(func() error {
			_, err := repo.AddFriend(gctx, account.ID, contact.ID)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatalf("Concurrent AddFriend failed: %v", err)
	}

	if edges := countFriendEdges(t, repo, account.ID, contact.ID); edges != 1 {
		t.Errorf("Expected exactly one FRIEND edge after concurrent adds, got %d", edges)
	}
}

func TestRepository_FindAccountByID_NotFound(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	ctx := context.Background()
	repo, cleanup := newTestRepository(t)
	defer cleanup()

	account, err := repo.FindAccountByID(ctx, "non-existent", true)
	if err != nil {
		t.Fatalf("FindAccountByID failed: %v", err)
	}
	if account != nil {
		t.Errorf("Expected nil for absent account, got %v", account)
	}
}

// Test helpers

func newTestRepository(t *testing.T) (*Repository, func()) {
	t.Helper()

	uri := "bolt://localhost:7687"
	user := "neo4j"
	password := "password"

	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(user, password, ""))
	if err != nil {
		t.Fatalf("Failed to create driver: %v", err)
	}

	ctx := context.Background()
	if err := driver.VerifyConnectivity(ctx); err != nil {
		driver.Close(ctx)
		t.Fatalf("Failed to verify connectivity: %v", err)
	}

	repo := NewRepository(driver)
	if err := repo.EnsureConstraints(ctx); err != nil {
		driver.Close(ctx)
		t.Fatalf("Failed to ensure constraints: %v", err)
	}

	return repo, func() { _ = driver.Close(ctx) }
}

func testName(base string) string {
	return fmt.Sprintf("test-%s-%s", base, time.Now().Format("20060102150405.000"))
}

func deleteContact(t *testing.T, repo *Repository, id string) {
	t.Helper()
	ctx := context.Background()
	session := repo.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)
	_, _ = session.Run(ctx, "MATCH (c:Contact {id: $id}) DETACH DELETE c", map[string]interface{}{"id": id})
}

func deleteAccount(t *testing.T, repo *Repository, id string) {
	t.Helper()
	ctx := context.Background()
	session := repo.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)
	_, _ = session.Run(ctx, "MATCH (a:Account {id: $id}) DETACH DELETE a", map[string]interface{}{"id": id})
}

func countFriendEdges(t *testing.T, repo *Repository, accountID, contactID string) int64 {
	t.Helper()
	ctx := context.Background()
	session := repo.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)
	result, err := session.Run(ctx, `
		MATCH (a:Account {id: $account_id})-[f:FRIEND]->(c:Contact {id: $contact_id})
		RETURN count(f) as total
	`, map[string]interface{}{"account_id": accountID, "contact_id": contactID})
	if err != nil {
		t.Fatalf("Failed to count friend edges: %v", err)
	}
	record, err := result.Single(ctx)
	if err != nil {
		t.Fatalf("Failed to read edge count: %v", err)
	}
	return getInt64FromRecord(record, "total")
}

func containsContact(contacts []Contact, id string) bool {
	for _, c := range contacts {
		if c.ID == id {
			return true
		}
	}
	return false
}
