package store

import (
	"context"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	"phonebook-api/pkg/logger"
)

// Repository handles all Neo4j entity operations
type Repository struct {
	driver neo4j.DriverWithContext
	logger *zap.Logger
}

// NewRepository creates a new entity repository
func NewRepository(driver neo4j.DriverWithContext) *Repository {
	return &Repository{
		driver: driver,
		logger: logger.Get(),
	}
}

// Close closes the Neo4j driver connection
func (r *Repository) Close() error {
	return r.driver.Close(context.Background())
}

// EnsureConstraints creates the uniqueness constraints the data model
// depends on. Idempotent; safe to run at every startup.
func (r *Repository) EnsureConstraints(ctx context.Context) error {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	constraints := []string{
		`CREATE CONSTRAINT account_username_unique IF NOT EXISTS
		 FOR (a:Account) REQUIRE a.username IS UNIQUE`,
		`CREATE CONSTRAINT account_id_unique IF NOT EXISTS
		 FOR (a:Account) REQUIRE a.id IS UNIQUE`,
		`CREATE CONSTRAINT contact_id_unique IF NOT EXISTS
		 FOR (c:Contact) REQUIRE c.id IS UNIQUE`,
	}

	for _, stmt := range constraints {
		if _, err := session.Run(ctx, stmt, nil); err != nil {
			return err
		}
	}

	r.logger.Info("Schema constraints ensured")
	return nil
}
