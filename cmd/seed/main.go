package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"phonebook-api/internal/store"
	"phonebook-api/pkg/config"
	"phonebook-api/pkg/logger"
)

func main() {
	username := flag.String("username", "root", "Account username to create")
	flag.Parse()

	// Initialize logger
	if err := logger.Init("development"); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Sync()

	log := logger.Get()
	log.Info("Starting database seeding...")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	// Initialize Neo4j driver
	driver, err := neo4j.NewDriverWithContext(
		cfg.Neo4jURI,
		neo4j.BasicAuth(cfg.Neo4jUser, cfg.Neo4jPassword, ""),
	)
	if err != nil {
		log.Fatal("Failed to create Neo4j driver", zap.Error(err))
	}
	defer driver.Close(context.Background())

	// Verify connection
	ctx := context.Background()
	if err := driver.VerifyConnectivity(ctx); err != nil {
		log.Fatal("Failed to verify Neo4j connectivity", zap.Error(err))
	}

	repo := store.NewRepository(driver)
	if err := repo.EnsureConstraints(ctx); err != nil {
		log.Fatal("Failed to ensure constraints", zap.Error(err))
	}

	contacts := []store.Contact{
		{
			Name:  "Arto Hellas",
			Phone: "040-123543",
			Address: store.Address{
				Street: "Tapiolankatu 5 A",
				City:   "Espoo",
			},
		},
		{
			Name:  "Matti Luukkainen",
			Phone: "040-432342",
			Address: store.Address{
				Street: "Malminkaari 10 A",
				City:   "Helsinki",
			},
		},
		{
			Name: "Venla Ruuska",
			Address: store.Address{
				Street: "Nallemäentie 22 C",
				City:   "Helsinki",
			},
		},
	}

	g, gctx := errgroup.WithContext(ctx)
	for i := range contacts {
		contact := &contacts[i]
		g.Go(func() error {
			if existing, err := repo.FindContactByName(gctx, contact.Name); err != nil {
				return err
			} else if existing != nil {
				log.Info("Contact already present", zap.String("name", contact.Name))
				return nil
			}
			return repo.SaveContact(gctx, contact)
		})
	}
	if err := g.Wait(); err != nil {
		log.Fatal("Failed to seed contacts", zap.Error(err))
	}

	existing, err := repo.FindAccountByUsername(ctx, *username)
	if err != nil {
		log.Fatal("Failed to look up account", zap.Error(err))
	}
	if existing == nil {
		account := &store.Account{Username: *username}
		if err := repo.SaveAccount(ctx, account); err != nil {
			log.Fatal("Failed to seed account", zap.Error(err))
		}
	}

	log.Info("Seeding complete",
		zap.Int("contacts", len(contacts)),
		zap.String("username", *username),
	)
}
