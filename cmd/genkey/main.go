package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/JungUiJin/faicial-ai-test/internal/config"
	"github.com/JungUiJin/faicial-ai-test/internal/database"
	"github.com/JungUiJin/faicial-ai-test/internal/domain"
	"github.com/JungUiJin/faicial-ai-test/internal/repository"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	name := flag.String("name", "default", "Human readable key name")
	env := flag.String("env", domain.EnvLive, "Key environment: test or live")
	store := flag.Bool("store", true, "Insert the key into DATABASE_URL")
	hashOnly := flag.String("hash", "", "Print the stored hash of an existing key and exit")
	flag.Parse()

	if *hashOnly != "" {
		if !domain.IsValidFormat(*hashOnly) {
			return domain.ErrInvalidAPIKeyFormat
		}
		fmt.Printf("HASH=%s\n", domain.HashAPIKey(*hashOnly))
		return nil
	}

	key, hash, prefix, err := domain.GenerateAPIKey(*env)
	if err != nil {
		return err
	}

	if *store {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if !cfg.HasDatabase() {
			return fmt.Errorf("DATABASE_URL is required (use -store=false to only print a key)")
		}

		ctx := context.Background()
		pool, err := database.NewPool(ctx, database.DefaultPoolConfig(cfg.DatabaseURL))
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer pool.Close()

		apiKey := &domain.APIKey{
			Name:        *name,
			KeyHash:     hash,
			KeyPrefix:   prefix,
			Environment: *env,
			IsActive:    true,
		}
		if err := repository.NewAPIKeyRepository(pool).Create(ctx, apiKey); err != nil {
			return fmt.Errorf("failed to store key: %w", err)
		}
		fmt.Printf("ID=%s\n", apiKey.ID)
	}

	fmt.Printf("KEY=%s\nHASH=%s\nPREFIX=%s\n", key, hash, prefix)
	return nil
}
