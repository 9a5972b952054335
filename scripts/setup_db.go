package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"stock-service/internal/config"

	"github.com/jackc/pgx/v5"
	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
)

const (
	schemaPath   = "database/schema.sql"
	setupTimeout = 30 * time.Second
)

var requiredTables = []string{"users", "audit_events"}

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: Error loading .env file: %v\n", err)
	}

	var cfg config.DatabaseConfig
	if err := envdecode.Decode(&cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		log.Fatalf("Failed to load database config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), setupTimeout)
	defer cancel()

	fmt.Println("=== Setting Up Database ===")
	fmt.Println()

	conn, err := pgx.Connect(ctx, cfg.DSN())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer conn.Close(context.Background())

	fmt.Println("Connected to database")

	schema, err := os.ReadFile(schemaPath)
	if err != nil {
		log.Fatalf("Failed to read schema file: %v", err)
	}

	fmt.Println("Executing schema...")
	if _, err := conn.Exec(ctx, string(schema)); err != nil {
		log.Fatalf("Failed to execute schema: %v", err)
	}
	fmt.Println("Schema executed successfully")
	fmt.Println()

	fmt.Println("=== Verifying Tables ===")
	missing := 0
	for _, table := range requiredTables {
		var exists bool
		query := `SELECT EXISTS (
			SELECT FROM information_schema.tables
			WHERE table_schema = 'public'
			AND table_name = $1
		)`
		if err := conn.QueryRow(ctx, query, table).Scan(&exists); err != nil {
			fmt.Printf("Error checking table '%s': %v\n", table, err)
			missing++
			continue
		}

		if exists {
			fmt.Printf("Table '%s' present\n", table)
		} else {
			fmt.Printf("Table '%s' NOT created\n", table)
			missing++
		}
	}

	fmt.Println()
	if missing > 0 {
		log.Fatalf("%d table(s) missing", missing)
	}
	fmt.Println("=== Database Setup Complete ===")
	fmt.Println()
	fmt.Println("Next: run 'go run ./cmd/stockservice' to start the server")
}
