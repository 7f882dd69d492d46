package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"

	_ "github.com/lib/pq"
	"github.com/vncsmyrnk/tasks/internal/adapters/repository/postgres"
	"github.com/vncsmyrnk/tasks/internal/config"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("a command is required: up, down or status.")
	}
	command := os.Args[1]

	connStr, err := config.LoadDatabaseURL()
	if err != nil {
		log.Fatal(err)
	}

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	ctx := context.Background()
	switch command {
	case "up":
		err = postgres.RunMigrations(ctx, db)
	case "down":
		err = postgres.RollbackMigration(ctx, db)
	case "status":
		err = postgres.MigrationStatus(ctx, db)
	default:
		log.Fatalf("unknown command %q", command)
	}
	if err != nil {
		log.Fatalf("migration %s failed: %v", command, err)
	}

	fmt.Printf("Migration command %q executed successfully.\n", command)
}
