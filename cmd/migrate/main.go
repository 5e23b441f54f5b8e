// Command migrate applies the SQL migrations under db/migrations without
// starting the HTTP server, for deploy pipelines and local setup.
package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log"

	"budget-engine/internal/config"
	"budget-engine/internal/database"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

func main() {
	statusOnly := flag.Bool("status", false, "print the current migration version and exit")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.Load()

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	runner := database.NewMigrationRunner(db)

	if err := runner.WaitForDatabase(); err != nil {
		log.Fatalf("Database readiness check failed: %v", err)
	}

	if *statusOnly {
		version, dirty, err := runner.Status()
		if err != nil {
			log.Fatalf("Failed to get migration status: %v", err)
		}
		fmt.Printf("version=%d dirty=%v\n", version, dirty)
		return
	}

	if err := runner.RunMigrations(); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
}
