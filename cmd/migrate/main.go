// Package main applies the schema migrations and exits.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"itemstore/migrations"
	"itemstore/pkg/migrator"
)

func main() {
	_ = godotenv.Load()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		fmt.Println("required environment variable DATABASE_URL not set")
		os.Exit(1)
	}

	if err := migrator.RunMigrations(dsn, migrations.FS); err != nil {
		fmt.Printf("migration failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("migrations applied")
}
