package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"

	"rbi-data/internal/config"
	"rbi-data/internal/database"
)

// Applies migrations/*.sql in lexical order. Each file runs inside one
// transaction; a failure stops the run.
func main() {
	dir := "migrations"
	if len(os.Args) > 1 {
		dir = os.Args[1]
	}

	files, err := filepath.Glob(filepath.Join(dir, "*.sql"))
	if err != nil || len(files) == 0 {
		log.Fatalf("no migration files found in %s", dir)
	}
	sort.Strings(files)

	cfg := config.Load()
	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		log.Fatalf("cannot connect to database: %v", err)
	}
	defer db.Close()

	for _, file := range files {
		sqlContent, err := os.ReadFile(file)
		if err != nil {
			log.Fatalf("failed to read %s: %v", file, err)
		}

		tx, err := db.Begin()
		if err != nil {
			log.Fatalf("failed to begin transaction: %v", err)
		}
		if _, err := tx.Exec(string(sqlContent)); err != nil {
			_ = tx.Rollback()
			log.Fatalf("failed to apply %s: %v", file, err)
		}
		if err := tx.Commit(); err != nil {
			log.Fatalf("failed to commit %s: %v", file, err)
		}
		fmt.Printf("applied %s\n", file)
	}
	fmt.Println("all migrations applied")
}
