package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"rbi-data/internal/config"
	"rbi-data/internal/database"
	"rbi-data/internal/logger"
	"rbi-data/internal/repository"
	"rbi-data/internal/service"
)

// Loads a PSGC publication workbook (xlsx) into the reference tables.
// Usage: import-psgc <workbook.xlsx>
func main() {
	if len(os.Args) < 2 {
		log.Fatalf("usage: %s <workbook.xlsx>", os.Args[0])
	}
	path := os.Args[1]

	fileBytes, err := os.ReadFile(path)
	if err != nil {
		log.Fatalf("failed to read %s: %v", path, err)
	}

	cfg := config.Load()
	zlog, err := logger.New(cfg.Log.Level, cfg.Log.Format, "import-psgc")
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer zlog.Sync()

	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		log.Fatalf("cannot connect to database: %v", err)
	}
	defer db.Close()

	psgcRepo := repository.NewPostgresPSGCRepository(db)
	residentsRepo := repository.NewPostgresResidentsRepository(db)
	householdsRepo := repository.NewPostgresHouseholdsRepository(db)
	reports := service.NewReportService(residentsRepo, householdsRepo, psgcRepo, zlog)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	imported, err := reports.ImportPSGCWorkbook(ctx, fileBytes)
	if err != nil {
		log.Fatalf("import failed: %v", err)
	}
	fmt.Printf("imported %d barangays from %s\n", imported, path)
}
