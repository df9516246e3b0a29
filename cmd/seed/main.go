package main

import (
	"log"

	gormlogger "gorm.io/gorm/logger"

	"github.com/oggyb/muzz-web/internal/config"
	"github.com/oggyb/muzz-web/internal/db"
)

func main() {
	// Load configuration
	cfg := config.Load()

	database, err := db.NewDB(cfg, gormlogger.Warn)
	if err != nil {
		log.Fatalf("failed to init db: %v", err)
	}

	if err := db.SeedTestData(database); err != nil {
		log.Fatalf("failed to seed: %v", err)
	}

	log.Printf("Seeding completed. Every account's password is %q.", db.SeedPassword)
}
