package main

import (
	"flag"
	"log"

	"github.com/pageza/nutriplan/backend/config"
	"github.com/pageza/nutriplan/backend/internal/database"
)

func main() {
	dir := flag.String("dir", "", "Migrations directory (defaults to MIGRATIONS_DIR or ./migrations)")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}
	if *dir != "" {
		cfg.MigrationsDir = *dir
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := database.RunMigrations(db.Gorm, cfg.MigrationsDir); err != nil {
		log.Fatalf("migration failed: %v", err)
	}
	log.Println("All migrations applied successfully.")
}
