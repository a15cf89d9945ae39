package main

import (
	"flag" // Command line flags

	"budgetin/internal/config" // Custom import path (Config)
	"budgetin/internal/db"     // Custom import path (Database)

	"github.com/sirupsen/logrus" // Logrus for structured logging
)

// Main entry point for migration
func main() {
	seed := flag.Bool("seed", false, "create or refresh the admin account after migrating")
	flag.Parse()

	cfg, err := config.LoadConfig() // Load configuration
	if err != nil {
		logrus.Fatalf("failed to load config: %v", err)
	}
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	gdb, err := db.Open(cfg)
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		logrus.Fatalf("migration failed: %v", err)
	}
	if !*seed {
		return
	}
	if _, err := db.SeedAdmin(gdb, db.AdminSeedFromConfig(cfg)); err != nil {
		logrus.Fatalf("seeding failed: %v", err)
	}
}
