package main

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"sparcsetl/internal/config"
)

const usage = "Usage: migrate [up|down|steps N|version]"

// Applies the compliance warehouse schema (runs, facility_submissions)
// from db/migrations.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("migrate: load config: %v", err)
	}

	m, err := migrate.New("file://db/migrations", cfg.DB.DSN())
	if err != nil {
		log.Fatalf("migrate: open warehouse %q: %v", cfg.DB.Name, err)
	}
	defer m.Close()

	if len(os.Args) < 2 {
		fmt.Println(usage)
		os.Exit(1)
	}

	switch cmd := os.Args[1]; cmd {
	case "up":
		if err := m.Up(); err != nil && err != migrate.ErrNoChange {
			log.Fatalf("migrate: up failed: %v", err)
		}
		log.Printf("migrate: warehouse %s schema is current", cfg.DB.Name)

	case "down":
		if err := m.Down(); err != nil && err != migrate.ErrNoChange {
			log.Fatalf("migrate: down failed: %v", err)
		}
		log.Printf("migrate: warehouse %s schema reverted", cfg.DB.Name)

	case "steps":
		if len(os.Args) < 3 {
			log.Fatal("migrate: steps requires a number argument")
		}
		n, err := strconv.Atoi(os.Args[2])
		if err != nil {
			log.Fatalf("migrate: invalid steps argument: %v", err)
		}
		if err := m.Steps(n); err != nil && err != migrate.ErrNoChange {
			log.Fatalf("migrate: steps failed: %v", err)
		}
		log.Printf("migrate: applied %d steps against warehouse %s", n, cfg.DB.Name)

	case "version":
		version, dirty, err := m.Version()
		if err != nil {
			log.Fatalf("migrate: read version: %v", err)
		}
		fmt.Printf("version: %d, dirty: %v\n", version, dirty)

	default:
		fmt.Printf("unknown command: %s\n%s\n", cmd, usage)
		os.Exit(1)
	}
}
