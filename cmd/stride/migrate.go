package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/stridehq/stride/internal/adapter/postgres"
	"github.com/stridehq/stride/internal/config"
)

// runMigrate dispatches migration subcommands (up, down, status).
func runMigrate(args []string) error {
	if len(args) == 0 || args[0] == "help" || args[0] == "--help" {
		printMigrateHelp()
		return nil
	}

	switch args[0] {
	case "up":
		return runMigrateUp(args[1:])
	case "down":
		return runMigrateDown(args[1:])
	case "status":
		return runMigrateStatus(args[1:])
	default:
		printMigrateHelp()
		return fmt.Errorf("unknown migrate command: %s", args[0])
	}
}

func printMigrateHelp() {
	fmt.Fprintf(os.Stderr, `Usage: stride migrate <command> [options]

Commands:
  up       Apply all pending migrations
  down     Roll back the last N migrations
  status   Print the current migration version
  help     Show this help message

Examples:
  stride migrate up
  stride migrate down --steps 2
  stride migrate status
`)
}

func loadMigrateDSN() (string, error) {
	cfg, err := config.Load()
	if err != nil {
		return "", fmt.Errorf("load config: %w", err)
	}
	return cfg.Postgres.DSN, nil
}

func runMigrateUp(args []string) error {
	fs := flag.NewFlagSet("up", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	dsn, err := loadMigrateDSN()
	if err != nil {
		return err
	}

	if err := postgres.RunMigrations(context.Background(), dsn); err != nil {
		return fmt.Errorf("migrate up: %w", err)
	}

	fmt.Fprintln(os.Stderr, "Migrations applied.")
	return nil
}

func runMigrateDown(args []string) error {
	fs := flag.NewFlagSet("down", flag.ContinueOnError)
	steps := fs.Int("steps", 1, "number of migrations to roll back")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *steps < 1 {
		return fmt.Errorf("--steps must be at least 1")
	}

	dsn, err := loadMigrateDSN()
	if err != nil {
		return err
	}

	if err := postgres.RollbackMigrations(context.Background(), dsn, *steps); err != nil {
		return fmt.Errorf("migrate down: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Rolled back %d migration(s).\n", *steps)
	return nil
}

func runMigrateStatus(args []string) error {
	fs := flag.NewFlagSet("status", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	dsn, err := loadMigrateDSN()
	if err != nil {
		return err
	}

	version, err := postgres.MigrationVersion(context.Background(), dsn)
	if err != nil {
		return fmt.Errorf("migrate status: %w", err)
	}

	fmt.Printf("Current migration version: %d\n", version)
	return nil
}
