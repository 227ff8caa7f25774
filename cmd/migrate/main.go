package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/url"
	"os"
	"strconv"

	"github.com/fixmyward/fixmyward/internal/pkg/database"
	"github.com/fixmyward/fixmyward/internal/pkg/env"
	"github.com/fixmyward/fixmyward/internal/pkg/wards"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/spf13/cobra"
)

var migrationsDir string

var rootCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the FixMyWard database schema",
	Long: `Apply and inspect SQL migrations for the relational backends.

DB_DRIVER selects the migration set (mysql or postgres). The connection
is built from DB_HOST, DB_PORT, DB_USER, DB_PASSWORD and DB_NAME.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		env.SetupEnvFile()
	},
}

var upCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMigrate(func(m *migrate.Migrate) error {
			err := m.Up()
			if errors.Is(err, migrate.ErrNoChange) {
				log.Println("No changes: database is up to date")
				return nil
			}
			if err != nil {
				return fmt.Errorf("apply migrations: %w", err)
			}
			log.Println("Migrations applied")
			return nil
		})
	},
}

var downCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back the latest migration",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMigrate(func(m *migrate.Migrate) error {
			if err := m.Steps(-1); err != nil {
				return fmt.Errorf("roll back latest migration: %w", err)
			}
			log.Println("Rolled back latest migration")
			return nil
		})
	},
}

var gotoCmd = &cobra.Command{
	Use:   "goto <version>",
	Short: "Migrate up or down to a version",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		version, err := strconv.ParseUint(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid version %q: %w", args[0], err)
		}
		return withMigrate(func(m *migrate.Migrate) error {
			err := m.Migrate(uint(version))
			if errors.Is(err, migrate.ErrNoChange) {
				log.Printf("No changes: database is already at version %d", version)
				return nil
			}
			if err != nil {
				return fmt.Errorf("migrate to version %d: %w", version, err)
			}
			log.Printf("Migrated to version %d", version)
			return nil
		})
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current migration version",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMigrate(func(m *migrate.Migrate) error {
			version, dirty, err := m.Version()
			if errors.Is(err, migrate.ErrNilVersion) {
				log.Println("No migrations have been applied")
				return nil
			}
			if err != nil {
				return fmt.Errorf("read migration version: %w", err)
			}
			suffix := ""
			if dirty {
				suffix = " (dirty)"
			}
			log.Printf("Current migration version: %d%s", version, suffix)
			return nil
		})
	},
}

var seedWardsCmd = &cobra.Command{
	Use:   "seed-wards",
	Short: "Insert or update the built-in ward directory",
	Long:  "Works against every DB_DRIVER, including mongo and sqlite.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		repos, closeDB, err := database.SetupRepositories(ctx)
		if err != nil {
			return err
		}
		defer closeDB()

		list, err := wards.LoadDefaults()
		if err != nil {
			return err
		}
		if err := wards.NewDirectory(repos.Ward, nil).Seed(ctx, list); err != nil {
			return err
		}
		log.Printf("Seeded %d wards", len(list))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&migrationsDir, "dir", "migrations", "directory holding the per-driver migration sets")
	rootCmd.AddCommand(upCmd, downCmd, gotoCmd, statusCmd, seedWardsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// databaseURL builds the golang-migrate URL for the configured driver.
func databaseURL(driver string) (string, error) {
	user := url.UserPassword(env.GetEnv("DB_USER", ""), env.GetEnv("DB_PASSWORD", ""))
	host := env.GetEnv("DB_HOST", "127.0.0.1")
	name := env.GetEnv("DB_NAME", "fixmyward")

	switch driver {
	case database.DriverMySQL:
		return fmt.Sprintf("mysql://%s@tcp(%s:%s)/%s?multiStatements=true",
			user.String(), host, env.GetEnv("DB_PORT", "3306"), name), nil
	case database.DriverPostgres:
		return fmt.Sprintf("postgres://%s@%s:%s/%s?sslmode=%s",
			user.String(), host, env.GetEnv("DB_PORT", "5432"), name, env.GetEnv("DB_SSLMODE", "disable")), nil
	}
	return "", fmt.Errorf("no SQL migrations for DB_DRIVER %q", driver)
}

func withMigrate(fn func(m *migrate.Migrate) error) error {
	driver := database.Driver()
	dbURL, err := databaseURL(driver)
	if err != nil {
		return err
	}

	log.Printf("Connecting to %s database %s@%s/%s", driver,
		env.GetEnv("DB_USER", ""), env.GetEnv("DB_HOST", "127.0.0.1"), env.GetEnv("DB_NAME", "fixmyward"))

	m, err := migrate.New("file://"+migrationsDir+"/"+driver, dbURL)
	if err != nil {
		return fmt.Errorf("initialise migrations: %w", err)
	}
	defer func() {
		if sourceErr, dbErr := m.Close(); sourceErr != nil || dbErr != nil {
			log.Printf("Failed to close migration resources: %v, %v", sourceErr, dbErr)
		}
	}()

	return fn(m)
}
