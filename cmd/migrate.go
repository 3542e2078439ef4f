package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Taichi-iskw/contentrepo/internal/config"
	"github.com/Taichi-iskw/contentrepo/internal/database"
)

// migrateCmd represents the migrate command
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the database schema",
	Long:  `Apply or roll back the embedded schema migrations.`,
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMigrator(func(m *database.Migrator) error {
			if err := m.Up(); err != nil {
				return err
			}
			return printVersion(cmd, m)
		})
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		steps, _ := cmd.Flags().GetInt("steps")
		all, _ := cmd.Flags().GetBool("all")
		if all {
			steps = 0
		} else if steps <= 0 {
			return fmt.Errorf("--steps must be positive, use --all to roll back everything")
		}

		return withMigrator(func(m *database.Migrator) error {
			if err := m.Down(steps); err != nil {
				return err
			}
			return printVersion(cmd, m)
		})
	},
}

var migrateVersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show the current schema version",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMigrator(func(m *database.Migrator) error {
			return printVersion(cmd, m)
		})
	},
}

func withMigrator(fn func(m *database.Migrator) error) error {
	cfg, err := config.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	m, err := database.NewMigrator(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer m.Close()

	return fn(m)
}

func printVersion(cmd *cobra.Command, m *database.Migrator) error {
	status, err := m.Version()
	if err != nil {
		return err
	}

	if !status.Applied {
		cmd.Println("Schema version: none")
		return nil
	}
	cmd.Printf("Schema version: %d", status.Version)
	if status.Dirty {
		cmd.Print(" (dirty, fix the failed migration manually)")
	}
	cmd.Println()
	return nil
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.AddCommand(migrateUpCmd)
	migrateCmd.AddCommand(migrateDownCmd)
	migrateCmd.AddCommand(migrateVersionCmd)

	migrateDownCmd.Flags().Int("steps", 1, "Number of migrations to roll back")
	migrateDownCmd.Flags().Bool("all", false, "Roll back every migration")
}
