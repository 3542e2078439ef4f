package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Taichi-iskw/contentrepo/internal/config"
	"github.com/Taichi-iskw/contentrepo/internal/repository/language"
)

// languageCmd represents the language command
var languageCmd = &cobra.Command{
	Use:   "language",
	Short: "Inspect the language registry",
}

var languageListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered languages",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		cfg, err := config.NewConfig()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		dbPool, err := config.NewDatabasePool(ctx, cfg)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer dbPool.Close()

		languages, err := language.NewRegistry(dbPool).List(ctx)
		if err != nil {
			return fmt.Errorf("failed to list languages: %w", err)
		}

		for _, lang := range languages {
			var flags string
			if lang.IsDefault {
				flags += " (default)"
			}
			if !lang.IsEnabled {
				flags += " (disabled)"
			}
			cmd.Printf("%s%s\n", lang.Code, flags)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(languageCmd)
	languageCmd.AddCommand(languageListCmd)
}
