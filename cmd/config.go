package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Taichi-iskw/contentrepo/internal/config"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration settings",
	Long:  `Manage configuration settings for contentrepo.`,
}

// configInitCmd represents the config init command
var configInitCmd = &cobra.Command{
	Use:   "init [DATABASE_URL]",
	Short: "Initialize configuration file",
	Long:  `Create a new configuration file with database and event settings.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var databaseURL string
		if len(args) > 0 {
			databaseURL = args[0]
		}
		redisURL, _ := cmd.Flags().GetString("redis-url")

		if err := config.InitConfig(databaseURL, redisURL); err != nil {
			return err
		}

		configPath, err := config.GetConfigPath()
		if err != nil {
			return err
		}

		cmd.Printf("Created configuration file: %s\n", configPath)
		cmd.Println("Please edit the database_url in this file to match your PostgreSQL database.")

		return nil
	},
}

// configShowCmd represents the config show command
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  `Display the configuration file path and the effective settings, environment overrides included.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, err := config.GetConfigPath()
		if err != nil {
			return err
		}

		cmd.Printf("Configuration file: %s\n\n", configPath)

		// Load and display current config
		cfg, err := config.NewConfig()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		cmd.Printf("DATABASE_URL: %s\n", cfg.DatabaseURL)
		cmd.Printf("REDIS_URL: %s\n", valueOrUnset(cfg.RedisURL))
		cmd.Printf("CONTENTREPO_EVENT_CHANNEL: %s\n", cfg.EventChannel)
		cmd.Printf("CONTENTREPO_PAGE_SIZE: %d\n", cfg.PageSize)
		cmd.Printf("CONTENTREPO_LOG_LEVEL: %s\n", cfg.LogLevel)

		return nil
	},
}

func valueOrUnset(v string) string {
	if v == "" {
		return "(not set, events are only logged)"
	}
	return v
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)

	configInitCmd.Flags().String("redis-url", "", "Redis url for publishing content events")
}
