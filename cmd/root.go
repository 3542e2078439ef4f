package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/Taichi-iskw/contentrepo/internal/log"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "contentrepo",
	Short: "Hierarchical, multilingual content repository",
	Long: `contentrepo manages a tree of content nodes backed by PostgreSQL:
translations per language, unique per-language urls, attached files,
soft deletion and criteria based listing.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if debug, _ := cmd.Flags().GetBool("debug"); debug {
			// the env override makes config loading keep the debug level
			if err := os.Setenv("CONTENTREPO_LOG_LEVEL", "debug"); err != nil {
				return err
			}
			return log.SetLevel("debug")
		}
		return nil
	},
}

// Execute adds all child commands to the root command and runs it
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
}
