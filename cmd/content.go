package cmd

import (
	"github.com/Taichi-iskw/contentrepo/cmd/content"
)

func init() {
	// nil repository: subcommands connect through the repository factory on demand
	rootCmd.AddCommand(content.NewContentCommand(nil))
}
