package content

import (
	"github.com/spf13/cobra"

	"github.com/Taichi-iskw/contentrepo/internal/config"
	contentRepo "github.com/Taichi-iskw/contentrepo/internal/repository/content"
)

// NewContentCommand creates the main content command.
// A nil repo makes every subcommand connect through the repository factory.
func NewContentCommand(repo contentRepo.Repository) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "content",
		Short: "Manage the content tree",
		Long:  `Create, read, move, translate and delete content nodes, their urls and files`,
	}

	// Add subcommands
	cmd.AddCommand(NewCreateCommand(repo))
	cmd.AddCommand(NewGetCommand(repo))
	cmd.AddCommand(NewListCommand(repo, config.DefaultPageSize))
	cmd.AddCommand(NewTreeCommand(repo))
	cmd.AddCommand(NewAncestorsCommand(repo))
	cmd.AddCommand(NewUpdateCommand(repo))
	cmd.AddCommand(NewDeleteCommand(repo))
	cmd.AddCommand(NewRestoreCommand(repo))
	cmd.AddCommand(NewForceDeleteCommand(repo))
	cmd.AddCommand(NewTranslationCommand(repo))
	cmd.AddCommand(NewRouteCommand(repo))
	cmd.AddCommand(NewFileCommand(repo))

	return cmd
}
