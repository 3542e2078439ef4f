package content

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	contentRepo "github.com/Taichi-iskw/contentrepo/internal/repository/content"
)

// NewDeleteCommand creates the soft delete command
func NewDeleteCommand(repo contentRepo.Repository) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete [CONTENT_ID]",
		Short: "Move a content node and its subtree to the trash",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("content ID", args[0])
			if err != nil {
				return err
			}

			if !confirm(cmd, fmt.Sprintf("Are you sure you want to delete content %d and its subtree? (y/N): ", id)) {
				cmd.Println("Deletion cancelled")
				return nil
			}

			return withRepository(repo, func(ctx context.Context, repo contentRepo.Repository) error {
				if err := repo.Delete(ctx, id); err != nil {
					return fmt.Errorf("failed to delete content: %w", err)
				}
				cmd.Printf("Content %d moved to trash\n", id)
				return nil
			})
		},
	}

	// Add flags
	cmd.Flags().Bool("force", false, "Skip confirmation")

	return cmd
}

// NewRestoreCommand creates the restore command
func NewRestoreCommand(repo contentRepo.Repository) *cobra.Command {
	return &cobra.Command{
		Use:   "restore [CONTENT_ID]",
		Short: "Restore a trashed node and the descendants trashed with it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("content ID", args[0])
			if err != nil {
				return err
			}

			return withRepository(repo, func(ctx context.Context, repo contentRepo.Repository) error {
				content, err := repo.Restore(ctx, id)
				if err != nil {
					return fmt.Errorf("failed to restore content: %w", err)
				}
				cmd.Printf("Content %d restored successfully\n", content.ID)
				return nil
			})
		},
	}
}

// NewForceDeleteCommand creates the permanent delete command
func NewForceDeleteCommand(repo contentRepo.Repository) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "force-delete [CONTENT_ID]",
		Short: "Permanently remove a node, its subtree, translations, urls and file links",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("content ID", args[0])
			if err != nil {
				return err
			}

			if !confirm(cmd, fmt.Sprintf("Permanently delete content %d and its subtree? This cannot be undone. (y/N): ", id)) {
				cmd.Println("Deletion cancelled")
				return nil
			}

			return withRepository(repo, func(ctx context.Context, repo contentRepo.Repository) error {
				if err := repo.ForceDelete(ctx, id); err != nil {
					return fmt.Errorf("failed to delete content: %w", err)
				}
				cmd.Printf("Content %d deleted permanently\n", id)
				return nil
			})
		},
	}

	// Add flags
	cmd.Flags().Bool("force", false, "Skip confirmation")

	return cmd
}

// confirm asks a y/N question unless --force is set
func confirm(cmd *cobra.Command, question string) bool {
	if force, _ := cmd.Flags().GetBool("force"); force {
		return true
	}

	cmd.Print(question)
	var response string
	fmt.Fscanln(cmd.InOrStdin(), &response)

	return response == "y" || response == "Y" || response == "yes"
}
