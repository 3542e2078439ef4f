package content

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Taichi-iskw/contentrepo/internal/model"
	contentRepo "github.com/Taichi-iskw/contentrepo/internal/repository/content"
)

// NewTreeCommand creates the tree command
func NewTreeCommand(repo contentRepo.Repository) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Print active nodes nested under their parents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			criteria, err := criteriaFromFlags(cmd)
			if err != nil {
				return err
			}
			criteria.PageSize = 0

			format, _ := cmd.Flags().GetString("format")
			formatter, err := GetFormatter(format)
			if err != nil {
				return err
			}

			var rootID *int64
			if id, _ := cmd.Flags().GetInt64("root"); id != 0 {
				rootID = &id
			}

			return withRepository(repo, func(ctx context.Context, repo contentRepo.Repository) error {
				nodes, err := repo.GetTree(ctx, rootID, criteria)
				if err != nil {
					return fmt.Errorf("failed to get tree: %w", err)
				}

				output, err := formatter.FormatTree(nodes, criteria.Lang())
				if err != nil {
					return fmt.Errorf("failed to format output: %w", err)
				}
				cmd.Print(output)
				return nil
			})
		},
	}

	// Add flags
	addCriteriaFlags(cmd, 0)
	cmd.Flags().Int64("root", 0, "Only print the subtree below this node")
	cmd.Flags().StringP("format", "f", "text", "Output format (text, json)")

	return cmd
}

// NewAncestorsCommand creates the ancestors command
func NewAncestorsCommand(repo contentRepo.Repository) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ancestors [CONTENT_ID]",
		Short: "List the ancestors of a node from the root down",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("content ID", args[0])
			if err != nil {
				return err
			}
			lang, _ := cmd.Flags().GetString("lang")
			format, _ := cmd.Flags().GetString("format")
			formatter, err := GetFormatter(format)
			if err != nil {
				return err
			}

			return withRepository(repo, func(ctx context.Context, repo contentRepo.Repository) error {
				ancestors, err := repo.GetAncestors(ctx, id)
				if err != nil {
					return fmt.Errorf("failed to get ancestors: %w", err)
				}

				page := &model.Page[*model.Content]{Items: ancestors, Total: len(ancestors), Page: 1}
				output, err := formatter.FormatContents(page, lang)
				if err != nil {
					return fmt.Errorf("failed to format output: %w", err)
				}
				cmd.Print(output)
				return nil
			})
		},
	}

	cmd.Flags().String("lang", "", "Language of shown titles and urls")
	cmd.Flags().StringP("format", "f", "text", "Output format (text, json)")

	return cmd
}
