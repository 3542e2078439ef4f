package content

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Taichi-iskw/contentrepo/internal/model"
	contentRepo "github.com/Taichi-iskw/contentrepo/internal/repository/content"
)

// NewListCommand creates the list content command
func NewListCommand(repo contentRepo.Repository, pageSize int) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List content nodes",
		Long: `List content nodes with filters, sorting and pagination.

Filters take the form FIELD OP VALUE where OP is one of =, !=, >, >=, <, <=, ~ (LIKE).
Translated fields such as translations.title and route.url require --lang.
A field written as name[] takes comma separated values, e.g. id[]=1,2,3.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := criteriaFromFlags(cmd); err != nil {
				return err
			}

			scope, _ := cmd.Flags().GetString("scope")
			byLevel, _ := cmd.Flags().GetBool("by-level")
			roots, _ := cmd.Flags().GetBool("roots")
			parentID, _ := cmd.Flags().GetInt64("parent")
			published, _ := cmd.Flags().GetBool("published")
			home, _ := cmd.Flags().GetBool("home")
			format, _ := cmd.Flags().GetString("format")

			formatter, err := GetFormatter(format)
			if err != nil {
				return err
			}

			return withRepository(repo, func(ctx context.Context, repo contentRepo.Repository) error {
				criteria, err := criteriaFromFlags(cmd)
				if err != nil {
					return err
				}

				var page *model.Page[*model.Content]
				switch {
				case home:
					page, err = repo.GetHomepageContents(ctx, criteria, nowUTC())
				case published:
					page, err = repo.GetPublishedContents(ctx, criteria, nowUTC())
				case parentID != 0:
					page, err = repo.GetChildren(ctx, parentID, criteria)
				case roots:
					page, err = repo.GetRoots(ctx, criteria)
				case byLevel:
					page, err = repo.GetContentsByLevel(ctx, criteria)
				case scope == "trashed":
					page, err = repo.GetDeletedContents(ctx, criteria)
				case scope == "all":
					page, err = repo.GetContentsWithTrashed(ctx, criteria)
				case scope == "active" || scope == "":
					page, err = repo.GetContents(ctx, criteria)
				default:
					return fmt.Errorf("unsupported scope: %s", scope)
				}
				if err != nil {
					return fmt.Errorf("failed to list contents: %w", err)
				}

				output, err := formatter.FormatContents(page, criteria.Lang())
				if err != nil {
					return fmt.Errorf("failed to format output: %w", err)
				}
				cmd.Print(output)
				return nil
			})
		},
	}

	// Add flags
	addCriteriaFlags(cmd, pageSize)
	cmd.Flags().String("scope", "active", "Which nodes to list (active, trashed, all)")
	cmd.Flags().Bool("by-level", false, "Order by tree level before other sorts")
	cmd.Flags().Bool("roots", false, "Only list root nodes")
	cmd.Flags().Int64("parent", 0, "Only list direct children of this node")
	cmd.Flags().Bool("published", false, "Only list published nodes")
	cmd.Flags().Bool("home", false, "Only list homepage nodes, sticky ones first")
	cmd.Flags().StringP("format", "f", "text", "Output format (text, json)")

	return cmd
}
