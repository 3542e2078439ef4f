package content

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Taichi-iskw/contentrepo/internal/model"
	contentRepo "github.com/Taichi-iskw/contentrepo/internal/repository/content"
)

// NewGetCommand creates the get content command
func NewGetCommand(repo contentRepo.Repository) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get [CONTENT_ID]",
		Short: "Get a content node by ID or url",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			url, _ := cmd.Flags().GetString("url")
			lang, _ := cmd.Flags().GetString("lang")
			trashed, _ := cmd.Flags().GetBool("trashed")
			published, _ := cmd.Flags().GetBool("published")
			breadcrumbs, _ := cmd.Flags().GetBool("breadcrumbs")
			format, _ := cmd.Flags().GetString("format")

			if (len(args) == 0) == (url == "") {
				return fmt.Errorf("either CONTENT_ID or --url is required")
			}
			if url != "" && lang == "" {
				return fmt.Errorf("--lang is required with --url")
			}

			formatter, err := GetFormatter(format)
			if err != nil {
				return err
			}

			return withRepository(repo, func(ctx context.Context, repo contentRepo.Repository) error {
				var content *model.Content
				switch {
				case url != "" && published:
					content, err = repo.GetPublishedByURL(ctx, strings.TrimPrefix(url, "/"), lang, nowUTC())
				case url != "":
					content, err = repo.GetByURL(ctx, strings.TrimPrefix(url, "/"), lang)
				default:
					var id int64
					if id, err = parseID("content ID", args[0]); err != nil {
						return err
					}
					if trashed {
						content, err = repo.GetByIDWithTrashed(ctx, id)
					} else {
						content, err = repo.GetByID(ctx, id)
					}
				}
				if err != nil {
					return fmt.Errorf("failed to get content: %w", err)
				}

				output, err := formatter.FormatContent(content, lang)
				if err != nil {
					return fmt.Errorf("failed to format output: %w", err)
				}
				cmd.Print(output)

				if breadcrumbs && lang != "" {
					crumbs, err := repo.GetBreadcrumbs(ctx, content.ID, lang)
					if err != nil {
						return fmt.Errorf("failed to get breadcrumbs: %w", err)
					}
					cmd.Println()
					cmd.Println(formatBreadcrumbs(crumbs))
				}
				return nil
			})
		},
	}

	// Add flags
	cmd.Flags().String("url", "", "Look the node up by url instead of ID")
	cmd.Flags().String("lang", "", "Language of the url and shown translations")
	cmd.Flags().Bool("trashed", false, "Include soft-deleted nodes when looking up by ID")
	cmd.Flags().Bool("published", false, "Only find published nodes when looking up by url")
	cmd.Flags().Bool("breadcrumbs", false, "Print the breadcrumb trail, requires --lang")
	cmd.Flags().StringP("format", "f", "text", "Output format (text, json)")

	return cmd
}

func formatBreadcrumbs(crumbs []model.Breadcrumb) string {
	parts := make([]string, 0, len(crumbs))
	for _, c := range crumbs {
		if c.URL == "" {
			parts = append(parts, c.Title)
			continue
		}
		parts = append(parts, fmt.Sprintf("%s (/%s)", c.Title, c.URL))
	}
	return strings.Join(parts, " > ")
}
