package content

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Taichi-iskw/contentrepo/internal/config"
	"github.com/Taichi-iskw/contentrepo/internal/model"
	contentRepo "github.com/Taichi-iskw/contentrepo/internal/repository/content"
	"github.com/Taichi-iskw/contentrepo/internal/repository/file"
)

// NewFileCommand creates the file command group
func NewFileCommand(repo contentRepo.Repository) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "file",
		Short: "Manage files attached to a content node",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "add [CONTENT_ID] [FILE_ID...]",
		Short: "Attach files to a content node",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			contentID, fileIDs, err := contentAndFileIDs(args)
			if err != nil {
				return err
			}

			return withRepository(repo, func(ctx context.Context, repo contentRepo.Repository) error {
				files, err := repo.AddFiles(ctx, contentID, fileIDs)
				if err != nil {
					return fmt.Errorf("failed to add files: %w", err)
				}
				cmd.Printf("%d file(s) attached to content %d\n", len(files), contentID)
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "remove [CONTENT_ID] [FILE_ID...]",
		Short: "Detach files from a content node",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			contentID, fileIDs, err := contentAndFileIDs(args)
			if err != nil {
				return err
			}

			return withRepository(repo, func(ctx context.Context, repo contentRepo.Repository) error {
				if err := repo.RemoveFiles(ctx, contentID, fileIDs); err != nil {
					return fmt.Errorf("failed to remove files: %w", err)
				}
				cmd.Printf("%d file(s) detached from content %d\n", len(fileIDs), contentID)
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "weight [CONTENT_ID] [FILE_ID] [WEIGHT]",
		Short: "Change the position of an attached file",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDs("ID", args[:2])
			if err != nil {
				return err
			}
			weight, err := strconv.Atoi(args[2])
			if err != nil {
				return fmt.Errorf("invalid weight: %q", args[2])
			}

			return withRepository(repo, func(ctx context.Context, repo contentRepo.Repository) error {
				updated, err := repo.UpdateFile(ctx, ids[0], ids[1], weight)
				if err != nil {
					return fmt.Errorf("failed to update file: %w", err)
				}
				cmd.Printf("File %d of content %d now has weight %d\n", updated.ID, ids[0], weight)
				return nil
			})
		},
	})

	cmd.AddCommand(newFileListCommand(repo))

	return cmd
}

func newFileListCommand(repo contentRepo.Repository) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list [CONTENT_ID]",
		Short: "List files attached to a content node, lightest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			contentID, err := parseID("content ID", args[0])
			if err != nil {
				return err
			}

			criteria := file.Criteria{}
			criteria.Type, _ = cmd.Flags().GetString("type")
			criteria.Page, _ = cmd.Flags().GetInt("page")
			criteria.PageSize, _ = cmd.Flags().GetInt("page-size")

			format, _ := cmd.Flags().GetString("format")
			formatter, err := GetFormatter(format)
			if err != nil {
				return err
			}

			return withRepository(repo, func(ctx context.Context, repo contentRepo.Repository) error {
				page, err := repo.GetFiles(ctx, contentID, criteria)
				if err != nil {
					return fmt.Errorf("failed to list files: %w", err)
				}

				output, err := formatter.FormatFiles(page)
				if err != nil {
					return fmt.Errorf("failed to format output: %w", err)
				}
				cmd.Print(output)
				return nil
			})
		},
	}

	cmd.Flags().String("type", "", fmt.Sprintf("Only list files of this type (%s, %s, %s, %s)",
		model.FileTypeImage, model.FileTypeDocument, model.FileTypeVideo, model.FileTypeMusic))
	cmd.Flags().Int("page", 1, "Page number")
	cmd.Flags().Int("page-size", config.DefaultPageSize, "Items per page")
	cmd.Flags().StringP("format", "f", "text", "Output format (text, json)")

	return cmd
}

func contentAndFileIDs(args []string) (int64, []int64, error) {
	contentID, err := parseID("content ID", args[0])
	if err != nil {
		return 0, nil, err
	}
	fileIDs, err := parseIDs("file ID", args[1:])
	if err != nil {
		return 0, nil, err
	}
	return contentID, fileIDs, nil
}
