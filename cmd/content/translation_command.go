package content

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Taichi-iskw/contentrepo/internal/config"
	"github.com/Taichi-iskw/contentrepo/internal/model"
	contentRepo "github.com/Taichi-iskw/contentrepo/internal/repository/content"
	"github.com/Taichi-iskw/contentrepo/internal/repository/translation"
)

// NewTranslationCommand creates the translation command group
func NewTranslationCommand(repo contentRepo.Repository) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "translation",
		Short: "Manage translations of a content node",
	}

	cmd.AddCommand(newTranslationCreateCommand(repo))
	cmd.AddCommand(newTranslationGetCommand(repo))
	cmd.AddCommand(newTranslationListCommand(repo))
	cmd.AddCommand(newTranslationDeleteCommand(repo))

	return cmd
}

func newTranslationCreateCommand(repo contentRepo.Repository) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create [CONTENT_ID]",
		Short: "Add a new active translation, keeping the current url",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			contentID, err := parseID("content ID", args[0])
			if err != nil {
				return err
			}

			lang, _ := cmd.Flags().GetString("lang")
			title, _ := cmd.Flags().GetString("title")
			input := &model.TranslationInput{LanguageCode: lang, Title: title}
			if teaser, _ := cmd.Flags().GetString("teaser"); teaser != "" {
				input.Teaser = &teaser
			}
			if body, _ := cmd.Flags().GetString("body"); body != "" {
				input.Body = &body
			}
			if authorID, _ := cmd.Flags().GetInt64("author-id"); authorID != 0 {
				input.AuthorID = &authorID
			}

			return withRepository(repo, func(ctx context.Context, repo contentRepo.Repository) error {
				created, err := repo.CreateTranslation(ctx, contentID, input)
				if err != nil {
					return fmt.Errorf("failed to create translation: %w", err)
				}
				cmd.Printf("Translation created successfully (ID: %d, Language: %s)\n",
					created.ID, created.LanguageCode)
				return nil
			})
		},
	}

	cmd.Flags().String("lang", "", "Language of the translation")
	cmd.Flags().String("title", "", "Title")
	cmd.Flags().String("teaser", "", "Teaser")
	cmd.Flags().String("body", "", "Body")
	cmd.Flags().Int64("author-id", 0, "Author user ID")
	_ = cmd.MarkFlagRequired("lang")
	_ = cmd.MarkFlagRequired("title")

	return cmd
}

func newTranslationGetCommand(repo contentRepo.Repository) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get [CONTENT_ID] [TRANSLATION_ID]",
		Short: "Get one translation of a content node",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDs("ID", args)
			if err != nil {
				return err
			}
			format, _ := cmd.Flags().GetString("format")
			formatter, err := GetFormatter(format)
			if err != nil {
				return err
			}

			return withRepository(repo, func(ctx context.Context, repo contentRepo.Repository) error {
				found, err := repo.GetContentTranslationByID(ctx, ids[0], ids[1])
				if err != nil {
					return fmt.Errorf("failed to get translation: %w", err)
				}

				page := &model.Page[*model.Translation]{Items: []*model.Translation{found}, Total: 1, Page: 1, PageSize: 1}
				output, err := formatter.FormatTranslations(page)
				if err != nil {
					return fmt.Errorf("failed to format output: %w", err)
				}
				cmd.Print(output)
				return nil
			})
		},
	}

	cmd.Flags().StringP("format", "f", "text", "Output format (text, json)")

	return cmd
}

func newTranslationListCommand(repo contentRepo.Repository) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list [CONTENT_ID]",
		Short: "List the translation history of a content node",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			contentID, err := parseID("content ID", args[0])
			if err != nil {
				return err
			}

			criteria := translation.Criteria{}
			criteria.Lang, _ = cmd.Flags().GetString("lang")
			criteria.Page, _ = cmd.Flags().GetInt("page")
			criteria.PageSize, _ = cmd.Flags().GetInt("page-size")
			if cmd.Flags().Changed("active") {
				active, _ := cmd.Flags().GetBool("active")
				criteria.IsActive = &active
			}

			format, _ := cmd.Flags().GetString("format")
			formatter, err := GetFormatter(format)
			if err != nil {
				return err
			}

			return withRepository(repo, func(ctx context.Context, repo contentRepo.Repository) error {
				page, err := repo.GetTranslations(ctx, contentID, criteria)
				if err != nil {
					return fmt.Errorf("failed to list translations: %w", err)
				}

				output, err := formatter.FormatTranslations(page)
				if err != nil {
					return fmt.Errorf("failed to format output: %w", err)
				}
				cmd.Print(output)
				return nil
			})
		},
	}

	cmd.Flags().String("lang", "", "Only list translations in this language")
	cmd.Flags().Bool("active", false, "Only list active (true) or inactive (false) translations")
	cmd.Flags().Int("page", 1, "Page number")
	cmd.Flags().Int("page-size", config.DefaultPageSize, "Items per page")
	cmd.Flags().StringP("format", "f", "text", "Output format (text, json)")

	return cmd
}

func newTranslationDeleteCommand(repo contentRepo.Repository) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete [CONTENT_ID] [TRANSLATION_ID]",
		Short: "Delete an inactive translation",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDs("ID", args)
			if err != nil {
				return err
			}

			if !confirm(cmd, fmt.Sprintf("Are you sure you want to delete translation %d? (y/N): ", ids[1])) {
				cmd.Println("Deletion cancelled")
				return nil
			}

			return withRepository(repo, func(ctx context.Context, repo contentRepo.Repository) error {
				if err := repo.DeleteTranslation(ctx, ids[0], ids[1]); err != nil {
					return fmt.Errorf("failed to delete translation: %w", err)
				}
				cmd.Printf("Translation %d deleted successfully\n", ids[1])
				return nil
			})
		},
	}

	cmd.Flags().Bool("force", false, "Skip confirmation")

	return cmd
}
