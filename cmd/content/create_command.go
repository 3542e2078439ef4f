package content

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Taichi-iskw/contentrepo/internal/model"
	contentRepo "github.com/Taichi-iskw/contentrepo/internal/repository/content"
)

// NewCreateCommand creates the create content command
func NewCreateCommand(repo contentRepo.Repository) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a content node with its first translation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			input, author, err := createInputFromFlags(cmd)
			if err != nil {
				return err
			}

			dryRun, _ := cmd.Flags().GetBool("dry-run")
			if dryRun {
				cmd.Print(FormatCreatePreview(input))
				return nil
			}

			return withRepository(repo, func(ctx context.Context, repo contentRepo.Repository) error {
				content, err := repo.Create(ctx, input, author)
				if err != nil {
					return fmt.Errorf("failed to create content: %w", err)
				}

				cmd.Printf("Content created successfully (ID: %d, URL: /%s)\n",
					content.ID, content.URLFor(input.Translation.LanguageCode))
				return nil
			})
		},
	}

	// Add flags
	cmd.Flags().String("type", "content", "Content type: content or category")
	cmd.Flags().String("title", "", "Title of the first translation")
	cmd.Flags().String("lang", "", "Language of the first translation")
	cmd.Flags().Int64("parent", 0, "Parent node ID, omit for a root node")
	cmd.Flags().Int("weight", 0, "Sort weight among siblings")
	cmd.Flags().Bool("active", true, "Whether the node is active")
	cmd.Flags().Bool("on-home", false, "Show the node on the homepage")
	cmd.Flags().Bool("sticky", false, "Keep the node on top of homepage listings")
	cmd.Flags().String("published-at", "", "Publication time in RFC3339")
	cmd.Flags().String("teaser", "", "Teaser of the first translation")
	cmd.Flags().String("body", "", "Body of the first translation")
	cmd.Flags().Int64("author-id", 0, "Author user ID")
	cmd.Flags().Bool("dry-run", false, "Show what would be created without saving to database")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("lang")

	return cmd
}

func createInputFromFlags(cmd *cobra.Command) (*model.CreateContentInput, *model.User, error) {
	contentType, _ := cmd.Flags().GetString("type")
	title, _ := cmd.Flags().GetString("title")
	lang, _ := cmd.Flags().GetString("lang")
	weight, _ := cmd.Flags().GetInt("weight")
	active, _ := cmd.Flags().GetBool("active")
	onHome, _ := cmd.Flags().GetBool("on-home")
	sticky, _ := cmd.Flags().GetBool("sticky")

	input := &model.CreateContentInput{
		Type:     contentType,
		Weight:   weight,
		IsActive: active,
		IsOnHome: onHome,
		IsSticky: sticky,
		Translation: &model.TranslationInput{
			LanguageCode: lang,
			Title:        title,
		},
	}

	if parentID, _ := cmd.Flags().GetInt64("parent"); parentID != 0 {
		input.ParentID = &parentID
	}

	publishedAt, err := publishedAtFromFlags(cmd)
	if err != nil {
		return nil, nil, err
	}
	input.PublishedAt = publishedAt

	if teaser, _ := cmd.Flags().GetString("teaser"); teaser != "" {
		input.Translation.Teaser = &teaser
	}
	if body, _ := cmd.Flags().GetString("body"); body != "" {
		input.Translation.Body = &body
	}

	var author *model.User
	if authorID, _ := cmd.Flags().GetInt64("author-id"); authorID != 0 {
		author = &model.User{ID: authorID}
	}

	return input, author, nil
}

// publishedAtFromFlags parses --published-at; "now" is accepted as a shortcut
func publishedAtFromFlags(cmd *cobra.Command) (*time.Time, error) {
	raw, _ := cmd.Flags().GetString("published-at")
	switch raw {
	case "":
		return nil, nil
	case "now":
		now := time.Now().UTC()
		return &now, nil
	}

	at, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, fmt.Errorf("invalid --published-at %q, expected RFC3339: %w", raw, err)
	}
	return &at, nil
}
