package content

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Taichi-iskw/contentrepo/internal/model"
	contentRepo "github.com/Taichi-iskw/contentrepo/internal/repository/content"
)

// NewUpdateCommand creates the update content command. Only flags given on
// the command line are applied.
func NewUpdateCommand(repo contentRepo.Repository) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update [CONTENT_ID]",
		Short: "Update attributes or move a content node",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("content ID", args[0])
			if err != nil {
				return err
			}

			input, err := updateInputFromFlags(cmd)
			if err != nil {
				return err
			}

			return withRepository(repo, func(ctx context.Context, repo contentRepo.Repository) error {
				content, err := repo.Update(ctx, id, input)
				if err != nil {
					return fmt.Errorf("failed to update content: %w", err)
				}

				cmd.Printf("Content %d updated successfully (path: %q, level: %d)\n",
					content.ID, content.Path, content.Level)
				return nil
			})
		},
	}

	// Add flags
	cmd.Flags().Int64("parent", 0, "Move the node under this parent")
	cmd.Flags().Bool("root", false, "Detach the node and make it a root")
	cmd.Flags().Int("weight", 0, "Sort weight among siblings")
	cmd.Flags().Bool("active", true, "Whether the node is active")
	cmd.Flags().Bool("on-home", false, "Show the node on the homepage")
	cmd.Flags().Bool("sticky", false, "Keep the node on top of homepage listings")
	cmd.Flags().Bool("promoted", false, "Mark the node as promoted")
	cmd.Flags().String("theme", "", "Theme name")
	cmd.Flags().String("published-at", "", "Publication time in RFC3339, or now")
	cmd.Flags().Int64("file", 0, "Primary file ID, attached when not yet attached")
	cmd.MarkFlagsMutuallyExclusive("parent", "root")

	return cmd
}

func updateInputFromFlags(cmd *cobra.Command) (*model.UpdateContentInput, error) {
	flags := cmd.Flags()
	input := &model.UpdateContentInput{}
	changed := false

	if flags.Changed("parent") {
		parentID, _ := flags.GetInt64("parent")
		input.SetParent, input.ParentID = true, &parentID
		changed = true
	}
	if root, _ := flags.GetBool("root"); root {
		input.SetParent, input.ParentID = true, nil
		changed = true
	}
	if flags.Changed("weight") {
		weight, _ := flags.GetInt("weight")
		input.Weight = &weight
		changed = true
	}
	if flags.Changed("theme") {
		theme, _ := flags.GetString("theme")
		input.Theme = &theme
		changed = true
	}
	if flags.Changed("file") {
		fileID, _ := flags.GetInt64("file")
		input.FileID = &fileID
		changed = true
	}
	if flags.Changed("published-at") {
		publishedAt, err := publishedAtFromFlags(cmd)
		if err != nil {
			return nil, err
		}
		input.PublishedAt = publishedAt
		changed = true
	}

	for name, target := range map[string]**bool{
		"active":   &input.IsActive,
		"on-home":  &input.IsOnHome,
		"sticky":   &input.IsSticky,
		"promoted": &input.IsPromoted,
	} {
		if flags.Changed(name) {
			value, _ := flags.GetBool(name)
			*target = &value
			changed = true
		}
	}

	if !changed {
		return nil, fmt.Errorf("nothing to update, pass at least one flag")
	}
	return input, nil
}
