package content

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	contentRepo "github.com/Taichi-iskw/contentrepo/internal/repository/content"
)

// NewRouteCommand creates the route command group
func NewRouteCommand(repo contentRepo.Repository) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "route",
		Short: "Manage the urls of content nodes",
	}

	regenerate := &cobra.Command{
		Use:   "regenerate [CONTENT_ID]",
		Short: "Rebuild the url in a language from the active translation title",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			contentID, err := parseID("content ID", args[0])
			if err != nil {
				return err
			}
			lang, _ := cmd.Flags().GetString("lang")

			return withRepository(repo, func(ctx context.Context, repo contentRepo.Repository) error {
				route, err := repo.RegenerateRoute(ctx, contentID, lang)
				if err != nil {
					return fmt.Errorf("failed to regenerate route: %w", err)
				}
				cmd.Printf("Route regenerated: /%s (%s)\n", route.URL, route.LanguageCode)
				return nil
			})
		},
	}
	regenerate.Flags().String("lang", "", "Language of the url")
	_ = regenerate.MarkFlagRequired("lang")

	cmd.AddCommand(regenerate)
	return cmd
}
