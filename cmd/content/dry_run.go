package content

import (
	"fmt"
	"strings"

	"github.com/Taichi-iskw/contentrepo/internal/model"
	"github.com/Taichi-iskw/contentrepo/internal/slug"
)

// FormatCreatePreview describes the node create would insert. The url shown is
// the bare slug; parent segments and numeric suffixes are resolved on save.
func FormatCreatePreview(input *model.CreateContentInput) string {
	var output strings.Builder

	output.WriteString("DRY RUN: Would create content\n")
	output.WriteString("=============================\n")
	output.WriteString(fmt.Sprintf("Type: %s\n", input.Type))
	output.WriteString(fmt.Sprintf("Parent: %s\n", formatParent(input.ParentID)))
	output.WriteString(fmt.Sprintf("Weight: %d\n", input.Weight))
	output.WriteString(fmt.Sprintf("Active: %t\n", input.IsActive))
	if t := input.Translation; t != nil {
		output.WriteString(fmt.Sprintf("Language: %s\n", t.LanguageCode))
		output.WriteString(fmt.Sprintf("Title: %s\n", t.Title))
		output.WriteString(fmt.Sprintf("URL slug: %s\n", slug.Make(t.Title)))
	}
	if _, ok := model.LookupContentType(input.Type); !ok {
		output.WriteString(fmt.Sprintf("Warning: unknown content type %q\n", input.Type))
	}

	output.WriteString("\nThis is a dry run - nothing was saved.\n")
	return output.String()
}
