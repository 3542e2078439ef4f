package content

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/Taichi-iskw/contentrepo/internal/model"
)

// Formatter defines interface for output formatting
type Formatter interface {
	FormatContent(content *model.Content, lang string) (string, error)
	FormatContents(page *model.Page[*model.Content], lang string) (string, error)
	FormatTree(roots []*model.Content, lang string) (string, error)
	FormatTranslations(page *model.Page[*model.Translation]) (string, error)
	FormatFiles(page *model.Page[*model.File]) (string, error)
}

// TextFormatter formats output as plain text
type TextFormatter struct{}

// FormatContent formats one content node with its translations and urls
func (f *TextFormatter) FormatContent(content *model.Content, lang string) (string, error) {
	var output strings.Builder

	output.WriteString(fmt.Sprintf("Content ID: %d\n", content.ID))
	output.WriteString(fmt.Sprintf("Type: %s\n", content.Type))
	output.WriteString(fmt.Sprintf("Parent: %s\n", formatParent(content.ParentID)))
	output.WriteString(fmt.Sprintf("Path: %q (level %d)\n", content.Path, content.Level))
	output.WriteString(fmt.Sprintf("Weight: %d\n", content.Weight))
	output.WriteString(fmt.Sprintf("Active: %t\n", content.IsActive))
	if content.PublishedAt != nil {
		output.WriteString(fmt.Sprintf("Published At: %s\n", content.PublishedAt.Format(time.RFC3339)))
	}
	if content.Author != nil {
		output.WriteString(fmt.Sprintf("Author: %s <%s>\n", content.Author.Name, content.Author.Email))
	}
	if content.DeletedAt != nil {
		output.WriteString(fmt.Sprintf("Deleted At: %s\n", content.DeletedAt.Format(time.RFC3339)))
	}
	output.WriteString(fmt.Sprintf("Created At: %s\n", content.CreatedAt.Format(time.RFC3339)))

	if len(content.Translations) > 0 {
		output.WriteString("\nTranslations:\n")
		output.WriteString("=============\n")
		for _, t := range content.Translations {
			if lang != "" && t.LanguageCode != lang {
				continue
			}
			output.WriteString(fmt.Sprintf("[%s] %s\n", t.LanguageCode, t.Title))
			if url := content.URLFor(t.LanguageCode); url != "" {
				output.WriteString(fmt.Sprintf("    url: /%s\n", url))
			}
		}
	}

	return output.String(), nil
}

// FormatContents formats a page of content nodes as a table
func (f *TextFormatter) FormatContents(page *model.Page[*model.Content], lang string) (string, error) {
	if len(page.Items) == 0 {
		return "No contents found\n", nil
	}

	var output strings.Builder
	w := tabwriter.NewWriter(&output, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTYPE\tLEVEL\tWEIGHT\tACTIVE\tTITLE\tURL")
	for _, c := range page.Items {
		fmt.Fprintf(w, "%d\t%s\t%d\t%d\t%t\t%s\t%s\n",
			c.ID, c.Type, c.Level, c.Weight, c.IsActive, truncateString(titleOf(c, lang), 40), c.URLFor(lang))
	}
	if err := w.Flush(); err != nil {
		return "", fmt.Errorf("failed to render table: %w", err)
	}

	output.WriteString(fmt.Sprintf("\nPage %d of %d (%d total)\n", page.Page, page.TotalPages(), page.Total))
	return output.String(), nil
}

// FormatTree formats nested nodes with indentation
func (f *TextFormatter) FormatTree(roots []*model.Content, lang string) (string, error) {
	if len(roots) == 0 {
		return "No contents found\n", nil
	}

	var output strings.Builder
	var walk func(nodes []*model.Content, depth int)
	walk = func(nodes []*model.Content, depth int) {
		for _, c := range nodes {
			output.WriteString(fmt.Sprintf("%s- [%d] %s", strings.Repeat("  ", depth), c.ID, titleOf(c, lang)))
			if url := c.URLFor(lang); url != "" {
				output.WriteString(fmt.Sprintf(" (/%s)", url))
			}
			output.WriteString("\n")
			walk(c.Children, depth+1)
		}
	}
	walk(roots, 0)

	return output.String(), nil
}

// FormatTranslations formats a translation history
func (f *TextFormatter) FormatTranslations(page *model.Page[*model.Translation]) (string, error) {
	if len(page.Items) == 0 {
		return "No translations found\n", nil
	}

	var output strings.Builder
	for _, t := range page.Items {
		status := "inactive"
		if t.IsActive {
			status = "active"
		}
		output.WriteString(fmt.Sprintf("ID: %d\n", t.ID))
		output.WriteString(fmt.Sprintf("Language: %s (%s)\n", t.LanguageCode, status))
		output.WriteString(fmt.Sprintf("Title: %s\n", t.Title))
		if t.Teaser != nil {
			output.WriteString(fmt.Sprintf("Teaser: %s\n", truncateString(*t.Teaser, 100)))
		}
		output.WriteString(fmt.Sprintf("Created: %s\n", t.CreatedAt.Format("2006-01-02 15:04:05")))
		output.WriteString("---\n")
	}
	output.WriteString(fmt.Sprintf("Page %d of %d (%d total)\n", page.Page, page.TotalPages(), page.Total))
	return output.String(), nil
}

// FormatFiles formats the files attached to a node
func (f *TextFormatter) FormatFiles(page *model.Page[*model.File]) (string, error) {
	if len(page.Items) == 0 {
		return "No files found\n", nil
	}

	var output strings.Builder
	w := tabwriter.NewWriter(&output, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTYPE\tNAME\tSIZE\tWEIGHT")
	for _, file := range page.Items {
		weight := "-"
		if file.Weight != nil {
			weight = fmt.Sprint(*file.Weight)
		}
		fmt.Fprintf(w, "%d\t%s\t%s.%s\t%d\t%s\n", file.ID, file.Type, file.Name, file.Extension, file.Size, weight)
	}
	if err := w.Flush(); err != nil {
		return "", fmt.Errorf("failed to render table: %w", err)
	}
	return output.String(), nil
}

// JSONFormatter formats output as JSON
type JSONFormatter struct{}

// FormatContent formats content as JSON
func (f *JSONFormatter) FormatContent(content *model.Content, _ string) (string, error) {
	return marshal(content)
}

// FormatContents formats a page as JSON
func (f *JSONFormatter) FormatContents(page *model.Page[*model.Content], _ string) (string, error) {
	return marshal(page)
}

// FormatTree formats nested nodes as JSON
func (f *JSONFormatter) FormatTree(roots []*model.Content, _ string) (string, error) {
	return marshal(roots)
}

// FormatTranslations formats translations as JSON
func (f *JSONFormatter) FormatTranslations(page *model.Page[*model.Translation]) (string, error) {
	return marshal(page)
}

// FormatFiles formats files as JSON
func (f *JSONFormatter) FormatFiles(page *model.Page[*model.File]) (string, error) {
	return marshal(page)
}

func marshal(v any) (string, error) {
	jsonBytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return string(jsonBytes), nil
}

// GetFormatter returns the appropriate formatter based on format string
func GetFormatter(format string) (Formatter, error) {
	switch strings.ToLower(format) {
	case "text", "txt", "":
		return &TextFormatter{}, nil
	case "json":
		return &JSONFormatter{}, nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

// titleOf returns the title in lang, or in any language when lang has none
func titleOf(c *model.Content, lang string) string {
	if t := c.TranslationFor(lang, ""); t != nil {
		return t.Title
	}
	for _, t := range c.Translations {
		if t.IsActive {
			return t.Title
		}
	}
	return ""
}

func formatParent(parentID *int64) string {
	if parentID == nil {
		return "none (root)"
	}
	return fmt.Sprint(*parentID)
}
