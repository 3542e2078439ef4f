package content

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	contentRepo "github.com/Taichi-iskw/contentrepo/internal/repository/content"
	"github.com/Taichi-iskw/contentrepo/internal/repository/query"
)

// repositoryRunner receives a ready repository and the command context
type repositoryRunner func(ctx context.Context, repo contentRepo.Repository) error

// withRepository runs fn with repo, or with a repository from the factory when repo is nil
func withRepository(repo contentRepo.Repository, fn repositoryRunner) error {
	ctx := context.Background()

	if repo == nil {
		connectCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()

		created, cleanup, err := NewRepositoryFactory().CreateRepository(connectCtx)
		if err != nil {
			return fmt.Errorf("failed to create content repository: %w", err)
		}
		defer cleanup()
		repo = created
	}

	return fn(ctx, repo)
}

// parseID parses a positive numeric id argument
func parseID(name, value string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", name, value)
	}
	return id, nil
}

// parseIDs parses every argument as an id
func parseIDs(name string, values []string) ([]int64, error) {
	ids := make([]int64, 0, len(values))
	for _, v := range values {
		id, err := parseID(name, v)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// filterOperators lists two-character operators before their one-character prefixes
var filterOperators = []struct {
	token string
	op    query.Operator
}{
	{">=", query.OpGte},
	{"<=", query.OpLte},
	{"!=", query.OpNotEq},
	{"~", query.OpLike},
	{"=", query.OpEq},
	{">", query.OpGt},
	{"<", query.OpLt},
}

// parseFilter parses expressions like "weight>=3", "translations.title~Example%" or "theme=null".
// The leftmost operator splits field from value. A field ending in "[]" with "="
// takes comma separated values and becomes an IN filter.
func parseFilter(expr string) (query.Filter, error) {
	at, token, op := -1, "", query.Operator("")
	for _, candidate := range filterOperators {
		idx := strings.Index(expr, candidate.token)
		if idx > 0 && (at < 0 || idx < at) {
			at, token, op = idx, candidate.token, candidate.op
		}
	}
	if at < 0 {
		return query.Filter{}, fmt.Errorf("invalid filter %q, expected FIELD OP VALUE", expr)
	}

	field := strings.TrimSpace(expr[:at])
	raw := strings.TrimSpace(expr[at+len(token):])

	if list, ok := strings.CutSuffix(field, "[]"); ok && op == query.OpEq {
		values := []any{}
		for _, part := range strings.Split(raw, ",") {
			values = append(values, parseValue(strings.TrimSpace(part)))
		}
		return query.Filter{Field: list, Op: query.OpIn, Value: values}, nil
	}
	return query.Filter{Field: field, Op: op, Value: parseValue(raw)}, nil
}

// parseValue turns a flag value into an int, bool, nil or string criteria value
func parseValue(raw string) any {
	if raw == "null" {
		return nil
	}
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return n
	}
	if b, err := strconv.ParseBool(raw); err == nil {
		return b
	}
	return raw
}

// parseSort parses "field" or "field:desc"
func parseSort(expr string) (query.Sort, error) {
	field, dir, _ := strings.Cut(expr, ":")
	direction, ok := query.ParseDirection(dir)
	if strings.TrimSpace(field) == "" || !ok {
		return query.Sort{}, fmt.Errorf("invalid sort %q, expected FIELD[:asc|desc]", expr)
	}
	return query.Sort{Field: strings.TrimSpace(field), Direction: direction}, nil
}

// criteriaFromFlags builds criteria from the shared list flags.
// Call it after the repository is created so the configured page size applies.
func criteriaFromFlags(cmd *cobra.Command) (query.Criteria, error) {
	var criteria query.Criteria

	filters, _ := cmd.Flags().GetStringArray("filter")
	for _, expr := range filters {
		f, err := parseFilter(expr)
		if err != nil {
			return criteria, err
		}
		criteria.Filters = append(criteria.Filters, f)
	}

	sorts, _ := cmd.Flags().GetStringArray("sort")
	for _, expr := range sorts {
		s, err := parseSort(expr)
		if err != nil {
			return criteria, err
		}
		criteria.Sorts = append(criteria.Sorts, s)
	}

	if lang, _ := cmd.Flags().GetString("lang"); lang != "" {
		criteria = criteria.WithLang(lang)
	}

	criteria.Page, _ = cmd.Flags().GetInt("page")
	criteria.PageSize, _ = cmd.Flags().GetInt("page-size")
	if !cmd.Flags().Changed("page-size") && configuredPageSize > 0 {
		criteria.PageSize = configuredPageSize
	}
	return criteria, nil
}

// addCriteriaFlags registers the flags read by criteriaFromFlags
func addCriteriaFlags(cmd *cobra.Command, pageSize int) {
	cmd.Flags().String("lang", "", "Language of translated fields and urls")
	cmd.Flags().StringArray("filter", nil, "Filter as FIELD OP VALUE, e.g. weight>=3 or translations.title~Example% (repeatable)")
	cmd.Flags().StringArray("sort", nil, "Sort as FIELD[:asc|desc] (repeatable)")
	cmd.Flags().Int("page", 1, "Page number")
	cmd.Flags().Int("page-size", pageSize, "Items per page, 0 lists everything")
}

// truncateString truncates a string to the specified length
func truncateString(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen]) + "..."
}

// nowUTC is the reference time for publication checks
var nowUTC = func() time.Time {
	return time.Now().UTC()
}
