// Package query turns list criteria into SQL over the contents table.
//
// Criteria are validated against a fixed set of fields. Translation and route
// fields are only reachable when the criteria pin a language with a "lang"
// equality filter, because both tables hold one row per language.
package query

import (
	"sort"
	"strings"
	"unicode"

	apperrors "github.com/Taichi-iskw/contentrepo/internal/errors"
)

// Operator is a comparison used by a Filter
type Operator string

// Supported operators
const (
	OpEq        Operator = "="
	OpNotEq     Operator = "!="
	OpLt        Operator = "<"
	OpLte       Operator = "<="
	OpGt        Operator = ">"
	OpGte       Operator = ">="
	OpIn        Operator = "IN"
	OpNotIn     Operator = "NOT IN"
	OpLike      Operator = "LIKE"
	OpILike     Operator = "ILIKE"
	OpIsNull    Operator = "IS NULL"
	OpIsNotNull Operator = "IS NOT NULL"
)

var operators = map[Operator]struct{}{
	OpEq: {}, OpNotEq: {}, OpLt: {}, OpLte: {}, OpGt: {}, OpGte: {},
	OpIn: {}, OpNotIn: {}, OpLike: {}, OpILike: {}, OpIsNull: {}, OpIsNotNull: {},
}

// ParseOperator normalizes op and reports whether it is supported.
// "<>" is accepted as an alias of "!=" and an empty operator means "=".
func ParseOperator(op string) (Operator, bool) {
	normalized := Operator(strings.ToUpper(strings.Join(strings.Fields(op), " ")))
	switch normalized {
	case "":
		return OpEq, true
	case "<>":
		return OpNotEq, true
	}
	_, ok := operators[normalized]
	return normalized, ok
}

// Direction is a sort direction
type Direction string

// Sort directions
const (
	Asc  Direction = "ASC"
	Desc Direction = "DESC"
)

// ParseDirection normalizes dir; an empty direction means ascending
func ParseDirection(dir string) (Direction, bool) {
	switch strings.ToUpper(strings.TrimSpace(dir)) {
	case "", "ASC":
		return Asc, true
	case "DESC":
		return Desc, true
	}
	return "", false
}

// Filter restricts results on one field
type Filter struct {
	Field string   `json:"field"`
	Op    Operator `json:"op"`
	Value any      `json:"value,omitempty"`
}

// Sort orders results on one field
type Sort struct {
	Field     string    `json:"field"`
	Direction Direction `json:"direction"`
}

// Criteria describes a filtered, sorted and paginated read
type Criteria struct {
	Filters  []Filter `json:"filters,omitempty"`
	Sorts    []Sort   `json:"sorts,omitempty"`
	Page     int      `json:"page"`
	PageSize int      `json:"page_size"`
}

// Eq returns an equality filter
func Eq(field string, value any) Filter {
	return Filter{Field: field, Op: OpEq, Value: value}
}

// WithFilter returns a copy of c with f appended
func (c Criteria) WithFilter(f Filter) Criteria {
	c.Filters = append(append([]Filter{}, c.Filters...), f)
	return c
}

// WithLang returns a copy of c pinned to lang, replacing any previous lang filter
func (c Criteria) WithLang(lang string) Criteria {
	filters := make([]Filter, 0, len(c.Filters)+1)
	for _, f := range c.Filters {
		if !isLangField(f.Field) {
			filters = append(filters, f)
		}
	}
	c.Filters = append(filters, Eq(FieldLang, lang))
	return c
}

// Lang returns the value of the first lang equality filter
func (c Criteria) Lang() string {
	for _, f := range c.Filters {
		if isLangField(f.Field) && (f.Op == OpEq || f.Op == "") {
			if lang, ok := f.Value.(string); ok {
				return lang
			}
		}
	}
	return ""
}

// FromLegacy converts the array-pair criteria form into Criteria.
//
// Each criteria entry is either a plain value compared with "=" or a map with
// "value" and an optional "relation" operator. Field names may be camelCase.
// orderBy holds [field, direction] pairs.
func FromLegacy(criteria map[string]any, orderBy [][2]string, page, pageSize int) (Criteria, error) {
	keys := make([]string, 0, len(criteria))
	for key := range criteria {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	result := Criteria{Page: page, PageSize: pageSize}
	for _, key := range keys {
		field := normalizeField(key)
		raw := criteria[key]

		filter := Filter{Field: field, Op: OpEq, Value: raw}
		if structured, ok := raw.(map[string]any); ok {
			filter.Value = structured["value"]
			if relation, ok := structured["relation"].(string); ok {
				op, valid := ParseOperator(relation)
				if !valid {
					return Criteria{}, apperrors.Newf(apperrors.CodeInvalidArg, "unsupported relation %q for %s", relation, key)
				}
				filter.Op = op
			}
		}
		result.Filters = append(result.Filters, filter)
	}

	for _, pair := range orderBy {
		dir, ok := ParseDirection(pair[1])
		if !ok {
			return Criteria{}, apperrors.Newf(apperrors.CodeInvalidArg, "unsupported sort direction %q", pair[1])
		}
		result.Sorts = append(result.Sorts, Sort{Field: normalizeField(pair[0]), Direction: dir})
	}
	return result, nil
}

// normalizeField converts each dotted segment of name from camelCase to snake_case
func normalizeField(name string) string {
	segments := strings.Split(strings.TrimSpace(name), ".")
	for i, segment := range segments {
		segments[i] = snakeCase(segment)
	}
	return strings.Join(segments, ".")
}

func snakeCase(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 4)
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
