package query

import (
	"fmt"
	"reflect"
	"strings"

	apperrors "github.com/Taichi-iskw/contentrepo/internal/errors"
	"github.com/Taichi-iskw/contentrepo/internal/repository"
)

// Scope selects rows by their soft-delete state
type Scope int

// Scopes
const (
	ScopeActive Scope = iota
	ScopeTrashed
	ScopeWithTrashed
)

// Statement is a built list query and its matching count query
type Statement struct {
	SQL       string
	Args      []any
	CountSQL  string
	CountArgs []any
	Lang      string
	Page      int
	PageSize  int // 0 when unpaged
}

type condition struct {
	sql  string
	args []any
}

// Builder assembles a content list query from Criteria
type Builder struct {
	criteria Criteria
	scope    Scope
	extra    []condition
	first    []Sort
}

// NewBuilder creates a builder for criteria within scope
func NewBuilder(criteria Criteria, scope Scope) *Builder {
	return &Builder{criteria: criteria, scope: scope}
}

// Where adds a raw condition over the c, u, t and rt aliases using ? placeholders
func (b *Builder) Where(sql string, args ...any) *Builder {
	b.extra = append(b.extra, condition{sql: sql, args: args})
	return b
}

// OrderFirst adds an order that takes precedence over the criteria sorts
func (b *Builder) OrderFirst(field string, dir Direction) *Builder {
	b.first = append(b.first, Sort{Field: field, Direction: dir})
	return b
}

// Build validates the criteria and renders the list and count statements
func (b *Builder) Build() (*Statement, error) {
	lang, err := b.validate()
	if err != nil {
		return nil, err
	}

	joins, joinArgs := b.joins(lang)

	conditions := make([]string, 0, len(b.criteria.Filters)+len(b.extra)+1)
	var whereArgs []any

	switch b.scope {
	case ScopeActive:
		conditions = append(conditions, "c.deleted_at IS NULL")
	case ScopeTrashed:
		conditions = append(conditions, "c.deleted_at IS NOT NULL")
	}

	for _, f := range b.criteria.Filters {
		def, _ := lookupField(f.Field)
		if def.kind == kindLang {
			continue
		}
		sql, args, err := renderFilter(def.column, f)
		if err != nil {
			return nil, err
		}
		conditions = append(conditions, sql)
		whereArgs = append(whereArgs, args...)
	}

	for _, c := range b.extra {
		conditions = append(conditions, "("+c.sql+")")
		whereArgs = append(whereArgs, c.args...)
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	orderBy, err := b.orderBy()
	if err != nil {
		return nil, err
	}

	from := " FROM contents c LEFT JOIN users u ON u.id = c.author_id" + joins
	args := append(append([]any{}, joinArgs...), whereArgs...)

	stmt := &Statement{
		CountSQL:  repository.Rebind("SELECT COUNT(*)" + from + where),
		CountArgs: args,
		Lang:      lang,
	}

	list := "SELECT " + repository.ContentColumns + from + where + " ORDER BY " + orderBy
	listArgs := append([]any{}, args...)
	if b.criteria.PageSize > 0 {
		page, pageSize, offset := repository.Offset(b.criteria.Page, b.criteria.PageSize)
		list += " LIMIT ? OFFSET ?"
		listArgs = append(listArgs, pageSize, offset)
		stmt.Page = page
		stmt.PageSize = pageSize
	} else {
		stmt.Page = 1
	}

	stmt.SQL = repository.Rebind(list)
	stmt.Args = listArgs
	return stmt, nil
}

// validate checks fields, operators and the lang rule, returning the pinned language
func (b *Builder) validate() (string, error) {
	lang := ""
	needsLang := false

	for _, f := range b.criteria.Filters {
		def, ok := lookupField(f.Field)
		if !ok {
			return "", apperrors.Newf(apperrors.CodeInvalidArg, "unknown criteria field: %s", f.Field)
		}
		switch def.kind {
		case kindLang:
			value, isString := f.Value.(string)
			if (f.Op != OpEq && f.Op != "") || !isString || strings.TrimSpace(value) == "" {
				return "", apperrors.New(apperrors.CodeInvalidArg, "Language code is required")
			}
			if lang != "" && lang != value {
				return "", apperrors.New(apperrors.CodeInvalidArg, "only one language can be selected")
			}
			lang = value
		case kindTranslation, kindRoute:
			needsLang = true
		}
	}

	for _, s := range append(append([]Sort{}, b.first...), b.criteria.Sorts...) {
		def, ok := lookupField(s.Field)
		if !ok {
			return "", apperrors.Newf(apperrors.CodeInvalidArg, "unknown sort field: %s", s.Field)
		}
		if def.kind == kindTranslation || def.kind == kindRoute || def.kind == kindLang {
			needsLang = true
		}
	}

	if needsLang && lang == "" {
		return "", apperrors.New(apperrors.CodeInvalidArg, "'lang' criteria is required")
	}
	return lang, nil
}

// joins returns the translation and route joins needed for lang
func (b *Builder) joins(lang string) (string, []any) {
	if lang == "" {
		return "", nil
	}

	joins := " LEFT JOIN content_translations t ON t.content_id = c.id AND t.language_code = ? AND t.is_active"
	args := []any{lang}

	if b.usesRoute() {
		joins += " LEFT JOIN routes r ON r.content_id = c.id" +
			" LEFT JOIN route_translations rt ON rt.route_id = r.id AND rt.language_code = ? AND rt.is_active"
		args = append(args, lang)
	}
	return joins, args
}

func (b *Builder) usesRoute() bool {
	for _, f := range b.criteria.Filters {
		if def, ok := lookupField(f.Field); ok && def.kind == kindRoute {
			return true
		}
	}
	for _, s := range append(append([]Sort{}, b.first...), b.criteria.Sorts...) {
		if def, ok := lookupField(s.Field); ok && def.kind == kindRoute {
			return true
		}
	}
	return false
}

// orderBy renders leading orders, criteria sorts or the default, and the id tiebreaker
func (b *Builder) orderBy() (string, error) {
	sorts := append([]Sort{}, b.first...)
	if len(b.criteria.Sorts) > 0 {
		sorts = append(sorts, b.criteria.Sorts...)
	} else {
		sorts = append(sorts, Sort{Field: "weight", Direction: Asc}, Sort{Field: "created_at", Direction: Desc})
	}

	parts := make([]string, 0, len(sorts)+1)
	seen := make(map[string]struct{}, len(sorts))
	for _, s := range sorts {
		def, _ := lookupField(s.Field)
		if _, dup := seen[def.column]; dup {
			continue
		}
		seen[def.column] = struct{}{}

		dir, ok := ParseDirection(string(s.Direction))
		if !ok {
			return "", apperrors.Newf(apperrors.CodeInvalidArg, "unsupported sort direction %q", s.Direction)
		}
		parts = append(parts, def.column+" "+string(dir))
	}

	if _, ok := seen["c.id"]; !ok {
		parts = append(parts, "c.id ASC")
	}
	return strings.Join(parts, ", "), nil
}

// renderFilter renders one comparison with ? placeholders
func renderFilter(column string, f Filter) (string, []any, error) {
	op, ok := ParseOperator(string(f.Op))
	if !ok {
		return "", nil, apperrors.Newf(apperrors.CodeInvalidArg, "unsupported operator %q for %s", f.Op, f.Field)
	}

	if f.Value == nil {
		switch op {
		case OpEq:
			op = OpIsNull
		case OpNotEq:
			op = OpIsNotNull
		}
	}

	switch op {
	case OpIsNull, OpIsNotNull:
		return column + " " + string(op), nil, nil
	case OpIn, OpNotIn:
		values, err := sliceValues(f)
		if err != nil {
			return "", nil, err
		}
		if len(values) == 0 {
			if op == OpIn {
				return "FALSE", nil, nil
			}
			return "TRUE", nil, nil
		}
		placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(values)), ", ")
		return fmt.Sprintf("%s %s (%s)", column, op, placeholders), values, nil
	case OpNotEq:
		return column + " <> ?", []any{f.Value}, nil
	default:
		if f.Value == nil {
			return "", nil, apperrors.Newf(apperrors.CodeInvalidArg, "operator %s on %s needs a value", op, f.Field)
		}
		return column + " " + string(op) + " ?", []any{f.Value}, nil
	}
}

func sliceValues(f Filter) ([]any, error) {
	v := reflect.ValueOf(f.Value)
	if !v.IsValid() || (v.Kind() != reflect.Slice && v.Kind() != reflect.Array) {
		return nil, apperrors.Newf(apperrors.CodeInvalidArg, "operator %s on %s needs a list value", f.Op, f.Field)
	}

	values := make([]any, v.Len())
	for i := range values {
		values[i] = v.Index(i).Interface()
	}
	return values, nil
}
