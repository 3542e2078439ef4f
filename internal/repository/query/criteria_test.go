package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/Taichi-iskw/contentrepo/internal/errors"
)

func TestFromLegacy(t *testing.T) {
	criteria, err := FromLegacy(
		map[string]any{
			"lang":                  "en",
			"type":                  map[string]any{"value": "category", "relation": "!="},
			"isActive":              true,
			"translations.seoTitle": map[string]any{"value": "%News%", "relation": "ilike"},
		},
		[][2]string{{"translations.title", "desc"}, {"createdAt", ""}},
		3, 15,
	)
	require.NoError(t, err)

	assert.Equal(t, Criteria{
		Filters: []Filter{
			{Field: "is_active", Op: OpEq, Value: true},
			{Field: "lang", Op: OpEq, Value: "en"},
			{Field: "translations.seo_title", Op: OpILike, Value: "%News%"},
			{Field: "type", Op: OpNotEq, Value: "category"},
		},
		Sorts: []Sort{
			{Field: "translations.title", Direction: Desc},
			{Field: "created_at", Direction: Asc},
		},
		Page:     3,
		PageSize: 15,
	}, criteria)

	_, err = NewBuilder(criteria, ScopeActive).Build()
	assert.NoError(t, err)
}

func TestFromLegacy_Errors(t *testing.T) {
	_, err := FromLegacy(map[string]any{"type": map[string]any{"value": "x", "relation": "~~"}}, nil, 1, 10)
	assert.True(t, apperrors.Is(err, apperrors.CodeInvalidArg))

	_, err = FromLegacy(nil, [][2]string{{"weight", "up"}}, 1, 10)
	assert.True(t, apperrors.Is(err, apperrors.CodeInvalidArg))
}

func TestCriteria_WithLang(t *testing.T) {
	base := Criteria{Filters: []Filter{Eq("lang", "en"), Eq("type", "content")}}

	pinned := base.WithLang("pl")
	assert.Equal(t, "pl", pinned.Lang())
	assert.Len(t, pinned.Filters, 2)
	assert.Equal(t, "en", base.Lang())
}

func TestParseOperator(t *testing.T) {
	tests := []struct {
		in     string
		want   Operator
		wantOK bool
	}{
		{in: "", want: OpEq, wantOK: true},
		{in: "<>", want: OpNotEq, wantOK: true},
		{in: "not  in", want: OpNotIn, wantOK: true},
		{in: "like", want: OpLike, wantOK: true},
		{in: "between", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			op, ok := ParseOperator(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, op)
			}
		})
	}
}
