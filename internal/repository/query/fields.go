package query

// FieldLang is the language criterion. It selects which translation and route
// rows are joined and is never compared in the WHERE clause.
const FieldLang = "lang"

type fieldKind int

const (
	kindCore fieldKind = iota
	kindTranslation
	kindRoute
	kindAuthor
	kindLang
)

type field struct {
	column string
	kind   fieldKind
}

var fields = map[string]field{
	"id":                 {"c.id", kindCore},
	"type":               {"c.type", kindCore},
	"theme":              {"c.theme", kindCore},
	"weight":             {"c.weight", kindCore},
	"rating":             {"c.rating", kindCore},
	"visits":             {"c.visits", kindCore},
	"is_on_home":         {"c.is_on_home", kindCore},
	"is_comment_allowed": {"c.is_comment_allowed", kindCore},
	"is_promoted":        {"c.is_promoted", kindCore},
	"is_sticky":          {"c.is_sticky", kindCore},
	"is_active":          {"c.is_active", kindCore},
	"published_at":       {"c.published_at", kindCore},
	"parent_id":          {"c.parent_id", kindCore},
	"path":               {"c.path", kindCore},
	"level":              {"c.level", kindCore},
	"author_id":          {"c.author_id", kindCore},
	"file_id":            {"c.file_id", kindCore},
	"created_at":         {"c.created_at", kindCore},
	"updated_at":         {"c.updated_at", kindCore},
	"deleted_at":         {"c.deleted_at", kindCore},

	"translations.title":           {"t.title", kindTranslation},
	"translations.teaser":          {"t.teaser", kindTranslation},
	"translations.body":            {"t.body", kindTranslation},
	"translations.seo_title":       {"t.seo_title", kindTranslation},
	"translations.seo_description": {"t.seo_description", kindTranslation},
	"translations.is_active":       {"t.is_active", kindTranslation},

	FieldLang:                    {"t.language_code", kindLang},
	"translations.lang":          {"t.language_code", kindLang},
	"lang_code":                  {"t.language_code", kindLang},
	"translations.lang_code":     {"t.language_code", kindLang},
	"translations.language_code": {"t.language_code", kindLang},

	"route.url": {"rt.url", kindRoute},

	"author.email": {"u.email", kindAuthor},
	"author.name":  {"u.name", kindAuthor},
}

func lookupField(name string) (field, bool) {
	f, ok := fields[name]
	return f, ok
}

func isLangField(name string) bool {
	f, ok := fields[name]
	return ok && f.kind == kindLang
}

// Fields returns the names accepted in filters and sorts
func Fields() []string {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	return names
}
