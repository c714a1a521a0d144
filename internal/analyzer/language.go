package analyzer

import (
	"fmt"
	"sort"
	"strings"

	textlang "golang.org/x/text/language"
)

// Language is the canonical key selecting a stopword list and casing rules.
type Language string

const (
	English Language = "english"
	French  Language = "french"
	Spanish Language = "spanish"
	Italian Language = "italian"
	German  Language = "german"
)

// Languages lists every supported language key.
var Languages = []Language{English, French, Spanish, Italian, German}

func (l Language) String() string {
	return string(l)
}

// Tag returns the BCP 47 tag used for case mapping.
func (l Language) Tag() textlang.Tag {
	switch l {
	case French:
		return textlang.French
	case Spanish:
		return textlang.Spanish
	case Italian:
		return textlang.Italian
	case German:
		return textlang.German
	default:
		return textlang.English
	}
}

// ParseLanguage matches a canonical key case-insensitively.
func ParseLanguage(s string) (Language, bool) {
	key := Language(strings.ToLower(strings.TrimSpace(s)))
	for _, l := range Languages {
		if l == key {
			return l, true
		}
	}
	return "", false
}

// DefaultLabels maps the language markers used in listing spreadsheets to
// language keys. The canonical keys resolve to themselves.
func DefaultLabels() map[string]Language {
	labels := map[string]Language{
		"法语":   French,
		"西班牙语": Spanish,
		"意大利语": Italian,
		"德语":   German,
		"英语":   English,
	}
	for _, l := range Languages {
		labels[string(l)] = l
	}
	return labels
}

// LabelTable resolves free-text language labels by exact match.
type LabelTable struct {
	labels map[string]Language
}

// NewLabelTable creates an empty label table.
func NewLabelTable() *LabelTable {
	return &LabelTable{labels: make(map[string]Language)}
}

// DefaultLabelTable returns a table loaded with DefaultLabels.
func DefaultLabelTable() *LabelTable {
	t := NewLabelTable()
	for label, lang := range DefaultLabels() {
		t.labels[label] = lang
	}
	return t
}

// Register maps label to lang, replacing any previous mapping for label.
func (t *LabelTable) Register(label string, lang Language) error {
	label = strings.TrimSpace(label)
	if label == "" {
		return fmt.Errorf("language label cannot be empty")
	}

	if _, ok := ParseLanguage(string(lang)); !ok {
		return fmt.Errorf("unsupported language %q for label %q", lang, label)
	}

	t.labels[label] = lang
	return nil
}

// Resolve trims label and looks it up. Unknown or empty labels are English.
func (t *LabelTable) Resolve(label string) Language {
	label = strings.TrimSpace(label)
	if label == "" {
		return English
	}
	if lang, ok := t.labels[label]; ok {
		return lang
	}
	return English
}

// Labels groups the registered labels by language, sorted.
func (t *LabelTable) Labels() map[Language][]string {
	result := make(map[Language][]string)
	for label, lang := range t.labels {
		result[lang] = append(result[lang], label)
	}
	for lang := range result {
		sort.Strings(result[lang])
	}
	return result
}

var defaultTable = DefaultLabelTable()

// ResolveLanguage resolves label against the default label table.
func ResolveLanguage(label string) Language {
	return defaultTable.Resolve(label)
}
