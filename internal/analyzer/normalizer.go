package analyzer

import (
	"strings"
	"unicode"

	"github.com/jinzhu/inflection"
	"golang.org/x/text/cases"
)

// Normalizer reduces a token to the form used for duplicate comparison.
//
// English plural rules are applied to every language. This matches how the
// listings have always been checked; it is only approximate for French,
// Spanish, Italian and German.
type Normalizer struct {
	caser    cases.Caser
	singular func(string) string
}

// NewNormalizer returns a normalizer lowercasing with lang's casing rules.
func NewNormalizer(lang Language) *Normalizer {
	return &Normalizer{
		caser:    cases.Lower(lang.Tag()),
		singular: inflection.Singular,
	}
}

// Normalize strips everything but letters, digits and hyphens, lowercases
// the result and reduces plurals to singular. If singularization fails the
// cleaned word is returned unchanged.
func (n *Normalizer) Normalize(token string) (normalized string) {
	cleaned := n.caser.String(clean(token))
	if cleaned == "" {
		return ""
	}

	defer func() {
		if r := recover(); r != nil {
			normalized = cleaned
		}
	}()

	if singular := n.singular(cleaned); singular != "" {
		return singular
	}
	return cleaned
}

func clean(token string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsNumber(r) || r == '-' {
			return r
		}
		return -1
	}, token)
}
