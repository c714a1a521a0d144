package analyzer

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/btraven00/titledup/internal/stopwords"
)

var numberPattern = regexp.MustCompile(`^-?\d*\.?\d+$`)

// FilterReason says why a token was kept out of duplicate counting.
type FilterReason int

const (
	Kept FilterReason = iota
	Stopword
	Number
	TooShort
)

func (r FilterReason) String() string {
	switch r {
	case Kept:
		return "kept"
	case Stopword:
		return "stopword"
	case Number:
		return "number"
	case TooShort:
		return "single character"
	default:
		return "unknown"
	}
}

// IsNumber reports whether word is an integer or decimal, optionally negative
// and comma-grouped.
func IsNumber(word string) bool {
	return numberPattern.MatchString(strings.ReplaceAll(word, ",", ""))
}

// classify tests the original token, not its normalized form.
func classify(token string, words map[string]struct{}) FilterReason {
	if _, ok := words[strings.ToLower(token)]; ok {
		return Stopword
	}
	if IsNumber(token) {
		return Number
	}
	if utf8.RuneCountInString(token) <= 1 {
		return TooShort
	}
	return Kept
}

// IsFiltered reports whether token is excluded from duplicate counting for
// lang. A language without stopwords uses an empty list.
func IsFiltered(token string, lang Language, set stopwords.Set) bool {
	if set.Contains(string(lang), strings.ToLower(token)) {
		return true
	}
	return classify(token, nil) != Kept
}
