package analyzer

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// accentFolds lists the accented letters kept inside words and the form each
// one takes after tokenizing. Only these letters are case-folded by Tokenize;
// plain ASCII keeps its case until normalization.
var accentFolds = map[rune]rune{
	'é': 'é', 'è': 'è', 'ê': 'ê', 'ë': 'ë',
	'à': 'à', 'â': 'â', 'ä': 'ä',
	'ô': 'ô', 'ö': 'ö',
	'û': 'û', 'ü': 'ü', 'ù': 'ù',
	'É': 'é', 'È': 'è', 'Ê': 'ê', 'Ë': 'ë',
	'À': 'à', 'Â': 'â', 'Ä': 'ä',
	'Ô': 'ô', 'Ö': 'ö',
	'Û': 'û', 'Ü': 'ü', 'Ù': 'ù',
}

var separatorReplacer = strings.NewReplacer(",", " ", ";", " ", ":", " ")

func isAccented(r rune) bool {
	_, ok := accentFolds[r]
	return ok
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsNumber(r) || r == '-' || isAccented(r)
}

func foldAccents(s string) string {
	return strings.Map(func(r rune) rune {
		if folded, ok := accentFolds[r]; ok {
			return folded
		}
		return r
	}, s)
}

// Tokenize splits a title into word tokens in order of appearance. Commas,
// semicolons and colons separate words; any other non-word, non-space rune
// becomes a token of its own.
func Tokenize(text string) []string {
	text = separatorReplacer.Replace(norm.NFC.String(text))

	var (
		tokens  []string
		current strings.Builder
	)

	flush := func() {
		if current.Len() > 0 {
			tokens = append(tokens, current.String())
			current.Reset()
		}
	}

	for _, r := range text {
		if isWordRune(r) {
			current.WriteRune(r)
			continue
		}

		flush()

		if !unicode.IsSpace(r) {
			tokens = append(tokens, string(r))
		}
	}
	flush()

	result := tokens[:0]
	for _, token := range tokens {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		result = append(result, foldAccents(token))
	}

	return result
}
