// Package stopwords loads per-language stopword lists from a two-column
// "language,word" CSV source.
package stopwords

import (
	_ "embed"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
)

//go:embed default_stopwords.csv
var defaultCSV string

// ErrNoStopwords is returned by Lookup when a language has no stopword list.
// Callers treat the list as empty and keep going.
var ErrNoStopwords = errors.New("no stopwords for language")

// FormatError reports a stopword source that lacks a required column.
type FormatError struct {
	Source string
	Column string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("stopword source %s: missing column %q", e.Source, e.Column)
}

// Set maps a language key to its stopwords. It is not modified after loading.
type Set map[string]map[string]struct{}

// Load parses CSV data with a header row containing "language" and "word".
// Extra columns are ignored. Languages and words are trimmed and lowercased.
func Load(r io.Reader, source string) (Set, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &FormatError{Source: source, Column: "language"}
		}
		return nil, fmt.Errorf("failed to read header of %s: %w", source, err)
	}

	langCol, wordCol := -1, -1
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))) {
		case "language":
			langCol = i
		case "word":
			wordCol = i
		}
	}

	if langCol < 0 {
		return nil, &FormatError{Source: source, Column: "language"}
	}
	if wordCol < 0 {
		return nil, &FormatError{Source: source, Column: "word"}
	}

	set := make(Set)
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", source, err)
		}

		if langCol >= len(record) || wordCol >= len(record) {
			continue
		}

		lang := strings.ToLower(strings.TrimSpace(record[langCol]))
		word := strings.ToLower(strings.TrimSpace(record[wordCol]))
		if lang == "" || word == "" {
			continue
		}

		words, ok := set[lang]
		if !ok {
			words = make(map[string]struct{})
			set[lang] = words
		}
		words[word] = struct{}{}
	}

	return set, nil
}

// LoadFile reads a stopword CSV from disk.
func LoadFile(path string) (Set, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open stopword file: %w", err)
	}
	defer f.Close()

	return Load(f, path)
}

// Default returns the stopword lists embedded in the binary.
func Default() Set {
	set, err := Load(strings.NewReader(defaultCSV), "default_stopwords.csv")
	if err != nil {
		panic(fmt.Sprintf("embedded stopwords are invalid: %v", err))
	}
	return set
}

// Lookup returns the stopwords for lang. When the language is unknown it
// returns an empty, non-nil set together with ErrNoStopwords.
func (s Set) Lookup(lang string) (map[string]struct{}, error) {
	if words, ok := s[lang]; ok && len(words) > 0 {
		return words, nil
	}
	return map[string]struct{}{}, fmt.Errorf("%w: %s", ErrNoStopwords, lang)
}

// Contains reports whether word is a stopword for lang.
func (s Set) Contains(lang, word string) bool {
	_, ok := s[lang][word]
	return ok
}

// Languages returns the loaded language keys in sorted order.
func (s Set) Languages() []string {
	langs := make([]string, 0, len(s))
	for lang := range s {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	return langs
}

// Len returns the number of stopwords loaded for lang.
func (s Set) Len(lang string) int {
	return len(s[lang])
}
