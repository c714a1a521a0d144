// Package analyzer finds words repeated too often in a product title.
//
// A title is tokenized, tokens that are stopwords, numbers or single
// characters are dropped, the rest are normalized (lowercase, singular) and
// counted. Every normalized word occurring more than the threshold is
// reported with the original spellings that collapsed into it.
package analyzer

import (
	"errors"
	"strings"

	"github.com/btraven00/titledup/internal/stopwords"
)

// Analyzer runs the duplicate-word pipeline. It is not safe for concurrent
// use because the per-language normalizers keep casing state.
type Analyzer struct {
	stopwords   stopwords.Set
	threshold   int
	normalizers map[Language]*Normalizer
}

// New creates an analyzer using set for stopword filtering. Words must occur
// more than threshold times to be reported.
func New(set stopwords.Set, threshold int) *Analyzer {
	if set == nil {
		set = stopwords.Set{}
	}
	return &Analyzer{
		stopwords:   set,
		threshold:   threshold,
		normalizers: make(map[Language]*Normalizer),
	}
}

// Threshold returns the configured duplicate threshold.
func (a *Analyzer) Threshold() int {
	return a.threshold
}

func (a *Analyzer) normalizer(lang Language) *Normalizer {
	n, ok := a.normalizers[lang]
	if !ok {
		n = NewNormalizer(lang)
		a.normalizers[lang] = n
	}
	return n
}

// MissingStopwords reports whether lang has no stopword list. English is
// never reported since it is the fallback for every unrecognized label.
func (a *Analyzer) MissingStopwords(lang Language) bool {
	if lang == English {
		return false
	}
	_, err := a.stopwords.Lookup(string(lang))
	return errors.Is(err, stopwords.ErrNoStopwords)
}

func (a *Analyzer) stopwordsFor(lang Language, log *DebugLog) map[string]struct{} {
	words, _ := a.stopwords.Lookup(string(lang))
	if a.MissingStopwords(lang) {
		log.Addf("warning: no stopword list for language %q", lang)
	}
	return words
}

// Analyze checks one title. Blank titles have no duplicates. Trace lines go
// to log, which may be nil.
func (a *Analyzer) Analyze(title string, lang Language, log *DebugLog) (bool, Report) {
	if strings.TrimSpace(title) == "" {
		return false, Report{}
	}

	tokens := Tokenize(title)
	words := a.stopwordsFor(lang, log)

	log.Addf("processing title: %s", title)
	log.Addf("tokens: %q", tokens)
	log.Addf("stopwords (%s): %d entries", lang, len(words))

	filtered := make([]string, 0, len(tokens))
	for _, token := range tokens {
		if reason := classify(token, words); reason != Kept {
			log.Addf("filtered %s: %s", reason, token)
			continue
		}
		filtered = append(filtered, token)
	}

	log.Addf("kept tokens: %q", filtered)

	return CountDuplicates(filtered, a.normalizer(lang).Normalize, a.threshold)
}

// TokenTrace describes what happened to a single token.
type TokenTrace struct {
	Token      string       `json:"token"`
	Reason     FilterReason `json:"-"`
	Filter     string       `json:"filter"`
	Normalized string       `json:"normalized,omitempty"`
}

// Explain returns the filtering decision and normalized form of every token
// in title, in order.
func (a *Analyzer) Explain(title string, lang Language) []TokenTrace {
	words, _ := a.stopwords.Lookup(string(lang))
	n := a.normalizer(lang)

	tokens := Tokenize(title)
	traces := make([]TokenTrace, 0, len(tokens))
	for _, token := range tokens {
		trace := TokenTrace{Token: token, Reason: classify(token, words)}
		trace.Filter = trace.Reason.String()
		if trace.Reason == Kept {
			trace.Normalized = n.Normalize(token)
		}
		traces = append(traces, trace)
	}
	return traces
}
