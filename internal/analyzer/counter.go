package analyzer

import "sort"

// DefaultThreshold is the repetition count a word must exceed to be reported.
const DefaultThreshold = 2

// Duplicate is one normalized word repeated beyond the threshold.
type Duplicate struct {
	Word          string   `json:"word"`
	Count         int      `json:"count"`
	OriginalForms []string `json:"original_forms"`
}

// Report lists duplicates in the order their normalized word first appeared.
// An empty report means the title has no duplicates.
type Report []Duplicate

// Lookup returns the entry for a normalized word.
func (r Report) Lookup(word string) (Duplicate, bool) {
	for _, d := range r {
		if d.Word == word {
			return d, true
		}
	}
	return Duplicate{}, false
}

// CountDuplicates normalizes tokens and reports every normalized word that
// occurs more than threshold times, with the distinct original tokens that
// produced it in sorted order. Tokens normalizing to "" are not counted.
func CountDuplicates(tokens []string, normalize func(string) string, threshold int) (bool, Report) {
	var order []string
	counts := make(map[string]int)
	forms := make(map[string]map[string]struct{})

	for _, token := range tokens {
		word := normalize(token)
		if word == "" {
			continue
		}

		if _, seen := counts[word]; !seen {
			order = append(order, word)
			forms[word] = make(map[string]struct{})
		}
		counts[word]++
		forms[word][token] = struct{}{}
	}

	var report Report
	for _, word := range order {
		if counts[word] <= threshold {
			continue
		}

		originals := make([]string, 0, len(forms[word]))
		for form := range forms[word] {
			originals = append(originals, form)
		}
		sort.Strings(originals)

		report = append(report, Duplicate{
			Word:          word,
			Count:         counts[word],
			OriginalForms: originals,
		})
	}

	if len(report) == 0 {
		return false, Report{}
	}
	return true, report
}
