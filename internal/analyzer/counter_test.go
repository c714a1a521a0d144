package analyzer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountDuplicates(t *testing.T) {
	normalize := NewNormalizer(English).Normalize

	tests := []struct {
		name      string
		tokens    []string
		threshold int
		found     bool
		expected  Report
	}{
		{
			name:      "plural forms collapse",
			tokens:    []string{"shoe", "shoes", "shoes"},
			threshold: 2,
			found:     true,
			expected:  Report{{Word: "shoe", Count: 3, OriginalForms: []string{"shoe", "shoes"}}},
		},
		{
			name:      "count equal to threshold is not reported",
			tokens:    []string{"box", "boxes", "lid"},
			threshold: 2,
			found:     false,
			expected:  Report{},
		},
		{
			name:      "entries keep first-seen order",
			tokens:    []string{"lid", "box", "lid", "box", "lid", "box", "box"},
			threshold: 2,
			found:     true,
			expected: Report{
				{Word: "lid", Count: 3, OriginalForms: []string{"lid"}},
				{Word: "box", Count: 4, OriginalForms: []string{"box"}},
			},
		},
		{
			name:      "original forms are sorted",
			tokens:    []string{"Boxes", "box", "Box", "boxes"},
			threshold: 3,
			found:     true,
			expected:  Report{{Word: "box", Count: 4, OriginalForms: []string{"Box", "Boxes", "box", "boxes"}}},
		},
		{
			name:      "tokens without a normalized form are ignored",
			tokens:    []string{"!!", "!!", "!!"},
			threshold: 2,
			found:     false,
			expected:  Report{},
		},
		{
			name:      "no tokens",
			tokens:    nil,
			threshold: 2,
			found:     false,
			expected:  Report{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			found, report := CountDuplicates(tt.tokens, normalize, tt.threshold)
			assert.Equal(t, tt.found, found)
			assert.Equal(t, tt.expected, report)
		})
	}
}

func TestCountDuplicates_Invariants(t *testing.T) {
	normalize := NewNormalizer(English).Normalize
	tokens := strings.Fields("cups Cup cup mugs mug cups plate plates bowl cup mug Plate bowls")

	for threshold := 0; threshold <= 5; threshold++ {
		found, report := CountDuplicates(tokens, normalize, threshold)
		assert.Equal(t, len(report) > 0, found)

		for _, d := range report {
			assert.Greater(t, d.Count, threshold, "threshold %d word %q", threshold, d.Word)
			require.NotEmpty(t, d.OriginalForms)

			for _, form := range d.OriginalForms {
				assert.Equal(t, d.Word, normalize(form))
			}

			contributing := 0
			for _, token := range tokens {
				if normalize(token) == d.Word {
					contributing++
				}
			}
			assert.Equal(t, contributing, d.Count)
		}
	}
}

func TestReport_Lookup(t *testing.T) {
	report := Report{{Word: "box", Count: 3, OriginalForms: []string{"box"}}}

	d, ok := report.Lookup("box")
	assert.True(t, ok)
	assert.Equal(t, 3, d.Count)

	_, ok = report.Lookup("lid")
	assert.False(t, ok)
}
