// Package report renders duplicate findings for spreadsheet cells, the check
// report document and machine-readable output.
package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/btraven00/titledup/internal/analyzer"
)

// Entry is one row with duplicate words.
type Entry struct {
	Row        int               `json:"row"`
	Sheet      string            `json:"sheet,omitempty"`
	Title      string            `json:"title"`
	Language   analyzer.Language `json:"language"`
	Duplicates analyzer.Report   `json:"duplicates"`
}

// Format renders a report as "form1, form2: N次; word: N次". A single
// original form is shown by its normalized word.
func Format(r analyzer.Report) string {
	if len(r) == 0 {
		return ""
	}

	parts := make([]string, 0, len(r))
	for _, d := range r {
		if len(d.OriginalForms) > 1 {
			parts = append(parts, fmt.Sprintf("%s: %d次", strings.Join(d.OriginalForms, ", "), d.Count))
		} else {
			parts = append(parts, fmt.Sprintf("%s: %d次", d.Word, d.Count))
		}
	}

	return strings.Join(parts, "; ")
}

// WriteDocument writes the plain-text check report listing every entry.
func WriteDocument(w io.Writer, entries []Entry, generated time.Time, runID string) error {
	var b strings.Builder

	fmt.Fprintf(&b, "标题检查报告 - %s\n", generated.Format("2006-01-02 15:04:05"))
	if runID != "" {
		fmt.Fprintf(&b, "Run: %s\n", runID)
	}
	b.WriteString(strings.Repeat("=", 50) + "\n\n")

	for _, entry := range entries {
		if entry.Sheet != "" {
			fmt.Fprintf(&b, "工作表: %s\n", entry.Sheet)
		}
		fmt.Fprintf(&b, "行号: %d\n", entry.Row)
		fmt.Fprintf(&b, "标题: %s\n", entry.Title)
		b.WriteString("重复单词:\n")

		for _, d := range entry.Duplicates {
			fmt.Fprintf(&b, "  - %s:\n", d.Word)
			fmt.Fprintf(&b, "    出现次数: %d次\n", d.Count)
			fmt.Fprintf(&b, "    原始形式: %s\n", strings.Join(d.OriginalForms, ", "))
		}

		b.WriteString(strings.Repeat("-", 30) + "\n\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// DocumentName returns the report file name for a run started at t.
func DocumentName(t time.Time) string {
	return fmt.Sprintf("check_report_%s.txt", t.Format("20060102_150405"))
}
