package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/btraven00/titledup/internal/analyzer"
	"github.com/btraven00/titledup/internal/report"
)

var debugCmd = &cobra.Command{
	Use:   "debug <text>",
	Short: "Show how a title is tokenized, filtered and normalized",
	Long: `Display the analysis trace of a title: every token, whether it was
dropped as a stopword, number or single character, and the normalized form
used for counting.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runDebug,
}

var debugLanguage string

func init() {
	rootCmd.AddCommand(debugCmd)
	debugCmd.Flags().StringVarP(&debugLanguage, "language", "l", "", "language label or name of the title")
}

// DebugResult is the analysis trace of one title.
type DebugResult struct {
	Title    string                `json:"title"`
	Language analyzer.Language     `json:"language"`
	Tokens   []analyzer.TokenTrace `json:"tokens"`
	Summary  string                `json:"summary"`
}

func runDebug(cmd *cobra.Command, args []string) error {
	settings, err := loadConfig()
	if err != nil {
		return err
	}

	a, labels, err := newAnalyzer(settings)
	if err != nil {
		return err
	}

	title := strings.Join(args, " ")
	lang := labels.Resolve(debugLanguage)
	_, dups := a.Analyze(title, lang, nil)

	result := &DebugResult{
		Title:    title,
		Language: lang,
		Tokens:   a.Explain(title, lang),
		Summary:  report.Format(dups),
	}

	if strings.ToLower(output) == "json" {
		return report.WriteJSON(os.Stdout, result)
	}
	writeDebugTrace(os.Stdout, result)
	return nil
}

func writeDebugTrace(w io.Writer, result *DebugResult) {
	fmt.Fprintln(w, "=== Title Analysis ===")
	fmt.Fprintf(w, "Title: %s\n", result.Title)
	fmt.Fprintf(w, "Language: %s\n\n", result.Language)

	if len(result.Tokens) == 0 {
		fmt.Fprintln(w, "No tokens.")
		return
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"#", "Token", "Filter", "Normalized"})
	table.SetAutoWrapText(false)
	for i, trace := range result.Tokens {
		table.Append([]string{fmt.Sprintf("%d", i+1), trace.Token, trace.Filter, trace.Normalized})
	}
	table.Render()

	if result.Summary == "" {
		fmt.Fprintln(w, "\nNo duplicate words found.")
	} else {
		fmt.Fprintf(w, "\nDuplicates: %s\n", result.Summary)
	}
}
