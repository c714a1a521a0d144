package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/btraven00/titledup/internal/analyzer"
	"github.com/btraven00/titledup/internal/config"
	"github.com/btraven00/titledup/internal/report"
)

var (
	languageFlag       string
	titleThresholdFlag int
)

// titleCmd represents the title command
var titleCmd = &cobra.Command{
	Use:   "title <text>",
	Short: "Check a single title for repeated words",
	Long: `Analyze one listing title without a workbook. The language is given
as a worksheet label (e.g. 法语) or a language name (e.g. french); unknown
labels fall back to english.

Examples:
  titledup title "Storage Box Boxes for Books"
  titledup title --language 法语 "Boîte de rangement boîtes"
  titledup title --output json "Lamp lamps lamp"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runTitle,
}

// TitleResult is the outcome of a single-title check.
type TitleResult struct {
	Title         string            `json:"title"`
	Label         string            `json:"label,omitempty"`
	Language      analyzer.Language `json:"language"`
	Threshold     int               `json:"threshold"`
	HasDuplicates bool              `json:"has_duplicates"`
	Duplicates    analyzer.Report   `json:"duplicates"`
	Summary       string            `json:"summary,omitempty"`
}

func runTitle(cmd *cobra.Command, args []string) error {
	settings, err := loadConfig()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("threshold") {
		settings.CheckSettings.DuplicateThreshold = titleThresholdFlag
	}

	result, err := checkTitle(settings, strings.Join(args, " "), languageFlag)
	if err != nil {
		return err
	}

	return writeTitleResult(os.Stdout, result, output)
}

func newAnalyzer(settings config.Config) (*analyzer.Analyzer, *analyzer.LabelTable, error) {
	set, err := settings.Stopwords()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load stopwords: %w", err)
	}

	labels, err := settings.LabelTable()
	if err != nil {
		return nil, nil, err
	}

	return analyzer.New(set, settings.CheckSettings.DuplicateThreshold), labels, nil
}

func checkTitle(settings config.Config, title, label string) (*TitleResult, error) {
	a, labels, err := newAnalyzer(settings)
	if err != nil {
		return nil, err
	}

	lang := labels.Resolve(label)
	log := analyzer.NewDebugLog(analyzer.DefaultDebugLogSize)
	found, dups := a.Analyze(title, lang, log)

	if verbose && !quiet {
		for _, line := range log.Drain() {
			fmt.Fprintln(os.Stderr, line)
		}
	}

	return &TitleResult{
		Title:         title,
		Label:         label,
		Language:      lang,
		Threshold:     a.Threshold(),
		HasDuplicates: found,
		Duplicates:    dups,
		Summary:       report.Format(dups),
	}, nil
}

func writeTitleResult(w io.Writer, result *TitleResult, format string) error {
	switch strings.ToLower(format) {
	case "json":
		return report.WriteJSON(w, result)
	case "human", "":
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}

	fmt.Fprintf(w, "Title: %s\n", result.Title)
	fmt.Fprintf(w, "Language: %s\n", result.Language)

	if !result.HasDuplicates {
		fmt.Fprintln(w, "No duplicate words found.")
		return nil
	}

	fmt.Fprintf(w, "Duplicates: %s\n", result.Summary)
	for _, d := range result.Duplicates {
		fmt.Fprintf(w, "  - %s: %d (%s)\n", d.Word, d.Count, strings.Join(d.OriginalForms, ", "))
	}

	return nil
}

func init() {
	rootCmd.AddCommand(titleCmd)

	titleCmd.Flags().StringVarP(&languageFlag, "language", "l", "", "language label or name of the title")
	titleCmd.Flags().IntVarP(&titleThresholdFlag, "threshold", "t", 2, "flag words occurring more than this many times")
}
