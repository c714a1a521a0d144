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
	"github.com/btraven00/titledup/internal/stopwords"
)

// languagesCmd represents the languages command
var languagesCmd = &cobra.Command{
	Use:   "languages",
	Short: "List supported languages, their labels and stopword lists",
	Long: `List the languages titles can be analyzed in, the worksheet labels
that select each of them and the size of the loaded stopword list.

Examples:
  titledup languages
  titledup languages --output json`,
	Args: cobra.NoArgs,
	RunE: runLanguages,
}

// LanguageInfo describes one supported language.
type LanguageInfo struct {
	Language  analyzer.Language `json:"language"`
	Labels    []string          `json:"labels"`
	Stopwords int               `json:"stopwords"`
}

func runLanguages(cmd *cobra.Command, args []string) error {
	settings, err := loadConfig()
	if err != nil {
		return err
	}

	set, err := settings.Stopwords()
	if err != nil {
		return fmt.Errorf("failed to load stopwords: %w", err)
	}

	labels, err := settings.LabelTable()
	if err != nil {
		return err
	}

	info := listLanguages(set, labels)

	if strings.ToLower(output) == "json" {
		return outputLanguagesJSON(os.Stdout, info)
	}
	writeLanguageTable(os.Stdout, info)
	return nil
}

func listLanguages(set stopwords.Set, labels *analyzer.LabelTable) []LanguageInfo {
	byLang := labels.Labels()

	info := make([]LanguageInfo, 0, len(analyzer.Languages))
	for _, lang := range analyzer.Languages {
		info = append(info, LanguageInfo{
			Language:  lang,
			Labels:    byLang[lang],
			Stopwords: set.Len(string(lang)),
		})
	}
	return info
}

func outputLanguagesJSON(w io.Writer, info []LanguageInfo) error {
	out := struct {
		Languages []LanguageInfo    `json:"languages"`
		Default   analyzer.Language `json:"default"`
		Count     int               `json:"count"`
	}{
		Languages: info,
		Default:   analyzer.English,
		Count:     len(info),
	}

	return report.WriteJSON(w, out)
}

func writeLanguageTable(w io.Writer, info []LanguageInfo) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Language", "Labels", "Stopwords"})
	table.SetAutoWrapText(false)

	for _, l := range info {
		table.Append([]string{l.Language.String(), strings.Join(l.Labels, ", "), fmt.Sprintf("%d", l.Stopwords)})
	}
	table.Render()

	fmt.Fprintf(w, "Unknown or empty labels use %s.\n", analyzer.English)
}

func init() {
	rootCmd.AddCommand(languagesCmd)
}
