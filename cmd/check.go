package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/btraven00/titledup/internal/checker"
	"github.com/btraven00/titledup/internal/config"
	"github.com/btraven00/titledup/internal/runlog"
)

var (
	sheetFlag     string
	thresholdFlag int
	testModeFlag  bool
	testRowsFlag  int
	logFileFlag   string
	markedFlag    string
	debugLogFlag  bool
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check <workbook.xlsx>",
	Short: "Check listing titles in a workbook for repeated words",
	Long: `Check reads every worksheet of an .xlsx workbook, analyzes the title
column row by row and flags titles in which a word occurs more often than
the duplicate threshold.

Rows with duplicates get a summary such as "box, boxes: 3次" in the
duplicate column, and both cells are highlighted. The annotated copy is
saved as marked_<name>.xlsx and a check report is written when anything
was found.

Examples:
  titledup check listings.xlsx
  titledup check --sheet FR --threshold 3 listings.xlsx
  titledup check --test-mode --test-rows 100 listings.xlsx
  titledup check --output csv listings.xlsx > findings.csv`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	target := args[0]

	if _, err := os.Stat(target); err != nil {
		return fmt.Errorf("cannot read workbook: %w", err)
	}

	settings, err := loadConfig()
	if err != nil {
		return err
	}
	applyCheckFlags(cmd, &settings)

	if verbose && !quiet {
		fmt.Fprintf(os.Stderr, "Checking: %s\n", target)
		fmt.Fprintf(os.Stderr, "Title column: %s\n", settings.ColumnSettings.TitleColumn)
		fmt.Fprintf(os.Stderr, "Threshold: >%d\n", settings.CheckSettings.DuplicateThreshold)
		fmt.Fprintf(os.Stderr, "Output format: %s\n", output)
	}

	logger, err := runlog.New(settings.LogFile, debugLogFlag)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	cfg := checker.Config{
		Settings:     settings,
		OutputFormat: output,
		Sheet:        sheetFlag,
		OutputPath:   markedFlag,
		Verbose:      verbose,
		Quiet:        quiet,
	}

	c, err := checker.New(cfg, logger)
	if err != nil {
		return err
	}

	result, err := c.Check(target)
	if err != nil {
		return fmt.Errorf("failed to check %s: %w", target, err)
	}

	if err := c.OutputResult(result); err != nil {
		return fmt.Errorf("failed to output result: %w", err)
	}

	return nil
}

// applyCheckFlags lets explicitly set flags override the loaded configuration.
func applyCheckFlags(cmd *cobra.Command, settings *config.Config) {
	flags := cmd.Flags()

	if flags.Changed("threshold") {
		settings.CheckSettings.DuplicateThreshold = thresholdFlag
	}
	if flags.Changed("test-mode") {
		settings.CheckSettings.TestMode = testModeFlag
	}
	if flags.Changed("test-rows") {
		settings.CheckSettings.TestRows = testRowsFlag
		settings.CheckSettings.TestMode = true
	}
	if flags.Changed("log-file") {
		settings.LogFile = logFileFlag
	}
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().StringVar(&sheetFlag, "sheet", "", "check only the named worksheet")
	checkCmd.Flags().IntVarP(&thresholdFlag, "threshold", "t", 2, "flag words occurring more than this many times")
	checkCmd.Flags().BoolVar(&testModeFlag, "test-mode", false, "check only the first rows of each worksheet")
	checkCmd.Flags().IntVar(&testRowsFlag, "test-rows", 500, "number of data rows checked in test mode")
	checkCmd.Flags().StringVar(&logFileFlag, "log-file", "", "run log file (empty string disables logging)")
	checkCmd.Flags().StringVar(&markedFlag, "marked", "", "path of the annotated workbook (default marked_<name>.xlsx)")
	checkCmd.Flags().BoolVar(&debugLogFlag, "debug-log", false, "write the per-title analysis trace to the run log")
}
