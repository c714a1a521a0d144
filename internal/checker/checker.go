package checker

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/olekukonko/tablewriter"
	"go.uber.org/zap"

	"github.com/btraven00/titledup/internal/analyzer"
	"github.com/btraven00/titledup/internal/config"
	"github.com/btraven00/titledup/internal/report"
	"github.com/btraven00/titledup/internal/runlog"
	"github.com/btraven00/titledup/internal/workbook"
	"github.com/btraven00/titledup/pkg/progress"
)

// Config holds configuration for the checker.
type Config struct {
	Settings     config.Config
	OutputFormat string
	Sheet        string
	OutputPath   string
	Verbose      bool
	Quiet        bool
}

// ColumnError reports a required column missing from a worksheet header.
type ColumnError struct {
	Sheet  string
	Column string
	Role   string
}

func (e *ColumnError) Error() string {
	return fmt.Sprintf("%s column %q not found in worksheet %q", e.Role, e.Column, e.Sheet)
}

// Row is one data row handed to the analyzer.
type Row struct {
	Number int
	Title  string
	Label  string
}

// RowResult is the outcome of checking one row.
type RowResult struct {
	Row           Row
	Language      analyzer.Language
	HasDuplicates bool
	Duplicates    analyzer.Report
	Err           error
}

// SheetResult summarizes one worksheet.
type SheetResult struct {
	Name                    string `json:"name"`
	RowsChecked             int    `json:"rows_checked"`
	RowsWithDuplicates      int    `json:"rows_with_duplicates"`
	FailedRows              int    `json:"failed_rows"`
	LanguageColumnFound     bool   `json:"language_column_found"`
	DuplicateColumnInserted bool   `json:"duplicate_column_inserted"`
}

// Result represents the result of checking a workbook.
type Result struct {
	RunID         string         `json:"run_id"`
	Input         string         `json:"input"`
	Output        string         `json:"output,omitempty"`
	ReportFile    string         `json:"report_file,omitempty"`
	Sheets        []SheetResult  `json:"sheets"`
	Entries       []report.Entry `json:"entries"`
	Warnings      []string       `json:"warnings,omitempty"`
	RowsChecked   int            `json:"rows_checked"`
	FailedRows    int            `json:"failed_rows"`
	Duration      time.Duration  `json:"duration"`
	Threshold     int            `json:"threshold"`
	HasDuplicates bool           `json:"has_duplicates"`
}

// Checker runs duplicate detection over workbooks.
type Checker struct {
	analyzer *analyzer.Analyzer
	labels   *analyzer.LabelTable
	langs    []string
	warned   map[analyzer.Language]bool
	logger   *zap.Logger
	debug    *analyzer.DebugLog
	stdout   io.Writer
	stderr   io.Writer
	now      func() time.Time
	config   Config
}

// New creates a new Checker. A nil logger discards the run log.
func New(cfg Config, logger *zap.Logger) (*Checker, error) {
	if err := cfg.Settings.Validate(); err != nil {
		return nil, err
	}

	set, err := cfg.Settings.Stopwords()
	if err != nil {
		return nil, fmt.Errorf("failed to load stopwords: %w", err)
	}

	labels, err := cfg.Settings.LabelTable()
	if err != nil {
		return nil, err
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	return &Checker{
		analyzer: analyzer.New(set, cfg.Settings.CheckSettings.DuplicateThreshold),
		labels:   labels,
		langs:    set.Languages(),
		warned:   make(map[analyzer.Language]bool),
		logger:   logger,
		debug:    analyzer.NewDebugLog(analyzer.DefaultDebugLogSize),
		stdout:   os.Stdout,
		stderr:   os.Stderr,
		now:      time.Now,
		config:   cfg,
	}, nil
}

// SetOutput redirects the checker's stdout and stderr writers.
func (c *Checker) SetOutput(stdout, stderr io.Writer) {
	c.stdout = stdout
	c.stderr = stderr
}

func (c *Checker) statusf(format string, args ...interface{}) {
	if !c.config.Quiet {
		fmt.Fprintf(c.stderr, format, args...)
	}
}

// CheckRow analyzes a single row. Unexpected failures are returned in
// RowResult.Err instead of aborting the caller's batch.
func (c *Checker) CheckRow(row Row) (result RowResult) {
	result.Row = row
	result.Language = c.labels.Resolve(row.Label)
	result.Duplicates = analyzer.Report{}

	defer func() {
		if r := recover(); r != nil {
			result.HasDuplicates = false
			result.Duplicates = analyzer.Report{}
			result.Err = fmt.Errorf("row %d: %v", row.Number, r)
		}
	}()

	result.HasDuplicates, result.Duplicates = c.analyzer.Analyze(row.Title, result.Language, c.debug)
	return result
}

// CheckRows analyzes rows in order, skipping blank titles.
func (c *Checker) CheckRows(rows []Row) []RowResult {
	results := make([]RowResult, 0, len(rows))
	for _, row := range rows {
		if strings.TrimSpace(row.Title) == "" {
			continue
		}
		results = append(results, c.CheckRow(row))
		c.flushDebug(zap.Int("row", row.Number))
	}
	return results
}

func (c *Checker) flushDebug(fields ...zap.Field) {
	if dropped := c.debug.Dropped(); dropped > 0 {
		c.logger.Debug("debug trace truncated", append(fields, zap.Int("dropped_lines", dropped))...)
	}
	runlog.Flush(c.logger, c.debug.Drain(), fields...)
}

// warnMissingStopwords reports a language without a stopword list once per run.
func (c *Checker) warnMissingStopwords(result *Result, lang analyzer.Language, logger *zap.Logger) {
	if c.warned[lang] || !c.analyzer.MissingStopwords(lang) {
		return
	}
	c.warned[lang] = true

	msg := fmt.Sprintf("no stopword list for language %q, stopwords are not filtered", lang)
	result.Warnings = append(result.Warnings, msg)
	logger.Warn(msg, zap.String("language", string(lang)))
	c.statusf("Warning: %s\n", msg)
}

func (c *Checker) warn(result *Result, msg string, fields ...zap.Field) {
	result.Warnings = append(result.Warnings, msg)
	c.logger.Warn(msg, fields...)
	c.statusf("Warning: %s\n", msg)
}

// Check validates and annotates every worksheet of the workbook at path,
// saves the marked copy and writes the report document.
func (c *Checker) Check(path string) (*Result, error) {
	start := c.now()

	result := &Result{
		RunID:     uuid.NewString(),
		Input:     path,
		Entries:   []report.Entry{},
		Threshold: c.analyzer.Threshold(),
	}

	logger := c.logger.With(zap.String("run_id", result.RunID))
	c.warned = make(map[analyzer.Language]bool)

	wb, err := workbook.Open(path)
	if err != nil {
		return nil, err
	}
	defer wb.Close()

	logger.Info("checking workbook",
		zap.String("file", wb.Path()),
		zap.Strings("stopword_languages", c.langs),
		zap.Int("threshold", result.Threshold))

	sheets := wb.SheetNames()
	if c.config.Sheet != "" {
		sheets = []string{c.config.Sheet}
	}

	for _, name := range sheets {
		sheet, err := wb.Sheet(name)
		if err != nil {
			return nil, err
		}

		sheetResult, err := c.checkSheet(sheet, result, logger)
		if err != nil {
			logger.Error("worksheet check failed", zap.String("sheet", name), zap.Error(err))
			return nil, err
		}

		result.Sheets = append(result.Sheets, *sheetResult)
		result.RowsChecked += sheetResult.RowsChecked
		result.FailedRows += sheetResult.FailedRows
	}

	result.HasDuplicates = len(result.Entries) > 0

	result.Output = c.config.OutputPath
	if result.Output == "" {
		result.Output = workbook.MarkedPath(path)
	}
	if err := wb.SaveAs(result.Output); err != nil {
		return nil, err
	}
	c.statusf("Saved marked workbook to %s\n", result.Output)

	if result.HasDuplicates {
		result.ReportFile = filepath.Join(filepath.Dir(result.Output), report.DocumentName(start))
		if err := c.writeDocument(result, start); err != nil {
			return nil, err
		}
		c.statusf("Check report written to %s\n", result.ReportFile)
	} else {
		c.statusf("No duplicate words found\n")
	}

	result.Duration = c.now().Sub(start)
	logger.Info("workbook checked",
		zap.Int("rows_checked", result.RowsChecked),
		zap.Int("rows_with_duplicates", len(result.Entries)),
		zap.Int("failed_rows", result.FailedRows),
		zap.Duration("duration", result.Duration))

	return result, nil
}

func (c *Checker) writeDocument(result *Result, generated time.Time) error {
	f, err := os.Create(result.ReportFile)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer f.Close()

	if err := report.WriteDocument(f, result.Entries, generated, result.RunID); err != nil {
		return fmt.Errorf("failed to write report file: %w", err)
	}
	return nil
}

// locateColumns resolves the title, duplicate and language columns,
// inserting the duplicate column before the title column when allowed.
func (c *Checker) locateColumns(sheet *workbook.Sheet, sheetResult *SheetResult) (titleIdx, dupIdx, langIdx int, err error) {
	cols := c.config.Settings.ColumnSettings

	titleIdx = sheet.ColumnIndex(cols.TitleColumn)
	if titleIdx == 0 {
		return 0, 0, 0, &ColumnError{Sheet: sheet.Name(), Column: cols.TitleColumn, Role: "title"}
	}

	dupIdx = sheet.ColumnIndex(cols.DuplicateColumn)
	if dupIdx == 0 {
		if !cols.InsertDuplicateColumn {
			return 0, 0, 0, &ColumnError{Sheet: sheet.Name(), Column: cols.DuplicateColumn, Role: "duplicate"}
		}
		if err := sheet.InsertColumn(titleIdx, cols.DuplicateColumn); err != nil {
			return 0, 0, 0, err
		}
		dupIdx = titleIdx
		titleIdx++
		sheetResult.DuplicateColumnInserted = true
	}

	if cols.LanguageColumn != "" {
		langIdx = sheet.ColumnIndex(cols.LanguageColumn)
		sheetResult.LanguageColumnFound = langIdx > 0
	}

	return titleIdx, dupIdx, langIdx, nil
}

// readRows collects the data rows of sheet, honoring the test-mode limit.
func (c *Checker) readRows(sheet *workbook.Sheet, titleIdx, langIdx int) []Row {
	last := sheet.MaxRow()
	if limit := c.config.Settings.RowLimit(); limit > 0 && last > limit+1 {
		last = limit + 1
	}

	var rows []Row
	for r := 2; r <= last; r++ {
		title := sheet.Value(r, titleIdx)
		if strings.TrimSpace(title) == "" {
			continue
		}

		row := Row{Number: r, Title: title}
		if langIdx > 0 {
			row.Label = sheet.Value(r, langIdx)
		}
		rows = append(rows, row)
	}
	return rows
}

func (c *Checker) checkSheet(sheet *workbook.Sheet, result *Result, logger *zap.Logger) (*SheetResult, error) {
	sheetResult := &SheetResult{Name: sheet.Name()}
	sheetLog := logger.With(zap.String("sheet", sheet.Name()))

	titleIdx, dupIdx, langIdx, err := c.locateColumns(sheet, sheetResult)
	if err != nil {
		return nil, err
	}

	cols := c.config.Settings.ColumnSettings
	if sheetResult.DuplicateColumnInserted {
		sheetLog.Info("inserted duplicate column", zap.String("column", cols.DuplicateColumn))
	}
	if cols.LanguageColumn != "" && !sheetResult.LanguageColumnFound {
		c.warn(result, fmt.Sprintf("language column %q not found in worksheet %q, using english", cols.LanguageColumn, sheet.Name()),
			zap.String("sheet", sheet.Name()), zap.String("column", cols.LanguageColumn))
	}

	rows := c.readRows(sheet, titleIdx, langIdx)
	if c.config.Settings.CheckSettings.TestMode {
		c.statusf("Test mode: checking %d rows of %s\n", len(rows), sheet.Name())
	}

	tracker := progress.NewTracker(c.stderr, sheet.Name(), len(rows), !c.config.Quiet)

	for _, row := range rows {
		rowResult := c.CheckRow(row)
		rowLog := sheetLog.With(zap.Int("row", row.Number))
		c.warnMissingStopwords(result, rowResult.Language, sheetLog)

		if c.config.Verbose {
			c.statusf("\nrow %d language: %s (label %q)\n", row.Number, rowResult.Language, row.Label)
		}

		switch {
		case rowResult.Err != nil:
			sheetResult.FailedRows++
			rowLog.Error("row check failed", zap.Error(rowResult.Err))
			tracker.Fail()
		case rowResult.HasDuplicates:
			info := report.Format(rowResult.Duplicates)
			if err := sheet.MarkDuplicate(row.Number, dupIdx, titleIdx, info); err != nil {
				return nil, err
			}

			sheetResult.RowsWithDuplicates++
			result.Entries = append(result.Entries, report.Entry{
				Row:        row.Number,
				Sheet:      sheet.Name(),
				Title:      row.Title,
				Language:   rowResult.Language,
				Duplicates: rowResult.Duplicates,
			})
			rowLog.Info("duplicate words found", zap.String("duplicates", info))
			tracker.Advance(true)
		default:
			tracker.Advance(false)
		}

		sheetResult.RowsChecked++
		c.flushDebug(zap.String("sheet", sheet.Name()), zap.Int("row", row.Number))
	}

	tracker.Finish()

	stats := tracker.Stats()
	sheetLog.Info("worksheet checked",
		zap.Int("rows", stats.Completed),
		zap.Int("flagged", stats.Flagged),
		zap.Int("failed", stats.Failed),
		zap.Duration("duration", stats.Duration))

	return sheetResult, nil
}

// IsColumnError reports whether err is caused by a missing column.
func IsColumnError(err error) bool {
	var colErr *ColumnError
	return errors.As(err, &colErr)
}

// OutputResult outputs the result in the specified format.
func (c *Checker) OutputResult(result *Result) error {
	switch strings.ToLower(c.config.OutputFormat) {
	case "json":
		return report.WriteJSON(c.stdout, result)
	case "csv":
		return report.WriteCSV(c.stdout, result.Entries)
	case "human", "":
		return c.outputHuman(result)
	default:
		return fmt.Errorf("unsupported output format: %s", c.config.OutputFormat)
	}
}

// outputHuman outputs the result in human-readable format.
func (c *Checker) outputHuman(result *Result) error {
	w := c.stdout

	fmt.Fprintf(w, "File: %s\n", result.Input)
	fmt.Fprintf(w, "Rows checked: %d | With duplicates: %d | Failed: %d | Threshold: >%d\n",
		result.RowsChecked, len(result.Entries), result.FailedRows, result.Threshold)

	for _, warning := range result.Warnings {
		fmt.Fprintf(w, "Warning: %s\n", warning)
	}

	if len(result.Entries) == 0 {
		fmt.Fprintln(w, "No duplicate words found.")
		return nil
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Sheet", "Row", "Language", "Duplicates"})
	table.SetAutoWrapText(false)

	for _, entry := range result.Entries {
		table.Append([]string{
			entry.Sheet,
			fmt.Sprintf("%d", entry.Row),
			entry.Language.String(),
			report.Format(entry.Duplicates),
		})
	}
	table.Render()

	if result.Output != "" {
		fmt.Fprintf(w, "Marked workbook: %s\n", result.Output)
	}
	if result.ReportFile != "" {
		fmt.Fprintf(w, "Report: %s\n", result.ReportFile)
	}

	return nil
}
