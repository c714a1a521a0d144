package checker

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/btraven00/titledup/internal/analyzer"
	"github.com/btraven00/titledup/internal/config"
	"github.com/btraven00/titledup/internal/runlog"
)

type sheetFixture struct {
	name string
	rows [][]string
}

func writeWorkbook(t *testing.T, sheets ...sheetFixture) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	for i, sheet := range sheets {
		if i == 0 {
			require.NoError(t, f.SetSheetName("Sheet1", sheet.name))
		} else {
			_, err := f.NewSheet(sheet.name)
			require.NoError(t, err)
		}

		for r, row := range sheet.rows {
			for c, value := range row {
				cell, err := excelize.CoordinatesToCellName(c+1, r+1)
				require.NoError(t, err)
				require.NoError(t, f.SetCellStr(sheet.name, cell, value))
			}
		}
	}

	path := filepath.Join(t.TempDir(), "listings.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func newTestChecker(t *testing.T, settings config.Config) (*Checker, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()

	c, err := New(Config{Settings: settings, Quiet: true}, nil)
	require.NoError(t, err)

	var stdout, stderr bytes.Buffer
	c.SetOutput(&stdout, &stderr)
	c.now = func() time.Time { return time.Date(2024, 3, 1, 14, 30, 5, 0, time.UTC) }

	return c, &stdout, &stderr
}

var listingRows = [][]string{
	{"SKU", "Item-Name", "语言"},
	{"A1", "Storage Box Boxes box", "英语"},
	{"A2", "Desk lamp", "英语"},
	{"A3", "", "法语"},
	{"A4", "Lampe lampe LAMPE de chevet", "法语"},
}

func TestCheck_MarksWorkbook(t *testing.T) {
	path := writeWorkbook(t, sheetFixture{name: "Listings", rows: listingRows})
	c, _, _ := newTestChecker(t, config.Default())

	result, err := c.Check(path)
	require.NoError(t, err)

	assert.NotEmpty(t, result.RunID)
	assert.Equal(t, 3, result.RowsChecked)
	assert.Equal(t, 0, result.FailedRows)
	assert.True(t, result.HasDuplicates)
	assert.Empty(t, result.Warnings)

	require.Len(t, result.Sheets, 1)
	assert.True(t, result.Sheets[0].DuplicateColumnInserted)
	assert.True(t, result.Sheets[0].LanguageColumnFound)
	assert.Equal(t, 2, result.Sheets[0].RowsWithDuplicates)

	require.Len(t, result.Entries, 2)
	assert.Equal(t, 2, result.Entries[0].Row)
	assert.Equal(t, analyzer.English, result.Entries[0].Language)
	assert.Equal(t, 5, result.Entries[1].Row)
	assert.Equal(t, analyzer.French, result.Entries[1].Language)

	assert.Equal(t, filepath.Join(filepath.Dir(path), "marked_listings.xlsx"), result.Output)

	f, err := excelize.OpenFile(result.Output)
	require.NoError(t, err)
	defer f.Close()

	cells := map[string]string{
		"B1": "重复词检测",
		"C1": "Item-Name",
		"B2": "Box, Boxes, box: 3次",
		"B3": "",
		"B5": "LAMPE, Lampe, lampe: 3次",
		"C5": "Lampe lampe LAMPE de chevet",
	}
	for cell, want := range cells {
		got, err := f.GetCellValue("Listings", cell)
		require.NoError(t, err)
		assert.Equal(t, want, got, cell)
	}

	require.NotEmpty(t, result.ReportFile)
	assert.Equal(t, "check_report_20240301_143005.txt", filepath.Base(result.ReportFile))

	doc, err := os.ReadFile(result.ReportFile)
	require.NoError(t, err)
	assert.Contains(t, string(doc), "标题检查报告")
	assert.Contains(t, string(doc), "Storage Box Boxes box")
	assert.Contains(t, string(doc), result.RunID)
}

func TestCheck_NoDuplicates(t *testing.T) {
	path := writeWorkbook(t, sheetFixture{name: "Sheet1", rows: [][]string{
		{"item-name", "重复词检测"},
		{"Desk lamp", ""},
		{"Office chair", ""},
	}})
	c, _, _ := newTestChecker(t, config.Default())

	result, err := c.Check(path)
	require.NoError(t, err)

	assert.False(t, result.HasDuplicates)
	assert.Empty(t, result.Entries)
	assert.Empty(t, result.ReportFile)
	assert.False(t, result.Sheets[0].DuplicateColumnInserted)
	assert.FileExists(t, result.Output)

	matches, err := filepath.Glob(filepath.Join(filepath.Dir(path), "check_report_*.txt"))
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestCheck_MissingTitleColumn(t *testing.T) {
	path := writeWorkbook(t, sheetFixture{name: "Sheet1", rows: [][]string{
		{"SKU", "name"},
		{"A1", "Box box box"},
	}})
	c, _, _ := newTestChecker(t, config.Default())

	_, err := c.Check(path)
	require.Error(t, err)
	assert.True(t, IsColumnError(err))
	assert.Contains(t, err.Error(), "item-name")
}

func TestCheck_MissingDuplicateColumnWithoutInsert(t *testing.T) {
	path := writeWorkbook(t, sheetFixture{name: "Sheet1", rows: listingRows})

	settings := config.Default()
	settings.ColumnSettings.InsertDuplicateColumn = false
	c, _, _ := newTestChecker(t, settings)

	_, err := c.Check(path)
	require.Error(t, err)

	var colErr *ColumnError
	require.ErrorAs(t, err, &colErr)
	assert.Equal(t, "duplicate", colErr.Role)
	assert.Equal(t, "重复词检测", colErr.Column)
}

func TestCheck_MissingLanguageColumn(t *testing.T) {
	path := writeWorkbook(t, sheetFixture{name: "Sheet1", rows: [][]string{
		{"item-name"},
		{"Lampe lampe lampe"},
	}})
	c, _, _ := newTestChecker(t, config.Default())

	result, err := c.Check(path)
	require.NoError(t, err)

	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "语言")
	assert.False(t, result.Sheets[0].LanguageColumnFound)

	require.Len(t, result.Entries, 1)
	assert.Equal(t, analyzer.English, result.Entries[0].Language)
}

func TestCheck_MissingStopwordsLogsWarning(t *testing.T) {
	dir := t.TempDir()
	stopwordsPath := filepath.Join(dir, "stopwords.csv")
	require.NoError(t, os.WriteFile(stopwordsPath, []byte("language,word\nenglish,the\n"), 0o644))

	path := writeWorkbook(t, sheetFixture{name: "Sheet1", rows: [][]string{
		{"item-name", "语言"},
		{"Der Hut der Hut", "德语"},
		{"Die Tasse die Tasse", "德语"},
		{"Lamp lamp lamp", "英语"},
	}})

	logPath := filepath.Join(dir, "title_check.log")
	logger, err := runlog.New(logPath, false)
	require.NoError(t, err)

	settings := config.Default()
	settings.StopwordsFile = stopwordsPath

	c, err := New(Config{Settings: settings, Quiet: true}, logger)
	require.NoError(t, err)
	c.SetOutput(&bytes.Buffer{}, &bytes.Buffer{})

	result, err := c.Check(path)
	require.NoError(t, err)
	require.NoError(t, logger.Sync())

	require.Len(t, result.Warnings, 1, "one warning per language")
	assert.Contains(t, result.Warnings[0], `"german"`)

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)

	var warnings []string
	for _, line := range strings.Split(string(data), "\n") {
		if strings.Contains(line, "WARN") {
			warnings = append(warnings, line)
		}
	}
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "no stopword list for language")
	assert.Contains(t, warnings[0], "german")
}

func TestCheck_NoStopwordWarningForEnglish(t *testing.T) {
	stopwordsPath := filepath.Join(t.TempDir(), "stopwords.csv")
	require.NoError(t, os.WriteFile(stopwordsPath, []byte("language,word\nfrench,le\n"), 0o644))

	path := writeWorkbook(t, sheetFixture{name: "Sheet1", rows: [][]string{
		{"item-name", "语言"},
		{"Lamp lamp lamp", "英语"},
		{"Cup cups", ""},
	}})

	settings := config.Default()
	settings.StopwordsFile = stopwordsPath
	c, _, _ := newTestChecker(t, settings)

	result, err := c.Check(path)
	require.NoError(t, err)
	assert.Empty(t, result.Warnings)
}

func TestCheck_TestModeLimitsRows(t *testing.T) {
	rows := [][]string{{"item-name"}}
	for i := 0; i < 10; i++ {
		rows = append(rows, []string{"Box box boxes"})
	}
	path := writeWorkbook(t, sheetFixture{name: "Sheet1", rows: rows})

	settings := config.Default()
	settings.CheckSettings.TestMode = true
	settings.CheckSettings.TestRows = 4
	c, _, _ := newTestChecker(t, settings)

	result, err := c.Check(path)
	require.NoError(t, err)

	assert.Equal(t, 4, result.RowsChecked)
	assert.Len(t, result.Entries, 4)
	assert.Equal(t, 5, result.Entries[3].Row)
}

func TestCheck_SheetSelection(t *testing.T) {
	path := writeWorkbook(t,
		sheetFixture{name: "EN", rows: [][]string{{"item-name"}, {"Cup cup cups"}}},
		sheetFixture{name: "FR", rows: [][]string{{"item-name", "语言"}, {"Tasse tasse tasses", "法语"}}},
	)

	t.Run("all sheets", func(t *testing.T) {
		c, _, _ := newTestChecker(t, config.Default())
		result, err := c.Check(path)
		require.NoError(t, err)

		require.Len(t, result.Sheets, 2)
		require.Len(t, result.Entries, 2)
		assert.Equal(t, "EN", result.Entries[0].Sheet)
		assert.Equal(t, "FR", result.Entries[1].Sheet)
	})

	t.Run("single sheet", func(t *testing.T) {
		settings := config.Default()
		c, err := New(Config{Settings: settings, Quiet: true, Sheet: "FR"}, nil)
		require.NoError(t, err)
		c.SetOutput(&bytes.Buffer{}, &bytes.Buffer{})

		result, err := c.Check(path)
		require.NoError(t, err)

		require.Len(t, result.Sheets, 1)
		assert.Equal(t, "FR", result.Sheets[0].Name)
	})

	t.Run("unknown sheet", func(t *testing.T) {
		c, err := New(Config{Settings: config.Default(), Quiet: true, Sheet: "DE"}, nil)
		require.NoError(t, err)

		_, err = c.Check(path)
		assert.Error(t, err)
	})
}

func TestCheckRows(t *testing.T) {
	c, _, _ := newTestChecker(t, config.Default())

	results := c.CheckRows([]Row{
		{Number: 2, Title: "Box boxes box", Label: ""},
		{Number: 3, Title: "   ", Label: ""},
		{Number: 4, Title: "Boîte boîte boîtes", Label: "法语"},
	})

	require.Len(t, results, 2)
	assert.True(t, results[0].HasDuplicates)
	assert.Equal(t, analyzer.English, results[0].Language)
	assert.NoError(t, results[0].Err)

	assert.Equal(t, 4, results[1].Row.Number)
	assert.Equal(t, analyzer.French, results[1].Language)
	assert.True(t, results[1].HasDuplicates)
}

func TestNew_InvalidConfig(t *testing.T) {
	settings := config.Default()
	settings.ColumnSettings.TitleColumn = ""
	_, err := New(Config{Settings: settings}, nil)
	assert.Error(t, err)

	settings = config.Default()
	settings.StopwordsFile = filepath.Join(t.TempDir(), "missing.csv")
	_, err = New(Config{Settings: settings}, nil)
	assert.Error(t, err)
}

func TestOutputResult(t *testing.T) {
	path := writeWorkbook(t, sheetFixture{name: "Listings", rows: listingRows})
	c, stdout, _ := newTestChecker(t, config.Default())

	result, err := c.Check(path)
	require.NoError(t, err)

	tests := []struct {
		format string
		want   []string
	}{
		{format: "human", want: []string{"Rows checked: 3", "Box, Boxes, box: 3次", "Marked workbook:"}},
		{format: "json", want: []string{`"run_id"`, `"rows_checked": 3`, `"original_forms"`}},
		{format: "csv", want: []string{"sheet,row,language,title,duplicates", "Listings,5,french"}},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			stdout.Reset()
			c.config.OutputFormat = tt.format

			require.NoError(t, c.OutputResult(result))
			for _, want := range tt.want {
				assert.True(t, strings.Contains(stdout.String(), want), "missing %q in:\n%s", want, stdout.String())
			}
		})
	}

	c.config.OutputFormat = "xml"
	assert.Error(t, c.OutputResult(result))
}
