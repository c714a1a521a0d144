// Package config holds the settings of a title check run and loads them
// through viper.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/btraven00/titledup/internal/analyzer"
	"github.com/btraven00/titledup/internal/stopwords"
)

// ColumnSettings names the worksheet columns, matched case-insensitively
// against the header row.
type ColumnSettings struct {
	TitleColumn           string `mapstructure:"title_column" yaml:"title_column"`
	DuplicateColumn       string `mapstructure:"duplicate_column" yaml:"duplicate_column"`
	LanguageColumn        string `mapstructure:"language_column" yaml:"language_column"`
	InsertDuplicateColumn bool   `mapstructure:"insert_duplicate_column" yaml:"insert_duplicate_column"`
}

// CheckSettings controls duplicate detection.
type CheckSettings struct {
	DuplicateThreshold int  `mapstructure:"duplicate_threshold" yaml:"duplicate_threshold"`
	TestMode           bool `mapstructure:"test_mode" yaml:"test_mode"`
	TestRows           int  `mapstructure:"test_rows" yaml:"test_rows"`
}

// LabelMapping maps a worksheet language label to a supported language.
// Labels are kept as a list so that their case survives viper, which
// lowercases map keys.
type LabelMapping struct {
	Label    string `mapstructure:"label" yaml:"label"`
	Language string `mapstructure:"language" yaml:"language"`
}

// Config is the full run configuration.
type Config struct {
	ColumnSettings ColumnSettings `mapstructure:"column_settings" yaml:"column_settings"`
	CheckSettings  CheckSettings  `mapstructure:"check_settings" yaml:"check_settings"`
	LogFile        string         `mapstructure:"log_file" yaml:"log_file"`
	StopwordsFile  string         `mapstructure:"stopwords_file" yaml:"stopwords_file"`
	LanguageLabels []LabelMapping `mapstructure:"language_labels" yaml:"language_labels,omitempty"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		ColumnSettings: ColumnSettings{
			TitleColumn:           "item-name",
			DuplicateColumn:       "重复词检测",
			LanguageColumn:        "语言",
			InsertDuplicateColumn: true,
		},
		CheckSettings: CheckSettings{
			DuplicateThreshold: analyzer.DefaultThreshold,
			TestMode:           false,
			TestRows:           500,
		},
		LogFile: "title_check.log",
	}
}

// SetDefaults registers Default() on v so that env variables and config
// files can override each key.
func SetDefaults(v *viper.Viper) {
	d := Default()

	v.SetDefault("column_settings.title_column", d.ColumnSettings.TitleColumn)
	v.SetDefault("column_settings.duplicate_column", d.ColumnSettings.DuplicateColumn)
	v.SetDefault("column_settings.language_column", d.ColumnSettings.LanguageColumn)
	v.SetDefault("column_settings.insert_duplicate_column", d.ColumnSettings.InsertDuplicateColumn)
	v.SetDefault("check_settings.duplicate_threshold", d.CheckSettings.DuplicateThreshold)
	v.SetDefault("check_settings.test_mode", d.CheckSettings.TestMode)
	v.SetDefault("check_settings.test_rows", d.CheckSettings.TestRows)
	v.SetDefault("log_file", d.LogFile)
	v.SetDefault("stopwords_file", d.StopwordsFile)
}

// ConfigureEnv makes v read TITLEDUP_* variables, e.g.
// TITLEDUP_CHECK_SETTINGS_DUPLICATE_THRESHOLD.
func ConfigureEnv(v *viper.Viper) {
	v.SetEnvPrefix("titledup")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// Load builds a Config from v and validates it.
func Load(v *viper.Viper) (Config, error) {
	SetDefaults(v)

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("failed to decode configuration: %w", err)
	}

	if err := c.Validate(); err != nil {
		return Config{}, err
	}

	return c, nil
}

// Validate reports settings that make a check impossible.
func (c Config) Validate() error {
	if strings.TrimSpace(c.ColumnSettings.TitleColumn) == "" {
		return fmt.Errorf("column_settings.title_column must be set")
	}
	if strings.TrimSpace(c.ColumnSettings.DuplicateColumn) == "" {
		return fmt.Errorf("column_settings.duplicate_column must be set")
	}
	if c.CheckSettings.DuplicateThreshold < 0 {
		return fmt.Errorf("check_settings.duplicate_threshold must not be negative, got %d", c.CheckSettings.DuplicateThreshold)
	}
	if c.CheckSettings.TestMode && c.CheckSettings.TestRows <= 0 {
		return fmt.Errorf("check_settings.test_rows must be positive in test mode, got %d", c.CheckSettings.TestRows)
	}

	for i, m := range c.LanguageLabels {
		if strings.TrimSpace(m.Label) == "" {
			return fmt.Errorf("language_labels[%d]: label must be set", i)
		}
		if _, ok := analyzer.ParseLanguage(m.Language); !ok {
			return fmt.Errorf("language_labels: unsupported language %q for label %q", m.Language, m.Label)
		}
	}

	return nil
}

// RowLimit returns the maximum number of data rows to read per sheet, or 0
// for no limit.
func (c Config) RowLimit() int {
	if c.CheckSettings.TestMode {
		return c.CheckSettings.TestRows
	}
	return 0
}

// LabelTable returns the default language labels extended with the
// configured ones.
func (c Config) LabelTable() (*analyzer.LabelTable, error) {
	table := analyzer.DefaultLabelTable()

	for _, m := range c.LanguageLabels {
		lang, ok := analyzer.ParseLanguage(m.Language)
		if !ok {
			return nil, fmt.Errorf("unsupported language %q for label %q", m.Language, m.Label)
		}
		if err := table.Register(m.Label, lang); err != nil {
			return nil, err
		}
	}

	return table, nil
}

// Stopwords loads the configured stopword file, or the embedded lists when
// none is configured.
func (c Config) Stopwords() (stopwords.Set, error) {
	if c.StopwordsFile == "" {
		return stopwords.Default(), nil
	}
	return stopwords.LoadFile(c.StopwordsFile)
}

// WriteFile stores c as YAML at path. Existing files are not overwritten.
func WriteFile(path string, c Config) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode configuration: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
