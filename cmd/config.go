package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/btraven00/titledup/internal/config"
)

var configPathFlag string

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect or create the configuration file",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default configuration to a file",
	Long: `Write the built-in settings as YAML. Existing files are never
overwritten.

Examples:
  titledup config init
  titledup config init --path listings.yaml`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.WriteFile(configPathFlag, config.Default()); err != nil {
			return err
		}
		if !quiet {
			fmt.Fprintf(os.Stderr, "Configuration written to %s\n", configPathFlag)
		}
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := loadConfig()
		if err != nil {
			return err
		}
		return writeConfigYAML(os.Stdout, settings)
	},
}

func writeConfigYAML(w io.Writer, settings config.Config) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(settings); err != nil {
		return fmt.Errorf("failed to encode configuration: %w", err)
	}
	return enc.Close()
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)

	configInitCmd.Flags().StringVar(&configPathFlag, "path", ".titledup.yaml", "file to create")
}
