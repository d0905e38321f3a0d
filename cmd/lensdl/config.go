package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"lensdl/pkg/config"
	"lensdl/pkg/storage"
	"lensdl/pkg/ui"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration files",
	Long: `Manage lensdl configuration files.

Configuration can be loaded from:
  - Command line flags (highest priority)
  - Environment variables (LENSDL_*)
  - .env files
  - Configuration file
  - Default values (lowest priority)`,
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a configuration file with the default values",
	Long: `Write a configuration file containing every option at its default value.

The file is written to the path given with --config, or to
` + config.DefaultPath() + ` otherwise. An existing file is never overwritten.`,
	Args: cobra.NoArgs,
	RunE: runConfigInit,
}

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration",
	Long: `Load the configuration from every source and check value ranges,
the rate limit strategy and the output templates.`,
	Args: cobra.NoArgs,
	RunE: runConfigValidate,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(initCmd)
	configCmd.AddCommand(showCmd)
	configCmd.AddCommand(validateCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	configPath := configFile
	if configPath == "" {
		configPath = config.DefaultPath()
	}

	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("configuration file already exists: %s", configPath)
	}

	if err := config.DefaultConfig().Save(configPath); err != nil {
		return err
	}

	ui.PrintSuccess("Configuration file created: " + configPath)
	fmt.Fprintln(cmd.OutOrStdout(), "\nNext steps:")
	fmt.Fprintln(cmd.OutOrStdout(), "1. Edit the output and rate_limit sections")
	fmt.Fprintln(cmd.OutOrStdout(), "2. Run 'lensdl config validate' to check the configuration")
	fmt.Fprintln(cmd.OutOrStdout(), "3. Start downloading with 'lensdl get <url>'")
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile, nil)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to format configuration: %w", err)
	}

	ui.PrintHighlight("Current Configuration")
	fmt.Fprintln(cmd.OutOrStdout())
	fmt.Fprint(cmd.OutOrStdout(), string(data))
	return nil
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	source := configFile
	if source == "" {
		source = "(default locations)"
	}
	ui.PrintInfo("Validating configuration", source)

	cfg, err := config.Load(configFile, nil)
	if err != nil {
		return err
	}
	patterns := []string{cfg.Output.FileNamePattern}
	if cfg.Output.DirectoryPattern != "" {
		patterns = append(patterns, storage.SplitPattern(cfg.Output.DirectoryPattern)...)
	}
	for _, pattern := range patterns {
		if _, err := storage.Compile(pattern); err != nil {
			return fmt.Errorf("invalid output template %q: %w", pattern, err)
		}
	}

	ui.PrintSuccess("Configuration is valid")
	return nil
}
