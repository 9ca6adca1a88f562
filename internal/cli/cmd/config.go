package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/berrythewa/neowatch/internal/config"
)

// newConfigCmd creates the config command
func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage neowatch configuration",
		Long: `Manage neowatch configuration:
  • Show the effective configuration
  • Write a default configuration file
  • Print where configuration and data live
  • Validate the configuration`,
	}

	cmd.AddCommand(newConfigShowCmd())
	cmd.AddCommand(newConfigInitCmd())
	cmd.AddCommand(newConfigPathCmd())
	cmd.AddCommand(newConfigValidateCmd())

	return cmd
}

func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration (file, environment and defaults merged)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := yaml.Marshal(GetConfig())
			if err != nil {
				return fmt.Errorf("failed to marshal config: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}

func newConfigInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a configuration file with the default settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath := GetPaths().ConfigFile
			if cfgFile := configFileFlag(cmd); cfgFile != "" {
				configPath = cfgFile
			}

			if _, err := os.Stat(configPath); err == nil && !force {
				return fmt.Errorf("configuration already exists at %s\nUse --force to overwrite or 'neowatch config show' to view it", configPath)
			}

			if err := config.DefaultConfig().Save(configPath); err != nil {
				return fmt.Errorf("failed to save configuration: %w", err)
			}

			GetZapLogger().Info("Configuration initialized", zap.String("config_path", configPath))
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Configuration initialized at: %s\n", configPath)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing configuration")
	return cmd
}

func newConfigPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print configuration and data locations",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			p := GetPaths()
			configPath := p.ConfigFile
			if cfgFile := configFileFlag(cmd); cfgFile != "" {
				configPath = cfgFile
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Config:   %s\n", configPath)
			fmt.Fprintf(out, "Data:     %s\n", p.DataDir)
			fmt.Fprintf(out, "Log:      %s\n", p.LogFile)
			fmt.Fprintf(out, "Database: %s\n", dbPath())
		},
	}
}

func newConfigValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the effective configuration for errors",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := GetConfig().Validate(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "✓ Configuration is valid")
			return nil
		},
	}
}

// configFileFlag returns the value of the persistent --config flag
func configFileFlag(cmd *cobra.Command) string {
	f := cmd.Flag("config")
	if f == nil {
		return ""
	}
	return f.Value.String()
}

// dbPath is the recording database location
func dbPath() string {
	if c := GetConfig(); c != nil && c.Record.DBPath != "" {
		return c.Record.DBPath
	}
	return GetPaths().DBFile
}
