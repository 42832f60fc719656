package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"subtrack/internal/config"
	"subtrack/internal/models"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage subtrack configuration",
	Long:  "View and update subtrack configuration settings",
}

var configGetCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Get configuration value",
	Long:  "Display specific configuration value or all configuration",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadGlobalConfig()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		out := cmd.OutOrStdout()

		if len(args) == 0 {
			writeln(out, "Current configuration:")
			for _, key := range config.Keys() {
				value, _ := cfg.Get(key)
				writef(out, "%s: %s\n", key, value)
			}
			return nil
		}

		value, err := cfg.Get(args[0])
		if err != nil {
			return err
		}
		writeln(out, value)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set configuration value",
	Long:  "Update a configuration setting such as server_url or http_timeout",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadFile(globalConfigDir)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		old, _ := cfg.Get(args[0])
		if err := cfg.Set(args[0], args[1]); err != nil {
			return err
		}

		if err := config.SaveGlobalConfig(cfg); err != nil {
			return fmt.Errorf("failed to save configuration: %w", err)
		}

		updated, _ := cfg.Get(args[0])
		writef(cmd.OutOrStdout(), "%s updated: %s -> %s\n", args[0], old, updated)
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	Long:  "Create a new configuration file with default values",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.GetGlobalConfigPath()
		if err != nil {
			return fmt.Errorf("failed to get config path: %w", err)
		}
		out := cmd.OutOrStdout()

		if _, err := os.Stat(path); err == nil {
			writeln(out, "Configuration file already exists.")
			writeln(out, "Use 'subtrack config set' to modify existing configuration.")
			return nil
		}

		cfg := config.Default()
		if cmd.Flags().Changed("server-url") {
			if err := cfg.Set(config.KeyServerURL, globalConfig.ServerURL); err != nil {
				return err
			}
		}

		if err := cfg.Save(globalConfigDir); err != nil {
			return fmt.Errorf("failed to save configuration: %w", err)
		}

		writeln(out, "Configuration initialized successfully.")
		writef(out, "Configuration file created at: %s\n", path)
		return nil
	},
}

var configPathsCmd = &cobra.Command{
	Use:   "paths",
	Short: "Show configuration file paths",
	Long:  "Display paths to the configuration, credential and log files",
	RunE: func(cmd *cobra.Command, args []string) error {
		creds := models.NewFileCredentialStore(globalConfigDir)
		paths := []struct {
			label string
			path  string
		}{
			{"Config file", config.Path(globalConfigDir)},
			{"Auth token file", creds.Path(models.TokenKey)},
			{"User file", creds.Path(models.UserKey)},
			{"Log file", config.LogPath(globalConfigDir)},
		}

		out := cmd.OutOrStdout()
		writeln(out, "Config paths:")
		writef(out, "- Config directory: %s\n", globalConfigDir)
		for _, p := range paths {
			writef(out, "- %s: %s\n", p.label, p.path)
		}

		writeln(out, "\nExistence status:")
		for _, p := range paths {
			status := "Exists"
			if _, err := os.Stat(p.path); errors.Is(err, os.ErrNotExist) {
				status = "Does not exist"
			}
			writef(out, "- %s: %s\n", p.label, status)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathsCmd)
}
