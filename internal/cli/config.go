// Copyright 2025
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/realcolon/downloader/pkg/figshare"
)

const configBaseName = "realcolon"

// DefaultConfig returns the default configuration.
func DefaultConfig() map[string]any {
	return map[string]any{
		"output-dir": "",
		"filter":     "",
		"log-level":  "info",
		"endpoint":   figshare.DefaultEndpoint,
	}
}

// configCandidates lists the default config locations in lookup order.
func configCandidates() []string {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil
	}
	dir := filepath.Join(home, ".config")
	return []string{
		filepath.Join(dir, configBaseName+".json"),
		filepath.Join(dir, configBaseName+".yaml"),
		filepath.Join(dir, configBaseName+".yml"),
	}
}

// findConfig returns the first existing default config file, or "".
func findConfig() string {
	for _, p := range configCandidates() {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// loadConfig parses a JSON or YAML config file, chosen by extension.
func loadConfig(path string) (map[string]any, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg map[string]any
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return nil, fmt.Errorf("invalid YAML config file: %w", err)
		}
	default: // .json or unknown
		if err := json.Unmarshal(b, &cfg); err != nil {
			return nil, fmt.Errorf("invalid JSON config file: %w", err)
		}
	}
	return cfg, nil
}

// applySettingsDefaults fills flags the user did not set from the config file.
func applySettingsDefaults(cmd *cobra.Command, ro *RootOpts, do *DownloadOpts) error {
	path := ro.Config
	if path == "" {
		path = findConfig()
	}
	if path == "" {
		return nil
	}

	cfg, err := loadConfig(path)
	if err != nil {
		return err
	}

	setStr := func(flagName string, set func(string)) {
		if cmd.Flags().Changed(flagName) {
			return
		}
		if v, ok := cfg[flagName]; ok && v != nil {
			set(fmt.Sprint(v))
		}
	}

	setStr("output-dir", func(v string) { do.OutputDir = v })
	setStr("filter", func(v string) { do.Filter = v })
	setStr("log-level", func(v string) { ro.LogLevel = v })
	setStr("endpoint", func(v string) { do.Endpoint = v })

	return nil
}

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
	}

	cmd.AddCommand(newConfigInitCmd())
	cmd.AddCommand(newConfigShowCmd())
	cmd.AddCommand(newConfigPathCmd())

	return cmd
}

func newConfigInitCmd() *cobra.Command {
	var (
		force   bool
		useYAML bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a default configuration file",
		Long: `Creates a default configuration file at ~/.config/realcolon.json (or .yaml)

The configuration file sets default values for the download flags.
CLI flags always override config file values.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			home, err := os.UserHomeDir()
			if err != nil {
				return fmt.Errorf("could not find home directory: %w", err)
			}

			configDir := filepath.Join(home, ".config")
			ext := ".json"
			if useYAML {
				ext = ".yaml"
			}
			configPath := filepath.Join(configDir, configBaseName+ext)

			if _, err := os.Stat(configPath); err == nil && !force {
				return fmt.Errorf("config file already exists: %s\nUse --force to overwrite", configPath)
			}

			if err := os.MkdirAll(configDir, 0o755); err != nil {
				return fmt.Errorf("could not create config directory: %w", err)
			}

			cfg := DefaultConfig()
			var data []byte
			if useYAML {
				data, err = yaml.Marshal(cfg)
			} else {
				data, err = json.MarshalIndent(cfg, "", "  ")
			}
			if err != nil {
				return err
			}

			if err := os.WriteFile(configPath, data, 0o644); err != nil {
				return fmt.Errorf("could not write config file: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "✓ Created config file: %s\n", configPath)
			fmt.Fprintln(out)
			fmt.Fprintln(out, "Edit this file to set your defaults. For example:")
			fmt.Fprintln(out, "  - Change the default output directory")
			fmt.Fprintln(out, "  - Keep a filter you always use")
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite existing config file")
	cmd.Flags().BoolVar(&useYAML, "yaml", false, "Create YAML config instead of JSON")

	return cmd
}

func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			configPath, _ := cmd.Flags().GetString("config")
			if configPath == "" {
				configPath = findConfig()
			}
			if configPath == "" {
				fmt.Fprintln(out, "No config file found.")
				if c := configCandidates(); len(c) > 0 {
					fmt.Fprintf(out, "Run 'realcolon config init' to create one at:\n  %s\n", c[0])
				}
				return nil
			}

			data, err := os.ReadFile(configPath)
			if err != nil {
				return err
			}

			fmt.Fprintf(out, "Config file: %s\n\n", configPath)
			fmt.Fprintln(out, string(data))
			return nil
		},
	}
}

func newConfigPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the config file path",
		Run: func(cmd *cobra.Command, args []string) {
			if p := findConfig(); p != "" {
				fmt.Fprintln(cmd.OutOrStdout(), p)
				return
			}
			if c := configCandidates(); len(c) > 0 {
				fmt.Fprintln(cmd.OutOrStdout(), c[0])
			}
		},
	}
}
