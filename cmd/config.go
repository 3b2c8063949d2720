package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/sanix-darker/grok-search/internal/config"
	"github.com/sanix-darker/grok-search/internal/provider"
	"github.com/sanix-darker/grok-search/internal/provider/grok"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newConfigCmd() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage grok-search configuration",
	}

	configCmd.AddCommand(newConfigInitCmd())
	configCmd.AddCommand(newConfigShowCmd())
	configCmd.AddCommand(newConfigEffectiveCmd())
	configCmd.AddCommand(newConfigValidateCmd())
	return configCmd
}

// configPath returns --config when set, else the default config file path.
func configPath(cmd *cobra.Command) (string, error) {
	path, _ := cmd.Flags().GetString(flagConfig)
	if path == "" {
		return config.GetConfigFilePath()
	}
	return homedir.Expand(path)
}

func newConfigInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create default config file at ~/.config/grok-search/config.yml",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			cfgPath, err := configPath(cmd)
			if err != nil {
				return err
			}
			force, _ := cmd.Flags().GetBool("force")

			// Don't overwrite existing config unless asked to
			if _, err := os.Stat(cfgPath); err == nil && !force {
				msg := fmt.Sprintf("Config file already exists at %s. Overwrite?", cfgPath)
				if !newPrinters().Confirm(msg) {
					fmt.Fprintf(out, "Config file already exists at %s\n", cfgPath)
					return nil
				}
			}

			if err := os.MkdirAll(filepath.Dir(cfgPath), 0o755); err != nil {
				return fmt.Errorf("error creating config directory: %w", err)
			}
			if err := os.WriteFile(cfgPath, []byte(provider.SampleConfigYAML()), 0o644); err != nil {
				return fmt.Errorf("error writing config: %w", err)
			}

			fmt.Fprintf(out, "Config file created at %s\n", cfgPath)
			return nil
		},
	}
	cmd.Flags().Bool("force", false, "overwrite an existing config file without asking")
	return cmd
}

func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print current config",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			cfgPath, err := configPath(cmd)
			if err != nil {
				return err
			}

			data, err := os.ReadFile(cfgPath)
			if err != nil {
				fmt.Fprintf(out, "No config file found at %s\n", cfgPath)
				fmt.Fprintln(out, "\nDefault configuration:")
				fmt.Fprintln(out, provider.SampleConfigYAML())
				return nil
			}

			fmt.Fprintf(out, "# Config file: %s\n", cfgPath)
			fmt.Fprintln(out, string(data))
			return nil
		},
	}
}

func newConfigEffectiveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "effective",
		Short: "Print effective config after env/flag overrides",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			out, err := yaml.Marshal(buildEffectiveConfig(conf))
			if err != nil {
				return fmt.Errorf("error encoding config: %w", err)
			}
			fmt.Fprint(conf.OutWriter, string(out))
			return nil
		},
	}
}

func newConfigValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate config values and required provider fields",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			errs := validateEffectiveConfig(conf)
			if len(errs) > 0 {
				fmt.Fprintln(conf.OutWriter, "Configuration is invalid:")
				for _, e := range errs {
					fmt.Fprintf(conf.OutWriter, "- %s\n", e)
				}
				return errors.New("configuration is invalid")
			}
			fmt.Fprintln(conf.OutWriter, "Configuration is valid.")
			return nil
		},
	}
}

// buildEffectiveConfig resolves every setting the way a request would and
// returns it as a YAML-friendly map. Secrets are redacted.
func buildEffectiveConfig(conf config.Config) map[string]interface{} {
	s := conf.Store
	if s == nil {
		s = config.NewStore()
	}

	retryCfg, _ := provider.ResolveRetryConfig(s)
	timeout, _ := provider.ResolveTimeout(s)
	rps, _ := provider.ResolveRequestsPerSecond(s)

	return map[string]interface{}{
		"config_file":         conf.ConfigFilePath,
		"provider":            provider.ResolveProvider(s).Name,
		"api_url":             strOrDefault(s.GetString(provider.ConfigKeyAPIURL), grok.DefaultBaseURL),
		"api_key":             redactSecret(s.GetString(provider.ConfigKeyAPIKey)),
		"model":               strOrDefault(s.GetString(provider.ConfigKeyModel), grok.DefaultModel),
		"timeout":             timeout.String(),
		"requests_per_second": rps,
		"retry": map[string]interface{}{
			"empty_results":      retryCfg.RetryOnEmpty,
			"max_attempts":       retryCfg.MaxAttempts,
			"multiplier":         retryCfg.Multiplier,
			"max_wait":           retryCfg.MaxWait.String(),
			"extra_status_codes": retryCfg.ExtraStatusCodes.String(),
		},
		"log": map[string]interface{}{
			"dir":   conf.LogDir,
			"level": strOrDefault(conf.LogLevel, "info"),
		},
		"debug": conf.Debug,
	}
}

var validLogLevels = map[string]bool{
	"debug": true, "info": true, "warn": true, "warning": true, "error": true,
}

// validateEffectiveConfig returns one message per invalid or missing value.
func validateEffectiveConfig(conf config.Config) []string {
	s := conf.Store
	if s == nil {
		s = config.NewStore()
	}
	var errs []string

	name := provider.ResolveProvider(s).Name
	if conf.Provider != "" {
		name = conf.Provider
	}
	if !contains(provider.Names(), name) {
		errs = append(errs, fmt.Sprintf("provider %q is unknown (registered: %s)", name, strings.Join(provider.Names(), ", ")))
	}

	if strings.TrimSpace(s.GetString(provider.ConfigKeyAPIKey)) == "" {
		errs = append(errs, "api_key (or GROK_API_KEY) is required")
	}
	if raw := strings.TrimSpace(s.GetString(provider.ConfigKeyAPIURL)); raw != "" {
		if err := grok.ValidateURL(raw); err != nil {
			errs = append(errs, "api_url: "+err.Error())
		}
	}

	if _, err := provider.ResolveRetryConfig(s); err != nil {
		errs = append(errs, splitJoined(err)...)
	}
	if _, err := provider.ResolveTimeout(s); err != nil {
		errs = append(errs, err.Error())
	}
	if _, err := provider.ResolveRequestsPerSecond(s); err != nil {
		errs = append(errs, err.Error())
	}

	if lvl := strings.ToLower(strings.TrimSpace(conf.LogLevel)); lvl != "" && !validLogLevels[lvl] {
		errs = append(errs, fmt.Sprintf("%s: unknown level %q (debug, info, warn, error)", config.KeyLogLevel, conf.LogLevel))
	}

	return errs
}

// splitJoined turns an errors.Join result back into one message per error.
func splitJoined(err error) []string {
	var out []string
	for _, line := range strings.Split(err.Error(), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

func strOrDefault(v, d string) string {
	if strings.TrimSpace(v) == "" {
		return d
	}
	return v
}

func redactSecret(v string) string {
	s := strings.TrimSpace(v)
	if s == "" {
		return ""
	}
	return "***"
}
