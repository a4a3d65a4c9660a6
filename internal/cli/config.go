package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/ppiankov/stylometer/internal/llm"
	"github.com/ppiankov/stylometer/internal/model"
	"github.com/ppiankov/stylometer/internal/pipeline"
)

var (
	checkTimeout time.Duration
	forceInit    bool
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage Stylometer configuration",
	Long: `Manage Stylometer configuration files and settings.

Configuration hierarchy (highest to lowest priority):
1. CLI flags
2. Environment variables (STYLOMETER_*)
3. Config file (~/.stylometer/config.yaml)
4. Defaults`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  `Display the effective configuration after merging defaults, config file, environment variables and flags.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		if configFile := viper.ConfigFileUsed(); configFile != "" {
			fmt.Fprintf(cmd.ErrOrStderr(), "Configuration file: %s\n\n", configFile)
		} else {
			fmt.Fprintf(cmd.ErrOrStderr(), "No configuration file found (using defaults)\n\n")
		}

		// API keys are tagged yaml:"-" and never printed
		yamlData, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("marshal config: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprint(out, string(yamlData))
		fmt.Fprintf(out, "\n# Effective provider: %s\n", describeProvider(cfg))
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize default configuration file",
	Long:  `Create a default configuration file at ~/.stylometer/config.yaml with all available options.`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		dir, err := configDir()
		if err != nil {
			return err
		}
		configPath := filepath.Join(dir, "config.yaml")

		// Check if config already exists
		if _, statErr := os.Stat(configPath); statErr == nil && !forceInit {
			return fmt.Errorf("config file already exists: %s\nUse 'stylometer config show' to view it, or pass --force to overwrite", configPath)
		}

		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}

		data, err := defaultConfigFile()
		if err != nil {
			return err
		}
		if err := os.WriteFile(configPath, data, 0644); err != nil {
			return fmt.Errorf("write config file: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Created default configuration: %s\n", configPath)
		fmt.Fprintf(out, "\nTo view the configuration:\n  stylometer config show\n")
		return nil
	},
}

var configCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Check that the configured provider is reachable",
	Long: `Resolve the provider from configuration and environment, then make one
lightweight request to confirm the credential works. A missing provider is
not an error: every command falls back to local heuristics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		provider, err := pipeline.ProviderFromConfig(cfg, os.Getenv, nil)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if provider == nil {
			fmt.Fprintln(out, "No provider configured: local heuristics only")
			return nil
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), checkTimeout)
		defer cancel()

		if !provider.IsAvailable(ctx) {
			return fmt.Errorf("provider %s is not reachable; commands will fall back to local heuristics", provider.Name())
		}
		fmt.Fprintf(out, "Provider %s is reachable\n", provider.Name())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configCheckCmd)

	configInitCmd.Flags().BoolVar(&forceInit, "force", false, "overwrite an existing config file")
	configCheckCmd.Flags().DurationVar(&checkTimeout, "timeout", 10*time.Second, "timeout for the availability request")
}

// loadConfig merges defaults, the config file, environment and global flags
func loadConfig() (model.Config, error) {
	if configErr != nil {
		return model.Config{}, configErr
	}

	cfg := model.DefaultConfig()
	if err := viper.Unmarshal(&cfg); err != nil {
		return model.Config{}, fmt.Errorf("decode config: %w", err)
	}

	if offline {
		cfg.LLM.Provider = "none"
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if verbose {
		cfg.Log.Level = "debug"
	}
	if cfg.Concurrency.Workers < 1 {
		cfg.Concurrency.Workers = 1
	}
	return cfg, nil
}

// setDefaults registers every default key so AutomaticEnv can override
// nested keys during Unmarshal
func setDefaults(v *viper.Viper) {
	data, err := yaml.Marshal(model.DefaultConfig())
	if err != nil {
		return
	}
	var tree map[string]interface{}
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return
	}
	for key, value := range flatten("", tree) {
		v.SetDefault(key, value)
	}
	// Secret or omitempty keys are absent from the tree
	for _, key := range []string{"llm.api_key", "llm.base_url", "http.http_proxy", "http.https_proxy"} {
		_ = v.BindEnv(key)
	}
}

func flatten(prefix string, tree map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{})
	for key, value := range tree {
		full := key
		if prefix != "" {
			full = prefix + "." + key
		}
		if nested, ok := value.(map[string]interface{}); ok {
			for k, v := range flatten(full, nested) {
				out[k] = v
			}
			continue
		}
		out[full] = value
	}
	return out
}

// defaultConfigFile renders the default configuration with a header
func defaultConfigFile() ([]byte, error) {
	yamlData, err := yaml.Marshal(model.DefaultConfig())
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}

	header := `# Stylometer Configuration File
#
# Configuration hierarchy (highest to lowest priority):
#   1. CLI flags
#   2. Environment variables (STYLOMETER_*, e.g. STYLOMETER_LLM_PROVIDER)
#   3. This config file
#   4. Built-in defaults
#
# llm.provider: auto picks the first credential found in the environment
# (gemini, openai, anthropic, ollama). Set it to none to stay offline.

`
	footer := `
# API Keys (recommended to use environment variables instead):
#   export GEMINI_API_KEY=...
#   export OPENAI_API_KEY=sk-...
#   export ANTHROPIC_API_KEY=sk-ant-...
#   export OLLAMA_BASE_URL=http://localhost:11434
`
	return []byte(header + string(yamlData) + footer), nil
}

// describeProvider explains which provider commands will consult
func describeProvider(cfg model.Config) string {
	resolved := llm.ResolveFromEnv(llm.ConfigFromModel(cfg), os.Getenv)
	switch resolved.Provider {
	case "", "none", "off":
		return "none (local heuristics only)"
	case "ollama":
		if resolved.BaseURL == "" {
			return "ollama at http://localhost:11434"
		}
		return "ollama at " + resolved.BaseURL
	}
	if resolved.APIKey == "" {
		return resolved.Provider + " (no credential, local heuristics only)"
	}
	return resolved.Provider
}
