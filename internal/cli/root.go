package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time with -ldflags "-X .../internal/cli.version=..."
var version = "dev"

var (
	cfgFile  string
	verbose  bool
	offline  bool
	logLevel string

	// configErr holds a failure to read an explicitly requested config file
	configErr error
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "stylometer",
	Short: "Stylometer - heuristic AI-authorship scoring and style rewriting",
	Long: `Stylometer estimates how likely a text is machine-generated and rewrites
text to read less formulaic.

A generative text provider (Gemini, OpenAI, Anthropic or Ollama) is consulted
when a credential is configured. Any provider failure falls back to local
heuristics, so every command works offline.

Scores are heuristic estimates, not proof of authorship.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Display the version number of Stylometer.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "stylometer %s\n", version)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.stylometer/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output (debug logging)")
	rootCmd.PersistentFlags().BoolVar(&offline, "offline", false, "never consult a provider; use local heuristics only")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error (overrides config)")

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
}

// configDir returns $HOME/.stylometer
func configDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("find home directory: %w", err)
	}
	return filepath.Join(home, ".stylometer"), nil
}

// initConfig reads in config file and ENV variables
func initConfig() {
	viper.Reset()
	configErr = nil
	setDefaults(viper.GetViper())

	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		dir, err := configDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}

		// Search for config in home directory
		viper.AddConfigPath(dir)
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// Read in environment variables that match STYLOMETER_*, e.g.
	// STYLOMETER_LLM_PROVIDER for llm.provider
	viper.SetEnvPrefix("STYLOMETER")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// If a config file is found, read it in
	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	} else if err != nil && cfgFile != "" {
		configErr = fmt.Errorf("read config file %s: %w", cfgFile, err)
	}
}
