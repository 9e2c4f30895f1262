package cli

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/minjpark/litscreen/internal/model"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "litscreen",
	Short: "Litscreen - Three-stage literature screening for systematic reviews",
	Long: `Litscreen screens biomedical literature records (title/abstract pairs)
for inclusion in a systematic review, in three stages:

1. Rule stage: deterministic keyword matching across three concept
   categories (depression, mobile/digital, behavioral activation).
   A record is included only when all three categories match.
2. LLM stage: a language model re-examines the records the rules
   excluded, rescuing papers that phrase the concepts differently.
3. Human review: an interactive interface for confirming, overriding,
   or re-deriving the final decision per record.

Rule verdicts are reproducible ground truth; LLM and human verdicts are
layered on top and tracked separately per record.`,
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
	Long:  `Display the version number and build information for Litscreen.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("litscreen v0.2.1")
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.litscreen/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	// Bind flags to viper
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables
func initConfig() {
	// Local .env keeps the API key out of the shell history
	_ = godotenv.Load()

	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}

		// Search for config in home directory
		viper.AddConfigPath(home + "/.litscreen")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// Read in environment variables that match LITSCREEN_*
	viper.SetEnvPrefix("LITSCREEN")
	viper.AutomaticEnv()

	// If a config file is found, read it in
	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// loadConfig builds the effective configuration: defaults, overlaid by
// the config file when one was found. Flag overrides are applied by the
// individual commands.
func loadConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()

	if path := viper.ConfigFileUsed(); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.Output.Verbose = verbose || viper.GetBool("verbose")
	return cfg, nil
}

// resolveAPIKey fills the provider API key from the environment when
// the config carries none.
func resolveAPIKey(cfg *model.Config) error {
	if cfg.LLM.Provider == "" || cfg.LLM.APIKey != "" {
		return nil
	}
	switch cfg.LLM.Provider {
	case "openai":
		cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
		if cfg.LLM.APIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
	}
	return nil
}
