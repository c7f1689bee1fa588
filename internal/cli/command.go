package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"codeberg.org/snonux/odialipi/internal"
)

// CreateRootCommand creates and configures the root cobra command
func CreateRootCommand(flags *Flags) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "odialipi [text]",
		Short: "Phonetic English to Odia script transliterator",
		Long: `odialipi converts phonetic English text into Odia script (ଓଡ଼ିଆ).

The transliteration is done by a generative language model (Gemini by
default). Sounds are converted, meaning is never translated.

Examples:
  odialipi                          # Launch interactive GUI (default)
  odialipi namaskar                 # Print ନମସ୍କାର
  odialipi --copy "mo naa odia"     # Transliterate and copy to clipboard
  echo "dhanyabad" | odialipi -     # Read text from stdin
  odialipi --batch words.txt        # Transliterate a file line by line`,
		Args:    cobra.MaximumNArgs(1),
		Version: internal.Version,
	}

	// Set up flags
	setupFlags(rootCmd, flags)

	return rootCmd
}

func setupFlags(cmd *cobra.Command, flags *Flags) {
	// Global flags
	cmd.PersistentFlags().StringVar(&flags.CfgFile, "config", "", "config file (default is $HOME/.odialipi.yaml)")
	cmd.PersistentFlags().StringVar(&flags.LogLevel, "log-level", flags.LogLevel, "Log level: debug, info, warn, error")

	// Local flags
	cmd.Flags().StringVar(&flags.BatchFile, "batch", "", "Transliterate lines from file (one entry per line, # for comments)")
	cmd.Flags().StringVarP(&flags.OutputFile, "output", "o", "", "Write batch results to file instead of stdout")
	cmd.Flags().BoolVar(&flags.Copy, "copy", false, "Copy the transliteration to the clipboard")
	cmd.Flags().BoolVar(&flags.ListModels, "list-models", false, "List available models for the current API key")

	// Provider flags
	cmd.Flags().StringVar(&flags.Provider, "provider", flags.Provider, "Model provider: gemini or openai")
	cmd.Flags().StringVar(&flags.Model, "model", "", "Model name (default: gemini-2.5-flash, or gpt-4o-mini for openai)")
	cmd.Flags().DurationVar(&flags.RequestTimeout, "timeout", 0, "Request timeout (0 uses the transport default)")

	// GUI flags
	cmd.Flags().BoolVar(&flags.Manual, "manual", false, "Start the GUI in manual mode (transliterate on demand only)")
	cmd.Flags().DurationVar(&flags.Debounce, "debounce", flags.Debounce, "Pause in typing before automatic transliteration")

	// Bind flags to viper
	bindFlagsToViper(cmd)
}

func bindFlagsToViper(cmd *cobra.Command) {
	viper.BindPFlag("log.level", cmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("output.file", cmd.Flags().Lookup("output"))
	viper.BindPFlag("provider", cmd.Flags().Lookup("provider"))
	viper.BindPFlag("model", cmd.Flags().Lookup("model"))
	viper.BindPFlag("request_timeout", cmd.Flags().Lookup("timeout"))
	viper.BindPFlag("gui.manual", cmd.Flags().Lookup("manual"))
	viper.BindPFlag("gui.debounce", cmd.Flags().Lookup("debounce"))
}

// InitConfig initializes viper configuration
func InitConfig(cfgFile string) {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error getting home directory: %v\n", err)
			return
		}

		// Search config in home directory with name ".odialipi" (without extension)
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".odialipi")
	}

	// Environment variables
	viper.SetEnvPrefix("ODIALIPI")
	viper.AutomaticEnv()

	// Read config file
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// ApplyConfig copies values from the config file into flags the user did
// not set on the command line
func ApplyConfig(flags *Flags) {
	flags.LogLevel = viper.GetString("log.level")
	flags.OutputFile = viper.GetString("output.file")
	flags.Provider = viper.GetString("provider")
	flags.Model = viper.GetString("model")
	flags.RequestTimeout = viper.GetDuration("request_timeout")
	flags.Manual = viper.GetBool("gui.manual")
	flags.Debounce = viper.GetDuration("gui.debounce")
}

// GetAPIKey retrieves the API key for provider from environment or config
func GetAPIKey(provider string) string {
	switch provider {
	case "openai":
		// First check environment variable
		if key := os.Getenv("OPENAI_API_KEY"); key != "" {
			return key
		}
		// Then check config file
		return viper.GetString("openai.api_key")

	default:
		for _, env := range []string{"GEMINI_API_KEY", "API_KEY"} {
			if key := os.Getenv(env); key != "" {
				return key
			}
		}
		return viper.GetString("gemini.api_key")
	}
}
