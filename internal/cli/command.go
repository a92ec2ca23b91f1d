package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/SimonScharf/GoodWordsDictionary/internal"
)

// RunFunc executes the subcommand called name
type RunFunc func(cmd *cobra.Command, name string, args []string) error

// CreateRootCommand creates and configures the root cobra command with all
// subcommands dispatching to run
func CreateRootCommand(flags *Flags, run RunFunc) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "goodwords",
		Short: "Good Words dictionary and word of the day",
		Long: `goodwords keeps a personal vocabulary dictionary and picks one word
of the day from it, never repeating a word until all have been shown.

Examples:
  goodwords today                       # Show today's word
  goodwords add candid                  # Add a word, looking up its definition
  goodwords add serene "calm, peaceful" # Add a word with your own definition
  goodwords import words.txt            # Add words from a file
  goodwords export words.apkg           # Export an Anki deck
  goodwords serve                       # Run the dictionary API for the app`,
		Version:      internal.Version,
		SilenceUsage: true,
	}

	setupFlags(rootCmd, flags)

	for _, sub := range subcommands(flags) {
		sub.RunE = func(cmd *cobra.Command, args []string) error {
			return run(cmd, cmd.Name(), args)
		}
		rootCmd.AddCommand(sub)
	}

	return rootCmd
}

func subcommands(flags *Flags) []*cobra.Command {
	clearCmd := &cobra.Command{
		Use:   "clear-history",
		Short: "Forget which words were shown",
		Args:  cobra.NoArgs,
	}
	clearCmd.Flags().BoolVar(&flags.Archive, "archive", false, "Save a snapshot of the history before clearing it")

	addCmd := &cobra.Command{
		Use:   "add <word> [definition]",
		Short: "Add a word to your dictionary",
		Args:  cobra.RangeArgs(1, 2),
	}
	addCmd.Flags().BoolVar(&flags.NoAutoFetch, "no-auto-fetch", false, "Do not look up a missing definition")

	exportCmd := &cobra.Command{
		Use:   "export <file>",
		Short: "Export the dictionary as Anki CSV or .apkg",
		Args:  cobra.ExactArgs(1),
	}
	exportCmd.Flags().StringVar(&flags.DeckName, "deck-name", flags.DeckName, "Deck name for .apkg export")
	exportCmd.Flags().BoolVar(&flags.NoHeaders, "no-headers", false, "Omit the CSV header row")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the dictionary HTTP API",
		Args:  cobra.NoArgs,
	}
	serveCmd.Flags().StringVar(&flags.ServerAddr, "addr", flags.ServerAddr, "Listen address")
	bindFlagSet(serveCmd.Flags(), map[string]string{"addr": "server.addr"})

	return []*cobra.Command{
		{Use: "today", Short: "Show the word of the day", Args: cobra.NoArgs},
		{Use: "stats", Short: "Show today's progress through the dictionary", Args: cobra.NoArgs},
		{Use: "history", Short: "Show the words shown per day", Args: cobra.NoArgs},
		clearCmd,
		{Use: "list", Short: "List all words", Args: cobra.NoArgs},
		addCmd,
		{Use: "import <file>", Short: "Add words from a batch file (word or word = definition per line)", Args: cobra.ExactArgs(1)},
		exportCmd,
		{Use: "define <word>", Short: "Look up a definition online", Args: cobra.ExactArgs(1)},
		serveCmd,
	}
}

func setupFlags(cmd *cobra.Command, flags *Flags) {
	stateDir := StateDir()

	pf := cmd.PersistentFlags()
	pf.StringVar(&flags.CfgFile, "config", "", "config file (default is $HOME/.goodwords.yaml)")
	pf.StringVar(&flags.DictionaryBase, "dictionary", filepath.Join(stateDir, "dictionary.json"), "Base dictionary file")
	pf.StringVar(&flags.DictionaryUser, "user-dictionary", filepath.Join(stateDir, "user-words.json"), "File receiving added words")
	pf.StringVar(&flags.DictionaryURL, "dictionary-url", "", "Dictionary API base URL, the local files are used as fallback")
	pf.StringVar(&flags.StoreBackend, "store", flags.StoreBackend, "History store: memory, file, sqlite or remote")
	pf.StringVar(&flags.StorePath, "store-path", "", "Directory (file) or database path (sqlite)")
	pf.StringVar(&flags.StoreURL, "store-url", "", "Dictionary API base URL for the remote store")
	pf.StringVar(&flags.Timezone, "timezone", "", "IANA time zone deciding when a day starts (default local)")
	pf.StringVar(&flags.LogLevel, "log-level", flags.LogLevel, "Log level: debug, info, warn, error")
	pf.StringVar(&flags.LogFormat, "log-format", flags.LogFormat, "Log format: text or json")

	bindFlagsToViper(cmd)
}

// viperKeys maps persistent flag names to configuration keys
var viperKeys = map[string]string{
	"dictionary":      "dictionary.base",
	"user-dictionary": "dictionary.user",
	"dictionary-url":  "dictionary.url",
	"store":           "store.backend",
	"store-path":      "store.path",
	"store-url":       "store.url",
	"timezone":        "timezone",
	"log-level":       "log.level",
	"log-format":      "log.format",
}

func bindFlagsToViper(cmd *cobra.Command) {
	bindFlagSet(cmd.PersistentFlags(), viperKeys)
}

func bindFlagSet(fs *pflag.FlagSet, keys map[string]string) {
	for name, key := range keys {
		if f := fs.Lookup(name); f != nil {
			viper.BindPFlag(key, f)
		}
	}
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

		// Search config in home directory with name ".goodwords" (without extension)
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".goodwords")
	}

	// Environment variables, e.g. GOODWORDS_STORE_BACKEND for store.backend
	viper.SetEnvPrefix("GOODWORDS")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Read config file
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// GetOpenAIKey retrieves the OpenAI API key from environment or config
func GetOpenAIKey() string {
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		return key
	}
	return viper.GetString("lookup.openai_key")
}

// GetGeminiKey retrieves the Gemini API key from environment or config
func GetGeminiKey() string {
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		return key
	}
	return viper.GetString("lookup.gemini_key")
}

// GetMerriamWebsterKey retrieves the Merriam-Webster thesaurus key from
// environment or config
func GetMerriamWebsterKey() string {
	if key := os.Getenv("MERRIAM_WEBSTER_API_KEY"); key != "" {
		return key
	}
	return viper.GetString("lookup.merriam_webster_key")
}
