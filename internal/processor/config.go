package processor

import (
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"github.com/SimonScharf/GoodWordsDictionary/internal/cli"
	"github.com/SimonScharf/GoodWordsDictionary/internal/logging"
	"github.com/SimonScharf/GoodWordsDictionary/internal/lookup"
	"github.com/SimonScharf/GoodWordsDictionary/internal/store"
)

// Config collects everything the processor builds its components from
type Config struct {
	DictionaryBase string
	DictionaryUser string
	DictionaryURL  string
	Store          store.Config
	Lookup         lookup.Config
	ServerAddr     string
	Timezone       string
	StateDir       string // archives go to StateDir/archive
	DeckName       string
	CSVHeaders     bool
	Log            logging.Config
}

// ConfigFromViper reads the configuration bound by the cli package
func ConfigFromViper(flags *cli.Flags) (Config, error) {
	stateDir := cli.StateDir()

	level, err := logging.ParseLevel(viper.GetString("log.level"))
	if err != nil {
		return Config{}, err
	}
	format, err := logging.ParseFormat(viper.GetString("log.format"))
	if err != nil {
		return Config{}, err
	}

	storeCfg := store.Config{
		Backend: store.NormalizeBackend(viper.GetString("store.backend")),
		Path:    viper.GetString("store.path"),
		URL:     viper.GetString("store.url"),
		Timeout: 15 * time.Second,
	}
	if storeCfg.Path == "" {
		switch storeCfg.Backend {
		case store.BackendFile:
			storeCfg.Path = filepath.Join(stateDir, "history")
		case store.BackendSQLite:
			storeCfg.Path = filepath.Join(stateDir, "goodwords.db")
		}
	}
	if storeCfg.URL == "" {
		storeCfg.URL = viper.GetString("dictionary.url")
	}

	logCfg := logging.DefaultConfig()
	logCfg.Level = level
	logCfg.Format = format

	return Config{
		DictionaryBase: viper.GetString("dictionary.base"),
		DictionaryUser: viper.GetString("dictionary.user"),
		DictionaryURL:  viper.GetString("dictionary.url"),
		Store:          storeCfg,
		Lookup: lookup.Config{
			MerriamWebsterKey: cli.GetMerriamWebsterKey(),
			OpenAIKey:         cli.GetOpenAIKey(),
			OpenAIModel:       viper.GetString("lookup.openai_model"),
			GeminiKey:         cli.GetGeminiKey(),
			GeminiModel:       viper.GetString("lookup.gemini_model"),
		},
		ServerAddr: viper.GetString("server.addr"),
		Timezone:   viper.GetString("timezone"),
		StateDir:   stateDir,
		DeckName:   flags.DeckName,
		CSVHeaders: !flags.NoHeaders,
		Log:        *logCfg,
	}, nil
}
