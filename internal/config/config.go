package config

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"
)

// Config is the server configuration, loaded from config.yaml with
// DECKSTUDIO_* environment overrides.
type Config struct {
	Port         int      `mapstructure:"port"`
	DataDir      string   `mapstructure:"dataDir"`
	SaveDir      string   `mapstructure:"saveDir"`
	ArtBaseURL   string   `mapstructure:"artBaseURL"`
	FetchTimeout int      `mapstructure:"fetchTimeoutSec"`
	FetchLimit   int      `mapstructure:"fetchLimit"`
	CatalogTTL   int      `mapstructure:"catalogTTLSec"`
	FontPaths    []string `mapstructure:"fontPaths"`
	Log          LogConf  `mapstructure:"log"`
}

type LogConf struct {
	Level string `mapstructure:"level"`
}

// Load reads the config file at path (optional) over the built-in defaults.
// A missing file is fine; a malformed one is not.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetDefault("port", 8080)
	v.SetDefault("dataDir", "data")
	v.SetDefault("saveDir", "saved_decks")
	v.SetDefault("artBaseURL", "")
	v.SetDefault("fetchTimeoutSec", 5)
	v.SetDefault("fetchLimit", 8)
	v.SetDefault("catalogTTLSec", 3600)
	v.SetDefault("fontPaths", []string{
		"meiryo.ttc",
		"/usr/share/fonts/truetype/noto/NotoSansJP-Regular.otf",
		"/usr/share/fonts/opentype/noto/NotoSansCJKjp-Regular.otf",
		"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
		"/usr/share/fonts/truetype/liberation/LiberationSans-Regular.ttf",
	})
	v.SetDefault("log.level", "info")

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	v.SetEnvPrefix("DECKSTUDIO")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if path != "" {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &c, nil
}
