// Package config loads folio settings from a config file, FOLIO_*
// environment variables and defaults.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Content        string        `mapstructure:"content"`
	Template       string        `mapstructure:"template"`
	OutputDir      string        `mapstructure:"outputDir"`
	StaticDir      string        `mapstructure:"staticDir"`
	Port           string        `mapstructure:"port"`
	Database       string        `mapstructure:"database"`
	LogFile        string        `mapstructure:"logFile"`
	FetchTimeout   time.Duration `mapstructure:"fetchTimeout"`
	MapKeyEnv      string        `mapstructure:"mapKeyEnv"`
	MapContainer   string        `mapstructure:"mapContainer"`
	MapKeyStoreKey string        `mapstructure:"mapKeyStoreKey"`
}

// SetDefaults registers every default on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("content", "content.json")
	v.SetDefault("template", "templates/index.html")
	v.SetDefault("outputDir", "public")
	v.SetDefault("staticDir", "static")
	v.SetDefault("port", "8080")
	v.SetDefault("database", "")
	v.SetDefault("logFile", "")
	v.SetDefault("fetchTimeout", 10*time.Second)
	v.SetDefault("mapKeyEnv", "MAP_API_KEY")
	v.SetDefault("mapContainer", "map")
	v.SetDefault("mapKeyStoreKey", "map.key")
}

// Load reads the config. An explicit file must exist; otherwise config.yaml
// in the working directory is optional. used names the file read, if any.
func Load(v *viper.Viper, file string) (cfg Config, used string, err error) {
	SetDefaults(v)

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix("FOLIO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// PORT is what hosting platforms set.
	if err := v.BindEnv("port", "FOLIO_PORT", "PORT"); err != nil {
		return cfg, "", err
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || file != "" {
			return cfg, "", fmt.Errorf("read config: %w", err)
		}
	} else {
		used = v.ConfigFileUsed()
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, used, fmt.Errorf("decode config: %w", err)
	}
	if cfg.Content == "" {
		return cfg, used, errors.New("config: content source is empty")
	}
	return cfg, used, nil
}
