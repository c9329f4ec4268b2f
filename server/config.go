package server

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds the serve-time settings.
type Config struct {
	Addr            string        // listen address
	APIKey          string        // Alpha Vantage api key; "demo" works, poorly
	RefreshInterval time.Duration // price polling interval
	Debug           bool          // verbose logging
}

// LoadConfig reads settings from a folio.yaml config file (explicit
// path, working directory, or ~/.config/folio), overridable through
// FOLIO_* environment variables. A missing config file is fine unless
// an explicit path was given; defaults cover everything.
func LoadConfig(path string) (Config, error) {
	v := viper.New()
	v.SetDefault("addr", ":8080")
	v.SetDefault("api_key", "demo")
	v.SetDefault("refresh_interval", "30s")
	v.SetDefault("debug", false)

	v.SetEnvPrefix("FOLIO")
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config %q: %w", path, err)
		}
	} else {
		v.SetConfigName("folio")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/folio")
		var notFound viper.ConfigFileNotFoundError
		if err := v.ReadInConfig(); err != nil && !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("reading config: %w", err)
		}
	}

	cfg := Config{
		Addr:            v.GetString("addr"),
		APIKey:          v.GetString("api_key"),
		RefreshInterval: v.GetDuration("refresh_interval"),
		Debug:           v.GetBool("debug"),
	}
	if cfg.RefreshInterval <= 0 {
		return Config{}, fmt.Errorf("refresh_interval must be positive, got %s", cfg.RefreshInterval)
	}
	return cfg, nil
}
