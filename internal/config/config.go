package config

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"
)

// Config holds the server settings. Values come from an optional
// importer.yaml in the working directory, overridden by IMPORTER_*
// environment variables.
type Config struct {
	Addr        string
	StaticDir   string
	MaxUploadMB int
	LogLevel    string
}

// Load reads the configuration, applying defaults for anything unset.
func Load() (*Config, error) {
	v := viper.New()
	v.SetDefault("addr", ":8080")
	v.SetDefault("static_dir", "")
	v.SetDefault("max_upload_mb", 32)
	v.SetDefault("log_level", "info")

	v.SetEnvPrefix("IMPORTER")
	v.AutomaticEnv()

	v.SetConfigName("importer")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &Config{
		Addr:        v.GetString("addr"),
		StaticDir:   v.GetString("static_dir"),
		MaxUploadMB: v.GetInt("max_upload_mb"),
		LogLevel:    v.GetString("log_level"),
	}
	if cfg.MaxUploadMB <= 0 {
		return nil, fmt.Errorf("max_upload_mb must be positive, got %d", cfg.MaxUploadMB)
	}
	return cfg, nil
}
