package server

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/iwvelando/buy-vs-invest/internal/config"
	"github.com/iwvelando/buy-vs-invest/pkg/constants"
)

// Config defines runtime parameters for the HTTP server.
type Config struct {
	Address        string               `yaml:"address"`
	MaxRequestSize int64                `yaml:"maxRequestSize"` // bytes
	DevMode        bool                 `yaml:"devMode"`
	Logging        config.LoggingConfig `yaml:"logging"`
}

var serverEnvKeys = []string{
	"address",
	"maxRequestSize",
	"devMode",
	"logging.level",
	"logging.format",
	"logging.outputFile",
}

// LoadConfig reads the server configuration from YAML with
// BUYVSINVEST_SERVER_* environment overrides. A missing file yields the
// defaults plus any overrides.
func LoadConfig(path string) (*Config, error) {
	v := config.NewViper(constants.ServerEnvPrefix, serverEnvKeys...)
	v.SetDefault("address", constants.DefaultServerAddress)
	v.SetDefault("maxRequestSize", constants.DefaultMaxRequestSizeBytes)

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("failed to parse server config: %w", err)
			}
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read server config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode server config: %w", err)
	}
	if cfg.Address == "" {
		cfg.Address = constants.DefaultServerAddress
	}
	if cfg.MaxRequestSize <= 0 {
		return nil, fmt.Errorf("maxRequestSize must be a positive byte count, got %d", cfg.MaxRequestSize)
	}
	return &cfg, nil
}
