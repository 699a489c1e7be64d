// Package config defines the data structures related to configuration and
// includes functions for loading and validating the config.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/iwvelando/buy-vs-invest/pkg/constants"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Configuration holds all configuration for buy-vs-invest.
type Configuration struct {
	Common    Common        `yaml:"common" json:"common"`
	Scenarios []Scenario    `yaml:"scenarios" json:"scenarios"`
	Audit     AuditConfig   `yaml:"audit,omitempty" json:"audit,omitempty"`
	Logging   LoggingConfig `yaml:"logging,omitempty" json:"logging,omitempty"`
	Output    OutputConfig  `yaml:"output,omitempty" json:"output,omitempty"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty" json:"level,omitempty"`           // debug, info, warn, error
	Format     string `yaml:"format,omitempty" json:"format,omitempty"`         // json, console
	OutputFile string `yaml:"outputFile,omitempty" json:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format  string `yaml:"format,omitempty" json:"format,omitempty"` // pretty, csv
	MaxRows int    `yaml:"maxRows,omitempty" json:"maxRows,omitempty"`
}

// AuditConfig toggles the development-time sanity checks.
type AuditConfig struct {
	DevMode bool `yaml:"devMode,omitempty" json:"devMode,omitempty"`
}

// Common holds the purchase and investment parameters shared by all scenarios.
type Common struct {
	AssetValue  float64    `yaml:"assetValue" json:"assetValue"`
	DownPayment float64    `yaml:"downPayment" json:"downPayment"`
	Investment  Investment `yaml:"investment" json:"investment"`
}

// Investment describes the alternative of keeping the down payment invested.
type Investment struct {
	AnnualReturnRate            float64 `yaml:"annualReturnRate" json:"annualReturnRate"` // percent
	RateBasis                   string  `yaml:"rateBasis,omitempty" json:"rateBasis,omitempty"`
	Contribution                float64 `yaml:"contribution,omitempty" json:"contribution,omitempty"`
	ContributionFromInstallment bool    `yaml:"contributionFromInstallment,omitempty" json:"contributionFromInstallment,omitempty"`
}

// Scenario holds one financing option to compare against investing.
type Scenario struct {
	Name         string  `yaml:"name" json:"name"`
	Active       bool    `yaml:"active" json:"active"`
	Method       string  `yaml:"method,omitempty" json:"method,omitempty"` // price, sac
	InterestRate float64 `yaml:"interestRate" json:"interestRate"`         // percent
	RateBasis    string  `yaml:"rateBasis,omitempty" json:"rateBasis,omitempty"`
	Term         int     `yaml:"term" json:"term"` // months
}

// Keys that can be set from the environment even when absent from the file.
var envBoundKeys = []string{
	"audit.devMode",
	"logging.level",
	"logging.format",
	"logging.outputFile",
	"output.format",
	"output.maxRows",
}

func newViper() *viper.Viper {
	return NewViper(constants.EnvPrefix, envBoundKeys...)
}

// NewViper returns a YAML viper instance whose keys can be overridden by
// environment variables named PREFIX_SECTION_KEY. Keys listed in boundKeys
// are overridable even when the file does not mention them.
func NewViper(envPrefix string, boundKeys ...string) *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range boundKeys {
		_ = v.BindEnv(key)
	}
	return v
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %s", err)
	}
	return decode(v)
}

// LoadConfigurationFromReader loads a YAML configuration from any reader.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := newViper()
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("error reading config data, %w", err)
	}
	if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("error reading config data, %s", err)
	}
	return decode(v)
}

func decode(v *viper.Viper) (*Configuration, error) {
	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}
	return &configuration, nil
}

// LoadEnvFile loads KEY=value pairs from a dotenv file into the process
// environment. A missing file is not an error.
func LoadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to stat env file %s: %w", path, err)
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	return nil
}

// ActiveScenarios returns the scenarios flagged active, in configuration order.
func (conf *Configuration) ActiveScenarios() []Scenario {
	var active []Scenario
	for _, scenario := range conf.Scenarios {
		if scenario.Active {
			active = append(active, scenario)
		}
	}
	return active
}

// MaxRowsOrDefault returns the configured number of schedule rows to print.
func (o OutputConfig) MaxRowsOrDefault() int {
	if o.MaxRows <= 0 {
		return constants.DefaultMaxRows
	}
	return o.MaxRows
}
