// Viper-based hierarchical configuration: defaults < config file < environment.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config represents the complete application configuration.
type Config struct {
	Log struct {
		Level  string `mapstructure:"level" yaml:"level"`
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"log" yaml:"log"`

	CSV struct {
		Delimiter string `mapstructure:"delimiter" yaml:"delimiter"`
	} `mapstructure:"csv" yaml:"csv"`

	Data struct {
		// Directory holding data/<year>/ statement trees.
		Directory string `mapstructure:"directory" yaml:"directory"`
		// OutputDirectory receives output/<year>/ audit CSVs and workbooks.
		OutputDirectory string `mapstructure:"output_directory" yaml:"output_directory"`
	} `mapstructure:"data" yaml:"data"`

	Profiles struct {
		// Directory holding <bank>.json / <bank>.yaml bank profiles.
		Directory string `mapstructure:"directory" yaml:"directory"`
	} `mapstructure:"profiles" yaml:"profiles"`

	Rules struct {
		// Path to the allocation-rules document.
		Path string `mapstructure:"path" yaml:"path"`
	} `mapstructure:"rules" yaml:"rules"`
}

// LoadConfig reads configuration from an optional config file and the
// environment. Environment variables use the TAXBOOK_ prefix, e.g.
// TAXBOOK_LOG_LEVEL=debug.
func LoadConfig(configFile string) (*Config, error) {
	v := viper.New()

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("csv.delimiter", ",")
	v.SetDefault("data.directory", "data")
	v.SetDefault("data.output_directory", "output")
	v.SetDefault("profiles.directory", "config/banks")
	v.SetDefault("rules.path", "config/allocation_rules.json")

	v.SetEnvPrefix("TAXBOOK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", configFile, err)
		}
	} else {
		v.SetConfigName("taxbook")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		// A missing config file is fine; defaults and env vars apply.
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("error reading config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	return &cfg, nil
}
