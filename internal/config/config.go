// Package config loads dasha settings from .dasha.yaml, DASHA_* environment
// variables and command-line flags, in increasing priority.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/roach88/dasha/internal/dasha"
)

// Config holds all runtime settings.
type Config struct {
	HorizonYears    float64 `mapstructure:"horizon_years"`
	YearLengthDays  float64 `mapstructure:"year_length_days"`
	Interpretations string  `mapstructure:"interpretations"`
	DB              string  `mapstructure:"db"`
	Format          string  `mapstructure:"format"`
	Verbose         bool    `mapstructure:"verbose"`
}

// Defaults used when nothing else sets a value.
const (
	DefaultYearLengthDays = 365.2425
	DefaultFormat         = "text"
)

// Engine returns the engine parameters carried by c.
func (c Config) Engine() dasha.Config {
	return dasha.Config{
		HorizonYears: c.HorizonYears,
		YearLength:   dasha.YearLengthFromDays(c.YearLengthDays),
	}
}

// SetDefaults registers built-in defaults on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("horizon_years", float64(dasha.DefaultHorizonYears))
	v.SetDefault("year_length_days", DefaultYearLengthDays)
	v.SetDefault("interpretations", "")
	v.SetDefault("db", "")
	v.SetDefault("format", DefaultFormat)
	v.SetDefault("verbose", false)
}

// Init prepares v to read cfgFile, or .dasha.yaml from the working and home
// directories, plus DASHA_* environment variables. A missing config file is
// not an error.
func Init(v *viper.Viper, cfgFile string) error {
	SetDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(".dasha")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
	}

	v.SetEnvPrefix("DASHA")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("reading config: %w", err)
	}
	return nil
}

// Load decodes v into a Config.
func Load(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	return cfg, nil
}
