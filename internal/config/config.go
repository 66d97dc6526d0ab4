// Package config provides configuration types and defaults for gdlevel.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/reoring/gdlevel/internal/log"
)

// EnvPrefix prefixes the environment overrides, e.g. GDLEVEL_SAVE_PATH.
const EnvPrefix = "GDLEVEL"

// Config holds all configuration options for gdlevel.
type Config struct {
	Log  LogConfig  `mapstructure:"log"`
	Save SaveConfig `mapstructure:"save"`
	Dump DumpConfig `mapstructure:"dump"`
}

// LogConfig controls the file logger. An empty File leaves logging off.
type LogConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"` // debug, info, warn or error
}

// SaveConfig locates the save file.
type SaveConfig struct {
	Path string `mapstructure:"path"`
	IOS  bool   `mapstructure:"ios"` // write the AES format instead of XOR
}

// DumpConfig controls dump output.
type DumpConfig struct {
	Format string `mapstructure:"format"` // json, yaml or spew
	Labels bool   `mapstructure:"labels"` // name unclaimed raw keys from the catalog
}

// Formats lists the accepted dump formats.
var Formats = []string{"json", "yaml", "spew"}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Log:  LogConfig{Level: "info"},
		Dump: DumpConfig{Format: "json", Labels: true},
	}
}

// SetDefaults registers Defaults on v so unset keys unmarshal to them.
func SetDefaults(v *viper.Viper) {
	d := Defaults()
	v.SetDefault("log.file", d.Log.File)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("save.path", d.Save.Path)
	v.SetDefault("save.ios", d.Save.IOS)
	v.SetDefault("dump.format", d.Dump.Format)
	v.SetDefault("dump.labels", d.Dump.Labels)
}

// NewViper returns a viper instance with defaults and GDLEVEL_* environment
// overrides configured.
func NewViper() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the YAML file at path (skipped when empty) over the defaults and
// environment, then validates the result.
func Load(path string) (Config, error) {
	v := NewViper()
	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config: %w", err)
		}
		log.Debug(log.CatConfig, "config file read", "path", path)
	}
	return FromViper(v)
}

// FromViper unmarshals and validates the configuration held by v.
func FromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the enumerated options.
func (c Config) Validate() error {
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	for _, f := range Formats {
		if c.Dump.Format == f {
			return nil
		}
	}
	return fmt.Errorf("dump.format: unknown format %q (want one of %s)", c.Dump.Format, strings.Join(Formats, ", "))
}
