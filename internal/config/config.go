// Package config handles gltftool configuration loading and management.
package config

import (
	"fmt"

	"github.com/c2h5oh/datasize"
	"golang.org/x/text/language"
)

// Config holds all tool settings.
type Config struct {
	Loader  LoaderConfig  `yaml:"loader" toml:"loader"`
	Dump    DumpConfig    `yaml:"dump" toml:"dump"`
	Logging LoggingConfig `yaml:"logging" toml:"logging"`
}

// LoaderConfig controls how assets and their references are read.
type LoaderConfig struct {
	// BaseDir resolves relative URIs. Empty means the asset's directory.
	BaseDir          string            `yaml:"base_dir" toml:"base_dir"`
	AllowDataURIs    bool              `yaml:"allow_data_uris" toml:"allow_data_uris"`
	LegacyByteLength bool              `yaml:"legacy_byte_length" toml:"legacy_byte_length"`
	MaxFileSize      datasize.ByteSize `yaml:"max_file_size" toml:"max_file_size"`
}

// DumpConfig controls accessor dumps.
type DumpConfig struct {
	Locale         string `yaml:"locale" toml:"locale"`
	NumberFormat   string `yaml:"number_format" toml:"number_format"`
	ElementsPerRow int    `yaml:"elements_per_row" toml:"elements_per_row"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level" toml:"level"`
	LogFile string `yaml:"log_file" toml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Loader: LoaderConfig{
			AllowDataURIs: true,
			MaxFileSize:   256 * datasize.MB,
		},
		Dump: DumpConfig{
			Locale:         "en",
			NumberFormat:   "%v",
			ElementsPerRow: 4,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Tag parses the dump locale.
func (d DumpConfig) Tag() (language.Tag, error) {
	tag, err := language.Parse(d.Locale)
	if err != nil {
		return language.Und, fmt.Errorf("dump locale %q: %w", d.Locale, err)
	}
	return tag, nil
}
