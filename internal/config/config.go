// Package config handles converter configuration loading and management.
package config

import (
	"errors"
	"fmt"

	"github.com/Faultbox/sbmconv/pkg/encoding"
)

// Config holds all converter settings.
type Config struct {
	Output  OutputConfig  `yaml:"output"`
	Import  ImportConfig  `yaml:"import"`
	Logging LoggingConfig `yaml:"logging"`
}

// OutputConfig holds SBM output settings.
type OutputConfig struct {
	Path         string `yaml:"path"`          // Output file, relative to the working directory
	NameEncoding string `yaml:"name_encoding"` // Byte encoding of material names
}

// ImportConfig holds scene import settings.
type ImportConfig struct {
	DefaultMaterial  string `yaml:"default_material"`  // Slot name for primitives without a material
	GenerateTangents bool   `yaml:"generate_tangents"` // Compute tangents when the source has none
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Output: OutputConfig{
			Path:         "output.sbm",
			NameEncoding: "utf-8",
		},
		Import: ImportConfig{
			DefaultMaterial:  "default",
			GenerateTangents: true,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

var validLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Validate reports the first setting that cannot be used.
func (c *Config) Validate() error {
	if c.Output.Path == "" {
		return errors.New("output path is empty")
	}
	if _, err := encoding.Lookup(c.Output.NameEncoding); err != nil {
		return fmt.Errorf("output name encoding: %w", err)
	}
	if c.Import.DefaultMaterial == "" {
		return errors.New("default material name is empty")
	}
	if !validLevels[c.Logging.Level] {
		return fmt.Errorf("unknown log level %q", c.Logging.Level)
	}
	return nil
}
