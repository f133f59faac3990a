// Package config loads enumgen settings.
//
// Configuration Hierarchy (highest to lowest priority):
//  1. Environment variables (ENUMGEN_*)
//  2. Project config (.enumgen/config.yml or .enumgen/config.yaml)
//  3. Built-in defaults
//
// Nested keys map to environment variables with underscores, for example
// extract.default_output_name is ENUMGEN_EXTRACT_DEFAULT_OUTPUT_NAME.
package config

import "fmt"

// DefaultMsgVersion is the message file version combined when nothing else is configured.
const DefaultMsgVersion = 23

// Config represents the complete enumgen configuration.
type Config struct {
	Extract ExtractConfig `yaml:"extract" mapstructure:"extract"`
	Combine CombineConfig `yaml:"combine" mapstructure:"combine"`
	Lookup  LookupConfig  `yaml:"lookup" mapstructure:"lookup"`
}

// ExtractConfig configures the enum extractor command.
type ExtractConfig struct {
	StrictArgs        bool   `yaml:"strict_args" mapstructure:"strict_args"`                 // require both input and output arguments
	DefaultOutputName string `yaml:"default_output_name" mapstructure:"default_output_name"` // output used when only the input is given
	DebounceMS        int    `yaml:"debounce_ms" mapstructure:"debounce_ms"`                 // quiet period for --watch
}

// CombineConfig configures the message file aggregator.
type CombineConfig struct {
	Suffix        string   `yaml:"suffix" mapstructure:"suffix"`                 // file name suffix to merge, e.g. msg.23.json
	OutputName    string   `yaml:"output_name" mapstructure:"output_name"`       // written inside the input directory
	Ignore        []string `yaml:"ignore" mapstructure:"ignore"`                 // glob patterns (relative, '/' separated) to skip
	Workers       int      `yaml:"workers" mapstructure:"workers"`               // concurrent decoders
	ValidateUUIDs bool     `yaml:"validate_uuids" mapstructure:"validate_uuids"` // warn on name_to_uuid values that are not UUIDs
	DebounceMS    int      `yaml:"debounce_ms" mapstructure:"debounce_ms"`       // quiet period for --watch
}

// LookupConfig configures enum table lookups.
type LookupConfig struct {
	EnumFile  string `yaml:"enum_file" mapstructure:"enum_file"`   // default table for `enumgen lookup`
	CacheSize int    `yaml:"cache_size" mapstructure:"cache_size"` // decoded tables kept in memory
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Extract: ExtractConfig{
			StrictArgs:        false,
			DefaultOutputName: "enums.json",
			DebounceMS:        500,
		},
		Combine: CombineConfig{
			Suffix:     SuffixForVersion(DefaultMsgVersion),
			OutputName: "combined_msgs.json",
			Ignore: []string{
				".git/**",
				"node_modules/**",
			},
			Workers:       4,
			ValidateUUIDs: false,
			DebounceMS:    500,
		},
		Lookup: LookupConfig{
			EnumFile:  "enums.json",
			CacheSize: 16,
		},
	}
}

// SuffixForVersion returns the message file suffix for a game data version.
func SuffixForVersion(version int) string {
	return fmt.Sprintf("msg.%d.json", version)
}
