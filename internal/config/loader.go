package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Loader provides configuration loading capabilities.
type Loader interface {
	// Load loads configuration from file and environment variables.
	// Priority: defaults → config file → environment variables (env wins)
	Load() (*Config, error)
}

type loader struct {
	rootDir    string
	configFile string
}

// NewLoader creates a new configuration loader for the given root directory.
func NewLoader(rootDir string) Loader {
	return &loader{
		rootDir: rootDir,
	}
}

// NewFileLoader creates a loader that reads an explicit config file instead
// of searching rootDir/.enumgen.
func NewFileLoader(configFile string) Loader {
	return &loader{
		configFile: configFile,
	}
}

// Load loads configuration with the following priority (highest to lowest):
// 1. Environment variables (ENUMGEN_*)
// 2. Config file (.enumgen/config.yml or .enumgen/config.yaml)
// 3. Default values
func (l *loader) Load() (*Config, error) {
	v := viper.New()

	if l.configFile != "" {
		v.SetConfigFile(l.configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(filepath.Join(l.rootDir, ".enumgen"))
	}

	v.SetEnvPrefix("ENUMGEN")
	v.AutomaticEnv()
	// Replace . with _ in env var names (e.g., ENUMGEN_EXTRACT_STRICT_ARGS)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.BindEnv("extract.strict_args")
	v.BindEnv("extract.default_output_name")
	v.BindEnv("extract.debounce_ms")

	v.BindEnv("combine.suffix")
	v.BindEnv("combine.output_name")
	v.BindEnv("combine.workers")
	v.BindEnv("combine.validate_uuids")
	v.BindEnv("combine.debounce_ms")

	v.BindEnv("lookup.enum_file")
	v.BindEnv("lookup.cache_size")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		// Config file not found is acceptable - we'll use defaults + env vars
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// setDefaults configures viper with default values.
func setDefaults(v *viper.Viper) {
	defaults := Default()

	v.SetDefault("extract.strict_args", defaults.Extract.StrictArgs)
	v.SetDefault("extract.default_output_name", defaults.Extract.DefaultOutputName)
	v.SetDefault("extract.debounce_ms", defaults.Extract.DebounceMS)

	v.SetDefault("combine.suffix", defaults.Combine.Suffix)
	v.SetDefault("combine.output_name", defaults.Combine.OutputName)
	v.SetDefault("combine.ignore", defaults.Combine.Ignore)
	v.SetDefault("combine.workers", defaults.Combine.Workers)
	v.SetDefault("combine.validate_uuids", defaults.Combine.ValidateUUIDs)
	v.SetDefault("combine.debounce_ms", defaults.Combine.DebounceMS)

	v.SetDefault("lookup.enum_file", defaults.Lookup.EnumFile)
	v.SetDefault("lookup.cache_size", defaults.Lookup.CacheSize)
}

// LoadConfig is a convenience function that creates a loader and loads config.
// It uses the current working directory as the root.
func LoadConfig() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}
	return NewLoader(wd).Load()
}

// LoadConfigFromDir loads configuration from a specific directory.
func LoadConfigFromDir(rootDir string) (*Config, error) {
	return NewLoader(rootDir).Load()
}
