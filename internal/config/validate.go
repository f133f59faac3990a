package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
)

var (
	// ErrEmptyOutputName indicates a missing default or combined output file name
	ErrEmptyOutputName = errors.New("empty output name")

	// ErrInvalidOutputName indicates an output name that is a path rather than a file name
	ErrInvalidOutputName = errors.New("invalid output name")

	// ErrEmptySuffix indicates a missing combine suffix
	ErrEmptySuffix = errors.New("empty combine suffix")

	// ErrInvalidWorkers indicates a non-positive worker count
	ErrInvalidWorkers = errors.New("invalid worker count")

	// ErrInvalidPattern indicates an ignore glob that does not compile
	ErrInvalidPattern = errors.New("invalid ignore pattern")

	// ErrInvalidDebounce indicates a negative debounce period
	ErrInvalidDebounce = errors.New("invalid debounce")

	// ErrInvalidCacheSize indicates a non-positive lookup cache size
	ErrInvalidCacheSize = errors.New("invalid cache size")
)

// Validate checks that the configuration is valid and complete.
func Validate(cfg *Config) error {
	var errs []error

	if err := validateExtract(&cfg.Extract); err != nil {
		errs = append(errs, err)
	}

	if err := validateCombine(&cfg.Combine); err != nil {
		errs = append(errs, err)
	}

	if err := validateLookup(&cfg.Lookup); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}

	return nil
}

func validateExtract(cfg *ExtractConfig) error {
	var errs []error

	if strings.TrimSpace(cfg.DefaultOutputName) == "" {
		errs = append(errs, fmt.Errorf("%w: default_output_name is required", ErrEmptyOutputName))
	}

	if cfg.DebounceMS < 0 {
		errs = append(errs, fmt.Errorf("%w: debounce_ms cannot be negative, got %d", ErrInvalidDebounce, cfg.DebounceMS))
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}

	return nil
}

func validateCombine(cfg *CombineConfig) error {
	var errs []error

	if strings.TrimSpace(cfg.Suffix) == "" {
		errs = append(errs, fmt.Errorf("%w: suffix is required", ErrEmptySuffix))
	}

	// The combined file lives inside the walked directory, so it must be a bare name.
	switch {
	case strings.TrimSpace(cfg.OutputName) == "":
		errs = append(errs, fmt.Errorf("%w: output_name is required", ErrEmptyOutputName))
	case filepath.Base(cfg.OutputName) != cfg.OutputName:
		errs = append(errs, fmt.Errorf("%w: output_name must be a file name, got '%s'", ErrInvalidOutputName, cfg.OutputName))
	}

	if cfg.DebounceMS < 0 {
		errs = append(errs, fmt.Errorf("%w: debounce_ms cannot be negative, got %d", ErrInvalidDebounce, cfg.DebounceMS))
	}

	if cfg.Workers <= 0 {
		errs = append(errs, fmt.Errorf("%w: workers must be positive, got %d", ErrInvalidWorkers, cfg.Workers))
	}

	for _, pattern := range cfg.Ignore {
		if _, err := glob.Compile(pattern, '/'); err != nil {
			errs = append(errs, fmt.Errorf("%w: '%s': %v", ErrInvalidPattern, pattern, err))
		}
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}

	return nil
}

func validateLookup(cfg *LookupConfig) error {
	// EnumFile may be empty; lookup then needs --table.
	if cfg.CacheSize <= 0 {
		return fmt.Errorf("%w: cache_size must be positive, got %d", ErrInvalidCacheSize, cfg.CacheSize)
	}
	return nil
}

// joinErrors combines multiple errors into a single error with clear formatting.
func joinErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}

	if len(errs) == 1 {
		return errs[0]
	}

	var msgs []string
	for _, err := range errs {
		msgs = append(msgs, err.Error())
	}

	return fmt.Errorf("validation failed:\n  - %s", strings.Join(msgs, "\n  - "))
}
