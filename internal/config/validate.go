package config

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidFilter indicates a name pattern that does not compile.
	// It wraps protos.ErrInvalidPattern for each bad pattern
	ErrInvalidFilter = errors.New("invalid name filter")

	// ErrInvalidDebounce indicates a non-positive watch debounce
	ErrInvalidDebounce = errors.New("invalid watch debounce")
)

// Validate checks that the configuration is valid and complete.
func Validate(cfg *Config) error {
	var errs []error

	if err := validateFilter(&cfg.Filter); err != nil {
		errs = append(errs, err)
	}

	if err := validateWatch(&cfg.Watch); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}

	return nil
}

func validateFilter(cfg *FilterConfig) error {
	_, err := cfg.NameFilter()
	return err
}

func validateWatch(cfg *WatchConfig) error {
	if cfg.Debounce <= 0 {
		return fmt.Errorf("%w: debounce must be positive, got %s", ErrInvalidDebounce, cfg.Debounce)
	}
	return nil
}

// validationErrors keeps every cause reachable through errors.Is.
type validationErrors struct {
	errs []error
}

func (v *validationErrors) Error() string {
	msgs := make([]string, 0, len(v.errs))
	for _, err := range v.errs {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("validation failed:\n  - %s", strings.Join(msgs, "\n  - "))
}

func (v *validationErrors) Unwrap() []error {
	return v.errs
}

// joinErrors combines multiple errors into a single error with clear formatting.
func joinErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}

	if len(errs) == 1 {
		return errs[0]
	}

	return &validationErrors{errs: errs}
}
