package search

import (
	"errors"
	"fmt"
)

var (
	ErrConfig          = errors.New("invalid configuration")
	ErrInputResolution = errors.New("input resolution failed")
)

// ConfigError reports a malformed option value. It is raised before any file is read.
type ConfigError struct {
	Option string
	Value  string
	Err    error
}

// InputError reports a path or glob that matched no readable file.
type InputError struct {
	Pattern string
	Err     error
}

func (e *ConfigError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("option %s: %v", e.Option, e.Err)
	}
	return fmt.Sprintf("option %s=%q: %v", e.Option, e.Value, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

func (e *ConfigError) Is(target error) bool {
	return target == ErrConfig
}

func (e *InputError) Error() string {
	return fmt.Sprintf("%s: %v", e.Pattern, e.Err)
}

func (e *InputError) Unwrap() error {
	return e.Err
}

func (e *InputError) Is(target error) bool {
	return target == ErrInputResolution
}
