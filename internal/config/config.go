// Package config reads the THREADGLUE_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/hashicorp/go-multierror"

	"github.com/kolkov/threadglue/internal/logging"
)

const (
	EnvLogLevel   = "THREADGLUE_LOG_LEVEL"
	EnvLogFormat  = "THREADGLUE_LOG_FORMAT"
	EnvMaxThreads = "THREADGLUE_MAX_THREADS"
	EnvHBCheck    = "THREADGLUE_HBCHECK"
)

// ErrInvalidValue is wrapped by every rejected variable.
var ErrInvalidValue = errors.New("invalid value")

// Config is the library configuration.
type Config struct {
	LogLevel  string
	LogFormat string

	// MaxThreads bounds the number of live threads. Zero means unlimited.
	MaxThreads int64

	// HBCheck enables happens-before tracking.
	HBCheck bool
}

// Default returns the configuration used when no variable is set.
func Default() Config {
	return Config{
		LogLevel:  "warn",
		LogFormat: logging.TextFormat,
	}
}

// Load reads the configuration through getenv. Invalid values keep their
// defaults; all problems are returned together so the caller can log them.
// The returned Config is always usable.
func Load(getenv func(string) string) (Config, error) {
	cfg := Default()

	var merr error

	if v := strings.TrimSpace(getenv(EnvLogLevel)); v != "" {
		if _, err := logging.GetLevel(v); err != nil {
			merr = multierror.Append(merr, fmt.Errorf("%s: %w", EnvLogLevel, err))
		} else {
			cfg.LogLevel = v
		}
	}

	if v := strings.TrimSpace(getenv(EnvLogFormat)); v != "" {
		if _, err := logging.GetFormatter(v); err != nil {
			merr = multierror.Append(merr, fmt.Errorf("%s: %w", EnvLogFormat, err))
		} else {
			cfg.LogFormat = v
		}
	}

	if v := strings.TrimSpace(getenv(EnvMaxThreads)); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		switch {
		case err != nil:
			merr = multierror.Append(merr, fmt.Errorf("%s: %w: %w", EnvMaxThreads, ErrInvalidValue, err))
		case n < 0:
			merr = multierror.Append(merr, fmt.Errorf("%s: %w: %d is negative", EnvMaxThreads, ErrInvalidValue, n))
		default:
			cfg.MaxThreads = n
		}
	}

	if v := strings.TrimSpace(getenv(EnvHBCheck)); v != "" {
		on, err := strconv.ParseBool(v)
		if err != nil {
			merr = multierror.Append(merr, fmt.Errorf("%s: %w: %w", EnvHBCheck, ErrInvalidValue, err))
		} else {
			cfg.HBCheck = on
		}
	}

	return cfg, merr
}
