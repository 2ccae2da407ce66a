// Package logging builds the structured loggers used by the library and the
// threadprobe command.
package logging

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
)

const (
	JSONFormat   = "json"
	LogfmtFormat = "logfmt"
	TextFormat   = "text"
)

var (
	ErrUnknownLevel  = errors.New("unknown log level")
	ErrUnknownFormat = errors.New("unknown log format")
)

// New creates a logger writing to w. An empty level or format selects the
// default (warn, text).
func New(w io.Writer, logLevel, logFormat string) (*log.Logger, error) {
	level, err := GetLevel(logLevel)
	if err != nil {
		return nil, err
	}

	formatter, err := GetFormatter(logFormat)
	if err != nil {
		return nil, err
	}

	return log.NewWithOptions(w, log.Options{
		Level:           level,
		Formatter:       formatter,
		Prefix:          "threadglue",
		ReportTimestamp: formatter != log.TextFormatter,
	}), nil
}

// Discard returns a logger that drops everything.
func Discard() *log.Logger {
	l := log.NewWithOptions(io.Discard, log.Options{})
	l.SetLevel(log.FatalLevel)
	return l
}

// GetLevel maps a level name to a log level.
func GetLevel(level string) (log.Level, error) {
	switch strings.ToLower(level) {
	case "panic", "fatal", "error":
		return log.ErrorLevel, nil
	case "warn", "warning", "":
		return log.WarnLevel, nil
	case "info":
		return log.InfoLevel, nil
	case "debug", "trace":
		return log.DebugLevel, nil
	default:
		return log.WarnLevel, fmt.Errorf("%w: %q", ErrUnknownLevel, level)
	}
}

// GetFormatter maps a format name to a formatter.
func GetFormatter(format string) (log.Formatter, error) {
	switch strings.ToLower(format) {
	case TextFormat, "":
		return log.TextFormatter, nil
	case LogfmtFormat:
		return log.LogfmtFormatter, nil
	case JSONFormat:
		return log.JSONFormatter, nil
	default:
		return log.TextFormatter, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}
