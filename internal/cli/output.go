package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

var ErrUnknownOutput = errors.New("unknown output format")

// printer accumulates the first write error of a text rendering.
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) line(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format+"\n", args...)
}

func checkOutput(format string) error {
	switch format {
	case formatText, formatJSON, formatYAML, "":
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownOutput, format)
	}
}

// write renders v in the requested format; text uses the given renderer.
func write(w io.Writer, format string, v any, text func(p *printer)) error {
	switch format {
	case formatText, "":
		p := &printer{w: w}
		text(p)
		return p.err

	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed encoding json: %w", err)
		}
		return nil

	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed encoding yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("failed encoding yaml: %w", err)
		}
		return nil

	default:
		return fmt.Errorf("%w: %q", ErrUnknownOutput, format)
	}
}
