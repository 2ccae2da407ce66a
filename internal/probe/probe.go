// Package probe runs the threading layer's behavioral properties as live
// checks against the compiled-in backend.
package probe

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"golang.org/x/sync/errgroup"

	"github.com/kolkov/threadglue/thread"
)

// ErrInvalidOptions is returned by Options.Validate.
var ErrInvalidOptions = errors.New("invalid probe options")

// ErrUnknownProbe is returned for a probe name that is not registered.
var ErrUnknownProbe = errors.New("unknown probe")

// ErrFailed is wrapped by a report with at least one failed probe.
var ErrFailed = errors.New("probe failed")

// Options tunes the probes.
type Options struct {
	// Threads is the number of threads a probe starts.
	Threads int `json:"threads" yaml:"threads"`

	// Iterations is the per-thread loop count for stress probes.
	Iterations int `json:"iterations" yaml:"iterations"`

	// TimeoutMS is the timeout used by wait probes.
	TimeoutMS uint32 `json:"timeout_ms" yaml:"timeout_ms"`
}

// DefaultOptions returns the options used by the CLI when no flag is set.
func DefaultOptions() Options {
	return Options{
		Threads:    8,
		Iterations: 1250,
		TimeoutMS:  50,
	}
}

// Validate checks the options.
func (o Options) Validate() error {
	var merr error
	if o.Threads < 1 {
		merr = multierror.Append(merr, fmt.Errorf("%w: threads must be at least 1, got %d", ErrInvalidOptions, o.Threads))
	}
	if o.Iterations < 1 {
		merr = multierror.Append(merr, fmt.Errorf("%w: iterations must be at least 1, got %d", ErrInvalidOptions, o.Iterations))
	}
	return merr
}

// Probe is one behavioral check.
type Probe struct {
	Name        string
	Description string
	Run         func(ctx context.Context, opts Options) error
}

// Result is the outcome of one probe.
type Result struct {
	Name     string        `json:"name" yaml:"name"`
	Passed   bool          `json:"passed" yaml:"passed"`
	Duration time.Duration `json:"duration" yaml:"duration"`
	Error    string        `json:"error,omitempty" yaml:"error,omitempty"`
	Code     int           `json:"code" yaml:"code"`
}

// Report is the outcome of one run.
type Report struct {
	RunID   string   `json:"run_id" yaml:"run_id"`
	Version string   `json:"version" yaml:"version"`
	Backend string   `json:"backend" yaml:"backend"`
	Options Options  `json:"options" yaml:"options"`
	Results []Result `json:"results" yaml:"results"`
}

// Failed returns the names of the failed probes.
func (r Report) Failed() []string {
	var names []string
	for _, res := range r.Results {
		if !res.Passed {
			names = append(names, res.Name)
		}
	}
	return names
}

// Err returns ErrFailed naming the failed probes, or nil.
func (r Report) Err() error {
	failed := r.Failed()
	if len(failed) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %v", ErrFailed, failed)
}

var registry = map[string]Probe{}

func register(p Probe) {
	registry[p.Name] = p
}

// Names returns the registered probe names in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup returns the named probe.
func Lookup(name string) (Probe, error) {
	p, ok := registry[name]
	if !ok {
		return Probe{}, fmt.Errorf("%w: %q (known: %v)", ErrUnknownProbe, name, Names())
	}
	return p, nil
}

// Run executes the named probes, or all of them when names is empty, with
// up to parallel probes at a time. A probe failure is recorded in the report;
// Run only fails on bad input or when ctx is done.
func Run(ctx context.Context, names []string, opts Options, parallel int) (Report, error) {
	if err := opts.Validate(); err != nil {
		return Report{}, err
	}
	if len(names) == 0 {
		names = Names()
	}

	probes := make([]Probe, 0, len(names))
	for _, name := range names {
		p, err := Lookup(name)
		if err != nil {
			return Report{}, err
		}
		probes = append(probes, p)
	}

	info := thread.GetInfo()
	report := Report{
		RunID:   uuid.NewString(),
		Version: info.Version,
		Backend: info.Backend,
		Options: opts,
		Results: make([]Result, len(probes)),
	}

	logger := thread.Logger().With("run_id", report.RunID)

	g, gctx := errgroup.WithContext(ctx)
	if parallel > 0 {
		g.SetLimit(parallel)
	}

	for i, p := range probes {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			logger.Debug("probe started", "probe", p.Name)
			start := time.Now()
			err := p.Run(gctx, opts)
			res := Result{
				Name:     p.Name,
				Passed:   err == nil,
				Duration: time.Since(start),
				Code:     thread.Code(err),
			}
			if err != nil {
				res.Error = err.Error()
				logger.Warn("probe failed", "probe", p.Name, "err", err)
			} else {
				logger.Info("probe passed", "probe", p.Name, "duration", res.Duration)
			}
			report.Results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return report, fmt.Errorf("probe run %s: %w", report.RunID, err)
	}

	return report, nil
}
