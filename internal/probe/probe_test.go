package probe_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kolkov/threadglue/internal/probe"
	"github.com/kolkov/threadglue/thread"
)

func smallOptions() probe.Options {
	return probe.Options{Threads: 4, Iterations: 100, TimeoutMS: 10}
}

func TestNames(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{
		"cancel",
		"mutex-stress",
		"once",
		"round-trip",
		"signal-no-waiter",
		"spawn-join",
		"wait-timeout",
	}, probe.Names())
}

func TestRunAll(t *testing.T) {
	t.Parallel()

	report, err := probe.Run(context.Background(), nil, smallOptions(), 3)
	require.NoError(t, err)
	require.NoError(t, report.Err())

	_, err = uuid.Parse(report.RunID)
	require.NoError(t, err)
	assert.Equal(t, thread.Version, report.Version)
	assert.Equal(t, thread.GetInfo().Backend, report.Backend)

	require.Len(t, report.Results, len(probe.Names()))
	for i, res := range report.Results {
		assert.Equal(t, probe.Names()[i], res.Name, "results keep request order")
		assert.True(t, res.Passed, "%s: %s", res.Name, res.Error)
		assert.Equal(t, thread.CodeOK, res.Code)
	}
}

func TestRunSelected(t *testing.T) {
	t.Parallel()

	report, err := probe.Run(context.Background(), []string{"round-trip", "once"}, smallOptions(), 0)
	require.NoError(t, err)
	require.Len(t, report.Results, 2)
	assert.Equal(t, "round-trip", report.Results[0].Name)
	assert.Equal(t, "once", report.Results[1].Name)
	assert.Empty(t, report.Failed())
}

func TestRunUnknownProbe(t *testing.T) {
	t.Parallel()

	_, err := probe.Run(context.Background(), []string{"spawn-join", "teleport"}, smallOptions(), 1)
	require.ErrorIs(t, err, probe.ErrUnknownProbe)
	assert.Contains(t, err.Error(), "teleport")
}

func TestRunInvalidOptions(t *testing.T) {
	t.Parallel()

	_, err := probe.Run(context.Background(), nil, probe.Options{}, 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "threads")
	assert.Contains(t, err.Error(), "iterations")
}

func TestValidate(t *testing.T) {
	t.Parallel()

	require.NoError(t, smallOptions().Validate())

	err := probe.Options{}.Validate()
	require.ErrorIs(t, err, probe.ErrInvalidOptions)

	var merr *multierror.Error
	require.ErrorAs(t, err, &merr)
	assert.Len(t, merr.Errors, 2)

	err = probe.Options{Threads: 1}.Validate()
	require.ErrorAs(t, err, &merr)
	assert.Len(t, merr.Errors, 1)
	assert.Contains(t, err.Error(), "iterations")
}

func TestRunCanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := probe.Run(ctx, []string{"spawn-join"}, smallOptions(), 1)
	require.ErrorIs(t, err, context.Canceled)
}

func TestReportErr(t *testing.T) {
	t.Parallel()

	r := probe.Report{Results: []probe.Result{
		{Name: "a", Passed: true},
		{Name: "b", Passed: false, Error: "boom"},
	}}
	assert.Equal(t, []string{"b"}, r.Failed())
	require.ErrorIs(t, r.Err(), probe.ErrFailed)
	assert.Contains(t, r.Err().Error(), "b")
}
