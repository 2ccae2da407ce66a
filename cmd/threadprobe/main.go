// Package main implements the threadprobe CLI tool.
//
// threadprobe runs the behavioral properties of the threading layer as live
// probes against the backend compiled into the binary, and reports what that
// backend supports.
//
// Usage:
//
//	threadprobe info                       # Version, backend, capabilities
//	threadprobe probe                      # Run every probe
//	threadprobe probe cancel wait-timeout  # Run selected probes
//	threadprobe probe -o yaml --parallel 4
//
// Build with -tags threadglue_event to probe the event backend on a
// non-Windows host.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/kolkov/threadglue/internal/cli"
)

const (
	cmdName = "threadprobe"

	shortDesc = "Probe the threadglue threading layer."
	longDesc  = `threadprobe checks the threadglue threading layer on this host.

It runs thread lifecycle, mutex, condition variable, run-once and
cancellation properties as live probes against the compiled-in backend and
reports pass or fail per probe.
`
)

func main() {
	cmd := cli.NewRootCmd(cmdName, shortDesc, longDesc)

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, strings.TrimLeft(err.Error(), "\n"))
		os.Exit(1)
	}
}
