package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"

	"github.com/kolkov/threadglue/internal/probe"
)

// NewProbeCmd returns the probe command.
func NewProbeCmd() *cobra.Command {
	defaults := probe.DefaultOptions()

	cmd := &cobra.Command{
		Use:   "probe [names...]",
		Short: "Run behavioral probes against the compiled-in backend",
		Long: "Run behavioral probes against the compiled-in backend.\n\n" +
			"Available probes: " + strings.Join(probe.Names(), ", ") + ".\n" +
			"With no names every probe runs.",
		ValidArgsFunction: func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
			return probe.Names(), cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cc *cobra.Command, args []string) error {
			flags := cc.Flags()

			var merr error

			threads, err := flags.GetInt("threads")
			if err != nil {
				merr = multierror.Append(merr, err)
			}

			iterations, err := flags.GetInt("iterations")
			if err != nil {
				merr = multierror.Append(merr, err)
			}

			timeoutMS, err := flags.GetUint32("timeout-ms")
			if err != nil {
				merr = multierror.Append(merr, err)
			}

			parallel, err := flags.GetInt("parallel")
			if err != nil {
				merr = multierror.Append(merr, err)
			}

			output, err := flags.GetString("output")
			if err != nil {
				merr = multierror.Append(merr, err)
			}

			if err := checkOutput(output); err != nil {
				merr = multierror.Append(merr, err)
			}

			if merr != nil {
				return fmt.Errorf("invalid argument: %w", merr)
			}

			opts := probe.Options{
				Threads:    threads,
				Iterations: iterations,
				TimeoutMS:  timeoutMS,
			}

			report, err := probe.Run(cc.Context(), args, opts, parallel)
			if err != nil {
				return err
			}

			err = write(cc.OutOrStdout(), output, report, func(p *printer) {
				p.line("run %s (%s backend, threadglue %s)", report.RunID, report.Backend, report.Version)
				for _, res := range report.Results {
					status := "PASS"
					if !res.Passed {
						status = "FAIL"
					}
					p.line("%s  %-17s %s", status, res.Name, res.Duration.Round(100*time.Microsecond))
					if res.Error != "" {
						p.line("      %s", res.Error)
					}
				}
			})
			if err != nil {
				return err
			}

			return report.Err()
		},
	}

	cmd.Flags().Int("threads", defaults.Threads, "Threads started by each probe")
	cmd.Flags().Int("iterations", defaults.Iterations, "Per-thread iterations for stress probes")
	cmd.Flags().Uint32("timeout-ms", defaults.TimeoutMS, "Timeout for wait probes, in milliseconds")
	cmd.Flags().Int("parallel", 1, "Probes run at the same time (0 for no limit)")
	cmd.Flags().StringP("output", "o", formatText, "Output format (text, json, yaml)")

	return cmd
}
