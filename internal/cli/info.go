package cli

import (
	"github.com/spf13/cobra"

	"github.com/kolkov/threadglue/thread"
)

// NewInfoCmd returns the info command.
func NewInfoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "info",
		Short: "Show version, backend and capabilities",
		Args:  cobra.NoArgs,
		RunE: func(cc *cobra.Command, _ []string) error {
			output, err := cc.Flags().GetString("output")
			if err != nil {
				return err
			}

			info := thread.GetInfo()
			doc := infoDoc{
				Version:         info.Version,
				Backend:         info.Backend,
				CancelSupported: info.CancelSupported,
				HappensBefore:   info.HappensBefore,
				MaxThreads:      info.MaxThreads,
				Deadlock:        info.DeadlockDetection,
			}

			return write(cc.OutOrStdout(), output, doc, func(p *printer) {
				p.line("version:          %s", doc.Version)
				p.line("backend:          %s", doc.Backend)
				p.line("cancel supported: %t", doc.CancelSupported)
				p.line("happens-before:   %t", doc.HappensBefore)
				p.line("deadlock checks:  %t", doc.Deadlock)
				if doc.MaxThreads > 0 {
					p.line("max threads:      %d", doc.MaxThreads)
				} else {
					p.line("max threads:      unlimited")
				}
			})
		},
	}

	cmd.Flags().StringP("output", "o", formatText, "Output format (text, json, yaml)")

	return cmd
}

type infoDoc struct {
	Version         string `json:"version" yaml:"version"`
	Backend         string `json:"backend" yaml:"backend"`
	CancelSupported bool   `json:"cancel_supported" yaml:"cancel_supported"`
	HappensBefore   bool   `json:"happens_before" yaml:"happens_before"`
	MaxThreads      int64  `json:"max_threads" yaml:"max_threads"`
	Deadlock        bool   `json:"deadlock_detection" yaml:"deadlock_detection"`
}
