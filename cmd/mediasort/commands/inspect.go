package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/walteh/mediasort/pkg/plan"
	"gitlab.com/tozd/go/errors"
)

// NewInspectCmd creates a new inspect command
func NewInspectCmd(opts *RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect FILE...",
		Short: "Show the capture timestamp and destination folder for files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, err := opts.loadConfig(ctx)
			if err != nil {
				return err
			}
			chain, err := newResolver(cfg)
			if err != nil {
				return err
			}

			for _, path := range args {
				info, err := os.Stat(path)
				if err != nil {
					return errors.Errorf("reading %s: %w", path, err)
				}

				captured, source, err := chain.ResolveSource(ctx, path)
				if err != nil {
					captured = info.ModTime()
					source = "mtime"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\t%s\n",
					path, captured.Format("2006-01-02 15:04:05"), source, plan.FolderName(captured))
			}
			return nil
		},
	}

	return cmd
}
