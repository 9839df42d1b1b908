package commands

import (
	"context"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/walteh/mediasort/pkg/config"
	"github.com/walteh/mediasort/pkg/executor"
	"github.com/walteh/mediasort/pkg/metadata"
	"github.com/walteh/mediasort/pkg/organize"
	"github.com/walteh/mediasort/pkg/plan"
	"github.com/walteh/mediasort/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// NewOrganizeCmd creates a new organize command
func NewOrganizeCmd(opts *RootOpts) *cobra.Command {
	var (
		dryRun  bool
		workers int
	)

	cmd := &cobra.Command{
		Use:   "organize SOURCE DESTINATION",
		Short: "Copy media files into YEAR-MONTH folders under DESTINATION",
		Long: `Organize walks SOURCE recursively, resolves each file's capture date and
copies it into DESTINATION/YEAR-MONTH/. It will:
1. Skip files already present with the same name and size
2. Rename on name collisions with a different size
3. Fall back to the file's modification time when metadata has no date
4. Report what would happen without writing anything under --dry-run`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, err := opts.loadConfig(ctx)
			if err != nil {
				return err
			}
			cfg.Source = args[0]
			cfg.Destination = args[1]
			if cmd.Flags().Changed("dry-run") {
				cfg.DryRun = dryRun
			}
			if cmd.Flags().Changed("workers") {
				cfg.Workers = workers
			}
			if err := cfg.Validate(); err != nil {
				return errors.Errorf("validating config: %w", err)
			}
			if err := normalizePaths(cfg); err != nil {
				return err
			}

			summary, err := run(ctx, cfg)
			if summary != nil {
				summary.Render(os.Stdout, cfg.DryRun)
			}
			return err
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "report intended actions without copying")
	cmd.Flags().IntVar(&workers, "workers", 1, "number of files processed in parallel")

	return cmd
}

// run wires the pipeline and executes it.
func run(ctx context.Context, cfg *config.Config) (*status.Summary, error) {
	resolver, err := newResolver(cfg)
	if err != nil {
		return nil, err
	}

	planner, err := plan.NewPlanner(cfg.Destination, plan.NewIndex())
	if err != nil {
		return nil, errors.Errorf("creating planner: %w", err)
	}

	org, err := organize.New(organize.Options{
		Config:   cfg,
		Resolver: resolver,
		Planner:  planner,
		Executor: executor.New(cfg.DryRun),
		Reporter: status.NewUserLogger(ctx, cfg.DryRun),
	})
	if err != nil {
		return nil, errors.Errorf("creating organizer: %w", err)
	}

	summary, err := org.Run(ctx)
	if err != nil {
		return summary, errors.Errorf("organizing files: %w", err)
	}
	return summary, nil
}

// newResolver builds the metadata chain: exiftool first, embedded EXIF as a
// second opinion. A missing exiftool binary is fatal unless disabled in the
// config.
func newResolver(cfg *config.Config) (metadata.Chain, error) {
	if cfg.ExifTool.Disabled {
		return metadata.Chain{metadata.Embedded{}}, nil
	}
	tool, err := metadata.NewExifTool(cfg.ExifTool.Path)
	if err != nil {
		return nil, errors.Errorf("setting up metadata tool: %w", err)
	}
	return metadata.Chain{tool, metadata.Embedded{}}, nil
}

// normalizePaths makes source and destination absolute and checks the source
// root up front so a bad invocation fails before any file work.
func normalizePaths(cfg *config.Config) error {
	src, err := filepath.Abs(cfg.Source)
	if err != nil {
		return errors.Errorf("resolving source path: %w", err)
	}
	info, err := os.Stat(src)
	if err != nil {
		return errors.Errorf("reading source directory: %w", err)
	}
	if !info.IsDir() {
		return errors.Errorf("source is not a directory: %s", src)
	}
	cfg.Source = src

	dst, err := filepath.Abs(cfg.Destination)
	if err != nil {
		return errors.Errorf("resolving destination path: %w", err)
	}
	cfg.Destination = dst
	return nil
}
