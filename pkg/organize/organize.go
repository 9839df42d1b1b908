// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package organize

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/walteh/mediasort/pkg/config"
	"github.com/walteh/mediasort/pkg/executor"
	"github.com/walteh/mediasort/pkg/metadata"
	"github.com/walteh/mediasort/pkg/plan"
	"github.com/walteh/mediasort/pkg/status"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"
)

// fallbackSource labels a timestamp taken from the filesystem instead of
// file metadata.
const fallbackSource = "mtime"

// 📄 item is one discovered source file
type item struct {
	path    string
	relPath string
	size    int64
	modTime time.Time
}

// 🔧 Options contains the collaborators for a run
type Options struct {
	// Config is the validated run configuration
	Config *config.Config
	// Resolver extracts capture timestamps
	Resolver metadata.Resolver
	// Planner decides the destination action per file
	Planner *plan.Planner
	// Executor applies copy plans
	Executor *executor.Executor
	// Reporter emits user-facing per-file feedback; may be nil
	Reporter *status.UserLogger
}

// 🎮 Organizer runs the pipeline
type Organizer struct {
	cfg      *config.Config
	resolver metadata.Resolver
	planner  *plan.Planner
	exec     *executor.Executor
	reporter *status.UserLogger
}

// 🏭 New creates an organizer with the given options
func New(opts Options) (*Organizer, error) {
	if opts.Config == nil {
		return nil, errors.New("config is required")
	}
	if opts.Resolver == nil {
		return nil, errors.New("resolver is required")
	}
	if opts.Planner == nil {
		return nil, errors.New("planner is required")
	}
	if opts.Executor == nil {
		return nil, errors.New("executor is required")
	}
	return &Organizer{
		cfg:      opts.Config,
		resolver: opts.Resolver,
		planner:  opts.Planner,
		exec:     opts.Executor,
		reporter: opts.Reporter,
	}, nil
}

// 🏃 Run processes every regular file under the source root and returns the
// run summary. Per-file failures are counted, not propagated; only root-level
// problems (unreadable source, cancellation) abort the run.
func (o *Organizer) Run(ctx context.Context) (*status.Summary, error) {
	logger := zerolog.Ctx(ctx)
	summary := &status.Summary{}

	files, err := o.discover(ctx, summary)
	if err != nil {
		return nil, err
	}
	if o.reporter != nil {
		o.reporter.LogRunChange(fmt.Sprintf("Found %d files in %s", len(files), o.cfg.Source))
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.cfg.Workers)
	for _, f := range files {
		f := f
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return errors.Errorf("run cancelled: %w", err)
			}
			o.processFile(gctx, f, summary)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return summary, err
	}

	processed, copied, renamed, skipped, failed := summary.Counts()
	logger.Info().
		Int("processed", processed).
		Int("copied", copied).
		Int("renamed", renamed).
		Int("skipped", skipped).
		Int("failed", failed).
		Msg("run finished")
	return summary, nil
}

// discover walks the source tree and returns the files to process. Symlinks
// are never followed; hidden entries and ignore-pattern matches are skipped.
// An unreadable entry below the root is counted as a failure, an unreadable
// root is fatal.
func (o *Organizer) discover(ctx context.Context, summary *status.Summary) ([]item, error) {
	logger := zerolog.Ctx(ctx)
	root := filepath.Clean(o.cfg.Source)

	var files []item
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return errors.Errorf("reading source root: %w", err)
			}
			logger.Warn().Str("path", path).Err(err).Msg("unreadable entry, skipping")
			summary.Record(status.ActionFailed)
			return nil
		}

		name := d.Name()
		if d.IsDir() {
			if path != root && strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			// Symlinks and other irregular entries are not followed.
			return nil
		}
		if strings.HasPrefix(name, ".") {
			return nil
		}

		relPath, err := filepath.Rel(root, path)
		if err != nil {
			relPath = name
		}
		if o.cfg.Ignores(ctx, relPath) {
			logger.Debug().Str("path", relPath).Msg("ignored by pattern")
			return nil
		}
		if !o.cfg.IncludesExtension(name) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			logger.Warn().Str("path", path).Err(err).Msg("stating file, skipping")
			summary.Record(status.ActionFailed)
			return nil
		}

		files = append(files, item{
			path:    path,
			relPath: relPath,
			size:    info.Size(),
			modTime: info.ModTime(),
		})
		return nil
	})
	if err != nil {
		return nil, errors.Errorf("walking source tree: %w", err)
	}
	return files, nil
}

// processFile pushes one file through resolve → plan → apply and records the
// outcome.
func (o *Organizer) processFile(ctx context.Context, f item, summary *status.Summary) {
	logger := zerolog.Ctx(ctx)

	captured, source := o.resolveTimestamp(ctx, f)
	logger.Debug().
		Str("path", f.relPath).
		Time("captured", captured).
		Str("source", source).
		Msg("timestamp resolved")

	pl, err := o.planner.Plan(f.path, f.size, captured)
	if err != nil {
		o.report(status.ActionFailed, f.relPath, "", err)
		summary.Record(status.ActionFailed)
		return
	}

	switch pl.Decision {
	case plan.DecisionSkip:
		o.report(status.ActionSkipped, f.relPath, "duplicate at "+o.relTarget(pl), nil)
		summary.Record(status.ActionSkipped)
		return
	case plan.DecisionCopy, plan.DecisionRename:
		if err := o.exec.Apply(ctx, pl); err != nil {
			o.planner.Release(pl)
			o.report(status.ActionFailed, f.relPath, "", err)
			summary.Record(status.ActionFailed)
			return
		}
	}

	if pl.Decision == plan.DecisionRename {
		o.report(status.ActionRenamed, f.relPath, "stored as "+o.relTarget(pl), nil)
		summary.Record(status.ActionRenamed)
		return
	}
	o.report(status.ActionCopied, f.relPath, "to "+o.relTarget(pl), nil)
	summary.Record(status.ActionCopied)
}

// resolveTimestamp asks the resolver for a capture timestamp and falls back
// to the file's modification time when metadata yields nothing.
func (o *Organizer) resolveTimestamp(ctx context.Context, f item) (time.Time, string) {
	if chain, ok := o.resolver.(metadata.Chain); ok {
		t, source, err := chain.ResolveSource(ctx, f.path)
		if err == nil {
			return t, source
		}
		return f.modTime, fallbackSource
	}

	t, err := o.resolver.Resolve(ctx, f.path)
	if err != nil {
		return f.modTime, fallbackSource
	}
	return t, o.resolver.Name()
}

func (o *Organizer) report(a status.Action, path, detail string, err error) {
	if o.reporter == nil {
		return
	}
	o.reporter.LogFile(a, path, detail, err)
}

// relTarget renders a plan's target path relative to the destination root.
func (o *Organizer) relTarget(pl plan.Plan) string {
	return filepath.Join(filepath.Base(pl.Dir), pl.Name)
}
