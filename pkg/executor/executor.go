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

// Package executor applies copy plans to the filesystem, or pretends to
// under dry-run.
package executor

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/walteh/mediasort/pkg/plan"
	"gitlab.com/tozd/go/errors"
)

// 🔧 Executor performs the filesystem side of a plan
type Executor struct {
	dryRun bool
}

// 🏭 New creates an executor. With dryRun set it never mutates the
// filesystem: no directories are created and no files are written.
func New(dryRun bool) *Executor {
	return &Executor{dryRun: dryRun}
}

// DryRun reports whether the executor is in dry-run mode.
func (e *Executor) DryRun() bool { return e.dryRun }

// Apply carries out a Copy or Rename plan. Skip plans are a no-op. The copy
// preserves the source file's mode and modification time and lands atomically
// via a temp file in the destination folder.
func (e *Executor) Apply(ctx context.Context, pl plan.Plan) error {
	if pl.Decision == plan.DecisionSkip {
		return nil
	}

	if e.dryRun {
		zerolog.Ctx(ctx).Debug().
			Str("source", pl.SourcePath).
			Str("target", pl.Target()).
			Str("decision", pl.Decision.String()).
			Msg("dry-run, skipping copy")
		return nil
	}

	if err := os.MkdirAll(pl.Dir, 0755); err != nil {
		return errors.Errorf("creating destination folder: %w", err)
	}
	modTime, err := copyFile(pl.SourcePath, pl.Dir, pl.Target())
	if err != nil {
		return errors.Errorf("copying %s to %s: %w", pl.SourcePath, pl.Target(), err)
	}

	// The copy has landed at this point; a timestamp fix-up failure is
	// reported but does not fail the file.
	if err := chtimes(pl.Target(), modTime, modTime); err != nil {
		zerolog.Ctx(ctx).Warn().
			Str("target", pl.Target()).
			Err(err).
			Msg("could not preserve modification time")
	}
	return nil
}

// chtimes is swappable for tests.
var chtimes = os.Chtimes

// copyFile writes src to dst through a temp file in dir, matching the source
// mode, and returns the source's modification time.
func copyFile(src, dir, dst string) (time.Time, error) {
	srcFile, err := os.Open(src)
	if err != nil {
		return time.Time{}, errors.Errorf("opening source file: %w", err)
	}
	defer srcFile.Close()

	info, err := srcFile.Stat()
	if err != nil {
		return time.Time{}, errors.Errorf("stating source file: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".mediasort-*")
	if err != nil {
		return time.Time{}, errors.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := io.Copy(tmp, srcFile); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return time.Time{}, errors.Errorf("copying content: %w", err)
	}
	if err := tmp.Chmod(info.Mode()); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return time.Time{}, errors.Errorf("setting mode: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return time.Time{}, errors.Errorf("closing temp file: %w", err)
	}

	if err := os.Rename(tmpPath, dst); err != nil {
		os.Remove(tmpPath)
		return time.Time{}, errors.Errorf("renaming temp file: %w", err)
	}

	return info.ModTime(), nil
}
