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

package organize_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/mediasort/pkg/config"
	"github.com/walteh/mediasort/pkg/executor"
	"github.com/walteh/mediasort/pkg/metadata"
	"github.com/walteh/mediasort/pkg/organize"
	"github.com/walteh/mediasort/pkg/plan"
)

// 🧪 fakeResolver maps filenames to fixed capture timestamps
type fakeResolver struct {
	dates map[string]time.Time
}

func (f *fakeResolver) Name() string { return "fake" }

func (f *fakeResolver) Resolve(ctx context.Context, path string) (time.Time, error) {
	if t, ok := f.dates[filepath.Base(path)]; ok {
		return t, nil
	}
	return time.Time{}, metadata.ErrNoMetadata
}

func testContext(t *testing.T) context.Context {
	logger := zerolog.New(zerolog.NewTestWriter(t))
	return logger.WithContext(context.Background())
}

func writeFile(t *testing.T, path string, size int) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, make([]byte, size), 0644))
}

func newOrganizer(t *testing.T, cfg *config.Config, resolver metadata.Resolver) *organize.Organizer {
	t.Helper()
	planner, err := plan.NewPlanner(cfg.Destination, plan.NewIndex())
	require.NoError(t, err)
	org, err := organize.New(organize.Options{
		Config:   cfg,
		Resolver: resolver,
		Planner:  planner,
		Executor: executor.New(cfg.DryRun),
	})
	require.NoError(t, err)
	return org
}

// 🧪 TestRunEndToEnd tests the copy-then-rerun scenario
func TestRunEndToEnd(t *testing.T) {
	ctx := testContext(t)
	srcDir := t.TempDir()
	dstDir := t.TempDir()

	writeFile(t, filepath.Join(srcDir, "IMG_0001.jpg"), 1000)
	writeFile(t, filepath.Join(srcDir, "IMG_0002.jpg"), 500000)

	resolver := &fakeResolver{dates: map[string]time.Time{
		"IMG_0001.jpg": time.Date(2022, time.May, 14, 9, 0, 0, 0, time.UTC),
		"IMG_0002.jpg": time.Date(2022, time.May, 15, 9, 0, 0, 0, time.UTC),
	}}

	cfg := &config.Config{Source: srcDir, Destination: dstDir, Workers: 1}
	require.NoError(t, cfg.Validate())

	summary, err := newOrganizer(t, cfg, resolver).Run(ctx)
	require.NoError(t, err)

	_, copied, renamed, skipped, failed := summary.Counts()
	assert.Equal(t, 2, copied)
	assert.Equal(t, 0, renamed)
	assert.Equal(t, 0, skipped)
	assert.Equal(t, 0, failed)

	info, err := os.Stat(filepath.Join(dstDir, "2022-05", "IMG_0001.jpg"))
	require.NoError(t, err)
	assert.Equal(t, int64(1000), info.Size())

	info, err = os.Stat(filepath.Join(dstDir, "2022-05", "IMG_0002.jpg"))
	require.NoError(t, err)
	assert.Equal(t, int64(500000), info.Size())

	// Second run over the same trees is a pure skip: idempotent
	summary, err = newOrganizer(t, cfg, resolver).Run(ctx)
	require.NoError(t, err)

	_, copied, _, skipped, failed = summary.Counts()
	assert.Equal(t, 0, copied)
	assert.Equal(t, 2, skipped)
	assert.Equal(t, 0, failed)
}

// 🧪 TestRunNameCollision tests that both same-name files survive
func TestRunNameCollision(t *testing.T) {
	ctx := testContext(t)
	srcDir := t.TempDir()
	dstDir := t.TempDir()

	// Same filename from two camera cards, different content sizes
	writeFile(t, filepath.Join(srcDir, "card1", "IMG_1111.jpg"), 100)
	writeFile(t, filepath.Join(srcDir, "card2", "IMG_1111.jpg"), 200)

	when := time.Date(2023, time.July, 4, 12, 0, 0, 0, time.UTC)
	resolver := &fakeResolver{dates: map[string]time.Time{"IMG_1111.jpg": when}}

	cfg := &config.Config{Source: srcDir, Destination: dstDir, Workers: 1}
	require.NoError(t, cfg.Validate())

	summary, err := newOrganizer(t, cfg, resolver).Run(ctx)
	require.NoError(t, err)

	_, copied, renamed, _, failed := summary.Counts()
	assert.Equal(t, 1, copied)
	assert.Equal(t, 1, renamed)
	assert.Equal(t, 0, failed)

	entries, err := os.ReadDir(filepath.Join(dstDir, "2023-07"))
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.ElementsMatch(t, []string{"IMG_1111.jpg", "IMG_1111_1.jpg"}, names)
}

// 🧪 TestRunDryRun tests that dry-run creates nothing but counts everything
func TestRunDryRun(t *testing.T) {
	ctx := testContext(t)
	srcDir := t.TempDir()
	dstDir := filepath.Join(t.TempDir(), "dest")

	writeFile(t, filepath.Join(srcDir, "IMG_0001.jpg"), 10)
	writeFile(t, filepath.Join(srcDir, "IMG_0002.jpg"), 20)

	resolver := &fakeResolver{dates: map[string]time.Time{
		"IMG_0001.jpg": time.Date(2022, time.May, 14, 0, 0, 0, 0, time.UTC),
		"IMG_0002.jpg": time.Date(2022, time.May, 15, 0, 0, 0, 0, time.UTC),
	}}

	cfg := &config.Config{Source: srcDir, Destination: dstDir, DryRun: true, Workers: 1}
	require.NoError(t, cfg.Validate())

	summary, err := newOrganizer(t, cfg, resolver).Run(ctx)
	require.NoError(t, err)

	_, copied, _, _, failed := summary.Counts()
	assert.Equal(t, 2, copied)
	assert.Equal(t, 0, failed)

	// The destination was never created
	_, err = os.Stat(dstDir)
	assert.True(t, os.IsNotExist(err))
}

// 🧪 TestRunModTimeFallback tests the fallback folder for metadata-less files
func TestRunModTimeFallback(t *testing.T) {
	ctx := testContext(t)
	srcDir := t.TempDir()
	dstDir := t.TempDir()

	src := filepath.Join(srcDir, "scan.png")
	writeFile(t, src, 42)
	modTime := time.Date(2019, time.November, 3, 7, 0, 0, 0, time.Local)
	require.NoError(t, os.Chtimes(src, modTime, modTime))

	// Resolver knows nothing about this file
	resolver := &fakeResolver{dates: map[string]time.Time{}}

	cfg := &config.Config{Source: srcDir, Destination: dstDir, Workers: 1}
	require.NoError(t, cfg.Validate())

	summary, err := newOrganizer(t, cfg, resolver).Run(ctx)
	require.NoError(t, err)

	_, copied, _, _, failed := summary.Counts()
	assert.Equal(t, 1, copied)
	assert.Equal(t, 0, failed)

	_, err = os.Stat(filepath.Join(dstDir, "2019-11", "scan.png"))
	assert.NoError(t, err)
}

// 🧪 TestRunFilters tests hidden files, ignore patterns and extensions
func TestRunFilters(t *testing.T) {
	ctx := testContext(t)
	srcDir := t.TempDir()
	dstDir := t.TempDir()

	when := time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC)
	dates := map[string]time.Time{}
	for _, name := range []string{"keep.jpg", ".hidden.jpg", "note.txt", "raw.dng"} {
		writeFile(t, filepath.Join(srcDir, name), 10)
		dates[name] = when
	}
	writeFile(t, filepath.Join(srcDir, ".thumbnails", "thumb.jpg"), 10)
	dates["thumb.jpg"] = when
	writeFile(t, filepath.Join(srcDir, "backup", "old.jpg"), 10)
	dates["old.jpg"] = when

	cfg := &config.Config{
		Source:         srcDir,
		Destination:    dstDir,
		Workers:        1,
		Extensions:     []string{"jpg", ".dng"},
		IgnorePatterns: []string{"backup/**"},
	}
	require.NoError(t, cfg.Validate())

	summary, err := newOrganizer(t, cfg, &fakeResolver{dates: dates}).Run(ctx)
	require.NoError(t, err)

	_, copied, _, _, _ := summary.Counts()
	assert.Equal(t, 2, copied, "only keep.jpg and raw.dng pass the filters")

	entries, err := os.ReadDir(filepath.Join(dstDir, "2024-02"))
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.ElementsMatch(t, []string{"keep.jpg", "raw.dng"}, names)
}

// 🧪 TestRunParallelWorkers tests that a concurrent run stays consistent
func TestRunParallelWorkers(t *testing.T) {
	ctx := testContext(t)
	srcDir := t.TempDir()
	dstDir := t.TempDir()

	when := time.Date(2024, time.June, 10, 0, 0, 0, 0, time.UTC)
	dates := map[string]time.Time{"burst.jpg": when}
	// Same filename with distinct sizes spread over subfolders
	for i := 0; i < 8; i++ {
		writeFile(t, filepath.Join(srcDir, string(rune('a'+i)), "burst.jpg"), 100+i)
	}

	cfg := &config.Config{Source: srcDir, Destination: dstDir, Workers: 4}
	require.NoError(t, cfg.Validate())

	summary, err := newOrganizer(t, cfg, &fakeResolver{dates: dates}).Run(ctx)
	require.NoError(t, err)

	_, copied, renamed, skipped, failed := summary.Counts()
	assert.Equal(t, 8, copied+renamed)
	assert.Equal(t, 0, skipped)
	assert.Equal(t, 0, failed)

	entries, err := os.ReadDir(filepath.Join(dstDir, "2024-06"))
	require.NoError(t, err)
	assert.Len(t, entries, 8, "all eight files survive under distinct names")
}

// 🧪 TestRunSuffixExhaustionCountsFailure tests that a file whose rename
// suffix space is used up becomes a per-file failure, not a fatal error
func TestRunSuffixExhaustionCountsFailure(t *testing.T) {
	ctx := testContext(t)
	srcDir := t.TempDir()
	dstDir := t.TempDir()

	when := time.Date(2024, time.January, 5, 0, 0, 0, 0, time.UTC)
	writeFile(t, filepath.Join(srcDir, "x.jpg"), 500000)

	// Use up x.jpg and every suffix through x_9999.jpg before the run,
	// each with a size distinct from the source file's.
	idx := plan.NewIndex()
	folder := filepath.Join(dstDir, plan.FolderName(when))
	for i := 0; i <= 9999; i++ {
		_, _, err := idx.Claim(folder, "x.jpg", int64(i+1))
		require.NoError(t, err)
	}

	planner, err := plan.NewPlanner(dstDir, idx)
	require.NoError(t, err)

	cfg := &config.Config{Source: srcDir, Destination: dstDir, Workers: 1}
	require.NoError(t, cfg.Validate())

	org, err := organize.New(organize.Options{
		Config:   cfg,
		Resolver: &fakeResolver{dates: map[string]time.Time{"x.jpg": when}},
		Planner:  planner,
		Executor: executor.New(false),
	})
	require.NoError(t, err)

	summary, err := org.Run(ctx)
	require.NoError(t, err, "per-file failures never abort the run")

	processed, copied, _, _, failed := summary.Counts()
	assert.Equal(t, 1, processed)
	assert.Equal(t, 0, copied)
	assert.Equal(t, 1, failed)
}
