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

package plan

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gitlab.com/tozd/go/errors"
)

// maxRenameSuffix bounds the collision loop so it always terminates.
const maxRenameSuffix = 9999

// 🚫 ErrNameSpaceExhausted is returned when no free suffixed name remains
var ErrNameSpaceExhausted = errors.New("no free name below suffix limit")

// 💾 Index is a per-run view of the destination tree: for each subfolder it
// holds a filename→size map, loaded lazily on first use and kept current as
// this run claims target names. Names are compared case-sensitively and sizes
// by exact byte count; no content hashing.
type Index struct {
	mu      sync.Mutex
	folders map[string]map[string]int64
}

// 🏭 NewIndex creates an empty index
func NewIndex() *Index {
	return &Index{folders: make(map[string]map[string]int64)}
}

// folder returns the entry map for dir, reading the directory (non-recursive)
// on first access. A missing directory is an empty folder, not an error.
// Callers must hold ix.mu.
func (ix *Index) folder(dir string) (map[string]int64, error) {
	if entries, ok := ix.folders[dir]; ok {
		return entries, nil
	}

	entries := make(map[string]int64)
	dirents, err := os.ReadDir(dir)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, errors.Errorf("reading destination folder: %w", err)
		}
	}
	for _, de := range dirents {
		if de.IsDir() {
			continue
		}
		info, err := de.Info()
		if err != nil {
			continue
		}
		entries[de.Name()] = info.Size()
	}

	ix.folders[dir] = entries
	return entries, nil
}

// Claim decides the action for a candidate file and reserves its target name
// in one atomic step. Reserved names count as taken for every later claim in
// the run, whether or not the copy has landed yet.
func (ix *Index) Claim(dir, name string, size int64) (Decision, string, error) {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	entries, err := ix.folder(dir)
	if err != nil {
		return DecisionUnknown, "", err
	}

	existing, taken := entries[name]
	if !taken {
		entries[name] = size
		return DecisionCopy, name, nil
	}
	if existing == size {
		return DecisionSkip, name, nil
	}

	// Name collision with a different size: lowest free numeric suffix wins.
	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)
	for n := 1; n <= maxRenameSuffix; n++ {
		candidate := fmt.Sprintf("%s_%d%s", base, n, ext)
		if _, ok := entries[candidate]; ok {
			continue
		}
		entries[candidate] = size
		return DecisionRename, candidate, nil
	}

	return DecisionUnknown, "", errors.Errorf("renaming %s: %w", name, ErrNameSpaceExhausted)
}

// Release drops a reservation made by Claim, so a failed copy does not block
// the name for the rest of the run.
func (ix *Index) Release(dir, name string) {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	if entries, ok := ix.folders[dir]; ok {
		delete(entries, name)
	}
}

// Len reports how many entries are tracked for dir, loading it if needed.
// Used by tests and the inspect command.
func (ix *Index) Len(dir string) (int, error) {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	entries, err := ix.folder(dir)
	if err != nil {
		return 0, err
	}
	return len(entries), nil
}
