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

// Package plan decides, per source file, whether a copy into the destination
// tree is needed and under which name.
package plan

import (
	"fmt"
	"path/filepath"
	"time"

	"gitlab.com/tozd/go/errors"
)

// 📊 Decision represents the action chosen for a source file
type Decision int

const (
	DecisionUnknown Decision = iota
	DecisionSkip             // Same name and size already present in destination
	DecisionCopy             // No conflict, copy under the original name
	DecisionRename           // Name taken by a different-sized file, copy under a suffixed name
)

// String returns a string representation of Decision
func (d Decision) String() string {
	switch d {
	case DecisionSkip:
		return "skip"
	case DecisionCopy:
		return "copy"
	case DecisionRename:
		return "rename"
	default:
		return "unknown"
	}
}

// 📄 Plan is the concrete outcome for one source file
type Plan struct {
	Decision   Decision
	SourcePath string // Absolute path of the source file
	Dir        string // Destination subfolder (absolute)
	Name       string // Target filename within Dir
	Size       int64  // Source file size in bytes
}

// Target returns the full destination path of the plan.
func (p Plan) Target() string {
	return filepath.Join(p.Dir, p.Name)
}

// FolderName maps a capture timestamp to its destination subfolder name.
// Pure: the same timestamp always yields the same YEAR-MONTH string.
func FolderName(t time.Time) string {
	return fmt.Sprintf("%04d-%02d", t.Year(), int(t.Month()))
}

// 🔧 Planner computes a Plan for each source file against the destination root
type Planner struct {
	root string
	idx  *Index
}

// 🏭 NewPlanner creates a planner rooted at the destination directory
func NewPlanner(root string, idx *Index) (*Planner, error) {
	if root == "" {
		return nil, errors.New("destination root is required")
	}
	if idx == nil {
		return nil, errors.New("index is required")
	}
	return &Planner{root: filepath.Clean(root), idx: idx}, nil
}

// Plan resolves the destination folder for the capture timestamp and claims a
// target name in it. The claim is atomic per folder: within one run no two
// source files can be planned onto the same target path.
func (p *Planner) Plan(srcPath string, size int64, captured time.Time) (Plan, error) {
	dir := filepath.Join(p.root, FolderName(captured))
	name := filepath.Base(srcPath)

	decision, target, err := p.idx.Claim(dir, name, size)
	if err != nil {
		return Plan{}, errors.Errorf("claiming %s in %s: %w", name, dir, err)
	}

	return Plan{
		Decision:   decision,
		SourcePath: srcPath,
		Dir:        dir,
		Name:       target,
		Size:       size,
	}, nil
}

// Release frees a claimed target name after a failed copy so that a later
// file may reuse it.
func (p *Planner) Release(pl Plan) {
	p.idx.Release(pl.Dir, pl.Name)
}
