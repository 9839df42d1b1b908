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

package status

import (
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"
)

// 📈 Summary accumulates the per-run outcome counts. Safe for concurrent use.
type Summary struct {
	mu        sync.Mutex
	processed int
	copied    int
	renamed   int
	skipped   int
	failed    int
}

// Record counts one processed file under its action.
func (s *Summary) Record(a Action) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.processed++
	switch a {
	case ActionCopied:
		s.copied++
	case ActionRenamed:
		s.renamed++
	case ActionSkipped:
		s.skipped++
	case ActionFailed:
		s.failed++
	}
}

// Counts returns a snapshot of the summary.
func (s *Summary) Counts() (processed, copied, renamed, skipped, failed int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.processed, s.copied, s.renamed, s.skipped, s.failed
}

// Render writes the end-of-run block to w.
func (s *Summary) Render(w io.Writer, dryRun bool) {
	processed, copied, renamed, skipped, failed := s.Counts()

	header := "run complete"
	if dryRun {
		header = "dry-run complete, nothing was written"
	}
	fmt.Fprintf(w, "\n%s %s\n",
		color.New(color.Bold, color.FgCyan).Sprint("mediasort"),
		color.New(color.Faint).Sprint("• "+header))

	fmt.Fprintf(w, "    %s %d processed\n", color.New(color.FgCyan).Sprint("•"), processed)
	fmt.Fprintf(w, "    %s %d copied\n", color.New(color.FgGreen).Sprint("✓"), copied)
	fmt.Fprintf(w, "    %s %d renamed\n", color.New(color.FgBlue).Sprint("⟳"), renamed)
	fmt.Fprintf(w, "    %s %d skipped\n", color.New(color.FgYellow).Sprint("-"), skipped)
	fmt.Fprintf(w, "    %s %d failed\n", color.New(color.FgRed).Sprint("✗"), failed)
}
