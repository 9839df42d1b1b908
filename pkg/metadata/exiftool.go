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

package metadata

import (
	"context"
	"encoding/json"
	"os/exec"
	"time"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// captureTags are tried in order against the exiftool output. Group-prefixed
// names match exiftool's -G flag.
var captureTags = []string{
	"EXIF:DateTimeOriginal",
	"EXIF:CreateDate",
	"XMP:CreateDate",
	"QuickTime:CreationDate",
	"QuickTime:CreateDate",
}

// captureLayouts are the date formats exiftool emits for the tags above.
var captureLayouts = []string{
	"2006:01:02 15:04:05Z07:00",
	"2006:01:02 15:04:05",
}

// 🔧 ExifTool resolves capture timestamps by invoking the exiftool binary
// once per file with JSON output (-G -j -n).
type ExifTool struct {
	bin string
}

// 🏭 NewExifTool locates the exiftool binary up front, so a missing tool is
// reported before any file is processed. An empty path means "exiftool" on
// the PATH.
func NewExifTool(path string) (*ExifTool, error) {
	if path == "" {
		path = "exiftool"
	}
	bin, err := exec.LookPath(path)
	if err != nil {
		return nil, errors.Errorf("locating %s: %w", path, ErrToolUnavailable)
	}
	return &ExifTool{bin: bin}, nil
}

// Name implements Resolver.
func (e *ExifTool) Name() string { return "exiftool" }

// Resolve implements Resolver. A non-zero exit status or unparsable output
// is treated as missing metadata, not as a run-level failure.
func (e *ExifTool) Resolve(ctx context.Context, path string) (time.Time, error) {
	cmd := exec.CommandContext(ctx, e.bin, "-G", "-j", "-n", path)
	out, err := cmd.Output()
	if err != nil && len(out) == 0 {
		zerolog.Ctx(ctx).Debug().Str("path", path).Err(err).Msg("exiftool invocation failed")
		return time.Time{}, errors.Errorf("running exiftool on %s: %w", path, ErrNoMetadata)
	}
	return parseCaptureTime(out)
}

// parseCaptureTime extracts the first recognized capture tag from exiftool's
// JSON array output.
func parseCaptureTime(out []byte) (time.Time, error) {
	var records []map[string]any
	if err := json.Unmarshal(out, &records); err != nil {
		return time.Time{}, errors.Errorf("decoding exiftool output: %w", ErrNoMetadata)
	}
	if len(records) == 0 {
		return time.Time{}, errors.Errorf("empty exiftool output: %w", ErrNoMetadata)
	}

	record := records[0]
	for _, tag := range captureTags {
		raw, ok := record[tag]
		if !ok {
			continue
		}
		value, ok := raw.(string)
		if !ok {
			continue
		}
		for _, layout := range captureLayouts {
			if t, err := time.ParseInLocation(layout, value, time.Local); err == nil {
				return t, nil
			}
		}
	}

	return time.Time{}, errors.Errorf("no recognized capture tag: %w", ErrNoMetadata)
}
