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
	"os"
	"time"

	"github.com/rwcarlsen/goexif/exif"
	"gitlab.com/tozd/go/errors"
)

// 🔧 Embedded resolves capture timestamps in-process by decoding the EXIF
// block of the file itself. It needs no external tool, but only understands
// formats goexif can parse (JPEG and TIFF-based raw files).
type Embedded struct{}

// Name implements Resolver.
func (Embedded) Name() string { return "exif" }

// Resolve implements Resolver.
func (Embedded) Resolve(ctx context.Context, path string) (time.Time, error) {
	f, err := os.Open(path)
	if err != nil {
		return time.Time{}, errors.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	x, err := exif.Decode(f)
	if err != nil {
		return time.Time{}, errors.Errorf("decoding exif in %s: %w", path, ErrNoMetadata)
	}

	t, err := x.DateTime()
	if err != nil {
		return time.Time{}, errors.Errorf("reading exif datetime in %s: %w", path, ErrNoMetadata)
	}
	return t, nil
}
