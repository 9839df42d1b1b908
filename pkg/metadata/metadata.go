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

// Package metadata resolves the capture timestamp of photo and video files.
package metadata

import (
	"context"
	"time"

	"gitlab.com/tozd/go/errors"
)

var (
	// 🚫 ErrNoMetadata means the file carries no usable capture date
	ErrNoMetadata = errors.New("no capture date in metadata")

	// 🚫 ErrToolUnavailable means the external extraction tool cannot be run
	ErrToolUnavailable = errors.New("metadata tool unavailable")
)

// 🔌 Resolver extracts a capture timestamp from a file
type Resolver interface {
	// Name identifies the resolver in logs and reports
	Name() string

	// Resolve returns the capture timestamp of the file at path, or an
	// error wrapping ErrNoMetadata when none can be extracted
	Resolve(ctx context.Context, path string) (time.Time, error)
}

// 🔗 Chain tries each resolver in order and returns the first timestamp found
type Chain []Resolver

// Name implements Resolver.
func (c Chain) Name() string { return "chain" }

// Resolve implements Resolver. Resolvers that fail, for any reason, simply
// pass the file on to the next one; only context cancellation aborts early.
func (c Chain) Resolve(ctx context.Context, path string) (time.Time, error) {
	t, _, err := c.ResolveSource(ctx, path)
	return t, err
}

// ResolveSource is Resolve plus the name of the resolver that produced the
// timestamp, for per-file reporting.
func (c Chain) ResolveSource(ctx context.Context, path string) (time.Time, string, error) {
	for _, r := range c {
		if err := ctx.Err(); err != nil {
			return time.Time{}, "", errors.Errorf("resolving %s: %w", path, err)
		}
		t, err := r.Resolve(ctx, path)
		if err != nil {
			continue
		}
		return t, r.Name(), nil
	}
	return time.Time{}, "", errors.Errorf("resolving %s: %w", path, ErrNoMetadata)
}
