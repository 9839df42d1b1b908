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

package config

import (
	"context"
	"os"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 🔌 Parser is the interface for config parsers
type Parser interface {
	// 📝 Parse parses the config from bytes
	Parse(ctx context.Context, data []byte) (*Config, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

// 📦 ExifToolArgs configures the external metadata tool
type ExifToolArgs struct {
	Path     string // Binary name or path; empty means "exiftool" on PATH
	Disabled bool   // Skip the external tool, use only the embedded reader
}

// 📚 Config represents the complete configuration
type Config struct {
	Source         string       // Source directory to organize
	Destination    string       // Destination root for YEAR-MONTH folders
	DryRun         bool         // Report decisions without writing
	Workers        int          // Parallel workers; 1 means sequential
	ExifTool       ExifToolArgs // External metadata tool settings
	Extensions     []string     // File extensions to include; empty means all
	IgnorePatterns []string     // Doublestar globs matched against source-relative paths
}

// 🏭 Default returns the configuration used when no config file is present
func Default() *Config {
	return &Config{Workers: 1}
}

// 🎯 Load loads the configuration from a file
func Load(ctx context.Context, path string) (*Config, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading configuration")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	p := GetParser(path)
	if p == nil {
		return nil, errors.Errorf("no parser found for file: %s", path)
	}

	cfg, err := p.Parse(ctx, data)
	if err != nil {
		return nil, errors.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// ✅ Validate normalizes and checks the configuration
func (c *Config) Validate() error {
	if c.Source == "" {
		return errors.New("source directory is required")
	}
	if c.Destination == "" {
		return errors.New("destination directory is required")
	}
	if c.Workers < 1 {
		c.Workers = 1
	}

	for i, ext := range c.Extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			return errors.Errorf("empty extension at index %d", i)
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		c.Extensions[i] = ext
	}

	for _, pattern := range c.IgnorePatterns {
		if !doublestar.ValidatePattern(pattern) {
			return errors.Errorf("invalid ignore pattern: %s", pattern)
		}
	}

	return nil
}

// IncludesExtension reports whether a filename passes the extension filter.
func (c *Config) IncludesExtension(name string) bool {
	if len(c.Extensions) == 0 {
		return true
	}
	idx := strings.LastIndex(name, ".")
	if idx < 0 {
		return false
	}
	ext := strings.ToLower(name[idx:])
	for _, e := range c.Extensions {
		if e == ext {
			return true
		}
	}
	return false
}

// Ignores reports whether a source-relative path matches an ignore pattern.
func (c *Config) Ignores(ctx context.Context, relPath string) bool {
	for _, pattern := range c.IgnorePatterns {
		matched, err := doublestar.Match(pattern, relPath)
		if err != nil {
			zerolog.Ctx(ctx).Debug().Str("pattern", pattern).Str("path", relPath).Err(err).Msg("error matching pattern")
			continue
		}
		if matched {
			return true
		}
	}
	return false
}
