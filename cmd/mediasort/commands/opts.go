package commands

import (
	"context"
	"os"

	"github.com/walteh/mediasort/pkg/config"
	"gitlab.com/tozd/go/errors"
)

// defaultConfigFiles are tried in order when no --config flag is given.
var defaultConfigFiles = []string{".mediasort.yaml", ".mediasort.hcl"}

// RootOpts contains shared options used by all commands
type RootOpts struct {
	ConfigFile *string
}

// loadConfig returns the configuration from the --config flag, a default
// config file in the working directory, or built-in defaults.
func (o *RootOpts) loadConfig(ctx context.Context) (*config.Config, error) {
	if o.ConfigFile != nil && *o.ConfigFile != "" {
		cfg, err := config.Load(ctx, *o.ConfigFile)
		if err != nil {
			return nil, errors.Errorf("loading config: %w", err)
		}
		return cfg, nil
	}

	for _, path := range defaultConfigFiles {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		cfg, err := config.Load(ctx, path)
		if err != nil {
			return nil, errors.Errorf("loading config: %w", err)
		}
		return cfg, nil
	}

	return config.Default(), nil
}
