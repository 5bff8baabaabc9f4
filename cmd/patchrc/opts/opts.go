package opts

import (
	"context"

	"github.com/walteh/patchrc/pkg/config"
	"gitlab.com/tozd/go/errors"
)

// RootOpts contains shared options used by all commands
type RootOpts struct {
	ConfigFile string
	Debug      bool
}

// LoadConfig loads and validates the configured .patchrc file.
func (o *RootOpts) LoadConfig(ctx context.Context) (*config.Config, error) {
	cfg, err := config.Load(ctx, o.ConfigFile)
	if err != nil {
		return nil, errors.Errorf("loading config: %w", err)
	}
	return cfg, nil
}
