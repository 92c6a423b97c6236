package main

import (
	"context"
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/desertthunder/chordfinder/internal/shared"
	"github.com/urfave/cli/v3"
)

// ConfigInit writes the example configuration file.
//
// The target is --path, then the global --config, then config.toml.
func (r *Runner) ConfigInit(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("path")
	if path == "" {
		path = r.configPath
	}
	if path == "" {
		path = "config.toml"
	}

	r.logger.Info("creating config file", "path", path)
	if err := shared.CreateConfigFile(path); err != nil {
		return err
	}

	if err := r.writePlain("✓ Config written to %s\n", path); err != nil {
		return err
	}
	return r.writePlain("Edit backend.base_url to point at your recommender API\n")
}

// ConfigShow prints the effective configuration, defaults included.
func (r *Runner) ConfigShow(ctx context.Context, cmd *cli.Command) error {
	if r.config == nil {
		return fmt.Errorf("%w: no configuration loaded", shared.ErrMissingConfig)
	}
	if err := toml.NewEncoder(r.output).Encode(r.config); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}
