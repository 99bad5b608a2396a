// Package commands holds the CLI entry points.
package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/crivelaro/garimpo/internal/params"
	"github.com/crivelaro/garimpo/pkg/config"
	"github.com/crivelaro/garimpo/pkg/logger"
)

var rootCmd = &cobra.Command{
	Use:   "garimpo",
	Short: "Garimpo - ranking de ativos da B3 e renda fixa",
	Long: `Garimpo Unified CLI

Motor de ranking multi-estratégia para ações, FIIs, ETFs e renda fixa.

Usage:
  go run ./cmd/garimpo [command]

Examples:
  go run ./cmd/garimpo api
  go run ./cmd/garimpo rank acoes graham
  go run ./cmd/garimpo refresh
  go run ./cmd/garimpo scheduler`,
}

// Execute runs the root command. Called once from main.
func Execute() error {
	return rootCmd.Execute()
}

// bootstrap loads config, logger and calibration parameters, shared by
// every subcommand.
func bootstrap() (*config.Config, *logger.Logger, *params.Params, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load config: %w", err)
	}

	log := logger.New(cfg)

	p := params.Default()
	if cfg.Engine.ParamsFile != "" {
		p, err = params.Load(cfg.Engine.ParamsFile)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("load params: %w", err)
		}
		log.WithField("file", cfg.Engine.ParamsFile).Info("Calibration parameters loaded")
	}

	return cfg, log, p, nil
}
