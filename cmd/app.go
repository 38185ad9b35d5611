package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/chrisdamba/couriermatch/internal/factories"
	"github.com/chrisdamba/couriermatch/internal/logging"
	"github.com/chrisdamba/couriermatch/internal/models"
	"github.com/chrisdamba/couriermatch/internal/repositories"
	"github.com/chrisdamba/couriermatch/internal/simulator"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// app holds the dependencies shared by every command.
type app struct {
	cfg     *models.Config
	logger  *slog.Logger
	repo    repositories.DriverPhotoRepository
	factory *factories.DriverFactory
	output  simulator.OutputDestination
}

func bindFlag(flag *pflag.Flag, key string) {
	if err := viper.BindPFlag(key, flag); err != nil {
		panic(fmt.Sprintf("bind flag %s: %v", flag.Name, err))
	}
}

// newApp loads configuration and opens the photo store. Outputs are only
// opened when withOutput is set.
func newApp(ctx context.Context, withOutput bool) (*app, error) {
	cfg, err := models.LoadConfig(viper.GetViper(), cfgFile)
	if err != nil {
		return nil, fmt.Errorf("error loading config: %w", err)
	}
	logger := logging.New(cfg.Logging)
	slog.SetDefault(logger)

	repo, err := repositories.Open(ctx, cfg.Store)
	if err != nil {
		return nil, fmt.Errorf("error opening %s store: %w", cfg.Store.Driver, err)
	}

	a := &app{
		cfg:     cfg,
		logger:  logger,
		repo:    repo,
		factory: factories.NewDriverFactory(repo, factories.NewRand(cfg.Seed), cfg.FetchTimeout, logger),
	}
	if withOutput {
		if a.output, err = simulator.DetermineOutputDestination(cfg); err != nil {
			repo.Close(ctx)
			return nil, fmt.Errorf("error creating output destination: %w", err)
		}
	}
	return a, nil
}

func (a *app) sequencer() *simulator.Sequencer {
	return simulator.NewSequencer(a.factory, simulator.DefaultPacing().Scale(1/a.cfg.TimeScale),
		simulator.WithLogger(a.logger),
		simulator.WithLoadTimeout(a.cfg.DriverLoadTimeout),
		simulator.WithOutput(a.output),
	)
}

func (a *app) Close(ctx context.Context) {
	if a.output != nil {
		if err := a.output.Close(); err != nil {
			a.logger.Warn("failed to close output", "error", err)
		}
	}
	if err := a.repo.Close(ctx); err != nil {
		a.logger.Warn("failed to close store", "error", err)
	}
}
