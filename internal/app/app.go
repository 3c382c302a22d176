package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/Temutjin2k/navigator/config"
	"github.com/Temutjin2k/navigator/internal/app/microservices"
	"github.com/Temutjin2k/navigator/pkg/logger"
)

var (
	ErrInvalidMode           = errors.New("invalid mode")
	ErrServiceNotInitialized = errors.New("service not initialized")
)

type Service interface {
	Start(ctx context.Context) error
}

type App struct {
	service Service

	cfg config.Config
	log logger.Logger
}

// NewApplication builds the navigator for cfg.Mode.
func NewApplication(ctx context.Context, cfg config.Config, log logger.Logger) (*App, error) {
	if !cfg.Mode.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidMode, cfg.Mode)
	}

	service, err := microservices.NewNavigator(ctx, cfg, log)
	if err != nil {
		return nil, fmt.Errorf("failed to init service: %w", err)
	}

	return &App{
		service: service,
		cfg:     cfg,
		log:     log,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	if a.service == nil {
		return ErrServiceNotInitialized
	}

	return a.service.Start(ctx)
}
