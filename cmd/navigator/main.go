package main

import (
	"context"
	"errors"
	"os"

	"github.com/Temutjin2k/navigator/config"
	"github.com/Temutjin2k/navigator/internal/app"
	"github.com/Temutjin2k/navigator/pkg/logger"
)

const serviceName = "navigator"

func main() {
	ctx := context.Background()
	log := logger.InitLogger(serviceName, logger.LevelDebug)

	cfg, err := config.NewConfig()
	if err != nil {
		if errors.Is(err, config.ErrHelpRequested) {
			config.PrintHelp()
			return
		}
		log.Error(ctx, "failed to configure application", err)
		config.PrintHelp()
		os.Exit(1)
	}

	if logger.ValidateLogLevel(cfg.Log.Level) {
		log = logger.InitLogger(serviceName, cfg.Log.Level)
	}

	config.PrintConfig(ctx, cfg, log)

	application, err := app.NewApplication(ctx, *cfg, log)
	if err != nil {
		log.Error(ctx, "failed to init application", err)
		os.Exit(1)
	}

	if err = application.Run(ctx); err != nil {
		log.Error(ctx, "failed to run application", err)
		os.Exit(1)
	}
}
