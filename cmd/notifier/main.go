package main

import (
	"go.uber.org/zap"

	"github.com/Amserna/admin/internal/app"
	"github.com/Amserna/admin/internal/shared/config"
)

func main() {
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config failed", zap.Error(err))
	}

	if err := app.RunNotifier(cfg); err != nil {
		logger.Fatal("run notifier failed", zap.Error(err))
	}
}
