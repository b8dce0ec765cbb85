package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/Amserna/admin/internal/directory"
	"github.com/Amserna/admin/internal/notification"
	"github.com/Amserna/admin/internal/shared/config"
	"github.com/Amserna/admin/internal/shared/connection"
)

// RunNotifier runs the dispatcher consumer: workflow status events in,
// in-app notification rows out.
func RunNotifier(cfg *config.Config) error {
	logger := zap.L().Named("app.notifier")

	gormDB, err := connection.ConnectGORMWithRetry(
		cfg.DBHost,
		cfg.DBUser,
		cfg.DBPassword,
		cfg.DBName,
		cfg.DBPort,
		cfg.DBSSLMode,
		5,
	)
	if err != nil {
		return err
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	notificationRepo := notification.NewRepository(gormDB)
	directoryProvider := directory.NewProvider(gormDB)
	notificationService := notification.NewService(notificationRepo, directoryProvider)

	consumer := notification.NewStatusEventConsumer(
		cfg.KafkaBroker,
		cfg.KafkaGroupID,
		notificationService,
		logger,
	)
	defer consumer.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go consumer.Run(ctx)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("notifier shutting down")
	cancel()

	return nil
}
