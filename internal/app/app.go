package app

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/Amserna/admin/internal/middleware"
	"github.com/Amserna/admin/internal/shared/apperror"
	"github.com/Amserna/admin/internal/shared/config"
	"github.com/Amserna/admin/internal/shared/connection"
	"github.com/Amserna/admin/internal/shared/response"
)

// BuildApp connects the infrastructure and wires every module into the
// router. It is the composition root of the API binary.
func BuildApp(router *gin.Engine, cfg *config.Config) error {
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

	redisClient, err := connection.ConnectRedisWithRetry(cfg.RedisAddr, 5)
	if err != nil {
		return err
	}

	router.Use(middleware.RequestID())
	router.Use(middleware.RateLimitByIP(rate.Limit(20), 40))
	router.Use(middleware.ContextLogger(zap.L()))

	router.NoRoute(func(c *gin.Context) {
		httpErr := apperror.ToHTTP(apperror.ErrNotFound)
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, nil)
	})

	return registerModules(router, sqlDB, gormDB, redisClient, cfg)
}
