package app

import (
	"database/sql"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/Amserna/admin/internal/approval"
	"github.com/Amserna/admin/internal/audit"
	"github.com/Amserna/admin/internal/balance"
	"github.com/Amserna/admin/internal/directory"
	"github.com/Amserna/admin/internal/messaging/kafka"
	"github.com/Amserna/admin/internal/notification"
	"github.com/Amserna/admin/internal/rbac"
	"github.com/Amserna/admin/internal/rbac/infra"
	"github.com/Amserna/admin/internal/request"
	"github.com/Amserna/admin/internal/shared/config"
	"github.com/Amserna/admin/internal/shared/counter"
	"github.com/Amserna/admin/internal/workflow"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
	cfg *config.Config,
) error {
	// --- Repositories ---
	requestRepo := request.NewRepository(db)
	approvalRepo := approval.NewRepository(db)
	balanceRepo := balance.NewRepository(db)
	auditRepo := audit.NewRepository(db)
	outboxRepo := kafka.NewOutboxRepository(db)
	counterRepo := counter.NewRepository(gormDB)
	notificationRepo := notification.NewRepository(gormDB)
	directoryProvider := directory.NewProvider(gormDB)

	// --- RBAC Core ---
	enforcer, err := infra.NewEnforcer(cfg.RBACModelPath, cfg.RBACPolicyPath)
	if err != nil {
		return err
	}
	rbacService := rbac.NewService(enforcer)

	// --- Services ---
	workflowService := workflow.NewService(
		db,
		requestRepo,
		approvalRepo,
		balanceRepo,
		auditRepo,
		outboxRepo,
		directoryProvider,
		rdb,
	)
	requestService := request.NewService(
		db,
		requestRepo,
		approvalRepo,
		balanceRepo,
		counterRepo,
		workflowService,
		rdb,
	)
	balanceService := balance.NewService(db, balanceRepo)
	auditService := audit.NewService(auditRepo)
	notificationService := notification.NewService(notificationRepo, directoryProvider)

	// --- Handlers ---
	workflowHandler := workflow.NewHandler(workflowService)
	requestHandler := request.NewHandler(requestService)
	balanceHandler := balance.NewHandler(balanceService)
	auditHandler := audit.NewHandler(auditService)
	notificationHandler := notification.NewHandler(notificationService)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		request.RegisterRoutes(api, requestHandler, rbacService, cfg.JWTSecret)
		workflow.RegisterRoutes(api, workflowHandler, rbacService, rdb, cfg.JWTSecret)
		balance.RegisterRoutes(api, balanceHandler, rbacService, cfg.JWTSecret)
		audit.RegisterRoutes(api, auditHandler, rbacService, cfg.JWTSecret)
		notification.RegisterRoutes(api, notificationHandler, rbacService, cfg.JWTSecret)
	}

	return nil
}
