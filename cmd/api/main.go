package main

import (
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/noah-isme/tempo-api/api/swagger"
	"github.com/noah-isme/tempo-api/internal/handler"
	"github.com/noah-isme/tempo-api/internal/middleware"
	"github.com/noah-isme/tempo-api/internal/models"
	"github.com/noah-isme/tempo-api/internal/repository"
	"github.com/noah-isme/tempo-api/internal/service"
	"github.com/noah-isme/tempo-api/pkg/cache"
	"github.com/noah-isme/tempo-api/pkg/config"
	"github.com/noah-isme/tempo-api/pkg/database"
	"github.com/noah-isme/tempo-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/tempo-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/tempo-api/pkg/middleware/requestid"
)

// @title Tempo API
// @version 1.0.0
// @description Weekly time sheet tracking and approval service
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close() //nolint:errcheck

	metricsSvc := service.NewMetricsService()

	var cacheSvc *service.CacheService
	if cfg.Approvals.CacheEnabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, supervisor cache disabled", "error", err)
		} else {
			defer redisClient.Close() //nolint:errcheck
			cacheRepo := repository.NewCacheRepository(redisClient, logr)
			cacheSvc = service.NewCacheService(cacheRepo, metricsSvc, cfg.Approvals.SupervisorCacheTTL, logr, true)
		}
	}

	userRepo := repository.NewUserRepository(db)
	sheetRepo := repository.NewTimeSheetRepository(db)
	entryRepo := repository.NewTimeEntryRepository(db)
	supervisorRepo := repository.NewSupervisorRepository(db)
	approvalRepo := repository.NewApprovalRepository(db)
	catalogRepo := repository.NewCatalogRepository(db)

	authSvc := service.NewAuthService(userRepo, nil, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             "tempo-api",
		Audience:           []string{"tempo-api"},
	})
	sheetSvc := service.NewTimeSheetService(sheetRepo, entryRepo, catalogRepo, supervisorRepo, metricsSvc, nil, logr)
	entrySvc := service.NewEntryService(entryRepo, sheetRepo, catalogRepo, nil, logr)
	approvalSvc := service.NewApprovalService(approvalRepo, sheetRepo, supervisorRepo, userRepo, cacheSvc, cfg.Approvals.SupervisorCacheTTL, metricsSvc, nil, logr)
	supervisorSvc := service.NewSupervisorService(supervisorRepo, userRepo, approvalSvc, nil, logr)
	catalogSvc := service.NewCatalogService(catalogRepo, logr)
	exportSvc := service.NewExportService(sheetRepo, entryRepo, cfg.Exports.Enabled, logr)

	authHandler := handler.NewAuthHandler(authSvc)
	sheetHandler := handler.NewTimeSheetHandler(sheetSvc)
	entryHandler := handler.NewEntryHandler(entrySvc)
	approvalHandler := handler.NewApprovalHandler(approvalSvc)
	supervisorHandler := handler.NewSupervisorHandler(supervisorSvc)
	catalogHandler := handler.NewCatalogHandler(catalogSvc)
	exportHandler := handler.NewExportHandler(exportSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Health)
	r.GET("/metrics", metricsHandler.Prometheus)
	r.GET("/stats", metricsHandler.Stats)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	auth := api.Group("/auth")
	{
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.Refresh)
		auth.POST("/logout", middleware.JWT(authSvc), authHandler.Logout)
		auth.POST("/change-password", middleware.JWT(authSvc), authHandler.ChangePassword)
		auth.GET("/me", middleware.JWT(authSvc), authHandler.Me)
	}

	authed := api.Group("")
	authed.Use(middleware.JWT(authSvc))
	{
		authed.GET("/time-sheets/current", sheetHandler.CurrentWeek)
		authed.PUT("/time-sheets/current", sheetHandler.SaveWeek)
		authed.DELETE("/time-sheets/current", sheetHandler.ResetWeek)
		authed.GET("/time-sheets/current/export", exportHandler.Week)
		authed.GET("/time-sheets", sheetHandler.List)
		authed.GET("/time-sheets/:id", sheetHandler.Get)
		authed.PUT("/time-sheets/:id/status", sheetHandler.UpdateStatus)
		authed.DELETE("/time-sheets/:id", sheetHandler.Delete)

		authed.GET("/time-entries", entryHandler.List)
		authed.POST("/time-entries", entryHandler.Create)
		authed.PUT("/time-entries/:id", entryHandler.Update)
		authed.DELETE("/time-entries/:id", entryHandler.Delete)

		authed.POST("/time-sheets/:id/submit", approvalHandler.Submit)
		authed.POST("/time-sheets/:id/approve", approvalHandler.Approve)
		authed.POST("/time-sheets/:id/reject", approvalHandler.Reject)
		authed.GET("/time-sheets/:id/approvals", approvalHandler.History)
		authed.GET("/time-sheets/:id/status", approvalHandler.Status)
		authed.GET("/approvals/pending", approvalHandler.Pending)
		authed.GET("/approvals/all", approvalHandler.All)

		authed.GET("/supervisors/collaborator/:collaboratorId", supervisorHandler.Supervisors)
		authed.GET("/supervisors/collaborators", supervisorHandler.Collaborators)
		authed.GET("/supervisors/check/:collaboratorId", supervisorHandler.Check)

		authed.GET("/missions", catalogHandler.Missions)
		authed.GET("/internal-activities", catalogHandler.Activities)
	}

	admin := api.Group("")
	admin.Use(middleware.JWT(authSvc), middleware.RequireRoles(models.RoleAdmin))
	{
		admin.GET("/approvals/submitted", approvalHandler.AllSubmitted)
		admin.POST("/supervisors", supervisorHandler.Create)
		admin.DELETE("/supervisors/:collaboratorId/:supervisorId", supervisorHandler.Delete)
		admin.GET("/supervisors/all", supervisorHandler.All)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
