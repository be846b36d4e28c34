package main

import (
	"context"
	"fmt"
	"time"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"

	"taskhive/internal/analytics"
	"taskhive/internal/caching"
	"taskhive/internal/common"
	"taskhive/internal/config"
	"taskhive/internal/handlers"
	"taskhive/internal/metrics"
	"taskhive/internal/middleware"
	"taskhive/internal/models"
	"taskhive/internal/repositories"
	"taskhive/internal/services"
	"taskhive/pkg/database"
	"taskhive/pkg/logger"
	"taskhive/pkg/validator"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	pool, err := database.NewPool(context.Background(), cfg.DB.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()

	cache := caching.NewRedisCacheService(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)

	// Repositories
	tenantRepo := repositories.NewTenantRepo(pool)
	userRepo := repositories.NewUserRepo(pool)
	projectRepo := repositories.NewProjectRepo(pool)
	taskRepo := repositories.NewTaskRepo(pool)
	auditRepo := repositories.NewAuditLogsRepo(pool)

	// Services
	authService := services.NewAuthService(pool, userRepo, tenantRepo, cfg.JWT.Secret, cfg.JWT.TTL)
	tenantService := services.NewTenantService(pool, tenantRepo, userRepo)
	userService := services.NewUserService(userRepo, tenantRepo)
	projectService := services.NewProjectService(projectRepo, tenantRepo)
	taskService := services.NewTaskService(taskRepo, projectRepo)
	analyticsService := analytics.NewService(tenantRepo, userRepo, projectRepo, taskRepo)

	// Handlers
	authHandlers := handlers.NewAuthHandlers(authService)
	tenantHandlers := handlers.NewTenantHandlers(tenantService)
	userHandlers := handlers.NewUserHandlers(userService)
	projectHandlers := handlers.NewProjectHandlers(projectService)
	taskHandlers := handlers.NewTaskHandlers(taskService)
	dashboardHandlers := handlers.NewDashboardHandlers(analyticsService)
	auditHandlers := handlers.NewAuditHandlers(auditRepo)
	healthHandlers := handlers.NewHealthHandlers(pool, cache)

	e := echo.New()
	e.HideBanner = true
	e.Validator = validator.New()
	e.HTTPErrorHandler = common.HTTPErrorHandler

	e.Pre(echoMiddleware.RemoveTrailingSlash())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.RequestID())
	e.Use(echoMiddleware.CORS())

	httpMetrics := metrics.NewHTTPMetrics(cfg.App.Name)
	e.Use(httpMetrics.Middleware())
	e.GET("/metrics", httpMetrics.Handler())

	audit := middleware.NewAuditMiddleware(auditRepo)

	api := e.Group("/api")

	api.GET("/health", healthHandlers.Live)
	api.GET("/health/ready", healthHandlers.Ready)

	// Public auth surface. Login is rate limited per route and client IP.
	api.POST("/auth/register-tenant", authHandlers.RegisterTenant)
	api.POST("/auth/login", authHandlers.Login, middleware.RateLimit(cache, 10, time.Minute))

	// Everything below requires a verified token.
	protected := api.Group("", middleware.JWT(cfg.JWT.Secret), middleware.RequirePrincipal, audit.Record())

	protected.GET("/auth/me", authHandlers.Me)

	protected.GET("/dashboard/stats", dashboardHandlers.Stats)

	protected.GET("/tenants", tenantHandlers.List, middleware.RequireRoles(models.RoleSuperAdmin))
	protected.POST("/tenants", tenantHandlers.Create, middleware.RequireRoles(models.RoleSuperAdmin))
	protected.POST("/tenants/approve-upgrade", tenantHandlers.ApproveUpgrade, middleware.RequireRoles(models.RoleSuperAdmin))
	protected.PATCH("/tenants/upgrade", tenantHandlers.RequestUpgrade, middleware.RequireRoles(models.RoleTenantAdmin))

	protected.GET("/users", userHandlers.List, middleware.RequireRoles(models.RoleTenantAdmin, models.RoleSuperAdmin))
	protected.POST("/users", userHandlers.Create, middleware.RequireRoles(models.RoleTenantAdmin))
	protected.DELETE("/users/:id", userHandlers.Delete, middleware.RequireRoles(models.RoleTenantAdmin))

	protected.GET("/audit-logs", auditHandlers.List, middleware.RequireRoles(models.RoleTenantAdmin))

	protected.GET("/projects", projectHandlers.List)
	protected.POST("/projects", projectHandlers.Create)
	protected.PUT("/projects/:id", projectHandlers.Update)
	protected.DELETE("/projects/:id", projectHandlers.Delete)

	protected.GET("/projects/:projectId/tasks", taskHandlers.ListByProject)
	protected.POST("/projects/:projectId/tasks", taskHandlers.Create)
	protected.PATCH("/tasks/:id/status", taskHandlers.UpdateStatus)
	protected.DELETE("/tasks/:id", taskHandlers.Delete)

	addr := fmt.Sprintf(":%d", cfg.App.Port)
	log.Info().Str("addr", addr).Str("env", cfg.App.Env).Msg("starting server")
	if err := e.Start(addr); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
