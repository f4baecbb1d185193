package main

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/noah-isme/class-performance-api/internal/handler"
	"github.com/noah-isme/class-performance-api/internal/middleware"
	"github.com/noah-isme/class-performance-api/internal/models"
	"github.com/noah-isme/class-performance-api/internal/service"
	"github.com/noah-isme/class-performance-api/pkg/config"
	"github.com/noah-isme/class-performance-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/class-performance-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/class-performance-api/pkg/middleware/requestid"
)

type routerDeps struct {
	auth        middleware.TokenValidator
	metrics     *service.MetricsService
	performance *handler.PerformanceHandler
	ops         *handler.MetricsHandler
}

func newRouter(cfg *config.Config, logr *zap.Logger, deps routerDeps) *gin.Engine {
	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(deps.metrics))

	r.GET("/health", deps.ops.Health)
	r.GET("/ready", deps.ops.Ready)
	r.GET("/metrics", deps.ops.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	staff := []models.UserRole{models.RoleProfessor, models.RoleAdmin, models.RoleSuperAdmin}

	api := r.Group(cfg.APIPrefix)
	api.Use(middleware.WithResponseMeta(), middleware.JWT(deps.auth))

	subjects := api.Group("/subjects/:subjectCode")
	subjects.GET("/ranking", middleware.RequireRoles(staff...), deps.performance.Ranking)
	subjects.GET("/ranking/export", middleware.RequireRoles(staff...), deps.performance.ExportRanking)
	subjects.GET("/performers", middleware.RequireRoles(staff...), deps.performance.Performers)
	subjects.GET("/activities/summary", middleware.RequireRoles(staff...), deps.performance.ActivitySummary)
	subjects.GET("/overview", middleware.RequireRoles(staff...), deps.performance.Overview)
	subjects.GET("/students/:studentId/insight", middleware.RequireRolesOrSelf("studentId", staff...), deps.performance.StudentInsight)
	subjects.POST("/refresh", middleware.RequireRoles(staff...), deps.performance.Refresh)

	api.GET("/ops/metrics", middleware.RequireRoles(models.RoleAdmin, models.RoleSuperAdmin), deps.ops.Snapshot)

	return r
}
