package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"forum_hub/internal/pkg/config"
	"forum_hub/internal/pkg/middleware"
	"forum_hub/internal/pkg/registry"
	"forum_hub/pkg/cache"
	"forum_hub/pkg/database"
	"forum_hub/pkg/logger"

	// 各业务模块通过 init() 自注册
	_ "forum_hub/internal/domain/admin"
	_ "forum_hub/internal/domain/common"
	_ "forum_hub/internal/domain/forum"
	_ "forum_hub/internal/domain/notification"
	_ "forum_hub/internal/domain/reputation"
	_ "forum_hub/internal/domain/user"

	// swagger 文档
	_ "forum_hub/docs"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// @title Forum Hub API
// @version 1.0
// @description 社区论坛后端：主题、评论、投票、声望、勋章、通知
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	config.LoadConfig()

	if err := logger.InitLogger(config.GlobalConfig.Server.Mode); err != nil {
		panic(err)
	}
	defer logger.Sync()

	db := database.InitDatabase()
	rdb := database.InitRedis()

	// 配置了集群节点时走集群缓存，否则用单机客户端
	var cacheService cache.CacheService
	if nodes := config.GlobalConfig.Redis.ClusterNodes; len(nodes) > 0 {
		cs, err := cache.NewClusterCache(nodes, config.GlobalConfig.Redis.Password)
		if err != nil {
			logger.Log.Fatal("init cluster cache failed", zap.Error(err))
		}
		cacheService = cs
	} else {
		cacheService = cache.NewRedisCache(rdb)
	}

	gin.SetMode(func() string {
		if config.GlobalConfig.Server.Mode == "release" {
			return gin.ReleaseMode
		}
		return gin.DebugMode
	}())

	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.TraceMiddleware(),
		middleware.LoggerMiddleware(),
		middleware.MetricsMiddleware(),
		middleware.RateLimitMiddleware(),
		cors.Default(),
	)

	// 运维端点
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// 初始化业务模块
	moduleCtx := &registry.ModuleContext{
		DB:     db,
		Redis:  rdb,
		Cache:  cacheService,
		Router: router,
	}
	if err := registry.InitModules(moduleCtx); err != nil {
		logger.Log.Fatal("init modules failed", zap.Error(err))
	}

	srv := &http.Server{
		Addr:         ":" + config.GlobalConfig.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Second * 15,
		WriteTimeout: time.Second * 15,
	}

	go func() {
		logger.Log.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal("server error", zap.Error(err))
		}
	}()

	// 优雅停机
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Info("shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("server forced to shutdown", zap.Error(err))
	}
	logger.Log.Info("server exited")
}
