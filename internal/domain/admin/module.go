package admin

import (
	"fmt"

	"forum_hub/internal/domain/admin/handler"
	"forum_hub/internal/domain/admin/repository"
	"forum_hub/internal/domain/admin/service"
	userrepo "forum_hub/internal/domain/user/repository"
	"forum_hub/internal/pkg/middleware"
	"forum_hub/internal/pkg/registry"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
)

// AdminModule 管理后台模块
type AdminModule struct{}

func init() {
	registry.Register(&AdminModule{})
}

func (m *AdminModule) Name() string {
	return "admin"
}

func (m *AdminModule) Priority() int {
	return 40
}

func (m *AdminModule) Init(ctx *registry.ModuleContext) error {
	// 统计走原生 SQL，复用 gorm 底层的连接池
	sqlDB, err := ctx.DB.DB()
	if err != nil {
		return fmt.Errorf("get sql.DB for stats: %w", err)
	}

	statsRepo := repository.NewStatsRepository(sqlx.NewDb(sqlDB, "postgres"))
	svc := service.NewAdminService(statsRepo, userrepo.NewUserRepository(ctx.DB), ctx.Cache)
	h := handler.NewAdminHandler(svc)

	setupRoutes(ctx.Router, h)
	return nil
}

func setupRoutes(r *gin.Engine, h *handler.AdminHandler) {
	group := r.Group("/admin")
	group.Use(middleware.AuthMiddleware(), middleware.AdminMiddleware())
	{
		group.GET("/stats", h.GetStats)
		group.PUT("/users/:id/ban", h.BanUser)
		group.PUT("/users/:id/unban", h.UnbanUser)
	}
}
