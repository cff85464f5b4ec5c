package notification

import (
	"forum_hub/internal/domain/notification/handler"
	"forum_hub/internal/domain/notification/repository"
	"forum_hub/internal/domain/notification/service"
	"forum_hub/internal/pkg/middleware"
	"forum_hub/internal/pkg/registry"

	"github.com/gin-gonic/gin"
)

// NotificationModule 通知模块
type NotificationModule struct{}

func init() {
	registry.Register(&NotificationModule{})
}

func (m *NotificationModule) Name() string {
	return "notification"
}

func (m *NotificationModule) Priority() int {
	return 30
}

func (m *NotificationModule) Init(ctx *registry.ModuleContext) error {
	repo := repository.NewNotificationRepository(ctx.DB)
	svc := service.NewNotificationService(repo)
	h := handler.NewNotificationHandler(svc)

	// 其他模块通过 service.Notify 发通知
	service.SetDefault(svc)

	setupRoutes(ctx.Router, h)
	return nil
}

func setupRoutes(r *gin.Engine, h *handler.NotificationHandler) {
	group := r.Group("/notifications")
	group.Use(middleware.AuthMiddleware())
	{
		group.GET("", h.GetNotifications)
		group.GET("/unread_count", h.GetUnreadCount)
		group.PUT("/:id/read", h.MarkRead)
		group.PUT("/read_all", h.MarkAllRead)
	}
}
