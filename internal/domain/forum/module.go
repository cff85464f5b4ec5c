package forum

import (
	"forum_hub/internal/domain/forum/handler"
	"forum_hub/internal/domain/forum/repository"
	"forum_hub/internal/domain/forum/service"
	"forum_hub/internal/pkg/middleware"
	"forum_hub/internal/pkg/registry"

	"github.com/gin-gonic/gin"
)

// ForumModule 论坛模块（主题 + 评论）
type ForumModule struct{}

func init() {
	registry.Register(&ForumModule{})
}

func (m *ForumModule) Name() string {
	return "forum"
}

func (m *ForumModule) Priority() int {
	return 10
}

func (m *ForumModule) Init(ctx *registry.ModuleContext) error {
	topicRepo := repository.NewTopicRepository(ctx.DB)
	commentRepo := repository.NewCommentRepository(ctx.DB)
	forumService := service.NewForumService(topicRepo, commentRepo, ctx.Cache)
	forumHandler := handler.NewForumHandler(forumService)

	setupRoutes(ctx.Router, forumHandler)
	return nil
}

func setupRoutes(r *gin.Engine, h *handler.ForumHandler) {
	// 公开读路径
	r.GET("/topics", h.GetTopics)
	r.GET("/topics/:id", h.GetTopic)
	r.GET("/topics/:id/comments", h.GetComments)

	// 需要登录的写路径
	authed := r.Group("/")
	authed.Use(middleware.AuthMiddleware())
	{
		authed.POST("/topics", h.CreateTopic)
		authed.DELETE("/topics/:id", h.DeleteTopic)
		authed.POST("/topics/:id/comments", h.CreateComment)
		authed.DELETE("/comments/:id", h.DeleteComment)
	}
}
