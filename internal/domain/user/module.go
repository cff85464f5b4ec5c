package user

import (
	"forum_hub/internal/domain/user/handler"
	"forum_hub/internal/domain/user/repository"
	"forum_hub/internal/domain/user/service"
	"forum_hub/internal/pkg/middleware"
	"forum_hub/internal/pkg/registry"

	"github.com/gin-gonic/gin"
)

// UserModule 用户模块
type UserModule struct{}

func init() {
	// 自动注册模块
	registry.Register(&UserModule{})
}

func (m *UserModule) Name() string {
	return "user"
}

func (m *UserModule) Priority() int {
	// 用户模块优先级最高，因为其他模块依赖它
	return 1
}

func (m *UserModule) Init(ctx *registry.ModuleContext) error {
	// 1. 依赖注入
	userRepo := repository.NewUserRepository(ctx.DB)
	userService := service.NewCachedUserService(userRepo, ctx.Cache)
	userHandler := handler.NewUserHandler(userService)

	// 2. 路由注册
	setupRoutes(ctx.Router, userHandler)

	return nil
}

func setupRoutes(r *gin.Engine, h *handler.UserHandler) {
	// 公开路由
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/register", h.Register)
		authGroup.POST("/login", h.Login)
	}

	// 公开的用户查询
	r.GET("/users/:id", h.GetUser)

	// 受保护的路由
	userGroup := r.Group("/users")
	userGroup.Use(middleware.AuthMiddleware())
	{
		userGroup.GET("", h.GetUsers)
		userGroup.PUT("/me", h.UpdateProfile)
		userGroup.DELETE("/me", h.DeleteUser)
	}
}
