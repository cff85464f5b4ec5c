package reputation

import (
	forumrepo "forum_hub/internal/domain/forum/repository"
	"forum_hub/internal/domain/reputation/handler"
	"forum_hub/internal/domain/reputation/repository"
	"forum_hub/internal/domain/reputation/service"
	userrepo "forum_hub/internal/domain/user/repository"
	"forum_hub/internal/pkg/middleware"
	"forum_hub/internal/pkg/registry"
	"forum_hub/internal/pkg/worker"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// ReputationModule 投票与声望模块
type ReputationModule struct{}

func init() {
	registry.Register(&ReputationModule{})
}

func (m *ReputationModule) Name() string {
	return "reputation"
}

func (m *ReputationModule) Priority() int {
	return 20
}

func (m *ReputationModule) Init(ctx *registry.ModuleContext) error {
	voteRepo := repository.NewVoteRepository(ctx.DB)
	badgeRepo := repository.NewBadgeRepository(ctx.DB)

	svc := service.NewReputationService(
		voteRepo,
		badgeRepo,
		userrepo.NewUserRepository(ctx.DB),
		forumrepo.NewTopicRepository(ctx.DB),
		forumrepo.NewCommentRepository(ctx.DB),
		ctx.Cache,
	)

	// 异步修复队列：投票主流程里聚合更新失败的任务由它兜底重算
	pool := worker.NewWorkerPool(recomputerAdapter{svc}, 4, 256)
	pool.Start()
	svc.SetWorkerPool(pool)

	h := handler.NewReputationHandler(svc)
	setupRoutes(ctx.Router, ctx.Redis, h)
	return nil
}

// recomputerAdapter 把服务的重算方法适配成 worker 需要的签名
type recomputerAdapter struct {
	svc service.ReputationService
}

func (a recomputerAdapter) RecomputeTally(targetType, targetID string) error {
	_, err := a.svc.RecomputeTally(targetType, targetID)
	return err
}

func (a recomputerAdapter) RecomputeReputation(userID string) error {
	_, err := a.svc.RecomputeReputation(userID)
	return err
}

func setupRoutes(r *gin.Engine, rdb *redis.Client, h *handler.ReputationHandler) {
	// 公开读路径
	r.GET("/leaderboard", h.GetLeaderboard)
	r.GET("/badges", h.ListBadges)
	r.GET("/users/:id/badges", h.GetUserBadges)

	// 匿名可读的"我投过没有"，未登录时返回 0
	r.GET("/vote", middleware.OptionalAuthMiddleware(), h.GetUserVote)

	// 投票写路径：认证 + Redis 固定窗口限流
	r.POST("/vote",
		middleware.AuthMiddleware(),
		middleware.VoteRateLimitMiddleware(rdb),
		h.CastVote)
}
