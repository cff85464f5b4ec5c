package middleware

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"forum_hub/internal/pkg/config"
	"forum_hub/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// VoteRateLimitMiddleware 投票频率限制中间件
// 使用 Redis 固定窗口计数器，按用户维度限制投票频率。
// 投票核心逻辑本身不做限流，由这一层调用方统一控制。
func VoteRateLimitMiddleware(rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("userID")
		if !exists {
			// 未认证请求交给后续的认证中间件处理
			c.Next()
			return
		}

		cfg := config.GlobalConfig.VoteLimit
		window := time.Duration(cfg.WindowSeconds) * time.Second
		key := fmt.Sprintf("votelimit:%v", userID)

		ctx := context.Background()

		// INCR + 首次设置过期时间，保证窗口滚动
		count, err := rdb.Incr(ctx, key).Result()
		if err != nil {
			// Redis 故障时放行，不阻塞投票主流程
			c.Next()
			return
		}
		if count == 1 {
			rdb.Expire(ctx, key, window)
		}

		if count > int64(cfg.MaxPerWindow) {
			response.Error(c, http.StatusTooManyRequests, response.ErrTooManyRequests,
				"Vote rate limit exceeded, please slow down")
			c.Abort()
			return
		}

		c.Next()
	}
}
