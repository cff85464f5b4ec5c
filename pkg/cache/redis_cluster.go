package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"forum_hub/internal/pkg/config"

	"github.com/go-redis/redis/v8"
)

// ClusterCache Redis 集群缓存实现
// 集群部署时使用 (config.Redis.ClusterNodes 非空)，接口与单机实现一致
type ClusterCache struct {
	cluster *redis.ClusterClient
	prefix  string
}

// NewClusterCache 创建集群缓存服务
func NewClusterCache(nodes []string, password string) (CacheService, error) {
	cluster := redis.NewClusterClient(&redis.ClusterOptions{
		Addrs:        nodes,
		Password:     password,
		MaxRetries:   3,
		PoolSize:     50,
		MinIdleConns: 10,
		DialTimeout:  time.Second * 5,
		ReadTimeout:  time.Second * 3,
		WriteTimeout: time.Second * 3,
	})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()
	if err := cluster.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis cluster: %w", err)
	}

	prefix := "forum_hub:"
	if config.GlobalConfig.Server.Mode == "test" {
		prefix = "test:" + prefix
	}

	log.Printf("Redis cluster cache initialized with %d nodes", len(nodes))
	return &ClusterCache{cluster: cluster, prefix: prefix}, nil
}

func (c *ClusterCache) getKey(key string) string {
	return c.prefix + key
}

// Get 获取缓存
func (c *ClusterCache) Get(ctx context.Context, key string, dest interface{}) error {
	val, err := c.cluster.Get(ctx, c.getKey(key)).Result()
	if err != nil {
		if err == redis.Nil {
			return ErrCacheMiss
		}
		return fmt.Errorf("cache get error: %w", err)
	}

	if err := json.Unmarshal([]byte(val), dest); err != nil {
		return fmt.Errorf("cache unmarshal error: %w", err)
	}
	return nil
}

// Set 设置缓存
func (c *ClusterCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache marshal error: %w", err)
	}
	if err := c.cluster.Set(ctx, c.getKey(key), data, expiration).Err(); err != nil {
		return fmt.Errorf("cache set error: %w", err)
	}
	return nil
}

// Delete 删除缓存
func (c *ClusterCache) Delete(ctx context.Context, key string) error {
	return c.cluster.Del(ctx, c.getKey(key)).Err()
}

// Exists 检查缓存是否存在
func (c *ClusterCache) Exists(ctx context.Context, key string) (bool, error) {
	result, err := c.cluster.Exists(ctx, c.getKey(key)).Result()
	return result > 0, err
}

// InvalidatePattern 按模式批量失效缓存
// 集群模式下需要对每个主节点执行 SCAN
func (c *ClusterCache) InvalidatePattern(ctx context.Context, pattern string) error {
	fullPattern := c.getKey(pattern)

	return c.cluster.ForEachMaster(ctx, func(ctx context.Context, client *redis.Client) error {
		var cursor uint64
		for {
			keys, next, err := client.Scan(ctx, cursor, fullPattern, 100).Result()
			if err != nil {
				return fmt.Errorf("cache scan error: %w", err)
			}
			for _, key := range keys {
				if err := client.Del(ctx, key).Err(); err != nil {
					return fmt.Errorf("cache delete error: %w", err)
				}
			}
			cursor = next
			if cursor == 0 {
				return nil
			}
		}
	})
}
