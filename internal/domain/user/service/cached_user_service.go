package service

import (
	"context"
	"fmt"
	"time"

	"forum_hub/internal/domain/user/model"
	"forum_hub/internal/domain/user/repository"
	"forum_hub/pkg/cache"
)

// CachedUserService 带缓存的用户服务
// 写路径委托给基础实现，读路径走 Redis 缓存
type CachedUserService struct {
	UserService
	repo  repository.UserRepository
	cache cache.CacheService
}

// NewCachedUserService 创建带缓存的用户服务
func NewCachedUserService(repo repository.UserRepository, c cache.CacheService) UserService {
	return &CachedUserService{
		UserService: NewUserService(repo),
		repo:        repo,
		cache:       c,
	}
}

// 缓存键常量
const (
	UserCacheKeyPrefix = "user:"
	UserCacheTTL       = time.Hour * 2
)

// getUserCacheKey 获取用户缓存键
func (s *CachedUserService) getUserCacheKey(id string) string {
	return fmt.Sprintf("%s%s", UserCacheKeyPrefix, id)
}

// GetUser 获取单个用户（缓存优先）
func (s *CachedUserService) GetUser(id string) (*model.User, error) {
	ctx := context.Background()
	key := s.getUserCacheKey(id)

	var cached model.User
	if err := s.cache.Get(ctx, key, &cached); err == nil {
		return &cached, nil
	}

	user, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}

	// 回填缓存，失败不影响主流程
	_ = s.cache.Set(ctx, key, user, UserCacheTTL)

	return user, nil
}

// UpdateProfile 更新用户资料并失效缓存
func (s *CachedUserService) UpdateProfile(id string, displayName, bio, avatarURL string) (*model.User, error) {
	user, err := s.UserService.UpdateProfile(id, displayName, bio, avatarURL)
	if err != nil {
		return nil, err
	}

	_ = s.cache.Delete(context.Background(), s.getUserCacheKey(id))
	return user, nil
}

// DeleteUser 删除用户并失效缓存
func (s *CachedUserService) DeleteUser(id string) error {
	if err := s.UserService.DeleteUser(id); err != nil {
		return err
	}
	_ = s.cache.Delete(context.Background(), s.getUserCacheKey(id))
	return nil
}
