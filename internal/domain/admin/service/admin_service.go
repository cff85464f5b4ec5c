package service

import (
	"context"
	"errors"
	"time"

	"forum_hub/internal/domain/admin/repository"
	notifmodel "forum_hub/internal/domain/notification/model"
	notifsvc "forum_hub/internal/domain/notification/service"
	usermodel "forum_hub/internal/domain/user/model"
	userrepo "forum_hub/internal/domain/user/repository"
	"forum_hub/pkg/cache"

	"gorm.io/gorm"
)

var ErrUserNotFound = errors.New("user not found")

// 统计缓存
const (
	StatsCacheKey = "admin:stats"
	StatsCacheTTL = time.Minute
)

// AdminService 管理后台服务接口
type AdminService interface {
	GetOverview() (*repository.StatsOverview, error)
	BanUser(userID string, days int, reason string) error
	UnbanUser(userID string) error
}

type adminService struct {
	statsRepo repository.StatsRepository
	userRepo  userrepo.UserRepository
	cache     cache.CacheService
}

// NewAdminService 创建管理后台服务
func NewAdminService(statsRepo repository.StatsRepository, userRepo userrepo.UserRepository, c cache.CacheService) AdminService {
	return &adminService{
		statsRepo: statsRepo,
		userRepo:  userRepo,
		cache:     c,
	}
}

// GetOverview 总览统计（短时缓存，聚合查询较重）
func (s *adminService) GetOverview() (*repository.StatsOverview, error) {
	ctx := context.Background()

	var cached repository.StatsOverview
	if err := s.cache.Get(ctx, StatsCacheKey, &cached); err == nil {
		return &cached, nil
	}

	overview, err := s.statsRepo.GetOverview()
	if err != nil {
		return nil, err
	}

	_ = s.cache.Set(ctx, StatsCacheKey, overview, StatsCacheTTL)
	return overview, nil
}

// BanUser 封禁用户
// days <= 0 表示永久封禁
func (s *adminService) BanUser(userID string, days int, reason string) error {
	if _, err := s.userRepo.GetByID(userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	var bannedUntil *time.Time
	if days > 0 {
		until := time.Now().AddDate(0, 0, days)
		bannedUntil = &until
	}

	if err := s.userRepo.UpdateStatus(userID, usermodel.StatusBanned, bannedUntil); err != nil {
		return err
	}

	notifsvc.Notify(userID, notifmodel.TypeModeration, "账号已被封禁", reason, "")
	return nil
}

// UnbanUser 解封用户
func (s *adminService) UnbanUser(userID string) error {
	if _, err := s.userRepo.GetByID(userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if err := s.userRepo.UpdateStatus(userID, usermodel.StatusNormal, nil); err != nil {
		return err
	}

	notifsvc.Notify(userID, notifmodel.TypeModeration, "账号已解封", "", "")
	return nil
}
