package repository

import (
	"time"

	"forum_hub/internal/domain/reputation/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BadgeRepository 勋章仓库接口
type BadgeRepository interface {
	ListBadges() ([]model.Badge, error)
	GetByID(id string) (*model.Badge, error)
	GetUserBadges(userID string) ([]model.Badge, error)
	GetHeldBadgeIDs(userID string) (map[string]bool, error)
	Award(userID, badgeID string, at time.Time) (bool, error)
}

type badgeRepository struct {
	db *gorm.DB
}

// NewBadgeRepository 创建勋章仓库
func NewBadgeRepository(db *gorm.DB) BadgeRepository {
	return &badgeRepository{db: db}
}

func (r *badgeRepository) ListBadges() ([]model.Badge, error) {
	var badges []model.Badge
	err := r.db.Order("criteria_type, criteria_value").Find(&badges).Error
	return badges, err
}

func (r *badgeRepository) GetByID(id string) (*model.Badge, error) {
	var badge model.Badge
	if err := r.db.Where("id = ?", id).First(&badge).Error; err != nil {
		return nil, err
	}
	return &badge, nil
}

// GetUserBadges 获取用户持有的勋章（按授予时间倒序）
func (r *badgeRepository) GetUserBadges(userID string) ([]model.Badge, error) {
	var badges []model.Badge
	err := r.db.
		Joins("JOIN user_badges ub ON ub.badge_id = badges.id").
		Where("ub.user_id = ?", userID).
		Order("ub.awarded_at DESC").
		Find(&badges).Error
	return badges, err
}

func (r *badgeRepository) GetHeldBadgeIDs(userID string) (map[string]bool, error) {
	var ids []string
	err := r.db.Model(&model.UserBadge{}).
		Where("user_id = ?", userID).
		Pluck("badge_id", &ids).Error
	if err != nil {
		return nil, err
	}

	held := make(map[string]bool, len(ids))
	for _, id := range ids {
		held[id] = true
	}
	return held, nil
}

// Award 授予勋章，存在即忽略（insert-if-absent）
// 返回本次是否真正插入了新行
func (r *badgeRepository) Award(userID, badgeID string, at time.Time) (bool, error) {
	result := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "badge_id"}},
		DoNothing: true,
	}).Create(&model.UserBadge{
		UserID:    userID,
		BadgeID:   badgeID,
		AwardedAt: at,
	})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
