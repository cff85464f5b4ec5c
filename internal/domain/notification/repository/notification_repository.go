package repository

import (
	"forum_hub/internal/domain/notification/model"

	"gorm.io/gorm"
)

// NotificationRepository 通知仓库接口
type NotificationRepository interface {
	Create(n *model.Notification) error
	GetByID(id string) (*model.Notification, error)
	GetList(userID string, onlyUnread bool, offset, limit int) ([]model.Notification, int64, error)
	CountUnread(userID string) (int64, error)
	MarkRead(userID, id string) error
	MarkAllRead(userID string) error
}

type notificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository 创建通知仓库
func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(n *model.Notification) error {
	return r.db.Create(n).Error
}

func (r *notificationRepository) GetByID(id string) (*model.Notification, error) {
	var n model.Notification
	if err := r.db.Where("id = ?", id).First(&n).Error; err != nil {
		return nil, err
	}
	return &n, nil
}

// GetList 获取通知列表（分页，可选只看未读）
func (r *notificationRepository) GetList(userID string, onlyUnread bool, offset, limit int) ([]model.Notification, int64, error) {
	var list []model.Notification
	var total int64

	query := r.db.Model(&model.Notification{}).Where("user_id = ?", userID)
	if onlyUnread {
		query = query.Where("is_read = ?", false)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Order("created_at desc").Offset(offset).Limit(limit).Find(&list).Error; err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (r *notificationRepository) CountUnread(userID string) (int64, error) {
	var count int64
	err := r.db.Model(&model.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	return count, err
}

// MarkRead 标记单条已读（带 user_id 条件，防止越权）
func (r *notificationRepository) MarkRead(userID, id string) error {
	return r.db.Model(&model.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("is_read", true).Error
}

func (r *notificationRepository) MarkAllRead(userID string) error {
	return r.db.Model(&model.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true).Error
}
