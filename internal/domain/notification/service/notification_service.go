package service

import (
	"forum_hub/internal/domain/notification/model"
	"forum_hub/internal/domain/notification/repository"
	"forum_hub/internal/pkg/push"
	"forum_hub/pkg/logger"

	"go.uber.org/zap"
)

// NotificationService 通知服务接口
type NotificationService interface {
	Create(userID, ntype, title, content, sourceID string) error
	GetList(userID string, onlyUnread bool, page, limit int) ([]model.Notification, int64, error)
	UnreadCount(userID string) (int64, error)
	MarkRead(userID, id string) error
	MarkAllRead(userID string) error
}

type notificationService struct {
	repo repository.NotificationRepository
}

// NewNotificationService 创建通知服务
func NewNotificationService(repo repository.NotificationRepository) NotificationService {
	return &notificationService{repo: repo}
}

// Create 落库站内信，并尽力而为地触发移动端推送
func (s *notificationService) Create(userID, ntype, title, content, sourceID string) error {
	n := &model.Notification{
		UserID:   userID,
		Type:     ntype,
		Title:    title,
		Content:  content,
		SourceID: sourceID,
	}
	if err := s.repo.Create(n); err != nil {
		return err
	}

	// 推送失败只记日志，不影响站内信
	if push.GlobalPushService != nil {
		if err := push.GlobalPushService.PushToAccount(userID, title, content, map[string]string{
			"type":     ntype,
			"sourceId": sourceID,
		}); err != nil {
			logger.Log.Warn("push notification failed",
				zap.String("userID", userID),
				zap.String("type", ntype),
				zap.Error(err))
		}
	}
	return nil
}

func (s *notificationService) GetList(userID string, onlyUnread bool, page, limit int) ([]model.Notification, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	return s.repo.GetList(userID, onlyUnread, (page-1)*limit, limit)
}

func (s *notificationService) UnreadCount(userID string) (int64, error) {
	return s.repo.CountUnread(userID)
}

func (s *notificationService) MarkRead(userID, id string) error {
	return s.repo.MarkRead(userID, id)
}

func (s *notificationService) MarkAllRead(userID string) error {
	return s.repo.MarkAllRead(userID)
}

// defaultService 供其他模块发通知使用，在模块 Init 时设置
var defaultService NotificationService

// SetDefault 设置全局通知服务
func SetDefault(s NotificationService) {
	defaultService = s
}

// Notify 发送通知的全局入口，尽力而为：服务未就绪或落库失败只记日志
func Notify(userID, ntype, title, content, sourceID string) {
	if defaultService == nil || userID == "" {
		return
	}
	if err := defaultService.Create(userID, ntype, title, content, sourceID); err != nil {
		logger.Log.Warn("create notification failed",
			zap.String("userID", userID),
			zap.String("type", ntype),
			zap.Error(err))
	}
}
