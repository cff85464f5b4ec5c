package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"forum_hub/internal/domain/forum/model"
	"forum_hub/internal/domain/forum/repository"
	notifmodel "forum_hub/internal/domain/notification/model"
	notifsvc "forum_hub/internal/domain/notification/service"
	usermodel "forum_hub/internal/domain/user/model"
	"forum_hub/pkg/cache"
	"forum_hub/pkg/logger"
	"forum_hub/pkg/security"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// 服务层错误
var (
	ErrTopicNotFound   = errors.New("topic not found")
	ErrCommentNotFound = errors.New("comment not found")
	ErrNoPermission    = errors.New("no permission")
)

// 缓存键
const (
	TopicCacheKeyPrefix = "topic:"
	TopicCacheTTL       = time.Minute * 10
)

// ForumService 论坛服务接口
type ForumService interface {
	CreateTopic(authorID, title, body, category string) (*model.Topic, error)
	GetTopics(category string, page, limit int) ([]model.Topic, int64, error)
	GetTopic(id string) (*model.Topic, error)
	DeleteTopic(operatorID string, role int, topicID string) error
	CreateComment(authorID, topicID, body string, parentID *string) (*model.Comment, error)
	GetComments(topicID string, page, limit int) ([]model.Comment, int64, error)
	DeleteComment(operatorID string, role int, commentID string) error
}

type forumService struct {
	topicRepo   repository.TopicRepository
	commentRepo repository.CommentRepository
	cache       cache.CacheService
}

// NewForumService 创建论坛服务
func NewForumService(topicRepo repository.TopicRepository, commentRepo repository.CommentRepository, c cache.CacheService) ForumService {
	return &forumService{
		topicRepo:   topicRepo,
		commentRepo: commentRepo,
		cache:       c,
	}
}

func topicCacheKey(id string) string {
	return fmt.Sprintf("%s%s", TopicCacheKeyPrefix, id)
}

// CreateTopic 发布主题
func (s *forumService) CreateTopic(authorID, title, body, category string) (*model.Topic, error) {
	if err := security.TopicTitleValidator.Validate(title); err != nil {
		return nil, fmt.Errorf("invalid title: %w", err)
	}
	if err := security.TopicBodyValidator.Validate(body); err != nil {
		return nil, fmt.Errorf("invalid body: %w", err)
	}

	topic := &model.Topic{
		Title:    security.TopicTitleValidator.Sanitize(title),
		Body:     security.TopicBodyValidator.Sanitize(body),
		Category: category,
		AuthorID: authorID,
	}

	if err := s.topicRepo.Create(topic); err != nil {
		return nil, err
	}
	return topic, nil
}

// GetTopics 获取主题列表
func (s *forumService) GetTopics(category string, page, limit int) ([]model.Topic, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	return s.topicRepo.GetList(category, (page-1)*limit, limit)
}

// GetTopic 获取主题详情（缓存优先），并自增浏览数
func (s *forumService) GetTopic(id string) (*model.Topic, error) {
	ctx := context.Background()
	key := topicCacheKey(id)

	// 浏览数自增不走缓存，失败不影响读取
	defer func() {
		if err := s.topicRepo.IncrementViewCount(id); err != nil {
			logger.Log.Warn("increment view count failed", zap.String("topicID", id), zap.Error(err))
		}
	}()

	var cached model.Topic
	if err := s.cache.Get(ctx, key, &cached); err == nil {
		return &cached, nil
	}

	topic, err := s.topicRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTopicNotFound
		}
		return nil, err
	}

	_ = s.cache.Set(ctx, key, topic, TopicCacheTTL)
	return topic, nil
}

// DeleteTopic 删除主题（作者本人或管理员）
func (s *forumService) DeleteTopic(operatorID string, role int, topicID string) error {
	topic, err := s.topicRepo.GetByID(topicID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTopicNotFound
		}
		return err
	}

	if topic.AuthorID != operatorID && role != usermodel.RoleAdmin {
		return ErrNoPermission
	}

	if err := s.topicRepo.Delete(topic); err != nil {
		return err
	}

	_ = s.cache.Delete(context.Background(), topicCacheKey(topicID))

	// 管理员删他人内容时通知作者
	if operatorID != topic.AuthorID {
		notifsvc.Notify(topic.AuthorID, notifmodel.TypeModeration,
			"你的主题已被移除", topic.Title, topic.ID)
	}
	return nil
}

// CreateComment 发表评论，支持嵌套回复
func (s *forumService) CreateComment(authorID, topicID, body string, parentID *string) (*model.Comment, error) {
	if err := security.CommentBodyValidator.Validate(body); err != nil {
		return nil, fmt.Errorf("invalid body: %w", err)
	}

	topic, err := s.topicRepo.GetByID(topicID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTopicNotFound
		}
		return nil, err
	}

	comment := &model.Comment{
		TopicID:  topicID,
		AuthorID: authorID,
		Body:     security.CommentBodyValidator.Sanitize(body),
	}

	var parent *model.Comment
	if parentID != nil && *parentID != "" {
		parent, err = s.commentRepo.GetByID(*parentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrCommentNotFound
			}
			return nil, err
		}
		if parent.TopicID != topicID {
			return nil, ErrCommentNotFound
		}

		comment.ParentID = parentID
		comment.Level = parent.Level + 1
		if parent.RootID != nil {
			comment.RootID = parent.RootID
		} else {
			comment.RootID = &parent.ID
		}
	}

	if err := s.commentRepo.Create(comment); err != nil {
		return nil, err
	}

	// 评论数重算写回，失败不影响评论本身
	s.refreshCommentCount(topicID)

	// 回复通知：回复评论通知被回复人，否则通知楼主；不给自己发
	if parent != nil && parent.AuthorID != authorID {
		notifsvc.Notify(parent.AuthorID, notifmodel.TypeCommentReply,
			"你的评论收到了新回复", comment.Body, comment.ID)
	} else if parent == nil && topic.AuthorID != authorID {
		notifsvc.Notify(topic.AuthorID, notifmodel.TypeTopicReply,
			"你的主题收到了新回复", comment.Body, comment.ID)
	}

	return comment, nil
}

// GetComments 获取评论列表
func (s *forumService) GetComments(topicID string, page, limit int) ([]model.Comment, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	return s.commentRepo.GetListByTopic(topicID, (page-1)*limit, limit)
}

// DeleteComment 删除评论（作者本人或管理员）
func (s *forumService) DeleteComment(operatorID string, role int, commentID string) error {
	comment, err := s.commentRepo.GetByID(commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCommentNotFound
		}
		return err
	}

	if comment.AuthorID != operatorID && role != usermodel.RoleAdmin {
		return ErrNoPermission
	}

	if err := s.commentRepo.Delete(comment); err != nil {
		return err
	}

	s.refreshCommentCount(comment.TopicID)

	if operatorID != comment.AuthorID {
		notifsvc.Notify(comment.AuthorID, notifmodel.TypeModeration,
			"你的评论已被移除", comment.Body, comment.ID)
	}
	return nil
}

// refreshCommentCount 从评论表重算主题评论数并写回，同时失效主题缓存
func (s *forumService) refreshCommentCount(topicID string) {
	count, err := s.commentRepo.CountByTopic(topicID)
	if err != nil {
		logger.Log.Warn("count comments failed", zap.String("topicID", topicID), zap.Error(err))
		return
	}
	if err := s.topicRepo.UpdateCommentCount(topicID, count); err != nil {
		logger.Log.Warn("update comment count failed", zap.String("topicID", topicID), zap.Error(err))
	}
	_ = s.cache.Delete(context.Background(), topicCacheKey(topicID))
}
