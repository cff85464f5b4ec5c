package repository

import (
	"forum_hub/internal/domain/forum/model"

	"gorm.io/gorm"
)

// TopicRepository 主题仓库接口
type TopicRepository interface {
	Create(topic *model.Topic) error
	GetByID(id string) (*model.Topic, error)
	GetList(category string, offset, limit int) ([]model.Topic, int64, error)
	Delete(topic *model.Topic) error
	IncrementViewCount(id string) error
	UpdateCommentCount(id string, count int64) error
	CountByAuthor(authorID string) (int64, error)
}

type topicRepository struct {
	db *gorm.DB
}

// NewTopicRepository 创建主题仓库
func NewTopicRepository(db *gorm.DB) TopicRepository {
	return &topicRepository{db: db}
}

func (r *topicRepository) Create(topic *model.Topic) error {
	return r.db.Create(topic).Error
}

func (r *topicRepository) GetByID(id string) (*model.Topic, error) {
	var topic model.Topic
	if err := r.db.Where("id = ?", id).First(&topic).Error; err != nil {
		return nil, err
	}
	return &topic, nil
}

// GetList 获取主题列表（分页，可按分类过滤）
func (r *topicRepository) GetList(category string, offset, limit int) ([]model.Topic, int64, error) {
	var topics []model.Topic
	var total int64

	query := r.db.Model(&model.Topic{})
	if category != "" {
		query = query.Where("category = ?", category)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Order("created_at desc").Offset(offset).Limit(limit).Find(&topics).Error; err != nil {
		return nil, 0, err
	}
	return topics, total, nil
}

func (r *topicRepository) Delete(topic *model.Topic) error {
	return r.db.Delete(topic).Error
}

// IncrementViewCount 浏览数自增
// 浏览数不是投票缓存，允许原子自增
func (r *topicRepository) IncrementViewCount(id string) error {
	return r.db.Model(&model.Topic{}).Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + 1")).Error
}

// UpdateCommentCount 写回评论数（由评论表重算得出）
func (r *topicRepository) UpdateCommentCount(id string, count int64) error {
	return r.db.Model(&model.Topic{}).Where("id = ?", id).
		UpdateColumn("comment_count", count).Error
}

func (r *topicRepository) CountByAuthor(authorID string) (int64, error) {
	var count int64
	err := r.db.Model(&model.Topic{}).Where("author_id = ?", authorID).Count(&count).Error
	return count, err
}
