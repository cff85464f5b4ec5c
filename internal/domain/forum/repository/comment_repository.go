package repository

import (
	"forum_hub/internal/domain/forum/model"

	"gorm.io/gorm"
)

// CommentRepository 评论仓库接口
type CommentRepository interface {
	Create(comment *model.Comment) error
	GetByID(id string) (*model.Comment, error)
	GetListByTopic(topicID string, offset, limit int) ([]model.Comment, int64, error)
	Delete(comment *model.Comment) error
	CountByTopic(topicID string) (int64, error)
	CountByAuthor(authorID string) (int64, error)
}

type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository 创建评论仓库
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(comment *model.Comment) error {
	return r.db.Create(comment).Error
}

func (r *commentRepository) GetByID(id string) (*model.Comment, error) {
	var comment model.Comment
	if err := r.db.Where("id = ?", id).First(&comment).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// GetListByTopic 获取主题下的评论（按时间正序）
func (r *commentRepository) GetListByTopic(topicID string, offset, limit int) ([]model.Comment, int64, error) {
	var comments []model.Comment
	var total int64

	query := r.db.Model(&model.Comment{}).Where("topic_id = ?", topicID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Order("created_at asc").Offset(offset).Limit(limit).Find(&comments).Error; err != nil {
		return nil, 0, err
	}
	return comments, total, nil
}

func (r *commentRepository) Delete(comment *model.Comment) error {
	return r.db.Delete(comment).Error
}

func (r *commentRepository) CountByTopic(topicID string) (int64, error) {
	var count int64
	err := r.db.Model(&model.Comment{}).Where("topic_id = ?", topicID).Count(&count).Error
	return count, err
}

func (r *commentRepository) CountByAuthor(authorID string) (int64, error) {
	var count int64
	err := r.db.Model(&model.Comment{}).Where("author_id = ?", authorID).Count(&count).Error
	return count, err
}
