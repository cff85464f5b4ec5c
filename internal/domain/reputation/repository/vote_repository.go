package repository

import (
	"time"

	forummodel "forum_hub/internal/domain/forum/model"
	"forum_hub/internal/domain/reputation/model"
	usermodel "forum_hub/internal/domain/user/model"

	"gorm.io/gorm"
)

// VoteCounts 某作者收到的分类型票数（已排除自投票）
type VoteCounts struct {
	TopicUpvotes     int `gorm:"column:topic_upvotes"`
	TopicDownvotes   int `gorm:"column:topic_downvotes"`
	CommentUpvotes   int `gorm:"column:comment_upvotes"`
	CommentDownvotes int `gorm:"column:comment_downvotes"`
}

// VoteRepository 投票仓库接口
// 聚合值永远从投票表整体重算，仓库层不提供任何自增/自减入口
type VoteRepository interface {
	GetByKey(userID, targetType, targetID string) (*model.Vote, error)
	Create(vote *model.Vote) error
	UpdateDirection(voteID string, voteType int) error
	Delete(vote *model.Vote) error
	CountByTarget(targetType, targetID string) (upvotes, downvotes int, err error)
	WriteTally(targetType, targetID string, upvotes, downvotes, score int) error
	CountVotesReceived(authorID string) (*VoteCounts, error)
	UpdateUserReputation(userID string, reputation, votesReceived int) error
	GetLeaderboard(offset, limit int) ([]usermodel.User, error)
}

type voteRepository struct {
	db *gorm.DB
}

// NewVoteRepository 创建投票仓库
func NewVoteRepository(db *gorm.DB) VoteRepository {
	return &voteRepository{db: db}
}

// GetByKey 按 (用户, 目标) 查找现存投票
func (r *voteRepository) GetByKey(userID, targetType, targetID string) (*model.Vote, error) {
	var vote model.Vote
	err := r.db.Where("user_id = ? AND target_type = ? AND target_id = ?",
		userID, targetType, targetID).First(&vote).Error
	if err != nil {
		return nil, err
	}
	return &vote, nil
}

func (r *voteRepository) Create(vote *model.Vote) error {
	return r.db.Create(vote).Error
}

// UpdateDirection 原地改投票方向
func (r *voteRepository) UpdateDirection(voteID string, voteType int) error {
	return r.db.Model(&model.Vote{}).Where("id = ?", voteID).Updates(map[string]interface{}{
		"vote_type":  voteType,
		"updated_at": time.Now(),
	}).Error
}

func (r *voteRepository) Delete(vote *model.Vote) error {
	return r.db.Delete(vote).Error
}

// CountByTarget 统计单个目标的赞/踩票数
func (r *voteRepository) CountByTarget(targetType, targetID string) (int, int, error) {
	type row struct {
		VoteType int
		Count    int
	}
	var rows []row
	err := r.db.Model(&model.Vote{}).
		Select("vote_type, count(*) as count").
		Where("target_type = ? AND target_id = ?", targetType, targetID).
		Group("vote_type").
		Scan(&rows).Error
	if err != nil {
		return 0, 0, err
	}

	var up, down int
	for _, r := range rows {
		switch r.VoteType {
		case model.VoteUp:
			up = r.Count
		case model.VoteDown:
			down = r.Count
		}
	}
	return up, down, nil
}

// WriteTally 把重算结果一次性写回目标实体的缓存字段
func (r *voteRepository) WriteTally(targetType, targetID string, upvotes, downvotes, score int) error {
	values := map[string]interface{}{
		"upvotes":    upvotes,
		"downvotes":  downvotes,
		"vote_score": score,
	}

	switch targetType {
	case model.TargetTopic:
		return r.db.Model(&forummodel.Topic{}).Where("id = ?", targetID).Updates(values).Error
	case model.TargetComment:
		return r.db.Model(&forummodel.Comment{}).Where("id = ?", targetID).Updates(values).Error
	default:
		return gorm.ErrRecordNotFound
	}
}

// CountVotesReceived 统计作者内容收到的分类型票数，排除作者自己投的票
// 软删除的内容不计入
func (r *voteRepository) CountVotesReceived(authorID string) (*VoteCounts, error) {
	var counts VoteCounts
	err := r.db.Raw(`
		SELECT
			COALESCE(SUM(CASE WHEN v.target_type = 'topic'   AND v.vote_type = 1  THEN 1 ELSE 0 END), 0) AS topic_upvotes,
			COALESCE(SUM(CASE WHEN v.target_type = 'topic'   AND v.vote_type = -1 THEN 1 ELSE 0 END), 0) AS topic_downvotes,
			COALESCE(SUM(CASE WHEN v.target_type = 'comment' AND v.vote_type = 1  THEN 1 ELSE 0 END), 0) AS comment_upvotes,
			COALESCE(SUM(CASE WHEN v.target_type = 'comment' AND v.vote_type = -1 THEN 1 ELSE 0 END), 0) AS comment_downvotes
		FROM votes v
		WHERE v.user_id <> ?
		  AND (
			(v.target_type = 'topic' AND v.target_id IN (
				SELECT id FROM topics WHERE author_id = ? AND deleted_at IS NULL))
			OR
			(v.target_type = 'comment' AND v.target_id IN (
				SELECT id FROM comments WHERE author_id = ? AND deleted_at IS NULL))
		  )`,
		authorID, authorID, authorID).Scan(&counts).Error
	if err != nil {
		return nil, err
	}
	return &counts, nil
}

// UpdateUserReputation 写回用户的声望与获赞数
func (r *voteRepository) UpdateUserReputation(userID string, reputation, votesReceived int) error {
	return r.db.Model(&usermodel.User{}).Where("id = ?", userID).Updates(map[string]interface{}{
		"reputation":     reputation,
		"votes_received": votesReceived,
	}).Error
}

// GetLeaderboard 声望排行榜：只收录声望为正的用户，
// 按声望降序，获赞数降序决胜
func (r *voteRepository) GetLeaderboard(offset, limit int) ([]usermodel.User, error) {
	var users []usermodel.User
	err := r.db.Where("reputation > 0").
		Order("reputation DESC, votes_received DESC").
		Offset(offset).Limit(limit).
		Find(&users).Error
	return users, err
}
