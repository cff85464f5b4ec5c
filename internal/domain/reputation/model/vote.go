package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// 投票目标类型
const (
	TargetTopic   = "topic"
	TargetComment = "comment"
)

// 投票方向
const (
	VoteUp   = 1
	VoteDown = -1
)

// 声望权重：每收到一票对作者声望的贡献
const (
	WeightTopicUpvote     = 10
	WeightTopicDownvote   = -2
	WeightCommentUpvote   = 5
	WeightCommentDownvote = -1
)

// Vote 投票记录
// 每个 (用户, 目标) 最多一行：首次投票创建，换方向原地更新，
// 同方向再投即取消（物理删除该行，不走软删除，否则唯一索引会挡住重投）。
// 投票表是所有聚合值的唯一事实来源。
type Vote struct {
	ID         string    `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	UserID     string    `gorm:"type:uuid;not null;uniqueIndex:idx_vote_key" json:"userId"`
	TargetType string    `gorm:"size:16;not null;uniqueIndex:idx_vote_key" json:"targetType"`
	TargetID   string    `gorm:"type:uuid;not null;uniqueIndex:idx_vote_key;index" json:"targetId"`
	VoteType   int       `gorm:"not null" json:"voteType"` // +1 / -1
	CreatedAt  time.Time `json:"castAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func (Vote) TableName() string {
	return "votes"
}

// BeforeCreate 钩子：生成 UUID
func (v *Vote) BeforeCreate(tx *gorm.DB) (err error) {
	if v.ID == "" {
		v.ID = uuid.New().String()
	}
	return
}

// IsValidTargetType 目标类型是否合法
func IsValidTargetType(t string) bool {
	return t == TargetTopic || t == TargetComment
}

// IsValidVoteType 投票方向是否合法
func IsValidVoteType(v int) bool {
	return v == VoteUp || v == VoteDown
}
