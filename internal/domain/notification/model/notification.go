package model

import "forum_hub/pkg/model"

// 通知类型
const (
	TypeCommentReply = "comment_reply"
	TypeTopicReply   = "topic_reply"
	TypeMention      = "mention"
	TypeUpvote       = "upvote"
	TypeBadgeEarned  = "badge_earned"
	TypeSystem       = "system"
	TypeModeration   = "moderation"
)

// Notification 站内通知
type Notification struct {
	model.BaseModel
	UserID   string `gorm:"type:uuid;index;not null" json:"userId"`
	Type     string `gorm:"size:32;not null" json:"type"`
	Title    string `gorm:"size:200" json:"title"`
	Content  string `gorm:"type:text" json:"content"`
	SourceID string `gorm:"type:uuid" json:"sourceId"` // 关联的主题/评论/徽章ID
	IsRead   bool   `gorm:"default:false;index" json:"isRead"`
}

func (Notification) TableName() string {
	return "notifications"
}
