package model

import "forum_hub/pkg/model"

// Comment 评论，支持嵌套回复
// 投票计数字段与 Topic 同为缓存，只能整体重算
type Comment struct {
	model.BaseModel
	TopicID   string  `gorm:"type:uuid;index;not null" json:"topicId"`
	AuthorID  string  `gorm:"type:uuid;index;not null" json:"authorId"`
	Body      string  `gorm:"type:text;not null" json:"body"`
	ParentID  *string `gorm:"type:uuid" json:"parentId,omitempty"` // 直接回复的评论
	RootID    *string `gorm:"type:uuid;index" json:"rootId,omitempty"`
	Level     int     `gorm:"default:0" json:"level"`
	Upvotes   int     `gorm:"default:0" json:"upvotes"`
	Downvotes int     `gorm:"default:0" json:"downvotes"`
	VoteScore int     `gorm:"default:0" json:"voteScore"`
}

func (Comment) TableName() string {
	return "comments"
}
