package model

import "forum_hub/pkg/model"

// Topic 主题帖
// Upvotes/Downvotes/VoteScore 是投票表聚合结果的缓存字段，
// 只能由声望模块整体重算写入，禁止增减
type Topic struct {
	model.BaseModel
	Title        string `gorm:"size:200;not null" json:"title"`
	Body         string `gorm:"type:text;not null" json:"body"`
	Category     string `gorm:"size:50;index" json:"category"`
	AuthorID     string `gorm:"type:uuid;index;not null" json:"authorId"`
	Upvotes      int    `gorm:"default:0" json:"upvotes"`
	Downvotes    int    `gorm:"default:0" json:"downvotes"`
	VoteScore    int    `gorm:"default:0" json:"voteScore"`
	ViewCount    int64  `gorm:"default:0" json:"viewCount"`
	CommentCount int64  `gorm:"default:0" json:"commentCount"`
}

func (Topic) TableName() string {
	return "topics"
}
