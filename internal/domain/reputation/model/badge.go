package model

import (
	"time"

	"forum_hub/pkg/model"
)

// 勋章条件类型
const (
	CriteriaReputation    = "reputation"
	CriteriaTopics        = "topics"
	CriteriaComments      = "comments"
	CriteriaVotesReceived = "votes_received"
	CriteriaAccountAge    = "account_age_days"
)

// 勋章等级
const (
	TierBronze   = "bronze"
	TierSilver   = "silver"
	TierGold     = "gold"
	TierPlatinum = "platinum"
)

// Badge 勋章目录项，不可变，由迁移脚本预置
type Badge struct {
	model.BaseModel
	Name          string `gorm:"size:100;not null" json:"name"`
	Description   string `gorm:"size:500" json:"description"`
	Tier          string `gorm:"size:16;not null" json:"tier"`
	CriteriaType  string `gorm:"size:32;not null" json:"criteriaType"`
	CriteriaValue int    `gorm:"not null" json:"criteriaValue"`
}

func (Badge) TableName() string {
	return "badges"
}

// UserBadge 用户持有的勋章，只增不减：达标即授予，之后指标回落也不收回
type UserBadge struct {
	UserID    string    `gorm:"type:uuid;primaryKey" json:"userId"`
	BadgeID   string    `gorm:"type:uuid;primaryKey" json:"badgeId"`
	AwardedAt time.Time `gorm:"not null" json:"awardedAt"`
}

func (UserBadge) TableName() string {
	return "user_badges"
}
