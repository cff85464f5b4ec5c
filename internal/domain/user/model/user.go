package model

import (
	"time"

	baseModel "forum_hub/pkg/model"
)

// 用户角色
const (
	RoleUser  = 0
	RoleAdmin = 1
)

// 用户状态
const (
	StatusNormal  = 0
	StatusBanned  = 1
	StatusDeleted = 2
)

// User 用户模型
// Reputation 和 VotesReceived 是派生字段：由投票表全量重算写入，禁止增量修改
type User struct {
	baseModel.BaseModel
	Username     string     `gorm:"unique" json:"username"`
	Email        string     `gorm:"unique" json:"email"`
	PasswordHash string     `json:"-"` // 密码哈希不返回给前端
	DisplayName  string     `json:"displayName"`
	Bio          string     `json:"bio"`
	AvatarURL    string     `json:"avatarUrl"`
	Role         int        `gorm:"default:0" json:"role"`
	Status       int        `gorm:"default:0" json:"status"`
	BannedUntil  *time.Time `json:"bannedUntil,omitempty"`

	// 声望派生字段 (由 reputation 模块重算维护)
	Reputation    int `gorm:"default:0" json:"reputation"`
	VotesReceived int `gorm:"default:0" json:"votesReceived"`

	LastLoginAt *time.Time `json:"lastLoginAt,omitempty"`
}
