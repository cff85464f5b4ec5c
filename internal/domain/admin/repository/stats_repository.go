package repository

import (
	"github.com/jmoiron/sqlx"
)

// CategoryCount 分类下的主题数
type CategoryCount struct {
	Category string `db:"category" json:"category"`
	Count    int64  `db:"count" json:"count"`
}

// StatsOverview 管理后台总览数据
type StatsOverview struct {
	TotalUsers    int64           `db:"total_users" json:"totalUsers"`
	ActiveUsers   int64           `db:"active_users" json:"activeUsers"` // 声望为正的用户
	TotalTopics   int64           `db:"total_topics" json:"totalTopics"`
	TotalComments int64           `db:"total_comments" json:"totalComments"`
	TotalVotes    int64           `db:"total_votes" json:"totalVotes"`
	BadgesAwarded int64           `db:"badges_awarded" json:"badgesAwarded"`
	TopCategories []CategoryCount `json:"topCategories"`
}

// StatsRepository 统计仓库接口
// 统计是跨表的聚合快照，用原生 SQL 一次取齐，不走 ORM
type StatsRepository interface {
	GetOverview() (*StatsOverview, error)
}

type statsRepository struct {
	db *sqlx.DB
}

// NewStatsRepository 创建统计仓库
func NewStatsRepository(db *sqlx.DB) StatsRepository {
	return &statsRepository{db: db}
}

func (r *statsRepository) GetOverview() (*StatsOverview, error) {
	var overview StatsOverview

	err := r.db.Get(&overview, `
		SELECT
			(SELECT COUNT(*) FROM users WHERE deleted_at IS NULL)                        AS total_users,
			(SELECT COUNT(*) FROM users WHERE deleted_at IS NULL AND reputation > 0)     AS active_users,
			(SELECT COUNT(*) FROM topics WHERE deleted_at IS NULL)                       AS total_topics,
			(SELECT COUNT(*) FROM comments WHERE deleted_at IS NULL)                     AS total_comments,
			(SELECT COUNT(*) FROM votes)                                                 AS total_votes,
			(SELECT COUNT(*) FROM user_badges)                                           AS badges_awarded`)
	if err != nil {
		return nil, err
	}

	err = r.db.Select(&overview.TopCategories, `
		SELECT category, COUNT(*) AS count
		FROM topics
		WHERE deleted_at IS NULL AND category <> ''
		GROUP BY category
		ORDER BY count DESC
		LIMIT 10`)
	if err != nil {
		return nil, err
	}

	return &overview, nil
}
