package repository

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetOverview(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewStatsRepository(sqlx.NewDb(db, "sqlmock"))

	mock.ExpectQuery("SELECT").WillReturnRows(
		sqlmock.NewRows([]string{
			"total_users", "active_users", "total_topics",
			"total_comments", "total_votes", "badges_awarded",
		}).AddRow(100, 40, 25, 300, 520, 12))

	mock.ExpectQuery("SELECT category").WillReturnRows(
		sqlmock.NewRows([]string{"category", "count"}).
			AddRow("general", 10).
			AddRow("golang", 8))

	overview, err := repo.GetOverview()
	require.NoError(t, err)

	assert.Equal(t, int64(100), overview.TotalUsers)
	assert.Equal(t, int64(40), overview.ActiveUsers)
	assert.Equal(t, int64(520), overview.TotalVotes)
	assert.Equal(t, int64(12), overview.BadgesAwarded)
	require.Len(t, overview.TopCategories, 2)
	assert.Equal(t, "general", overview.TopCategories[0].Category)

	assert.NoError(t, mock.ExpectationsWereMet())
}
