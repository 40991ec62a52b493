package specification

import (
	"testing"

	"ai-storyboard-be/internal/model"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func dryRun(t *testing.T) *gorm.DB {
	t.Helper()
	sqlDB, _, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db.Session(&gorm.Session{DryRun: true})
}

func render(t *testing.T, specs ...Specification) string {
	t.Helper()
	db := dryRun(t).Model(&model.StoryboardScene{})
	for _, s := range specs {
		db = s.Apply(db)
	}
	var out []model.StoryboardScene
	stmt := db.Find(&out).Statement
	return stmt.SQL.String()
}

func TestOrderByQuotesColumn(t *testing.T) {
	sql := render(t, OrderBy{Field: "created_at", Desc: true})
	assert.Contains(t, sql, `ORDER BY "created_at" DESC`)

	sql = render(t, OrderBy{Field: "created_at"})
	assert.Contains(t, sql, `ORDER BY "created_at"`)
	assert.NotContains(t, sql, "DESC")
}

func TestPaginationZeroLimitIsUnbounded(t *testing.T) {
	assert.NotContains(t, render(t, Pagination{}), "LIMIT")
	assert.Contains(t, render(t, Pagination{Limit: 20, Offset: 40}), "LIMIT")
}

func TestFiltersCompose(t *testing.T) {
	sql := render(t,
		ByConversationID{ConversationID: uuid.New()},
		ByStatus{Status: "generating"},
	)
	assert.Contains(t, sql, "conversation_id = $1")
	assert.Contains(t, sql, "status = $2")
}
