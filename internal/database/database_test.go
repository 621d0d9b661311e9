package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"

	"github.com/quicky-ai/quicky-core/internal/config"
	"github.com/quicky-ai/quicky-core/internal/models"
)

func TestConnectTestingProfile(t *testing.T) {
	db, err := Connect(config.Default(config.EnvTesting), true)
	require.NoError(t, err)
	t.Cleanup(func() { Close(db) })

	require.NoError(t, Ping(context.Background(), db))

	tables, err := Tables(db)
	require.NoError(t, err)
	names := make([]string, 0, len(tables))
	for _, table := range tables {
		names = append(names, table.Name)
		assert.Positive(t, table.Columns)
	}
	assert.Equal(t, []string{"users", "summaries", "content_caches"}, names)
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := Open("oracle", "", logger.Silent)
	assert.Error(t, err)
}

func TestDropAllAndRecreate(t *testing.T) {
	db, err := OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { Close(db) })

	require.NoError(t, db.Create(&models.UserModel{Email: "a@example.com"}).Error)
	require.NoError(t, DropAll(db))

	tables, err := Tables(db)
	require.NoError(t, err)
	assert.Empty(t, tables)

	require.NoError(t, Migrate(db))
	var count int64
	require.NoError(t, db.Model(&models.UserModel{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestSummaryHashFormatUnique(t *testing.T) {
	db, err := OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { Close(db) })

	row := models.SummaryModel{
		SessionID: "s", ContentType: "paragraph", ContentSource: "x",
		SummaryFormat: "bullets", SummaryText: "t", ContentHash: "h",
	}
	require.NoError(t, db.Create(&row).Error)

	dup := row
	dup.ID = 0
	assert.Error(t, db.Create(&dup).Error)

	other := row
	other.ID = 0
	other.SummaryFormat = "notes"
	assert.NoError(t, db.Create(&other).Error)
}
