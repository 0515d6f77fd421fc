package database

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/evalplatform/evalreport/internal/model"
)

func initTestDB(t *testing.T) {
	t.Helper()
	ResetForTesting()
	require.NoError(t, InitWithPath(filepath.Join(t.TempDir(), "nested", "test.db")))
	t.Cleanup(ResetForTesting)
}

func TestSQLiteOptimizations(t *testing.T) {
	initTestDB(t)
	db := Get()

	var journalMode string
	require.NoError(t, db.Raw("PRAGMA journal_mode").Scan(&journalMode).Error)
	assert.Equal(t, "wal", journalMode)

	var synchronous int
	require.NoError(t, db.Raw("PRAGMA synchronous").Scan(&synchronous).Error)
	assert.Equal(t, 1, synchronous)

	var busyTimeout int
	require.NoError(t, db.Raw("PRAGMA busy_timeout").Scan(&busyTimeout).Error)
	assert.Equal(t, busyTimeoutMS, busyTimeout)

	var foreignKeys int
	require.NoError(t, db.Raw("PRAGMA foreign_keys").Scan(&foreignKeys).Error)
	assert.Equal(t, 1, foreignKeys)
}

func TestInitWithPath_CreatesSchema(t *testing.T) {
	initTestDB(t)

	assert.True(t, Get().Migrator().HasTable(&model.SavedReport{}))
	assert.NoError(t, HealthCheck())
}

func TestInitWithPath_OnlyOnce(t *testing.T) {
	initTestDB(t)
	first := Get()

	require.NoError(t, InitWithPath(filepath.Join(t.TempDir(), "other.db")))
	assert.Same(t, first, Get())
}

func TestGet_PanicsBeforeInit(t *testing.T) {
	ResetForTesting()
	assert.Panics(t, func() { Get() })
	assert.Error(t, HealthCheck())
	assert.NoError(t, Close())
}

func TestBackfillReportKinds(t *testing.T) {
	initTestDB(t)
	db := Get()

	now := time.Now()
	insert := "INSERT INTO saved_reports (id, created_at, updated_at, title, kind, schema_version, results) VALUES (?, ?, ?, ?, ?, ?, ?)"
	require.NoError(t, db.Exec(insert, "legacyrow00000000000", now, now, "old", "", 0,
		`{"general":{"summary":{"total_responses":1}},"by_group":null}`).Error)
	require.NoError(t, db.Exec(insert, "multirow000000000000", now, now, "old multi", "", 0,
		`{"questions":[]}`).Error)
	require.NoError(t, db.Exec(insert, "taggedrow00000000000", now, now, "new", "multi", 2,
		`{"questions":[]}`).Error)

	fixed, err := backfillReportKinds(db)
	require.NoError(t, err)
	assert.Equal(t, 2, fixed)

	var legacy, multi, tagged model.SavedReport
	require.NoError(t, db.First(&legacy, "id = ?", "legacyrow00000000000").Error)
	require.NoError(t, db.First(&multi, "id = ?", "multirow000000000000").Error)
	require.NoError(t, db.First(&tagged, "id = ?", "taggedrow00000000000").Error)

	assert.Equal(t, model.KindLegacy, legacy.Kind)
	assert.Equal(t, model.SchemaVersionUntagged, legacy.SchemaVersion)
	assert.Equal(t, model.KindMulti, multi.Kind)
	assert.Equal(t, model.SchemaVersionCurrent, tagged.SchemaVersion)

	fixed, err = backfillReportKinds(db)
	require.NoError(t, err)
	assert.Zero(t, fixed)
}

func TestTransaction(t *testing.T) {
	initTestDB(t)

	err := Transaction(func(tx *gorm.DB) error {
		return tx.Create(&model.SavedReport{ID: "txrow000000000000000", Title: "t", Kind: model.KindLegacy}).Error
	})
	require.NoError(t, err)

	var count int64
	require.NoError(t, Get().Model(&model.SavedReport{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}
