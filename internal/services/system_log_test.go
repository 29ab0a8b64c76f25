package services

import (
	"testing"
	"time"

	"github.com/huangang/codebook/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newLogDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(&models.SystemLog{}, &models.SchedulerLock{}))
	return db
}

func TestSystemLog_WriteAndList(t *testing.T) {
	db := newLogDB(t)
	InitSystemLogger(db)
	t.Cleanup(func() { InitSystemLogger(nil) })

	uid := uint(7)
	LogInfo("Projects", "Create", "created", &uid, "127.0.0.1", "test", map[string]interface{}{"id": 1})
	LogError("Reviews", "Create", "failed", nil, "", "", nil)

	svc := NewSystemLogService(db)
	logs, total, err := svc.List(&SystemLogListRequest{Module: "Projects"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, logs, 1)
	assert.Equal(t, "info", logs[0].Level)
	assert.JSONEq(t, `{"id":1}`, logs[0].Extra)

	modules, err := svc.GetModules()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Projects", "Reviews"}, modules)
}

func TestSystemLog_CleanupOldLogs(t *testing.T) {
	db := newLogDB(t)
	svc := NewSystemLogService(db)

	require.NoError(t, db.Create(&models.SystemLog{Level: "info", Module: "old", CreatedAt: time.Now().AddDate(0, 0, -40)}).Error)
	require.NoError(t, db.Create(&models.SystemLog{Level: "info", Module: "new", CreatedAt: time.Now()}).Error)

	deleted, err := svc.CleanupOldLogs(0)
	require.NoError(t, err)
	assert.Zero(t, deleted)

	deleted, err = svc.CleanupOldLogs(30)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)
}

func TestLogCleanupScheduler_StartStop(t *testing.T) {
	db := newLogDB(t)
	require.NoError(t, db.Create(&models.SystemLog{Level: "info", Module: "old", CreatedAt: time.Now().AddDate(0, 0, -10)}).Error)

	scheduler := NewLogCleanupScheduler(db, 5)
	require.NoError(t, scheduler.Start())
	scheduler.Stop()

	var count int64
	require.NoError(t, db.Model(&models.SystemLog{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestLogCleanupScheduler_OneClaimPerDay(t *testing.T) {
	db := newLogDB(t)
	first := NewLogCleanupScheduler(db, 5)
	second := NewLogCleanupScheduler(db, 5)
	now := time.Now()

	claimed, err := first.claim(now)
	require.NoError(t, err)
	assert.True(t, claimed)

	claimed, err = second.claim(now)
	require.NoError(t, err)
	assert.False(t, claimed, "another instance already ran today")

	claimed, err = second.claim(now.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.True(t, claimed)
}
