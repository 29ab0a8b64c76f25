package services

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/huangang/codebook/backend/internal/models"
	"github.com/huangang/codebook/backend/pkg/logger"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const logCleanupLock = "system_log_cleanup"

var globalDB *gorm.DB

func InitSystemLogger(db *gorm.DB) {
	globalDB = db
}

func LogInfo(module, action, message string, userID *uint, ip, userAgent string, extra interface{}) {
	writeLog("info", module, action, message, userID, ip, userAgent, extra)
}

func LogWarning(module, action, message string, userID *uint, ip, userAgent string, extra interface{}) {
	writeLog("warning", module, action, message, userID, ip, userAgent, extra)
}

func LogError(module, action, message string, userID *uint, ip, userAgent string, extra interface{}) {
	writeLog("error", module, action, message, userID, ip, userAgent, extra)
}

func writeLog(level, module, action, message string, userID *uint, ip, userAgent string, extra interface{}) {
	if globalDB == nil {
		return
	}

	var extraStr string
	if extra != nil {
		if b, err := json.Marshal(extra); err == nil {
			extraStr = string(b)
		}
	}

	entry := &models.SystemLog{
		Level:     level,
		Module:    module,
		Action:    action,
		Message:   message,
		UserID:    userID,
		IP:        ip,
		UserAgent: userAgent,
		Extra:     extraStr,
		CreatedAt: time.Now(),
	}
	if err := globalDB.Create(entry).Error; err != nil {
		logger.Warn().Err(err).Str("module", module).Msg("[SystemLog] failed to write log")
	}
}

type SystemLogService struct {
	db *gorm.DB
}

func NewSystemLogService(db *gorm.DB) *SystemLogService {
	return &SystemLogService{db: db}
}

type SystemLogListRequest struct {
	Page      int    `form:"page" binding:"omitempty,min=1"`
	PageSize  int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	Level     string `form:"level"`
	Module    string `form:"module"`
	Action    string `form:"action"`
	StartDate string `form:"start_date"`
	EndDate   string `form:"end_date"`
	Search    string `form:"search"`
}

func (s *SystemLogService) List(req *SystemLogListRequest) ([]models.SystemLog, int64, error) {
	if req.Page == 0 {
		req.Page = 1
	}
	if req.PageSize == 0 {
		req.PageSize = 20
	}

	var logs []models.SystemLog
	var total int64

	query := s.db.Model(&models.SystemLog{})

	if req.Level != "" {
		query = query.Where("level = ?", req.Level)
	}
	if req.Module != "" {
		query = query.Where("module = ?", req.Module)
	}
	if req.Action != "" {
		query = query.Where("action LIKE ?", "%"+req.Action+"%")
	}
	if req.StartDate != "" {
		query = query.Where("created_at >= ?", req.StartDate)
	}
	if req.EndDate != "" {
		query = query.Where("created_at <= ?", req.EndDate+" 23:59:59")
	}
	if req.Search != "" {
		query = query.Where("message LIKE ?", "%"+req.Search+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (req.Page - 1) * req.PageSize
	if err := query.Offset(offset).Limit(req.PageSize).Order("created_at DESC, id DESC").Find(&logs).Error; err != nil {
		return nil, 0, err
	}

	return logs, total, nil
}

func (s *SystemLogService) GetModules() ([]string, error) {
	var modules []string
	if err := s.db.Model(&models.SystemLog{}).Distinct("module").Pluck("module", &modules).Error; err != nil {
		return nil, err
	}
	return modules, nil
}

// CleanupOldLogs deletes logs older than retentionDays and returns the number removed.
func (s *SystemLogService) CleanupOldLogs(retentionDays int) (int64, error) {
	if retentionDays <= 0 {
		return 0, nil
	}

	cutoffTime := time.Now().AddDate(0, 0, -retentionDays)
	result := s.db.Where("created_at < ?", cutoffTime).Delete(&models.SystemLog{})
	if result.Error != nil {
		return 0, result.Error
	}

	return result.RowsAffected, nil
}

// LogCleanupScheduler prunes system_logs once a day.
type LogCleanupScheduler struct {
	db            *gorm.DB
	instanceID    string
	service       *SystemLogService
	retentionDays int
	cronScheduler *cron.Cron
}

func NewLogCleanupScheduler(db *gorm.DB, retentionDays int) *LogCleanupScheduler {
	return &LogCleanupScheduler{
		db:            db,
		instanceID:    uuid.New().String(),
		service:       NewSystemLogService(db),
		retentionDays: retentionDays,
	}
}

// Start runs one cleanup immediately, then daily at 03:30.
func (s *LogCleanupScheduler) Start() error {
	s.cronScheduler = cron.New()
	if _, err := s.cronScheduler.AddFunc("30 3 * * *", s.run); err != nil {
		return err
	}
	s.run()
	s.cronScheduler.Start()
	logger.Infof("[SystemLog] Cleanup scheduler started (retention %d days)", s.retentionDays)
	return nil
}

func (s *LogCleanupScheduler) Stop() {
	if s.cronScheduler != nil {
		<-s.cronScheduler.Stop().Done()
	}
}

func (s *LogCleanupScheduler) run() {
	if s.retentionDays <= 0 {
		logger.Infof("[SystemLog] Log cleanup disabled (retention_days <= 0)")
		return
	}
	claimed, err := s.claim(time.Now())
	if err != nil {
		logger.Errorf("[SystemLog] Failed to claim cleanup lock: %v", err)
		return
	}
	if !claimed {
		logger.Debug().Msg("[SystemLog] Cleanup already ran today on another instance")
		return
	}

	deleted, err := s.service.CleanupOldLogs(s.retentionDays)
	if err != nil {
		logger.Errorf("[SystemLog] Failed to cleanup old logs: %v", err)
		return
	}

	if deleted > 0 {
		logger.Infof("[SystemLog] Cleaned up %d logs older than %d days", deleted, s.retentionDays)
	}
}

// claim takes today's cleanup slot. It reports false when another instance
// (or an earlier run of this one) already holds it.
func (s *LogCleanupScheduler) claim(now time.Time) (bool, error) {
	lock := models.SchedulerLock{
		LockName:  logCleanupLock,
		LockKey:   now.Format("2006-01-02"),
		LockedBy:  s.instanceID,
		LockedAt:  now,
		ExpiresAt: now.Add(24 * time.Hour),
	}
	result := s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&lock)
	if result.Error != nil {
		return false, result.Error
	}
	if result.RowsAffected == 1 {
		s.db.Where("lock_name = ? AND expires_at < ?", logCleanupLock, now.Add(-7*24*time.Hour)).
			Delete(&models.SchedulerLock{})
	}
	return result.RowsAffected == 1, nil
}
