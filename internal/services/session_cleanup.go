package services

import (
	"fmt"
	"time"

	"marlex/internal/models"
	"marlex/pkg/config"
	apperrors "marlex/pkg/errors"
	"marlex/pkg/logger"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// SessionCleanupService 会话清理调度器。周期性地把过了绝对
// 有效期或超过不活跃窗口的会话批量置为无效。清理是幂等的，
// 可与正常请求校验并发执行：校验每次都回读会话行。
type SessionCleanupService struct {
	db          *gorm.DB
	cron        *cron.Cron
	idleTimeout time.Duration
	spec        string
	running     bool
}

// NewSessionCleanupService 创建会话清理调度器
func NewSessionCleanupService(db *gorm.DB) *SessionCleanupService {
	cfg := config.GetConfig()
	return &SessionCleanupService{
		db:          db,
		cron:        cron.New(),
		idleTimeout: cfg.Session.IdleTimeout,
		spec:        cfg.Session.CleanupCron,
	}
}

// Start 启动调度器
func (s *SessionCleanupService) Start() error {
	if s.running {
		return fmt.Errorf("会话清理调度器已经在运行")
	}

	_, err := s.cron.AddFunc(s.spec, func() {
		count, err := s.Sweep()
		if err != nil {
			logger.GetLogger().Errorf("会话清理失败: %v", err)
			return
		}
		if count > 0 {
			logger.GetLogger().Infof("会话清理完成，本次清理 %d 个会话", count)
		}
	})
	if err != nil {
		return fmt.Errorf("无效的清理调度表达式 %q: %v", s.spec, err)
	}

	s.cron.Start()
	s.running = true
	logger.GetLogger().Infof("会话清理调度器启动成功，调度表达式: %s", s.spec)
	return nil
}

// Stop 停止调度器
func (s *SessionCleanupService) Stop() {
	if !s.running {
		return
	}
	s.cron.Stop()
	s.running = false
	logger.GetLogger().Info("会话清理调度器已停止")
}

// Sweep 执行一次清理，返回受影响的会话数。单条批量UPDATE，幂等。
func (s *SessionCleanupService) Sweep() (int64, error) {
	now := time.Now()
	idleBefore := now.Add(-s.idleTimeout)

	result := s.db.Model(&models.Session{}).
		Where("valid = ? AND (expires_at < ? OR last_activity_at < ?)", true, now, idleBefore).
		UpdateColumn("valid", false)
	if result.Error != nil {
		return 0, apperrors.Wrap(apperrors.KindInternal, "会话清理失败", result.Error)
	}

	return result.RowsAffected, nil
}
