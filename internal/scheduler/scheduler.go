package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"tcms/internal/pkg/config"
)

const (
	jobSessionPurge      = "session_purge"
	defaultSessionPurge  = "0 0 * * * *" // 每小时整点
	sessionPurgeDeadline = time.Minute
)

// SessionPurger 清理已过期的吊销会话, AuthService 实现该接口
type SessionPurger interface {
	PurgeExpiredSessions(ctx context.Context) (int64, error)
}

// Scheduler 调度器
type Scheduler struct {
	cron          *cron.Cron
	logger        *zap.Logger
	purger        SessionPurger
	cronSchedules map[string]cron.EntryID // 存储任务ID，便于管理
}

// NewScheduler 创建调度器
func NewScheduler(purger SessionPurger, logger *zap.Logger) *Scheduler {
	// 创建 cron 实例（带秒级支持）
	return &Scheduler{
		cron:          cron.New(cron.WithSeconds()),
		logger:        logger,
		purger:        purger,
		cronSchedules: make(map[string]cron.EntryID),
	}
}

// Start 注册任务并启动调度器
func (s *Scheduler) Start(cfg *config.SchedulerConfig) error {
	log := s.logger.Sugar()

	if !cfg.Enabled {
		log.Info("定时任务调度器未启用")
		return nil
	}

	// cron 表达式格式: 秒 分 时 日 月 周
	cronExpr := cfg.SessionPurgeCron
	if cronExpr == "" {
		cronExpr = defaultSessionPurge
		log.Warnw("未配置scheduler.session_purge_cron，使用默认值", "cron", cronExpr)
	}

	entryID, err := s.cron.AddFunc(cronExpr, func() {
		if _, err := s.TriggerSessionPurge(); err != nil {
			log.Errorf("会话清理任务执行失败: %v", err)
		}
	})
	if err != nil {
		log.Errorf("注册会话清理任务 %s 失败: %v", cronExpr, err)
		return err
	}

	s.cronSchedules[jobSessionPurge] = entryID
	log.Infof("会话清理任务已注册: %s entry_id=%d", cronExpr, entryID)

	s.cron.Start()
	log.Info("定时任务调度器启动成功")
	return nil
}

// Stop 停止调度器, 等待正在执行的任务完成
func (s *Scheduler) Stop() {
	s.logger.Info("正在停止定时任务调度器...")
	<-s.cron.Stop().Done()
	s.logger.Info("定时任务调度器已停止")
}

// TriggerSessionPurge 立即执行一次会话清理
func (s *Scheduler) TriggerSessionPurge() (int64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), sessionPurgeDeadline)
	defer cancel()

	n, err := s.purger.PurgeExpiredSessions(ctx)
	if err != nil {
		return 0, err
	}
	s.logger.Info("已清理过期会话", zap.Int64("count", n))
	return n, nil
}

// Entries 已注册的任务名与 cron 条目
func (s *Scheduler) Entries() map[string]cron.EntryID {
	return s.cronSchedules
}
