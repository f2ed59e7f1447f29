package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"battle-of-monsters/internal/pkg/log"
)

// BattlePurger 物理删除过期的软删除对战记录
type BattlePurger interface {
	PurgeDeleted(ctx context.Context, retentionDays int) (int64, error)
}

// PurgeTask 对战记录定时清理任务
type PurgeTask struct {
	purger        BattlePurger
	schedule      string
	retentionDays int
	timeout       time.Duration
	logger        log.Logger
	cron          *cron.Cron
}

// NewPurgeTask 创建定时清理任务实例
// schedule 为秒级 cron 表达式: 秒 分 时 日 月 周
func NewPurgeTask(purger BattlePurger, schedule string, retentionDays int, logger log.Logger) *PurgeTask {
	if logger == nil {
		logger = log.GetLogger()
	}
	return &PurgeTask{
		purger:        purger,
		schedule:      schedule,
		retentionDays: retentionDays,
		timeout:       5 * time.Minute,
		logger:        logger,
	}
}

// Start 启动定时任务
func (t *PurgeTask) Start() error {
	t.cron = cron.New(cron.WithSeconds())

	_, err := t.cron.AddFunc(t.schedule, func() {
		t.logger.Info("【定时任务】开始清理已删除的对战记录")
		t.RunOnce(context.Background())
	})
	if err != nil {
		t.cron = nil
		return fmt.Errorf("添加清理任务失败 (schedule=%q): %w", t.schedule, err)
	}

	t.cron.Start()
	t.logger.Info("【定时任务】已启动",
		log.String("schedule", t.schedule),
		log.Int("retention_days", t.retentionDays),
	)
	return nil
}

// RunOnce 执行一次清理，返回删除行数
func (t *PurgeTask) RunOnce(ctx context.Context) int64 {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	start := time.Now()
	purged, err := t.purger.PurgeDeleted(ctx, t.retentionDays)
	if err != nil {
		t.logger.Error("【定时任务】清理对战记录失败", err)
		return 0
	}

	t.logger.Info("【定时任务】对战记录清理完成",
		log.Int64("deleted_count", purged),
		log.Duration("duration", time.Since(start).Milliseconds()),
	)
	return purged
}

// Stop 停止定时任务（等待正在执行的任务结束）
func (t *PurgeTask) Stop() {
	if t.cron != nil {
		t.logger.Info("【定时任务】正在停止定时任务...")
		ctx := t.cron.Stop()
		<-ctx.Done()
		t.logger.Info("【定时任务】定时任务已停止")
	}
}
