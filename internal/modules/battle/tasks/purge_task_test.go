package tasks

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"battle-of-monsters/internal/pkg/log"
)

type fakePurger struct {
	mu    sync.Mutex
	calls []int
	count int64
	err   error
	done  chan struct{}
}

func (p *fakePurger) PurgeDeleted(_ context.Context, retentionDays int) (int64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, retentionDays)
	if p.done != nil && len(p.calls) == 1 {
		close(p.done)
	}
	return p.count, p.err
}

func testLogger(buf *bytes.Buffer) log.Logger {
	return log.NewLogger(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func TestPurgeTask_RunOnce(t *testing.T) {
	t.Run("返回删除行数", func(t *testing.T) {
		var buf bytes.Buffer
		purger := &fakePurger{count: 7}
		task := NewPurgeTask(purger, "0 30 3 * * *", 30, testLogger(&buf))

		assert.EqualValues(t, 7, task.RunOnce(context.Background()))
		assert.Equal(t, []int{30}, purger.calls)
		assert.Contains(t, buf.String(), `"deleted_count":7`)
	})

	t.Run("失败时记录错误", func(t *testing.T) {
		var buf bytes.Buffer
		purger := &fakePurger{err: errors.New("db down")}
		task := NewPurgeTask(purger, "0 30 3 * * *", 30, testLogger(&buf))

		assert.Zero(t, task.RunOnce(context.Background()))
		assert.Contains(t, buf.String(), "db down")
	})
}

func TestPurgeTask_Start(t *testing.T) {
	t.Run("非法表达式", func(t *testing.T) {
		task := NewPurgeTask(&fakePurger{}, "not a schedule", 30, nil)

		require.Error(t, task.Start())
		task.Stop()
	})

	t.Run("按秒级表达式触发", func(t *testing.T) {
		purger := &fakePurger{done: make(chan struct{})}
		task := NewPurgeTask(purger, "* * * * * *", 14, nil)

		require.NoError(t, task.Start())
		defer task.Stop()

		select {
		case <-purger.done:
		case <-time.After(3 * time.Second):
			t.Fatal("清理任务未被调度")
		}
		purger.mu.Lock()
		assert.Equal(t, 14, purger.calls[0])
		purger.mu.Unlock()
	})
}
