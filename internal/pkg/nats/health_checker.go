package nats

import (
	"context"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
)

// HealthChecker NATS 连接健康检查器，供 /health 端点读取
type HealthChecker struct {
	conn      *nats.Conn
	isHealthy bool
	mutex     sync.RWMutex
	stopOnce  sync.Once
	stopCh    chan struct{}
	interval  time.Duration
	onChange  func(healthy bool)
}

// NewHealthChecker 创建健康检查器，conn 为 nil 时始终视为不健康
func NewHealthChecker(conn *nats.Conn, checkInterval time.Duration) *HealthChecker {
	if checkInterval <= 0 {
		checkInterval = 10 * time.Second
	}

	hc := &HealthChecker{
		conn:     conn,
		stopCh:   make(chan struct{}),
		interval: checkInterval,
	}
	hc.isHealthy = hc.probe()
	return hc
}

// OnChange 注册状态变化回调（如记录日志）
func (hc *HealthChecker) OnChange(fn func(healthy bool)) {
	hc.mutex.Lock()
	defer hc.mutex.Unlock()
	hc.onChange = fn
}

// Start 启动健康检查，阻塞直到 ctx 结束或 Stop
func (hc *HealthChecker) Start(ctx context.Context) {
	ticker := time.NewTicker(hc.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-hc.stopCh:
			return
		case <-ticker.C:
			hc.Check()
		}
	}
}

// Stop 停止健康检查，可重复调用
func (hc *HealthChecker) Stop() {
	hc.stopOnce.Do(func() { close(hc.stopCh) })
}

// IsHealthy 检查连接是否健康
func (hc *HealthChecker) IsHealthy() bool {
	hc.mutex.RLock()
	defer hc.mutex.RUnlock()
	return hc.isHealthy
}

// Check 立即执行一次检查并返回结果
func (hc *HealthChecker) Check() bool {
	healthy := hc.probe()

	hc.mutex.Lock()
	changed := healthy != hc.isHealthy
	hc.isHealthy = healthy
	onChange := hc.onChange
	hc.mutex.Unlock()

	if changed && onChange != nil {
		onChange(healthy)
	}
	return healthy
}

func (hc *HealthChecker) probe() bool {
	return hc.conn != nil && hc.conn.IsConnected() && !hc.conn.IsClosed()
}
