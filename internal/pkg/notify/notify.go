package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
)

// 事件主题
const (
	SubjectBattleResolved = "battle.resolved"
	SubjectBattleDeleted  = "battle.deleted"
)

var (
	ncMu sync.RWMutex
	nc   *nats.Conn
)

// BattleEvent 战斗事件载荷
type BattleEvent struct {
	BattleID   string    `json:"battle_id"`
	MonsterA   string    `json:"monster_a,omitempty"`
	MonsterB   string    `json:"monster_b,omitempty"`
	Winner     string    `json:"winner,omitempty"`
	FirstActor string    `json:"first_actor,omitempty"`
	Rounds     int       `json:"rounds"`
	TraceID    string    `json:"trace_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// SetNatsConn 设置全局 NATS 连接（由 main 提供）
func SetNatsConn(conn *nats.Conn) {
	ncMu.Lock()
	defer ncMu.Unlock()
	nc = conn
}

// Conn 返回当前连接，未设置时为 nil
func Conn() *nats.Conn {
	ncMu.RLock()
	defer ncMu.RUnlock()
	return nc
}

// Connected 是否已设置可用连接
func Connected() bool {
	ncMu.RLock()
	defer ncMu.RUnlock()
	return nc != nil && nc.IsConnected()
}

// Publish 以 JSON 发布任意事件
func Publish(ctx context.Context, subject string, payload any) error {
	ncMu.RLock()
	conn := nc
	ncMu.RUnlock()
	if conn == nil {
		return nil // 没有连接时静默降级
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s event failed: %w", subject, err)
	}
	return conn.Publish(subject, data)
}

// PublishBattleEvent 发布战斗事件，OccurredAt 为空时补当前时间
func PublishBattleEvent(ctx context.Context, subject string, event BattleEvent) error {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}
	return Publish(ctx, subject, event)
}
