package interfaces

import (
	"context"
	"errors"
	"time"

	"battle-of-monsters/internal/entity"
)

// ErrBattleNotFound 对战记录不存在（或已软删除）
var ErrBattleNotFound = errors.New("battle not found")

// BattleQueryParams 对战记录查询参数
type BattleQueryParams struct {
	MonsterID *string // 任一方为该怪物
	WinnerID  *string // 胜者
	Limit     int
	Offset    int
}

// BattleRepository 对战记录仓储接口
type BattleRepository interface {
	// GetByID 根据ID获取对战记录
	GetByID(ctx context.Context, battleID string) (*entity.Battle, error)

	// List 获取对战记录列表，按创建时间倒序
	List(ctx context.Context, params BattleQueryParams) ([]*entity.Battle, int64, error)

	// Create 保存对战记录
	Create(ctx context.Context, battle *entity.Battle) error

	// Delete 软删除对战记录
	Delete(ctx context.Context, battleID string) error

	// PurgeDeletedBefore 物理删除在 before 之前软删除的记录，返回删除行数
	PurgeDeletedBefore(ctx context.Context, before time.Time) (int64, error)
}
