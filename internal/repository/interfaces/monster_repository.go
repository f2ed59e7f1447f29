package interfaces

import (
	"context"
	"errors"

	"battle-of-monsters/internal/entity"
)

// ErrMonsterNotFound 怪物不存在（或已软删除）
var ErrMonsterNotFound = errors.New("monster not found")

// ErrMonsterNameConflict 同名怪物已存在
var ErrMonsterNameConflict = errors.New("monster name already exists")

// MonsterQueryParams 怪物查询参数
type MonsterQueryParams struct {
	Name      *string // 怪物名称（模糊搜索）
	Limit     int     // 每页数量
	Offset    int     // 偏移量
	OrderBy   string  // 排序字段（name, attack, defense, hp, speed, created_at）
	OrderDesc bool    // 是否降序
}

// MonsterRepository 怪物仓储接口
type MonsterRepository interface {
	// GetByID 根据ID获取怪物
	GetByID(ctx context.Context, monsterID string) (*entity.Monster, error)

	// GetByIDs 批量获取怪物，返回 id -> 怪物，缺失的 id 不在结果中
	GetByIDs(ctx context.Context, monsterIDs []string) (map[string]*entity.Monster, error)

	// List 获取怪物列表
	List(ctx context.Context, params MonsterQueryParams) ([]*entity.Monster, int64, error)

	// Create 创建怪物
	Create(ctx context.Context, monster *entity.Monster) error

	// CreateBatch 在同一事务中批量创建，任一失败则全部回滚
	CreateBatch(ctx context.Context, monsters []*entity.Monster) error

	// Update 更新怪物
	Update(ctx context.Context, monster *entity.Monster) error

	// Delete 软删除怪物
	Delete(ctx context.Context, monsterID string) error
}
