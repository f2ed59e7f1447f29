package impl

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/aarondl/sqlboiler/v4/boil"
	"github.com/aarondl/sqlboiler/v4/queries"
	"github.com/aarondl/sqlboiler/v4/queries/qm"
	"github.com/google/uuid"

	"battle-of-monsters/internal/entity"
	"battle-of-monsters/internal/repository/interfaces"
)

type battleRepositoryImpl struct {
	exec boil.ContextExecutor
}

// NewBattleRepository 创建对战记录仓储实例
func NewBattleRepository(db *sql.DB) interfaces.BattleRepository {
	return &battleRepositoryImpl{exec: db}
}

// NewBattleRepositoryWithExecutor 使用自定义执行器创建仓储实例
func NewBattleRepositoryWithExecutor(exec boil.ContextExecutor) interfaces.BattleRepository {
	return &battleRepositoryImpl{exec: exec}
}

// GetByID 根据ID获取对战记录
func (r *battleRepositoryImpl) GetByID(ctx context.Context, battleID string) (*entity.Battle, error) {
	if !isUUID(battleID) {
		return nil, fmt.Errorf("%w: %s", interfaces.ErrBattleNotFound, battleID)
	}

	b := &entity.Battle{}
	err := newQuery(
		qm.Select(entity.BattleAllColumns...),
		qm.From(entity.BattleTableName),
		qm.Where("id = ? AND deleted_at IS NULL", battleID),
		qm.Limit(1),
	).Bind(ctx, r.exec, b)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", interfaces.ErrBattleNotFound, battleID)
	}
	if err != nil {
		return nil, fmt.Errorf("查询对战记录失败: %w", err)
	}
	return b, nil
}

// List 获取对战记录列表
func (r *battleRepositoryImpl) List(ctx context.Context, params interfaces.BattleQueryParams) ([]*entity.Battle, int64, error) {
	// 非法 UUID 的筛选条件不会匹配任何记录
	if (params.MonsterID != nil && !isUUID(*params.MonsterID)) || (params.WinnerID != nil && !isUUID(*params.WinnerID)) {
		return []*entity.Battle{}, 0, nil
	}

	baseQueryMods := []qm.QueryMod{
		qm.From(entity.BattleTableName),
		qm.Where("deleted_at IS NULL"),
	}
	if params.MonsterID != nil {
		baseQueryMods = append(baseQueryMods, qm.Where("(monster_a = ? OR monster_b = ?)", *params.MonsterID, *params.MonsterID))
	}
	if params.WinnerID != nil {
		baseQueryMods = append(baseQueryMods, qm.Where("winner = ?", *params.WinnerID))
	}

	count, err := countQuery(ctx, r.exec, baseQueryMods...)
	if err != nil {
		return nil, 0, fmt.Errorf("查询对战记录总数失败: %w", err)
	}

	listMods := append([]qm.QueryMod{qm.Select(entity.BattleAllColumns...)}, baseQueryMods...)
	listMods = append(listMods, qm.OrderBy(`"battles"."created_at" DESC, "battles"."id" ASC`))
	if params.Limit > 0 {
		listMods = append(listMods, qm.Limit(params.Limit))
	}
	if params.Offset > 0 {
		listMods = append(listMods, qm.Offset(params.Offset))
	}

	var battles []*entity.Battle
	if err := newQuery(listMods...).Bind(ctx, r.exec, &battles); err != nil {
		return nil, 0, fmt.Errorf("查询对战记录列表失败: %w", err)
	}
	return battles, count, nil
}

// Create 保存对战记录
func (r *battleRepositoryImpl) Create(ctx context.Context, b *entity.Battle) error {
	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	b.CreatedAt = time.Now()

	_, err := queries.Raw(`
		INSERT INTO battles (id, monster_a, monster_b, winner, first_actor, rounds, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		b.ID, b.MonsterA, b.MonsterB, b.Winner, b.FirstActor, b.Rounds, b.CreatedAt,
	).ExecContext(ctx, r.exec)
	if err != nil {
		return fmt.Errorf("保存对战记录失败: %w", err)
	}
	return nil
}

// Delete 软删除对战记录
func (r *battleRepositoryImpl) Delete(ctx context.Context, battleID string) error {
	if !isUUID(battleID) {
		return fmt.Errorf("%w: %s", interfaces.ErrBattleNotFound, battleID)
	}
	res, err := queries.Raw(`
		UPDATE battles SET deleted_at = $1
		WHERE id = $2 AND deleted_at IS NULL`,
		time.Now(), battleID,
	).ExecContext(ctx, r.exec)
	if err != nil {
		return fmt.Errorf("删除对战记录失败: %w", err)
	}
	return requireAffected(res, interfaces.ErrBattleNotFound, battleID)
}

// PurgeDeletedBefore 物理删除过期的软删除记录
func (r *battleRepositoryImpl) PurgeDeletedBefore(ctx context.Context, before time.Time) (int64, error) {
	res, err := queries.Raw(
		`DELETE FROM battles WHERE deleted_at IS NOT NULL AND deleted_at < $1`,
		before,
	).ExecContext(ctx, r.exec)
	if err != nil {
		return 0, fmt.Errorf("清理对战记录失败: %w", err)
	}
	return res.RowsAffected()
}
