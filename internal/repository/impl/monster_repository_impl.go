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

type monsterRepositoryImpl struct {
	exec boil.ContextExecutor
}

// NewMonsterRepository 创建怪物仓储实例
func NewMonsterRepository(db *sql.DB) interfaces.MonsterRepository {
	return &monsterRepositoryImpl{exec: db}
}

// NewMonsterRepositoryWithExecutor 使用自定义执行器创建仓储实例
func NewMonsterRepositoryWithExecutor(exec boil.ContextExecutor) interfaces.MonsterRepository {
	return &monsterRepositoryImpl{exec: exec}
}

// GetByID 根据ID获取怪物
func (r *monsterRepositoryImpl) GetByID(ctx context.Context, monsterID string) (*entity.Monster, error) {
	if !isUUID(monsterID) {
		return nil, fmt.Errorf("%w: %s", interfaces.ErrMonsterNotFound, monsterID)
	}

	monster := &entity.Monster{}
	err := newQuery(
		qm.Select(entity.MonsterAllColumns...),
		qm.From(entity.MonsterTableName),
		qm.Where("id = ? AND deleted_at IS NULL", monsterID),
		qm.Limit(1),
	).Bind(ctx, r.exec, monster)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", interfaces.ErrMonsterNotFound, monsterID)
	}
	if err != nil {
		return nil, fmt.Errorf("查询怪物失败: %w", err)
	}

	return monster, nil
}

// GetByIDs 批量获取怪物
func (r *monsterRepositoryImpl) GetByIDs(ctx context.Context, monsterIDs []string) (map[string]*entity.Monster, error) {
	result := make(map[string]*entity.Monster, len(monsterIDs))
	if len(monsterIDs) == 0 {
		return result, nil
	}

	args := make([]interface{}, 0, len(monsterIDs))
	for _, id := range monsterIDs {
		if isUUID(id) {
			args = append(args, id)
		}
	}
	if len(args) == 0 {
		return result, nil
	}

	var monsters []*entity.Monster
	err := newQuery(
		qm.Select(entity.MonsterAllColumns...),
		qm.From(entity.MonsterTableName),
		qm.WhereIn("id IN ?", args...),
		qm.Where("deleted_at IS NULL"),
	).Bind(ctx, r.exec, &monsters)
	if err != nil {
		return nil, fmt.Errorf("批量查询怪物失败: %w", err)
	}

	for _, m := range monsters {
		result[m.ID] = m
	}
	return result, nil
}

// List 获取怪物列表
func (r *monsterRepositoryImpl) List(ctx context.Context, params interfaces.MonsterQueryParams) ([]*entity.Monster, int64, error) {
	// 构建基础查询条件
	baseQueryMods := []qm.QueryMod{
		qm.From(entity.MonsterTableName),
		qm.Where("deleted_at IS NULL"),
	}
	if params.Name != nil && *params.Name != "" {
		baseQueryMods = append(baseQueryMods, qm.Where("name ILIKE ?", "%"+*params.Name+"%"))
	}

	// 获取总数
	count, err := countQuery(ctx, r.exec, baseQueryMods...)
	if err != nil {
		return nil, 0, fmt.Errorf("查询怪物总数失败: %w", err)
	}

	// 排序
	allowedOrders := map[string]string{
		"name":       `"monsters"."name"`,
		"attack":     `"monsters"."attack"`,
		"defense":    `"monsters"."defense"`,
		"hp":         `"monsters"."hp"`,
		"speed":      `"monsters"."speed"`,
		"created_at": `"monsters"."created_at"`,
	}
	orderColumn, ok := allowedOrders[params.OrderBy]
	if !ok {
		orderColumn = allowedOrders["created_at"]
	}
	orderDir := "ASC"
	if params.OrderDesc {
		orderDir = "DESC"
	}

	listMods := append([]qm.QueryMod{qm.Select(entity.MonsterAllColumns...)}, baseQueryMods...)
	listMods = append(listMods, qm.OrderBy(fmt.Sprintf("%s %s, \"monsters\".\"id\" ASC", orderColumn, orderDir)))

	// 分页
	if params.Limit > 0 {
		listMods = append(listMods, qm.Limit(params.Limit))
	}
	if params.Offset > 0 {
		listMods = append(listMods, qm.Offset(params.Offset))
	}

	var monsters []*entity.Monster
	if err := newQuery(listMods...).Bind(ctx, r.exec, &monsters); err != nil {
		return nil, 0, fmt.Errorf("查询怪物列表失败: %w", err)
	}

	return monsters, count, nil
}

// Create 创建怪物
func (r *monsterRepositoryImpl) Create(ctx context.Context, monster *entity.Monster) error {
	return insertMonster(ctx, r.exec, monster)
}

// CreateBatch 批量创建怪物（CSV 导入），全部成功或全部回滚
func (r *monsterRepositoryImpl) CreateBatch(ctx context.Context, monsters []*entity.Monster) error {
	if len(monsters) == 0 {
		return nil
	}
	return withTx(ctx, r.exec, func(exec boil.ContextExecutor) error {
		for i, m := range monsters {
			if err := insertMonster(ctx, exec, m); err != nil {
				return fmt.Errorf("第 %d 个怪物: %w", i+1, err)
			}
		}
		return nil
	})
}

func insertMonster(ctx context.Context, exec boil.ContextExecutor, monster *entity.Monster) error {
	// 生成UUID
	if monster.ID == "" {
		monster.ID = uuid.New().String()
	}

	// 设置时间戳
	now := time.Now()
	monster.CreatedAt = now
	monster.UpdatedAt = now

	_, err := queries.Raw(`
		INSERT INTO monsters (id, name, attack, defense, hp, speed, image_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		monster.ID, monster.Name, monster.Attack, monster.Defense, monster.HP, monster.Speed,
		monster.ImageURL, monster.CreatedAt, monster.UpdatedAt,
	).ExecContext(ctx, exec)
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: %s", interfaces.ErrMonsterNameConflict, monster.Name)
	}
	if err != nil {
		return fmt.Errorf("创建怪物失败: %w", err)
	}

	return nil
}

// Update 更新怪物
func (r *monsterRepositoryImpl) Update(ctx context.Context, monster *entity.Monster) error {
	if !isUUID(monster.ID) {
		return fmt.Errorf("%w: %s", interfaces.ErrMonsterNotFound, monster.ID)
	}
	monster.UpdatedAt = time.Now()

	res, err := queries.Raw(`
		UPDATE monsters
		SET name = $1, attack = $2, defense = $3, hp = $4, speed = $5, image_url = $6, updated_at = $7
		WHERE id = $8 AND deleted_at IS NULL`,
		monster.Name, monster.Attack, monster.Defense, monster.HP, monster.Speed,
		monster.ImageURL, monster.UpdatedAt, monster.ID,
	).ExecContext(ctx, r.exec)
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: %s", interfaces.ErrMonsterNameConflict, monster.Name)
	}
	if err != nil {
		return fmt.Errorf("更新怪物失败: %w", err)
	}

	return requireAffected(res, interfaces.ErrMonsterNotFound, monster.ID)
}

// Delete 软删除怪物
func (r *monsterRepositoryImpl) Delete(ctx context.Context, monsterID string) error {
	if !isUUID(monsterID) {
		return fmt.Errorf("%w: %s", interfaces.ErrMonsterNotFound, monsterID)
	}
	now := time.Now()
	res, err := queries.Raw(`
		UPDATE monsters SET deleted_at = $1, updated_at = $1
		WHERE id = $2 AND deleted_at IS NULL`,
		now, monsterID,
	).ExecContext(ctx, r.exec)
	if err != nil {
		return fmt.Errorf("删除怪物失败: %w", err)
	}

	return requireAffected(res, interfaces.ErrMonsterNotFound, monsterID)
}

// requireAffected 没有行被修改时返回 notFound
func requireAffected(res sql.Result, notFound error, id string) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("获取影响行数失败: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", notFound, id)
	}
	return nil
}
