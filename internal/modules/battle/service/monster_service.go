package service

import (
	"context"
	"errors"
	"io"
	"strings"

	"battle-of-monsters/internal/entity"
	"battle-of-monsters/internal/pkg/log"
	"battle-of-monsters/internal/pkg/metrics"
	"battle-of-monsters/internal/pkg/validator"
	"battle-of-monsters/internal/pkg/xerrors"
	"battle-of-monsters/internal/repository/interfaces"

	"github.com/aarondl/null/v8"
)

// 分页默认值
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// MonsterService 怪物目录服务
type MonsterService struct {
	monsterRepo interfaces.MonsterRepository
	cache       MonsterCache
	validator   *validator.CustomValidator
	logger      log.Logger
}

// NewMonsterService 创建怪物服务，cache 为 nil 时不缓存
func NewMonsterService(monsterRepo interfaces.MonsterRepository, cache MonsterCache, v *validator.CustomValidator, logger log.Logger) *MonsterService {
	if cache == nil {
		cache = NoopMonsterCache{}
	}
	if v == nil {
		v = validator.New()
	}
	if logger == nil {
		logger = log.GetLogger()
	}
	return &MonsterService{
		monsterRepo: monsterRepo,
		cache:       cache,
		validator:   v,
		logger:      logger,
	}
}

// CreateMonsterInput 创建怪物参数
type CreateMonsterInput struct {
	Name     string `json:"name" validate:"required,max=128,monster_name"`
	Attack   int    `json:"attack" validate:"min=0,max=100000"`
	Defense  int    `json:"defense" validate:"min=0,max=100000"`
	HP       int    `json:"hp" validate:"min=1,max=100000"`
	Speed    int    `json:"speed" validate:"min=0,max=100000"`
	ImageURL string `json:"image_url" validate:"omitempty,url,max=512"`
}

// UpdateMonsterInput 部分更新参数，nil 字段保持不变
type UpdateMonsterInput struct {
	Name     *string `json:"name" validate:"omitempty,max=128,monster_name"`
	Attack   *int    `json:"attack" validate:"omitempty,min=0,max=100000"`
	Defense  *int    `json:"defense" validate:"omitempty,min=0,max=100000"`
	HP       *int    `json:"hp" validate:"omitempty,min=1,max=100000"`
	Speed    *int    `json:"speed" validate:"omitempty,min=0,max=100000"`
	ImageURL *string `json:"image_url" validate:"omitempty,url,max=512"`
}

// ListMonstersInput 列表查询参数
type ListMonstersInput struct {
	Name      string
	Limit     int
	Offset    int
	OrderBy   string
	OrderDesc bool
}

// MonsterPage 分页结果
type MonsterPage struct {
	Items []*entity.Monster
	Total int64
}

// ListMonsters 分页查询怪物
func (s *MonsterService) ListMonsters(ctx context.Context, in ListMonstersInput) (*MonsterPage, error) {
	params := interfaces.MonsterQueryParams{
		Limit:     normalizeLimit(in.Limit),
		Offset:    max(in.Offset, 0),
		OrderBy:   in.OrderBy,
		OrderDesc: in.OrderDesc,
	}
	if name := strings.TrimSpace(in.Name); name != "" {
		params.Name = &name
	}

	monsters, total, err := s.monsterRepo.List(ctx, params)
	if err != nil {
		return nil, xerrors.NewDatabaseError("list", entity.MonsterTableName, err)
	}
	return &MonsterPage{Items: monsters, Total: total}, nil
}

// GetMonster 获取单个怪物，优先读缓存
func (s *MonsterService) GetMonster(ctx context.Context, monsterID string) (*entity.Monster, error) {
	if monster, ok := s.cache.Get(ctx, monsterID); ok {
		return monster, nil
	}

	monster, err := s.monsterRepo.GetByID(ctx, monsterID)
	if err != nil {
		return nil, monsterRepoError(err, "get", monsterID)
	}
	s.cache.Set(ctx, monster)
	return monster, nil
}

// CreateMonster 创建怪物
func (s *MonsterService) CreateMonster(ctx context.Context, in *CreateMonsterInput) (*entity.Monster, error) {
	if err := s.validator.Validate(in); err != nil {
		return nil, err
	}

	monster := in.toEntity()
	if err := s.monsterRepo.Create(ctx, monster); err != nil {
		return nil, monsterRepoError(err, "insert", monster.Name)
	}

	log.LogBusinessEvent(ctx, "monster_created", "monster", monster.ID, map[string]interface{}{
		"name": monster.Name,
	})
	return monster, nil
}

// UpdateMonster 部分更新怪物
func (s *MonsterService) UpdateMonster(ctx context.Context, monsterID string, in *UpdateMonsterInput) (*entity.Monster, error) {
	if err := s.validator.Validate(in); err != nil {
		return nil, err
	}

	monster, err := s.monsterRepo.GetByID(ctx, monsterID)
	if err != nil {
		return nil, monsterRepoError(err, "get", monsterID)
	}

	in.applyTo(monster)
	if err := s.monsterRepo.Update(ctx, monster); err != nil {
		return nil, monsterRepoError(err, "update", monsterID)
	}
	s.cache.Invalidate(ctx, monsterID)

	return monster, nil
}

// DeleteMonster 软删除怪物，已有对战记录保留
func (s *MonsterService) DeleteMonster(ctx context.Context, monsterID string) error {
	if err := s.monsterRepo.Delete(ctx, monsterID); err != nil {
		return monsterRepoError(err, "delete", monsterID)
	}
	s.cache.Invalidate(ctx, monsterID)

	log.LogBusinessEvent(ctx, "monster_deleted", "monster", monsterID, nil)
	return nil
}

// ImportMonsters 从 CSV 导入怪物，文件任一处不合法则整体拒绝
func (s *MonsterService) ImportMonsters(ctx context.Context, r io.Reader) ([]*entity.Monster, error) {
	inputs, err := parseMonsterCSV(r, s.validator)
	if err != nil {
		metrics.DefaultBusinessMetrics.RecordMonsterImport(0, false, "")
		return nil, err
	}

	monsters := make([]*entity.Monster, len(inputs))
	for i, in := range inputs {
		monsters[i] = in.toEntity()
	}

	if err := s.monsterRepo.CreateBatch(ctx, monsters); err != nil {
		metrics.DefaultBusinessMetrics.RecordMonsterImport(0, false, "")
		return nil, monsterRepoError(err, "import", "")
	}

	metrics.DefaultBusinessMetrics.RecordMonsterImport(len(monsters), true, "")
	s.logger.InfoContext(ctx, "怪物导入完成", log.Int("count", len(monsters)))
	return monsters, nil
}

// LookupMonsters 按 ID 批量读取，缓存未命中的部分一次查库
func (s *MonsterService) LookupMonsters(ctx context.Context, monsterIDs ...string) (map[string]*entity.Monster, error) {
	found := make(map[string]*entity.Monster, len(monsterIDs))
	var missing []string
	for _, id := range monsterIDs {
		if _, seen := found[id]; seen {
			continue
		}
		if monster, ok := s.cache.Get(ctx, id); ok {
			found[id] = monster
			continue
		}
		missing = append(missing, id)
	}
	if len(missing) == 0 {
		return found, nil
	}

	loaded, err := s.monsterRepo.GetByIDs(ctx, missing)
	if err != nil {
		return nil, xerrors.NewDatabaseError("get", entity.MonsterTableName, err)
	}
	for id, monster := range loaded {
		found[id] = monster
		s.cache.Set(ctx, monster)
	}
	return found, nil
}

func (in *CreateMonsterInput) toEntity() *entity.Monster {
	monster := &entity.Monster{
		Name:    strings.TrimSpace(in.Name),
		Attack:  in.Attack,
		Defense: in.Defense,
		HP:      in.HP,
		Speed:   in.Speed,
	}
	if url := strings.TrimSpace(in.ImageURL); url != "" {
		monster.ImageURL = null.StringFrom(url)
	}
	return monster
}

func (in *UpdateMonsterInput) applyTo(m *entity.Monster) {
	if in.Name != nil {
		m.Name = strings.TrimSpace(*in.Name)
	}
	if in.Attack != nil {
		m.Attack = *in.Attack
	}
	if in.Defense != nil {
		m.Defense = *in.Defense
	}
	if in.HP != nil {
		m.HP = *in.HP
	}
	if in.Speed != nil {
		m.Speed = *in.Speed
	}
	if in.ImageURL != nil {
		// 传空字符串表示清除图片
		m.ImageURL = null.NewString(strings.TrimSpace(*in.ImageURL), strings.TrimSpace(*in.ImageURL) != "")
	}
}

// monsterRepoError 将仓储错误转换为业务错误
func monsterRepoError(err error, operation, ref string) error {
	switch {
	case errors.Is(err, interfaces.ErrMonsterNotFound):
		return xerrors.NewMonsterNotFoundError(ref)
	case errors.Is(err, interfaces.ErrMonsterNameConflict):
		return xerrors.FromCode(xerrors.CodeMonsterNameExists).WithMetadata("reason", err.Error())
	}
	if appErr, ok := xerrors.As(err); ok {
		return appErr
	}
	return xerrors.NewDatabaseError(operation, entity.MonsterTableName, err)
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultPageSize
	}
	return min(limit, MaxPageSize)
}
