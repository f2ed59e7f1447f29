package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"battle-of-monsters/internal/battle"
	"battle-of-monsters/internal/entity"
	"battle-of-monsters/internal/pkg/ctxkey"
	"battle-of-monsters/internal/pkg/log"
	"battle-of-monsters/internal/pkg/metrics"
	"battle-of-monsters/internal/pkg/notify"
	"battle-of-monsters/internal/pkg/xerrors"
	"battle-of-monsters/internal/repository/interfaces"
)

// BattleService 对战结算与对战记录服务
type BattleService struct {
	battleRepo     interfaces.BattleRepository
	monsterService *MonsterService
	logger         log.Logger
	now            func() time.Time
}

// NewBattleService 创建对战服务
func NewBattleService(battleRepo interfaces.BattleRepository, monsterService *MonsterService, logger log.Logger) *BattleService {
	if logger == nil {
		logger = log.GetLogger()
	}
	return &BattleService{
		battleRepo:     battleRepo,
		monsterService: monsterService,
		logger:         logger,
		now:            time.Now,
	}
}

// CreateBattleInput 发起对战参数
type CreateBattleInput struct {
	MonsterA string `json:"monster_a"`
	MonsterB string `json:"monster_b"`
}

// ListBattlesInput 对战记录列表参数
type ListBattlesInput struct {
	MonsterID string
	WinnerID  string
	Limit     int
	Offset    int
}

// BattlePage 分页结果
type BattlePage struct {
	Items []*entity.Battle
	Total int64
}

// CreateBattle 加载双方怪物、结算并保存对战记录
//
// 同一只怪物可以与自己对战。
func (s *BattleService) CreateBattle(ctx context.Context, in *CreateBattleInput) (*entity.Battle, error) {
	monsterA := strings.TrimSpace(in.MonsterA)
	monsterB := strings.TrimSpace(in.MonsterB)
	if monsterA == "" {
		return nil, xerrors.NewMissingCombatantIDError("monster_a")
	}
	if monsterB == "" {
		return nil, xerrors.NewMissingCombatantIDError("monster_b")
	}

	monsters, err := s.monsterService.LookupMonsters(ctx, monsterA, monsterB)
	if err != nil {
		return nil, err
	}
	a, ok := monsters[monsterA]
	if !ok {
		return nil, xerrors.NewMonsterNotFoundError(monsterA)
	}
	b, ok := monsters[monsterB]
	if !ok {
		return nil, xerrors.NewMonsterNotFoundError(monsterB)
	}

	var record *entity.Battle
	start := time.Now()
	result, err := battle.Resolve(a.ToCombatant(), b.ToCombatant(), func(r battle.Result) error {
		record = &entity.Battle{
			MonsterA:   monsterA,
			MonsterB:   monsterB,
			Winner:     r.WinnerID,
			FirstActor: r.FirstActorID,
			Rounds:     r.Rounds,
		}
		return s.battleRepo.Create(ctx, record)
	})
	switch {
	case errors.Is(err, battle.ErrInvalidCombatant):
		return nil, xerrors.NewInvalidCombatantError(err)
	case err != nil:
		return nil, xerrors.NewDatabaseError("insert", entity.BattleTableName, err)
	}

	outcome := metrics.OutcomeSecondActorWon
	if result.WinnerID == result.FirstActorID {
		outcome = metrics.OutcomeFirstActorWon
	}
	metrics.DefaultBusinessMetrics.RecordBattle(outcome, result.Rounds, time.Since(start), "")

	s.publish(ctx, notify.SubjectBattleResolved, record)
	log.LogBusinessEvent(ctx, "battle_resolved", "battle", record.ID, map[string]interface{}{
		"monster_a": record.MonsterA,
		"monster_b": record.MonsterB,
		"winner":    record.Winner,
		"rounds":    record.Rounds,
	})
	return record, nil
}

// ListBattles 分页查询对战记录，按创建时间倒序
func (s *BattleService) ListBattles(ctx context.Context, in ListBattlesInput) (*BattlePage, error) {
	params := interfaces.BattleQueryParams{
		Limit:  normalizeLimit(in.Limit),
		Offset: max(in.Offset, 0),
	}
	if id := strings.TrimSpace(in.MonsterID); id != "" {
		params.MonsterID = &id
	}
	if id := strings.TrimSpace(in.WinnerID); id != "" {
		params.WinnerID = &id
	}

	battles, total, err := s.battleRepo.List(ctx, params)
	if err != nil {
		return nil, xerrors.NewDatabaseError("list", entity.BattleTableName, err)
	}
	return &BattlePage{Items: battles, Total: total}, nil
}

// GetBattle 获取单条对战记录
func (s *BattleService) GetBattle(ctx context.Context, battleID string) (*entity.Battle, error) {
	record, err := s.battleRepo.GetByID(ctx, battleID)
	if err != nil {
		return nil, battleRepoError(err, "get", battleID)
	}
	return record, nil
}

// DeleteBattle 软删除对战记录
func (s *BattleService) DeleteBattle(ctx context.Context, battleID string) error {
	if err := s.battleRepo.Delete(ctx, battleID); err != nil {
		return battleRepoError(err, "delete", battleID)
	}

	s.publish(ctx, notify.SubjectBattleDeleted, &entity.Battle{ID: battleID})
	log.LogBusinessEvent(ctx, "battle_deleted", "battle", battleID, nil)
	return nil
}

// PurgeDeleted 物理删除软删除超过 retentionDays 天的对战记录
func (s *BattleService) PurgeDeleted(ctx context.Context, retentionDays int) (int64, error) {
	if retentionDays < 1 {
		return 0, xerrors.NewValidationError("retention_days", "保留天数必须大于0")
	}

	before := s.now().AddDate(0, 0, -retentionDays)
	purged, err := s.battleRepo.PurgeDeletedBefore(ctx, before)
	if err != nil {
		return 0, xerrors.NewDatabaseError("purge", entity.BattleTableName, err)
	}
	metrics.DefaultBusinessMetrics.RecordBattlesPurged(purged, "")
	return purged, nil
}

// publish 事件发布失败只记日志，不影响结算结果
func (s *BattleService) publish(ctx context.Context, subject string, record *entity.Battle) {
	event := notify.BattleEvent{
		BattleID:   record.ID,
		MonsterA:   record.MonsterA,
		MonsterB:   record.MonsterB,
		Winner:     record.Winner,
		FirstActor: record.FirstActor,
		Rounds:     record.Rounds,
		TraceID:    ctxkey.GetString(ctx, ctxkey.TraceID),
	}
	if err := notify.PublishBattleEvent(ctx, subject, event); err != nil {
		s.logger.WarnContext(ctx, "发布对战事件失败",
			log.String("subject", subject),
			log.String("battle_id", record.ID),
			log.Any("error", err),
		)
	}
}

func battleRepoError(err error, operation, battleID string) error {
	if errors.Is(err, interfaces.ErrBattleNotFound) {
		return xerrors.NewBattleNotFoundError(battleID)
	}
	if appErr, ok := xerrors.As(err); ok {
		return appErr
	}
	return xerrors.NewDatabaseError(operation, entity.BattleTableName, err)
}
