package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"battle-of-monsters/internal/pkg/metrics"
	"battle-of-monsters/internal/pkg/xerrors"
)

func newTestBattleService(monsters *fakeMonsterRepo, battles *fakeBattleRepo) *BattleService {
	return NewServiceContainerWithRepos(monsters, battles, nil, nil).GetBattleService()
}

func TestBattleService_CreateBattle(t *testing.T) {
	ctx := context.Background()

	t.Run("攻击力高的一方先手并获胜", func(t *testing.T) {
		battles := newFakeBattleRepo()
		svc := newTestBattleService(newFakeMonsterRepo(
			testMonster("a", "Red Dragon", 50, 30, 100, 40),
			testMonster("b", "Old Shark", 40, 20, 100, 40),
		), battles)
		service := metrics.GetServiceName()
		before := testutil.ToFloat64(metrics.DefaultBusinessMetrics.BattlesTotal.WithLabelValues(metrics.OutcomeFirstActorWon, service))

		record, err := svc.CreateBattle(ctx, &CreateBattleInput{MonsterA: "a", MonsterB: "b"})
		require.NoError(t, err)
		assert.NotEmpty(t, record.ID)
		assert.Equal(t, "a", record.Winner)
		assert.Equal(t, "a", record.FirstActor)
		assert.Equal(t, 4, record.Rounds)
		assert.Equal(t, 1, battles.count())

		stored, err := svc.GetBattle(ctx, record.ID)
		require.NoError(t, err)
		assert.Equal(t, record.Winner, stored.Winner)
		assert.Equal(t, before+1, testutil.ToFloat64(metrics.DefaultBusinessMetrics.BattlesTotal.WithLabelValues(metrics.OutcomeFirstActorWon, service)))
	})

	t.Run("同回合双方倒下判后手胜", func(t *testing.T) {
		svc := newTestBattleService(newFakeMonsterRepo(
			testMonster("fast", "Fast", 10, 0, 10, 9),
			testMonster("slow", "Slow", 10, 0, 10, 1),
		), newFakeBattleRepo())

		record, err := svc.CreateBattle(ctx, &CreateBattleInput{MonsterA: "fast", MonsterB: "slow"})
		require.NoError(t, err)
		assert.Equal(t, "fast", record.FirstActor)
		assert.Equal(t, "slow", record.Winner)
		assert.Equal(t, 1, record.Rounds)
	})

	t.Run("怪物可以与自己对战", func(t *testing.T) {
		svc := newTestBattleService(newFakeMonsterRepo(testMonster("a", "Orc", 5, 1, 20, 3)), newFakeBattleRepo())

		record, err := svc.CreateBattle(ctx, &CreateBattleInput{MonsterA: "a", MonsterB: "a"})
		require.NoError(t, err)
		assert.Equal(t, "a", record.Winner)
	})

	t.Run("缺少怪物 ID", func(t *testing.T) {
		battles := newFakeBattleRepo()
		svc := newTestBattleService(newFakeMonsterRepo(), battles)

		for _, in := range []*CreateBattleInput{
			{MonsterB: "b"},
			{MonsterA: "a", MonsterB: "   "},
		} {
			_, err := svc.CreateBattle(ctx, in)
			appErr, ok := xerrors.As(err)
			require.True(t, ok)
			assert.Equal(t, xerrors.CodeMissingCombatantID, appErr.Code)
		}
		assert.Zero(t, battles.count())
	})

	t.Run("怪物不存在时指明 ID", func(t *testing.T) {
		battles := newFakeBattleRepo()
		svc := newTestBattleService(newFakeMonsterRepo(testMonster("a", "Orc", 1, 1, 1, 1)), battles)

		_, err := svc.CreateBattle(ctx, &CreateBattleInput{MonsterA: "a", MonsterB: "ghost"})
		appErr, ok := xerrors.As(err)
		require.True(t, ok)
		assert.Equal(t, xerrors.CodeMonsterNotFound, appErr.Code)
		assert.Equal(t, "ghost", appErr.Context.Metadata["monster_id"])
		assert.Zero(t, battles.count())
	})

	t.Run("属性为负时拒绝结算", func(t *testing.T) {
		battles := newFakeBattleRepo()
		svc := newTestBattleService(newFakeMonsterRepo(
			testMonster("a", "Broken", -1, 1, 10, 1),
			testMonster("b", "Orc", 1, 1, 10, 1),
		), battles)

		_, err := svc.CreateBattle(ctx, &CreateBattleInput{MonsterA: "a", MonsterB: "b"})
		assert.True(t, xerrors.HasCode(err, xerrors.CodeInvalidCombatant))
		assert.Zero(t, battles.count())
	})

	t.Run("保存失败返回数据库错误", func(t *testing.T) {
		battles := newFakeBattleRepo()
		battles.createErr = errors.New("disk full")
		svc := newTestBattleService(newFakeMonsterRepo(
			testMonster("a", "Orc", 1, 1, 10, 1),
			testMonster("b", "Goblin", 1, 1, 10, 2),
		), battles)

		_, err := svc.CreateBattle(ctx, &CreateBattleInput{MonsterA: "a", MonsterB: "b"})
		assert.True(t, xerrors.HasCode(err, xerrors.CodeDatabaseError))
	})
}

func TestBattleService_DeleteBattle(t *testing.T) {
	ctx := context.Background()
	battles := newFakeBattleRepo()
	svc := newTestBattleService(newFakeMonsterRepo(
		testMonster("a", "Orc", 5, 1, 10, 1),
		testMonster("b", "Goblin", 5, 1, 10, 2),
	), battles)

	record, err := svc.CreateBattle(ctx, &CreateBattleInput{MonsterA: "a", MonsterB: "b"})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteBattle(ctx, record.ID))
	_, err = svc.GetBattle(ctx, record.ID)
	assert.True(t, xerrors.HasCode(err, xerrors.CodeBattleNotFound))

	err = svc.DeleteBattle(ctx, record.ID)
	assert.True(t, xerrors.HasCode(err, xerrors.CodeBattleNotFound))
}

func TestBattleService_ListBattles(t *testing.T) {
	ctx := context.Background()
	svc := newTestBattleService(newFakeMonsterRepo(
		testMonster("a", "Orc", 5, 1, 10, 1),
		testMonster("b", "Goblin", 5, 1, 10, 2),
		testMonster("c", "Troll", 5, 1, 10, 3),
	), newFakeBattleRepo())

	for _, pair := range [][2]string{{"a", "b"}, {"b", "c"}, {"a", "c"}} {
		_, err := svc.CreateBattle(ctx, &CreateBattleInput{MonsterA: pair[0], MonsterB: pair[1]})
		require.NoError(t, err)
	}

	page, err := svc.ListBattles(ctx, ListBattlesInput{MonsterID: "a"})
	require.NoError(t, err)
	assert.EqualValues(t, 2, page.Total)

	page, err = svc.ListBattles(ctx, ListBattlesInput{Limit: 1})
	require.NoError(t, err)
	assert.EqualValues(t, 3, page.Total)
	assert.Len(t, page.Items, 1)
}

func TestBattleService_PurgeDeleted(t *testing.T) {
	ctx := context.Background()
	battles := newFakeBattleRepo()
	battles.purged = 3
	svc := newTestBattleService(newFakeMonsterRepo(), battles)
	now := time.Date(2026, 3, 31, 3, 30, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	purged, err := svc.PurgeDeleted(ctx, 30)
	require.NoError(t, err)
	assert.EqualValues(t, 3, purged)
	require.Len(t, battles.purgeCalls, 1)
	assert.Equal(t, time.Date(2026, 3, 1, 3, 30, 0, 0, time.UTC), battles.purgeCalls[0])

	_, err = svc.PurgeDeleted(ctx, 0)
	assert.True(t, xerrors.HasCode(err, xerrors.CodeInvalidParams))
}
