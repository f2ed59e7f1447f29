package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"battle-of-monsters/internal/pkg/metrics"
	"battle-of-monsters/internal/pkg/xerrors"
)

func newTestMonsterService(repo *fakeMonsterRepo, cache MonsterCache) *MonsterService {
	return NewMonsterService(repo, cache, nil, nil)
}

func TestMonsterService_CreateMonster(t *testing.T) {
	ctx := context.Background()

	t.Run("创建成功", func(t *testing.T) {
		repo := newFakeMonsterRepo()
		svc := newTestMonsterService(repo, nil)

		created, err := svc.CreateMonster(ctx, &CreateMonsterInput{
			Name: "  Dead Unicorn ", Attack: 60, Defense: 40, HP: 10, Speed: 80,
			ImageURL: "https://example.com/u.png",
		})
		require.NoError(t, err)
		assert.NotEmpty(t, created.ID)
		assert.Equal(t, "Dead Unicorn", created.Name)
		assert.Equal(t, "https://example.com/u.png", created.ImageURL.String)
		assert.Equal(t, 1, repo.count())
	})

	t.Run("校验失败", func(t *testing.T) {
		svc := newTestMonsterService(newFakeMonsterRepo(), nil)

		_, err := svc.CreateMonster(ctx, &CreateMonsterInput{Name: "Orc", Attack: -5, HP: 10})
		assert.True(t, xerrors.HasCode(err, xerrors.CodeInvalidParams))
	})

	t.Run("名称重复", func(t *testing.T) {
		repo := newFakeMonsterRepo(testMonster("m-1", "Orc", 1, 1, 1, 1))
		svc := newTestMonsterService(repo, nil)

		_, err := svc.CreateMonster(ctx, &CreateMonsterInput{Name: "orc", HP: 10})
		assert.True(t, xerrors.HasCode(err, xerrors.CodeMonsterNameExists))
	})
}

func TestMonsterService_GetMonster(t *testing.T) {
	ctx := context.Background()

	t.Run("不存在时返回带 ID 的错误", func(t *testing.T) {
		svc := newTestMonsterService(newFakeMonsterRepo(), nil)

		_, err := svc.GetMonster(ctx, "missing")
		appErr, ok := xerrors.As(err)
		require.True(t, ok)
		assert.Equal(t, xerrors.CodeMonsterNotFound, appErr.Code)
		assert.Equal(t, "The monster with ID = missing not found.", appErr.Message)
	})

	t.Run("第二次读取命中缓存", func(t *testing.T) {
		cache := newRecordingCache()
		svc := newTestMonsterService(newFakeMonsterRepo(testMonster("m-1", "Orc", 1, 1, 1, 1)), cache)

		_, err := svc.GetMonster(ctx, "m-1")
		require.NoError(t, err)
		_, err = svc.GetMonster(ctx, "m-1")
		require.NoError(t, err)
		assert.Equal(t, 1, cache.hits)
	})
}

func TestMonsterService_UpdateMonster(t *testing.T) {
	ctx := context.Background()
	cache := newRecordingCache()
	repo := newFakeMonsterRepo(testMonster("m-1", "Orc", 10, 5, 50, 3))
	svc := newTestMonsterService(repo, cache)

	attack := 99
	updated, err := svc.UpdateMonster(ctx, "m-1", &UpdateMonsterInput{Attack: &attack})
	require.NoError(t, err)
	assert.Equal(t, 99, updated.Attack)
	assert.Equal(t, 5, updated.Defense)
	assert.Equal(t, []string{"m-1"}, cache.invalidated)

	_, err = svc.UpdateMonster(ctx, "missing", &UpdateMonsterInput{Attack: &attack})
	assert.True(t, xerrors.HasCode(err, xerrors.CodeMonsterNotFound))

	t.Run("图片地址不合法", func(t *testing.T) {
		bad := "not a url"
		_, err := svc.UpdateMonster(ctx, "m-1", &UpdateMonsterInput{ImageURL: &bad})
		assert.True(t, xerrors.HasCode(err, xerrors.CodeInvalidParams))

		got, err := svc.GetMonster(ctx, "m-1")
		require.NoError(t, err)
		assert.False(t, got.ImageURL.Valid)
	})

	t.Run("失效前读到的旧数据不会写回缓存", func(t *testing.T) {
		cache := newRecordingCache()
		repo := newFakeMonsterRepo(testMonster("m-2", "Goblin", 10, 5, 50, 3))
		svc := newTestMonsterService(repo, cache)

		stale, err := repo.GetByID(ctx, "m-2")
		require.NoError(t, err)

		attack := 42
		_, err = svc.UpdateMonster(ctx, "m-2", &UpdateMonsterInput{Attack: &attack})
		require.NoError(t, err)
		cache.Set(ctx, stale)

		got, err := svc.GetMonster(ctx, "m-2")
		require.NoError(t, err)
		assert.Equal(t, 42, got.Attack)
	})
}

func TestMonsterService_DeleteMonster(t *testing.T) {
	ctx := context.Background()
	svc := newTestMonsterService(newFakeMonsterRepo(testMonster("m-1", "Orc", 1, 1, 1, 1)), nil)

	require.NoError(t, svc.DeleteMonster(ctx, "m-1"))

	err := svc.DeleteMonster(ctx, "m-1")
	assert.True(t, xerrors.HasCode(err, xerrors.CodeMonsterNotFound))
	_, err = svc.GetMonster(ctx, "m-1")
	assert.True(t, xerrors.HasCode(err, xerrors.CodeMonsterNotFound))
}

func TestMonsterService_ListMonsters(t *testing.T) {
	repo := newFakeMonsterRepo(
		testMonster("m-1", "Orc", 1, 1, 1, 1),
		testMonster("m-2", "Red Dragon", 1, 1, 1, 1),
		testMonster("m-3", "Blue Dragon", 1, 1, 1, 1),
	)
	svc := newTestMonsterService(repo, nil)

	page, err := svc.ListMonsters(context.Background(), ListMonstersInput{Name: "dragon", Limit: 1})
	require.NoError(t, err)
	assert.EqualValues(t, 2, page.Total)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Blue Dragon", page.Items[0].Name)
}

func TestMonsterService_ImportMonsters(t *testing.T) {
	ctx := context.Background()
	service := metrics.GetServiceName()

	t.Run("合法文件全部导入", func(t *testing.T) {
		repo := newFakeMonsterRepo()
		svc := newTestMonsterService(repo, nil)
		before := testutil.ToFloat64(metrics.DefaultBusinessMetrics.MonstersImportedTotal.WithLabelValues(service))

		imported, err := svc.ImportMonsters(ctx, strings.NewReader(
			"name,attack,defense,hp,speed,imageUrl\nOrc,1,1,1,1,\nGoblin,2,2,2,2,\n"))
		require.NoError(t, err)
		assert.Len(t, imported, 2)
		assert.Equal(t, 2, repo.count())
		assert.Equal(t, before+2, testutil.ToFloat64(metrics.DefaultBusinessMetrics.MonstersImportedTotal.WithLabelValues(service)))
	})

	t.Run("任一行不合法则不写入", func(t *testing.T) {
		repo := newFakeMonsterRepo()
		svc := newTestMonsterService(repo, nil)
		before := testutil.ToFloat64(metrics.DefaultBusinessMetrics.MonsterImportsTotal.WithLabelValues("rejected", service))

		_, err := svc.ImportMonsters(ctx, strings.NewReader(
			"name,attack,defense,hp,speed,imageUrl\nOrc,1,1,1,1,\nGoblin,x,2,2,2,\n"))
		assert.True(t, xerrors.HasCode(err, xerrors.CodeCSVInvalidRow))
		assert.Zero(t, repo.count())
		assert.Equal(t, before+1, testutil.ToFloat64(metrics.DefaultBusinessMetrics.MonsterImportsTotal.WithLabelValues("rejected", service)))
	})

	t.Run("与已有怪物重名时整体回滚", func(t *testing.T) {
		repo := newFakeMonsterRepo(testMonster("m-1", "Goblin", 1, 1, 1, 1))
		svc := newTestMonsterService(repo, nil)

		_, err := svc.ImportMonsters(ctx, strings.NewReader(
			"name,attack,defense,hp,speed,imageUrl\nOrc,1,1,1,1,\nGoblin,2,2,2,2,\n"))
		assert.True(t, xerrors.HasCode(err, xerrors.CodeMonsterNameExists))
		assert.Equal(t, 1, repo.count())
	})

	t.Run("数据库错误", func(t *testing.T) {
		repo := newFakeMonsterRepo()
		repo.createErr = errors.New("connection reset")
		svc := newTestMonsterService(repo, nil)

		_, err := svc.ImportMonsters(ctx, strings.NewReader("name,attack,defense,hp,speed,imageUrl\nOrc,1,1,1,1,\n"))
		assert.True(t, xerrors.HasCode(err, xerrors.CodeDatabaseError))
	})
}

func TestMonsterService_LookupMonsters(t *testing.T) {
	ctx := context.Background()
	cache := newRecordingCache()
	repo := newFakeMonsterRepo(
		testMonster("m-1", "Orc", 1, 1, 1, 1),
		testMonster("m-2", "Goblin", 1, 1, 1, 1),
	)
	svc := newTestMonsterService(repo, cache)

	found, err := svc.LookupMonsters(ctx, "m-1", "m-2", "missing")
	require.NoError(t, err)
	assert.Len(t, found, 2)
	assert.Equal(t, 1, repo.getByIDs)

	// 全部命中缓存时不查库
	found, err = svc.LookupMonsters(ctx, "m-1", "m-2")
	require.NoError(t, err)
	assert.Len(t, found, 2)
	assert.Equal(t, 1, repo.getByIDs)
}
