package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"battle-of-monsters/internal/entity"
	"battle-of-monsters/internal/pkg/log"
	redisClient "battle-of-monsters/internal/pkg/redis"
)

// invalidationFence 失效后拒绝回填的时长，需大于一次读库到写缓存的耗时
const invalidationFence = 5 * time.Second

// MonsterCache 怪物快照缓存，读失败一律按未命中处理
//
// Invalidate 之后的短时间内 Set 不生效，避免失效前读到的旧数据被并发请求写回。
type MonsterCache interface {
	Get(ctx context.Context, monsterID string) (*entity.Monster, bool)
	Set(ctx context.Context, monster *entity.Monster)
	Invalidate(ctx context.Context, monsterIDs ...string)
}

// NoopMonsterCache 不缓存（未配置 Redis 时使用）
type NoopMonsterCache struct{}

func (NoopMonsterCache) Get(context.Context, string) (*entity.Monster, bool) { return nil, false }
func (NoopMonsterCache) Set(context.Context, *entity.Monster)                {}
func (NoopMonsterCache) Invalidate(context.Context, ...string)               {}

// RedisMonsterCache 基于 Redis 的怪物缓存
type RedisMonsterCache struct {
	client *redisClient.Client
	ttl    time.Duration
	logger log.Logger
}

// NewRedisMonsterCache 创建 Redis 怪物缓存
func NewRedisMonsterCache(client *redisClient.Client, ttl time.Duration, logger log.Logger) *RedisMonsterCache {
	if logger == nil {
		logger = log.GetLogger()
	}
	return &RedisMonsterCache{client: client, ttl: ttl, logger: logger}
}

func monsterCacheKey(monsterID string) string {
	return fmt.Sprintf("battle:monster:%s", monsterID)
}

// Get 读取缓存
func (c *RedisMonsterCache) Get(ctx context.Context, monsterID string) (*entity.Monster, bool) {
	var monster entity.Monster
	err := c.client.GetJSON(ctx, monsterCacheKey(monsterID), &monster)
	if errors.Is(err, redisClient.ErrCacheMiss) {
		return nil, false
	}
	if err != nil {
		c.logger.WarnContext(ctx, "读取怪物缓存失败", log.String("monster_id", monsterID), log.Any("error", err))
		return nil, false
	}
	return &monster, true
}

// Set 写入缓存，已软删除的怪物不缓存
func (c *RedisMonsterCache) Set(ctx context.Context, monster *entity.Monster) {
	if monster == nil || monster.IsDeleted() {
		return
	}
	written, err := c.client.SetJSONUnlessFenced(ctx, monsterCacheKey(monster.ID), monster, c.ttl)
	if err != nil {
		c.logger.WarnContext(ctx, "写入怪物缓存失败", log.String("monster_id", monster.ID), log.Any("error", err))
		return
	}
	if !written {
		c.logger.DebugContext(ctx, "怪物缓存刚失效, 跳过回填", log.String("monster_id", monster.ID))
	}
}

// Invalidate 删除缓存
func (c *RedisMonsterCache) Invalidate(ctx context.Context, monsterIDs ...string) {
	keys := make([]string, 0, len(monsterIDs))
	for _, id := range monsterIDs {
		keys = append(keys, monsterCacheKey(id))
	}
	if err := c.client.DeleteWithFence(ctx, invalidationFence, keys...); err != nil {
		c.logger.WarnContext(ctx, "删除怪物缓存失败", log.Any("monster_ids", monsterIDs), log.Any("error", err))
	}
}
