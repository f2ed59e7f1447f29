package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"battle-of-monsters/internal/pkg/metrics"

	"github.com/redis/go-redis/v9"
)

// ErrCacheMiss 键不存在
var ErrCacheMiss = errors.New("redis: cache miss")

// setUnlessFenced 栅栏键存在时不写入，返回 1 表示已写入
var setUnlessFenced = redis.NewScript(`
if redis.call("EXISTS", KEYS[2]) == 1 then
	return 0
end
redis.call("SET", KEYS[1], ARGV[1], "PX", ARGV[2])
return 1
`)

// FenceKey 删除 key 后短时间内阻止回填的栅栏键
func FenceKey(key string) string {
	return key + ":fence"
}

// Config Redis 配置
type Config struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// Addr 返回 host:port
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Client Redis 客户端封装，所有操作都记录指标
type Client struct {
	*redis.Client
	service string
}

// NewClient 创建 Redis 客户端并检查连通性
func NewClient(cfg Config, service string) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("Redis 连接失败: %w", err)
	}

	return wrap(rdb, service), nil
}

func wrap(rdb *redis.Client, service string) *Client {
	if service == "" {
		service = metrics.GetServiceName()
	}
	return &Client{Client: rdb, service: service}
}

// observe 记录单次操作的指标
func (c *Client) observe(operation string, start time.Time, err error) {
	metrics.DefaultResourceMetrics.RecordRedisOperation(operation, err == nil || errors.Is(err, redis.Nil), time.Since(start), c.service)
	switch {
	case err == nil:
	case errors.Is(err, redis.Nil):
		metrics.DefaultResourceMetrics.RecordRedisError("nil", c.service)
	default:
		metrics.DefaultResourceMetrics.RecordRedisError("operation_error", c.service)
	}
}

// GetJSON 读取并解码 JSON 值，键不存在时返回 ErrCacheMiss
func (c *Client) GetJSON(ctx context.Context, key string, dest any) error {
	start := time.Now()
	data, err := c.Get(ctx, key).Bytes()
	c.observe("GET", start, err)
	if errors.Is(err, redis.Nil) {
		return ErrCacheMiss
	}
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("unmarshal cache value for %s: %w", key, err)
	}
	return nil
}

// SetJSONUnlessFenced 以 JSON 编码写入并带过期时间，key 的栅栏存在时跳过写入
//
// 检查与写入在同一脚本中原子执行，失效前读到的旧值在失效后到达时会被丢弃。
func (c *Client) SetJSONUnlessFenced(ctx context.Context, key string, value any, ttl time.Duration) (bool, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return false, fmt.Errorf("marshal cache value for %s: %w", key, err)
	}

	start := time.Now()
	written, err := setUnlessFenced.Run(ctx, c.Client, []string{key, FenceKey(key)}, data, ttl.Milliseconds()).Int()
	c.observe("SET_UNLESS_FENCED", start, err)
	if err != nil {
		return false, err
	}
	return written == 1, nil
}

// DeleteWithFence 删除键并为每个键设置 fenceTTL 的栅栏，两步在同一事务中完成
func (c *Client) DeleteWithFence(ctx context.Context, fenceTTL time.Duration, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	start := time.Now()
	_, err := c.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, keys...)
		for _, key := range keys {
			pipe.Set(ctx, FenceKey(key), 1, fenceTTL)
		}
		return nil
	})
	c.observe("DEL_FENCE", start, err)
	return err
}

// RecordPoolStats 上报连接池状态
func (c *Client) RecordPoolStats() {
	stats := c.PoolStats()
	metrics.DefaultResourceMetrics.RecordRedisPoolStats(int(stats.TotalConns), int(stats.IdleConns), int(stats.StaleConns), c.service)
}
