// File: internal/pkg/metrics/resource_metrics_test.go
package metrics

import (
	"database/sql"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestResourceMetrics_RecordSQLDBStats(t *testing.T) {
	m := NewResourceMetricsWithRegistry("test", prometheus.NewRegistry())

	stats := sql.DBStats{
		MaxOpenConnections: 25,
		OpenConnections:    10,
		InUse:              4,
		Idle:               6,
		WaitCount:          100,
		WaitDuration:       time.Second,
	}
	// 累计值重复采集不应翻倍
	m.RecordSQLDBStats("battle", "postgres", stats)
	m.RecordSQLDBStats("battle", "postgres", stats)

	assert.Equal(t, float64(10), testutil.ToFloat64(m.DBConnections.WithLabelValues("battle", "postgres", "open")))
	assert.Equal(t, float64(4), testutil.ToFloat64(m.DBConnections.WithLabelValues("battle", "postgres", "in_use")))
	assert.Equal(t, float64(6), testutil.ToFloat64(m.DBIdleConnections.WithLabelValues("battle", "postgres")))
	assert.Equal(t, float64(25), testutil.ToFloat64(m.DBMaxConnections.WithLabelValues("battle", "postgres")))
	assert.Equal(t, float64(100), testutil.ToFloat64(m.DBWaitCount.WithLabelValues("battle", "postgres")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.DBWaitDuration.WithLabelValues("battle", "postgres")))
}

func TestResourceMetrics_RecordRedisOperation(t *testing.T) {
	tests := []struct {
		name       string
		operation  string
		success    bool
		wantResult string
	}{
		{name: "缓存读取成功", operation: "GET", success: true, wantResult: "success"},
		{name: "缓存写入失败", operation: "SET", success: false, wantResult: "error"},
		{name: "缓存删除成功", operation: "DEL", success: true, wantResult: "success"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewResourceMetricsWithRegistry("test", prometheus.NewRegistry())

			m.RecordRedisOperation(tt.operation, tt.success, 2*time.Millisecond, "battle")

			count := testutil.ToFloat64(m.RedisOperations.WithLabelValues(tt.operation, tt.wantResult, "battle"))
			assert.Equal(t, float64(1), count)
		})
	}
}

func TestResourceMetrics_RedisErrorsAndPool(t *testing.T) {
	m := NewResourceMetricsWithRegistry("test", prometheus.NewRegistry())

	m.RecordRedisError("timeout", "battle")
	m.RecordRedisError("timeout", "battle")
	m.RecordRedisPoolStats(10, 3, 1, "battle")

	assert.Equal(t, float64(2), testutil.ToFloat64(m.RedisErrors.WithLabelValues("timeout", "battle")))
	assert.Equal(t, float64(10), testutil.ToFloat64(m.RedisConnectionPool.WithLabelValues("total", "battle")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.RedisConnectionPool.WithLabelValues("stale", "battle")))
	assert.Equal(t, float64(7), testutil.ToFloat64(m.RedisConnectionPool.WithLabelValues("active", "battle")))
}
