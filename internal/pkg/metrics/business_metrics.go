// File: internal/pkg/metrics/business_metrics.go
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// 战斗结果标签
const (
	OutcomeFirstActorWon  = "first_actor"
	OutcomeSecondActorWon = "second_actor"
)

// BusinessMetrics 战斗业务指标收集器
type BusinessMetrics struct {
	// 战斗次数（按胜者是先手还是后手分组）
	BattlesTotal *prometheus.CounterVec

	// 战斗回合数分布
	BattleRounds *prometheus.HistogramVec

	// 单场战斗结算耗时（含持久化）
	BattleDuration *prometheus.HistogramVec

	// CSV 导入次数（按结果分组：success/rejected）
	MonsterImportsTotal *prometheus.CounterVec

	// 成功导入的怪物数
	MonstersImportedTotal *prometheus.CounterVec

	// 定时任务清理的战斗记录数
	BattlesPurgedTotal *prometheus.CounterVec
}

var (
	// DefaultBusinessMetrics 默认的业务指标实例
	DefaultBusinessMetrics *BusinessMetrics
)

// BattleDurationBuckets 战斗结算是纯计算加一次写库，预期在毫秒级
// 单位：秒
var BattleDurationBuckets = []float64{
	0.001, // 1ms
	0.005, // 5ms
	0.01,  // 10ms
	0.05,  // 50ms
	0.1,   // 100ms
	0.5,   // 500ms
	1,     // 1s
}

// BattleRoundBuckets 回合数 buckets
var BattleRoundBuckets = []float64{1, 2, 3, 5, 8, 13, 21, 50, 100, 1000}

func init() {
	DefaultBusinessMetrics = NewBusinessMetrics(DefaultNamespace)
}

// NewBusinessMetrics 创建新的业务指标收集器
func NewBusinessMetrics(namespace string) *BusinessMetrics {
	return NewBusinessMetricsWithRegistry(namespace, GetRegisterer())
}

// NewBusinessMetricsWithRegistry 创建新的业务指标收集器（使用自定义注册表）
func NewBusinessMetricsWithRegistry(namespace string, registerer prometheus.Registerer) *BusinessMetrics {
	factory := promauto.With(registerer)

	return &BusinessMetrics{
		BattlesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "battle",
				Name:      "battles_total",
				Help:      "Total number of resolved battles by winning side (first_actor/second_actor)",
			},
			[]string{"outcome", "service"},
		),

		BattleRounds: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "battle",
				Name:      "rounds",
				Help:      "Number of rounds per resolved battle",
				Buckets:   BattleRoundBuckets,
			},
			[]string{"service"},
		),

		BattleDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "battle",
				Name:      "resolve_duration_seconds",
				Help:      "Battle resolution duration in seconds, persistence included",
				Buckets:   BattleDurationBuckets,
			},
			[]string{"service"},
		),

		MonsterImportsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "battle",
				Name:      "monster_imports_total",
				Help:      "Total number of CSV monster imports by result (success/rejected)",
			},
			[]string{"result", "service"},
		),

		MonstersImportedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "battle",
				Name:      "monsters_imported_total",
				Help:      "Total number of monsters created through CSV import",
			},
			[]string{"service"},
		),

		BattlesPurgedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "battle",
				Name:      "battles_purged_total",
				Help:      "Total number of soft-deleted battles permanently removed",
			},
			[]string{"service"},
		),
	}
}

// RecordBattle 记录一场已结算的战斗
//
// 参数:
//   - outcome: OutcomeFirstActorWon 或 OutcomeSecondActorWon
//   - rounds: 回合数
//   - duration: 结算耗时
//   - service: 服务名称
func (m *BusinessMetrics) RecordBattle(outcome string, rounds int, duration time.Duration, service string) {
	service = normalizeServiceName(service)
	m.BattlesTotal.WithLabelValues(outcome, service).Inc()
	m.BattleRounds.WithLabelValues(service).Observe(float64(rounds))
	m.BattleDuration.WithLabelValues(service).Observe(duration.Seconds())
}

// RecordMonsterImport 记录一次 CSV 导入，被拒绝的导入不会写入任何怪物
func (m *BusinessMetrics) RecordMonsterImport(imported int, success bool, service string) {
	service = normalizeServiceName(service)
	if !success {
		m.MonsterImportsTotal.WithLabelValues("rejected", service).Inc()
		return
	}
	m.MonsterImportsTotal.WithLabelValues("success", service).Inc()
	m.MonstersImportedTotal.WithLabelValues(service).Add(float64(imported))
}

// RecordBattlesPurged 记录清理的战斗数
func (m *BusinessMetrics) RecordBattlesPurged(count int64, service string) {
	if count <= 0 {
		return
	}
	service = normalizeServiceName(service)
	m.BattlesPurgedTotal.WithLabelValues(service).Add(float64(count))
}
