package metrics

import (
	"runtime"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsCollector 指标收集器
type MetricsCollector struct {
	// HTTP 指标
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// 数据库指标
	dbQueryDuration *prometheus.HistogramVec
	dbErrorsTotal   *prometheus.CounterVec

	// 缓存指标
	cacheHitsTotal   *prometheus.CounterVec
	cacheMissesTotal *prometheus.CounterVec

	// 业务指标
	votesCastTotal      *prometheus.CounterVec // action: created/changed/removed
	badgesAwardedTotal  prometheus.Counter
	reputationRecompute prometheus.Counter
	tallyRecompute      prometheus.Counter

	// 应用指标
	activeGoroutines prometheus.Gauge
}

var (
	globalCollector *MetricsCollector
	collectorOnce   sync.Once
)

// GetGlobalCollector 获取全局指标收集器（单例）
func GetGlobalCollector() *MetricsCollector {
	collectorOnce.Do(func() {
		globalCollector = newMetricsCollector()
	})
	return globalCollector
}

func newMetricsCollector() *MetricsCollector {
	return &MetricsCollector{
		httpRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status"},
		),
		httpRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),
		dbQueryDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "db_query_duration_seconds",
				Help:    "Database query duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		dbErrorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "db_errors_total",
				Help: "Total number of database errors",
			},
			[]string{"operation"},
		),
		cacheHitsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cache_hits_total",
				Help: "Total number of cache hits",
			},
			[]string{"cache"},
		),
		cacheMissesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cache_misses_total",
				Help: "Total number of cache misses",
			},
			[]string{"cache"},
		),
		votesCastTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "forum_votes_cast_total",
				Help: "Total number of votes cast, by resulting action",
			},
			[]string{"action", "target_type"},
		),
		badgesAwardedTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "forum_badges_awarded_total",
				Help: "Total number of badges awarded",
			},
		),
		reputationRecompute: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "forum_reputation_recomputes_total",
				Help: "Total number of user reputation recomputations",
			},
		),
		tallyRecompute: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "forum_tally_recomputes_total",
				Help: "Total number of vote tally recomputations",
			},
		),
		activeGoroutines: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "app_goroutines",
				Help: "Number of active goroutines",
			},
		),
	}
}

// RecordHTTPRequest 记录 HTTP 请求
func (mc *MetricsCollector) RecordHTTPRequest(method, endpoint, status string, duration time.Duration) {
	mc.httpRequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	mc.httpRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordDBQuery 记录数据库查询
func (mc *MetricsCollector) RecordDBQuery(operation string, duration time.Duration, err error) {
	mc.dbQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
	if err != nil {
		mc.dbErrorsTotal.WithLabelValues(operation).Inc()
	}
}

// RecordCacheHit 记录缓存命中
func (mc *MetricsCollector) RecordCacheHit(cache string) {
	mc.cacheHitsTotal.WithLabelValues(cache).Inc()
}

// RecordCacheMiss 记录缓存未命中
func (mc *MetricsCollector) RecordCacheMiss(cache string) {
	mc.cacheMissesTotal.WithLabelValues(cache).Inc()
}

// RecordVoteCast 记录投票动作
func (mc *MetricsCollector) RecordVoteCast(action, targetType string) {
	mc.votesCastTotal.WithLabelValues(action, targetType).Inc()
}

// RecordBadgeAwarded 记录勋章授予
func (mc *MetricsCollector) RecordBadgeAwarded(n int) {
	for i := 0; i < n; i++ {
		mc.badgesAwardedTotal.Inc()
	}
}

// RecordReputationRecompute 记录声望重算
func (mc *MetricsCollector) RecordReputationRecompute() {
	mc.reputationRecompute.Inc()
}

// RecordTallyRecompute 记录票数重算
func (mc *MetricsCollector) RecordTallyRecompute() {
	mc.tallyRecompute.Inc()
}

// UpdateRuntimeMetrics 更新运行时指标
func (mc *MetricsCollector) UpdateRuntimeMetrics() {
	mc.activeGoroutines.Set(float64(runtime.NumGoroutine()))
}
