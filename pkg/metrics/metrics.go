// Package metrics 提供基于Prometheus的业务与HTTP指标
//
// 指标分三类：
//   - HTTP：请求总数、耗时、并发数（由middleware.Metrics记录）
//   - 业务：下单成功/失败、下单耗时、订单状态变更、加购、图书检索、缓存命中
//   - 基础设施：熔断器状态、消息发布
//
// 使用方式：
//
//	metrics.InitMetrics()                                   // 进程启动时调用一次
//	router.GET("/metrics", gin.WrapH(promhttp.Handler()))  // 暴露抓取端点
//	metrics.IncCounter(metrics.OrdersPlacedTotal)           // 业务代码中记录
//
// 命名规范：Counter以_total结尾，Histogram以单位结尾（_seconds）。
// 标签只使用有限取值（method、status、result），不要用user_id、order_id做标签。
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	initOnce sync.Once

	// HTTP请求相关指标

	// HTTPRequestsTotal HTTP请求总数
	// 标签：method、path（路由模板，如/api/v1/books/:id）、status
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTPRequestDuration HTTP请求耗时
	HTTPRequestDuration *prometheus.HistogramVec

	// HTTPRequestsInProgress 正在处理的HTTP请求数
	HTTPRequestsInProgress prometheus.Gauge

	// 订单指标

	// OrdersPlacedTotal 下单成功总数
	OrdersPlacedTotal prometheus.Counter

	// OrdersFailedTotal 下单失败总数（事务回滚）
	OrdersFailedTotal prometheus.Counter

	// OrderPlacementDuration 下单事务耗时
	OrderPlacementDuration prometheus.Histogram

	// OrderStatusChangesTotal 订单状态变更总数
	// 标签：status（变更后的状态）
	OrderStatusChangesTotal *prometheus.CounterVec

	// 购物车与目录指标

	// CartItemsAddedTotal 加入购物车总次数
	CartItemsAddedTotal prometheus.Counter

	// BookSearchesTotal 图书检索总次数
	// 标签：filtered（true=至少一个检索字段，false=全量）
	BookSearchesTotal *prometheus.CounterVec

	// BookCacheRequestsTotal 图书详情缓存访问
	// 标签：result（hit/miss/error）
	BookCacheRequestsTotal *prometheus.CounterVec

	// 熔断器指标

	// CircuitBreakerState 熔断器状态（0=CLOSED, 1=OPEN, 2=HALF_OPEN）
	CircuitBreakerState *prometheus.GaugeVec

	// CircuitBreakerRequests 熔断器请求总数
	// 标签：name、result（success/failure/rejected）
	CircuitBreakerRequests *prometheus.CounterVec

	// 消息指标

	// MessagesPublishedTotal 消息发布总数
	// 标签：exchange、routing_key、result（success/failure）
	MessagesPublishedTotal *prometheus.CounterVec
)

// InitMetrics 注册全部指标，重复调用无副作用
func InitMetrics() {
	initOnce.Do(register)
}

func register() {
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP请求总数",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "http_request_duration_seconds",
			Help: "HTTP请求耗时（秒）",
			// 1ms、10ms、100ms、500ms、1s、5s、10s
			Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 10},
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInProgress = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_progress",
			Help: "正在处理的HTTP请求数",
		},
	)

	OrdersPlacedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "orders_placed_total",
			Help: "下单成功总数",
		},
	)

	OrdersFailedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "orders_failed_total",
			Help: "下单失败总数",
		},
	)

	OrderPlacementDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "order_placement_duration_seconds",
			Help: "下单事务耗时（秒）",
			// 下单涉及锁购物车、写订单、清空购物车，比普通查询慢
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10},
		},
	)

	OrderStatusChangesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "order_status_changes_total",
			Help: "订单状态变更总数",
		},
		[]string{"status"},
	)

	CartItemsAddedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cart_items_added_total",
			Help: "加入购物车总次数",
		},
	)

	BookSearchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "book_searches_total",
			Help: "图书检索总次数",
		},
		[]string{"filtered"},
	)

	BookCacheRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "book_cache_requests_total",
			Help: "图书详情缓存访问次数",
		},
		[]string{"result"},
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "熔断器状态（0=CLOSED, 1=OPEN, 2=HALF_OPEN）",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "熔断器请求总数",
		},
		[]string{"name", "result"},
	)

	MessagesPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "messages_published_total",
			Help: "消息发布总数",
		},
		[]string{"exchange", "routing_key", "result"},
	)
}

// =========================================
// 辅助函数
// =========================================
// 所有辅助函数在指标未初始化时静默跳过（单元测试中不必注册全局指标）

func IncCounter(counter prometheus.Counter) {
	if counter == nil {
		return
	}
	counter.Inc()
}

func IncCounterVec(counter *prometheus.CounterVec, labels map[string]string) {
	if counter == nil {
		return
	}
	counter.With(labels).Inc()
}

func IncGauge(gauge prometheus.Gauge) {
	if gauge == nil {
		return
	}
	gauge.Inc()
}

func DecGauge(gauge prometheus.Gauge) {
	if gauge == nil {
		return
	}
	gauge.Dec()
}

func SetGaugeVec(gauge *prometheus.GaugeVec, labels map[string]string, value float64) {
	if gauge == nil {
		return
	}
	gauge.With(labels).Set(value)
}

func ObserveHistogram(histogram prometheus.Histogram, value float64) {
	if histogram == nil {
		return
	}
	histogram.Observe(value)
}

func ObserveHistogramVec(histogram *prometheus.HistogramVec, labels map[string]string, value float64) {
	if histogram == nil {
		return
	}
	histogram.With(labels).Observe(value)
}
