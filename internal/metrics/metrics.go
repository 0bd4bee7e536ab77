// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector はPrometheusメトリクスを収集する実装。
// HTTP層・リポジトリ層・イベント発行から利用する。
type Collector struct {
	httpRequests    *prometheus.CounterVec
	httpDuration    *prometheus.HistogramVec
	authFailures    *prometheus.CounterVec
	cacheResults    *prometheus.CounterVec
	eventsPublished *prometheus.CounterVec
	usersRegistered prometheus.Counter
	productsCreated prometheus.Counter
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cartify_http_requests_total",
			Help: "ルート・メソッド・ステータス別のHTTPリクエスト数",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "cartify_http_request_duration_seconds",
			Help:    "HTTPリクエストの処理時間（秒）",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		authFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cartify_auth_failures_total",
			Help: "理由別の認証失敗数",
		}, []string{"reason"}),
		cacheResults: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cartify_cache_requests_total",
			Help: "キャッシュ参照結果（hit/miss/error）の数",
		}, []string{"cache", "result"}),
		eventsPublished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cartify_events_published_total",
			Help: "イベント種別・結果別の発行数",
		}, []string{"type", "result"}),
		usersRegistered: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cartify_users_registered_total",
			Help: "登録されたユーザーの合計数",
		}),
		productsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cartify_products_created_total",
			Help: "作成された商品の合計数",
		}),
	}

	reg.MustRegister(
		c.httpRequests,
		c.httpDuration,
		c.authFailures,
		c.cacheResults,
		c.eventsPublished,
		c.usersRegistered,
		c.productsCreated,
	)

	return c
}

// RecordHTTPRequest は1リクエストのステータスと処理時間を記録する。
func (c *Collector) RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	c.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.httpDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordAuthFailure は認証失敗を記録する。
func (c *Collector) RecordAuthFailure(reason string) {
	c.authFailures.WithLabelValues(reason).Inc()
}

// RecordCacheResult はキャッシュの参照結果を記録する。
func (c *Collector) RecordCacheResult(cacheName, result string) {
	c.cacheResults.WithLabelValues(cacheName, result).Inc()
}

// RecordEventPublished はイベント発行の結果を記録する。
func (c *Collector) RecordEventPublished(eventType, result string) {
	c.eventsPublished.WithLabelValues(eventType, result).Inc()
}

// RecordUserRegistered はユーザー登録を記録する。
func (c *Collector) RecordUserRegistered() {
	c.usersRegistered.Inc()
}

// RecordProductCreated は商品作成を記録する。
func (c *Collector) RecordProductCreated() {
	c.productsCreated.Inc()
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
