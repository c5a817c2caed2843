// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector はメトリクス収集のインターフェース。
// ハンドラーやワーカーから利用する。
type MetricsCollector interface {
	RecordHTTPStatus(statusCode int)
	RecordRequestLatency(duration time.Duration)
	RecordLoginSuccess()
	RecordLoginFailure()
	RecordMailDelivery(success bool)
	RecordPresignIssued(kind string)
	RecordStaleMaterialsDeleted(count int64)
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	httpStatus     *prometheus.CounterVec
	requestLatency prometheus.Histogram
	loginSuccess   prometheus.Counter
	loginFail      prometheus.Counter
	mailDelivery   *prometheus.CounterVec
	presignIssued  *prometheus.CounterVec
	staleDeleted   prometheus.Counter
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gakuen_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
		requestLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "gakuen_request_latency_seconds",
			Help:    "リクエスト処理のレイテンシ（秒）",
			Buckets: prometheus.DefBuckets,
		}),
		loginSuccess: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gakuen_login_success_total",
			Help: "ログイン成功の合計数",
		}),
		loginFail: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gakuen_login_fail_total",
			Help: "ログイン失敗の合計数",
		}),
		mailDelivery: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gakuen_mail_delivery_total",
			Help: "問い合わせメール送信の結果別合計数",
		}, []string{"result"}),
		presignIssued: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gakuen_presign_issued_total",
			Help: "発行した署名付きURLの種別別合計数",
		}, []string{"kind"}),
		staleDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gakuen_stale_materials_deleted_total",
			Help: "クリーンアップで削除した未確認教材の合計数",
		}),
	}

	reg.MustRegister(
		c.httpStatus,
		c.requestLatency,
		c.loginSuccess,
		c.loginFail,
		c.mailDelivery,
		c.presignIssued,
		c.staleDeleted,
	)

	return c
}

// RecordHTTPStatus はHTTPステータスコードを記録する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// RecordRequestLatency はリクエスト処理のレイテンシを記録する。
func (c *Collector) RecordRequestLatency(duration time.Duration) {
	c.requestLatency.Observe(duration.Seconds())
}

// RecordLoginSuccess はログイン成功を記録する。
func (c *Collector) RecordLoginSuccess() {
	c.loginSuccess.Inc()
}

// RecordLoginFailure はログイン失敗を記録する。
// 失敗理由は資格情報の秘匿のためラベルに含めない。
func (c *Collector) RecordLoginFailure() {
	c.loginFail.Inc()
}

// RecordMailDelivery はメール送信の結果を記録する。
func (c *Collector) RecordMailDelivery(success bool) {
	result := "success"
	if !success {
		result = "failure"
	}
	c.mailDelivery.WithLabelValues(result).Inc()
}

// RecordPresignIssued は署名付きURLの発行を記録する。
// kindは"material_upload"、"material_download"、"application_attachment"のいずれか。
func (c *Collector) RecordPresignIssued(kind string) {
	c.presignIssued.WithLabelValues(kind).Inc()
}

// RecordStaleMaterialsDeleted はクリーンアップで削除した教材数を記録する。
func (c *Collector) RecordStaleMaterialsDeleted(count int64) {
	c.staleDeleted.Add(float64(count))
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// SetupMetricsRoute は/metricsエンドポイントを提供するHTTPハンドラーを返す。
// ワーカーモードの独立リスナーで使用する。
func SetupMetricsRoute(gatherer prometheus.Gatherer) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler(gatherer))
	return mux
}
