// Package metrics содержит prometheus-метрики сервиса конвертации.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ossconvert_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)
	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ossconvert_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)
	conversionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ossconvert_url_conversions_total",
			Help: "Total number of URL conversion outcomes",
		},
		[]string{"status"},
	)
	tasksStarted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ossconvert_tasks_started_total",
			Help: "Total number of conversion tasks launched",
		},
	)
	uploadBytes = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ossconvert_upload_bytes_total",
			Help: "Total bytes uploaded to object storage",
		},
	)
)

// RecordConversion учитывает терминальный исход одного URL
func RecordConversion(status string) {
	conversionsTotal.WithLabelValues(status).Inc()
}

// RecordTaskStarted учитывает запуск фоновой задачи
func RecordTaskStarted() {
	tasksStarted.Inc()
}

// RecordUpload учитывает прямую загрузку файла
func RecordUpload(size int) {
	uploadBytes.Add(float64(size))
}

// RequestMiddleware считает запросы и их длительность по endpoint'ам
func RequestMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = c.Request.URL.Path
		}

		httpRequestsTotal.WithLabelValues(
			c.Request.Method,
			endpoint,
			strconv.Itoa(c.Writer.Status()),
		).Inc()
		httpRequestDuration.WithLabelValues(c.Request.Method, endpoint).
			Observe(time.Since(start).Seconds())
	}
}

// Handler отдает метрики в формате prometheus
func Handler() http.Handler {
	return promhttp.Handler()
}
