package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ct2d",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"path", "method", "status"},
	)

	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "ct2d",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"path", "method", "status"},
	)

	httpInflight = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "ct2d",
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "In-flight HTTP requests",
		},
		[]string{"path"},
	)
)

func init() {
	prometheus.MustRegister(httpRequestsTotal, httpRequestDuration, httpInflight)
}

// statusRecorder wraps http.ResponseWriter to capture status code
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.status = code
	sr.ResponseWriter.WriteHeader(code)
}

// MetricsMiddleware instruments requests for Prometheus
func MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := routePatternOrPath(r)
		method := r.Method
		httpInflight.WithLabelValues(path).Inc()
		defer httpInflight.WithLabelValues(path).Dec()

		sr := &statusRecorder{ResponseWriter: w, status: 200}
		start := time.Now()
		next.ServeHTTP(sr, r)
		statusLabel := itoa(sr.status)
		dur := time.Since(start).Seconds()
		httpRequestsTotal.WithLabelValues(path, method, statusLabel).Inc()
		httpRequestDuration.WithLabelValues(path, method, statusLabel).Observe(dur)
	})
}

// routePatternOrPath returns the chi route pattern if available, otherwise
// falls back to URL path. This avoids high-cardinality label values.
func routePatternOrPath(r *http.Request) string {
	if rc := chi.RouteContext(r.Context()); rc != nil {
		if p := rc.RoutePattern(); p != "" {
			return p
		}
	}
	return r.URL.Path
}

// fast integer to ascii for small set of status codes
func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var buf [4]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}

var (
	queuedBatchesDesc = prometheus.NewDesc(
		"ct2d_engine_queued_batches",
		"Batches waiting in the engine work queue, per loaded model",
		[]string{"model"}, nil,
	)
	activeBatchesDesc = prometheus.NewDesc(
		"ct2d_engine_active_batches",
		"Batches queued or currently processed, per loaded model",
		[]string{"model"}, nil,
	)
	replicasDesc = prometheus.NewDesc(
		"ct2d_engine_replicas",
		"Model replicas in the engine pool, per loaded model",
		[]string{"model"}, nil,
	)
	loadsTotalDesc = prometheus.NewDesc(
		"ct2d_engine_model_loads_total",
		"Total model loads performed by this process",
		nil, nil,
	)
)

// engineCollector exposes the engine queue counters by polling the service
// status on every scrape.
type engineCollector struct {
	svc Service
}

func (c engineCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- queuedBatchesDesc
	ch <- activeBatchesDesc
	ch <- replicasDesc
	ch <- loadsTotalDesc
}

func (c engineCollector) Collect(ch chan<- prometheus.Metric) {
	st := c.svc.Status()
	for _, r := range st.Runners {
		ch <- prometheus.MustNewConstMetric(queuedBatchesDesc, prometheus.GaugeValue, float64(r.QueuedBatches), r.ModelID)
		ch <- prometheus.MustNewConstMetric(activeBatchesDesc, prometheus.GaugeValue, float64(r.ActiveBatches), r.ModelID)
		ch <- prometheus.MustNewConstMetric(replicasDesc, prometheus.GaugeValue, float64(r.Replicas), r.ModelID)
	}
	ch <- prometheus.MustNewConstMetric(loadsTotalDesc, prometheus.CounterValue, float64(st.LoadsTotal))
}

// RegisterEngineMetrics registers the per-model queue gauges for svc.
// Safe to call more than once; later registrations are ignored.
func RegisterEngineMetrics(svc Service) {
	_ = prometheus.Register(engineCollector{svc: svc})
}
