package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"ct2d/pkg/types"
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

	backpressureTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ct2d",
			Subsystem: "http",
			Name:      "backpressure_total",
			Help:      "Total backpressure rejections (429)",
		},
		[]string{"reason"},
	)
)

func init() {
	prometheus.MustRegister(httpRequestsTotal, httpRequestDuration, httpInflight, backpressureTotal)
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

func (sr *statusRecorder) Flush() {
	if f, ok := sr.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
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

// IncrementBackpressure is called when returning 429 to the client
func IncrementBackpressure(reason string) {
	if reason == "" {
		reason = "unspecified"
	}
	backpressureTotal.WithLabelValues(reason).Inc()
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

// StatusProvider is the slice of the service the engine collector needs.
type StatusProvider interface {
	Status() types.StatusResponse
}

var (
	engineQueuedDesc = prometheus.NewDesc(
		prometheus.BuildFQName("ct2d", "engine", "queued_batches"),
		"Batches waiting in the native engine queue", []string{"model", "kind"}, nil)
	engineActiveDesc = prometheus.NewDesc(
		prometheus.BuildFQName("ct2d", "engine", "active_batches"),
		"Batches queued or being processed by the native engine", []string{"model", "kind"}, nil)
	engineReplicasDesc = prometheus.NewDesc(
		prometheus.BuildFQName("ct2d", "engine", "replicas"),
		"Model replicas in the native pool", []string{"model", "kind"}, nil)
)

// engineCollector exports the native engine gauges per loaded model. The
// values are read at scrape time from the service status snapshot.
type engineCollector struct {
	svc StatusProvider
}

// RegisterEngineMetrics registers the per-engine gauge collector for svc.
func RegisterEngineMetrics(svc StatusProvider) {
	prometheus.MustRegister(engineCollector{svc: svc})
}

func (engineCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- engineQueuedDesc
	ch <- engineActiveDesc
	ch <- engineReplicasDesc
}

func (c engineCollector) Collect(ch chan<- prometheus.Metric) {
	st := c.svc.Status()
	for _, e := range st.Engines {
		ch <- prometheus.MustNewConstMetric(engineQueuedDesc, prometheus.GaugeValue,
			float64(e.QueuedBatches), e.ModelID, e.Kind)
		ch <- prometheus.MustNewConstMetric(engineActiveDesc, prometheus.GaugeValue,
			float64(e.ActiveBatches), e.ModelID, e.Kind)
		ch <- prometheus.MustNewConstMetric(engineReplicasDesc, prometheus.GaugeValue,
			float64(e.Replicas), e.ModelID, e.Kind)
	}
}
