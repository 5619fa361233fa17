package supabase

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
)

var metricsOnce sync.Once

var sharedMetrics *clientMetrics

type clientMetrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	reqSize  *prometheus.HistogramVec
	respSize *prometheus.HistogramVec
}

func registerCounterVec(c *prometheus.CounterVec) *prometheus.CounterVec {
	if err := prometheus.Register(c); err != nil {
		if already, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := already.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing
			}
		}
		log.Warn().Err(err).Msg("prometheus: registro de counter fallido")
	}
	return c
}

func registerHistogramVec(c *prometheus.HistogramVec) *prometheus.HistogramVec {
	if err := prometheus.Register(c); err != nil {
		if already, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := already.ExistingCollector.(*prometheus.HistogramVec); ok {
				return existing
			}
		}
		log.Warn().Err(err).Msg("prometheus: registro de histograma fallido")
	}
	return c
}

func initMetrics() *clientMetrics {
	metricsOnce.Do(func() {
		sizeBuckets := []float64{100, 500, 1_000, 5_000, 10_000, 50_000, 100_000, 500_000, 1_000_000}
		sharedMetrics = &clientMetrics{
			requests: registerCounterVec(prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "gncci",
				Subsystem: "supabase_client",
				Name:      "requests_total",
				Help:      "Total de peticiones HTTP al backend.",
			}, []string{"target", "method", "status", "result"})),
			duration: registerHistogramVec(prometheus.NewHistogramVec(prometheus.HistogramOpts{
				Namespace: "gncci",
				Subsystem: "supabase_client",
				Name:      "request_duration_seconds",
				Help:      "Duración de las peticiones HTTP al backend.",
				Buckets:   prometheus.DefBuckets,
			}, []string{"target", "method", "result"})),
			reqSize: registerHistogramVec(prometheus.NewHistogramVec(prometheus.HistogramOpts{
				Namespace: "gncci",
				Subsystem: "supabase_client",
				Name:      "request_size_bytes",
				Help:      "Tamaño de los cuerpos enviados al backend.",
				Buckets:   sizeBuckets,
			}, []string{"target", "method"})),
			respSize: registerHistogramVec(prometheus.NewHistogramVec(prometheus.HistogramOpts{
				Namespace: "gncci",
				Subsystem: "supabase_client",
				Name:      "response_size_bytes",
				Help:      "Tamaño de las respuestas del backend.",
				Buckets:   sizeBuckets,
			}, []string{"target", "method"})),
		}
	})
	return sharedMetrics
}

func (m *clientMetrics) record(target, method string, statusCode int, err error, reqSize, respSize int, d time.Duration) {
	if m == nil {
		return
	}
	status := "error"
	if statusCode > 0 {
		status = strconv.Itoa(statusCode)
	}
	result := "success"
	if err != nil {
		result = "error"
	}
	m.requests.WithLabelValues(target, method, status, result).Inc()
	m.duration.WithLabelValues(target, method, result).Observe(d.Seconds())
	m.reqSize.WithLabelValues(target, method).Observe(float64(reqSize))
	m.respSize.WithLabelValues(target, method).Observe(float64(respSize))
}
