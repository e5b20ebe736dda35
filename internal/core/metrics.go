package core

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	RESULT_SUCCESS = "success"
	RESULT_FAILED  = "failed"
)

// Metrics keeps its collectors in a private registry so that several cores
// can live in one process.
type Metrics struct {
	registry *prometheus.Registry

	scrapeAttempts *prometheus.CounterVec
	llmCalls       *prometheus.CounterVec
	httpDuration   *prometheus.HistogramVec
}

func NewMetrics(namespace, subsystem string) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		scrapeAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "scrape_attempts_total",
			Help:      "Fetch attempts of paper pages by method and result",
		}, []string{"method", "result"}),
		llmCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "llm_calls_total",
			Help:      "LLM requests by purpose and result",
		}, []string{"purpose", "result"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.scrapeAttempts,
		m.llmCalls,
		m.httpDuration,
	)
	return m
}

func result(err error) string {
	if err != nil {
		return RESULT_FAILED
	}
	return RESULT_SUCCESS
}

func (m *Metrics) ObserveScrape(method string, err error) {
	m.scrapeAttempts.WithLabelValues(method, result(err)).Inc()
}

func (m *Metrics) ObserveLLM(purpose string, err error) {
	m.llmCalls.WithLabelValues(purpose, result(err)).Inc()
}

func (m *Metrics) ObserveHTTP(method, route string, status int, latency time.Duration) {
	m.httpDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(latency.Seconds())
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
