package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsManager holds the application's Prometheus collectors.
type MetricsManager struct {
	Registry            *prometheus.Registry
	AdsCreatedTotal     prometheus.Counter
	AdUpdatesTotal      prometheus.Counter
	ImagesUploadedTotal prometheus.Counter
	ImagesFailedTotal   prometheus.Counter
	SignInsTotal        *prometheus.CounterVec
	APIErrorsTotal      *prometheus.CounterVec
	APILatency          *prometheus.HistogramVec
}

// NewMetricsManager creates the collectors and registers them on a fresh registry.
func NewMetricsManager(namespace string) *MetricsManager {
	registry := prometheus.NewRegistry()

	m := &MetricsManager{
		Registry: registry,
		AdsCreatedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ads_created_total",
			Help:      "Total number of ads inserted.",
		}),
		AdUpdatesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ad_updates_total",
			Help:      "Total number of ad updates, including image attachment and deactivation.",
		}),
		ImagesUploadedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "images_uploaded_total",
			Help:      "Total number of ad images stored.",
		}),
		ImagesFailedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "images_failed_total",
			Help:      "Total number of ad images dropped because their upload failed.",
		}),
		SignInsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sign_ins_total",
			Help:      "Sign-in attempts by outcome.",
		}, []string{"outcome"}),
		APIErrorsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "api_errors_total",
			Help:      "Total number of API errors by route and status code.",
		}, []string{"route", "status"}),
		APILatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "api_request_latency_seconds",
			Help:      "Latency of API requests by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	registry.MustRegister(
		m.AdsCreatedTotal,
		m.AdUpdatesTotal,
		m.ImagesUploadedTotal,
		m.ImagesFailedTotal,
		m.SignInsTotal,
		m.APIErrorsTotal,
		m.APILatency,
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
	)

	return m
}

func (m *MetricsManager) RecordAdCreated() {
	if m == nil {
		return
	}
	m.AdsCreatedTotal.Inc()
}

func (m *MetricsManager) RecordAdUpdated() {
	if m == nil {
		return
	}
	m.AdUpdatesTotal.Inc()
}

// RecordImages counts the outcome of one upload batch.
func (m *MetricsManager) RecordImages(uploaded, failed int) {
	if m == nil {
		return
	}
	m.ImagesUploadedTotal.Add(float64(uploaded))
	m.ImagesFailedTotal.Add(float64(failed))
}

func (m *MetricsManager) RecordSignIn(outcome string) {
	if m == nil {
		return
	}
	m.SignInsTotal.WithLabelValues(outcome).Inc()
}

// ObserveRequest records latency for every request and an error for 4xx/5xx.
func (m *MetricsManager) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.APILatency.WithLabelValues(method, route).Observe(elapsed.Seconds())
	if status >= http.StatusBadRequest {
		m.APIErrorsTotal.WithLabelValues(route, strconv.Itoa(status)).Inc()
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *MetricsManager) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}
