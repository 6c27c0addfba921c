// Package metrics expõe contadores Prometheus da API em /metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics agrupa o registry e os coletores da aplicação.
type Metrics struct {
	registry         *prometheus.Registry
	handler          http.Handler
	requestsTotal    *prometheus.CounterVec
	requestDuration  *prometheus.HistogramVec
	stockAdjustments *prometheus.CounterVec
	stockVariants    prometheus.Counter
	fallbackServed   *prometheus.CounterVec
}

// New cria um registry próprio (sem os coletores globais) com as métricas da API.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "saborstock_http_requests_total",
		Help: "Requisições HTTP por rota e status.",
	}, []string{"route", "code"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "saborstock_http_request_duration_seconds",
		Help:    "Duração das requisições HTTP por rota.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})
	adjustments := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "saborstock_stock_adjustments_total",
		Help: "Execuções do ajuste de estoque por status (inclui error).",
	}, []string{"status"})
	variants := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "saborstock_stock_variant_updates_total",
		Help: "Sabores com quantidade alterada pelo ajuste de estoque.",
	})
	fallback := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "saborstock_fallback_responses_total",
		Help: "Respostas servidas com dados de exemplo após erro no banco.",
	}, []string{"resource"})
	registry.MustRegister(requests, duration, adjustments, variants, fallback)
	return &Metrics{
		registry:         registry,
		handler:          promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestsTotal:    requests,
		requestDuration:  duration,
		stockAdjustments: adjustments,
		stockVariants:    variants,
		fallbackServed:   fallback,
	}
}

// Handler devolve o http.Handler de /metrics.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// Middleware registra contagem e duração por rota (padrão do ServeMux).
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		route := r.Pattern
		if route == "" {
			route = "unknown"
		}
		m.requestsTotal.WithLabelValues(route, strconv.Itoa(rec.status)).Inc()
		m.requestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}

// ObserveStockAdjustment conta uma execução do ajuste de estoque.
func (m *Metrics) ObserveStockAdjustment(status string, variantUpdates int) {
	if m == nil {
		return
	}
	m.stockAdjustments.WithLabelValues(status).Inc()
	m.stockVariants.Add(float64(variantUpdates))
}

// ObserveFallback conta uma resposta servida a partir dos dados de exemplo.
func (m *Metrics) ObserveFallback(resource string) {
	if m == nil {
		return
	}
	m.fallbackServed.WithLabelValues(resource).Inc()
}

// Registry expõe o registry (usado em testes).
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
