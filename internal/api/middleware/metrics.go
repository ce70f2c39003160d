// metrics.go — métricas Prometheus das requisições HTTP do JudBox.
// Registra judbox_http_requests_total e judbox_http_request_duration_seconds.
// A normalização de caminhos evita a explosão de cardinalidade dos rótulos.
package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// httpRequestsTotal — total de requisições HTTP.
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "judbox_http_requests_total",
			Help: "Total de requisições HTTP atendidas pelo JudBox",
		},
		[]string{"method", "path", "status"},
	)

	// httpRequestDuration — histograma de duração das requisições.
	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "judbox_http_request_duration_seconds",
			Help:    "Duração das requisições HTTP do JudBox em segundos",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
)

// MetricsMiddleware devolve um middleware que coleta métricas Prometheus:
// contagem e duração por endpoint.
func MetricsMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			normalizedPath := normalizePath(r.URL.Path)

			wrapped := newMetricsResponseWriter(w)
			next.ServeHTTP(wrapped, r)

			duration := time.Since(start).Seconds()
			status := strconv.Itoa(wrapped.statusCode)

			httpRequestsTotal.WithLabelValues(r.Method, normalizedPath, status).Inc()
			httpRequestDuration.WithLabelValues(r.Method, normalizedPath).Observe(duration)
		})
	}
}

// metricsResponseWriter — invólucro para interceptar o status.
type metricsResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func newMetricsResponseWriter(w http.ResponseWriter) *metricsResponseWriter {
	return &metricsResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}
}

func (rw *metricsResponseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Unwrap permite ao http.ResponseController alcançar o ResponseWriter original.
func (rw *metricsResponseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

// normalizePath troca segmentos variáveis do caminho por marcadores fixos:
// /api/v1/caixas/<uuid> vira /api/v1/caixas/{id}, e o número livre de
// /api/v1/etiquetas/<numero> vira {numero}.
func normalizePath(path string) string {
	switch path {
	case "/health/live", "/health/ready", "/metrics",
		"/api/v1/export/csv", "/api/v1/relatorios", "/api/v1/pdf":
		return path
	}

	for _, prefixo := range []string{
		"/api/v1/caixas/",
		"/api/v1/processos/",
		"/api/v1/documentos-adm/",
	} {
		if resto, ok := strings.CutPrefix(path, prefixo); ok && resto != "" {
			// Depois do UUID pode vir um sub-recurso (ex.: /caixas/{id}/processos).
			if i := strings.IndexByte(resto, '/'); i >= 0 {
				return prefixo + "{id}" + resto[i:]
			}
			return prefixo + "{id}"
		}
	}

	if resto, ok := strings.CutPrefix(path, "/api/v1/etiquetas/"); ok && resto != "" {
		return "/api/v1/etiquetas/{numero}"
	}

	return path
}
