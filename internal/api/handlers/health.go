// health.go — endpoints de saúde do JudBox.
// /health/live — prova de vida (processo no ar)
// /health/ready — prontidão (PostgreSQL alcançável)
// /metrics — métricas Prometheus
package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tre-pb/judbox/internal/config"
)

// ReadinessChecker — verificação de prontidão de uma dependência.
type ReadinessChecker interface {
	// CheckReady retorna o status ("ok", "degraded", "fail") e uma mensagem.
	CheckReady() (status, message string)
}

// HealthHandler — endpoints de saúde.
type HealthHandler struct {
	pgChecker   ReadinessChecker
	promHandler http.Handler
}

// NewHealthHandler cria o handler de saúde.
// pgChecker — verificação do PostgreSQL (nil faz a prontidão responder "fail").
func NewHealthHandler(pgChecker ReadinessChecker) *HealthHandler {
	return &HealthHandler{
		pgChecker:   pgChecker,
		promHandler: promhttp.Handler(),
	}
}

// healthCheckResult — resultado da verificação de uma dependência.
type healthCheckResult struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// healthLiveResponse — resposta da prova de vida.
type healthLiveResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
	Service   string `json:"service"`
}

// healthReadyResponse — resposta da prontidão.
type healthReadyResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
	Service   string `json:"service"`
	Checks    struct {
		PostgreSQL healthCheckResult `json:"postgresql"`
	} `json:"checks"`
}

// HealthLive — prova de vida. Responde 200 enquanto o processo estiver no ar.
func (h *HealthHandler) HealthLive(w http.ResponseWriter, _ *http.Request) {
	resp := healthLiveResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   config.Version,
		Service:   "judbox",
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(resp)
}

// HealthReady — prontidão. Verifica o PostgreSQL.
// Responde 200 (ok/degraded) ou 503 (fail).
func (h *HealthHandler) HealthReady(w http.ResponseWriter, _ *http.Request) {
	resp := healthReadyResponse{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   config.Version,
		Service:   "judbox",
	}

	if h.pgChecker != nil {
		pgStatus, pgMsg := h.pgChecker.CheckReady()
		resp.Checks.PostgreSQL = healthCheckResult{Status: pgStatus, Message: pgMsg}
	} else {
		resp.Checks.PostgreSQL = healthCheckResult{Status: statusFail, Message: "não inicializado"}
	}

	resp.Status = overallStatus(resp.Checks.PostgreSQL.Status)

	w.Header().Set("Content-Type", "application/json")
	if resp.Status == statusFail {
		w.WriteHeader(http.StatusServiceUnavailable)
	} else {
		w.WriteHeader(http.StatusOK)
	}
	_ = json.NewEncoder(w).Encode(resp)
}

// GetMetrics — métricas Prometheus.
func (h *HealthHandler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	h.promHandler.ServeHTTP(w, r)
}

// Status das verificações de saúde.
const (
	statusFail     = "fail"
	statusDegraded = "degraded"
	statusOK       = "ok"
)

// overallStatus combina os status das dependências: qualquer fail derruba o
// conjunto; qualquer degraded rebaixa; caso contrário ok.
func overallStatus(statuses ...string) string {
	hasDegraded := false
	for _, s := range statuses {
		switch s {
		case statusFail:
			return statusFail
		case statusDegraded:
			hasDegraded = true
		}
	}
	if hasDegraded {
		return statusDegraded
	}
	return statusOK
}
