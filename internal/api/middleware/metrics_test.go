package middleware

import "testing"

func TestNormalizePath(t *testing.T) {
	casos := []struct {
		caminho  string
		esperado string
	}{
		{"/health/live", "/health/live"},
		{"/health/ready", "/health/ready"},
		{"/metrics", "/metrics"},
		{"/api/v1/export/csv", "/api/v1/export/csv"},
		{"/api/v1/relatorios", "/api/v1/relatorios"},
		{"/api/v1/pdf", "/api/v1/pdf"},
		{"/api/v1/caixas/8b2e7c1a-3f4d-4b6e-9a0c-1d2e3f405060", "/api/v1/caixas/{id}"},
		{"/api/v1/caixas/8b2e7c1a-3f4d-4b6e-9a0c-1d2e3f405060/processos", "/api/v1/caixas/{id}/processos"},
		{"/api/v1/caixas/8b2e7c1a-3f4d-4b6e-9a0c-1d2e3f405060/documentos", "/api/v1/caixas/{id}/documentos"},
		{"/api/v1/processos/8b2e7c1a-3f4d-4b6e-9a0c-1d2e3f405060", "/api/v1/processos/{id}"},
		{"/api/v1/documentos-adm/8b2e7c1a-3f4d-4b6e-9a0c-1d2e3f405060", "/api/v1/documentos-adm/{id}"},
		{"/api/v1/etiquetas/42-A", "/api/v1/etiquetas/{numero}"},
		// Coleções sem segmento variável passam intactas.
		{"/api/v1/caixas/", "/api/v1/caixas/"},
		{"/api/v1/etiquetas/", "/api/v1/etiquetas/"},
		{"/desconhecido", "/desconhecido"},
	}

	for _, c := range casos {
		if got := normalizePath(c.caminho); got != c.esperado {
			t.Errorf("normalizePath(%q) = %q, esperado %q", c.caminho, got, c.esperado)
		}
	}
}
