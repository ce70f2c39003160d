package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/tre-pb/judbox/internal/render"
	"github.com/tre-pb/judbox/internal/service"
)

func pdfHandlerTeste(t *testing.T) *PDFHandler {
	t.Helper()
	renderer, err := render.NewRenderer("10ª Zona Eleitoral - Guarabira")
	if err != nil {
		t.Fatalf("NewRenderer erro: %v", err)
	}
	svc := service.NewRelatorioService(&stubCaixasRelatorio{}, stubProcessosRelatorio{}, stubDocumentosRelatorio{}, stubProcDocRelatorio{})
	// Gerador nil: cenário de subida sem Chrome disponível.
	return NewPDFHandler(svc, renderer, nil, logTeste())
}

func TestGerarPDF_SemIdentidade(t *testing.T) {
	h := pdfHandlerTeste(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/pdf", nil)
	rec := httptest.NewRecorder()
	h.GerarPDF(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, esperado 401", rec.Code)
	}
}

func TestGerarPDF_GeradorIndisponivel(t *testing.T) {
	h := pdfHandlerTeste(t)

	req := comIdentidade(httptest.NewRequest(http.MethodPost, "/api/v1/pdf", nil), "u1", "a@b.c")
	rec := httptest.NewRecorder()
	h.GerarPDF(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, esperado 503", rec.Code)
	}
}

func TestRotuloPDF(t *testing.T) {
	casos := map[string]string{
		PDFGeral:    "Relatório Geral",
		PDFListagem: "Relatório de Caixas",
		PDFPorTipo:  "Relatório por Tipo",
	}
	for kind, esperado := range casos {
		if got := rotuloPDF(kind); got != esperado {
			t.Errorf("rotuloPDF(%q) = %q, esperado %q", kind, got, esperado)
		}
	}
}
