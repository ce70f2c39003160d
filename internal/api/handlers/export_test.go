package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/tre-pb/judbox/internal/api/middleware"
	"github.com/tre-pb/judbox/internal/domain/model"
	"github.com/tre-pb/judbox/internal/repository"
	"github.com/tre-pb/judbox/internal/service"
)

type stubProcessosExport struct {
	linhas []repository.LinhaProcessoExport
}

func (s *stubProcessosExport) PaginaExportacao(_ context.Context, _, _ string, _, offset int) ([]repository.LinhaProcessoExport, error) {
	if offset > 0 {
		return nil, nil
	}
	return s.linhas, nil
}

type stubDocumentosExport struct{}

func (s *stubDocumentosExport) PaginaExportacao(context.Context, string, int, int) ([]*model.DocumentoAdm, error) {
	return nil, nil
}

type stubConsultaDestinos struct{}

func (s *stubConsultaDestinos) DestinacoesPorNumeros(_ context.Context, _ string, numeros []string) (map[string]string, error) {
	return map[string]string{}, nil
}

func logTeste() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// comIdentidade injeta a identidade autenticada no contexto da requisição,
// como faria o middleware JWT.
func comIdentidade(r *http.Request, userID, email string) *http.Request {
	ctx := context.WithValue(r.Context(), middleware.ContextKeyIdentity,
		&middleware.Identity{UserID: userID, Email: email})
	return r.WithContext(ctx)
}

func exportHandlerTeste(linhas []repository.LinhaProcessoExport) *ExportHandler {
	svc := service.NewExportService(
		&stubProcessosExport{linhas: linhas},
		&stubDocumentosExport{},
		service.NewDestinoResolver(&stubConsultaDestinos{}),
		10,
		logTeste(),
	)
	return NewExportHandler(svc, logTeste())
}

// TestExportarCSV_TipoInvalido verifica o 400 em JSON, sem nenhum byte de
// CSV na resposta.
func TestExportarCSV_TipoInvalido(t *testing.T) {
	h := exportHandlerTeste(nil)

	req := comIdentidade(httptest.NewRequest(http.MethodGet, "/api/v1/export/csv?tipo=xlsx", nil), "u1", "a@b.c")
	rec := httptest.NewRecorder()
	h.ExportarCSV(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, esperado 400", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
	var corpo struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&corpo); err != nil {
		t.Fatalf("corpo não é JSON: %v", err)
	}
	if corpo.Error.Code != "VALIDATION_ERROR" {
		t.Errorf("código = %q", corpo.Error.Code)
	}
	if corpo.Error.Message != "Parâmetro 'tipo' inválido." {
		t.Errorf("mensagem = %q", corpo.Error.Message)
	}
}

// TestExportarCSV_SemIdentidade verifica o 401 quando o contexto não traz a
// identidade autenticada.
func TestExportarCSV_SemIdentidade(t *testing.T) {
	h := exportHandlerTeste(nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/export/csv?tipo=processos_jud", nil)
	rec := httptest.NewRecorder()
	h.ExportarCSV(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, esperado 401", rec.Code)
	}
}

// TestExportarCSV_Sucesso verifica os cabeçalhos de download e o corpo CSV
// com BOM.
func TestExportarCSV_Sucesso(t *testing.T) {
	linhas := []repository.LinhaProcessoExport{
		{
			NumeroCaixa:      "7",
			DestinacaoCaixa:  "preservar",
			ClasseProcessual: "Prestação de Contas",
			NumeroProcesso:   "0600500-10.2022.6.15.0010",
			Ano:              2022,
		},
	}
	h := exportHandlerTeste(linhas)

	req := comIdentidade(httptest.NewRequest(http.MethodGet, "/api/v1/export/csv?tipo=PROCESSOS_JUD", nil), "u1", "a@b.c")
	rec := httptest.NewRecorder()
	h.ExportarCSV(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, esperado 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/csv; charset=utf-8" {
		t.Errorf("Content-Type = %q", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); cd != `attachment; filename="processos_jud.csv"` {
		t.Errorf("Content-Disposition = %q", cd)
	}
	if cc := rec.Header().Get("Cache-Control"); cc != "no-store" {
		t.Errorf("Cache-Control = %q", cc)
	}

	corpo := rec.Body.String()
	if !strings.HasPrefix(corpo, "\xEF\xBB\xBF") {
		t.Fatal("corpo sem BOM UTF-8")
	}
	if !strings.Contains(corpo, "0600500-10.2022.6.15.0010") {
		t.Errorf("linha de dados ausente: %q", corpo)
	}
}
