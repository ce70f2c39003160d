package handlers

import (
	"net/http/httptest"
	"testing"

	"github.com/tre-pb/judbox/internal/domain/model"
)

func TestValidaCaixa(t *testing.T) {
	t.Run("padrões aplicados", func(t *testing.T) {
		req := caixaRequest{NumeroCaixa: " 12 ", Tipo: model.TipoProcessoJudicial}
		rec := httptest.NewRecorder()

		if !validaCaixa(rec, &req) {
			t.Fatalf("validaCaixa recusou corpo válido: %s", rec.Body.String())
		}
		if req.NumeroCaixa != "12" {
			t.Errorf("número = %q, esperado aparado", req.NumeroCaixa)
		}
		if req.Localizacao != localizacaoPadrao {
			t.Errorf("localização = %q, esperado %q", req.Localizacao, localizacaoPadrao)
		}
		if req.Destinacao != model.DestinacaoPreservar {
			t.Errorf("destinação = %q, esperado %q", req.Destinacao, model.DestinacaoPreservar)
		}
	})

	t.Run("tipo desconhecido", func(t *testing.T) {
		req := caixaRequest{Tipo: "caixa_mista"}
		rec := httptest.NewRecorder()

		if validaCaixa(rec, &req) {
			t.Error("validaCaixa aceitou tipo desconhecido")
		}
		if rec.Code != 400 {
			t.Errorf("status = %d, esperado 400", rec.Code)
		}
	})

	t.Run("destinação desconhecida", func(t *testing.T) {
		req := caixaRequest{Tipo: model.TipoProcessoJudicial, Destinacao: "guardar"}
		rec := httptest.NewRecorder()

		if validaCaixa(rec, &req) {
			t.Error("validaCaixa aceitou destinação desconhecida")
		}
	})
}
