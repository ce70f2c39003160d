package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/tre-pb/judbox/internal/domain/model"
	"github.com/tre-pb/judbox/internal/repository"
	"github.com/tre-pb/judbox/internal/service"
)

type stubCaixasRelatorio struct {
	caixas []*model.Caixa
	total  int
}

func (s *stubCaixasRelatorio) Listar(_ context.Context, _ string, _ repository.FiltroCaixas, _, _ int) ([]*model.Caixa, int, error) {
	return s.caixas, s.total, nil
}

func (s *stubCaixasRelatorio) ContagemPorTipo(context.Context, string, repository.FiltroCaixas) (*model.ContagemPorTipo, error) {
	return &model.ContagemPorTipo{Judicial: 1}, nil
}

func (s *stubCaixasRelatorio) ContagemPorDestinacao(context.Context, string) (int, int, int, error) {
	return s.total, s.total, 0, nil
}

type stubProcessosRelatorio struct{}

func (stubProcessosRelatorio) ContagemPorCategoria(context.Context, string) (int, int, int, error) {
	return 3, 2, 1, nil
}

type stubDocumentosRelatorio struct{}

func (stubDocumentosRelatorio) Contagem(context.Context, string) (int, error) {
	return 4, nil
}

type stubProcDocRelatorio struct{}

func (stubProcDocRelatorio) Listar(context.Context, string, repository.FiltroProcDoc, int, int) ([]*model.ItemProcDoc, int, error) {
	return []*model.ItemProcDoc{{TipoItem: model.TipoProcessoJudicial}}, 1, nil
}

func relatorioHandlerTeste(caixas *stubCaixasRelatorio) *RelatorioHandler {
	svc := service.NewRelatorioService(caixas, stubProcessosRelatorio{}, stubDocumentosRelatorio{}, stubProcDocRelatorio{})
	return NewRelatorioHandler(svc, logTeste())
}

func TestObterRelatorio_KindInvalido(t *testing.T) {
	h := relatorioHandlerTeste(&stubCaixasRelatorio{})

	req := comIdentidade(httptest.NewRequest(http.MethodGet, "/api/v1/relatorios?kind=resumo", nil), "u1", "a@b.c")
	rec := httptest.NewRecorder()
	h.ObterRelatorio(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, esperado 400", rec.Code)
	}
}

func TestObterRelatorio_PadraoListagem(t *testing.T) {
	h := relatorioHandlerTeste(&stubCaixasRelatorio{
		caixas: []*model.Caixa{{NumeroCaixa: "1", Tipo: model.TipoProcessoJudicial}},
		total:  1,
	})

	// Sem kind explícito, responde a listagem de caixas.
	req := comIdentidade(httptest.NewRequest(http.MethodGet, "/api/v1/relatorios", nil), "u1", "a@b.c")
	rec := httptest.NewRecorder()
	h.ObterRelatorio(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, esperado 200", rec.Code)
	}

	var pagina service.PaginaCaixas
	if err := json.NewDecoder(rec.Body).Decode(&pagina); err != nil {
		t.Fatalf("corpo não é JSON: %v", err)
	}
	if pagina.Total != 1 || len(pagina.Caixas) != 1 {
		t.Errorf("página = %+v", pagina)
	}
	// Listagem sem filtro de tipo traz os totais por tipo.
	if pagina.PorTipo == nil || pagina.PorTipo.Judicial != 1 {
		t.Errorf("PorTipo = %+v", pagina.PorTipo)
	}
}

func TestObterRelatorio_Overview(t *testing.T) {
	h := relatorioHandlerTeste(&stubCaixasRelatorio{total: 5})

	req := comIdentidade(httptest.NewRequest(http.MethodGet, "/api/v1/relatorios?kind=overview", nil), "u1", "chefe@tre-pb.jus.br")
	rec := httptest.NewRecorder()
	h.ObterRelatorio(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, esperado 200", rec.Code)
	}

	var o model.OverviewRelatorio
	if err := json.NewDecoder(rec.Body).Decode(&o); err != nil {
		t.Fatalf("corpo não é JSON: %v", err)
	}
	if o.TotalCaixas != 5 || o.ProcTotal != 3 || o.DocsAdm != 4 {
		t.Errorf("panorama = %+v", o)
	}
	if o.Usuario != "chefe@tre-pb.jus.br" {
		t.Errorf("usuário = %q", o.Usuario)
	}
}

func TestObterRelatorio_PorTipo(t *testing.T) {
	h := relatorioHandlerTeste(&stubCaixasRelatorio{})

	req := comIdentidade(httptest.NewRequest(http.MethodGet, "/api/v1/relatorios?kind=by-type&tipo=judicial", nil), "u1", "a@b.c")
	rec := httptest.NewRecorder()
	h.ObterRelatorio(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, esperado 200", rec.Code)
	}

	var pagina service.PaginaProcDoc
	if err := json.NewDecoder(rec.Body).Decode(&pagina); err != nil {
		t.Fatalf("corpo não é JSON: %v", err)
	}
	if pagina.Total != 1 || len(pagina.Itens) != 1 {
		t.Errorf("página = %+v", pagina)
	}
}
