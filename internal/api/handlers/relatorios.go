// relatorios.go — endpoint de dados de relatório.
// GET /api/v1/relatorios?kind=overview|listing|by-type&tipo=&numero=&page=&pageSize=
package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	apierrors "github.com/tre-pb/judbox/internal/api/errors"
	"github.com/tre-pb/judbox/internal/service"
)

// Modos do relatório.
const (
	RelatorioOverview = "overview"
	RelatorioListagem = "listing"
	RelatorioPorTipo  = "by-type"
)

// RelatorioHandler — endpoint de dados de relatório, consumido pela tela de
// pré-visualização e pelo gerador de PDF.
type RelatorioHandler struct {
	relatorios *service.RelatorioService
	logger     *slog.Logger
}

// NewRelatorioHandler cria o handler de relatórios.
func NewRelatorioHandler(relatorios *service.RelatorioService, logger *slog.Logger) *RelatorioHandler {
	return &RelatorioHandler{relatorios: relatorios, logger: logger}
}

// filtroDaQuery monta o filtro de relatório a partir da query string.
// page e pageSize inválidos ou ausentes caem nos padrões do serviço.
func filtroDaQuery(r *http.Request) service.FiltroRelatorio {
	q := r.URL.Query()
	pagina, _ := strconv.Atoi(q.Get("page"))
	tamanho, _ := strconv.Atoi(q.Get("pageSize"))
	return service.FiltroRelatorio{
		Tipo:          q.Get("tipo"),
		NumeroPrefixo: q.Get("numero"),
		Pagina:        pagina,
		TamanhoPagina: tamanho,
	}
}

// ObterRelatorio responde os dados do modo pedido:
//   - overview: panorama de contagens globais;
//   - listing: página de caixas com total exato (e totais por tipo quando
//     sem filtro de tipo);
//   - by-type: página da visão unificada de processos e documentos.
func (h *RelatorioHandler) ObterRelatorio(w http.ResponseWriter, r *http.Request) {
	id, ok := identidade(w, r)
	if !ok {
		return
	}

	kind := r.URL.Query().Get("kind")
	if kind == "" {
		kind = RelatorioListagem
	}

	switch kind {
	case RelatorioOverview:
		overview, err := h.relatorios.Overview(r.Context(), id.UserID, id.Email)
		if err != nil {
			logErro(h.logger, r, "falha no panorama do relatório", err)
			apierrors.InternalError(w, "Falha ao montar o relatório geral.")
			return
		}
		writeJSON(w, http.StatusOK, overview)

	case RelatorioListagem:
		pagina, err := h.relatorios.ListarCaixas(r.Context(), id.UserID, filtroDaQuery(r))
		if err != nil {
			logErro(h.logger, r, "falha na listagem de caixas do relatório", err)
			apierrors.InternalError(w, "Falha ao montar a listagem de caixas.")
			return
		}
		writeJSON(w, http.StatusOK, pagina)

	case RelatorioPorTipo:
		pagina, err := h.relatorios.ListarProcDoc(r.Context(), id.UserID, filtroDaQuery(r))
		if err != nil {
			logErro(h.logger, r, "falha na listagem de processos e documentos", err)
			apierrors.InternalError(w, "Falha ao montar a listagem de processos e documentos.")
			return
		}
		writeJSON(w, http.StatusOK, pagina)

	default:
		apierrors.ValidationError(w, "Parâmetro 'kind' inválido: esperado overview, listing ou by-type.")
	}
}
