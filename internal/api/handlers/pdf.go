// pdf.go — endpoint de geração de PDF dos relatórios.
// POST /api/v1/pdf {"kind": "geral"|"listagem"|"por-tipo", "filters": {...}}
package handlers

import (
	"fmt"
	"log/slog"
	"net/http"

	apierrors "github.com/tre-pb/judbox/internal/api/errors"
	"github.com/tre-pb/judbox/internal/domain/model"
	"github.com/tre-pb/judbox/internal/pdf"
	"github.com/tre-pb/judbox/internal/render"
	"github.com/tre-pb/judbox/internal/service"
)

// Tipos de relatório em PDF.
const (
	PDFGeral    = "geral"
	PDFListagem = "listagem"
	PDFPorTipo  = "por-tipo"
)

// pdfRequest — corpo da requisição de PDF.
type pdfRequest struct {
	Kind    string `json:"kind"`
	Filters struct {
		Tipo   string `json:"tipo"`
		Numero string `json:"numero"`
	} `json:"filters"`
}

// PDFHandler — geração de PDF. O gerador pode estar ausente (Chrome não
// disponível na subida); nesse caso o endpoint responde 503 e o resto do
// serviço segue funcionando.
type PDFHandler struct {
	relatorios *service.RelatorioService
	renderer   *render.Renderer
	gerador    *pdf.Gerador
	logger     *slog.Logger
}

// NewPDFHandler cria o handler de PDF. gerador pode ser nil.
func NewPDFHandler(relatorios *service.RelatorioService, renderer *render.Renderer, gerador *pdf.Gerador, logger *slog.Logger) *PDFHandler {
	return &PDFHandler{
		relatorios: relatorios,
		renderer:   renderer,
		gerador:    gerador,
		logger:     logger,
	}
}

// rotuloPDF — rótulo impresso no cabeçalho de cada página.
func rotuloPDF(kind string) string {
	switch kind {
	case PDFGeral:
		return "Relatório Geral"
	case PDFPorTipo:
		return "Relatório por Tipo"
	}
	return "Relatório de Caixas"
}

// GerarPDF monta o HTML do relatório pedido, já com todos os dados
// resolvidos, e o imprime em PDF. Nenhum acesso ao banco acontece durante a
// impressão: a agregação termina antes de o Chrome entrar em cena.
func (h *PDFHandler) GerarPDF(w http.ResponseWriter, r *http.Request) {
	id, ok := identidade(w, r)
	if !ok {
		return
	}
	if h.gerador == nil {
		apierrors.PDFUnavailable(w, "Geração de PDF indisponível neste momento.")
		return
	}

	req := pdfRequest{Kind: PDFListagem}
	if r.Body != nil && r.ContentLength != 0 {
		if !decodeJSON(w, r, &req) {
			return
		}
	}
	if req.Kind == "" {
		req.Kind = PDFListagem
	}

	var (
		htmlDoc string
		err     error
	)
	switch req.Kind {
	case PDFGeral:
		var overview *model.OverviewRelatorio
		overview, err = h.relatorios.Overview(r.Context(), id.UserID, id.Email)
		if err == nil {
			htmlDoc, err = h.renderer.Overview(overview)
		}

	case PDFListagem, PDFPorTipo:
		filtro := service.FiltroRelatorio{Tipo: req.Filters.Tipo, NumeroPrefixo: req.Filters.Numero}
		var caixas []*model.Caixa
		caixas, err = h.relatorios.TodasCaixas(r.Context(), id.UserID, filtro)
		if err == nil {
			subtitulo := "Listagem completa"
			if req.Kind == PDFPorTipo {
				rotulo := model.HumanizaTipo(service.NormalizaTipo(req.Filters.Tipo))
				if rotulo == "" {
					rotulo = "—"
				}
				subtitulo = "Tipo: " + rotulo
			}
			htmlDoc, err = h.renderer.Listagem(caixas,
				service.NormalizaTipo(req.Filters.Tipo), req.Filters.Numero, subtitulo, id.Email)
		}

	default:
		apierrors.ValidationError(w, "Parâmetro 'kind' inválido: esperado geral, listagem ou por-tipo.")
		return
	}
	if err != nil {
		logErro(h.logger, r, "falha ao preparar dados do PDF", err)
		apierrors.InternalError(w, "Falha ao montar os dados do relatório.")
		return
	}

	dados, err := h.gerador.Gerar(r.Context(), htmlDoc,
		pdf.CabecalhoImpresso(rotuloPDF(req.Kind)), pdf.RodapeImpresso(id.Email))
	if err != nil {
		logErro(h.logger, r, "falha na impressão do PDF", err)
		apierrors.InternalError(w, "Falha ao gerar o PDF.")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", "relatorio_"+req.Kind+".pdf"))
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(dados)
}
