// caixas.go — CRUD de caixas.
package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	apierrors "github.com/tre-pb/judbox/internal/api/errors"
	"github.com/tre-pb/judbox/internal/domain/model"
	"github.com/tre-pb/judbox/internal/repository"
	"github.com/tre-pb/judbox/internal/service"
)

// localizacaoPadrao — cidade padrão das caixas novas.
const localizacaoPadrao = "Guarabira"

// CaixaHandler — CRUD de caixas.
type CaixaHandler struct {
	repo      *repository.CaixaRepository
	etiquetas *service.EtiquetaService
	logger    *slog.Logger
}

// NewCaixaHandler cria o handler de caixas.
func NewCaixaHandler(repo *repository.CaixaRepository, etiquetas *service.EtiquetaService, logger *slog.Logger) *CaixaHandler {
	return &CaixaHandler{repo: repo, etiquetas: etiquetas, logger: logger}
}

// caixaRequest — corpo de criação/edição de caixa.
type caixaRequest struct {
	NumeroCaixa string  `json:"numero_caixa"`
	Tipo        string  `json:"tipo"`
	Descricao   *string `json:"descricao"`
	Localizacao string  `json:"localizacao"`
	Destinacao  string  `json:"destinacao"`
}

// idDaRota extrai e valida o UUID do parâmetro de rota dado.
func idDaRota(w http.ResponseWriter, r *http.Request, param string) (string, bool) {
	bruto := chi.URLParam(r, param)
	id, err := uuid.Parse(bruto)
	if err != nil {
		apierrors.ValidationError(w, "Identificador inválido: "+bruto)
		return "", false
	}
	return id.String(), true
}

// listaCaixasResponse — resposta da listagem de caixas.
type listaCaixasResponse struct {
	Caixas        []*model.Caixa `json:"caixas"`
	Total         int            `json:"total"`
	Pagina        int            `json:"pagina"`
	TamanhoPagina int            `json:"tamanho_pagina"`
}

// Listar — GET /api/v1/caixas. Filtros: tipo, numero (prefixo); paginação
// page/pageSize com padrões 1/50.
func (h *CaixaHandler) Listar(w http.ResponseWriter, r *http.Request) {
	id, ok := identidade(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	pagina, _ := strconv.Atoi(q.Get("page"))
	if pagina < 1 {
		pagina = 1
	}
	tamanho, _ := strconv.Atoi(q.Get("pageSize"))
	if tamanho < 1 {
		tamanho = service.TamanhoPaginaRelatorio
	}

	filtro := repository.FiltroCaixas{
		Tipo:          service.NormalizaTipo(q.Get("tipo")),
		NumeroPrefixo: strings.TrimSpace(q.Get("numero")),
	}
	caixas, total, err := h.repo.Listar(r.Context(), id.UserID, filtro, tamanho, (pagina-1)*tamanho)
	if err != nil {
		logErro(h.logger, r, "falha ao listar caixas", err)
		apierrors.InternalError(w, "Falha ao listar caixas.")
		return
	}

	writeJSON(w, http.StatusOK, listaCaixasResponse{
		Caixas:        caixas,
		Total:         total,
		Pagina:        pagina,
		TamanhoPagina: tamanho,
	})
}

// Obter — GET /api/v1/caixas/{id}.
func (h *CaixaHandler) Obter(w http.ResponseWriter, r *http.Request) {
	id, ok := identidade(w, r)
	if !ok {
		return
	}
	caixaID, ok := idDaRota(w, r, "id")
	if !ok {
		return
	}

	caixa, err := h.repo.ObterPorID(r.Context(), id.UserID, caixaID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			apierrors.NotFound(w, "Caixa não encontrada.")
			return
		}
		logErro(h.logger, r, "falha ao buscar caixa", err)
		apierrors.InternalError(w, "Falha ao buscar a caixa.")
		return
	}
	writeJSON(w, http.StatusOK, caixa)
}

// validaCaixa aplica os padrões e valida o corpo. Retorna false já tendo
// respondido o erro.
func validaCaixa(w http.ResponseWriter, req *caixaRequest) bool {
	req.NumeroCaixa = strings.TrimSpace(req.NumeroCaixa)
	if !model.TipoCaixaValido(req.Tipo) {
		apierrors.ValidationError(w, "Campo 'tipo' inválido.")
		return false
	}
	if req.Localizacao == "" {
		req.Localizacao = localizacaoPadrao
	}
	if req.Destinacao == "" {
		req.Destinacao = model.DestinacaoPreservar
	}
	if !model.DestinacaoValida(req.Destinacao) {
		apierrors.ValidationError(w, "Campo 'destinacao' inválido: esperado preservar ou eliminar.")
		return false
	}
	return true
}

// Criar — POST /api/v1/caixas. O número da caixa não precisa ser único:
// o acervo legado tem números repetidos e o comportamento permissivo é
// preservado.
func (h *CaixaHandler) Criar(w http.ResponseWriter, r *http.Request) {
	id, ok := identidade(w, r)
	if !ok {
		return
	}

	var req caixaRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if !validaCaixa(w, &req) {
		return
	}

	caixa, err := h.repo.Criar(r.Context(), &model.Caixa{
		UserID:      id.UserID,
		NumeroCaixa: req.NumeroCaixa,
		Tipo:        req.Tipo,
		Descricao:   req.Descricao,
		Localizacao: req.Localizacao,
		Destinacao:  req.Destinacao,
	})
	if err != nil {
		logErro(h.logger, r, "falha ao criar caixa", err)
		apierrors.InternalError(w, "Falha ao criar a caixa.")
		return
	}

	h.etiquetas.Invalidar(id.UserID, caixa.NumeroCaixa)
	writeJSON(w, http.StatusCreated, caixa)
}

// Atualizar — PUT /api/v1/caixas/{id}. O tipo de uma caixa que já tem
// processos ou documentos é imutável: trocá-lo deixaria os registros
// cruzados órfãos de sentido.
func (h *CaixaHandler) Atualizar(w http.ResponseWriter, r *http.Request) {
	id, ok := identidade(w, r)
	if !ok {
		return
	}
	caixaID, ok := idDaRota(w, r, "id")
	if !ok {
		return
	}

	var req caixaRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if !validaCaixa(w, &req) {
		return
	}

	atual, err := h.repo.ObterPorID(r.Context(), id.UserID, caixaID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			apierrors.NotFound(w, "Caixa não encontrada.")
			return
		}
		logErro(h.logger, r, "falha ao buscar caixa", err)
		apierrors.InternalError(w, "Falha ao buscar a caixa.")
		return
	}

	if req.Tipo != atual.Tipo {
		temItens, err := h.repo.TemItens(r.Context(), caixaID)
		if err != nil {
			logErro(h.logger, r, "falha ao verificar itens da caixa", err)
			apierrors.InternalError(w, "Falha ao verificar os itens da caixa.")
			return
		}
		if temItens {
			apierrors.Conflict(w, "O tipo de uma caixa com processos ou documentos cadastrados não pode ser alterado.")
			return
		}
	}

	caixa, err := h.repo.Atualizar(r.Context(), &model.Caixa{
		ID:          caixaID,
		UserID:      id.UserID,
		NumeroCaixa: req.NumeroCaixa,
		Tipo:        req.Tipo,
		Descricao:   req.Descricao,
		Localizacao: req.Localizacao,
		Destinacao:  req.Destinacao,
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			apierrors.NotFound(w, "Caixa não encontrada.")
			return
		}
		logErro(h.logger, r, "falha ao atualizar caixa", err)
		apierrors.InternalError(w, "Falha ao atualizar a caixa.")
		return
	}

	// O número pode ter mudado; invalida as duas entradas.
	h.etiquetas.Invalidar(id.UserID, atual.NumeroCaixa)
	h.etiquetas.Invalidar(id.UserID, caixa.NumeroCaixa)
	writeJSON(w, http.StatusOK, caixa)
}

// Excluir — DELETE /api/v1/caixas/{id}. Processos e documentos da caixa são
// removidos em cascata.
func (h *CaixaHandler) Excluir(w http.ResponseWriter, r *http.Request) {
	id, ok := identidade(w, r)
	if !ok {
		return
	}
	caixaID, ok := idDaRota(w, r, "id")
	if !ok {
		return
	}

	atual, err := h.repo.ObterPorID(r.Context(), id.UserID, caixaID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			apierrors.NotFound(w, "Caixa não encontrada.")
			return
		}
		logErro(h.logger, r, "falha ao buscar caixa", err)
		apierrors.InternalError(w, "Falha ao buscar a caixa.")
		return
	}

	if err := h.repo.Excluir(r.Context(), id.UserID, caixaID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			apierrors.NotFound(w, "Caixa não encontrada.")
			return
		}
		logErro(h.logger, r, "falha ao excluir caixa", err)
		apierrors.InternalError(w, "Falha ao excluir a caixa.")
		return
	}

	h.etiquetas.Invalidar(id.UserID, atual.NumeroCaixa)
	w.WriteHeader(http.StatusNoContent)
}
