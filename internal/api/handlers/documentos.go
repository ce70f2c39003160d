// documentos.go — CRUD de documentos administrativos.
package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	apierrors "github.com/tre-pb/judbox/internal/api/errors"
	"github.com/tre-pb/judbox/internal/domain/model"
	"github.com/tre-pb/judbox/internal/repository"
)

// DocumentoHandler — CRUD de documentos administrativos.
type DocumentoHandler struct {
	repo   *repository.DocumentoRepository
	logger *slog.Logger
}

// NewDocumentoHandler cria o handler de documentos.
func NewDocumentoHandler(repo *repository.DocumentoRepository, logger *slog.Logger) *DocumentoHandler {
	return &DocumentoHandler{repo: repo, logger: logger}
}

// documentoRequest — corpo de criação/edição de documento. NumeroCaixas é a
// lista legada de números separados por vírgula: um documento pode ocupar
// várias caixas físicas.
type documentoRequest struct {
	CaixaID           string  `json:"caixa_id"`
	EspecieDocumental string  `json:"especie_documental"`
	DataLimite        *string `json:"data_limite"`
	QuantidadeCaixas  *int    `json:"quantidade_caixas"`
	NumeroCaixas      *string `json:"numero_caixas"`
	Observacao        *string `json:"observacao"`
}

func validaDocumento(w http.ResponseWriter, req *documentoRequest, exigeCaixa bool) bool {
	if exigeCaixa {
		if _, err := uuid.Parse(req.CaixaID); err != nil {
			apierrors.ValidationError(w, "Campo 'caixa_id' inválido.")
			return false
		}
	}
	if req.EspecieDocumental == "" {
		apierrors.ValidationError(w, "Campo 'especie_documental' é obrigatório.")
		return false
	}
	if req.QuantidadeCaixas != nil && *req.QuantidadeCaixas < 1 {
		apierrors.ValidationError(w, "Campo 'quantidade_caixas' deve ser no mínimo 1.")
		return false
	}
	return true
}

// ListarPorCaixa — GET /api/v1/caixas/{id}/documentos.
func (h *DocumentoHandler) ListarPorCaixa(w http.ResponseWriter, r *http.Request) {
	id, ok := identidade(w, r)
	if !ok {
		return
	}
	caixaID, ok := idDaRota(w, r, "id")
	if !ok {
		return
	}

	docs, err := h.repo.ListarPorCaixa(r.Context(), id.UserID, caixaID)
	if err != nil {
		logErro(h.logger, r, "falha ao listar documentos", err)
		apierrors.InternalError(w, "Falha ao listar documentos.")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"documentos": docs})
}

// Criar — POST /api/v1/documentos-adm.
func (h *DocumentoHandler) Criar(w http.ResponseWriter, r *http.Request) {
	id, ok := identidade(w, r)
	if !ok {
		return
	}

	var req documentoRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if !validaDocumento(w, &req, true) {
		return
	}

	doc, err := h.repo.Criar(r.Context(), &model.DocumentoAdm{
		CaixaID:           req.CaixaID,
		UserID:            id.UserID,
		EspecieDocumental: req.EspecieDocumental,
		DataLimite:        req.DataLimite,
		QuantidadeCaixas:  req.QuantidadeCaixas,
		NumeroCaixas:      req.NumeroCaixas,
		Observacao:        req.Observacao,
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			apierrors.NotFound(w, "Caixa não encontrada.")
			return
		}
		logErro(h.logger, r, "falha ao criar documento", err)
		apierrors.InternalError(w, "Falha ao criar o documento.")
		return
	}
	writeJSON(w, http.StatusCreated, doc)
}

// Atualizar — PUT /api/v1/documentos-adm/{id}.
func (h *DocumentoHandler) Atualizar(w http.ResponseWriter, r *http.Request) {
	id, ok := identidade(w, r)
	if !ok {
		return
	}
	docID, ok := idDaRota(w, r, "id")
	if !ok {
		return
	}

	var req documentoRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if !validaDocumento(w, &req, false) {
		return
	}

	doc, err := h.repo.Atualizar(r.Context(), &model.DocumentoAdm{
		ID:                docID,
		UserID:            id.UserID,
		EspecieDocumental: req.EspecieDocumental,
		DataLimite:        req.DataLimite,
		QuantidadeCaixas:  req.QuantidadeCaixas,
		NumeroCaixas:      req.NumeroCaixas,
		Observacao:        req.Observacao,
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			apierrors.NotFound(w, "Documento não encontrado.")
			return
		}
		logErro(h.logger, r, "falha ao atualizar documento", err)
		apierrors.InternalError(w, "Falha ao atualizar o documento.")
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// Excluir — DELETE /api/v1/documentos-adm/{id}.
func (h *DocumentoHandler) Excluir(w http.ResponseWriter, r *http.Request) {
	id, ok := identidade(w, r)
	if !ok {
		return
	}
	docID, ok := idDaRota(w, r, "id")
	if !ok {
		return
	}

	if err := h.repo.Excluir(r.Context(), id.UserID, docID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			apierrors.NotFound(w, "Documento não encontrado.")
			return
		}
		logErro(h.logger, r, "falha ao excluir documento", err)
		apierrors.InternalError(w, "Falha ao excluir o documento.")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
