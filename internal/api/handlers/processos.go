// processos.go — CRUD de processos.
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

// ProcessoHandler — CRUD de processos.
type ProcessoHandler struct {
	repo   *repository.ProcessoRepository
	logger *slog.Logger
}

// NewProcessoHandler cria o handler de processos.
func NewProcessoHandler(repo *repository.ProcessoRepository, logger *slog.Logger) *ProcessoHandler {
	return &ProcessoHandler{repo: repo, logger: logger}
}

// processoRequest — corpo de criação/edição de processo.
type processoRequest struct {
	CaixaID           string  `json:"caixa_id"`
	TipoProcesso      string  `json:"tipo_processo"`
	ClasseProcessual  string  `json:"classe_processual"`
	NumeroProcesso    string  `json:"numero_processo"`
	Protocolo         *string `json:"protocolo"`
	Ano               int     `json:"ano"`
	QuantidadeVolumes *int    `json:"quantidade_volumes"`
	NumeroCaixas      *int    `json:"numero_caixas"`
	Observacao        *string `json:"observacao"`
}

func validaProcesso(w http.ResponseWriter, req *processoRequest, exigeCaixa bool) bool {
	if exigeCaixa {
		if _, err := uuid.Parse(req.CaixaID); err != nil {
			apierrors.ValidationError(w, "Campo 'caixa_id' inválido.")
			return false
		}
	}
	if req.TipoProcesso != model.ProcessoJudicial && req.TipoProcesso != model.ProcessoAdministrativo {
		apierrors.ValidationError(w, "Campo 'tipo_processo' inválido: esperado judicial ou administrativo.")
		return false
	}
	if req.ClasseProcessual == "" {
		apierrors.ValidationError(w, "Campo 'classe_processual' é obrigatório.")
		return false
	}
	if req.NumeroProcesso == "" {
		apierrors.ValidationError(w, "Campo 'numero_processo' é obrigatório.")
		return false
	}
	if req.Ano <= 0 {
		apierrors.ValidationError(w, "Campo 'ano' inválido.")
		return false
	}
	if req.QuantidadeVolumes != nil && *req.QuantidadeVolumes < 1 {
		apierrors.ValidationError(w, "Campo 'quantidade_volumes' deve ser no mínimo 1.")
		return false
	}
	if req.NumeroCaixas != nil && *req.NumeroCaixas < 1 {
		apierrors.ValidationError(w, "Campo 'numero_caixas' deve ser no mínimo 1.")
		return false
	}
	return true
}

// ListarPorCaixa — GET /api/v1/caixas/{id}/processos, do ano mais recente
// para o mais antigo.
func (h *ProcessoHandler) ListarPorCaixa(w http.ResponseWriter, r *http.Request) {
	id, ok := identidade(w, r)
	if !ok {
		return
	}
	caixaID, ok := idDaRota(w, r, "id")
	if !ok {
		return
	}

	processos, err := h.repo.ListarPorCaixa(r.Context(), id.UserID, caixaID)
	if err != nil {
		logErro(h.logger, r, "falha ao listar processos", err)
		apierrors.InternalError(w, "Falha ao listar processos.")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"processos": processos})
}

// Criar — POST /api/v1/processos.
func (h *ProcessoHandler) Criar(w http.ResponseWriter, r *http.Request) {
	id, ok := identidade(w, r)
	if !ok {
		return
	}

	var req processoRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if !validaProcesso(w, &req, true) {
		return
	}

	processo, err := h.repo.Criar(r.Context(), id.UserID, &model.Processo{
		CaixaID:           req.CaixaID,
		TipoProcesso:      req.TipoProcesso,
		ClasseProcessual:  req.ClasseProcessual,
		NumeroProcesso:    req.NumeroProcesso,
		Protocolo:         req.Protocolo,
		Ano:               req.Ano,
		QuantidadeVolumes: req.QuantidadeVolumes,
		NumeroCaixas:      req.NumeroCaixas,
		Observacao:        req.Observacao,
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			apierrors.NotFound(w, "Caixa não encontrada.")
			return
		}
		logErro(h.logger, r, "falha ao criar processo", err)
		apierrors.InternalError(w, "Falha ao criar o processo.")
		return
	}
	writeJSON(w, http.StatusCreated, processo)
}

// Atualizar — PUT /api/v1/processos/{id}. A caixa do processo não muda por
// esta rota; mover um processo é excluir e recriar.
func (h *ProcessoHandler) Atualizar(w http.ResponseWriter, r *http.Request) {
	id, ok := identidade(w, r)
	if !ok {
		return
	}
	processoID, ok := idDaRota(w, r, "id")
	if !ok {
		return
	}

	var req processoRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if !validaProcesso(w, &req, false) {
		return
	}

	processo, err := h.repo.Atualizar(r.Context(), id.UserID, &model.Processo{
		ID:                processoID,
		ClasseProcessual:  req.ClasseProcessual,
		NumeroProcesso:    req.NumeroProcesso,
		Protocolo:         req.Protocolo,
		Ano:               req.Ano,
		QuantidadeVolumes: req.QuantidadeVolumes,
		NumeroCaixas:      req.NumeroCaixas,
		Observacao:        req.Observacao,
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			apierrors.NotFound(w, "Processo não encontrado.")
			return
		}
		logErro(h.logger, r, "falha ao atualizar processo", err)
		apierrors.InternalError(w, "Falha ao atualizar o processo.")
		return
	}
	writeJSON(w, http.StatusOK, processo)
}

// Excluir — DELETE /api/v1/processos/{id}.
func (h *ProcessoHandler) Excluir(w http.ResponseWriter, r *http.Request) {
	id, ok := identidade(w, r)
	if !ok {
		return
	}
	processoID, ok := idDaRota(w, r, "id")
	if !ok {
		return
	}

	if err := h.repo.Excluir(r.Context(), id.UserID, processoID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			apierrors.NotFound(w, "Processo não encontrado.")
			return
		}
		logErro(h.logger, r, "falha ao excluir processo", err)
		apierrors.InternalError(w, "Falha ao excluir o processo.")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
