// etiquetas.go — endpoint de etiquetas de caixa.
// GET /api/v1/etiquetas/{numero}
package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	apierrors "github.com/tre-pb/judbox/internal/api/errors"
	"github.com/tre-pb/judbox/internal/repository"
	"github.com/tre-pb/judbox/internal/service"
)

// EtiquetaHandler — dados de impressão de etiquetas.
type EtiquetaHandler struct {
	etiquetas *service.EtiquetaService
	logger    *slog.Logger
}

// NewEtiquetaHandler cria o handler de etiquetas.
func NewEtiquetaHandler(etiquetas *service.EtiquetaService, logger *slog.Logger) *EtiquetaHandler {
	return &EtiquetaHandler{etiquetas: etiquetas, logger: logger}
}

// Obter — GET /api/v1/etiquetas/{numero}. O número é texto livre; a busca é
// pelo valor exato.
func (h *EtiquetaHandler) Obter(w http.ResponseWriter, r *http.Request) {
	id, ok := identidade(w, r)
	if !ok {
		return
	}

	numero := chi.URLParam(r, "numero")
	if numero == "" {
		apierrors.ValidationError(w, "Número da caixa ausente.")
		return
	}

	etiqueta, err := h.etiquetas.Obter(r.Context(), id.UserID, numero)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			apierrors.NotFound(w, "Nenhuma caixa com o número informado.")
			return
		}
		logErro(h.logger, r, "falha ao montar etiqueta", err)
		apierrors.InternalError(w, "Falha ao montar a etiqueta.")
		return
	}
	writeJSON(w, http.StatusOK, etiqueta)
}
