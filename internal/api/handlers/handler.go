// Pacote handlers — manipuladores HTTP da API do JudBox.
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	apierrors "github.com/tre-pb/judbox/internal/api/errors"
	"github.com/tre-pb/judbox/internal/api/middleware"
)

// identidade extrai a identidade autenticada da requisição. Sem identidade
// responde 401 e retorna false; o middleware de autenticação normalmente já
// barrou o acesso antes.
func identidade(w http.ResponseWriter, r *http.Request) (*middleware.Identity, bool) {
	id, ok := middleware.IdentityFromContext(r.Context())
	if !ok || id.UserID == "" {
		apierrors.Unauthorized(w, "Não autenticado")
		return nil, false
	}
	return id, true
}

// writeJSON serializa a resposta com o status dado.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// decodeJSON lê o corpo JSON da requisição em dst. Corpo inválido responde
// 400 e retorna false.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		apierrors.ValidationError(w, "Corpo JSON inválido: "+err.Error())
		return false
	}
	return true
}

// logErro registra uma falha interna com o caminho da requisição.
func logErro(logger *slog.Logger, r *http.Request, msg string, err error) {
	logger.Error(msg,
		slog.String("error", err.Error()),
		slog.String("path", r.URL.Path),
	)
}
