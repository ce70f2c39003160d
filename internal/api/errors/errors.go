// Pacote errors — construtores das respostas de erro padrão do JudBox.
// Formato único: {"error": {"code": "...", "message": "..."}}.
// Todas as respostas HTTP de erro devem passar por WriteError.
package errors

import (
	"encoding/json"
	"net/http"
)

// Códigos de erro retornados pela API.
const (
	CodeValidationError = "VALIDATION_ERROR"
	CodeNotFound        = "NOT_FOUND"
	CodeUnauthorized    = "UNAUTHORIZED"
	CodeForbidden       = "FORBIDDEN"
	CodeConflict        = "CONFLICT"
	CodePDFUnavailable  = "PDF_UNAVAILABLE"
	CodeInternalError   = "INTERNAL_ERROR"
)

// errorBody — corpo da resposta de erro.
type errorBody struct {
	Error errorDetail `json:"error"`
}

// errorDetail — detalhes do erro.
type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// WriteError escreve a resposta de erro no formato padrão.
// statusCode — status HTTP, code — código legível por máquina, message — descrição.
func WriteError(w http.ResponseWriter, statusCode int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(errorBody{
		Error: errorDetail{
			Code:    code,
			Message: message,
		},
	})
}

// --- Construtores dos erros típicos ---

// ValidationError — 400 dados de entrada inválidos.
func ValidationError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusBadRequest, CodeValidationError, message)
}

// NotFound — 404 recurso não encontrado.
func NotFound(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusNotFound, CodeNotFound, message)
}

// Unauthorized — 401 autenticação necessária.
func Unauthorized(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusUnauthorized, CodeUnauthorized, message)
}

// Forbidden — 403 permissão insuficiente.
func Forbidden(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusForbidden, CodeForbidden, message)
}

// Conflict — 409 conflito (recurso duplicado ou estado incompatível).
func Conflict(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusConflict, CodeConflict, message)
}

// PDFUnavailable — 503 gerador de PDF fora do ar.
func PDFUnavailable(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusServiceUnavailable, CodePDFUnavailable, message)
}

// InternalError — 500 erro interno.
func InternalError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusInternalServerError, CodeInternalError, message)
}
