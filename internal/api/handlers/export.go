// export.go — endpoint de exportação CSV.
// GET /api/v1/export/csv?tipo=documentos_adm|processos_jud|processos_adm
package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	apierrors "github.com/tre-pb/judbox/internal/api/errors"
	"github.com/tre-pb/judbox/internal/service"
)

// ExportHandler — endpoint de exportação CSV.
type ExportHandler struct {
	export *service.ExportService
	logger *slog.Logger
}

// NewExportHandler cria o handler de exportação.
func NewExportHandler(export *service.ExportService, logger *slog.Logger) *ExportHandler {
	return &ExportHandler{export: export, logger: logger}
}

// ExportarCSV transmite o CSV do tipo pedido. A validação do tipo acontece
// antes de qualquer byte de resposta: tipo desconhecido é um 400 limpo.
// Depois do primeiro byte os cabeçalhos já foram enviados; falhas no meio do
// caminho aparecem como um marcador "# ERRO:" no fim do arquivo, e o status
// permanece 200.
func (h *ExportHandler) ExportarCSV(w http.ResponseWriter, r *http.Request) {
	id, ok := identidade(w, r)
	if !ok {
		return
	}

	tipo := strings.ToLower(r.URL.Query().Get("tipo"))
	if !service.TipoExportacaoValido(tipo) {
		apierrors.ValidationError(w, "Parâmetro 'tipo' inválido.")
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", service.NomeArquivoExportacao(tipo)))
	w.Header().Set("Cache-Control", "no-store")

	if err := h.export.Exportar(r.Context(), id.UserID, tipo, w); err != nil {
		// O marcador de erro já foi escrito no fluxo; aqui só registramos.
		h.logger.Error("exportação CSV interrompida",
			slog.String("tipo", tipo),
			slog.String("error", err.Error()),
		)
	}
}
