package model

import "time"

// OverviewRelatorio — contagens globais do relatório geral, todas
// restritas ao dono autenticado. Consumido por uma visão estática:
// nenhuma consulta adicional acontece durante a renderização.
type OverviewRelatorio struct {
	// TotalCaixas — total de caixas
	TotalCaixas int `json:"total_caixas"`
	// DestPreservar / DestEliminar — caixas por destinação
	DestPreservar int `json:"dest_preservar"`
	DestEliminar  int `json:"dest_eliminar"`
	// ProcTotal / ProcJudicial / ProcAdministrativo — processos por categoria
	ProcTotal          int `json:"proc_total"`
	ProcJudicial       int `json:"proc_judicial"`
	ProcAdministrativo int `json:"proc_administrativo"`
	// DocsAdm — documentos administrativos
	DocsAdm int `json:"docs_adm"`
	// CxJudicial / CxAdministrativo / CxDocumento — caixas por tipo
	CxJudicial       int `json:"cx_judicial"`
	CxAdministrativo int `json:"cx_administrativo"`
	CxDocumento      int `json:"cx_documento"`
	// Usuario — identidade exibida (e-mail)
	Usuario string `json:"usuario"`
	// GeradoEm — momento da geração
	GeradoEm time.Time `json:"gerado_em"`
}

// ContagemPorTipo — totais exatos por tipo de caixa, usados nos cartões
// de resumo quando o filtro é "todos" (a página visível é só um recorte).
type ContagemPorTipo struct {
	Judicial       int `json:"judicial"`
	Administrativo int `json:"administrativo"`
	Documento      int `json:"documento"`
}

// ItemProcDoc — linha da visão unificada de processos e documentos
// (vw_proc_doc_num). TipoItem discrimina qual dos dois lados da união a
// linha representa; os campos específicos do outro lado ficam nulos.
type ItemProcDoc struct {
	ID                string     `json:"id"`
	CaixaID           string     `json:"caixa_id"`
	NumeroCaixa       *string    `json:"numero_caixa"`
	NumeroCaixaNum    *int64     `json:"numero_caixa_num,omitempty"`
	TipoItem          string     `json:"tipo_item"`
	ClasseProcessual  *string    `json:"classe_processual,omitempty"`
	EspecieDocumental *string    `json:"especie_documental,omitempty"`
	NumeroProcesso    *string    `json:"numero_processo,omitempty"`
	Protocolo         *string    `json:"protocolo,omitempty"`
	DataLimite        *string    `json:"data_limite,omitempty"`
	CreatedAt         *time.Time `json:"created_at,omitempty"`
}
