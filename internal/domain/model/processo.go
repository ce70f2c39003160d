package model

import "time"

// Categorias de processo.
const (
	ProcessoJudicial       = "judicial"
	ProcessoAdministrativo = "administrativo"
)

// Processo — um processo judicial ou administrativo guardado em uma caixa.
type Processo struct {
	// ID — UUID do processo
	ID string `json:"id"`
	// CaixaID — caixa que guarda o processo
	CaixaID string `json:"caixa_id"`
	// TipoProcesso — judicial | administrativo (redundante com o tipo da caixa)
	TipoProcesso string `json:"tipo_processo"`
	// ClasseProcessual — classe processual (texto livre)
	ClasseProcessual string `json:"classe_processual"`
	// NumeroProcesso — número do processo
	NumeroProcesso string `json:"numero_processo"`
	// Protocolo — protocolo (opcional)
	Protocolo *string `json:"protocolo,omitempty"`
	// Ano — ano do processo
	Ano int `json:"ano"`
	// QuantidadeVolumes — volumes do processo (opcional, >= 1)
	QuantidadeVolumes *int `json:"quantidade_volumes,omitempty"`
	// NumeroCaixas — quantidade declarada de caixas (opcional, >= 1)
	NumeroCaixas *int `json:"numero_caixas,omitempty"`
	// Observacao — observação livre
	Observacao *string `json:"observacao,omitempty"`
	// CreatedAt — momento da criação
	CreatedAt time.Time `json:"created_at"`
}
