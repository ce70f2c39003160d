package model

import "time"

// DocumentoAdm — uma espécie documental administrativa que ocupa caixas.
// NumeroCaixas mantém a codificação legada: uma lista de números de caixa
// separados por vírgula, porque um documento pode ocupar várias caixas físicas.
type DocumentoAdm struct {
	// ID — UUID do documento
	ID string `json:"id"`
	// CaixaID — caixa de referência do cadastro
	CaixaID string `json:"caixa_id"`
	// UserID — dono do documento
	UserID string `json:"user_id"`
	// EspecieDocumental — espécie documental
	EspecieDocumental string `json:"especie_documental"`
	// DataLimite — ano/data limite (texto livre, normalmente "AAAA")
	DataLimite *string `json:"data_limite,omitempty"`
	// QuantidadeCaixas — quantidade de caixas ocupadas
	QuantidadeCaixas *int `json:"quantidade_caixas,omitempty"`
	// NumeroCaixas — lista de números de caixa separados por vírgula
	NumeroCaixas *string `json:"numero_caixas,omitempty"`
	// Observacao — observação livre
	Observacao *string `json:"observacao,omitempty"`
	// CreatedAt — momento da criação
	CreatedAt time.Time `json:"created_at"`
}
