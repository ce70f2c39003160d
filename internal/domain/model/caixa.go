// Pacote model — modelos de domínio do JudBox.
package model

import "time"

// Tipos de caixa.
const (
	TipoProcessoJudicial        = "processo_judicial"
	TipoProcessoAdministrativo  = "processo_administrativo"
	TipoDocumentoAdministrativo = "documento_administrativo"
)

// Destinações possíveis de uma caixa.
const (
	DestinacaoPreservar = "preservar"
	DestinacaoEliminar  = "eliminar"
)

// TiposCaixa lista os tipos válidos de caixa.
var TiposCaixa = []string{
	TipoProcessoJudicial,
	TipoProcessoAdministrativo,
	TipoDocumentoAdministrativo,
}

// TipoCaixaValido informa se o valor é um tipo de caixa conhecido.
func TipoCaixaValido(tipo string) bool {
	for _, t := range TiposCaixa {
		if t == tipo {
			return true
		}
	}
	return false
}

// DestinacaoValida informa se o valor é uma destinação conhecida.
func DestinacaoValida(d string) bool {
	return d == DestinacaoPreservar || d == DestinacaoEliminar
}

// Caixa — uma caixa física de arquivo.
type Caixa struct {
	// ID — UUID da caixa
	ID string `json:"id"`
	// UserID — dono da caixa (sub do JWT)
	UserID string `json:"user_id"`
	// NumeroCaixa — número da caixa (texto livre, chave humana; pode repetir)
	NumeroCaixa string `json:"numero_caixa"`
	// NumeroCaixaNum — sombra numérica para ordenação natural (NULL se não numérico)
	NumeroCaixaNum *int64 `json:"numero_caixa_num,omitempty"`
	// Tipo — processo_judicial | processo_administrativo | documento_administrativo
	Tipo string `json:"tipo"`
	// Descricao — descrição livre
	Descricao *string `json:"descricao,omitempty"`
	// Localizacao — cidade onde a caixa está guardada
	Localizacao string `json:"localizacao"`
	// Destinacao — preservar | eliminar
	Destinacao string `json:"destinacao"`
	// DataCriacao — momento da criação
	DataCriacao time.Time `json:"data_criacao"`
	// DataAtualizacao — última alteração
	DataAtualizacao time.Time `json:"data_atualizacao"`
}

// HumanizaTipo converte o tipo interno no rótulo exibido em relatórios.
func HumanizaTipo(tipo string) string {
	switch tipo {
	case TipoProcessoJudicial:
		return "Processo Judicial"
	case TipoProcessoAdministrativo:
		return "Processo Administrativo"
	case TipoDocumentoAdministrativo:
		return "Documento Administrativo"
	default:
		return tipo
	}
}
