// Pacote service — regras de negócio do JudBox: resolução de destinações,
// exportação CSV, agregação de relatórios e etiquetas.
package service

import (
	"context"
	"fmt"
	"strings"
)

// tamanhoLoteDestinos — máximo de números de caixa por consulta ao banco,
// para não estourar o limite de parâmetros do backend.
const tamanhoLoteDestinos = 800

// ConsultaDestinos — dependência do resolvedor: uma consulta em lote
// número da caixa -> destinação.
type ConsultaDestinos interface {
	DestinacoesPorNumeros(ctx context.Context, userID string, numeros []string) (map[string]string, error)
}

// DestinoResolver resolve destinações de caixas em lote. O mapa produzido
// vale para uma única requisição de exportação ou relatório; nada é
// guardado entre requisições, para que os dados sejam sempre frescos.
type DestinoResolver struct {
	repo ConsultaDestinos
}

// NewDestinoResolver cria o resolvedor de destinações.
func NewDestinoResolver(repo ConsultaDestinos) *DestinoResolver {
	return &DestinoResolver{repo: repo}
}

// normalizaNumeros apara espaços, descarta vazios e remove duplicatas
// preservando a ordem da primeira ocorrência.
func normalizaNumeros(brutos []string) []string {
	vistos := make(map[string]struct{}, len(brutos))
	numeros := make([]string, 0, len(brutos))
	for _, n := range brutos {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		if _, ok := vistos[n]; ok {
			continue
		}
		vistos[n] = struct{}{}
		numeros = append(numeros, n)
	}
	return numeros
}

// Resolver retorna o mapa número da caixa -> destinação para o conjunto
// informado, consultando o banco em lotes de no máximo 800 números.
// Números sem caixa correspondente ficam fora do mapa. Qualquer falha de
// lote aborta a resolução inteira: um mapa parcial silencioso produziria
// relatórios enganosos.
func (r *DestinoResolver) Resolver(ctx context.Context, userID string, brutos []string) (map[string]string, error) {
	numeros := normalizaNumeros(brutos)
	dest := make(map[string]string, len(numeros))

	for i := 0; i < len(numeros); i += tamanhoLoteDestinos {
		fim := i + tamanhoLoteDestinos
		if fim > len(numeros) {
			fim = len(numeros)
		}
		parcial, err := r.repo.DestinacoesPorNumeros(ctx, userID, numeros[i:fim])
		if err != nil {
			return nil, fmt.Errorf("falha ao resolver destinações (lote %d): %w", i/tamanhoLoteDestinos+1, err)
		}
		for numero, destinacao := range parcial {
			dest[numero] = destinacao
		}
	}
	return dest, nil
}
