package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/tre-pb/judbox/internal/domain/model"
)

// BuscaCaixaPorNumero — dependência do serviço de etiquetas.
type BuscaCaixaPorNumero interface {
	ObterPorNumero(ctx context.Context, userID, numero string) (*model.Caixa, error)
}

// Etiqueta — dados impressos na etiqueta de uma caixa.
type Etiqueta struct {
	NumeroCaixa string `json:"numero_caixa"`
	Tipo        string `json:"tipo"`
	TipoRotulo  string `json:"tipo_rotulo"`
	Localizacao string `json:"localizacao"`
	Destinacao  string `json:"destinacao"`
	Descricao   string `json:"descricao,omitempty"`
}

// EtiquetaService monta etiquetas de caixa a partir do número. As buscas
// passam por um cache LRU com expiração curta: a tela de etiquetas consulta
// o mesmo número repetidas vezes durante o ajuste de impressão. O cache é
// invalidado a cada mutação da caixa; o conteúdo de exportações e
// relatórios nunca passa por aqui.
type EtiquetaService struct {
	caixas BuscaCaixaPorNumero
	cache  *expirable.LRU[string, *model.Caixa]
	logger *slog.Logger
}

// NewEtiquetaService cria o serviço de etiquetas com cache de tamanho e
// validade dados.
func NewEtiquetaService(caixas BuscaCaixaPorNumero, tamanhoCache int, validade time.Duration, logger *slog.Logger) *EtiquetaService {
	return &EtiquetaService{
		caixas: caixas,
		cache:  expirable.NewLRU[string, *model.Caixa](tamanhoCache, nil, validade),
		logger: logger,
	}
}

func chaveEtiqueta(userID, numero string) string {
	return userID + "\x00" + numero
}

// Obter monta a etiqueta da caixa com o número dado. Retorna o erro do
// repositório (inclusive ErrNotFound) quando a caixa não existe.
func (s *EtiquetaService) Obter(ctx context.Context, userID, numero string) (*Etiqueta, error) {
	chave := chaveEtiqueta(userID, numero)

	caixa, ok := s.cache.Get(chave)
	if !ok {
		var err error
		caixa, err = s.caixas.ObterPorNumero(ctx, userID, numero)
		if err != nil {
			return nil, fmt.Errorf("etiqueta da caixa %q: %w", numero, err)
		}
		s.cache.Add(chave, caixa)
	} else {
		s.logger.Debug("etiqueta servida do cache", "numero_caixa", numero)
	}

	return &Etiqueta{
		NumeroCaixa: caixa.NumeroCaixa,
		Tipo:        caixa.Tipo,
		TipoRotulo:  model.HumanizaTipo(caixa.Tipo),
		Localizacao: caixa.Localizacao,
		Destinacao:  caixa.Destinacao,
		Descricao:   textoOuVazio(caixa.Descricao),
	}, nil
}

// Invalidar descarta a entrada de cache do número dado. Chamado pelos
// manipuladores de caixa após criar, atualizar ou excluir.
func (s *EtiquetaService) Invalidar(userID, numero string) {
	if numero == "" {
		return
	}
	s.cache.Remove(chaveEtiqueta(userID, numero))
}
