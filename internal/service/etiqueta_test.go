package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tre-pb/judbox/internal/domain/model"
	"github.com/tre-pb/judbox/internal/repository"
)

type mockBuscaCaixa struct {
	fn       func(ctx context.Context, userID, numero string) (*model.Caixa, error)
	chamadas int
}

func (m *mockBuscaCaixa) ObterPorNumero(ctx context.Context, userID, numero string) (*model.Caixa, error) {
	m.chamadas++
	return m.fn(ctx, userID, numero)
}

func caixaDeTeste() *model.Caixa {
	return &model.Caixa{
		NumeroCaixa: "42",
		Tipo:        model.TipoProcessoJudicial,
		Localizacao: "Guarabira",
		Destinacao:  model.DestinacaoPreservar,
		Descricao:   ptrStr("Eleições 2024"),
	}
}

// TestEtiqueta_CacheEvitaSegundaBusca verifica que a segunda consulta do
// mesmo número sai do cache, sem nova ida ao repositório.
func TestEtiqueta_CacheEvitaSegundaBusca(t *testing.T) {
	repo := &mockBuscaCaixa{
		fn: func(_ context.Context, _, _ string) (*model.Caixa, error) {
			return caixaDeTeste(), nil
		},
	}
	svc := NewEtiquetaService(repo, 8, time.Minute, logDescartado())

	for i := 0; i < 3; i++ {
		et, err := svc.Obter(context.Background(), "u1", "42")
		if err != nil {
			t.Fatalf("Obter erro: %v", err)
		}
		if et.NumeroCaixa != "42" || et.TipoRotulo != "Processo Judicial" || et.Descricao != "Eleições 2024" {
			t.Errorf("etiqueta = %+v", et)
		}
	}

	if repo.chamadas != 1 {
		t.Errorf("buscas no repositório = %d, esperado 1", repo.chamadas)
	}
}

// TestEtiqueta_UsuariosNaoCompartilhamCache verifica o isolamento por usuário.
func TestEtiqueta_UsuariosNaoCompartilhamCache(t *testing.T) {
	repo := &mockBuscaCaixa{
		fn: func(_ context.Context, userID, _ string) (*model.Caixa, error) {
			c := caixaDeTeste()
			c.UserID = userID
			return c, nil
		},
	}
	svc := NewEtiquetaService(repo, 8, time.Minute, logDescartado())

	if _, err := svc.Obter(context.Background(), "u1", "42"); err != nil {
		t.Fatalf("Obter u1 erro: %v", err)
	}
	if _, err := svc.Obter(context.Background(), "u2", "42"); err != nil {
		t.Fatalf("Obter u2 erro: %v", err)
	}

	if repo.chamadas != 2 {
		t.Errorf("buscas no repositório = %d, esperado 2 (uma por usuário)", repo.chamadas)
	}
}

// TestEtiqueta_InvalidarForcaNovaBusca verifica que a invalidação descarta a
// entrada de cache e a próxima consulta volta ao repositório.
func TestEtiqueta_InvalidarForcaNovaBusca(t *testing.T) {
	destinacao := model.DestinacaoPreservar
	repo := &mockBuscaCaixa{
		fn: func(_ context.Context, _, _ string) (*model.Caixa, error) {
			c := caixaDeTeste()
			c.Destinacao = destinacao
			return c, nil
		},
	}
	svc := NewEtiquetaService(repo, 8, time.Minute, logDescartado())

	if _, err := svc.Obter(context.Background(), "u1", "42"); err != nil {
		t.Fatalf("Obter erro: %v", err)
	}

	// A caixa mudou de destinação e o handler invalidou o cache.
	destinacao = model.DestinacaoEliminar
	svc.Invalidar("u1", "42")

	et, err := svc.Obter(context.Background(), "u1", "42")
	if err != nil {
		t.Fatalf("Obter erro: %v", err)
	}
	if et.Destinacao != model.DestinacaoEliminar {
		t.Errorf("destinação = %q, esperado %q (valor atualizado)", et.Destinacao, model.DestinacaoEliminar)
	}
	if repo.chamadas != 2 {
		t.Errorf("buscas no repositório = %d, esperado 2", repo.chamadas)
	}
}

// TestEtiqueta_NaoEncontrada verifica o repasse de ErrNotFound sem cachear
// a ausência.
func TestEtiqueta_NaoEncontrada(t *testing.T) {
	repo := &mockBuscaCaixa{
		fn: func(_ context.Context, _, _ string) (*model.Caixa, error) {
			return nil, repository.ErrNotFound
		},
	}
	svc := NewEtiquetaService(repo, 8, time.Minute, logDescartado())

	if _, err := svc.Obter(context.Background(), "u1", "999"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("erro = %v, esperado ErrNotFound", err)
	}
	if _, err := svc.Obter(context.Background(), "u1", "999"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("erro = %v, esperado ErrNotFound", err)
	}
	if repo.chamadas != 2 {
		t.Errorf("buscas no repositório = %d, esperado 2 (ausência não é cacheada)", repo.chamadas)
	}
}
