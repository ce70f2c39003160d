package service

import (
	"context"
	"errors"
	"strconv"
	"testing"
)

// mockConsultaDestinos — mock de ConsultaDestinos para testes unitários.
type mockConsultaDestinos struct {
	fn       func(ctx context.Context, userID string, numeros []string) (map[string]string, error)
	chamadas [][]string
}

func (m *mockConsultaDestinos) DestinacoesPorNumeros(ctx context.Context, userID string, numeros []string) (map[string]string, error) {
	m.chamadas = append(m.chamadas, numeros)
	if m.fn != nil {
		return m.fn(ctx, userID, numeros)
	}
	return map[string]string{}, nil
}

func numerosDeTeste(n int) []string {
	numeros := make([]string, 0, n)
	for i := 0; i < n; i++ {
		numeros = append(numeros, "CX"+strconv.Itoa(i))
	}
	return numeros
}

// TestDestinoResolver_Normalizacao verifica que entradas com espaços e
// duplicatas viram uma única chave de consulta.
func TestDestinoResolver_Normalizacao(t *testing.T) {
	repo := &mockConsultaDestinos{
		fn: func(_ context.Context, _ string, numeros []string) (map[string]string, error) {
			dest := make(map[string]string)
			for _, n := range numeros {
				dest[n] = "preservar"
			}
			return dest, nil
		},
	}
	r := NewDestinoResolver(repo)

	dest, err := r.Resolver(context.Background(), "u1", []string{"CX1", " CX1 ", "CX1", "", "  "})
	if err != nil {
		t.Fatalf("Resolver erro: %v", err)
	}

	if len(repo.chamadas) != 1 {
		t.Fatalf("consultas = %d, esperado 1", len(repo.chamadas))
	}
	if len(repo.chamadas[0]) != 1 || repo.chamadas[0][0] != "CX1" {
		t.Errorf("lote consultado = %v, esperado [CX1]", repo.chamadas[0])
	}
	if len(dest) != 1 || dest["CX1"] != "preservar" {
		t.Errorf("mapa = %v, esperado {CX1: preservar}", dest)
	}
}

// TestDestinoResolver_Lotes verifica que N números únicos geram
// ceil(N/800) consultas e que a união dos lotes cobre todos os números.
func TestDestinoResolver_Lotes(t *testing.T) {
	const n = 1700 // ceil(1700/800) = 3 lotes

	repo := &mockConsultaDestinos{
		fn: func(_ context.Context, _ string, lote []string) (map[string]string, error) {
			if len(lote) > tamanhoLoteDestinos {
				t.Errorf("lote com %d números, máximo é %d", len(lote), tamanhoLoteDestinos)
			}
			dest := make(map[string]string, len(lote))
			for _, num := range lote {
				dest[num] = "eliminar"
			}
			return dest, nil
		},
	}
	r := NewDestinoResolver(repo)

	numeros := numerosDeTeste(n)
	dest, err := r.Resolver(context.Background(), "u1", numeros)
	if err != nil {
		t.Fatalf("Resolver erro: %v", err)
	}

	if len(repo.chamadas) != 3 {
		t.Errorf("consultas = %d, esperado 3", len(repo.chamadas))
	}
	if len(dest) != n {
		t.Errorf("mapa com %d entradas, esperado %d", len(dest), n)
	}
	for _, num := range numeros {
		if dest[num] != "eliminar" {
			t.Fatalf("número %s ausente do mapa", num)
		}
	}
}

// TestDestinoResolver_AbortaNoErro verifica que a falha de um lote aborta a
// resolução inteira, sem mapa parcial.
func TestDestinoResolver_AbortaNoErro(t *testing.T) {
	falha := errors.New("conexão recusada")
	chamada := 0

	repo := &mockConsultaDestinos{}
	repo.fn = func(_ context.Context, _ string, lote []string) (map[string]string, error) {
		chamada++
		if chamada == 2 {
			return nil, falha
		}
		dest := make(map[string]string, len(lote))
		for _, num := range lote {
			dest[num] = "preservar"
		}
		return dest, nil
	}
	r := NewDestinoResolver(repo)

	dest, err := r.Resolver(context.Background(), "u1", numerosDeTeste(900))
	if !errors.Is(err, falha) {
		t.Fatalf("erro = %v, esperado %v", err, falha)
	}
	if dest != nil {
		t.Errorf("mapa parcial retornado junto com o erro (%d entradas)", len(dest))
	}
}

// TestDestinoResolver_VazioNaoConsulta verifica que um conjunto vazio não
// gera consulta nenhuma.
func TestDestinoResolver_VazioNaoConsulta(t *testing.T) {
	repo := &mockConsultaDestinos{}
	r := NewDestinoResolver(repo)

	dest, err := r.Resolver(context.Background(), "u1", []string{"", "   "})
	if err != nil {
		t.Fatalf("Resolver erro: %v", err)
	}
	if len(repo.chamadas) != 0 {
		t.Errorf("consultas = %d, esperado 0", len(repo.chamadas))
	}
	if len(dest) != 0 {
		t.Errorf("mapa = %v, esperado vazio", dest)
	}
}
