package service

import (
	"context"
	"errors"
	"testing"
)

// TestPercorrerPaginas_ExatamenteKPaginas verifica que uma tabela com
// exatamente k*tamanho linhas gera k+1 requisições, com a última voltando
// vazia, e termina sem erro.
func TestPercorrerPaginas_ExatamenteKPaginas(t *testing.T) {
	const tamanho = 10
	const k = 3
	total := k * tamanho

	var requisicoes int
	busca := func(_ context.Context, limit, offset int) ([]int, error) {
		requisicoes++
		if limit != tamanho {
			t.Errorf("limit = %d, esperado %d", limit, tamanho)
		}
		if offset >= total {
			return nil, nil
		}
		pagina := make([]int, 0, limit)
		for i := offset; i < offset+limit && i < total; i++ {
			pagina = append(pagina, i)
		}
		return pagina, nil
	}

	var lidos int
	err := PercorrerPaginas(context.Background(), tamanho, busca, func(pagina []int) error {
		lidos += len(pagina)
		return nil
	})
	if err != nil {
		t.Fatalf("PercorrerPaginas erro: %v", err)
	}

	if requisicoes != k+1 {
		t.Errorf("requisições = %d, esperado %d", requisicoes, k+1)
	}
	if lidos != total {
		t.Errorf("linhas lidas = %d, esperado %d", lidos, total)
	}
}

// TestPercorrerPaginas_PaginaCurtaEncerra verifica que uma página menor que
// o tamanho pedido encerra o laço sem requisição extra.
func TestPercorrerPaginas_PaginaCurtaEncerra(t *testing.T) {
	var requisicoes int
	busca := func(_ context.Context, limit, offset int) ([]string, error) {
		requisicoes++
		if offset == 0 {
			return []string{"a", "b", "c"}, nil // menor que o tamanho 5
		}
		t.Fatalf("requisição inesperada em offset %d", offset)
		return nil, nil
	}

	err := PercorrerPaginas(context.Background(), 5, busca, func([]string) error { return nil })
	if err != nil {
		t.Fatalf("PercorrerPaginas erro: %v", err)
	}
	if requisicoes != 1 {
		t.Errorf("requisições = %d, esperado 1", requisicoes)
	}
}

// TestPercorrerPaginas_ErroDeBusca verifica que a falha da busca interrompe
// o laço e propaga o erro.
func TestPercorrerPaginas_ErroDeBusca(t *testing.T) {
	falha := errors.New("timeout")
	busca := func(_ context.Context, limit, offset int) ([]int, error) {
		if offset == 0 {
			return make([]int, limit), nil
		}
		return nil, falha
	}

	var consumidas int
	err := PercorrerPaginas(context.Background(), 4, busca, func(p []int) error {
		consumidas++
		return nil
	})
	if !errors.Is(err, falha) {
		t.Fatalf("erro = %v, esperado %v", err, falha)
	}
	if consumidas != 1 {
		t.Errorf("páginas consumidas = %d, esperado 1", consumidas)
	}
}

// TestPercorrerPaginas_ErroDoConsumidor verifica que a falha do consumidor
// interrompe o laço.
func TestPercorrerPaginas_ErroDoConsumidor(t *testing.T) {
	falha := errors.New("escrita recusada")
	var requisicoes int
	busca := func(_ context.Context, limit, _ int) ([]int, error) {
		requisicoes++
		return make([]int, limit), nil
	}

	err := PercorrerPaginas(context.Background(), 4, busca, func([]int) error { return falha })
	if !errors.Is(err, falha) {
		t.Fatalf("erro = %v, esperado %v", err, falha)
	}
	if requisicoes != 1 {
		t.Errorf("requisições = %d, esperado 1", requisicoes)
	}
}

// TestPercorrerPaginas_OffsetsCrescentes verifica a ordem estrita dos
// deslocamentos.
func TestPercorrerPaginas_OffsetsCrescentes(t *testing.T) {
	var offsets []int
	busca := func(_ context.Context, limit, offset int) ([]int, error) {
		offsets = append(offsets, offset)
		if offset >= 6 {
			return nil, nil
		}
		return make([]int, limit), nil
	}

	if err := PercorrerPaginas(context.Background(), 3, busca, func([]int) error { return nil }); err != nil {
		t.Fatalf("PercorrerPaginas erro: %v", err)
	}

	esperados := []int{0, 3, 6}
	if len(offsets) != len(esperados) {
		t.Fatalf("offsets = %v, esperado %v", offsets, esperados)
	}
	for i, o := range esperados {
		if offsets[i] != o {
			t.Errorf("offsets[%d] = %d, esperado %d", i, offsets[i], o)
		}
	}
}
