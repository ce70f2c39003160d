package service

import (
	"context"
	"fmt"
)

// TamanhoPaginaExportacao — tamanho padrão de página das exportações CSV.
const TamanhoPaginaExportacao = 1000

// maxPaginas — teto de segurança de iterações do percorredor. Um backend
// com defeito que devolvesse sempre páginas cheias laçaria para sempre;
// aqui a exportação falha de forma visível.
const maxPaginas = 100000

// BuscaPagina busca uma página de linhas a partir do deslocamento dado.
type BuscaPagina[T any] func(ctx context.Context, limit, offset int) ([]T, error)

// PercorrerPaginas drena uma consulta em páginas de tamanho fixo, chamando
// consome para cada página na ordem crescente de deslocamento. Para quando
// uma página volta vazia ou menor que o tamanho pedido. As páginas são
// consumidas uma a uma, nunca acumuladas em memória.
func PercorrerPaginas[T any](ctx context.Context, tamanho int, busca BuscaPagina[T], consome func([]T) error) error {
	if tamanho < 1 {
		tamanho = TamanhoPaginaExportacao
	}
	for pagina := 0; ; pagina++ {
		if pagina >= maxPaginas {
			return fmt.Errorf("limite de %d páginas excedido: backend devolvendo páginas cheias indefinidamente", maxPaginas)
		}
		linhas, err := busca(ctx, tamanho, pagina*tamanho)
		if err != nil {
			return err
		}
		if len(linhas) == 0 {
			return nil
		}
		if err := consome(linhas); err != nil {
			return err
		}
		if len(linhas) < tamanho {
			return nil
		}
	}
}
