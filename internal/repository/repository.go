// Pacote repository — camada de acesso a dados PostgreSQL do JudBox.
// Todas as consultas são SQL puro via pgx, sem ORM, e sempre restritas
// ao dono autenticado (user_id): cada operador só enxerga o próprio acervo.
package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Erros da camada de repositórios.
var (
	// ErrNotFound — registro não encontrado.
	ErrNotFound = errors.New("registro não encontrado")
)

// DBTX — interface para execução de consultas SQL.
// Satisfeita tanto por *pgxpool.Pool quanto por pgx.Tx, o que permite
// usar os repositórios dentro e fora de transações.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// escapeLike escapa os metacaracteres de LIKE/ILIKE em um valor vindo do
// usuário, para que o prefixo seja casado literalmente.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// aliasCols prefixa cada coluna da lista com o alias da tabela, para uso em
// consultas com join.
func aliasCols(alias, cols string) string {
	partes := strings.Split(cols, ",")
	for i, p := range partes {
		partes[i] = alias + "." + strings.TrimSpace(p)
	}
	return strings.Join(partes, ", ")
}
