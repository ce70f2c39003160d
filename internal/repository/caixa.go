package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/tre-pb/judbox/internal/domain/model"
)

// colunas retornadas em todas as leituras de caixas.
const colunasCaixa = `id, user_id, COALESCE(numero_caixa, ''), numero_caixa_num, tipo,
	descricao, localizacao, COALESCE(destinacao, ''), data_criacao, data_atualizacao`

// CaixaRepository — acesso à tabela caixas.
type CaixaRepository struct {
	db DBTX
}

// NewCaixaRepository cria o repositório de caixas.
func NewCaixaRepository(db DBTX) *CaixaRepository {
	return &CaixaRepository{db: db}
}

// FiltroCaixas — filtros da listagem de caixas.
type FiltroCaixas struct {
	// Tipo — tipo de caixa; vazio lista todos os tipos.
	Tipo string
	// NumeroPrefixo — prefixo do número da caixa (casamento literal, sem
	// distinção de maiúsculas).
	NumeroPrefixo string
}

func scanCaixa(row pgx.Row) (*model.Caixa, error) {
	var c model.Caixa
	err := row.Scan(&c.ID, &c.UserID, &c.NumeroCaixa, &c.NumeroCaixaNum, &c.Tipo,
		&c.Descricao, &c.Localizacao, &c.Destinacao, &c.DataCriacao, &c.DataAtualizacao)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// whereCaixas monta a cláusula WHERE da listagem. Os argumentos começam em
// $1 com o user_id; filtros opcionais entram na ordem tipo, prefixo.
func whereCaixas(userID string, filtro FiltroCaixas) (string, []any) {
	conds := []string{"user_id = $1"}
	args := []any{userID}

	if filtro.Tipo != "" {
		args = append(args, filtro.Tipo)
		conds = append(conds, "tipo = $"+strconv.Itoa(len(args)))
	}
	if filtro.NumeroPrefixo != "" {
		args = append(args, escapeLike(filtro.NumeroPrefixo)+"%")
		conds = append(conds, "numero_caixa ILIKE $"+strconv.Itoa(len(args)))
	}
	return "WHERE " + strings.Join(conds, " AND "), args
}

// Listar retorna a página pedida de caixas do usuário e o total exato de
// registros que casam com o filtro. A ordenação é estável: tipo (apenas
// quando a listagem cobre todos os tipos), número na forma numérica com os
// não numéricos por último, número textual e id como desempate final.
func (r *CaixaRepository) Listar(ctx context.Context, userID string, filtro FiltroCaixas, limit, offset int) ([]*model.Caixa, int, error) {
	where, args := whereCaixas(userID, filtro)

	var total int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM caixas "+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("falha ao contar caixas: %w", err)
	}

	orderBy := "numero_caixa_num NULLS LAST, numero_caixa, id"
	if filtro.Tipo == "" {
		// Com todos os tipos na mesma listagem, agrupa por tipo primeiro.
		orderBy = "tipo, " + orderBy
	}

	args = append(args, limit, offset)
	query := fmt.Sprintf("SELECT %s FROM caixas %s ORDER BY %s LIMIT $%d OFFSET $%d",
		colunasCaixa, where, orderBy, len(args)-1, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("falha ao listar caixas: %w", err)
	}
	defer rows.Close()

	caixas := make([]*model.Caixa, 0, limit)
	for rows.Next() {
		var c model.Caixa
		err := rows.Scan(&c.ID, &c.UserID, &c.NumeroCaixa, &c.NumeroCaixaNum, &c.Tipo,
			&c.Descricao, &c.Localizacao, &c.Destinacao, &c.DataCriacao, &c.DataAtualizacao)
		if err != nil {
			return nil, 0, fmt.Errorf("falha ao ler caixa: %w", err)
		}
		caixas = append(caixas, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("falha ao percorrer caixas: %w", err)
	}
	return caixas, total, nil
}

// ObterPorID busca uma caixa do usuário. Retorna ErrNotFound se não existir
// ou pertencer a outro usuário.
func (r *CaixaRepository) ObterPorID(ctx context.Context, userID, id string) (*model.Caixa, error) {
	row := r.db.QueryRow(ctx,
		"SELECT "+colunasCaixa+" FROM caixas WHERE user_id = $1 AND id = $2",
		userID, id)
	return scanCaixa(row)
}

// ObterPorNumero busca a caixa do usuário com o número exato informado.
// Havendo duplicatas, retorna a de ordenação mais baixa.
func (r *CaixaRepository) ObterPorNumero(ctx context.Context, userID, numero string) (*model.Caixa, error) {
	row := r.db.QueryRow(ctx,
		"SELECT "+colunasCaixa+` FROM caixas
		 WHERE user_id = $1 AND numero_caixa = $2
		 ORDER BY data_criacao, id
		 LIMIT 1`,
		userID, numero)
	return scanCaixa(row)
}

// DestinacoesPorNumeros retorna o mapa número da caixa -> destinação para o
// lote informado, em uma única consulta. Números sem caixa correspondente
// simplesmente não aparecem no mapa; duplicatas ficam com o valor da última
// linha lida. O chamador é responsável por particionar lotes grandes.
func (r *CaixaRepository) DestinacoesPorNumeros(ctx context.Context, userID string, numeros []string) (map[string]string, error) {
	dest := make(map[string]string, len(numeros))
	if len(numeros) == 0 {
		return dest, nil
	}

	rows, err := r.db.Query(ctx,
		`SELECT numero_caixa, COALESCE(destinacao, '')
		 FROM caixas
		 WHERE user_id = $1 AND numero_caixa = ANY($2)`,
		userID, numeros)
	if err != nil {
		return nil, fmt.Errorf("falha ao consultar destinações: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var numero, destinacao string
		if err := rows.Scan(&numero, &destinacao); err != nil {
			return nil, fmt.Errorf("falha ao ler destinação: %w", err)
		}
		dest[numero] = destinacao
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("falha ao percorrer destinações: %w", err)
	}
	return dest, nil
}

// ContagemPorTipo conta as caixas do usuário em cada tipo, restritas ao
// mesmo prefixo de número da listagem: os totais por tipo descrevem o
// conjunto filtrado inteiro, não o acervo completo. O campo Tipo do filtro é
// ignorado — a contagem é justamente a quebra por tipo.
func (r *CaixaRepository) ContagemPorTipo(ctx context.Context, userID string, filtro FiltroCaixas) (*model.ContagemPorTipo, error) {
	where, args := whereCaixas(userID, FiltroCaixas{NumeroPrefixo: filtro.NumeroPrefixo})
	n := len(args)
	args = append(args,
		model.TipoProcessoJudicial,
		model.TipoProcessoAdministrativo,
		model.TipoDocumentoAdministrativo)

	query := fmt.Sprintf(`SELECT
			COUNT(*) FILTER (WHERE tipo = $%d),
			COUNT(*) FILTER (WHERE tipo = $%d),
			COUNT(*) FILTER (WHERE tipo = $%d)
		 FROM caixas %s`, n+1, n+2, n+3, where)

	var c model.ContagemPorTipo
	if err := r.db.QueryRow(ctx, query, args...).Scan(&c.Judicial, &c.Administrativo, &c.Documento); err != nil {
		return nil, fmt.Errorf("falha ao contar caixas por tipo: %w", err)
	}
	return &c, nil
}

// ContagemPorDestinacao conta total de caixas e quantas têm cada destinação.
func (r *CaixaRepository) ContagemPorDestinacao(ctx context.Context, userID string) (total, preservar, eliminar int, err error) {
	err = r.db.QueryRow(ctx,
		`SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE destinacao = $2),
			COUNT(*) FILTER (WHERE destinacao = $3)
		 FROM caixas WHERE user_id = $1`,
		userID, model.DestinacaoPreservar, model.DestinacaoEliminar,
	).Scan(&total, &preservar, &eliminar)
	if err != nil {
		err = fmt.Errorf("falha ao contar caixas por destinação: %w", err)
	}
	return total, preservar, eliminar, err
}

// TemItens informa se a caixa possui processos ou documentos cadastrados.
// Usado para impedir a troca de tipo de uma caixa já povoada.
func (r *CaixaRepository) TemItens(ctx context.Context, caixaID string) (bool, error) {
	var tem bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM processos WHERE caixa_id = $1)
		     OR EXISTS (SELECT 1 FROM documentos_adm WHERE caixa_id = $1)`,
		caixaID).Scan(&tem)
	if err != nil {
		return false, fmt.Errorf("falha ao verificar itens da caixa: %w", err)
	}
	return tem, nil
}

// Criar insere uma caixa e devolve o registro completo.
func (r *CaixaRepository) Criar(ctx context.Context, c *model.Caixa) (*model.Caixa, error) {
	row := r.db.QueryRow(ctx,
		`INSERT INTO caixas (user_id, numero_caixa, tipo, descricao, localizacao, destinacao)
		 VALUES ($1, NULLIF($2, ''), $3, $4, $5, $6)
		 RETURNING `+colunasCaixa,
		c.UserID, c.NumeroCaixa, c.Tipo, c.Descricao, c.Localizacao, c.Destinacao)
	criada, err := scanCaixa(row)
	if err != nil {
		return nil, fmt.Errorf("falha ao criar caixa: %w", err)
	}
	return criada, nil
}

// Atualizar grava os campos editáveis da caixa do usuário e devolve o
// registro atualizado. Retorna ErrNotFound se a caixa não for do usuário.
func (r *CaixaRepository) Atualizar(ctx context.Context, c *model.Caixa) (*model.Caixa, error) {
	row := r.db.QueryRow(ctx,
		`UPDATE caixas
		 SET numero_caixa = NULLIF($3, ''), tipo = $4, descricao = $5,
		     localizacao = $6, destinacao = $7, data_atualizacao = now()
		 WHERE user_id = $1 AND id = $2
		 RETURNING `+colunasCaixa,
		c.UserID, c.ID, c.NumeroCaixa, c.Tipo, c.Descricao, c.Localizacao, c.Destinacao)
	atualizada, err := scanCaixa(row)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("falha ao atualizar caixa: %w", err)
	}
	return atualizada, nil
}

// Excluir remove a caixa do usuário. Processos e documentos vinculados são
// removidos em cascata pelo banco.
func (r *CaixaRepository) Excluir(ctx context.Context, userID, id string) error {
	tag, err := r.db.Exec(ctx,
		"DELETE FROM caixas WHERE user_id = $1 AND id = $2", userID, id)
	if err != nil {
		return fmt.Errorf("falha ao excluir caixa: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
