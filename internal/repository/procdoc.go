package repository

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/tre-pb/judbox/internal/domain/model"
)

// FiltroProcDoc — filtros da listagem unificada de processos e documentos.
type FiltroProcDoc struct {
	// TipoItem — tipo de caixa do item; vazio lista todos.
	TipoItem string
	// NumeroPrefixo — prefixo do número da caixa.
	NumeroPrefixo string
}

// ProcDocRepository — leitura da visão vw_proc_doc_num, que une processos e
// documentos administrativos já com o número da caixa resolvido.
type ProcDocRepository struct {
	db DBTX
}

// NewProcDocRepository cria o repositório da visão unificada.
func NewProcDocRepository(db DBTX) *ProcDocRepository {
	return &ProcDocRepository{db: db}
}

// Listar retorna a página pedida de itens da visão unificada e o total
// exato de itens que casam com o filtro. A ordenação segue a das caixas:
// tipo do item (só com todos os tipos), número numérico com os não
// numéricos por último, número textual e id.
func (r *ProcDocRepository) Listar(ctx context.Context, userID string, filtro FiltroProcDoc, limit, offset int) ([]*model.ItemProcDoc, int, error) {
	conds := []string{"user_id = $1"}
	args := []any{userID}

	if filtro.TipoItem != "" {
		args = append(args, filtro.TipoItem)
		conds = append(conds, "tipo_item = $"+strconv.Itoa(len(args)))
	}
	if filtro.NumeroPrefixo != "" {
		args = append(args, escapeLike(filtro.NumeroPrefixo)+"%")
		conds = append(conds, "numero_caixa ILIKE $"+strconv.Itoa(len(args)))
	}
	where := "WHERE " + strings.Join(conds, " AND ")

	var total int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM vw_proc_doc_num "+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("falha ao contar itens: %w", err)
	}

	orderBy := "numero_caixa_num NULLS LAST, numero_caixa, id"
	if filtro.TipoItem == "" {
		orderBy = "tipo_item, " + orderBy
	}

	args = append(args, limit, offset)
	query := fmt.Sprintf(
		`SELECT id, caixa_id, numero_caixa, numero_caixa_num, tipo_item,
		        classe_processual, especie_documental, numero_processo,
		        protocolo, data_limite, created_at
		 FROM vw_proc_doc_num %s ORDER BY %s LIMIT $%d OFFSET $%d`,
		where, orderBy, len(args)-1, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("falha ao listar itens: %w", err)
	}
	defer rows.Close()

	itens := make([]*model.ItemProcDoc, 0, limit)
	for rows.Next() {
		var it model.ItemProcDoc
		err := rows.Scan(&it.ID, &it.CaixaID, &it.NumeroCaixa, &it.NumeroCaixaNum, &it.TipoItem,
			&it.ClasseProcessual, &it.EspecieDocumental, &it.NumeroProcesso,
			&it.Protocolo, &it.DataLimite, &it.CreatedAt)
		if err != nil {
			return nil, 0, fmt.Errorf("falha ao ler item: %w", err)
		}
		itens = append(itens, &it)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("falha ao percorrer itens: %w", err)
	}
	return itens, total, nil
}
