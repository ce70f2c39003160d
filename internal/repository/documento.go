package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/tre-pb/judbox/internal/domain/model"
)

const colunasDocumento = `id, caixa_id, user_id, especie_documental, data_limite,
	quantidade_caixas, numero_caixas, observacao, created_at`

// DocumentoRepository — acesso à tabela documentos_adm.
type DocumentoRepository struct {
	db DBTX
}

// NewDocumentoRepository cria o repositório de documentos administrativos.
func NewDocumentoRepository(db DBTX) *DocumentoRepository {
	return &DocumentoRepository{db: db}
}

func scanDocumento(row pgx.Row) (*model.DocumentoAdm, error) {
	var d model.DocumentoAdm
	err := row.Scan(&d.ID, &d.CaixaID, &d.UserID, &d.EspecieDocumental, &d.DataLimite,
		&d.QuantidadeCaixas, &d.NumeroCaixas, &d.Observacao, &d.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &d, nil
}

// ListarPorCaixa retorna os documentos da caixa, mais recentes primeiro.
func (r *DocumentoRepository) ListarPorCaixa(ctx context.Context, userID, caixaID string) ([]*model.DocumentoAdm, error) {
	rows, err := r.db.Query(ctx,
		"SELECT "+colunasDocumento+` FROM documentos_adm
		 WHERE user_id = $1 AND caixa_id = $2
		 ORDER BY created_at DESC, id`,
		userID, caixaID)
	if err != nil {
		return nil, fmt.Errorf("falha ao listar documentos: %w", err)
	}
	defer rows.Close()

	var docs []*model.DocumentoAdm
	for rows.Next() {
		var d model.DocumentoAdm
		err := rows.Scan(&d.ID, &d.CaixaID, &d.UserID, &d.EspecieDocumental, &d.DataLimite,
			&d.QuantidadeCaixas, &d.NumeroCaixas, &d.Observacao, &d.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("falha ao ler documento: %w", err)
		}
		docs = append(docs, &d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("falha ao percorrer documentos: %w", err)
	}
	return docs, nil
}

// PaginaExportacao retorna uma página de documentos administrativos do
// usuário, em ordem fixa (espécie documental, criação, id) para que a
// paginação por offset seja determinística.
func (r *DocumentoRepository) PaginaExportacao(ctx context.Context, userID string, limit, offset int) ([]*model.DocumentoAdm, error) {
	rows, err := r.db.Query(ctx,
		"SELECT "+colunasDocumento+` FROM documentos_adm
		 WHERE user_id = $1
		 ORDER BY especie_documental, created_at, id
		 LIMIT $2 OFFSET $3`,
		userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("falha ao consultar página de documentos: %w", err)
	}
	defer rows.Close()

	docs := make([]*model.DocumentoAdm, 0, limit)
	for rows.Next() {
		var d model.DocumentoAdm
		err := rows.Scan(&d.ID, &d.CaixaID, &d.UserID, &d.EspecieDocumental, &d.DataLimite,
			&d.QuantidadeCaixas, &d.NumeroCaixas, &d.Observacao, &d.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("falha ao ler linha de exportação: %w", err)
		}
		docs = append(docs, &d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("falha ao percorrer página de documentos: %w", err)
	}
	return docs, nil
}

// Contagem conta os documentos administrativos do usuário.
func (r *DocumentoRepository) Contagem(ctx context.Context, userID string) (int, error) {
	var total int
	err := r.db.QueryRow(ctx,
		"SELECT COUNT(*) FROM documentos_adm WHERE user_id = $1", userID).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("falha ao contar documentos: %w", err)
	}
	return total, nil
}

// Criar insere um documento em uma caixa do usuário. Retorna ErrNotFound se
// a caixa não existir ou pertencer a outro usuário.
func (r *DocumentoRepository) Criar(ctx context.Context, d *model.DocumentoAdm) (*model.DocumentoAdm, error) {
	var dona bool
	err := r.db.QueryRow(ctx,
		"SELECT EXISTS (SELECT 1 FROM caixas WHERE user_id = $1 AND id = $2)",
		d.UserID, d.CaixaID).Scan(&dona)
	if err != nil {
		return nil, fmt.Errorf("falha ao verificar caixa do documento: %w", err)
	}
	if !dona {
		return nil, ErrNotFound
	}

	row := r.db.QueryRow(ctx,
		`INSERT INTO documentos_adm (caixa_id, user_id, especie_documental, data_limite,
		                             quantidade_caixas, numero_caixas, observacao)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING `+colunasDocumento,
		d.CaixaID, d.UserID, d.EspecieDocumental, d.DataLimite,
		d.QuantidadeCaixas, d.NumeroCaixas, d.Observacao)
	criado, err := scanDocumento(row)
	if err != nil {
		return nil, fmt.Errorf("falha ao criar documento: %w", err)
	}
	return criado, nil
}

// Atualizar grava os campos editáveis do documento do usuário.
func (r *DocumentoRepository) Atualizar(ctx context.Context, d *model.DocumentoAdm) (*model.DocumentoAdm, error) {
	row := r.db.QueryRow(ctx,
		`UPDATE documentos_adm
		 SET especie_documental = $3, data_limite = $4, quantidade_caixas = $5,
		     numero_caixas = $6, observacao = $7
		 WHERE user_id = $1 AND id = $2
		 RETURNING `+colunasDocumento,
		d.UserID, d.ID, d.EspecieDocumental, d.DataLimite,
		d.QuantidadeCaixas, d.NumeroCaixas, d.Observacao)
	atualizado, err := scanDocumento(row)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("falha ao atualizar documento: %w", err)
	}
	return atualizado, nil
}

// Excluir remove o documento do usuário.
func (r *DocumentoRepository) Excluir(ctx context.Context, userID, id string) error {
	tag, err := r.db.Exec(ctx,
		"DELETE FROM documentos_adm WHERE user_id = $1 AND id = $2", userID, id)
	if err != nil {
		return fmt.Errorf("falha ao excluir documento: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
