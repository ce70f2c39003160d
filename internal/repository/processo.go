package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/tre-pb/judbox/internal/domain/model"
)

const colunasProcesso = `id, caixa_id, tipo_processo, classe_processual, numero_processo,
	protocolo, ano, quantidade_volumes, numero_caixas, observacao, created_at`

// ProcessoRepository — acesso à tabela processos.
type ProcessoRepository struct {
	db DBTX
}

// NewProcessoRepository cria o repositório de processos.
func NewProcessoRepository(db DBTX) *ProcessoRepository {
	return &ProcessoRepository{db: db}
}

// LinhaProcessoExport — linha da exportação de processos: o processo mais
// a caixa que o guarda. DestinacaoCaixa vem vazia quando a caixa não tem
// destinação registrada; nesse caso o exportador recorre ao mapa de
// destinações por número.
type LinhaProcessoExport struct {
	NumeroCaixa       string
	DestinacaoCaixa   string
	TipoProcesso      string
	ClasseProcessual  string
	NumeroProcesso    string
	Protocolo         *string
	Ano               int
	QuantidadeVolumes *int
	NumeroCaixas      *int
	Observacao        *string
}

func scanProcesso(row pgx.Row) (*model.Processo, error) {
	var p model.Processo
	err := row.Scan(&p.ID, &p.CaixaID, &p.TipoProcesso, &p.ClasseProcessual, &p.NumeroProcesso,
		&p.Protocolo, &p.Ano, &p.QuantidadeVolumes, &p.NumeroCaixas, &p.Observacao, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// ListarPorCaixa retorna os processos da caixa, do ano mais recente para o
// mais antigo. A posse da caixa é verificada pelo join com user_id.
func (r *ProcessoRepository) ListarPorCaixa(ctx context.Context, userID, caixaID string) ([]*model.Processo, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+aliasCols("p", colunasProcesso)+`
		 FROM processos p
		 JOIN caixas c ON c.id = p.caixa_id
		 WHERE c.user_id = $1 AND p.caixa_id = $2
		 ORDER BY p.ano DESC, p.created_at DESC, p.id`,
		userID, caixaID)
	if err != nil {
		return nil, fmt.Errorf("falha ao listar processos: %w", err)
	}
	defer rows.Close()

	var processos []*model.Processo
	for rows.Next() {
		var p model.Processo
		err := rows.Scan(&p.ID, &p.CaixaID, &p.TipoProcesso, &p.ClasseProcessual, &p.NumeroProcesso,
			&p.Protocolo, &p.Ano, &p.QuantidadeVolumes, &p.NumeroCaixas, &p.Observacao, &p.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("falha ao ler processo: %w", err)
		}
		processos = append(processos, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("falha ao percorrer processos: %w", err)
	}
	return processos, nil
}

// PaginaExportacao retorna uma página de processos guardados em caixas do
// tipo informado, já com número e destinação da caixa. A ordenação fixa
// (número da caixa na forma numérica, ano, id) torna a paginação por
// offset determinística.
func (r *ProcessoRepository) PaginaExportacao(ctx context.Context, userID, tipoCaixa string, limit, offset int) ([]LinhaProcessoExport, error) {
	rows, err := r.db.Query(ctx,
		`SELECT COALESCE(c.numero_caixa, ''), COALESCE(c.destinacao, ''),
		        p.tipo_processo, p.classe_processual, p.numero_processo,
		        p.protocolo, p.ano, p.quantidade_volumes, p.numero_caixas, p.observacao
		 FROM processos p
		 JOIN caixas c ON c.id = p.caixa_id
		 WHERE c.user_id = $1 AND c.tipo = $2
		 ORDER BY c.numero_caixa_num NULLS LAST, c.numero_caixa, p.ano, p.id
		 LIMIT $3 OFFSET $4`,
		userID, tipoCaixa, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("falha ao consultar página de processos: %w", err)
	}
	defer rows.Close()

	linhas := make([]LinhaProcessoExport, 0, limit)
	for rows.Next() {
		var l LinhaProcessoExport
		err := rows.Scan(&l.NumeroCaixa, &l.DestinacaoCaixa, &l.TipoProcesso,
			&l.ClasseProcessual, &l.NumeroProcesso, &l.Protocolo, &l.Ano,
			&l.QuantidadeVolumes, &l.NumeroCaixas, &l.Observacao)
		if err != nil {
			return nil, fmt.Errorf("falha ao ler linha de exportação: %w", err)
		}
		linhas = append(linhas, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("falha ao percorrer página de processos: %w", err)
	}
	return linhas, nil
}

// ContagemPorCategoria conta os processos do usuário no total e em cada
// categoria (judicial e administrativo).
func (r *ProcessoRepository) ContagemPorCategoria(ctx context.Context, userID string) (total, judicial, administrativo int, err error) {
	err = r.db.QueryRow(ctx,
		`SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE p.tipo_processo = $2),
			COUNT(*) FILTER (WHERE p.tipo_processo = $3)
		 FROM processos p
		 JOIN caixas c ON c.id = p.caixa_id
		 WHERE c.user_id = $1`,
		userID, model.ProcessoJudicial, model.ProcessoAdministrativo,
	).Scan(&total, &judicial, &administrativo)
	if err != nil {
		err = fmt.Errorf("falha ao contar processos: %w", err)
	}
	return total, judicial, administrativo, err
}

// Criar insere um processo em uma caixa do usuário. Retorna ErrNotFound se
// a caixa não existir ou pertencer a outro usuário.
func (r *ProcessoRepository) Criar(ctx context.Context, userID string, p *model.Processo) (*model.Processo, error) {
	var dona bool
	err := r.db.QueryRow(ctx,
		"SELECT EXISTS (SELECT 1 FROM caixas WHERE user_id = $1 AND id = $2)",
		userID, p.CaixaID).Scan(&dona)
	if err != nil {
		return nil, fmt.Errorf("falha ao verificar caixa do processo: %w", err)
	}
	if !dona {
		return nil, ErrNotFound
	}

	row := r.db.QueryRow(ctx,
		`INSERT INTO processos (caixa_id, tipo_processo, classe_processual, numero_processo,
		                        protocolo, ano, quantidade_volumes, numero_caixas, observacao)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING `+colunasProcesso,
		p.CaixaID, p.TipoProcesso, p.ClasseProcessual, p.NumeroProcesso,
		p.Protocolo, p.Ano, p.QuantidadeVolumes, p.NumeroCaixas, p.Observacao)
	criado, err := scanProcesso(row)
	if err != nil {
		return nil, fmt.Errorf("falha ao criar processo: %w", err)
	}
	return criado, nil
}

// Atualizar grava os campos editáveis do processo, desde que a caixa seja
// do usuário.
func (r *ProcessoRepository) Atualizar(ctx context.Context, userID string, p *model.Processo) (*model.Processo, error) {
	row := r.db.QueryRow(ctx,
		`UPDATE processos p
		 SET classe_processual = $3, numero_processo = $4, protocolo = $5,
		     ano = $6, quantidade_volumes = $7, numero_caixas = $8, observacao = $9
		 FROM caixas c
		 WHERE c.id = p.caixa_id AND c.user_id = $1 AND p.id = $2
		 RETURNING `+aliasCols("p", colunasProcesso),
		userID, p.ID, p.ClasseProcessual, p.NumeroProcesso, p.Protocolo,
		p.Ano, p.QuantidadeVolumes, p.NumeroCaixas, p.Observacao)
	atualizado, err := scanProcesso(row)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("falha ao atualizar processo: %w", err)
	}
	return atualizado, nil
}

// Excluir remove o processo, desde que a caixa seja do usuário.
func (r *ProcessoRepository) Excluir(ctx context.Context, userID, id string) error {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM processos p
		 USING caixas c
		 WHERE c.id = p.caixa_id AND c.user_id = $1 AND p.id = $2`,
		userID, id)
	if err != nil {
		return fmt.Errorf("falha ao excluir processo: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
