package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/tre-pb/judbox/internal/domain/model"
	"github.com/tre-pb/judbox/internal/repository"
)

// TamanhoPaginaRelatorio — tamanho padrão de página dos relatórios.
const TamanhoPaginaRelatorio = 50

// CaixasRelatorio — leituras de caixas usadas pelos relatórios.
type CaixasRelatorio interface {
	Listar(ctx context.Context, userID string, filtro repository.FiltroCaixas, limit, offset int) ([]*model.Caixa, int, error)
	ContagemPorTipo(ctx context.Context, userID string, filtro repository.FiltroCaixas) (*model.ContagemPorTipo, error)
	ContagemPorDestinacao(ctx context.Context, userID string) (total, preservar, eliminar int, err error)
}

// ProcessosRelatorio — contagens de processos usadas pelo panorama.
type ProcessosRelatorio interface {
	ContagemPorCategoria(ctx context.Context, userID string) (total, judicial, administrativo int, err error)
}

// DocumentosRelatorio — contagem de documentos usada pelo panorama.
type DocumentosRelatorio interface {
	Contagem(ctx context.Context, userID string) (int, error)
}

// ProcDocRelatorio — leitura da visão unificada de processos e documentos.
type ProcDocRelatorio interface {
	Listar(ctx context.Context, userID string, filtro repository.FiltroProcDoc, limit, offset int) ([]*model.ItemProcDoc, int, error)
}

// FiltroRelatorio — parâmetros das listagens de relatório.
type FiltroRelatorio struct {
	// Tipo — filtro de tipo, aceita os apelidos históricos (ver NormalizaTipo);
	// vazio ou "todos" lista todos os tipos.
	Tipo string
	// NumeroPrefixo — prefixo do número da caixa.
	NumeroPrefixo string
	// Pagina — número da página, a partir de 1.
	Pagina int
	// TamanhoPagina — itens por página.
	TamanhoPagina int
}

// PaginaCaixas — resultado da listagem de caixas para relatório.
type PaginaCaixas struct {
	Caixas        []*model.Caixa `json:"caixas"`
	Total         int            `json:"total"`
	TotalPaginas  int            `json:"total_paginas"`
	Pagina        int            `json:"pagina"`
	TamanhoPagina int            `json:"tamanho_pagina"`
	// PorTipo — totais reais por tipo; presente apenas na listagem sem
	// filtro de tipo, em que a página visível é só um recorte do todo.
	PorTipo *model.ContagemPorTipo `json:"por_tipo,omitempty"`
}

// PaginaProcDoc — resultado da listagem unificada de processos e documentos.
type PaginaProcDoc struct {
	Itens         []*model.ItemProcDoc `json:"itens"`
	Total         int                  `json:"total"`
	TotalPaginas  int                  `json:"total_paginas"`
	Pagina        int                  `json:"pagina"`
	TamanhoPagina int                  `json:"tamanho_pagina"`
}

// RelatorioService agrega os dados dos relatórios: panorama com contagens
// globais e listagens paginadas de caixas e de processos/documentos. Cada
// chamada é uma função pura de (filtros, página, usuário): nenhum estado
// sobrevive entre requisições.
type RelatorioService struct {
	caixas     CaixasRelatorio
	processos  ProcessosRelatorio
	documentos DocumentosRelatorio
	procdoc    ProcDocRelatorio
}

// NewRelatorioService cria o serviço de relatórios.
func NewRelatorioService(caixas CaixasRelatorio, processos ProcessosRelatorio, documentos DocumentosRelatorio, procdoc ProcDocRelatorio) *RelatorioService {
	return &RelatorioService{
		caixas:     caixas,
		processos:  processos,
		documentos: documentos,
		procdoc:    procdoc,
	}
}

// NormalizaTipo converte os apelidos históricos de tipo no valor canônico.
// Vazio, "todos" ou valor desconhecido viram "" (todos os tipos).
func NormalizaTipo(tipo string) string {
	switch strings.ToLower(strings.TrimSpace(tipo)) {
	case "judicial", "processo_judicial", "proc_jud":
		return model.TipoProcessoJudicial
	case "adm", "processo_administrativo", "proc_adm", "adm_proc":
		return model.TipoProcessoAdministrativo
	case "docs", "documento_administrativo", "adm_doc", "documentos":
		return model.TipoDocumentoAdministrativo
	}
	return ""
}

func normalizaPaginacao(f *FiltroRelatorio) {
	if f.Pagina < 1 {
		f.Pagina = 1
	}
	if f.TamanhoPagina < 1 {
		f.TamanhoPagina = TamanhoPaginaRelatorio
	}
}

func totalPaginas(total, tamanho int) int {
	return (total + tamanho - 1) / tamanho
}

// Overview calcula o panorama geral do acervo do usuário: totais de caixas
// por destinação e por tipo, processos por categoria e documentos. O
// registro sai completo para que a renderização não precise de nenhuma
// consulta adicional.
func (s *RelatorioService) Overview(ctx context.Context, userID, email string) (*model.OverviewRelatorio, error) {
	totalCx, preservar, eliminar, err := s.caixas.ContagemPorDestinacao(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("panorama: %w", err)
	}
	porTipo, err := s.caixas.ContagemPorTipo(ctx, userID, repository.FiltroCaixas{})
	if err != nil {
		return nil, fmt.Errorf("panorama: %w", err)
	}
	totalProc, judicial, administrativo, err := s.processos.ContagemPorCategoria(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("panorama: %w", err)
	}
	docs, err := s.documentos.Contagem(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("panorama: %w", err)
	}

	return &model.OverviewRelatorio{
		TotalCaixas:        totalCx,
		DestPreservar:      preservar,
		DestEliminar:       eliminar,
		ProcTotal:          totalProc,
		ProcJudicial:       judicial,
		ProcAdministrativo: administrativo,
		DocsAdm:            docs,
		CxJudicial:         porTipo.Judicial,
		CxAdministrativo:   porTipo.Administrativo,
		CxDocumento:        porTipo.Documento,
		Usuario:            email,
		GeradoEm:           time.Now(),
	}, nil
}

// ListarCaixas retorna a página pedida de caixas com o total exato e, na
// listagem sem filtro de tipo, os totais reais por tipo.
func (s *RelatorioService) ListarCaixas(ctx context.Context, userID string, f FiltroRelatorio) (*PaginaCaixas, error) {
	normalizaPaginacao(&f)
	tipo := NormalizaTipo(f.Tipo)

	filtro := repository.FiltroCaixas{Tipo: tipo, NumeroPrefixo: strings.TrimSpace(f.NumeroPrefixo)}
	caixas, total, err := s.caixas.Listar(ctx, userID, filtro, f.TamanhoPagina, (f.Pagina-1)*f.TamanhoPagina)
	if err != nil {
		return nil, fmt.Errorf("listagem de caixas: %w", err)
	}

	pagina := &PaginaCaixas{
		Caixas:        caixas,
		Total:         total,
		TotalPaginas:  totalPaginas(total, f.TamanhoPagina),
		Pagina:        f.Pagina,
		TamanhoPagina: f.TamanhoPagina,
	}
	if tipo == "" {
		// Os totais por tipo acompanham o filtro de prefixo: os cartões
		// descrevem o conjunto filtrado inteiro, não o acervo completo.
		porTipo, err := s.caixas.ContagemPorTipo(ctx, userID, filtro)
		if err != nil {
			return nil, fmt.Errorf("listagem de caixas: %w", err)
		}
		pagina.PorTipo = porTipo
	}
	return pagina, nil
}

// TodasCaixas drena a listagem inteira de caixas para o filtro dado, em
// páginas de exportação. Usada pela geração de PDF, que imprime o recorte
// completo e não uma página de tela.
func (s *RelatorioService) TodasCaixas(ctx context.Context, userID string, f FiltroRelatorio) ([]*model.Caixa, error) {
	filtro := repository.FiltroCaixas{
		Tipo:          NormalizaTipo(f.Tipo),
		NumeroPrefixo: strings.TrimSpace(f.NumeroPrefixo),
	}

	var todas []*model.Caixa
	busca := func(ctx context.Context, limit, offset int) ([]*model.Caixa, error) {
		caixas, _, err := s.caixas.Listar(ctx, userID, filtro, limit, offset)
		return caixas, err
	}
	err := PercorrerPaginas(ctx, TamanhoPaginaExportacao, busca, func(pagina []*model.Caixa) error {
		todas = append(todas, pagina...)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("listagem completa de caixas: %w", err)
	}
	return todas, nil
}

// ListarProcDoc retorna a página pedida da visão unificada de processos e
// documentos, com o total exato para o filtro.
func (s *RelatorioService) ListarProcDoc(ctx context.Context, userID string, f FiltroRelatorio) (*PaginaProcDoc, error) {
	normalizaPaginacao(&f)

	filtro := repository.FiltroProcDoc{
		TipoItem:      NormalizaTipo(f.Tipo),
		NumeroPrefixo: strings.TrimSpace(f.NumeroPrefixo),
	}
	itens, total, err := s.procdoc.Listar(ctx, userID, filtro, f.TamanhoPagina, (f.Pagina-1)*f.TamanhoPagina)
	if err != nil {
		return nil, fmt.Errorf("listagem de processos e documentos: %w", err)
	}

	return &PaginaProcDoc{
		Itens:         itens,
		Total:         total,
		TotalPaginas:  totalPaginas(total, f.TamanhoPagina),
		Pagina:        f.Pagina,
		TamanhoPagina: f.TamanhoPagina,
	}, nil
}
