package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/tre-pb/judbox/internal/domain/model"
	"github.com/tre-pb/judbox/internal/repository"
)

// Tipos de exportação CSV.
const (
	ExportDocumentosAdm = "documentos_adm"
	ExportProcessosJud  = "processos_jud"
	ExportProcessosAdm  = "processos_adm"
)

// ErrTipoExportacao — tipo de exportação desconhecido. Deve ser detectado
// antes de qualquer byte ser escrito na resposta.
var ErrTipoExportacao = errors.New("tipo de exportação inválido")

// Cabeçalhos fixos dos CSV. Os nomes e a ordem das colunas fazem parte do
// contrato com as planilhas dos usuários: não alterar.
const (
	cabecalhoDocumentosAdm = "Espécie Documental,Data Limite,Quantidade de Caixas,Número das Caixas,Destinação,Observação"
	cabecalhoProcessos     = "Nº da Caixa,Tipo de Processo,Nº do Processo,Protocolo,Ano,Quantidade de Volumes,Nº de Caixas,Destinação,Observação"
)

// bomUTF8 — marca de ordem de bytes para o Excel detectar a codificação.
var bomUTF8 = []byte{0xEF, 0xBB, 0xBF}

var (
	metricaLinhasExportadas = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "judbox_exportacao_linhas_total",
		Help: "Linhas de dados emitidas nas exportações CSV, por tipo.",
	}, []string{"tipo"})
	metricaExportacoesErros = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "judbox_exportacao_erros_total",
		Help: "Exportações CSV interrompidas por erro, por tipo.",
	}, []string{"tipo"})
)

// TipoExportacaoValido informa se o valor é um tipo de exportação conhecido.
func TipoExportacaoValido(tipo string) bool {
	switch tipo {
	case ExportDocumentosAdm, ExportProcessosJud, ExportProcessosAdm:
		return true
	}
	return false
}

// NomeArquivoExportacao — nome do arquivo baixado para o tipo dado.
func NomeArquivoExportacao(tipo string) string {
	return tipo + ".csv"
}

// ProcessosExportacao — leitura paginada de processos para exportação.
type ProcessosExportacao interface {
	PaginaExportacao(ctx context.Context, userID, tipoCaixa string, limit, offset int) ([]repository.LinhaProcessoExport, error)
}

// DocumentosExportacao — leitura paginada de documentos para exportação.
type DocumentosExportacao interface {
	PaginaExportacao(ctx context.Context, userID string, limit, offset int) ([]*model.DocumentoAdm, error)
}

// ExportService produz os CSV de exportação em fluxo: lê o banco em páginas,
// resolve destinações por página e escreve as linhas direto na resposta,
// sem nunca materializar o conjunto completo em memória.
type ExportService struct {
	processos     ProcessosExportacao
	documentos    DocumentosExportacao
	destinos      *DestinoResolver
	tamanhoPagina int
	logger        *slog.Logger
}

// NewExportService cria o serviço de exportação CSV.
func NewExportService(processos ProcessosExportacao, documentos DocumentosExportacao, destinos *DestinoResolver, tamanhoPagina int, logger *slog.Logger) *ExportService {
	if tamanhoPagina < 1 {
		tamanhoPagina = TamanhoPaginaExportacao
	}
	return &ExportService{
		processos:     processos,
		documentos:    documentos,
		destinos:      destinos,
		tamanhoPagina: tamanhoPagina,
		logger:        logger,
	}
}

// Exportar escreve em w o CSV completo do tipo pedido: BOM UTF-8, linha de
// cabeçalho e uma linha por registro. Em caso de falha no meio do fluxo, os
// cabeçalhos HTTP já foram enviados; a única saída honesta é anexar um
// marcador "# ERRO:" legível e encerrar o fluxo. O erro também é retornado
// para registro em log. Nunca há retentativa: quem quiser o arquivo inteiro
// refaz a requisição.
func (s *ExportService) Exportar(ctx context.Context, userID, tipo string, w io.Writer) error {
	if !TipoExportacaoValido(tipo) {
		return fmt.Errorf("%w: %q", ErrTipoExportacao, tipo)
	}

	if _, err := w.Write(bomUTF8); err != nil {
		return fmt.Errorf("falha ao escrever BOM: %w", err)
	}

	var err error
	switch tipo {
	case ExportDocumentosAdm:
		err = s.exportarDocumentos(ctx, userID, w)
	case ExportProcessosJud:
		err = s.exportarProcessos(ctx, userID, model.TipoProcessoJudicial, w)
	case ExportProcessosAdm:
		err = s.exportarProcessos(ctx, userID, model.TipoProcessoAdministrativo, w)
	}
	if err != nil {
		metricaExportacoesErros.WithLabelValues(tipo).Inc()
		fmt.Fprintf(w, "\n# ERRO: %s\n", err)
		return err
	}
	return nil
}

func (s *ExportService) exportarDocumentos(ctx context.Context, userID string, w io.Writer) error {
	if _, err := io.WriteString(w, cabecalhoDocumentosAdm+"\n"); err != nil {
		return fmt.Errorf("falha ao escrever cabeçalho: %w", err)
	}

	busca := func(ctx context.Context, limit, offset int) ([]*model.DocumentoAdm, error) {
		return s.documentos.PaginaExportacao(ctx, userID, limit, offset)
	}
	return PercorrerPaginas(ctx, s.tamanhoPagina, busca, func(docs []*model.DocumentoAdm) error {
		// As destinações são resolvidas por página, nunca globalmente:
		// isso limita a memória e mantém cada página emissível por si só.
		var brutos []string
		for _, d := range docs {
			brutos = append(brutos, separaNumeros(d.NumeroCaixas)...)
		}
		destMap, err := s.destinos.Resolver(ctx, userID, brutos)
		if err != nil {
			return err
		}

		for _, d := range docs {
			linha := montaLinha(
				d.EspecieDocumental,
				textoOuVazio(d.DataLimite),
				inteiroOuVazio(d.QuantidadeCaixas),
				textoOuVazio(d.NumeroCaixas),
				uniaoDestinacoes(separaNumeros(d.NumeroCaixas), destMap),
				textoOuVazio(d.Observacao),
			)
			if _, err := io.WriteString(w, linha); err != nil {
				return fmt.Errorf("falha ao escrever linha: %w", err)
			}
			metricaLinhasExportadas.WithLabelValues(ExportDocumentosAdm).Inc()
		}
		return nil
	})
}

func (s *ExportService) exportarProcessos(ctx context.Context, userID, tipoCaixa string, w io.Writer) error {
	if _, err := io.WriteString(w, cabecalhoProcessos+"\n"); err != nil {
		return fmt.Errorf("falha ao escrever cabeçalho: %w", err)
	}

	tipoMetrica := ExportProcessosJud
	if tipoCaixa == model.TipoProcessoAdministrativo {
		tipoMetrica = ExportProcessosAdm
	}

	busca := func(ctx context.Context, limit, offset int) ([]repository.LinhaProcessoExport, error) {
		return s.processos.PaginaExportacao(ctx, userID, tipoCaixa, limit, offset)
	}
	return PercorrerPaginas(ctx, s.tamanhoPagina, busca, func(linhas []repository.LinhaProcessoExport) error {
		var numeros []string
		for _, l := range linhas {
			if l.NumeroCaixa != "" {
				numeros = append(numeros, l.NumeroCaixa)
			}
		}
		destMap, err := s.destinos.Resolver(ctx, userID, numeros)
		if err != nil {
			return err
		}

		for _, l := range linhas {
			// A destinação gravada na caixa prevalece; o mapa resolvido
			// só entra quando o valor do join veio vazio.
			destinacao := l.DestinacaoCaixa
			if destinacao == "" && l.NumeroCaixa != "" {
				destinacao = destMap[l.NumeroCaixa]
			}

			linha := montaLinha(
				l.NumeroCaixa,
				l.ClasseProcessual,
				l.NumeroProcesso,
				textoOuVazio(l.Protocolo),
				strconv.Itoa(l.Ano),
				inteiroOuVazio(l.QuantidadeVolumes),
				inteiroOuVazio(l.NumeroCaixas),
				destinacao,
				textoOuVazio(l.Observacao),
			)
			if _, err := io.WriteString(w, linha); err != nil {
				return fmt.Errorf("falha ao escrever linha: %w", err)
			}
			metricaLinhasExportadas.WithLabelValues(tipoMetrica).Inc()
		}
		return nil
	})
}

// campoCSV envolve o valor em aspas duplas, dobrando as aspas internas.
func campoCSV(v string) string {
	return `"` + strings.ReplaceAll(v, `"`, `""`) + `"`
}

// montaLinha monta uma linha CSV com todos os campos entre aspas e quebra
// de linha "\n".
func montaLinha(campos ...string) string {
	var b strings.Builder
	for i, c := range campos {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(campoCSV(c))
	}
	b.WriteByte('\n')
	return b.String()
}

// separaNumeros decompõe a lista legada de números de caixa separados por
// vírgula, aparando espaços e descartando entradas vazias.
func separaNumeros(lista *string) []string {
	if lista == nil || *lista == "" {
		return nil
	}
	partes := strings.Split(*lista, ",")
	numeros := make([]string, 0, len(partes))
	for _, p := range partes {
		p = strings.TrimSpace(p)
		if p != "" {
			numeros = append(numeros, p)
		}
	}
	return numeros
}

// uniaoDestinacoes junta as destinações distintas e não vazias das caixas
// listadas, na ordem da primeira ocorrência, separadas por "; ".
func uniaoDestinacoes(numeros []string, destMap map[string]string) string {
	vistas := make(map[string]struct{}, 2)
	var distintas []string
	for _, n := range numeros {
		d := destMap[n]
		if d == "" {
			continue
		}
		if _, ok := vistas[d]; ok {
			continue
		}
		vistas[d] = struct{}{}
		distintas = append(distintas, d)
	}
	return strings.Join(distintas, "; ")
}

func textoOuVazio(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func inteiroOuVazio(p *int) string {
	if p == nil {
		return ""
	}
	return strconv.Itoa(*p)
}
