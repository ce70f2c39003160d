package service

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/tre-pb/judbox/internal/domain/model"
	"github.com/tre-pb/judbox/internal/repository"
)

type mockProcessosExport struct {
	fn func(ctx context.Context, userID, tipoCaixa string, limit, offset int) ([]repository.LinhaProcessoExport, error)
}

func (m *mockProcessosExport) PaginaExportacao(ctx context.Context, userID, tipoCaixa string, limit, offset int) ([]repository.LinhaProcessoExport, error) {
	return m.fn(ctx, userID, tipoCaixa, limit, offset)
}

type mockDocumentosExport struct {
	fn func(ctx context.Context, userID string, limit, offset int) ([]*model.DocumentoAdm, error)
}

func (m *mockDocumentosExport) PaginaExportacao(ctx context.Context, userID string, limit, offset int) ([]*model.DocumentoAdm, error) {
	return m.fn(ctx, userID, limit, offset)
}

func ptrStr(s string) *string { return &s }
func ptrInt(n int) *int       { return &n }

func resolverFixo(dest map[string]string) *DestinoResolver {
	return NewDestinoResolver(&mockConsultaDestinos{
		fn: func(_ context.Context, _ string, numeros []string) (map[string]string, error) {
			m := make(map[string]string, len(numeros))
			for _, n := range numeros {
				if d, ok := dest[n]; ok {
					m[n] = d
				}
			}
			return m, nil
		},
	})
}

func logDescartado() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// TestExportar_TipoInvalido verifica que um tipo desconhecido falha antes de
// qualquer byte ser escrito na resposta.
func TestExportar_TipoInvalido(t *testing.T) {
	svc := NewExportService(&mockProcessosExport{}, &mockDocumentosExport{}, resolverFixo(nil), 10, logDescartado())

	var buf bytes.Buffer
	err := svc.Exportar(context.Background(), "u1", "planilha_magica", &buf)
	if !errors.Is(err, ErrTipoExportacao) {
		t.Fatalf("erro = %v, esperado ErrTipoExportacao", err)
	}
	if buf.Len() != 0 {
		t.Errorf("%d bytes escritos antes da validação, esperado 0", buf.Len())
	}
}

// TestExportar_DocumentosAdm verifica o CSV de documentos: BOM, cabeçalho,
// aspas dobradas e a união de destinações das caixas listadas.
func TestExportar_DocumentosAdm(t *testing.T) {
	docs := &mockDocumentosExport{
		fn: func(_ context.Context, _ string, _, offset int) ([]*model.DocumentoAdm, error) {
			if offset > 0 {
				return nil, nil
			}
			return []*model.DocumentoAdm{
				{
					EspecieDocumental: "Atas",
					DataLimite:        ptrStr("2030"),
					QuantidadeCaixas:  ptrInt(3),
					NumeroCaixas:      ptrStr("CX1, CX2, CX2"),
					Observacao:        ptrStr(`Obs "especial"`),
				},
				{
					EspecieDocumental: "Ofícios",
				},
			}, nil
		},
	}
	destinos := resolverFixo(map[string]string{"CX1": "preservar", "CX2": "eliminar"})
	svc := NewExportService(&mockProcessosExport{}, docs, destinos, 10, logDescartado())

	var buf bytes.Buffer
	if err := svc.Exportar(context.Background(), "u1", ExportDocumentosAdm, &buf); err != nil {
		t.Fatalf("Exportar erro: %v", err)
	}

	saida := buf.String()
	if !strings.HasPrefix(saida, "\xEF\xBB\xBF") {
		t.Fatal("saída sem BOM UTF-8")
	}
	linhas := strings.Split(strings.TrimPrefix(saida, "\xEF\xBB\xBF"), "\n")
	if linhas[0] != cabecalhoDocumentosAdm {
		t.Errorf("cabeçalho = %q", linhas[0])
	}
	esperada := `"Atas","2030","3","CX1, CX2, CX2","preservar; eliminar","Obs ""especial"""`
	if linhas[1] != esperada {
		t.Errorf("linha 1 = %q\nesperada  %q", linhas[1], esperada)
	}
	// Documento sem caixas: destinação e campos opcionais vazios.
	if linhas[2] != `"Ofícios","","","","",""` {
		t.Errorf("linha 2 = %q", linhas[2])
	}
	if linhas[3] != "" || len(linhas) != 4 {
		t.Errorf("fim inesperado: %q", linhas[3:])
	}
}

// TestExportar_Processos verifica o CSV de processos: a coluna "Tipo de
// Processo" carrega a classe processual, a destinação gravada na caixa
// prevalece e o mapa resolvido só entra quando o join veio vazio.
func TestExportar_Processos(t *testing.T) {
	procs := &mockProcessosExport{
		fn: func(_ context.Context, _, tipoCaixa string, _, offset int) ([]repository.LinhaProcessoExport, error) {
			if tipoCaixa != model.TipoProcessoJudicial {
				t.Errorf("tipo de caixa = %q, esperado %q", tipoCaixa, model.TipoProcessoJudicial)
			}
			if offset > 0 {
				return nil, nil
			}
			return []repository.LinhaProcessoExport{
				{
					NumeroCaixa:       "10",
					DestinacaoCaixa:   "preservar",
					ClasseProcessual:  "Ação Penal Eleitoral",
					NumeroProcesso:    "0600123-45.2024.6.15.0010",
					Protocolo:         ptrStr("PR-77"),
					Ano:               2024,
					QuantidadeVolumes: ptrInt(2),
					NumeroCaixas:      ptrInt(1),
				},
				{
					// Caixa legada sem destinação gravada: usa o mapa.
					NumeroCaixa:      "11",
					ClasseProcessual: "Registro de Candidatura",
					NumeroProcesso:   "0600200-00.2020.6.15.0010",
					Ano:              2020,
				},
			}, nil
		},
	}
	destinos := resolverFixo(map[string]string{"11": "eliminar"})
	svc := NewExportService(procs, &mockDocumentosExport{}, destinos, 10, logDescartado())

	var buf bytes.Buffer
	if err := svc.Exportar(context.Background(), "u1", ExportProcessosJud, &buf); err != nil {
		t.Fatalf("Exportar erro: %v", err)
	}

	linhas := strings.Split(strings.TrimPrefix(buf.String(), "\xEF\xBB\xBF"), "\n")
	if linhas[0] != cabecalhoProcessos {
		t.Errorf("cabeçalho = %q", linhas[0])
	}
	l1 := `"10","Ação Penal Eleitoral","0600123-45.2024.6.15.0010","PR-77","2024","2","1","preservar",""`
	if linhas[1] != l1 {
		t.Errorf("linha 1 = %q\nesperada  %q", linhas[1], l1)
	}
	l2 := `"11","Registro de Candidatura","0600200-00.2020.6.15.0010","","2020","","","eliminar",""`
	if linhas[2] != l2 {
		t.Errorf("linha 2 = %q\nesperada  %q", linhas[2], l2)
	}
}

// TestExportar_FalhaNoMeioDoFluxo verifica que uma falha na segunda página
// deixa as linhas já emitidas no lugar e anexa um único marcador "# ERRO:".
func TestExportar_FalhaNoMeioDoFluxo(t *testing.T) {
	falha := errors.New("conexão perdida")
	procs := &mockProcessosExport{
		fn: func(_ context.Context, _, _ string, limit, offset int) ([]repository.LinhaProcessoExport, error) {
			if offset >= limit {
				return nil, falha
			}
			linhas := make([]repository.LinhaProcessoExport, limit)
			for i := range linhas {
				linhas[i] = repository.LinhaProcessoExport{
					NumeroCaixa:      "1",
					DestinacaoCaixa:  "preservar",
					ClasseProcessual: "Prestação de Contas",
					NumeroProcesso:   "0600001-00.2023.6.15.0010",
					Ano:              2023,
				}
			}
			return linhas, nil
		},
	}
	svc := NewExportService(procs, &mockDocumentosExport{}, resolverFixo(nil), 2, logDescartado())

	var buf bytes.Buffer
	err := svc.Exportar(context.Background(), "u1", ExportProcessosAdm, &buf)
	if !errors.Is(err, falha) {
		t.Fatalf("erro = %v, esperado %v", err, falha)
	}

	saida := buf.String()
	if !strings.HasPrefix(saida, "\xEF\xBB\xBF") {
		t.Fatal("saída sem BOM UTF-8")
	}
	if got := strings.Count(saida, "# ERRO:"); got != 1 {
		t.Errorf("marcadores de erro = %d, esperado 1", got)
	}
	if !strings.HasSuffix(saida, "# ERRO: "+err.Error()+"\n") {
		t.Errorf("saída não termina com o marcador de erro: %q", saida)
	}
	// A primeira página (2 linhas) foi emitida antes da falha.
	if got := strings.Count(saida, "0600001-00.2023.6.15.0010"); got != 2 {
		t.Errorf("linhas de dados = %d, esperado 2", got)
	}
}

// TestUniaoDestinacoes cobre a deduplicação na ordem da primeira ocorrência.
func TestUniaoDestinacoes(t *testing.T) {
	destMap := map[string]string{"A": "eliminar", "B": "preservar", "C": "eliminar"}
	got := uniaoDestinacoes([]string{"A", "B", "C", "X"}, destMap)
	if got != "eliminar; preservar" {
		t.Errorf("uniaoDestinacoes = %q, esperado %q", got, "eliminar; preservar")
	}
	if got := uniaoDestinacoes(nil, destMap); got != "" {
		t.Errorf("uniaoDestinacoes(nil) = %q, esperado vazio", got)
	}
}

// TestSeparaNumeros cobre a lista legada separada por vírgula.
func TestSeparaNumeros(t *testing.T) {
	got := separaNumeros(ptrStr(" CX1 ,, CX2,CX3 , "))
	esperado := []string{"CX1", "CX2", "CX3"}
	if len(got) != len(esperado) {
		t.Fatalf("separaNumeros = %v, esperado %v", got, esperado)
	}
	for i := range esperado {
		if got[i] != esperado[i] {
			t.Errorf("separaNumeros[%d] = %q, esperado %q", i, got[i], esperado[i])
		}
	}
	if got := separaNumeros(nil); got != nil {
		t.Errorf("separaNumeros(nil) = %v, esperado nil", got)
	}
}
