// Pacote render — montagem do HTML dos relatórios impressos. Os modelos
// são embutidos no binário e renderizados com todos os dados já resolvidos:
// nenhuma consulta ao banco acontece durante a renderização.
package render

import (
	"bytes"
	"embed"
	"encoding/base64"
	"fmt"
	"html/template"
	"time"

	"github.com/tre-pb/judbox/internal/domain/model"
)

//go:embed templates/*.tmpl
var arquivosTemplates embed.FS

//go:embed brasao.svg
var brasaoSVG []byte

// Cabecalho — dados do cabeçalho dos relatórios.
type Cabecalho struct {
	Titulo    string
	Subtitulo string
	GeradoEm  time.Time
	Usuario   string
	BrasaoURI template.URL
}

// dadosListagem — contexto do modelo de listagem de caixas.
type dadosListagem struct {
	Cabecalho    Cabecalho
	Caixas       []*model.Caixa
	FiltroTipo   string
	FiltroNumero string
}

// dadosOverview — contexto do modelo do relatório geral.
type dadosOverview struct {
	Titulo    string
	BrasaoURI template.URL
	Dados     *model.OverviewRelatorio
}

// Renderer produz o HTML dos relatórios a partir dos modelos embutidos.
type Renderer struct {
	tmpl      *template.Template
	titulo    string
	brasaoURI template.URL
}

// NewRenderer carrega os modelos embutidos. titulo é o cabeçalho fixo da
// unidade (ex.: "10ª Zona Eleitoral - Guarabira").
func NewRenderer(titulo string) (*Renderer, error) {
	funcs := template.FuncMap{
		"humanizaTipo": model.HumanizaTipo,
		"dataBR": func(t time.Time) string {
			return t.Format("02/01/2006 15:04")
		},
	}
	tmpl, err := template.New("relatorios").Funcs(funcs).ParseFS(arquivosTemplates, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("falha ao carregar modelos de relatório: %w", err)
	}
	return &Renderer{
		tmpl:      tmpl,
		titulo:    titulo,
		brasaoURI: BrasaoDataURI(),
	}, nil
}

// BrasaoDataURI devolve o brasão embutido como data URI, pronto para um
// atributo src de imagem.
func BrasaoDataURI() template.URL {
	return template.URL("data:image/svg+xml;base64," + base64.StdEncoding.EncodeToString(brasaoSVG))
}

// Listagem monta o HTML do relatório de listagem de caixas. subtitulo
// descreve o recorte ("Listagem completa" ou "Tipo: ...").
func (r *Renderer) Listagem(caixas []*model.Caixa, filtroTipo, filtroNumero, subtitulo, usuario string) (string, error) {
	dados := dadosListagem{
		Cabecalho: Cabecalho{
			Titulo:    r.titulo,
			Subtitulo: subtitulo,
			GeradoEm:  time.Now(),
			Usuario:   usuario,
			BrasaoURI: r.brasaoURI,
		},
		Caixas:       caixas,
		FiltroTipo:   filtroTipo,
		FiltroNumero: filtroNumero,
	}
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, "listagem", dados); err != nil {
		return "", fmt.Errorf("falha ao renderizar listagem: %w", err)
	}
	return buf.String(), nil
}

// Overview monta o HTML do relatório geral a partir do panorama já agregado.
func (r *Renderer) Overview(m *model.OverviewRelatorio) (string, error) {
	dados := dadosOverview{
		Titulo:    r.titulo,
		BrasaoURI: r.brasaoURI,
		Dados:     m,
	}
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, "overview", dados); err != nil {
		return "", fmt.Errorf("falha ao renderizar relatório geral: %w", err)
	}
	return buf.String(), nil
}
