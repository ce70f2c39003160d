// Pacote pdf — geração de PDF dos relatórios via Chrome sem interface.
// O navegador é lançado uma vez na subida do serviço e reutilizado; cada
// geração abre uma aba nova, injeta o HTML já renderizado e imprime em A4.
package pdf

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"io"
	"log/slog"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// Dimensões de impressão em polegadas (A4, margens 20mm/10mm).
const (
	larguraA4   = 8.27
	alturaA4    = 11.69
	margemVert  = 0.787
	margemHoriz = 0.394
)

// Gerador imprime HTML em PDF usando uma instância compartilhada de Chrome.
type Gerador struct {
	browser *rod.Browser
	lnch    *launcher.Launcher
	timeout time.Duration
	logger  *slog.Logger
}

// NewGerador lança o Chrome e conecta. chromeBin vazio deixa o launcher
// localizar (ou baixar) o binário.
func NewGerador(chromeBin string, timeout time.Duration, logger *slog.Logger) (*Gerador, error) {
	l := launcher.New().Headless(true).NoSandbox(true)
	if chromeBin != "" {
		l = l.Bin(chromeBin)
	}

	u, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("falha ao lançar o Chrome: %w", err)
	}

	b := rod.New().ControlURL(u)
	if err := b.Connect(); err != nil {
		l.Cleanup()
		return nil, fmt.Errorf("falha ao conectar ao Chrome: %w", err)
	}

	logger.Info("Chrome conectado para geração de PDF", slog.String("ws_url", u))
	return &Gerador{
		browser: b,
		lnch:    l,
		timeout: timeout,
		logger:  logger.With(slog.String("component", "pdf")),
	}, nil
}

// Close encerra o navegador.
func (g *Gerador) Close() error {
	err := g.browser.Close()
	g.lnch.Cleanup()
	return err
}

// Gerar imprime o HTML dado em PDF A4 com os modelos de cabeçalho e rodapé
// informados. O PDF produzido é validado estruturalmente antes de ser
// devolvido: uma impressão truncada pelo Chrome não pode chegar ao usuário
// como arquivo válido.
func (g *Gerador) Gerar(ctx context.Context, htmlDoc, cabecalho, rodape string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	page, err := g.browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		return nil, fmt.Errorf("falha ao abrir aba: %w", err)
	}
	defer func() {
		if err := page.Close(); err != nil {
			g.logger.Warn("falha ao fechar aba", slog.String("error", err.Error()))
		}
	}()
	page = page.Context(ctx)

	if err := page.SetDocumentContent(htmlDoc); err != nil {
		return nil, fmt.Errorf("falha ao injetar HTML: %w", err)
	}
	if err := page.WaitLoad(); err != nil {
		return nil, fmt.Errorf("falha ao aguardar carregamento: %w", err)
	}

	req := &proto.PagePrintToPDF{
		PrintBackground:     true,
		DisplayHeaderFooter: true,
		HeaderTemplate:      cabecalho,
		FooterTemplate:      rodape,
		PaperWidth:          ptr(larguraA4),
		PaperHeight:         ptr(alturaA4),
		MarginTop:           ptr(margemVert),
		MarginBottom:        ptr(margemVert),
		MarginLeft:          ptr(margemHoriz),
		MarginRight:         ptr(margemHoriz),
	}
	stream, err := page.PDF(req)
	if err != nil {
		return nil, fmt.Errorf("falha ao imprimir PDF: %w", err)
	}
	dados, err := io.ReadAll(stream)
	if err != nil {
		return nil, fmt.Errorf("falha ao ler o PDF: %w", err)
	}

	if err := api.Validate(bytes.NewReader(dados), nil); err != nil {
		return nil, fmt.Errorf("PDF gerado é inválido: %w", err)
	}

	g.logger.Debug("PDF gerado", slog.Int("bytes", len(dados)))
	return dados, nil
}

// CabecalhoImpresso monta o cabeçalho impresso em cada página do PDF.
func CabecalhoImpresso(rotulo string) string {
	return `<div style="font-size:10px;width:100%;padding:0 10mm;padding-bottom:1mm;display:flex;justify-content:space-between;align-items:center;">` +
		`<span>JudBox &bull; ` + html.EscapeString(rotulo) + `</span><span class="date"></span></div>`
}

// RodapeImpresso monta o rodapé com o operador e o número da página.
func RodapeImpresso(usuario string) string {
	if usuario == "" {
		usuario = "—"
	}
	return `<div style="font-size:10px;width:100%;padding:0 10mm;display:flex;justify-content:space-between;align-items:center;">` +
		`<span>Usuário: ` + html.EscapeString(usuario) + `</span>` +
		`<span>Página <span class="pageNumber"></span> / <span class="totalPages"></span></span></div>`
}

func ptr(v float64) *float64 { return &v }
