// Pacote server — servidor HTTP do JudBox com graceful shutdown.
// Sem TLS: HTTP dentro do cluster, com terminação TLS no gateway.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/go-chi/chi/v5"

	"github.com/tre-pb/judbox/internal/api/handlers"
	"github.com/tre-pb/judbox/internal/config"
)

// Handlers — conjunto de handlers montados nas rotas.
type Handlers struct {
	Health     *handlers.HealthHandler
	Export     *handlers.ExportHandler
	Relatorios *handlers.RelatorioHandler
	PDF        *handlers.PDFHandler
	Caixas     *handlers.CaixaHandler
	Processos  *handlers.ProcessoHandler
	Documentos *handlers.DocumentoHandler
	Etiquetas  *handlers.EtiquetaHandler
}

// Server — servidor HTTP do JudBox.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
	cfg        *config.Config
}

// New cria o servidor com rotas e middlewares montados.
// middlewares são aplicados na ordem do slice (metrics, logging, JWT).
func New(cfg *config.Config, logger *slog.Logger, h Handlers, middlewares ...func(http.Handler) http.Handler) *Server {
	router := chi.NewRouter()

	for _, mw := range middlewares {
		router.Use(mw)
	}

	// Sondas e métricas, fora da autenticação.
	router.Get("/health/live", h.Health.HealthLive)
	router.Get("/health/ready", h.Health.HealthReady)
	router.Get("/metrics", h.Health.GetMetrics)

	router.Route("/api/v1", func(r chi.Router) {
		// Núcleo de relatórios e exportação.
		r.Get("/export/csv", h.Export.ExportarCSV)
		r.Get("/relatorios", h.Relatorios.ObterRelatorio)
		r.Post("/pdf", h.PDF.GerarPDF)

		// CRUD de caixas e seus itens.
		r.Route("/caixas", func(r chi.Router) {
			r.Get("/", h.Caixas.Listar)
			r.Post("/", h.Caixas.Criar)
			r.Get("/{id}", h.Caixas.Obter)
			r.Put("/{id}", h.Caixas.Atualizar)
			r.Delete("/{id}", h.Caixas.Excluir)
			r.Get("/{id}/processos", h.Processos.ListarPorCaixa)
			r.Get("/{id}/documentos", h.Documentos.ListarPorCaixa)
		})

		r.Route("/processos", func(r chi.Router) {
			r.Post("/", h.Processos.Criar)
			r.Put("/{id}", h.Processos.Atualizar)
			r.Delete("/{id}", h.Processos.Excluir)
		})

		r.Route("/documentos-adm", func(r chi.Router) {
			r.Post("/", h.Documentos.Criar)
			r.Put("/{id}", h.Documentos.Atualizar)
			r.Delete("/{id}", h.Documentos.Excluir)
		})

		r.Get("/etiquetas/{numero}", h.Etiquetas.Obter)
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	return &Server{
		httpServer: srv,
		logger:     logger,
		cfg:        cfg,
	}
}

// ComExclusoes envolve um middleware, pulando os caminhos indicados.
// Requisições cujo caminho começa com algum dos prefixos passam direto.
// Usado para deixar /health e /metrics fora da autenticação JWT.
func ComExclusoes(mw func(http.Handler) http.Handler, prefixos ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		protegido := mw(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, prefixo := range prefixos {
				if strings.HasPrefix(r.URL.Path, prefixo) {
					next.ServeHTTP(w, r)
					return
				}
			}
			protegido.ServeHTTP(w, r)
		})
	}
}

// Run sobe o servidor e aguarda um sinal de encerramento (SIGINT, SIGTERM).
// Ao receber o sinal, executa o graceful shutdown.
func (s *Server) Run() error {
	errCh := make(chan error, 1)

	go func() {
		s.logger.Info("servidor HTTP no ar",
			slog.String("addr", s.httpServer.Addr),
		)

		err := s.httpServer.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		s.logger.Info("sinal de encerramento recebido", slog.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("erro do servidor HTTP: %w", err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	s.logger.Info("executando graceful shutdown...")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("erro no graceful shutdown: %w", err)
	}

	s.logger.Info("servidor HTTP encerrado")
	return nil
}
