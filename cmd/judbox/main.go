// Ponto de entrada do JudBox — inventário de caixas de arquivo da zona
// eleitoral. Carrega a configuração, aplica as migrações, conecta ao
// PostgreSQL, monta repositórios, serviços e handlers, liga o monitoramento
// de dependências e sobe o servidor HTTP com graceful shutdown.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/stdlib"

	"github.com/tre-pb/judbox/internal/api/handlers"
	"github.com/tre-pb/judbox/internal/api/middleware"
	"github.com/tre-pb/judbox/internal/config"
	"github.com/tre-pb/judbox/internal/database"
	"github.com/tre-pb/judbox/internal/pdf"
	"github.com/tre-pb/judbox/internal/render"
	"github.com/tre-pb/judbox/internal/repository"
	"github.com/tre-pb/judbox/internal/server"
	"github.com/tre-pb/judbox/internal/service"
)

func main() {
	// 1. Configuração das variáveis de ambiente
	cfg, err := config.Load()
	if err != nil {
		slog.Error("erro ao carregar a configuração", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 2. Logger
	logger := config.SetupLogger(cfg)
	logger.Info("JudBox subindo",
		slog.String("version", config.Version),
		slog.Int("port", cfg.Port),
	)

	// 3. Migrações do banco
	logger.Info("aplicando migrações do banco...")
	if err := database.Migrate(cfg, logger); err != nil {
		logger.Error("erro nas migrações", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 4. PostgreSQL (pgxpool)
	ctx := context.Background()
	pool, err := database.Connect(ctx, cfg, logger)
	if err != nil {
		logger.Error("erro ao conectar ao PostgreSQL", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	// 4.1 Adaptador pgxpool -> *sql.DB para o topologymetrics: a verificação
	// de saúde passa pelo mesmo pool que atende as requisições.
	pgDB := stdlib.OpenDBFromPool(pool)
	defer pgDB.Close()

	// 5. Repositórios
	caixaRepo := repository.NewCaixaRepository(pool)
	processoRepo := repository.NewProcessoRepository(pool)
	documentoRepo := repository.NewDocumentoRepository(pool)
	procdocRepo := repository.NewProcDocRepository(pool)

	// 6. Serviços
	destinos := service.NewDestinoResolver(caixaRepo)
	exportSvc := service.NewExportService(processoRepo, documentoRepo, destinos, cfg.ExportPageSize, logger)
	relatorioSvc := service.NewRelatorioService(caixaRepo, processoRepo, documentoRepo, procdocRepo)
	etiquetaSvc := service.NewEtiquetaService(caixaRepo, cfg.EtiquetaCacheSize, cfg.EtiquetaCacheTTL, logger)

	// 7. Renderização e geração de PDF. O Chrome é opcional: sem ele o
	// endpoint de PDF responde 503 e o resto do serviço segue no ar.
	renderer, err := render.NewRenderer(cfg.TituloRelatorio)
	if err != nil {
		logger.Error("erro ao carregar modelos de relatório", slog.String("error", err.Error()))
		os.Exit(1)
	}
	gerador, err := pdf.NewGerador(cfg.ChromeBin, cfg.PDFTimeout, logger)
	if err != nil {
		logger.Warn("Chrome indisponível, geração de PDF desligada", slog.String("error", err.Error()))
		gerador = nil
	} else {
		defer func() {
			if err := gerador.Close(); err != nil {
				logger.Warn("erro ao encerrar o Chrome", slog.String("error", err.Error()))
			}
		}()
	}

	// 8. Monitoramento de dependências (topologymetrics)
	dephealthSvc, err := service.NewDephealthService(
		"judbox",
		cfg.DephealthGroup,
		pgDB,
		cfg.DatabaseDSN(),
		cfg.JWKSURL,
		cfg.DephealthCheckInterval,
		cfg.DephealthIsEntry,
		logger,
	)
	if err != nil {
		logger.Error("erro ao criar o monitoramento de dependências", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if err := dephealthSvc.Start(ctx); err != nil {
		logger.Error("erro ao iniciar o monitoramento de dependências", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer dephealthSvc.Stop()

	// 9. Autenticação JWT via JWKS
	jwtAuth, err := middleware.NewJWTAuth(
		cfg.JWKSURL,
		cfg.JWTIssuer,
		cfg.JWKSClientTimeout,
		cfg.JWKSRefreshInterval,
		cfg.JWTLeeway,
		logger,
	)
	if err != nil {
		logger.Error("erro ao criar a autenticação JWT", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 10. Handlers
	h := server.Handlers{
		Health:     handlers.NewHealthHandler(database.NewReadinessChecker(pool)),
		Export:     handlers.NewExportHandler(exportSvc, logger),
		Relatorios: handlers.NewRelatorioHandler(relatorioSvc, logger),
		PDF:        handlers.NewPDFHandler(relatorioSvc, renderer, gerador, logger),
		Caixas:     handlers.NewCaixaHandler(caixaRepo, etiquetaSvc, logger),
		Processos:  handlers.NewProcessoHandler(processoRepo, logger),
		Documentos: handlers.NewDocumentoHandler(documentoRepo, logger),
		Etiquetas:  handlers.NewEtiquetaHandler(etiquetaSvc, logger),
	}

	// 11. Servidor HTTP. Ordem dos middlewares: métricas, log, JWT (com as
	// sondas e /metrics fora da autenticação).
	srv := server.New(cfg, logger, h,
		middleware.MetricsMiddleware(),
		middleware.RequestLogger(logger),
		server.ComExclusoes(jwtAuth.Middleware(), "/health/", "/metrics"),
	)

	// 12. Execução (bloqueia até o sinal de encerramento)
	if err := srv.Run(); err != nil {
		logger.Error("erro do servidor", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("JudBox encerrado")
}
