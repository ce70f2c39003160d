// dephealth.go — integração com o SDK topologymetrics para monitorar as
// dependências do JudBox:
//   - PostgreSQL — checker SQL pelo pool de conexões existente (crítico)
//   - Provedor de identidade — checker HTTP do endpoint JWKS (crítico:
//     sem JWKS nenhum token novo é validado)
//
// As métricas saem em /metrics junto com as demais do Prometheus:
//   - app_dependency_health — estado da dependência (1 = ok, 0 = fail)
//   - app_dependency_latency_seconds — latência da verificação
package service

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/BigKAA/topologymetrics/sdk-go/dephealth"
	_ "github.com/BigKAA/topologymetrics/sdk-go/dephealth/checks/httpcheck" // registro da factory do checker HTTP
	"github.com/BigKAA/topologymetrics/sdk-go/dephealth/checks/pgcheck"
	"github.com/prometheus/client_golang/prometheus"
)

// DephealthService — monitoramento de dependências via topologymetrics.
type DephealthService struct {
	dh     *dephealth.DepHealth
	logger *slog.Logger
}

// NewDephealthService cria o monitoramento de dependências. As métricas vão
// para o registry global do Prometheus.
//
// A verificação do PostgreSQL usa o pool existente (adaptador *sql.DB do
// pgxpool): ela enxerga o esgotamento do pool, não só a rede.
//
// Parâmetros:
//   - serviceID — nome do vértice do grafo ("judbox")
//   - group — grupo nas métricas (JB_DEPHEALTH_GROUP)
//   - db — *sql.DB obtido do pgxpool via stdlib.OpenDBFromPool()
//   - pgConnURL — URL do PostgreSQL (apenas para rótulos das métricas)
//   - jwksURL — endpoint JWKS do provedor de identidade
//   - checkInterval — intervalo das verificações
//   - isEntry — marca o serviço como ponto de entrada do grafo
func NewDephealthService(
	serviceID string,
	group string,
	db *sql.DB,
	pgConnURL string,
	jwksURL string,
	checkInterval time.Duration,
	isEntry bool,
	logger *slog.Logger,
) (*DephealthService, error) {
	return newDephealthService(serviceID, group, db, pgConnURL, jwksURL, checkInterval, isEntry, logger)
}

// NewDephealthServiceWithRegisterer cria o serviço com um registerer
// Prometheus próprio. Usado nos testes para isolar as métricas.
func NewDephealthServiceWithRegisterer(
	serviceID string,
	group string,
	db *sql.DB,
	pgConnURL string,
	jwksURL string,
	checkInterval time.Duration,
	isEntry bool,
	logger *slog.Logger,
	registerer prometheus.Registerer,
) (*DephealthService, error) {
	return newDephealthService(serviceID, group, db, pgConnURL, jwksURL, checkInterval, isEntry,
		logger, dephealth.WithRegisterer(registerer))
}

func newDephealthService(
	serviceID string,
	group string,
	db *sql.DB,
	pgConnURL string,
	jwksURL string,
	checkInterval time.Duration,
	isEntry bool,
	logger *slog.Logger,
	extraOpts ...dephealth.Option,
) (*DephealthService, error) {
	pgDepOpts := []dephealth.DependencyOption{
		dephealth.FromURL(pgConnURL),
		dephealth.CheckInterval(checkInterval),
		dephealth.Critical(true),
	}
	idpDepOpts := []dephealth.DependencyOption{
		dephealth.FromURL(jwksURL),
		dephealth.CheckInterval(checkInterval),
		dephealth.Critical(true),
	}
	if isEntry {
		pgDepOpts = append(pgDepOpts, dephealth.WithLabel("isentry", "yes"))
		idpDepOpts = append(idpDepOpts, dephealth.WithLabel("isentry", "yes"))
	}

	opts := make([]dephealth.Option, 0, 3+len(extraOpts))
	opts = append(opts,
		dephealth.WithLogger(logger),
		dephealth.AddDependency("postgresql", dephealth.TypePostgres,
			pgcheck.New(pgcheck.WithDB(db)), pgDepOpts...),
		dephealth.HTTP("identity-provider", idpDepOpts...),
	)
	opts = append(opts, extraOpts...)

	dh, err := dephealth.New(serviceID, group, opts...)
	if err != nil {
		return nil, err
	}

	return &DephealthService{
		dh:     dh,
		logger: logger.With(slog.String("component", "dephealth")),
	}, nil
}

// Start inicia a verificação periódica das dependências.
func (ds *DephealthService) Start(ctx context.Context) error {
	ds.logger.Info("monitoramento de dependências iniciado (PostgreSQL + provedor de identidade)")
	return ds.dh.Start(ctx)
}

// Stop encerra o monitoramento.
func (ds *DephealthService) Stop() {
	ds.dh.Stop()
	ds.logger.Info("monitoramento de dependências encerrado")
}

// Health retorna o estado atual das dependências, por nome.
func (ds *DephealthService) Health() map[string]bool {
	return ds.dh.Health()
}
