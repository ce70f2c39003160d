// Pacote config — carregamento e validação da configuração do JudBox
// a partir de variáveis de ambiente.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Versão da aplicação, definida no build via -ldflags.
var Version = "dev"

// Config contém todos os parâmetros de configuração do JudBox.
type Config struct {
	// --- Servidor ---

	// Porta do servidor HTTP
	Port int
	// Nível de log (debug, info, warn, error)
	LogLevel slog.Level
	// Formato dos logs (json, text)
	LogFormat string

	// --- Timeouts do servidor HTTP ---

	// Timeout de leitura (padrão 30s)
	HTTPReadTimeout time.Duration
	// Timeout de escrita (padrão 300s — exportações CSV grandes e geração
	// de PDF escrevem por bastante tempo)
	HTTPWriteTimeout time.Duration
	// Timeout de conexão ociosa (padrão 120s)
	HTTPIdleTimeout time.Duration

	// --- Graceful shutdown ---

	// Timeout do graceful shutdown (padrão 5s)
	ShutdownTimeout time.Duration

	// --- PostgreSQL ---

	DBHost     string
	DBPort     int
	DBName     string
	DBUser     string
	DBPassword string
	DBSSLMode  string

	// --- Autenticação (JWT via JWKS) ---

	// URL do endpoint JWKS do provedor de identidade
	JWKSURL string
	// Issuer esperado do JWT (vazio = não verificado)
	JWTIssuer string
	// Timeout do cliente HTTP do JWKS
	JWKSClientTimeout time.Duration
	// Intervalo de atualização das chaves JWKS
	JWKSRefreshInterval time.Duration
	// Tolerância de relógio na validação do JWT
	JWTLeeway time.Duration

	// --- Exportação CSV ---

	// Tamanho da página de leitura durante o streaming (padrão 1000)
	ExportPageSize int

	// --- Cache de etiquetas ---

	// Quantidade máxima de caixas no cache LRU (padrão 512)
	EtiquetaCacheSize int
	// TTL de cada entrada do cache (padrão 5m)
	EtiquetaCacheTTL time.Duration

	// --- Geração de PDF ---

	// Caminho do binário do Chrome/Chromium (vazio = download automático do rod)
	ChromeBin string
	// Timeout total de uma renderização de PDF (padrão 60s)
	PDFTimeout time.Duration

	// --- Relatórios ---

	// Título exibido no cabeçalho dos relatórios
	TituloRelatorio string

	// --- Dephealth (topologymetrics) ---

	// Nome do grupo nas métricas de dependências
	DephealthGroup string
	// Intervalo de verificação das dependências (padrão 30s)
	DephealthCheckInterval time.Duration
	// Marca o serviço como ponto de entrada do grafo de dependências
	DephealthIsEntry bool
}

// Load carrega a configuração das variáveis de ambiente.
// Retorna erro se variáveis obrigatórias estiverem ausentes ou inválidas.
func Load() (*Config, error) {
	cfg := &Config{}
	var err error

	// --- Servidor ---

	// JB_PORT — porta do servidor HTTP (padrão 8080)
	cfg.Port, err = getEnvInt("JB_PORT", 8080)
	if err != nil {
		return nil, fmt.Errorf("JB_PORT: %w", err)
	}

	// JB_LOG_LEVEL — nível de log (padrão info)
	logLevel := getEnvDefault("JB_LOG_LEVEL", "info")
	cfg.LogLevel, err = parseLogLevel(logLevel)
	if err != nil {
		return nil, fmt.Errorf("JB_LOG_LEVEL: %w", err)
	}

	// JB_LOG_FORMAT — formato dos logs (padrão json)
	cfg.LogFormat = getEnvDefault("JB_LOG_FORMAT", "json")
	if cfg.LogFormat != "json" && cfg.LogFormat != "text" {
		return nil, fmt.Errorf("JB_LOG_FORMAT: formato %q inválido, permitidos: json, text", cfg.LogFormat)
	}

	// --- Timeouts HTTP ---

	cfg.HTTPReadTimeout, err = getEnvDuration("JB_HTTP_READ_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, fmt.Errorf("JB_HTTP_READ_TIMEOUT: %w", err)
	}

	cfg.HTTPWriteTimeout, err = getEnvDuration("JB_HTTP_WRITE_TIMEOUT", 300*time.Second)
	if err != nil {
		return nil, fmt.Errorf("JB_HTTP_WRITE_TIMEOUT: %w", err)
	}

	cfg.HTTPIdleTimeout, err = getEnvDuration("JB_HTTP_IDLE_TIMEOUT", 120*time.Second)
	if err != nil {
		return nil, fmt.Errorf("JB_HTTP_IDLE_TIMEOUT: %w", err)
	}

	cfg.ShutdownTimeout, err = getEnvDuration("JB_SHUTDOWN_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("JB_SHUTDOWN_TIMEOUT: %w", err)
	}

	// --- PostgreSQL ---

	// JB_DB_HOST — obrigatório
	cfg.DBHost, err = getEnvRequired("JB_DB_HOST")
	if err != nil {
		return nil, err
	}

	// JB_DB_PORT — porta do PostgreSQL (padrão 5432)
	cfg.DBPort, err = getEnvInt("JB_DB_PORT", 5432)
	if err != nil {
		return nil, fmt.Errorf("JB_DB_PORT: %w", err)
	}

	// JB_DB_NAME — obrigatório
	cfg.DBName, err = getEnvRequired("JB_DB_NAME")
	if err != nil {
		return nil, err
	}

	// JB_DB_USER — obrigatório
	cfg.DBUser, err = getEnvRequired("JB_DB_USER")
	if err != nil {
		return nil, err
	}

	// JB_DB_PASSWORD — obrigatório
	cfg.DBPassword, err = getEnvRequired("JB_DB_PASSWORD")
	if err != nil {
		return nil, err
	}

	// JB_DB_SSL_MODE — modo SSL (padrão disable)
	cfg.DBSSLMode = getEnvDefault("JB_DB_SSL_MODE", "disable")
	switch cfg.DBSSLMode {
	case "disable", "require", "verify-ca", "verify-full":
	default:
		return nil, fmt.Errorf("JB_DB_SSL_MODE: valor %q inválido, permitidos: disable, require, verify-ca, verify-full", cfg.DBSSLMode)
	}

	// --- Autenticação ---

	// JB_JWKS_URL — obrigatório (ex.: https://<projeto>.supabase.co/auth/v1/.well-known/jwks.json)
	cfg.JWKSURL, err = getEnvRequired("JB_JWKS_URL")
	if err != nil {
		return nil, err
	}

	// JB_JWT_ISSUER — issuer esperado (opcional)
	cfg.JWTIssuer = getEnvDefault("JB_JWT_ISSUER", "")

	cfg.JWKSClientTimeout, err = getEnvDuration("JB_JWKS_CLIENT_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, fmt.Errorf("JB_JWKS_CLIENT_TIMEOUT: %w", err)
	}

	cfg.JWKSRefreshInterval, err = getEnvDuration("JB_JWKS_REFRESH_INTERVAL", 1*time.Hour)
	if err != nil {
		return nil, fmt.Errorf("JB_JWKS_REFRESH_INTERVAL: %w", err)
	}

	cfg.JWTLeeway, err = getEnvDuration("JB_JWT_LEEWAY", 30*time.Second)
	if err != nil {
		return nil, fmt.Errorf("JB_JWT_LEEWAY: %w", err)
	}

	// --- Exportação CSV ---

	// JB_EXPORT_PAGE_SIZE — tamanho da página do streaming (padrão 1000)
	cfg.ExportPageSize, err = getEnvInt("JB_EXPORT_PAGE_SIZE", 1000)
	if err != nil {
		return nil, fmt.Errorf("JB_EXPORT_PAGE_SIZE: %w", err)
	}
	if cfg.ExportPageSize < 1 {
		return nil, fmt.Errorf("JB_EXPORT_PAGE_SIZE: deve ser >= 1")
	}

	// --- Cache de etiquetas ---

	cfg.EtiquetaCacheSize, err = getEnvInt("JB_ETIQUETA_CACHE_SIZE", 512)
	if err != nil {
		return nil, fmt.Errorf("JB_ETIQUETA_CACHE_SIZE: %w", err)
	}

	cfg.EtiquetaCacheTTL, err = getEnvDuration("JB_ETIQUETA_CACHE_TTL", 5*time.Minute)
	if err != nil {
		return nil, fmt.Errorf("JB_ETIQUETA_CACHE_TTL: %w", err)
	}

	// --- PDF ---

	// JB_CHROME_BIN — binário do Chrome (opcional)
	cfg.ChromeBin = getEnvDefault("JB_CHROME_BIN", "")

	cfg.PDFTimeout, err = getEnvDuration("JB_PDF_TIMEOUT", 60*time.Second)
	if err != nil {
		return nil, fmt.Errorf("JB_PDF_TIMEOUT: %w", err)
	}

	// --- Relatórios ---

	cfg.TituloRelatorio = getEnvDefault("JB_TITULO_RELATORIO", "10ª Zona Eleitoral - Guarabira")

	// --- Dephealth ---

	cfg.DephealthGroup = getEnvDefault("JB_DEPHEALTH_GROUP", "judbox")

	cfg.DephealthCheckInterval, err = getEnvDuration("JB_DEPHEALTH_CHECK_INTERVAL", 30*time.Second)
	if err != nil {
		return nil, fmt.Errorf("JB_DEPHEALTH_CHECK_INTERVAL: %w", err)
	}

	cfg.DephealthIsEntry, err = getEnvBool("JB_DEPHEALTH_ISENTRY", true)
	if err != nil {
		return nil, fmt.Errorf("JB_DEPHEALTH_ISENTRY: %w", err)
	}

	return cfg, nil
}

// DatabaseDSN retorna a string de conexão do PostgreSQL.
func (c *Config) DatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode,
	)
}

// SetupLogger configura o logger slog global a partir da configuração.
func SetupLogger(cfg *Config) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}

	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// --- Funções auxiliares ---

// getEnvRequired retorna o valor da variável de ambiente ou erro se ausente.
func getEnvRequired(key string) (string, error) {
	val := os.Getenv(key)
	if val == "" {
		return "", fmt.Errorf("%s: variável de ambiente obrigatória não definida", key)
	}
	return val, nil
}

// getEnvDefault retorna o valor da variável de ambiente ou o valor padrão.
func getEnvDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

// getEnvInt retorna o valor inteiro da variável de ambiente ou o padrão.
func getEnvInt(key string, defaultVal int) (int, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("inteiro inválido: %q", val)
	}
	return n, nil
}

// getEnvDuration retorna um time.Duration da variável de ambiente ou o padrão.
func getEnvDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return 0, fmt.Errorf("duração inválida: %q (use o formato Go: 30s, 15m, 1h)", val)
	}
	return d, nil
}

// getEnvBool retorna o valor booleano da variável de ambiente ou o padrão.
func getEnvBool(key string, defaultVal bool) (bool, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return false, fmt.Errorf("booleano inválido: %q (permitidos: true, false, 1, 0)", val)
	}
	return b, nil
}

// parseLogLevel converte a string de nível de log em slog.Level.
func parseLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("nível %q inválido, permitidos: debug, info, warn, error", level)
	}
}
