// auth.go — middleware de autenticação JWT do JudBox.
// Valida o Bearer token contra o JWKS do provedor de identidade e coloca a
// identidade do usuário (sub e e-mail) no contexto da requisição. Todo o
// acesso a dados é filtrado por esse sub: cada operador só enxerga o
// próprio acervo.
package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/MicahParks/jwkset"
	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"

	apierrors "github.com/tre-pb/judbox/internal/api/errors"
)

// contextKey — tipo dos valores de contexto do pacote (evita colisões).
type contextKey string

// ContextKeyIdentity — identidade autenticada no contexto da requisição.
const ContextKeyIdentity contextKey = "identity"

// Identity — identidade extraída do JWT.
type Identity struct {
	// UserID — sub do token; chave de escopo de todos os dados.
	UserID string
	// Email — e-mail do operador, exibido nos relatórios.
	Email string
}

// IdentityFromContext recupera a identidade autenticada da requisição.
func IdentityFromContext(ctx context.Context) (*Identity, bool) {
	id, ok := ctx.Value(ContextKeyIdentity).(*Identity)
	return id, ok
}

// tokenClaims — claims brutas do JWT.
type tokenClaims struct {
	jwt.RegisteredClaims
	// Email — e-mail do usuário.
	Email string `json:"email"`
}

// JWTAuth — middleware de autenticação via JWKS.
type JWTAuth struct {
	keyfunc jwt.Keyfunc
	logger  *slog.Logger
	issuer  string
	leeway  time.Duration
}

// NewJWTAuth cria o middleware com as chaves públicas buscadas do JWKS do
// provedor de identidade, com atualização periódica em segundo plano.
// issuer vazio desliga a verificação de emissor.
func NewJWTAuth(
	jwksURL string,
	issuer string,
	clientTimeout time.Duration,
	refreshInterval time.Duration,
	leeway time.Duration,
	logger *slog.Logger,
) (*JWTAuth, error) {
	// NoErrorReturnFirstHTTPReq — sobe mesmo com o provedor fora do ar;
	// as chaves chegam na primeira atualização bem-sucedida.
	storage, err := jwkset.NewStorageFromHTTP(jwksURL, jwkset.HTTPClientStorageOptions{
		Client:                    &http.Client{Timeout: clientTimeout},
		NoErrorReturnFirstHTTPReq: true,
		RefreshInterval:           refreshInterval,
		RefreshErrorHandler: func(_ context.Context, err error) {
			logger.Error("falha ao atualizar JWKS",
				slog.String("error", err.Error()),
				slog.String("url", jwksURL),
			)
		},
	})
	if err != nil {
		return nil, fmt.Errorf("criação do storage JWKS: %w", err)
	}

	k, err := keyfunc.New(keyfunc.Options{Storage: storage})
	if err != nil {
		return nil, fmt.Errorf("criação do keyfunc: %w", err)
	}

	return &JWTAuth{
		keyfunc: k.Keyfunc,
		logger:  logger.With(slog.String("component", "jwt_auth")),
		issuer:  issuer,
		leeway:  leeway,
	}, nil
}

// NewJWTAuthStatic cria o middleware com um jwt.Keyfunc fixo. Usado nos
// testes, onde não há endpoint JWKS.
func NewJWTAuthStatic(kf jwt.Keyfunc, issuer string, leeway time.Duration, logger *slog.Logger) *JWTAuth {
	return &JWTAuth{
		keyfunc: kf,
		logger:  logger.With(slog.String("component", "jwt_auth")),
		issuer:  issuer,
		leeway:  leeway,
	}
}

// Middleware devolve o middleware HTTP de autenticação. Extrai o Bearer
// token, valida assinatura e expiração e coloca a Identity no contexto.
// A verificação acontece antes de qualquer acesso a dados.
func (j *JWTAuth) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				apierrors.Unauthorized(w, "Cabeçalho Authorization ausente")
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				apierrors.Unauthorized(w, "Formato inválido de Authorization: esperado Bearer <token>")
				return
			}

			tokenString := parts[1]
			if tokenString == "" {
				apierrors.Unauthorized(w, "Bearer token vazio")
				return
			}

			claims := &tokenClaims{}
			parserOpts := []jwt.ParserOption{
				jwt.WithValidMethods([]string{"RS256", "ES256"}),
				jwt.WithExpirationRequired(),
				jwt.WithLeeway(j.leeway),
			}
			if j.issuer != "" {
				parserOpts = append(parserOpts, jwt.WithIssuer(j.issuer))
			}

			token, err := jwt.ParseWithClaims(tokenString, claims, j.keyfunc, parserOpts...)
			if err != nil {
				j.logger.Debug("validação de JWT recusada",
					slog.String("error", err.Error()),
					slog.String("remote_addr", r.RemoteAddr),
				)
				apierrors.Unauthorized(w, "Token inválido ou expirado")
				return
			}
			if !token.Valid {
				apierrors.Unauthorized(w, "Token inválido")
				return
			}

			subject, err := claims.GetSubject()
			if err != nil || subject == "" {
				apierrors.Unauthorized(w, "Token sem sub")
				return
			}

			identity := &Identity{UserID: subject, Email: claims.Email}
			ctx := context.WithValue(r.Context(), ContextKeyIdentity, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
