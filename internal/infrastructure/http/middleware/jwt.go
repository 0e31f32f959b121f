package middleware

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"

	"3tcapital/ms_kyc_core/internal/infrastructure/config"
	ctxutil "3tcapital/ms_kyc_core/internal/infrastructure/context"
	httperrors "3tcapital/ms_kyc_core/internal/infrastructure/http"
)

// ContextKeyToken exposes the verified JWT token via request context.
type ContextKeyToken struct{}

var validMethods = []string{
	jwt.SigningMethodRS256.Alg(),
	jwt.SigningMethodRS384.Alg(),
	jwt.SigningMethodRS512.Alg(),
	jwt.SigningMethodPS256.Alg(),
	jwt.SigningMethodES256.Alg(),
}

const defaultUserIDClaim = "sub"

// JWTAuthenticator validates Authorization headers against a remote JWKS.
// The configured user id claim (the subject by default) becomes the request's user id.
type JWTAuthenticator struct {
	cfg        config.AuthSettings
	log        *slog.Logger
	keyFunc    jwt.Keyfunc
	parser     *jwt.Parser
	cancel     context.CancelFunc
	bypassPath map[string]struct{}
}

func NewJWTAuthenticator(cfg config.AuthSettings, log *slog.Logger) (*JWTAuthenticator, error) {
	auth := newAuthenticator(cfg, log, nil)
	if !cfg.Enabled {
		return auth, nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	override := keyfunc.Override{
		RefreshInterval: 6 * time.Hour,
		RefreshErrorHandlerFunc: func(url string) func(context.Context, error) {
			return func(c context.Context, err error) {
				log.Error("failed to refresh JWKS", "url", url, "error", err)
			}
		},
		HTTPTimeout: 10 * time.Second,
	}

	jwks, err := keyfunc.NewDefaultOverrideCtx(ctx, []string{cfg.JWKSetURI}, override)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("unable to load JWKS: %w", err)
	}
	auth.keyFunc = jwks.Keyfunc
	auth.cancel = cancel

	return auth, nil
}

func newAuthenticator(cfg config.AuthSettings, log *slog.Logger, keyFunc jwt.Keyfunc) *JWTAuthenticator {
	auth := &JWTAuthenticator{
		cfg:        cfg,
		log:        log,
		keyFunc:    keyFunc,
		parser:     jwt.NewParser(parserOptions(cfg)...),
		bypassPath: make(map[string]struct{}),
	}
	if auth.cfg.UserIDClaim == "" {
		auth.cfg.UserIDClaim = defaultUserIDClaim
	}
	for _, path := range cfg.BypassPaths {
		if path != "" {
			auth.bypassPath[path] = struct{}{}
		}
	}
	return auth
}

// Middleware enforces JWT validation on inbound requests.
func (a *JWTAuthenticator) Middleware(next http.Handler) http.Handler {
	if !a.cfg.Enabled {
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if a.shouldBypass(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		tokenString, err := extractBearerToken(r.Header.Get("Authorization"))
		if err != nil {
			httperrors.WriteError(w, http.StatusUnauthorized, "Error de Autenticación", []string{"Credenciales de acceso no válidas"}, a.log)
			return
		}

		claims := jwt.MapClaims{}
		token, err := a.parser.ParseWithClaims(tokenString, claims, a.keyFunc)
		if err != nil || !token.Valid {
			a.log.Warn("token validation failed",
				"correlation_id", ctxutil.GetCorrelationID(r.Context()),
				"error", err,
			)
			httperrors.WriteError(w, http.StatusUnauthorized, "Error de Autenticación", []string{"Token inválido o expirado"}, a.log)
			return
		}

		ctx := context.WithValue(r.Context(), ContextKeyToken{}, token)
		if userID := claimString(claims, a.cfg.UserIDClaim); userID != "" {
			ctx = ctxutil.WithUserID(ctx, userID)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func parserOptions(cfg config.AuthSettings) []jwt.ParserOption {
	opts := []jwt.ParserOption{
		jwt.WithIssuer(cfg.IssuerURI),
		jwt.WithLeeway(cfg.ClockSkew),
		jwt.WithValidMethods(validMethods),
	}
	if cfg.Audience != "" {
		opts = append(opts, jwt.WithAudience(cfg.Audience))
	}
	return opts
}

// claimString reads a string claim. Numeric ids are rendered without exponent.
func claimString(claims jwt.MapClaims, name string) string {
	switch v := claims[name].(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return ""
}

// Close stops background JWKS refreshers.
func (a *JWTAuthenticator) Close() {
	if a.cancel != nil {
		a.cancel()
	}
}

func (a *JWTAuthenticator) shouldBypass(path string) bool {
	_, ok := a.bypassPath[path]
	return ok
}

func extractBearerToken(header string) (string, error) {
	if header == "" {
		return "", errors.New("missing Authorization header")
	}

	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", errors.New("invalid Authorization header format")
	}
	return parts[1], nil
}
