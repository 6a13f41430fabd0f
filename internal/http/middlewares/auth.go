package middlewares

import (
	"context"
	"errors"
	"net/http"
	"strings"

	domainerrors "github.com/dropDatabas3/littlejohn/internal/domain/errors"
	"github.com/dropDatabas3/littlejohn/internal/http/helpers"
	"github.com/dropDatabas3/littlejohn/internal/http/httperr"
	"github.com/dropDatabas3/littlejohn/internal/identity"
	"github.com/dropDatabas3/littlejohn/internal/observability/logger"
	"github.com/dropDatabas3/littlejohn/internal/session"
)

// TokenVerifier resolve um access token na identidade dona dele.
// *identity.Client satisfaz; os testes usam um fake.
type TokenVerifier interface {
	GetUser(ctx context.Context, accessToken string) (*identity.Identity, error)
}

// AuthDeps são as dependências dos middlewares de autenticação.
type AuthDeps struct {
	Verifier TokenVerifier
	Codec    *session.Codec
	Sessions session.Store
}

// RequireIdentity resolve o token (header > cookie > sessão server-side) e
// verifica contra o identity provider a cada request, sem cache de
// verificação. Sem token ou token inválido: 401 JSON para clientes de API,
// redirect para /login em navegação de browser.
func RequireIdentity(d AuthDeps) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := resolveToken(r, d)
			if token == "" {
				reject(w, r, http.StatusUnauthorized, "Token de acesso requerido")
				return
			}

			id, err := d.Verifier.GetUser(r.Context(), token)
			if err != nil {
				if errors.Is(err, identity.ErrUnavailable) {
					reject(w, r, http.StatusServiceUnavailable, domainerrors.MsgUnavailable)
					return
				}
				if errors.Is(err, identity.ErrInvalidToken) {
					reject(w, r, http.StatusUnauthorized, "Token inválido ou expirado")
					return
				}
				logger.From(r.Context()).Warn("falha verificando token",
					logger.Layer("middleware"), logger.Err(err))
				reject(w, r, http.StatusUnauthorized, "Erro de autenticação")
				return
			}

			ctx := WithIdentity(r.Context(), id)
			ctx = WithAccessToken(ctx, token)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalIdentity tenta resolver a identidade mas NUNCA rejeita: qualquer
// falha segue adiante como request anônimo. Usado nas rotas de navegação.
func OptionalIdentity(d AuthDeps) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := resolveToken(r, d)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}
			id, err := d.Verifier.GetUser(r.Context(), token)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}
			ctx := WithIdentity(r.Context(), id)
			ctx = WithAccessToken(ctx, token)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// resolveToken extrai o access token na ordem do contrato: header
// Authorization, cookie access_token, sessão server-side (cookie assinado).
func resolveToken(r *http.Request, d AuthDeps) string {
	if ah := strings.TrimSpace(r.Header.Get("Authorization")); ah != "" {
		if strings.HasPrefix(strings.ToLower(ah), "bearer ") {
			if t := strings.TrimSpace(ah[len("Bearer "):]); t != "" {
				return t
			}
		}
	}

	if ck, err := r.Cookie(session.AccessTokenCookie); err == nil && ck.Value != "" {
		return ck.Value
	}

	if d.Codec != nil && d.Sessions != nil {
		if sid, ok := d.Codec.ReadSID(r); ok {
			if data, err := d.Sessions.Get(r.Context(), sid); err == nil {
				return data.AccessToken
			}
		}
	}
	return ""
}

func reject(w http.ResponseWriter, r *http.Request, status int, msg string) {
	if helpers.WantsJSON(r) {
		httperr.Write(w, status, msg)
		return
	}
	http.Redirect(w, r, "/login", http.StatusFound)
}
