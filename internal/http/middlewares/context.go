package middlewares

import (
	"context"

	"github.com/dropDatabas3/littlejohn/internal/identity"
)

type ctxKey string

const (
	ctxIdentityKey  ctxKey = "identity"
	ctxTokenKey     ctxKey = "access_token"
	ctxRequestIDKey ctxKey = "request_id"
)

// WithIdentity injeta a identidade resolvida no contexto.
func WithIdentity(ctx context.Context, id *identity.Identity) context.Context {
	return context.WithValue(ctx, ctxIdentityKey, id)
}

// GetIdentity devolve a identidade do contexto, ou nil em request anônimo.
func GetIdentity(ctx context.Context) *identity.Identity {
	if v := ctx.Value(ctxIdentityKey); v != nil {
		if id, ok := v.(*identity.Identity); ok {
			return id
		}
	}
	return nil
}

// WithAccessToken guarda o token resolvido (signout/refresh precisam dele).
func WithAccessToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, ctxTokenKey, token)
}

// GetAccessToken devolve o token do contexto, ou vazio.
func GetAccessToken(ctx context.Context) string {
	if v := ctx.Value(ctxTokenKey); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

func setRequestID(ctx context.Context, rid string) context.Context {
	return context.WithValue(ctx, ctxRequestIDKey, rid)
}

// GetRequestID devolve o request id do contexto, ou vazio.
func GetRequestID(ctx context.Context) string {
	if v := ctx.Value(ctxRequestIDKey); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
