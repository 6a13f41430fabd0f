package logger

import (
	"context"

	"go.uber.org/zap"
)

type ctxKey struct{}

// ToContext injeta um logger no contexto. Usado pelos middlewares para
// propagar um logger já com os campos do request (request_id, method, path).
func ToContext(ctx context.Context, l *zap.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// From extrai o logger do contexto; se não há nenhum, devolve o singleton.
// Pode ser chamado de qualquer camada sem se preocupar se o middleware rodou.
func From(ctx context.Context) *zap.Logger {
	if ctx == nil {
		return L()
	}
	if v := ctx.Value(ctxKey{}); v != nil {
		if l, ok := v.(*zap.Logger); ok {
			return l
		}
	}
	return L()
}
