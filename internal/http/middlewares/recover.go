package middlewares

import (
	"net/http"

	domainerrors "github.com/dropDatabas3/littlejohn/internal/domain/errors"
	"github.com/dropDatabas3/littlejohn/internal/http/httperr"
	"github.com/dropDatabas3/littlejohn/internal/observability/logger"
)

// WithRecover converte panics em 500 JSON; o stack vai para o log, nunca para
// o cliente.
func WithRecover() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logger.From(r.Context()).Sugar().Errorw("panic no handler",
						"path", r.URL.Path, "panic", rec)
					httperr.Write(w, http.StatusInternalServerError, domainerrors.MsgInternal)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
