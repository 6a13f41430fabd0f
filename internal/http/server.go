package http

import (
	"context"
	"net/http"
	"time"

	"github.com/dropDatabas3/littlejohn/internal/observability/logger"
)

// Server embrulha o http.Server com timeouts sãos e shutdown gracioso.
type Server struct {
	srv *http.Server
}

func NewServer(addr string, handler http.Handler) *Server {
	return &Server{
		srv: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
	}
}

// Start bloqueia até o servidor cair. http.ErrServerClosed (shutdown
// normal) é traduzido para nil.
func (s *Server) Start() error {
	logger.L().Info("servidor http escutando", logger.Op("server.start"))
	if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drena as conexões em andamento respeitando o contexto.
func (s *Server) Shutdown(ctx context.Context) error {
	logger.L().Info("encerrando servidor http", logger.Op("server.shutdown"))
	return s.srv.Shutdown(ctx)
}
