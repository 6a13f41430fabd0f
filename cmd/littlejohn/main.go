package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/dropDatabas3/littlejohn/internal/config"
	httpserver "github.com/dropDatabas3/littlejohn/internal/http"
	authctrl "github.com/dropDatabas3/littlejohn/internal/http/controllers/auth"
	usersctrl "github.com/dropDatabas3/littlejohn/internal/http/controllers/users"
	mw "github.com/dropDatabas3/littlejohn/internal/http/middlewares"
	"github.com/dropDatabas3/littlejohn/internal/http/router"
	authsvc "github.com/dropDatabas3/littlejohn/internal/http/services/auth"
	userssvc "github.com/dropDatabas3/littlejohn/internal/http/services/users"
	"github.com/dropDatabas3/littlejohn/internal/identity"
	"github.com/dropDatabas3/littlejohn/internal/observability/logger"
	"github.com/dropDatabas3/littlejohn/internal/session"
	"github.com/dropDatabas3/littlejohn/internal/store"
	"github.com/dropDatabas3/littlejohn/web"
)

func main() {
	// .env é conveniência de dev; em produção as vars vêm do ambiente.
	_ = godotenv.Load()

	var configPath string

	root := &cobra.Command{
		Use:           "littlejohn",
		Short:         "Serviço de gerenciamento de usuários por dono, com auth delegada",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "caminho do config YAML (opcional)")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Sobe o servidor HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(configPath)
		},
	}

	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Aplica as migrações pendentes e sai",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			logger.Init(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level, ServiceName: "littlejohn"})
			defer logger.Sync()

			ctx, cancel := context.WithTimeout(cmd.Context(), 60*time.Second)
			defer cancel()
			if err := store.Migrate(ctx, cfg); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			logger.L().Info("migrações aplicadas", logger.Op("migrate"))
			return nil
		},
	}

	root.AddCommand(serveCmd, migrateCmd)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "erro:", err)
		os.Exit(1)
	}
}

func runServe(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger.Init(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level, ServiceName: "littlejohn"})
	defer logger.Sync()
	log := logger.L()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Repositório de usuários (postgres ou sqlite, conforme config).
	repo, closeRepo, err := store.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("store: %w", err)
	}
	defer func() { _ = closeRepo() }()
	log.Info("store conectado", logger.Op("serve"))

	// Sessões server-side.
	sessions, closeSessions, err := newSessionStore(cfg)
	if err != nil {
		return err
	}
	if closeSessions != nil {
		defer func() { _ = closeSessions() }()
	}

	codec := session.NewCodec(session.CodecConfig{
		Secret:     cfg.Session.Secret,
		CookieName: cfg.Session.CookieName,
		TTL:        cfg.SessionTTL(),
		Secure:     cfg.Session.Secure,
		SameSite:   cfg.Session.SameSite,
	})

	// Provider de identidade externo.
	idp := identity.New(identity.Config{
		BaseURL: cfg.Identity.BaseURL,
		APIKey:  cfg.Identity.APIKey,
		Timeout: cfg.IdentityTimeout(),
	})

	// Services e controllers, com dependências explícitas.
	usersService := userssvc.NewService(repo)
	authService := authsvc.NewService(authsvc.Deps{
		Provider:   idp,
		Sessions:   sessions,
		SessionTTL: cfg.SessionTTL(),
	})

	handler := router.New(router.Deps{
		Users: usersctrl.NewController(usersService),
		Auth:  authctrl.NewController(authService, codec),
		AuthDeps: mw.AuthDeps{
			Verifier: idp,
			Codec:    codec,
			Sessions: sessions,
		},
		Ready: func(r *http.Request) error {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			return repo.Ping(ctx)
		},
		Static:      web.Public(),
		CORSOrigins: cfg.Server.CORSAllowedOrigins,
	})

	srv := httpserver.NewServer(cfg.Server.Addr, handler)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("servindo", logger.Op("serve"))
		return srv.Start()
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// newSessionStore instancia o store de sessão conforme a config. O closer
// só existe para o redis.
func newSessionStore(cfg *config.Config) (session.Store, func() error, error) {
	switch cfg.Session.Store.Kind {
	case "redis":
		s := session.NewRedis(cfg.Session.Store.Redis.Addr, cfg.Session.Store.Redis.DB, cfg.Session.Store.Redis.Prefix)
		return s, s.Close, nil
	default:
		return session.NewMemory(cfg.SessionTTL()), nil, nil
	}
}
