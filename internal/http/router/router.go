// Package router monta a árvore de rotas do serviço.
package router

import (
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"

	authctrl "github.com/dropDatabas3/littlejohn/internal/http/controllers/auth"
	usersctrl "github.com/dropDatabas3/littlejohn/internal/http/controllers/users"
	"github.com/dropDatabas3/littlejohn/internal/http/httperr"
	mw "github.com/dropDatabas3/littlejohn/internal/http/middlewares"
)

// Deps reúne tudo que o router precisa. Campos nil desligam o pedaço
// correspondente (ex.: Static nil desliga as páginas).
type Deps struct {
	Users *usersctrl.Controller
	Auth  *authctrl.Controller

	AuthDeps mw.AuthDeps

	// Readiness do armazenamento; retorna erro quando indisponível.
	Ready func(r *http.Request) error

	// Sistema de arquivos com as páginas estáticas (login, register,
	// dashboard, css, js). Nil desabilita o front.
	Static fs.FS

	// Origens permitidas para CORS. Vazio libera tudo em dev.
	CORSOrigins []string
}

// New devolve o handler raiz com toda a cadeia de middlewares globais.
func New(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(mw.WithRecover())
	r.Use(mw.WithRequestID())
	r.Use(mw.WithMetrics(routePattern))
	r.Use(mw.WithCORS(d.CORSOrigins))
	r.Use(mw.WithLogging())

	require := mw.RequireIdentity(d.AuthDeps)
	optional := mw.OptionalIdentity(d.AuthDeps)

	// API de autenticação.
	r.Route("/auth", func(r chi.Router) {
		r.Post("/signup", d.Auth.SignUp)
		r.Post("/signin", d.Auth.SignIn)
		r.Post("/refresh", d.Auth.Refresh)
		r.With(optional).Post("/signout", d.Auth.SignOut)
		r.With(require).Get("/me", d.Auth.Me)
	})

	// CRUD de usuários, sempre autenticado e escopado ao dono.
	r.Route("/users", func(r chi.Router) {
		r.Use(require)
		r.Get("/", d.Users.GetAll)
		r.Post("/", d.Users.Create)
		r.Get("/{id}", d.Users.GetByID)
		r.Put("/{id}", d.Users.Update)
		r.Delete("/{id}", d.Users.Delete)
	})

	// Observabilidade.
	r.Method(http.MethodGet, "/metrics", mw.MetricsHandler())
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/readyz", func(w http.ResponseWriter, req *http.Request) {
		if d.Ready != nil {
			if err := d.Ready(req); err != nil {
				httperr.Write(w, http.StatusServiceUnavailable, "Serviço temporariamente indisponível")
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	if d.Static != nil {
		registerFront(r, d, optional, require)
	}

	// Qualquer rota desconhecida responde JSON, inclusive para browsers:
	// o front conhece as próprias rotas.
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		httperr.Write(w, http.StatusNotFound, "Rota não encontrada")
	})

	return r
}

// registerFront liga as páginas estáticas e os redirects de navegação.
func registerFront(r chi.Router, d Deps, optional, require func(http.Handler) http.Handler) {
	files := http.FileServer(http.FS(d.Static))

	// Raiz decide entre dashboard e login conforme a sessão.
	r.With(optional).Get("/", func(w http.ResponseWriter, req *http.Request) {
		if mw.GetIdentity(req.Context()) != nil {
			http.Redirect(w, req, "/dashboard", http.StatusFound)
			return
		}
		http.Redirect(w, req, "/login", http.StatusFound)
	})

	servePage := func(name string) http.HandlerFunc {
		return func(w http.ResponseWriter, req *http.Request) {
			req.URL.Path = "/" + name
			files.ServeHTTP(w, req)
		}
	}

	// Login e cadastro mandam usuário autenticado direto pro dashboard.
	authedRedirect := func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, req *http.Request) {
			if mw.GetIdentity(req.Context()) != nil {
				http.Redirect(w, req, "/dashboard", http.StatusFound)
				return
			}
			next(w, req)
		}
	}
	r.With(optional).Get("/login", authedRedirect(servePage("login.html")))
	r.With(optional).Get("/register", authedRedirect(servePage("register.html")))
	r.With(require).Get("/dashboard", servePage("dashboard.html"))

	// Assets (css/js) são públicos.
	r.Get("/css/*", files.ServeHTTP)
	r.Get("/js/*", files.ServeHTTP)
}

// routePattern extrai o padrão da rota chi para o label de métricas,
// evitando cardinalidade por ID.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return r.URL.Path
}
