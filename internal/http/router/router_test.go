package router_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/require"

	authctrl "github.com/dropDatabas3/littlejohn/internal/http/controllers/auth"
	usersctrl "github.com/dropDatabas3/littlejohn/internal/http/controllers/users"
	mw "github.com/dropDatabas3/littlejohn/internal/http/middlewares"
	"github.com/dropDatabas3/littlejohn/internal/http/router"
	authsvc "github.com/dropDatabas3/littlejohn/internal/http/services/auth"
	userssvc "github.com/dropDatabas3/littlejohn/internal/http/services/users"
	"github.com/dropDatabas3/littlejohn/internal/identity"
	"github.com/dropDatabas3/littlejohn/internal/session"
	"github.com/dropDatabas3/littlejohn/internal/store/sqlite"
)

// fakeIdentityProvider faz as vezes do provider externo: token "tok-<owner>"
// resolve para a identidade <owner>.
type fakeIdentityProvider struct{}

func (fakeIdentityProvider) GetUser(ctx context.Context, accessToken string) (*identity.Identity, error) {
	if len(accessToken) > 4 && accessToken[:4] == "tok-" {
		owner := accessToken[4:]
		return &identity.Identity{ID: owner, Email: owner + "@x.com"}, nil
	}
	return nil, identity.ErrInvalidToken
}

func (fakeIdentityProvider) SignUp(ctx context.Context, email, password, name string) (*identity.Identity, *identity.Session, error) {
	return &identity.Identity{ID: "owner-novo", Email: email, Name: name},
		&identity.Session{AccessToken: "tok-owner-novo", RefreshToken: "ref-1"}, nil
}

func (fakeIdentityProvider) SignIn(ctx context.Context, email, password string) (*identity.Identity, *identity.Session, error) {
	if password != "senha-certa" {
		return nil, nil, identity.ErrInvalidCredentials
	}
	return &identity.Identity{ID: "owner-1", Email: email},
		&identity.Session{AccessToken: "tok-owner-1", RefreshToken: "ref-1"}, nil
}

func (fakeIdentityProvider) Refresh(ctx context.Context, refreshToken string) (*identity.Identity, *identity.Session, error) {
	if refreshToken != "ref-1" {
		return nil, nil, identity.ErrInvalidToken
	}
	return &identity.Identity{ID: "owner-1"},
		&identity.Session{AccessToken: "tok-owner-1", RefreshToken: "ref-2"}, nil
}

func (fakeIdentityProvider) SignOut(ctx context.Context, accessToken string) error { return nil }

var staticPages = fstest.MapFS{
	"login.html":     {Data: []byte("<html>login</html>")},
	"register.html":  {Data: []byte("<html>register</html>")},
	"dashboard.html": {Data: []byte("<html>dashboard</html>")},
	"css/style.css":  {Data: []byte("body{}")},
}

func newHandler(t *testing.T) http.Handler {
	t.Helper()

	repo, err := sqlite.New(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })

	sessions := session.NewMemory(time.Hour)
	codec := session.NewCodec(session.CodecConfig{Secret: "segredo", CookieName: "lj_session", TTL: time.Hour})
	provider := fakeIdentityProvider{}

	return router.New(router.Deps{
		Users: usersctrl.NewController(userssvc.NewService(repo)),
		Auth: authctrl.NewController(authsvc.NewService(authsvc.Deps{
			Provider:   provider,
			Sessions:   sessions,
			SessionTTL: time.Hour,
		}), codec),
		AuthDeps: mw.AuthDeps{Verifier: provider, Codec: codec, Sessions: sessions},
		Ready:    func(r *http.Request) error { return repo.Ping(r.Context()) },
		Static:   staticPages,
	})
}

func doJSON(t *testing.T, h http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestUsersCRUDFlow(t *testing.T) {
	h := newHandler(t)
	token := "tok-owner-1"

	// Lista vazia vem como array, nunca null.
	rec := doJSON(t, h, http.MethodGet, "/users", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "[]\n", rec.Body.String())

	// Create.
	rec = doJSON(t, h, http.MethodPost, "/users", token,
		map[string]string{"name": "Alice Johnson", "email": "ALICE@x.com"})
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decode(t, rec)
	require.Equal(t, "Alice Johnson", created["name"])
	require.Equal(t, "alice@x.com", created["email"])
	id := int64(created["id"].(float64))
	require.Positive(t, id)

	// Get por id.
	rec = doJSON(t, h, http.MethodGet, fmt.Sprintf("/users/%d", id), token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	// Update parcial.
	rec = doJSON(t, h, http.MethodPut, fmt.Sprintf("/users/%d", id), token,
		map[string]string{"name": "Alice J."})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "Alice J.", decode(t, rec)["name"])

	// Delete devolve mensagem e o registro.
	rec = doJSON(t, h, http.MethodDelete, fmt.Sprintf("/users/%d", id), token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	out := decode(t, rec)
	require.Equal(t, "Usuário deletado com sucesso", out["message"])
	require.Equal(t, "alice@x.com", out["user"].(map[string]any)["email"])
}

func TestUsersErrors(t *testing.T) {
	h := newHandler(t)
	token := "tok-owner-1"

	rec := doJSON(t, h, http.MethodPost, "/users", token,
		map[string]string{"name": "Alice", "email": "alice@x.com"})
	require.Equal(t, http.StatusCreated, rec.Code)

	t.Run("email duplicado no create", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodPost, "/users", token,
			map[string]string{"name": "Clone", "email": "alice@x.com"})
		require.Equal(t, http.StatusConflict, rec.Code)
		require.Equal(t, "Usuário com este email já existe", decode(t, rec)["error"])
	})

	t.Run("id inexistente", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodDelete, "/users/999", token, nil)
		require.Equal(t, http.StatusNotFound, rec.Code)
		require.Equal(t, "Usuário não encontrado", decode(t, rec)["error"])
	})

	t.Run("id inválido", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodGet, "/users/abc", token, nil)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Equal(t, "ID inválido", decode(t, rec)["error"])
	})

	t.Run("body vazio no create", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodPost, "/users", token, map[string]string{})
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Equal(t, "Dados do usuário são obrigatórios", decode(t, rec)["error"])
	})

	t.Run("body vazio no update", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodPut, "/users/1", token, map[string]string{})
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Equal(t, "Dados para atualização são obrigatórios", decode(t, rec)["error"])
	})

	t.Run("sem token", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodGet, "/users", "", nil)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Equal(t, "Token de acesso requerido", decode(t, rec)["error"])
	})
}

func TestOwnerScoping(t *testing.T) {
	h := newHandler(t)

	rec := doJSON(t, h, http.MethodPost, "/users", "tok-owner-1",
		map[string]string{"name": "Alice", "email": "alice@x.com"})
	require.Equal(t, http.StatusCreated, rec.Code)
	id := int64(decode(t, rec)["id"].(float64))

	// Outro dono não enxerga o registro.
	rec = doJSON(t, h, http.MethodGet, fmt.Sprintf("/users/%d", id), "tok-owner-2", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, h, http.MethodGet, "/users", "tok-owner-2", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "[]\n", rec.Body.String())
}

func TestAuthFlow(t *testing.T) {
	h := newHandler(t)

	t.Run("signin ok grava cookie de sessão", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodPost, "/auth/signin", "",
			map[string]string{"email": "alice@x.com", "password": "senha-certa"})
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "Login realizado com sucesso", decode(t, rec)["message"])

		var sessionCookie, accessCookie *http.Cookie
		for _, ck := range rec.Result().Cookies() {
			switch ck.Name {
			case "lj_session":
				sessionCookie = ck
			case "access_token":
				accessCookie = ck
			}
		}
		require.NotNil(t, sessionCookie)
		require.NotNil(t, accessCookie)
		require.Equal(t, "tok-owner-1", accessCookie.Value)

		// O cookie de sessão sozinho autentica o CRUD.
		req := httptest.NewRequest(http.MethodGet, "/users", nil)
		req.Header.Set("Accept", "application/json")
		req.AddCookie(sessionCookie)
		rec2 := httptest.NewRecorder()
		h.ServeHTTP(rec2, req)
		require.Equal(t, http.StatusOK, rec2.Code)
	})

	t.Run("signin com senha errada", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodPost, "/auth/signin", "",
			map[string]string{"email": "alice@x.com", "password": "errada"})
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Equal(t, "Erro ao fazer login: credenciais inválidas", decode(t, rec)["error"])
	})

	t.Run("signup", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodPost, "/auth/signup", "",
			map[string]string{"email": "novo@x.com", "password": "senha123", "name": "Novo"})
		require.Equal(t, http.StatusCreated, rec.Code)
		require.Equal(t, "Usuário criado com sucesso", decode(t, rec)["message"])
	})

	t.Run("me exige token", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodGet, "/auth/me", "", nil)
		require.Equal(t, http.StatusUnauthorized, rec.Code)

		rec = doJSON(t, h, http.MethodGet, "/auth/me", "tok-owner-1", nil)
		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("refresh via body", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodPost, "/auth/refresh", "",
			map[string]string{"refresh_token": "ref-1"})
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "Sessão renovada com sucesso", decode(t, rec)["message"])
	})

	t.Run("refresh sem sessão", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodPost, "/auth/refresh", "", nil)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Equal(t, "Sessão não encontrada", decode(t, rec)["error"])
	})

	t.Run("signout limpa cookie", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodPost, "/auth/signout", "", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "Logout realizado com sucesso", decode(t, rec)["message"])
	})
}

func TestFrontRoutes(t *testing.T) {
	h := newHandler(t)

	get := func(path, token string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.Header.Set("Accept", "text/html")
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	t.Run("raiz anônima vai para login", func(t *testing.T) {
		rec := get("/", "")
		require.Equal(t, http.StatusFound, rec.Code)
		require.Equal(t, "/login", rec.Header().Get("Location"))
	})

	t.Run("raiz autenticada vai para dashboard", func(t *testing.T) {
		rec := get("/", "tok-owner-1")
		require.Equal(t, http.StatusFound, rec.Code)
		require.Equal(t, "/dashboard", rec.Header().Get("Location"))
	})

	t.Run("login serve a página para anônimo", func(t *testing.T) {
		rec := get("/login", "")
		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), "login")
	})

	t.Run("login autenticado redireciona", func(t *testing.T) {
		rec := get("/login", "tok-owner-1")
		require.Equal(t, http.StatusFound, rec.Code)
		require.Equal(t, "/dashboard", rec.Header().Get("Location"))
	})

	t.Run("dashboard exige sessão", func(t *testing.T) {
		rec := get("/dashboard", "")
		require.Equal(t, http.StatusFound, rec.Code)
		require.Equal(t, "/login", rec.Header().Get("Location"))

		rec = get("/dashboard", "tok-owner-1")
		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), "dashboard")
	})

	t.Run("assets são públicos", func(t *testing.T) {
		rec := get("/css/style.css", "")
		require.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestInfraRoutes(t *testing.T) {
	h := newHandler(t)

	rec := doJSON(t, h, http.MethodGet, "/healthz", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, h, http.MethodGet, "/readyz", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, h, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	t.Run("rota desconhecida responde JSON", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodGet, "/nao-existe", "", nil)
		require.Equal(t, http.StatusNotFound, rec.Code)
		require.Equal(t, "Rota não encontrada", decode(t, rec)["error"])
	})
}
