package identity_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/littlejohn/internal/identity"
)

func newServer(t *testing.T, handler http.HandlerFunc) *identity.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return identity.New(identity.Config{BaseURL: srv.URL, APIKey: "chave-publica"})
}

func TestSignInPasswordGrant(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/token", r.URL.Path)
		require.Equal(t, "password", r.URL.Query().Get("grant_type"))
		require.Equal(t, "chave-publica", r.Header.Get("apikey"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "alice@x.com", body["email"])

		json.NewEncoder(w).Encode(map[string]any{
			"access_token":  "tok",
			"refresh_token": "ref",
			"token_type":    "bearer",
			"expires_in":    3600,
			"user": map[string]any{
				"id":            "uuid-1",
				"email":         "alice@x.com",
				"user_metadata": map[string]string{"name": "Alice"},
			},
		})
	})

	id, sess, err := c.SignIn(context.Background(), "alice@x.com", "senha")
	require.NoError(t, err)
	require.Equal(t, "uuid-1", id.ID)
	require.Equal(t, "Alice", id.Name)
	require.Equal(t, "tok", sess.AccessToken)
	require.Equal(t, "ref", sess.RefreshToken)
	require.Equal(t, 3600, sess.ExpiresIn)
}

func TestSignInInvalidGrant(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{
			"error":             "invalid_grant",
			"error_description": "Invalid login credentials",
		})
	})

	_, _, err := c.SignIn(context.Background(), "alice@x.com", "errada")
	require.ErrorIs(t, err, identity.ErrInvalidCredentials)
}

func TestSignUpFlattenedSession(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/signup", r.URL.Path)
		// Sessão achatada junto do user, como alguns providers devolvem.
		json.NewEncoder(w).Encode(map[string]any{
			"access_token":  "tok",
			"refresh_token": "ref",
			"user": map[string]any{
				"id":    "uuid-2",
				"email": "novo@x.com",
			},
		})
	})

	id, sess, err := c.SignUp(context.Background(), "novo@x.com", "senha123", "Novo")
	require.NoError(t, err)
	require.Equal(t, "uuid-2", id.ID)
	require.NotNil(t, sess)
	require.Equal(t, "tok", sess.AccessToken)
}

func TestSignUpPendingConfirmationHasNoSession(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		// Confirmação de email pendente: só o user, sem tokens.
		json.NewEncoder(w).Encode(map[string]any{
			"id":    "uuid-3",
			"email": "pendente@x.com",
		})
	})

	id, sess, err := c.SignUp(context.Background(), "pendente@x.com", "senha123", "")
	require.NoError(t, err)
	require.Equal(t, "uuid-3", id.ID)
	require.Nil(t, sess)
}

func TestSignUpEmailTaken(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(map[string]string{"msg": "User already registered"})
	})

	_, _, err := c.SignUp(context.Background(), "dup@x.com", "senha123", "")
	require.ErrorIs(t, err, identity.ErrEmailTaken)
}

func TestGetUser(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/user", r.URL.Path)
		require.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(map[string]any{"id": "uuid-1", "email": "alice@x.com"})
	})

	id, err := c.GetUser(context.Background(), "tok")
	require.NoError(t, err)
	require.Equal(t, "uuid-1", id.ID)
}

func TestGetUserInvalidToken(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"msg": "JWT expired"})
	})

	_, err := c.GetUser(context.Background(), "velho")
	require.ErrorIs(t, err, identity.ErrInvalidToken)
}

func TestProviderDownIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // conexão recusada daqui em diante
	c := identity.New(identity.Config{BaseURL: srv.URL})

	_, err := c.GetUser(context.Background(), "tok")
	require.ErrorIs(t, err, identity.ErrUnavailable)
}

func TestRefreshGrant(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "refresh_token", r.URL.Query().Get("grant_type"))
		json.NewEncoder(w).Encode(map[string]any{
			"access_token":  "tok2",
			"refresh_token": "ref2",
			"user":          map[string]any{"id": "uuid-1"},
		})
	})

	_, sess, err := c.Refresh(context.Background(), "ref1")
	require.NoError(t, err)
	require.Equal(t, "tok2", sess.AccessToken)
	require.Equal(t, "ref2", sess.RefreshToken)
}

func TestSignOut(t *testing.T) {
	called := false
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
		require.Equal(t, "/logout", r.URL.Path)
		require.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusNoContent)
	})

	require.NoError(t, c.SignOut(context.Background(), "tok"))
	require.True(t, called)
}
