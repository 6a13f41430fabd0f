package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client fala com o identity provider. Todas as chamadas respeitam o contexto
// do request; a suspensão em I/O acontece aqui e no store, em mais lugar nenhum.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// Config do client.
type Config struct {
	// BaseURL do provider, ex: https://auth.example.com
	BaseURL string
	// APIKey pública (header apikey), se o provider exigir.
	APIKey string
	// Timeout por chamada. Default 10s.
	Timeout time.Duration
}

// New cria o client.
func New(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		http:    &http.Client{Timeout: timeout},
	}
}

// SignUp registra uma identidade nova. Name é opcional e vai em user_metadata.
func (c *Client) SignUp(ctx context.Context, email, password, name string) (*Identity, *Session, error) {
	body := map[string]any{"email": email, "password": password}
	if name != "" {
		body["data"] = map[string]any{"name": name}
	}

	var resp struct {
		rawUser
		Session *Session `json:"session"`
		// Providers que devolvem a sessão achatada junto do user.
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
		ExpiresIn    int    `json:"expires_in"`
		TokenType    string `json:"token_type"`
		User         *rawUser `json:"user"`
	}
	if err := c.do(ctx, http.MethodPost, "/signup", "", body, &resp); err != nil {
		return nil, nil, err
	}

	u := resp.rawUser
	if resp.User != nil {
		u = *resp.User
	}
	sess := resp.Session
	if sess == nil && resp.AccessToken != "" {
		sess = &Session{
			AccessToken:  resp.AccessToken,
			RefreshToken: resp.RefreshToken,
			ExpiresIn:    resp.ExpiresIn,
			TokenType:    resp.TokenType,
		}
	}
	return u.identity(), sess, nil
}

// SignIn troca email/senha por uma sessão (grant password).
func (c *Client) SignIn(ctx context.Context, email, password string) (*Identity, *Session, error) {
	return c.tokenGrant(ctx, "password", map[string]any{"email": email, "password": password})
}

// Refresh renova a sessão a partir do refresh token.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*Identity, *Session, error) {
	return c.tokenGrant(ctx, "refresh_token", map[string]any{"refresh_token": refreshToken})
}

func (c *Client) tokenGrant(ctx context.Context, grant string, body map[string]any) (*Identity, *Session, error) {
	var resp struct {
		Session
		User rawUser `json:"user"`
	}
	if err := c.do(ctx, http.MethodPost, "/token?grant_type="+grant, "", body, &resp); err != nil {
		return nil, nil, err
	}
	sess := resp.Session
	return resp.User.identity(), &sess, nil
}

// GetUser resolve um access token na identidade dona dele.
// Nenhum cache: cada request re-verifica contra o provider.
func (c *Client) GetUser(ctx context.Context, accessToken string) (*Identity, error) {
	var u rawUser
	if err := c.do(ctx, http.MethodGet, "/user", accessToken, nil, &u); err != nil {
		return nil, err
	}
	return u.identity(), nil
}

// SignOut revoga a sessão do token no provider.
func (c *Client) SignOut(ctx context.Context, accessToken string) error {
	return c.do(ctx, http.MethodPost, "/logout", accessToken, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path, bearer string, body, out any) error {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rd = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("apikey", c.apiKey)
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		// Timeout ou rede fora: o chamador trata como serviço indisponível.
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return c.asError(resp)
	}
	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *Client) asError(resp *http.Response) error {
	var raw rawError
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
	_ = json.Unmarshal(b, &raw)
	msg := raw.message()

	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		if msg != "" && strings.Contains(strings.ToLower(msg), "credential") {
			return ErrInvalidCredentials
		}
		return ErrInvalidToken
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		low := strings.ToLower(msg)
		if strings.Contains(low, "already registered") || strings.Contains(low, "already exists") {
			return ErrEmailTaken
		}
		if strings.Contains(low, "invalid login") || strings.Contains(low, "credential") || raw.Error == "invalid_grant" {
			return ErrInvalidCredentials
		}
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return ErrUnavailable
	}
	if msg == "" {
		msg = resp.Status
	}
	return fmt.Errorf("identity: provider respondeu %d: %s", resp.StatusCode, msg)
}
