package session

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AccessTokenCookie é o cookie que carrega o access token do provider
// diretamente (segundo ponto de resolução do middleware de auth).
const AccessTokenCookie = "access_token"

// Codec assina e verifica o cookie de sessão. O valor do cookie é um JWT
// HS256 curto carregando só o sid; o conteúdo da sessão fica no Store.
// Cookie adulterado falha a verificação de assinatura e vira request anônimo.
type Codec struct {
	secret     []byte
	cookieName string
	ttl        time.Duration
	secure     bool
	sameSite   http.SameSite
}

// CodecConfig configura o codec.
type CodecConfig struct {
	Secret     string
	CookieName string
	TTL        time.Duration
	Secure     bool
	SameSite   string // "Lax" | "Strict" | "None"
}

// NewCodec cria o codec do cookie de sessão.
func NewCodec(cfg CodecConfig) *Codec {
	return &Codec{
		secret:     []byte(cfg.Secret),
		cookieName: cfg.CookieName,
		ttl:        cfg.TTL,
		secure:     cfg.Secure,
		sameSite:   parseSameSite(cfg.SameSite),
	}
}

// NewSID gera um id de sessão novo.
func (c *Codec) NewSID() string { return uuid.NewString() }

type sidClaims struct {
	SID string `json:"sid"`
	jwt.RegisteredClaims
}

// Encode assina o sid num token com a expiração da sessão.
func (c *Codec) Encode(sid string) (string, error) {
	now := time.Now()
	claims := sidClaims{
		SID: sid,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
}

// Decode verifica assinatura e expiração e devolve o sid.
func (c *Codec) Decode(token string) (string, error) {
	var claims sidClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("session: método de assinatura inesperado")
		}
		return c.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", err
	}
	if claims.SID == "" {
		return "", errors.New("session: token sem sid")
	}
	return claims.SID, nil
}

// SetCookie grava o cookie de sessão assinado na resposta.
func (c *Codec) SetCookie(w http.ResponseWriter, sid string) error {
	token, err := c.Encode(sid)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     c.cookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(c.ttl.Seconds()),
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: c.sameSite,
	})
	return nil
}

// ClearCookie expira o cookie de sessão.
func (c *Codec) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     c.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: c.sameSite,
	})
}

// SetAccessCookie grava o access token do provider no cookie próprio.
// maxAge em segundos (o expires_in do provider); 0 vira cookie de sessão.
func (c *Codec) SetAccessCookie(w http.ResponseWriter, token string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     AccessTokenCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: c.sameSite,
	})
}

// ClearAccessCookie expira o cookie do access token.
func (c *Codec) ClearAccessCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     AccessTokenCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: c.sameSite,
	})
}

// ReadSID extrai e verifica o sid do cookie do request.
func (c *Codec) ReadSID(r *http.Request) (string, bool) {
	ck, err := r.Cookie(c.cookieName)
	if err != nil || ck.Value == "" {
		return "", false
	}
	sid, err := c.Decode(ck.Value)
	if err != nil {
		return "", false
	}
	return sid, true
}

// TTL expõe a duração da sessão (o service de auth usa no Save).
func (c *Codec) TTL() time.Duration { return c.ttl }

func parseSameSite(s string) http.SameSite {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}
