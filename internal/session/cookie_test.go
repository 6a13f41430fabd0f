package session_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/littlejohn/internal/session"
)

func newCodec(ttl time.Duration) *session.Codec {
	return session.NewCodec(session.CodecConfig{
		Secret:     "segredo-de-teste",
		CookieName: "lj_session",
		TTL:        ttl,
	})
}

func TestCodecRoundTrip(t *testing.T) {
	c := newCodec(time.Hour)
	sid := c.NewSID()

	token, err := c.Encode(sid)
	require.NoError(t, err)

	got, err := c.Decode(token)
	require.NoError(t, err)
	require.Equal(t, sid, got)
}

func TestCodecRejectsTamperedToken(t *testing.T) {
	c := newCodec(time.Hour)
	token, err := c.Encode(c.NewSID())
	require.NoError(t, err)

	// Troca o último caractere da assinatura.
	tampered := token[:len(token)-1]
	if strings.HasSuffix(token, "A") {
		tampered += "B"
	} else {
		tampered += "A"
	}
	_, err = c.Decode(tampered)
	require.Error(t, err)
}

func TestCodecRejectsOtherSecret(t *testing.T) {
	c := newCodec(time.Hour)
	other := session.NewCodec(session.CodecConfig{Secret: "outro-segredo", CookieName: "lj_session", TTL: time.Hour})

	token, err := other.Encode("sid-alheio")
	require.NoError(t, err)

	_, err = c.Decode(token)
	require.Error(t, err)
}

func TestCodecRejectsExpired(t *testing.T) {
	c := newCodec(-time.Minute)
	token, err := c.Encode("sid-velho")
	require.NoError(t, err)

	_, err = c.Decode(token)
	require.Error(t, err)
}

func TestSetAndReadCookie(t *testing.T) {
	c := newCodec(time.Hour)
	sid := c.NewSID()

	rec := httptest.NewRecorder()
	require.NoError(t, c.SetCookie(rec, sid))

	res := rec.Result()
	cookies := res.Cookies()
	require.Len(t, cookies, 1)
	require.Equal(t, "lj_session", cookies[0].Name)
	require.True(t, cookies[0].HttpOnly)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookies[0])
	got, ok := c.ReadSID(req)
	require.True(t, ok)
	require.Equal(t, sid, got)
}

func TestClearCookieExpires(t *testing.T) {
	c := newCodec(time.Hour)
	rec := httptest.NewRecorder()
	c.ClearCookie(rec)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	require.Equal(t, -1, cookies[0].MaxAge)
	require.Empty(t, cookies[0].Value)
}

func TestMemoryStoreTTL(t *testing.T) {
	ctx := context.Background()
	s := session.NewMemory(time.Minute)
	data := session.Data{OwnerID: "owner-1", AccessToken: "tok"}

	require.NoError(t, s.Save(ctx, "sid-1", data, 20*time.Millisecond))

	got, err := s.Get(ctx, "sid-1")
	require.NoError(t, err)
	require.Equal(t, "owner-1", got.OwnerID)

	time.Sleep(40 * time.Millisecond)
	_, err = s.Get(ctx, "sid-1")
	require.ErrorIs(t, err, session.ErrNotFound)
}
