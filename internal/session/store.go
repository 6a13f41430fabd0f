// Package session guarda as sessões server-side (o terceiro ponto de
// resolução de token, depois do header e do cookie de acesso) e o codec do
// cookie de sessão assinado.
package session

import (
	"context"
	"errors"
	"time"
)

// Data é o que fica associado a um sid.
type Data struct {
	OwnerID      string `json:"owner_id"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
}

// ErrNotFound indica sid desconhecido ou sessão expirada.
var ErrNotFound = errors.New("session: não encontrada")

// Store persiste sessões por sid com TTL.
type Store interface {
	Save(ctx context.Context, sid string, data Data, ttl time.Duration) error
	Get(ctx context.Context, sid string) (*Data, error)
	Delete(ctx context.Context, sid string) error
}
