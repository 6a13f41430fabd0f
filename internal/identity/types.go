// Package identity é o client HTTP do identity provider externo (API
// compatível com GoTrue/Supabase Auth). Este serviço nunca guarda senhas nem
// emite tokens: tudo é delegado ao provider.
package identity

import (
	"encoding/json"
	"errors"
)

// Identity é o registro de identidade resolvido pelo provider.
// O ID é opaco (o provider costuma usar UUID) e vira o owner_id dos registros.
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

// Session é o par de tokens emitido pelo provider.
type Session struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	RefreshToken string `json:"refresh_token"`
}

var (
	// ErrInvalidCredentials indica email/senha rejeitados pelo provider.
	ErrInvalidCredentials = errors.New("identity: credenciais inválidas")

	// ErrInvalidToken indica token inválido ou expirado.
	ErrInvalidToken = errors.New("identity: token inválido ou expirado")

	// ErrEmailTaken indica signup com email já registrado no provider.
	ErrEmailTaken = errors.New("identity: email já registrado")

	// ErrUnavailable indica provider inacessível ou timeout.
	ErrUnavailable = errors.New("identity: provider indisponível")
)

// rawUser é o shape de usuário do provider (user_metadata carrega o nome).
type rawUser struct {
	ID           string          `json:"id"`
	Email        string          `json:"email"`
	UserMetadata json.RawMessage `json:"user_metadata,omitempty"`
}

func (u rawUser) identity() *Identity {
	id := &Identity{ID: u.ID, Email: u.Email}
	if len(u.UserMetadata) > 0 {
		var meta struct {
			Name string `json:"name"`
		}
		if err := json.Unmarshal(u.UserMetadata, &meta); err == nil {
			id.Name = meta.Name
		}
	}
	return id
}

// rawError cobre os dois formatos de erro que o provider emite.
type rawError struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
	Msg              string `json:"msg"`
}

func (e rawError) message() string {
	switch {
	case e.ErrorDescription != "":
		return e.ErrorDescription
	case e.Msg != "":
		return e.Msg
	}
	return e.Error
}
