// Package auth contém os DTOs e a validação dos endpoints de autenticação.
package auth

import (
	"regexp"
	"strings"

	domainerrors "github.com/dropDatabas3/littlejohn/internal/domain/errors"
	"github.com/dropDatabas3/littlejohn/internal/identity"
)

const passwordMinLen = 6

var emailRe = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// SignUpRequest é o body de POST /auth/signup.
type SignUpRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name,omitempty"`
}

// Validate confere email e senha (mínimo 6 caracteres, como o provider exige).
func (r *SignUpRequest) Validate() error {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	if r.Email == "" || !emailRe.MatchString(r.Email) {
		return domainerrors.Validation(`"email" deve ser um email válido`)
	}
	if len(r.Password) < passwordMinLen {
		return domainerrors.Validation(`"password" deve ter no mínimo 6 caracteres`)
	}
	r.Name = strings.TrimSpace(r.Name)
	return nil
}

// SignInRequest é o body de POST /auth/signin.
type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate confere presença e formato de email e presença de senha.
func (r *SignInRequest) Validate() error {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	if r.Email == "" || !emailRe.MatchString(r.Email) {
		return domainerrors.Validation(`"email" deve ser um email válido`)
	}
	if r.Password == "" {
		return domainerrors.Validation(`"password" é obrigatório`)
	}
	return nil
}

// SessionResponse é o corpo de sucesso de signup/signin/refresh.
type SessionResponse struct {
	Message string             `json:"message"`
	User    *identity.Identity `json:"user"`
	Session *identity.Session  `json:"session"`
}

// MeResponse é o corpo de GET /auth/me.
type MeResponse struct {
	User *identity.Identity `json:"user"`
}

// MessageResponse é o corpo de respostas só com mensagem (signout).
type MessageResponse struct {
	Message string `json:"message"`
}
