// Package users contém os DTOs e a validação de payload do recurso users.
package users

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	domainerrors "github.com/dropDatabas3/littlejohn/internal/domain/errors"
	"github.com/dropDatabas3/littlejohn/internal/domain/repository"
)

const (
	nameMinLen = 2
	nameMaxLen = 100
)

var emailRe = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// Payload é o body de create/update. Ponteiros distinguem campo ausente de
// campo vazio, que é o que a validação por modo precisa.
type Payload struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
}

// CreateInput é o payload validado e normalizado do modo create.
type CreateInput struct {
	Name  string
	Email string
}

// UpdateInput é o payload validado do modo update (≥1 campo presente).
type UpdateInput struct {
	Name  *string
	Email *string
}

// ValidateCreate exige name e email válidos e devolve os valores normalizados
// (nome sem espaços nas pontas, email minúsculo).
func (p Payload) ValidateCreate() (*CreateInput, error) {
	if p.Name == nil {
		return nil, domainerrors.Validation(`"name" é obrigatório`)
	}
	name, err := validName(*p.Name)
	if err != nil {
		return nil, err
	}
	if p.Email == nil {
		return nil, domainerrors.Validation(`"email" é obrigatório`)
	}
	email, err := validEmail(*p.Email)
	if err != nil {
		return nil, err
	}
	return &CreateInput{Name: name, Email: email}, nil
}

// ValidateUpdate exige pelo menos um campo presente; cada campo presente é
// validado e normalizado como no create.
func (p Payload) ValidateUpdate() (*UpdateInput, error) {
	if p.Name == nil && p.Email == nil {
		return nil, domainerrors.Validation("pelo menos um campo deve ser informado")
	}
	out := &UpdateInput{}
	if p.Name != nil {
		name, err := validName(*p.Name)
		if err != nil {
			return nil, err
		}
		out.Name = &name
	}
	if p.Email != nil {
		email, err := validEmail(*p.Email)
		if err != nil {
			return nil, err
		}
		out.Email = &email
	}
	return out, nil
}

func validName(raw string) (string, error) {
	name := strings.TrimSpace(raw)
	if n := len([]rune(name)); n < nameMinLen || n > nameMaxLen {
		return "", domainerrors.Validation(`"name" deve ter entre 2 e 100 caracteres`)
	}
	return name, nil
}

func validEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" || !emailRe.MatchString(email) {
		return "", domainerrors.Validation(`"email" deve ser um email válido`)
	}
	return email, nil
}

// ParseID valida o identificador de rota: inteiro positivo.
// Falha ANTES de qualquer ida ao store.
func ParseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, domainerrors.InvalidID()
	}
	return id, nil
}

// Response é o shape de usuário devolvido pela API.
type Response struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// FromUser converte o registro do repositório para o DTO de resposta.
func FromUser(u *repository.User) Response {
	return Response{ID: u.ID, Name: u.Name, Email: u.Email, CreatedAt: u.CreatedAt}
}

// FromUsers converte uma lista; devolve slice vazio, nunca nil.
func FromUsers(us []repository.User) []Response {
	out := make([]Response, 0, len(us))
	for i := range us {
		out = append(out, FromUser(&us[i]))
	}
	return out
}

// DeletedResponse é o corpo de sucesso do delete.
type DeletedResponse struct {
	Message string   `json:"message"`
	User    Response `json:"user"`
}
