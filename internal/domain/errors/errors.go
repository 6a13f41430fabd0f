// Package errors define o conjunto fechado de categorias de erro do domínio.
// Cada falha nasce já etiquetada com um Kind; nenhuma camada superior precisa
// inspecionar texto de mensagem para classificar.
package errors

import (
	"errors"
	"fmt"
)

// Kind identifica a categoria de um erro de domínio.
type Kind string

const (
	// KindValidation indica payload malformado (campo faltando, tipo errado,
	// tamanho fora do limite, email inválido).
	KindValidation Kind = "validation"

	// KindInvalidID indica um identificador que não parseia para inteiro positivo.
	KindInvalidID Kind = "invalid_id"

	// KindNotFound indica que nenhum registro do dono corresponde ao id.
	KindNotFound Kind = "not_found"

	// KindDuplicateEmail indica violação da unicidade global de email.
	KindDuplicateEmail Kind = "duplicate_email"

	// KindConnection indica banco/provider inacessível ou timeout.
	KindConnection Kind = "connection"

	// KindPersistence indica que o store reportou sucesso mas não devolveu linha.
	KindPersistence Kind = "persistence"

	// KindInternal é a categoria residual para falhas não classificadas.
	KindInternal Kind = "internal"
)

// Error é o erro etiquetado do domínio. Message é o texto visível ao usuário
// (em português, como o resto do produto); Err guarda a causa para logs.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Is permite comparar por categoria: errors.Is(err, &Error{Kind: KindNotFound}).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// New cria um erro etiquetado.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap cria um erro etiquetado preservando a causa.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf extrai a categoria de um erro qualquer.
// Erros que não são *Error caem em KindInternal.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindInternal
}

// MessageOf extrai a mensagem visível ao usuário. Para erros não etiquetados
// devolve a mensagem genérica de erro interno, nunca o texto cru da causa.
func MessageOf(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Message
	}
	return MsgInternal
}

// Mensagens visíveis ao usuário. Centralizadas aqui para manter o contrato
// com os clientes estável.
const (
	MsgUserNotFound   = "Usuário não encontrado"
	MsgInvalidID      = "ID inválido"
	MsgEmailInUse     = "Email já está em uso por outro usuário"
	MsgEmailExists    = "Usuário com este email já existe"
	MsgUnavailable    = "Serviço temporariamente indisponível"
	MsgInternal       = "Erro interno do servidor"
	MsgIDRequired     = "ID é obrigatório"
	MsgBodyRequired   = "Dados do usuário são obrigatórios"
	MsgUpdateRequired = "Dados para atualização são obrigatórios"
)

// Atalhos por categoria, usados nos pontos de falha.

func Validation(detail string) *Error {
	return New(KindValidation, "Erro de validação: "+detail)
}

func InvalidID() *Error { return New(KindInvalidID, MsgInvalidID) }

func NotFound() *Error { return New(KindNotFound, MsgUserNotFound) }

func DuplicateEmail(onCreate bool) *Error {
	if onCreate {
		return New(KindDuplicateEmail, MsgEmailExists)
	}
	return New(KindDuplicateEmail, MsgEmailInUse)
}

func Connection(err error) *Error {
	return Wrap(KindConnection, MsgUnavailable, err)
}

// Persistence marca a inconsistência de um write aceito pelo store que não
// devolveu a linha afetada.
func Persistence(op string) *Error {
	return Wrap(KindPersistence, MsgInternal, fmt.Errorf("%s: nenhuma linha retornada pelo store", op))
}

func Internal(err error) *Error {
	return Wrap(KindInternal, MsgInternal, err)
}

// IsNotFound responde se o erro é da categoria not-found.
func IsNotFound(err error) bool {
	return KindOf(err) == KindNotFound
}

// IsDuplicateEmail responde se o erro é da categoria de email duplicado.
func IsDuplicateEmail(err error) bool {
	return KindOf(err) == KindDuplicateEmail
}
