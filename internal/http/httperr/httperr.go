// Package httperr mapeia as categorias de erro do domínio para status HTTP e
// escreve o corpo de erro padrão {"error": mensagem}.
package httperr

import (
	"encoding/json"
	"net/http"

	domainerrors "github.com/dropDatabas3/littlejohn/internal/domain/errors"
)

// statusFor é o mapeamento fechado categoria → status. O controller nunca
// inspeciona texto de mensagem.
func statusFor(kind domainerrors.Kind) int {
	switch kind {
	case domainerrors.KindValidation, domainerrors.KindInvalidID:
		return http.StatusBadRequest
	case domainerrors.KindDuplicateEmail:
		return http.StatusConflict
	case domainerrors.KindNotFound:
		return http.StatusNotFound
	case domainerrors.KindConnection:
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

type errorBody struct {
	Error string `json:"error"`
}

// WriteError responde um erro de domínio com o status da categoria e corpo
// {"error": mensagem}. Erros não etiquetados viram 500 com mensagem genérica;
// causa e stack nunca vazam para o cliente.
func WriteError(w http.ResponseWriter, err error) {
	Write(w, statusFor(domainerrors.KindOf(err)), domainerrors.MessageOf(err))
}

// Write responde um erro com status e mensagem explícitos.
func Write(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorBody{Error: message})
}
