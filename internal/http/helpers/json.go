// Package helpers reúne utilidades HTTP compartilhadas por controllers.
package helpers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
)

// Tamanho máximo de body aceito nos endpoints JSON.
const maxJSONBody = 64 << 10 // 64KB

// ErrEmptyBody indica request sem body (o controller decide a mensagem).
var ErrEmptyBody = errors.New("helpers: body vazio")

// WriteJSON escreve uma resposta JSON com o status dado.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// ReadJSON decodifica o body JSON em dst. Valida Content-Type, limita o
// tamanho e trata body vazio como ErrEmptyBody. Campos desconhecidos são
// tolerados (clientes antigos mandam campos extras).
func ReadJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	if ct := strings.ToLower(r.Header.Get("Content-Type")); ct != "" && !strings.Contains(ct, "application/json") {
		return errors.New("helpers: Content-Type deve ser application/json")
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	defer r.Body.Close()

	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return ErrEmptyBody
		}
		return err
	}
	return nil
}

// WantsJSON responde se o cliente é "API-style" (espera JSON) ou navegação de
// browser (espera redirect). Mesma heurística do front: XHR ou Accept com json.
func WantsJSON(r *http.Request) bool {
	if strings.EqualFold(r.Header.Get("X-Requested-With"), "XMLHttpRequest") {
		return true
	}
	accept := r.Header.Get("Accept")
	if strings.Contains(accept, "application/json") {
		return true
	}
	// Sem Accept de html, tratamos como cliente de API.
	return !strings.Contains(accept, "text/html")
}
