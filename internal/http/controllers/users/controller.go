// Package users contém o controller HTTP do recurso users: adapta request em
// chamada de service e categoria de erro em status. Nenhuma regra de negócio
// vive aqui.
package users

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	domainerrors "github.com/dropDatabas3/littlejohn/internal/domain/errors"
	dto "github.com/dropDatabas3/littlejohn/internal/http/dto/users"
	"github.com/dropDatabas3/littlejohn/internal/http/helpers"
	"github.com/dropDatabas3/littlejohn/internal/http/httperr"
	"github.com/dropDatabas3/littlejohn/internal/http/middlewares"
	svc "github.com/dropDatabas3/littlejohn/internal/http/services/users"
	"github.com/dropDatabas3/littlejohn/internal/observability/logger"
)

type Controller struct {
	service svc.Service
}

// NewController cria o controller com o service injetado.
func NewController(service svc.Service) *Controller {
	return &Controller{service: service}
}

// GetAll trata GET /users.
func (c *Controller) GetAll(w http.ResponseWriter, r *http.Request) {
	users, err := c.service.GetAll(r.Context(), ownerID(r))
	if err != nil {
		c.fail(w, r, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, dto.FromUsers(users))
}

// GetByID trata GET /users/{id}.
func (c *Controller) GetByID(w http.ResponseWriter, r *http.Request) {
	rawID := chi.URLParam(r, "id")
	if rawID == "" {
		httperr.Write(w, http.StatusBadRequest, domainerrors.MsgIDRequired)
		return
	}
	u, err := c.service.GetByID(r.Context(), rawID, ownerID(r))
	if err != nil {
		c.fail(w, r, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, dto.FromUser(u))
}

// Create trata POST /users.
func (c *Controller) Create(w http.ResponseWriter, r *http.Request) {
	var payload dto.Payload
	if err := helpers.ReadJSON(w, r, &payload); err != nil {
		httperr.Write(w, http.StatusBadRequest, domainerrors.MsgBodyRequired)
		return
	}
	if payload.Name == nil && payload.Email == nil {
		// Body presente mas vazio: mesma resposta de body ausente.
		httperr.Write(w, http.StatusBadRequest, domainerrors.MsgBodyRequired)
		return
	}

	u, err := c.service.Create(r.Context(), payload, ownerID(r))
	if err != nil {
		c.fail(w, r, err)
		return
	}
	helpers.WriteJSON(w, http.StatusCreated, dto.FromUser(u))
}

// Update trata PUT /users/{id}.
func (c *Controller) Update(w http.ResponseWriter, r *http.Request) {
	rawID := chi.URLParam(r, "id")
	if rawID == "" {
		httperr.Write(w, http.StatusBadRequest, domainerrors.MsgIDRequired)
		return
	}

	var payload dto.Payload
	if err := helpers.ReadJSON(w, r, &payload); err != nil {
		httperr.Write(w, http.StatusBadRequest, domainerrors.MsgUpdateRequired)
		return
	}
	if payload.Name == nil && payload.Email == nil {
		httperr.Write(w, http.StatusBadRequest, domainerrors.MsgUpdateRequired)
		return
	}

	u, err := c.service.Update(r.Context(), rawID, payload, ownerID(r))
	if err != nil {
		c.fail(w, r, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, dto.FromUser(u))
}

// Delete trata DELETE /users/{id}. Sucesso devolve o registro deletado.
func (c *Controller) Delete(w http.ResponseWriter, r *http.Request) {
	rawID := chi.URLParam(r, "id")
	if rawID == "" {
		httperr.Write(w, http.StatusBadRequest, domainerrors.MsgIDRequired)
		return
	}
	u, err := c.service.Delete(r.Context(), rawID, ownerID(r))
	if err != nil {
		c.fail(w, r, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, dto.DeletedResponse{
		Message: "Usuário deletado com sucesso",
		User:    dto.FromUser(u),
	})
}

// fail escreve o erro classificado; categorias inesperadas são logadas com a
// causa antes de virarem resposta genérica.
func (c *Controller) fail(w http.ResponseWriter, r *http.Request, err error) {
	kind := domainerrors.KindOf(err)
	if kind == domainerrors.KindInternal || kind == domainerrors.KindPersistence {
		var de *domainerrors.Error
		cause := err
		if errors.As(err, &de) && de.Err != nil {
			cause = de.Err
		}
		logger.From(r.Context()).Error("erro não classificado no controller",
			logger.Layer("controller"), logger.Err(cause))
	}
	httperr.WriteError(w, err)
}

func ownerID(r *http.Request) string {
	if id := middlewares.GetIdentity(r.Context()); id != nil {
		return id.ID
	}
	return ""
}
