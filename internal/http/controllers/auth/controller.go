// Package auth contém o controller dos endpoints de autenticação.
package auth

import (
	"errors"
	"net/http"

	domainerrors "github.com/dropDatabas3/littlejohn/internal/domain/errors"
	dto "github.com/dropDatabas3/littlejohn/internal/http/dto/auth"
	"github.com/dropDatabas3/littlejohn/internal/http/helpers"
	"github.com/dropDatabas3/littlejohn/internal/http/httperr"
	"github.com/dropDatabas3/littlejohn/internal/http/middlewares"
	svc "github.com/dropDatabas3/littlejohn/internal/http/services/auth"
	"github.com/dropDatabas3/littlejohn/internal/identity"
	"github.com/dropDatabas3/littlejohn/internal/observability/logger"
	"github.com/dropDatabas3/littlejohn/internal/session"
)

type Controller struct {
	service svc.Service
	codec   *session.Codec
}

// NewController cria o controller de auth. O codec grava/limpa o cookie de
// sessão assinado nas respostas.
func NewController(service svc.Service, codec *session.Codec) *Controller {
	return &Controller{service: service, codec: codec}
}

// SignUp trata POST /auth/signup.
func (c *Controller) SignUp(w http.ResponseWriter, r *http.Request) {
	var req dto.SignUpRequest
	if err := helpers.ReadJSON(w, r, &req); err != nil {
		httperr.Write(w, http.StatusBadRequest, "Dados inválidos")
		return
	}
	if err := req.Validate(); err != nil {
		httperr.WriteError(w, err)
		return
	}

	id, sess, sid, err := c.service.SignUp(r.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		c.failSignUp(w, r, err)
		return
	}
	if sid != "" {
		c.setSession(w, r, sid, sess)
	}
	helpers.WriteJSON(w, http.StatusCreated, dto.SessionResponse{
		Message: "Usuário criado com sucesso",
		User:    id,
		Session: sess,
	})
}

// SignIn trata POST /auth/signin.
func (c *Controller) SignIn(w http.ResponseWriter, r *http.Request) {
	var req dto.SignInRequest
	if err := helpers.ReadJSON(w, r, &req); err != nil {
		httperr.Write(w, http.StatusBadRequest, "Dados inválidos")
		return
	}
	if err := req.Validate(); err != nil {
		httperr.WriteError(w, err)
		return
	}

	id, sess, sid, err := c.service.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		c.failSignIn(w, r, err)
		return
	}
	c.setSession(w, r, sid, sess)
	helpers.WriteJSON(w, http.StatusOK, dto.SessionResponse{
		Message: "Login realizado com sucesso",
		User:    id,
		Session: sess,
	})
}

// SignOut trata POST /auth/signout. Revoga no provider quando há token e
// sempre limpa a sessão local.
func (c *Controller) SignOut(w http.ResponseWriter, r *http.Request) {
	sid, _ := c.codec.ReadSID(r)
	token := middlewares.GetAccessToken(r.Context())

	if err := c.service.SignOut(r.Context(), token, sid); err != nil {
		logger.From(r.Context()).Warn("falha no signout", logger.Err(err))
		httperr.Write(w, http.StatusInternalServerError, "Erro ao fazer logout")
		return
	}
	c.codec.ClearCookie(w)
	c.codec.ClearAccessCookie(w)
	helpers.WriteJSON(w, http.StatusOK, dto.MessageResponse{Message: "Logout realizado com sucesso"})
}

// Me trata GET /auth/me (atrás de RequireIdentity).
func (c *Controller) Me(w http.ResponseWriter, r *http.Request) {
	id := middlewares.GetIdentity(r.Context())
	if id == nil {
		httperr.Write(w, http.StatusUnauthorized, "Usuário não autenticado")
		return
	}
	helpers.WriteJSON(w, http.StatusOK, dto.MeResponse{User: id})
}

// Refresh trata POST /auth/refresh. O refresh token vem do body ou, na
// ausência, da sessão server-side do cookie assinado.
func (c *Controller) Refresh(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	// Body é opcional.
	_ = helpers.ReadJSON(w, r, &req)

	refreshToken := req.RefreshToken
	if refreshToken == "" {
		if sid, ok := c.codec.ReadSID(r); ok {
			if data, err := c.service.SessionData(r.Context(), sid); err == nil {
				refreshToken = data.RefreshToken
			}
		}
	}
	if refreshToken == "" {
		httperr.Write(w, http.StatusUnauthorized, "Sessão não encontrada")
		return
	}

	id, sess, sid, err := c.service.Refresh(r.Context(), refreshToken)
	if err != nil {
		c.failRefresh(w, r, err)
		return
	}
	c.setSession(w, r, sid, sess)
	helpers.WriteJSON(w, http.StatusOK, dto.SessionResponse{
		Message: "Sessão renovada com sucesso",
		User:    id,
		Session: sess,
	})
}

// setSession grava os dois cookies: o de sessão assinado e o access_token
// direto do provider (o mesmo par que o middleware resolve).
func (c *Controller) setSession(w http.ResponseWriter, r *http.Request, sid string, sess *identity.Session) {
	if err := c.codec.SetCookie(w, sid); err != nil {
		logger.From(r.Context()).Warn("falha assinando cookie de sessão", logger.Err(err))
	}
	if sess != nil && sess.AccessToken != "" {
		c.codec.SetAccessCookie(w, sess.AccessToken, sess.ExpiresIn)
	}
}

func (c *Controller) failSignUp(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, identity.ErrEmailTaken):
		httperr.Write(w, http.StatusBadRequest, "Erro ao criar usuário: email já registrado")
	case errors.Is(err, identity.ErrUnavailable):
		httperr.Write(w, http.StatusServiceUnavailable, domainerrors.MsgUnavailable)
	default:
		logger.From(r.Context()).Warn("signup rejeitado", logger.Err(err))
		httperr.Write(w, http.StatusBadRequest, "Erro ao criar usuário")
	}
}

func (c *Controller) failSignIn(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, identity.ErrUnavailable):
		httperr.Write(w, http.StatusServiceUnavailable, domainerrors.MsgUnavailable)
	default:
		httperr.Write(w, http.StatusUnauthorized, "Erro ao fazer login: credenciais inválidas")
	}
}

func (c *Controller) failRefresh(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, identity.ErrUnavailable):
		httperr.Write(w, http.StatusServiceUnavailable, domainerrors.MsgUnavailable)
	default:
		httperr.Write(w, http.StatusUnauthorized, "Erro ao renovar sessão")
	}
}
