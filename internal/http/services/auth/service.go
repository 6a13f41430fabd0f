// Package auth implementa o service de autenticação. Emissão e verificação de
// token são do identity provider externo; aqui só orquestramos as chamadas e
// mantemos a sessão server-side.
package auth

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/dropDatabas3/littlejohn/internal/identity"
	"github.com/dropDatabas3/littlejohn/internal/observability/logger"
	"github.com/dropDatabas3/littlejohn/internal/session"
)

// Provider é o recorte do client de identidade que este service usa.
// *identity.Client satisfaz; os testes injetam um fake.
type Provider interface {
	SignUp(ctx context.Context, email, password, name string) (*identity.Identity, *identity.Session, error)
	SignIn(ctx context.Context, email, password string) (*identity.Identity, *identity.Session, error)
	Refresh(ctx context.Context, refreshToken string) (*identity.Identity, *identity.Session, error)
	GetUser(ctx context.Context, accessToken string) (*identity.Identity, error)
	SignOut(ctx context.Context, accessToken string) error
}

// Service define as operações de autenticação. Métodos que criam sessão
// devolvem o sid para o controller gravar no cookie assinado.
type Service interface {
	SignUp(ctx context.Context, email, password, name string) (*identity.Identity, *identity.Session, string, error)
	SignIn(ctx context.Context, email, password string) (*identity.Identity, *identity.Session, string, error)
	Refresh(ctx context.Context, refreshToken string) (*identity.Identity, *identity.Session, string, error)
	SignOut(ctx context.Context, accessToken, sid string) error
	SessionData(ctx context.Context, sid string) (*session.Data, error)
}

type service struct {
	provider Provider
	sessions session.Store
	ttl      time.Duration
}

// Deps do service de auth.
type Deps struct {
	Provider   Provider
	Sessions   session.Store
	SessionTTL time.Duration
}

// NewService cria o service com dependências explícitas.
func NewService(d Deps) Service {
	return &service{provider: d.Provider, sessions: d.Sessions, ttl: d.SessionTTL}
}

func (s *service) SignUp(ctx context.Context, email, password, name string) (*identity.Identity, *identity.Session, string, error) {
	id, sess, err := s.provider.SignUp(ctx, email, password, name)
	if err != nil {
		return nil, nil, "", err
	}

	// Provider pode não devolver sessão no signup (confirmação de email
	// pendente); nesse caso não há cookie para gravar.
	sid := ""
	if sess != nil {
		sid, err = s.saveSession(ctx, id, sess)
		if err != nil {
			return nil, nil, "", err
		}
	}

	logger.From(ctx).Info("signup concluído",
		logger.Layer("service"), logger.Op("auth.SignUp"), logger.OwnerID(id.ID))
	return id, sess, sid, nil
}

func (s *service) SignIn(ctx context.Context, email, password string) (*identity.Identity, *identity.Session, string, error) {
	id, sess, err := s.provider.SignIn(ctx, email, password)
	if err != nil {
		return nil, nil, "", err
	}
	sid, err := s.saveSession(ctx, id, sess)
	if err != nil {
		return nil, nil, "", err
	}

	logger.From(ctx).Info("signin concluído",
		logger.Layer("service"), logger.Op("auth.SignIn"), logger.OwnerID(id.ID))
	return id, sess, sid, nil
}

func (s *service) Refresh(ctx context.Context, refreshToken string) (*identity.Identity, *identity.Session, string, error) {
	id, sess, err := s.provider.Refresh(ctx, refreshToken)
	if err != nil {
		return nil, nil, "", err
	}
	// Sessão nova a cada refresh; a antiga expira pelo TTL.
	sid, err := s.saveSession(ctx, id, sess)
	if err != nil {
		return nil, nil, "", err
	}
	return id, sess, sid, nil
}

func (s *service) SignOut(ctx context.Context, accessToken, sid string) error {
	if sid != "" {
		if err := s.sessions.Delete(ctx, sid); err != nil {
			logger.From(ctx).Warn("falha apagando sessão no signout", logger.Err(err))
		}
	}
	if accessToken == "" {
		return nil
	}
	return s.provider.SignOut(ctx, accessToken)
}

// SessionData resolve um sid no conteúdo da sessão (o middleware usa para o
// terceiro ponto de resolução de token).
func (s *service) SessionData(ctx context.Context, sid string) (*session.Data, error) {
	return s.sessions.Get(ctx, sid)
}

func (s *service) saveSession(ctx context.Context, id *identity.Identity, sess *identity.Session) (string, error) {
	sid := uuid.NewString()
	err := s.sessions.Save(ctx, sid, session.Data{
		OwnerID:      id.ID,
		AccessToken:  sess.AccessToken,
		RefreshToken: sess.RefreshToken,
	}, s.ttl)
	if err != nil {
		return "", err
	}
	return sid, nil
}
