// Package users implementa o service de CRUD de usuários escopado por dono.
// Toda entrada chega crua (não validada) e sai daqui ou validada e persistida
// ou como erro de domínio etiquetado.
package users

import (
	"context"
	"errors"
	"fmt"

	domainerrors "github.com/dropDatabas3/littlejohn/internal/domain/errors"
	"github.com/dropDatabas3/littlejohn/internal/domain/repository"
	dto "github.com/dropDatabas3/littlejohn/internal/http/dto/users"
	"github.com/dropDatabas3/littlejohn/internal/observability/logger"
)

// Service define as operações de usuários. ownerID é sempre o id da
// identidade autenticada; nenhuma operação enxerga registros de outro dono.
type Service interface {
	GetAll(ctx context.Context, ownerID string) ([]repository.User, error)
	GetByID(ctx context.Context, rawID, ownerID string) (*repository.User, error)
	Create(ctx context.Context, payload dto.Payload, ownerID string) (*repository.User, error)
	Update(ctx context.Context, rawID string, payload dto.Payload, ownerID string) (*repository.User, error)
	Delete(ctx context.Context, rawID, ownerID string) (*repository.User, error)
}

type service struct {
	repo repository.UserRepository
}

// NewService cria o service com o repositório injetado.
func NewService(repo repository.UserRepository) Service {
	if repo == nil {
		panic("users: repositório é obrigatório")
	}
	return &service{repo: repo}
}

func (s *service) GetAll(ctx context.Context, ownerID string) ([]repository.User, error) {
	users, err := s.repo.FindAllByOwner(ctx, ownerID)
	if err != nil {
		return nil, s.translate(err)
	}
	if users == nil {
		users = []repository.User{}
	}
	return users, nil
}

func (s *service) GetByID(ctx context.Context, rawID, ownerID string) (*repository.User, error) {
	id, err := dto.ParseID(rawID)
	if err != nil {
		return nil, err
	}
	u, err := s.repo.FindByID(ctx, id, ownerID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, domainerrors.NotFound()
		}
		return nil, s.translate(err)
	}
	return u, nil
}

func (s *service) Create(ctx context.Context, payload dto.Payload, ownerID string) (*repository.User, error) {
	input, err := payload.ValidateCreate()
	if err != nil {
		return nil, err
	}

	// Caminho rápido e amigável; a garantia autoritativa é o índice único do
	// store, que cobre a corrida entre o check e o insert.
	if err := s.checkEmailFree(ctx, input.Email, 0); err != nil {
		return nil, err
	}

	u, err := s.repo.Create(ctx, repository.CreateUserInput{
		OwnerID: ownerID,
		Name:    input.Name,
		Email:   input.Email,
	})
	if err != nil {
		if repository.IsConflict(err) {
			// Perdedor da corrida de create concorrente.
			return nil, domainerrors.DuplicateEmail(true)
		}
		if repository.IsNotFound(err) {
			return nil, domainerrors.Persistence("create")
		}
		return nil, s.translate(err)
	}

	logger.From(ctx).Info("usuário criado",
		logger.Layer("service"), logger.Op("users.Create"),
		logger.UserID(u.ID), logger.OwnerID(ownerID))
	return u, nil
}

func (s *service) Update(ctx context.Context, rawID string, payload dto.Payload, ownerID string) (*repository.User, error) {
	id, err := dto.ParseID(rawID)
	if err != nil {
		return nil, err
	}
	input, err := payload.ValidateUpdate()
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.FindByID(ctx, id, ownerID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, domainerrors.NotFound()
		}
		return nil, s.translate(err)
	}

	// Só checa duplicidade se o email está mudando de fato; atualizar para o
	// próprio email atual é permitido.
	if input.Email != nil && *input.Email != existing.Email {
		if err := s.checkEmailFree(ctx, *input.Email, id); err != nil {
			return nil, err
		}
	}

	u, err := s.repo.Update(ctx, id, ownerID, repository.UpdateUserInput{
		Name:  input.Name,
		Email: input.Email,
	})
	if err != nil {
		if repository.IsConflict(err) {
			return nil, domainerrors.DuplicateEmail(false)
		}
		if repository.IsNotFound(err) {
			// Existia no check e sumiu no write: inconsistência do store.
			return nil, domainerrors.Persistence("update")
		}
		return nil, s.translate(err)
	}

	logger.From(ctx).Info("usuário atualizado",
		logger.Layer("service"), logger.Op("users.Update"),
		logger.UserID(u.ID), logger.OwnerID(ownerID))
	return u, nil
}

func (s *service) Delete(ctx context.Context, rawID, ownerID string) (*repository.User, error) {
	id, err := dto.ParseID(rawID)
	if err != nil {
		return nil, err
	}

	if _, err := s.repo.FindByID(ctx, id, ownerID); err != nil {
		if repository.IsNotFound(err) {
			return nil, domainerrors.NotFound()
		}
		return nil, s.translate(err)
	}

	u, err := s.repo.Delete(ctx, id, ownerID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, domainerrors.Persistence("delete")
		}
		return nil, s.translate(err)
	}

	logger.From(ctx).Info("usuário deletado",
		logger.Layer("service"), logger.Op("users.Delete"),
		logger.UserID(u.ID), logger.OwnerID(ownerID))
	return u, nil
}

// checkEmailFree falha com a categoria de duplicado se o email pertence a
// outro registro. A unicidade é global (não filtra por dono); excludeID ignora
// o próprio registro no update.
func (s *service) checkEmailFree(ctx context.Context, email string, excludeID int64) error {
	other, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil
		}
		return s.translate(err)
	}
	if other.ID == excludeID {
		return nil
	}
	return domainerrors.DuplicateEmail(excludeID == 0)
}

// translate re-classifica falhas do store em categorias de domínio. O
// controller nunca vê erros crus do driver.
func (s *service) translate(err error) error {
	switch {
	case repository.IsUnavailable(err):
		return domainerrors.Connection(err)
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return domainerrors.Connection(err)
	}
	return domainerrors.Internal(fmt.Errorf("users: %w", err))
}
