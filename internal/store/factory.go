// Package store seleciona e constrói o driver de persistência configurado.
package store

import (
	"context"
	"fmt"

	"github.com/dropDatabas3/littlejohn/internal/config"
	"github.com/dropDatabas3/littlejohn/internal/domain/repository"
	"github.com/dropDatabas3/littlejohn/internal/store/pg"
	"github.com/dropDatabas3/littlejohn/internal/store/sqlite"
)

// New constrói o UserRepository do driver configurado e devolve também o
// closer para o shutdown. O chamador é dono do ciclo de vida.
func New(ctx context.Context, cfg *config.Config) (repository.UserRepository, func() error, error) {
	switch cfg.Storage.Driver {
	case "postgres":
		s, err := pg.New(ctx, cfg.Storage.DSN, pg.Options{
			MaxOpenConns:    cfg.Storage.Postgres.MaxOpenConns,
			MinIdleConns:    cfg.Storage.Postgres.MinIdleConns,
			ConnMaxLifetime: cfg.Storage.Postgres.ConnMaxLifetime,
		})
		if err != nil {
			return nil, nil, err
		}
		return s, func() error { s.Close(); return nil }, nil

	case "sqlite":
		s, err := sqlite.New(ctx, cfg.Storage.DSN)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	}
	return nil, nil, fmt.Errorf("store: driver desconhecido %q", cfg.Storage.Driver)
}

// Migrate aplica as migrações do driver configurado sem manter a conexão.
func Migrate(ctx context.Context, cfg *config.Config) error {
	switch cfg.Storage.Driver {
	case "postgres":
		s, err := pg.New(ctx, cfg.Storage.DSN, pg.Options{})
		if err != nil {
			return err
		}
		defer s.Close()
		return s.Migrate(ctx)

	case "sqlite":
		s, err := sqlite.New(ctx, cfg.Storage.DSN)
		if err != nil {
			return err
		}
		// New já aplica as migrações na abertura.
		return s.Close()
	}
	return fmt.Errorf("store: driver desconhecido %q", cfg.Storage.Driver)
}
