// Package pg implementa o UserRepository sobre postgres via pgxpool.
package pg

import (
	"context"
	"errors"
	"net"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dropDatabas3/littlejohn/internal/domain/repository"
	"github.com/dropDatabas3/littlejohn/migrations"
)

type Store struct{ pool *pgxpool.Pool }

// Options ajusta o pool de conexões.
type Options struct {
	MaxOpenConns    int
	MinIdleConns    int
	ConnMaxLifetime string
}

// New abre o pool e valida a conexão com um ping.
func New(ctx context.Context, dsn string, opts Options) (*Store, error) {
	pcfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}
	if opts.MaxOpenConns > 0 {
		pcfg.MaxConns = int32(opts.MaxOpenConns)
	}
	if opts.MinIdleConns > 0 {
		pcfg.MinConns = int32(opts.MinIdleConns)
	}
	if opts.ConnMaxLifetime != "" {
		if d, err := time.ParseDuration(opts.ConnMaxLifetime); err == nil {
			pcfg.MaxConnLifetime = d
		}
	}

	pool, err := pgxpool.NewWithConfig(ctx, pcfg)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, classify(err)
	}
	return &Store{pool: pool}, nil
}

// Pool expõe o pool interno (metrics/migrações).
func (s *Store) Pool() *pgxpool.Pool { return s.pool }

// Close fecha o pool (idempotente).
func (s *Store) Close() {
	if s != nil && s.pool != nil {
		s.pool.Close()
	}
}

// Migrate aplica as migrações embutidas de postgres.
func (s *Store) Migrate(ctx context.Context) error {
	ms, err := migrations.Load(migrations.PostgresFS, migrations.PostgresDir)
	if err != nil {
		return err
	}
	for _, m := range ms {
		if _, err := s.pool.Exec(ctx, m.SQL); err != nil {
			return classify(err)
		}
	}
	return nil
}

const userCols = `id, owner_id, name, email, created_at`

func (s *Store) FindAllByOwner(ctx context.Context, ownerID string) ([]repository.User, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+userCols+` FROM users WHERE owner_id = $1 ORDER BY id ASC`, ownerID)
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()

	users := []repository.User{}
	for rows.Next() {
		var u repository.User
		if err := rows.Scan(&u.ID, &u.OwnerID, &u.Name, &u.Email, &u.CreatedAt); err != nil {
			return nil, classify(err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(err)
	}
	return users, nil
}

func (s *Store) FindByID(ctx context.Context, id int64, ownerID string) (*repository.User, error) {
	return s.scanOne(s.pool.QueryRow(ctx,
		`SELECT `+userCols+` FROM users WHERE id = $1 AND owner_id = $2`, id, ownerID))
}

func (s *Store) FindByEmail(ctx context.Context, email string) (*repository.User, error) {
	// Sem filtro de owner: unicidade de email é global.
	return s.scanOne(s.pool.QueryRow(ctx,
		`SELECT `+userCols+` FROM users WHERE email = $1`, email))
}

func (s *Store) Create(ctx context.Context, input repository.CreateUserInput) (*repository.User, error) {
	return s.scanOne(s.pool.QueryRow(ctx,
		`INSERT INTO users (owner_id, name, email) VALUES ($1, $2, $3) RETURNING `+userCols,
		input.OwnerID, input.Name, input.Email))
}

func (s *Store) Update(ctx context.Context, id int64, ownerID string, input repository.UpdateUserInput) (*repository.User, error) {
	// COALESCE mantém o valor atual quando o campo não vem no update parcial;
	// uma única ida ao banco.
	return s.scanOne(s.pool.QueryRow(ctx,
		`UPDATE users
		    SET name  = COALESCE($1, name),
		        email = COALESCE($2, email)
		  WHERE id = $3 AND owner_id = $4
		RETURNING `+userCols,
		input.Name, input.Email, id, ownerID))
}

func (s *Store) Delete(ctx context.Context, id int64, ownerID string) (*repository.User, error) {
	return s.scanOne(s.pool.QueryRow(ctx,
		`DELETE FROM users WHERE id = $1 AND owner_id = $2 RETURNING `+userCols, id, ownerID))
}

func (s *Store) Ping(ctx context.Context) error {
	return classify(s.pool.Ping(ctx))
}

func (s *Store) scanOne(row pgx.Row) (*repository.User, error) {
	var u repository.User
	if err := row.Scan(&u.ID, &u.OwnerID, &u.Name, &u.Email, &u.CreatedAt); err != nil {
		return nil, classify(err)
	}
	return &u, nil
}

// classify traduz erros do driver para os sentinelas do repositório.
// Nenhuma camada acima deste arquivo vê erros crus do pgx.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return repository.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// 23505 = unique_violation (índice único de email)
		if pgErr.Code == "23505" {
			return repository.ErrConflict
		}
		return err
	}
	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return repository.ErrUnavailable
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return repository.ErrUnavailable
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return repository.ErrUnavailable
	}
	return err
}
