// Package sqlite implementa o UserRepository sobre sqlite (modernc, sem cgo).
// Usado em desenvolvimento e nos testes do repositório; o schema é o mesmo
// do driver postgres.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sqlite3 "modernc.org/sqlite"

	"github.com/dropDatabas3/littlejohn/internal/domain/repository"
	"github.com/dropDatabas3/littlejohn/migrations"
)

type Store struct{ db *sql.DB }

// New abre o banco e aplica as migrações embutidas.
// DSN típico: "file:littlejohn.db" ou ":memory:" para testes.
func New(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// sqlite não lida bem com writers concorrentes no mesmo arquivo.
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Close fecha o banco.
func (s *Store) Close() error { return s.db.Close() }

// Migrate aplica as migrações embutidas de sqlite.
func (s *Store) Migrate(ctx context.Context) error {
	ms, err := migrations.Load(migrations.SQLiteFS, migrations.SQLiteDir)
	if err != nil {
		return err
	}
	for _, m := range ms {
		if _, err := s.db.ExecContext(ctx, m.SQL); err != nil {
			return classify(err)
		}
	}
	return nil
}

const userCols = `id, owner_id, name, email, created_at`

func (s *Store) FindAllByOwner(ctx context.Context, ownerID string) ([]repository.User, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+userCols+` FROM users WHERE owner_id = ? ORDER BY id ASC`, ownerID)
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()

	users := []repository.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, classify(err)
		}
		users = append(users, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(err)
	}
	return users, nil
}

func (s *Store) FindByID(ctx context.Context, id int64, ownerID string) (*repository.User, error) {
	return scanOne(s.db.QueryRowContext(ctx,
		`SELECT `+userCols+` FROM users WHERE id = ? AND owner_id = ?`, id, ownerID))
}

func (s *Store) FindByEmail(ctx context.Context, email string) (*repository.User, error) {
	return scanOne(s.db.QueryRowContext(ctx,
		`SELECT `+userCols+` FROM users WHERE email = ?`, email))
}

func (s *Store) Create(ctx context.Context, input repository.CreateUserInput) (*repository.User, error) {
	return scanOne(s.db.QueryRowContext(ctx,
		`INSERT INTO users (owner_id, name, email, created_at) VALUES (?, ?, ?, ?) RETURNING `+userCols,
		input.OwnerID, input.Name, input.Email, time.Now().UTC().Format(time.RFC3339Nano)))
}

func (s *Store) Update(ctx context.Context, id int64, ownerID string, input repository.UpdateUserInput) (*repository.User, error) {
	return scanOne(s.db.QueryRowContext(ctx,
		`UPDATE users
		    SET name  = COALESCE(?, name),
		        email = COALESCE(?, email)
		  WHERE id = ? AND owner_id = ?
		RETURNING `+userCols,
		input.Name, input.Email, id, ownerID))
}

func (s *Store) Delete(ctx context.Context, id int64, ownerID string) (*repository.User, error) {
	return scanOne(s.db.QueryRowContext(ctx,
		`DELETE FROM users WHERE id = ? AND owner_id = ? RETURNING `+userCols, id, ownerID))
}

func (s *Store) Ping(ctx context.Context) error {
	return classify(s.db.PingContext(ctx))
}

type rowScanner interface{ Scan(dest ...any) error }

func scanOne(row *sql.Row) (*repository.User, error) {
	u, err := scanUser(row)
	if err != nil {
		return nil, classify(err)
	}
	return u, nil
}

func scanUser(r rowScanner) (*repository.User, error) {
	var u repository.User
	var created timeValue
	if err := r.Scan(&u.ID, &u.OwnerID, &u.Name, &u.Email, &created); err != nil {
		return nil, err
	}
	u.CreatedAt = time.Time(created)
	return &u, nil
}

// timeValue aceita os formatos de data que o sqlite devolve (string RFC3339,
// string "2006-01-02 15:04:05", time.Time ou unix int64).
type timeValue time.Time

func (t *timeValue) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		*t = timeValue(v)
		return nil
	case int64:
		*t = timeValue(time.Unix(v, 0).UTC())
		return nil
	case string:
		return t.parse(v)
	case []byte:
		return t.parse(string(v))
	case nil:
		*t = timeValue(time.Time{})
		return nil
	}
	return fmt.Errorf("sqlite: tipo de data inesperado %T", src)
}

func (t *timeValue) parse(s string) error {
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02 15:04:05", "2006-01-02 15:04:05.999999999-07:00"} {
		if v, err := time.Parse(layout, s); err == nil {
			*t = timeValue(v)
			return nil
		}
	}
	return fmt.Errorf("sqlite: data em formato desconhecido: %q", s)
}

// SQLITE_CONSTRAINT_UNIQUE e SQLITE_CONSTRAINT_PRIMARYKEY.
const (
	codeConstraintUnique = 2067
	codeConstraintPK     = 1555
)

func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return repository.ErrNotFound
	}
	var serr *sqlite3.Error
	if errors.As(err, &serr) {
		switch serr.Code() {
		case codeConstraintUnique, codeConstraintPK:
			return repository.ErrConflict
		}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return repository.ErrUnavailable
	}
	return err
}
