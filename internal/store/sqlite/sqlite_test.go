package sqlite_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/littlejohn/internal/domain/repository"
	"github.com/dropDatabas3/littlejohn/internal/store/sqlite"
)

func newStore(t *testing.T) *sqlite.Store {
	t.Helper()
	s, err := sqlite.New(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func create(t *testing.T, s *sqlite.Store, owner, name, email string) *repository.User {
	t.Helper()
	u, err := s.Create(context.Background(), repository.CreateUserInput{OwnerID: owner, Name: name, Email: email})
	require.NoError(t, err)
	return u
}

func TestCreateAndFind(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	u := create(t, s, "owner-1", "Alice", "alice@x.com")
	require.Positive(t, u.ID)
	require.Equal(t, "owner-1", u.OwnerID)
	require.False(t, u.CreatedAt.IsZero())

	got, err := s.FindByID(ctx, u.ID, "owner-1")
	require.NoError(t, err)
	require.Equal(t, u.Email, got.Email)

	byEmail, err := s.FindByEmail(ctx, "alice@x.com")
	require.NoError(t, err)
	require.Equal(t, u.ID, byEmail.ID)
}

func TestFindScopedByOwner(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	u := create(t, s, "owner-1", "Alice", "alice@x.com")
	create(t, s, "owner-2", "Eve", "eve@x.com")

	_, err := s.FindByID(ctx, u.ID, "owner-2")
	require.ErrorIs(t, err, repository.ErrNotFound)

	list, err := s.FindAllByOwner(ctx, "owner-1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "alice@x.com", list[0].Email)
}

func TestEmailUniqueAcrossOwners(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	create(t, s, "owner-1", "Alice", "alice@x.com")

	// A unicidade de email é global, não por dono.
	_, err := s.Create(ctx, repository.CreateUserInput{OwnerID: "owner-2", Name: "Clone", Email: "alice@x.com"})
	require.ErrorIs(t, err, repository.ErrConflict)
}

func TestUpdatePartial(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	u := create(t, s, "owner-1", "Alice", "alice@x.com")

	name := "Alice Johnson"
	got, err := s.Update(ctx, u.ID, "owner-1", repository.UpdateUserInput{Name: &name})
	require.NoError(t, err)
	require.Equal(t, "Alice Johnson", got.Name)
	require.Equal(t, "alice@x.com", got.Email)

	email := "alice.johnson@x.com"
	got, err = s.Update(ctx, u.ID, "owner-1", repository.UpdateUserInput{Email: &email})
	require.NoError(t, err)
	require.Equal(t, "Alice Johnson", got.Name)
	require.Equal(t, "alice.johnson@x.com", got.Email)
}

func TestUpdateConflictAndScope(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	a := create(t, s, "owner-1", "Alice", "alice@x.com")
	create(t, s, "owner-1", "Bob", "bob@x.com")

	email := "bob@x.com"
	_, err := s.Update(ctx, a.ID, "owner-1", repository.UpdateUserInput{Email: &email})
	require.ErrorIs(t, err, repository.ErrConflict)

	name := "Mallory"
	_, err = s.Update(ctx, a.ID, "owner-2", repository.UpdateUserInput{Name: &name})
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestDeleteReturnsRow(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	u := create(t, s, "owner-1", "Alice", "alice@x.com")

	got, err := s.Delete(ctx, u.ID, "owner-1")
	require.NoError(t, err)
	require.Equal(t, "alice@x.com", got.Email)

	_, err = s.Delete(ctx, u.ID, "owner-1")
	require.ErrorIs(t, err, repository.ErrNotFound)

	// Email liberado após o delete.
	create(t, s, "owner-1", "Alice de novo", "alice@x.com")
}

func TestPing(t *testing.T) {
	s := newStore(t)
	require.NoError(t, s.Ping(context.Background()))
}
