package repository

import (
	"context"
	"time"
)

// User representa um registro da tabela users.
// OwnerID é o id (opaco, atribuído pelo identity provider) da identidade que
// criou o registro; é imutável após a criação.
type User struct {
	ID        int64     `json:"id"`
	OwnerID   string    `json:"-"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateUserInput contém os dados já validados para criar um usuário.
type CreateUserInput struct {
	OwnerID string
	Name    string
	Email   string
}

// UpdateUserInput contém os campos atualizáveis. Ponteiro nil = não tocar.
type UpdateUserInput struct {
	Name  *string
	Email *string
}

// UserRepository define as operações de persistência sobre usuários.
// Implementações devolvem ErrNotFound/ErrConflict/ErrUnavailable conforme o
// contrato de cada método; nunca erros crus do driver.
type UserRepository interface {
	// FindAllByOwner devolve todos os usuários do dono, ordenados por id
	// ascendente. Slice vazio (nunca nil) quando não há registros.
	FindAllByOwner(ctx context.Context, ownerID string) ([]User, error)

	// FindByID busca por id dentro do escopo do dono.
	// Devolve ErrNotFound se não existe ou pertence a outro dono.
	FindByID(ctx context.Context, id int64, ownerID string) (*User, error)

	// FindByEmail busca por email SEM filtrar por dono: a unicidade de email
	// é global. Devolve ErrNotFound se não existe.
	FindByEmail(ctx context.Context, email string) (*User, error)

	// Create insere e devolve a linha criada.
	// Devolve ErrConflict se o índice único de email for violado.
	Create(ctx context.Context, input CreateUserInput) (*User, error)

	// Update aplica um update parcial escopado ao dono e devolve a linha
	// atualizada. Devolve ErrNotFound se nenhuma linha do dono corresponde.
	Update(ctx context.Context, id int64, ownerID string, input UpdateUserInput) (*User, error)

	// Delete remove a linha escopada ao dono e devolve o registro deletado.
	// Devolve ErrNotFound se nenhuma linha do dono corresponde.
	Delete(ctx context.Context, id int64, ownerID string) (*User, error)

	// Ping verifica a conectividade com o store.
	Ping(ctx context.Context) error
}
