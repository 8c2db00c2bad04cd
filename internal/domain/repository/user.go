package repository

import (
	"context"

	"github.com/rivetsoft/filedock/internal/domain/entities"
)

// UserRepository persists accounts for the identity gate.
type UserRepository interface {
	// Create inserts a user and fills in the generated ID. Email
	// collisions surface as ErrDuplicateEmail.
	Create(ctx context.Context, user *entities.User) error

	GetByID(ctx context.Context, id int64) (*entities.User, error)

	GetByEmail(ctx context.Context, email string) (*entities.User, error)

	List(ctx context.Context, page, perPage int) ([]*entities.User, int, error)

	Update(ctx context.Context, user *entities.User) error

	Delete(ctx context.Context, id int64) error

	Count(ctx context.Context) (int, error)
}
