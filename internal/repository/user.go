package repository

import (
	"context"

	"github.com/LZPPS/routelink/internal/domain"
)

// UserRepository defines the persistence operations for users.
type UserRepository interface {
	// Create persists a new user. An email collision is reported as
	// ErrDuplicateEmail.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by ID.
	GetByID(ctx context.Context, id string) (*domain.User, error)

	// GetByEmail retrieves a user by email.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// GetByIDForUpdate retrieves a user by ID holding an exclusive row
	// lock for the remainder of the enclosing transaction.
	GetByIDForUpdate(ctx context.Context, id string) (*domain.User, error)

	// Update updates an existing user.
	Update(ctx context.Context, user *domain.User) error
}
