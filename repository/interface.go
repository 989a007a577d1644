package repository

import (
	"context"
	"errors"

	"catalog-service/models"

	"github.com/google/uuid"
)

// ErrNotFound is returned by every adapter when an id or email has no
// matching record, so callers never depend on driver-specific errors.
var ErrNotFound = errors.New("record not found")

// ProductRepo defines the catalog storage operations. The interface uses
// plain Go types (no driver types) to make swapping adapters easy.
//
// Update replaces the whole record; the service layer performs the patch
// merge so every adapter gets identical semantics.
type ProductRepo interface {
	FindAll(ctx context.Context) ([]models.Product, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// UserRepo defines the account storage operations.
type UserRepo interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
}
