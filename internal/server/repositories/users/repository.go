// Package users persists User records.
package users

import (
	"context"

	"github.com/dmitrijs2005/gophblog/internal/server/models"
)

// Repository is pure CRUD. Lookups return common.ErrRecordNotFound when no
// row matches; Create returns common.ErrUniqueViolation on a duplicate email.
type Repository interface {
	Create(ctx context.Context, user *models.NewUser) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id int64) (*models.User, error)
}
