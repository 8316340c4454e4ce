// Package posts persists Post records.
package posts

import (
	"context"

	"github.com/dmitrijs2005/gophblog/internal/server/models"
)

// Repository is pure CRUD; ownership rules live in the service layer.
// Single-row operations return common.ErrRecordNotFound when the id does not
// exist. Update never touches author_id.
type Repository interface {
	Create(ctx context.Context, post *models.NewPost) (*models.Post, error)
	FindByID(ctx context.Context, id int64) (*models.Post, error)
	FindAll(ctx context.Context) ([]*models.Post, error)
	Update(ctx context.Context, id int64, post *models.NewPost) (*models.Post, error)
	Delete(ctx context.Context, id int64) (*models.Post, error)
}
