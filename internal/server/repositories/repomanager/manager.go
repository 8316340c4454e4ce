// Package repomanager bundles the user and post repositories behind one
// handle together with the schema migration hook.
package repomanager

import (
	"context"

	"github.com/dmitrijs2005/gophblog/internal/server/repositories/posts"
	"github.com/dmitrijs2005/gophblog/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context) error
	Users() users.Repository
	Posts() posts.Repository
	Close() error
}
