package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophblog/internal/logging"
	"github.com/dmitrijs2005/gophblog/internal/server/auth"
	"github.com/dmitrijs2005/gophblog/internal/server/models"
	"github.com/dmitrijs2005/gophblog/internal/server/repositories/posts"
	"github.com/dmitrijs2005/gophblog/internal/server/repositories/users"
)

var errDB = errors.New("connection reset")

func testHasher() *auth.Argon2Hasher {
	return auth.NewArgon2Hasher(auth.Argon2Params{Memory: 64, Iterations: 1, Parallelism: 1, SaltLength: 8, KeyLength: 16}, 2)
}

type authFixture struct {
	svc         *AuthService
	users       *users.MemoryRepository
	tokens      *auth.TokenCodec
	revocations *auth.MemoryRevocationList
	now         time.Time
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	f := &authFixture{
		users:       users.NewMemoryRepository(),
		tokens:      auth.NewTokenCodec([]byte("k"), time.Hour, clock),
		revocations: auth.NewMemoryRevocationList(clock),
		now:         now,
	}
	f.svc = NewAuthService(f.users, testHasher(), f.tokens, f.revocations, logging.Nop{})
	return f
}

func newPostService() (*PostService, *posts.MemoryRepository) {
	repo := posts.NewMemoryRepository()
	return NewPostService(repo, logging.Nop{}), repo
}

func principal(id int64) *models.Principal {
	return &models.Principal{ID: id, Email: "u@x.com"}
}

// flakyHasher fails its first failHashes Hash calls and counts Verify calls
// made against a real digest.
type flakyHasher struct {
	auth.PasswordHasher
	failHashes  int
	realVerifys int
}

func (h *flakyHasher) Hash(ctx context.Context, password string) (string, error) {
	if h.failHashes > 0 {
		h.failHashes--
		return "", errors.New("hash unavailable")
	}
	return h.PasswordHasher.Hash(ctx, password)
}

func (h *flakyHasher) Verify(ctx context.Context, password, encoded string) bool {
	if encoded != "" {
		h.realVerifys++
	}
	return h.PasswordHasher.Verify(ctx, password, encoded)
}

// failingUsers fails every call with err.
type failingUsers struct{ err error }

func (f failingUsers) Create(context.Context, *models.NewUser) (*models.User, error) {
	return nil, f.err
}
func (f failingUsers) FindByEmail(context.Context, string) (*models.User, error) { return nil, f.err }
func (f failingUsers) FindByID(context.Context, int64) (*models.User, error)    { return nil, f.err }

// failingPosts fails every call with err.
type failingPosts struct{ err error }

func (f failingPosts) Create(context.Context, *models.NewPost) (*models.Post, error) {
	return nil, f.err
}
func (f failingPosts) FindByID(context.Context, int64) (*models.Post, error) { return nil, f.err }
func (f failingPosts) FindAll(context.Context) ([]*models.Post, error)       { return nil, f.err }
func (f failingPosts) Update(context.Context, int64, *models.NewPost) (*models.Post, error) {
	return nil, f.err
}
func (f failingPosts) Delete(context.Context, int64) (*models.Post, error) { return nil, f.err }
