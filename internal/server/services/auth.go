// Package services contains the server-side business logic shared by the
// REST and gRPC fronts. Services speak only the common error taxonomy;
// repository and driver errors never leave this package untranslated.
package services

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/dmitrijs2005/gophblog/internal/common"
	"github.com/dmitrijs2005/gophblog/internal/logging"
	"github.com/dmitrijs2005/gophblog/internal/server/auth"
	"github.com/dmitrijs2005/gophblog/internal/server/models"
	"github.com/dmitrijs2005/gophblog/internal/server/repositories/users"
	"github.com/go-playground/validator/v10"
)

// dummyPassword seeds the digest verified when a login names an unknown email.
const dummyPassword = "not-a-real-password"

// AuthService handles registration, login, principal lookup and logout.
type AuthService struct {
	users       users.Repository
	hasher      auth.PasswordHasher
	tokens      *auth.TokenCodec
	revocations auth.RevocationList
	validate    *validator.Validate
	logger      logging.Logger

	dummyMu     sync.Mutex
	dummyDigest string
}

func NewAuthService(repo users.Repository, hasher auth.PasswordHasher, tokens *auth.TokenCodec,
	revocations auth.RevocationList, logger logging.Logger) *AuthService {
	return &AuthService{
		users:       repo,
		hasher:      hasher,
		tokens:      tokens,
		revocations: revocations,
		validate:    newValidator(),
		logger:      logger.With("module", "auth_service"),
	}
}

// NormalizeEmail is the canonical form used for every lookup and insert.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a user. A duplicate email is a Validation error.
func (s *AuthService) Register(ctx context.Context, email, username, password string) (*models.User, error) {
	in := registerInput{Email: NormalizeEmail(email), Username: strings.TrimSpace(username), Password: password}
	if err := s.validate.Struct(in); err != nil {
		return nil, validationError(err)
	}

	digest, err := s.hasher.Hash(ctx, in.Password)
	if err != nil {
		s.logger.Error(ctx, "password hashing failed", "error", err)
		return nil, common.Internal("hash password: %w", err)
	}

	user, err := s.users.Create(ctx, &models.NewUser{Email: in.Email, Username: in.Username, PasswordHash: digest})
	if err != nil {
		if errors.Is(err, common.ErrUniqueViolation) {
			return nil, common.Validation("already registered")
		}
		s.logger.Error(ctx, "user create failed", "error", err)
		return nil, common.Internal("create user: %w", err)
	}

	s.logger.Info(ctx, "user registered", "user_id", user.ID)
	return user, nil
}

// Login returns a fresh token. Unknown email and wrong password produce
// the same Unauthorized and both run one password verification.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.users.FindByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if !errors.Is(err, common.ErrRecordNotFound) {
			s.logger.Error(ctx, "user lookup failed", "error", err)
			return "", common.Internal("find user: %w", err)
		}
		s.hasher.Verify(ctx, password, s.dummy(ctx))
		return "", common.Unauthorized()
	}

	if !s.hasher.Verify(ctx, password, user.PasswordHash) {
		return "", common.Unauthorized()
	}

	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		s.logger.Error(ctx, "token generation failed", "error", err)
		return "", common.Internal("generate token: %w", err)
	}
	return token, nil
}

func (s *AuthService) GetUser(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrRecordNotFound) {
			return nil, common.NotFound("user")
		}
		return nil, common.Internal("find user: %w", err)
	}
	return user, nil
}

// Logout deny-lists the principal's token until it would have expired anyway.
func (s *AuthService) Logout(ctx context.Context, principal *models.Principal) error {
	if principal == nil || principal.TokenID == "" {
		return common.Unauthorized()
	}
	if err := s.revocations.Revoke(ctx, principal.TokenID, principal.TokenExpiresAt); err != nil {
		s.logger.Error(ctx, "token revoke failed", "error", err)
		return common.Internal("revoke token: %w", err)
	}
	s.logger.Info(ctx, "user logged out", "user_id", principal.ID)
	return nil
}

// dummy returns a well-formed digest, computing it on first use. The digest
// does not depend on the request, so the caller's cancellation is dropped and
// a failed attempt is retried by the next caller instead of being cached.
func (s *AuthService) dummy(ctx context.Context) string {
	s.dummyMu.Lock()
	defer s.dummyMu.Unlock()

	if s.dummyDigest == "" {
		digest, err := s.hasher.Hash(context.WithoutCancel(ctx), dummyPassword)
		if err != nil {
			s.logger.Warn(ctx, "dummy digest unavailable", "error", err)
			return ""
		}
		s.dummyDigest = digest
	}
	return s.dummyDigest
}
