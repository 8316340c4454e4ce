// Package guard resolves a bearer credential into the request's Principal.
// Both server fronts run every protected call through Guard.Resolve, so they
// agree on who gets in.
package guard

import (
	"context"
	"errors"
	"strings"

	"github.com/dmitrijs2005/gophblog/internal/common"
	"github.com/dmitrijs2005/gophblog/internal/logging"
	"github.com/dmitrijs2005/gophblog/internal/server/auth"
	"github.com/dmitrijs2005/gophblog/internal/server/models"
)

// UserLookup finds the user a token was issued to.
type UserLookup interface {
	GetUser(ctx context.Context, id int64) (*models.User, error)
}

type Guard struct {
	tokens      *auth.TokenCodec
	revocations auth.RevocationList
	users       UserLookup
	logger      logging.Logger
}

func New(tokens *auth.TokenCodec, revocations auth.RevocationList, users UserLookup, logger logging.Logger) *Guard {
	return &Guard{
		tokens:      tokens,
		revocations: revocations,
		users:       users,
		logger:      logger.With("module", "guard"),
	}
}

// BearerToken extracts the token from an "Authorization: Bearer <token>"
// value. The scheme is case-insensitive.
func BearerToken(header string) (string, error) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, common.BearerScheme) {
		return "", common.ErrInvalidToken
	}
	token = strings.TrimSpace(token)
	if token == "" || strings.ContainsAny(token, " \t") {
		return "", common.ErrInvalidToken
	}
	return token, nil
}

// Resolve turns a raw authorization value into a Principal. Every credential
// problem, including a token for a user that no longer exists, is
// Unauthorized. Only infrastructure failures surface as Internal.
func (g *Guard) Resolve(ctx context.Context, header string) (*models.Principal, error) {
	raw, err := BearerToken(header)
	if err != nil {
		return nil, common.Unauthorized()
	}

	claims, err := g.tokens.Parse(raw)
	if err != nil {
		g.logger.Debug(ctx, "token rejected", "reason", err)
		return nil, common.Unauthorized()
	}

	revoked, err := g.revocations.IsRevoked(ctx, claims.TokenID)
	if err != nil {
		g.logger.Error(ctx, "revocation lookup failed", "error", err)
		return nil, common.Internal("revocation lookup: %w", err)
	}
	if revoked {
		g.logger.Debug(ctx, "token rejected", "reason", common.ErrTokenRevoked)
		return nil, common.Unauthorized()
	}

	user, err := g.users.GetUser(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.Unauthorized()
		}
		return nil, common.AsError(err)
	}

	return &models.Principal{
		ID:             user.ID,
		Email:          user.Email,
		TokenID:        claims.TokenID,
		TokenExpiresAt: claims.ExpiresAt,
	}, nil
}
