// Package auth holds the credential primitives: password hashing, signed
// bearer tokens and the token deny-list.
package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/dmitrijs2005/gophblog/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenClaims is what a verified token says about its bearer.
type TokenClaims struct {
	UserID    int64
	TokenID   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenCodec signs and verifies HS256 tokens with one process-held secret.
// Tokens are self-contained; nothing is stored server-side when one is
// issued, so a leaked token stays valid until it expires or is revoked
// through a RevocationList.
type TokenCodec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenCodec returns a codec issuing tokens valid for ttl. A nil now
// defaults to time.Now.
func NewTokenCodec(secret []byte, ttl time.Duration, now func() time.Time) *TokenCodec {
	if now == nil {
		now = time.Now
	}
	return &TokenCodec{secret: secret, ttl: ttl, now: now}
}

func (c *TokenCodec) Generate(userID int64) (string, error) {
	issued := c.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(userID, 10),
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(issued),
		ExpiresAt: jwt.NewNumericDate(issued.Add(c.ttl)),
	})

	tokenString, err := token.SignedString(c.secret)
	if err != nil {
		return "", err
	}
	return tokenString, nil
}

// Parse verifies signature, algorithm and expiry. A token is valid while
// now < exp. Expired tokens yield common.ErrTokenExpired, anything else
// wrong yields common.ErrInvalidToken.
func (c *TokenCodec) Parse(tokenString string) (*TokenClaims, error) {
	claims := &jwt.RegisteredClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (interface{}, error) { return c.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, common.ErrInvalidToken
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || claims.ID == "" {
		return nil, common.ErrInvalidToken
	}

	out := &TokenClaims{UserID: userID, TokenID: claims.ID, ExpiresAt: claims.ExpiresAt.Time}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}
	return out, nil
}

// Verify returns the subject user id of a valid token.
func (c *TokenCodec) Verify(tokenString string) (int64, error) {
	claims, err := c.Parse(tokenString)
	if err != nil {
		return 0, err
	}
	return claims.UserID, nil
}
