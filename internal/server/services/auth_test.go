package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/dmitrijs2005/gophblog/internal/common"
	"github.com/dmitrijs2005/gophblog/internal/logging"
	"github.com/dmitrijs2005/gophblog/internal/server/auth"
	"github.com/dmitrijs2005/gophblog/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterThenLogin(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	cases := []struct{ email, username, password string }{
		{"a@x.com", "alice", "pw1"},
		{"Bob@Example.org", "bob", "correct horse battery staple"},
		{"  carol@x.io ", "carol", "ü-unicode-pässword"},
	}
	for _, c := range cases {
		user, err := f.svc.Register(ctx, c.email, c.username, c.password)
		require.NoError(t, err, c.email)
		assert.Equal(t, NormalizeEmail(c.email), user.Email)
		assert.NotEqual(t, c.password, user.PasswordHash)

		token, err := f.svc.Login(ctx, c.email, c.password)
		require.NoError(t, err, c.email)

		id, err := f.tokens.Verify(token)
		require.NoError(t, err)
		assert.Equal(t, user.ID, id)
	}
}

func TestLogin_AcceptsAnyEmailCase(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	_, err := f.svc.Register(ctx, "a@x.com", "alice", "pw1")
	require.NoError(t, err)

	_, err = f.svc.Login(ctx, "A@X.COM", "pw1")
	assert.NoError(t, err)
}

func TestLogin_FailuresAreIndistinguishable(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	_, err := f.svc.Register(ctx, "a@x.com", "alice", "pw1")
	require.NoError(t, err)

	_, wrongPw := f.svc.Login(ctx, "a@x.com", "nope")
	_, unknown := f.svc.Login(ctx, "ghost@x.com", "pw1")

	require.Error(t, wrongPw)
	require.Error(t, unknown)
	assert.ErrorIs(t, wrongPw, common.ErrorUnauthorized)
	assert.ErrorIs(t, unknown, common.ErrorUnauthorized)
	assert.Equal(t, wrongPw.Error(), unknown.Error())
	assert.Equal(t, common.AsError(wrongPw).Message, common.AsError(unknown).Message)
}

func TestLogin_UnknownEmailComputesDummyDigest(t *testing.T) {
	f := newAuthFixture(t)

	_, err := f.svc.Login(context.Background(), "ghost@x.com", "pw")
	assert.ErrorIs(t, err, common.ErrorUnauthorized)
	assert.NotEmpty(t, f.svc.dummyDigest)
}

func TestLogin_DummyDigestSurvivesCancelledFirstCaller(t *testing.T) {
	f := newAuthFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.svc.Login(ctx, "ghost@x.com", "pw")
	assert.ErrorIs(t, err, common.ErrorUnauthorized)
	assert.NotEmpty(t, f.svc.dummyDigest)
}

func TestLogin_DummyDigestRetriedAfterFailure(t *testing.T) {
	f := newAuthFixture(t)
	h := &flakyHasher{PasswordHasher: testHasher(), failHashes: 1}
	svc := NewAuthService(f.users, h, f.tokens, f.revocations, logging.Nop{})
	ctx := context.Background()

	_, err := svc.Login(ctx, "ghost@x.com", "pw")
	assert.ErrorIs(t, err, common.ErrorUnauthorized)
	assert.Empty(t, svc.dummyDigest)
	assert.Equal(t, 0, h.realVerifys)

	_, err = svc.Login(ctx, "ghost@x.com", "pw")
	assert.ErrorIs(t, err, common.ErrorUnauthorized)
	assert.NotEmpty(t, svc.dummyDigest)
	assert.Equal(t, 1, h.realVerifys)
}

func TestRegister_DuplicateEmailAnyCase(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	_, err := f.svc.Register(ctx, "a@x.com", "alice", "pw1")
	require.NoError(t, err)

	for _, email := range []string{"a@x.com", "A@x.com", "A@X.COM"} {
		_, err := f.svc.Register(ctx, email, "alice2", "pw2")
		require.Error(t, err)
		assert.ErrorIs(t, err, common.ErrorValidation, email)
		assert.Equal(t, "already registered", common.AsError(err).Message)
	}
}

func TestRegister_Validation(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	cases := []struct {
		name, email, username, password, msg string
	}{
		{"missing email", "", "alice", "pw", "email is required"},
		{"bad email", "not-an-email", "alice", "pw", "email must be a valid email address"},
		{"missing username", "a@x.com", "   ", "pw", "username is required"},
		{"missing password", "a@x.com", "alice", "", "password is required"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := f.svc.Register(ctx, c.email, c.username, c.password)
			require.Error(t, err)
			assert.ErrorIs(t, err, common.ErrorValidation)
			assert.Equal(t, c.msg, common.AsError(err).Message)
		})
	}
}

func TestRegister_StorageFailureIsInternal(t *testing.T) {
	svc := NewAuthService(failingUsers{err: errDB}, testHasher(), auth.NewTokenCodec([]byte("k"), 0, nil),
		auth.NewMemoryRevocationList(nil), logging.Nop{})

	_, err := svc.Register(context.Background(), "a@x.com", "alice", "pw")
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrorInternal)
	assert.True(t, errors.Is(err, errDB), "cause kept for diagnostics")
	assert.NotContains(t, err.Error(), errDB.Error())
}

func TestLogin_StorageFailureIsInternal(t *testing.T) {
	svc := NewAuthService(failingUsers{err: errDB}, testHasher(), auth.NewTokenCodec([]byte("k"), 0, nil),
		auth.NewMemoryRevocationList(nil), logging.Nop{})

	_, err := svc.Login(context.Background(), "a@x.com", "pw")
	assert.ErrorIs(t, err, common.ErrorInternal)
}

func TestGetUser(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	u, err := f.svc.Register(ctx, "a@x.com", "alice", "pw1")
	require.NoError(t, err)

	got, err := f.svc.GetUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, u.Email, got.Email)

	_, err = f.svc.GetUser(ctx, u.ID+100)
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestLogout_RevokesToken(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	_, err := f.svc.Register(ctx, "a@x.com", "alice", "pw1")
	require.NoError(t, err)
	token, err := f.svc.Login(ctx, "a@x.com", "pw1")
	require.NoError(t, err)

	claims, err := f.tokens.Parse(token)
	require.NoError(t, err)

	p := &models.Principal{ID: claims.UserID, Email: "a@x.com", TokenID: claims.TokenID, TokenExpiresAt: claims.ExpiresAt}
	require.NoError(t, f.svc.Logout(ctx, p))

	revoked, err := f.revocations.IsRevoked(ctx, claims.TokenID)
	require.NoError(t, err)
	assert.True(t, revoked)
}

func TestLogout_RequiresPrincipal(t *testing.T) {
	f := newAuthFixture(t)

	assert.ErrorIs(t, f.svc.Logout(context.Background(), nil), common.ErrorUnauthorized)
	assert.ErrorIs(t, f.svc.Logout(context.Background(), &models.Principal{ID: 1}), common.ErrorUnauthorized)
}

func TestRegister_PasswordLengthCountsCharacters(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	// 1024 two-byte characters are within the limit.
	_, err := f.svc.Register(ctx, "a@x.com", "alice", strings.Repeat("é", 1024))
	require.NoError(t, err)

	_, err = f.svc.Register(ctx, "b@x.com", "bob", strings.Repeat("é", 1025))
	assert.ErrorIs(t, err, common.ErrorValidation)
	assert.Equal(t, "password must be at most 1024 characters", common.AsError(err).Message)
}
