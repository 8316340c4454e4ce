package rest

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophblog/internal/logging"
	"github.com/dmitrijs2005/gophblog/internal/server/auth"
	"github.com/dmitrijs2005/gophblog/internal/server/guard"
	"github.com/dmitrijs2005/gophblog/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophblog/internal/server/services"
	"github.com/stretchr/testify/require"
)

type testAPI struct {
	srv    *httptest.Server
	tokens *auth.TokenCodec
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	repos := repomanager.NewInMemoryRepositoryManager()
	hasher := auth.NewArgon2Hasher(auth.Argon2Params{Memory: 64, Iterations: 1, Parallelism: 1, SaltLength: 8, KeyLength: 16}, 2)
	tokens := auth.NewTokenCodec([]byte("test-secret"), time.Hour, nil)
	revocations := auth.NewMemoryRevocationList(nil)

	as := services.NewAuthService(repos.Users(), hasher, tokens, revocations, logging.Nop{})
	ps := services.NewPostService(repos.Posts(), logging.Nop{})
	g := guard.New(tokens, revocations, as, logging.Nop{})

	srv := httptest.NewServer(NewRouter(logging.Nop{}, g, NewAuthHandler(as), NewPostHandler(ps)))
	t.Cleanup(srv.Close)
	return &testAPI{srv: srv, tokens: tokens}
}

// do sends body as JSON and decodes the response into out when out is non-nil.
func (a *testAPI) do(t *testing.T, method, path, token string, body any, out any) *http.Response {
	t.Helper()

	var rdr io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			rdr = bytes.NewBufferString(b)
		default:
			data, err := json.Marshal(b)
			require.NoError(t, err)
			rdr = bytes.NewReader(data)
		}
	}

	req, err := http.NewRequest(method, a.srv.URL+path, rdr)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := a.srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}

func (a *testAPI) registerAndLogin(t *testing.T, email, username, password string) (int64, string) {
	t.Helper()

	var reg registerResponse
	resp := a.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email": email, "username": username, "password": password,
	}, &reg)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var login loginResponse
	resp = a.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"username": email, "password": password,
	}, &login)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	return reg.UserID, login.AccessToken
}
