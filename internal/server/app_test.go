package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophblog/internal/logging"
	pb "github.com/dmitrijs2005/gophblog/internal/proto"
	"github.com/dmitrijs2005/gophblog/internal/server/auth"
	"github.com/dmitrijs2005/gophblog/internal/server/config"
	"github.com/dmitrijs2005/gophblog/internal/server/errmap"
	"github.com/dmitrijs2005/gophblog/internal/server/repositories/repomanager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

func freeAddr(t *testing.T) string {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())
	return addr
}

func testConfig(t *testing.T) *config.Config {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.HTTPAddr = freeAddr(t)
	cfg.GRPCAddr = freeAddr(t)
	cfg.HashMemoryKiB = 64
	cfg.HashParallelism = 1
	cfg.ShutdownTimeout = time.Second
	return cfg
}

func newTestApp(cfg *config.Config) *App {
	return newApp(cfg, logging.Nop{}, repomanager.NewInMemoryRepositoryManager(), auth.NewMemoryRevocationList(nil))
}

func TestApp_RunStopsOnCancel(t *testing.T) {
	app := newTestApp(testConfig(t))
	closed := false
	app.closers = []func() error{func() error { closed = true; return nil }}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	// both fronts come up
	require.Eventually(t, func() bool {
		for _, a := range []string{app.config.HTTPAddr, app.config.GRPCAddr} {
			c, err := net.Dial("tcp", a)
			if err != nil {
				return false
			}
			c.Close()
		}
		return true
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("app did not stop")
	}
	assert.True(t, closed)
}

func TestApp_OneFrontFailingStopsTheOther(t *testing.T) {
	cfg := testConfig(t)
	cfg.GRPCAddr = "256.0.0.1:bad"
	app := newTestApp(cfg)

	done := make(chan error, 1)
	go func() { done <- app.Run(context.Background()) }()

	select {
	case err := <-done:
		assert.Error(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("app kept running after gRPC front failed")
	}
}

func TestApp_CloseJoinsErrors(t *testing.T) {
	app := &App{closers: []func() error{
		func() error { return errors.New("a") },
		func() error { return nil },
		func() error { return errors.New("b") },
	}}
	err := app.close()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "a")
	assert.Contains(t, err.Error(), "b")
}

// startApp runs a fresh app until the test ends and waits for both fronts.
func startApp(t *testing.T) *App {
	t.Helper()
	app := newTestApp(testConfig(t))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	require.Eventually(t, func() bool {
		for _, a := range []string{app.config.HTTPAddr, app.config.GRPCAddr} {
			c, err := net.Dial("tcp", a)
			if err != nil {
				return false
			}
			c.Close()
		}
		return true
	}, 5*time.Second, 20*time.Millisecond)
	return app
}

func postJSON(t *testing.T, url string, in, out any) {
	t.Helper()
	b, err := json.Marshal(in)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(b))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Less(t, resp.StatusCode, 300, url)
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
}

func TestApp_FrontsAgreeOnInvalidPostID(t *testing.T) {
	app := startApp(t)
	base := "http://" + app.config.HTTPAddr

	postJSON(t, base+"/api/auth/register", map[string]string{"email": "a@x.com", "username": "alice", "password": "pw1"}, nil)
	var login struct {
		AccessToken string `json:"access_token"`
	}
	postJSON(t, base+"/api/auth/login", map[string]string{"username": "a@x.com", "password": "pw1"}, &login)
	require.NotEmpty(t, login.AccessToken)

	conn, err := grpc.NewClient(app.config.GRPCAddr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	require.NoError(t, err)
	defer conn.Close()
	c := pb.NewBlogServiceClient(conn)
	rpcCtx := metadata.AppendToOutgoingContext(context.Background(), "authorization", "Bearer "+login.AccessToken)

	for _, id := range []int64{0, -1} {
		for _, method := range []string{http.MethodGet, http.MethodDelete} {
			req, err := http.NewRequest(method, fmt.Sprintf("%s/api/post/%d", base, id), nil)
			require.NoError(t, err)
			req.Header.Set("Authorization", "Bearer "+login.AccessToken)
			resp, err := http.DefaultClient.Do(req)
			require.NoError(t, err)

			var body errmap.Body
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			resp.Body.Close()
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.Equal(t, "invalid post id", body.Details["message"])
		}

		_, getErr := c.GetPost(rpcCtx, &pb.GetPostRequest{Id: id})
		_, updErr := c.UpdatePost(rpcCtx, &pb.UpdatePostRequest{Id: id, Title: "T", Content: "C"})
		_, delErr := c.DeletePost(rpcCtx, &pb.DeletePostRequest{Id: id})
		for _, err := range []error{getErr, updErr, delErr} {
			assert.Equal(t, codes.InvalidArgument, status.Code(err), id)
			assert.Equal(t, "validation error: invalid post id", status.Convert(err).Message())
		}
	}
}
