package grpc

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophblog/internal/logging"
	pb "github.com/dmitrijs2005/gophblog/internal/proto"
	"github.com/dmitrijs2005/gophblog/internal/server/auth"
	"github.com/dmitrijs2005/gophblog/internal/server/guard"
	"github.com/dmitrijs2005/gophblog/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophblog/internal/server/services"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/test/bufconn"
)

func newTestServer(t *testing.T) *GRPCServer {
	t.Helper()
	repos := repomanager.NewInMemoryRepositoryManager()
	hasher := auth.NewArgon2Hasher(auth.Argon2Params{Memory: 64, Iterations: 1, Parallelism: 1, SaltLength: 8, KeyLength: 16}, 2)
	tokens := auth.NewTokenCodec([]byte("test-secret"), time.Hour, nil)
	revocations := auth.NewMemoryRevocationList(nil)

	as := services.NewAuthService(repos.Users(), hasher, tokens, revocations, logging.Nop{})
	ps := services.NewPostService(repos.Posts(), logging.Nop{})
	g := guard.New(tokens, revocations, as, logging.Nop{})

	return NewGRPCServer("bufnet", logging.Nop{}, as, ps, g)
}

// startBufconn serves s over an in-memory listener and returns a connected client.
func startBufconn(t *testing.T, s *GRPCServer) (*grpc.ClientConn, context.CancelFunc) {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, lis) }()

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		cancel()
		t.Fatalf("grpc.NewClient: %v", err)
	}

	t.Cleanup(func() {
		_ = conn.Close()
		cancel()
		if err := <-done; err != nil {
			t.Errorf("Serve returned %v", err)
		}
	})
	return conn, cancel
}

func withToken(ctx context.Context, token string) context.Context {
	return metadata.AppendToOutgoingContext(ctx, "authorization", "Bearer "+token)
}

func registerAndLogin(t *testing.T, c pb.BlogServiceClient, email, name, pw string) (int64, string) {
	t.Helper()
	ctx := context.Background()
	reg, err := c.Register(ctx, &pb.RegisterRequest{Email: email, Username: name, Password: pw})
	if err != nil {
		t.Fatalf("Register(%s): %v", email, err)
	}
	lr, err := c.Login(ctx, &pb.LoginRequest{Username: email, Password: pw})
	if err != nil {
		t.Fatalf("Login(%s): %v", email, err)
	}
	return reg.UserId, lr.AccessToken
}
