// Package client is a thin wrapper over the blog RPC service. It keeps the
// access token of the current session and turns status errors back into
// the common error taxonomy.
package client

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophblog/internal/common"
	pb "github.com/dmitrijs2005/gophblog/internal/proto"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
)

// ErrUnavailable means the server could not be reached.
var ErrUnavailable = errors.New("server unavailable")

// Post is a post as seen by the client.
type Post struct {
	ID        int64
	Title     string
	Content   string
	AuthorID  int64
	CreatedAt time.Time
}

type GRPCClient struct {
	endpointURL string
	conn        *grpc.ClientConn
	client      pb.BlogServiceClient

	mu          sync.RWMutex
	accessToken string
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Set(common.AuthorizationHeaderName, common.BearerScheme+" "+token)

	return metadata.NewOutgoingContext(ctx, md)
}

func (s *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply interface{},
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	if token := s.token(); token != "" {
		ctx = withAccessToken(ctx, token)
	}
	return invoker(ctx, method, req, reply, cc, opts...)
}

// NewGRPCClient dials endpointURL lazily. Extra options are appended to the
// defaults, which tests use to inject a bufconn dialer.
func NewGRPCClient(endpointURL string, opts ...grpc.DialOption) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL}

	dialOpts := append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(c.accessTokenInterceptor),
	}, opts...)

	conn, err := grpc.NewClient(endpointURL, dialOpts...)
	if err != nil {
		return nil, err
	}
	c.conn = conn
	c.client = pb.NewBlogServiceClient(conn)
	return c, nil
}

func (s *GRPCClient) token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken
}

func (s *GRPCClient) setToken(token string) {
	s.mu.Lock()
	s.accessToken = token
	s.mu.Unlock()
}

func (s *GRPCClient) IsLoggedIn() bool {
	return s.token() != ""
}

func (s *GRPCClient) Close() error {
	return s.conn.Close()
}

func (s *GRPCClient) Register(ctx context.Context, email, username, password string) (int64, error) {
	resp, err := s.client.Register(ctx, &pb.RegisterRequest{Email: email, Username: username, Password: password})
	if err != nil {
		return 0, fromStatus(err)
	}
	return resp.UserId, nil
}

// Login stores the returned token for subsequent calls.
func (s *GRPCClient) Login(ctx context.Context, email, password string) error {
	resp, err := s.client.Login(ctx, &pb.LoginRequest{Username: email, Password: password})
	if err != nil {
		return fromStatus(err)
	}
	s.setToken(resp.AccessToken)
	return nil
}

// Logout revokes the token server-side and forgets it locally. The local
// token is dropped even if the server call fails.
func (s *GRPCClient) Logout(ctx context.Context) error {
	defer s.setToken("")
	if _, err := s.client.Logout(ctx, &emptypb.Empty{}); err != nil {
		return fromStatus(err)
	}
	return nil
}

func (s *GRPCClient) ListPosts(ctx context.Context) ([]*Post, error) {
	resp, err := s.client.GetPosts(ctx, &emptypb.Empty{})
	if err != nil {
		return nil, fromStatus(err)
	}
	out := make([]*Post, 0, len(resp.Posts))
	for _, p := range resp.Posts {
		out = append(out, postFromPB(p))
	}
	return out, nil
}

func (s *GRPCClient) GetPost(ctx context.Context, id int64) (*Post, error) {
	resp, err := s.client.GetPost(ctx, &pb.GetPostRequest{Id: id})
	if err != nil {
		return nil, fromStatus(err)
	}
	return postFromPB(resp), nil
}

func (s *GRPCClient) CreatePost(ctx context.Context, title, content string) (*Post, error) {
	resp, err := s.client.CreatePost(ctx, &pb.CreatePostRequest{Title: title, Content: content})
	if err != nil {
		return nil, fromStatus(err)
	}
	return postFromPB(resp), nil
}

func (s *GRPCClient) UpdatePost(ctx context.Context, id int64, title, content string) (*Post, error) {
	resp, err := s.client.UpdatePost(ctx, &pb.UpdatePostRequest{Id: id, Title: title, Content: content})
	if err != nil {
		return nil, fromStatus(err)
	}
	return postFromPB(resp), nil
}

func (s *GRPCClient) DeletePost(ctx context.Context, id int64) error {
	if _, err := s.client.DeletePost(ctx, &pb.DeletePostRequest{Id: id}); err != nil {
		return fromStatus(err)
	}
	return nil
}

func postFromPB(p *pb.Post) *Post {
	created, _ := time.Parse(time.RFC3339, p.CreatedAt)
	return &Post{ID: p.Id, Title: p.Title, Content: p.Content, AuthorID: p.AuthorId, CreatedAt: created}
}

// fromStatus maps a status error back onto the common taxonomy.
func fromStatus(err error) error {
	st, ok := status.FromError(err)
	if !ok {
		return err
	}

	msg := st.Message()
	switch st.Code() {
	case codes.Unavailable, codes.DeadlineExceeded:
		return ErrUnavailable
	case codes.InvalidArgument:
		return common.Validation(strings.TrimPrefix(msg, "validation error: "))
	case codes.NotFound:
		return common.NotFound(strings.TrimPrefix(msg, "not found: "))
	case codes.AlreadyExists:
		return common.AlreadyExists(strings.TrimPrefix(msg, "already exists: "))
	case codes.PermissionDenied, codes.Unauthenticated:
		if msg == common.Forbidden().Error() {
			return common.Forbidden()
		}
		return common.Unauthorized()
	default:
		return common.Internal("%s: %s", st.Code(), msg)
	}
}
