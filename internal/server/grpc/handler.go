package grpc

import (
	"context"
	"time"

	pb "github.com/dmitrijs2005/gophblog/internal/proto"
	"github.com/dmitrijs2005/gophblog/internal/server/errmap"
	"github.com/dmitrijs2005/gophblog/internal/server/guard"
	"github.com/dmitrijs2005/gophblog/internal/server/models"
	"google.golang.org/protobuf/types/known/emptypb"
)

func toPB(p *models.Post) *pb.Post {
	return &pb.Post{
		Id:        p.ID,
		Title:     p.Title,
		Content:   p.Content,
		AuthorId:  p.AuthorID,
		CreatedAt: p.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func (s *GRPCServer) Register(ctx context.Context, req *pb.RegisterRequest) (*pb.RegisterResponse, error) {
	user, err := s.auth.Register(ctx, req.Email, req.Username, req.Password)
	if err != nil {
		return nil, errmap.ToGRPC(err)
	}
	return &pb.RegisterResponse{UserId: user.ID, Email: user.Email}, nil
}

func (s *GRPCServer) Login(ctx context.Context, req *pb.LoginRequest) (*pb.LoginResponse, error) {
	email := req.Username
	if email == "" {
		email = req.Email
	}

	token, err := s.auth.Login(ctx, email, req.Password)
	if err != nil {
		return nil, errmap.ToGRPC(err)
	}
	return &pb.LoginResponse{AccessToken: token}, nil
}

func (s *GRPCServer) Logout(ctx context.Context, _ *emptypb.Empty) (*emptypb.Empty, error) {
	principal, err := guard.RequirePrincipal(ctx)
	if err != nil {
		return nil, errmap.ToGRPC(err)
	}
	if err := s.auth.Logout(ctx, principal); err != nil {
		return nil, errmap.ToGRPC(err)
	}
	return &emptypb.Empty{}, nil
}

func (s *GRPCServer) CreatePost(ctx context.Context, req *pb.CreatePostRequest) (*pb.Post, error) {
	principal, err := guard.RequirePrincipal(ctx)
	if err != nil {
		return nil, errmap.ToGRPC(err)
	}
	post, err := s.posts.Create(ctx, req.Title, req.Content, principal)
	if err != nil {
		return nil, errmap.ToGRPC(err)
	}
	return toPB(post), nil
}

func (s *GRPCServer) GetPost(ctx context.Context, req *pb.GetPostRequest) (*pb.Post, error) {
	if _, err := guard.RequirePrincipal(ctx); err != nil {
		return nil, errmap.ToGRPC(err)
	}
	post, err := s.posts.Get(ctx, req.Id)
	if err != nil {
		return nil, errmap.ToGRPC(err)
	}
	return toPB(post), nil
}

func (s *GRPCServer) GetPosts(ctx context.Context, _ *emptypb.Empty) (*pb.GetPostsResponse, error) {
	if _, err := guard.RequirePrincipal(ctx); err != nil {
		return nil, errmap.ToGRPC(err)
	}
	list, err := s.posts.List(ctx)
	if err != nil {
		return nil, errmap.ToGRPC(err)
	}

	out := make([]*pb.Post, 0, len(list))
	for _, p := range list {
		out = append(out, toPB(p))
	}
	return &pb.GetPostsResponse{Posts: out}, nil
}

func (s *GRPCServer) UpdatePost(ctx context.Context, req *pb.UpdatePostRequest) (*pb.Post, error) {
	principal, err := guard.RequirePrincipal(ctx)
	if err != nil {
		return nil, errmap.ToGRPC(err)
	}
	post, err := s.posts.Update(ctx, req.Id, req.Title, req.Content, principal)
	if err != nil {
		return nil, errmap.ToGRPC(err)
	}
	return toPB(post), nil
}

func (s *GRPCServer) DeletePost(ctx context.Context, req *pb.DeletePostRequest) (*emptypb.Empty, error) {
	principal, err := guard.RequirePrincipal(ctx)
	if err != nil {
		return nil, errmap.ToGRPC(err)
	}
	if err := s.posts.Delete(ctx, req.Id, principal); err != nil {
		return nil, errmap.ToGRPC(err)
	}
	return &emptypb.Empty{}, nil
}
