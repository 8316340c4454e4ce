package services

import (
	"context"
	"errors"
	"strings"

	"github.com/dmitrijs2005/gophblog/internal/common"
	"github.com/dmitrijs2005/gophblog/internal/logging"
	"github.com/dmitrijs2005/gophblog/internal/server/models"
	"github.com/dmitrijs2005/gophblog/internal/server/repositories/posts"
	"github.com/go-playground/validator/v10"
)

// PostService implements post CRUD. Reads are open to any principal;
// update and delete are restricted to the post's author.
//
// The ownership check and the write are separate repository calls, so two
// concurrent mutations by the author race and the last write wins.
type PostService struct {
	posts    posts.Repository
	validate *validator.Validate
	logger   logging.Logger
}

func NewPostService(repo posts.Repository, logger logging.Logger) *PostService {
	return &PostService{
		posts:    repo,
		validate: newValidator(),
		logger:   logger.With("module", "post_service"),
	}
}

// Create stores a post authored by the principal.
func (s *PostService) Create(ctx context.Context, title, content string, principal *models.Principal) (*models.Post, error) {
	if principal == nil {
		return nil, common.Unauthorized()
	}
	in, err := s.input(title, content)
	if err != nil {
		return nil, err
	}

	post, err := s.posts.Create(ctx, &models.NewPost{Title: in.Title, Content: in.Content, AuthorID: principal.ID})
	if err != nil {
		s.logger.Error(ctx, "post create failed", "error", err)
		return nil, common.Internal("create post: %w", err)
	}
	return post, nil
}

func (s *PostService) List(ctx context.Context) ([]*models.Post, error) {
	list, err := s.posts.FindAll(ctx)
	if err != nil {
		s.logger.Error(ctx, "post list failed", "error", err)
		return nil, common.Internal("list posts: %w", err)
	}
	if list == nil {
		list = []*models.Post{}
	}
	return list, nil
}

func (s *PostService) Get(ctx context.Context, id int64) (*models.Post, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	post, err := s.posts.FindByID(ctx, id)
	if err != nil {
		return nil, s.translate(ctx, err, "find post")
	}
	return post, nil
}

// Update replaces title and content. The author never changes. Input is
// validated only once the post is known to belong to principal.
func (s *PostService) Update(ctx context.Context, id int64, title, content string, principal *models.Principal) (*models.Post, error) {
	if err := s.authorize(ctx, id, principal); err != nil {
		return nil, err
	}
	in, err := s.input(title, content)
	if err != nil {
		return nil, err
	}

	post, err := s.posts.Update(ctx, id, &models.NewPost{Title: in.Title, Content: in.Content, AuthorID: principal.ID})
	if err != nil {
		return nil, s.translate(ctx, err, "update post")
	}
	return post, nil
}

// Delete removes the post. Deleting a missing post is NotFound.
func (s *PostService) Delete(ctx context.Context, id int64, principal *models.Principal) error {
	if err := s.authorize(ctx, id, principal); err != nil {
		return err
	}
	if _, err := s.posts.Delete(ctx, id); err != nil {
		return s.translate(ctx, err, "delete post")
	}
	return nil
}

// authorize loads the post and checks that principal wrote it.
func (s *PostService) authorize(ctx context.Context, id int64, principal *models.Principal) error {
	if principal == nil {
		return common.Unauthorized()
	}
	if err := checkID(id); err != nil {
		return err
	}
	post, err := s.posts.FindByID(ctx, id)
	if err != nil {
		return s.translate(ctx, err, "find post")
	}
	if post.AuthorID != principal.ID {
		s.logger.Warn(ctx, "post ownership mismatch", "post_id", id, "user_id", principal.ID)
		return common.Forbidden()
	}
	return nil
}

// checkID rejects ids the store can never assign.
func checkID(id int64) error {
	if id <= 0 {
		return common.Validation("invalid post id")
	}
	return nil
}

func (s *PostService) input(title, content string) (postInput, error) {
	in := postInput{Title: strings.TrimSpace(title), Content: content}
	if err := s.validate.Struct(in); err != nil {
		return in, validationError(err)
	}
	return in, nil
}

func (s *PostService) translate(ctx context.Context, err error, op string) error {
	if errors.Is(err, common.ErrRecordNotFound) {
		return common.NotFound("post")
	}
	s.logger.Error(ctx, op+" failed", "error", err)
	return common.Internal("%s: %w", op, err)
}
