package rest

import (
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/gophblog/internal/common"
	"github.com/dmitrijs2005/gophblog/internal/server/guard"
	"github.com/dmitrijs2005/gophblog/internal/server/models"
	"github.com/dmitrijs2005/gophblog/internal/server/services"
	"github.com/go-chi/chi/v5"
)

type PostHandler struct {
	posts *services.PostService
}

func NewPostHandler(ps *services.PostService) *PostHandler {
	return &PostHandler{posts: ps}
}

// postRequest has no author field; the author is always the caller.
type postRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

func postID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, paramID), 10, 64)
	if err != nil {
		return 0, common.Validation("invalid post id")
	}
	return id, nil
}

func (h *PostHandler) HandleCreatePost(w http.ResponseWriter, r *http.Request) error {
	principal, err := guard.RequirePrincipal(r.Context())
	if err != nil {
		return err
	}

	var req postRequest
	if err := decodeJSON(r, &req); err != nil {
		return common.Validation("invalid request body")
	}

	post, err := h.posts.Create(r.Context(), req.Title, req.Content, principal)
	if err != nil {
		return err
	}

	respondWithJSON(w, http.StatusCreated, post)
	return nil
}

func (h *PostHandler) HandleGetPosts(w http.ResponseWriter, r *http.Request) error {
	list, err := h.posts.List(r.Context())
	if err != nil {
		return err
	}
	if list == nil {
		list = []*models.Post{}
	}

	respondWithJSON(w, http.StatusOK, list)
	return nil
}

func (h *PostHandler) HandleGetPost(w http.ResponseWriter, r *http.Request) error {
	id, err := postID(r)
	if err != nil {
		return err
	}

	post, err := h.posts.Get(r.Context(), id)
	if err != nil {
		return err
	}

	respondWithJSON(w, http.StatusOK, post)
	return nil
}

func (h *PostHandler) HandleUpdatePost(w http.ResponseWriter, r *http.Request) error {
	principal, err := guard.RequirePrincipal(r.Context())
	if err != nil {
		return err
	}
	id, err := postID(r)
	if err != nil {
		return err
	}

	var req postRequest
	if err := decodeJSON(r, &req); err != nil {
		return common.Validation("invalid request body")
	}

	post, err := h.posts.Update(r.Context(), id, req.Title, req.Content, principal)
	if err != nil {
		return err
	}

	respondWithJSON(w, http.StatusOK, post)
	return nil
}

func (h *PostHandler) HandleDeletePost(w http.ResponseWriter, r *http.Request) error {
	principal, err := guard.RequirePrincipal(r.Context())
	if err != nil {
		return err
	}
	id, err := postID(r)
	if err != nil {
		return err
	}

	if err := h.posts.Delete(r.Context(), id, principal); err != nil {
		return err
	}

	w.WriteHeader(http.StatusNoContent)
	return nil
}
