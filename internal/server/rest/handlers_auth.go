package rest

import (
	"net/http"
	"time"

	"github.com/dmitrijs2005/gophblog/internal/common"
	"github.com/dmitrijs2005/gophblog/internal/server/guard"
	"github.com/dmitrijs2005/gophblog/internal/server/services"
)

type AuthHandler struct {
	auth *services.AuthService
	now  func() time.Time
}

func NewAuthHandler(as *services.AuthService) *AuthHandler {
	return &AuthHandler{auth: as, now: time.Now}
}

type registerRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type registerResponse struct {
	UserID int64  `json:"user_id"`
	Email  string `json:"email"`
}

// loginRequest takes the email in username; email is an alias.
type loginRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken string `json:"access_token"`
}

type healthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) error {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		return common.Validation("invalid request body")
	}

	user, err := h.auth.Register(r.Context(), req.Email, req.Username, req.Password)
	if err != nil {
		return err
	}

	respondWithJSON(w, http.StatusCreated, registerResponse{UserID: user.ID, Email: user.Email})
	return nil
}

func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) error {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		return common.Validation("invalid request body")
	}

	email := req.Username
	if email == "" {
		email = req.Email
	}

	token, err := h.auth.Login(r.Context(), email, req.Password)
	if err != nil {
		return err
	}

	respondWithJSON(w, http.StatusOK, loginResponse{AccessToken: token})
	return nil
}

func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) error {
	principal, err := guard.RequirePrincipal(r.Context())
	if err != nil {
		return err
	}
	if err := h.auth.Logout(r.Context(), principal); err != nil {
		return err
	}

	w.WriteHeader(http.StatusNoContent)
	return nil
}

func (h *AuthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) error {
	respondWithJSON(w, http.StatusOK, healthResponse{
		Status:    "ok",
		Timestamp: h.now().UTC().Format(time.RFC3339),
	})
	return nil
}
