// Package rest is the REST front of the blog service.
package rest

import (
	"net/http"

	"github.com/dmitrijs2005/gophblog/internal/logging"
	"github.com/dmitrijs2005/gophblog/internal/server/guard"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const (
	apiBasePath  = "/api"
	authBasePath = "/auth"
	postBasePath = "/post"
	healthPath   = "/help/health"
)

const paramID = "id"

func NewRouter(logger logging.Logger, g *guard.Guard, authHandler *AuthHandler, postHandler *PostHandler) http.Handler {
	r := chi.NewRouter()

	// Middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.SetHeader("X-Content-Type-Options", "nosniff"))

	r.Route(apiBasePath, func(r chi.Router) {
		r.Get(healthPath, makeHandler(logger, authHandler.HandleHealth))

		r.Route(authBasePath, func(r chi.Router) {
			r.Post("/register", makeHandler(logger, authHandler.HandleRegister))
			r.Post("/login", makeHandler(logger, authHandler.HandleLogin))
			r.With(authenticate(g)).Post("/logout", makeHandler(logger, authHandler.HandleLogout))
		})

		r.Route(postBasePath, func(r chi.Router) {
			r.Use(authenticate(g))
			r.Get("/", makeHandler(logger, postHandler.HandleGetPosts))
			r.Post("/", makeHandler(logger, postHandler.HandleCreatePost))
			r.Route("/{"+paramID+"}", func(r chi.Router) {
				r.Get("/", makeHandler(logger, postHandler.HandleGetPost))
				r.Put("/", makeHandler(logger, postHandler.HandleUpdatePost))
				r.Delete("/", makeHandler(logger, postHandler.HandleDeletePost))
			})
		})
	})

	return r
}
