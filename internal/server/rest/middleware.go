package rest

import (
	"net/http"
	"time"

	"github.com/dmitrijs2005/gophblog/internal/common"
	"github.com/dmitrijs2005/gophblog/internal/logging"
	"github.com/dmitrijs2005/gophblog/internal/server/errmap"
	"github.com/dmitrijs2005/gophblog/internal/server/guard"
	"github.com/go-chi/chi/v5/middleware"
)

// requestLogger writes one line per request after it completes.
func requestLogger(logger logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			logger.Info(r.Context(), "http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", status,
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}

// authenticate runs the guard and stores the principal in the request
// context. Rejected requests never reach next.
func authenticate(g *guard.Guard) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, err := g.Resolve(r.Context(), r.Header.Get(common.AuthorizationHeaderName))
			if err != nil {
				code, body := errmap.ToHTTP(err)
				respondWithJSON(w, code, body)
				return
			}
			next.ServeHTTP(w, r.WithContext(guard.WithPrincipal(r.Context(), principal)))
		})
	}
}
