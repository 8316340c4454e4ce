package rest

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/gophblog/internal/common"
	"github.com/dmitrijs2005/gophblog/internal/logging"
	"github.com/dmitrijs2005/gophblog/internal/server/errmap"
	"github.com/go-chi/chi/v5/middleware"
)

// appHandler is a handler that reports failures by returning a domain error.
type appHandler func(w http.ResponseWriter, r *http.Request) error

// makeHandler adapts an appHandler and encodes a returned error with
// errmap.ToHTTP. Internal causes are logged, never sent.
func makeHandler(logger logging.Logger, h appHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := h(w, r)
		if err == nil {
			return
		}

		code, body := errmap.ToHTTP(err)
		args := []any{
			"code", code,
			"path", r.URL.Path,
			"method", r.Method,
			"request_id", middleware.GetReqID(r.Context()),
		}
		if common.KindOf(err) == common.KindInternal {
			logger.Error(r.Context(), "request failed", append(args, "cause", errors.Unwrap(common.AsError(err)))...)
		} else {
			logger.Debug(r.Context(), "client error response", append(args, "error", err)...)
		}

		respondWithJSON(w, code, body)
	}
}
