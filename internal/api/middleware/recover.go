package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/Brooklss/Tech-EcoLab/internal/errors"
	"github.com/Brooklss/Tech-EcoLab/internal/utils/response"
)

// Recover turns a panic in a handler into a 500 with the usual error body.
func Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				LoggerFromContext(r.Context()).Error("Panic recovered",
					"panic", rec,
					"stack", string(debug.Stack()),
				)
				response.Error(w, errors.InternalError("Internal server error"))
			}
		}()

		next.ServeHTTP(w, r)
	})
}
