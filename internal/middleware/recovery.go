package middleware

import (
	"log"
	"net/http"
	"runtime/debug"

	"spectres-crm/internal/metrics"
	"spectres-crm/pkg/utils"
)

// PanicRecovery turns a handler panic into a JSON 500. The panic value and
// stack go to the log only; the caller never sees them.
func PanicRecovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			// Let net/http abort the response as it does for an unrecovered ErrAbortHandler
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			metrics.HTTPPanicsTotal.Inc()
			user := "anonymous"
			if u, ok := UserFromContext(r.Context()); ok {
				user = u.Email
			}
			log.Printf("[HTTP] PANIC RECOVERED on %s %s (user: %s): %v\n%s", r.Method, sanitizePath(r.URL.Path), user, rec, debug.Stack())
			utils.RespondError(w, http.StatusInternalServerError, "Internal server error")
		}()

		next.ServeHTTP(w, r)
	})
}
