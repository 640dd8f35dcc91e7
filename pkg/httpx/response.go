// Package httpx carries the HTTP plumbing shared by every route: the
// middleware-stacked router, JSON response helpers, and the health endpoint.
package httpx

import (
	"encoding/json"
	"net/http"
)

// JSON writes v with the given status. Encoding errors are dropped — by the
// time they can occur the status line is already on the wire.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// JSONError writes the project's {"error": message} error shape.
func JSONError(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}

// SafeError picks the message exposed to clients. Production 5xx responses
// get the generic status text instead of the internal error string.
func SafeError(err error, status int, isProduction bool) string {
	if isProduction && status >= http.StatusInternalServerError {
		return http.StatusText(status)
	}
	return err.Error()
}
