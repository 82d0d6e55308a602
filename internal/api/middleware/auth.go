// Package middleware holds the HTTP middleware of the API. Identity is
// taken from gateway-injected headers; this service performs no
// authentication of its own.
package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/ashish9800079/turf-booking-plugin-sub000/internal/api/handlers"
)

type contextKey string

const (
	userIDKey contextKey = "userID"
	adminKey  contextKey = "isAdmin"

	headerUserID = "X-User-ID"
	headerAdmin  = "X-Admin"
)

// Auth requires a valid X-User-ID header and stores the caller identity
// in the request context. X-Admin: true marks an administrator.
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userIDStr := r.Header.Get(headerUserID)
		if userIDStr == "" {
			handlers.RespondUnauthorized(w, "missing "+headerUserID+" header")
			return
		}

		userID, err := strconv.ParseInt(userIDStr, 10, 64)
		if err != nil || userID <= 0 {
			handlers.RespondUnauthorized(w, "invalid "+headerUserID+" header")
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, userID)
		ctx = context.WithValue(ctx, adminKey, r.Header.Get(headerAdmin) == "true")

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetUserID returns the authenticated user id from the context.
func GetUserID(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(userIDKey).(int64)
	return id, ok
}

// IsAdmin reports whether the caller is an administrator.
func IsAdmin(ctx context.Context) bool {
	admin, ok := ctx.Value(adminKey).(bool)
	return ok && admin
}
