package middleware

import (
	"context"
	"net/http"
)

// ContextKey is the type for context keys.
type ContextKey string

// UserIDContextKey is the context key for the tenant user id.
const UserIDContextKey ContextKey = "user_id"

// UserIDHeader carries the tenant identity. Authentication happens upstream;
// this service trusts the header and scopes every query by it.
const UserIDHeader = "X-User-ID"

// Tenant extracts the tenant identity and rejects requests without one.
func Tenant(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := r.Header.Get(UserIDHeader)
		if userID == "" {
			http.Error(w, "missing "+UserIDHeader+" header", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), UserIDContextKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// UserIDFromContext extracts the tenant user id from context.
func UserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(UserIDContextKey).(string)
	return userID, ok && userID != ""
}
