package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/utafrali/storefront/pkg/logger"
)

// UserIDHeader names the basket owner. The mock API has no authentication.
const UserIDHeader = "X-User-ID"

// GuestUserID owns the basket of requests that send no X-User-ID.
const GuestUserID = "guest"

// Identity resolves the basket owner from X-User-ID, defaulting to guest,
// and stores it in the request context.
func Identity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := strings.TrimSpace(r.Header.Get(UserIDHeader))
		if userID == "" {
			userID = GuestUserID
		}
		next.ServeHTTP(w, r.WithContext(logger.WithUserID(r.Context(), userID)))
	})
}

// UserIDFromContext returns the basket owner resolved by Identity, or guest.
func UserIDFromContext(ctx context.Context) string {
	if id := logger.UserIDFromContext(ctx); id != "" {
		return id
	}
	return GuestUserID
}
