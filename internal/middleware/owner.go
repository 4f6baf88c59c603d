package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

// DefaultOwnerID is the single-user default used when no X-Owner-ID header is set.
const DefaultOwnerID = "00000000-0000-0000-0000-000000000000"

const headerOwnerID = "X-Owner-ID"

type ownerCtxKey struct{}

// OwnerID is middleware that extracts the owner ID from the X-Owner-ID header
// and stores it in the request context. An absent or malformed header falls
// back to DefaultOwnerID; owner IDs must be UUIDs to reach the store layer.
func OwnerID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		oid := r.Header.Get(headerOwnerID)
		if _, err := uuid.Parse(oid); err != nil {
			oid = DefaultOwnerID
		}
		ctx := context.WithValue(r.Context(), ownerCtxKey{}, oid)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// OwnerIDFromContext returns the owner ID stored in ctx, or DefaultOwnerID if absent.
func OwnerIDFromContext(ctx context.Context) string {
	if oid, ok := ctx.Value(ownerCtxKey{}).(string); ok {
		return oid
	}
	return DefaultOwnerID
}
