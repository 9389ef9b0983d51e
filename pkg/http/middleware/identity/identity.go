package identity

import (
	"context"
	"net/http"
	"strconv"
)

// Role is a caller role carried on the request headers. The gateway in front
// of this service authenticates callers and forwards their identity.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleStaff    Role = "staff"
	RoleAdmin    Role = "admin"
)

// Staff reports whether the role may act on any order.
func (r Role) Staff() bool {
	return r == RoleStaff || r == RoleAdmin
}

// Identity is the caller parsed from X-User-ID and X-User-Role. A nil UserID
// means an anonymous caller.
type Identity struct {
	UserID *int64
	Role   Role
}

type contextKey struct{}

// FromContext returns the identity stored by the middleware. The zero
// Identity is returned for requests that did not pass through it.
func FromContext(ctx context.Context) Identity {
	id, _ := ctx.Value(contextKey{}).(Identity)

	return id
}

// NewIdentityMiddleware parses the identity headers into the request
// context. Malformed values are treated as absent rather than rejected;
// authorization happens in the handlers.
func NewIdentityMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := Identity{Role: RoleCustomer}

		if raw := r.Header.Get("X-User-ID"); raw != "" {
			if parsed, err := strconv.ParseInt(raw, 10, 64); err == nil && parsed > 0 {
				id.UserID = &parsed
			}
		}

		switch Role(r.Header.Get("X-User-Role")) {
		case RoleStaff:
			id.Role = RoleStaff
		case RoleAdmin:
			id.Role = RoleAdmin
		}

		ctx := context.WithValue(r.Context(), contextKey{}, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
