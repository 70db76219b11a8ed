package auth

import (
	"context"
	"net/http"
)

type ctxKey int

const (
	userIDKey ctxKey = iota
	roleKey
)

// Identity is resolved upstream by the gateway; this service trusts the
// forwarded headers without re-verifying credentials.
const (
	HeaderUserID = "X-User-Id"
	HeaderRole   = "X-User-Role"
)

func GetUserID(ctx context.Context) string {
	if val, ok := ctx.Value(userIDKey).(string); ok {
		return val
	}
	return ""
}

func GetRole(ctx context.Context) string {
	if val, ok := ctx.Value(roleKey).(string); ok {
		return val
	}
	return ""
}

func WithIdentity(ctx context.Context, userID, role string) context.Context {
	ctx = context.WithValue(ctx, userIDKey, userID)
	return context.WithValue(ctx, roleKey, role)
}

// Middleware copies the gateway identity headers onto the request context.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := WithIdentity(r.Context(), r.Header.Get(HeaderUserID), r.Header.Get(HeaderRole))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
