package auth

import (
	"context"
	"net/http"
	"strings"

	"hive-chat/errors"
)

type contextKey string

const (
	UserIDKey contextKey = "user_id"
	RolesKey  contextKey = "roles"
)

// Authenticate validates the token of an upgrade request. Browsers can't set
// headers on a websocket handshake, so the token query parameter is read
// first and the Authorization header second.
func Authenticate(tokens Tokens, r *http.Request) (*CustomClaims, error) {
	tokenStr := r.URL.Query().Get("token")
	if tokenStr == "" {
		// Expecting the standard "Bearer <token>" format
		tokenStr = strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	}
	if tokenStr == "" {
		return nil, errors.ErrInvalidToken
	}
	return tokens.Validate(tokenStr)
}

// WithClaims injects the user identity into ctx for downstream layers.
func WithClaims(ctx context.Context, claims *CustomClaims) context.Context {
	ctx = context.WithValue(ctx, UserIDKey, claims.UserID)
	return context.WithValue(ctx, RolesKey, claims.Roles)
}

func UserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(UserIDKey).(string)
	return userID, ok && userID != ""
}
