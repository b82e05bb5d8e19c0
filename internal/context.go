package internal

import (
	"context"
)

type contextKey string

// UserContextKey carries the authenticated staff identity through a request.
const UserContextKey contextKey = "user"

type Identity interface {
	GetUsername() string
	GetRole() string
}

// GetUserFromContext extracts the authenticated staff identity from request context
func GetUserFromContext(ctx context.Context) (Identity, bool) {
	userData := ctx.Value(UserContextKey)
	if userData == nil {
		return nil, false
	}

	identity, ok := userData.(Identity)
	if !ok {
		return nil, false
	}

	return identity, true
}
