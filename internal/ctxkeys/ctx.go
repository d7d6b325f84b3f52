package ctxkeys

import (
	"context"

	"github.com/habitmatrix/habitmatrix/internal/model"
)

type contextKey string

const userKey contextKey = "user"

// WithUser stores the authenticated user in the request context.
func WithUser(ctx context.Context, user *model.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// User returns the authenticated user, or nil for anonymous requests.
func User(ctx context.Context) *model.User {
	user, ok := ctx.Value(userKey).(*model.User)
	if !ok {
		return nil
	}
	return user
}
