package utils

import (
	"context"
)

type contextKey string

const (
	AdminKey contextKey = "admin_username"
)

func SetAdminContext(ctx context.Context, username string) context.Context {
	return context.WithValue(ctx, AdminKey, username)
}

func GetAdminFromContext(ctx context.Context) (string, bool) {
	adminVal := ctx.Value(AdminKey)
	if adminVal == nil {
		return "", false
	}

	username, ok := adminVal.(string)
	return username, ok && username != ""
}
