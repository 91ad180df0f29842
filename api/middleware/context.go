package middleware

import (
	"context"

	"github.com/google/uuid"

	"github.com/distributech/distributech-backend/pkg/enums"
)

type contextKey string

const (
	ctxUserID       contextKey = "user_id"
	ctxUsername     contextKey = "username"
	ctxRole         contextKey = "actor_role"
	ctxDepartmentID contextKey = "department_id"
)

func UserIDFromContext(ctx context.Context) uuid.UUID {
	if ctx == nil {
		return uuid.Nil
	}
	if v, ok := ctx.Value(ctxUserID).(uuid.UUID); ok {
		return v
	}
	return uuid.Nil
}

func UsernameFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxUsername).(string); ok {
		return v
	}
	return ""
}

func RoleFromContext(ctx context.Context) enums.Role {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxRole).(enums.Role); ok {
		return v
	}
	return ""
}

func DepartmentIDFromContext(ctx context.Context) *uuid.UUID {
	if ctx == nil {
		return nil
	}
	if v, ok := ctx.Value(ctxDepartmentID).(uuid.UUID); ok {
		return &v
	}
	return nil
}

// WithActor seeds the context the way the auth middleware does; used by
// handler tests.
func WithActor(ctx context.Context, userID uuid.UUID, username string, role enums.Role, departmentID *uuid.UUID) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = context.WithValue(ctx, ctxUserID, userID)
	ctx = context.WithValue(ctx, ctxUsername, username)
	ctx = context.WithValue(ctx, ctxRole, role)
	if departmentID != nil {
		ctx = context.WithValue(ctx, ctxDepartmentID, *departmentID)
	}
	return ctx
}
