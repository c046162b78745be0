package middleware

import (
	"context"

	"github.com/ZeyadW/Apartment-Finder/internal/apartment/domain"
)

// ContextKey is a private key type so request-scoped values cannot collide
// with other packages.
type ContextKey string

const (
	UserIDCtxKey    = ContextKey("user_id")
	UserEmailCtxKey = ContextKey("user_email")
	UserRoleCtxKey  = ContextKey("user_role")
)

// PrincipalFromContext reconstructs the caller. Requests that never passed
// an auth middleware come back as the anonymous principal.
func PrincipalFromContext(ctx context.Context) domain.Principal {
	p := domain.Principal{Role: domain.RoleAnonymous}
	if id, ok := ctx.Value(UserIDCtxKey).(string); ok {
		p.ID = id
	}
	if email, ok := ctx.Value(UserEmailCtxKey).(string); ok {
		p.Email = email
	}
	if role, ok := ctx.Value(UserRoleCtxKey).(string); ok && role != "" {
		p.Role = domain.Role(role)
	}
	return p
}
