package auth

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/blog-service/internal/domain"
)

const authContextKey = "auth_context"

type ctxKeyAuth struct{}

// AuthContext is the caller identity for a single request: anonymous, or an identified member.
type AuthContext struct {
	identified bool
	subjectID  int64
	role       domain.Role
}

// Anonymous returns the context for a caller without a valid credential.
func Anonymous() AuthContext {
	return AuthContext{}
}

// Identified returns the context for an authenticated member.
func Identified(subjectID int64, role domain.Role) AuthContext {
	return AuthContext{identified: true, subjectID: subjectID, role: role}
}

// IsIdentified reports whether the caller presented a valid, unexpired token.
func (a AuthContext) IsIdentified() bool {
	return a.identified
}

// SubjectID returns the member id; zero for anonymous callers.
func (a AuthContext) SubjectID() int64 {
	return a.subjectID
}

// Role returns the member role; empty for anonymous callers.
func (a AuthContext) Role() domain.Role {
	return a.role
}

// IsAdmin reports whether the caller is an identified administrator.
func (a AuthContext) IsAdmin() bool {
	return a.identified && a.role == domain.RoleAdmin
}

// WithAuthContext stores the resolved identity on a request context.
func WithAuthContext(ctx context.Context, ac AuthContext) context.Context {
	return context.WithValue(ctx, ctxKeyAuth{}, ac)
}

// FromContext returns the identity resolved for this request, or Anonymous when none was stored.
func FromContext(ctx context.Context) AuthContext {
	if ctx == nil {
		return Anonymous()
	}
	ac, ok := ctx.Value(ctxKeyAuth{}).(AuthContext)
	if !ok {
		return Anonymous()
	}
	return ac
}

// FromFiber returns the identity resolved by Resolver.Handle for this request.
func FromFiber(c *fiber.Ctx) AuthContext {
	if ac, ok := c.Locals(authContextKey).(AuthContext); ok {
		return ac
	}
	return FromContext(c.UserContext())
}
