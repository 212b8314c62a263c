package auth

import (
	"github.com/spec-kit/blog-service/internal/domain"
	apperrors "github.com/spec-kit/blog-service/pkg/util"
)

// CanMutateOwnedResource allows administrators and the owner of the resource.
func CanMutateOwnedResource(ac AuthContext, resourceOwnerID int64) bool {
	if !ac.IsIdentified() {
		return false
	}
	return ac.Role() == domain.RoleAdmin || ac.SubjectID() == resourceOwnerID
}

// RequireRole reports whether the caller is identified with exactly the given role.
func RequireRole(ac AuthContext, role domain.Role) bool {
	return ac.IsIdentified() && ac.Role() == role
}

// RequireIdentified fails with Unauthenticated for anonymous callers.
func RequireIdentified(ac AuthContext) error {
	if !ac.IsIdentified() {
		return apperrors.NewUnauthenticated("authentication required")
	}
	return nil
}

// AuthorizeOwner distinguishes an anonymous caller (Unauthenticated) from an identified non-owner (Forbidden).
func AuthorizeOwner(ac AuthContext, resourceOwnerID int64) error {
	if err := RequireIdentified(ac); err != nil {
		return err
	}
	if !CanMutateOwnedResource(ac, resourceOwnerID) {
		return apperrors.NewForbidden("only the owner or an administrator may modify this resource")
	}
	return nil
}

// AuthorizeRole distinguishes an anonymous caller (Unauthenticated) from a caller lacking the role (Forbidden).
func AuthorizeRole(ac AuthContext, role domain.Role) error {
	if err := RequireIdentified(ac); err != nil {
		return err
	}
	if !RequireRole(ac, role) {
		return apperrors.NewForbidden("insufficient role")
	}
	return nil
}
