package auth

import (
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/spec-kit/blog-service/pkg/util"
)

// HashPassword hashes a plaintext password with configured cost.
func HashPassword(password string, cost int) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), normalizeCost(cost))
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// ComparePassword verifies a password against its hashed value.
func ComparePassword(hashed, plain string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain))
}

func normalizeCost(cost int) int {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return bcrypt.DefaultCost
	}
	return cost
}

// OwnedContent describes who may mutate a piece of content.
// Exactly one of OwnerID (member content) or SecretHash (anonymous content) is set.
type OwnedContent struct {
	OwnerID    *int64
	SecretHash string
}

// OwnershipEngine guards content created without an account behind a caller-chosen secret.
type OwnershipEngine struct {
	cost int
}

// NewOwnershipEngine builds an engine hashing secrets with the given bcrypt cost.
func NewOwnershipEngine(cost int) *OwnershipEngine {
	return &OwnershipEngine{cost: normalizeCost(cost)}
}

// CreateWithSecret returns a salted one-way hash of the secret.
func (e *OwnershipEngine) CreateWithSecret(plainSecret string) (string, error) {
	if strings.TrimSpace(plainSecret) == "" {
		return "", apperrors.NewValidationError("password required", map[string]any{"field": "password"})
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plainSecret), e.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", apperrors.NewValidationError("password too long", map[string]any{"field": "password"})
		}
		return "", apperrors.NewInternalError(err)
	}
	return string(hash), nil
}

// Verify reports whether plainSecret matches the stored hash.
func (e *OwnershipEngine) Verify(plainSecret, storedHash string) bool {
	if plainSecret == "" || storedHash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(plainSecret)) == nil
}

// Authorize decides whether the caller may update or delete the content.
// Administrators always pass. Member content follows AuthorizeOwner; anonymous content requires the secret.
func (e *OwnershipEngine) Authorize(ac AuthContext, content OwnedContent, plainSecret string) error {
	if ac.IsAdmin() {
		return nil
	}
	if content.OwnerID != nil {
		return AuthorizeOwner(ac, *content.OwnerID)
	}
	if plainSecret == "" {
		return apperrors.NewValidationError("password required", map[string]any{"field": "password"})
	}
	if !e.Verify(plainSecret, content.SecretHash) {
		return apperrors.NewForbidden("password does not match")
	}
	return nil
}
