package auth

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

const bearerScheme = "Bearer"

// Resolver turns the Authorization header into an AuthContext once per request.
type Resolver struct {
	tokens  *TokenManager
	nowFunc func() time.Time
}

// NewResolver constructs a resolver backed by the token manager.
func NewResolver(tokens *TokenManager) *Resolver {
	return &Resolver{tokens: tokens, nowFunc: time.Now}
}

// Resolve never fails: missing, malformed, unverifiable or expired credentials all yield Anonymous.
func (r *Resolver) Resolve(rawCredential string) AuthContext {
	token, ok := bearerToken(rawCredential)
	if !ok {
		return Anonymous()
	}
	decoded, err := r.tokens.Decode(token)
	if err != nil {
		return Anonymous()
	}
	if r.tokens.IsExpired(decoded, r.nowFunc()) {
		return Anonymous()
	}
	return Identified(decoded.SubjectID, decoded.Role)
}

// Handle resolves the caller and publishes the AuthContext to locals and the user context.
// It never rejects a request; protected handlers decide through the policy functions.
func (r *Resolver) Handle(c *fiber.Ctx) error {
	ac := r.Resolve(c.Get(fiber.HeaderAuthorization))
	c.Locals(authContextKey, ac)
	c.SetUserContext(WithAuthContext(c.UserContext(), ac))
	return c.Next()
}

func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], bearerScheme) {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	if token == "" || strings.Count(token, ".") != 2 {
		return "", false
	}
	return token, true
}
