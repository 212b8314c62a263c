package auth

import (
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/blog-service/internal/domain"
)

var issueTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func TestIssueDecodeRoundTrip(t *testing.T) {
	tm := NewTokenManager("test-secret", 30*time.Minute)

	for _, role := range []domain.Role{domain.RoleUser, domain.RoleAdmin} {
		token, exp, err := tm.Issue(42, role, issueTime)
		require.NoError(t, err)
		assert.Equal(t, issueTime.Add(30*time.Minute), exp.UTC())

		decoded, err := tm.Decode(token)
		require.NoError(t, err)
		assert.Equal(t, int64(42), decoded.SubjectID)
		assert.Equal(t, role, decoded.Role)
		assert.True(t, decoded.ExpiresAt.After(decoded.IssuedAt))
		assert.False(t, tm.IsExpired(decoded, issueTime))
		assert.False(t, tm.IsExpired(decoded, issueTime.Add(30*time.Minute-time.Second)))
	}
}

func TestIsExpiredAtBoundary(t *testing.T) {
	tm := NewTokenManager("test-secret", time.Minute)
	token, _, err := tm.Issue(7, domain.RoleUser, issueTime)
	require.NoError(t, err)

	decoded, err := tm.Decode(token)
	require.NoError(t, err)
	assert.True(t, tm.IsExpired(decoded, issueTime.Add(time.Minute)))
	assert.True(t, tm.IsExpired(decoded, issueTime.Add(time.Hour)))
}

func TestDecodeDoesNotRejectExpiredTokens(t *testing.T) {
	tm := NewTokenManager("test-secret", time.Minute)
	token, _, err := tm.Issue(7, domain.RoleUser, issueTime.Add(-24*time.Hour))
	require.NoError(t, err)

	decoded, err := tm.Decode(token)
	require.NoError(t, err)
	assert.True(t, tm.IsExpired(decoded, time.Now()))
}

func TestDecodeRejectsTamperedTokens(t *testing.T) {
	tm := NewTokenManager("test-secret", time.Hour)
	token, _, err := tm.Issue(5, domain.RoleUser, issueTime)
	require.NoError(t, err)

	for i := 0; i < len(token); i++ {
		replacement := byte('A')
		if token[i] == 'A' {
			replacement = 'B'
		}
		tampered := token[:i] + string(replacement) + token[i+1:]
		_, err := tm.Decode(tampered)
		require.ErrorIs(t, err, ErrInvalidToken, "tampered byte %d decoded successfully", i)
	}
}

func TestDecodeRejectsForeignAndMalformedTokens(t *testing.T) {
	tm := NewTokenManager("test-secret", time.Hour)
	other := NewTokenManager("other-secret", time.Hour)

	foreign, _, err := other.Issue(5, domain.RoleAdmin, issueTime)
	require.NoError(t, err)

	noneToken, err := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{
		Role: domain.RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "1",
			IssuedAt:  jwt.NewNumericDate(issueTime),
			ExpiresAt: jwt.NewNumericDate(issueTime.Add(time.Hour)),
		},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	for name, raw := range map[string]string{
		"foreign key": foreign,
		"alg none":    noneToken,
		"empty":       "",
		"garbage":     "not-a-token",
		"two parts":   "abc.def",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := tm.Decode(raw)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestDecodeRejectsInvalidClaims(t *testing.T) {
	tm := NewTokenManager("test-secret", time.Hour)

	sign := func(claims *Claims) string {
		s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
		require.NoError(t, err)
		return s
	}
	valid := func() *Claims {
		return &Claims{
			Role: domain.RoleUser,
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   "9",
				IssuedAt:  jwt.NewNumericDate(issueTime),
				ExpiresAt: jwt.NewNumericDate(issueTime.Add(time.Hour)),
			},
		}
	}

	tests := map[string]func(c *Claims){
		"non numeric subject": func(c *Claims) { c.Subject = "abc" },
		"zero subject":        func(c *Claims) { c.Subject = "0" },
		"unknown role":        func(c *Claims) { c.Role = "ROOT" },
		"missing expiry":      func(c *Claims) { c.ExpiresAt = nil },
		"missing issued at":   func(c *Claims) { c.IssuedAt = nil },
		"expiry before issue": func(c *Claims) { c.ExpiresAt = jwt.NewNumericDate(issueTime.Add(-time.Minute)) },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			claims := valid()
			mutate(claims)
			_, err := tm.Decode(sign(claims))
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestIssueRejectsUnknownRole(t *testing.T) {
	tm := NewTokenManager("test-secret", time.Hour)
	_, _, err := tm.Issue(1, domain.Role("ROOT"), issueTime)
	assert.Error(t, err)
}
