package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/blog-service/internal/auth"
	"github.com/spec-kit/blog-service/internal/config"
	"github.com/spec-kit/blog-service/internal/domain"
	apperrors "github.com/spec-kit/blog-service/pkg/util"
)

func newAuthService(users *memoryUsers) (*AuthService, *auth.TokenManager) {
	tm := auth.NewTokenManager("test-secret", time.Hour)
	svc := NewAuthService(config.AuthConfig{BcryptCost: bcrypt.MinCost}, users, tm, nil)
	return svc, tm
}

func TestRegisterAndLogin(t *testing.T) {
	users := &memoryUsers{}
	svc, tm := newAuthService(users)
	ctx := context.Background()

	res, err := svc.Register(ctx, " Alice@Example.com ", "correct-horse", "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", res.User.Email)
	assert.Equal(t, domain.RoleUser, res.User.Role)
	assert.NotEqual(t, "correct-horse", res.User.PasswordHash)

	decoded, err := tm.Decode(res.Token)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, decoded.SubjectID)
	assert.Equal(t, domain.RoleUser, decoded.Role)

	login, err := svc.Login(ctx, "alice@example.com", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, login.User.ID)

	_, err = svc.Login(ctx, "alice@example.com", "wrong-password")
	assert.ErrorIs(t, err, apperrors.ErrUnauthenticated)
	_, err = svc.Login(ctx, "nobody@example.com", "correct-horse")
	assert.ErrorIs(t, err, apperrors.ErrUnauthenticated)
}

func TestLoginUnknownEmailStillComparesHash(t *testing.T) {
	svc, _ := newAuthService(&memoryUsers{})
	assert.Empty(t, svc.dummy)

	_, err := svc.Login(context.Background(), "ghost@example.com", "whatever-pass")
	assert.ErrorIs(t, err, apperrors.ErrUnauthenticated)

	require.NotEmpty(t, svc.dummy)
	cost, err := bcrypt.Cost([]byte(svc.dummy))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.MinCost, cost)
}

func TestRegisterValidation(t *testing.T) {
	svc, _ := newAuthService(&memoryUsers{})
	ctx := context.Background()

	tests := []struct {
		name     string
		email    string
		password string
		nickname string
	}{
		{name: "bad email", email: "not-an-email", password: "long-enough", nickname: "bob"},
		{name: "short password", email: "bob@example.com", password: "short", nickname: "bob"},
		{name: "no nickname", email: "bob@example.com", password: "long-enough", nickname: "  "},
		{name: "long email", email: strings.Repeat("b", 95) + "@example.com", password: "long-enough", nickname: "bob"},
		{name: "long nickname", email: "bob@example.com", password: "long-enough", nickname: strings.Repeat("n", 51)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tt.email, tt.password, tt.nickname)
			assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
		})
	}

	_, err := svc.Register(ctx, "bob@example.com", "long-enough", "bob")
	require.NoError(t, err)
	_, err = svc.Register(ctx, "carol@example.com", "long-enough", strings.Repeat("é", 50))
	require.NoError(t, err, "limits count characters, not bytes")
	_, err = svc.Register(ctx, "bob@example.com", "long-enough", "bob2")
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestMe(t *testing.T) {
	users := &memoryUsers{}
	svc, _ := newAuthService(users)
	ctx := context.Background()

	res, err := svc.Register(ctx, "carol@example.com", "long-enough", "carol")
	require.NoError(t, err)

	me, err := svc.Me(ctx, auth.Identified(res.User.ID, domain.RoleUser))
	require.NoError(t, err)
	assert.Equal(t, "carol", me.Nickname)

	_, err = svc.Me(ctx, auth.Anonymous())
	assert.ErrorIs(t, err, apperrors.ErrUnauthenticated)

	_, err = svc.Me(ctx, auth.Identified(999, domain.RoleUser))
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestEnsureAdmin(t *testing.T) {
	users := &memoryUsers{}
	svc, _ := newAuthService(users)
	ctx := context.Background()

	require.NoError(t, svc.EnsureAdmin(ctx, "", "", ""))
	assert.Empty(t, users.users)

	require.NoError(t, svc.EnsureAdmin(ctx, "root@example.com", "admin-password", ""))
	require.NoError(t, svc.EnsureAdmin(ctx, "root@example.com", "admin-password", ""))
	require.Len(t, users.users, 1)
	assert.Equal(t, domain.RoleAdmin, users.users[0].Role)
	assert.Equal(t, "admin", users.users[0].Nickname)
}
