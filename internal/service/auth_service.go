package service

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/blog-service/internal/auth"
	"github.com/spec-kit/blog-service/internal/config"
	"github.com/spec-kit/blog-service/internal/domain"
	"github.com/spec-kit/blog-service/internal/repository"
	apperrors "github.com/spec-kit/blog-service/pkg/util"
)

const (
	minPasswordLength = 8
	maxEmailLength    = 100
	maxNicknameLength = 50
)

// AuthResult bundles the authenticated user with a freshly issued token.
type AuthResult struct {
	User      *domain.User
	Token     string
	ExpiresAt time.Time
}

// AuthService coordinates registration and login flows.
type AuthService struct {
	users      repository.UserRepository
	tokenMgr   *auth.TokenManager
	bcryptCost int
	logger     *zap.Logger
	now        func() time.Time

	dummyOnce sync.Once
	dummy     string
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, users repository.UserRepository, tokenMgr *auth.TokenManager, logger *zap.Logger) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		users:      users,
		tokenMgr:   tokenMgr,
		bcryptCost: cfg.BcryptCost,
		logger:     logger,
		now:        time.Now,
	}
}

// Register creates a member account with the USER role and logs it in.
func (s *AuthService) Register(ctx context.Context, email, password, nickname string) (*AuthResult, error) {
	email = normalizeEmail(email)
	nickname = strings.TrimSpace(nickname)
	if err := validateRegistration(email, password, nickname); err != nil {
		return nil, err
	}
	user, err := s.createUser(ctx, email, password, nickname, domain.RoleUser)
	if err != nil {
		return nil, err
	}
	return s.issue(user)
}

// Login verifies credentials. Unknown email and wrong password are indistinguishable.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			_ = auth.ComparePassword(s.dummyHash(), password)
			return nil, apperrors.NewUnauthenticated("invalid credentials")
		}
		return nil, err
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, apperrors.NewUnauthenticated("invalid credentials")
	}
	return s.issue(user)
}

// Me returns the account behind an identified context.
func (s *AuthService) Me(ctx context.Context, ac auth.AuthContext) (*domain.User, error) {
	if err := auth.RequireIdentified(ac); err != nil {
		return nil, err
	}
	user, err := s.users.GetByID(ctx, ac.SubjectID())
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", map[string]any{"id": ac.SubjectID()})
		}
		return nil, err
	}
	return user, nil
}

// EnsureAdmin seeds an administrator account when none exists for email.
func (s *AuthService) EnsureAdmin(ctx context.Context, email, password, nickname string) error {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil
	}
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}
	if strings.TrimSpace(nickname) == "" {
		nickname = "admin"
	}
	user, err := s.createUser(ctx, email, password, nickname, domain.RoleAdmin)
	if err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return nil
		}
		return err
	}
	s.logger.Info("admin account created", zap.Int64("user_id", user.ID), zap.String("email", email))
	return nil
}

func (s *AuthService) createUser(ctx context.Context, email, password, nickname string, role domain.Role) (*domain.User, error) {
	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewValidationError("password cannot be hashed", map[string]any{"field": "password"})
	}
	user := &domain.User{
		Email:        email,
		PasswordHash: hash,
		Nickname:     nickname,
		Role:         role,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.NewConflict("email already registered", map[string]any{"field": "email"})
		}
		return nil, err
	}
	return user, nil
}

// dummyHash is compared against on unknown emails so both failure paths pay one bcrypt.
func (s *AuthService) dummyHash() string {
	s.dummyOnce.Do(func() {
		if hash, err := auth.HashPassword(uuid.NewString(), s.bcryptCost); err == nil {
			s.dummy = hash
		} else {
			s.logger.Warn("dummy password hash unavailable", zap.Error(err))
		}
	})
	return s.dummy
}

func (s *AuthService) issue(user *domain.User) (*AuthResult, error) {
	token, exp, err := s.tokenMgr.Issue(user.ID, user.Role, s.now())
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return &AuthResult{User: user, Token: token, ExpiresAt: exp}, nil
}

func validateRegistration(email, password, nickname string) error {
	details := map[string]any{}
	if _, err := mail.ParseAddress(email); err != nil || email == "" {
		details["email"] = "must be a valid address"
	} else if utf8.RuneCountInString(email) > maxEmailLength {
		details["email"] = "must be at most 100 characters"
	}
	if len(password) < minPasswordLength {
		details["password"] = "must be at least 8 characters"
	}
	if nickname == "" {
		details["nickname"] = "required"
	} else if utf8.RuneCountInString(nickname) > maxNicknameLength {
		details["nickname"] = "must be at most 50 characters"
	}
	if len(details) > 0 {
		return apperrors.NewValidationError("invalid registration", details)
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
