package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/blog-service/internal/auth"
	"github.com/spec-kit/blog-service/internal/domain"
	"github.com/spec-kit/blog-service/internal/engagement"
	"github.com/spec-kit/blog-service/internal/repository"
	apperrors "github.com/spec-kit/blog-service/pkg/util"
)

// PostInput describes create and update payloads.
type PostInput struct {
	Title      string
	Content    string
	CategoryID *int64
}

// PostListInput describes public listing filters.
type PostListInput struct {
	Keyword    string
	CategoryID *int64
	Page       Page
}

// PostView is a post as returned by a read that may have counted a view.
type PostView struct {
	Post        *domain.Post
	ViewCounted bool
}

// PostService coordinates post workflows.
type PostService struct {
	posts      repository.PostRepository
	categories repository.CategoryRepository
	views      *engagement.ViewDedupEngine
	logger     *zap.Logger
	now        func() time.Time
}

// PostDependencies bundles collaborators for the post service.
type PostDependencies struct {
	PostRepo     repository.PostRepository
	CategoryRepo repository.CategoryRepository
	Views        *engagement.ViewDedupEngine
	Logger       *zap.Logger
}

// NewPostService constructs the service.
func NewPostService(deps PostDependencies) *PostService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PostService{
		posts:      deps.PostRepo,
		categories: deps.CategoryRepo,
		views:      deps.Views,
		logger:     logger,
		now:        time.Now,
	}
}

// Create publishes a post authored by the caller.
func (s *PostService) Create(ctx context.Context, ac auth.AuthContext, input PostInput) (*domain.Post, error) {
	if err := auth.RequireIdentified(ac); err != nil {
		return nil, err
	}
	if err := validatePostInput(input); err != nil {
		return nil, err
	}
	if err := s.ensureCategory(ctx, input.CategoryID); err != nil {
		return nil, err
	}

	post := &domain.Post{
		AuthorID:   ac.SubjectID(),
		CategoryID: input.CategoryID,
		Title:      strings.TrimSpace(input.Title),
		Content:    input.Content,
	}
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, err
	}
	return s.Get(ctx, post.ID)
}

// Get loads an active post without touching its view counter.
func (s *PostService) Get(ctx context.Context, id int64) (*domain.Post, error) {
	post, err := s.posts.GetActiveByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("post", map[string]any{"id": id})
		}
		return nil, err
	}
	return post, nil
}

// View registers a page view from ip and returns the post with its current counter.
// Failing to register the view never fails the read.
func (s *PostService) View(ctx context.Context, id int64, ip string) (*PostView, error) {
	counted := false
	if s.views != nil {
		res, err := s.views.RegisterView(ctx, id, ip, s.now())
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			return nil, err
		case err != nil:
			s.logger.Warn("view registration failed", zap.Int64("post_id", id), zap.String("ip", ip), zap.Error(err))
		default:
			counted = res.Incremented
		}
	}

	post, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &PostView{Post: post, ViewCounted: counted}, nil
}

// List returns active posts, newest first.
func (s *PostService) List(ctx context.Context, input PostListInput) ([]domain.Post, error) {
	limit, offset := input.Page.limitOffset()
	filter := repository.PostFilter{CategoryID: input.CategoryID, Limit: limit, Offset: offset}
	if kw := strings.TrimSpace(input.Keyword); kw != "" {
		filter.Keyword = &kw
	}
	return s.posts.List(ctx, filter)
}

// Update edits a post owned by the caller, or any post for an administrator.
func (s *PostService) Update(ctx context.Context, ac auth.AuthContext, id int64, input PostInput) (*domain.Post, error) {
	post, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := auth.AuthorizeOwner(ac, post.AuthorID); err != nil {
		return nil, err
	}
	if err := validatePostInput(input); err != nil {
		return nil, err
	}
	if err := s.ensureCategory(ctx, input.CategoryID); err != nil {
		return nil, err
	}

	post.Title = strings.TrimSpace(input.Title)
	post.Content = input.Content
	post.CategoryID = input.CategoryID
	if err := s.posts.Update(ctx, post); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("post", map[string]any{"id": id})
		}
		return nil, err
	}
	return post, nil
}

// Delete soft-deletes a post owned by the caller, or any post for an administrator.
func (s *PostService) Delete(ctx context.Context, ac auth.AuthContext, id int64) error {
	post, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := auth.AuthorizeOwner(ac, post.AuthorID); err != nil {
		return err
	}
	if err := s.posts.SoftDelete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("post", map[string]any{"id": id})
		}
		return err
	}
	return nil
}

func (s *PostService) ensureCategory(ctx context.Context, id *int64) error {
	if id == nil {
		return nil
	}
	if _, err := s.categories.GetActiveByID(ctx, *id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("category", map[string]any{"id": *id})
		}
		return err
	}
	return nil
}

func validatePostInput(input PostInput) error {
	details := map[string]any{}
	title := strings.TrimSpace(input.Title)
	if title == "" {
		details["title"] = "required"
	} else if len([]rune(title)) > 200 {
		details["title"] = "must be at most 200 characters"
	}
	if strings.TrimSpace(input.Content) == "" {
		details["content"] = "required"
	}
	if len(details) > 0 {
		return apperrors.NewValidationError("invalid post", details)
	}
	return nil
}
