package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/blog-service/internal/auth"
	"github.com/spec-kit/blog-service/internal/domain"
	"github.com/spec-kit/blog-service/internal/engagement"
	"github.com/spec-kit/blog-service/internal/events"
	"github.com/spec-kit/blog-service/internal/repository"
	apperrors "github.com/spec-kit/blog-service/pkg/util"
)

const (
	maxAuthorNameLength = 30
	maxCommentLength    = 1000
)

// CommentInput describes a new comment. AuthorName and Password apply to anonymous callers only.
type CommentInput struct {
	Content    string
	AuthorName string
	Password   string
	IP         string
}

// CommentService coordinates comment workflows for members and anonymous authors.
type CommentService struct {
	comments   repository.CommentRepository
	users      repository.UserRepository
	posts      engagement.PostChecker
	ownership  *auth.OwnershipEngine
	dispatcher events.Dispatcher
}

// CommentDependencies bundles collaborators for the comment service.
type CommentDependencies struct {
	CommentRepo repository.CommentRepository
	UserRepo    repository.UserRepository
	Posts       engagement.PostChecker
	Ownership   *auth.OwnershipEngine
	Dispatcher  events.Dispatcher
}

// NewCommentService constructs the service.
func NewCommentService(deps CommentDependencies) *CommentService {
	return &CommentService{
		comments:   deps.CommentRepo,
		users:      deps.UserRepo,
		posts:      deps.Posts,
		ownership:  deps.Ownership,
		dispatcher: deps.Dispatcher,
	}
}

// Create adds a comment. Members sign with their nickname; anonymous callers must
// supply a display name and a password that later authorizes edits.
func (s *CommentService) Create(ctx context.Context, ac auth.AuthContext, postID int64, input CommentInput) (*domain.Comment, error) {
	content, err := validateCommentContent(input.Content)
	if err != nil {
		return nil, err
	}
	if err := s.ensurePost(ctx, postID); err != nil {
		return nil, err
	}

	comment := &domain.Comment{PostID: postID, Content: content}
	actor := events.Actor{IP: input.IP}
	if ac.IsIdentified() {
		user, err := s.users.GetByID(ctx, ac.SubjectID())
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, apperrors.NewUnauthenticated("account no longer exists")
			}
			return nil, err
		}
		id := user.ID
		comment.UserID = &id
		comment.AuthorName = user.Nickname
		actor.MemberID = &id
	} else {
		name := strings.TrimSpace(input.AuthorName)
		if name == "" || len([]rune(name)) > maxAuthorNameLength {
			return nil, apperrors.NewValidationError("invalid comment", map[string]any{"authorName": "required, at most 30 characters"})
		}
		hash, err := s.ownership.CreateWithSecret(input.Password)
		if err != nil {
			return nil, err
		}
		comment.AuthorName = name
		comment.SecretHash = hash
	}

	if err := s.comments.Create(ctx, comment); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("post", map[string]any{"id": postID})
		}
		return nil, err
	}

	events.Publish(ctx, s.dispatcher, events.Event{
		Type:    events.EventCommentCreated,
		PostID:  postID,
		Actor:   actor,
		Payload: events.CommentPayload{CommentID: comment.ID, Anonymous: comment.Anonymous()},
	})
	return comment, nil
}

// List returns active comments of a post, oldest first.
func (s *CommentService) List(ctx context.Context, postID int64, page Page) ([]domain.Comment, error) {
	if err := s.ensurePost(ctx, postID); err != nil {
		return nil, err
	}
	limit, offset := page.limitOffset()
	return s.comments.ListActiveByPost(ctx, postID, limit, offset)
}

// Update replaces the content of a comment the caller may mutate.
func (s *CommentService) Update(ctx context.Context, ac auth.AuthContext, id int64, content, password string) (*domain.Comment, error) {
	content, err := validateCommentContent(content)
	if err != nil {
		return nil, err
	}
	comment, err := s.authorize(ctx, ac, id, password)
	if err != nil {
		return nil, err
	}
	comment.Content = content
	if err := s.comments.UpdateContent(ctx, comment); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("comment", map[string]any{"id": id})
		}
		return nil, err
	}
	return comment, nil
}

// Delete soft-deletes a comment the caller may mutate.
func (s *CommentService) Delete(ctx context.Context, ac auth.AuthContext, id int64, password string) error {
	comment, err := s.authorize(ctx, ac, id, password)
	if err != nil {
		return err
	}
	if err := s.comments.SoftDelete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("comment", map[string]any{"id": id})
		}
		return err
	}

	actor := events.Actor{}
	if ac.IsIdentified() {
		subject := ac.SubjectID()
		actor.MemberID = &subject
	}
	events.Publish(ctx, s.dispatcher, events.Event{
		Type:    events.EventCommentDeleted,
		PostID:  comment.PostID,
		Actor:   actor,
		Payload: events.CommentPayload{CommentID: comment.ID, Anonymous: comment.Anonymous()},
	})
	return nil
}

func (s *CommentService) authorize(ctx context.Context, ac auth.AuthContext, id int64, password string) (*domain.Comment, error) {
	comment, err := s.comments.GetActiveByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("comment", map[string]any{"id": id})
		}
		return nil, err
	}
	content := auth.OwnedContent{OwnerID: comment.UserID, SecretHash: comment.SecretHash}
	if err := s.ownership.Authorize(ac, content, password); err != nil {
		return nil, err
	}
	return comment, nil
}

func validateCommentContent(content string) (string, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return "", apperrors.NewValidationError("invalid comment", map[string]any{"content": "required"})
	}
	if len([]rune(content)) > maxCommentLength {
		return "", apperrors.NewValidationError("invalid comment", map[string]any{"content": "must be at most 1000 characters"})
	}
	return content, nil
}

func (s *CommentService) ensurePost(ctx context.Context, postID int64) error {
	exists, err := s.posts.ExistsActive(ctx, postID)
	if err != nil {
		return err
	}
	if !exists {
		return apperrors.NewNotFound("post", map[string]any{"id": postID})
	}
	return nil
}
