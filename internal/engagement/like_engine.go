package engagement

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/blog-service/internal/domain"
	"github.com/spec-kit/blog-service/internal/events"
	"github.com/spec-kit/blog-service/internal/lock"
	"github.com/spec-kit/blog-service/internal/repository"
	apperrors "github.com/spec-kit/blog-service/pkg/util"
)

// LikeStatus is the like count of a post and whether the caller holds an active like.
type LikeStatus struct {
	LikeCount int64 `json:"like_count"`
	LikedByMe bool  `json:"liked_by_me"`
}

// LikeToggleEngine keeps at most one active like per (post, owner).
type LikeToggleEngine struct {
	likes      repository.LikeRepository
	posts      PostChecker
	locker     lock.Locker
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// LikeDependencies bundles collaborators for the like engine.
type LikeDependencies struct {
	Likes      repository.LikeRepository
	Posts      PostChecker
	Locker     lock.Locker
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// NewLikeToggleEngine constructs the engine.
func NewLikeToggleEngine(deps LikeDependencies) *LikeToggleEngine {
	locker := deps.Locker
	if locker == nil {
		locker = lock.NewStripedLocker(0)
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LikeToggleEngine{
		likes:      deps.Likes,
		posts:      deps.Posts,
		locker:     locker,
		dispatcher: deps.Dispatcher,
		logger:     logger,
	}
}

// Like records an active like for owner. Repeating it is a no-op.
func (e *LikeToggleEngine) Like(ctx context.Context, postID int64, owner domain.LikeOwner) (LikeStatus, error) {
	if err := validateOwner(owner); err != nil {
		return LikeStatus{}, err
	}
	if err := e.ensurePost(ctx, postID); err != nil {
		return LikeStatus{}, err
	}

	created := false
	err := e.withLock(ctx, postID, owner, func() error {
		active, err := e.likes.HasActiveLike(ctx, postID, owner)
		if err != nil || active {
			return err
		}
		err = e.likes.InsertLike(ctx, postID, owner)
		if errors.Is(err, repository.ErrDuplicate) {
			return nil
		}
		created = err == nil
		return err
	})
	if err != nil {
		return LikeStatus{}, err
	}

	count, err := e.likes.CountActiveLikes(ctx, postID)
	if err != nil {
		return LikeStatus{}, err
	}
	if created {
		e.publish(ctx, events.EventPostLiked, postID, owner, count)
	}
	return LikeStatus{LikeCount: count, LikedByMe: true}, nil
}

// Unlike deactivates the member's active like. Guests cannot retract a like.
func (e *LikeToggleEngine) Unlike(ctx context.Context, postID int64, owner domain.LikeOwner) (LikeStatus, error) {
	if owner.Kind != domain.OwnerKindMember {
		return LikeStatus{}, apperrors.NewUnauthenticated("login required to cancel a like")
	}
	if err := validateOwner(owner); err != nil {
		return LikeStatus{}, err
	}
	if err := e.ensurePost(ctx, postID); err != nil {
		return LikeStatus{}, err
	}

	err := e.withLock(ctx, postID, owner, func() error {
		deactivated, err := e.likes.DeactivateLike(ctx, postID, owner)
		if err != nil {
			return err
		}
		if !deactivated {
			return apperrors.NewNotFound("like", map[string]any{"postId": postID})
		}
		return nil
	})
	if err != nil {
		return LikeStatus{}, err
	}

	count, err := e.likes.CountActiveLikes(ctx, postID)
	if err != nil {
		return LikeStatus{}, err
	}
	e.publish(ctx, events.EventPostUnliked, postID, owner, count)
	return LikeStatus{LikeCount: count, LikedByMe: false}, nil
}

// Status reads the like count. A nil owner never counts as having liked.
func (e *LikeToggleEngine) Status(ctx context.Context, postID int64, owner *domain.LikeOwner) (LikeStatus, error) {
	if err := e.ensurePost(ctx, postID); err != nil {
		return LikeStatus{}, err
	}
	count, err := e.likes.CountActiveLikes(ctx, postID)
	if err != nil {
		return LikeStatus{}, err
	}
	status := LikeStatus{LikeCount: count}
	if owner == nil || validateOwner(*owner) != nil {
		return status, nil
	}
	status.LikedByMe, err = e.likes.HasActiveLike(ctx, postID, *owner)
	if err != nil {
		return LikeStatus{}, err
	}
	return status, nil
}

func (e *LikeToggleEngine) withLock(ctx context.Context, postID int64, owner domain.LikeOwner, fn func() error) error {
	unlock, err := e.locker.Lock(ctx, likeLockKey(postID, owner))
	if err != nil {
		if errors.Is(err, lock.ErrLockTimeout) {
			return apperrors.NewConflict("like is being updated, retry", map[string]any{"postId": postID})
		}
		return err
	}
	defer unlock()
	return fn()
}

func (e *LikeToggleEngine) ensurePost(ctx context.Context, postID int64) error {
	exists, err := e.posts.ExistsActive(ctx, postID)
	if err != nil {
		return err
	}
	if !exists {
		return apperrors.NewNotFound("post", map[string]any{"postId": postID})
	}
	return nil
}

func (e *LikeToggleEngine) publish(ctx context.Context, typ events.EventType, postID int64, owner domain.LikeOwner, count int64) {
	actor := events.Actor{}
	if id, ok := owner.MemberID(); ok {
		actor.MemberID = &id
	} else {
		actor.IP = owner.Identity
	}
	events.Publish(ctx, e.dispatcher, events.Event{
		Type:    typ,
		PostID:  postID,
		Actor:   actor,
		Payload: events.LikePayload{OwnerKind: string(owner.Kind), LikeCount: count},
	})
}

func validateOwner(owner domain.LikeOwner) error {
	switch owner.Kind {
	case domain.OwnerKindMember, domain.OwnerKindGuest:
	default:
		return apperrors.NewValidationError("unknown like owner kind", map[string]any{"kind": owner.Kind})
	}
	if strings.TrimSpace(owner.Identity) == "" {
		return apperrors.NewValidationError("like owner identity is required", nil)
	}
	if len(owner.Identity) > maxIdentityLength {
		return apperrors.NewValidationError("like owner identity is too long", nil)
	}
	return nil
}
