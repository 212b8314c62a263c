package engagement

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/blog-service/internal/domain"
	"github.com/spec-kit/blog-service/internal/events"
	"github.com/spec-kit/blog-service/internal/lock"
	"github.com/spec-kit/blog-service/internal/repository"
	apperrors "github.com/spec-kit/blog-service/pkg/util"
)

// DefaultViewCooldown applies when no cooldown is configured.
const DefaultViewCooldown = 10 * time.Minute

// ViewResult reports whether a view moved the post counter.
type ViewResult struct {
	Incremented bool `json:"incremented"`
}

// ViewDedupEngine counts at most one view per (post, ip) per cooldown window.
type ViewDedupEngine struct {
	views      repository.ViewRepository
	posts      PostChecker
	locker     lock.Locker
	cooldown   time.Duration
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// ViewDependencies bundles collaborators for the view engine.
type ViewDependencies struct {
	Views      repository.ViewRepository
	Posts      PostChecker
	Locker     lock.Locker
	Cooldown   time.Duration
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// NewViewDedupEngine constructs the engine.
func NewViewDedupEngine(deps ViewDependencies) *ViewDedupEngine {
	cooldown := deps.Cooldown
	if cooldown <= 0 {
		cooldown = DefaultViewCooldown
	}
	locker := deps.Locker
	if locker == nil {
		locker = lock.NewStripedLocker(0)
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ViewDedupEngine{
		views:      deps.Views,
		posts:      deps.Posts,
		locker:     locker,
		cooldown:   cooldown,
		dispatcher: deps.Dispatcher,
		logger:     logger,
	}
}

// Cooldown returns the configured window.
func (e *ViewDedupEngine) Cooldown() time.Duration {
	return e.cooldown
}

// CooldownPassed reports whether a view last seen at last may count again at now.
func CooldownPassed(last time.Time, cooldown time.Duration, now time.Time) bool {
	return last.Add(cooldown).Before(now)
}

// RegisterView records a view of postID from ip at now.
func (e *ViewDedupEngine) RegisterView(ctx context.Context, postID int64, ip string, now time.Time) (ViewResult, error) {
	ip = strings.TrimSpace(ip)
	if ip == "" {
		return ViewResult{}, apperrors.NewValidationError("viewer ip is required", nil)
	}
	if len(ip) > maxIdentityLength {
		return ViewResult{}, apperrors.NewValidationError("viewer ip is too long", nil)
	}
	exists, err := e.posts.ExistsActive(ctx, postID)
	if err != nil {
		return ViewResult{}, err
	}
	if !exists {
		return ViewResult{}, apperrors.NewNotFound("post", map[string]any{"postId": postID})
	}

	unlock, err := e.locker.Lock(ctx, viewLockKey(postID, ip))
	if err != nil {
		if errors.Is(err, lock.ErrLockTimeout) {
			// Another request holds this pair; it will do the counting.
			e.logger.Debug("view lock contended", zap.Int64("post_id", postID), zap.String("ip", ip))
			return ViewResult{}, nil
		}
		return ViewResult{}, err
	}
	defer unlock()

	incremented, err := e.transition(ctx, postID, ip, now)
	if err != nil || !incremented {
		return ViewResult{}, err
	}

	events.Publish(ctx, e.dispatcher, events.Event{
		Type:      events.EventPostViewed,
		PostID:    postID,
		Actor:     events.Actor{IP: ip},
		Timestamp: now,
	})
	return ViewResult{Incremented: true}, nil
}

func (e *ViewDedupEngine) transition(ctx context.Context, postID int64, ip string, now time.Time) (bool, error) {
	record, err := e.views.FindView(ctx, postID, ip)
	if err != nil {
		return false, err
	}

	if record == nil {
		err := e.views.InsertView(ctx, &domain.ViewRecord{PostID: postID, ViewerIP: ip, LastViewedAt: now})
		if errors.Is(err, repository.ErrDuplicate) {
			return false, nil
		}
		return err == nil, err
	}

	if !CooldownPassed(record.LastViewedAt, e.cooldown, now) {
		return false, nil
	}
	return e.views.TouchView(ctx, postID, ip, record.LastViewedAt, now)
}
