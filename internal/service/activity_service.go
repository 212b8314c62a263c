package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/blog-service/internal/events"
)

// ActivityService writes an activity trail for engagement events.
type ActivityService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewActivityService creates the service.
func NewActivityService(dispatcher events.Dispatcher, logger *zap.Logger) *ActivityService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ActivityService{dispatcher: dispatcher, logger: logger}
}

// RegisterHandlers subscribes to events.
func (a *ActivityService) RegisterHandlers() {
	if a.dispatcher == nil {
		return
	}
	for _, typ := range []events.EventType{
		events.EventPostViewed,
		events.EventPostLiked,
		events.EventPostUnliked,
		events.EventCommentCreated,
		events.EventCommentDeleted,
	} {
		a.dispatcher.Subscribe(typ, a.handle)
	}
}

func (a *ActivityService) handle(_ context.Context, event events.Event) error {
	fields := []zap.Field{
		zap.String("event_id", event.ID),
		zap.String("event_type", string(event.Type)),
		zap.Int64("post_id", event.PostID),
		zap.Time("at", event.Timestamp),
	}
	if event.Actor.MemberID != nil {
		fields = append(fields, zap.Int64("member_id", *event.Actor.MemberID))
	}
	if event.Actor.IP != "" {
		fields = append(fields, zap.String("ip", event.Actor.IP))
	}
	if event.Payload != nil {
		fields = append(fields, zap.Any("payload", event.Payload))
	}

	// Views are high volume.
	if event.Type == events.EventPostViewed {
		a.logger.Debug("activity", fields...)
		return nil
	}
	a.logger.Info("activity", fields...)
	return nil
}
