package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventPostViewed     EventType = "post.viewed"
	EventPostLiked      EventType = "post.liked"
	EventPostUnliked    EventType = "post.unliked"
	EventCommentCreated EventType = "comment.created"
	EventCommentDeleted EventType = "comment.deleted"
)

// Actor encapsulates who caused an event. MemberID is nil for anonymous callers.
type Actor struct {
	MemberID *int64 `json:"member_id,omitempty"`
	IP       string `json:"ip,omitempty"`
}

// Event represents a domain event emitted after a committed state transition.
type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	PostID    int64     `json:"post_id"`
	Actor     Actor     `json:"actor"`
	Timestamp time.Time `json:"timestamp"`
	Payload   any       `json:"payload,omitempty"`
}

// LikePayload carries the like count after the transition.
type LikePayload struct {
	OwnerKind string `json:"owner_kind"`
	LikeCount int64  `json:"like_count"`
}

// CommentPayload identifies the comment involved.
type CommentPayload struct {
	CommentID int64 `json:"comment_id"`
	Anonymous bool  `json:"anonymous"`
}
