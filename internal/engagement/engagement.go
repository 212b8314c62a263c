// Package engagement decides when post views and likes change durable counters.
package engagement

import (
	"context"
	"strconv"

	"github.com/spec-kit/blog-service/internal/domain"
)

// maxIdentityLength is the width of post_views.ip_address and post_likes.owner_identity.
const maxIdentityLength = 45

// PostChecker reports whether a post exists and is not deleted.
type PostChecker interface {
	ExistsActive(ctx context.Context, id int64) (bool, error)
}

func viewLockKey(postID int64, ip string) string {
	return "view:" + strconv.FormatInt(postID, 10) + ":" + ip
}

func likeLockKey(postID int64, owner domain.LikeOwner) string {
	return "like:" + strconv.FormatInt(postID, 10) + ":" + string(owner.Kind) + ":" + owner.Identity
}
