package domain

import (
	"strconv"
	"time"
)

// ViewRecord tracks the last counted view of a post from one IP.
type ViewRecord struct {
	ID           int64
	PostID       int64
	ViewerIP     string
	LastViewedAt time.Time
}

// OwnerKind differentiates member likes from guest (IP) likes.
type OwnerKind string

const (
	OwnerKindMember OwnerKind = "MEMBER"
	OwnerKindGuest  OwnerKind = "GUEST"
)

// LikeOwner identifies who liked a post. Members are keyed by id, guests by raw IP.
type LikeOwner struct {
	Kind     OwnerKind
	Identity string
}

// MemberOwner builds the owner key for a member.
func MemberOwner(userID int64) LikeOwner {
	return LikeOwner{Kind: OwnerKindMember, Identity: strconv.FormatInt(userID, 10)}
}

// GuestOwner builds the owner key for a guest IP.
func GuestOwner(ip string) LikeOwner {
	return LikeOwner{Kind: OwnerKindGuest, Identity: ip}
}

// LikeRecord is never hard-deleted; cancelling flips Active to false.
type LikeRecord struct {
	ID        int64
	PostID    int64
	Owner     LikeOwner
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// MemberID returns the member id for member owners.
func (o LikeOwner) MemberID() (int64, bool) {
	if o.Kind != OwnerKindMember {
		return 0, false
	}
	id, err := strconv.ParseInt(o.Identity, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}
