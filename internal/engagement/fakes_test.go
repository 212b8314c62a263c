package engagement

import (
	"context"
	"sync"
	"time"

	"github.com/spec-kit/blog-service/internal/domain"
	"github.com/spec-kit/blog-service/internal/repository"
)

type fakePosts struct {
	ids map[int64]bool
}

func (f *fakePosts) ExistsActive(_ context.Context, id int64) (bool, error) {
	return f.ids[id], nil
}

type viewKey struct {
	post int64
	ip   string
}

// memoryViews mimics the unique (post, ip) constraint and the transactional counter bump.
type memoryViews struct {
	mu       sync.Mutex
	records  map[viewKey]time.Time
	counters map[int64]int64
}

func newMemoryViews() *memoryViews {
	return &memoryViews{records: map[viewKey]time.Time{}, counters: map[int64]int64{}}
}

func (m *memoryViews) FindView(_ context.Context, postID int64, ip string) (*domain.ViewRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	last, ok := m.records[viewKey{postID, ip}]
	if !ok {
		return nil, nil
	}
	return &domain.ViewRecord{PostID: postID, ViewerIP: ip, LastViewedAt: last}, nil
}

func (m *memoryViews) InsertView(_ context.Context, record *domain.ViewRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := viewKey{record.PostID, record.ViewerIP}
	if _, ok := m.records[key]; ok {
		return repository.ErrDuplicate
	}
	m.records[key] = record.LastViewedAt
	m.counters[record.PostID]++
	return nil
}

func (m *memoryViews) TouchView(_ context.Context, postID int64, ip string, prev, now time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := viewKey{postID, ip}
	if last, ok := m.records[key]; !ok || !last.Equal(prev) {
		return false, nil
	}
	m.records[key] = now
	m.counters[postID]++
	return true, nil
}

func (m *memoryViews) count(postID int64) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.counters[postID]
}

// memoryLikes keeps every row and enforces one active row per owner.
type memoryLikes struct {
	mu   sync.Mutex
	rows []domain.LikeRecord
}

func (m *memoryLikes) activeIndex(postID int64, owner domain.LikeOwner) int {
	for i, row := range m.rows {
		if row.Active && row.PostID == postID && row.Owner == owner {
			return i
		}
	}
	return -1
}

func (m *memoryLikes) HasActiveLike(_ context.Context, postID int64, owner domain.LikeOwner) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.activeIndex(postID, owner) >= 0, nil
}

func (m *memoryLikes) InsertLike(_ context.Context, postID int64, owner domain.LikeOwner) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.activeIndex(postID, owner) >= 0 {
		return repository.ErrDuplicate
	}
	m.rows = append(m.rows, domain.LikeRecord{ID: int64(len(m.rows) + 1), PostID: postID, Owner: owner, Active: true})
	return nil
}

func (m *memoryLikes) DeactivateLike(_ context.Context, postID int64, owner domain.LikeOwner) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.activeIndex(postID, owner)
	if i < 0 {
		return false, nil
	}
	m.rows[i].Active = false
	return true, nil
}

func (m *memoryLikes) CountActiveLikes(_ context.Context, postID int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, row := range m.rows {
		if row.Active && row.PostID == postID {
			n++
		}
	}
	return n, nil
}

func (m *memoryLikes) total() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rows)
}

// passLocker never serializes, leaving the store constraints as the only guard.
type passLocker struct{}

func (passLocker) Lock(context.Context, string) (func(), error) { return func() {}, nil }

type errLocker struct{ err error }

func (l errLocker) Lock(context.Context, string) (func(), error) { return nil, l.err }
