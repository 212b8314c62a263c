package lock

import (
	"context"
	"errors"
	"hash/fnv"
	"sync"
)

// ErrLockTimeout is returned when a contended lock could not be acquired in time.
var ErrLockTimeout = errors.New("lock acquisition timed out")

// Locker serializes work per key. The returned unlock func must be called exactly once.
type Locker interface {
	Lock(ctx context.Context, key string) (unlock func(), err error)
}

const defaultStripes = 256

// StripedLocker maps keys onto a fixed set of mutexes. Distinct keys may share a stripe.
type StripedLocker struct {
	stripes []sync.Mutex
}

// NewStripedLocker builds an in-process locker; n <= 0 uses the default stripe count.
func NewStripedLocker(n int) *StripedLocker {
	if n <= 0 {
		n = defaultStripes
	}
	return &StripedLocker{stripes: make([]sync.Mutex, n)}
}

// Lock blocks until the key's stripe is free. It only fails when ctx is already done.
func (l *StripedLocker) Lock(ctx context.Context, key string) (func(), error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	mu := &l.stripes[l.index(key)]
	mu.Lock()
	return mu.Unlock, nil
}

func (l *StripedLocker) index(key string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32() % uint32(len(l.stripes)))
}
