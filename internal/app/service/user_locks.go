package service

import "sync"

// UserLocks serializes cart and checkout mutations per user. Two
// concurrent requests for the same user run one after the other while
// requests for different users proceed in parallel. The cart and order
// services must share one instance so a cart mutation cannot interleave
// with a checkout for the same user.
type UserLocks struct {
	mu    sync.Mutex
	locks map[uint]*sync.Mutex
}

func NewUserLocks() *UserLocks {
	return &UserLocks{locks: make(map[uint]*sync.Mutex)}
}

func (l *UserLocks) lock(userID uint) *sync.Mutex {
	l.mu.Lock()
	m, ok := l.locks[userID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[userID] = m
	}
	l.mu.Unlock()
	m.Lock()
	return m
}

// held reports the mutex for userID if one has been created, for tests
// that assert mutual exclusion without blocking.
func (l *UserLocks) held(userID uint) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.locks[userID]
}
