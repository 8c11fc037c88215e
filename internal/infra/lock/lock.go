package lock

import (
	"context"
	"fmt"
	"sync"
)

// Locker serializes work on one key. The returned unlock func is safe to
// call more than once.
type Locker interface {
	Lock(ctx context.Context, key string) (unlock func(), err error)
}

func StylistKey(stylistID uint) string {
	return fmt.Sprintf("stylist:%d", stylistID)
}

func RatingKey(stylistID uint) string {
	return fmt.Sprintf("rating:%d", stylistID)
}

func RecurringKey(ruleID uint) string {
	return fmt.Sprintf("recurring:%d", ruleID)
}

// WaitlistKey names a (service, stylist) group; 0 stands for "any stylist".
func WaitlistKey(serviceID uint, stylistID *uint) string {
	var s uint
	if stylistID != nil {
		s = *stylistID
	}
	return fmt.Sprintf("waitlist:%d:%d", serviceID, s)
}

// ===============================
// In-process
// ===============================

type KeyedMutex struct {
	mu    sync.Mutex
	locks map[string]*keyLock
}

type keyLock struct {
	ch   chan struct{}
	refs int
}

func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{locks: make(map[string]*keyLock)}
}

func (m *KeyedMutex) Lock(ctx context.Context, key string) (func(), error) {
	m.mu.Lock()
	l, ok := m.locks[key]
	if !ok {
		l = &keyLock{ch: make(chan struct{}, 1)}
		m.locks[key] = l
	}
	l.refs++
	m.mu.Unlock()

	select {
	case l.ch <- struct{}{}:
	case <-ctx.Done():
		m.release(key, l)
		return nil, ctx.Err()
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-l.ch
			m.release(key, l)
		})
	}, nil
}

func (m *KeyedMutex) release(key string, l *keyLock) {
	m.mu.Lock()
	defer m.mu.Unlock()

	l.refs--
	if l.refs == 0 {
		delete(m.locks, key)
	}
}

var _ Locker = (*KeyedMutex)(nil)
