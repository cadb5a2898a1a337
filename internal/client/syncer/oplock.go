package syncer

import "sync"

// opLock serializes session operations. Notifications raised while it is
// held are queued and delivered, in order, once it is released, so observers
// may call back into the session.
type opLock struct {
	mu sync.Mutex

	pendingMu sync.Mutex
	held      bool
	pending   []func()
}

func (l *opLock) Lock() {
	l.mu.Lock()
	l.pendingMu.Lock()
	l.held = true
	l.pendingMu.Unlock()
}

func (l *opLock) Unlock() {
	l.pendingMu.Lock()
	l.held = false
	pending := l.pending
	l.pending = nil
	l.pendingMu.Unlock()
	l.mu.Unlock()

	for _, fn := range pending {
		fn()
	}
}

// deliver runs fn now, or after Unlock when an operation is in progress.
func (l *opLock) deliver(fn func()) {
	l.pendingMu.Lock()
	if l.held {
		l.pending = append(l.pending, fn)
		l.pendingMu.Unlock()
		return
	}
	l.pendingMu.Unlock()
	fn()
}
