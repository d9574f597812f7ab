package input

import (
	"sync"
	"time"
)

// DefaultLatchWindow covers the initial delay of typical terminal key repeat.
const DefaultLatchWindow = 150 * time.Millisecond

// Latch turns a stream of key-press events into held state for keyboards
// that never report key release. A button counts as held until Window has
// passed since its last press.
type Latch struct {
	mu     sync.Mutex
	table  *BindingTable
	window time.Duration
	now    func() time.Time
	last   [MaxPlayers][buttonCount]time.Time
	quit   bool
}

// LatchOption configures a Latch.
type LatchOption func(*Latch)

// WithClock replaces the wall clock.
func WithClock(now func() time.Time) LatchOption {
	return func(l *Latch) {
		l.now = now
	}
}

// WithWindow sets how long a press stays held.
func WithWindow(d time.Duration) LatchOption {
	return func(l *Latch) {
		if d > 0 {
			l.window = d
		}
	}
}

// NewLatch creates a Latch over the given binding table.
func NewLatch(table *BindingTable, opts ...LatchOption) *Latch {
	l := &Latch{
		table:  table,
		window: DefaultLatchWindow,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Press records a key press and reports whether the key is bound.
func (l *Latch) Press(key string) bool {
	player, button, ok := l.table.Resolve(key)
	if !ok {
		return false
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if button == Quit {
		l.quit = true
		return true
	}
	l.last[player][button] = l.now()
	return true
}

// Held implements Provider.
func (l *Latch) Held(player uint8) ButtonSet {
	if !l.table.Bound(player) {
		return 0
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	var s ButtonSet
	for _, b := range PlayerButtons {
		at := l.last[player][b]
		if !at.IsZero() && now.Sub(at) < l.window {
			s = s.With(b)
		}
	}
	return s
}

// QuitRequested implements Provider.
func (l *Latch) QuitRequested() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.quit
}
