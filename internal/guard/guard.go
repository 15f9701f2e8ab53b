// Package guard serializes scan runs per media domain. Each domain gets one
// Guard enforcing two rules: at most one scan in flight, and a quiet window
// after a completed run before the next one may start. The two domains are
// fully independent of each other.
package guard

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

// DefaultDebounce is the quiet window applied after a completed run when the
// caller does not configure one.
const DefaultDebounce = 10 * time.Second

// ErrBusy is returned by TryAcquire while a run for the domain is in flight.
var ErrBusy = errors.New("scan already in progress")

// DebounceError is returned by TryAcquire when no run is in flight but the
// previous run completed less than the debounce window ago.
type DebounceError struct {
	Remaining time.Duration
}

func (e *DebounceError) Error() string {
	return fmt.Sprintf("scan completed recently, retry in %ds", e.RetryAfterSeconds())
}

// RetryAfterSeconds reports the remaining wait rounded up to whole seconds,
// always at least 1 so clients never receive a zero retry hint.
func (e *DebounceError) RetryAfterSeconds() int {
	secs := int((e.Remaining + time.Second - 1) / time.Second)
	if secs < 1 {
		secs = 1
	}
	return secs
}

// Guard is the per-domain concurrency guard. The zero value is not usable;
// construct with New.
type Guard struct {
	mu       sync.Mutex
	window   time.Duration
	running  bool
	lastDone time.Time
	now      func() time.Time
}

// New creates a Guard with the given debounce window. A window of zero or
// less disables debouncing, leaving only the single-flight rule.
func New(window time.Duration) *Guard {
	return &Guard{
		window: window,
		now:    time.Now,
	}
}

// TryAcquire attempts to enter the guarded section. On success it returns a
// release function that must be called exactly once when the run finishes;
// release records the completion time used for future debounce checks.
// Otherwise it returns ErrBusy or a *DebounceError.
func (g *Guard) TryAcquire() (release func(), err error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.running {
		return nil, ErrBusy
	}
	if g.window > 0 && !g.lastDone.IsZero() {
		elapsed := g.now().Sub(g.lastDone)
		if elapsed < g.window {
			return nil, &DebounceError{Remaining: g.window - elapsed}
		}
	}

	g.running = true
	var once sync.Once
	return func() {
		once.Do(func() {
			g.mu.Lock()
			g.running = false
			g.lastDone = g.now()
			g.mu.Unlock()
		})
	}, nil
}

// Registry maps domain names to their guards. It is built once at startup
// and passed by reference into every handler; guards are never looked up
// through ambient globals.
type Registry struct {
	guards map[string]*Guard
}

// NewRegistry creates a Registry with one Guard per domain name, all sharing
// the same debounce window.
func NewRegistry(window time.Duration, domains ...string) *Registry {
	r := &Registry{guards: make(map[string]*Guard, len(domains))}
	for _, d := range domains {
		r.guards[d] = New(window)
	}
	return r
}

// Get returns the Guard for a domain, or nil when the domain is unknown.
func (r *Registry) Get(domain string) *Guard {
	return r.guards[domain]
}
