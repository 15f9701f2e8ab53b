// Package logsink provides the minimal line-oriented log capability the scan
// pipeline emits progress through. A scan does not care where its lines go;
// callers pick the realization that fits the transport: an in-memory buffer
// for request/response callers, a forwarding sink for live channels, or the
// process log.
package logsink

import (
	"sync"

	"media-streamer/internal/logging"
)

// Sink receives one progress line at a time. Implementations must be safe
// for use from a single scan goroutine; they are never shared between
// concurrent scans.
type Sink interface {
	Emit(line string)
}

// Func adapts a plain function to a Sink.
type Func func(line string)

// Emit calls f with the line.
func (f Func) Emit(line string) {
	f(line)
}

// Discard is a Sink that drops every line.
var Discard = Func(func(string) {})

// Buffer is a bounded in-memory Sink. Once max lines have been collected the
// oldest lines are dropped, so a long scan cannot grow memory without bound.
type Buffer struct {
	mu    sync.Mutex
	max   int
	lines []string
}

// NewBuffer creates a Buffer that retains at most max lines. A max of zero
// or less means unbounded.
func NewBuffer(max int) *Buffer {
	return &Buffer{max: max}
}

// Emit appends a line, evicting the oldest line when the buffer is full.
func (b *Buffer) Emit(line string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lines = append(b.lines, line)
	if b.max > 0 && len(b.lines) > b.max {
		b.lines = b.lines[len(b.lines)-b.max:]
	}
}

// Lines returns a copy of the collected lines in emit order.
func (b *Buffer) Lines() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, len(b.lines))
	copy(out, b.lines)
	return out
}

// Last returns a copy of at most n trailing lines.
func (b *Buffer) Last(n int) []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	if n <= 0 || n > len(b.lines) {
		n = len(b.lines)
	}
	out := make([]string, n)
	copy(out, b.lines[len(b.lines)-n:])
	return out
}

// Logger returns a Sink that forwards every line to the process log at info
// level, mirroring what operators see for request-scoped scans.
func Logger() Sink {
	return Func(func(line string) {
		logging.Info("%s", line)
	})
}

// Multi fans a line out to every given sink in order.
func Multi(sinks ...Sink) Sink {
	return Func(func(line string) {
		for _, s := range sinks {
			s.Emit(line)
		}
	})
}
