// Package events fans evaluated signals out to presentation subscribers.
package events

import (
	"sync"

	"github.com/vadiminshakov/obwatch/internal/domain"
)

const defaultBuffer = 64

// SignalBroadcaster fans out signals to all subscribers via buffered channels.
// Slow readers miss signals instead of blocking the watcher.
type SignalBroadcaster struct {
	mu     sync.RWMutex
	subs   map[chan domain.Signal]struct{}
	buffer int
	last   *domain.Signal
}

// NewSignalBroadcaster creates a broadcaster with the given per-subscriber buffer.
func NewSignalBroadcaster(buffer int) *SignalBroadcaster {
	if buffer < 1 {
		buffer = defaultBuffer
	}
	return &SignalBroadcaster{
		subs:   make(map[chan domain.Signal]struct{}),
		buffer: buffer,
	}
}

// Publish delivers s to every subscriber and returns how many deliveries
// were dropped.
func (b *SignalBroadcaster) Publish(s domain.Signal) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.last = &s

	dropped := 0
	for ch := range b.subs {
		select {
		case ch <- s:
		default:
			dropped++
		}
	}
	return dropped
}

// Last returns the most recently published signal.
func (b *SignalBroadcaster) Last() (domain.Signal, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.last == nil {
		return domain.Signal{}, false
	}
	return *b.last, true
}

// Subscribe returns a channel that receives signals until Unsubscribe is called.
func (b *SignalBroadcaster) Subscribe() chan domain.Signal {
	ch := make(chan domain.Signal, b.buffer)
	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

// Unsubscribe removes the channel and closes it.
func (b *SignalBroadcaster) Unsubscribe(ch chan domain.Signal) {
	b.mu.Lock()
	if _, ok := b.subs[ch]; ok {
		delete(b.subs, ch)
		close(ch)
	}
	b.mu.Unlock()
}

// Subscribers returns the current subscriber count.
func (b *SignalBroadcaster) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}
