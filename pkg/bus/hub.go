package bus

import (
	"sync"
	"sync/atomic"
)

type Subscription[T any] struct {
	ch chan T
}

func (s *Subscription[T]) C() <-chan T {
	return s.ch
}

// Hub fans every posted value out to all subscribers. A subscriber whose buffer is full
// misses the value instead of blocking the publisher.
type Hub[T any] struct {
	mu   sync.RWMutex
	subs map[*Subscription[T]]struct{}

	postCount     atomic.Uint64
	deliveryCount atomic.Uint64
	dropCount     atomic.Uint64
}

func NewHub[T any]() *Hub[T] {
	return &Hub[T]{subs: make(map[*Subscription[T]]struct{})}
}

func (h *Hub[T]) Subscribe(buffer int) *Subscription[T] {
	sub := &Subscription[T]{ch: make(chan T, buffer)}
	h.mu.Lock()
	h.subs[sub] = struct{}{}
	h.mu.Unlock()
	return sub
}

// Unsubscribe closes the subscription channel. It is safe to call more than once.
func (h *Hub[T]) Unsubscribe(sub *Subscription[T]) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.subs[sub]; !ok {
		return
	}
	delete(h.subs, sub)
	close(sub.ch)
}

func (h *Hub[T]) Post(value T) {
	h.postCount.Add(1)

	h.mu.RLock()
	defer h.mu.RUnlock()
	for sub := range h.subs {
		select {
		case sub.ch <- value:
			h.deliveryCount.Add(1)
		default:
			h.dropCount.Add(1)
		}
	}
}

func (h *Hub[T]) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

func (h *Hub[T]) Statistics() Statistics {
	return Statistics{
		PostCount:     h.postCount.Load(),
		DeliveryCount: h.deliveryCount.Load(),
		DropCount:     h.dropCount.Load(),
		Subscribers:   h.Subscribers(),
	}
}
