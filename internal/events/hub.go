package events

import "sync"

// Hub fans out serialized events to SSE subscribers. Slow subscribers miss
// events rather than block a snap.
type Hub struct {
	mu      sync.Mutex
	clients map[chan string]struct{}
}

func NewHub() *Hub {
	return &Hub{clients: make(map[chan string]struct{})}
}

func (h *Hub) Subscribe() chan string {
	ch := make(chan string, 10)
	h.mu.Lock()
	h.clients[ch] = struct{}{}
	h.mu.Unlock()
	return ch
}

func (h *Hub) Unsubscribe(ch chan string) {
	h.mu.Lock()
	if _, ok := h.clients[ch]; ok {
		delete(h.clients, ch)
		close(ch)
	}
	h.mu.Unlock()
}

// Publish returns how many subscribers received evt.
func (h *Hub) Publish(evt string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := 0
	for ch := range h.clients {
		select {
		case ch <- evt:
			n++
		default:
			// drop if slow
		}
	}
	return n
}

func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}
