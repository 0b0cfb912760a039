package messaging

import "sync"

// Hub distributes change notifications to live message subscriptions.
// Each subscriber owns a buffered channel; notifications are coalesced,
// so a slow subscriber sees at most one pending signal and re-reads the
// full message list when it drains it.
type Hub struct {
	mu   sync.Mutex
	subs map[string]map[chan struct{}]struct{}
}

// NewHub creates an empty hub
func NewHub() *Hub {
	return &Hub{subs: make(map[string]map[chan struct{}]struct{})}
}

// Subscribe registers a listener for the given group. The returned cancel
// function must be called when the consumer goes away, or the listener
// leaks and keeps receiving signals for a discarded view.
func (h *Hub) Subscribe(groupID string) (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)

	h.mu.Lock()
	if h.subs[groupID] == nil {
		h.subs[groupID] = make(map[chan struct{}]struct{})
	}
	h.subs[groupID][ch] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		if set, ok := h.subs[groupID]; ok {
			delete(set, ch)
			if len(set) == 0 {
				delete(h.subs, groupID)
			}
		}
		h.mu.Unlock()
	}

	return ch, cancel
}

// Notify signals every subscriber of the group that its message list
// changed. Signals to subscribers with a pending notification are dropped.
func (h *Hub) Notify(groupID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for ch := range h.subs[groupID] {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// SubscriberCount returns the number of active listeners for a group
func (h *Hub) SubscriberCount(groupID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs[groupID])
}

var defaultHub = NewHub()

// Subscribe registers a listener for the group on the shared hub
func Subscribe(groupID string) (<-chan struct{}, func()) {
	return defaultHub.Subscribe(groupID)
}

// Notify signals the group's listeners on the shared hub
func Notify(groupID string) {
	defaultHub.Notify(groupID)
}
