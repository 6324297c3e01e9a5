package websocket

import (
	"sync"

	"github.com/google/uuid"
	"github.com/stemsi/exstem-client/internal/attempt"
	"github.com/stemsi/exstem-client/internal/roles"
)

// subscriberBuffer bounds how far a slow stream may fall behind before
// messages are dropped for it.
const subscriberBuffer = 64

// Hub fans attempt events out to every stream watching the attempt.
type Hub struct {
	mu   sync.RWMutex
	subs map[uuid.UUID]map[chan interface{}]struct{}
}

// NewHub creates an empty Hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[uuid.UUID]map[chan interface{}]struct{})}
}

// Subscribe registers a stream for attempt id. The returned cancel func
// must be called when the stream ends; it closes the channel.
func (h *Hub) Subscribe(id uuid.UUID) (<-chan interface{}, func()) {
	ch := make(chan interface{}, subscriberBuffer)

	h.mu.Lock()
	if h.subs[id] == nil {
		h.subs[id] = make(map[chan interface{}]struct{})
	}
	h.subs[id][ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			if set, ok := h.subs[id]; ok {
				if _, ok := set[ch]; ok {
					delete(set, ch)
					close(ch)
				}
				if len(set) == 0 {
					delete(h.subs, id)
				}
			}
			h.mu.Unlock()
		})
	}
}

// Close drops every stream of attempt id.
func (h *Hub) Close(id uuid.UUID) {
	h.mu.Lock()
	for ch := range h.subs[id] {
		close(ch)
	}
	delete(h.subs, id)
	h.mu.Unlock()
}

// Subscribers returns the number of streams watching attempt id.
func (h *Hub) Subscribers(id uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[id])
}

// Publish converts ev to its wire payload and hands it to every stream of
// attempt id without blocking.
func (h *Hub) Publish(id uuid.UUID, ev attempt.Event) {
	msg := Encode(ev)

	h.mu.RLock()
	defer h.mu.RUnlock()
	for ch := range h.subs[id] {
		select {
		case ch <- msg:
		default:
		}
	}
}

// Encode maps an attempt event to the payload sent on the wire.
func Encode(ev attempt.Event) interface{} {
	switch ev.Kind {
	case attempt.EventTick:
		return TickResponse{
			Event:            EventTick,
			RemainingSeconds: ev.Snapshot.RemainingSeconds,
			ElapsedSeconds:   ev.Snapshot.ElapsedSeconds,
			Remaining:        ev.Snapshot.Remaining,
		}
	case attempt.EventNavigate:
		return NavigateResponse{Event: EventNavigate, To: roles.ResultPath(ev.ResultID), ResultID: ev.ResultID}
	case attempt.EventLoaded:
		return SnapshotResponse{Event: EventLoaded, Snapshot: ev.Snapshot}
	case attempt.EventState:
		return SnapshotResponse{Event: EventState, Snapshot: ev.Snapshot}
	default:
		return SnapshotResponse{Event: EventChanged, Snapshot: ev.Snapshot}
	}
}
