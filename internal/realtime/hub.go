package realtime

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/campushub/portal-backend/pkg/logger"
	"github.com/campushub/portal-backend/pkg/metrics"
)

// Client is one connected socket able to accept queued frames. Enqueue must
// never block; it returns false when the frame was dropped.
type Client interface {
	Enqueue(frame []byte) bool
}

// Envelope is the single serialization boundary for server→client events.
type Envelope struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// Hub is the in-process room registry and broadcaster. A push to a room
// reaches exactly its current members; rooms with no members are a no-op.
type Hub struct {
	mu      sync.RWMutex
	rooms   map[string]map[Client]struct{}
	members map[Client]map[string]struct{}

	logg    *logger.Logger
	metrics *metrics.DispatchMetrics
}

// NewHub creates an empty hub.
func NewHub(logg *logger.Logger, m *metrics.DispatchMetrics) *Hub {
	return &Hub{
		rooms:   make(map[string]map[Client]struct{}),
		members: make(map[Client]map[string]struct{}),
		logg:    logg,
		metrics: m,
	}
}

// Join adds the client to a room. Joining an already-joined room is a no-op.
func (h *Hub) Join(c Client, room string) {
	if c == nil || room == "" {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.rooms[room]; !ok {
		h.rooms[room] = make(map[Client]struct{})
	}
	h.rooms[room][c] = struct{}{}

	if _, ok := h.members[c]; !ok {
		h.members[c] = make(map[string]struct{})
	}
	h.members[c][room] = struct{}{}
}

// Leave removes the client from a room. Leaving an unjoined room is a no-op.
func (h *Hub) Leave(c Client, room string) {
	if c == nil || room == "" {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.leaveLocked(c, room)
}

// Remove detaches the client from every room it joined. Called on disconnect;
// membership leaves no persisted trace.
func (h *Hub) Remove(c Client) {
	if c == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for room := range h.members[c] {
		h.leaveLocked(c, room)
	}
	delete(h.members, c)
}

func (h *Hub) leaveLocked(c Client, room string) {
	if members, ok := h.rooms[room]; ok {
		delete(members, c)
		if len(members) == 0 {
			delete(h.rooms, room)
		}
	}
	if rooms, ok := h.members[c]; ok {
		delete(rooms, room)
	}
}

// Rooms returns the rooms the client currently belongs to.
func (h *Hub) Rooms(c Client) []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]string, 0, len(h.members[c]))
	for room := range h.members[c] {
		out = append(out, room)
	}
	return out
}

// MemberCount reports the current size of a room.
func (h *Hub) MemberCount(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}

// Broadcast pushes one event to every current member of the room. The frame
// is marshaled once; slow clients have the frame dropped rather than
// blocking the caller, since the durable notification record is the source
// of truth and the push is only a live hint.
func (h *Hub) Broadcast(room, event string, payload any) {
	frame, err := json.Marshal(Envelope{Event: event, Data: payload})
	if err != nil {
		if h.logg != nil {
			ctx := h.logg.WithFields(context.Background(), map[string]any{"room": room, "event": event})
			h.logg.Error(ctx, "broadcast payload not serializable", err)
		}
		return
	}

	h.mu.RLock()
	members := make([]Client, 0, len(h.rooms[room]))
	for c := range h.rooms[room] {
		members = append(members, c)
	}
	h.mu.RUnlock()

	for _, c := range members {
		if !c.Enqueue(frame) {
			h.metrics.IncDropped()
			if h.logg != nil {
				ctx := h.logg.WithFields(context.Background(), map[string]any{"room": room, "event": event})
				h.logg.Warn(ctx, "client send queue full, frame dropped")
			}
		}
	}
}
