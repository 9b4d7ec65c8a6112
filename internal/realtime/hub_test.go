package realtime

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campushub/portal-backend/pkg/logger"
)

type fakeClient struct {
	frames [][]byte
	full   bool
}

func (f *fakeClient) Enqueue(frame []byte) bool {
	if f.full {
		return false
	}
	f.frames = append(f.frames, frame)
	return true
}

func (f *fakeClient) lastEvent(t *testing.T) Envelope {
	t.Helper()
	require.NotEmpty(t, f.frames)
	var env Envelope
	require.NoError(t, json.Unmarshal(f.frames[len(f.frames)-1], &env))
	return env
}

func newTestHub() *Hub {
	return NewHub(logger.New(logger.Options{ServiceName: "hub-test"}), nil)
}

func TestBroadcastReachesOnlyRoomMembers(t *testing.T) {
	hub := newTestHub()
	inRoom := &fakeClient{}
	outOfRoom := &fakeClient{}

	courseA := CourseRoom(uuid.New())
	courseB := CourseRoom(uuid.New())
	hub.Join(inRoom, courseA)
	hub.Join(outOfRoom, courseB)

	hub.Broadcast(courseA, "assignment:created", map[string]any{"title": "HW1"})

	env := inRoom.lastEvent(t)
	assert.Equal(t, "assignment:created", env.Event)
	assert.Empty(t, outOfRoom.frames, "clients in other rooms must receive nothing")
}

func TestJoinIsIdempotent(t *testing.T) {
	hub := newTestHub()
	c := &fakeClient{}
	room := CourseRoom(uuid.New())

	hub.Join(c, room)
	hub.Join(c, room)
	assert.Equal(t, 1, hub.MemberCount(room))

	hub.Broadcast(room, "ping", nil)
	assert.Len(t, c.frames, 1, "double join must not double deliveries")
}

func TestLeaveIsIdempotent(t *testing.T) {
	hub := newTestHub()
	c := &fakeClient{}
	room := CourseRoom(uuid.New())

	hub.Join(c, room)
	hub.Leave(c, room)
	hub.Leave(c, room)

	assert.Equal(t, 0, hub.MemberCount(room))
	hub.Broadcast(room, "ping", nil)
	assert.Empty(t, c.frames)
}

func TestRemoveClearsAllRooms(t *testing.T) {
	hub := newTestHub()
	c := &fakeClient{}
	userID := uuid.New()

	hub.Join(c, UserRoom(userID))
	hub.Join(c, DeptRoom("CSE"))
	hub.Join(c, CourseRoom(uuid.New()))
	require.Len(t, hub.Rooms(c), 3)

	hub.Remove(c)
	assert.Empty(t, hub.Rooms(c))
	assert.Equal(t, 0, hub.MemberCount(UserRoom(userID)))
}

func TestBroadcastToEmptyRoomIsNoOp(t *testing.T) {
	hub := newTestHub()
	// Must not panic or leak state.
	hub.Broadcast(CourseRoom(uuid.New()), "assignment:created", map[string]any{"title": "HW1"})
}

func TestBroadcastDropsWhenClientQueueFull(t *testing.T) {
	hub := newTestHub()
	slow := &fakeClient{full: true}
	fast := &fakeClient{}
	room := DeptRoom("EEE")

	hub.Join(slow, room)
	hub.Join(fast, room)

	hub.Broadcast(room, "course:created", map[string]any{"code": "EE201"})

	assert.Empty(t, slow.frames)
	assert.Len(t, fast.frames, 1, "a lagging client must not block delivery to others")
}
