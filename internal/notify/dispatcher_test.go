package notify

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campushub/portal-backend/internal/notifications"
	"github.com/campushub/portal-backend/internal/realtime"
	"github.com/campushub/portal-backend/pkg/db/models"
)

type fakeStore struct {
	mu      sync.Mutex
	created []notifications.CreateParams
	failFor map[uuid.UUID]error
	unread  map[uuid.UUID]int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		failFor: make(map[uuid.UUID]error),
		unread:  make(map[uuid.UUID]int64),
	}
}

func (f *fakeStore) Create(ctx context.Context, params notifications.CreateParams) (*models.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.failFor[params.RecipientID]; ok {
		return nil, err
	}
	f.created = append(f.created, params)
	f.unread[params.RecipientID]++
	return &models.Notification{
		ID:          uuid.New(),
		RecipientID: params.RecipientID,
		Type:        params.Type,
		Title:       params.Title,
		Message:     params.Message,
		RelatedID:   params.RelatedID,
	}, nil
}

func (f *fakeStore) UnreadCount(ctx context.Context, recipientID uuid.UUID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.unread[recipientID], nil
}

func (f *fakeStore) createdCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.created)
}

type push struct {
	room    string
	event   string
	payload any
}

type fakeBroadcaster struct {
	mu     sync.Mutex
	pushes []push
	notify chan struct{}
}

func (f *fakeBroadcaster) Broadcast(room, event string, payload any) {
	f.mu.Lock()
	f.pushes = append(f.pushes, push{room: room, event: event, payload: payload})
	f.mu.Unlock()
	if f.notify != nil {
		select {
		case f.notify <- struct{}{}:
		default:
		}
	}
}

func (f *fakeBroadcaster) byEvent(event string) []push {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []push
	for _, p := range f.pushes {
		if p.event == event {
			out = append(out, p)
		}
	}
	return out
}

func newTestDispatcher(t *testing.T, store Store, broadcaster Broadcaster) *Dispatcher {
	t.Helper()
	d, err := NewDispatcher(store, broadcaster, nil, nil)
	require.NoError(t, err)
	return d
}

func TestDispatchPersistsBeforePushing(t *testing.T) {
	store := newFakeStore()
	broadcaster := &fakeBroadcaster{}
	d := newTestDispatcher(t, store, broadcaster)

	student := uuid.New()
	err := d.Dispatch(context.Background(), AssignmentGraded{
		SubmissionID: uuid.New(),
		AssignmentID: uuid.New(),
		StudentID:    student,
		Grade:        18,
		MaxMarks:     20,
	})
	require.NoError(t, err)

	require.Equal(t, 1, store.createdCount())
	assert.Equal(t, "Your assignment has been graded: 18/20", store.created[0].Message)

	graded := broadcaster.byEvent(EventAssignmentGraded)
	require.Len(t, graded, 1)
	assert.Equal(t, realtime.UserRoom(student), graded[0].room)
}

func TestDispatchSuppressesPushWhenNothingPersisted(t *testing.T) {
	store := newFakeStore()
	student := uuid.New()
	store.failFor[student] = errors.New("insert failed")
	broadcaster := &fakeBroadcaster{}
	d := newTestDispatcher(t, store, broadcaster)

	err := d.Dispatch(context.Background(), AttendanceMarked{
		RecordID:  uuid.New(),
		StudentID: student,
		Date:      "2026-08-27",
		Status:    "present",
	})
	require.Error(t, err)
	assert.Empty(t, broadcaster.pushes, "no durable record means no live push")
}

func TestDispatchIsolatesPerRecipientFailures(t *testing.T) {
	store := newFakeStore()
	healthy := uuid.New()
	broken := uuid.New()
	store.failFor[broken] = errors.New("insert failed")
	broadcaster := &fakeBroadcaster{}
	d := newTestDispatcher(t, store, broadcaster)

	courseID := uuid.New()
	err := d.Dispatch(context.Background(), AssignmentCreated{
		AssignmentID: uuid.New(),
		CourseID:     courseID,
		Title:        "Graph Algorithms",
		StudentIDs:   []uuid.UUID{healthy, broken},
	})
	require.Error(t, err, "skipped recipient must surface")

	assert.Equal(t, 1, store.createdCount(), "healthy recipient still persisted")
	created := broadcaster.byEvent(EventAssignmentCreated)
	require.Len(t, created, 3, "course room plus each student's room")
	assert.Equal(t, realtime.CourseRoom(courseID), created[0].room)

	counts := broadcaster.byEvent(EventUnreadCount)
	require.Len(t, counts, 1, "only the persisted recipient gets a badge refresh")
	assert.Equal(t, realtime.UserRoom(healthy), counts[0].room)
}

func TestDispatchPushesCreatedEventsToStudentRooms(t *testing.T) {
	store := newFakeStore()
	broadcaster := &fakeBroadcaster{}
	d := newTestDispatcher(t, store, broadcaster)

	studentA := uuid.New()
	studentB := uuid.New()
	courseID := uuid.New()
	require.NoError(t, d.Dispatch(context.Background(), AssessmentCreated{
		AssessmentID: uuid.New(),
		CourseID:     courseID,
		Title:        "Quiz 2",
		Kind:         "quiz",
		StudentIDs:   []uuid.UUID{studentA, studentB},
	}))

	created := broadcaster.byEvent(EventAssessmentCreated)
	rooms := make([]string, 0, len(created))
	for _, p := range created {
		rooms = append(rooms, p.room)
	}
	assert.Contains(t, rooms, realtime.CourseRoom(courseID))
	assert.Contains(t, rooms, realtime.UserRoom(studentA), "students off the course page still get the push")
	assert.Contains(t, rooms, realtime.UserRoom(studentB))
}

func TestDispatchPayloadCarriesStoredTitleAndMessage(t *testing.T) {
	store := newFakeStore()
	broadcaster := &fakeBroadcaster{}
	d := newTestDispatcher(t, store, broadcaster)

	feedback := "show your working on question 3"
	require.NoError(t, d.Dispatch(context.Background(), AssignmentGraded{
		SubmissionID: uuid.New(),
		AssignmentID: uuid.New(),
		StudentID:    uuid.New(),
		Grade:        18,
		MaxMarks:     20,
		Feedback:     &feedback,
	}))

	graded := broadcaster.byEvent(EventAssignmentGraded)
	require.Len(t, graded, 1)
	payload, ok := graded[0].payload.(map[string]any)
	require.True(t, ok)

	require.Equal(t, 1, store.createdCount())
	assert.Equal(t, store.created[0].Title, payload["title"])
	assert.Equal(t, store.created[0].Message, payload["message"])
	assert.Equal(t, &feedback, payload["feedback"])
}

func TestPushUnreadCountReachesUserRoom(t *testing.T) {
	store := newFakeStore()
	broadcaster := &fakeBroadcaster{}
	d := newTestDispatcher(t, store, broadcaster)

	recipient := uuid.New()
	store.unread[recipient] = 4

	d.PushUnreadCount(context.Background(), recipient)

	counts := broadcaster.byEvent(EventUnreadCount)
	require.Len(t, counts, 1)
	assert.Equal(t, realtime.UserRoom(recipient), counts[0].room)
	payload, ok := counts[0].payload.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, int64(4), payload["count"])
}

func TestDispatchPushesRoomsForEventsWithoutRecipients(t *testing.T) {
	store := newFakeStore()
	broadcaster := &fakeBroadcaster{}
	d := newTestDispatcher(t, store, broadcaster)

	err := d.Dispatch(context.Background(), CourseLifecycle{
		Event:      EventCourseCreated,
		CourseID:   uuid.New(),
		Department: "CSE",
		CourseName: "Databases",
		Code:       "CS301",
	})
	require.NoError(t, err)

	assert.Equal(t, 0, store.createdCount())
	created := broadcaster.byEvent(EventCourseCreated)
	require.Len(t, created, 1)
	assert.Equal(t, realtime.DeptRoom("CSE"), created[0].room)
}

func TestDispatchRefreshesUnreadCount(t *testing.T) {
	store := newFakeStore()
	broadcaster := &fakeBroadcaster{}
	d := newTestDispatcher(t, store, broadcaster)

	student := uuid.New()
	require.NoError(t, d.Dispatch(context.Background(), MarksUpdated{
		MarkID:     uuid.New(),
		StudentID:  student,
		Component:  "midterm",
		CourseName: "Databases",
		Marks:      42,
		MaxMarks:   50,
	}))

	counts := broadcaster.byEvent(EventUnreadCount)
	require.Len(t, counts, 1)
	assert.Equal(t, realtime.UserRoom(student), counts[0].room)
	payload, ok := counts[0].payload.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, int64(1), payload["count"])
}

func TestDispatchAsyncCompletesAfterCallerCancels(t *testing.T) {
	store := newFakeStore()
	broadcaster := &fakeBroadcaster{notify: make(chan struct{}, 8)}
	d := newTestDispatcher(t, store, broadcaster)

	ctx, cancel := context.WithCancel(context.Background())
	d.DispatchAsync(ctx, MessageReceived{
		MessageID:   uuid.New(),
		RecipientID: uuid.New(),
		SenderName:  "Prof. Rao",
		Preview:     "office hours moved to 3pm",
	})
	cancel()

	deadline := time.After(2 * time.Second)
	for {
		if len(broadcaster.byEvent(EventMessageReceived)) == 1 {
			break
		}
		select {
		case <-broadcaster.notify:
		case <-deadline:
			t.Fatal("async dispatch did not complete")
		}
	}
	assert.Equal(t, 1, store.createdCount())
}
