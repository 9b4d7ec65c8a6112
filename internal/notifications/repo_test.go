package notifications

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/campushub/portal-backend/pkg/db/models"
	"github.com/campushub/portal-backend/pkg/enums"
	"github.com/campushub/portal-backend/pkg/pagination"
)

func setupNotificationsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	schema := `
CREATE TABLE IF NOT EXISTS notifications (
  id TEXT PRIMARY KEY,
  recipient_id TEXT NOT NULL,
  type TEXT NOT NULL,
  title TEXT NOT NULL,
  message TEXT NOT NULL,
  related_id TEXT,
  is_read INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME
);`
	require.NoError(t, db.Exec(schema).Error)
	return db
}

func seedNotification(t *testing.T, repo Repository, recipientID uuid.UUID, createdAt time.Time, read bool) models.Notification {
	t.Helper()
	record := models.Notification{
		ID:          uuid.New(),
		RecipientID: recipientID,
		Type:        enums.NotificationTypeAssignment,
		Title:       "New Assignment",
		Message:     "New assignment: Graph Algorithms",
		IsRead:      read,
		CreatedAt:   createdAt,
	}
	require.NoError(t, repo.Create(context.Background(), &record))
	return record
}

func TestRepository_ListOrdersNewestFirst(t *testing.T) {
	repo := NewRepository(setupNotificationsTestDB(t))
	recipient := uuid.New()
	base := time.Now().UTC().Truncate(time.Second)

	oldest := seedNotification(t, repo, recipient, base.Add(-2*time.Hour), false)
	middle := seedNotification(t, repo, recipient, base.Add(-time.Hour), true)
	newest := seedNotification(t, repo, recipient, base, false)
	seedNotification(t, repo, uuid.New(), base, false) // other recipient

	rows, err := repo.List(context.Background(), listNotificationsParams{
		RecipientID: recipient,
		Page:        pagination.Page{Limit: 10},
	})
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, newest.ID, rows[0].ID)
	assert.Equal(t, middle.ID, rows[1].ID)
	assert.Equal(t, oldest.ID, rows[2].ID)
}

func TestRepository_ListHonorsLimitAndOffset(t *testing.T) {
	repo := NewRepository(setupNotificationsTestDB(t))
	recipient := uuid.New()
	base := time.Now().UTC().Truncate(time.Second)

	for i := 0; i < 5; i++ {
		seedNotification(t, repo, recipient, base.Add(-time.Duration(i)*time.Minute), false)
	}

	firstPage, err := repo.List(context.Background(), listNotificationsParams{
		RecipientID: recipient,
		Page:        pagination.Page{Limit: 2},
	})
	require.NoError(t, err)
	require.Len(t, firstPage, 2)

	secondPage, err := repo.List(context.Background(), listNotificationsParams{
		RecipientID: recipient,
		Page:        pagination.Page{Limit: 2, Offset: 2},
	})
	require.NoError(t, err)
	require.Len(t, secondPage, 2)
	assert.NotEqual(t, firstPage[0].ID, secondPage[0].ID)
	assert.True(t, firstPage[1].CreatedAt.After(secondPage[0].CreatedAt) ||
		firstPage[1].CreatedAt.Equal(secondPage[0].CreatedAt))
}

func TestRepository_ListUnreadOnly(t *testing.T) {
	repo := NewRepository(setupNotificationsTestDB(t))
	recipient := uuid.New()
	base := time.Now().UTC()

	unread := seedNotification(t, repo, recipient, base, false)
	seedNotification(t, repo, recipient, base.Add(-time.Minute), true)

	rows, err := repo.List(context.Background(), listNotificationsParams{
		RecipientID: recipient,
		Page:        pagination.Page{Limit: 10},
		UnreadOnly:  true,
	})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, unread.ID, rows[0].ID)
}

func TestRepository_UnreadCount(t *testing.T) {
	repo := NewRepository(setupNotificationsTestDB(t))
	recipient := uuid.New()
	base := time.Now().UTC()

	seedNotification(t, repo, recipient, base, false)
	seedNotification(t, repo, recipient, base.Add(-time.Minute), false)
	seedNotification(t, repo, recipient, base.Add(-2*time.Minute), true)
	seedNotification(t, repo, uuid.New(), base, false)

	count, err := repo.UnreadCount(context.Background(), recipient)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestRepository_MarkRead(t *testing.T) {
	repo := NewRepository(setupNotificationsTestDB(t))
	recipient := uuid.New()
	record := seedNotification(t, repo, recipient, time.Now().UTC(), false)

	result, err := repo.MarkRead(context.Background(), recipient, record.ID)
	require.NoError(t, err)
	assert.True(t, result.Found)
	assert.True(t, result.Updated)

	count, err := repo.UnreadCount(context.Background(), recipient)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestRepository_MarkReadAlreadyReadIsFoundNotUpdated(t *testing.T) {
	repo := NewRepository(setupNotificationsTestDB(t))
	recipient := uuid.New()
	record := seedNotification(t, repo, recipient, time.Now().UTC(), true)

	result, err := repo.MarkRead(context.Background(), recipient, record.ID)
	require.NoError(t, err)
	assert.True(t, result.Found)
	assert.False(t, result.Updated)
}

func TestRepository_MarkReadWrongRecipientLooksMissing(t *testing.T) {
	repo := NewRepository(setupNotificationsTestDB(t))
	owner := uuid.New()
	record := seedNotification(t, repo, owner, time.Now().UTC(), false)

	result, err := repo.MarkRead(context.Background(), uuid.New(), record.ID)
	require.NoError(t, err)
	assert.False(t, result.Found)
	assert.False(t, result.Updated)

	count, err := repo.UnreadCount(context.Background(), owner)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count, "foreign mark attempt must not flip the row")
}

func TestRepository_MarkAllRead(t *testing.T) {
	repo := NewRepository(setupNotificationsTestDB(t))
	recipient := uuid.New()
	base := time.Now().UTC()

	seedNotification(t, repo, recipient, base, false)
	seedNotification(t, repo, recipient, base.Add(-time.Minute), false)
	other := uuid.New()
	seedNotification(t, repo, other, base, false)

	updated, err := repo.MarkAllRead(context.Background(), recipient)
	require.NoError(t, err)
	assert.Equal(t, int64(2), updated)

	again, err := repo.MarkAllRead(context.Background(), recipient)
	require.NoError(t, err)
	assert.Equal(t, int64(0), again, "second pass has nothing left to flip")

	count, err := repo.UnreadCount(context.Background(), other)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestRepository_CreateBatch(t *testing.T) {
	repo := NewRepository(setupNotificationsTestDB(t))
	a, b := uuid.New(), uuid.New()

	batch := []*models.Notification{
		{ID: uuid.New(), RecipientID: a, Type: enums.NotificationTypeMarks, Title: "Internal Marks Updated", Message: "midterm marks for Databases: 42/50", CreatedAt: time.Now().UTC()},
		{ID: uuid.New(), RecipientID: b, Type: enums.NotificationTypeMarks, Title: "Internal Marks Updated", Message: "midterm marks for Databases: 47/50", CreatedAt: time.Now().UTC()},
	}
	require.NoError(t, repo.CreateBatch(context.Background(), batch))
	require.NoError(t, repo.CreateBatch(context.Background(), nil))

	for _, recipient := range []uuid.UUID{a, b} {
		count, err := repo.UnreadCount(context.Background(), recipient)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	}
}
