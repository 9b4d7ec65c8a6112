package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	entries map[string]string
}

func newFakeStore() *fakeStore {
	return &fakeStore{entries: map[string]string{}}
}

func (f *fakeStore) Set(_ context.Context, key string, value any, _ time.Duration) error {
	f.entries[key] = "1"
	return nil
}

func (f *fakeStore) Exists(_ context.Context, key string) (bool, error) {
	_, ok := f.entries[key]
	return ok, nil
}

func (f *fakeStore) Del(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(f.entries, k)
	}
	return nil
}

func (f *fakeStore) SessionKey(sessionID string) string {
	return "test:session:" + sessionID
}

func TestSessionLifecycle(t *testing.T) {
	m := &Manager{store: newFakeStore(), ttl: time.Minute}
	ctx := context.Background()

	ok, err := m.HasSession(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, m.Create(ctx, "jti-1"))

	ok, err = m.HasSession(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, m.Revoke(ctx, "jti-1"))

	ok, err = m.HasSession(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCreateRequiresSessionID(t *testing.T) {
	m := &Manager{store: newFakeStore(), ttl: time.Minute}
	require.Error(t, m.Create(context.Background(), "  "))
}

func TestHasSessionBlankIDIsFalse(t *testing.T) {
	m := &Manager{store: newFakeStore(), ttl: time.Minute}
	ok, err := m.HasSession(context.Background(), "")
	require.NoError(t, err)
	assert.False(t, ok)
}
