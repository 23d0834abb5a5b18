package image

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pixboard/service/internal/storage"
)

const testBase = "https://bucket.s3.us-east-2.amazonaws.com"

// memStore keeps objects in memory in insertion order.
type memStore struct {
	mu      sync.Mutex
	keys    []string
	meta    map[string]map[string]string
	listErr error
	putErr  error
	block   bool
}

func newMemStore(keys ...string) *memStore {
	return &memStore{keys: keys, meta: make(map[string]map[string]string)}
}

func (m *memStore) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string, metadata map[string]string) error {
	if m.putErr != nil {
		return m.putErr
	}
	if _, err := io.Copy(io.Discard, r); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.keys = append(m.keys, key)
	m.meta[key] = metadata
	return nil
}

func (m *memStore) List(ctx context.Context, prefix string) ([]storage.Object, error) {
	if m.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if m.listErr != nil {
		return nil, m.listErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	objs := make([]storage.Object, 0, len(m.keys))
	for _, k := range m.keys {
		objs = append(objs, storage.Object{Key: k})
	}
	return objs, nil
}

func (m *memStore) PublicURL(key string) string {
	return storage.JoinURL(testBase, key)
}

func TestListMapsKeysToPublicURLs(t *testing.T) {
	svc := NewService(newMemStore("a.png", "b.png"), time.Second, nil)

	listing, err := svc.List(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{
		"https://bucket.s3.us-east-2.amazonaws.com/a.png",
		"https://bucket.s3.us-east-2.amazonaws.com/b.png",
	}, listing.URLs())
	assert.Equal(t, "a.png", listing[0].Key)
}

func TestListIsIdempotent(t *testing.T) {
	svc := NewService(newMemStore("x.png", "y.png", "z.png"), time.Second, nil)

	first, err := svc.List(context.Background())
	require.NoError(t, err)
	second, err := svc.List(context.Background())
	require.NoError(t, err)

	assert.Len(t, first, 3)
	assert.Equal(t, first, second)
}

func TestListEmptyStore(t *testing.T) {
	svc := NewService(newMemStore(), time.Second, nil)

	listing, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, listing)
	assert.Empty(t, listing)
	assert.Equal(t, []string{}, listing.URLs())
}

func TestListFailure(t *testing.T) {
	store := newMemStore()
	store.listErr = errors.New("access denied")
	svc := NewService(store, time.Second, nil)

	_, err := svc.List(context.Background())
	assert.ErrorIs(t, err, ErrList)
	assert.Contains(t, err.Error(), "access denied")
}

func TestListTimeout(t *testing.T) {
	store := newMemStore()
	store.block = true
	svc := NewService(store, 20*time.Millisecond, nil)

	_, err := svc.List(context.Background())
	assert.ErrorIs(t, err, ErrList)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestStoreThenListContainsKey(t *testing.T) {
	store := newMemStore("old.png")
	svc := NewService(store, time.Second, nil)
	svc.now = func() time.Time { return time.UnixMilli(1740000000000) }

	entry, err := svc.Store(context.Background(), "image", "new cat.png", "image/png", strings.NewReader("png"), 3)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(entry.Key, "1740000000000-"))
	assert.True(t, strings.HasSuffix(entry.Key, "-new-cat.png"))
	assert.Equal(t, testBase+"/"+entry.Key, entry.PublicURL)
	assert.Equal(t, map[string]string{"fieldName": "image"}, store.meta[entry.Key])

	listing, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Contains(t, listing, entry)
}

func TestStoreFailure(t *testing.T) {
	store := newMemStore()
	store.putErr = errors.New("quota exceeded")
	svc := NewService(store, time.Second, nil)

	_, _, err := svc.StoreFile(context.Background(), "image", "a.png", "image/png", strings.NewReader("x"), 1)
	assert.ErrorIs(t, err, ErrStore)
}
