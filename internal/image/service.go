package image

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/pixboard/service/internal/metrics"
	"github.com/pixboard/service/internal/storage"
)

const defaultTimeout = 10 * time.Second

// ErrList is returned when the store cannot be listed.
var ErrList = errors.New("list images")

// ErrStore is returned when an upload cannot be written to the store.
var ErrStore = errors.New("store image")

// ErrNoFile is returned when an upload request carries no file.
var ErrNoFile = errors.New("no file uploaded")

// Service is the gateway between the gallery and the object store.
type Service struct {
	store   storage.Storage
	prefix  string
	timeout time.Duration
	metrics *metrics.Metrics
	now     func() time.Time
}

// NewService creates a new image Service. Every store call is bounded by timeout.
func NewService(store storage.Storage, timeout time.Duration, m *metrics.Metrics) *Service {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Service{
		store:   store,
		timeout: timeout,
		metrics: m,
		now:     time.Now,
	}
}

// List returns the current contents of the store. An empty store yields an
// empty listing; store errors and timeouts are wrapped in ErrList.
func (s *Service) List(ctx context.Context) (Listing, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	objects, err := s.store.List(ctx, s.prefix)
	if err != nil {
		s.metrics.StoreCall("list", err)
		return nil, fmt.Errorf("%w: %w", ErrList, err)
	}
	s.metrics.StoreCall("list", nil)

	listing := make(Listing, 0, len(objects))
	for _, o := range objects {
		listing = append(listing, ObjectEntry{Key: o.Key, PublicURL: s.store.PublicURL(o.Key)})
	}
	return listing, nil
}

// Store writes body under a freshly generated key and returns the new entry.
func (s *Service) Store(ctx context.Context, field, originalName, contentType string, body io.Reader, size int64) (ObjectEntry, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	key := storage.NewKey(s.now(), originalName)
	meta := map[string]string{"fieldName": field}
	if err := s.store.Put(ctx, key, body, size, contentType, meta); err != nil {
		s.metrics.StoreCall("put", err)
		return ObjectEntry{}, fmt.Errorf("%w: %w", ErrStore, err)
	}
	s.metrics.StoreCall("put", nil)

	return ObjectEntry{Key: key, PublicURL: s.store.PublicURL(key)}, nil
}

// StoreFile adapts Store to the upload middleware.
func (s *Service) StoreFile(ctx context.Context, field, originalName, contentType string, body io.Reader, size int64) (string, string, error) {
	entry, err := s.Store(ctx, field, originalName, contentType, body, size)
	if err != nil {
		return "", "", err
	}
	return entry.Key, entry.PublicURL, nil
}

// PublicURL returns the URL an object would be served from.
func (s *Service) PublicURL(key string) string {
	return s.store.PublicURL(key)
}
