package image

import (
	"bytes"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pixboard/service/internal/middleware"
)

type chanNotifier struct {
	ch chan Listing
}

func newChanNotifier() *chanNotifier {
	return &chanNotifier{ch: make(chan Listing, 8)}
}

func (n *chanNotifier) BroadcastAll(listing Listing) {
	n.ch <- listing
}

func newTestRouter(store *memStore, n Notifier) http.Handler {
	svc := NewService(store, time.Second, nil)
	h := NewHandler(svc, n)

	r := chi.NewRouter()
	r.With(middleware.SingleFile("image", 1<<20, svc)).Post("/upload", h.Upload)
	r.Get("/images", h.List)
	r.Get("/image/{filename}", h.Show)
	return r
}

func multipartBody(t *testing.T, field, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	if field != "" {
		part, err := mw.CreateFormFile(field, filename)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	} else {
		require.NoError(t, mw.WriteField("note", "no file here"))
	}
	require.NoError(t, mw.Close())
	return body, mw.FormDataContentType()
}

func TestUploadStoresAndBroadcasts(t *testing.T) {
	store := newMemStore("a.png")
	n := newChanNotifier()
	router := newTestRouter(store, n)

	body, ct := multipartBody(t, "image", "b.png", []byte("png"))
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp uploadResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "image uploaded successfully", resp.Message)
	assert.Contains(t, resp.Location, testBase+"/")
	assert.Contains(t, resp.Location, "-b.png")

	select {
	case listing := <-n.ch:
		assert.Equal(t, []string{testBase + "/a.png", resp.Location}, listing.URLs())
	case <-time.After(2 * time.Second):
		t.Fatal("no broadcast after upload")
	}
}

func TestUploadWithoutFile(t *testing.T) {
	n := newChanNotifier()
	router := newTestRouter(newMemStore(), n)

	for name, build := range map[string]func() *http.Request{
		"empty body": func() *http.Request {
			return httptest.NewRequest(http.MethodPost, "/upload", nil)
		},
		"multipart without file": func() *http.Request {
			body, ct := multipartBody(t, "", "", nil)
			req := httptest.NewRequest(http.MethodPost, "/upload", body)
			req.Header.Set("Content-Type", ct)
			return req
		},
	} {
		t.Run(name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, build())

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, ErrNoFile.Error(), rec.Body.String())
		})
	}

	assert.Never(t, func() bool { return len(n.ch) > 0 }, 100*time.Millisecond, 10*time.Millisecond)
}

func TestUploadRefreshFailureSkipsBroadcast(t *testing.T) {
	store := newMemStore()
	store.listErr = errors.New("store down")
	n := newChanNotifier()
	router := newTestRouter(store, n)

	body, ct := multipartBody(t, "image", "b.png", []byte("png"))
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Never(t, func() bool { return len(n.ch) > 0 }, 100*time.Millisecond, 10*time.Millisecond)
}

func TestListImages(t *testing.T) {
	router := newTestRouter(newMemStore("a.png", "b.png"), newChanNotifier())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/images", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `["https://bucket.s3.us-east-2.amazonaws.com/a.png","https://bucket.s3.us-east-2.amazonaws.com/b.png"]`, rec.Body.String())
}

func TestListImagesEmpty(t *testing.T) {
	router := newTestRouter(newMemStore(), newChanNotifier())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/images", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestListImagesStoreFailure(t *testing.T) {
	store := newMemStore()
	store.listErr = errors.New("store down")
	router := newTestRouter(store, newChanNotifier())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/images", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/plain")
	assert.Equal(t, "failed to list images", rec.Body.String())

	// the router keeps serving after a failure
	store.listErr = nil
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/images", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestShowImage(t *testing.T) {
	router := newTestRouter(newMemStore(), newChanNotifier())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/image/cat.png", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `<img src="https://bucket.s3.us-east-2.amazonaws.com/cat.png" alt="cat.png">`, rec.Body.String())
}
