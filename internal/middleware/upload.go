package middleware

import (
	"context"
	"errors"
	"io"
	"mime"
	"net/http"

	"github.com/pixboard/service/internal/logger"
	"github.com/pixboard/service/internal/response"
)

// maxMemory is how much of a multipart body is kept in memory before spilling to disk.
const maxMemory = 8 << 20

// uploadedFileKey is the context key for the file stored by SingleFile.
const uploadedFileKey contextKey = "uploadedFile"

// FileStore writes an uploaded file and reports where it ended up.
type FileStore interface {
	StoreFile(ctx context.Context, field, originalName, contentType string, body io.Reader, size int64) (key, location string, err error)
}

// UploadedFile describes a file SingleFile has already written to the store.
type UploadedFile struct {
	FieldName    string
	OriginalName string
	ContentType  string
	Size         int64
	Key          string
	Location     string
}

// UploadedFileFromContext returns the file stored for this request, if any.
func UploadedFileFromContext(ctx context.Context) (*UploadedFile, bool) {
	f, ok := ctx.Value(uploadedFileKey).(*UploadedFile)
	return f, ok && f != nil
}

// SingleFile returns middleware that accepts at most one file under field,
// writes it through store and injects the result into the request context.
// Requests without a file pass through untouched so the handler can reject them.
func SingleFile(field string, maxBytes int64, store FileStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
			if err != nil || mediaType != "multipart/form-data" {
				next.ServeHTTP(w, r)
				return
			}

			if maxBytes > 0 {
				r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			}
			if err := r.ParseMultipartForm(maxMemory); err != nil {
				var tooLarge *http.MaxBytesError
				if errors.As(err, &tooLarge) {
					response.Text(w, http.StatusRequestEntityTooLarge, "file too large")
					return
				}
				response.BadRequest(w, "invalid multipart form")
				return
			}
			defer r.MultipartForm.RemoveAll() //nolint:errcheck

			for name, headers := range r.MultipartForm.File {
				if name != field || len(headers) > 1 {
					response.BadRequest(w, "unexpected field: "+name)
					return
				}
			}

			headers := r.MultipartForm.File[field]
			if len(headers) == 0 {
				next.ServeHTTP(w, r)
				return
			}

			fh := headers[0]
			src, err := fh.Open()
			if err != nil {
				response.BadRequest(w, "unreadable file")
				return
			}
			defer src.Close()

			contentType := fh.Header.Get("Content-Type")
			if contentType == "" {
				contentType = "application/octet-stream"
			}

			key, location, err := store.StoreFile(r.Context(), field, fh.Filename, contentType, src, fh.Size)
			if err != nil {
				logger.Log.Error().Err(err).Str("file", fh.Filename).Msg("upload: store failed")
				response.InternalError(w, "failed to store file")
				return
			}

			ctx := context.WithValue(r.Context(), uploadedFileKey, &UploadedFile{
				FieldName:    field,
				OriginalName: fh.Filename,
				ContentType:  contentType,
				Size:         fh.Size,
				Key:          key,
				Location:     location,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
