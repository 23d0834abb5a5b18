package image

import (
	"context"
	"fmt"
	"html"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/pixboard/service/internal/logger"
	"github.com/pixboard/service/internal/middleware"
	"github.com/pixboard/service/internal/response"
)

// Notifier pushes a fresh listing to connected clients.
type Notifier interface {
	BroadcastAll(listing Listing)
}

// Handler holds HTTP handlers for the gallery endpoints.
type Handler struct {
	svc      *Service
	notifier Notifier
	log      zerolog.Logger
}

// NewHandler creates a new image Handler.
func NewHandler(svc *Service, notifier Notifier) *Handler {
	return &Handler{svc: svc, notifier: notifier, log: logger.Component("image")}
}

type uploadResponse struct {
	Message  string `json:"message"  example:"image uploaded successfully"`
	Location string `json:"location" example:"https://bucket.s3.us-east-2.amazonaws.com/1740000000000-1a2b3c4d-cat.png"`
}

// Upload godoc
//
//	@Summary		Upload an image
//	@Description	Stores a single file sent under the "image" multipart field and notifies every connected client with the refreshed listing.
//	@Tags			images
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			image	formData	file	true	"Image file"
//	@Success		200		{object}	uploadResponse
//	@Failure		400		{string}	string
//	@Failure		500		{string}	string
//	@Router			/upload [post]
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	file, ok := middleware.UploadedFileFromContext(r.Context())
	if !ok {
		h.svc.metrics.Upload("rejected")
		response.BadRequest(w, ErrNoFile.Error())
		return
	}
	h.svc.metrics.Upload("stored")

	response.JSON(w, http.StatusOK, uploadResponse{
		Message:  "image uploaded successfully",
		Location: file.Location,
	})

	h.log.Info().Str("key", file.Key).Int64("size", file.Size).Msg("image stored")
	go h.refresh(file.Key)
}

// refresh re-reads the store after an upload and fans the result out. It runs
// detached from the request so a slow store never delays the uploader.
func (h *Handler) refresh(key string) {
	listing, err := h.svc.List(context.Background())
	if err != nil {
		h.log.Warn().Err(err).Str("key", key).Msg("skipping broadcast after upload")
		return
	}
	h.notifier.BroadcastAll(listing)
}

// List godoc
//
//	@Summary		List images
//	@Description	Returns the public URL of every object currently in the store.
//	@Tags			images
//	@Produce		json
//	@Success		200	{array}		string
//	@Failure		500	{string}	string
//	@Router			/images [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	listing, err := h.svc.List(r.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("list images")
		response.InternalError(w, "failed to list images")
		return
	}
	response.JSON(w, http.StatusOK, listing.URLs())
}

// Show godoc
//
//	@Summary		Show one image
//	@Description	Renders an HTML img tag pointing at the public URL of the given object key.
//	@Tags			images
//	@Produce		html
//	@Param			filename	path		string	true	"Object key"
//	@Success		200			{string}	string
//	@Router			/image/{filename} [get]
func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	filename := chi.URLParam(r, "filename")
	src := h.svc.PublicURL(filename)
	response.HTML(w, http.StatusOK, fmt.Sprintf(`<img src="%s" alt="%s">`,
		html.EscapeString(src), html.EscapeString(filename)))
}
