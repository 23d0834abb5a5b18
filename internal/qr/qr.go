// Package qr renders QR codes as inline PNG images.
package qr

import (
	"encoding/base64"
	"errors"
	"fmt"
	"html"
	"net/http"

	"github.com/skip2/go-qrcode"

	"github.com/pixboard/service/internal/logger"
	"github.com/pixboard/service/internal/response"
)

// DefaultText is encoded when the request carries no text.
const DefaultText = "Default text"

const size = 256

// ErrRender is returned when the text cannot be encoded.
var ErrRender = errors.New("render qr code")

// Render encodes text with the highest error correction level and returns a
// PNG data URL.
func Render(text string) (string, error) {
	png, err := qrcode.Encode(text, qrcode.Highest, size)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrRender, err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}

// Handler godoc
//
//	@Summary		Render a QR code
//	@Description	Encodes the given text as a QR code and returns an HTML img tag with an inline PNG.
//	@Tags			qr
//	@Produce		html
//	@Param			text	query		string	false	"Text to encode"
//	@Success		200		{string}	string
//	@Failure		500		{string}	string
//	@Router			/api/qr [get]
func Handler(w http.ResponseWriter, r *http.Request) {
	text := r.URL.Query().Get("text")
	if text == "" {
		text = DefaultText
	}

	src, err := Render(text)
	if err != nil {
		logger.Log.Error().Err(err).Int("length", len(text)).Msg("qr render failed")
		response.InternalError(w, "failed to generate QR code")
		return
	}
	response.HTML(w, http.StatusOK, fmt.Sprintf(`<img src="%s" />`, html.EscapeString(src)))
}
