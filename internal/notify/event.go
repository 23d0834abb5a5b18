// Package notify keeps connected real-time clients in sync with the image store.
//
// The Hub is the set of connected clients and fans listings out to them. The
// Manager owns the WebSocket lifecycle: it registers a client, sends it a
// snapshot and removes it when the connection drops. An optional Relay moves
// fan-out through Redis so several processes share one broadcast stream.
package notify

import (
	"encoding/json"

	"github.com/pixboard/service/internal/image"
)

// EventImagesUpdated is the only event pushed over the real-time channel.
// Payload: JSON array of public image URLs.
const EventImagesUpdated = "imagesUpdated"

// Event is the envelope written to clients.
type Event struct {
	Event string   `json:"event"`
	Data  []string `json:"data"`
}

// Encode renders a listing as an imagesUpdated message.
func Encode(listing image.Listing) ([]byte, error) {
	return json.Marshal(Event{Event: EventImagesUpdated, Data: listing.URLs()})
}
