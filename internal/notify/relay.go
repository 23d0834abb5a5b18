package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/pixboard/service/internal/image"
	"github.com/pixboard/service/internal/logger"
)

const publishTimeout = 5 * time.Second

// Relay fans listings out through a Redis channel so that every process
// subscribed to it broadcasts to its own clients.
type Relay struct {
	client  *redis.Client
	channel string
	hub     *Hub
	ready   chan struct{}
	log     zerolog.Logger
}

// NewRelay creates a Relay publishing on channel and delivering into hub.
func NewRelay(client *redis.Client, channel string, hub *Hub) *Relay {
	return &Relay{
		client:  client,
		channel: channel,
		hub:     hub,
		ready:   make(chan struct{}),
		log:     logger.Component("relay"),
	}
}

// BroadcastAll publishes listing. If Redis is unreachable the listing is
// still broadcast to this process's clients.
func (r *Relay) BroadcastAll(listing image.Listing) {
	msg, err := Encode(listing)
	if err != nil {
		r.log.Error().Err(err).Msg("encode listing")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()
	if err := r.client.Publish(ctx, r.channel, msg).Err(); err != nil {
		r.log.Warn().Err(err).Str("channel", r.channel).Msg("publish failed, broadcasting locally")
		r.hub.BroadcastEncoded(msg)
	}
}

// Ready is closed once Run has subscribed.
func (r *Relay) Ready() <-chan struct{} { return r.ready }

// Run subscribes to the channel and broadcasts every message until ctx is done.
func (r *Relay) Run(ctx context.Context) error {
	sub := r.client.Subscribe(ctx, r.channel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe %q: %w", r.channel, err)
	}
	close(r.ready)
	r.log.Info().Str("channel", r.channel).Msg("relay subscribed")

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			r.hub.BroadcastEncoded([]byte(msg.Payload))
		}
	}
}
