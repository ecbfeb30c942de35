package redisrepo

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// BookingsPubSub fans out booking-created notifications, e.g. to owner
// dashboards polling for fresh revenue numbers.
type BookingsPubSub struct {
	rdb     *redis.Client
	channel string
}

func NewBookingsPubSub(rdb *redis.Client) *BookingsPubSub {
	return &BookingsPubSub{
		rdb:     rdb,
		channel: ChannelBookingsCreated(),
	}
}

type bookingCreatedMsg struct {
	Type      string    `json:"type"`
	BookingID uuid.UUID `json:"booking_id"`
	GymID     int64     `json:"gym_id"`
	TsUnix    int64     `json:"ts_unix"`
}

func (p *BookingsPubSub) PublishBookingCreated(ctx context.Context, bookingID uuid.UUID, gymID int64) error {
	msg := bookingCreatedMsg{
		Type:      "booking_created",
		BookingID: bookingID,
		GymID:     gymID,
		TsUnix:    time.Now().Unix(),
	}

	b, _ := json.Marshal(msg)

	return p.rdb.Publish(ctx, p.channel, b).Err()
}

func (p *BookingsPubSub) Subscribe(ctx context.Context, handler func(ctx context.Context, bookingID uuid.UUID, gymID int64)) error {
	sub := p.rdb.Subscribe(ctx, p.channel)
	defer sub.Close()

	ch := sub.Channel(redis.WithChannelSize(256))
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case m, ok := <-ch:
			if !ok {
				return nil
			}
			var ev bookingCreatedMsg
			if err := json.Unmarshal([]byte(m.Payload), &ev); err == nil &&
				ev.BookingID != uuid.Nil {
				handler(ctx, ev.BookingID, ev.GymID)
			}
		}
	}
}
