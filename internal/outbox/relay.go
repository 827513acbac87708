package outbox

import (
	"context"
	"strconv"
	"time"

	"github.com/rs/zerolog"
)

// Producer is the broker side of the relay, satisfied by the kafka producer.
type Producer interface {
	Publish(ctx context.Context, topic string, key string, payload []byte, headers map[string]string) error
}

// Relay drains NEW outbox records into the broker. Delivery is at-least-once:
// a crash between Publish and MarkSent republishes the record.
type Relay struct {
	Store    Store
	Producer Producer
	Topic    string
	Interval time.Duration
	Batch    int
	Log      zerolog.Logger
}

func (r *Relay) Run(ctx context.Context) error {
	interval := r.Interval
	if interval <= 0 {
		interval = 2 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := r.processOnce(ctx); err != nil {
				r.Log.Error().Err(err).Msg("outbox relay pass failed")
			}
		}
	}
}

func (r *Relay) processOnce(ctx context.Context) error {
	batch := r.Batch
	if batch <= 0 {
		batch = 100
	}
	recs, err := r.Store.ClaimPending(ctx, batch)
	if err != nil {
		return err
	}

	for _, rec := range recs {
		headers := map[string]string{
			"event-name":   rec.Name,
			"content-type": "application/json",
		}
		key := strconv.FormatInt(rec.AggregateID, 10)
		if err := r.Producer.Publish(ctx, r.Topic, key, rec.Payload, headers); err != nil {
			r.Log.Warn().Err(err).Str("record_id", rec.ID).Msg("publish failed")
			_ = r.Store.MarkFailed(ctx, rec.ID, rec.Attempts+1)
			continue
		}
		if err := r.Store.MarkSent(ctx, rec.ID); err != nil {
			r.Log.Error().Err(err).Str("record_id", rec.ID).Msg("mark sent failed")
		}
	}
	return nil
}
