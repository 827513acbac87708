package outbox

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"courtbook/internal/domain"
)

// Record states. NEW records are picked up by the relay, SENT are kept for
// audit, FAILED records exhausted their attempts.
const (
	StateNew    = "NEW"
	StateSent   = "SENT"
	StateFailed = "FAILED"
)

const MaxAttempts = 10

// Record is one pending event row, written in the same transaction as the
// aggregate change it describes.
type Record struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	AggregateID   int64     `json:"aggregate_id"`
	Payload       []byte    `json:"payload"`
	State         string    `json:"state"`
	Attempts      int       `json:"attempts"`
	NextAttemptAt time.Time `json:"next_attempt_at"`
	OccurredAt    time.Time `json:"occurred_at"`
	CreatedAt     time.Time `json:"created_at"`
}

// Store persists records and hands pending ones to the relay.
type Store interface {
	Add(ctx context.Context, recs []Record) error
	ClaimPending(ctx context.Context, limit int) ([]Record, error)
	MarkSent(ctx context.Context, id string) error
	MarkFailed(ctx context.Context, id string, attempts int) error
}

// Encode turns domain events into outbox records.
func Encode(evs []domain.DomainEvent) ([]Record, error) {
	if len(evs) == 0 {
		return nil, nil
	}
	out := make([]Record, 0, len(evs))
	for _, ev := range evs {
		payload, err := json.Marshal(ev)
		if err != nil {
			return nil, err
		}
		out = append(out, Record{
			ID:            uuid.NewString(),
			Name:          ev.EventName(),
			AggregateID:   ev.AggregateID(),
			Payload:       payload,
			State:         StateNew,
			NextAttemptAt: time.Now().UTC(),
			OccurredAt:    ev.OccurredAt(),
			CreatedAt:     time.Now().UTC(),
		})
	}
	return out, nil
}
