package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"courtbook/internal/outbox"
)

type outboxMessageModel struct {
	ID            string    `gorm:"column:id;primaryKey"`
	Name          string    `gorm:"column:name"`
	AggregateID   int64     `gorm:"column:aggregate_id;index"`
	Payload       []byte    `gorm:"column:payload"`
	State         string    `gorm:"column:state;index:idx_outbox_pending"`
	Attempts      int       `gorm:"column:attempts"`
	NextAttemptAt time.Time `gorm:"column:next_attempt_at;index:idx_outbox_pending"`
	OccurredAt    time.Time `gorm:"column:occurred_at"`
	CreatedAt     time.Time `gorm:"column:created_at"`
}

func (outboxMessageModel) TableName() string { return "outbox_messages" }

func toOutboxModel(r outbox.Record) outboxMessageModel {
	return outboxMessageModel{
		ID:            r.ID,
		Name:          r.Name,
		AggregateID:   r.AggregateID,
		Payload:       r.Payload,
		State:         r.State,
		Attempts:      r.Attempts,
		NextAttemptAt: r.NextAttemptAt,
		OccurredAt:    r.OccurredAt,
		CreatedAt:     r.CreatedAt,
	}
}

// insertOutbox writes records inside an already-open transaction so event
// persistence shares the aggregate's commit.
func insertOutbox(tx *gorm.DB, recs []outbox.Record) error {
	for _, rec := range recs {
		m := toOutboxModel(rec)
		if err := tx.Create(&m).Error; err != nil {
			return err
		}
	}
	return nil
}

// OutboxRepository implements outbox.Store for the relay worker.
type OutboxRepository struct {
	db *gorm.DB
}

func NewOutboxRepository(db *gorm.DB) *OutboxRepository {
	return &OutboxRepository{db: db}
}

func (r *OutboxRepository) Add(ctx context.Context, recs []outbox.Record) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return insertOutbox(tx, recs)
	})
}

func (r *OutboxRepository) ClaimPending(ctx context.Context, limit int) ([]outbox.Record, error) {
	var models []outboxMessageModel
	tx := r.db.WithContext(ctx).
		Where("state = ? AND next_attempt_at <= ?", outbox.StateNew, time.Now().UTC()).
		Order("created_at").
		Limit(limit).
		Find(&models)
	if tx.Error != nil {
		return nil, tx.Error
	}

	out := make([]outbox.Record, 0, len(models))
	for _, m := range models {
		out = append(out, outbox.Record{
			ID:            m.ID,
			Name:          m.Name,
			AggregateID:   m.AggregateID,
			Payload:       m.Payload,
			State:         m.State,
			Attempts:      m.Attempts,
			NextAttemptAt: m.NextAttemptAt,
			OccurredAt:    m.OccurredAt,
			CreatedAt:     m.CreatedAt,
		})
	}
	return out, nil
}

func (r *OutboxRepository) MarkSent(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Model(&outboxMessageModel{}).
		Where("id = ?", id).
		Update("state", outbox.StateSent).Error
}

// MarkFailed bumps the attempt counter with exponential backoff; after
// MaxAttempts the record is parked as FAILED.
func (r *OutboxRepository) MarkFailed(ctx context.Context, id string, attempts int) error {
	state := outbox.StateNew
	if attempts >= outbox.MaxAttempts {
		state = outbox.StateFailed
	}
	backoff := time.Duration(attempts*attempts) * time.Second
	return r.db.WithContext(ctx).
		Model(&outboxMessageModel{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"state":           state,
			"attempts":        attempts,
			"next_attempt_at": time.Now().UTC().Add(backoff),
		}).Error
}
