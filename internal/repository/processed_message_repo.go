package repository

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// processedMessageModel is the consumer-side idempotency ledger: redelivered
// payment events are detected by their transaction id.
type processedMessageModel struct {
	TransactionID string    `gorm:"column:transaction_id;primaryKey"`
	EventName     string    `gorm:"column:event_name"`
	ProcessedAt   time.Time `gorm:"column:processed_at"`
}

func (processedMessageModel) TableName() string { return "processed_messages" }

// markProcessed records the transaction id inside the caller's transaction and
// reports whether this delivery was the first one. A conflicting insert means
// the event was already applied. Running in the same transaction as the state
// change keeps ledger and state atomic: a rolled-back apply leaves no ledger
// row, so the redelivery is not mistaken for a duplicate.
func markProcessed(tx *gorm.DB, transactionID, eventName string) (bool, error) {
	m := processedMessageModel{
		TransactionID: transactionID,
		EventName:     eventName,
		ProcessedAt:   time.Now().UTC(),
	}
	res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&m)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
