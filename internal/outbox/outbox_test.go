package outbox

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"courtbook/internal/domain"
)

func TestEncode(t *testing.T) {
	at := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	evs := []domain.DomainEvent{
		domain.DepositMadeEvent{BookingID: 7, UserID: 42, Amount: 100, RemainingBalance: 100, At: at},
		domain.BookingCancelledEvent{BookingID: 7, UserID: 42, Reason: "rain", CancelledAt: at},
	}

	recs, err := Encode(evs)
	require.NoError(t, err)
	require.Len(t, recs, 2)

	assert.Equal(t, domain.EventDepositMade, recs[0].Name)
	assert.Equal(t, int64(7), recs[0].AggregateID)
	assert.Equal(t, StateNew, recs[0].State)
	assert.NotEmpty(t, recs[0].ID)
	assert.NotEqual(t, recs[0].ID, recs[1].ID)
	assert.Equal(t, at, recs[0].OccurredAt)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(recs[1].Payload, &payload))
	assert.Equal(t, "rain", payload["reason"])
}

func TestEncode_Empty(t *testing.T) {
	recs, err := Encode(nil)
	require.NoError(t, err)
	assert.Nil(t, recs)
}
