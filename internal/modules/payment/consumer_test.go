package payment

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"courtbook/internal/domain"
)

func message(event string, payload any) *sarama.ConsumerMessage {
	body, _ := json.Marshal(payload)
	return &sarama.ConsumerMessage{
		Value: body,
		Headers: []*sarama.RecordHeader{
			{Key: []byte("event-name"), Value: []byte(event)},
		},
	}
}

func TestConsumer_RoutesSucceeded(t *testing.T) {
	mockBookings := new(MockBookingRepo)

	b := pendingBooking(7)
	mockBookings.On("GetByID", mock.Anything, int64(7)).Return(b, nil)
	mockBookings.On("UpdateOnce", mock.Anything, b, mock.Anything, "tx-1", KeyPaymentSucceeded).
		Return(true, nil)

	consumer := NewConsumer(newTestService(mockBookings), zerolog.Nop())

	msg := message(KeyPaymentSucceeded, SucceededEvent{
		TransactionID: "tx-1", Amount: 100, ReferenceID: 7,
	})
	require.NoError(t, consumer.Handle(context.Background(), msg))
	assert.Equal(t, domain.BookingDeposited, b.Status)
}

func TestConsumer_RoutesFailed(t *testing.T) {
	mockBookings := new(MockBookingRepo)

	b := pendingBooking(7)
	mockBookings.On("GetByID", mock.Anything, int64(7)).Return(b, nil)
	mockBookings.On("Update", mock.Anything, b, mock.Anything).Return(nil)

	consumer := NewConsumer(newTestService(mockBookings), zerolog.Nop())

	msg := message(KeyPaymentFailed, FailedEvent{ReferenceID: 7})
	require.NoError(t, consumer.Handle(context.Background(), msg))
	assert.Equal(t, domain.BookingPaymentFail, b.Status)
}

func TestConsumer_UnknownEventAcknowledged(t *testing.T) {
	consumer := NewConsumer(newTestService(new(MockBookingRepo)), zerolog.Nop())

	msg := message("payment.refund_issued", map[string]any{"whatever": true})
	assert.NoError(t, consumer.Handle(context.Background(), msg))
}

func TestConsumer_UndecodablePayloadDropped(t *testing.T) {
	consumer := NewConsumer(newTestService(new(MockBookingRepo)), zerolog.Nop())

	msg := &sarama.ConsumerMessage{
		Value: []byte("{not json"),
		Headers: []*sarama.RecordHeader{
			{Key: []byte("event-name"), Value: []byte(KeyPaymentSucceeded)},
		},
	}
	assert.NoError(t, consumer.Handle(context.Background(), msg))
}

func TestConsumer_MissingHeaderAcknowledged(t *testing.T) {
	consumer := NewConsumer(newTestService(new(MockBookingRepo)), zerolog.Nop())

	msg := &sarama.ConsumerMessage{Value: []byte("{}"), Timestamp: time.Now()}
	assert.NoError(t, consumer.Handle(context.Background(), msg))
}
