package payment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"courtbook/internal/domain"
	"courtbook/internal/outbox"
	"courtbook/internal/repository"
)

type MockBookingRepo struct {
	mock.Mock
}

func (m *MockBookingRepo) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingRepo) Update(ctx context.Context, b *domain.Booking, recs []outbox.Record) error {
	args := m.Called(ctx, b, recs)
	return args.Error(0)
}

func (m *MockBookingRepo) UpdateOnce(ctx context.Context, b *domain.Booking, recs []outbox.Record, transactionID, eventName string) (bool, error) {
	args := m.Called(ctx, b, recs, transactionID, eventName)
	return args.Bool(0), args.Error(1)
}

func newTestService(bookings *MockBookingRepo) *Service {
	s := NewService(bookings, zerolog.Nop())
	s.now = func() time.Time { return time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC) }
	return s
}

func pendingBooking(id int64) *domain.Booking {
	day := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
	b := domain.NewBooking(42, day, "")
	_ = b.AddDetail(domain.BookingDetail{
		CourtID:    10,
		StartTime:  day.Add(10 * time.Hour),
		EndTime:    day.Add(12 * time.Hour),
		TotalPrice: 200,
	}, 100)
	b.ID = id
	return b
}

func TestHandleSucceeded_AppliesDeposit(t *testing.T) {
	mockBookings := new(MockBookingRepo)

	b := pendingBooking(7)
	mockBookings.On("GetByID", mock.Anything, int64(7)).Return(b, nil)
	mockBookings.On("UpdateOnce", mock.Anything, b, mock.Anything, "tx-1", KeyPaymentSucceeded).
		Return(true, nil)

	service := newTestService(mockBookings)

	err := service.HandleSucceeded(context.Background(), SucceededEvent{
		TransactionID: "tx-1",
		UserID:        42,
		Amount:        100,
		ReferenceID:   7,
	})

	require.NoError(t, err)
	assert.Equal(t, domain.BookingDeposited, b.Status)
	assert.Equal(t, 100.0, b.TotalPaid)
	mockBookings.AssertExpectations(t)
}

func TestHandleSucceeded_DepositThenBalance(t *testing.T) {
	mockBookings := new(MockBookingRepo)

	b := pendingBooking(7)
	mockBookings.On("GetByID", mock.Anything, int64(7)).Return(b, nil)
	mockBookings.On("UpdateOnce", mock.Anything, b, mock.Anything, mock.Anything, KeyPaymentSucceeded).
		Return(true, nil)

	service := newTestService(mockBookings)

	require.NoError(t, service.HandleSucceeded(context.Background(), SucceededEvent{
		TransactionID: "tx-1", Amount: 100, ReferenceID: 7,
	}))
	require.NoError(t, service.HandleSucceeded(context.Background(), SucceededEvent{
		TransactionID: "tx-2", Amount: 100, ReferenceID: 7,
	}))

	assert.Equal(t, domain.BookingCompleted, b.Status)
	assert.Equal(t, 0.0, b.RemainingBalance)
}

func TestHandleSucceeded_DuplicateDropped(t *testing.T) {
	mockBookings := new(MockBookingRepo)

	b := pendingBooking(7)
	mockBookings.On("GetByID", mock.Anything, int64(7)).Return(b, nil)
	mockBookings.On("UpdateOnce", mock.Anything, b, mock.Anything, "tx-1", KeyPaymentSucceeded).
		Return(false, nil)

	service := newTestService(mockBookings)

	err := service.HandleSucceeded(context.Background(), SucceededEvent{
		TransactionID: "tx-1", Amount: 100, ReferenceID: 7,
	})

	require.NoError(t, err)
	mockBookings.AssertExpectations(t)
}

func TestHandleSucceeded_TransientFailureThenRedelivery(t *testing.T) {
	mockBookings := new(MockBookingRepo)

	// persistence fails on the first delivery; because the ledger row commits
	// with the update, the redelivery must not be treated as a duplicate
	mockBookings.On("GetByID", mock.Anything, int64(7)).
		Return(pendingBooking(7), nil)
	mockBookings.On("UpdateOnce", mock.Anything, mock.Anything, mock.Anything, "tx-1", KeyPaymentSucceeded).
		Return(false, errors.New("connection reset")).Once()
	mockBookings.On("UpdateOnce", mock.Anything, mock.Anything, mock.Anything, "tx-1", KeyPaymentSucceeded).
		Return(true, nil).Once()

	service := newTestService(mockBookings)
	evt := SucceededEvent{TransactionID: "tx-1", Amount: 100, ReferenceID: 7}

	err := service.HandleSucceeded(context.Background(), evt)
	require.Error(t, err) // broker redelivers

	err = service.HandleSucceeded(context.Background(), evt)
	require.NoError(t, err)
	mockBookings.AssertExpectations(t)
}

func TestHandleSucceeded_UnknownBookingAcknowledged(t *testing.T) {
	mockBookings := new(MockBookingRepo)

	mockBookings.On("GetByID", mock.Anything, int64(404)).Return(nil, repository.ErrNotFound)

	service := newTestService(mockBookings)

	err := service.HandleSucceeded(context.Background(), SucceededEvent{
		TransactionID: "tx-1", Amount: 100, ReferenceID: 404,
	})

	assert.NoError(t, err)
	mockBookings.AssertNotCalled(t, "UpdateOnce", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestHandleSucceeded_NotApplicableStateAcknowledged(t *testing.T) {
	mockBookings := new(MockBookingRepo)

	b := pendingBooking(7)
	require.NoError(t, b.Cancel("gone", 0, time.Now()))
	b.TakeEvents()
	mockBookings.On("GetByID", mock.Anything, int64(7)).Return(b, nil)

	service := newTestService(mockBookings)

	err := service.HandleSucceeded(context.Background(), SucceededEvent{
		TransactionID: "tx-1", Amount: 100, ReferenceID: 7,
	})

	assert.NoError(t, err)
	mockBookings.AssertNotCalled(t, "UpdateOnce", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestHandleSucceeded_Validation(t *testing.T) {
	service := newTestService(new(MockBookingRepo))

	err := service.HandleSucceeded(context.Background(), SucceededEvent{Amount: 100, ReferenceID: 7})
	assert.ErrorIs(t, err, ErrValidation)

	err = service.HandleSucceeded(context.Background(), SucceededEvent{TransactionID: "tx-1", Amount: 0, ReferenceID: 7})
	assert.ErrorIs(t, err, ErrValidation)

	// missing booking reference is logged and acknowledged
	err = service.HandleSucceeded(context.Background(), SucceededEvent{TransactionID: "tx-1", Amount: 100})
	assert.NoError(t, err)
}

func TestHandleFailed_MarksBooking(t *testing.T) {
	mockBookings := new(MockBookingRepo)

	b := pendingBooking(7)
	mockBookings.On("GetByID", mock.Anything, int64(7)).Return(b, nil)
	mockBookings.On("Update", mock.Anything, b, mock.Anything).Return(nil)

	service := newTestService(mockBookings)

	err := service.HandleFailed(context.Background(), FailedEvent{ReferenceID: 7, Description: "card declined"})

	require.NoError(t, err)
	assert.Equal(t, domain.BookingPaymentFail, b.Status)
}

func TestHandleFailed_TolerantOfStateAndUnknowns(t *testing.T) {
	mockBookings := new(MockBookingRepo)

	deposited := pendingBooking(7)
	require.NoError(t, deposited.MakeDeposit(100, time.Now()))
	deposited.TakeEvents()
	mockBookings.On("GetByID", mock.Anything, int64(7)).Return(deposited, nil)
	mockBookings.On("GetByID", mock.Anything, int64(404)).Return(nil, repository.ErrNotFound)

	service := newTestService(mockBookings)

	assert.NoError(t, service.HandleFailed(context.Background(), FailedEvent{ReferenceID: 7}))
	assert.Equal(t, domain.BookingDeposited, deposited.Status)

	assert.NoError(t, service.HandleFailed(context.Background(), FailedEvent{ReferenceID: 404}))
	assert.NoError(t, service.HandleFailed(context.Background(), FailedEvent{}))
}
