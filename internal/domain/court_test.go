package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCourtSchedule_Validate(t *testing.T) {
	valid := CourtSchedule{DaysOfWeek: "1,3,5", StartTime: "08:00", EndTime: "17:00", PriceSlot: 100}
	assert.NoError(t, valid.Validate())

	cases := []CourtSchedule{
		{DaysOfWeek: "", StartTime: "08:00", EndTime: "17:00"},
		{DaysOfWeek: "0,8", StartTime: "08:00", EndTime: "17:00"},
		{DaysOfWeek: "1", StartTime: "25:00", EndTime: "17:00"},
		{DaysOfWeek: "1", StartTime: "17:00", EndTime: "08:00"},
		{DaysOfWeek: "1", StartTime: "08:00", EndTime: "08:00"},
		{DaysOfWeek: "1", StartTime: "08:00", EndTime: "17:00", PriceSlot: -1},
	}
	for _, s := range cases {
		assert.ErrorIs(t, s.Validate(), ErrInvalidCourt, "%+v", s)
	}
}

func TestCourtSchedule_AppliesTo(t *testing.T) {
	s := CourtSchedule{DaysOfWeek: "1, 3,5"}

	assert.True(t, s.AppliesTo(1))
	assert.True(t, s.AppliesTo(3))
	assert.False(t, s.AppliesTo(2))
	assert.False(t, s.AppliesTo(7))
}

func TestCourtSchedule_MaterializeOn(t *testing.T) {
	s := CourtSchedule{DaysOfWeek: "4", StartTime: "08:30", EndTime: "17:00"}
	date := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC) // a Thursday

	from, to, err := s.MaterializeOn(date)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 9, 10, 8, 30, 0, 0, time.UTC), from)
	assert.Equal(t, time.Date(2026, 9, 10, 17, 0, 0, 0, time.UTC), to)
}

func TestISOWeekday(t *testing.T) {
	assert.Equal(t, 1, ISOWeekday(time.Monday))
	assert.Equal(t, 6, ISOWeekday(time.Saturday))
	assert.Equal(t, 7, ISOWeekday(time.Sunday))
}

func TestCourt_Validate(t *testing.T) {
	c := Court{SportCenterID: 1, Name: "Court 1", MinDepositPercentage: 30, RefundPercentage: 50}
	assert.NoError(t, c.Validate())

	c.MinDepositPercentage = 120
	assert.ErrorIs(t, c.Validate(), ErrInvalidCourt)

	c.MinDepositPercentage = 30
	c.CancellationWindowHours = -1
	assert.ErrorIs(t, c.Validate(), ErrInvalidCourt)
}

func TestPromotion_Validate(t *testing.T) {
	from := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	ok := CourtPromotion{DiscountType: DiscountPercentage, DiscountValue: 20, ValidFrom: from, ValidTo: to}
	assert.NoError(t, ok.Validate())

	bad := []CourtPromotion{
		{DiscountType: DiscountPercentage, DiscountValue: 0, ValidFrom: from, ValidTo: to},
		{DiscountType: DiscountPercentage, DiscountValue: 101, ValidFrom: from, ValidTo: to},
		{DiscountType: DiscountFixedAmount, DiscountValue: -5, ValidFrom: from, ValidTo: to},
		{DiscountType: "BuyOneGetOne", DiscountValue: 1, ValidFrom: from, ValidTo: to},
		{DiscountType: DiscountPercentage, DiscountValue: 20, ValidFrom: to, ValidTo: from},
	}
	for _, p := range bad {
		assert.ErrorIs(t, p.Validate(), ErrInvalidCourt, "%+v", p)
	}
}

func TestPromotion_DiscountFor(t *testing.T) {
	pct := CourtPromotion{DiscountType: DiscountPercentage, DiscountValue: 20}
	fixed := CourtPromotion{DiscountType: DiscountFixedAmount, DiscountValue: 150}

	assert.Equal(t, 40.0, pct.DiscountFor(200))
	assert.Equal(t, 150.0, fixed.DiscountFor(200))
	// fixed discounts never exceed the base price
	assert.Equal(t, 100.0, fixed.DiscountFor(100))
	assert.Equal(t, 0.0, pct.DiscountFor(0))
}

func TestPromotion_IsValidOn(t *testing.T) {
	p := CourtPromotion{
		DiscountType:  DiscountPercentage,
		DiscountValue: 10,
		ValidFrom:     time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		ValidTo:       time.Date(2026, 9, 30, 0, 0, 0, 0, time.UTC),
	}

	assert.True(t, p.IsValidOn(time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, p.IsValidOn(time.Date(2026, 9, 30, 0, 0, 0, 0, time.UTC)))
	assert.False(t, p.IsValidOn(time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)))
	assert.False(t, p.IsValidOn(time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)))
}

func TestUser_CanManageCourt(t *testing.T) {
	admin := User{ID: 1, Role: RoleAdmin}
	owner := User{ID: 2, Role: RoleCourtOwner}
	customer := User{ID: 3, Role: RoleCustomer}

	assert.True(t, admin.CanManageCourt(99))
	assert.True(t, owner.CanManageCourt(2))
	assert.False(t, owner.CanManageCourt(5))
	assert.False(t, customer.CanManageCourt(3))
}
