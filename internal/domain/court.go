package domain

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

type CourtStatus string

const (
	CourtOpen   CourtStatus = "open"
	CourtClosed CourtStatus = "closed"
)

type CourtType string

const (
	CourtIndoor  CourtType = "indoor"
	CourtOutdoor CourtType = "outdoor"
)

type ScheduleStatus string

const (
	ScheduleAvailable   ScheduleStatus = "available"
	ScheduleMaintenance ScheduleStatus = "maintenance"
)

type DiscountType string

const (
	DiscountPercentage  DiscountType = "Percentage"
	DiscountFixedAmount DiscountType = "FixedAmount"
)

var ErrInvalidCourt = errors.New("invalid court")

type SportCenter struct {
	ID        int64     `json:"id"`
	OwnerID   int64     `json:"owner_id"`
	Name      string    `json:"name" validate:"required"`
	Address   string    `json:"address,omitempty"`
	City      string    `json:"city,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Courts []Court `json:"courts,omitempty"`
}

type Court struct {
	ID                  int64       `json:"id"`
	SportCenterID       int64       `json:"sport_center_id" validate:"required"`
	SportID             int64       `json:"sport_id" validate:"required"`
	Name                string      `json:"name" validate:"required"`
	SlotDurationMinutes int         `json:"slot_duration_minutes" validate:"gt=0"`
	Status              CourtStatus `json:"status"`
	CourtType           CourtType   `json:"court_type"`

	// Payment policy. MinDepositPercentage is the fraction of a line item's
	// price required up front; RefundPercentage is what a customer gets back
	// when cancelling at least CancellationWindowHours before start.
	MinDepositPercentage    float64 `json:"min_deposit_percentage"`
	CancellationWindowHours float64 `json:"cancellation_window_hours"`
	RefundPercentage        float64 `json:"refund_percentage"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Schedules []CourtSchedule `json:"schedules,omitempty"`
}

func (c *Court) Validate() error {
	if c.Name == "" || c.SportCenterID == 0 {
		return fmt.Errorf("%w: name and sport center are required", ErrInvalidCourt)
	}
	if c.MinDepositPercentage < 0 || c.MinDepositPercentage > 100 {
		return fmt.Errorf("%w: min deposit percentage must be within [0,100]", ErrInvalidCourt)
	}
	if c.RefundPercentage < 0 || c.RefundPercentage > 100 {
		return fmt.Errorf("%w: refund percentage must be within [0,100]", ErrInvalidCourt)
	}
	if c.CancellationWindowHours < 0 {
		return fmt.Errorf("%w: cancellation window must not be negative", ErrInvalidCourt)
	}
	return nil
}

// CourtSchedule is one weekly recurring price band: a set of weekdays
// (Monday=1 .. Sunday=7), a time-of-day range and an hourly rate.
type CourtSchedule struct {
	ID         int64          `json:"id"`
	CourtID    int64          `json:"court_id"`
	DaysOfWeek string         `json:"days_of_week"` // comma-separated, e.g. "1,3,5"
	StartTime  string         `json:"start_time"`   // "15:04"
	EndTime    string         `json:"end_time"`
	PriceSlot  float64        `json:"price_slot"`
	Status     ScheduleStatus `json:"status"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

func (s *CourtSchedule) Validate() error {
	days := s.DayNumbers()
	if len(days) == 0 {
		return fmt.Errorf("%w: schedule needs at least one weekday", ErrInvalidCourt)
	}
	for _, d := range days {
		if d < 1 || d > 7 {
			return fmt.Errorf("%w: weekday %d out of range", ErrInvalidCourt, d)
		}
	}
	start, err := parseClock(s.StartTime)
	if err != nil {
		return fmt.Errorf("%w: bad start time %q", ErrInvalidCourt, s.StartTime)
	}
	end, err := parseClock(s.EndTime)
	if err != nil {
		return fmt.Errorf("%w: bad end time %q", ErrInvalidCourt, s.EndTime)
	}
	if !end.After(start) {
		return fmt.Errorf("%w: schedule start must precede end", ErrInvalidCourt)
	}
	if s.PriceSlot < 0 {
		return fmt.Errorf("%w: hourly price must not be negative", ErrInvalidCourt)
	}
	return nil
}

func (s *CourtSchedule) DayNumbers() []int {
	parts := strings.Split(s.DaysOfWeek, ",")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		n, err := strconv.Atoi(p)
		if err != nil {
			continue
		}
		out = append(out, n)
	}
	sort.Ints(out)
	return out
}

// AppliesTo reports whether the schedule covers the given weekday
// (Monday=1 .. Sunday=7).
func (s *CourtSchedule) AppliesTo(day int) bool {
	for _, d := range s.DayNumbers() {
		if d == day {
			return true
		}
	}
	return false
}

// MaterializeOn projects the time-of-day range onto a calendar date.
func (s *CourtSchedule) MaterializeOn(date time.Time) (time.Time, time.Time, error) {
	start, err := parseClock(s.StartTime)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := parseClock(s.EndTime)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	from := time.Date(date.Year(), date.Month(), date.Day(), start.Hour(), start.Minute(), 0, 0, date.Location())
	to := time.Date(date.Year(), date.Month(), date.Day(), end.Hour(), end.Minute(), 0, 0, date.Location())
	return from, to, nil
}

func parseClock(v string) (time.Time, error) {
	return time.Parse("15:04", v)
}

// ISOWeekday maps time.Weekday onto the schedule convention, Monday=1.
func ISOWeekday(w time.Weekday) int {
	if w == time.Sunday {
		return 7
	}
	return int(w)
}

// CourtPromotion is a time-bounded discount on a court's bookings.
type CourtPromotion struct {
	ID            int64        `json:"id"`
	CourtID       int64        `json:"court_id"`
	Description   string       `json:"description,omitempty"`
	DiscountType  DiscountType `json:"discount_type"`
	DiscountValue float64      `json:"discount_value"`
	ValidFrom     time.Time    `json:"valid_from"`
	ValidTo       time.Time    `json:"valid_to"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

func (p *CourtPromotion) Validate() error {
	switch p.DiscountType {
	case DiscountPercentage:
		if p.DiscountValue <= 0 || p.DiscountValue > 100 {
			return fmt.Errorf("%w: percentage discount must be within (0,100]", ErrInvalidCourt)
		}
	case DiscountFixedAmount:
		if p.DiscountValue <= 0 {
			return fmt.Errorf("%w: fixed discount must be positive", ErrInvalidCourt)
		}
	default:
		return fmt.Errorf("%w: unknown discount type %q", ErrInvalidCourt, p.DiscountType)
	}
	if p.ValidTo.Before(p.ValidFrom) {
		return fmt.Errorf("%w: promotion validity window is inverted", ErrInvalidCourt)
	}
	return nil
}

func (p *CourtPromotion) IsValidOn(date time.Time) bool {
	return !date.Before(p.ValidFrom) && !date.After(p.ValidTo)
}

// DiscountFor returns the actual currency amount this promotion takes off the
// given base price. Percentage and fixed-amount promotions are compared on
// this common scale, never by raw value.
func (p *CourtPromotion) DiscountFor(basePrice float64) float64 {
	if basePrice <= 0 {
		return 0
	}
	switch p.DiscountType {
	case DiscountPercentage:
		return basePrice * p.DiscountValue / 100
	case DiscountFixedAmount:
		if p.DiscountValue > basePrice {
			return basePrice
		}
		return p.DiscountValue
	}
	return 0
}
