package booking

import (
	"fmt"
	"math"
	"sort"
	"time"

	"courtbook/internal/domain"
)

// priceForRange walks [start, end) left to right across the weekly schedules
// that apply to the booking's day, accruing hourlyRate × overlap per band.
// Adjacent bands (one's end equals the next's start) neither gap nor
// double-count. An empty interval or an empty schedule list prices to 0; the
// creation path checks day coverage before calling, so an uncovered instant
// here means a genuine gap in the court's schedule.
func priceForRange(date, start, end time.Time, schedules []domain.CourtSchedule) (float64, error) {
	if !end.After(start) || len(schedules) == 0 {
		return 0, nil
	}

	type band struct {
		from, to time.Time
		rate     float64
	}
	bands := make([]band, 0, len(schedules))
	for _, s := range schedules {
		from, to, err := s.MaterializeOn(date)
		if err != nil {
			return 0, fmt.Errorf("%w: malformed schedule %d", ErrValidation, s.ID)
		}
		bands = append(bands, band{from: from, to: to, rate: s.PriceSlot})
	}
	sort.Slice(bands, func(i, j int) bool { return bands[i].from.Before(bands[j].from) })

	total := 0.0
	cursor := start
	for cursor.Before(end) {
		covered := false
		for _, b := range bands {
			if !cursor.Before(b.from) && cursor.Before(b.to) {
				upto := b.to
				if end.Before(upto) {
					upto = end
				}
				total += upto.Sub(cursor).Hours() * b.rate
				cursor = upto
				covered = true
				break
			}
		}
		if !covered {
			return 0, fmt.Errorf("%w: uncovered at %s", ErrNoScheduleCoverage, cursor.Format("15:04"))
		}
	}
	return round2(total), nil
}

// bestPromotion picks the promotion with the largest actual currency discount
// against the base price. Percentage and fixed-amount promotions are compared
// on that common scale; ties go to the older promotion. Returns nil when no
// promotion is valid for the date.
func bestPromotion(promos []domain.CourtPromotion, basePrice float64, date time.Time) *domain.CourtPromotion {
	var best *domain.CourtPromotion
	bestValue := 0.0
	for i := range promos {
		p := &promos[i]
		if !p.IsValidOn(date) {
			continue
		}
		v := p.DiscountFor(basePrice)
		if v <= 0 {
			continue
		}
		if best == nil || v > bestValue || (v == bestValue && p.ID < best.ID) {
			best = p
			bestValue = v
		}
	}
	return best
}

// applyPromotion applies at most one promotion, flooring the result at 0.
func applyPromotion(basePrice float64, promo *domain.CourtPromotion) float64 {
	if promo == nil {
		return round2(basePrice)
	}
	return round2(math.Max(0, basePrice-promo.DiscountFor(basePrice)))
}

func minimumDeposit(price, depositPercentage float64) float64 {
	return round2(price * depositPercentage / 100)
}

// refundForCancellation implements the customer-side refund window: nothing
// paid means nothing refunded; cancelling with at least windowHours of lead
// time refunds refundPercentage of the amount paid, anything later refunds 0.
func refundForCancellation(totalPaid float64, firstStart, now time.Time, windowHours, refundPercentage float64) float64 {
	if totalPaid <= 0 {
		return 0
	}
	hoursRemaining := firstStart.Sub(now).Hours()
	if hoursRemaining >= windowHours {
		return round2(totalPaid * refundPercentage / 100)
	}
	return 0
}

// conflictsWith checks the candidate range against existing active details
// using half-open overlap semantics.
func conflictsWith(existing []domain.BookingDetail, courtID int64, start, end time.Time) bool {
	for i := range existing {
		if existing[i].CourtID != courtID {
			continue
		}
		if existing[i].Overlaps(start, end) {
			return true
		}
	}
	return false
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
