package booking

import (
	"math"

	"parkshare/internal/domain/slot"
)

// PriceCalculator is the only producer of a booking's total price. Callers
// never supply an amount; anything price-shaped in a request is discarded
// before it reaches this package.
type PriceCalculator interface {
	CalculatePriceCents(s *slot.Slot, ts TimeSlot) int64
}

// HourlyPriceCalculator derives the total from the slot's hourly rate and
// the interval duration: cents = rate * hours, rounded to the nearest cent
// (half away from zero).
type HourlyPriceCalculator struct{}

func NewHourlyPriceCalculator() *HourlyPriceCalculator {
	return &HourlyPriceCalculator{}
}

func (pc *HourlyPriceCalculator) CalculatePriceCents(s *slot.Slot, ts TimeSlot) int64 {
	hours := ts.Duration().Hours()
	return int64(math.Round(hours * float64(s.RateCentsPerHour())))
}
