package rate

import (
	"context"
	"time"

	"innkeep/internal/domain/hotel"
	"innkeep/internal/domain/shared/daterange"
	"innkeep/internal/domain/shared/money"
)

// NightPrice is the priced outcome of a single night of a stay.
type NightPrice struct {
	Day        time.Time
	Multiplier money.Factor
	Price      money.Money
}

// Quote is a full per-night price breakdown for a stay.
type Quote struct {
	Stay   daterange.DateRange
	Nights []NightPrice
	Total  money.Money
}

// Resolver computes stay totals from a room's base nightly price and the
// seasonal rates of its hotel. The total is a snapshot: once a reservation
// stores it, later rate changes never touch it.
type Resolver struct {
	Rates Repository
}

// TotalStayPrice prices every night of [checkIn, checkOut) at the base price
// times the highest multiplier whose window covers that night, or times 1.0
// when none does. Overlapping rates are never compounded; MAX wins so that a
// holiday inside a high season cannot stack into an unreasonable price.
func (r Resolver) TotalStayPrice(ctx context.Context, hotelID hotel.ID, checkIn, checkOut time.Time, base money.Money) (money.Money, error) {
	q, err := r.QuoteStay(ctx, hotelID, checkIn, checkOut, base)
	if err != nil {
		return money.Money{}, err
	}
	return q.Total, nil
}

// QuoteStay returns the per-night breakdown behind TotalStayPrice.
//
// Dates are normalized to midnight UTC first. A checkout that is not strictly
// after the check-in is coerced to a single night; callers that want a hard
// rejection validate the range before reaching the resolver.
func (r Resolver) QuoteStay(ctx context.Context, hotelID hotel.ID, checkIn, checkOut time.Time, base money.Money) (Quote, error) {
	ci := daterange.Midnight(checkIn)
	co := daterange.Midnight(checkOut)
	if !co.After(ci) {
		co = ci.AddDate(0, 0, 1)
	}
	stay := daterange.DateRange{CheckIn: ci, CheckOut: co}

	rates, err := r.Rates.IntersectingStay(ctx, hotelID, stay)
	if err != nil {
		return Quote{}, err
	}

	q := Quote{
		Stay:  stay,
		Total: money.Money{Amount: 0, Currency: base.Currency},
	}
	for _, day := range stay.Days() {
		// A lone discount rate below 1.0 still wins the night, so the max
		// runs over applicable rates only, not against the neutral factor.
		var mult money.Factor
		for _, sr := range rates {
			if sr.AppliesOn(day) && sr.Multiplier > mult {
				mult = sr.Multiplier
			}
		}
		if mult == 0 {
			mult = money.FactorOne
		}
		night := NightPrice{Day: day, Multiplier: mult, Price: base.Scale(mult)}
		q.Nights = append(q.Nights, night)
		total, err := q.Total.Add(night.Price)
		if err != nil {
			return Quote{}, err
		}
		q.Total = total
	}
	return q, nil
}
