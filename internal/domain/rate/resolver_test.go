package rate

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"innkeep/internal/domain/hotel"
	"innkeep/internal/domain/shared/daterange"
	"innkeep/internal/domain/shared/money"
)

type stubRates struct {
	rates []*SeasonalRate
}

func (s stubRates) ByID(context.Context, ID) (*SeasonalRate, error) { return nil, ErrNotFound }

func (s stubRates) ByHotel(context.Context, hotel.ID) ([]*SeasonalRate, error) {
	return s.rates, nil
}

func (s stubRates) IntersectingStay(_ context.Context, hotelID hotel.ID, stay daterange.DateRange) ([]*SeasonalRate, error) {
	var out []*SeasonalRate
	for _, r := range s.rates {
		if r.HotelID == hotelID && r.IntersectsStay(stay) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s stubRates) Save(context.Context, *SeasonalRate) error { return nil }
func (s stubRates) Delete(context.Context, ID) error          { return nil }

const testHotel = hotel.ID("hotel-1")

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func seasonal(t *testing.T, name string, start, end time.Time, multiplier string) *SeasonalRate {
	t.Helper()
	sr, err := New(CreateParams{
		ID:         ID(name),
		HotelID:    testHotel,
		Name:       name,
		Start:      start,
		End:        end,
		Multiplier: money.MustFactor(multiplier),
	})
	require.NoError(t, err)
	return sr
}

func TestQuoteStay_NoRatesChargesBasePerNight(t *testing.T) {
	r := Resolver{Rates: stubRates{}}
	base := money.Must(10000, "EUR")

	quote, err := r.QuoteStay(context.Background(), testHotel, day(2026, time.March, 1), day(2026, time.March, 4), base)
	require.NoError(t, err)
	assert.Equal(t, int64(30000), quote.Total.Amount)
	require.Len(t, quote.Nights, 3)
	for _, night := range quote.Nights {
		assert.Equal(t, money.FactorOne, night.Multiplier)
		assert.Equal(t, int64(10000), night.Price.Amount)
	}
}

func TestQuoteStay_MidStayRateAppliesPerNight(t *testing.T) {
	// Base 100.00, three nights, the middle night is inside a x1.5 window:
	// 100 + 150 + 100 = 350.00.
	r := Resolver{Rates: stubRates{rates: []*SeasonalRate{
		seasonal(t, "midweek", day(2026, time.July, 11), day(2026, time.July, 11), "1.5"),
	}}}
	base := money.Must(10000, "EUR")

	quote, err := r.QuoteStay(context.Background(), testHotel, day(2026, time.July, 10), day(2026, time.July, 13), base)
	require.NoError(t, err)
	assert.Equal(t, int64(35000), quote.Total.Amount)
	assert.Equal(t, money.FactorOne, quote.Nights[0].Multiplier)
	assert.Equal(t, money.MustFactor("1.5"), quote.Nights[1].Multiplier)
	assert.Equal(t, money.FactorOne, quote.Nights[2].Multiplier)
}

func TestQuoteStay_OverlappingRatesTakeMaxNotProduct(t *testing.T) {
	r := Resolver{Rates: stubRates{rates: []*SeasonalRate{
		seasonal(t, "high-season", day(2026, time.July, 1), day(2026, time.August, 31), "1.8"),
		seasonal(t, "festival", day(2026, time.July, 10), day(2026, time.July, 12), "1.2"),
	}}}
	base := money.Must(10000, "EUR")

	quote, err := r.QuoteStay(context.Background(), testHotel, day(2026, time.July, 10), day(2026, time.July, 11), base)
	require.NoError(t, err)
	// x1.8 wins; x1.8*1.2 would be 21600.
	assert.Equal(t, int64(18000), quote.Total.Amount)
}

func TestQuoteStay_LoneDiscountWinsTheNight(t *testing.T) {
	r := Resolver{Rates: stubRates{rates: []*SeasonalRate{
		seasonal(t, "off-season", day(2026, time.November, 1), day(2027, time.February, 28), "0.8"),
	}}}
	base := money.Must(10000, "EUR")

	quote, err := r.QuoteStay(context.Background(), testHotel, day(2026, time.November, 10), day(2026, time.November, 12), base)
	require.NoError(t, err)
	assert.Equal(t, int64(16000), quote.Total.Amount)
}

func TestQuoteStay_WindowBoundariesAreInclusive(t *testing.T) {
	window := stubRates{rates: []*SeasonalRate{
		seasonal(t, "window", day(2026, time.July, 5), day(2026, time.July, 10), "2"),
	}}
	r := Resolver{Rates: window}
	base := money.Must(10000, "EUR")

	// A rate ending on the check-in day still prices that first night.
	quote, err := r.QuoteStay(context.Background(), testHotel, day(2026, time.July, 10), day(2026, time.July, 12), base)
	require.NoError(t, err)
	assert.Equal(t, int64(30000), quote.Total.Amount)

	// A rate starting on the checkout day never touches the stay.
	quote, err = r.QuoteStay(context.Background(), testHotel, day(2026, time.July, 3), day(2026, time.July, 5), base)
	require.NoError(t, err)
	assert.Equal(t, int64(20000), quote.Total.Amount)
	assert.Equal(t, money.FactorOne, quote.Nights[0].Multiplier)
	assert.Equal(t, money.FactorOne, quote.Nights[1].Multiplier)
}

func TestQuoteStay_IsDeterministic(t *testing.T) {
	r := Resolver{Rates: stubRates{rates: []*SeasonalRate{
		seasonal(t, "summer", day(2026, time.June, 15), day(2026, time.September, 15), "1.5"),
	}}}
	base := money.Must(12300, "EUR")

	first, err := r.TotalStayPrice(context.Background(), testHotel, day(2026, time.July, 1), day(2026, time.July, 6), base)
	require.NoError(t, err)
	second, err := r.TotalStayPrice(context.Background(), testHotel, day(2026, time.July, 1), day(2026, time.July, 6), base)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestQuoteStay_CoercesEmptyStayToOneNight(t *testing.T) {
	r := Resolver{Rates: stubRates{}}
	base := money.Must(10000, "EUR")

	quote, err := r.QuoteStay(context.Background(), testHotel, day(2026, time.July, 10), day(2026, time.July, 10), base)
	require.NoError(t, err)
	require.Len(t, quote.Nights, 1)
	assert.Equal(t, int64(10000), quote.Total.Amount)
}
