package daterange

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNew_NormalizesToMidnightUTC(t *testing.T) {
	loc := time.FixedZone("CEST", 2*60*60)
	checkIn := time.Date(2026, time.July, 10, 15, 30, 0, 0, loc)
	checkOut := time.Date(2026, time.July, 12, 11, 0, 0, 0, loc)

	dr, err := New(checkIn, checkOut)
	require.NoError(t, err)
	assert.Equal(t, day(2026, time.July, 10), dr.CheckIn)
	assert.Equal(t, day(2026, time.July, 12), dr.CheckOut)
	assert.Equal(t, 2, dr.Nights())
}

func TestNew_RejectsEmptyStay(t *testing.T) {
	_, err := New(day(2026, time.July, 10), day(2026, time.July, 10))
	assert.ErrorIs(t, err, ErrInvalidRange)

	_, err = New(day(2026, time.July, 12), day(2026, time.July, 10))
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestOverlaps_HalfOpenBoundaries(t *testing.T) {
	stay, err := New(day(2026, time.July, 10), day(2026, time.July, 15))
	require.NoError(t, err)

	// Back-to-back stays share no night.
	next, err := New(day(2026, time.July, 15), day(2026, time.July, 17))
	require.NoError(t, err)
	assert.False(t, stay.Overlaps(next))
	assert.False(t, next.Overlaps(stay))

	inner, err := New(day(2026, time.July, 12), day(2026, time.July, 14))
	require.NoError(t, err)
	assert.True(t, stay.Overlaps(inner))
	assert.True(t, inner.Overlaps(stay))

	tail, err := New(day(2026, time.July, 14), day(2026, time.July, 16))
	require.NoError(t, err)
	assert.True(t, stay.Overlaps(tail))
}

func TestContainsDay(t *testing.T) {
	stay, err := New(day(2026, time.July, 10), day(2026, time.July, 12))
	require.NoError(t, err)

	assert.True(t, stay.ContainsDay(day(2026, time.July, 10)))
	assert.True(t, stay.ContainsDay(day(2026, time.July, 11)))
	assert.False(t, stay.ContainsDay(day(2026, time.July, 12))) // checkout day is not a night
	assert.False(t, stay.ContainsDay(day(2026, time.July, 9)))
}

func TestDays_ExcludesCheckout(t *testing.T) {
	stay, err := New(day(2026, time.July, 10), day(2026, time.July, 13))
	require.NoError(t, err)

	days := stay.Days()
	require.Len(t, days, 3)
	assert.Equal(t, day(2026, time.July, 10), days[0])
	assert.Equal(t, day(2026, time.July, 12), days[2])
}
