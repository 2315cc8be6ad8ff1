package reservation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"innkeep/internal/domain/shared/daterange"
	"innkeep/internal/domain/shared/money"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func stay(t *testing.T, from, to time.Time) daterange.DateRange {
	t.Helper()
	dr, err := daterange.New(from, to)
	require.NoError(t, err)
	return dr
}

func testReservation(t *testing.T) *Reservation {
	t.Helper()
	r, err := New(CreateParams{
		ID:          "res-1",
		RoomID:      "room-1",
		UserID:      "guest-1",
		Stay:        stay(t, day(2026, time.July, 10), day(2026, time.July, 13)),
		Guests:      2,
		TotalAmount: money.Must(35000, "EUR"),
	})
	require.NoError(t, err)
	return r
}

func TestNew_Validations(t *testing.T) {
	_, err := New(CreateParams{
		ID:     "res-1",
		UserID: "guest-1",
		Stay:   stay(t, day(2026, time.July, 10), day(2026, time.July, 11)),
		Guests: 0,
	})
	assert.ErrorIs(t, err, ErrInvalidGuests)

	_, err = New(CreateParams{
		ID:     "res-1",
		Stay:   stay(t, day(2026, time.July, 10), day(2026, time.July, 11)),
		Guests: 1,
	})
	assert.ErrorIs(t, err, ErrGuestRequired)
}

func TestNew_StartsBookedAndRecordsEvent(t *testing.T) {
	r := testReservation(t)
	assert.Equal(t, StatusBooked, r.Status)

	recorded := r.Drain()
	require.Len(t, recorded, 1)
	assert.Equal(t, "reservation.booked", recorded[0].EventName())
	assert.Empty(t, r.Drain())
}

func TestLifecycle_HappyPath(t *testing.T) {
	r := testReservation(t)
	now := time.Now()

	require.NoError(t, r.Confirm(now))
	assert.Equal(t, StatusConfirmed, r.Status)

	require.NoError(t, r.CheckIn(now))
	assert.Equal(t, StatusCheckedIn, r.Status)
	require.NotNil(t, r.CheckedInAt)

	require.NoError(t, r.CheckOut(now))
	assert.Equal(t, StatusCheckedOut, r.Status)
	require.NotNil(t, r.CheckedOutAt)
}

func TestLifecycle_InvalidTransitions(t *testing.T) {
	now := time.Now()

	r := testReservation(t)
	assert.ErrorIs(t, r.CheckOut(now), ErrInvalidState)

	require.NoError(t, r.Confirm(now))
	assert.ErrorIs(t, r.Confirm(now), ErrInvalidState)

	require.NoError(t, r.CheckIn(now))
	assert.ErrorIs(t, r.Cancel(now), ErrInvalidState)

	require.NoError(t, r.CheckOut(now))
	assert.ErrorIs(t, r.CheckIn(now), ErrInvalidState)
}

func TestCancel_IsIdempotent(t *testing.T) {
	r := testReservation(t)
	now := time.Now()

	require.NoError(t, r.Cancel(now))
	assert.Equal(t, StatusCancelled, r.Status)
	require.NoError(t, r.Cancel(now))
	assert.Equal(t, StatusCancelled, r.Status)
}

func TestStatus_Occupying(t *testing.T) {
	assert.True(t, StatusBooked.Occupying())
	assert.True(t, StatusConfirmed.Occupying())
	assert.True(t, StatusCheckedIn.Occupying())
	assert.False(t, StatusCheckedOut.Occupying())
	assert.False(t, StatusCancelled.Occupying())
}
