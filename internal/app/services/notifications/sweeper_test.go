package notifications

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainnotification "innkeep/internal/domain/notification"
	domainreservation "innkeep/internal/domain/reservation"
	"innkeep/internal/domain/shared/daterange"
	"innkeep/internal/domain/shared/money"
	domainuser "innkeep/internal/domain/user"
	"innkeep/internal/infra/storage/memory"
)

var sweepNow = time.Date(2026, time.July, 9, 14, 0, 0, 0, time.UTC)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func seedReservation(t *testing.T, factory memory.Factory, id string, from, to time.Time, status domainreservation.Status) *domainreservation.Reservation {
	t.Helper()
	stay, err := daterange.New(from, to)
	require.NoError(t, err)
	r, err := domainreservation.New(domainreservation.CreateParams{
		ID:          domainreservation.ID(id),
		RoomID:      "room-1",
		UserID:      "guest-1",
		Stay:        stay,
		Guests:      2,
		TotalAmount: money.Must(20000, "EUR"),
	})
	require.NoError(t, err)
	r.Status = status
	r.Drain()
	require.NoError(t, factory.ReservationsRepo.Save(context.Background(), r))
	return r
}

func notificationsFor(t *testing.T, factory memory.Factory, userID domainuser.ID) []*domainnotification.Notification {
	t.Helper()
	out, err := factory.NotificationsRepo.ByUser(context.Background(), userID)
	require.NoError(t, err)
	return out
}

func TestSweepOnce_CreatesCheckInReminderExactlyOnce(t *testing.T) {
	factory := memory.NewFactory()
	// Check-in is tomorrow relative to the fixed clock.
	seedReservation(t, factory, "res-1", day(2026, time.July, 10), day(2026, time.July, 13), domainreservation.StatusBooked)
	s := &Sweeper{UoWFactory: factory, Now: func() time.Time { return sweepNow }}

	require.NoError(t, s.SweepOnce(context.Background()))
	require.NoError(t, s.SweepOnce(context.Background()))

	got := notificationsFor(t, factory, "guest-1")
	require.Len(t, got, 1)
	assert.Equal(t, domainnotification.TypeCheckInReminder, got[0].Type)
	assert.Contains(t, got[0].Message, "2026-07-10")
}

func TestSweepOnce_RemindsConfirmedStaysAndBackfillsConfirmation(t *testing.T) {
	factory := memory.NewFactory()
	seedReservation(t, factory, "res-1", day(2026, time.July, 10), day(2026, time.July, 12), domainreservation.StatusConfirmed)
	s := &Sweeper{UoWFactory: factory, Now: func() time.Time { return sweepNow }}

	require.NoError(t, s.SweepOnce(context.Background()))
	require.NoError(t, s.SweepOnce(context.Background()))

	got := notificationsFor(t, factory, "guest-1")
	require.Len(t, got, 2)
	types := []domainnotification.Type{got[0].Type, got[1].Type}
	assert.Contains(t, types, domainnotification.TypeBookingConfirmation)
	assert.Contains(t, types, domainnotification.TypeCheckInReminder)
}

func TestSweepOnce_CreatesCheckOutReminderForCheckedInStays(t *testing.T) {
	factory := memory.NewFactory()
	// Check-out is tomorrow and the guest is already in the room.
	seedReservation(t, factory, "res-1", day(2026, time.July, 7), day(2026, time.July, 10), domainreservation.StatusCheckedIn)
	s := &Sweeper{UoWFactory: factory, Now: func() time.Time { return sweepNow }}

	require.NoError(t, s.SweepOnce(context.Background()))
	require.NoError(t, s.SweepOnce(context.Background()))

	got := notificationsFor(t, factory, "guest-1")
	require.Len(t, got, 1)
	assert.Equal(t, domainnotification.TypeCheckOutReminder, got[0].Type)
}

func TestSweepOnce_IgnoresStaysOutsideTheWindow(t *testing.T) {
	factory := memory.NewFactory()
	// Too far out, too late, and cancelled: none of these are due.
	seedReservation(t, factory, "res-future", day(2026, time.July, 20), day(2026, time.July, 22), domainreservation.StatusBooked)
	seedReservation(t, factory, "res-today", day(2026, time.July, 9), day(2026, time.July, 11), domainreservation.StatusBooked)
	seedReservation(t, factory, "res-cancelled", day(2026, time.July, 10), day(2026, time.July, 12), domainreservation.StatusCancelled)

	s := &Sweeper{UoWFactory: factory, Now: func() time.Time { return sweepNow }}
	require.NoError(t, s.SweepOnce(context.Background()))

	assert.Empty(t, notificationsFor(t, factory, "guest-1"))
}
