package reservations

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainbilling "innkeep/internal/domain/billing"
	domainhotel "innkeep/internal/domain/hotel"
	domainrate "innkeep/internal/domain/rate"
	domainreservation "innkeep/internal/domain/reservation"
	domainroom "innkeep/internal/domain/room"
	"innkeep/internal/domain/shared/money"
	domainuser "innkeep/internal/domain/user"
	"innkeep/internal/infra/storage/memory"
)

var testNow = time.Date(2026, time.May, 1, 10, 0, 0, 0, time.UTC)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

type env struct {
	factory memory.Factory
	outbox  *memory.Outbox
	svc     *Service
}

func newEnv(t *testing.T) *env {
	t.Helper()
	factory := memory.NewFactory()
	ob := memory.NewOutbox()
	return &env{
		factory: factory,
		outbox:  ob,
		svc: &Service{
			UoWFactory:  factory,
			Outbox:      ob,
			Idempotency: memory.NewIdempotencyStore(),
			Now:         func() time.Time { return testNow },
		},
	}
}

func (e *env) seedRoom(t *testing.T, baseCents int64, capacity int) *domainroom.Room {
	t.Helper()
	ctx := context.Background()
	h, err := domainhotel.New(domainhotel.CreateParams{
		ID:        "hotel-1",
		Name:      "Harborview Grand",
		City:      "Lisbon",
		CreatedAt: testNow,
	})
	require.NoError(t, err)
	require.NoError(t, e.factory.HotelsRepo.Save(ctx, h))

	rm, err := domainroom.New(domainroom.CreateParams{
		ID:        "room-1",
		HotelID:   h.ID,
		Number:    "101",
		Type:      domainroom.TypeDouble,
		BasePrice: money.Must(baseCents, "EUR"),
		Capacity:  capacity,
		CreatedAt: testNow,
	})
	require.NoError(t, err)
	require.NoError(t, e.factory.RoomsRepo.Save(ctx, rm))
	return rm
}

func (e *env) seedRate(t *testing.T, name string, start, end time.Time, multiplier string) {
	t.Helper()
	sr, err := domainrate.New(domainrate.CreateParams{
		ID:         domainrate.ID(name),
		HotelID:    "hotel-1",
		Name:       name,
		Start:      start,
		End:        end,
		Multiplier: money.MustFactor(multiplier),
		CreatedAt:  testNow,
	})
	require.NoError(t, err)
	require.NoError(t, e.factory.RatesRepo.Save(context.Background(), sr))
}

func guest(id string) Actor {
	return Actor{ID: domainuser.ID(id), Roles: []domainuser.Role{domainuser.RoleGuest}}
}

var receptionist = Actor{ID: "staff-1", Roles: []domainuser.Role{domainuser.RoleReceptionist}}

func (e *env) book(t *testing.T, actor Actor, from, to time.Time) *CreateResult {
	t.Helper()
	result, err := e.svc.Create(context.Background(), CreateParams{
		RoomID:   "room-1",
		Actor:    actor,
		CheckIn:  from,
		CheckOut: to,
		Guests:   2,
	})
	require.NoError(t, err)
	return result
}

func TestCreate_PricesStayWithSeasonalRates(t *testing.T) {
	e := newEnv(t)
	e.seedRoom(t, 10000, 2)
	// Only the middle night falls inside the rate window.
	e.seedRate(t, "festival", day(2026, time.July, 11), day(2026, time.July, 11), "1.5")

	result := e.book(t, guest("guest-1"), day(2026, time.July, 10), day(2026, time.July, 13))
	assert.Equal(t, int64(35000), result.TotalAmount)
	assert.Equal(t, "EUR", result.Currency)
	assert.Equal(t, string(domainreservation.StatusBooked), result.Status)

	stored, err := e.factory.ReservationsRepo.ByID(context.Background(), domainreservation.ID(result.ReservationID))
	require.NoError(t, err)
	assert.Equal(t, domainuser.ID("guest-1"), stored.UserID)
	assert.Equal(t, 3, stored.Stay.Nights())
}

func TestCreate_PublishesBookedEvent(t *testing.T) {
	e := newEnv(t)
	e.seedRoom(t, 10000, 2)

	e.book(t, guest("guest-1"), day(2026, time.July, 10), day(2026, time.July, 12))

	doc, err := e.outbox.Claim(context.Background(), "test-worker")
	require.NoError(t, err)
	require.NotNil(t, doc)
	assert.Equal(t, "reservation.booked", doc.Name)
}

func TestCreate_RejectsOverlappingStay(t *testing.T) {
	e := newEnv(t)
	e.seedRoom(t, 10000, 2)
	e.book(t, guest("guest-1"), day(2026, time.July, 10), day(2026, time.July, 15))

	_, err := e.svc.Create(context.Background(), CreateParams{
		RoomID:   "room-1",
		Actor:    guest("guest-2"),
		CheckIn:  day(2026, time.July, 12),
		CheckOut: day(2026, time.July, 14),
		Guests:   1,
	})
	assert.ErrorIs(t, err, domainreservation.ErrRoomUnavailable)
}

func TestCreate_AllowsBackToBackStays(t *testing.T) {
	e := newEnv(t)
	e.seedRoom(t, 10000, 2)
	e.book(t, guest("guest-1"), day(2026, time.July, 10), day(2026, time.July, 15))

	// Checkout day doubles as the next guest's check-in day.
	result := e.book(t, guest("guest-2"), day(2026, time.July, 15), day(2026, time.July, 17))
	assert.NotEmpty(t, result.ReservationID)
}

func TestCreate_RejectsOverCapacity(t *testing.T) {
	e := newEnv(t)
	e.seedRoom(t, 10000, 2)

	_, err := e.svc.Create(context.Background(), CreateParams{
		RoomID:   "room-1",
		Actor:    guest("guest-1"),
		CheckIn:  day(2026, time.July, 10),
		CheckOut: day(2026, time.July, 12),
		Guests:   3,
	})
	assert.ErrorIs(t, err, ErrCapacityExceeded)
}

func TestCreate_RejectsRoomUnderMaintenance(t *testing.T) {
	e := newEnv(t)
	rm := e.seedRoom(t, 10000, 2)
	rm.Status = domainroom.StatusMaintenance
	require.NoError(t, e.factory.RoomsRepo.Save(context.Background(), rm))

	_, err := e.svc.Create(context.Background(), CreateParams{
		RoomID:   "room-1",
		Actor:    guest("guest-1"),
		CheckIn:  day(2026, time.July, 10),
		CheckOut: day(2026, time.July, 12),
		Guests:   1,
	})
	assert.ErrorIs(t, err, domainreservation.ErrRoomUnavailable)
}

func TestCreate_IdempotencyKeyReplaysOriginalOutcome(t *testing.T) {
	e := newEnv(t)
	e.seedRoom(t, 10000, 2)

	params := CreateParams{
		RoomID:         "room-1",
		Actor:          guest("guest-1"),
		CheckIn:        day(2026, time.July, 10),
		CheckOut:       day(2026, time.July, 12),
		Guests:         2,
		IdempotencyKey: "retry-abc",
	}
	first, err := e.svc.Create(context.Background(), params)
	require.NoError(t, err)
	second, err := e.svc.Create(context.Background(), params)
	require.NoError(t, err)
	assert.Equal(t, first.ReservationID, second.ReservationID)

	all, err := e.factory.ReservationsRepo.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestCreate_TotalIsSnapshotAgainstLaterRateChanges(t *testing.T) {
	e := newEnv(t)
	e.seedRoom(t, 10000, 2)

	result := e.book(t, guest("guest-1"), day(2026, time.July, 10), day(2026, time.July, 12))
	assert.Equal(t, int64(20000), result.TotalAmount)

	// A rate created after booking must not reprice the stored stay.
	e.seedRate(t, "late-surge", day(2026, time.July, 1), day(2026, time.July, 31), "2")

	stored, err := e.svc.Get(context.Background(), domainreservation.ID(result.ReservationID), guest("guest-1"))
	require.NoError(t, err)
	assert.Equal(t, int64(20000), stored.TotalAmount.Amount)
}

func TestCancel_ReleasesNightsForRebooking(t *testing.T) {
	e := newEnv(t)
	e.seedRoom(t, 10000, 2)
	first := e.book(t, guest("guest-1"), day(2026, time.July, 10), day(2026, time.July, 15))

	_, err := e.svc.Cancel(context.Background(), domainreservation.ID(first.ReservationID), guest("guest-1"))
	require.NoError(t, err)

	rebooked := e.book(t, guest("guest-2"), day(2026, time.July, 10), day(2026, time.July, 15))
	assert.NotEmpty(t, rebooked.ReservationID)
}

func TestCancel_GuestCannotTouchForeignReservation(t *testing.T) {
	e := newEnv(t)
	e.seedRoom(t, 10000, 2)
	result := e.book(t, guest("guest-1"), day(2026, time.July, 10), day(2026, time.July, 12))

	_, err := e.svc.Cancel(context.Background(), domainreservation.ID(result.ReservationID), guest("guest-2"))
	assert.ErrorIs(t, err, ErrForbidden)

	// Staff may cancel anyone's reservation.
	_, err = e.svc.Cancel(context.Background(), domainreservation.ID(result.ReservationID), receptionist)
	assert.NoError(t, err)
}

func TestCheckInAndOut_FullFrontDeskFlow(t *testing.T) {
	e := newEnv(t)
	e.seedRoom(t, 10000, 2)
	ctx := context.Background()
	result := e.book(t, guest("guest-1"), day(2026, time.July, 10), day(2026, time.July, 12))
	id := domainreservation.ID(result.ReservationID)

	_, err := e.svc.Confirm(ctx, id)
	require.NoError(t, err)

	checkedIn, err := e.svc.CheckIn(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domainreservation.StatusCheckedIn, checkedIn.Status)

	rm, err := e.factory.RoomsRepo.ByID(ctx, "room-1")
	require.NoError(t, err)
	assert.Equal(t, domainroom.StatusOccupied, rm.Status)

	out, err := e.svc.CheckOut(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domainreservation.StatusCheckedOut, out.Reservation.Status)

	// Bill: 200.00 room charges + 10% tax.
	assert.Equal(t, int64(20000), out.Bill.RoomCharges.Amount)
	assert.Equal(t, int64(2000), out.Bill.TaxAmount.Amount)
	assert.Equal(t, int64(22000), out.Bill.TotalAmount.Amount)
	assert.Equal(t, domainbilling.PaymentPending, out.Bill.Status)

	rm, err = e.factory.RoomsRepo.ByID(ctx, "room-1")
	require.NoError(t, err)
	assert.Equal(t, domainroom.StatusAvailable, rm.Status)

	// The freed nights are bookable again.
	rebooked := e.book(t, guest("guest-2"), day(2026, time.July, 10), day(2026, time.July, 12))
	assert.NotEmpty(t, rebooked.ReservationID)
}

func TestUpdate_MovesStayAndReprices(t *testing.T) {
	e := newEnv(t)
	e.seedRoom(t, 10000, 2)
	e.seedRate(t, "peak", day(2026, time.August, 1), day(2026, time.August, 31), "1.5")
	result := e.book(t, guest("guest-1"), day(2026, time.July, 10), day(2026, time.July, 12))

	updated, err := e.svc.Update(context.Background(), UpdateParams{
		ID:       domainreservation.ID(result.ReservationID),
		Actor:    guest("guest-1"),
		CheckIn:  day(2026, time.August, 10),
		CheckOut: day(2026, time.August, 12),
		Guests:   2,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(30000), updated.TotalAmount.Amount)

	// The July nights were released by the move.
	rebooked := e.book(t, guest("guest-2"), day(2026, time.July, 10), day(2026, time.July, 12))
	assert.NotEmpty(t, rebooked.ReservationID)
}

func TestListMine_ReturnsOnlyOwnReservations(t *testing.T) {
	e := newEnv(t)
	e.seedRoom(t, 10000, 2)
	e.book(t, guest("guest-1"), day(2026, time.July, 10), day(2026, time.July, 12))
	e.book(t, guest("guest-2"), day(2026, time.July, 12), day(2026, time.July, 14))

	mine, err := e.svc.ListMine(context.Background(), "guest-1")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, domainuser.ID("guest-1"), mine[0].UserID)
}
