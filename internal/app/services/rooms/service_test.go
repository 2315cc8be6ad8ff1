package rooms

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainhotel "innkeep/internal/domain/hotel"
	domainreservation "innkeep/internal/domain/reservation"
	domainroom "innkeep/internal/domain/room"
	"innkeep/internal/domain/shared/daterange"
	"innkeep/internal/domain/shared/money"
	"innkeep/internal/infra/storage/memory"
)

var testNow = time.Date(2026, time.May, 1, 10, 0, 0, 0, time.UTC)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newService(t *testing.T) (*Service, memory.Factory) {
	t.Helper()
	factory := memory.NewFactory()
	h, err := domainhotel.New(domainhotel.CreateParams{ID: "hotel-1", Name: "Harborview Grand", CreatedAt: testNow})
	require.NoError(t, err)
	require.NoError(t, factory.HotelsRepo.Save(context.Background(), h))
	svc := &Service{UoWFactory: factory, Now: func() time.Time { return testNow }}
	return svc, factory
}

func seedRoom(t *testing.T, factory memory.Factory, id string, typ domainroom.Type, cents int64, capacity int, status domainroom.Status) *domainroom.Room {
	t.Helper()
	rm, err := domainroom.New(domainroom.CreateParams{
		ID:        domainroom.ID(id),
		HotelID:   "hotel-1",
		Number:    id,
		Type:      typ,
		BasePrice: money.Must(cents, "EUR"),
		Capacity:  capacity,
		Status:    status,
		CreatedAt: testNow,
	})
	require.NoError(t, err)
	require.NoError(t, factory.RoomsRepo.Save(context.Background(), rm))
	return rm
}

func seedStay(t *testing.T, factory memory.Factory, id string, roomID domainroom.ID, from, to time.Time, status domainreservation.Status) {
	t.Helper()
	stay, err := daterange.New(from, to)
	require.NoError(t, err)
	r, err := domainreservation.New(domainreservation.CreateParams{
		ID:          domainreservation.ID(id),
		RoomID:      roomID,
		UserID:      "guest-1",
		Stay:        stay,
		Guests:      1,
		TotalAmount: money.Must(10000, "EUR"),
	})
	require.NoError(t, err)
	r.Status = status
	r.Drain()
	require.NoError(t, factory.ReservationsRepo.Save(context.Background(), r))
}

func TestCreate_RequiresExistingHotel(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.Create(context.Background(), CreateParams{
		HotelID:   "missing",
		Number:    "101",
		Type:      "double",
		BaseCents: 10000,
		Currency:  "EUR",
		Capacity:  2,
	})
	assert.ErrorIs(t, err, domainhotel.ErrNotFound)

	rm, err := svc.Create(context.Background(), CreateParams{
		HotelID:   "hotel-1",
		Number:    "101",
		Type:      "double",
		BaseCents: 10000,
		Currency:  "EUR",
		Capacity:  2,
	})
	require.NoError(t, err)
	assert.Equal(t, domainroom.TypeDouble, rm.Type)
	assert.Equal(t, domainroom.StatusAvailable, rm.Status)
}

func TestSearchAvailable_FiltersTypeCapacityAndStatus(t *testing.T) {
	svc, factory := newService(t)
	seedRoom(t, factory, "101", domainroom.TypeDouble, 10000, 2, domainroom.StatusAvailable)
	seedRoom(t, factory, "102", domainroom.TypeSingle, 6000, 1, domainroom.StatusAvailable)
	seedRoom(t, factory, "103", domainroom.TypeDouble, 10000, 2, domainroom.StatusMaintenance)
	seedRoom(t, factory, "201", domainroom.TypeSuite, 25000, 4, domainroom.StatusAvailable)

	got, err := svc.SearchAvailable(context.Background(), SearchParams{
		HotelID:  "hotel-1",
		CheckIn:  day(2026, time.July, 10),
		CheckOut: day(2026, time.July, 12),
	})
	require.NoError(t, err)
	// Maintenance rooms never show up.
	assert.Len(t, got, 3)

	got, err = svc.SearchAvailable(context.Background(), SearchParams{
		HotelID:  "hotel-1",
		CheckIn:  day(2026, time.July, 10),
		CheckOut: day(2026, time.July, 12),
		Type:     "double",
	})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, domainroom.ID("101"), got[0].ID)

	got, err = svc.SearchAvailable(context.Background(), SearchParams{
		HotelID:     "hotel-1",
		CheckIn:     day(2026, time.July, 10),
		CheckOut:    day(2026, time.July, 12),
		MinCapacity: 3,
	})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, domainroom.ID("201"), got[0].ID)
}

func TestSearchAvailable_ExcludesOverlappingStays(t *testing.T) {
	svc, factory := newService(t)
	seedRoom(t, factory, "101", domainroom.TypeDouble, 10000, 2, domainroom.StatusAvailable)
	seedRoom(t, factory, "102", domainroom.TypeDouble, 10000, 2, domainroom.StatusAvailable)
	seedStay(t, factory, "res-1", "101", day(2026, time.July, 10), day(2026, time.July, 15), domainreservation.StatusConfirmed)
	// A cancelled stay does not occupy the room.
	seedStay(t, factory, "res-2", "102", day(2026, time.July, 10), day(2026, time.July, 15), domainreservation.StatusCancelled)

	got, err := svc.SearchAvailable(context.Background(), SearchParams{
		CheckIn:  day(2026, time.July, 12),
		CheckOut: day(2026, time.July, 14),
	})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, domainroom.ID("102"), got[0].ID)

	// A back-to-back stay starting on the checkout day is fine.
	got, err = svc.SearchAvailable(context.Background(), SearchParams{
		CheckIn:  day(2026, time.July, 15),
		CheckOut: day(2026, time.July, 17),
	})
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestDelete_BlockedWhileFutureStayExists(t *testing.T) {
	svc, factory := newService(t)
	seedRoom(t, factory, "101", domainroom.TypeDouble, 10000, 2, domainroom.StatusAvailable)
	seedStay(t, factory, "res-1", "101", day(2026, time.July, 10), day(2026, time.July, 12), domainreservation.StatusBooked)

	err := svc.Delete(context.Background(), "101")
	assert.ErrorIs(t, err, domainreservation.ErrRoomUnavailable)

	// Once the stay no longer occupies the room, deletion goes through.
	seedStay(t, factory, "res-1", "101", day(2026, time.July, 10), day(2026, time.July, 12), domainreservation.StatusCancelled)
	require.NoError(t, svc.Delete(context.Background(), "101"))

	_, err = factory.RoomsRepo.ByID(context.Background(), "101")
	assert.ErrorIs(t, err, domainroom.ErrNotFound)
}

func TestUpdate_RejectsUnknownStatus(t *testing.T) {
	svc, factory := newService(t)
	seedRoom(t, factory, "101", domainroom.TypeDouble, 10000, 2, domainroom.StatusAvailable)

	_, err := svc.Update(context.Background(), UpdateParams{ID: "101", Status: "CLOSED"})
	assert.ErrorIs(t, err, domainroom.ErrInvalidStatus)

	rm, err := svc.Update(context.Background(), UpdateParams{ID: "101", Status: "maintenance", BaseCents: 12000, Currency: "EUR"})
	require.NoError(t, err)
	assert.Equal(t, domainroom.StatusMaintenance, rm.Status)
	assert.Equal(t, int64(12000), rm.BasePrice.Amount)
}

func TestRecommendations_PrefersFamiliarRoomType(t *testing.T) {
	svc, factory := newService(t)
	seedRoom(t, factory, "101", domainroom.TypeSuite, 25000, 4, domainroom.StatusAvailable)
	seedRoom(t, factory, "102", domainroom.TypeDouble, 10000, 2, domainroom.StatusAvailable)
	// The guest's history is all double rooms.
	seedStay(t, factory, "res-past", "102", day(2026, time.March, 1), day(2026, time.March, 4), domainreservation.StatusCheckedOut)

	got, err := svc.Recommendations(context.Background(), "guest-1", day(2026, time.July, 10), day(2026, time.July, 12), 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, domainroom.ID("102"), got[0].ID)

	limited, err := svc.Recommendations(context.Background(), "guest-1", day(2026, time.July, 10), day(2026, time.July, 12), 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}
