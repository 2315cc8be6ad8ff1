package reservation

import (
	"time"

	"innkeep/internal/domain/room"
	"innkeep/internal/domain/shared/daterange"
	"innkeep/internal/domain/shared/money"
	"innkeep/internal/domain/user"
)

type Booked struct {
	ReservationID ID
	RoomID        room.ID
	UserID        user.ID
	Stay          daterange.DateRange
	Total         money.Money
	At            time.Time
}

func (e Booked) EventName() string     { return "reservation.booked" }
func (e Booked) AggregateID() string   { return string(e.ReservationID) }
func (e Booked) OccurredAt() time.Time { return e.At }

type Confirmed struct {
	ReservationID ID
	RoomID        room.ID
	UserID        user.ID
	At            time.Time
}

func (e Confirmed) EventName() string     { return "reservation.confirmed" }
func (e Confirmed) AggregateID() string   { return string(e.ReservationID) }
func (e Confirmed) OccurredAt() time.Time { return e.At }

type Cancelled struct {
	ReservationID ID
	RoomID        room.ID
	UserID        user.ID
	At            time.Time
}

func (e Cancelled) EventName() string     { return "reservation.cancelled" }
func (e Cancelled) AggregateID() string   { return string(e.ReservationID) }
func (e Cancelled) OccurredAt() time.Time { return e.At }

type CheckedIn struct {
	ReservationID ID
	RoomID        room.ID
	UserID        user.ID
	At            time.Time
}

func (e CheckedIn) EventName() string     { return "reservation.checked_in" }
func (e CheckedIn) AggregateID() string   { return string(e.ReservationID) }
func (e CheckedIn) OccurredAt() time.Time { return e.At }

type CheckedOut struct {
	ReservationID ID
	RoomID        room.ID
	UserID        user.ID
	Total         money.Money
	At            time.Time
}

func (e CheckedOut) EventName() string     { return "reservation.checked_out" }
func (e CheckedOut) AggregateID() string   { return string(e.ReservationID) }
func (e CheckedOut) OccurredAt() time.Time { return e.At }
