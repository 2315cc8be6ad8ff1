package reservation

import (
	"context"
	"errors"
	"time"

	"innkeep/internal/domain/room"
	"innkeep/internal/domain/shared/daterange"
	"innkeep/internal/domain/shared/events"
	"innkeep/internal/domain/shared/money"
	"innkeep/internal/domain/user"
)

var (
	ErrNotFound        = errors.New("reservation: not found")
	ErrRoomUnavailable = errors.New("reservation: room is already booked for the selected dates")
	ErrInvalidState    = errors.New("reservation: invalid state transition")
	ErrInvalidGuests   = errors.New("reservation: guests count must be positive")
	ErrGuestRequired   = errors.New("reservation: guest id required")
)

type ID string

type Status string

const (
	StatusBooked     Status = "BOOKED"
	StatusConfirmed  Status = "CONFIRMED"
	StatusCheckedIn  Status = "CHECKED_IN"
	StatusCheckedOut Status = "CHECKED_OUT"
	StatusCancelled  Status = "CANCELLED"
)

// Occupying reports whether a reservation in this status blocks the room
// for overlapping dates. Cancelled and checked-out stays never block.
func (s Status) Occupying() bool {
	switch s {
	case StatusBooked, StatusConfirmed, StatusCheckedIn:
		return true
	default:
		return false
	}
}

type Reservation struct {
	ID           ID
	RoomID       room.ID
	UserID       user.ID
	Stay         daterange.DateRange
	Guests       int
	TotalAmount  money.Money
	Status       Status
	CreatedAt    time.Time
	CheckedInAt  *time.Time
	CheckedOutAt *time.Time
	events.Recorder
}

type Repository interface {
	ByID(ctx context.Context, id ID) (*Reservation, error)
	ByUser(ctx context.Context, userID user.ID) ([]*Reservation, error)
	ByStatus(ctx context.Context, status Status) ([]*Reservation, error)
	List(ctx context.Context) ([]*Reservation, error)
	Save(ctx context.Context, r *Reservation) error
	// AnyActiveOverlap reports whether an occupying reservation on the room
	// overlaps the half-open candidate range.
	AnyActiveOverlap(ctx context.Context, roomID room.ID, stay daterange.DateRange) (bool, error)
	// ClaimNights reserves one occupancy slot per night of the stay inside
	// the current transaction. A night already claimed by another occupying
	// reservation yields ErrRoomUnavailable; this is the commit-time fence
	// that closes the check-then-act race the overlap pre-check leaves open.
	ClaimNights(ctx context.Context, roomID room.ID, id ID, stay daterange.DateRange) error
	// ReleaseNights frees the occupancy slots held by a reservation, used
	// when it is cancelled or checked out.
	ReleaseNights(ctx context.Context, id ID) error
}

type CreateParams struct {
	ID          ID
	RoomID      room.ID
	UserID      user.ID
	Stay        daterange.DateRange
	Guests      int
	TotalAmount money.Money
	CreatedAt   time.Time
}

func New(params CreateParams) (*Reservation, error) {
	if params.Guests <= 0 {
		return nil, ErrInvalidGuests
	}
	if params.UserID == "" {
		return nil, ErrGuestRequired
	}
	if err := params.Stay.Validate(); err != nil {
		return nil, err
	}
	now := params.CreatedAt
	if now.IsZero() {
		now = time.Now()
	}
	now = now.UTC()
	r := &Reservation{
		ID:          params.ID,
		RoomID:      params.RoomID,
		UserID:      params.UserID,
		Stay:        params.Stay,
		Guests:      params.Guests,
		TotalAmount: params.TotalAmount,
		Status:      StatusBooked,
		CreatedAt:   now,
	}
	r.Record(Booked{
		ReservationID: r.ID,
		RoomID:        r.RoomID,
		UserID:        r.UserID,
		Stay:          r.Stay,
		Total:         r.TotalAmount,
		At:            now,
	})
	return r, nil
}

func (r *Reservation) Confirm(now time.Time) error {
	if r.Status != StatusBooked {
		return ErrInvalidState
	}
	r.Status = StatusConfirmed
	r.Record(Confirmed{ReservationID: r.ID, RoomID: r.RoomID, UserID: r.UserID, At: now.UTC()})
	return nil
}

// Cancel is idempotent: cancelling an already cancelled reservation is a
// no-op rather than an error, matching what front desks expect.
func (r *Reservation) Cancel(now time.Time) error {
	if r.Status == StatusCancelled {
		return nil
	}
	if r.Status != StatusBooked && r.Status != StatusConfirmed {
		return ErrInvalidState
	}
	r.Status = StatusCancelled
	r.Record(Cancelled{ReservationID: r.ID, RoomID: r.RoomID, UserID: r.UserID, At: now.UTC()})
	return nil
}

func (r *Reservation) CheckIn(now time.Time) error {
	if r.Status != StatusBooked && r.Status != StatusConfirmed {
		return ErrInvalidState
	}
	at := now.UTC()
	r.Status = StatusCheckedIn
	r.CheckedInAt = &at
	r.Record(CheckedIn{ReservationID: r.ID, RoomID: r.RoomID, UserID: r.UserID, At: at})
	return nil
}

func (r *Reservation) CheckOut(now time.Time) error {
	if r.Status != StatusCheckedIn {
		return ErrInvalidState
	}
	at := now.UTC()
	r.Status = StatusCheckedOut
	r.CheckedOutAt = &at
	r.Record(CheckedOut{ReservationID: r.ID, RoomID: r.RoomID, UserID: r.UserID, Total: r.TotalAmount, At: at})
	return nil
}
