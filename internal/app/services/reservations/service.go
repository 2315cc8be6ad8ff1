package reservations

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"innkeep/internal/app/idempotency"
	"innkeep/internal/app/outbox"
	"innkeep/internal/app/services/support"
	"innkeep/internal/app/uow"
	domainbilling "innkeep/internal/domain/billing"
	domainnotification "innkeep/internal/domain/notification"
	domainrate "innkeep/internal/domain/rate"
	domainreservation "innkeep/internal/domain/reservation"
	domainroom "innkeep/internal/domain/room"
	domainrange "innkeep/internal/domain/shared/daterange"
	domainuser "innkeep/internal/domain/user"
)

var (
	ErrForbidden        = errors.New("reservations: operation not allowed for this user")
	ErrCapacityExceeded = errors.New("reservations: guests exceed room capacity")
)

// Actor identifies who is performing an operation. Guests may only touch
// their own reservations; staff may touch any.
type Actor struct {
	ID    domainuser.ID
	Roles []domainuser.Role
}

func (a Actor) Staff() bool {
	for _, r := range a.Roles {
		if r.Staff() {
			return true
		}
	}
	return false
}

func (a Actor) mayAccess(r *domainreservation.Reservation) bool {
	return a.Staff() || r.UserID == a.ID
}

type Service struct {
	UoWFactory  uow.UoWFactory
	Outbox      outbox.Outbox
	Encoder     outbox.EventEncoder
	Idempotency idempotency.Store
	Logger      *slog.Logger
	Now         func() time.Time
}

type CreateParams struct {
	RoomID         domainroom.ID
	Actor          Actor
	CheckIn        time.Time
	CheckOut       time.Time
	Guests         int
	IdempotencyKey string
}

type CreateResult struct {
	ReservationID string `json:"reservation_id"`
	TotalAmount   int64  `json:"total_amount"`
	Currency      string `json:"currency"`
	Status        string `json:"status"`
}

// Create books a room for the requested stay. The availability check is a
// pre-read; the per-night claim inside the same transaction is what keeps
// two concurrent requests from both succeeding.
func (s *Service) Create(ctx context.Context, params CreateParams) (*CreateResult, error) {
	var result CreateResult
	_, err := idempotency.Execute(ctx, s.Idempotency, nil, params.IdempotencyKey, &result, func(ctx context.Context) (any, error) {
		res, err := s.create(ctx, params)
		if err != nil {
			return nil, err
		}
		return res, nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (s *Service) create(ctx context.Context, params CreateParams) (*CreateResult, error) {
	stay, err := domainrange.New(params.CheckIn, params.CheckOut)
	if err != nil {
		return nil, err
	}
	var result *CreateResult
	err = support.RunInUnit(ctx, s.UoWFactory, func(ctx context.Context, unit uow.UnitOfWork) error {
		rm, err := unit.Rooms().ByID(ctx, params.RoomID)
		if err != nil {
			return err
		}
		if rm.Status != domainroom.StatusAvailable {
			return domainreservation.ErrRoomUnavailable
		}
		if params.Guests > rm.Capacity {
			return ErrCapacityExceeded
		}

		guard := domainreservation.Guard{Reservations: unit.Reservations()}
		free, err := guard.IsRoomFree(ctx, rm.ID, stay)
		if err != nil {
			return err
		}
		if !free {
			return domainreservation.ErrRoomUnavailable
		}

		resolver := domainrate.Resolver{Rates: unit.Rates()}
		quote, err := resolver.QuoteStay(ctx, rm.HotelID, stay.CheckIn, stay.CheckOut, rm.BasePrice)
		if err != nil {
			return err
		}

		booking, err := domainreservation.New(domainreservation.CreateParams{
			ID:          domainreservation.ID(uuid.NewString()),
			RoomID:      rm.ID,
			UserID:      params.Actor.ID,
			Stay:        stay,
			Guests:      params.Guests,
			TotalAmount: quote.Total,
			CreatedAt:   s.now(),
		})
		if err != nil {
			return err
		}

		if err := unit.Reservations().ClaimNights(ctx, rm.ID, booking.ID, stay); err != nil {
			return err
		}
		if err := unit.Reservations().Save(ctx, booking); err != nil {
			return err
		}
		if err := s.recordEvents(ctx, booking); err != nil {
			return err
		}

		if s.Logger != nil {
			s.Logger.Info("reservation created",
				"reservation_id", booking.ID,
				"room_id", rm.ID,
				"user_id", params.Actor.ID,
				"nights", stay.Nights(),
				"total", booking.TotalAmount.String(),
			)
		}
		result = &CreateResult{
			ReservationID: string(booking.ID),
			TotalAmount:   booking.TotalAmount.Amount,
			Currency:      booking.TotalAmount.Currency,
			Status:        string(booking.Status),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Confirm moves a booked reservation to confirmed and notifies the guest.
func (s *Service) Confirm(ctx context.Context, id domainreservation.ID) (*domainreservation.Reservation, error) {
	var out *domainreservation.Reservation
	err := support.RunInUnit(ctx, s.UoWFactory, func(ctx context.Context, unit uow.UnitOfWork) error {
		booking, err := unit.Reservations().ByID(ctx, id)
		if err != nil {
			return err
		}
		if err := booking.Confirm(s.now()); err != nil {
			return err
		}
		if err := unit.Reservations().Save(ctx, booking); err != nil {
			return err
		}
		if err := s.notify(ctx, unit, booking, domainnotification.TypeBookingConfirmation, domainnotification.ConfirmationMessage(booking)); err != nil {
			return err
		}
		if err := s.recordEvents(ctx, booking); err != nil {
			return err
		}
		out = booking
		return nil
	})
	return out, err
}

// Cancel releases the reservation's nights so the room can be rebooked.
// Guests may cancel their own reservations; staff may cancel any.
func (s *Service) Cancel(ctx context.Context, id domainreservation.ID, actor Actor) (*domainreservation.Reservation, error) {
	var out *domainreservation.Reservation
	err := support.RunInUnit(ctx, s.UoWFactory, func(ctx context.Context, unit uow.UnitOfWork) error {
		booking, err := unit.Reservations().ByID(ctx, id)
		if err != nil {
			return err
		}
		if !actor.mayAccess(booking) {
			return ErrForbidden
		}
		if err := booking.Cancel(s.now()); err != nil {
			return err
		}
		if err := unit.Reservations().ReleaseNights(ctx, booking.ID); err != nil {
			return err
		}
		if err := unit.Reservations().Save(ctx, booking); err != nil {
			return err
		}
		if err := s.notify(ctx, unit, booking, domainnotification.TypeBookingCancelled, domainnotification.CancellationMessage(booking)); err != nil {
			return err
		}
		if err := s.recordEvents(ctx, booking); err != nil {
			return err
		}
		if s.Logger != nil {
			s.Logger.Info("reservation cancelled", "reservation_id", booking.ID, "by", actor.ID)
		}
		out = booking
		return nil
	})
	return out, err
}

// CheckIn marks the guest as arrived and flips the room to occupied.
func (s *Service) CheckIn(ctx context.Context, id domainreservation.ID) (*domainreservation.Reservation, error) {
	var out *domainreservation.Reservation
	err := support.RunInUnit(ctx, s.UoWFactory, func(ctx context.Context, unit uow.UnitOfWork) error {
		booking, err := unit.Reservations().ByID(ctx, id)
		if err != nil {
			return err
		}
		if err := booking.CheckIn(s.now()); err != nil {
			return err
		}
		if err := unit.Reservations().Save(ctx, booking); err != nil {
			return err
		}
		rm, err := unit.Rooms().ByID(ctx, booking.RoomID)
		if err != nil {
			return err
		}
		rm.Status = domainroom.StatusOccupied
		if err := unit.Rooms().Save(ctx, rm); err != nil {
			return err
		}
		if err := s.notify(ctx, unit, booking, domainnotification.TypeCheckInSuccess, domainnotification.CheckInSuccessMessage(booking)); err != nil {
			return err
		}
		if err := s.recordEvents(ctx, booking); err != nil {
			return err
		}
		out = booking
		return nil
	})
	return out, err
}

type CheckOutResult struct {
	Reservation *domainreservation.Reservation
	Bill        *domainbilling.Bill
}

// CheckOut closes the stay: the nights are released, the room goes back to
// available and the bill is generated from the snapshot total plus tax.
func (s *Service) CheckOut(ctx context.Context, id domainreservation.ID) (*CheckOutResult, error) {
	var out *CheckOutResult
	err := support.RunInUnit(ctx, s.UoWFactory, func(ctx context.Context, unit uow.UnitOfWork) error {
		booking, err := unit.Reservations().ByID(ctx, id)
		if err != nil {
			return err
		}
		if err := booking.CheckOut(s.now()); err != nil {
			return err
		}
		if err := unit.Reservations().ReleaseNights(ctx, booking.ID); err != nil {
			return err
		}
		if err := unit.Reservations().Save(ctx, booking); err != nil {
			return err
		}
		rm, err := unit.Rooms().ByID(ctx, booking.RoomID)
		if err != nil {
			return err
		}
		rm.Status = domainroom.StatusAvailable
		if err := unit.Rooms().Save(ctx, rm); err != nil {
			return err
		}
		bill, err := domainbilling.NewFromReservation(domainbilling.ID(uuid.NewString()), booking, domainbilling.DefaultTax, s.now())
		if err != nil {
			return err
		}
		if err := unit.Bills().Save(ctx, bill); err != nil {
			return err
		}
		if err := s.notify(ctx, unit, booking, domainnotification.TypeCheckOutSuccess, domainnotification.CheckOutSuccessMessage(rm.Number)); err != nil {
			return err
		}
		if err := s.recordEvents(ctx, booking); err != nil {
			return err
		}
		if s.Logger != nil {
			s.Logger.Info("guest checked out",
				"reservation_id", booking.ID,
				"bill_id", bill.ID,
				"bill_total", bill.TotalAmount.String(),
			)
		}
		out = &CheckOutResult{Reservation: booking, Bill: bill}
		return nil
	})
	return out, err
}

type UpdateParams struct {
	ID       domainreservation.ID
	Actor    Actor
	CheckIn  time.Time
	CheckOut time.Time
	Guests   int
}

// Update re-books a pending reservation onto new dates. The old nights are
// released and the new ones claimed in the same transaction, so the swap
// either fully succeeds or leaves the original stay intact.
func (s *Service) Update(ctx context.Context, params UpdateParams) (*domainreservation.Reservation, error) {
	stay, err := domainrange.New(params.CheckIn, params.CheckOut)
	if err != nil {
		return nil, err
	}
	var out *domainreservation.Reservation
	err = support.RunInUnit(ctx, s.UoWFactory, func(ctx context.Context, unit uow.UnitOfWork) error {
		booking, err := unit.Reservations().ByID(ctx, params.ID)
		if err != nil {
			return err
		}
		if !params.Actor.mayAccess(booking) {
			return ErrForbidden
		}
		if booking.Status != domainreservation.StatusBooked && booking.Status != domainreservation.StatusConfirmed {
			return domainreservation.ErrInvalidState
		}
		rm, err := unit.Rooms().ByID(ctx, booking.RoomID)
		if err != nil {
			return err
		}
		if params.Guests <= 0 {
			return domainreservation.ErrInvalidGuests
		}
		if params.Guests > rm.Capacity {
			return ErrCapacityExceeded
		}
		if err := unit.Reservations().ReleaseNights(ctx, booking.ID); err != nil {
			return err
		}
		if err := unit.Reservations().ClaimNights(ctx, booking.RoomID, booking.ID, stay); err != nil {
			return err
		}
		resolver := domainrate.Resolver{Rates: unit.Rates()}
		quote, err := resolver.QuoteStay(ctx, rm.HotelID, stay.CheckIn, stay.CheckOut, rm.BasePrice)
		if err != nil {
			return err
		}
		booking.Stay = stay
		booking.Guests = params.Guests
		booking.TotalAmount = quote.Total
		if err := unit.Reservations().Save(ctx, booking); err != nil {
			return err
		}
		out = booking
		return nil
	})
	return out, err
}

func (s *Service) Get(ctx context.Context, id domainreservation.ID, actor Actor) (*domainreservation.Reservation, error) {
	unit, ctx, cleanup, err := support.BeginReadOnlyUnit(ctx, s.UoWFactory)
	if err != nil {
		return nil, err
	}
	if cleanup != nil {
		defer cleanup()
	}
	booking, err := unit.Reservations().ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.mayAccess(booking) {
		return nil, ErrForbidden
	}
	return booking, nil
}

func (s *Service) ListMine(ctx context.Context, userID domainuser.ID) ([]*domainreservation.Reservation, error) {
	unit, ctx, cleanup, err := support.BeginReadOnlyUnit(ctx, s.UoWFactory)
	if err != nil {
		return nil, err
	}
	if cleanup != nil {
		defer cleanup()
	}
	return unit.Reservations().ByUser(ctx, userID)
}

func (s *Service) ListAll(ctx context.Context, status string) ([]*domainreservation.Reservation, error) {
	unit, ctx, cleanup, err := support.BeginReadOnlyUnit(ctx, s.UoWFactory)
	if err != nil {
		return nil, err
	}
	if cleanup != nil {
		defer cleanup()
	}
	if status != "" {
		return unit.Reservations().ByStatus(ctx, domainreservation.Status(status))
	}
	return unit.Reservations().List(ctx)
}

// notify inserts a guest notification, tolerating a duplicate so retried
// transitions do not fail on the uniqueness index.
func (s *Service) notify(ctx context.Context, unit uow.UnitOfWork, booking *domainreservation.Reservation, typ domainnotification.Type, message string) error {
	n := domainnotification.New(
		domainnotification.ID(uuid.NewString()),
		booking.UserID,
		booking.ID,
		typ,
		message,
		s.now(),
	)
	if err := unit.Notifications().Save(ctx, n); err != nil {
		if errors.Is(err, domainnotification.ErrDuplicate) {
			return nil
		}
		return err
	}
	return nil
}

func (s *Service) recordEvents(ctx context.Context, booking *domainreservation.Reservation) error {
	return outbox.RecordDomainEvents(ctx, s.Outbox, s.encoder(), booking.Drain())
}

func (s *Service) encoder() outbox.EventEncoder {
	if s.Encoder != nil {
		return s.Encoder
	}
	return outbox.JSONEventEncoder{}
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
