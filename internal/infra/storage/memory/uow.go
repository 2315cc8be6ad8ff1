package memory

import (
	"context"
	"errors"

	"innkeep/internal/app/uow"
	domainbilling "innkeep/internal/domain/billing"
	domainhotel "innkeep/internal/domain/hotel"
	domainnotification "innkeep/internal/domain/notification"
	domainrate "innkeep/internal/domain/rate"
	domainreservation "innkeep/internal/domain/reservation"
	domainroom "innkeep/internal/domain/room"
	domainuser "innkeep/internal/domain/user"
)

// Factory wires in-memory repositories into a unit-of-work boundary.
type Factory struct {
	HotelsRepo        domainhotel.Repository
	RoomsRepo         domainroom.Repository
	RatesRepo         domainrate.Repository
	ReservationsRepo  domainreservation.Repository
	BillsRepo         domainbilling.Repository
	NotificationsRepo domainnotification.Repository
	UsersRepo         domainuser.Repository
}

// NewFactory builds a factory over fresh empty stores.
func NewFactory() Factory {
	return Factory{
		HotelsRepo:        NewHotelRepository(),
		RoomsRepo:         NewRoomRepository(),
		RatesRepo:         NewRateRepository(),
		ReservationsRepo:  NewReservationRepository(),
		BillsRepo:         NewBillRepository(),
		NotificationsRepo: NewNotificationRepository(),
		UsersRepo:         NewUserRepository(),
	}
}

// ErrFactoryMisconfigured indicates missing repositories.
var ErrFactoryMisconfigured = errors.New("memory: unit of work factory misconfigured")

// Begin starts a lightweight transaction boundary. No isolation is provided
// but the abstraction matches the application ports; the reservation store's
// night claims still make double booking impossible.
func (f Factory) Begin(ctx context.Context, opts uow.TxOptions) (uow.UnitOfWork, error) {
	if f.HotelsRepo == nil || f.RoomsRepo == nil || f.RatesRepo == nil ||
		f.ReservationsRepo == nil || f.BillsRepo == nil ||
		f.NotificationsRepo == nil || f.UsersRepo == nil {
		return nil, ErrFactoryMisconfigured
	}
	return &Unit{
		hotels:        f.HotelsRepo,
		rooms:         f.RoomsRepo,
		rates:         f.RatesRepo,
		reservations:  f.ReservationsRepo,
		bills:         f.BillsRepo,
		notifications: f.NotificationsRepo,
		users:         f.UsersRepo,
	}, nil
}

// Unit is a lightweight uow.UnitOfWork backed by in-memory stores.
type Unit struct {
	hotels        domainhotel.Repository
	rooms         domainroom.Repository
	rates         domainrate.Repository
	reservations  domainreservation.Repository
	bills         domainbilling.Repository
	notifications domainnotification.Repository
	users         domainuser.Repository
}

func (u *Unit) Hotels() domainhotel.Repository { return u.hotels }

func (u *Unit) Rooms() domainroom.Repository { return u.rooms }

func (u *Unit) Rates() domainrate.Repository { return u.rates }

func (u *Unit) Reservations() domainreservation.Repository { return u.reservations }

func (u *Unit) Bills() domainbilling.Repository { return u.bills }

func (u *Unit) Notifications() domainnotification.Repository { return u.notifications }

func (u *Unit) Users() domainuser.Repository { return u.users }

func (u *Unit) Commit(ctx context.Context) error { return nil }

func (u *Unit) Rollback(ctx context.Context) error { return nil }
