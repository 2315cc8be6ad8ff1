package uow

import (
	"context"

	domainbilling "innkeep/internal/domain/billing"
	domainhotel "innkeep/internal/domain/hotel"
	domainnotification "innkeep/internal/domain/notification"
	domainrate "innkeep/internal/domain/rate"
	domainreservation "innkeep/internal/domain/reservation"
	domainroom "innkeep/internal/domain/room"
	domainuser "innkeep/internal/domain/user"
)

// UnitOfWork coordinates repositories inside a transaction boundary.
type UnitOfWork interface {
	Hotels() domainhotel.Repository
	Rooms() domainroom.Repository
	Rates() domainrate.Repository
	Reservations() domainreservation.Repository
	Bills() domainbilling.Repository
	Notifications() domainnotification.Repository
	Users() domainuser.Repository

	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// UoWFactory starts unit of work instances.
type UoWFactory interface {
	Begin(ctx context.Context, opts TxOptions) (UnitOfWork, error)
}

// TxOptions configure transaction boundaries.
type TxOptions struct {
	ReadOnly bool
}
