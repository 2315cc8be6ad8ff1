package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"innkeep/internal/app/uow"
	domainbilling "innkeep/internal/domain/billing"
	domainhotel "innkeep/internal/domain/hotel"
	domainnotification "innkeep/internal/domain/notification"
	domainrate "innkeep/internal/domain/rate"
	domainreservation "innkeep/internal/domain/reservation"
	domainroom "innkeep/internal/domain/room"
	domainuser "innkeep/internal/domain/user"
)

// Factory wires Mongo transactions into the generic UnitOfWork interface.
type Factory struct {
	DB *mongo.Database

	HotelsRepo        domainhotel.Repository
	RoomsRepo         domainroom.Repository
	RatesRepo         domainrate.Repository
	ReservationsRepo  domainreservation.Repository
	BillsRepo         domainbilling.Repository
	NotificationsRepo domainnotification.Repository
	UsersRepo         domainuser.Repository
}

// NewFactory builds the factory with repositories bound to db's collections.
func NewFactory(db *mongo.Database) Factory {
	return Factory{
		DB:                db,
		HotelsRepo:        NewHotelRepository(db),
		RoomsRepo:         NewRoomRepository(db),
		RatesRepo:         NewRateRepository(db),
		ReservationsRepo:  NewReservationRepository(db),
		BillsRepo:         NewBillRepository(db),
		NotificationsRepo: NewNotificationRepository(db),
		UsersRepo:         NewUserRepository(db),
	}
}

var ErrUnitOfWorkNotConfigured = errors.New("mongo: unit of work factory missing database")

// Begin starts a MongoDB session/transaction. The per-night claim inserts
// ride inside it, so a failed claim aborts the whole reservation write.
func (f Factory) Begin(ctx context.Context, opts uow.TxOptions) (uow.UnitOfWork, error) {
	if f.DB == nil {
		return nil, ErrUnitOfWorkNotConfigured
	}
	session, err := f.DB.Client().StartSession()
	if err != nil {
		return nil, err
	}
	txnOpts := options.Transaction().SetReadConcern(f.DB.ReadConcern()).SetWriteConcern(f.DB.WriteConcern())
	if err := session.StartTransaction(txnOpts); err != nil {
		session.EndSession(ctx)
		return nil, err
	}
	return &Unit{
		db:            f.DB,
		session:       session,
		hotels:        f.HotelsRepo,
		rooms:         f.RoomsRepo,
		rates:         f.RatesRepo,
		reservations:  f.ReservationsRepo,
		bills:         f.BillsRepo,
		notifications: f.NotificationsRepo,
		users:         f.UsersRepo,
	}, nil
}

type Unit struct {
	db      *mongo.Database
	session mongo.Session

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

func (u *Unit) Commit(ctx context.Context) error {
	defer u.session.EndSession(ctx)
	return u.session.CommitTransaction(ctx)
}

func (u *Unit) Rollback(ctx context.Context) error {
	defer u.session.EndSession(ctx)
	return u.session.AbortTransaction(ctx)
}

// InjectContext ensures Mongo session is available in context for downstream repos.
func (u *Unit) InjectContext(ctx context.Context) context.Context {
	return mongo.NewSessionContext(ctx, u.session)
}
