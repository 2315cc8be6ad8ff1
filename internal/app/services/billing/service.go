package billing

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"innkeep/internal/app/services/support"
	"innkeep/internal/app/uow"
	domainbilling "innkeep/internal/domain/billing"
	domainreservation "innkeep/internal/domain/reservation"
	domainuser "innkeep/internal/domain/user"
)

type Service struct {
	UoWFactory uow.UoWFactory
	Logger     *slog.Logger
	Now        func() time.Time
}

func (s *Service) Get(ctx context.Context, id domainbilling.ID) (*domainbilling.Bill, error) {
	unit, ctx, cleanup, err := support.BeginReadOnlyUnit(ctx, s.UoWFactory)
	if err != nil {
		return nil, err
	}
	if cleanup != nil {
		defer cleanup()
	}
	return unit.Bills().ByID(ctx, id)
}

func (s *Service) ByReservation(ctx context.Context, reservationID domainreservation.ID) (*domainbilling.Bill, error) {
	unit, ctx, cleanup, err := support.BeginReadOnlyUnit(ctx, s.UoWFactory)
	if err != nil {
		return nil, err
	}
	if cleanup != nil {
		defer cleanup()
	}
	return unit.Bills().ByReservation(ctx, reservationID)
}

func (s *Service) List(ctx context.Context) ([]*domainbilling.Bill, error) {
	unit, ctx, cleanup, err := support.BeginReadOnlyUnit(ctx, s.UoWFactory)
	if err != nil {
		return nil, err
	}
	if cleanup != nil {
		defer cleanup()
	}
	return unit.Bills().List(ctx)
}

// ListMine returns the bills behind the user's own reservations.
func (s *Service) ListMine(ctx context.Context, userID domainuser.ID) ([]*domainbilling.Bill, error) {
	unit, ctx, cleanup, err := support.BeginReadOnlyUnit(ctx, s.UoWFactory)
	if err != nil {
		return nil, err
	}
	if cleanup != nil {
		defer cleanup()
	}
	mine, err := unit.Reservations().ByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	bills := make([]*domainbilling.Bill, 0, len(mine))
	for _, booking := range mine {
		bill, err := unit.Bills().ByReservation(ctx, booking.ID)
		if err != nil {
			if errors.Is(err, domainbilling.ErrNotFound) {
				continue
			}
			return nil, err
		}
		bills = append(bills, bill)
	}
	return bills, nil
}

func (s *Service) Pay(ctx context.Context, id domainbilling.ID) (*domainbilling.Bill, error) {
	var out *domainbilling.Bill
	err := support.RunInUnit(ctx, s.UoWFactory, func(ctx context.Context, unit uow.UnitOfWork) error {
		bill, err := unit.Bills().ByID(ctx, id)
		if err != nil {
			return err
		}
		if err := bill.MarkPaid(s.now()); err != nil {
			return err
		}
		if err := unit.Bills().Save(ctx, bill); err != nil {
			return err
		}
		if s.Logger != nil {
			s.Logger.Info("bill paid", "bill_id", bill.ID, "total", bill.TotalAmount.String())
		}
		out = bill
		return nil
	})
	return out, err
}

func (s *Service) Refund(ctx context.Context, id domainbilling.ID) (*domainbilling.Bill, error) {
	var out *domainbilling.Bill
	err := support.RunInUnit(ctx, s.UoWFactory, func(ctx context.Context, unit uow.UnitOfWork) error {
		bill, err := unit.Bills().ByID(ctx, id)
		if err != nil {
			return err
		}
		if err := bill.MarkRefunded(s.now()); err != nil {
			return err
		}
		if err := unit.Bills().Save(ctx, bill); err != nil {
			return err
		}
		out = bill
		return nil
	})
	return out, err
}

func (s *Service) Delete(ctx context.Context, id domainbilling.ID) error {
	return support.RunInUnit(ctx, s.UoWFactory, func(ctx context.Context, unit uow.UnitOfWork) error {
		return unit.Bills().Delete(ctx, id)
	})
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
