package notifications

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"innkeep/internal/app/services/support"
	"innkeep/internal/app/uow"
	domainnotification "innkeep/internal/domain/notification"
	domainreservation "innkeep/internal/domain/reservation"
	domainrange "innkeep/internal/domain/shared/daterange"
)

// Sweeper periodically creates check-in and check-out reminders for stays
// starting or ending tomorrow. The (reservation, type) uniqueness in the
// notification store keeps repeated sweeps from duplicating reminders.
type Sweeper struct {
	UoWFactory uow.UoWFactory
	Interval   time.Duration
	Logger     *slog.Logger
	Now        func() time.Time
}

const defaultSweepInterval = time.Minute

// Run blocks until ctx is cancelled, sweeping once immediately and then on
// every tick.
func (s *Sweeper) Run(ctx context.Context) {
	interval := s.Interval
	if interval <= 0 {
		interval = defaultSweepInterval
	}
	if err := s.SweepOnce(ctx); err != nil && s.Logger != nil {
		s.Logger.Error("reminder sweep failed", "error", err)
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.SweepOnce(ctx); err != nil && s.Logger != nil {
				s.Logger.Error("reminder sweep failed", "error", err)
			}
		}
	}
}

// SweepOnce walks the active reservations and inserts the reminders that
// are due. Individual duplicates are skipped, not treated as failures.
func (s *Sweeper) SweepOnce(ctx context.Context) error {
	tomorrow := domainrange.Midnight(s.now()).AddDate(0, 0, 1)
	return support.RunInUnit(ctx, s.UoWFactory, func(ctx context.Context, unit uow.UnitOfWork) error {
		created := 0
		confirmed, err := unit.Reservations().ByStatus(ctx, domainreservation.StatusConfirmed)
		if err != nil {
			return err
		}
		for _, booking := range confirmed {
			// Backfill: a confirmed stay always carries its confirmation row,
			// even if the confirming transaction predates this notifier.
			ok, err := s.remind(ctx, unit, booking, domainnotification.TypeBookingConfirmation, domainnotification.ConfirmationMessage(booking))
			if err != nil {
				return err
			}
			if ok {
				created++
			}
		}
		booked, err := unit.Reservations().ByStatus(ctx, domainreservation.StatusBooked)
		if err != nil {
			return err
		}
		for _, booking := range append(booked, confirmed...) {
			if !booking.Stay.CheckIn.Equal(tomorrow) {
				continue
			}
			ok, err := s.remind(ctx, unit, booking, domainnotification.TypeCheckInReminder, domainnotification.CheckInReminderMessage(booking))
			if err != nil {
				return err
			}
			if ok {
				created++
			}
		}
		checkedIn, err := unit.Reservations().ByStatus(ctx, domainreservation.StatusCheckedIn)
		if err != nil {
			return err
		}
		for _, booking := range checkedIn {
			if !booking.Stay.CheckOut.Equal(tomorrow) {
				continue
			}
			ok, err := s.remind(ctx, unit, booking, domainnotification.TypeCheckOutReminder, domainnotification.CheckOutReminderMessage(booking))
			if err != nil {
				return err
			}
			if ok {
				created++
			}
		}
		if created > 0 && s.Logger != nil {
			s.Logger.Info("reminders created", "count", created)
		}
		return nil
	})
}

func (s *Sweeper) remind(ctx context.Context, unit uow.UnitOfWork, booking *domainreservation.Reservation, typ domainnotification.Type, message string) (bool, error) {
	exists, err := unit.Notifications().Exists(ctx, booking.ID, typ)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}
	n := domainnotification.New(
		domainnotification.ID(uuid.NewString()),
		booking.UserID,
		booking.ID,
		typ,
		message,
		s.now(),
	)
	if err := unit.Notifications().Save(ctx, n); err != nil {
		// Another sweep got there first between the Exists check and the
		// insert. The unique index makes that a benign race.
		if errors.Is(err, domainnotification.ErrDuplicate) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s *Sweeper) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
