package notifications

import (
	"context"
	"log/slog"
	"time"

	"innkeep/internal/app/services/support"
	"innkeep/internal/app/uow"
	domainnotification "innkeep/internal/domain/notification"
	domainuser "innkeep/internal/domain/user"
)

type Service struct {
	UoWFactory uow.UoWFactory
	Logger     *slog.Logger
	Now        func() time.Time
}

func (s *Service) ListMine(ctx context.Context, userID domainuser.ID) ([]*domainnotification.Notification, error) {
	unit, ctx, cleanup, err := support.BeginReadOnlyUnit(ctx, s.UoWFactory)
	if err != nil {
		return nil, err
	}
	if cleanup != nil {
		defer cleanup()
	}
	return unit.Notifications().ByUser(ctx, userID)
}

func (s *Service) MarkRead(ctx context.Context, id domainnotification.ID, userID domainuser.ID) error {
	return support.RunInUnit(ctx, s.UoWFactory, func(ctx context.Context, unit uow.UnitOfWork) error {
		return unit.Notifications().MarkRead(ctx, id, userID)
	})
}

func (s *Service) MarkAllRead(ctx context.Context, userID domainuser.ID) error {
	return support.RunInUnit(ctx, s.UoWFactory, func(ctx context.Context, unit uow.UnitOfWork) error {
		return unit.Notifications().MarkAllRead(ctx, userID)
	})
}
