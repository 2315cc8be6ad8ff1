package users

import (
	"context"
	"log/slog"
	"time"

	"innkeep/internal/app/services/support"
	"innkeep/internal/app/uow"
	domainauth "innkeep/internal/domain/auth"
	domainuser "innkeep/internal/domain/user"
)

// Service covers the admin side of account management. Self-service
// registration and login live in the auth service.
type Service struct {
	UoWFactory uow.UoWFactory
	Sessions   domainauth.SessionStore
	Logger     *slog.Logger
	Now        func() time.Time
}

func (s *Service) List(ctx context.Context) ([]*domainuser.User, error) {
	unit, ctx, cleanup, err := support.BeginReadOnlyUnit(ctx, s.UoWFactory)
	if err != nil {
		return nil, err
	}
	if cleanup != nil {
		defer cleanup()
	}
	return unit.Users().List(ctx)
}

func (s *Service) Get(ctx context.Context, id domainuser.ID) (*domainuser.User, error) {
	unit, ctx, cleanup, err := support.BeginReadOnlyUnit(ctx, s.UoWFactory)
	if err != nil {
		return nil, err
	}
	if cleanup != nil {
		defer cleanup()
	}
	return unit.Users().ByID(ctx, id)
}

// AssignRoles replaces the account's role set, then drops its sessions so
// the new roles take effect on the next login.
func (s *Service) AssignRoles(ctx context.Context, id domainuser.ID, roles []string) (*domainuser.User, error) {
	parsed := make([]domainuser.Role, 0, len(roles))
	for _, r := range roles {
		role, err := domainuser.ParseRole(r)
		if err != nil {
			return nil, err
		}
		parsed = append(parsed, role)
	}
	var out *domainuser.User
	err := support.RunInUnit(ctx, s.UoWFactory, func(ctx context.Context, unit uow.UnitOfWork) error {
		account, err := unit.Users().ByID(ctx, id)
		if err != nil {
			return err
		}
		if err := account.AssignRoles(parsed, s.now()); err != nil {
			return err
		}
		if err := unit.Users().Save(ctx, account); err != nil {
			return err
		}
		out = account
		return nil
	})
	if err != nil {
		return nil, err
	}
	if s.Sessions != nil {
		_ = s.Sessions.DeleteByUser(ctx, id)
	}
	if s.Logger != nil {
		s.Logger.Info("roles assigned", "user_id", id, "roles", roles)
	}
	return out, nil
}

func (s *Service) Delete(ctx context.Context, id domainuser.ID) error {
	err := support.RunInUnit(ctx, s.UoWFactory, func(ctx context.Context, unit uow.UnitOfWork) error {
		return unit.Users().Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	if s.Sessions != nil {
		_ = s.Sessions.DeleteByUser(ctx, id)
	}
	return nil
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
