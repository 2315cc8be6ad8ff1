package hotels

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"innkeep/internal/app/services/support"
	"innkeep/internal/app/uow"
	domainhotel "innkeep/internal/domain/hotel"
)

type Service struct {
	UoWFactory uow.UoWFactory
	Logger     *slog.Logger
	Now        func() time.Time
}

type CreateParams struct {
	Name    string
	Address string
	City    string
	Phone   string
	Email   string
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*domainhotel.Hotel, error) {
	var out *domainhotel.Hotel
	err := support.RunInUnit(ctx, s.UoWFactory, func(ctx context.Context, unit uow.UnitOfWork) error {
		h, err := domainhotel.New(domainhotel.CreateParams{
			ID:        domainhotel.ID(uuid.NewString()),
			Name:      params.Name,
			Address:   params.Address,
			City:      params.City,
			Phone:     params.Phone,
			Email:     params.Email,
			CreatedAt: s.now(),
		})
		if err != nil {
			return err
		}
		if err := unit.Hotels().Save(ctx, h); err != nil {
			return err
		}
		if s.Logger != nil {
			s.Logger.Info("hotel created", "hotel_id", h.ID, "name", h.Name)
		}
		out = h
		return nil
	})
	return out, err
}

type UpdateParams struct {
	ID      domainhotel.ID
	Name    string
	Address string
	City    string
	Phone   string
	Email   string
}

func (s *Service) Update(ctx context.Context, params UpdateParams) (*domainhotel.Hotel, error) {
	var out *domainhotel.Hotel
	err := support.RunInUnit(ctx, s.UoWFactory, func(ctx context.Context, unit uow.UnitOfWork) error {
		h, err := unit.Hotels().ByID(ctx, params.ID)
		if err != nil {
			return err
		}
		if err := h.Update(params.Name, params.Address, params.City, params.Phone, params.Email); err != nil {
			return err
		}
		if err := unit.Hotels().Save(ctx, h); err != nil {
			return err
		}
		out = h
		return nil
	})
	return out, err
}

func (s *Service) Delete(ctx context.Context, id domainhotel.ID) error {
	return support.RunInUnit(ctx, s.UoWFactory, func(ctx context.Context, unit uow.UnitOfWork) error {
		return unit.Hotels().Delete(ctx, id)
	})
}

func (s *Service) Get(ctx context.Context, id domainhotel.ID) (*domainhotel.Hotel, error) {
	unit, ctx, cleanup, err := support.BeginReadOnlyUnit(ctx, s.UoWFactory)
	if err != nil {
		return nil, err
	}
	if cleanup != nil {
		defer cleanup()
	}
	return unit.Hotels().ByID(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]*domainhotel.Hotel, error) {
	unit, ctx, cleanup, err := support.BeginReadOnlyUnit(ctx, s.UoWFactory)
	if err != nil {
		return nil, err
	}
	if cleanup != nil {
		defer cleanup()
	}
	return unit.Hotels().List(ctx)
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
