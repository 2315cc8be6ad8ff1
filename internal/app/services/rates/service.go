package rates

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"innkeep/internal/app/services/support"
	"innkeep/internal/app/uow"
	domainhotel "innkeep/internal/domain/hotel"
	domainrate "innkeep/internal/domain/rate"
	domainroom "innkeep/internal/domain/room"
	"innkeep/internal/domain/shared/money"
)

type Service struct {
	UoWFactory uow.UoWFactory
	Logger     *slog.Logger
	Now        func() time.Time
}

type CreateParams struct {
	HotelID    domainhotel.ID
	Name       string
	Start      time.Time
	End        time.Time
	Multiplier string
}

// Create stores a seasonal rate window. The multiplier arrives as a decimal
// string and is parsed to a fixed-point factor; floats never enter pricing.
func (s *Service) Create(ctx context.Context, params CreateParams) (*domainrate.SeasonalRate, error) {
	mult, err := money.ParseFactor(params.Multiplier)
	if err != nil {
		return nil, err
	}
	var out *domainrate.SeasonalRate
	err = support.RunInUnit(ctx, s.UoWFactory, func(ctx context.Context, unit uow.UnitOfWork) error {
		if _, err := unit.Hotels().ByID(ctx, params.HotelID); err != nil {
			return err
		}
		sr, err := domainrate.New(domainrate.CreateParams{
			ID:         domainrate.ID(uuid.NewString()),
			HotelID:    params.HotelID,
			Name:       params.Name,
			Start:      params.Start,
			End:        params.End,
			Multiplier: mult,
			CreatedAt:  s.now(),
		})
		if err != nil {
			return err
		}
		if err := unit.Rates().Save(ctx, sr); err != nil {
			return err
		}
		if s.Logger != nil {
			s.Logger.Info("seasonal rate created",
				"rate_id", sr.ID,
				"hotel_id", sr.HotelID,
				"name", sr.Name,
				"multiplier", sr.Multiplier.String(),
			)
		}
		out = sr
		return nil
	})
	return out, err
}

func (s *Service) Delete(ctx context.Context, id domainrate.ID) error {
	return support.RunInUnit(ctx, s.UoWFactory, func(ctx context.Context, unit uow.UnitOfWork) error {
		return unit.Rates().Delete(ctx, id)
	})
}

func (s *Service) ListByHotel(ctx context.Context, hotelID domainhotel.ID) ([]*domainrate.SeasonalRate, error) {
	unit, ctx, cleanup, err := support.BeginReadOnlyUnit(ctx, s.UoWFactory)
	if err != nil {
		return nil, err
	}
	if cleanup != nil {
		defer cleanup()
	}
	return unit.Rates().ByHotel(ctx, hotelID)
}

// Quote prices a prospective stay without creating anything. Guests use it
// to preview the seasonal total before booking.
func (s *Service) Quote(ctx context.Context, roomID domainroom.ID, checkIn, checkOut time.Time) (*domainrate.Quote, error) {
	unit, ctx, cleanup, err := support.BeginReadOnlyUnit(ctx, s.UoWFactory)
	if err != nil {
		return nil, err
	}
	if cleanup != nil {
		defer cleanup()
	}
	rm, err := unit.Rooms().ByID(ctx, roomID)
	if err != nil {
		return nil, err
	}
	resolver := domainrate.Resolver{Rates: unit.Rates()}
	q, err := resolver.QuoteStay(ctx, rm.HotelID, checkIn, checkOut, rm.BasePrice)
	if err != nil {
		return nil, err
	}
	return &q, nil
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
