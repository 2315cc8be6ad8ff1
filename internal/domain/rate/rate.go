package rate

import (
	"context"
	"errors"
	"strings"
	"time"

	"innkeep/internal/domain/hotel"
	"innkeep/internal/domain/shared/daterange"
	"innkeep/internal/domain/shared/money"
)

var (
	ErrNotFound          = errors.New("rate: not found")
	ErrNameRequired      = errors.New("rate: name is required")
	ErrInvalidWindow     = errors.New("rate: end date must not precede start date")
	ErrInvalidMultiplier = errors.New("rate: multiplier must be positive")
)

type ID string

// SeasonalRate is a named pricing window scoped to one hotel. The window is
// inclusive on BOTH ends, unlike a stay range: a rate ending on the check-in
// day still prices that first night. Rates are immutable once created;
// windows of the same hotel may overlap freely.
type SeasonalRate struct {
	ID         ID
	HotelID    hotel.ID
	Name       string
	Start      time.Time
	End        time.Time
	Multiplier money.Factor
	CreatedAt  time.Time
}

type Repository interface {
	ByID(ctx context.Context, id ID) (*SeasonalRate, error)
	ByHotel(ctx context.Context, hotelID hotel.ID) ([]*SeasonalRate, error)
	// IntersectingStay returns the hotel's rates whose inclusive window
	// touches at least one night of the half-open stay range.
	IntersectingStay(ctx context.Context, hotelID hotel.ID, stay daterange.DateRange) ([]*SeasonalRate, error)
	Save(ctx context.Context, r *SeasonalRate) error
	Delete(ctx context.Context, id ID) error
}

type CreateParams struct {
	ID         ID
	HotelID    hotel.ID
	Name       string
	Start      time.Time
	End        time.Time
	Multiplier money.Factor
	CreatedAt  time.Time
}

// New validates and builds a seasonal rate. Malformed windows are rejected
// here, at creation time; the resolver never re-validates stored rates.
func New(params CreateParams) (*SeasonalRate, error) {
	name := strings.TrimSpace(params.Name)
	if name == "" {
		return nil, ErrNameRequired
	}
	start := daterange.Midnight(params.Start)
	end := daterange.Midnight(params.End)
	if start.IsZero() || end.Before(start) {
		return nil, ErrInvalidWindow
	}
	if !params.Multiplier.Valid() {
		return nil, ErrInvalidMultiplier
	}
	now := params.CreatedAt
	if now.IsZero() {
		now = time.Now()
	}
	return &SeasonalRate{
		ID:         params.ID,
		HotelID:    params.HotelID,
		Name:       name,
		Start:      start,
		End:        end,
		Multiplier: params.Multiplier,
		CreatedAt:  now.UTC(),
	}, nil
}

// AppliesOn reports whether the rate window covers the given night.
// Both window ends are inclusive.
func (r *SeasonalRate) AppliesOn(day time.Time) bool {
	day = daterange.Midnight(day)
	return !day.Before(r.Start) && !day.After(r.End)
}

// IntersectsStay reports whether the inclusive window [Start, End] shares a
// night with the half-open stay [CheckIn, CheckOut).
func (r *SeasonalRate) IntersectsStay(stay daterange.DateRange) bool {
	return r.Start.Before(stay.CheckOut) && !r.End.Before(stay.CheckIn)
}
