package room

import (
	"context"
	"errors"
	"strings"
	"time"

	"innkeep/internal/domain/hotel"
	"innkeep/internal/domain/shared/money"
)

var (
	ErrNotFound        = errors.New("room: not found")
	ErrNumberRequired  = errors.New("room: number is required")
	ErrInvalidType     = errors.New("room: invalid type")
	ErrInvalidStatus   = errors.New("room: invalid status")
	ErrInvalidPrice    = errors.New("room: base price must be positive")
	ErrInvalidCapacity = errors.New("room: capacity must be positive")
)

type ID string

type Type string

const (
	TypeSingle Type = "SINGLE"
	TypeDouble Type = "DOUBLE"
	TypeSuite  Type = "SUITE"
	TypeDeluxe Type = "DELUXE"
)

// Status is the manual room flag set by staff. It is independent from
// reservation-driven occupancy: a room marked OCCUPIED or MAINTENANCE is
// hidden from availability search even when no reservation overlaps, and a
// room marked AVAILABLE can still fail the overlap check.
type Status string

const (
	StatusAvailable   Status = "AVAILABLE"
	StatusOccupied    Status = "OCCUPIED"
	StatusMaintenance Status = "MAINTENANCE"
)

type Room struct {
	ID        ID
	HotelID   hotel.ID
	Number    string
	Type      Type
	BasePrice money.Money
	Capacity  int
	Status    Status
	PhotoURL  string
	CreatedAt time.Time
}

type Repository interface {
	ByID(ctx context.Context, id ID) (*Room, error)
	ByHotel(ctx context.Context, hotelID hotel.ID) ([]*Room, error)
	List(ctx context.Context) ([]*Room, error)
	Save(ctx context.Context, r *Room) error
	Delete(ctx context.Context, id ID) error
}

type CreateParams struct {
	ID        ID
	HotelID   hotel.ID
	Number    string
	Type      Type
	BasePrice money.Money
	Capacity  int
	Status    Status
	CreatedAt time.Time
}

func New(params CreateParams) (*Room, error) {
	number := strings.TrimSpace(params.Number)
	if number == "" {
		return nil, ErrNumberRequired
	}
	typ, err := ParseType(string(params.Type))
	if err != nil {
		return nil, err
	}
	if params.BasePrice.Amount <= 0 || params.BasePrice.Currency == "" {
		return nil, ErrInvalidPrice
	}
	if params.Capacity <= 0 {
		return nil, ErrInvalidCapacity
	}
	status := params.Status
	if status == "" {
		status = StatusAvailable
	}
	if _, err := ParseStatus(string(status)); err != nil {
		return nil, err
	}
	now := params.CreatedAt
	if now.IsZero() {
		now = time.Now()
	}
	return &Room{
		ID:        params.ID,
		HotelID:   params.HotelID,
		Number:    number,
		Type:      typ,
		BasePrice: params.BasePrice,
		Capacity:  params.Capacity,
		Status:    status,
		CreatedAt: now.UTC(),
	}, nil
}

func ParseType(s string) (Type, error) {
	switch Type(strings.ToUpper(strings.TrimSpace(s))) {
	case TypeSingle:
		return TypeSingle, nil
	case TypeDouble:
		return TypeDouble, nil
	case TypeSuite:
		return TypeSuite, nil
	case TypeDeluxe:
		return TypeDeluxe, nil
	default:
		return "", ErrInvalidType
	}
}

func ParseStatus(s string) (Status, error) {
	switch Status(strings.ToUpper(strings.TrimSpace(s))) {
	case StatusAvailable:
		return StatusAvailable, nil
	case StatusOccupied:
		return StatusOccupied, nil
	case StatusMaintenance:
		return StatusMaintenance, nil
	default:
		return "", ErrInvalidStatus
	}
}
