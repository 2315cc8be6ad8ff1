package hotel

import (
	"context"
	"errors"
	"strings"
	"time"
)

var (
	ErrNotFound     = errors.New("hotel: not found")
	ErrNameRequired = errors.New("hotel: name is required")
)

type ID string

type Hotel struct {
	ID        ID
	Name      string
	Address   string
	City      string
	Phone     string
	Email     string
	CreatedAt time.Time
}

type Repository interface {
	ByID(ctx context.Context, id ID) (*Hotel, error)
	List(ctx context.Context) ([]*Hotel, error)
	Save(ctx context.Context, h *Hotel) error
	Delete(ctx context.Context, id ID) error
}

type CreateParams struct {
	ID        ID
	Name      string
	Address   string
	City      string
	Phone     string
	Email     string
	CreatedAt time.Time
}

func New(params CreateParams) (*Hotel, error) {
	name := strings.TrimSpace(params.Name)
	if name == "" {
		return nil, ErrNameRequired
	}
	now := params.CreatedAt
	if now.IsZero() {
		now = time.Now()
	}
	return &Hotel{
		ID:        params.ID,
		Name:      name,
		Address:   strings.TrimSpace(params.Address),
		City:      strings.TrimSpace(params.City),
		Phone:     strings.TrimSpace(params.Phone),
		Email:     strings.TrimSpace(params.Email),
		CreatedAt: now.UTC(),
	}, nil
}

func (h *Hotel) Update(name, address, city, phone, email string) error {
	if name != "" {
		h.Name = strings.TrimSpace(name)
	}
	if h.Name == "" {
		return ErrNameRequired
	}
	if address != "" {
		h.Address = strings.TrimSpace(address)
	}
	if city != "" {
		h.City = strings.TrimSpace(city)
	}
	if phone != "" {
		h.Phone = strings.TrimSpace(phone)
	}
	if email != "" {
		h.Email = strings.TrimSpace(email)
	}
	return nil
}
