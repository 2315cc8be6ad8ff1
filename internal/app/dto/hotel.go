package dto

import (
	"time"

	domainhotel "innkeep/internal/domain/hotel"
)

type CreateHotelRequest struct {
	Name    string `json:"name" validate:"required"`
	Address string `json:"address"`
	City    string `json:"city"`
	Phone   string `json:"phone"`
	Email   string `json:"email" validate:"omitempty,email"`
}

type UpdateHotelRequest struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	City    string `json:"city"`
	Phone   string `json:"phone"`
	Email   string `json:"email" validate:"omitempty,email"`
}

type HotelView struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	City      string    `json:"city"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

type HotelCollection struct {
	Items []HotelView `json:"items"`
}

func MapHotel(h *domainhotel.Hotel) HotelView {
	return HotelView{
		ID:        string(h.ID),
		Name:      h.Name,
		Address:   h.Address,
		City:      h.City,
		Phone:     h.Phone,
		Email:     h.Email,
		CreatedAt: h.CreatedAt,
	}
}

func MapHotels(hotels []*domainhotel.Hotel) HotelCollection {
	out := HotelCollection{Items: make([]HotelView, 0, len(hotels))}
	for _, h := range hotels {
		out.Items = append(out.Items, MapHotel(h))
	}
	return out
}
