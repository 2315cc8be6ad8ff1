package dto

import (
	"time"

	domainroom "innkeep/internal/domain/room"
)

type CreateRoomRequest struct {
	HotelID   string `json:"hotel_id" validate:"required"`
	Number    string `json:"number" validate:"required"`
	Type      string `json:"type" validate:"required"`
	BaseCents int64  `json:"base_cents" validate:"required,gt=0"`
	Currency  string `json:"currency" validate:"required,len=3"`
	Capacity  int    `json:"capacity" validate:"required,gt=0"`
}

type UpdateRoomRequest struct {
	Number    string `json:"number"`
	Type      string `json:"type"`
	BaseCents int64  `json:"base_cents" validate:"omitempty,gt=0"`
	Currency  string `json:"currency" validate:"omitempty,len=3"`
	Capacity  int    `json:"capacity" validate:"omitempty,gt=0"`
	Status    string `json:"status"`
}

type RoomView struct {
	ID        string    `json:"id"`
	HotelID   string    `json:"hotel_id"`
	Number    string    `json:"number"`
	Type      string    `json:"type"`
	BasePrice MoneyDTO  `json:"base_price"`
	Capacity  int       `json:"capacity"`
	Status    string    `json:"status"`
	PhotoURL  string    `json:"photo_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type RoomCollection struct {
	Items []RoomView `json:"items"`
}

func MapRoom(rm *domainroom.Room) RoomView {
	return RoomView{
		ID:        string(rm.ID),
		HotelID:   string(rm.HotelID),
		Number:    rm.Number,
		Type:      string(rm.Type),
		BasePrice: MapMoney(rm.BasePrice),
		Capacity:  rm.Capacity,
		Status:    string(rm.Status),
		PhotoURL:  rm.PhotoURL,
		CreatedAt: rm.CreatedAt,
	}
}

func MapRooms(rooms []*domainroom.Room) RoomCollection {
	out := RoomCollection{Items: make([]RoomView, 0, len(rooms))}
	for _, rm := range rooms {
		out.Items = append(out.Items, MapRoom(rm))
	}
	return out
}
