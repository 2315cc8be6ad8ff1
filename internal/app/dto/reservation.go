package dto

import (
	"time"

	domainreservation "innkeep/internal/domain/reservation"
)

type CreateReservationRequest struct {
	RoomID   string    `json:"room_id" validate:"required"`
	CheckIn  time.Time `json:"check_in" validate:"required,future"`
	CheckOut time.Time `json:"check_out" validate:"required,future"`
	Guests   int       `json:"guests" validate:"required,gt=0"`
}

type UpdateReservationRequest struct {
	CheckIn  time.Time `json:"check_in" validate:"required,future"`
	CheckOut time.Time `json:"check_out" validate:"required,future"`
	Guests   int       `json:"guests" validate:"required,gt=0"`
}

type ReservationView struct {
	ID           string     `json:"id"`
	RoomID       string     `json:"room_id"`
	UserID       string     `json:"user_id"`
	CheckIn      time.Time  `json:"check_in"`
	CheckOut     time.Time  `json:"check_out"`
	Guests       int        `json:"guests"`
	Total        MoneyDTO   `json:"total"`
	Status       string     `json:"status"`
	CreatedAt    time.Time  `json:"created_at"`
	CheckedInAt  *time.Time `json:"checked_in_at,omitempty"`
	CheckedOutAt *time.Time `json:"checked_out_at,omitempty"`
}

type ReservationCollection struct {
	Items []ReservationView `json:"items"`
}

func MapReservation(r *domainreservation.Reservation) ReservationView {
	return ReservationView{
		ID:           string(r.ID),
		RoomID:       string(r.RoomID),
		UserID:       string(r.UserID),
		CheckIn:      r.Stay.CheckIn,
		CheckOut:     r.Stay.CheckOut,
		Guests:       r.Guests,
		Total:        MapMoney(r.TotalAmount),
		Status:       string(r.Status),
		CreatedAt:    r.CreatedAt,
		CheckedInAt:  r.CheckedInAt,
		CheckedOutAt: r.CheckedOutAt,
	}
}

func MapReservations(items []*domainreservation.Reservation) ReservationCollection {
	out := ReservationCollection{Items: make([]ReservationView, 0, len(items))}
	for _, r := range items {
		out.Items = append(out.Items, MapReservation(r))
	}
	return out
}
