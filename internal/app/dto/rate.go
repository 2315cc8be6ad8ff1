package dto

import (
	"time"

	domainrate "innkeep/internal/domain/rate"
)

type CreateRateRequest struct {
	Name       string    `json:"name" validate:"required"`
	StartDate  time.Time `json:"start_date" validate:"required"`
	EndDate    time.Time `json:"end_date" validate:"required"`
	Multiplier string    `json:"multiplier" validate:"required"`
}

type RateView struct {
	ID         string    `json:"id"`
	HotelID    string    `json:"hotel_id"`
	Name       string    `json:"name"`
	StartDate  time.Time `json:"start_date"`
	EndDate    time.Time `json:"end_date"`
	Multiplier string    `json:"multiplier"`
	CreatedAt  time.Time `json:"created_at"`
}

type RateCollection struct {
	Items []RateView `json:"items"`
}

type QuoteRequest struct {
	RoomID   string    `json:"room_id" validate:"required"`
	CheckIn  time.Time `json:"check_in" validate:"required"`
	CheckOut time.Time `json:"check_out" validate:"required"`
}

type QuoteNightView struct {
	Day        time.Time `json:"day"`
	Multiplier string    `json:"multiplier"`
	Price      MoneyDTO  `json:"price"`
}

type QuoteView struct {
	CheckIn  time.Time        `json:"check_in"`
	CheckOut time.Time        `json:"check_out"`
	Nights   []QuoteNightView `json:"nights"`
	Total    MoneyDTO         `json:"total"`
}

func MapRate(sr *domainrate.SeasonalRate) RateView {
	return RateView{
		ID:         string(sr.ID),
		HotelID:    string(sr.HotelID),
		Name:       sr.Name,
		StartDate:  sr.Start,
		EndDate:    sr.End,
		Multiplier: sr.Multiplier.String(),
		CreatedAt:  sr.CreatedAt,
	}
}

func MapRates(rates []*domainrate.SeasonalRate) RateCollection {
	out := RateCollection{Items: make([]RateView, 0, len(rates))}
	for _, sr := range rates {
		out.Items = append(out.Items, MapRate(sr))
	}
	return out
}

func MapQuote(q *domainrate.Quote) QuoteView {
	view := QuoteView{
		CheckIn:  q.Stay.CheckIn,
		CheckOut: q.Stay.CheckOut,
		Nights:   make([]QuoteNightView, 0, len(q.Nights)),
		Total:    MapMoney(q.Total),
	}
	for _, night := range q.Nights {
		view.Nights = append(view.Nights, QuoteNightView{
			Day:        night.Day,
			Multiplier: night.Multiplier.String(),
			Price:      MapMoney(night.Price),
		})
	}
	return view
}
