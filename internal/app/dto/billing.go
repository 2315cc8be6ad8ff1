package dto

import (
	"time"

	domainbilling "innkeep/internal/domain/billing"
)

type BillView struct {
	ID                string     `json:"id"`
	ReservationID     string     `json:"reservation_id"`
	RoomCharges       MoneyDTO   `json:"room_charges"`
	AdditionalCharges MoneyDTO   `json:"additional_charges"`
	TaxAmount         MoneyDTO   `json:"tax_amount"`
	TotalAmount       MoneyDTO   `json:"total_amount"`
	Status            string     `json:"status"`
	CreatedAt         time.Time  `json:"created_at"`
	PaidAt            *time.Time `json:"paid_at,omitempty"`
}

type BillCollection struct {
	Items []BillView `json:"items"`
}

func MapBill(b *domainbilling.Bill) BillView {
	return BillView{
		ID:                string(b.ID),
		ReservationID:     string(b.ReservationID),
		RoomCharges:       MapMoney(b.RoomCharges),
		AdditionalCharges: MapMoney(b.AdditionalCharges),
		TaxAmount:         MapMoney(b.TaxAmount),
		TotalAmount:       MapMoney(b.TotalAmount),
		Status:            string(b.Status),
		CreatedAt:         b.CreatedAt,
		PaidAt:            b.PaidAt,
	}
}

func MapBills(bills []*domainbilling.Bill) BillCollection {
	out := BillCollection{Items: make([]BillView, 0, len(bills))}
	for _, b := range bills {
		out.Items = append(out.Items, MapBill(b))
	}
	return out
}
