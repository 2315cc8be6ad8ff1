package billing

import (
	"context"
	"errors"
	"time"

	"innkeep/internal/domain/reservation"
	"innkeep/internal/domain/shared/money"
)

var (
	ErrNotFound      = errors.New("billing: bill not found")
	ErrAlreadyPaid   = errors.New("billing: bill already paid")
	ErrNotPaid       = errors.New("billing: bill is not paid")
	ErrInvalidStatus = errors.New("billing: invalid payment status")
)

// DefaultTax is the flat tax applied to room charges at checkout.
var DefaultTax = money.MustFactor("0.1")

type ID string

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "PENDING"
	PaymentPaid     PaymentStatus = "PAID"
	PaymentRefunded PaymentStatus = "REFUNDED"
)

type Bill struct {
	ID                ID
	ReservationID     reservation.ID
	RoomCharges       money.Money
	AdditionalCharges money.Money
	TaxAmount         money.Money
	TotalAmount       money.Money
	Status            PaymentStatus
	CreatedAt         time.Time
	PaidAt            *time.Time
}

type Repository interface {
	ByID(ctx context.Context, id ID) (*Bill, error)
	ByReservation(ctx context.Context, reservationID reservation.ID) (*Bill, error)
	List(ctx context.Context) ([]*Bill, error)
	Save(ctx context.Context, b *Bill) error
	Delete(ctx context.Context, id ID) error
}

// NewFromReservation builds the checkout bill: room charges are the
// reservation's snapshot total, tax is a flat factor on top of it.
func NewFromReservation(id ID, r *reservation.Reservation, tax money.Factor, now time.Time) (*Bill, error) {
	if !tax.Valid() {
		tax = DefaultTax
	}
	charges := r.TotalAmount
	taxAmount := charges.Scale(tax)
	total, err := charges.Add(taxAmount)
	if err != nil {
		return nil, err
	}
	if now.IsZero() {
		now = time.Now()
	}
	return &Bill{
		ID:                id,
		ReservationID:     r.ID,
		RoomCharges:       charges,
		AdditionalCharges: money.Money{Amount: 0, Currency: charges.Currency},
		TaxAmount:         taxAmount,
		TotalAmount:       total,
		Status:            PaymentPending,
		CreatedAt:         now.UTC(),
	}, nil
}

func (b *Bill) MarkPaid(now time.Time) error {
	if b.Status == PaymentPaid {
		return ErrAlreadyPaid
	}
	at := now.UTC()
	b.Status = PaymentPaid
	b.PaidAt = &at
	return nil
}

func (b *Bill) MarkRefunded(now time.Time) error {
	if b.Status != PaymentPaid {
		return ErrNotPaid
	}
	b.Status = PaymentRefunded
	return nil
}

func ParsePaymentStatus(s string) (PaymentStatus, error) {
	switch PaymentStatus(s) {
	case PaymentPending, PaymentPaid, PaymentRefunded:
		return PaymentStatus(s), nil
	default:
		return "", ErrInvalidStatus
	}
}
