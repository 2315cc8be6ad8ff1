package billing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"innkeep/internal/domain/reservation"
	"innkeep/internal/domain/shared/daterange"
	"innkeep/internal/domain/shared/money"
)

func checkedOutReservation(t *testing.T, total int64) *reservation.Reservation {
	t.Helper()
	stay, err := daterange.New(
		time.Date(2026, time.July, 10, 0, 0, 0, 0, time.UTC),
		time.Date(2026, time.July, 13, 0, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)
	r, err := reservation.New(reservation.CreateParams{
		ID:          "res-1",
		RoomID:      "room-1",
		UserID:      "guest-1",
		Stay:        stay,
		Guests:      2,
		TotalAmount: money.Must(total, "EUR"),
	})
	require.NoError(t, err)
	return r
}

func TestNewFromReservation_AppliesTax(t *testing.T) {
	r := checkedOutReservation(t, 35000)
	now := time.Now()

	b, err := NewFromReservation("bill-1", r, DefaultTax, now)
	require.NoError(t, err)
	assert.Equal(t, reservation.ID("res-1"), b.ReservationID)
	assert.Equal(t, int64(35000), b.RoomCharges.Amount)
	assert.Equal(t, int64(3500), b.TaxAmount.Amount)
	assert.Equal(t, int64(38500), b.TotalAmount.Amount)
	assert.Equal(t, int64(0), b.AdditionalCharges.Amount)
	assert.Equal(t, PaymentPending, b.Status)
	assert.Nil(t, b.PaidAt)
}

func TestNewFromReservation_InvalidTaxFallsBackToDefault(t *testing.T) {
	r := checkedOutReservation(t, 10000)

	b, err := NewFromReservation("bill-1", r, money.Factor(0), time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(1000), b.TaxAmount.Amount)
	assert.Equal(t, int64(11000), b.TotalAmount.Amount)
}

func TestMarkPaid(t *testing.T) {
	r := checkedOutReservation(t, 10000)
	b, err := NewFromReservation("bill-1", r, DefaultTax, time.Now())
	require.NoError(t, err)

	require.NoError(t, b.MarkPaid(time.Now()))
	assert.Equal(t, PaymentPaid, b.Status)
	require.NotNil(t, b.PaidAt)

	assert.ErrorIs(t, b.MarkPaid(time.Now()), ErrAlreadyPaid)
}

func TestMarkRefunded_RequiresPayment(t *testing.T) {
	r := checkedOutReservation(t, 10000)
	b, err := NewFromReservation("bill-1", r, DefaultTax, time.Now())
	require.NoError(t, err)

	assert.ErrorIs(t, b.MarkRefunded(time.Now()), ErrNotPaid)

	require.NoError(t, b.MarkPaid(time.Now()))
	require.NoError(t, b.MarkRefunded(time.Now()))
	assert.Equal(t, PaymentRefunded, b.Status)

	assert.ErrorIs(t, b.MarkRefunded(time.Now()), ErrNotPaid)
}

func TestParsePaymentStatus(t *testing.T) {
	got, err := ParsePaymentStatus("PAID")
	require.NoError(t, err)
	assert.Equal(t, PaymentPaid, got)

	_, err = ParsePaymentStatus("paid")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}
