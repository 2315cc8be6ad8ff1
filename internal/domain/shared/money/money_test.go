package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_ValidatesCurrency(t *testing.T) {
	m, err := New(12345, "eur")
	require.NoError(t, err)
	assert.Equal(t, Money{Amount: 12345, Currency: "EUR"}, m)

	_, err = New(100, "EURO")
	assert.ErrorIs(t, err, ErrInvalidCurrency)
}

func TestAdd_RejectsCurrencyMismatch(t *testing.T) {
	_, err := Must(100, "EUR").Add(Must(100, "USD"))
	assert.ErrorIs(t, err, ErrCurrencyMismatch)

	sum, err := Must(100, "EUR").Add(Must(250, "EUR"))
	require.NoError(t, err)
	assert.Equal(t, int64(350), sum.Amount)
}

func TestParseFactor(t *testing.T) {
	cases := []struct {
		in   string
		want Factor
	}{
		{"1", FactorOne},
		{"1.0", FactorOne},
		{"1.5", Factor(15000)},
		{"0.85", Factor(8500)},
		{"2.25", Factor(22500)},
		{"1.2345", Factor(12345)},
		{"1.23456", Factor(12345)}, // extra digits dropped
	}
	for _, tc := range cases {
		got, err := ParseFactor(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}

	for _, bad := range []string{"", ".", "-1", "0", "0.0", "1,5", "abc"} {
		_, err := ParseFactor(bad)
		assert.ErrorIs(t, err, ErrInvalidFactor, bad)
	}
}

func TestFactor_String(t *testing.T) {
	assert.Equal(t, "1", FactorOne.String())
	assert.Equal(t, "1.5", MustFactor("1.5").String())
	assert.Equal(t, "0.85", MustFactor("0.85").String())
	assert.Equal(t, "1.2345", MustFactor("1.2345").String())
}

func TestScale_RoundsHalfAwayFromZero(t *testing.T) {
	// 33 cents at x1.5 is 49.5, which rounds away from zero.
	assert.Equal(t, int64(50), Must(33, "EUR").Scale(MustFactor("1.5")).Amount)
	assert.Equal(t, int64(-50), Must(-33, "EUR").Scale(MustFactor("1.5")).Amount)

	// Exact results stay exact.
	assert.Equal(t, int64(15000), Must(10000, "EUR").Scale(MustFactor("1.5")).Amount)
	assert.Equal(t, int64(8500), Must(10000, "EUR").Scale(MustFactor("0.85")).Amount)
	assert.Equal(t, int64(10000), Must(10000, "EUR").Scale(FactorOne).Amount)
}

func TestMoney_String(t *testing.T) {
	assert.Equal(t, "123.45 EUR", Must(12345, "EUR").String())
	assert.Equal(t, "-1.05 USD", Must(-105, "USD").String())
}
