package execution

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestNormalizeQuantity(t *testing.T) {
	cases := []struct {
		name      string
		requested string
		lot       string
		min       string
		want      string
	}{
		{"floors to lot grid", "0.127", "0.01", "0.01", "0.12"},
		{"clamps up to minimum", "0.004", "0.01", "0.01", "0.01"},
		{"already legal", "0.12", "0.01", "0.01", "0.12"},
		{"exact multiple survives", "0.9", "0.3", "0.3", "0.9"},
		{"integer lots", "7.8", "1", "1", "7"},
		{"min not on lot grid is ceiled", "0.004", "0.3", "0.5", "0.6"},
		{"min on grid stays as given", "0.1", "0.25", "0.5", "0.5"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := NormalizeQuantity(d(tc.requested), d(tc.lot), d(tc.min))
			assert.True(t, got.Equal(d(tc.want)), "got %s, want %s", got, tc.want)
		})
	}
}

func TestNormalizeQuantity_Idempotent(t *testing.T) {
	cases := []struct{ q, lot, min string }{
		{"0.127", "0.01", "0.01"},
		{"0.004", "0.01", "0.01"},
		{"123.456", "0.05", "0.1"},
		{"0.004", "0.3", "0.5"},
		{"1000", "1", "1"},
	}

	for _, tc := range cases {
		once := NormalizeQuantity(d(tc.q), d(tc.lot), d(tc.min))
		twice := NormalizeQuantity(once, d(tc.lot), d(tc.min))
		assert.True(t, once.Equal(twice), "q=%s lot=%s min=%s: %s != %s", tc.q, tc.lot, tc.min, once, twice)
	}
}

func TestNormalizeQuantity_NeverRoundsLotStepUp(t *testing.T) {
	// Conservative exposure: below the min clamp, the result never exceeds
	// the request.
	got := NormalizeQuantity(d("5.999"), d("0.5"), d("0.5"))
	assert.True(t, got.LessThanOrEqual(d("5.999")))
	assert.True(t, got.Equal(d("5.5")))
}

func TestNormalizeQuantity_NonPositiveLotPanics(t *testing.T) {
	assert.Panics(t, func() {
		NormalizeQuantity(d("1"), decimal.Zero, d("0.1"))
	})
	assert.Panics(t, func() {
		NormalizeQuantity(d("1"), d("-0.01"), d("0.1"))
	})
}
