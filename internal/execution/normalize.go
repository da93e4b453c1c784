package execution

import "github.com/shopspring/decimal"

// NormalizeQuantity maps a requested quantity onto a size the exchange will
// accept: floor to the nearest lot-size multiple, then clamp up to the
// minimum order size. The lot step never rounds up, so the bridge never
// sends a larger position than requested; only the exchange-minimum clamp
// can raise the size.
//
// When minSize itself is not on the lot grid, the clamped size is raised to
// the next multiple so the result always passes both of the exchange's size
// checks.
//
// A non-positive lotSize is a caller contract violation, not a runtime
// condition.
func NormalizeQuantity(requested, lotSize, minSize decimal.Decimal) decimal.Decimal {
	if lotSize.Sign() <= 0 {
		panic("normalize: lot size must be positive")
	}

	// requested - (requested mod lot) == floor(requested/lot) * lot, without
	// the non-terminating-division precision trap.
	legal := requested.Sub(requested.Mod(lotSize))

	if legal.LessThan(minSize) {
		legal = minSize
		if rem := minSize.Mod(lotSize); !rem.IsZero() {
			legal = minSize.Sub(rem).Add(lotSize)
		}
	}
	return legal
}
