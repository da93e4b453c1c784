package domain

import (
	"github.com/shopspring/decimal"
)

// Signal is the inbound, untrusted trade trigger. It lives only for the
// duration of one request.
type Signal struct {
	Secret     string           `json:"secret"`
	InstID     string           `json:"instId"`
	Side       string           `json:"side"` // buy / sell
	Quantity   decimal.Decimal  `json:"qty"`
	StopLoss   *decimal.Decimal `json:"slTriggerPx,omitempty"`
	TakeProfit *decimal.Decimal `json:"tpTriggerPx,omitempty"`
}

// Validate checks the required fields and trigger prices. It does not touch
// the secret; authentication is a separate step.
func (s *Signal) Validate() error {
	if s.InstID == "" {
		return &InvalidSignalError{Field: "instId", Reason: "required"}
	}
	if _, err := ParseSide(s.Side); err != nil {
		return err
	}
	if s.Quantity.Sign() <= 0 {
		return &InvalidSignalError{Field: "qty", Reason: "must be positive"}
	}
	if s.StopLoss != nil && s.StopLoss.Sign() <= 0 {
		return &InvalidSignalError{Field: "slTriggerPx", Reason: "must be positive"}
	}
	if s.TakeProfit != nil && s.TakeProfit.Sign() <= 0 {
		return &InvalidSignalError{Field: "tpTriggerPx", Reason: "must be positive"}
	}
	return nil
}
