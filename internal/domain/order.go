package domain

import "encoding/json"

// Side is the order direction as sent by the signal source.
type Side string

// PositionSide is the directional exposure label required by exchanges in
// hedge mode. Derived from Side, never supplied by the caller.
type PositionSide string

// TriggerKind distinguishes the two protective exit orders.
type TriggerKind string

const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"

	PositionLong  PositionSide = "long"
	PositionShort PositionSide = "short"

	// TdModeCross is the fixed trade mode policy for every order.
	TdModeCross = "cross"

	OrdTypeMarket      = "market"
	OrdTypeConditional = "conditional"

	TriggerStopLoss   TriggerKind = "stop_loss"
	TriggerTakeProfit TriggerKind = "take_profit"
)

// ParseSide maps the raw signal side onto a Side. Anything other than
// "buy" or "sell" is an invalid signal.
func ParseSide(raw string) (Side, error) {
	switch raw {
	case string(SideBuy):
		return SideBuy, nil
	case string(SideSell):
		return SideSell, nil
	default:
		return "", &InvalidSignalError{Field: "side", Reason: "must be buy or sell, got " + raw}
	}
}

// Position maps an entry side onto its position side: buy opens long,
// sell opens short.
func (s Side) Position() PositionSide {
	if s == SideBuy {
		return PositionLong
	}
	return PositionShort
}

// Invert returns the opposite side, used for protective exits closing the
// entry's position.
func (s Side) Invert() Side {
	if s == SideBuy {
		return SideSell
	}
	return SideBuy
}

// OrderIntent is the transient argument handed to the exchange client.
// Constructed fresh per call, never cached.
type OrderIntent struct {
	InstID  string
	TdMode  string
	Side    Side
	PosSide PositionSide
	OrdType string
	Size    string // string-serialized decimal, the exact bytes sent
	ClOrdID string

	// Exit orders only.
	TriggerKind  TriggerKind
	TriggerPrice string
}

// OrderOutcome is the structured result of one exchange call, consumed by
// the orchestrator to decide continuation.
type OrderOutcome struct {
	Succeeded bool            `json:"succeeded"`
	Code      string          `json:"code,omitempty"`
	Msg       string          `json:"msg,omitempty"`
	OrderID   string          `json:"ordId,omitempty"`
	Raw       json.RawMessage `json:"raw,omitempty"`
}

// ExecutionResult aggregates the entry outcome plus each attempted exit
// outcome. Exit fields are nil when the signal did not request that trigger.
type ExecutionResult struct {
	InstID     string        `json:"instId"`
	Side       Side          `json:"side"`
	PosSide    PositionSide  `json:"posSide"`
	Size       string        `json:"size"`
	Entry      *OrderOutcome `json:"entry,omitempty"`
	StopLoss   *OrderOutcome `json:"stopLoss,omitempty"`
	TakeProfit *OrderOutcome `json:"takeProfit,omitempty"`
}
