package execution

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"okx_bridge/internal/domain"
	"okx_bridge/internal/infra"
)

// Executor runs one signal through the order pipeline:
// authenticate -> validate -> resolve constraints -> normalize -> entry ->
// protective exits. The first three steps abort the whole execution; a
// failed entry stops before any exit is attempted; exits are best-effort
// and independent of each other.
type Executor struct {
	secret      string
	constraints domain.ConstraintSource
	exchange    domain.Exchange
	logger      *slog.Logger
	metrics     *infra.Metrics
}

// NewExecutor creates an Executor. secret is the inbound shared secret,
// already validated non-empty at startup.
func NewExecutor(secret string, constraints domain.ConstraintSource, exchange domain.Exchange) *Executor {
	return &Executor{
		secret:      secret,
		constraints: constraints,
		exchange:    exchange,
		logger:      slog.Default().With("module", "executor"),
		metrics:     infra.GlobalMetrics,
	}
}

// Execute processes one signal to completion or to its first fatal abort
// point. A non-nil error means the execution as a whole failed; the result
// still carries any outcome produced before the abort (e.g. a rejected
// entry). Panics inside the pipeline surface as a failure result, never a
// crashed process.
func (e *Executor) Execute(ctx context.Context, sig *domain.Signal) (res *domain.ExecutionResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("execution panic recovered", slog.Any("panic", r))
			e.metrics.RecordError()
			err = fmt.Errorf("internal execution fault: %v", r)
		}
	}()

	e.metrics.RecordSignal()

	// 1. Authenticate - fail fast, no exchange call.
	if err := Authenticate(sig, e.secret); err != nil {
		e.metrics.RecordUnauthorized()
		return nil, err
	}

	// 2. Validate required fields.
	if err := sig.Validate(); err != nil {
		e.metrics.RecordInvalidSignal()
		return nil, err
	}
	side, _ := domain.ParseSide(sig.Side)
	posSide := side.Position()

	// 3. Resolve constraints - lookup failure aborts before any order.
	cons, err := e.constraints.GetConstraints(ctx, sig.InstID)
	if err != nil {
		e.metrics.RecordError()
		return nil, err
	}

	// 4. Normalize the requested quantity onto the lot grid.
	size := NormalizeQuantity(sig.Quantity, cons.LotSize, cons.MinSize)
	sizeStr := size.String()

	res = &domain.ExecutionResult{
		InstID:  sig.InstID,
		Side:    side,
		PosSide: posSide,
		Size:    sizeStr,
	}

	// 5. Place the market entry.
	entry, err := e.exchange.PlaceOrder(ctx, domain.OrderIntent{
		InstID:  sig.InstID,
		TdMode:  domain.TdModeCross,
		Side:    side,
		PosSide: posSide,
		OrdType: domain.OrdTypeMarket,
		Size:    sizeStr,
		ClOrdID: newClientOrderID(),
	})
	if err != nil {
		e.metrics.RecordError()
		return res, err
	}
	res.Entry = entry
	if !entry.Succeeded {
		// An unopened position must never receive protective orders.
		e.metrics.RecordEntryRejected()
		return res, &domain.OrderRejectedError{
			Op:   "entry",
			Code: entry.Code,
			Msg:  entry.Msg,
			Raw:  entry.Raw,
		}
	}
	e.metrics.RecordEntryPlaced()

	// 6. Protective exits: same size, side inverted, each independent of
	// the other's outcome.
	if sig.StopLoss != nil {
		res.StopLoss = e.placeExit(ctx, sig, side, posSide, sizeStr, domain.TriggerStopLoss, sig.StopLoss.String())
	}
	if sig.TakeProfit != nil {
		res.TakeProfit = e.placeExit(ctx, sig, side, posSide, sizeStr, domain.TriggerTakeProfit, sig.TakeProfit.String())
	}

	return res, nil
}

// placeExit submits one conditional exit and converts any transport failure
// into an unsuccessful outcome, so a failing stop-loss cannot suppress the
// take-profit attempt.
func (e *Executor) placeExit(ctx context.Context, sig *domain.Signal, entrySide domain.Side, posSide domain.PositionSide, size string, kind domain.TriggerKind, triggerPx string) *domain.OrderOutcome {
	outcome, err := e.exchange.PlaceAlgoOrder(ctx, domain.OrderIntent{
		InstID:       sig.InstID,
		TdMode:       domain.TdModeCross,
		Side:         entrySide.Invert(),
		PosSide:      posSide,
		OrdType:      domain.OrdTypeConditional,
		Size:         size,
		ClOrdID:      newClientOrderID(),
		TriggerKind:  kind,
		TriggerPrice: triggerPx,
	})
	if err != nil {
		e.metrics.RecordExitFailed()
		e.logger.Warn("exit order failed",
			slog.String("instId", sig.InstID),
			slog.String("trigger", string(kind)),
			slog.Any("error", err),
		)
		return &domain.OrderOutcome{Succeeded: false, Msg: err.Error()}
	}
	if !outcome.Succeeded {
		e.metrics.RecordExitFailed()
		return outcome
	}
	e.metrics.RecordExitPlaced()
	return outcome
}

// newClientOrderID returns an exchange-legal client order id: 32 hex chars,
// within OKX's alphanumeric limit.
func newClientOrderID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
