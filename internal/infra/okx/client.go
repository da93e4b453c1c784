package okx

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"okx_bridge/internal/domain"
	"okx_bridge/internal/infra"
)

const (
	pathTradeOrder  = "/api/v5/trade/order"
	pathAlgoOrder   = "/api/v5/trade/order-algo"
	pathInstruments = "/api/v5/public/instruments"

	// codeOK is the OKX business success code.
	codeOK = "0"
)

// Client is the OKX v5 REST API client (boundary layer). Safe for
// concurrent use.
type Client struct {
	baseURL    string
	instType   string
	httpClient *http.Client
	signer     *Signer
	logger     *slog.Logger
	now        func() time.Time
}

// NewClient creates a new OKX API client from the loaded configuration.
func NewClient(cfg *infra.Config) *Client {
	signer := NewSigner(
		cfg.API.OKX.AccessKey,
		cfg.API.OKX.SecretKey,
		cfg.API.OKX.Passphrase,
	)

	return &Client{
		baseURL:  strings.TrimRight(cfg.API.OKX.RestURL, "/"),
		instType: cfg.API.OKX.InstType,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.API.OKX.TimeoutSec) * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:    10,
				IdleConnTimeout: 30 * time.Second,
			},
		},
		signer: signer,
		logger: slog.Default().With("module", "okx_client"),
		now:    time.Now,
	}
}

// PlaceOrder submits a market entry order. A non-success business code
// comes back as an unsuccessful outcome with a nil error; only transport
// failures produce an error.
func (c *Client) PlaceOrder(ctx context.Context, intent domain.OrderIntent) (*domain.OrderOutcome, error) {
	reqBody := placeOrderRequest{
		InstID:  intent.InstID,
		TdMode:  intent.TdMode,
		Side:    string(intent.Side),
		PosSide: string(intent.PosSide),
		OrdType: intent.OrdType,
		Sz:      intent.Size,
		ClOrdID: intent.ClOrdID,
	}

	outcome, err := c.submitOrder(ctx, "place entry", pathTradeOrder, reqBody)
	if err != nil {
		return nil, err
	}

	if outcome.Succeeded {
		c.logger.Info("entry order placed",
			slog.String("instId", intent.InstID),
			slog.String("side", string(intent.Side)),
			slog.String("sz", intent.Size),
			slog.String("ordId", outcome.OrderID),
		)
	}
	return outcome, nil
}

// PlaceAlgoOrder submits a conditional exit order with a single trigger
// price. OrdPx -1 executes at market once the trigger fires.
func (c *Client) PlaceAlgoOrder(ctx context.Context, intent domain.OrderIntent) (*domain.OrderOutcome, error) {
	reqBody := placeAlgoOrderRequest{
		InstID:      intent.InstID,
		TdMode:      intent.TdMode,
		Side:        string(intent.Side),
		PosSide:     string(intent.PosSide),
		OrdType:     intent.OrdType,
		Sz:          intent.Size,
		AlgoClOrdID: intent.ClOrdID,
	}
	switch intent.TriggerKind {
	case domain.TriggerStopLoss:
		reqBody.SlTriggerPx = intent.TriggerPrice
		reqBody.SlOrdPx = "-1"
	case domain.TriggerTakeProfit:
		reqBody.TpTriggerPx = intent.TriggerPrice
		reqBody.TpOrdPx = "-1"
	}

	outcome, err := c.submitOrder(ctx, "place exit", pathAlgoOrder, reqBody)
	if err != nil {
		return nil, err
	}

	if outcome.Succeeded {
		c.logger.Info("exit order placed",
			slog.String("instId", intent.InstID),
			slog.String("trigger", string(intent.TriggerKind)),
			slog.String("triggerPx", intent.TriggerPrice),
		)
	}
	return outcome, nil
}

// FetchConstraints queries the instrument's lot size and minimum size.
// Any failure to produce a parseable pair is an UpstreamLookupError.
func (c *Client) FetchConstraints(ctx context.Context, instID string) (*domain.InstrumentConstraints, error) {
	query := url.Values{}
	query.Set("instType", c.instType)
	query.Set("instId", instID)
	requestPath := pathInstruments + "?" + query.Encode()

	_, resp, err := c.doRequest(ctx, http.MethodGet, requestPath, "")
	if err != nil {
		return nil, &domain.UpstreamLookupError{InstID: instID, Err: domain.NewNetworkError("fetch instrument", err)}
	}
	if resp.Code != codeOK {
		return nil, &domain.UpstreamLookupError{
			InstID: instID,
			Err:    fmt.Errorf("code=%s msg=%s", resp.Code, resp.Msg),
		}
	}

	var instruments []instrumentData
	if err := json.Unmarshal(resp.Data, &instruments); err != nil {
		return nil, &domain.UpstreamLookupError{InstID: instID, Err: err}
	}
	if len(instruments) == 0 {
		return nil, &domain.UpstreamLookupError{InstID: instID, Err: domain.ErrInstrumentNotFound}
	}

	inst := instruments[0]
	lotSz, err := decimal.NewFromString(inst.LotSz)
	if err != nil {
		return nil, &domain.UpstreamLookupError{InstID: instID, Err: fmt.Errorf("bad lotSz %q: %w", inst.LotSz, err)}
	}
	minSz, err := decimal.NewFromString(inst.MinSz)
	if err != nil {
		return nil, &domain.UpstreamLookupError{InstID: instID, Err: fmt.Errorf("bad minSz %q: %w", inst.MinSz, err)}
	}
	if lotSz.Sign() <= 0 || minSz.Sign() <= 0 {
		return nil, &domain.UpstreamLookupError{
			InstID: instID,
			Err:    fmt.Errorf("non-positive sizes: lotSz=%s minSz=%s", inst.LotSz, inst.MinSz),
		}
	}

	c.logger.Debug("instrument constraints fetched",
		slog.String("instId", instID),
		slog.String("lotSz", inst.LotSz),
		slog.String("minSz", inst.MinSz),
	)

	return &domain.InstrumentConstraints{
		InstID:    instID,
		LotSize:   lotSz,
		MinSize:   minSz,
		FetchedAt: c.now(),
	}, nil
}

// submitOrder sends one trade request and folds the envelope plus the
// per-order sCode into an OrderOutcome.
func (c *Client) submitOrder(ctx context.Context, op, path string, body any) (*domain.OrderOutcome, error) {
	jsonBytes, err := json.Marshal(body)
	if err != nil {
		return nil, domain.NewNetworkError(op, err)
	}

	raw, resp, err := c.doRequest(ctx, http.MethodPost, path, string(jsonBytes))
	if err != nil {
		return nil, domain.NewNetworkError(op, err)
	}

	outcome := &domain.OrderOutcome{
		Code: resp.Code,
		Msg:  resp.Msg,
		Raw:  raw,
	}

	var orders []orderData
	if len(resp.Data) > 0 {
		// Per-order status lives in data[0]; the envelope code alone can be
		// "0" while the order itself failed.
		if err := json.Unmarshal(resp.Data, &orders); err != nil {
			return nil, domain.NewNetworkError(op, err)
		}
	}
	if len(orders) > 0 {
		if orders[0].OrdID != "" {
			outcome.OrderID = orders[0].OrdID
		} else {
			outcome.OrderID = orders[0].AlgoID
		}
		if orders[0].SCode != "" && orders[0].SCode != codeOK {
			outcome.Code = orders[0].SCode
			outcome.Msg = orders[0].SMsg
		}
	}

	outcome.Succeeded = outcome.Code == codeOK
	if !outcome.Succeeded {
		c.logger.Warn("order rejected by exchange",
			slog.String("op", op),
			slog.String("code", outcome.Code),
			slog.String("msg", outcome.Msg),
		)
	}
	return outcome, nil
}

// doRequest signs and sends one request. requestPath must include the query
// string; body must be the exact bytes to send, empty for GET.
func (c *Client) doRequest(ctx context.Context, method, requestPath, body string) (json.RawMessage, *apiResponse, error) {
	var bodyReader io.Reader
	if body != "" {
		bodyReader = bytes.NewBufferString(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+requestPath, bodyReader)
	if err != nil {
		return nil, nil, err
	}

	// Timestamp is generated once and shared by the header and the prehash.
	timestamp := c.signer.Timestamp(c.now())
	for k, v := range c.signer.GenerateHeaders(timestamp, method, requestPath, body) {
		req.Header.Set(k, v)
	}

	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer httpResp.Body.Close()

	raw, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, nil, err
	}

	var resp apiResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, nil, fmt.Errorf("unparseable response (status %d): %w", httpResp.StatusCode, err)
	}

	return raw, &resp, nil
}
