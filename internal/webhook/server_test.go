package webhook

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"okx_bridge/internal/domain"
)

type stubExecutor struct {
	res *domain.ExecutionResult
	err error
}

func (s *stubExecutor) Execute(ctx context.Context, sig *domain.Signal) (*domain.ExecutionResult, error) {
	return s.res, s.err
}

func post(t *testing.T, handler http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

const signalBody = `{"secret":"s","instId":"BTC-USDT-SWAP","side":"buy","qty":0.1}`

func TestHandleSignal_StatusMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		kind   string
	}{
		{"unauthorized", domain.ErrUnauthorized, http.StatusUnauthorized, "unauthorized"},
		{"invalid signal", &domain.InvalidSignalError{Field: "qty", Reason: "must be positive"}, http.StatusBadRequest, "invalid_signal"},
		{"upstream lookup", &domain.UpstreamLookupError{InstID: "X", Err: errors.New("down")}, http.StatusBadGateway, "upstream_lookup"},
		{"network", domain.NewNetworkError("place entry", errors.New("timeout")), http.StatusBadGateway, "network"},
		{"order rejected", &domain.OrderRejectedError{Op: "entry", Code: "51008"}, http.StatusBadGateway, "order_rejected"},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError, "internal"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := NewServer(":0", &stubExecutor{err: tc.err})
			w := post(t, srv.Handler(), signalBody)

			assert.Equal(t, tc.status, w.Code)
			assert.Contains(t, w.Body.String(), `"kind":"`+tc.kind+`"`)
		})
	}
}

func TestHandleSignal_Success(t *testing.T) {
	res := &domain.ExecutionResult{
		InstID:  "BTC-USDT-SWAP",
		Side:    domain.SideBuy,
		PosSide: domain.PositionLong,
		Size:    "0.12",
		Entry:   &domain.OrderOutcome{Succeeded: true, Code: "0", OrderID: "123"},
	}
	srv := NewServer(":0", &stubExecutor{res: res})

	w := post(t, srv.Handler(), signalBody)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"ok":true`)
	assert.Contains(t, w.Body.String(), `"posSide":"long"`)
	assert.Contains(t, w.Body.String(), `"size":"0.12"`)
}

func TestHandleSignal_MalformedBody(t *testing.T) {
	srv := NewServer(":0", &stubExecutor{})

	w := post(t, srv.Handler(), `{"secret":`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleSignal_RejectedEntryPayloadSurfaced(t *testing.T) {
	res := &domain.ExecutionResult{
		InstID: "BTC-USDT-SWAP",
		Entry:  &domain.OrderOutcome{Succeeded: false, Code: "51008", Msg: "insufficient balance"},
	}
	srv := NewServer(":0", &stubExecutor{
		res: res,
		err: &domain.OrderRejectedError{Op: "entry", Code: "51008", Msg: "insufficient balance"},
	})

	w := post(t, srv.Handler(), signalBody)

	assert.Equal(t, http.StatusBadGateway, w.Code)
	// Upstream payload travels with the response so callers can diagnose
	// without log access.
	assert.Contains(t, w.Body.String(), "51008")
	assert.Contains(t, w.Body.String(), "insufficient balance")
}

// disconnectingExecutor simulates the webhook sender dropping the
// connection right after the entry order lands, then reports whether the
// pipeline's context survived for the protective exits.
type disconnectingExecutor struct {
	disconnect   context.CancelFunc
	entryCtxErr  error
	exitCtxErr   error
	exitAttempts int
}

func (s *disconnectingExecutor) Execute(ctx context.Context, sig *domain.Signal) (*domain.ExecutionResult, error) {
	s.entryCtxErr = ctx.Err()
	s.disconnect()

	// Protective exits run after the disconnect; a caller-cancellable
	// context would be dead here.
	s.exitAttempts++
	s.exitCtxErr = ctx.Err()
	if s.exitCtxErr != nil {
		return &domain.ExecutionResult{
			Entry:    &domain.OrderOutcome{Succeeded: true, Code: "0"},
			StopLoss: &domain.OrderOutcome{Succeeded: false, Msg: s.exitCtxErr.Error()},
		}, nil
	}
	return &domain.ExecutionResult{
		Entry:    &domain.OrderOutcome{Succeeded: true, Code: "0"},
		StopLoss: &domain.OrderOutcome{Succeeded: true, Code: "0"},
	}, nil
}

func TestHandleSignal_CallerDisconnectDoesNotCancelPipeline(t *testing.T) {
	reqCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	exec := &disconnectingExecutor{disconnect: cancel}
	srv := NewServer(":0", exec)

	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(signalBody)).WithContext(reqCtx)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	require.NoError(t, exec.entryCtxErr)
	assert.Equal(t, 1, exec.exitAttempts, "exits must still be attempted after the sender disconnects")
	assert.NoError(t, exec.exitCtxErr, "inbound cancellation must not propagate into the pipeline")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"succeeded":true`)
}

func TestHealthz(t *testing.T) {
	srv := NewServer(":0", &stubExecutor{})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}

func TestMetricsEndpoint(t *testing.T) {
	srv := NewServer(":0", &stubExecutor{})

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "signals_received")
}
