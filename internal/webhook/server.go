package webhook

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"okx_bridge/internal/domain"
	"okx_bridge/internal/infra"
)

// SignalExecutor runs one inbound signal through the order pipeline.
type SignalExecutor interface {
	Execute(ctx context.Context, sig *domain.Signal) (*domain.ExecutionResult, error)
}

// Server is the inbound HTTP surface: the trigger webhook plus health and
// metrics endpoints.
type Server struct {
	addr     string
	router   *gin.Engine
	executor SignalExecutor
	logger   *slog.Logger
	httpSrv  *http.Server
}

// NewServer builds the webhook server and registers routes.
func NewServer(addr string, executor SignalExecutor) *Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	s := &Server{
		addr:     addr,
		router:   router,
		executor: executor,
		logger:   slog.Default().With("module", "webhook"),
	}

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", func(c *gin.Context) {
		c.JSON(http.StatusOK, infra.GlobalMetrics.Snapshot())
	})
	router.POST("/webhook", s.handleSignal)

	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start runs the HTTP server until the context is cancelled, then shuts it
// down gracefully.
func (s *Server) Start(ctx context.Context) error {
	s.httpSrv = &http.Server{
		Addr:    s.addr,
		Handler: s.router,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("webhook server listening", slog.String("addr", s.addr))
		if err := s.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.httpSrv.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleSignal(c *gin.Context) {
	var sig domain.Signal
	if err := c.ShouldBindJSON(&sig); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed signal body"})
		return
	}

	// A sender disconnect must not abort the pipeline mid-flight: once the
	// entry lands, the protective exits still have to go out. Each outbound
	// call stays bounded by the exchange client's own timeout.
	ctx := context.WithoutCancel(c.Request.Context())
	res, err := s.executor.Execute(ctx, &sig)
	if err != nil {
		status, kind := classify(err)
		s.logger.Warn("signal rejected",
			slog.String("instId", sig.InstID),
			slog.String("kind", kind),
			slog.Any("error", err),
		)
		body := gin.H{"ok": false, "kind": kind, "error": err.Error()}
		if res != nil {
			// Carries the rejected entry outcome so the caller can diagnose
			// without log access.
			body["result"] = res
		}
		c.JSON(status, body)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "result": res})
}

// classify maps the error taxonomy onto HTTP statuses: auth 401, bad signal
// 400, anything upstream 502, unexpected faults 500.
func classify(err error) (int, string) {
	var invalid *domain.InvalidSignalError
	var lookup *domain.UpstreamLookupError
	var network *domain.NetworkError
	var rejected *domain.OrderRejectedError

	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, "unauthorized"
	case errors.As(err, &invalid):
		return http.StatusBadRequest, "invalid_signal"
	case errors.As(err, &lookup):
		return http.StatusBadGateway, "upstream_lookup"
	case errors.As(err, &network):
		return http.StatusBadGateway, "network"
	case errors.As(err, &rejected):
		return http.StatusBadGateway, "order_rejected"
	default:
		return http.StatusInternalServerError, "internal"
	}
}
