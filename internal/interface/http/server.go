package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"example.com/storefront/pkg/logger"
)

type HTTPServer struct {
	httpServer *http.Server
}

func NewHTTPServer(addr string, handler http.Handler) HTTPServer {
	handler = otelhttp.NewHandler(handler, "storefront")
	handler = http.TimeoutHandler(handler, 5*time.Second, "unavailable")
	s := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       30 * time.Second,
	}
	return HTTPServer{s}
}

// Run serves until the server is closed and then calls stopFn.
func (s HTTPServer) Run(stopFn context.CancelFunc) {
	defer stopFn()

	logger.Logger.Info().Str("addr", s.httpServer.Addr).Msg("http server listening")
	err := s.httpServer.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Logger.Error().Err(err).Msg("unexpected server shutdown")
	}
}

func (s HTTPServer) Close(ctx context.Context) {
	logger.Logger.Info().Msg("closing http server...")

	if err := s.httpServer.Shutdown(ctx); err != nil {
		logger.Logger.Error().Err(err).Msg("failed to shutdown gracefully")
	}
	logger.Logger.Info().Msg("http server is closed")
}
