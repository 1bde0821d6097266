package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"example.com/storefront/internal/config"
	"example.com/storefront/internal/infra/events"
	"example.com/storefront/internal/infra/fakestore"
	"example.com/storefront/internal/infra/mail"
	httpapi "example.com/storefront/internal/interface/http"
	"example.com/storefront/internal/pkg/clock"
	cartuc "example.com/storefront/internal/usecase/cart"
	checkoutuc "example.com/storefront/internal/usecase/checkout"
	productuc "example.com/storefront/internal/usecase/product"
	"example.com/storefront/pkg/logger"
	"example.com/storefront/pkg/sigctx"
	"example.com/storefront/pkg/tracing"
)

const (
	serviceName     = "storefront"
	serviceVersion  = "1.0.0"
	shutdownTimeout = 5 * time.Second
)

func main() {
	sigCtx, stop := sigctx.NotifyContext()
	defer stop()

	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(2)
	}

	logger.Init(serviceName, cfg.LogPretty)
	logger.SetLevel(cfg.LogLevel)
	if cfg.LogLevel == "debug" {
		cfg.Print()
	}

	tp, err := tracing.InitTracer(serviceName, serviceVersion, cfg.Tracing.JaegerEndpoint)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("failed to initialize tracer")
	}

	var publishers []checkoutuc.Publisher
	var producer *events.OrderProducer
	if len(cfg.Broker.SeedBrokers) > 0 {
		cl, err := events.NewProducerClient(sigCtx, cfg.Broker.SeedBrokers, cfg.Broker.OrderEventsTopic)
		if err != nil {
			logger.Logger.Fatal().Err(err).Msg("failed to connect to broker")
		}
		producer = events.NewOrderProducer(cl)
		publishers = append(publishers, producer)
	}
	if cfg.Mail.SMTPAddr != "" {
		publishers = append(publishers, mail.NewNotifier(cfg.Mail.SMTPAddr, cfg.Mail.From))
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	// Cancelled once the shutdown timeout expires.
	bgCtx, cancelBackground := context.WithCancel(context.Background())
	defer cancelBackground()

	cartStore := cartuc.NewStore()
	api := httpapi.NewAPI(httpapi.Dependencies{
		ProductStore:    productuc.NewStore(),
		CartStore:       cartStore,
		CheckoutService: checkoutuc.NewService(cartStore, clock.NewRealClock(), publishers...),
		Source: fakestore.NewClient(
			cfg.Upstream.ProductsURL,
			cfg.Upstream.Timeout,
			cfg.Upstream.MaxAttempts,
		),
		Metrics:     httpapi.NewMetrics(registry),
		BaseContext: bgCtx,
	})

	server := httpapi.NewHTTPServer(cfg.HTTPServerAddr, api.Router())
	go server.Run(stop)
	api.StartRefresh()

	logger.Logger.Info().Msg("application is running")
	<-sigCtx.Done()
	logger.Logger.Info().Msg("application is closing...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	server.Close(shutdownCtx)
	stopCancel := context.AfterFunc(shutdownCtx, cancelBackground)
	api.Wait()
	stopCancel()
	if producer != nil {
		producer.Close()
	}
	if err := tracing.Shutdown(shutdownCtx, tp); err != nil {
		logger.Logger.Error().Err(err).Msg("failed to shutdown tracer")
	}

	logger.Logger.Info().Msg("application is closed")
}
