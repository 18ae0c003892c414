package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/mak6096-commits/orders-inventory/internal/application/catalog"
	apporder "github.com/mak6096-commits/orders-inventory/internal/application/order"
	"github.com/mak6096-commits/orders-inventory/internal/application/payment"
	"github.com/mak6096-commits/orders-inventory/internal/config"
	"github.com/mak6096-commits/orders-inventory/internal/infrastructure/memory"
	"github.com/mak6096-commits/orders-inventory/internal/metrics"
	"github.com/mak6096-commits/orders-inventory/internal/pkg/logging"
	httppresentation "github.com/mak6096-commits/orders-inventory/internal/presentation/http"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	logger := logging.MustNewLogger(cfg.ServiceName, cfg.Env)
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)

	mx := metrics.New(prometheus.DefaultRegisterer)

	productRepo := memory.NewProductRepository()
	orderRepo := memory.NewOrderRepository()

	// One guard serializes order mutations and the product-delete gate so
	// stock checks and their paired writes stay atomic.
	guard := &sync.Mutex{}
	catalogService := catalog.NewService(productRepo, orderRepo, guard)
	orderService := apporder.NewService(orderRepo, productRepo, guard, mx)
	webhookProcessor := payment.NewProcessor(cfg.WebhookSecret, orderService, mx)

	handler := httppresentation.NewHandler(catalogService, orderService, webhookProcessor, logger, mx)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/", handler.Router())

	server := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: mux,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("http_server_start", zap.String("addr", server.Addr))
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http_server_error", zap.Error(err))
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("http_server_shutdown_error", zap.Error(err))
	} else {
		logger.Info("http_server_stopped")
	}
}
