package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/joho/godotenv"

	accountapp "github.com/rmaia/farmadelivery/internal/account/app"
	accountmemory "github.com/rmaia/farmadelivery/internal/account/infra/memory"
	cartapp "github.com/rmaia/farmadelivery/internal/cart/app"
	cartadapter "github.com/rmaia/farmadelivery/internal/cart/infra/adapter"
	cartmemory "github.com/rmaia/farmadelivery/internal/cart/infra/memory"
	cartpg "github.com/rmaia/farmadelivery/internal/cart/infra/postgres"
	catalogapp "github.com/rmaia/farmadelivery/internal/catalog/app"
	catalogmemory "github.com/rmaia/farmadelivery/internal/catalog/infra/memory"
	catalogpg "github.com/rmaia/farmadelivery/internal/catalog/infra/postgres"
	checkoutapp "github.com/rmaia/farmadelivery/internal/checkout/app"
	checkoutdomain "github.com/rmaia/farmadelivery/internal/checkout/domain"
	checkoutadapter "github.com/rmaia/farmadelivery/internal/checkout/infra/adapter"
	orderapp "github.com/rmaia/farmadelivery/internal/order/app"
	orderadapter "github.com/rmaia/farmadelivery/internal/order/infra/adapter"
	orderkafka "github.com/rmaia/farmadelivery/internal/order/infra/kafka"
	ordermemory "github.com/rmaia/farmadelivery/internal/order/infra/memory"
	orderpg "github.com/rmaia/farmadelivery/internal/order/infra/postgres"
	"github.com/rmaia/farmadelivery/internal/server"
	"github.com/rmaia/farmadelivery/pkg/config"
	"github.com/rmaia/farmadelivery/pkg/events"
	"github.com/rmaia/farmadelivery/pkg/logger"
	"github.com/rmaia/farmadelivery/pkg/metrics"
	"github.com/rmaia/farmadelivery/pkg/postgres"
	"github.com/rmaia/farmadelivery/pkg/shutdown"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	log := logger.New(logger.Options{
		Service:   "api",
		Env:       cfg.AppEnv,
		Level:     cfg.LogLevel,
		AddSource: true,
	})

	root := context.Background()
	ctx, cancel := shutdown.WithSignals(root)
	defer cancel()

	// Repositories. Without a DSN everything runs in memory, which is how
	// local development and the test suite operate.
	var (
		entryRepo catalogapp.EntryRepo
		cartRepo  cartapp.CartRepo
		orderRepo orderapp.OrderRepo
	)
	accountRepo := accountmemory.NewAccountRepo()
	if cfg.PostgresDSN != "" {
		pool, err := postgres.Open(ctx, cfg.PostgresDSN)
		if err != nil {
			log.Error("postgres connect failed", slog.Any("err", err))
			return
		}
		defer pool.Close()

		entryRepo = catalogpg.NewEntryRepo(pool)
		cartRepo = cartpg.NewCartRepo(pool)
		orderRepo = orderpg.NewOrderRepo(pool)
		log.Info("using postgres storage")
	} else {
		entryRepo = catalogmemory.NewEntryRepo()
		cartRepo = cartmemory.NewCartRepo()
		orderRepo = ordermemory.NewOrderRepo()
		log.Info("using in-memory storage")
	}

	// Lifecycle events go to kafka when brokers are configured; otherwise
	// the order service runs without a publisher.
	var publisher orderapp.EventPublisher
	kafkaClient := events.NewClient(cfg.KafkaBrokers)
	if kafkaClient.Enabled() {
		kp := orderkafka.NewPublisher(kafkaClient, cfg.EventsTopic)
		defer kp.Close()
		publisher = kp
		log.Info("kafka publisher enabled", slog.String("topic", cfg.EventsTopic))
	}

	accountSvc := accountapp.NewService(accountRepo)
	catalogSvc := catalogapp.NewService(entryRepo)
	ledger := catalogapp.NewStockLedger(entryRepo)
	cartSvc := cartapp.NewService(cartRepo, cartadapter.NewCatalogServiceReader(catalogSvc))
	orderSvc := orderapp.NewService(orderRepo, ledger, publisher, orderadapter.NewEstablishmentTimeoutReader(accountSvc), log)
	defaultFees := checkoutdomain.FeePolicy{
		DeliveryFeeAmount:       cfg.DefaultDeliveryFee,
		FreeDeliveryAboveAmount: cfg.DefaultFreeDeliveryAbove,
	}
	checkoutSvc := checkoutapp.NewService(
		checkoutadapter.NewCartServiceReader(cartSvc),
		checkoutadapter.NewCatalogServiceReader(catalogSvc),
		ledger,
		checkoutadapter.NewFeePolicyReader(accountSvc, defaultFees),
		checkoutadapter.NewOrderServiceWriter(orderSvc),
		log,
		cfg.CheckoutMaxConcurrent,
	)

	srv := server.New(server.Deps{
		Accounts: accountSvc,
		Catalog:  catalogSvc,
		Cart:     cartSvc,
		Checkout: checkoutSvc,
		Orders:   orderSvc,
		Metrics:  metrics.New("api"),
		Log:      log,
	})

	addr := fmt.Sprintf(":%d", cfg.HTTPPort)
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Info("http server starting", slog.String("addr", addr))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("http server error", slog.Any("err", err))
			cancel()
		}
	}()

	// Payment expiry sweep: orders still awaiting payment past the timeout
	// get cancelled and their stock restocked.
	wg.Add(1)
	go func() {
		defer wg.Done()
		ticker := time.NewTicker(cfg.ExpirySweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				expired, err := orderSvc.ExpireStalePayments(ctx, now.UTC(), cfg.PaymentTimeout)
				if err != nil {
					log.Error("expiry sweep failed", slog.Any("err", err))
					continue
				}
				if expired > 0 {
					log.Info("expired stale orders", slog.Int("count", expired))
				}
			}
		}
	}()

	<-ctx.Done()
	log.Info("shutdown requested")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown error", slog.Any("err", err))
	}

	wg.Wait()
	log.Info("bye")
}
