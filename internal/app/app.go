package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/farm2school/order/internal/dal/interfaces/iauditrepo"
	"github.com/farm2school/order/internal/dal/postgres"
	"github.com/farm2school/order/internal/dal/rabbitmq"
	"github.com/farm2school/order/internal/dal/repositories/audit"
	deliveryrepo "github.com/farm2school/order/internal/dal/repositories/delivery/postgres"
	farmerrepo "github.com/farm2school/order/internal/dal/repositories/farmer/postgres"
	orderrepo "github.com/farm2school/order/internal/dal/repositories/order/postgres"
	outboxrepo "github.com/farm2school/order/internal/dal/repositories/outbox/postgres"
	paymentrepo "github.com/farm2school/order/internal/dal/repositories/payment/postgres"
	producerepo "github.com/farm2school/order/internal/dal/repositories/produce/postgres"
	schoolrepo "github.com/farm2school/order/internal/dal/repositories/school/postgres"
	"github.com/farm2school/order/internal/otel"
	"github.com/farm2school/order/internal/service/services/catalogsvc"
	"github.com/farm2school/order/internal/service/services/deliverysvc"
	"github.com/farm2school/order/internal/service/services/identitysvc"
	"github.com/farm2school/order/internal/service/services/ordersvc"
	"github.com/farm2school/order/internal/service/services/paymentsvc"
	httptransport "github.com/farm2school/order/internal/transport/http"
	outboxworker "github.com/farm2school/order/internal/worker/outbox"
	"golang.org/x/sync/errgroup"
)

// App represents the application.
type App struct {
	transport      *httptransport.HTTPTransport
	postgresClient *postgres.Client
	rabbitClient   *rabbitmq.Client
	outboxWorker   *outboxworker.Worker
	otelController *otel.OtelController
}

// MustNewApp creates a new application.
func MustNewApp() *App {
	otelController := otel.MustInitOtel()

	postgresClient := postgres.MustNewClient()
	pool := postgresClient.Pool()

	outboxRepo := outboxrepo.NewOutboxRepository(pool)

	// The broker is optional: without it order-created events go straight to
	// the outbox, and the worker keeps redialing until it can drain them.
	var auditRepo iauditrepo.IAuditRepository

	rabbitClient, err := rabbitmq.NewClient()
	if err != nil {
		slog.Warn("RabbitMQ unavailable, audit events will queue in the outbox", "error", err)
	} else {
		repo, err := audit.NewAuditRabbitMQRepository(rabbitClient)
		if err != nil {
			slog.Warn("Failed to declare audit queue, audit events will queue in the outbox", "error", err)
		} else {
			auditRepo = repo
		}
	}

	worker := outboxworker.NewWorker(outboxRepo, rabbitClient)

	orderSvc := ordersvc.MustNewOrderService(
		ordersvc.WithPostgresClient(postgresClient),
		ordersvc.WithOutboxRepository(outboxRepo),
		ordersvc.WithAuditRepository(auditRepo),
	)

	orderRepo := orderrepo.NewPostgresOrderRepository(pool)
	paymentSvc := paymentsvc.MustNewPaymentService(
		paymentsvc.WithPaymentRepository(paymentrepo.NewPostgresPaymentRepository(pool)),
		paymentsvc.WithOrderRepository(orderRepo),
	)

	deliverySvc := deliverysvc.MustNewDeliveryService(
		deliverysvc.WithDeliveryRepository(deliveryrepo.NewPostgresDeliveryRepository(pool)),
		deliverysvc.WithOrderRepository(orderRepo),
	)

	catalogSvc := catalogsvc.MustNewCatalogService(
		catalogsvc.WithProduceRepository(producerepo.NewPostgresProduceRepository(pool)),
	)

	identitySvc := identitysvc.MustNewIdentityService(
		identitysvc.WithSchoolRepository(schoolrepo.NewPostgresSchoolRepository(pool)),
		identitysvc.WithFarmerRepository(farmerrepo.NewPostgresFarmerRepository(pool)),
	)

	transport := httptransport.NewHTTPTransport(
		orderSvc,
		paymentSvc,
		deliverySvc,
		catalogSvc,
		identitySvc,
	)
	transport.RegisterRoutes()

	return &App{
		transport:      transport,
		postgresClient: postgresClient,
		rabbitClient:   rabbitClient,
		outboxWorker:   worker,
		otelController: otelController,
	}
}

// Run starts the application.
// Tracks interrupt signal to gracefully shut down the application.
func (a *App) Run() {
	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	group, groupCtx := errgroup.WithContext(runCtx)

	if a.outboxWorker != nil {
		group.Go(func() error {
			a.outboxWorker.Start(groupCtx)
			return nil
		})
	}

	group.Go(func() error {
		slog.Info("Starting HTTP server")
		if err := a.transport.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	<-groupCtx.Done()
	slog.Info("Shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.transport.Shutdown(ctx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	} else {
		slog.Info("HTTP server stopped gracefully")
	}

	if err := group.Wait(); err != nil {
		slog.Error("HTTP server error", "error", err)
	}

	if a.rabbitClient != nil {
		if err := a.rabbitClient.Close(); err != nil {
			slog.Error("RabbitMQ connection close error", "error", err)
		}
	}

	a.postgresClient.Close()
	slog.Info("Database connection closed gracefully")

	if err := a.otelController.Shutdown(); err != nil {
		slog.Error("Tracer provider shutdown error", "error", err)
	}

	slog.Info("Application shutdown complete")
}
