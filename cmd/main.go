package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	cancelBookingHandler "github.com/ashish9800079/turf-booking-plugin-sub000/internal/api/handlers/cancel_booking"
	confirmBookingHandler "github.com/ashish9800079/turf-booking-plugin-sub000/internal/api/handlers/confirm_booking"
	createBookingHandler "github.com/ashish9800079/turf-booking-plugin-sub000/internal/api/handlers/create_booking"
	createPaymentOrderHandler "github.com/ashish9800079/turf-booking-plugin-sub000/internal/api/handlers/create_payment_order"
	getAvailabilityHandler "github.com/ashish9800079/turf-booking-plugin-sub000/internal/api/handlers/get_availability"
	getBookingHandler "github.com/ashish9800079/turf-booking-plugin-sub000/internal/api/handlers/get_booking"
	getUserBookingsHandler "github.com/ashish9800079/turf-booking-plugin-sub000/internal/api/handlers/get_user_bookings"
	listCourtsHandler "github.com/ashish9800079/turf-booking-plugin-sub000/internal/api/handlers/list_courts"
	listPaymentsHandler "github.com/ashish9800079/turf-booking-plugin-sub000/internal/api/handlers/list_payments"
	verifyPaymentHandler "github.com/ashish9800079/turf-booking-plugin-sub000/internal/api/handlers/verify_payment"
	"github.com/ashish9800079/turf-booking-plugin-sub000/internal/api/middleware"
	"github.com/ashish9800079/turf-booking-plugin-sub000/internal/config"
	"github.com/ashish9800079/turf-booking-plugin-sub000/internal/events"
	addonRepo "github.com/ashish9800079/turf-booking-plugin-sub000/internal/infra/storage/addon"
	courtRepo "github.com/ashish9800079/turf-booking-plugin-sub000/internal/infra/storage/court"
	historyRepo "github.com/ashish9800079/turf-booking-plugin-sub000/internal/infra/storage/history"
	"github.com/ashish9800079/turf-booking-plugin-sub000/internal/infra/storage/outbox"
	paymentRepo "github.com/ashish9800079/turf-booking-plugin-sub000/internal/infra/storage/payment"
	reservationRepo "github.com/ashish9800079/turf-booking-plugin-sub000/internal/infra/storage/reservation"
	"github.com/ashish9800079/turf-booking-plugin-sub000/internal/integrations/hudle"
	"github.com/ashish9800079/turf-booking-plugin-sub000/internal/integrations/razorpay"
	"github.com/ashish9800079/turf-booking-plugin-sub000/internal/notifier"
	"github.com/ashish9800079/turf-booking-plugin-sub000/internal/pricing"
	bookingsService "github.com/ashish9800079/turf-booking-plugin-sub000/internal/service/bookings"
	paymentsService "github.com/ashish9800079/turf-booking-plugin-sub000/internal/service/payments"
	createBookingUC "github.com/ashish9800079/turf-booking-plugin-sub000/internal/usecase/create_booking"
	getAvailabilityUC "github.com/ashish9800079/turf-booking-plugin-sub000/internal/usecase/get_availability"
	syncWorker "github.com/ashish9800079/turf-booking-plugin-sub000/internal/worker/sync"
	"github.com/ashish9800079/turf-booking-plugin-sub000/pkg/dbmetrics"
	"github.com/ashish9800079/turf-booking-plugin-sub000/pkg/logger"
	"github.com/ashish9800079/turf-booking-plugin-sub000/pkg/metrics"
	"github.com/ashish9800079/turf-booking-plugin-sub000/pkg/txmanager"
)

func main() {
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting turf-booking-plugin...")

	var metricsCollector *metrics.Metrics
	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	if err := runMigrations(db, cfg.Database.MigrationsPath); err != nil {
		log.Fatal("Failed to run migrations: %v", err)
	}
	log.Info("Migrations applied from %s", cfg.Database.MigrationsPath)

	// Typed nil pointers must not reach interface fields: assign only
	// when metrics are enabled. A nil collector turns the wrapper into a
	// passthrough.
	var dbCollector dbmetrics.Collector
	if metricsCollector != nil {
		dbCollector = metricsCollector
	}
	stopMetricsCh := make(chan struct{})
	wrappedDB := dbmetrics.WrapWithPoolStats(db, dbCollector, cfg.Metrics.ServiceName, 15*time.Second, stopMetricsCh)

	courtRepository := courtRepo.NewRepository(wrappedDB)
	reservationRepository := reservationRepo.NewRepository(wrappedDB)
	addonRepository := addonRepo.NewRepository(wrappedDB)
	historyRepository := historyRepo.NewRepository(wrappedDB)
	paymentRepository := paymentRepo.NewRepository(wrappedDB)
	txMgr := txmanager.NewTransactionManager(wrappedDB)

	var hudleClient *hudle.Client
	if cfg.Hudle.BaseURL != "" && cfg.Hudle.Token != "" {
		hudleClient = hudle.NewClient(cfg.Hudle.BaseURL, cfg.Hudle.Token,
			time.Duration(cfg.Hudle.Timeout)*time.Second, log)
		log.Info("Hudle client initialized (url=%s, timeout=%ds)", cfg.Hudle.BaseURL, cfg.Hudle.Timeout)
	} else {
		log.Warn("Hudle is not configured, external schedule reconciliation disabled")
	}

	var razorpayClient *razorpay.Client
	if cfg.Razorpay.Configured() {
		razorpayClient = razorpay.NewClient(cfg.Razorpay.BaseURL, cfg.Razorpay.KeyID,
			cfg.Razorpay.KeySecret, time.Duration(cfg.Razorpay.Timeout)*time.Second, log)
		log.Info("Razorpay client initialized (url=%s)", cfg.Razorpay.BaseURL)
	} else {
		log.Warn("Razorpay is not configured, payment operations disabled")
	}

	pricingEngine := pricing.NewEngine()

	wmLogger := logger.NewWatermillAdapter(log)
	publisher := events.NewTxPublisher(wmLogger)

	// Typed nil pointers must not reach interface fields: assign only
	// when the client exists.
	var availabilityHudle getAvailabilityUC.HudleClient
	var commitHudle createBookingUC.HudleClient
	var workerHudle syncWorker.HudleClient
	if hudleClient != nil {
		availabilityHudle = hudleClient
		commitHudle = hudleClient
		workerHudle = hudleClient
	}
	var paymentGateway paymentsService.Gateway
	if razorpayClient != nil {
		paymentGateway = razorpayClient
	}

	getAvailabilityUseCase := getAvailabilityUC.NewUseCase(
		courtRepository,
		reservationRepository,
		availabilityHudle,
		pricingEngine,
		log,
	)

	createBookingUseCase := createBookingUC.NewUseCase(
		courtRepository,
		reservationRepository,
		addonRepository,
		historyRepository,
		commitHudle,
		pricingEngine,
		publisher,
		txMgr,
		cfg.Booking.ConfirmationModeValue(),
		cfg.Booking.Currency,
		log,
	)

	bookingSvc := bookingsService.NewService(
		reservationRepository,
		courtRepository,
		addonRepository,
		historyRepository,
		publisher,
		txMgr,
		cfg.Booking.CancellationLeadHours,
		cfg.Booking.RefundPolicyValue(),
		cfg.Booking.Currency,
		log,
	)

	paymentSvc := paymentsService.NewService(
		reservationRepository,
		courtRepository,
		paymentRepository,
		paymentGateway,
		publisher,
		txMgr,
		cfg.Razorpay.KeyID,
		cfg.Booking.Currency,
		log,
	)

	getAvailability := getAvailabilityHandler.NewHandler(getAvailabilityUseCase, log)
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	confirmBooking := confirmBookingHandler.NewHandler(bookingSvc, log)
	getUserBookings := getUserBookingsHandler.NewHandler(bookingSvc, log)
	listCourts := listCourtsHandler.NewHandler(courtRepository, log)
	createPaymentOrder := createPaymentOrderHandler.NewHandler(paymentSvc, log)
	verifyPayment := verifyPaymentHandler.NewHandler(paymentSvc, log)
	listPayments := listPaymentsHandler.NewHandler(paymentSvc, log)

	r := mux.NewRouter()

	if cfg.Metrics.Enabled {
		r.Use(middleware.Metrics(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	api := r.PathPrefix("/api/v1").Subrouter()

	// Public routes.
	api.HandleFunc("/courts", listCourts.Handle).Methods(http.MethodGet)
	api.HandleFunc("/courts/{courtId}/availability", getAvailability.Handle).Methods(http.MethodGet)

	// Protected routes require the X-User-ID header.
	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	protected.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/bookings/{bookingId}/confirm", confirmBooking.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/users/{userId}/bookings", getUserBookings.Handle).Methods(http.MethodGet)

	protected.HandleFunc("/bookings/{bookingId}/payment/order", createPaymentOrder.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/{bookingId}/payment/verify", verifyPayment.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/{bookingId}/payments", listPayments.Handle).Methods(http.MethodGet)

	// Outbox consumer: notifications and external schedule mirroring.
	workerCtx, stopWorker := context.WithCancel(context.Background())
	defer stopWorker()

	var worker *syncWorker.Worker
	if cfg.Worker.Enabled {
		subscriber, err := outbox.NewSubscriber(db, cfg.Worker.ConsumerGroup, wmLogger)
		if err != nil {
			log.Fatal("Failed to create outbox subscriber: %v", err)
		}

		handlers := syncWorker.NewHandlers(
			notifier.NewLogNotifier(log),
			courtRepository,
			reservationRepository,
			workerHudle,
			log,
		)

		worker, err = syncWorker.NewWorker(subscriber, handlers, wmLogger)
		if err != nil {
			log.Fatal("Failed to create sync worker: %v", err)
		}

		go func() {
			log.Info("Sync worker started (consumer_group=%s)", cfg.Worker.ConsumerGroup)
			if err := worker.Run(workerCtx); err != nil {
				log.Error("Sync worker stopped with error: %v", err)
			}
		}()
	}

	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	close(stopMetricsCh)

	if worker != nil {
		stopWorker()
		if err := worker.Close(); err != nil {
			log.Error("Failed to close sync worker: %v", err)
		}
		log.Info("Sync worker stopped")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}

// runMigrations applies the schema migrations before the pool is handed
// to repositories.
func runMigrations(db *sql.DB, path string) error {
	driver, err := migratepg.WithInstance(db, &migratepg.Config{})
	if err != nil {
		return fmt.Errorf("create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance("file://"+path, "postgres", driver)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("apply migrations: %w", err)
	}

	return nil
}
