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

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	bookSlotHandler "github.com/smartwash/CW-SlotBookingService/internal/api/handlers/book_slot"
	cancelBookingHandler "github.com/smartwash/CW-SlotBookingService/internal/api/handlers/cancel_booking"
	checkAvailabilityHandler "github.com/smartwash/CW-SlotBookingService/internal/api/handlers/check_availability"
	createSlotHandler "github.com/smartwash/CW-SlotBookingService/internal/api/handlers/create_slot"
	deleteSlotHandler "github.com/smartwash/CW-SlotBookingService/internal/api/handlers/delete_slot"
	generateSlotsHandler "github.com/smartwash/CW-SlotBookingService/internal/api/handlers/generate_slots"
	getBookingHandler "github.com/smartwash/CW-SlotBookingService/internal/api/handlers/get_booking"
	getSlotHandler "github.com/smartwash/CW-SlotBookingService/internal/api/handlers/get_slot"
	getSlotAvailabilityHandler "github.com/smartwash/CW-SlotBookingService/internal/api/handlers/get_slot_availability"
	getSlotsByDateHandler "github.com/smartwash/CW-SlotBookingService/internal/api/handlers/get_slots_by_date"
	getWeeklyAvailabilityHandler "github.com/smartwash/CW-SlotBookingService/internal/api/handlers/get_weekly_availability"
	updateSlotHandler "github.com/smartwash/CW-SlotBookingService/internal/api/handlers/update_slot"
	"github.com/smartwash/CW-SlotBookingService/internal/api/middleware"
	"github.com/smartwash/CW-SlotBookingService/internal/config"
	"github.com/smartwash/CW-SlotBookingService/internal/events"
	"github.com/smartwash/CW-SlotBookingService/internal/infra/cache"
	bookingRepo "github.com/smartwash/CW-SlotBookingService/internal/infra/storage/booking"
	slotRepo "github.com/smartwash/CW-SlotBookingService/internal/infra/storage/slot"
	catalogClient "github.com/smartwash/CW-SlotBookingService/internal/integrations/catalogservice"
	bookingsService "github.com/smartwash/CW-SlotBookingService/internal/service/bookings"
	slotsService "github.com/smartwash/CW-SlotBookingService/internal/service/slots"
	bookSlotUC "github.com/smartwash/CW-SlotBookingService/internal/usecase/book_slot"
	cancelBookingUC "github.com/smartwash/CW-SlotBookingService/internal/usecase/cancel_booking"
	getAvailabilityUC "github.com/smartwash/CW-SlotBookingService/internal/usecase/get_availability"
	"github.com/smartwash/CW-SlotBookingService/pkg/dbmetrics"
	"github.com/smartwash/CW-SlotBookingService/pkg/logger"
	"github.com/smartwash/CW-SlotBookingService/pkg/metrics"
	"github.com/smartwash/CW-SlotBookingService/pkg/simpletxmanager"
	"github.com/smartwash/CW-SlotBookingService/pkg/txmanager"
)

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting CW-SlotBookingService...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	var wrappedDB *dbmetrics.DB
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Клиент каталога услуг
	catalog := catalogClient.NewClient(
		cfg.CatalogService.URL,
		time.Duration(cfg.CatalogService.Timeout)*time.Second,
		log,
	)
	log.Info("Catalog client initialized (CatalogService=%s timeout=%ds)",
		cfg.CatalogService.URL, cfg.CatalogService.Timeout)

	// Кэш доступности: недоступный Redis выключает кэширование, не сервис
	var availabilityCache *cache.AvailabilityCache
	if cfg.Cache.Enabled {
		availabilityCache = cache.New(
			cfg.Cache.Addr,
			cfg.Cache.Password,
			cfg.Cache.DB,
			time.Duration(cfg.Cache.TTLSeconds)*time.Second,
			log,
		)
	}
	defer availabilityCache.Close()

	// Публикация событий бронирований
	var publisher bookSlotUC.EventPublisher = events.NopPublisher{}
	if cfg.Events.Enabled {
		rmq, err := events.NewPublisher(cfg.Events.URL, cfg.Events.Exchange)
		if err != nil {
			log.Fatal("Failed to connect to RabbitMQ: %v", err)
		}
		defer rmq.Close()
		publisher = rmq
		log.Info("Event publisher connected (exchange=%s)", cfg.Events.Exchange)
	} else {
		log.Info("Event publishing disabled")
	}

	// Инициализируем репозитории (с метриками или без)
	var (
		slotRepository    *slotRepo.Repository
		bookingRepository *bookingRepo.Repository
	)

	type TxManager interface {
		Do(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		slotRepository = slotRepo.NewRepository(wrappedDB)
		bookingRepository = bookingRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		slotRepository = slotRepo.NewRepository(db)
		bookingRepository = bookingRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Инициализируем сервисы
	slotSvc := slotsService.NewService(slotRepository, catalog, txMgr, log)
	bookingSvc := bookingsService.NewService(bookingRepository, log)

	// Инициализируем use cases
	bookSlotUseCase := bookSlotUC.NewUseCase(
		slotRepository,
		bookingRepository,
		txMgr,
		publisher,
		availabilityCache,
		log,
	)
	cancelBookingUseCase := cancelBookingUC.NewUseCase(
		bookingRepository,
		slotRepository,
		txMgr,
		publisher,
		availabilityCache,
		log,
	)
	availabilityUseCase := getAvailabilityUC.NewUseCase(
		slotRepository,
		catalog,
		availabilityCache,
		log,
	)

	// Инициализируем handlers
	createSlot := createSlotHandler.NewHandler(slotSvc, log)
	updateSlot := updateSlotHandler.NewHandler(slotSvc, log)
	deleteSlot := deleteSlotHandler.NewHandler(slotSvc, log)
	getSlot := getSlotHandler.NewHandler(slotSvc, log)
	getSlotsByDate := getSlotsByDateHandler.NewHandler(slotSvc, log)
	generateSlots := generateSlotsHandler.NewHandler(slotSvc, log)
	getSlotAvailability := getSlotAvailabilityHandler.NewHandler(availabilityUseCase, log)
	getWeeklyAvailability := getWeeklyAvailabilityHandler.NewHandler(availabilityUseCase, log)
	checkAvailability := checkAvailabilityHandler.NewHandler(availabilityUseCase, log)
	bookSlot := bookSlotHandler.NewHandler(bookSlotUseCase, log)
	cancelBooking := cancelBookingHandler.NewHandler(cancelBookingUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestID)

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		log.Info("HTTP metrics middleware enabled")

		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}).Methods(http.MethodGet)

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// --- Слоты и доступность ---
	api.HandleFunc("/slots/by-date", getSlotsByDate.Handle).Methods(http.MethodGet)
	api.HandleFunc("/slots/availability", getSlotAvailability.Handle).Methods(http.MethodGet)
	api.HandleFunc("/slots/weekly-availability", getWeeklyAvailability.Handle).Methods(http.MethodGet)
	api.HandleFunc("/slots/check-availability", checkAvailability.Handle).Methods(http.MethodPost)
	api.HandleFunc("/slots/{slotId:[0-9]+}", getSlot.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Управление слотами (для админки каталога) ---
	protected.HandleFunc("/slots", createSlot.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/slots/generate", generateSlots.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/slots/{slotId:[0-9]+}", updateSlot.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/slots/{slotId:[0-9]+}", deleteSlot.Handle).Methods(http.MethodDelete)

	// --- Бронирования ---
	protected.HandleFunc("/bookings", bookSlot.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/{bookingId:[0-9]+}", getBooking.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{bookingId:[0-9]+}/cancel", cancelBooking.Handle).Methods(http.MethodPost)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Останавливаем сбор метрик connection pool
	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
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
