package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	cancelBookingHandler "github.com/m04kA/SalonBookingService/internal/api/handlers/cancel_booking"
	confirmBookingHandler "github.com/m04kA/SalonBookingService/internal/api/handlers/confirm_booking"
	createBookingHandler "github.com/m04kA/SalonBookingService/internal/api/handlers/create_booking"
	getAvailableTimesHandler "github.com/m04kA/SalonBookingService/internal/api/handlers/get_available_times"
	getBookingHandler "github.com/m04kA/SalonBookingService/internal/api/handlers/get_booking"
	getClientBookingsHandler "github.com/m04kA/SalonBookingService/internal/api/handlers/get_client_bookings"
	getMasterBookingsHandler "github.com/m04kA/SalonBookingService/internal/api/handlers/get_master_bookings"
	getSettingsHandler "github.com/m04kA/SalonBookingService/internal/api/handlers/get_settings"
	telegramWebhookHandler "github.com/m04kA/SalonBookingService/internal/api/handlers/telegram_webhook"
	updateSettingsHandler "github.com/m04kA/SalonBookingService/internal/api/handlers/update_settings"
	"github.com/m04kA/SalonBookingService/internal/api/middleware"
	"github.com/m04kA/SalonBookingService/internal/config"
	"github.com/m04kA/SalonBookingService/internal/domain"
	"github.com/m04kA/SalonBookingService/internal/infra/lock"
	bookingRepo "github.com/m04kA/SalonBookingService/internal/infra/storage/booking"
	catalogRepo "github.com/m04kA/SalonBookingService/internal/infra/storage/catalog"
	chatRepo "github.com/m04kA/SalonBookingService/internal/infra/storage/chat"
	settingsRepo "github.com/m04kA/SalonBookingService/internal/infra/storage/settings"
	"github.com/m04kA/SalonBookingService/internal/notifications"
	"github.com/m04kA/SalonBookingService/internal/notifications/email"
	"github.com/m04kA/SalonBookingService/internal/notifications/telegram"
	"github.com/m04kA/SalonBookingService/internal/scheduler"
	bookingsService "github.com/m04kA/SalonBookingService/internal/service/bookings"
	settingsService "github.com/m04kA/SalonBookingService/internal/service/settings"
	createBookingUC "github.com/m04kA/SalonBookingService/internal/usecase/create_booking"
	getAvailableTimesUC "github.com/m04kA/SalonBookingService/internal/usecase/get_available_times"
	sendRemindersUC "github.com/m04kA/SalonBookingService/internal/usecase/send_reminders"
	"github.com/m04kA/SalonBookingService/pkg/clock"
	"github.com/m04kA/SalonBookingService/pkg/dbmetrics"
	"github.com/m04kA/SalonBookingService/pkg/logger"
	"github.com/m04kA/SalonBookingService/pkg/metrics"
	"github.com/m04kA/SalonBookingService/pkg/txmanager"
)

const maxRequestBodyBytes = 1 << 20

func main() {
	configPath := flag.String("config", "config.toml", "path to TOML config")
	once := flag.Bool("once", false, "run a single reminder pass and exit")
	flag.Parse()

	// Загружаем конфигурацию
	cfg, err := config.Load(*configPath)
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

	log.Info("Starting SalonBookingService...")
	log.Info("Configuration loaded from %s (timezone=%s)", *configPath, cfg.Location)

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
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

	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Без метрик обёртка работает как обычный *sql.DB
	wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Database.DBName, stopMetricsCh)

	// Инициализируем репозитории
	bookingRepository := bookingRepo.NewRepository(wrappedDB)
	catalogRepository := catalogRepo.NewRepository(wrappedDB)
	settingsRepository := settingsRepo.NewRepository(wrappedDB)
	chatRepository := chatRepo.NewRepository(wrappedDB)
	txMgr := txmanager.NewTransactionManager(wrappedDB)
	timeProvider := clock.NewLocal(cfg.Location)

	// Каналы уведомлений
	templates, err := notifications.NewTemplates(notifications.SalonInfo{
		Address:      cfg.Salon.Address,
		ContactPhone: cfg.Salon.ContactPhone,
	})
	if err != nil {
		log.Fatal("Failed to parse notification templates: %v", err)
	}
	dispatcher := notifications.NewDispatcher(
		templates,
		chatRepository,
		time.Duration(cfg.Reminders.DispatchTimeout)*time.Second,
		log,
	)

	var telegramChannel *telegram.Channel
	if cfg.Telegram.Enabled {
		bot, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
		if err != nil {
			log.Fatal("Failed to initialize Telegram bot: %v", err)
		}
		telegramChannel = telegram.New(bot, cfg.Telegram.RatePerSecond)
		dispatcher.Register(domain.NotificationTelegram, telegramChannel)
		if cfg.Telegram.AdminChatID != 0 {
			dispatcher.SetAdmin(telegramChannel, cfg.Telegram.AdminChatID)
		}
		if cfg.Telegram.WebhookURL != "" {
			if err := telegramChannel.SetWebhook(cfg.Telegram.WebhookURL, cfg.Telegram.WebhookSecret); err != nil {
				log.Fatal("Failed to register Telegram webhook: %v", err)
			}
			log.Info("Telegram webhook registered: %s", cfg.Telegram.WebhookURL)
		}
		log.Info("Telegram channel enabled (bot=@%s, rate=%.0f/s)", bot.Self.UserName, cfg.Telegram.RatePerSecond)
	}

	if cfg.Email.Enabled {
		dispatcher.Register(domain.NotificationEmail, email.New(email.Config{
			Host:     cfg.Email.Host,
			Port:     cfg.Email.Port,
			Username: cfg.Email.Username,
			Password: cfg.Email.Password,
			From:     cfg.Email.From,
		}))
		log.Info("Email channel enabled (smtp=%s:%d)", cfg.Email.Host, cfg.Email.Port)
	}

	// Инициализируем сервисы
	bookingSvc := bookingsService.NewService(
		bookingRepository,
		catalogRepository,
		dispatcher,
		txMgr,
		timeProvider,
		cfg.Telegram.AdminChatID,
		log,
	)
	settingsSvc := settingsService.NewService(
		settingsRepository,
		txMgr,
		cfg.Reminders.DefaultLeadHours,
		log,
	)

	// Инициализируем use cases
	getAvailableTimesUseCase := getAvailableTimesUC.NewUseCase(
		bookingRepository,
		catalogRepository,
		settingsRepository,
		metricsCollector,
		timeProvider,
		log,
	)
	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		catalogRepository,
		settingsRepository,
		dispatcher,
		txMgr,
		timeProvider,
		cfg.Salon.MaxBookingDaysAhead,
		log,
	)
	sendRemindersUseCase := sendRemindersUC.NewUseCase(
		bookingRepository,
		settingsRepository,
		dispatcher,
		metricsCollector,
		timeProvider,
		sendRemindersUC.Options{
			DefaultLeadHours: cfg.Reminders.DefaultLeadHours,
			ClaimBeforeSend:  cfg.Reminders.ClaimBeforeSend,
			Location:         cfg.Location,
		},
		log,
	)

	// Блокировка прогона напоминаний между экземплярами (если включен Redis)
	var reminderLocker scheduler.Locker
	if cfg.Redis.Enabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()

		if err := rdb.Ping(context.Background()).Err(); err != nil {
			log.Fatal("Failed to connect to Redis at %s: %v", cfg.Redis.Addr, err)
		}
		reminderLocker = lock.NewRedisLocker(rdb, cfg.Reminders.LockKey, time.Duration(cfg.Reminders.LockTTL)*time.Second)
		log.Info("Reminder run lock enabled (redis=%s, key=%s)", cfg.Redis.Addr, cfg.Reminders.LockKey)
	}

	reminderScheduler, err := scheduler.New(cfg.Reminders.Schedule, cfg.Location, sendRemindersUseCase, reminderLocker, log)
	if err != nil {
		log.Fatal("Failed to create reminder scheduler: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Режим внешнего планировщика: один прогон и выход
	if *once {
		log.Info("Running a single reminder pass")
		reminderScheduler.RunOnce(ctx)
		close(stopMetricsCh)
		return
	}

	// Инициализируем handlers
	getAvailableTimes := getAvailableTimesHandler.NewHandler(getAvailableTimesUseCase, log)
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	getClientBookings := getClientBookingsHandler.NewHandler(bookingSvc, log)
	getMasterBookings := getMasterBookingsHandler.NewHandler(bookingSvc, log)
	confirmBooking := confirmBookingHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	getSettings := getSettingsHandler.NewHandler(settingsSvc, log)
	updateSettings := updateSettingsHandler.NewHandler(settingsSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.BodyLimit(maxRequestBodyBytes))

	// --- Запись клиента ---
	api.HandleFunc("/masters/{masterId}/available-times", getAvailableTimes.Handle).Methods(http.MethodGet)
	api.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)
	api.HandleFunc("/bookings", getClientBookings.Handle).Methods(http.MethodGet)
	api.HandleFunc("/bookings/{bookingUid}", getBooking.Handle).Methods(http.MethodGet)

	// --- Решения мастера и администратора ---
	api.HandleFunc("/bookings/{bookingUid}/confirm", confirmBooking.Handle).Methods(http.MethodPatch)
	api.HandleFunc("/bookings/{bookingUid}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)
	api.HandleFunc("/masters/{masterId}/bookings", getMasterBookings.Handle).Methods(http.MethodGet)

	// --- Настройки салона ---
	api.HandleFunc("/settings/working-hours", getSettings.HandleWorkingHours).Methods(http.MethodGet)
	api.HandleFunc("/settings/working-hours", updateSettings.HandleWorkingHours).Methods(http.MethodPut)
	api.HandleFunc("/settings/reminders", getSettings.HandleReminders).Methods(http.MethodGet)
	api.HandleFunc("/settings/reminders", updateSettings.HandleReminders).Methods(http.MethodPut)

	// --- Telegram ---
	if telegramChannel != nil {
		webhook := telegramWebhookHandler.NewHandler(bookingSvc, chatRepository, telegramChannel, cfg.Telegram.WebhookSecret, log)
		api.HandleFunc("/telegram/webhook", webhook.Handle).Methods(http.MethodPost)
	}

	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	if cfg.Reminders.Enabled {
		reminderScheduler.Start()
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	// Graceful shutdown по сигналу или падению сервера
	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down...")

		shutdownCtx, cancel := context.WithTimeout(
			context.Background(),
			time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
		)
		defer cancel()

		if cfg.Reminders.Enabled {
			reminderScheduler.Stop(shutdownCtx)
		}

		// Останавливаем сбор метрик connection pool
		close(stopMetricsCh)

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server forced to shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Error("Service stopped with error: %v", err)
		return
	}

	log.Info("Service stopped gracefully")
}
