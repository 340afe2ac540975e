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
	"github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"

	cancelAppointmentHandler "github.com/BECOF-Cons/becof-website-sub000/internal/api/handlers/cancel_appointment"
	createAppointmentHandler "github.com/BECOF-Cons/becof-website-sub000/internal/api/handlers/create_appointment"
	createPaymentHandler "github.com/BECOF-Cons/becof-website-sub000/internal/api/handlers/create_payment"
	getAppointmentHandler "github.com/BECOF-Cons/becof-website-sub000/internal/api/handlers/get_appointment"
	getAvailableSlotsHandler "github.com/BECOF-Cons/becof-website-sub000/internal/api/handlers/get_available_slots"
	healthHandler "github.com/BECOF-Cons/becof-website-sub000/internal/api/handlers/health"
	paymentWebhookHandler "github.com/BECOF-Cons/becof-website-sub000/internal/api/handlers/payment_webhook"
	updateAppointmentHandler "github.com/BECOF-Cons/becof-website-sub000/internal/api/handlers/update_appointment"
	"github.com/BECOF-Cons/becof-website-sub000/internal/api/middleware"
	"github.com/BECOF-Cons/becof-website-sub000/internal/config"
	"github.com/BECOF-Cons/becof-website-sub000/internal/infra/lock"
	appointmentRepo "github.com/BECOF-Cons/becof-website-sub000/internal/infra/storage/appointment"
	catalogRepo "github.com/BECOF-Cons/becof-website-sub000/internal/infra/storage/catalog"
	paymentRepo "github.com/BECOF-Cons/becof-website-sub000/internal/infra/storage/payment"
	"github.com/BECOF-Cons/becof-website-sub000/internal/integrations/calendar"
	"github.com/BECOF-Cons/becof-website-sub000/internal/integrations/gateway"
	"github.com/BECOF-Cons/becof-website-sub000/internal/integrations/mailer"
	appointmentsService "github.com/BECOF-Cons/becof-website-sub000/internal/service/appointments"
	"github.com/BECOF-Cons/becof-website-sub000/internal/service/notifications"
	"github.com/BECOF-Cons/becof-website-sub000/internal/service/pricing"
	"github.com/BECOF-Cons/becof-website-sub000/internal/service/slotledger"
	bookAppointmentUC "github.com/BECOF-Cons/becof-website-sub000/internal/usecase/book_appointment"
	cancelAppointmentUC "github.com/BECOF-Cons/becof-website-sub000/internal/usecase/cancel_appointment"
	createPaymentUC "github.com/BECOF-Cons/becof-website-sub000/internal/usecase/create_payment"
	getAvailableSlotsUC "github.com/BECOF-Cons/becof-website-sub000/internal/usecase/get_available_slots"
	reconcilePaymentUC "github.com/BECOF-Cons/becof-website-sub000/internal/usecase/reconcile_payment"
	"github.com/BECOF-Cons/becof-website-sub000/pkg/bgtasks"
	"github.com/BECOF-Cons/becof-website-sub000/pkg/dbmetrics"
	"github.com/BECOF-Cons/becof-website-sub000/pkg/logger"
	"github.com/BECOF-Cons/becof-website-sub000/pkg/metrics"
	"github.com/BECOF-Cons/becof-website-sub000/pkg/txmanager"
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

	log.Info("Starting booking service...")

	hours, err := cfg.Booking.Hours()
	if err != nil {
		log.Fatal("Invalid booking hours: %v", err)
	}

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

	// Обёртка собирает метрики запросов; при выключенных метриках работает как прокси
	wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, stopMetricsCh)
	txMgr := txmanager.NewTransactionManager(wrappedDB)

	// Репозитории
	appointmentRepository := appointmentRepo.NewRepository(wrappedDB)
	paymentRepository := paymentRepo.NewRepository(wrappedDB)
	catalogRepository := catalogRepo.NewRepository(wrappedDB)

	// Интеграции: каждая выбирается один раз здесь, дальше вызывающий код не проверяет настройки
	slotLocker, closeLocker := newSlotLocker(cfg, log)
	defer closeLocker()

	calendarClient := newCalendar(cfg, log)

	mailSender, closeMailer := newMailSender(cfg, log)
	defer closeMailer()

	gateways := newGatewayRegistry(cfg, log)

	// Фоновые задачи (календарь, письма)
	runner := bgtasks.NewRunner(cfg.Notifications.Workers, cfg.Notifications.Timeout(), log, metricsCollector)

	notifier := notifications.NewNotifier(
		runner,
		calendarClient,
		mailSender,
		appointmentRepository,
		notifications.Options{
			AdminEmail:   cfg.Notifications.AdminEmail,
			Location:     hours.Location,
			SlotDuration: time.Duration(hours.SlotMinutes) * time.Minute,
		},
		log,
	)

	// Сервисы
	ledger := slotledger.NewLedger(appointmentRepository)
	resolver := pricing.NewResolver(catalogRepository, cfg.Pricing.DefaultAmount(), cfg.Pricing.Currency, log)
	appointmentSvc := appointmentsService.NewService(
		appointmentRepository,
		paymentRepository,
		txMgr,
		notifier,
		hours.Location,
		log,
	)

	// Use cases
	bookAppointmentUseCase := bookAppointmentUC.NewUseCase(
		appointmentRepository,
		paymentRepository,
		ledger,
		resolver,
		slotLocker,
		txMgr,
		notifier,
		metricsCollector,
		bookAppointmentUC.Options{
			Location:      hours.Location,
			DefaultMethod: cfg.Pricing.Method(),
		},
		log,
	)
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(ledger, hours, log)
	cancelAppointmentUseCase := cancelAppointmentUC.NewUseCase(
		appointmentRepository,
		paymentRepository,
		txMgr,
		notifier,
		log,
	)
	createPaymentUseCase := createPaymentUC.NewUseCase(
		appointmentRepository,
		paymentRepository,
		gateways,
		txMgr,
		notifier,
		log,
	).WithGatewayTimeout(cfg.Gateway.RequestTimeout())
	reconcilePaymentUseCase := reconcilePaymentUC.NewUseCase(
		paymentRepository,
		appointmentRepository,
		txMgr,
		notifier,
		metricsCollector,
		log,
	)

	// Инициализируем handlers
	createAppointment := createAppointmentHandler.NewHandler(bookAppointmentUseCase, log)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	getAppointment := getAppointmentHandler.NewHandler(appointmentSvc, log)
	updateAppointment := updateAppointmentHandler.NewHandler(appointmentSvc, cancelAppointmentUseCase, log)
	cancelAppointment := cancelAppointmentHandler.NewHandler(cancelAppointmentUseCase, log)
	createPayment := createPaymentHandler.NewHandler(createPaymentUseCase, log)
	paymentWebhook := paymentWebhookHandler.NewHandler(reconcilePaymentUseCase, log)
	health := healthHandler.NewHandler(wrappedDB, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		log.Info("HTTP metrics middleware enabled")

		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	r.HandleFunc("/health", health.Handle).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()

	adminAuth := middleware.AdminAuth(cfg.Auth.JWTSecret, log)
	optionalAdmin := middleware.OptionalAdminAuth(cfg.Auth.JWTSecret, log)
	bookingLimiter := middleware.NewRateLimiter(cfg.RateLimit.BookingRPS, cfg.RateLimit.BookingBurst, log)
	webhookSignature := middleware.WebhookSignature(cfg.Webhook.Secret, log)

	if cfg.Auth.JWTSecret == "" {
		log.Warn("auth.jwt_secret is empty: admin routes will reject every request")
	}
	if cfg.Webhook.Secret == "" {
		log.Warn("webhook.secret is empty: payment callbacks are accepted without signature check")
	}

	// ============================================================
	// Записи
	// ============================================================

	// Слоты дня (регистрируется до /appointments/{id})
	api.HandleFunc("/appointments/slots", getAvailableSlots.Handle).Methods(http.MethodGet)

	// Запись клиента (администратор может записать клиента от своего имени)
	api.Handle("/appointments",
		bookingLimiter.Limit(optionalAdmin(http.HandlerFunc(createAppointment.Handle))),
	).Methods(http.MethodPost)

	api.HandleFunc("/appointments/{id}", getAppointment.Handle).Methods(http.MethodGet)

	// Отмена: клиент или администратор
	api.Handle("/appointments/{id}", optionalAdmin(http.HandlerFunc(cancelAppointment.Handle))).
		Methods(http.MethodDelete)

	// Изменение статуса и заметок: только администратор
	api.Handle("/appointments/{id}", adminAuth(http.HandlerFunc(updateAppointment.Handle))).
		Methods(http.MethodPatch)

	// ============================================================
	// Платежи
	// ============================================================

	api.HandleFunc("/payments", createPayment.Handle).Methods(http.MethodPost)

	// Callback шлюза, подпись проверяется до разбора тела
	api.Handle("/payments/webhook", webhookSignature(http.HandlerFunc(paymentWebhook.Handle))).
		Methods(http.MethodPost)

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

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	// Новые задачи больше не ставятся, ждём уже запущенные
	if err := runner.Shutdown(shutdownCtx); err != nil {
		log.Warn("Background tasks did not finish in time: %v", err)
	}

	close(stopMetricsCh)

	log.Info("Server exited")
}

// newSlotLocker redis-блокировка слотов или Noop
func newSlotLocker(cfg *config.Config, log *logger.Logger) (bookAppointmentUC.SlotLocker, func()) {
	if !cfg.Redis.Enabled {
		log.Info("Redis slot lock disabled: relying on database constraints only")
		return lock.Noop{}, func() {}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		// Бронирование продолжит работать: ошибки блокировки только логируются
		log.Warn("Redis is not reachable at %s: %v", cfg.Redis.Addr, err)
	} else {
		log.Info("Redis slot lock enabled (addr=%s, ttl=%s)", cfg.Redis.Addr, cfg.Redis.LockTTL())
	}

	return lock.NewRedisLocker(client, cfg.Redis.LockTTL()), func() {
		_ = client.Close()
	}
}

// newCalendar HTTP клиент календаря или Noop
func newCalendar(cfg *config.Config, log *logger.Logger) calendar.Calendar {
	if !cfg.Calendar.Enabled {
		log.Info("Calendar integration disabled")
		return calendar.Noop{}
	}

	log.Info("Calendar integration enabled (url=%s, timeout=%ds)", cfg.Calendar.URL, cfg.Calendar.Timeout)
	return calendar.NewClient(
		cfg.Calendar.URL,
		cfg.Calendar.CalendarID,
		cfg.Calendar.Token,
		time.Duration(cfg.Calendar.Timeout)*time.Second,
		log,
	)
}

// newMailSender SMTP, очередь RabbitMQ или Noop
func newMailSender(cfg *config.Config, log *logger.Logger) (mailer.Sender, func()) {
	switch cfg.Mailer.Driver {
	case config.MailerDriverSMTP:
		log.Info("Mailer: smtp (host=%s, port=%d)", cfg.Mailer.SMTP.Host, cfg.Mailer.SMTP.Port)
		return mailer.NewSMTPSender(smtpConfig(cfg), log), func() {}

	case config.MailerDriverAMQP:
		conn, err := amqp091.Dial(cfg.Mailer.AMQP.URL)
		if err != nil {
			log.Error("Mailer: failed to connect to RabbitMQ, emails disabled: %v", err)
			return mailer.Noop{}, func() {}
		}

		ch, err := conn.Channel()
		if err != nil {
			_ = conn.Close()
			log.Error("Mailer: failed to open RabbitMQ channel, emails disabled: %v", err)
			return mailer.Noop{}, func() {}
		}

		if _, err := ch.QueueDeclare(cfg.Mailer.AMQP.Queue, true, false, false, false, nil); err != nil {
			_ = ch.Close()
			_ = conn.Close()
			log.Error("Mailer: failed to declare queue %s, emails disabled: %v", cfg.Mailer.AMQP.Queue, err)
			return mailer.Noop{}, func() {}
		}

		log.Info("Mailer: amqp (queue=%s)", cfg.Mailer.AMQP.Queue)
		return mailer.NewAMQPSender(ch, cfg.Mailer.AMQP.Queue, log), func() {
			_ = ch.Close()
			_ = conn.Close()
		}

	default:
		log.Info("Mailer disabled")
		return mailer.Noop{}, func() {}
	}
}

// newGatewayRegistry Omise для настроенных способов оплаты, остальные не настроены
func newGatewayRegistry(cfg *config.Config, log *logger.Logger) *gateway.Registry {
	registry := gateway.NewRegistry()

	if !cfg.Gateway.Configured() {
		log.Info("Payment gateway not configured: only bank transfer is available")
		return registry
	}

	client, err := gateway.NewOmiseClient(
		cfg.Gateway.OmisePublicKey,
		cfg.Gateway.OmiseSecretKey,
		cfg.Gateway.RequestTimeout(),
	)
	if err != nil {
		log.Error("Payment gateway disabled: %v", err)
		return registry
	}

	methods := cfg.Gateway.GatewayMethods()
	registry.Register(gateway.NewOmiseGateway(client, log), methods...)
	log.Info("Payment gateway enabled for %d method(s), timeout=%ds", len(methods), cfg.Gateway.Timeout)

	return registry
}

func smtpConfig(cfg *config.Config) mailer.SMTPConfig {
	return mailer.SMTPConfig{
		Host:     cfg.Mailer.SMTP.Host,
		Port:     cfg.Mailer.SMTP.Port,
		Username: cfg.Mailer.SMTP.Username,
		Password: cfg.Mailer.SMTP.Password,
		From:     cfg.Mailer.SMTP.From,
	}
}
