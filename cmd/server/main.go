package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	// Application
	"github.com/dreschagin/smartfood/internal/application/port"
	"github.com/dreschagin/smartfood/internal/application/usecase"

	// Domain
	"github.com/dreschagin/smartfood/internal/domain/service"

	// Infrastructure
	"github.com/dreschagin/smartfood/internal/infrastructure/booking"
	rediscache "github.com/dreschagin/smartfood/internal/infrastructure/cache/redis"
	"github.com/dreschagin/smartfood/internal/infrastructure/liveview"
	natsmessaging "github.com/dreschagin/smartfood/internal/infrastructure/messaging/nats"
	"github.com/dreschagin/smartfood/internal/infrastructure/metrics"
	"github.com/dreschagin/smartfood/internal/infrastructure/observability/cloudwatch"
	"github.com/dreschagin/smartfood/internal/infrastructure/persistence/memory"

	// Interfaces
	httpInterface "github.com/dreschagin/smartfood/internal/interfaces/http"
	"github.com/dreschagin/smartfood/internal/interfaces/http/handler"
	"github.com/dreschagin/smartfood/internal/interfaces/view"

	// Shared
	"github.com/dreschagin/smartfood/pkg/config"
	"github.com/dreschagin/smartfood/pkg/logger"
)

func main() {
	// 1. Загружаем конфигурацию
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 2. Инициализируем logger
	log := logger.New(os.Getenv("LOG_LEVEL"))
	log.Info("Starting SmartFood site")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.CloudWatch.LogsEnabled {
		logsPublisher, err := cloudwatch.NewLogsPublisher(ctx, cloudwatch.LogsPublisherConfig{
			LogGroupName:    cfg.CloudWatch.LogGroupName,
			LogStreamName:   cfg.CloudWatch.LogStreamName,
			Region:          cfg.CloudWatch.Region,
			Endpoint:        cfg.CloudWatch.Endpoint,
			AccessKeyID:     cfg.CloudWatch.AccessKeyID,
			SecretAccessKey: cfg.CloudWatch.SecretAccessKey,
			BufferSize:      cfg.CloudWatch.LogsBufferSize,
			FlushInterval:   cfg.CloudWatch.LogsFlushInterval,
			AutoCreate:      true,
		})
		if err != nil {
			log.Warn("CloudWatch logs are disabled", "error", err.Error())
		} else {
			log.SetLogPublisher(logsPublisher)
			defer logsPublisher.Close(context.Background())
			log.Info("CloudWatch logs publisher started", "log_group", cfg.CloudWatch.LogGroupName)
		}
	}

	// 3. Dependency Injection - Infrastructure Layer

	// Repository
	menuRepository, err := memory.NewMenuRepository()
	if err != nil {
		log.Error("Failed to load menu catalog", err)
		os.Exit(1)
	}

	healthHandler := handler.NewHealthHandler(log)

	// Cache (опционально)
	var cache port.Cache
	if cfg.Redis.Enabled {
		redisCache, err := rediscache.NewRedisCache(ctx, rediscache.Options{
			Addr:         cfg.Redis.Addr(),
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			TTL:          cfg.Redis.TTL,
			PoolSize:     cfg.Redis.PoolSize,
			MinIdleConns: cfg.Redis.MinIdleConns,
			DialTimeout:  cfg.Redis.DialTimeout,
			ReadTimeout:  cfg.Redis.ReadTimeout,
			WriteTimeout: cfg.Redis.WriteTimeout,
			Namespace:    "smartfood",
		})
		if err != nil {
			log.Warn("Redis is unavailable, menu cache disabled", "error", err.Error())
		} else {
			defer redisCache.Close()

			// Каталог зашит в бинарник: после деплоя старые карточки не нужны
			if removed, err := redisCache.DeletePattern(ctx, "menu:items:*"); err != nil {
				log.Warn("Failed to reset menu cache", "error", err.Error())
			} else {
				log.Info("Menu cache reset", "keys", removed)
			}

			cache = redisCache
			healthHandler.AddCheck("redis", redisCache.Ping)
		}
	}

	// Бронирование
	bookingService, bookingCheck, closeBooking := newBookingService(cfg.NATS, log)
	defer closeBooking()
	if bookingCheck != nil {
		healthHandler.AddCheck("nats", bookingCheck)
	}

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	siteMetrics := metrics.New(registry)

	// Live sessions
	hub := liveview.NewHub(siteMetrics, log)

	// 4. Dependency Injection - Domain Layer

	menuBrowser := service.NewMenuBrowser(menuRepository)

	// 5. Dependency Injection - Application Layer (Use Cases)

	getHomePageUC := usecase.NewGetHomePageUseCase(
		menuRepository,
		menuBrowser,
		cache,
		usecase.HomePageConfig{
			BasePath:    cfg.Site.BasePath,
			SplashDelay: cfg.Site.SplashDelay,
			LiveEnabled: true,
			FormEnabled: true,
		},
		log,
	)

	submitReservationUC := usecase.NewSubmitReservationUseCase(bookingService, log)

	renderer := view.NewRenderer()
	liveViewUC := usecase.NewLiveViewUseCase(getHomePageUC, renderer, log)

	// 6. Dependency Injection - Interfaces Layer (HTTP Handlers)

	pageHandler := handler.NewPageHandler(getHomePageUC, renderer, renderer, log)
	reservationHandler := handler.NewReservationHandler(submitReservationUC, pageHandler, siteMetrics, log)
	liveHandler := handler.NewLiveHandler(hub, liveViewUC, cfg.Site.SplashDelay, cfg.Security.AllowedOrigins, log)

	// Router
	router := httpInterface.NewRouter(
		pageHandler,
		reservationHandler,
		liveHandler,
		healthHandler,
		siteMetrics,
		promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		cfg.Site,
		cfg.Security,
		log,
	)

	// 7. Запускаем фоновые процессы

	go hub.Run(ctx)
	log.Info("Live session hub started")

	// 8. Настраиваем HTTP сервер

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Канал для получения сигналов ОС
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Запускаем сервер в отдельной goroutine
	go func() {
		log.Info("HTTP server starting", "port", cfg.Server.Port)
		log.Info("Site available at http://localhost:" + cfg.Server.Port + cfg.Site.BasePath + "/")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server failed", err)
			os.Exit(1)
		}
	}()

	// 9. Ожидаем сигнал для graceful shutdown

	<-sigChan
	log.Info("Shutdown signal received, starting graceful shutdown...")

	// Закрываем live-сессии: WebSocket соединения Shutdown не ждет
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown error", err)
	}

	log.Info("Server stopped gracefully")
}

// newBookingService подключает NATS, если он включен. При ошибке сайт
// продолжает работать с booking.Discard, как и без Redis.
func newBookingService(cfg config.NATSConfig, log *logger.Logger) (port.BookingService, func(context.Context) error, func()) {
	discard := booking.NewDiscard(log)
	if !cfg.Enabled {
		log.Warn("NATS is disabled, reservations are only logged")
		return discard, nil, func() {}
	}

	publisher, err := natsmessaging.NewBookingPublisher(cfg.URL, cfg.ReservationSubject, log)
	if err != nil {
		log.Warn("NATS is unavailable, reservations are only logged", "error", err.Error())
		return discard, nil, func() {}
	}

	check := func(context.Context) error {
		if !publisher.Connected() {
			return fmt.Errorf("not connected")
		}
		return nil
	}
	closeFn := func() {
		if err := publisher.Close(); err != nil {
			log.Warn("Failed to close NATS connection", "error", err.Error())
		}
	}
	return publisher, check, closeFn
}
