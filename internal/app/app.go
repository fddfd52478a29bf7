package app

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	httpapi "github.com/shestoi/rivalsyndicate/internal/api/http"
	"github.com/shestoi/rivalsyndicate/internal/config"
	"github.com/shestoi/rivalsyndicate/internal/discord"
	"github.com/shestoi/rivalsyndicate/internal/event"
	kafkaevents "github.com/shestoi/rivalsyndicate/internal/event/kafka"
	"github.com/shestoi/rivalsyndicate/internal/event/outbox"
	"github.com/shestoi/rivalsyndicate/internal/identity"
	"github.com/shestoi/rivalsyndicate/internal/interaction"
	"github.com/shestoi/rivalsyndicate/internal/metrics"
	"github.com/shestoi/rivalsyndicate/internal/rates"
	"github.com/shestoi/rivalsyndicate/internal/service"
	"github.com/shestoi/rivalsyndicate/internal/ticket"
	platformlogging "github.com/shestoi/rivalsyndicate/platform/logging"
	platformobservability "github.com/shestoi/rivalsyndicate/platform/observability"
	platformshutdown "github.com/shestoi/rivalsyndicate/platform/shutdown"
)

const serviceName = "rival-syndicate"

// Version задаётся при сборке: -ldflags "-X github.com/shestoi/rivalsyndicate/internal/app.Version=v1.2.3"
var Version = "dev"

// App содержит все зависимости для запуска и корректного shutdown сервиса
type App struct {
	logger      *zap.Logger
	httpServer  *http.Server
	shutdownMgr *platformshutdown.Manager
	registrar   *interaction.Registrar

	dispatcher       *outbox.Dispatcher
	dispatcherCtx    context.Context
	dispatcherDone   chan struct{}
	dispatcherCancel context.CancelFunc

	wg sync.WaitGroup
}

// Build создаёт и настраивает все зависимости сервиса
func Build(cfg config.Config) (*App, error) {
	const op = "app.Build"
	ctx := context.Background()

	// Создаём logger
	logger, err := platformlogging.New(platformlogging.Config{
		ServiceName: serviceName,
		Env:         string(cfg.AppEnv),
		Level:       cfg.LogLevel,
		Format:      cfg.LogFormat,
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Building service", zap.String("op", op), zap.String("version", Version), zap.String("http_addr", cfg.HTTPAddr))
	cfg.Log(logger)

	// OpenTelemetry
	otelShutdown, err := platformobservability.Init(ctx, platformobservability.Config{
		Enabled:               cfg.OTelEnabled,
		OTLPEndpoint:          cfg.OTelEndpoint,
		SamplingRatio:         cfg.OTelSamplingRatio,
		ServiceName:           serviceName,
		DeploymentEnvironment: string(cfg.AppEnv),
		ServiceVersion:        Version,
	})
	if err != nil {
		return nil, err
	}

	// Создаём shutdown manager; функции выполняются в обратном порядке регистрации
	shutdownMgr := platformshutdown.New(cfg.ShutdownTimeout, logger)
	shutdownMgr.Add("otel", otelShutdown)

	store, err := openStorage(ctx, cfg, logger, shutdownMgr)
	if err != nil {
		shutdownMgr.Shutdown()
		return nil, err
	}

	// Prometheus
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(registry)

	// Discord
	discordClient := discord.NewClient(logger, m, discord.Config{
		BotToken: cfg.Discord.BotToken,
		BaseURL:  cfg.Discord.APIBaseURL,
		Timeout:  cfg.Discord.HTTPTimeout,
	})
	if !discordClient.Configured() {
		logger.Warn("DISCORD_BOT_TOKEN is not set, tickets and guild stats are disabled")
	}

	tickets := ticket.NewManager(logger, discordClient, m, ticket.Config{
		GuildID:       cfg.Discord.GuildID,
		CategoryID:    cfg.Discord.TicketCategoryID,
		CloseDelay:    cfg.Ticket.CloseDelay,
		CompleteDelay: cfg.Ticket.CompleteDelay,
	}, ticket.RealScheduler{})

	oauth := identity.NewDiscordOAuth(logger, m, identity.OAuthConfig{
		ClientID:     cfg.Discord.ClientID,
		ClientSecret: cfg.Discord.ClientSecret,
		RedirectURL:  cfg.Discord.RedirectURI,
	})
	tokens := identity.NewTokenIssuer(cfg.JWTSecret, cfg.JWTTTL)

	ratesCache := rates.NewCache(logger, rates.NewProvider(m, cfg.RatesURL, cfg.Discord.HTTPTimeout).Fetch, cfg.RatesTTL)

	// Создаём service слой
	orderService := service.NewOrderService(logger, store.orders, store.users, tickets, m)
	userService := service.NewUserService(logger, store.users)
	authService := service.NewAuthService(logger, oauth, tokens, store.users, store.revoked, cfg.BootstrapAdmins)
	statsService := service.NewStatsService(logger, discordClient, store.orders, store.users, service.StatsConfig{
		GuildID:         cfg.Discord.GuildID,
		OrdersChannelID: cfg.Discord.OrdersChannelID,
		VouchChannelID:  cfg.Discord.VouchChannelID,
		BoosterRoleID:   cfg.Discord.BoosterRoleID,
	})

	interactions, err := interaction.NewHandler(logger, m, interaction.Config{
		PublicKey:    cfg.Discord.PublicKey,
		Insecure:     cfg.Discord.InteractionsInsecure,
		StaffRoleIDs: cfg.Discord.StaffRoleIDs,
	}, tickets, orderService)
	if err != nil {
		shutdownMgr.Shutdown()
		return nil, err
	}
	registrar := interaction.NewRegistrar(logger, discordClient, cfg.Discord.ApplicationID, cfg.Discord.GuildID)

	// Outbox: уведомления в тикеты и публикация событий заказа
	dispatcher := outbox.NewDispatcher(logger, store.outbox, m, outbox.Config{
		BatchSize:  cfg.Outbox.BatchSize,
		Interval:   cfg.Outbox.Interval,
		MaxRetries: cfg.Outbox.MaxRetries,
		Backoff:    cfg.Outbox.Backoff,
	})
	dispatcher.Register(event.TopicTicketStatusChanged, outbox.NewTicketNotifier(logger, tickets))

	var orderEvents outbox.Handler = outbox.NewLogHandler(logger)
	if cfg.Kafka.Enabled {
		publisher := kafkaevents.NewOrderEventPublisher(logger, cfg.Kafka)
		shutdownMgr.Add("kafka_writer", platformshutdown.CloseCloser(publisher))
		orderEvents = publisher
		logger.Info("Kafka order events enabled",
			zap.Strings("brokers", cfg.Kafka.Brokers),
			zap.String("topic", cfg.Kafka.OrderEventsTopic),
		)
	}
	dispatcher.Register(event.TopicOrderCreated, orderEvents)
	dispatcher.Register(event.TopicOrderStatusChanged, orderEvents)

	dispatcherCtx, dispatcherCancel := context.WithCancel(context.Background())
	dispatcherDone := make(chan struct{})
	shutdownMgr.Add("outbox_dispatcher", platformshutdown.StopWorker(dispatcherCancel, dispatcherDone))

	// Отложенные закрытия тикетов и фоновые ответы interactions дожидаются завершения
	shutdownMgr.Add("ticket_manager", platformshutdown.Drain(tickets))
	shutdownMgr.Add("interactions", platformshutdown.Drain(interactions))

	// Создаем HTTP handler
	handler := httpapi.NewHandler(logger, httpapi.Config{
		FrontendURL:   cfg.FrontendURL,
		SecureCookies: cfg.CookieSecure,
	}, httpapi.Services{
		Orders:   orderService,
		Auth:     authService,
		Users:    userService,
		Stats:    statsService,
		Rates:    ratesCache,
		Tickets:  tickets,
		Commands: registrar,
	})

	// Настраиваем роутер
	router := httpapi.NewRouter(handler, authService, httpapi.RouterConfig{
		ServiceName:  serviceName,
		CORSOrigins:  cfg.CORSOrigins,
		Interactions: interactions,
		Metrics:      promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		HealthChecks: store.checks,
	}, logger)

	// Создаём HTTP сервер
	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	shutdownMgr.Add("http_server", platformshutdown.ShutdownHTTPServer(httpServer))

	return &App{
		logger:           logger,
		httpServer:       httpServer,
		shutdownMgr:      shutdownMgr,
		registrar:        registrar,
		dispatcher:       dispatcher,
		dispatcherCtx:    dispatcherCtx,
		dispatcherDone:   dispatcherDone,
		dispatcherCancel: dispatcherCancel,
	}, nil
}

// Run запускает сервис и блокируется до получения сигнала shutdown
func (a *App) Run(ctx context.Context) error {
	defer platformlogging.Sync(a.logger)

	a.logger.Info("Starting service", zap.String("addr", a.httpServer.Addr))
	a.logger.Info("Health check available", zap.String("url", "http://"+a.httpServer.Addr+"/health"))

	go func() {
		defer close(a.dispatcherDone)
		if err := a.dispatcher.Start(a.dispatcherCtx); err != nil {
			a.logger.Error("Outbox dispatcher stopped", zap.Error(err))
		}
	}()

	// Падение HTTP сервера тоже запускает shutdown
	waitCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var serveErr error
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("HTTP server error", zap.Error(err))
			serveErr = err
			cancel()
		}
	}()

	// Ожидаем сигнал и выполняем shutdown
	a.shutdownMgr.Wait(waitCtx)

	a.wg.Wait()
	a.logger.Info("Service stopped")
	return serveErr
}

// RegisterCommands регистрирует slash-команды в гильдии и освобождает ресурсы
// Используется в режиме одноразового запуска без HTTP сервера
func (a *App) RegisterCommands(ctx context.Context) ([]string, error) {
	defer platformlogging.Sync(a.logger)
	defer a.shutdownMgr.Shutdown()
	defer a.dispatcherCancel()

	// dispatcher не запускался; StopWorker не должен ждать его завершения
	close(a.dispatcherDone)

	names, err := a.registrar.Register(ctx)
	if err != nil {
		return nil, err
	}
	a.logger.Info("Slash commands registered", zap.Strings("commands", names))
	return names, nil
}
