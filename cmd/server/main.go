// cmd/server/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	_ "display-service/docs"
	"display-service/internal/config"
	"display-service/internal/discovery"
	"display-service/internal/driver"
	"display-service/internal/handler"
	"display-service/internal/protocol"
	"display-service/internal/routes"
	"display-service/internal/service"
	"display-service/internal/utils"
)

// Application represents the main application
type Application struct {
	config *config.Config
	logger *zap.Logger
	server *http.Server

	// Services
	displayService   *service.DisplayService
	discoveryService *service.DiscoveryService
	eventBus         *handler.EventBus

	busPool        *protocol.BusPool
	driverRegistry *driver.Registry
}

// @title Display Service API
// @version 1.0.0
// @description Serial control of Philips SICP, Samsung MDC and BenQ displays

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8086
// @BasePath /api/v1
func main() {
	app, err := NewApplication(os.Getenv("DISPLAY_SERVICE_CONFIG"))
	if err != nil {
		fmt.Printf("Failed to initialize application: %v\n", err)
		os.Exit(1)
	}

	if err := app.Start(); err != nil {
		app.logger.Fatal("Failed to start application", zap.Error(err))
	}
}

// NewApplication creates a new application instance
func NewApplication(configPath string) (*Application, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := utils.NewLogger(&cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	serviceLogger := utils.NewServiceLogger(logger, "display-service")
	serviceLogger.LogServiceStart(cfg.App.Version, cfg)

	app := &Application{
		config: cfg,
		logger: logger,
	}

	if err := app.initializeDriverRegistry(); err != nil {
		return nil, fmt.Errorf("failed to initialize driver registry: %w", err)
	}

	app.initializeBusPool()
	app.initializeServices()
	app.initializeServer()

	return app, nil
}

// initializeDriverRegistry registers every supported display vendor
func (app *Application) initializeDriverRegistry() error {
	app.driverRegistry = driver.NewRegistry(app.logger)

	if err := driver.RegisterDefaultDrivers(app.driverRegistry, app.config.Handshake, app.logger); err != nil {
		return err
	}

	app.logger.Info("Driver registry initialized successfully",
		zap.Int("registered_vendors", len(app.driverRegistry.List())),
	)
	return nil
}

// initializeBusPool prepares one bus per serial port, opened on demand
func (app *Application) initializeBusPool() {
	serial := app.config.Serial
	base := protocol.SerialConfig{
		BaudRate:    serial.BaudRate,
		DataBits:    serial.DataBits,
		StopBits:    serial.StopBits,
		Parity:      serial.Parity,
		ReadTimeout: serial.ReadTimeout,
		SettleDelay: serial.SettleDelay,
	}

	app.busPool = protocol.NewBusPool(base, protocol.NewSerialTransport(app.logger), app.logger)

	app.logger.Info("Serial bus pool initialized",
		zap.Int("baud_rate", base.BaudRate),
		zap.Duration("settle_delay", base.SettleDelay),
	)
}

// initializeServices creates service instances
func (app *Application) initializeServices() {
	app.displayService = service.NewDisplayService(
		app.busPool,
		app.driverRegistry,
		app.config,
		app.logger,
	)

	lister := discovery.NewSerialPortLister(app.config.Discovery.Ports, app.logger)
	detector := discovery.NewDetector(
		lister,
		app.displayService,
		service.TargetsFromConfig(app.config.Discovery),
		app.logger,
	)
	app.discoveryService = service.NewDiscoveryService(detector, lister, app.config.Discovery.ScanTimeout, app.logger)

	app.eventBus = handler.NewEventBus(app.logger)

	app.logger.Info("Services initialized successfully",
		zap.Int("discovery_targets", len(detector.Targets())),
	)
}

// initializeServer sets up HTTP server and routes
func (app *Application) initializeServer() {
	routerManager := routes.NewRouter(
		app.config,
		app.logger,
		app.displayService,
		app.discoveryService,
		app.eventBus,
	)

	app.server = &http.Server{
		Addr:         app.config.GetServerAddr(),
		Handler:      routerManager.SetupRouter(),
		ReadTimeout:  app.config.Server.ReadTimeout,
		WriteTimeout: app.config.HTTPWriteTimeout(),
		IdleTimeout:  app.config.Server.IdleTimeout,
	}

	app.logger.Info("HTTP server initialized",
		zap.String("address", app.config.GetServerAddr()),
	)
}

// Start serves HTTP until SIGINT or SIGTERM
func (app *Application) Start() error {
	defer utils.LogPanic(app.logger)

	go app.eventBus.Start()

	go func() {
		app.logger.Info("Starting HTTP server",
			zap.String("address", app.server.Addr),
		)

		if err := app.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			app.logger.Fatal("Failed to start HTTP server", zap.Error(err))
		}
	}()

	app.waitForShutdown()
	return nil
}

// waitForShutdown waits for shutdown signal and performs graceful shutdown
func (app *Application) waitForShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	sig := <-quit
	app.logger.Info("Received shutdown signal", zap.String("signal", sig.String()))

	app.shutdown()
}

// shutdown performs graceful shutdown
func (app *Application) shutdown() {
	serviceLogger := utils.NewServiceLogger(app.logger, "display-service")
	serviceLogger.LogServiceStop("shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("HTTP server shutdown error", zap.Error(err))
	} else {
		app.logger.Info("HTTP server stopped")
	}

	for _, stats := range app.busPool.Stats() {
		app.logger.Info("Serial bus totals",
			zap.String("port", stats.Port),
			zap.Int64("exchanges", stats.ExchangeCount),
			zap.Int64("errors", stats.ErrorCount),
		)
	}

	app.logger.Info("Application shutdown completed")

	if err := utils.CloseLogger(app.logger); err != nil {
		fmt.Printf("Logger close error: %v\n", err)
	}
}
