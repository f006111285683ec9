package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/andrescamacho/slotworks-go/internal/adapters/grpc"
	"github.com/andrescamacho/slotworks-go/internal/adapters/metrics"
	"github.com/andrescamacho/slotworks-go/internal/application/mediator"
	"github.com/andrescamacho/slotworks-go/internal/application/setup"
	"github.com/andrescamacho/slotworks-go/internal/application/world"
	"github.com/andrescamacho/slotworks-go/internal/domain/shared"
	"github.com/andrescamacho/slotworks-go/internal/infrastructure/bootstrap"
	"github.com/andrescamacho/slotworks-go/internal/infrastructure/config"
	"github.com/andrescamacho/slotworks-go/internal/infrastructure/database"
	"github.com/andrescamacho/slotworks-go/internal/infrastructure/pidfile"
)

func main() {
	// Parse command-line flags
	configFlag := flag.String("config", "", "Path to config.yaml (default: search ./, ./configs, /etc/slotworks)")
	flag.Parse()

	fmt.Println("Slotworks Daemon v0.1.0")
	fmt.Println("=======================")

	// Load configuration
	fmt.Println("Loading configuration...")
	cfg := config.MustLoadConfig(*configFlag)

	// Acquire PID file lock to prevent multiple instances
	fmt.Printf("Acquiring PID file lock: %s\n", cfg.Daemon.PIDFile)
	pf := pidfile.New(cfg.Daemon.PIDFile)
	if err := pf.Acquire(); err != nil {
		var running *pidfile.ErrAlreadyRunning
		if errors.As(err, &running) {
			log.Fatalf("Failed to acquire PID file lock: %v\nStop PID %d first", err, running.PID)
		}
		log.Fatalf("Failed to acquire PID file lock: %v", err)
	}
	defer func() {
		if err := pf.Release(); err != nil {
			log.Printf("Warning: failed to release PID file: %v", err)
		}
	}()
	fmt.Println("PID file lock acquired")

	// Initialize application
	if err := run(cfg); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run(cfg *config.Config) error {
	// 1. Logger
	logger, logCloser, err := bootstrap.Logger(cfg.Logging)
	if err != nil {
		return err
	}
	defer logCloser.Close()

	// 2. Storage
	fmt.Printf("Connecting to %s database...\n", cfg.Database.Type)
	stores, err := database.OpenStores(&cfg.Database, shared.NewRealClock())
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer stores.Close()
	fmt.Printf("Store ready (%s)\n", stores.Backend)

	// 3. Catalog
	def, err := bootstrap.LoadDefinition(cfg.Engine.CatalogPath, nil)
	if err != nil {
		return err
	}
	fmt.Printf("Catalog loaded from %s: %d stages, %d recipes\n",
		def.Source, def.Stages.Len(), len(def.Recipes.Recipes()))

	// 4. Metrics collectors (must exist before the world so they can observe it)
	var (
		engineMetrics *metrics.EngineMetricsCollector
		middlewares   []mediator.Middleware
		worldOpts     = []world.Option{world.WithLogger(logger)}
	)
	if cfg.Metrics.Enabled {
		metrics.InitRegistry()

		engineMetrics = metrics.NewEngineMetricsCollector()
		if err := engineMetrics.Register(); err != nil {
			return fmt.Errorf("failed to register engine metrics: %w", err)
		}
		minigameMetrics := metrics.NewMinigameMetricsCollector()
		if err := minigameMetrics.Register(); err != nil {
			return fmt.Errorf("failed to register minigame metrics: %w", err)
		}
		metrics.SetGlobalMinigameCollector(minigameMetrics)

		commandMetrics := metrics.NewCommandMetricsCollector()
		if err := commandMetrics.Register(); err != nil {
			return fmt.Errorf("failed to register command metrics: %w", err)
		}
		middlewares = append(middlewares, metrics.PrometheusMiddleware(commandMetrics))

		worldOpts = append(worldOpts,
			world.WithTickObserver(engineMetrics),
			world.WithChangeObserver(engineMetrics),
		)
		fmt.Println("Metrics collectors registered")
	}

	// 5. World
	w := bootstrap.NewWorld(def, cfg.Engine, worldOpts...)
	restoreCtx, cancelRestore := context.WithTimeout(context.Background(), cfg.Daemon.ShutdownTimeout)
	report, err := w.Restore(restoreCtx, stores.Units, stores.Minigames)
	cancelRestore()
	if err != nil {
		return fmt.Errorf("failed to restore world: %w", err)
	}
	fmt.Printf("World restored: %d units (%d inert), %d stations, %d failed\n",
		report.Units, report.Inert, report.Minigames, report.Failed)

	// 6. Mediator
	med, err := setup.NewHandlerRegistry(w, logger, middlewares...).CreateConfiguredMediator()
	if err != nil {
		return fmt.Errorf("failed to configure mediator: %w", err)
	}

	// 7. Tick driver and persistence
	scheduler := world.NewPersistenceScheduler(w, stores.Units, stores.Minigames,
		cfg.Persistence.MaxWritesPerSecond, cfg.Persistence.Burst, logger)
	if cfg.Persistence.BreakerFailures > 0 {
		scheduler.SetCircuitBreaker(world.NewCircuitBreaker(
			cfg.Persistence.BreakerFailures, cfg.Persistence.BreakerCooldown, shared.NewRealClock()))
	}
	driver := world.NewDriver(w, scheduler, cfg.Engine.TickInterval, cfg.Persistence.FlushInterval, logger)
	if engineMetrics != nil {
		driver.SetFlushObserver(engineMetrics)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 8. Metrics endpoint
	if cfg.Metrics.Enabled {
		server, err := metrics.NewServer(cfg.Metrics.Host, cfg.Metrics.Port, cfg.Metrics.Path)
		if err != nil {
			return fmt.Errorf("failed to create metrics server: %w", err)
		}
		errs := server.Start()
		engineMetrics.Start(ctx, w, 10*time.Second)
		defer engineMetrics.Stop()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Daemon.ShutdownTimeout)
			defer cancel()
			server.Shutdown(shutdownCtx)
		}()
		go func() {
			if err := <-errs; err != nil {
				log.Printf("Metrics server error: %v", err)
			}
		}()
		fmt.Printf("Metrics available at http://%s%s\n", server.Addr(), cfg.Metrics.Path)
	}

	// SIGHUP re-reads the catalog and rebinds inert units
	go reloadOnHangup(ctx, w, cfg.Engine.CatalogPath)

	// 9. Daemon server
	socketPath := cfg.Daemon.SocketPath
	fmt.Printf("Starting daemon server on: %s\n", socketPath)
	if err := os.MkdirAll(filepath.Dir(socketPath), 0755); err != nil {
		return fmt.Errorf("failed to create socket directory: %w", err)
	}
	daemonServer, err := grpc.NewDaemonServer(med, w, socketPath)
	if err != nil {
		return fmt.Errorf("failed to create daemon server: %w", err)
	}

	driverDone := make(chan error, 1)
	go func() { driverDone <- driver.Run(ctx) }()

	fmt.Println("\n✓ Daemon is ready to accept connections")
	fmt.Println("Press Ctrl+C to stop")

	// Start serving (blocks until shutdown)
	serveErr := daemonServer.Start(ctx)
	stop()
	<-driverDone

	// Final flush writes everything still dirty, unthrottled
	fmt.Println("Flushing world state...")
	flushCtx, cancel := context.WithTimeout(context.Background(), cfg.Daemon.ShutdownTimeout)
	defer cancel()
	result, err := scheduler.FlushAll(flushCtx)
	if err != nil {
		log.Printf("Warning: final flush incomplete: %v", err)
	}
	fmt.Printf("Flushed %d units and %d stations (%d failed)\n", result.Units, result.Minigames, result.Failed)

	if serveErr != nil {
		return fmt.Errorf("daemon server error: %w", serveErr)
	}
	fmt.Println("\nDaemon stopped")
	return nil
}

func reloadOnHangup(ctx context.Context, w *world.World, catalogPath string) {
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)

	for {
		select {
		case <-ctx.Done():
			return
		case <-hup:
			def, err := bootstrap.LoadDefinition(catalogPath, nil)
			if err != nil {
				log.Printf("Catalog reload failed, keeping current catalog: %v", err)
				continue
			}
			rebound := w.ReloadCatalog(def.Stages)
			fmt.Printf("Catalog reloaded from %s: %d inert units rebound\n", def.Source, rebound)
		}
	}
}
