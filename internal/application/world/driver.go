package world

import (
	"context"
	"errors"
	"time"

	"github.com/andrescamacho/slotworks-go/internal/application/logging"
)

// Driver runs the world clock: one World.Tick per tick interval and one
// scheduler flush per flush interval.
type Driver struct {
	world         *World
	scheduler     *PersistenceScheduler
	tickInterval  time.Duration
	flushInterval time.Duration
	logger        logging.ContainerLogger
	flushObserver FlushObserver
}

// FlushObserver is notified after every periodic flush
type FlushObserver interface {
	ObserveFlush(result FlushResult, elapsed time.Duration, err error)
}

// NewDriver creates a driver. scheduler may be nil for an unpersisted world.
func NewDriver(world *World, scheduler *PersistenceScheduler, tickInterval, flushInterval time.Duration, logger logging.ContainerLogger) *Driver {
	if tickInterval <= 0 {
		tickInterval = 50 * time.Millisecond
	}
	if flushInterval <= 0 {
		flushInterval = 5 * time.Second
	}
	if logger == nil {
		logger = logging.LoggerFromContext(context.Background())
	}
	return &Driver{
		world:         world,
		scheduler:     scheduler,
		tickInterval:  tickInterval,
		flushInterval: flushInterval,
		logger:        logger,
	}
}

// SetFlushObserver registers the observer of periodic flushes
func (d *Driver) SetFlushObserver(o FlushObserver) {
	d.flushObserver = o
}

// Run blocks until ctx is cancelled. It returns nil on cancellation; the
// final flush is left to the caller so it can use its own deadline.
func (d *Driver) Run(ctx context.Context) error {
	ticker := time.NewTicker(d.tickInterval)
	defer ticker.Stop()
	flush := time.NewTicker(d.flushInterval)
	defer flush.Stop()

	d.logger.Log("INFO", "tick driver started", map[string]interface{}{
		"tick_interval":  d.tickInterval.String(),
		"flush_interval": d.flushInterval.String(),
	})

	for {
		select {
		case <-ctx.Done():
			d.logger.Log("INFO", "tick driver stopped", map[string]interface{}{
				"tick": d.world.CurrentTick(),
			})
			return nil
		case <-ticker.C:
			d.world.Tick(ctx)
		case <-flush.C:
			d.flush(ctx)
		}
	}
}

func (d *Driver) flush(ctx context.Context) {
	if d.scheduler == nil {
		return
	}
	start := time.Now()
	result, err := d.scheduler.Flush(ctx)
	if d.flushObserver != nil {
		d.flushObserver.ObserveFlush(result, time.Since(start), err)
	}
	if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
		d.logger.Log("WARN", "flush incomplete", map[string]interface{}{
			"error":    err.Error(),
			"failed":   result.Failed,
			"deferred": result.Deferred,
		})
		return
	}
	if result.Units+result.Minigames > 0 {
		d.logger.Log("DEBUG", "flushed snapshots", map[string]interface{}{
			"units":     result.Units,
			"minigames": result.Minigames,
		})
	}
}
