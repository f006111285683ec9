package metrics

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/andrescamacho/slotworks-go/internal/application/world"
	"github.com/andrescamacho/slotworks-go/internal/domain/processing"
)

// EngineMetricsCollector handles tick, change, flush and occupancy metrics.
// It is registered on the World as a tick observer and change sink, and on
// the Driver as a flush observer. The world to poll is handed to Start since
// the collector must exist before the world is built.
type EngineMetricsCollector struct {
	world *world.World

	// Tick metrics
	ticksTotal        prometheus.Counter
	tickDuration      prometheus.Histogram
	batchesCompleted  *prometheus.CounterVec
	slotsPaused       prometheus.Counter
	resourceConsumed  *prometheus.CounterVec
	minigamesResolved *prometheus.CounterVec

	// Change and flush metrics
	changesTotal     *prometheus.CounterVec
	flushedTotal     *prometheus.CounterVec
	flushDuration    prometheus.Histogram
	flushErrorsTotal prometheus.Counter

	// Occupancy metrics (polled)
	unitsTotal    *prometheus.GaugeVec
	slotsOccupied *prometheus.GaugeVec
	resourceLevel *prometheus.GaugeVec
	dirtyBacklog  prometheus.Gauge

	// Lifecycle
	ctx        context.Context
	cancelFunc context.CancelFunc
	wg         sync.WaitGroup
}

// NewEngineMetricsCollector creates a new engine metrics collector
func NewEngineMetricsCollector() *EngineMetricsCollector {
	return &EngineMetricsCollector{
		ticksTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "ticks_total",
				Help:      "Total number of world ticks processed",
			},
		),

		tickDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "tick_duration_seconds",
				Help:      "Wall time spent advancing the world by one tick",
				Buckets:   []float64{0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05},
			},
		),

		batchesCompleted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "batches_completed_total",
				Help:      "Total number of batches transformed by stage",
			},
			[]string{"stage"},
		),

		slotsPaused: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "slot_ticks_paused_total",
				Help:      "Slot ticks skipped because the resource gate could not supply",
			},
		),

		resourceConsumed: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "resource_consumed_units_total",
				Help:      "Total resource units drawn by processing units",
			},
			[]string{"resource"},
		),

		minigamesResolved: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "minigames_resolved_total",
				Help:      "Total minigame resolutions by recipe and zone",
			},
			[]string{"recipe", "zone"},
		),

		changesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "changes_total",
				Help:      "Total change notifications by reason",
			},
			[]string{"reason"},
		),

		flushedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "snapshots_written_total",
				Help:      "Total snapshots written by entity kind",
			},
			[]string{"kind"},
		),

		flushDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "flush_duration_seconds",
				Help:      "Periodic flush duration distribution",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
			},
		),

		flushErrorsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "flush_errors_total",
				Help:      "Total periodic flushes that ended with an error",
			},
		),

		unitsTotal: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "units",
				Help:      "Number of placed units by stage and state",
			},
			[]string{"stage", "state"},
		),

		slotsOccupied: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "slots_occupied",
				Help:      "Occupied slots by stage and content",
			},
			[]string{"stage", "content"},
		),

		resourceLevel: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "resource_level_ratio",
				Help:      "Average resource gate fill ratio by stage",
			},
			[]string{"stage"},
		),

		dirtyBacklog: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "dirty_entities",
				Help:      "Entities changed since the last flush",
			},
		),
	}
}

// Register registers all engine metrics with the Prometheus registry
func (c *EngineMetricsCollector) Register() error {
	return register(
		c.ticksTotal,
		c.tickDuration,
		c.batchesCompleted,
		c.slotsPaused,
		c.resourceConsumed,
		c.minigamesResolved,
		c.changesTotal,
		c.flushedTotal,
		c.flushDuration,
		c.flushErrorsTotal,
		c.unitsTotal,
		c.slotsOccupied,
		c.resourceLevel,
		c.dirtyBacklog,
	)
}

// ObserveTick records one world tick
func (c *EngineMetricsCollector) ObserveTick(report world.TickReport, elapsed time.Duration) {
	c.ticksTotal.Inc()
	c.tickDuration.Observe(elapsed.Seconds())
	c.slotsPaused.Add(float64(report.Paused))

	for stage, n := range report.CompletedByStage {
		c.batchesCompleted.WithLabelValues(string(stage)).Add(float64(n))
	}
	for kind, n := range report.ConsumedByResource {
		c.resourceConsumed.WithLabelValues(string(kind)).Add(float64(n))
	}
	for _, r := range report.Resolutions {
		c.minigamesResolved.WithLabelValues(r.RecipeID, r.Zone.String()).Inc()
	}
}

// Changed counts a change notification
func (c *EngineMetricsCollector) Changed(_ uuid.UUID, reason processing.ChangeReason) {
	c.changesTotal.WithLabelValues(string(reason)).Inc()
}

// ObserveFlush records one periodic flush
func (c *EngineMetricsCollector) ObserveFlush(result world.FlushResult, elapsed time.Duration, err error) {
	c.flushDuration.Observe(elapsed.Seconds())
	c.flushedTotal.WithLabelValues("unit").Add(float64(result.Units))
	c.flushedTotal.WithLabelValues("minigame").Add(float64(result.Minigames))
	if err != nil || result.Failed > 0 {
		c.flushErrorsTotal.Inc()
	}
}

// Start begins polling the occupancy gauges of w
func (c *EngineMetricsCollector) Start(ctx context.Context, w *world.World, interval time.Duration) {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	c.world = w
	c.ctx, c.cancelFunc = context.WithCancel(ctx)

	c.wg.Add(1)
	go c.collectOccupancy(interval)
}

// Stop gracefully stops the metrics collection
func (c *EngineMetricsCollector) Stop() {
	if c.cancelFunc != nil {
		c.cancelFunc()
	}
	c.wg.Wait()
}

func (c *EngineMetricsCollector) collectOccupancy(interval time.Duration) {
	defer c.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	c.updateOccupancy()
	for {
		select {
		case <-c.ctx.Done():
			return
		case <-ticker.C:
			c.updateOccupancy()
		}
	}
}

type stageOccupancy struct {
	active, inert   int
	inputs, outputs int
	levelSum        float64
	gated           int
}

// updateOccupancy reads every unit summary and resets the gauges
func (c *EngineMetricsCollector) updateOccupancy() {
	if c.world == nil {
		return
	}

	byStage := make(map[processing.StageID]*stageOccupancy)
	for _, id := range c.world.Units() {
		_ = c.world.WithUnit(id, func(u *processing.Unit) error {
			occ, ok := byStage[u.StageID()]
			if !ok {
				occ = &stageOccupancy{}
				byStage[u.StageID()] = occ
			}
			s := u.Summary()
			if s.Inert {
				occ.inert++
				return nil
			}
			occ.active++
			occ.inputs += s.InputCount
			occ.outputs += s.OutputCount
			if s.ResourceCapacity > 0 {
				occ.gated++
				occ.levelSum += float64(s.ResourceLevel) / float64(s.ResourceCapacity)
			}
			return nil
		})
	}

	// Reset to drop stages whose units were removed
	c.unitsTotal.Reset()
	c.slotsOccupied.Reset()
	c.resourceLevel.Reset()

	for stage, occ := range byStage {
		label := string(stage)
		c.unitsTotal.WithLabelValues(label, "active").Set(float64(occ.active))
		c.unitsTotal.WithLabelValues(label, "inert").Set(float64(occ.inert))
		c.slotsOccupied.WithLabelValues(label, "input").Set(float64(occ.inputs))
		c.slotsOccupied.WithLabelValues(label, "output").Set(float64(occ.outputs))
		if occ.gated > 0 {
			c.resourceLevel.WithLabelValues(label).Set(occ.levelSum / float64(occ.gated))
		}
	}
	c.dirtyBacklog.Set(float64(len(c.world.DirtyUnits())))
}
