package world

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/andrescamacho/slotworks-go/internal/application/logging"
	"github.com/andrescamacho/slotworks-go/internal/domain/minigame"
	"github.com/andrescamacho/slotworks-go/internal/domain/processing"
)

// FlushResult counts one flush
type FlushResult struct {
	Units     int
	Minigames int
	Failed    int
	Deferred  int
}

// PersistenceScheduler writes dirty entities through the snapshot
// repositories, bounded by a token bucket so a burst of changes does not
// turn into a burst of writes.
type PersistenceScheduler struct {
	world   *World
	units   processing.SnapshotRepository
	games   minigame.SnapshotRepository
	limiter *rate.Limiter
	breaker *CircuitBreaker
	logger  logging.ContainerLogger
}

// NewPersistenceScheduler creates a scheduler. writesPerSecond <= 0 disables
// throttling. Either repository may be nil, in which case that kind of
// entity is never written.
func NewPersistenceScheduler(
	world *World,
	units processing.SnapshotRepository,
	games minigame.SnapshotRepository,
	writesPerSecond float64,
	burst int,
	logger logging.ContainerLogger,
) *PersistenceScheduler {
	limit := rate.Inf
	if writesPerSecond > 0 {
		limit = rate.Limit(writesPerSecond)
	}
	if burst < 1 {
		burst = 1
	}
	if logger == nil {
		logger = logging.LoggerFromContext(context.Background())
	}
	return &PersistenceScheduler{
		world:   world,
		units:   units,
		games:   games,
		limiter: rate.NewLimiter(limit, burst),
		logger:  logger,
	}
}

// SetCircuitBreaker guards Flush with cb. FlushAll is never guarded.
func (s *PersistenceScheduler) SetCircuitBreaker(cb *CircuitBreaker) {
	s.breaker = cb
}

// Flush writes every dirty entity. When ctx ends mid-flush the unwritten
// ids are marked dirty again and ctx's error is returned. While the circuit
// breaker is open nothing is drained and ErrStoreUnavailable is returned.
func (s *PersistenceScheduler) Flush(ctx context.Context) (FlushResult, error) {
	if s.breaker == nil {
		return s.write(ctx, s.world.DrainDirty(), true)
	}

	var result FlushResult
	var writeErr error
	err := s.breaker.Call(func() error {
		result, writeErr = s.write(ctx, s.world.DrainDirty(), true)
		if result.Failed > 0 {
			return writeErr
		}
		// a cancelled context says nothing about the store
		return nil
	})
	if errors.Is(err, ErrStoreUnavailable) {
		result.Deferred = len(s.world.dirty.Peek())
		return result, err
	}
	return result, writeErr
}

// FlushAll writes every entity without throttling, e.g. on shutdown
func (s *PersistenceScheduler) FlushAll(ctx context.Context) (FlushResult, error) {
	s.world.DrainDirty()
	ids := append(s.world.Units(), s.world.Minigames()...)
	return s.write(ctx, ids, false)
}

func (s *PersistenceScheduler) write(ctx context.Context, ids []uuid.UUID, throttle bool) (FlushResult, error) {
	var result FlushResult

	for i, id := range ids {
		if throttle {
			if err := s.limiter.Wait(ctx); err != nil {
				s.world.MarkDirty(ids[i:]...)
				result.Deferred = len(ids) - i
				return result, err
			}
		} else if err := ctx.Err(); err != nil {
			s.world.MarkDirty(ids[i:]...)
			result.Deferred = len(ids) - i
			return result, err
		}

		unitSnap, gameSnap := s.world.Snapshot(id)
		var err error
		switch {
		case unitSnap != nil && s.units != nil:
			err = s.units.Save(ctx, *unitSnap)
			if err == nil {
				result.Units++
			}
		case gameSnap != nil && s.games != nil:
			err = s.games.Save(ctx, *gameSnap)
			if err == nil {
				result.Minigames++
			}
		default:
			continue
		}

		if err != nil {
			result.Failed++
			s.world.MarkDirty(id)
			s.logger.Log("ERROR", "snapshot write failed", map[string]interface{}{
				"id":    id.String(),
				"error": err.Error(),
			})
		}
	}

	if result.Failed > 0 {
		return result, fmt.Errorf("failed to persist %d of %d snapshots", result.Failed, len(ids))
	}
	return result, nil
}
