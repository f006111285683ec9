package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"

	"github.com/andrescamacho/slotworks-go/internal/adapters/catalog"
	"github.com/andrescamacho/slotworks-go/internal/application/auth"
	"github.com/andrescamacho/slotworks-go/internal/application/common"
	"github.com/andrescamacho/slotworks-go/internal/application/logging"
	"github.com/andrescamacho/slotworks-go/internal/application/setup"
	"github.com/andrescamacho/slotworks-go/internal/application/world"
	"github.com/andrescamacho/slotworks-go/internal/infrastructure/bootstrap"
	"github.com/andrescamacho/slotworks-go/internal/infrastructure/config"
)

// offlineEngine is an in-process world with its mediator, used by commands
// that do not need the daemon
type offlineEngine struct {
	def      *catalog.Definition
	cfg      *config.Config
	world    *world.World
	mediator common.Mediator
}

// loadDefinition resolves --catalog, then the user default, then the
// built-in catalog
func loadDefinition() (*catalog.Definition, error) {
	handler, err := newUserConfigHandler()
	if err != nil {
		handler = nil
	}
	return bootstrap.LoadDefinition(catalogPath, handler)
}

// newOfflineEngine builds a fresh world. seed overrides the configured seed
// when non-zero.
func newOfflineEngine(seed int64, opts ...world.Option) (*offlineEngine, error) {
	def, err := loadDefinition()
	if err != nil {
		return nil, err
	}

	cfg := config.LoadConfigOrDefault(configPath)
	engineCfg := cfg.Engine
	if seed != 0 {
		engineCfg.RandomSeed = seed
	}

	logger := logging.NewStdLogger(os.Stderr, "warn", "text")
	w := bootstrap.NewWorld(def, engineCfg, append([]world.Option{world.WithLogger(logger)}, opts...)...)
	m, err := setup.NewHandlerRegistry(w, logger).CreateConfiguredMediator()
	if err != nil {
		return nil, fmt.Errorf("failed to configure mediator: %w", err)
	}

	return &offlineEngine{def: def, cfg: cfg, world: w, mediator: m}, nil
}

// resolveSeed prefers the flag, then the user default seed
func resolveSeed(flag int64) int64 {
	if flag != 0 {
		return flag
	}
	handler, err := newUserConfigHandler()
	if err != nil {
		return 0
	}
	userCfg, err := handler.Load()
	if err != nil || userCfg.DefaultSeed == nil {
		return 0
	}
	return *userCfg.DefaultSeed
}

// actorContext attaches --actor to ctx
func actorContext(ctx context.Context) (context.Context, error) {
	if actorID == "" {
		return ctx, nil
	}
	actor, err := uuid.Parse(actorID)
	if err != nil {
		return nil, fmt.Errorf("invalid --actor: %w", err)
	}
	return auth.WithActor(ctx, actor), nil
}

// send dispatches request and asserts the response type
func send[T any](ctx context.Context, m common.Mediator, request common.Request) (*T, error) {
	resp, err := m.Send(ctx, request)
	if err != nil {
		return nil, err
	}
	typed, ok := resp.(*T)
	if !ok {
		return nil, fmt.Errorf("unexpected response type %T", resp)
	}
	return typed, nil
}
