package setup

import (
	"reflect"

	"github.com/andrescamacho/slotworks-go/internal/application/auth"
	"github.com/andrescamacho/slotworks-go/internal/application/logging"
	"github.com/andrescamacho/slotworks-go/internal/application/mediator"
	minigameCommands "github.com/andrescamacho/slotworks-go/internal/application/minigame/commands"
	minigameQueries "github.com/andrescamacho/slotworks-go/internal/application/minigame/queries"
	processingCommands "github.com/andrescamacho/slotworks-go/internal/application/processing/commands"
	processingQueries "github.com/andrescamacho/slotworks-go/internal/application/processing/queries"
	"github.com/andrescamacho/slotworks-go/internal/application/world"
)

// HandlerRegistry holds all application dependencies for handler creation
type HandlerRegistry struct {
	world       *world.World
	logger      logging.ContainerLogger
	middlewares []mediator.Middleware
}

// NewHandlerRegistry creates a new handler registry. Extra middlewares run
// inside the logging and actor middlewares, in the order given.
func NewHandlerRegistry(w *world.World, logger logging.ContainerLogger, middlewares ...mediator.Middleware) *HandlerRegistry {
	return &HandlerRegistry{
		world:       w,
		logger:      logger,
		middlewares: middlewares,
	}
}

type registration struct {
	request interface{}
	handler mediator.RequestHandler
}

func register(m mediator.Mediator, regs []registration) error {
	for _, r := range regs {
		if err := m.Register(reflect.TypeOf(r.request), r.handler); err != nil {
			return err
		}
	}
	return nil
}

// RegisterProcessingHandlers registers the processing unit commands and queries
func (r *HandlerRegistry) RegisterProcessingHandlers(m mediator.Mediator) error {
	return register(m, []registration{
		{&processingCommands.PlaceUnitCommand{}, processingCommands.NewPlaceUnitHandler(r.world)},
		{&processingCommands.InsertInputCommand{}, processingCommands.NewInsertInputHandler(r.world)},
		{&processingCommands.ExtractOutputCommand{}, processingCommands.NewExtractOutputHandler(r.world)},
		{&processingCommands.DepositResourceCommand{}, processingCommands.NewDepositResourceHandler(r.world)},
		{&processingCommands.TickWorldCommand{}, processingCommands.NewTickWorldHandler(r.world)},
		{&processingQueries.GetUnitStatusQuery{}, processingQueries.NewGetUnitStatusHandler(r.world)},
		{&processingQueries.ListUnitsQuery{}, processingQueries.NewListUnitsHandler(r.world)},
	})
}

// RegisterMinigameHandlers registers the timing station commands and queries
func (r *HandlerRegistry) RegisterMinigameHandlers(m mediator.Mediator) error {
	return register(m, []registration{
		{&minigameCommands.PlaceMinigameCommand{}, minigameCommands.NewPlaceMinigameHandler(r.world)},
		{&minigameCommands.AddIngredientCommand{}, minigameCommands.NewAddIngredientHandler(r.world)},
		{&minigameCommands.StartCookingCommand{}, minigameCommands.NewStartCookingHandler(r.world)},
		{&minigameCommands.RemoveProductCommand{}, minigameCommands.NewRemoveProductHandler(r.world)},
		{&minigameCommands.CancelCookingCommand{}, minigameCommands.NewCancelCookingHandler(r.world)},
		{&minigameCommands.ExtractProductCommand{}, minigameCommands.NewExtractProductHandler(r.world)},
		{&minigameQueries.GetMinigameStatusQuery{}, minigameQueries.NewGetMinigameStatusHandler(r.world)},
	})
}

// CreateConfiguredMediator creates a mediator with every handler registered
//
// Middleware order, outermost first:
//  1. logging (injects the logger, logs failures)
//  2. actor (fills ActorID from context)
//  3. the registry's extra middlewares, e.g. command metrics
func (r *HandlerRegistry) CreateConfiguredMediator() (mediator.Mediator, error) {
	m := mediator.NewMediator()

	if r.logger != nil {
		m.Use(logging.LoggingMiddleware(r.logger))
	}
	m.Use(auth.ActorMiddleware())
	for _, mw := range r.middlewares {
		m.Use(mw)
	}

	if err := r.RegisterProcessingHandlers(m); err != nil {
		return nil, err
	}
	if err := r.RegisterMinigameHandlers(m); err != nil {
		return nil, err
	}
	return m, nil
}
