package grpc

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/andrescamacho/slotworks-go/internal/application/common"
	minigameCommands "github.com/andrescamacho/slotworks-go/internal/application/minigame/commands"
	minigameQueries "github.com/andrescamacho/slotworks-go/internal/application/minigame/queries"
	processingCommands "github.com/andrescamacho/slotworks-go/internal/application/processing/commands"
	processingQueries "github.com/andrescamacho/slotworks-go/internal/application/processing/queries"
	"github.com/andrescamacho/slotworks-go/internal/application/world"
	"github.com/andrescamacho/slotworks-go/internal/domain/minigame"
	"github.com/andrescamacho/slotworks-go/internal/domain/processing"
	"github.com/andrescamacho/slotworks-go/internal/domain/shared"
)

// engineServiceImpl bridges gRPC requests to the mediator
type engineServiceImpl struct {
	mediator common.Mediator
	world    *world.World
}

// NewEngineService creates the engine service implementation
func NewEngineService(mediator common.Mediator, w *world.World) EngineServer {
	return &engineServiceImpl{mediator: mediator, world: w}
}

// send dispatches a request and asserts the response type
func send[T any](ctx context.Context, m common.Mediator, request common.Request) (*T, error) {
	response, err := m.Send(ctx, request)
	if err != nil {
		return nil, toStatus(err)
	}
	typed, ok := response.(*T)
	if !ok {
		return nil, status.Errorf(codes.Internal, "unexpected response type %T", response)
	}
	return typed, nil
}

// toStatus maps application errors onto gRPC status codes
func toStatus(err error) error {
	var (
		unitNotFound     *world.ErrUnitNotFound
		minigameNotFound *world.ErrMinigameNotFound
		duplicate        *world.ErrDuplicateID
		unknownRecipe    *world.ErrUnknownRecipe
		invalidPhase     *minigame.ErrInvalidPhase
		threshold        *minigame.ErrThresholdNotMet
		rejected         *minigame.ErrIngredientRejected
		invalidMaterial  *processing.ErrInvalidMaterial
		validation       *shared.ValidationError
	)
	switch {
	case errors.As(err, &unitNotFound), errors.As(err, &minigameNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.As(err, &duplicate):
		return status.Error(codes.AlreadyExists, err.Error())
	case errors.As(err, &invalidPhase), errors.As(err, &threshold):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.As(err, &unknownRecipe), errors.As(err, &rejected),
		errors.As(err, &invalidMaterial), errors.As(err, &validation):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	}
	return status.Error(codes.Unknown, err.Error())
}

func invalidArgument(err error) error {
	return status.Error(codes.InvalidArgument, err.Error())
}

// EngineInfo reports the world clock and population
func (s *engineServiceImpl) EngineInfo(ctx context.Context, req *EngineInfoRequest) (*EngineInfoReply, error) {
	reply := &EngineInfoReply{
		Tick:      s.world.CurrentTick(),
		Units:     len(s.world.Units()),
		Minigames: len(s.world.Minigames()),
		Dirty:     len(s.world.DirtyUnits()),
	}
	if catalog := s.world.Catalog(); catalog != nil {
		reply.Stages = catalog.Len()
	}
	if recipes := s.world.Recipes(); recipes != nil {
		reply.Recipes = len(recipes.Recipes())
	}
	return reply, nil
}

// PlaceUnit places a processing unit
func (s *engineServiceImpl) PlaceUnit(ctx context.Context, req *PlaceUnitRequest) (*PlaceUnitReply, error) {
	id, err := parseOptionalID("unit_id", req.UnitID)
	if err != nil {
		return nil, invalidArgument(err)
	}

	resp, err := send[processingCommands.PlaceUnitResponse](ctx, s.mediator, &processingCommands.PlaceUnitCommand{
		StageID: req.StageID,
		UnitID:  id,
	})
	if err != nil {
		return nil, err
	}

	return &PlaceUnitReply{
		UnitID:   resp.UnitID.String(),
		StageID:  resp.StageID,
		Capacity: resp.Capacity,
		Inert:    resp.Inert,
		Error:    resp.Error,
	}, nil
}

// InsertInput inserts a material into a unit's first free slot
func (s *engineServiceImpl) InsertInput(ctx context.Context, req *InsertInputRequest) (*InsertInputReply, error) {
	id, err := parseID("unit_id", req.UnitID)
	if err != nil {
		return nil, invalidArgument(err)
	}

	resp, err := send[processingCommands.InsertInputResponse](ctx, s.mediator, &processingCommands.InsertInputCommand{
		UnitID:        id,
		Kind:          req.Kind,
		QualitySystem: req.QualitySystem,
		Quality:       req.Quality,
		Amount:        req.Amount,
	})
	if err != nil {
		return nil, err
	}

	return &InsertInputReply{
		Accepted: resp.Accepted,
		Material: ToMaterialMessage(resp.Material),
		Summary:  toSummaryMessage(resp.Summary),
	}, nil
}

// ExtractOutput drains a unit's ready slots
func (s *engineServiceImpl) ExtractOutput(ctx context.Context, req *ExtractOutputRequest) (*ExtractOutputReply, error) {
	id, err := parseID("unit_id", req.UnitID)
	if err != nil {
		return nil, invalidArgument(err)
	}

	resp, err := send[processingCommands.ExtractOutputResponse](ctx, s.mediator, &processingCommands.ExtractOutputCommand{
		UnitID:  id,
		Grouped: req.Grouped,
	})
	if err != nil {
		return nil, err
	}

	return &ExtractOutputReply{Materials: toMaterialMessages(resp.Materials)}, nil
}

// DepositResource tops up a unit's resource gate
func (s *engineServiceImpl) DepositResource(ctx context.Context, req *DepositResourceRequest) (*DepositResourceReply, error) {
	id, err := parseID("unit_id", req.UnitID)
	if err != nil {
		return nil, invalidArgument(err)
	}

	resp, err := send[processingCommands.DepositResourceResponse](ctx, s.mediator, &processingCommands.DepositResourceCommand{
		UnitID: id,
		Amount: req.Amount,
	})
	if err != nil {
		return nil, err
	}

	return &DepositResourceReply{
		Accepted: resp.Accepted,
		Kind:     string(resp.Kind),
		Level:    resp.Level,
		Capacity: resp.Capacity,
	}, nil
}

// UnitStatus returns one unit's read model
func (s *engineServiceImpl) UnitStatus(ctx context.Context, req *UnitStatusRequest) (*UnitMessage, error) {
	id, err := parseID("unit_id", req.UnitID)
	if err != nil {
		return nil, invalidArgument(err)
	}

	resp, err := send[processingQueries.GetUnitStatusResponse](ctx, s.mediator, &processingQueries.GetUnitStatusQuery{UnitID: id})
	if err != nil {
		return nil, err
	}

	msg := ToUnitMessage(resp.Status)
	return &msg, nil
}

// ListUnits returns every unit, optionally filtered by stage
func (s *engineServiceImpl) ListUnits(ctx context.Context, req *ListUnitsRequest) (*ListUnitsReply, error) {
	resp, err := send[processingQueries.ListUnitsResponse](ctx, s.mediator, &processingQueries.ListUnitsQuery{StageID: req.StageID})
	if err != nil {
		return nil, err
	}

	reply := &ListUnitsReply{Units: make([]UnitMessage, 0, len(resp.Units))}
	for _, u := range resp.Units {
		reply.Units = append(reply.Units, ToUnitMessage(u))
	}
	return reply, nil
}

// PlaceMinigame places a timing station
func (s *engineServiceImpl) PlaceMinigame(ctx context.Context, req *PlaceMinigameRequest) (*PlaceMinigameReply, error) {
	id, err := parseOptionalID("minigame_id", req.MinigameID)
	if err != nil {
		return nil, invalidArgument(err)
	}

	resp, err := send[minigameCommands.PlaceMinigameResponse](ctx, s.mediator, &minigameCommands.PlaceMinigameCommand{
		RecipeID:   req.RecipeID,
		MinigameID: id,
	})
	if err != nil {
		return nil, err
	}

	return &PlaceMinigameReply{MinigameID: resp.MinigameID.String(), RecipeID: resp.RecipeID}, nil
}

// AddIngredient loads a primary or secondary ingredient
func (s *engineServiceImpl) AddIngredient(ctx context.Context, req *AddIngredientRequest) (*AddIngredientReply, error) {
	id, err := parseID("minigame_id", req.MinigameID)
	if err != nil {
		return nil, invalidArgument(err)
	}

	resp, err := send[minigameCommands.AddIngredientResponse](ctx, s.mediator, &minigameCommands.AddIngredientCommand{
		MinigameID:    id,
		Kind:          req.Kind,
		QualitySystem: req.QualitySystem,
		Quality:       req.Quality,
		Amount:        req.Amount,
	})
	if err != nil {
		return nil, err
	}

	return &AddIngredientReply{
		Role:      resp.Role,
		Accepted:  resp.Accepted,
		Primary:   resp.Primary,
		Secondary: resp.Secondary,
		Phase:     string(resp.Phase),
	}, nil
}

// StartCooking begins a timing cycle for the calling actor
func (s *engineServiceImpl) StartCooking(ctx context.Context, req *MinigameRequest) (*PhaseReply, error) {
	id, err := parseID("minigame_id", req.MinigameID)
	if err != nil {
		return nil, invalidArgument(err)
	}

	resp, err := send[minigameCommands.StartCookingResponse](ctx, s.mediator, &minigameCommands.StartCookingCommand{MinigameID: id})
	if err != nil {
		return nil, err
	}

	return &PhaseReply{Phase: string(resp.Phase), CycleTicks: resp.CycleTicks}, nil
}

// RemoveProduct resolves the cook at the current tick
func (s *engineServiceImpl) RemoveProduct(ctx context.Context, req *MinigameRequest) (*ResolutionReply, error) {
	id, err := parseID("minigame_id", req.MinigameID)
	if err != nil {
		return nil, invalidArgument(err)
	}

	resp, err := send[minigameCommands.RemoveProductResponse](ctx, s.mediator, &minigameCommands.RemoveProductCommand{MinigameID: id})
	if err != nil {
		return nil, err
	}

	r := resp.Resolution
	return &ResolutionReply{
		Tick:     r.Tick,
		Score:    r.Score,
		Zone:     r.Zone.String(),
		Tier:     r.Tier.Name(),
		Bonus:    r.Bonus,
		TimedOut: r.TimedOut,
		Output:   ToMaterialMessage(r.Output),
	}, nil
}

// CancelCooking aborts the current cycle
func (s *engineServiceImpl) CancelCooking(ctx context.Context, req *MinigameRequest) (*PhaseReply, error) {
	id, err := parseID("minigame_id", req.MinigameID)
	if err != nil {
		return nil, invalidArgument(err)
	}

	resp, err := send[minigameCommands.CancelCookingResponse](ctx, s.mediator, &minigameCommands.CancelCookingCommand{MinigameID: id})
	if err != nil {
		return nil, err
	}

	return &PhaseReply{Phase: string(resp.Phase)}, nil
}

// ExtractProduct takes the resolved product
func (s *engineServiceImpl) ExtractProduct(ctx context.Context, req *MinigameRequest) (*ExtractProductReply, error) {
	id, err := parseID("minigame_id", req.MinigameID)
	if err != nil {
		return nil, invalidArgument(err)
	}

	resp, err := send[minigameCommands.ExtractProductResponse](ctx, s.mediator, &minigameCommands.ExtractProductCommand{MinigameID: id})
	if err != nil {
		return nil, err
	}

	return &ExtractProductReply{Extracted: resp.Extracted, Product: toOptionalMaterial(resp.Product)}, nil
}

// MinigameStatus returns one minigame's read model
func (s *engineServiceImpl) MinigameStatus(ctx context.Context, req *MinigameRequest) (*MinigameMessage, error) {
	id, err := parseID("minigame_id", req.MinigameID)
	if err != nil {
		return nil, invalidArgument(err)
	}

	resp, err := send[minigameQueries.GetMinigameStatusResponse](ctx, s.mediator, &minigameQueries.GetMinigameStatusQuery{MinigameID: id})
	if err != nil {
		return nil, err
	}

	msg := ToMinigameMessage(resp.Status)
	return &msg, nil
}
