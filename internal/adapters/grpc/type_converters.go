package grpc

import (
	"fmt"

	"github.com/google/uuid"

	minigameQueries "github.com/andrescamacho/slotworks-go/internal/application/minigame/queries"
	processingQueries "github.com/andrescamacho/slotworks-go/internal/application/processing/queries"
	"github.com/andrescamacho/slotworks-go/internal/domain/processing"
)

// Conversion helpers for the domain <-> wire boundary

func parseID(field, raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid %s %q: %w", field, raw, err)
	}
	return id, nil
}

// parseOptionalID maps an empty string to uuid.Nil
func parseOptionalID(field, raw string) (uuid.UUID, error) {
	if raw == "" {
		return uuid.Nil, nil
	}
	return parseID(field, raw)
}

func optionalID(id uuid.UUID) string {
	if id == uuid.Nil {
		return ""
	}
	return id.String()
}

// ToMaterialMessage converts a material to its wire form
func ToMaterialMessage(m processing.Material) MaterialMessage {
	msg := MaterialMessage{Kind: string(m.Kind), Amount: m.Amount}
	if !m.Quality.IsZero() {
		msg.QualitySystem = m.Quality.System().Name()
		msg.Quality = m.Quality.Name()
	}
	return msg
}

func toOptionalMaterial(m processing.Material) *MaterialMessage {
	if m.IsZero() {
		return nil
	}
	msg := ToMaterialMessage(m)
	return &msg
}

func toMaterialMessages(ms []processing.Material) []MaterialMessage {
	out := make([]MaterialMessage, 0, len(ms))
	for _, m := range ms {
		out = append(out, ToMaterialMessage(m))
	}
	return out
}

func toSummaryMessage(s processing.OccupancySummary) SummaryMessage {
	return SummaryMessage{
		Capacity:           s.Capacity,
		InputCount:         s.InputCount,
		OutputCount:        s.OutputCount,
		FreeSlots:          s.FreeSlots,
		AverageProgress:    s.AverageProgress,
		PausedSlots:        s.PausedSlots,
		ResourceKind:       string(s.ResourceKind),
		ResourceLevel:      s.ResourceLevel,
		ResourceCapacity:   s.ResourceCapacity,
		ResourcePercentage: s.ResourcePercentage,
		Inert:              s.Inert,
	}
}

// ToUnitMessage converts a unit status query result to its wire form
func ToUnitMessage(u processingQueries.UnitStatus) UnitMessage {
	msg := UnitMessage{
		UnitID:    u.UnitID.String(),
		StageID:   u.StageID,
		StageName: u.StageName,
		Category:  string(u.Category),
		Ticks:     u.Ticks,
		Inert:     u.Inert,
		Error:     u.Error,
		Summary:   toSummaryMessage(u.Summary),
	}
	for _, s := range u.Slots {
		msg.Slots = append(msg.Slots, SlotMessage{
			Index:    s.Index,
			State:    s.State.String(),
			Input:    toOptionalMaterial(s.Input),
			Output:   toOptionalMaterial(s.Output),
			Progress: s.Progress,
			Fraction: s.Fraction,
		})
	}
	return msg
}

// ToMinigameMessage converts a minigame status query result to its wire form
func ToMinigameMessage(s minigameQueries.MinigameStatus) MinigameMessage {
	msg := MinigameMessage{
		MinigameID: s.MinigameID.String(),
		RecipeID:   s.RecipeID,
		RecipeName: s.RecipeName,
		Phase:      string(s.Phase),
		Primary:    s.Primary,
		Secondary:  s.Secondary,
		CookTick:   s.CookTick,
		CycleTicks: s.CycleTicks,
		Zone:       s.Zone.String(),
		Progress:   s.Progress,
		LastScore:  s.LastScore,
		Actor:      optionalID(s.Actor),
	}
	if !s.InputQuality.IsZero() {
		msg.InputQuality = s.InputQuality.Name()
	}
	if s.HasOutput {
		msg.Output = toOptionalMaterial(s.Output)
	}
	return msg
}
