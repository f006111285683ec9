package minigame

import (
	"fmt"

	"github.com/andrescamacho/slotworks-go/internal/domain/processing"
)

// ErrInvalidPhase indicates an operation attempted in the wrong phase
type ErrInvalidPhase struct {
	Operation string
	Phase     Phase
}

func (e *ErrInvalidPhase) Error() string {
	return fmt.Sprintf("cannot %s in %s phase", e.Operation, e.Phase)
}

// ErrIngredientRejected indicates an ingredient was refused
type ErrIngredientRejected struct {
	Kind   processing.Kind
	Reason string
}

func (e *ErrIngredientRejected) Error() string {
	return fmt.Sprintf("ingredient %s rejected: %s", e.Kind, e.Reason)
}

// ErrThresholdNotMet indicates start was requested without enough ingredients
type ErrThresholdNotMet struct {
	Primary      int
	MinPrimary   int
	Secondary    int
	MinSecondary int
}

func (e *ErrThresholdNotMet) Error() string {
	return fmt.Sprintf("not enough ingredients: primary %d/%d, secondary %d/%d",
		e.Primary, e.MinPrimary, e.Secondary, e.MinSecondary)
}

// ErrInvalidProfile indicates a timing profile failed validation
type ErrInvalidProfile struct {
	Name   string
	Reason string
}

func (e *ErrInvalidProfile) Error() string {
	return fmt.Sprintf("invalid timing profile %s: %s", e.Name, e.Reason)
}
