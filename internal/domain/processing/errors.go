package processing

import "fmt"

// ErrUnknownStage indicates a unit references a stage the catalog does not contain
type ErrUnknownStage struct {
	StageID StageID
}

func (e *ErrUnknownStage) Error() string {
	return fmt.Sprintf("unknown stage: %s", e.StageID)
}

// ErrInvalidStage indicates a stage descriptor failed validation
type ErrInvalidStage struct {
	StageID StageID
	Reason  string
}

func (e *ErrInvalidStage) Error() string {
	return fmt.Sprintf("invalid stage %s: %s", e.StageID, e.Reason)
}

// ErrInvalidMaterial indicates a material could not be constructed
type ErrInvalidMaterial struct {
	Kind   Kind
	Reason string
}

func (e *ErrInvalidMaterial) Error() string {
	if e.Kind != "" {
		return fmt.Sprintf("invalid material %s: %s", e.Kind, e.Reason)
	}
	return fmt.Sprintf("invalid material: %s", e.Reason)
}

// ErrUnsupportedSnapshotVersion indicates a snapshot written by a newer schema
type ErrUnsupportedSnapshotVersion struct {
	Version int
	Max     int
}

func (e *ErrUnsupportedSnapshotVersion) Error() string {
	return fmt.Sprintf("unsupported snapshot version %d (max %d)", e.Version, e.Max)
}
