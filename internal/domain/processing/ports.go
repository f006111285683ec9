package processing

import (
	"context"

	"github.com/google/uuid"

	"github.com/andrescamacho/slotworks-go/internal/domain/quality"
)

// ChangeReason says why a unit reported itself changed
type ChangeReason string

const (
	ChangeInserted   ChangeReason = "inserted"
	ChangeExtracted  ChangeReason = "extracted"
	ChangeDeposited  ChangeReason = "deposited"
	ChangeProgressed ChangeReason = "progressed"
	ChangeCompleted  ChangeReason = "completed"
	ChangeResolved   ChangeReason = "resolved"
	ChangeCancelled  ChangeReason = "cancelled"
)

// ChangeSink receives "changed" notifications for persistence scheduling and sync
type ChangeSink interface {
	Changed(id uuid.UUID, reason ChangeReason)
}

// NopSink discards notifications
type NopSink struct{}

func (NopSink) Changed(uuid.UUID, ChangeReason) {}

// Logger matches the application logger so units can report configuration errors
type Logger interface {
	Log(level, message string, metadata map[string]interface{})
}

type nopLogger struct{}

func (nopLogger) Log(string, string, map[string]interface{}) {}

// KindSet reports whether a material kind exists in current content
type KindSet interface {
	KnownKind(k Kind) bool
}

// MaterialResolver turns persisted names back into domain values
type MaterialResolver interface {
	ResolveKind(name string) (Kind, bool)
	ResolveQuality(system, tier string) (quality.Tier, bool)
}

// Resolver resolves kinds against one or more kind sets and tiers against a registry
type Resolver struct {
	kinds    []KindSet
	registry *quality.Registry
}

// NewResolver creates a resolver; a kind is known if any set knows it
func NewResolver(registry *quality.Registry, kinds ...KindSet) *Resolver {
	return &Resolver{kinds: kinds, registry: registry}
}

func (r *Resolver) ResolveKind(name string) (Kind, bool) {
	k := Kind(name)
	if k == "" {
		return "", false
	}
	for _, set := range r.kinds {
		if set.KnownKind(k) {
			return k, true
		}
	}
	return "", false
}

func (r *Resolver) ResolveQuality(system, tier string) (quality.Tier, bool) {
	if r.registry == nil {
		return quality.Tier{}, false
	}
	return r.registry.Resolve(system, tier)
}

// SnapshotRepository persists unit snapshots keyed by unit id
type SnapshotRepository interface {
	Save(ctx context.Context, snap UnitSnapshot) error
	FindByID(ctx context.Context, unitID string) (*UnitSnapshot, error)
	FindAll(ctx context.Context) ([]UnitSnapshot, error)
	Delete(ctx context.Context, unitID string) error
}
