package instance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/GriffinCanCode/AniWidgets/internal/infrastructure/logging"
	"github.com/GriffinCanCode/AniWidgets/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/AniWidgets/internal/providers/storage"
	"github.com/GriffinCanCode/AniWidgets/internal/shared/clock"
	"github.com/GriffinCanCode/AniWidgets/internal/shared/id"
	"github.com/GriffinCanCode/AniWidgets/internal/shared/paths"
	"github.com/GriffinCanCode/AniWidgets/internal/shared/types"
	"go.uber.org/zap"
)

// Repository persists one document per widget instance
type Repository struct {
	store   storage.Store
	ids     *id.Generator
	clock   clock.Clock
	logger  *zap.Logger
	metrics *monitoring.Metrics
}

// Option configures a Repository
type Option func(*Repository)

// WithClock overrides the time source
func WithClock(c clock.Clock) Option {
	return func(r *Repository) { r.clock = c }
}

// WithGenerator overrides the ID generator
func WithGenerator(g *id.Generator) Option {
	return func(r *Repository) { r.ids = g }
}

// WithMetrics records state writes
func WithMetrics(m *monitoring.Metrics) Option {
	return func(r *Repository) { r.metrics = m }
}

// NewRepository creates an instance repository on store
func NewRepository(store storage.Store, logger *zap.Logger, opts ...Option) *Repository {
	r := &Repository{
		store:  store,
		ids:    id.Default(),
		clock:  clock.System{},
		logger: logging.Component(logger, "instance"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Now returns the repository's notion of the current time
func (r *Repository) Now() time.Time {
	return r.clock.Now()
}

// ErrInvalidDocument marks a document that decodes but is not a usable
// instance: its ID does not match its path or it breaks the invariants.
var ErrInvalidDocument = errors.New("invalid instance document")

// Load reads an instance document. Missing and corrupt documents both report
// false; IO failures are logged and also report false.
func (r *Repository) Load(ctx context.Context, instanceID string) (*types.WidgetInstance, bool) {
	if instanceID == "" {
		return nil, false
	}

	inst, err := r.read(ctx, instanceID)
	switch {
	case err == nil:
		return inst, true
	case storage.IsNotFound(err):
	case isCorrupt(err):
		r.logger.Warn("Discarding corrupt instance document",
			zap.String("instance_id", instanceID), zap.Error(err))
	default:
		r.logger.Error("Failed to read instance",
			zap.String("instance_id", instanceID), zap.Error(err))
	}
	return nil, false
}

// read loads and checks one document, keeping the failure class:
// storage.ErrNotFound, storage.ErrDecode, ErrInvalidDocument, or an IO error.
func (r *Repository) read(ctx context.Context, instanceID string) (*types.WidgetInstance, error) {
	var inst types.WidgetInstance
	if err := storage.ReadJSON(ctx, r.store, paths.InstanceDoc(instanceID), &inst); err != nil {
		return nil, err
	}
	if inst.InstanceID != instanceID {
		return nil, fmt.Errorf("%w: document ID %q", ErrInvalidDocument, inst.InstanceID)
	}
	if err := inst.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	return &inst, nil
}

// isCorrupt reports a document that exists but will never load
func isCorrupt(err error) bool {
	return errors.Is(err, storage.ErrDecode) || errors.Is(err, ErrInvalidDocument)
}

// Save fully overwrites the instance document
func (r *Repository) Save(ctx context.Context, inst *types.WidgetInstance) error {
	return r.save(ctx, inst, "save")
}

func (r *Repository) save(ctx context.Context, inst *types.WidgetInstance, reason string) error {
	if inst == nil {
		return fmt.Errorf("instance is required")
	}
	if err := inst.Validate(); err != nil {
		return fmt.Errorf("refusing to save invalid instance %s: %w", inst.InstanceID, err)
	}

	err := storage.WriteJSON(ctx, r.store, paths.InstanceDoc(inst.InstanceID), inst)
	r.metrics.RecordStateWrite(reason, err)
	if err != nil {
		r.logger.Error("Failed to save instance",
			zap.String("instance_id", inst.InstanceID), zap.String("reason", reason), zap.Error(err))
		return fmt.Errorf("failed to save instance: %w", err)
	}
	return nil
}

// Create writes a fresh idle instance for designID under a new ID.
// The returned instance is usable even when the write failed.
func (r *Repository) Create(ctx context.Context, designID string) (*types.WidgetInstance, error) {
	inst := types.NewWidgetInstance(r.ids.NewInstanceID().String(), designID, r.clock.Now())
	if err := r.save(ctx, inst, "create"); err != nil {
		return inst, err
	}

	r.logger.Info("Created widget instance",
		zap.String("instance_id", inst.InstanceID), zap.String("design_id", designID))
	return inst, nil
}

// Reset writes a fresh idle document under an existing instance ID
func (r *Repository) Reset(ctx context.Context, instanceID, designID string) (*types.WidgetInstance, error) {
	inst := types.NewWidgetInstance(instanceID, designID, r.clock.Now())
	if err := r.save(ctx, inst, "reset"); err != nil {
		return inst, err
	}
	return inst, nil
}

// Delete removes an instance document
func (r *Repository) Delete(ctx context.Context, instanceID string) error {
	if instanceID == "" {
		return fmt.Errorf("instance ID is required")
	}
	if err := r.store.Delete(ctx, paths.InstanceDoc(instanceID)); err != nil {
		return fmt.Errorf("failed to delete instance: %w", err)
	}
	return nil
}

// Exists checks if an instance document exists
func (r *Repository) Exists(ctx context.Context, instanceID string) bool {
	return instanceID != "" && r.store.Exists(ctx, paths.InstanceDoc(instanceID))
}

// List enumerates all readable instance documents
func (r *Repository) List(ctx context.Context) ([]*types.WidgetInstance, error) {
	names, err := r.store.List(ctx, paths.Instances)
	if err != nil {
		return nil, fmt.Errorf("failed to list instances: %w", err)
	}

	out := make([]*types.WidgetInstance, 0, len(names))
	for _, name := range names {
		instanceID, ok := paths.InstanceIDFromDoc(name)
		if !ok {
			continue
		}
		if inst, ok := r.Load(ctx, instanceID); ok {
			out = append(out, inst)
		}
	}
	return out, nil
}
