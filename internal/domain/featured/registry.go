package featured

import (
	"context"
	"errors"
	"fmt"

	"github.com/GriffinCanCode/AniWidgets/internal/infrastructure/logging"
	"github.com/GriffinCanCode/AniWidgets/internal/providers/storage"
	"github.com/GriffinCanCode/AniWidgets/internal/shared/paths"
	"github.com/GriffinCanCode/AniWidgets/internal/shared/types"
	"github.com/GriffinCanCode/AniWidgets/internal/shared/utils"
	"go.uber.org/zap"
)

// Notifier asks widget hosts to re-poll after the registry changed
type Notifier interface {
	ReloadAll(ctx context.Context, reason string) error
}

// Registry reads and mutates the featured slot document.
// Every mutation is a load-modify-save of the whole document.
type Registry struct {
	store    storage.Store
	notifier Notifier
	logger   *zap.Logger
}

// NewRegistry creates a featured registry on store. notifier may be nil.
func NewRegistry(store storage.Store, notifier Notifier, logger *zap.Logger) *Registry {
	return &Registry{
		store:    store,
		notifier: notifier,
		logger:   logging.Component(logger, "featured"),
	}
}

// Load returns the persisted registry, or an empty one when the document is
// missing, corrupt or unreadable.
func (r *Registry) Load(ctx context.Context) *types.FeaturedRegistry {
	reg := types.NewFeaturedRegistry()
	err := storage.ReadJSON(ctx, r.store, paths.FeaturedConfig, reg)
	switch {
	case err == nil:
	case storage.IsNotFound(err):
		return types.NewFeaturedRegistry()
	case errors.Is(err, storage.ErrDecode):
		r.logger.Warn("Featured registry is corrupt, using empty registry", zap.Error(err))
		return types.NewFeaturedRegistry()
	default:
		r.logger.Error("Failed to read featured registry", zap.Error(err))
		return types.NewFeaturedRegistry()
	}

	reg.Normalize()
	return reg
}

// Save persists the registry
func (r *Registry) Save(ctx context.Context, reg *types.FeaturedRegistry) error {
	reg.Normalize()
	if err := storage.WriteJSON(ctx, r.store, paths.FeaturedConfig, reg); err != nil {
		return fmt.Errorf("failed to save featured registry: %w", err)
	}
	return nil
}

// AddDesign appends a design to the next free slot. It returns false when the
// design is already featured, every slot is taken or the write failed.
func (r *Registry) AddDesign(ctx context.Context, designID string) bool {
	if err := utils.ValidateDesignID(designID); err != nil {
		r.logger.Warn("Rejected featured design", zap.String("design_id", designID), zap.Error(err))
		return false
	}

	reg := r.Load(ctx)
	if reg.Contains(designID) || reg.IsFull() {
		return false
	}

	reg.Designs = append(reg.Designs, designID)
	return r.commit(ctx, reg, "featured design added")
}

// RemoveDesign drops a design, shifting later slots down. It returns false
// when the design was not featured or the write failed.
func (r *Registry) RemoveDesign(ctx context.Context, designID string) bool {
	reg := r.Load(ctx)
	idx := reg.IndexOf(designID)
	if idx < 0 {
		return false
	}

	reg.Designs = append(reg.Designs[:idx], reg.Designs[idx+1:]...)
	return r.commit(ctx, reg, "featured design removed")
}

// Reorder replaces the slot order. Unknown and duplicate IDs are dropped and
// the result is truncated to the slot count.
func (r *Registry) Reorder(ctx context.Context, order []string) bool {
	reg := r.Load(ctx)

	known := make(map[string]bool, len(reg.Designs))
	for _, d := range reg.Designs {
		known[d] = true
	}

	next := make([]string, 0, types.MaxFeaturedSlots)
	for _, d := range order {
		if known[d] {
			next = append(next, d)
			delete(known, d)
		}
		if len(next) == types.MaxFeaturedSlots {
			break
		}
	}

	reg.Designs = next
	return r.commit(ctx, reg, "featured designs reordered")
}

// DesignAt returns the design bound to a slot
func (r *Registry) DesignAt(ctx context.Context, slot int) (string, bool) {
	if slot < 0 || slot >= types.MaxFeaturedSlots {
		return "", false
	}
	reg := r.Load(ctx)
	if slot >= len(reg.Designs) {
		return "", false
	}
	return reg.Designs[slot], true
}

func (r *Registry) commit(ctx context.Context, reg *types.FeaturedRegistry, reason string) bool {
	if err := r.Save(ctx, reg); err != nil {
		r.logger.Error("Failed to update featured registry", zap.String("reason", reason), zap.Error(err))
		return false
	}

	r.logger.Info("Featured registry updated", zap.String("reason", reason), zap.Strings("designs", reg.Designs))
	if r.notifier != nil {
		if err := r.notifier.ReloadAll(ctx, reason); err != nil {
			r.logger.Warn("Failed to signal widget reload", zap.Error(err))
		}
	}
	return true
}
