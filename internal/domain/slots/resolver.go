package slots

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/GriffinCanCode/AniWidgets/internal/infrastructure/logging"
	"github.com/GriffinCanCode/AniWidgets/internal/providers/storage"
	"github.com/GriffinCanCode/AniWidgets/internal/shared/clock"
	"github.com/GriffinCanCode/AniWidgets/internal/shared/paths"
	"github.com/GriffinCanCode/AniWidgets/internal/shared/types"
	"go.uber.org/zap"
)

// ErrInvalidSlot is returned for a slot outside the featured range
var ErrInvalidSlot = errors.New("slots: invalid slot")

// Instances is the instance persistence the resolver needs
type Instances interface {
	Load(ctx context.Context, instanceID string) (*types.WidgetInstance, bool)
	Save(ctx context.Context, inst *types.WidgetInstance) error
	Create(ctx context.Context, designID string) (*types.WidgetInstance, error)
	Reset(ctx context.Context, instanceID, designID string) (*types.WidgetInstance, error)
}

// FrameCounter reports a design's frame count, 0 when unknown
type FrameCounter interface {
	FrameCount(ctx context.Context, designID string) int
}

// Mapping is the persisted slot to instance table
type Mapping struct {
	Slots map[string]string `json:"slots"`
}

// Resolver assigns a stable instance to every featured slot
type Resolver struct {
	store     storage.Store
	instances Instances
	frames    FrameCounter
	clock     clock.Clock
	logger    *zap.Logger
}

// NewResolver creates a slot resolver. frames and clk may be nil.
func NewResolver(store storage.Store, instances Instances, frames FrameCounter, clk clock.Clock, logger *zap.Logger) *Resolver {
	return &Resolver{
		store:     store,
		instances: instances,
		frames:    frames,
		clock:     clock.OrSystem(clk),
		logger:    logging.Component(logger, "slots"),
	}
}

func slotKey(slot int) string {
	return strconv.Itoa(slot)
}

func validSlot(slot int) error {
	if slot < 0 || slot >= types.MaxFeaturedSlots {
		return fmt.Errorf("%w: %d", ErrInvalidSlot, slot)
	}
	return nil
}

// load reads the mapping; missing or corrupt documents read as empty
func (r *Resolver) load(ctx context.Context) *Mapping {
	m := &Mapping{}
	if err := storage.ReadJSON(ctx, r.store, paths.SlotMap, m); err != nil {
		if !storage.IsNotFound(err) {
			r.logger.Warn("Slot mapping unreadable, starting empty", zap.Error(err))
		}
		m = &Mapping{}
	}
	if m.Slots == nil {
		m.Slots = make(map[string]string)
	}
	return m
}

func (r *Resolver) save(ctx context.Context, m *Mapping) error {
	if err := storage.WriteJSON(ctx, r.store, paths.SlotMap, m); err != nil {
		return fmt.Errorf("failed to save slot mapping: %w", err)
	}
	return nil
}

// Resolve returns the instance bound to slot, creating it on first sight and
// moving it to designID in place when the slot's design changed. The
// instance ID of a slot never changes once assigned.
func (r *Resolver) Resolve(ctx context.Context, slot int, designID string) (*types.WidgetInstance, error) {
	if err := validSlot(slot); err != nil {
		return nil, err
	}

	m := r.load(ctx)
	instanceID, mapped := m.Slots[slotKey(slot)]

	if !mapped || instanceID == "" {
		inst, err := r.instances.Create(ctx, designID)
		if err != nil {
			// The in-memory instance still renders; the next pass retries.
			r.logger.Warn("Failed to persist new slot instance", zap.Int("slot", slot), zap.Error(err))
		}
		m.Slots[slotKey(slot)] = inst.InstanceID
		if err := r.save(ctx, m); err != nil {
			r.logger.Error("Failed to record slot instance", zap.Int("slot", slot), zap.Error(err))
		}
		r.logger.Info("Assigned instance to slot",
			zap.Int("slot", slot), zap.String("instance_id", inst.InstanceID), zap.String("design_id", designID))
		return inst, nil
	}

	inst, ok := r.instances.Load(ctx, instanceID)
	if !ok {
		// Purged or corrupt: recreate under the same ID to keep identity.
		inst, err := r.instances.Reset(ctx, instanceID, designID)
		if err != nil {
			r.logger.Warn("Failed to recreate slot instance",
				zap.Int("slot", slot), zap.String("instance_id", instanceID), zap.Error(err))
		}
		return inst, nil
	}

	if inst.DesignID != designID {
		previous := inst.DesignID
		inst.Reassign(designID, r.frameCount(ctx, designID), r.clock.Now())
		if err := r.instances.Save(ctx, inst); err != nil {
			r.logger.Warn("Failed to persist design change",
				zap.String("instance_id", instanceID), zap.Error(err))
		}
		r.logger.Info("Slot design changed",
			zap.Int("slot", slot),
			zap.String("instance_id", instanceID),
			zap.String("from", previous),
			zap.String("to", designID))
	}
	return inst, nil
}

// ResolveInstance returns the instance ID bound to slot for designID.
// It returns an empty string only for an invalid slot.
func (r *Resolver) ResolveInstance(ctx context.Context, slot int, designID string) string {
	inst, err := r.Resolve(ctx, slot, designID)
	if err != nil {
		r.logger.Warn("Failed to resolve instance", zap.Int("slot", slot), zap.Error(err))
		return ""
	}
	return inst.InstanceID
}

// SlotOf returns the slot an instance is bound to
func (r *Resolver) SlotOf(ctx context.Context, instanceID string) (int, bool) {
	m := r.load(ctx)
	for key, id := range m.Slots {
		if id != instanceID {
			continue
		}
		slot, err := strconv.Atoi(key)
		if err != nil || validSlot(slot) != nil {
			continue
		}
		return slot, true
	}
	return -1, false
}

// Assignments returns the slot table sorted by slot
func (r *Resolver) Assignments(ctx context.Context) []Assignment {
	m := r.load(ctx)
	out := make([]Assignment, 0, len(m.Slots))
	for key, id := range m.Slots {
		slot, err := strconv.Atoi(key)
		if err != nil {
			continue
		}
		out = append(out, Assignment{Slot: slot, InstanceID: id})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Slot < out[j].Slot })
	return out
}

// Assignment is one row of the slot table
type Assignment struct {
	Slot       int    `json:"slot"`
	InstanceID string `json:"instanceId"`
}

// Forget unbinds a slot; the next resolution creates a new instance
func (r *Resolver) Forget(ctx context.Context, slot int) error {
	if err := validSlot(slot); err != nil {
		return err
	}
	m := r.load(ctx)
	if _, ok := m.Slots[slotKey(slot)]; !ok {
		return nil
	}
	delete(m.Slots, slotKey(slot))
	return r.save(ctx, m)
}

func (r *Resolver) frameCount(ctx context.Context, designID string) int {
	if r.frames == nil {
		return 0
	}
	return r.frames.FrameCount(ctx, designID)
}
