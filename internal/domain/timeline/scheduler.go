package timeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/GriffinCanCode/AniWidgets/internal/infrastructure/logging"
	"github.com/GriffinCanCode/AniWidgets/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/AniWidgets/internal/shared/clock"
	"github.com/GriffinCanCode/AniWidgets/internal/shared/types"
	"go.uber.org/zap"
)

// ErrUnknownInstance is returned when a transition names a missing instance
var ErrUnknownInstance = errors.New("timeline: unknown instance")

// InstanceStore is the persistence the scheduler needs
type InstanceStore interface {
	Load(ctx context.Context, instanceID string) (*types.WidgetInstance, bool)
	Save(ctx context.Context, inst *types.WidgetInstance) error
}

// Designs describes known designs. A design's frame count and frame
// interval override the configured defaults.
type Designs interface {
	Get(ctx context.Context, designID string) (types.AnimationDesign, bool)
}

// Config wires a Scheduler
type Config struct {
	Mode      Mode
	Params    Params
	Instances InstanceStore
	Designs   Designs
	Clock     clock.Clock
	Logger    *zap.Logger
	Metrics   *monitoring.Metrics
}

// Scheduler computes timelines for instances and owns the start and
// completion transitions. It keeps no state between calls; everything is
// reconstructed from the persisted instance.
type Scheduler struct {
	mode      Mode
	params    Params
	strategy  strategy
	instances InstanceStore
	designs   Designs
	clock     clock.Clock
	logger    *zap.Logger
	metrics   *monitoring.Metrics
}

// NewScheduler creates a scheduler for the configured mode
func NewScheduler(cfg Config) (*Scheduler, error) {
	if cfg.Instances == nil {
		return nil, errors.New("instance store is required")
	}
	if cfg.Params.FrameInterval <= 0 || cfg.Params.TotalFrames < 1 {
		return nil, fmt.Errorf("invalid timeline params: interval=%s frames=%d",
			cfg.Params.FrameInterval, cfg.Params.TotalFrames)
	}

	s := &Scheduler{
		mode:      cfg.Mode,
		params:    cfg.Params,
		instances: cfg.Instances,
		designs:   cfg.Designs,
		clock:     clock.OrSystem(cfg.Clock),
		logger:    logging.Component(cfg.Logger, "timeline"),
		metrics:   cfg.Metrics,
	}

	switch cfg.Mode {
	case ModePrecomputed, "":
		s.mode = ModePrecomputed
		s.strategy = precomputed{}
	case ModeStepped:
		s.strategy = stepped{}
	default:
		return nil, fmt.Errorf("unknown timeline mode %q", cfg.Mode)
	}
	return s, nil
}

// Mode returns the active strategy
func (s *Scheduler) Mode() Mode {
	return s.mode
}

// Params returns the timing parameters
func (s *Scheduler) Params() Params {
	return s.params
}

// cycleFor returns the timing of one cycle of designID. TotalFrames and
// FrameInterval come from the design when it declares them.
func (s *Scheduler) cycleFor(ctx context.Context, designID string) Params {
	p := s.params
	if s.designs == nil {
		return p
	}
	if d, ok := s.designs.Get(ctx, designID); ok {
		if d.FrameCount > 0 {
			p.TotalFrames = d.FrameCount
		}
		if iv := d.FrameDuration(); iv > 0 {
			p.FrameInterval = iv
		}
	}
	return p
}

// Timeline computes what the instance in slot should show now and next.
// State changes implied by the timeline (finishing an expired cycle,
// rebasing a late start, advancing a step) are persisted before returning.
// A failed write is logged; the timeline is still returned.
func (s *Scheduler) Timeline(ctx context.Context, slot int, inst *types.WidgetInstance) types.Timeline {
	now := s.clock.Now()
	cycle := s.cycleFor(ctx, inst.DesignID)
	state := inst.State()

	work := inst.Clone()
	p := s.strategy.plan(work, cycle, now)

	if p.dirty {
		if err := s.instances.Save(ctx, work); err != nil {
			s.logger.Warn("Failed to persist timeline transition",
				zap.String("instance_id", inst.InstanceID), zap.String("reason", p.reason), zap.Error(err))
		} else {
			*inst = *work
		}
	}

	for i := range p.entries {
		p.entries[i].SlotIndex = slot
	}

	s.metrics.RecordTimeline(string(s.mode), string(state), string(p.policy.Kind), len(p.entries))
	s.logger.Debug("Timeline generated",
		zap.String("instance_id", inst.InstanceID),
		zap.Int("slot", slot),
		zap.String("state", string(state)),
		zap.Int("entries", len(p.entries)),
		zap.Stringer("policy", p.policy))

	return types.Timeline{Entries: p.entries, Policy: p.policy}
}

// Start moves an idle instance into the animating state. It returns false
// without changing anything when the instance is already animating. An
// animation whose cycle has run out counts as idle.
func (s *Scheduler) Start(ctx context.Context, instanceID string) (bool, error) {
	inst, ok := s.instances.Load(ctx, instanceID)
	if !ok {
		s.metrics.RecordStart(monitoring.StartFailed)
		return false, fmt.Errorf("%w: %s", ErrUnknownInstance, instanceID)
	}

	now := s.clock.Now()
	if inst.IsAnimating && !s.strategy.expired(inst, s.cycleFor(ctx, inst.DesignID), now) {
		s.metrics.RecordStart(monitoring.StartRejected)
		s.logger.Debug("Start ignored, already animating", zap.String("instance_id", instanceID))
		return false, nil
	}

	inst.Begin(now)
	if err := s.instances.Save(ctx, inst); err != nil {
		s.metrics.RecordStart(monitoring.StartFailed)
		return false, fmt.Errorf("failed to start animation: %w", err)
	}

	s.metrics.RecordStart(monitoring.StartStarted)
	s.logger.Info("Animation started",
		zap.String("instance_id", instanceID), zap.String("design_id", inst.DesignID), zap.Time("start", now))
	return true, nil
}

// Complete persists the idle state once an animation's cycle is over. Hosts
// call it after rendering the reset entry. It returns false when there was
// nothing to finish.
func (s *Scheduler) Complete(ctx context.Context, instanceID string) (bool, error) {
	inst, ok := s.instances.Load(ctx, instanceID)
	if !ok {
		return false, fmt.Errorf("%w: %s", ErrUnknownInstance, instanceID)
	}
	if !inst.IsAnimating {
		return false, nil
	}

	now := s.clock.Now()
	if !s.strategy.expired(inst, s.cycleFor(ctx, inst.DesignID), now) {
		return false, nil
	}

	inst.Finish(now)
	if err := s.instances.Save(ctx, inst); err != nil {
		return false, fmt.Errorf("failed to complete animation: %w", err)
	}
	s.logger.Info("Animation completed", zap.String("instance_id", instanceID))
	return true, nil
}
