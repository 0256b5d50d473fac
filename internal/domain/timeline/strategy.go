package timeline

import (
	"time"

	"github.com/GriffinCanCode/AniWidgets/internal/shared/types"
)

// Mode selects how animations are handed to the host
type Mode string

const (
	// ModePrecomputed emits the whole cycle in one timeline
	ModePrecomputed Mode = "precomputed"
	// ModeStepped emits one frame per call and asks to be called again shortly
	ModeStepped Mode = "stepped"
)

// plan is what a strategy decided for one instance. When dirty is set the
// instance was mutated and must be persisted.
type plan struct {
	entries []types.TimelineEntry
	policy  types.RefreshPolicy
	dirty   bool
	reason  string
}

// strategies read the cycle length from p.TotalFrames, which the scheduler
// sets to the design's frame count
type strategy interface {
	plan(inst *types.WidgetInstance, p Params, now time.Time) plan
	expired(inst *types.WidgetInstance, p Params, now time.Time) bool
}

func entryFor(inst *types.WidgetInstance, slot int) types.TimelineEntry {
	return types.TimelineEntry{
		SlotIndex:  slot,
		DesignID:   inst.DesignID,
		InstanceID: inst.InstanceID,
	}
}

func idlePlan(inst *types.WidgetInstance, frames int, now time.Time) plan {
	e := entryFor(inst, 0)
	e.Date = now
	e.FrameIndex = inst.CurrentFrame
	if frames > 0 && e.FrameIndex > frames {
		e.FrameIndex = 1
	}
	return plan{entries: []types.TimelineEntry{e}, policy: types.Never()}
}

func finishPlan(inst *types.WidgetInstance, frames int, now time.Time) plan {
	inst.Finish(now)
	p := idlePlan(inst, frames, now)
	p.dirty = true
	p.reason = "finish"
	return p
}

// precomputed hands the host the full cycle and refreshes at its end
type precomputed struct{}

func (precomputed) expired(inst *types.WidgetInstance, p Params, now time.Time) bool {
	if !inst.IsAnimating || inst.AnimationStartTime == nil {
		return false
	}
	return now.Sub(*inst.AnimationStartTime) >= p.CycleDuration(p.TotalFrames)
}

func (s precomputed) plan(inst *types.WidgetInstance, p Params, now time.Time) plan {
	frames := p.TotalFrames
	if !inst.IsAnimating {
		return idlePlan(inst, frames, now)
	}
	if s.expired(inst, p, now) {
		return finishPlan(inst, frames, now)
	}

	start := *inst.AnimationStartTime
	out := plan{policy: types.AtEnd()}

	// A start that is only just behind now was delayed on its way here
	// (intent, reload, relaunch). Replay the whole cycle from now instead of
	// cutting off its first frames. This happens once per start: a rebased
	// start no longer equals the instant the animation began.
	if lag := now.Sub(start); lag >= 0 && lag <= p.FrameInterval && fresh(inst) {
		start = now.Add(p.StartLead)
		inst.Rebase(start, now)
		out.dirty = true
		out.reason = "rebase"
	}

	out.entries = Visible(Sequence(start, frames, p, entryFor(inst, 0)), now)
	return out
}

// fresh reports a start that has not been rebased or otherwise touched
// since Begin
func fresh(inst *types.WidgetInstance) bool {
	return inst.AnimationStartTime != nil && inst.AnimationStartTime.Equal(inst.LastInteraction)
}

// stepped advances one frame per call and asks to be called again after a
// short delay
type stepped struct{}

// expired reports a stepped animation whose host stopped polling
func (stepped) expired(inst *types.WidgetInstance, p Params, now time.Time) bool {
	if !inst.IsAnimating {
		return false
	}
	return now.Sub(inst.LastInteraction) >= p.CycleDuration(p.TotalFrames)
}

func (s stepped) plan(inst *types.WidgetInstance, p Params, now time.Time) plan {
	frames := p.TotalFrames
	if !inst.IsAnimating {
		return idlePlan(inst, frames, now)
	}
	if s.expired(inst, p, now) {
		return finishPlan(inst, frames, now)
	}

	frame := inst.CurrentFrame
	if frame < 1 || frame > frames {
		frame = frames
	}

	e := entryFor(inst, 0)
	e.Date = now
	e.FrameIndex = frame
	e.IsAnimating = true

	out := plan{
		entries: []types.TimelineEntry{e},
		policy:  types.After(p.StepDelay),
		dirty:   true,
		reason:  "advance",
	}
	if frame >= frames {
		inst.Finish(now)
		out.reason = "finish"
	} else {
		inst.Advance(frame+1, now)
	}
	return out
}
