package timeline

import (
	"time"

	"github.com/GriffinCanCode/AniWidgets/internal/shared/types"
)

// Params are the timing constants of an animation cycle
type Params struct {
	FrameInterval time.Duration // Δ between frames
	TotalFrames   int           // frame count when the design is unknown
	ResetPad      time.Duration // extra hold before the reset entry
	StepDelay     time.Duration // re-poll delay of the stepped strategy
	StartLead     time.Duration // offset applied when a late start is clamped to now
	IdleRecheck   time.Duration // re-poll delay for static placeholder states
}

// DefaultParams returns the reference timing: 24 frames at 0.5s, reset 1s
// after the last frame.
func DefaultParams() Params {
	return Params{
		FrameInterval: 500 * time.Millisecond,
		TotalFrames:   24,
		ResetPad:      time.Second,
		StepDelay:     100 * time.Millisecond,
		StartLead:     50 * time.Millisecond,
		IdleRecheck:   5 * time.Minute,
	}
}

// CycleDuration is the time from the first frame to the reset entry
func (p Params) CycleDuration(frames int) time.Duration {
	return time.Duration(frames)*p.FrameInterval + p.ResetPad
}

// Sequence returns a full animation cycle starting at start: frames 1..frames
// spaced by the frame interval, then one reset entry showing frame 1 with
// animation off. Identity fields are copied from meta.
func Sequence(start time.Time, frames int, p Params, meta types.TimelineEntry) []types.TimelineEntry {
	if frames < 1 {
		frames = 1
	}
	out := make([]types.TimelineEntry, 0, frames+1)
	for i := 1; i <= frames; i++ {
		e := meta
		e.Date = start.Add(time.Duration(i-1) * p.FrameInterval)
		e.FrameIndex = i
		e.IsAnimating = true
		out = append(out, e)
	}

	reset := meta
	reset.Date = start.Add(p.CycleDuration(frames))
	reset.FrameIndex = 1
	reset.IsAnimating = false
	return append(out, reset)
}

// Visible drops entries dated at or before now
func Visible(entries []types.TimelineEntry, now time.Time) []types.TimelineEntry {
	out := make([]types.TimelineEntry, 0, len(entries))
	for _, e := range entries {
		if e.Date.After(now) {
			out = append(out, e)
		}
	}
	return out
}
