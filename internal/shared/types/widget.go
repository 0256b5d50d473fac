package types

import (
	"errors"
	"fmt"
	"time"
)

// WidgetState names the two scheduling states of an instance
type WidgetState string

const (
	StateIdle      WidgetState = "idle"
	StateAnimating WidgetState = "animating"
)

// WidgetInstance is the persisted animation state of one widget placement
type WidgetInstance struct {
	InstanceID         string     `json:"instanceId"`
	DesignID           string     `json:"designId"`
	CurrentFrame       int        `json:"currentFrame"`
	IsAnimating        bool       `json:"isAnimating"`
	AnimationStartTime *time.Time `json:"animationStartTime"`
	LastInteraction    time.Time  `json:"lastInteraction"`
}

// NewWidgetInstance returns an idle instance showing the first frame
func NewWidgetInstance(instanceID, designID string, now time.Time) *WidgetInstance {
	return &WidgetInstance{
		InstanceID:      instanceID,
		DesignID:        designID,
		CurrentFrame:    1,
		LastInteraction: now,
	}
}

// State reports whether the instance is idle or animating
func (w *WidgetInstance) State() WidgetState {
	if w.IsAnimating {
		return StateAnimating
	}
	return StateIdle
}

// Begin moves the instance into the animating state at now
func (w *WidgetInstance) Begin(now time.Time) {
	start := now
	w.IsAnimating = true
	w.CurrentFrame = 1
	w.AnimationStartTime = &start
	w.LastInteraction = now
}

// Rebase moves the animation start to t without touching the frame
func (w *WidgetInstance) Rebase(t time.Time, now time.Time) {
	start := t
	w.AnimationStartTime = &start
	w.LastInteraction = now
}

// Advance sets the displayed frame of a running animation
func (w *WidgetInstance) Advance(frame int, now time.Time) {
	w.CurrentFrame = frame
	w.LastInteraction = now
}

// Finish returns the instance to idle on the first frame
func (w *WidgetInstance) Finish(now time.Time) {
	w.IsAnimating = false
	w.CurrentFrame = 1
	w.AnimationStartTime = nil
	w.LastInteraction = now
}

// Reassign points the instance at another design, keeping animation state.
// The frame is reset when it falls outside the new design.
func (w *WidgetInstance) Reassign(designID string, frameCount int, now time.Time) {
	w.DesignID = designID
	if frameCount > 0 && w.CurrentFrame > frameCount {
		w.CurrentFrame = 1
	}
	w.LastInteraction = now
}

// Validate checks the document invariants
func (w *WidgetInstance) Validate() error {
	if w.InstanceID == "" {
		return errors.New("instance ID cannot be empty")
	}
	if w.CurrentFrame < 1 {
		return fmt.Errorf("current frame must be at least 1, got %d", w.CurrentFrame)
	}
	if w.IsAnimating != (w.AnimationStartTime != nil) {
		return fmt.Errorf("animation start time must be set exactly when animating (animating=%t)", w.IsAnimating)
	}
	return nil
}

// Clone returns a deep copy
func (w *WidgetInstance) Clone() *WidgetInstance {
	c := *w
	if w.AnimationStartTime != nil {
		start := *w.AnimationStartTime
		c.AnimationStartTime = &start
	}
	return &c
}
