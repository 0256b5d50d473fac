package types

import (
	"fmt"
	"time"
)

// TimelineEntry is one frame the host should render at or after Date
type TimelineEntry struct {
	Date        time.Time `json:"date"`
	SlotIndex   int       `json:"slotIndex"`
	DesignID    string    `json:"designId,omitempty"`
	FrameIndex  int       `json:"frameIndex"`
	InstanceID  string    `json:"instanceId"`
	IsAnimating bool      `json:"isAnimating"`
}

// PolicyKind tells the host when to ask for the next timeline
type PolicyKind string

const (
	PolicyNever PolicyKind = "never"
	PolicyAtEnd PolicyKind = "atEnd"
	PolicyAfter PolicyKind = "after"
)

// RefreshPolicy is handed back to the host alongside the entries
type RefreshPolicy struct {
	Kind  PolicyKind    `json:"kind"`
	After time.Duration `json:"after,omitempty"`
}

// Never waits for an explicit reload signal
func Never() RefreshPolicy { return RefreshPolicy{Kind: PolicyNever} }

// AtEnd refreshes once the last entry's date has passed
func AtEnd() RefreshPolicy { return RefreshPolicy{Kind: PolicyAtEnd} }

// After refreshes once d has elapsed
func After(d time.Duration) RefreshPolicy { return RefreshPolicy{Kind: PolicyAfter, After: d} }

func (p RefreshPolicy) String() string {
	if p.Kind == PolicyAfter {
		return fmt.Sprintf("after(%s)", p.After)
	}
	return string(p.Kind)
}

// Timeline is the unit of work handed to the host
type Timeline struct {
	Entries []TimelineEntry `json:"entries"`
	Policy  RefreshPolicy   `json:"policy"`
}

// Last returns the final entry, if any
func (t Timeline) Last() (TimelineEntry, bool) {
	if len(t.Entries) == 0 {
		return TimelineEntry{}, false
	}
	return t.Entries[len(t.Entries)-1], true
}
