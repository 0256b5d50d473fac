package types

import "fmt"

// Widget kinds, one per featured slot
const (
	KindSlotA = "FeaturedWidgetSlotA"
	KindSlotB = "FeaturedWidgetSlotB"
	KindSlotC = "FeaturedWidgetSlotC"
	KindSlotD = "FeaturedWidgetSlotD"

	// KindAll addresses every widget kind in a reload signal
	KindAll = "all"
)

var slotKinds = [MaxFeaturedSlots]string{KindSlotA, KindSlotB, KindSlotC, KindSlotD}

// PlacementContext is what the host knows about the widget it is asking for
type PlacementContext struct {
	Kind   string `json:"kind"`
	Family string `json:"family,omitempty"`
}

// Slot returns the featured slot bound to the placement's kind
func (p PlacementContext) Slot() (int, error) {
	return SlotForKind(p.Kind)
}

// SlotKinds returns every widget kind in slot order
func SlotKinds() []string {
	out := make([]string, len(slotKinds))
	copy(out, slotKinds[:])
	return out
}

// KindForSlot returns the widget kind bound to a slot
func KindForSlot(slot int) (string, error) {
	if slot < 0 || slot >= len(slotKinds) {
		return "", fmt.Errorf("slot %d out of range [0, %d)", slot, len(slotKinds))
	}
	return slotKinds[slot], nil
}

// SlotForKind returns the slot bound to a widget kind
func SlotForKind(kind string) (int, error) {
	for i, k := range slotKinds {
		if k == kind {
			return i, nil
		}
	}
	return -1, fmt.Errorf("unknown widget kind: %q", kind)
}
