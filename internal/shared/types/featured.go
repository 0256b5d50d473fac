package types

// MaxFeaturedSlots is the number of featured widget slots
const MaxFeaturedSlots = 4

// FeaturedRegistry is the ordered list of designs shown in the featured slots
type FeaturedRegistry struct {
	Designs  []string `json:"designs"`
	MaxCount int      `json:"maxCount"`
}

// NewFeaturedRegistry returns an empty registry
func NewFeaturedRegistry() *FeaturedRegistry {
	return &FeaturedRegistry{
		Designs:  []string{},
		MaxCount: MaxFeaturedSlots,
	}
}

// Contains reports whether the design is featured
func (r *FeaturedRegistry) Contains(designID string) bool {
	return r.IndexOf(designID) >= 0
}

// IndexOf returns the slot of a design or -1
func (r *FeaturedRegistry) IndexOf(designID string) int {
	for i, d := range r.Designs {
		if d == designID {
			return i
		}
	}
	return -1
}

// IsFull reports whether every slot is taken
func (r *FeaturedRegistry) IsFull() bool {
	return len(r.Designs) >= MaxFeaturedSlots
}

// Normalize drops duplicates and empty IDs, truncates to the slot count and
// pins maxCount to the fixed slot count.
func (r *FeaturedRegistry) Normalize() {
	seen := make(map[string]bool, len(r.Designs))
	out := make([]string, 0, MaxFeaturedSlots)
	for _, d := range r.Designs {
		if d == "" || seen[d] {
			continue
		}
		seen[d] = true
		out = append(out, d)
		if len(out) == MaxFeaturedSlots {
			break
		}
	}
	r.Designs = out
	r.MaxCount = MaxFeaturedSlots
}
