// Package types provides shared data structures for the widget scheduling core.
//
// Core Types:
//   - WidgetInstance: persisted animation state of one placement
//   - FeaturedRegistry: ordered designs bound to the featured slots
//   - AnimationDesign, DesignManifest: discovered designs and their manifests
//   - TimelineEntry, Timeline, RefreshPolicy: what the host renders and when it asks again
//   - PlacementContext: the host's description of a widget placement
//
// Example Usage:
//
//	inst := types.NewWidgetInstance(string(id.NewInstanceID()), "abc", now)
//	inst.Begin(now)
//	if err := inst.Validate(); err != nil {
//	    // never persisted
//	}
package types
