// Package frames resolves frame images for a (design, frame) pair.
//
// The fallback chain is local render cache, then shared container, then the
// bundled sentinel design. The cache is read-through and never invalidated
// automatically; published frames are treated as immutable.
package frames
