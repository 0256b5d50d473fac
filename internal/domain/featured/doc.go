// Package featured manages the featured slot registry: an ordered list of at
// most four design IDs, where list position is the slot index.
//
// The app process mutates the registry; widget processes only read it.
// A missing or corrupt document reads as an empty registry.
package featured
