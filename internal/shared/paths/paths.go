// Package paths provides the logical layout of the shared widget container.
//
// Every process that touches widget state (the app, each widget host, the CLI)
// resolves documents through these helpers so that all of them agree on where a
// document lives. Paths are slash separated and relative to the container root.
package paths

import (
	"fmt"
	"path"
	"strings"
)

// Container top-level directories
const (
	Designs   = "Designs"
	State     = "State"
	Signals   = "Signals"
	Instances = "State/instances"
)

// Well-known documents
const (
	FeaturedConfig = "State/featured_config.json"
	SlotMap        = "State/slots.json"
)

// Bundle layout (read-only assets shipped with the app)
const (
	BundleDesigns = "TestDesigns"
)

// Cache layout (per-process render cache)
const (
	CacheFrames = "frames"
)

// Design returns paths for a specific design
type Design struct {
	ID string
}

// DesignPath returns path helpers for a design
func DesignPath(designID string) Design {
	return Design{ID: designID}
}

// Dir returns the design's root directory in the container
func (d Design) Dir() string {
	return path.Join(Designs, d.ID)
}

// FramesDir returns the design's frame directory in the container
func (d Design) FramesDir() string {
	return path.Join(Designs, d.ID, "frames")
}

// Frame returns the container path of a frame (1-based index)
func (d Design) Frame(index int) string {
	return path.Join(d.FramesDir(), FrameFile(d.ID, index))
}

// Manifest returns the container path of the design manifest
func (d Design) Manifest() string {
	return path.Join(d.Dir(), d.ID+"_manifest.json")
}

// ManifestYAML returns the container path of the YAML manifest variant
func (d Design) ManifestYAML() string {
	return path.Join(d.Dir(), d.ID+"_manifest.yaml")
}

// BundleDir returns the design's directory inside the bundle
func (d Design) BundleDir() string {
	return path.Join(BundleDesigns, d.ID)
}

// BundleFrame returns the bundle path of a frame
func (d Design) BundleFrame(index int) string {
	return path.Join(d.BundleDir(), FrameFile(d.ID, index))
}

// CacheFrame returns the render cache path of a frame
func (d Design) CacheFrame(index int) string {
	return path.Join(CacheFrames, d.ID, fmt.Sprintf("%02d.png", index))
}

// FrameFile returns the file name of a frame, index zero-padded to two digits
func FrameFile(designID string, index int) string {
	return fmt.Sprintf("%s_frame_%02d.png", designID, index)
}

// InstanceDoc returns the container path of an instance state document
func InstanceDoc(instanceID string) string {
	return path.Join(Instances, instanceID+".json")
}

// SignalDoc returns the container path of the reload signal for a widget kind
func SignalDoc(kind string) string {
	return path.Join(Signals, kind+".json")
}

// InstanceIDFromDoc extracts the instance ID from a document file name
func InstanceIDFromDoc(name string) (string, bool) {
	if !strings.HasSuffix(name, ".json") || strings.HasPrefix(name, ".") {
		return "", false
	}
	return strings.TrimSuffix(name, ".json"), true
}

// StandardDirectories returns all directories that should exist in a container
func StandardDirectories() []string {
	return []string{
		Designs,
		State,
		Instances,
		Signals,
	}
}

// Validate checks if a logical path is safe to resolve against a root
func Validate(p string) error {
	if p == "" {
		return fmt.Errorf("path cannot be empty")
	}
	if path.IsAbs(p) || strings.HasPrefix(p, "\\") {
		return fmt.Errorf("path cannot be absolute: %s", p)
	}
	if strings.Contains(p, "\\") {
		return fmt.Errorf("path must be slash separated: %s", p)
	}
	clean := path.Clean(p)
	if clean == ".." || strings.HasPrefix(clean, "../") {
		return fmt.Errorf("path escapes the container: %s", p)
	}
	return nil
}
