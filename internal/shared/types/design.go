package types

import "time"

// DesignSource tells where a design's frames were discovered
type DesignSource string

const (
	SourceStore  DesignSource = "store"
	SourceBundle DesignSource = "bundle"
)

// AnimationDesign is a named, ordered set of frame images
type AnimationDesign struct {
	ID            string       `json:"designId"`
	Name          string       `json:"name"`
	FrameCount    int          `json:"frameCount"`
	FrameInterval float64      `json:"frameInterval"`
	Source        DesignSource `json:"source"`
}

// FrameDuration returns the per-frame display duration
func (d AnimationDesign) FrameDuration() time.Duration {
	return time.Duration(d.FrameInterval * float64(time.Second))
}

// DesignManifest is the document written next to provisioned frames
type DesignManifest struct {
	DesignID      string    `json:"designId" yaml:"designId"`
	Name          string    `json:"name" yaml:"name"`
	FrameCount    int       `json:"frameCount" yaml:"frameCount"`
	FrameInterval float64   `json:"frameInterval" yaml:"frameInterval"`
	ProvisionedAt time.Time `json:"provisionedAt" yaml:"provisionedAt"`
	Frames        []string  `json:"frames,omitempty" yaml:"frames,omitempty"`
	Checksums     []string  `json:"checksums,omitempty" yaml:"checksums,omitempty"`
}
