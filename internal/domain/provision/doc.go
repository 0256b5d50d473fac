// Package provision installs animation designs into the shared container.
//
// Frames come from the read-only bundle shipped with the app; nothing is
// downloaded. A provisioned design gets a manifest with per-frame checksums.
package provision
