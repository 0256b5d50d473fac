// Package host is a reference widget host.
//
// It drives the provider the way an OS widget host would, which makes the
// timeline contract observable from a terminal, and it owns the background
// maintenance jobs of long-lived processes.
package host
