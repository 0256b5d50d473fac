// Command aniwidgets drives the widget scheduling core from a terminal.
//
//	aniwidgets serve                      # HTTP bridge for the app
//	aniwidgets host --kind FeaturedWidgetSlotA
//	aniwidgets designs provision test01
//	aniwidgets featured add test01
//	aniwidgets timeline FeaturedWidgetSlotA
//	aniwidgets start inst_01J...
//
// Every invocation reads and writes the shared container directly, so the
// commands work alongside running hosts.
package main
