// Package signal carries "re-poll timelines of kind K now" between processes.
//
// The signaler writes Signals/<kind>.json atomically after a state change;
// the host process watches the directory with fsnotify and re-polls the
// affected widgets. No IPC channel is needed beyond the shared container.
package signal
