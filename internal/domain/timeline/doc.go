/*
Package timeline decides which frame a widget shows at which time.

# States

An instance is either idle (one entry at now, refresh policy never) or
animating. The only way into the animating state is Start; the way out is the
end of the cycle.

# Strategies

Precomputed (default): one call returns the whole cycle, frames 1..N at
start, start+Δ, ... and a reset entry at start+N·Δ+pad, with policy atEnd.
Entries already in the past are dropped. A start that lags now by at most one
frame interval is moved to now so the full cycle is shown. The first call
after the reset time persists the idle state.

Stepped: every call returns the current frame, persists the next one and asks
to be called again after a short delay. After the last frame the instance is
idle again.

Delays are expressed as refresh policies; the host schedules the next call.
Nothing in this package sleeps or keeps timers.
*/
package timeline
