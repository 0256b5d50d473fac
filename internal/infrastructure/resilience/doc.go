/*
Package resilience provides a small circuit breaker for optional IO paths.

A Breaker counts consecutive failures. Once Threshold is reached it opens and
skips calls with ErrOpen for Cooldown. The first call after the cooldown is a
probe: success closes the breaker, failure opens it again.

	closed --[Threshold failures]--> open --[Cooldown]--> half-open
	   ^                                ^                     |
	   |                                +------[failure]------+
	   +-------------------[success]--------------------------+

Usage:

	breaker := resilience.New("frame-cache", resilience.Settings{
		Threshold: 3,
		Cooldown:  time.Minute,
	})

	err := breaker.Do(func() error {
		return cache.Write(ctx, p, data)
	})
	if errors.Is(err, resilience.ErrOpen) {
		// skipped
	}
*/
package resilience
