package counting

import (
	"time"

	"github.com/Hoozt/deepcraft-public-unit-library/internal/metrics"
)

// maybeReset implements spec.md §4.5: a rate-limited, at-most-daily
// sampler that clears the counter's cumulative totals and deactivates
// every counter-tracker the first time the host's local clock enters
// resetHour. now is caller-supplied so the core's infallible,
// clock-free determinism (spec.md §5) holds in tests.
func maybeReset(c *Counter, resetHour int, now time.Time) {
	if resetHour < 0 || resetHour > 23 {
		return
	}
	if !c.limiter.AllowN(now, 1) {
		return
	}

	hour := now.Hour()
	if hour == resetHour && c.lastResetHour != resetHour {
		c.inCount = 0
		c.outCount = 0
		c.trackers = [MaxCounterTrackers]CounterTracker{}
		metrics.DailyResetsFired.Inc()
	}
	// Unconditional, so re-entry into the same hour on a later day
	// re-arms the trigger (spec.md §4.5).
	c.lastResetHour = hour
}
