package ports

import "time"

// Contract for reading wall-clock time. The engine takes a Clock so tests
// can drive playback deterministically without real timers.
type Clock interface {
	Now() time.Time
}
