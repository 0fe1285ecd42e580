package clock

import (
	"time"
)

// Clock provides a clock service as an alternative to using the standard
// time package.  The intention is that testing and production code be
// 'plug compatible'.  This supports non-invasive testing of software that
// waits, for example to rate limit connection attempts.  In a real
// application Now() should yield the system time and Sleep should pause.
// In test they can work on suitably chosen values.
//
// Known types that respect this interface are:
// SystemClock
//     whose Now() method returns the system time.
// StoppedClock
//     whose time only moves when Sleep or SetTime is called.
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}
