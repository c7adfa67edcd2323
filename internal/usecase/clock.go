package usecase

import "time"

// Clock returns the current time. Tests pin it.
type Clock func() time.Time

func clockOrNow(c Clock) Clock {
	if c == nil {
		return time.Now
	}
	return c
}
