package event

import "math"

// maxCount is the largest number of entries any sequence may hold. Counts are
// exposed as 32-bit values.
const maxCount = min(math.MaxUint32, math.MaxInt)

// reserve returns s with room for one more element.
//
// When s is full its capacity grows by exactly step, never by a multiplier,
// and the existing elements are copied in order into the new backing array.
// limit caps the capacity; zero means only maxCount applies.
func reserve[E any](s []E, step, limit int) ([]E, error) {
	if len(s) < cap(s) {
		return s, nil
	}

	bound := maxCount
	if limit > 0 && limit < bound {
		bound = limit
	}
	if len(s) >= bound {
		return s, ErrAllocationFailure
	}

	next := cap(s) + step
	if next > bound {
		next = bound
	}

	grown := make([]E, len(s), next)
	copy(grown, s)
	return grown, nil
}

// initialCap returns the capacity of freshly allocated storage.
func initialCap(step, limit int) int {
	if limit > 0 && limit < step {
		return limit
	}
	return step
}

// channel is one registered dispatch point.
type channel[T any] struct {
	id       ChannelID
	handlers []handler[T]
}

// find returns the position of the handler with the given identity, or -1.
func (c *channel[T]) find(key any) int {
	for i := range c.handlers {
		if c.handlers[i].key == key {
			return i
		}
	}
	return -1
}
