package runtime

import (
	"sort"
	"sync"
)

const pointsPerStripe = 200

// accountLocks maps account keys onto a fixed set of RW locks. Instructions
// touching disjoint accounts mostly run in parallel, while memory stays bounded
// regardless of how many accounts the bank holds.
type accountLocks struct {
	locks []sync.RWMutex
	ring  *ring
}

func newAccountLocks(stripes uint) *accountLocks {
	if stripes == 0 {
		stripes = 1
	}

	return &accountLocks{
		locks: make([]sync.RWMutex, stripes),
		ring:  newRing(stripes, pointsPerStripe),
	}
}

// lockAll takes every stripe covering keys, exclusively when any key mapped to
// it is writable. Stripes are taken in ascending order so that overlapping
// callers can't deadlock. The returned func releases everything.
func (l *accountLocks) lockAll(keys map[string]bool) (unlock func()) {
	exclusive := make(map[int]bool)
	for key, writable := range keys {
		stripe := l.ring.stripe([]byte(key))
		exclusive[stripe] = exclusive[stripe] || writable
	}

	stripes := make([]int, 0, len(exclusive))
	for stripe := range exclusive {
		stripes = append(stripes, stripe)
	}
	sort.Ints(stripes)

	for _, stripe := range stripes {
		if exclusive[stripe] {
			l.locks[stripe].Lock()
		} else {
			l.locks[stripe].RLock()
		}
	}

	return func() {
		for i := len(stripes) - 1; i >= 0; i-- {
			stripe := stripes[i]
			if exclusive[stripe] {
				l.locks[stripe].Unlock()
			} else {
				l.locks[stripe].RUnlock()
			}
		}
	}
}
