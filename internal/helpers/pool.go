package helpers

import (
	"fmt"
	"sync"
)

type PoolStats struct {
	creates int
	resets  int
	hits    int
}

func (s PoolStats) String() string {
	return fmt.Sprint("creates: ", s.creates, ", resets: ", s.resets, ", hits: ", s.hits)
}

const _poolSize = 256

// CreatePool returns get/release/stats closures over a bounded stack of reusable
// values. The most recently released value is handed out first. Values released
// while the stack is full are dropped for the GC.
func CreatePool[T any](create func() T, reset func(*T)) (func() *T, func(*T), func() PoolStats) {
	available := [_poolSize]*T{}
	numAvailable := 0

	lock := sync.Mutex{}
	stats := PoolStats{}

	var get = func() *T {
		lock.Lock()
		defer lock.Unlock()

		if numAvailable > 0 {
			numAvailable--
			result := available[numAvailable]
			available[numAvailable] = nil
			stats.hits++
			return result
		}

		stats.creates++
		result := create()
		return &result
	}

	var release = func(t *T) {
		reset(t)

		lock.Lock()
		defer lock.Unlock()

		stats.resets++
		if numAvailable < _poolSize {
			available[numAvailable] = t
			numAvailable++
		}
	}

	var getStats = func() PoolStats {
		lock.Lock()
		defer lock.Unlock()
		return stats
	}

	return get, release, getStats
}
