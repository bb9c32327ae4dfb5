package runtime

import (
	"encoding/binary"
	"fmt"

	"github.com/emirpasic/gods/maps/treemap"
	"github.com/emirpasic/gods/utils"
	"github.com/spaolacci/murmur3"
)

// ring consistently hashes keys onto a fixed set of stripe indices
type ring struct {
	points *treemap.Map

	// Ceiling misses wrap to the lowest point; cached since Min() is O(log n)
	lowest int
}

func newRing(stripes, replicationFactor uint) *ring {
	points := treemap.NewWith(utils.Int64Comparator)

	for stripe := 0; stripe < int(stripes); stripe++ {
		nameHash, _ := murmur3.Sum128([]byte(fmt.Sprintf("stripe%d", stripe)))

		var seed [12]byte
		binary.LittleEndian.PutUint64(seed[:8], nameHash)
		for replica := 0; replica < int(replicationFactor); replica++ {
			binary.LittleEndian.PutUint32(seed[8:], uint32(replica))
			point, _ := murmur3.Sum128(seed[:])
			points.Put(int64(point), stripe)
		}
	}

	r := &ring{points: points}
	if _, lowest := points.Min(); lowest != nil {
		r.lowest = lowest.(int)
	}
	return r
}

func (r *ring) stripe(key []byte) int {
	hash, _ := murmur3.Sum128(key)
	if _, stripe := r.points.Ceiling(int64(hash)); stripe != nil {
		return stripe.(int)
	}
	return r.lowest
}
