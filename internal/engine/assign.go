package engine

import "math/rand"

// BucketAssignment maps bucket index -> player ID for one round. Zero means
// the bucket is unowned (more buckets than players never happens because
// bucketCount is derived from the roster, but the mapping stays total).
type BucketAssignment []int

// AssignBuckets shuffles the active players onto bucket indices. Computed
// once per round and immutable afterwards.
func AssignBuckets(playerIDs []int, bucketCount int, rng *rand.Rand) BucketAssignment {
	shuffled := append([]int(nil), playerIDs...)
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	out := make(BucketAssignment, bucketCount)
	for i := range out {
		if i < len(shuffled) {
			out[i] = shuffled[i]
		}
	}
	return out
}

// PlayersFor resolves winning bucket indices to player IDs, skipping
// unowned buckets.
func (a BucketAssignment) PlayersFor(buckets []int) []int {
	var ids []int
	for _, b := range buckets {
		if b >= 0 && b < len(a) && a[b] != 0 {
			ids = append(ids, a[b])
		}
	}
	return ids
}
