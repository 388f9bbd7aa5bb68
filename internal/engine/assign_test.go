package engine

import (
	"math/rand"
	"testing"
)

func TestAssignBucketsIsAPermutation(t *testing.T) {
	players := []int{11, 22, 33, 44, 55}
	a := AssignBuckets(players, len(players), rand.New(rand.NewSource(42)))

	if len(a) != len(players) {
		t.Fatalf("assignment length = %d, want %d", len(a), len(players))
	}
	seen := make(map[int]bool)
	for _, id := range a {
		if seen[id] {
			t.Fatalf("player %d assigned twice: %v", id, a)
		}
		seen[id] = true
	}
	for _, id := range players {
		if !seen[id] {
			t.Errorf("player %d missing from assignment %v", id, a)
		}
	}
}

func TestAssignBucketsLeavesExtrasUnowned(t *testing.T) {
	a := AssignBuckets([]int{7, 8}, 4, rand.New(rand.NewSource(1)))
	unowned := 0
	for _, id := range a {
		if id == 0 {
			unowned++
		}
	}
	if unowned != 2 {
		t.Errorf("unowned buckets = %d, want 2 in %v", unowned, a)
	}
}

func TestPlayersForSkipsUnownedAndOutOfRange(t *testing.T) {
	a := BucketAssignment{7, 0, 9}
	got := a.PlayersFor([]int{0, 1, 2, 5, -1})
	if len(got) != 2 || got[0] != 7 || got[1] != 9 {
		t.Errorf("players = %v, want [7 9]", got)
	}
}
