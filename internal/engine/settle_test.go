package engine

import "testing"

func TestSettlementRequiresLowAndSlow(t *testing.T) {
	cfg := testBoardConfig(2)
	w := newFakeWorld(cfg)
	d := NewSettlementDetector(cfg, w.Layout().BucketBounds)
	st := NewRoundState(2)

	high := w.SpawnBall(100)
	fast := w.SpawnBall(100)
	ready := w.SpawnBall(100)
	w.place(high, 100, cfg.Height-SettleMarginPx-10, 0, 0) // above the margin
	w.place(fast, 100, cfg.Height-10, 0, 5)                // low but still moving
	w.place(ready, 100, cfg.Height-10, 0, 0.5)

	settled := d.Scan(w, st)
	if len(settled) != 1 || settled[0].Ball != ready {
		t.Fatalf("expected only the low, slow ball to settle, got %v", settled)
	}
	if st.SettledCount != 1 {
		t.Errorf("settled count = %d, want 1", st.SettledCount)
	}
	if st.BucketCounts[0] != 1 || st.BucketCounts[1] != 0 {
		t.Errorf("bucket counts = %v, want [1 0]", st.BucketCounts)
	}
}

func TestSettlementIsIdempotent(t *testing.T) {
	cfg := testBoardConfig(2)
	w := newFakeWorld(cfg)
	d := NewSettlementDetector(cfg, w.Layout().BucketBounds)
	st := NewRoundState(2)

	id := w.SpawnBall(300)
	w.place(id, 300, cfg.Height-5, 0, 0)

	first := d.Scan(w, st)
	if len(first) != 1 {
		t.Fatalf("first scan should settle the ball, got %v", first)
	}
	counts := append([]int(nil), st.BucketCounts...)
	settledCount := st.SettledCount

	// Scanning again must leave every tally untouched.
	if again := d.Scan(w, st); len(again) != 0 {
		t.Fatalf("second scan re-settled the ball: %v", again)
	}
	if st.SettledCount != settledCount {
		t.Errorf("settled count changed on re-scan: %d -> %d", settledCount, st.SettledCount)
	}
	for i := range counts {
		if st.BucketCounts[i] != counts[i] {
			t.Errorf("bucket counts changed on re-scan: %v -> %v", counts, st.BucketCounts)
			break
		}
	}
}

func TestSettlementRecordsFirstAndNthBucket(t *testing.T) {
	cfg := testBoardConfig(4)
	cfg.WinParam = 2
	w := newFakeWorld(cfg)
	d := NewSettlementDetector(cfg, w.Layout().BucketBounds)
	st := NewRoundState(4)

	// Bucket width is 100 on a 400-wide board.
	a := w.SpawnBall(50)
	w.place(a, 50, cfg.Height-5, 0, 0)
	d.Scan(w, st)

	if st.FirstBallBucket != 0 {
		t.Errorf("first ball bucket = %d, want 0", st.FirstBallBucket)
	}
	if st.NthBallBucket != -1 {
		t.Errorf("nth ball bucket recorded too early: %d", st.NthBallBucket)
	}

	b := w.SpawnBall(250)
	w.place(b, 250, cfg.Height-5, 0, 0)
	d.Scan(w, st)

	if st.NthBallBucket != 2 {
		t.Errorf("nth ball bucket = %d, want 2", st.NthBallBucket)
	}

	// The N-th marker belongs to the first sub-round only.
	st2 := NewRoundState(4)
	st2.TiebreakRound = 1
	w2 := newFakeWorld(cfg)
	d2 := NewSettlementDetector(cfg, w2.Layout().BucketBounds)
	for i := 0; i < 2; i++ {
		id := w2.SpawnBall(50)
		w2.place(id, 50, cfg.Height-5, 0, 0)
	}
	d2.Scan(w2, st2)
	if st2.NthBallBucket != -1 {
		t.Errorf("nth ball bucket must not be recorded in a tie-break sub-round, got %d", st2.NthBallBucket)
	}
}

func TestSettlementDestroysBallsWhenConfigured(t *testing.T) {
	cfg := testBoardConfig(2)
	cfg.DestroyBalls = true
	w := newFakeWorld(cfg)
	d := NewSettlementDetector(cfg, w.Layout().BucketBounds)
	st := NewRoundState(2)

	id := w.SpawnBall(100)
	w.place(id, 100, cfg.Height-5, 0, 0)
	d.Scan(w, st)

	if len(w.Balls()) != 0 {
		t.Error("settled ball should have been removed from the world")
	}
	if len(w.removed) != 1 || w.removed[0] != id {
		t.Errorf("removed = %v, want [%d]", w.removed, id)
	}
	if st.BucketCounts[0] != 1 {
		t.Errorf("destroyed ball must still count: %v", st.BucketCounts)
	}
}

func TestSettlementBoundaryTieGoesToLowerBucket(t *testing.T) {
	cfg := testBoardConfig(4)
	w := newFakeWorld(cfg)
	d := NewSettlementDetector(cfg, w.Layout().BucketBounds)
	st := NewRoundState(4)

	boundary := w.Layout().BucketBounds[2] // between buckets 1 and 2
	id := w.SpawnBall(boundary)
	w.place(id, boundary, cfg.Height-5, 0, 0)
	d.Scan(w, st)

	if st.BucketCounts[1] != 1 || st.BucketCounts[2] != 0 {
		t.Errorf("boundary ball counts = %v, want it in the lower bucket 1", st.BucketCounts)
	}
}
