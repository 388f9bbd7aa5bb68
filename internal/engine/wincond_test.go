package engine

import "testing"

func TestWinNthFiresImmediately(t *testing.T) {
	cfg := testBoardConfig(4)
	cfg.WinCondition = WinNth
	cfg.WinParam = 3
	m := NewWinMachine(cfg)
	st := NewRoundState(4)

	// Build up to the threshold one tick at a time.
	st.BucketCounts = []int{2, 1, 0, 0}
	if out := m.Evaluate(st); out.Decided {
		t.Fatal("decided before any bucket reached 3")
	}

	st.BucketCounts = []int{3, 1, 0, 0}
	out := m.Evaluate(st)
	if !out.Decided || len(out.Winners) != 1 || out.Winners[0] != 0 {
		t.Fatalf("outcome = %+v, want bucket 0 decided", out)
	}
	if st.Phase != PhaseDecided || !st.GameEnded {
		t.Errorf("phase = %s, game_ended = %v", st.Phase, st.GameEnded)
	}

	// Decided is terminal.
	st.BucketCounts = []int{3, 3, 0, 0}
	if out := m.Evaluate(st); out.Decided || out.TieBreak {
		t.Errorf("evaluation after decision must be a no-op, got %+v", out)
	}
}

func TestWinNthOnlyNewCrossingWins(t *testing.T) {
	cfg := testBoardConfig(3)
	cfg.WinCondition = WinNth
	cfg.WinParam = 2
	m := NewWinMachine(cfg)
	st := NewRoundState(3)

	st.BucketCounts = []int{2, 0, 0}
	m.Evaluate(st)
	if len(st.WinningBuckets) != 1 || st.WinningBuckets[0] != 0 {
		t.Fatalf("winners = %v, want [0]", st.WinningBuckets)
	}
}

func TestWinMostTieTriggersCumulativeTieBreak(t *testing.T) {
	cfg := testBoardConfig(4)
	cfg.WinCondition = WinMost
	cfg.BallCount = 10
	m := NewWinMachine(cfg)
	st := NewRoundState(4)

	st.DroppedCount = 10
	st.SettledCount = 10
	st.BucketCounts = []int{5, 0, 5, 0}
	st.FirstBallBucket = 0

	out := m.Evaluate(st)
	if out.Decided || !out.TieBreak {
		t.Fatalf("outcome = %+v, want tie-break", out)
	}
	if len(out.Winners) != 2 || out.Winners[0] != 0 || out.Winners[1] != 2 {
		t.Errorf("tied set = %v, want [0 2]", out.Winners)
	}
	if st.TiebreakRound != 1 || st.Phase != PhaseTieBreak {
		t.Errorf("tiebreak_round = %d, phase = %s", st.TiebreakRound, st.Phase)
	}
	if st.DroppedCount != 0 || st.SettledCount != 0 || st.FirstBallBucket != -1 {
		t.Errorf("per-sub-round counters must reset, got dropped=%d settled=%d first=%d",
			st.DroppedCount, st.SettledCount, st.FirstBallBucket)
	}
	for i, c := range st.BucketCounts {
		if c != []int{5, 0, 5, 0}[i] {
			t.Fatalf("bucket counts must carry into the tie-break, got %v", st.BucketCounts)
		}
	}

	// Tie-break sub-round: counts accumulate, the bar is now 20 balls.
	st.DroppedCount = 20
	st.SettledCount = 20
	st.BucketCounts = []int{12, 3, 5, 0}
	out = m.Evaluate(st)
	if !out.Decided || len(out.Winners) != 1 || out.Winners[0] != 0 {
		t.Fatalf("tie-break outcome = %+v, want bucket 0 decided", out)
	}
}

func TestWinMostWaitsForAllBalls(t *testing.T) {
	cfg := testBoardConfig(3)
	cfg.WinCondition = WinMost
	cfg.BallCount = 6
	m := NewWinMachine(cfg)
	st := NewRoundState(3)

	st.DroppedCount = 6
	st.SettledCount = 4
	st.BucketCounts = []int{4, 0, 0}
	if out := m.Evaluate(st); out.Decided || out.TieBreak {
		t.Fatalf("decided with balls still falling: %+v", out)
	}
	if st.Phase != PhaseDeciding {
		t.Errorf("phase = %s, want %s while awaiting settlement", st.Phase, PhaseDeciding)
	}
}

func TestWinLastEmptyTiedEmptySet(t *testing.T) {
	cfg := testBoardConfig(4)
	cfg.WinCondition = WinLastEmpty
	cfg.BallCount = 5
	m := NewWinMachine(cfg)
	st := NewRoundState(4)

	st.DroppedCount = 5
	st.SettledCount = 5
	st.BucketCounts = []int{0, 3, 0, 2}

	out := m.Evaluate(st)
	if !out.TieBreak {
		t.Fatalf("outcome = %+v, want tie-break between the empty buckets", out)
	}
	if len(out.Winners) != 2 || out.Winners[0] != 0 || out.Winners[1] != 2 {
		t.Errorf("tied set = %v, want [0 2]", out.Winners)
	}
}

func TestWinLastEmptyFallsBackToLeastFilled(t *testing.T) {
	cfg := testBoardConfig(3)
	cfg.WinCondition = WinLastEmpty
	cfg.BallCount = 6
	m := NewWinMachine(cfg)
	st := NewRoundState(3)

	st.DroppedCount = 6
	st.SettledCount = 6
	st.BucketCounts = []int{3, 1, 2}

	out := m.Evaluate(st)
	if !out.Decided || len(out.Winners) != 1 || out.Winners[0] != 1 {
		t.Fatalf("outcome = %+v, want the least-filled bucket 1", out)
	}
}

func TestWinFirstSingleWinner(t *testing.T) {
	cfg := testBoardConfig(3)
	cfg.WinCondition = WinFirst
	cfg.BallCount = 4
	m := NewWinMachine(cfg)
	st := NewRoundState(3)

	st.DroppedCount = 4
	st.SettledCount = 4
	st.BucketCounts = []int{1, 3, 0}
	st.FirstBallBucket = 1

	out := m.Evaluate(st)
	if !out.Decided || len(out.Winners) != 1 || out.Winners[0] != 1 {
		t.Fatalf("outcome = %+v, want bucket 1 decided", out)
	}
}

func TestWinUnlimitedNeverEndsRound(t *testing.T) {
	cfg := testBoardConfig(3)
	cfg.WinCondition = WinMost
	cfg.BallCount = 0
	m := NewWinMachine(cfg)
	st := NewRoundState(3)

	st.DroppedCount = 500
	st.SettledCount = 500
	st.BucketCounts = []int{200, 200, 100}
	if out := m.Evaluate(st); out.Decided || out.TieBreak {
		t.Errorf("unlimited mode must never reach a terminal state, got %+v", out)
	}
	if st.Phase != PhasePlaying {
		t.Errorf("phase = %s, want %s", st.Phase, PhasePlaying)
	}
}

func TestWinNothingLandedStaysDeciding(t *testing.T) {
	cfg := testBoardConfig(3)
	cfg.WinCondition = WinFirst
	cfg.BallCount = 2
	m := NewWinMachine(cfg)
	st := NewRoundState(3)

	st.DroppedCount = 2
	st.SettledCount = 2
	// FirstBallBucket stays -1: counts were zeroed by an external reset.
	out := m.Evaluate(st)
	if out.Decided || out.TieBreak {
		t.Fatalf("empty winner set must not decide, got %+v", out)
	}
	if st.Phase != PhaseDeciding {
		t.Errorf("phase = %s, want %s", st.Phase, PhaseDeciding)
	}
}
