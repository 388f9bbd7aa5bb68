package engine

// GamePhase is the win-condition machine's externally visible state.
type GamePhase string

const (
	PhasePlaying  GamePhase = "PLAYING"
	PhaseDeciding GamePhase = "DECIDING"
	PhaseTieBreak GamePhase = "TIEBREAK"
	PhaseDecided  GamePhase = "DECIDED"
)

// RoundState is the single mutable record of round progress. It has exactly
// one writer (the round loop); everything handed outward is a copy.
//
// DroppedCount and SettledCount are per-sub-round and reset on tie-break;
// BucketCounts accumulate across sub-rounds.
type RoundState struct {
	Phase           GamePhase `json:"phase"`
	DroppedCount    int       `json:"dropped_count"`
	SettledCount    int       `json:"settled_count"`
	BucketCounts    []int     `json:"bucket_counts"`
	FirstBallBucket int       `json:"first_ball_bucket"` // -1 until the first settlement of the sub-round
	NthBallBucket   int       `json:"nth_ball_bucket"`   // -1 until the N-th settlement of the first sub-round
	TiebreakRound   int       `json:"tiebreak_round"`
	GameEnded       bool      `json:"game_ended"`
	WinningBuckets  []int     `json:"winning_buckets,omitempty"`
}

// NewRoundState creates the state for a fresh round.
func NewRoundState(bucketCount int) *RoundState {
	return &RoundState{
		Phase:           PhasePlaying,
		BucketCounts:    make([]int, bucketCount),
		FirstBallBucket: -1,
		NthBallBucket:   -1,
	}
}

// Copy returns a deep copy safe to hand to other goroutines.
func (st *RoundState) Copy() RoundState {
	c := *st
	c.BucketCounts = append([]int(nil), st.BucketCounts...)
	c.WinningBuckets = append([]int(nil), st.WinningBuckets...)
	return c
}

// Outcome reports what one evaluation pass concluded.
type Outcome struct {
	Decided  bool
	TieBreak bool
	Winners  []int // winning bucket indices; tied set when TieBreak
}

// WinMachine evaluates the configured win condition against RoundState once
// per tick. The "nth" condition is edge-triggered against the previous
// tick's counts; all others evaluate only when the current sub-round's
// expected ball total has been dropped and settled.
type WinMachine struct {
	cfg        BoardConfig
	prevCounts []int
}

// NewWinMachine creates the machine for a normalized config.
func NewWinMachine(cfg BoardConfig) *WinMachine {
	return &WinMachine{
		cfg:        cfg,
		prevCounts: make([]int, cfg.BucketCount),
	}
}

// Evaluate runs one pass. It mutates st on decision or tie-break and is a
// no-op once the round is decided.
func (m *WinMachine) Evaluate(st *RoundState) Outcome {
	if st.GameEnded {
		return Outcome{}
	}

	if m.cfg.WinCondition == WinNth {
		return m.evaluateNth(st)
	}
	return m.evaluateAtRoundEnd(st)
}

// evaluateNth fires the moment any bucket's count crosses N. The crossing
// is detected as an edge against last tick's counts, so only the bucket
// that newly reached N this tick can win.
func (m *WinMachine) evaluateNth(st *RoundState) Outcome {
	n := m.cfg.WinParam
	winner := -1
	for i, c := range st.BucketCounts {
		if m.prevCounts[i] < n && c >= n {
			winner = i
			break
		}
	}
	copy(m.prevCounts, st.BucketCounts)

	if winner < 0 {
		return Outcome{}
	}
	m.decide(st, []int{winner})
	return Outcome{Decided: true, Winners: st.WinningBuckets}
}

func (m *WinMachine) evaluateAtRoundEnd(st *RoundState) Outcome {
	// Unlimited dropping has no round end; no terminal state is reachable.
	if m.cfg.BallCount == 0 {
		return Outcome{}
	}

	expected := m.cfg.BallCount * (st.TiebreakRound + 1)
	if st.DroppedCount < expected {
		return Outcome{}
	}
	if st.SettledCount < expected {
		// All balls are out but some are still falling (or stuck).
		st.Phase = PhaseDeciding
		return Outcome{}
	}

	winners := m.winnerSet(st)
	switch len(winners) {
	case 0:
		// Degenerate: nothing landed. Stay in Deciding; resolving this is
		// the caller's timeout/forfeit policy, not the engine's guess.
		st.Phase = PhaseDeciding
		return Outcome{}
	case 1:
		m.decide(st, winners)
		return Outcome{Decided: true, Winners: st.WinningBuckets}
	default:
		// Cumulative tie-break: drop counters restart, bucket counts keep
		// accumulating, so each extra sub-round raises the bar.
		st.TiebreakRound++
		st.DroppedCount = 0
		st.SettledCount = 0
		st.FirstBallBucket = -1
		st.Phase = PhaseTieBreak
		return Outcome{TieBreak: true, Winners: winners}
	}
}

func (m *WinMachine) winnerSet(st *RoundState) []int {
	switch m.cfg.WinCondition {
	case WinFirst:
		if st.FirstBallBucket < 0 {
			return nil
		}
		return []int{st.FirstBallBucket}

	case WinMost:
		maxCount := 0
		for _, c := range st.BucketCounts {
			if c > maxCount {
				maxCount = c
			}
		}
		if maxCount == 0 {
			return nil
		}
		var winners []int
		for i, c := range st.BucketCounts {
			if c == maxCount {
				winners = append(winners, i)
			}
		}
		return winners

	case WinLastEmpty:
		var empty []int
		for i, c := range st.BucketCounts {
			if c == 0 {
				empty = append(empty, i)
			}
		}
		if len(empty) > 0 {
			return empty
		}
		// No bucket stayed empty; fall back to the least-filled buckets.
		minCount := -1
		for _, c := range st.BucketCounts {
			if c > 0 && (minCount < 0 || c < minCount) {
				minCount = c
			}
		}
		var winners []int
		for i, c := range st.BucketCounts {
			if c == minCount {
				winners = append(winners, i)
			}
		}
		return winners
	}
	return nil
}

func (m *WinMachine) decide(st *RoundState, winners []int) {
	st.GameEnded = true
	st.WinningBuckets = winners
	st.Phase = PhaseDecided
}
