package engine

import "math/rand"

// SpawnerPhase is the drop-clock state for one round.
type SpawnerPhase string

const (
	SpawnerIdle      SpawnerPhase = "IDLE"
	SpawnerDropping  SpawnerPhase = "DROPPING"
	SpawnerExhausted SpawnerPhase = "EXHAUSTED"
)

// Spawner decides when and where the next ball enters the board. It owns the
// drop-location strategy state; the actual cadence timer belongs to the
// round loop.
type Spawner struct {
	cfg   BoardConfig
	rng   *rand.Rand
	phase SpawnerPhase

	// zigzag strategy state
	zigzagX   float64
	zigzagDir float64
}

// NewSpawner creates an idle spawner for a normalized config.
func NewSpawner(cfg BoardConfig, rng *rand.Rand) *Spawner {
	return &Spawner{
		cfg:       cfg,
		rng:       rng,
		phase:     SpawnerIdle,
		zigzagX:   cfg.Width / 2,
		zigzagDir: 1,
	}
}

// Phase returns the current drop-clock state.
func (s *Spawner) Phase() SpawnerPhase { return s.phase }

// Start moves the spawner from Idle to Dropping at round start.
func (s *Spawner) Start() {
	if s.phase == SpawnerIdle {
		s.phase = SpawnerDropping
	}
}

// Resume re-enters Dropping after a tie-break raised the drop cap.
func (s *Spawner) Resume() {
	if s.phase == SpawnerExhausted {
		s.phase = SpawnerDropping
	}
}

// Drop consumes one drop-clock tick. If a ball is due it picks the spawn x,
// increments st.DroppedCount and returns (x, true); otherwise it returns
// false, moving to Exhausted once the current sub-round's cap
// ballCount*(tiebreakRound+1) is reached. ballCount 0 never exhausts.
func (s *Spawner) Drop(st *RoundState) (float64, bool) {
	if s.phase != SpawnerDropping {
		return 0, false
	}

	limit := s.cfg.BallCount * (st.TiebreakRound + 1)
	if s.cfg.BallCount > 0 && st.DroppedCount >= limit {
		s.phase = SpawnerExhausted
		return 0, false
	}

	x := s.nextX()
	st.DroppedCount++
	if s.cfg.BallCount > 0 && st.DroppedCount >= limit {
		s.phase = SpawnerExhausted
	}
	return x, true
}

func (s *Spawner) nextX() float64 {
	switch s.cfg.DropLocation {
	case DropCenter:
		return s.cfg.Width / 2
	case DropZigzag:
		return s.nextZigzagX()
	default: // random, kept strictly inside the walls
		lo := s.cfg.BallRadius
		hi := s.cfg.Width - s.cfg.BallRadius
		return lo + s.rng.Float64()*(hi-lo)
	}
}

// nextZigzagX walks the spawn point across the board by width/pinColumns per
// drop, reversing direction when it clamps at either edge.
func (s *Spawner) nextZigzagX() float64 {
	step := s.cfg.Width / float64(s.cfg.PinColumns)
	lo := s.cfg.BallRadius
	hi := s.cfg.Width - s.cfg.BallRadius

	x := s.zigzagX
	s.zigzagX += s.zigzagDir * step
	if s.zigzagX >= hi {
		s.zigzagX = hi
		s.zigzagDir = -1
	} else if s.zigzagX <= lo {
		s.zigzagX = lo
		s.zigzagDir = 1
	}
	return x
}
