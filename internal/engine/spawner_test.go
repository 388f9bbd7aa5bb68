package engine

import (
	"math"
	"math/rand"
	"testing"
)

func TestSpawnerCapAndResume(t *testing.T) {
	cfg := testBoardConfig(2)
	cfg.BallCount = 3
	cfg.DropLocation = DropCenter

	s := NewSpawner(cfg, rand.New(rand.NewSource(1)))
	st := NewRoundState(2)

	if _, ok := s.Drop(st); ok {
		t.Fatal("idle spawner must not drop")
	}
	s.Start()

	for i := 0; i < 3; i++ {
		if _, ok := s.Drop(st); !ok {
			t.Fatalf("drop %d should succeed", i)
		}
	}
	if st.DroppedCount != 3 {
		t.Errorf("dropped count = %d, want 3", st.DroppedCount)
	}
	if s.Phase() != SpawnerExhausted {
		t.Errorf("phase = %s, want EXHAUSTED", s.Phase())
	}
	if _, ok := s.Drop(st); ok {
		t.Error("exhausted spawner must not drop")
	}

	// Tie-break raises the cap and resumes dropping.
	st.TiebreakRound = 1
	st.DroppedCount = 0
	s.Resume()
	drops := 0
	for {
		if _, ok := s.Drop(st); !ok {
			break
		}
		drops++
	}
	if drops != 6 {
		t.Errorf("tie-break sub-round dropped %d balls, want ballCount*(tiebreak+1)=6", drops)
	}
}

func TestSpawnerUnlimitedNeverExhausts(t *testing.T) {
	cfg := testBoardConfig(2)
	cfg.BallCount = 0
	cfg.DropLocation = DropCenter

	s := NewSpawner(cfg, rand.New(rand.NewSource(1)))
	st := NewRoundState(2)
	s.Start()

	for i := 0; i < 500; i++ {
		if _, ok := s.Drop(st); !ok {
			t.Fatalf("unlimited spawner refused drop %d", i)
		}
	}
	if s.Phase() != SpawnerDropping {
		t.Errorf("unlimited spawner phase = %s, want DROPPING", s.Phase())
	}
}

func TestSpawnerCenterStrategy(t *testing.T) {
	cfg := testBoardConfig(2)
	cfg.BallCount = 0
	cfg.DropLocation = DropCenter

	s := NewSpawner(cfg, rand.New(rand.NewSource(1)))
	st := NewRoundState(2)
	s.Start()

	for i := 0; i < 5; i++ {
		x, _ := s.Drop(st)
		if x != cfg.Width/2 {
			t.Errorf("center drop %d at x=%f, want %f", i, x, cfg.Width/2)
		}
	}
}

func TestSpawnerRandomStaysInsideWalls(t *testing.T) {
	cfg := testBoardConfig(2)
	cfg.BallCount = 0
	cfg.DropLocation = DropRandom

	s := NewSpawner(cfg, rand.New(rand.NewSource(42)))
	st := NewRoundState(2)
	s.Start()

	for i := 0; i < 1000; i++ {
		x, _ := s.Drop(st)
		if x < cfg.BallRadius || x > cfg.Width-cfg.BallRadius {
			t.Fatalf("random drop %d at x=%f outside [%f, %f]", i, x, cfg.BallRadius, cfg.Width-cfg.BallRadius)
		}
	}
}

func TestSpawnerZigzagWalksAndReverses(t *testing.T) {
	cfg := testBoardConfig(2)
	cfg.BallCount = 0
	cfg.DropLocation = DropZigzag
	cfg.PinColumns = 8

	s := NewSpawner(cfg, rand.New(rand.NewSource(1)))
	st := NewRoundState(2)
	s.Start()

	step := cfg.Width / 8
	lo := cfg.BallRadius
	hi := cfg.Width - cfg.BallRadius

	var xs []float64
	for i := 0; i < 40; i++ {
		x, _ := s.Drop(st)
		xs = append(xs, x)
	}

	reversals := 0
	dir := 1.0
	for i := 1; i < len(xs); i++ {
		delta := xs[i] - xs[i-1]
		if xs[i] < lo-1e-9 || xs[i] > hi+1e-9 {
			t.Fatalf("zigzag x[%d]=%f escaped [%f, %f]", i, xs[i], lo, hi)
		}
		if delta*dir < 0 {
			// Direction may only flip at an edge.
			atEdge := xs[i-1] == hi || xs[i-1] == lo
			if !atEdge {
				t.Fatalf("zigzag reversed away from the edges at x[%d]=%f", i-1, xs[i-1])
			}
			dir = -dir
			reversals++
			continue
		}
		// Away from the clamp the stride is exactly width/pinColumns.
		if xs[i] != hi && xs[i] != lo && math.Abs(math.Abs(delta)-step) > 1e-9 {
			t.Fatalf("zigzag stride %f at step %d, want %f", delta, i, step)
		}
	}
	if reversals < 2 {
		t.Errorf("expected at least 2 reversals over 40 drops, got %d", reversals)
	}
}
