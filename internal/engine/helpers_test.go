package engine

import "sort"

// fakeWorld is a deterministic RoundWorld for exercising the settlement
// detector and the round flow without real physics: tests place balls
// wherever the scenario needs them.
type fakeWorld struct {
	cfg    BoardConfig
	layout *Layout
	balls  map[BallID]*BallState
	nextID BallID

	removed []BallID
	resets  int
}

func newFakeWorld(cfg BoardConfig) *fakeWorld {
	return &fakeWorld{
		cfg:    cfg,
		layout: BuildLayout(cfg),
		balls:  make(map[BallID]*BallState),
	}
}

func (w *fakeWorld) Reset() {
	w.balls = make(map[BallID]*BallState)
	w.resets++
}

func (w *fakeWorld) Step(dt float64) {}

func (w *fakeWorld) SpawnBall(x float64) BallID {
	id := w.nextID
	w.nextID++
	w.balls[id] = &BallState{ID: id, X: x, Y: 0, Radius: w.cfg.BallRadius}
	return id
}

func (w *fakeWorld) RemoveBall(id BallID) {
	if _, ok := w.balls[id]; !ok {
		return
	}
	delete(w.balls, id)
	w.removed = append(w.removed, id)
}

func (w *fakeWorld) MarkSettled(id BallID) bool {
	b, ok := w.balls[id]
	if !ok || b.Settled {
		return false
	}
	b.Settled = true
	return true
}

func (w *fakeWorld) Balls() []BallState {
	out := make([]BallState, 0, len(w.balls))
	for _, b := range w.balls {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (w *fakeWorld) Layout() *Layout { return w.layout }

// place moves a ball to an exact position and velocity.
func (w *fakeWorld) place(id BallID, x, y, vx, vy float64) {
	if b, ok := w.balls[id]; ok {
		b.X, b.Y, b.VX, b.VY = x, y, vx, vy
	}
}

// restAll drops every live ball to the floor at its current x, at rest, so
// the next settlement scan lands all of them.
func (w *fakeWorld) restAll() {
	for _, b := range w.balls {
		b.Y = w.cfg.Height - 1
		b.VX, b.VY = 0, 0
	}
}

// testBoardConfig is a small normalized board used across the engine tests.
func testBoardConfig(buckets int) BoardConfig {
	cfg := DefaultBoardConfig()
	cfg.Width = 400
	cfg.Height = 600
	cfg.BucketCount = buckets
	return cfg
}
