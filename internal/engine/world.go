package engine

import (
	"math"
	"math/rand"
	"sort"

	"github.com/jakecoffman/cp"
)

// Gravity and material constants for the Chipmunk space. Y grows downward,
// matching the board coordinate system (balls spawn at y=0 and settle near
// y=height).
const (
	gravityY       = 900.0
	ballMass       = 1.0
	wallElasticity = 0.2
)

// BallID identifies one dynamic ball for the lifetime of a round.
type BallID int

// BallState is a read-only kinematic snapshot of one ball.
type BallState struct {
	ID      BallID  `json:"id"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	VX      float64 `json:"vx"`
	VY      float64 `json:"vy"`
	Radius  float64 `json:"radius"`
	Settled bool    `json:"settled"`
}

// Speed returns the scalar velocity magnitude.
func (b BallState) Speed() float64 {
	return math.Hypot(b.VX, b.VY)
}

// RoundWorld is the contract the round engine drives. *World is the
// production implementation; tests substitute deterministic stubs.
//
// Every call addressed at a stale or already-removed ball identity is a
// no-op, never an error: a drop timer or settlement pass can arrive after
// a reset has torn the ball down.
type RoundWorld interface {
	Reset()
	Step(dt float64)
	SpawnBall(x float64) BallID
	RemoveBall(id BallID)
	Balls() []BallState
	MarkSettled(id BallID) bool
	Layout() *Layout
}

type ballBody struct {
	id      BallID
	body    *cp.Body
	shape   *cp.Shape
	settled bool
}

// World owns all rigid bodies for one round. It is a thin facade over a
// Chipmunk2D space: body bookkeeping and config-derived materials live here,
// the integration itself is cp's.
//
// Not safe for concurrent use; the round loop is its single caller.
type World struct {
	cfg    BoardConfig
	layout *Layout
	rng    *rand.Rand

	space  *cp.Space
	balls  map[BallID]*ballBody
	nextID BallID
}

// NewWorld builds a world for cfg and immediately constructs the static
// geometry. cfg must already be normalized.
func NewWorld(cfg BoardConfig, rng *rand.Rand) *World {
	w := &World{cfg: cfg, rng: rng}
	w.Reset()
	return w
}

// Reset destroys every dynamic and static body and rebuilds the statics from
// the layout builder. Dropping the whole space is the cheapest way to
// guarantee nothing from the previous round survives.
func (w *World) Reset() {
	w.space = cp.NewSpace()
	w.space.SetGravity(cp.Vector{X: 0, Y: gravityY})
	w.balls = make(map[BallID]*ballBody)
	w.layout = BuildLayout(w.cfg)

	for _, wall := range w.layout.Walls {
		w.addStaticBox(wall.X, wall.Y, wall.W, wall.H)
	}
	for _, d := range w.layout.Dividers {
		w.addStaticBox(d.X, d.Y, d.W, d.H)
	}
	for _, pin := range w.layout.Pins {
		sh := w.space.AddShape(cp.NewCircle(w.space.StaticBody, pin.Radius, cp.Vector{X: pin.X, Y: pin.Y}))
		sh.SetElasticity(wallElasticity)
		sh.SetFriction(w.cfg.BallFriction)
	}
}

func (w *World) addStaticBox(x, y, width, height float64) {
	bb := cp.BB{L: x - width/2, B: y - height/2, R: x + width/2, T: y + height/2}
	sh := w.space.AddShape(cp.NewBox2(w.space.StaticBody, bb, 0))
	sh.SetElasticity(wallElasticity)
	sh.SetFriction(w.cfg.BallFriction)
}

// Step advances the simulation by dt seconds. Side effect only.
func (w *World) Step(dt float64) {
	w.space.Step(dt)
}

// SpawnBall creates one ball at (x, 0) with the configured material and an
// initial velocity of dropVelocity straight down, rotated by a uniform
// random angle within +/- dropAngleRandomness degrees.
func (w *World) SpawnBall(x float64) BallID {
	r := w.cfg.BallRadius
	moment := cp.MomentForCircle(ballMass, 0, r, cp.Vector{})
	body := w.space.AddBody(cp.NewBody(ballMass, moment))
	body.SetPosition(cp.Vector{X: x, Y: 0})

	angle := 0.0
	if w.cfg.DropAngleRandomness > 0 {
		angle = (w.rng.Float64()*2 - 1) * w.cfg.DropAngleRandomness
	}
	rad := angle * math.Pi / 180
	body.SetVelocity(w.cfg.DropVelocity*math.Sin(rad), w.cfg.DropVelocity*math.Cos(rad))

	shape := w.space.AddShape(cp.NewCircle(body, r, cp.Vector{}))
	shape.SetElasticity(w.cfg.BallRestitution)
	shape.SetFriction(w.cfg.BallFriction)

	id := w.nextID
	w.nextID++
	w.balls[id] = &ballBody{id: id, body: body, shape: shape}
	return id
}

// RemoveBall destroys a ball. Unknown identities are ignored, so a settled
// ball removed by a prior tick cannot fault a later caller.
func (w *World) RemoveBall(id BallID) {
	bb, ok := w.balls[id]
	if !ok {
		return
	}
	w.space.RemoveShape(bb.shape)
	w.space.RemoveBody(bb.body)
	delete(w.balls, id)
}

// MarkSettled flips a ball's write-once settled flag. Returns false if the
// ball is unknown or already settled, making double-settlement a no-op.
func (w *World) MarkSettled(id BallID) bool {
	bb, ok := w.balls[id]
	if !ok || bb.settled {
		return false
	}
	bb.settled = true
	return true
}

// Balls returns a kinematic snapshot of every live ball, ordered by identity
// so downstream consumers (settlement scan, render feed) are deterministic.
func (w *World) Balls() []BallState {
	out := make([]BallState, 0, len(w.balls))
	for _, bb := range w.balls {
		pos := bb.body.Position()
		vel := bb.body.Velocity()
		out = append(out, BallState{
			ID:      bb.id,
			X:       pos.X,
			Y:       pos.Y,
			VX:      vel.X,
			VY:      vel.Y,
			Radius:  w.cfg.BallRadius,
			Settled: bb.settled,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Layout exposes the static geometry for the render feed.
func (w *World) Layout() *Layout {
	return w.layout
}
