package engine

import (
	"context"
	"log"
	"math/rand"
	"sync"
	"time"
)

// Simulation clock. The drop clock is separate wall-clock cadence taken from
// BoardConfig.DropIntervalMs.
const (
	simTickHz       = 60
	simDt           = 1.0 / simTickHz
	simTickInterval = time.Second / simTickHz
)

// RoundResult is fired exactly once per decided round.
type RoundResult struct {
	RoundID         string `json:"round_id"`
	WinningBuckets  []int  `json:"winning_buckets"`
	WinnerPlayerIDs []int  `json:"winner_player_ids"`
	TiebreakRounds  int    `json:"tiebreak_rounds"`
}

// Snapshot is the read-only per-tick render feed frame. Everything in it is
// a copy or immutable, safe to marshal from any goroutine.
type Snapshot struct {
	RoundID    string           `json:"round_id"`
	Tick       int64            `json:"tick"`
	Balls      []BallState      `json:"balls"`
	Layout     *Layout          `json:"layout"`
	State      RoundState       `json:"state"`
	Assignment BucketAssignment `json:"assignment"`
}

// RoundHooks are the engine's outward edges: the render feed and the round
// result consumer. Either may be nil.
type RoundHooks struct {
	OnSnapshot func(Snapshot)
	OnResult   func(RoundResult)
}

// Round owns one full play-through: the world, the spawner, the settlement
// detector and the win machine, coordinated by a single goroutine running
// two clocks. RoundState is mutated only from that goroutine.
type Round struct {
	ID         string
	cfg        BoardConfig
	world      RoundWorld
	spawner    *Spawner
	detector   *SettlementDetector
	machine    *WinMachine
	state      *RoundState
	assignment BucketAssignment

	hooks        RoundHooks
	stallTimeout time.Duration
	lastProgress time.Time

	tick        int64
	resultFired bool

	mu          sync.RWMutex
	latest      Snapshot
	hasSnapshot bool

	quit     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

// NewRound wires a round from a normalized config, a world and a bucket
// assignment. stallTimeout > 0 force-stops a round that makes no progress
// for that long (the caller-supplied policy for never-settling balls);
// 0 disables it.
func NewRound(id string, cfg BoardConfig, world RoundWorld, assignment BucketAssignment, rng *rand.Rand, hooks RoundHooks, stallTimeout time.Duration) *Round {
	return &Round{
		ID:           id,
		cfg:          cfg,
		world:        world,
		spawner:      NewSpawner(cfg, rng),
		detector:     NewSettlementDetector(cfg, world.Layout().BucketBounds),
		machine:      NewWinMachine(cfg),
		state:        NewRoundState(cfg.BucketCount),
		assignment:   assignment,
		hooks:        hooks,
		stallTimeout: stallTimeout,
		quit:         make(chan struct{}),
		done:         make(chan struct{}),
	}
}

// Run drives the round until it is decided, stopped or cancelled. Both
// clocks live in this single select loop, so cancellation stops them
// together and no timer can fire against a torn-down round.
func (r *Round) Run(ctx context.Context) {
	defer close(r.done)

	simTicker := time.NewTicker(simTickInterval)
	defer simTicker.Stop()
	dropTicker := time.NewTicker(time.Duration(r.cfg.DropIntervalMs) * time.Millisecond)
	defer dropTicker.Stop()

	var stallC <-chan time.Time
	var stall *time.Timer
	if r.stallTimeout > 0 {
		stall = time.NewTimer(r.stallTimeout)
		defer stall.Stop()
		stallC = stall.C
	}
	r.lastProgress = time.Now()

	r.spawner.Start()
	log.Printf("[ROUND] %s started (condition=%s buckets=%d balls=%d)",
		r.ID, r.cfg.WinCondition, r.cfg.BucketCount, r.cfg.BallCount)

	for {
		select {
		case <-ctx.Done():
			log.Printf("[ROUND] %s cancelled", r.ID)
			return
		case <-r.quit:
			log.Printf("[ROUND] %s stopped", r.ID)
			return
		case <-stallC:
			idle := time.Since(r.lastProgress)
			if idle < r.stallTimeout {
				stall.Reset(r.stallTimeout - idle)
				continue
			}
			log.Printf("[ROUND] %s stalled for %s with no settlement, stopping without a result", r.ID, idle.Truncate(time.Second))
			return
		case <-dropTicker.C:
			r.dropTick()
		case <-simTicker.C:
			if r.simTick() {
				return
			}
		}
	}
}

// Stop ends the round and waits for the loop goroutine to exit, so the
// caller can safely build a successor round afterwards.
func (r *Round) Stop() {
	r.stopOnce.Do(func() { close(r.quit) })
	<-r.done
}

// Done exposes loop completion to the manager.
func (r *Round) Done() <-chan struct{} { return r.done }

// dropTick consumes one drop-clock tick, spawning a ball if one is due.
func (r *Round) dropTick() {
	if r.state.GameEnded {
		return
	}
	if x, ok := r.spawner.Drop(r.state); ok {
		r.world.SpawnBall(x)
		r.lastProgress = time.Now()
	}
}

// simTick advances physics, settles balls and evaluates the win condition.
// Returns true once the round is decided.
func (r *Round) simTick() bool {
	r.tick++
	r.world.Step(simDt)

	if settled := r.detector.Scan(r.world, r.state); len(settled) > 0 {
		r.lastProgress = time.Now()
	}

	outcome := r.machine.Evaluate(r.state)
	if outcome.TieBreak {
		log.Printf("[ROUND] %s tie between buckets %v, starting tie-break %d",
			r.ID, outcome.Winners, r.state.TiebreakRound)
		r.spawner.Resume()
	}

	r.publishSnapshot()

	if outcome.Decided {
		r.fireResult()
		return true
	}
	return false
}

func (r *Round) publishSnapshot() {
	snap := Snapshot{
		RoundID:    r.ID,
		Tick:       r.tick,
		Balls:      r.world.Balls(),
		Layout:     r.world.Layout(),
		State:      r.state.Copy(),
		Assignment: r.assignment,
	}

	r.mu.Lock()
	r.latest = snap
	r.hasSnapshot = true
	r.mu.Unlock()

	if r.hooks.OnSnapshot != nil {
		r.hooks.OnSnapshot(snap)
	}
}

// fireResult emits the round result exactly once.
func (r *Round) fireResult() {
	if r.resultFired {
		return
	}
	r.resultFired = true

	result := RoundResult{
		RoundID:         r.ID,
		WinningBuckets:  append([]int(nil), r.state.WinningBuckets...),
		WinnerPlayerIDs: r.assignment.PlayersFor(r.state.WinningBuckets),
		TiebreakRounds:  r.state.TiebreakRound,
	}
	log.Printf("[ROUND] %s decided: buckets=%v players=%v tiebreaks=%d",
		r.ID, result.WinningBuckets, result.WinnerPlayerIDs, result.TiebreakRounds)

	if r.hooks.OnResult != nil {
		r.hooks.OnResult(result)
	}
}

// Snapshot returns the most recent render frame, if any tick has run.
func (r *Round) Snapshot() (Snapshot, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.latest, r.hasSnapshot
}
