package engine

import (
	"context"
	cryptorand "crypto/rand"
	"encoding/json"
	"fmt"
	"log"
	"math/big"
	"math/rand"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/partydrop/backend/internal/players"
)

// ResultsChannel is the redis pub/sub channel round results are mirrored to,
// fire-and-forget, for anything listening outside this process.
const ResultsChannel = "round_results"

// Broadcaster receives the render feed. The websocket hub implements it;
// the engine never depends on anything the renderer produces.
type Broadcaster interface {
	BroadcastSnapshot(Snapshot)
	BroadcastResult(RoundResult)
}

// Manager owns the lifecycle of the current round: at most one round exists
// at a time, and starting a new one first cancels and joins the old one so
// no two rounds ever overlap.
type Manager struct {
	players      *players.Store
	rdb          *redis.Client
	hub          Broadcaster
	stallTimeout time.Duration

	mu     sync.Mutex
	round  *Round
	cancel context.CancelFunc
}

// NewManager wires the manager. rdb and hub may be nil; both are
// fire-and-forget edges, not correctness dependencies.
func NewManager(ps *players.Store, rdb *redis.Client, hub Broadcaster, stallTimeout time.Duration) *Manager {
	return &Manager{players: ps, rdb: rdb, hub: hub, stallTimeout: stallTimeout}
}

// StartRound builds a fresh round from cfg and the current active roster
// and starts its loop. Any running round is stopped first.
func (m *Manager) StartRound(ctx context.Context, cfg BoardConfig) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopLocked()

	roster, err := m.players.Active(ctx)
	if err != nil {
		return "", fmt.Errorf("load active roster: %w", err)
	}
	if len(roster) == 0 {
		return "", fmt.Errorf("no active players to assign to buckets")
	}

	bc := cfg.Normalized(len(roster))
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	ids := make([]int, len(roster))
	for i, p := range roster {
		ids[i] = p.ID
	}
	assignment := AssignBuckets(ids, bc.BucketCount, rng)

	id := newRoundID()
	round := NewRound(id, bc, NewWorld(bc, rng), assignment, rng, RoundHooks{
		OnSnapshot: m.broadcastSnapshot,
		OnResult:   m.handleResult,
	}, m.stallTimeout)

	runCtx, cancel := context.WithCancel(context.Background())
	m.round = round
	m.cancel = cancel
	go round.Run(runCtx)

	log.Printf("[ENGINE] Round %s started with %d players", id, len(roster))
	return id, nil
}

// StopRound cancels the current round, if any, and waits for its loop to
// exit.
func (m *Manager) StopRound() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopLocked()
}

func (m *Manager) stopLocked() {
	if m.round == nil {
		return
	}
	m.cancel()
	<-m.round.Done()
	m.round = nil
	m.cancel = nil
}

// IsLocalRound reports whether id belongs to the round this process owns.
// Used to filter our own publishes out of the redis result relay.
func (m *Manager) IsLocalRound(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.round != nil && m.round.ID == id
}

// Snapshot returns the latest render frame of the current round.
func (m *Manager) Snapshot() (Snapshot, bool) {
	m.mu.Lock()
	round := m.round
	m.mu.Unlock()
	if round == nil {
		return Snapshot{}, false
	}
	return round.Snapshot()
}

func (m *Manager) broadcastSnapshot(s Snapshot) {
	if m.hub != nil {
		m.hub.BroadcastSnapshot(s)
	}
}

// handleResult runs on the round goroutine once per decided round: record
// wins, feed the render hub, mirror to redis. Persistence failures degrade
// to a log line; the result itself is already final.
func (m *Manager) handleResult(res RoundResult) {
	ctx := context.Background()

	if err := m.players.RecordWins(ctx, res.WinnerPlayerIDs); err != nil {
		log.Printf("[ENGINE] Failed to record wins for %v: %v", res.WinnerPlayerIDs, err)
	}

	if m.hub != nil {
		m.hub.BroadcastResult(res)
	}

	if m.rdb != nil {
		data, err := json.Marshal(res)
		if err == nil {
			err = m.rdb.Publish(ctx, ResultsChannel, data).Err()
		}
		if err != nil {
			log.Printf("[ENGINE] Failed to publish result for round %s: %v", res.RoundID, err)
		}
	}
}

// newRoundID generates a random round identifier.
func newRoundID() string {
	const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	b := make([]byte, 10)
	for i := range b {
		n, _ := cryptorand.Int(cryptorand.Reader, big.NewInt(int64(len(charset))))
		b[i] = charset[n.Int64()]
	}
	return "ROUND_" + string(b)
}
