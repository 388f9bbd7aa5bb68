// Package boardcfg persists the board configuration in redis with a
// last-good in-memory fallback: persistence is fire-and-forget and never a
// correctness dependency of the simulation.
package boardcfg

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/partydrop/backend/internal/engine"
)

const configKey = "board:config"

// Store holds the current BoardConfig. The in-memory copy is authoritative
// for a running process; redis only survives restarts.
type Store struct {
	rdb *redis.Client

	mu      sync.RWMutex
	current engine.BoardConfig
}

// NewStore starts from defaults; call Load to pick up a persisted config.
// rdb may be nil, in which case the store is memory-only.
func NewStore(rdb *redis.Client) *Store {
	return &Store{rdb: rdb, current: engine.DefaultBoardConfig()}
}

// Load replaces the in-memory config with the persisted one, if present.
// Any failure keeps the last known good config and is non-fatal.
func (s *Store) Load(ctx context.Context) {
	if s.rdb == nil {
		return
	}
	data, err := s.rdb.Get(ctx, configKey).Bytes()
	if err == redis.Nil {
		return
	}
	if err != nil {
		log.Printf("[CONFIG] Load from redis failed, keeping in-memory config: %v", err)
		return
	}

	var cfg engine.BoardConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		log.Printf("[CONFIG] Stored board config is unreadable, keeping in-memory config: %v", err)
		return
	}

	s.mu.Lock()
	s.current = cfg
	s.mu.Unlock()
	log.Printf("[CONFIG] Board config loaded from redis")
}

// Current returns the last accepted config.
func (s *Store) Current() engine.BoardConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Save accepts cfg immediately and then tries to persist it. The returned
// flag reports whether persistence succeeded so callers can surface a
// non-fatal status; the in-memory config is updated either way.
func (s *Store) Save(ctx context.Context, cfg engine.BoardConfig) bool {
	s.mu.Lock()
	s.current = cfg
	s.mu.Unlock()

	if s.rdb == nil {
		return false
	}
	data, err := json.Marshal(cfg)
	if err == nil {
		err = s.rdb.Set(ctx, configKey, data, 0).Err()
	}
	if err != nil {
		log.Printf("[CONFIG] Persist to redis failed (config kept in memory): %v", err)
		return false
	}
	return true
}
