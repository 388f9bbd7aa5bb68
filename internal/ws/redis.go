package ws

import (
	"context"
	"encoding/json"
	"log"

	"github.com/redis/go-redis/v9"

	"github.com/partydrop/backend/internal/engine"
)

// StartResultSubscriber relays round results published to redis (possibly by
// another instance) onto this hub's clients. Results produced locally are
// broadcast directly by the engine manager; frames from our own publishes
// are filtered out by round ID.
func StartResultSubscriber(ctx context.Context, rdb *redis.Client, hub *Hub, isLocalRound func(roundID string) bool) {
	if rdb == nil {
		log.Println("[WS] Redis client not set; result subscriber not started")
		return
	}

	pubsub := rdb.Subscribe(ctx, engine.ResultsChannel)
	ch := pubsub.Channel()
	go func() {
		defer pubsub.Close()
		log.Println("[WS] round_results subscriber started")
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var res engine.RoundResult
				if err := json.Unmarshal([]byte(msg.Payload), &res); err != nil {
					log.Printf("[WS] invalid round_results payload: %v", err)
					continue
				}
				if isLocalRound != nil && isLocalRound(res.RoundID) {
					continue
				}
				hub.BroadcastResult(res)
			}
		}
	}()
}
