package engine

// Settlement thresholds. A ball counts as landed once it is low on the board
// and nearly at rest; floating-point jitter from the physics step never
// un-settles it because the settled flag is write-once.
const (
	SettleMarginPx       = 60.0
	SettleSpeedThreshold = 1.5
)

// Settlement is one landed-ball event.
type Settlement struct {
	Ball   BallID `json:"ball"`
	Bucket int    `json:"bucket"`
}

// SettlementDetector classifies live balls as landed, once each, and keeps
// the bucket tallies in RoundState. Runs once per simulation tick after the
// physics step.
type SettlementDetector struct {
	cfg    BoardConfig
	bounds []float64
}

// NewSettlementDetector creates a detector for a normalized config and its
// bucket partition.
func NewSettlementDetector(cfg BoardConfig, bounds []float64) *SettlementDetector {
	return &SettlementDetector{cfg: cfg, bounds: bounds}
}

// Scan walks every live, not-yet-settled ball and settles the ones that
// satisfy the position/speed predicate. MarkSettled is the idempotency
// gate: a ball that fails it was already counted and is skipped, so tallies
// can never double-count.
//
// A ball that never satisfies the predicate (wedged, balanced on a pin)
// simply never settles; that is an accepted limitation, not an error.
func (d *SettlementDetector) Scan(w RoundWorld, st *RoundState) []Settlement {
	var out []Settlement
	for _, b := range w.Balls() {
		if b.Settled {
			continue
		}
		if b.Y <= d.cfg.Height-SettleMarginPx {
			continue
		}
		if b.Speed() >= SettleSpeedThreshold {
			continue
		}
		if !w.MarkSettled(b.ID) {
			continue
		}

		bucket := BucketIndex(d.bounds, b.X)
		st.BucketCounts[bucket]++
		st.SettledCount++

		if st.FirstBallBucket < 0 {
			st.FirstBallBucket = bucket
		}
		if st.TiebreakRound == 0 && st.SettledCount == d.cfg.WinParam {
			st.NthBallBucket = bucket
		}

		if d.cfg.DestroyBalls {
			w.RemoveBall(b.ID)
		}
		out = append(out, Settlement{Ball: b.ID, Bucket: bucket})
	}
	return out
}
