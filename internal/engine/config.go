package engine

// DropLocation selects the horizontal spawn strategy for successive balls.
type DropLocation string

const (
	DropRandom DropLocation = "random"
	DropZigzag DropLocation = "zigzag"
	DropCenter DropLocation = "center"
)

// BucketDistribution selects how the board width is partitioned into buckets.
type BucketDistribution string

const (
	DistEven   BucketDistribution = "even"
	DistMiddle BucketDistribution = "middle"
	DistEdge   BucketDistribution = "edge"
)

// WinCondition selects how the round winner is resolved.
type WinCondition string

const (
	WinNth       WinCondition = "nth"
	WinMost      WinCondition = "most"
	WinFirst     WinCondition = "first"
	WinLastEmpty WinCondition = "last-empty"
)

// BoardConfig is the immutable per-round board description. It arrives as
// loosely-typed JSON from the frontend config form and MUST pass through
// Normalized before the engine sees it.
type BoardConfig struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`

	BallRadius      float64 `json:"ball_radius"`
	BallRestitution float64 `json:"ball_restitution"`
	BallFriction    float64 `json:"ball_friction"`
	BallCount       int     `json:"ball_count"` // 0 means unlimited dropping

	DropIntervalMs      int          `json:"drop_interval_ms"`
	DropVelocity        float64      `json:"drop_velocity"`
	DropAngleRandomness float64      `json:"drop_angle_randomness"` // degrees, +/- around straight down
	DropLocation        DropLocation `json:"drop_location"`

	PinRows    int     `json:"pin_rows"`
	PinColumns int     `json:"pin_columns"`
	PinRadius  float64 `json:"pin_radius"`
	PinWallGap float64 `json:"pin_wall_gap"`
	PinRimGap  float64 `json:"pin_rim_gap"`
	CeilingGap float64 `json:"ceiling_gap"`
	RimHeight  float64 `json:"rim_height"`

	BucketCount        int                `json:"bucket_count"` // derived: max(2, active players)
	BucketDistribution BucketDistribution `json:"bucket_distribution"`

	WinCondition WinCondition `json:"win_condition"`
	WinParam     int          `json:"win_param"` // N for the "nth" condition

	DestroyBalls bool `json:"destroy_balls"`
}

// DefaultBoardConfig returns the stock board used when nothing has been saved yet.
func DefaultBoardConfig() BoardConfig {
	return BoardConfig{
		Width:               800,
		Height:              1000,
		BallRadius:          10,
		BallRestitution:     0.4,
		BallFriction:        0.2,
		BallCount:           10,
		DropIntervalMs:      500,
		DropVelocity:        120,
		DropAngleRandomness: 10,
		DropLocation:        DropRandom,
		PinRows:             8,
		PinColumns:          9,
		PinRadius:           6,
		PinWallGap:          30,
		PinRimGap:           80,
		CeilingGap:          120,
		RimHeight:           120,
		BucketCount:         2,
		BucketDistribution:  DistEven,
		WinCondition:        WinMost,
		WinParam:            3,
		DestroyBalls:        false,
	}
}

// Normalized clamps every field into the range the engine can simulate.
// activePlayers drives the derived bucket count; the engine never receives
// an unsatisfiable config, degenerate values are corrected here rather than
// discovered mid-round.
func (c BoardConfig) Normalized(activePlayers int) BoardConfig {
	def := DefaultBoardConfig()

	if c.Width <= 0 {
		c.Width = def.Width
	}
	if c.Height <= 0 {
		c.Height = def.Height
	}
	if c.BallRadius <= 0 {
		c.BallRadius = def.BallRadius
	}
	if c.BallRestitution < 0 {
		c.BallRestitution = 0
	}
	if c.BallFriction < 0 {
		c.BallFriction = 0
	}
	if c.BallCount < 0 {
		c.BallCount = 0
	}
	if c.DropIntervalMs <= 0 {
		c.DropIntervalMs = def.DropIntervalMs
	}
	if c.DropVelocity < 0 {
		c.DropVelocity = 0
	}
	if c.DropAngleRandomness < 0 {
		c.DropAngleRandomness = 0
	}
	switch c.DropLocation {
	case DropRandom, DropZigzag, DropCenter:
	default:
		c.DropLocation = def.DropLocation
	}

	if c.PinRows < 1 {
		c.PinRows = 1
	}
	if c.PinColumns < 1 {
		c.PinColumns = 1
	}
	if c.PinRadius <= 0 {
		c.PinRadius = def.PinRadius
	}
	if c.PinWallGap < 0 {
		c.PinWallGap = 0
	}
	if c.PinRimGap < 0 {
		c.PinRimGap = 0
	}
	if c.CeilingGap < 0 {
		c.CeilingGap = 0
	}
	if c.RimHeight <= 0 {
		c.RimHeight = def.RimHeight
	}

	c.BucketCount = max(2, activePlayers)
	switch c.BucketDistribution {
	case DistEven, DistMiddle, DistEdge:
	default:
		c.BucketDistribution = def.BucketDistribution
	}

	switch c.WinCondition {
	case WinNth, WinMost, WinFirst, WinLastEmpty:
	default:
		c.WinCondition = def.WinCondition
	}
	if c.WinParam < 1 {
		c.WinParam = 1
	}

	return c
}
