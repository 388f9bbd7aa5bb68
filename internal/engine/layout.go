package engine

import "math"

// Static geometry constants shared by every board. The frontend renders the
// same values, so changing these changes what players see.
const (
	WallThickness    = 20.0
	DividerThickness = 4.0
)

// Wall is a static rectangle. X/Y is the center, W/H the full extents.
type Wall struct {
	Name string  `json:"name"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	W    float64 `json:"w"`
	H    float64 `json:"h"`
}

// Pin is one static peg of the grid.
type Pin struct {
	Row    int     `json:"row"`
	Col    int     `json:"col"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Radius float64 `json:"radius"`
}

// Divider is a thin static rectangle separating two adjacent buckets.
type Divider struct {
	Index int     `json:"index"` // boundary index into BucketBounds
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	W     float64 `json:"w"`
	H     float64 `json:"h"`
}

// Layout is the complete static geometry for one round. Built once from a
// normalized BoardConfig and immutable afterwards.
type Layout struct {
	Walls        []Wall    `json:"walls"`
	Pins         []Pin     `json:"pins"`
	Dividers     []Divider `json:"dividers"`
	BucketBounds []float64 `json:"bucket_bounds"`
}

// BuildLayout turns a normalized BoardConfig into static body descriptors
// plus the bucket partition of the board width.
func BuildLayout(cfg BoardConfig) *Layout {
	l := &Layout{
		Walls:        buildWalls(cfg),
		Pins:         buildPinGrid(cfg),
		BucketBounds: BucketBoundsFor(cfg),
	}
	l.Dividers = buildDividers(cfg, l.BucketBounds)
	return l
}

func buildWalls(cfg BoardConfig) []Wall {
	t := WallThickness
	// The ceiling sits above the spawn line (y=0) so a freshly spawned ball
	// never overlaps it, and a hard bounce cannot leave the board upward.
	ceilingY := -4*cfg.BallRadius - t/2
	sideH := cfg.Height - ceilingY + t

	return []Wall{
		{Name: "ceiling", X: cfg.Width / 2, Y: ceilingY, W: cfg.Width + 2*t, H: t},
		{Name: "floor", X: cfg.Width / 2, Y: cfg.Height + t/2, W: cfg.Width + 2*t, H: t},
		{Name: "left", X: -t / 2, Y: (ceilingY + cfg.Height) / 2, W: t, H: sideH},
		{Name: "right", X: cfg.Width + t/2, Y: (ceilingY + cfg.Height) / 2, W: t, H: sideH},
	}
}

// buildPinGrid lays out pinRows x pinColumns pegs. Odd rows shift right by
// half the column spacing (and drop the last peg) so falling balls never see
// a straight vertical lane.
func buildPinGrid(cfg BoardConfig) []Pin {
	// The configured wall gap is clamped upward so a ball can never wedge
	// between the outermost peg and the wall.
	effGap := math.Max(cfg.PinWallGap, 4*cfg.BallRadius)

	var colSpacing float64
	if cfg.PinColumns > 1 {
		colSpacing = (cfg.Width - 2*effGap) / float64(cfg.PinColumns-1)
	}
	rowSpacing := (cfg.Height - cfg.RimHeight - cfg.PinRimGap - cfg.CeilingGap) /
		float64(max(cfg.PinRows-1, 1))

	pins := make([]Pin, 0, cfg.PinRows*cfg.PinColumns)
	for row := 0; row < cfg.PinRows; row++ {
		y := cfg.CeilingGap + float64(row)*rowSpacing
		offset := 0.0
		cols := cfg.PinColumns
		if row%2 == 1 && cfg.PinColumns > 1 {
			offset = colSpacing / 2
			cols-- // shifted rows keep the brick pattern inside the walls
		}
		for col := 0; col < cols; col++ {
			x := effGap + offset + float64(col)*colSpacing
			if cfg.PinColumns == 1 {
				x = cfg.Width / 2
			}
			pins = append(pins, Pin{Row: row, Col: col, X: x, Y: y, Radius: cfg.PinRadius})
		}
	}
	return pins
}

// BucketBoundsFor computes the bucketCount+1 strictly increasing x
// coordinates partitioning [0, width] into buckets.
//
// For "middle"/"edge" each bucket i gets weight w_i = 1 + cos((i/(n-1) - 0.5)*pi)
// (inverted for "edge"); boundaries are the cumulative weighted widths.
func BucketBoundsFor(cfg BoardConfig) []float64 {
	n := cfg.BucketCount
	bounds := make([]float64, n+1)

	if cfg.BucketDistribution == DistEven {
		for i := 0; i <= n; i++ {
			bounds[i] = float64(i) * cfg.Width / float64(n)
		}
		return bounds
	}

	weights := make([]float64, n)
	var sum float64
	for i := 0; i < n; i++ {
		w := 1 + math.Cos((float64(i)/float64(n-1)-0.5)*math.Pi)
		if cfg.BucketDistribution == DistEdge {
			w = 2 - w
		}
		// The center bucket of an odd "edge" board would otherwise get weight
		// zero, collapsing it and breaking strict monotonicity of the bounds.
		if w < 0.05 {
			w = 0.05
		}
		weights[i] = w
		sum += w
	}

	for i := 0; i < n; i++ {
		bounds[i+1] = bounds[i] + cfg.Width*weights[i]/sum
	}
	bounds[n] = cfg.Width // pin down the end despite float accumulation
	return bounds
}

func buildDividers(cfg BoardConfig, bounds []float64) []Divider {
	// Interior boundaries only; the side walls bound the outermost buckets.
	dividers := make([]Divider, 0, len(bounds)-2)
	for i := 1; i < len(bounds)-1; i++ {
		dividers = append(dividers, Divider{
			Index: i,
			X:     bounds[i],
			Y:     cfg.Height - cfg.RimHeight/2,
			W:     DividerThickness,
			H:     cfg.RimHeight,
		})
	}
	return dividers
}

// BucketIndex returns the bucket containing x by linear scan. A ball exactly
// on an interior boundary lands in the lower-indexed bucket; positions
// outside [0, width] clamp to the nearest edge bucket.
func BucketIndex(bounds []float64, x float64) int {
	n := len(bounds) - 1
	if x <= bounds[0] {
		return 0
	}
	for i := 0; i < n; i++ {
		if x <= bounds[i+1] {
			return i
		}
	}
	return n - 1
}
