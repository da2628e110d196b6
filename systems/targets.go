package systems

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/carfield/config"
)

// ErrBadRegions is returned when a target set cannot be generated from the given parameters.
var ErrBadRegions = errors.New("bad target regions")

// Region identifies which part of the silhouette a target point belongs to.
type Region uint8

const (
	RegionBody Region = iota
	RegionCabin
	RegionWheel
	RegionHeadlight
)

func (r Region) String() string {
	switch r {
	case RegionBody:
		return "body"
	case RegionCabin:
		return "cabin"
	case RegionWheel:
		return "wheel"
	case RegionHeadlight:
		return "headlight"
	}
	return fmt.Sprintf("region(%d)", uint8(r))
}

// TargetSet is a fixed-length list of silhouette points. Points[i] and
// Regions[i] describe the same target.
type TargetSet struct {
	Points  []r3.Vec
	Regions []Region
	MinY    float64
	MaxY    float64
}

// Len returns the number of targets.
func (t *TargetSet) Len() int {
	return len(t.Points)
}

// Counts returns the number of targets per region.
func (t *TargetSet) Counts() map[Region]int {
	counts := make(map[Region]int, 4)
	for _, r := range t.Regions {
		counts[r]++
	}
	return counts
}

// GenerateTargets samples exactly n silhouette points from the configured regions.
// Sampling runs in rounds (each region contributes its per-round quota) until at
// least n points exist; the excess of the last round is dropped. If the regions
// yield nothing, the shortfall is backfilled from the body box.
// The result depends only on seed, n and regions.
func GenerateTargets(seed int64, n int, regions config.TargetsConfig) (*TargetSet, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: need a positive point count, got %d", ErrBadRegions, n)
	}
	if regions.Wheel.PerRound > 0 && regions.Wheel.Radius <= 0 {
		return nil, fmt.Errorf("%w: wheel radius must be positive", ErrBadRegions)
	}

	rng := rand.New(rand.NewSource(seed))
	ts := &TargetSet{
		Points:  make([]r3.Vec, 0, n),
		Regions: make([]Region, 0, n),
	}

	add := func(p r3.Vec, r Region) {
		if len(ts.Points) < n {
			ts.Points = append(ts.Points, p)
			ts.Regions = append(ts.Regions, r)
		}
	}

	roundSize := regions.Body.PerRound + regions.Cabin.PerRound +
		regions.Wheel.PerRound*len(regions.Wheel.Hubs) +
		regions.Headlight.PerRound*len(regions.Headlight.Centers)

	for roundSize > 0 && len(ts.Points) < n {
		for i := 0; i < regions.Body.PerRound; i++ {
			add(sampleBox(rng, regions.Body), RegionBody)
		}
		for i := 0; i < regions.Cabin.PerRound; i++ {
			add(sampleBox(rng, regions.Cabin), RegionCabin)
		}
		for _, hub := range regions.Wheel.Hubs {
			for i := 0; i < regions.Wheel.PerRound; i++ {
				add(sampleWheel(rng, vecOf(hub), regions.Wheel), RegionWheel)
			}
		}
		for _, c := range regions.Headlight.Centers {
			for i := 0; i < regions.Headlight.PerRound; i++ {
				add(sampleHeadlight(rng, vecOf(c), regions.Headlight), RegionHeadlight)
			}
		}
	}

	for len(ts.Points) < n {
		add(sampleBox(rng, regions.Body), RegionBody)
	}

	ts.MinY, ts.MaxY = math.Inf(1), math.Inf(-1)
	for _, p := range ts.Points {
		ts.MinY = math.Min(ts.MinY, p.Y)
		ts.MaxY = math.Max(ts.MaxY, p.Y)
	}
	return ts, nil
}

func sampleBox(rng *rand.Rand, b config.BoxRegion) r3.Vec {
	return r3.Vec{
		X: b.Min[0] + rng.Float64()*(b.Max[0]-b.Min[0]),
		Y: b.Min[1] + rng.Float64()*(b.Max[1]-b.Min[1]),
		Z: b.Min[2] + rng.Float64()*(b.Max[2]-b.Min[2]),
	}
}

// sampleWheel picks a point on a disk in the XY plane. The sqrt keeps the
// density uniform over the disk area.
func sampleWheel(rng *rand.Rand, hub r3.Vec, w config.WheelRegion) r3.Vec {
	theta := rng.Float64() * 2 * math.Pi
	r := w.Radius * math.Sqrt(rng.Float64())
	return r3.Vec{
		X: hub.X + r*math.Cos(theta),
		Y: hub.Y + r*math.Sin(theta),
		Z: hub.Z + (rng.Float64()-0.5)*w.Depth,
	}
}

func sampleHeadlight(rng *rand.Rand, c r3.Vec, h config.HeadlightRegion) r3.Vec {
	return r3.Vec{
		X: c.X + (rng.Float64()-0.5)*h.Jitter,
		Y: c.Y + (rng.Float64()-0.5)*h.Jitter,
		Z: c.Z + (rng.Float64()*2-1)*h.HalfLength,
	}
}
