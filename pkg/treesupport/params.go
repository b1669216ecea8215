package treesupport

import (
	"math"

	"github.com/matzehuels/treestrut/pkg/slicestore"
)

// maxMoveSentinel stands in for "unlimited" lateral movement when the
// support tree angle reaches 90°. It is far beyond any machine volume yet
// still squares within int64.
const maxMoveSentinel int64 = 2_000_000_000

// maximumMoveDistance returns the lateral distance a branch may traverse
// while dropping one layer.
func maximumMoveDistance(s *slicestore.Settings) int64 {
	if s.TreeAngle >= math.Pi/2 {
		return maxMoveSentinel
	}
	return int64(math.Tan(s.TreeAngle) * float64(s.LayerHeight))
}

// diameterAngleScaleFactor returns the per-layer radius growth factor that
// produces the configured branch diameter angle.
func diameterAngleScaleFactor(s *slicestore.Settings) float64 {
	return math.Sin(s.BranchDiameterAngle) * float64(s.LayerHeight) / float64(s.BranchRadius())
}

// tipLayerCount returns the number of layers over which a branch tip
// shrinks to its contact point. The ratio of radius to layer height gives
// a 45 degree tip.
func tipLayerCount(s *slicestore.Settings) int64 {
	return s.BranchRadius() / s.LayerHeight
}

// branchRadiusAt returns the radius of a branch whose node lies
// distanceToTop layers below its contact point: tapered within the tip,
// flaring by the diameter angle below it.
func branchRadiusAt(branchRadius, tipLayers int64, scale float64, distanceToTop int) int64 {
	d := int64(distanceToTop)
	if d > tipLayers || tipLayers == 0 {
		return branchRadius + int64(float64(branchRadius)*float64(d)*scale)
	}
	return branchRadius * d / tipLayers
}

// radiusSample maps a branch radius to its collision sample index.
func radiusSample(radius, resolution int64, sampleCount int) int {
	sample := int(math.Round(float64(radius) / float64(resolution)))
	if sample >= sampleCount {
		sample = sampleCount - 1
	}
	return sample
}

// roundUpDivide returns ceil(a/b) for non-negative a and positive b.
func roundUpDivide(a, b int64) int64 {
	return (a + b - 1) / b
}

// roundDivide returns a/b rounded to the nearest integer.
func roundDivide(a, b int64) int64 {
	return (a + b/2) / b
}
