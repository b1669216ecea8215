package treesupport

import (
	"context"
	"math"
	"sync"

	"github.com/matzehuels/treestrut/pkg/geom"
	"github.com/matzehuels/treestrut/pkg/slicestore"
)

// collisionAreas builds, for every sampled branch radius, the per-layer
// regions branches of that radius must avoid: the model outlines plus the
// machine volume border, grown by the XY clearance and the radius itself.
// Samples are independent and computed in parallel.
func (ts *TreeSupport) collisionAreas(ctx context.Context, storage *slicestore.SliceDataStorage) [][]geom.Polygons {
	settings := &storage.Settings
	branchRadius := settings.BranchRadius()
	scale := diameterAngleScaleFactor(settings)
	maximumRadius := branchRadius + int64(float64(storage.NumLayers())*float64(branchRadius)*scale)
	resolution := settings.CollisionResolution
	sampleCount := int(math.Round(float64(maximumRadius)/float64(resolution))) + 1

	collision := make([][]geom.Polygons, sampleCount)
	var wg sync.WaitGroup
	for sample := 0; sample < sampleCount; sample++ {
		wg.Add(1)
		go func(sample int) {
			defer wg.Done()
			radius := int64(sample) * resolution
			layers := make([]geom.Polygons, storage.NumLayers())
			for layerNr := range layers {
				outline := storage.LayerOutlines(layerNr).Union(ts.volumeBorder)
				layers[layerNr] = outline.Offset(settings.XYDistance+radius, geom.JoinRound)
			}
			collision[sample] = layers
			ts.progress.add(ctx, float64(progressWeightCollision)/2)
		}(sample)
	}
	wg.Wait()
	return collision
}

// propagateCollisionAreas derives the avoidance volumes: for each radius
// sample, the region of a layer from which no collision-free descent to
// the build plate exists. Layer L is the previous layer's avoidance inset
// by the maximum move distance (smoothed to drop micron-scale artefacts of
// repeated insets) unioned with layer L's own collision. Samples run in
// parallel; layers within a sample are serial by construction.
func (ts *TreeSupport) propagateCollisionAreas(ctx context.Context, storage *slicestore.SliceDataStorage, collision [][]geom.Polygons) [][]geom.Polygons {
	maximumMove := maximumMoveDistance(&storage.Settings)

	avoidance := make([][]geom.Polygons, len(collision))
	var wg sync.WaitGroup
	for sample := range collision {
		wg.Add(1)
		go func(sample int) {
			defer wg.Done()
			layers := make([]geom.Polygons, len(collision[sample]))
			layers[0] = collision[sample][0]
			for layerNr := 1; layerNr < len(layers); layerNr++ {
				previous := layers[layerNr-1].Offset(-maximumMove, geom.JoinMiter).Smooth(5)
				layers[layerNr] = previous.Union(collision[sample][layerNr])
			}
			avoidance[sample] = layers
			ts.progress.add(ctx, float64(progressWeightCollision)/2)
		}(sample)
	}
	wg.Wait()
	return avoidance
}

// internalGuideAreas is avoidance minus collision: the thin corridor just
// outside the model but still within the avoidance halo, used to route
// branches that cannot reach the build plate.
func internalGuideAreas(collision, avoidance [][]geom.Polygons) [][]geom.Polygons {
	guide := make([][]geom.Polygons, len(avoidance))
	for sample := range avoidance {
		guide[sample] = make([]geom.Polygons, len(avoidance[sample]))
		for layerNr := range avoidance[sample] {
			guide[sample][layerNr] = avoidance[sample][layerNr].Difference(collision[sample][layerNr])
		}
	}
	return guide
}
