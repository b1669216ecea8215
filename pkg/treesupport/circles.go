package treesupport

import (
	"context"
	"math"
	"sync"

	"github.com/matzehuels/treestrut/pkg/geom"
	"github.com/matzehuels/treestrut/pkg/slicestore"
)

// circleResolution is the number of vertices in each stamped branch
// circle.
const circleResolution = 10

// drawCircles rasterises the dropped node forest into per-layer support
// areas: a tapered or flared circle per node, unioned, split into roof and
// ordinary support, cleared of the model with the configured Z distance,
// and carved for floor interfaces. Layers are independent and run in
// parallel; each writes only its own output slot.
func (ts *TreeSupport) drawCircles(ctx context.Context, storage *slicestore.SliceDataStorage, contactNodes []nodeLayer, collision [][]geom.Polygons) {
	settings := &storage.Settings
	branchRadius := settings.BranchRadius()
	wallCount := settings.WallCount
	lineWidth := settings.LineWidth
	layerHeight := settings.LayerHeight
	tipLayers := tipLayerCount(settings)
	scale := diameterAngleScaleFactor(settings)
	zBottomLayers := roundUpDivide(settings.BottomDistance, layerHeight)

	// One canonical circle, transformed per node, so the (co)sines are
	// not recomputed for every stamp.
	branchCircle := make([]geom.Point, circleResolution)
	for i := range branchCircle {
		angle := float64(i) / circleResolution * 2 * math.Pi
		branchCircle[i] = geom.Pt(
			int64(math.Cos(angle)*float64(branchRadius)),
			int64(math.Sin(angle)*float64(branchRadius)),
		)
	}
	circleSideLength := int64(2 * float64(branchRadius) * math.Sin(math.Pi/circleResolution))

	var wg sync.WaitGroup
	for layerNr := range contactNodes {
		wg.Add(1)
		go func(layerNr int) {
			defer wg.Done()
			var supportLayer, roofLayer geom.Polygons

			for _, node := range contactNodes[layerNr] {
				circle := make(geom.Polygon, 0, circleResolution)
				tipScale := float64(node.DistanceToTop+1) / float64(max(tipLayers, 1))
				for _, corner := range branchCircle {
					corner = stampCorner(corner, node, tipLayers, tipScale, scale)
					circle = append(circle, node.Position.Add(corner))
				}
				if node.RoofLayersBelow >= 0 {
					roofLayer.Add(circle)
				} else {
					supportLayer.Add(circle)
				}
			}
			supportLayer = supportLayer.Union(nil)
			roofLayer = roofLayer.Union(nil)
			supportLayer = supportLayer.Difference(roofLayer)

			// Sample 0 has zero branch radius but the full XY offset, so
			// subtracting it a few layers down keeps the Z clearance to
			// the model.
			zCollisionLayer := max(0, layerNr-int(zBottomLayers)+1)
			if zCollisionLayer < len(collision[0]) {
				supportLayer = supportLayer.Difference(collision[0][zCollisionLayer])
				roofLayer = roofLayer.Difference(collision[0][zCollisionLayer])
			}

			// Smooth as much as possible without altering single
			// circles: drop segments shorter than a circle side, which
			// grows with the branch diameter toward the plate. Deviate
			// at most a quarter line width so lines still stack.
			scaleFactorThisLayer := float64(int64(len(contactNodes)-layerNr)-tipLayers) * scale
			maxSegment := int64(float64(circleSideLength) * (1 + scaleFactorThisLayer))
			supportLayer = supportLayer.Simplify(maxSegment, lineWidth/4)

			if settings.BottomEnable {
				floorLayer := ts.supportFloor(storage, supportLayer, layerNr, zBottomLayers)
				storage.Support.Layers[layerNr].Bottom = floorLayer
				supportLayer = supportLayer.Difference(floorLayer.Offset(10, geom.JoinMiter))
			}

			for _, part := range supportLayer.SplitIntoParts() {
				storage.Support.Layers[layerNr].InfillParts = append(storage.Support.Layers[layerNr].InfillParts, slicestore.SupportInfillPart{
					Outline:   part,
					LineWidth: lineWidth,
					WallCount: wallCount,
				})
			}
			storage.Support.Layers[layerNr].Roof = roofLayer

			if len(storage.Support.Layers[layerNr].InfillParts) > 0 || !roofLayer.Empty() {
				storage.Support.RecordFilledLayer(layerNr)
			}
			ts.progress.add(ctx, progressWeightAreas)
		}(layerNr)
	}
	wg.Wait()
}

// stampCorner transforms one canonical circle vertex for a node: a shear
// toward a rhombus within the tip (alternating orientation per the skin
// direction), an isotropic flare below it.
func stampCorner(corner geom.Point, node *Node, tipLayers int64, tipScale, scale float64) geom.Point {
	if int64(node.DistanceToTop) < tipLayers {
		x, y := float64(corner.X), float64(corner.Y)
		if node.SkinDirection {
			return geom.Pt(
				int64(x*(0.5+tipScale/2)+y*(0.5-tipScale/2)),
				int64(x*(0.5-tipScale/2)+y*(0.5+tipScale/2)),
			)
		}
		return geom.Pt(
			int64(x*(0.5+tipScale/2)-y*(0.5-tipScale/2)),
			int64(x*(-0.5+tipScale/2)+y*(0.5+tipScale/2)),
		)
	}
	grow := 1 + float64(int64(node.DistanceToTop)-tipLayers)*scale
	return geom.Pt(
		int64(float64(corner.X)*grow),
		int64(float64(corner.Y)*grow),
	)
}

// supportFloor samples the model a few layers below the support area and
// collects the overlap: where a branch stands on the model, the lowest
// layers of the branch become a denser floor interface.
func (ts *TreeSupport) supportFloor(storage *slicestore.SliceDataStorage, supportLayer geom.Polygons, layerNr int, zBottomLayers int64) geom.Polygons {
	settings := &storage.Settings
	skipLayers := max(1, roundUpDivide(settings.InterfaceSkipHeight, settings.LayerHeight))
	bottomHeightLayers := roundUpDivide(settings.BottomHeight, settings.LayerHeight)

	var floorLayer geom.Polygons
	for layersBelow := int64(0); layersBelow < bottomHeightLayers; layersBelow += skipLayers {
		sampleLayer := max(0, layerNr-int(layersBelow)-int(zBottomLayers))
		floorLayer.AddAll(supportLayer.Intersection(storage.LayerOutlines(sampleLayer)))
	}
	// One additional sample at the complete bottom height.
	sampleLayer := max(0, layerNr-int(bottomHeightLayers)-int(zBottomLayers))
	floorLayer.AddAll(supportLayer.Intersection(storage.LayerOutlines(sampleLayer)))
	return floorLayer.Union(nil)
}
