package treesupport

import (
	"context"

	"github.com/matzehuels/treestrut/pkg/geom"
	"github.com/matzehuels/treestrut/pkg/slicestore"
)

// dropNodes descends the contact node forest one layer at a time, from the
// top layer down to layer 1. On each layer the nodes are partitioned by
// the avoidance component that strands them, connected with a minimum
// spanning tree per partition, and then either collapsed pairwise, merged
// into a close neighbour, or nudged toward their neighbours' centroid —
// always within the per-layer move budget and away from collision.
//
// The layer loop is inherently serial: layer L-1's nodes are produced
// from layer L's.
func (ts *TreeSupport) dropNodes(ctx context.Context, storage *slicestore.SliceDataStorage, contactNodes []nodeLayer, collision, avoidance, internalGuide [][]geom.Polygons) {
	settings := &storage.Settings
	maximumMove := maximumMoveDistance(settings)
	branchRadius := settings.BranchRadius()
	tipLayers := tipLayerCount(settings)
	scale := diameterAngleScaleFactor(settings)
	resolution := settings.CollisionResolution
	supportRestsOnModel := settings.SupportType == slicestore.SupportEverywhere

	for layerNr := len(contactNodes) - 1; layerNr > 0; layerNr-- {
		// Group nodes by the avoidance component they are stranded in.
		// Group 0 is "outside every component": those nodes can still
		// reach the build plate.
		parts := avoidance[0][layerNr].SplitIntoParts()
		groups := make([]nodeLayer, len(parts)+1)
		for i := range groups {
			groups[i] = make(nodeLayer)
		}
		for _, node := range contactNodes[layerNr] {
			if !supportRestsOnModel && !node.ToBuildplate {
				// Cannot rest on the model and cannot reach the plate:
				// the branch ends here and its overhang stays
				// unsupported.
				continue
			}
			if node.ToBuildplate || len(parts) == 0 {
				groups[0][node.Position] = node
				continue
			}
			// The avoidance areas are offset by the node radius, so two
			// real components may have fused into one part. Assigning
			// each node to the closest part at least puts every node in
			// some group.
			closestDistance2 := int64(-1)
			closestPart := 0
			for partIndex, part := range parts {
				if part.Inside(node.Position, true) {
					closestPart = partIndex
					closestDistance2 = 0
					break
				}
				if c, ok := part.ClosestPoint(node.Position); ok {
					d2 := node.Position.Sub(c).Size2()
					if closestDistance2 < 0 || d2 < closestDistance2 {
						closestDistance2 = d2
						closestPart = partIndex
					}
				}
			}
			groups[closestPart+1][node.Position] = node
		}

		trees := make([]spanningTree, len(groups))
		for i, group := range groups {
			points := make([]geom.Point, 0, len(group))
			for position := range group {
				points = append(points, position)
			}
			trees[i] = newSpanningTree(points)
		}

		for groupIndex, group := range groups {
			mst := trees[groupIndex]
			toDelete := make(map[geom.Point]bool)

			// First pass: merge nodes that are close together.
			for _, node := range group {
				if toDelete[node.Position] {
					continue
				}
				neighbours := mst.AdjacentNodes(node.Position)
				if ts.isCollapsingLeafPair(mst, node.Position, neighbours, maximumMove) {
					// Two lone leaves about to meet: replace both with
					// one node at their midpoint on the next layer.
					nextPosition := node.Position.Add(neighbours[0]).Div(2)
					radius := branchRadiusAt(branchRadius, tipLayers, scale, node.DistanceToTop+1)
					sample := radiusSample(radius, resolution, len(avoidance))
					nextPosition = ts.constrainPosition(groupIndex, node.Position, nextPosition, sample, layerNr, avoidance, internalGuide, maximumMove, resolution)

					child := &Node{
						Position:        nextPosition,
						DistanceToTop:   node.DistanceToTop + 1,
						SkinDirection:   node.SkinDirection,
						RoofLayersBelow: clampRoof(node.RoofLayersBelow - 1),
						ToBuildplate:    !avoidance[sample][layerNr-1].Inside(nextPosition, false),
					}
					insertDroppedNode(contactNodes[layerNr-1], child)
					if ts.forest != nil {
						ts.forest.record(layerNr, node.Position, child.Position)
						ts.forest.record(layerNr, neighbours[0], child.Position)
					}
					toDelete[node.Position] = true
					toDelete[neighbours[0]] = true
				} else if len(neighbours) > 1 {
					// Absorb every neighbour within reach; the absorbed
					// branches end here and this node carries the older
					// history onward. Leaf pairs further apart than the
					// move budget stay separate.
					for _, neighbour := range neighbours {
						if neighbour.Sub(node.Position).Size2() >= maximumMove*maximumMove {
							continue
						}
						if other, ok := group[neighbour]; ok {
							node.DistanceToTop = max(node.DistanceToTop, other.DistanceToTop)
							node.RoofLayersBelow = max(node.RoofLayersBelow, other.RoofLayersBelow)
						}
						toDelete[neighbour] = true
					}
				}
			}

			// Second pass: move the remaining nodes toward their
			// neighbours and drop them one layer.
			for _, node := range group {
				if toDelete[node.Position] {
					continue
				}
				neighbours := mst.AdjacentNodes(node.Position)
				if ts.isCollapsingLeafPair(mst, node.Position, neighbours, maximumMove) {
					// The first pass already produced this node's
					// replacement.
					continue
				}
				if groupIndex > 0 && collision[0][layerNr].Inside(node.Position, false) {
					// Deep inside collision the entire branch would be
					// erased by the XY offset; drop it rather than print
					// a stump.
					radius := branchRadiusAt(branchRadius, tipLayers, scale, node.DistanceToTop)
					if c, ok := collision[0][layerNr].ClosestPoint(node.Position); ok {
						if node.Position.Sub(c).Size2() >= radius*radius {
							continue
						}
					}
				}

				nextPosition := node.Position
				if len(neighbours) > 1 || (len(neighbours) == 1 && neighbours[0].Sub(node.Position).Size2() >= maximumMove*maximumMove) {
					// Move toward the average direction of all
					// neighbours, capped at the move budget.
					sum := geom.Pt(0, 0)
					for _, neighbour := range neighbours {
						sum = sum.Add(neighbour.Sub(node.Position))
					}
					if sum.Size2() <= maximumMove*maximumMove {
						nextPosition = node.Position.Add(sum)
					} else {
						nextPosition = node.Position.Add(sum.Normal(maximumMove))
					}
				}

				radius := branchRadiusAt(branchRadius, tipLayers, scale, node.DistanceToTop+1)
				sample := radiusSample(radius, resolution, len(avoidance))
				nextPosition = ts.constrainPosition(groupIndex, node.Position, nextPosition, sample, layerNr, avoidance, internalGuide, maximumMove, resolution)

				child := &Node{
					Position:        nextPosition,
					DistanceToTop:   node.DistanceToTop + 1,
					SkinDirection:   node.SkinDirection,
					RoofLayersBelow: clampRoof(node.RoofLayersBelow - 1),
					ToBuildplate:    !avoidance[sample][layerNr-1].Inside(nextPosition, false),
				}
				insertDroppedNode(contactNodes[layerNr-1], child)
				if ts.forest != nil {
					ts.forest.record(layerNr, node.Position, child.Position)
				}
			}
		}
		ts.progress.add(ctx, progressWeightDrop)
	}
}

// isCollapsingLeafPair reports whether position is one of two lone leaves
// close enough to collapse: a single neighbour within the move budget
// whose only neighbour is position itself. Chains of three close nodes do
// not qualify; requiring both endpoints to be leaves keeps merges from
// cascading within one layer step.
func (ts *TreeSupport) isCollapsingLeafPair(mst spanningTree, position geom.Point, neighbours []geom.Point, maximumMove int64) bool {
	return len(neighbours) == 1 &&
		neighbours[0].Sub(position).Size2() < maximumMove*maximumMove &&
		len(mst.AdjacentNodes(neighbours[0])) == 1
}

// constrainPosition projects a tentative next-layer position onto the
// constraints of its group: build-plate-bound nodes are pushed out of the
// avoidance volume, stranded nodes are pulled into the internal guide
// corridor. Either way the final displacement from the original position
// respects the per-layer budget (plus one sample resolution and a rounding
// allowance for the outward push).
func (ts *TreeSupport) constrainPosition(groupIndex int, original, next geom.Point, sample, layerNr int, avoidance, internalGuide [][]geom.Polygons, maximumMove, resolution int64) geom.Point {
	if groupIndex == 0 {
		// The sampled avoidance is coarser than the true one; the slack
		// absorbs the sample resolution plus rounding.
		margin := resolution + 100
		maxMoveBetweenSamples := maximumMove + margin
		moved := avoidance[sample][layerNr-1].MoveOutside(next, margin, maxMoveBetweenSamples*maxMoveBetweenSamples)
		if moved.Sub(original).Size2() > maxMoveBetweenSamples*maxMoveBetweenSamples {
			// The push would carry the node further than one hop from its
			// parent; keep the tentative position instead.
			return next
		}
		return moved
	}

	guide := internalGuide[sample][layerNr-1]
	c, ok := guide.ClosestPoint(original)
	if !ok {
		return next
	}
	// Try to end up a full step deeper inside the corridor than the node
	// currently is.
	distance := original.Sub(c).Size()
	moved := guide.EnsureInside(next, c, distance+maximumMove)
	difference := moved.Sub(original)
	if difference.Size2() > maximumMove*maximumMove {
		difference = difference.Normal(maximumMove)
	}
	return original.Add(difference)
}
