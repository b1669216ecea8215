package treesupport

import (
	"math"

	"github.com/matzehuels/treestrut/pkg/geom"
	"github.com/matzehuels/treestrut/pkg/slicestore"
)

// contactGridRotation is the angle of the contact point grid relative to
// the axes. The oblique grid covers diagonal overhangs better than an
// axis-aligned one; the exact value is load-bearing for reproducing
// regression fixtures.
const contactGridRotation = 22.0 / 180.0 * math.Pi

// generateContactPoints seeds the top node of every branch: a rotated grid
// of candidate points is clipped to each overhang area, and every
// surviving candidate becomes a contact node on the layer that must
// support the overhang. Overhang parts that catch no grid point get a
// single centre-derived node so no part goes unsupported.
func (ts *TreeSupport) generateContactPoints(mesh *slicestore.Mesh, settings *slicestore.Settings, contactNodes []nodeLayer, collision []geom.Polygons) {
	pointSpread := settings.BranchDistance

	// The grid is computed in a frame rotated about the lower left corner
	// of the mesh bounding box, then rotated back, so it must span the
	// axis-aligned bounds of the rotated box.
	bounds := mesh.Bounds()
	if bounds.Empty() {
		return
	}
	size := bounds.Size()
	rotated := geom.NewAABB()
	rotated.Include(geom.Pt(0, 0))
	rotated.Include(size.Rotate(-contactGridRotation))
	rotated.Include(geom.Pt(0, size.Y).Rotate(-contactGridRotation))
	rotated.Include(geom.Pt(size.X, 0).Rotate(-contactGridRotation))
	unrotated := geom.NewAABB()
	unrotated.Include(rotated.Min.Rotate(contactGridRotation))
	unrotated.Include(rotated.Max.Rotate(contactGridRotation))
	unrotated.Include(geom.Pt(rotated.Min.X, rotated.Max.Y).Rotate(contactGridRotation))
	unrotated.Include(geom.Pt(rotated.Max.X, rotated.Min.Y).Rotate(contactGridRotation))

	var gridPoints []geom.Point
	for x := unrotated.Min.X; x <= unrotated.Max.X; x += pointSpread {
		for y := unrotated.Min.Y; y <= unrotated.Max.Y; y += pointSpread {
			gridPoints = append(gridPoints, geom.Pt(x, y).Rotate(contactGridRotation).Add(bounds.Min))
		}
	}

	layerHeight := settings.LayerHeight
	// Support must always sit at least one layer below the overhang it
	// carries.
	zTopLayers := int(roundUpDivide(settings.TopDistance, layerHeight)) + 1
	roofLayers := 0
	if settings.RoofEnable {
		roofLayers = int(roundDivide(settings.RoofHeight, layerHeight))
	}
	halfOverhang := int64(math.Tan(settings.SupportAngle) * float64(layerHeight) / 2)

	for layerNr := 1; layerNr < len(mesh.OverhangAreas)-zTopLayers; layerNr++ {
		overhang := mesh.OverhangAreas[layerNr+zTopLayers]
		if overhang.Empty() {
			continue
		}

		for _, part := range overhang.SplitIntoParts() {
			partBounds := part.Bounds()
			expanded := partBounds
			expanded.Expand(halfOverhang)
			added := false
			for _, candidate := range gridPoints {
				if !expanded.Contains(candidate) {
					continue
				}
				// Candidates that fall just outside the part, between
				// overhang areas on a constant surface, snap to the
				// border; border counts as inside.
				moved := part.MoveInside(candidate, 0, halfOverhang*halfOverhang)
				if part.Inside(moved, true) && !collision[layerNr].Inside(moved, true) {
					insertDroppedNode(contactNodes[layerNr], &Node{
						Position:        moved,
						DistanceToTop:   0,
						SkinDirection:   (layerNr+zTopLayers)%2 == 1,
						RoofLayersBelow: roofLayers,
						ToBuildplate:    true,
					})
					added = true
				}
			}
			if !added {
				// Loose parts that caught no grid point still get one
				// node, derived from the part's bounding box centre.
				candidate := part.MoveInside(partBounds.Middle(), 0, math.MaxInt64)
				insertDroppedNode(contactNodes[layerNr], &Node{
					Position:        candidate,
					DistanceToTop:   0,
					SkinDirection:   layerNr%2 == 1,
					RoofLayersBelow: roofLayers,
					ToBuildplate:    true,
				})
			}
		}
	}
}
