package treesupport

import "github.com/matzehuels/treestrut/pkg/geom"

// Node is a branch vertex on a specific layer. Position is the node's
// identity: two nodes on the same layer with equal positions are the same
// node, and inserting a duplicate merges metadata instead (see
// insertDroppedNode).
type Node struct {
	// Position of the node in microns.
	Position geom.Point

	// DistanceToTop counts the layers between this node and its contact
	// point. Zero at a seed; strictly increasing down a branch.
	DistanceToTop int

	// SkinDirection alternates per layer and selects one of the two tip
	// orientations, so consecutive tip layers stack crosswise.
	SkinDirection bool

	// RoofLayersBelow counts how many further layers this node is printed
	// as roof interface instead of ordinary support. Negative means not
	// roof; it is clamped at -1 since more-negative values carry no extra
	// meaning.
	RoofLayersBelow int

	// ToBuildplate reports whether a path down to the build plate is
	// still believed possible.
	ToBuildplate bool
}

// nodeLayer holds the nodes of one layer keyed by position.
type nodeLayer map[geom.Point]*Node

// insertDroppedNode adds node to layer. When a node already occupies the
// position the two branches fuse: the element-wise max of DistanceToTop
// and RoofLayersBelow survives, so the older branch's history wins.
func insertDroppedNode(layer nodeLayer, node *Node) {
	existing, ok := layer[node.Position]
	if !ok {
		layer[node.Position] = node
		return
	}
	existing.DistanceToTop = max(existing.DistanceToTop, node.DistanceToTop)
	existing.RoofLayersBelow = max(existing.RoofLayersBelow, node.RoofLayersBelow)
}

// clampRoof decrements a roof counter without letting it run away
// negative; the sign alone is the roof flag.
func clampRoof(layersBelow int) int {
	if layersBelow < -1 {
		return -1
	}
	return layersBelow
}
