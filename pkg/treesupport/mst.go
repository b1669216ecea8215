package treesupport

import (
	"math"

	"gonum.org/v1/gonum/graph/path"
	"gonum.org/v1/gonum/graph/simple"

	"github.com/matzehuels/treestrut/pkg/geom"
)

// spanningTree is a Euclidean minimum spanning tree over a set of 2D
// points, exposed as adjacency per point. Groups are small (typically
// hundreds of points), so the tree is built from the complete graph.
type spanningTree struct {
	adjacency map[geom.Point][]geom.Point
}

// newSpanningTree connects points with a minimum spanning tree weighted by
// Euclidean distance, via Kruskal on the complete graph.
func newSpanningTree(points []geom.Point) spanningTree {
	t := spanningTree{adjacency: make(map[geom.Point][]geom.Point, len(points))}
	for _, p := range points {
		t.adjacency[p] = nil
	}
	if len(points) < 2 {
		return t
	}

	g := simple.NewWeightedUndirectedGraph(0, math.Inf(1))
	for i := range points {
		g.AddNode(simple.Node(i))
	}
	for i := 0; i < len(points); i++ {
		for j := i + 1; j < len(points); j++ {
			weight := math.Sqrt(float64(points[i].Sub(points[j]).Size2()))
			g.SetWeightedEdge(g.NewWeightedEdge(simple.Node(i), simple.Node(j), weight))
		}
	}

	mst := simple.NewWeightedUndirectedGraph(0, math.Inf(1))
	path.Kruskal(mst, g)

	for i := range points {
		neighbours := mst.From(int64(i))
		for neighbours.Next() {
			j := neighbours.Node().ID()
			t.adjacency[points[i]] = append(t.adjacency[points[i]], points[j])
		}
	}
	return t
}

// AdjacentNodes returns the tree neighbours of p. Points not in the tree
// have no neighbours.
func (t spanningTree) AdjacentNodes(p geom.Point) []geom.Point {
	return t.adjacency[p]
}
