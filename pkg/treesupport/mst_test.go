package treesupport

import (
	"testing"

	"github.com/matzehuels/treestrut/pkg/geom"
)

func TestSpanningTreeChain(t *testing.T) {
	// Three collinear points: the MST is the chain, never the long edge.
	points := []geom.Point{geom.Pt(0, 0), geom.Pt(1000, 0), geom.Pt(2500, 0)}
	tree := newSpanningTree(points)

	if got := len(tree.AdjacentNodes(geom.Pt(1000, 0))); got != 2 {
		t.Errorf("middle point has %d neighbours, want 2", got)
	}
	if got := len(tree.AdjacentNodes(geom.Pt(0, 0))); got != 1 {
		t.Errorf("end point has %d neighbours, want 1", got)
	}
	for _, n := range tree.AdjacentNodes(geom.Pt(0, 0)) {
		if n != geom.Pt(1000, 0) {
			t.Errorf("end point connects to %v, want the middle", n)
		}
	}
}

func TestSpanningTreeEdgeCount(t *testing.T) {
	points := []geom.Point{
		geom.Pt(0, 0), geom.Pt(5000, 200), geom.Pt(1000, 4000),
		geom.Pt(-3000, 500), geom.Pt(2500, 2500),
	}
	tree := newSpanningTree(points)

	degreeSum := 0
	for _, p := range points {
		degreeSum += len(tree.AdjacentNodes(p))
	}
	// A spanning tree over n points has n-1 edges, each counted twice.
	if want := 2 * (len(points) - 1); degreeSum != want {
		t.Errorf("degree sum = %d, want %d", degreeSum, want)
	}
}

func TestSpanningTreeSmallInputs(t *testing.T) {
	empty := newSpanningTree(nil)
	if got := empty.AdjacentNodes(geom.Pt(0, 0)); len(got) != 0 {
		t.Errorf("empty tree has neighbours: %v", got)
	}

	single := newSpanningTree([]geom.Point{geom.Pt(42, 42)})
	if got := single.AdjacentNodes(geom.Pt(42, 42)); len(got) != 0 {
		t.Errorf("single point has neighbours: %v", got)
	}

	pair := newSpanningTree([]geom.Point{geom.Pt(0, 0), geom.Pt(10, 0)})
	if got := pair.AdjacentNodes(geom.Pt(0, 0)); len(got) != 1 || got[0] != geom.Pt(10, 0) {
		t.Errorf("pair adjacency = %v", got)
	}
}
