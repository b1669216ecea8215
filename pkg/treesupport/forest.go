package treesupport

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/matzehuels/treestrut/pkg/geom"
)

// ForestEdge is one parent→child relation produced by the node drop. From
// lies on Layer, To on Layer-1.
type ForestEdge struct {
	Layer    int
	From, To geom.Point
}

// Forest records the branch forest while nodes drop, for inspection and
// debugging. Attach one with [TreeSupport.RecordForest] before generating.
// Safe for concurrent use.
type Forest struct {
	mu    sync.Mutex
	edges []ForestEdge
}

func (f *Forest) record(layer int, from, to geom.Point) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.edges = append(f.edges, ForestEdge{Layer: layer, From: from, To: to})
}

// Edges returns the recorded parent→child relations in drop order.
func (f *Forest) Edges() []ForestEdge {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]ForestEdge(nil), f.edges...)
}

// ToDOT converts the forest to Graphviz DOT format, one node per (layer,
// position) pair ranked by layer. The resulting string renders with any
// Graphviz engine.
func (f *Forest) ToDOT() string {
	var buf bytes.Buffer
	buf.WriteString("digraph forest {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  node [shape=point, width=0.08];\n")
	buf.WriteString("\n")
	for _, e := range f.Edges() {
		fmt.Fprintf(&buf, "  %q -> %q;\n", nodeID(e.Layer, e.From), nodeID(e.Layer-1, e.To))
	}
	buf.WriteString("}\n")
	return buf.String()
}

func nodeID(layer int, p geom.Point) string {
	return fmt.Sprintf("L%d:%d,%d", layer, p.X, p.Y)
}
