// Package slicestore holds the shared slice data the support pipeline
// reads and writes: per-layer model outlines, per-mesh overhang areas and
// the generated support geometry. It is the in-process equivalent of the
// slicer's layer storage; upstream slicing and downstream toolpath
// planning both speak this package's types.
package slicestore

import (
	"sync"

	"github.com/google/uuid"

	"github.com/matzehuels/treestrut/pkg/geom"
)

// Mesh is one printed object in the scene. Overhang areas are indexed by
// layer and mark the XY regions above which this mesh needs support.
type Mesh struct {
	ID   uuid.UUID
	Name string

	// TreeEnable is this mesh's resolved support_tree_enable value. The
	// pipeline runs when the global setting or any mesh enables it, but
	// only meshes with TreeEnable set are seeded: an explicit per-mesh
	// disable wins over the global flag.
	TreeEnable bool

	OverhangAreas []geom.Polygons

	// BoundingBox is the XY extent of the mesh. When left empty the union
	// of the overhang bounds is used instead.
	BoundingBox geom.AABB
}

// NewMesh returns a mesh with a fresh identity and per-layer overhang
// storage sized to numLayers.
func NewMesh(name string, numLayers int) *Mesh {
	return &Mesh{
		ID:            uuid.New(),
		Name:          name,
		OverhangAreas: make([]geom.Polygons, numLayers),
		BoundingBox:   geom.NewAABB(),
	}
}

// Bounds returns the mesh bounding box, deriving it from the overhang
// areas when no explicit box was set.
func (m *Mesh) Bounds() geom.AABB {
	if !m.BoundingBox.Empty() {
		return m.BoundingBox
	}
	b := geom.NewAABB()
	for _, overhang := range m.OverhangAreas {
		layerBounds := overhang.Bounds()
		if !layerBounds.Empty() {
			b.Include(layerBounds.Min)
			b.Include(layerBounds.Max)
		}
	}
	return b
}

// SupportInfillPart is one connected support region on a layer, carrying
// the print parameters the toolpath planner needs.
type SupportInfillPart struct {
	Outline   geom.Polygons
	LineWidth int64
	WallCount int
}

// SupportLayer is the generated support geometry of a single layer.
type SupportLayer struct {
	InfillParts []SupportInfillPart
	Roof        geom.Polygons
	Bottom      geom.Polygons
}

// SupportStorage collects generated support across layers. Writers fill
// distinct layer indices in parallel; the max-filled-layer accumulator is
// the only cross-layer write and goes through RecordFilledLayer.
type SupportStorage struct {
	Layers []SupportLayer

	// Generated is set once the pipeline has run, even when every layer
	// came out empty.
	Generated bool

	mu             sync.Mutex
	maxFilledLayer int
}

// RecordFilledLayer raises the max-filled-layer accumulator to layerNr.
// Safe for concurrent use.
func (s *SupportStorage) RecordFilledLayer(layerNr int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if layerNr > s.maxFilledLayer {
		s.maxFilledLayer = layerNr
	}
}

// MaxFilledLayer returns the highest layer index with support on it, or -1
// when no layer has any.
func (s *SupportStorage) MaxFilledLayer() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.maxFilledLayer
}

// SliceDataStorage is the root of the shared slice data. Layer 0 sits on
// the build plate; indices increase upward. Outlines, overhang areas and
// support layers all use the same indexing.
type SliceDataStorage struct {
	Machine  Machine
	Settings Settings
	Meshes   []*Mesh

	// Outlines is the solid XY region of the model per layer, all meshes
	// combined.
	Outlines []geom.Polygons

	Support SupportStorage
}

// New returns storage for numLayers layers with empty outlines and
// support.
func New(numLayers int) *SliceDataStorage {
	return &SliceDataStorage{
		Outlines: make([]geom.Polygons, numLayers),
		Support: SupportStorage{
			Layers:         make([]SupportLayer, numLayers),
			maxFilledLayer: -1,
		},
	}
}

// NumLayers returns the layer count of the slice.
func (s *SliceDataStorage) NumLayers() int {
	return len(s.Outlines)
}

// LayerOutlines returns the solid model region at layerNr. Out-of-range
// layers are empty.
func (s *SliceDataStorage) LayerOutlines(layerNr int) geom.Polygons {
	if layerNr < 0 || layerNr >= len(s.Outlines) {
		return nil
	}
	return s.Outlines[layerNr]
}

// TreeSupportEnabled reports whether any part of the scene asks for tree
// support.
func (s *SliceDataStorage) TreeSupportEnabled() bool {
	if s.Settings.TreeEnable {
		return true
	}
	for _, mesh := range s.Meshes {
		if mesh.TreeEnable {
			return true
		}
	}
	return false
}
