package treesupport

import (
	"context"
	"testing"

	"github.com/matzehuels/treestrut/pkg/geom"
	"github.com/matzehuels/treestrut/pkg/slicestore"
)

// square returns a counterclockwise square ring.
func square(x, y, side int64) geom.Polygon {
	return geom.Polygon{geom.Pt(x, y), geom.Pt(x+side, y), geom.Pt(x+side, y+side), geom.Pt(x, y+side)}
}

// testStorage builds slice storage on a 50 mm rectangular machine with
// millimetre layers and tree support enabled.
func testStorage(t *testing.T, layers int) *slicestore.SliceDataStorage {
	t.Helper()
	storage := slicestore.New(layers)
	storage.Machine = slicestore.Machine{
		Shape: slicestore.ShapeRectangular,
		Width: 50_000,
		Depth: 50_000,
	}
	storage.Settings = slicestore.Settings{
		LayerHeight: 1000,
		TreeEnable:  true,
		TopDistance: 1000,
	}
	if err := storage.Settings.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults() = %v", err)
	}
	return storage
}

// overhangMesh attaches a mesh with a single overhang square at the given
// layer.
func overhangMesh(storage *slicestore.SliceDataStorage, layer int, ring geom.Polygon) *slicestore.Mesh {
	mesh := slicestore.NewMesh("part", storage.NumLayers())
	mesh.TreeEnable = true
	mesh.OverhangAreas[layer] = geom.Polygons{ring}
	storage.Meshes = append(storage.Meshes, mesh)
	return mesh
}

func layerHasSupport(storage *slicestore.SliceDataStorage, layer int) bool {
	return len(storage.Support.Layers[layer].InfillParts) > 0 ||
		!storage.Support.Layers[layer].Roof.Empty()
}

func TestGenerateEmptyModel(t *testing.T) {
	storage := testStorage(t, 10)

	ts := New(storage, nil)
	ts.GenerateSupportAreas(context.Background(), storage)

	if !storage.Support.Generated {
		t.Error("Generated should be set even for an empty model")
	}
	for layer := range storage.Support.Layers {
		if layerHasSupport(storage, layer) {
			t.Errorf("layer %d has support for an empty model", layer)
		}
	}
	if got := storage.Support.MaxFilledLayer(); got != -1 {
		t.Errorf("MaxFilledLayer() = %d, want -1", got)
	}
}

func TestGenerateDisabled(t *testing.T) {
	storage := testStorage(t, 10)
	storage.Settings.TreeEnable = false
	overhangMesh(storage, 8, square(24_000, 24_000, 2_000)).TreeEnable = false

	ts := New(storage, nil)
	ts.GenerateSupportAreas(context.Background(), storage)

	if storage.Support.Generated {
		t.Error("Generated should stay unset when tree support is disabled everywhere")
	}
}

func TestGeneratePerMeshDisableWins(t *testing.T) {
	// The global flag runs the pipeline, but a mesh that disables tree
	// support for itself must stay unseeded and thus unsupported.
	storage := testStorage(t, 24)
	storage.Settings.TreeEnable = true
	overhangMesh(storage, 20, square(24_000, 24_000, 2_000)).TreeEnable = false

	ts := New(storage, nil)
	ts.GenerateSupportAreas(context.Background(), storage)

	if !storage.Support.Generated {
		t.Fatal("Generated should be set; the pipeline still ran")
	}
	for layer := range storage.Support.Layers {
		if layerHasSupport(storage, layer) {
			t.Errorf("layer %d has support for a disabled mesh", layer)
		}
	}
	if got := storage.Support.MaxFilledLayer(); got != -1 {
		t.Errorf("MaxFilledLayer() = %d, want -1", got)
	}
}

func TestGenerateFloatingOverhangColumn(t *testing.T) {
	// A single floating overhang: one branch must descend straight to the
	// build plate, roof on the contact layer, support below it.
	storage := testStorage(t, 24)
	overhangMesh(storage, 20, square(24_000, 24_000, 2_000))

	ts := New(storage, nil)
	ts.GenerateSupportAreas(context.Background(), storage)

	// z_top_layers = ceil(1000/1000)+1 = 2, so the contact sits on layer 18.
	const contactLayer = 18

	if !storage.Support.Generated {
		t.Fatal("Generated not set")
	}
	if got := storage.Support.MaxFilledLayer(); got != contactLayer {
		t.Errorf("MaxFilledLayer() = %d, want %d", got, contactLayer)
	}
	for layer := contactLayer + 1; layer < storage.NumLayers(); layer++ {
		if layerHasSupport(storage, layer) {
			t.Errorf("layer %d above the contact has support", layer)
		}
	}
	// The contact layer itself is interface: roof only.
	if storage.Support.Layers[contactLayer].Roof.Empty() {
		t.Error("contact layer should carry roof geometry")
	}
	if len(storage.Support.Layers[contactLayer].InfillParts) != 0 {
		t.Error("contact layer should carry no ordinary support")
	}
	// The column continues down to the plate.
	for _, layer := range []int{0, 5, 10, 17} {
		if len(storage.Support.Layers[layer].InfillParts) == 0 {
			t.Errorf("layer %d of the column has no support infill", layer)
		}
	}
}

func TestGenerateRoofLayers(t *testing.T) {
	// With a 4-layer roof height the contact layer and the 4 below it are
	// interface; ordinary support starts underneath.
	storage := testStorage(t, 24)
	storage.Settings.RoofEnable = true
	storage.Settings.RoofHeight = 4_000
	overhangMesh(storage, 20, square(24_000, 24_000, 2_000))

	ts := New(storage, nil)
	ts.GenerateSupportAreas(context.Background(), storage)

	const contactLayer = 18
	for layer := contactLayer - 4; layer <= contactLayer; layer++ {
		if storage.Support.Layers[layer].Roof.Empty() {
			t.Errorf("layer %d should be roof interface", layer)
		}
		if len(storage.Support.Layers[layer].InfillParts) != 0 {
			t.Errorf("layer %d should carry no ordinary support", layer)
		}
	}
	for _, layer := range []int{contactLayer - 5, contactLayer - 8} {
		if !storage.Support.Layers[layer].Roof.Empty() {
			t.Errorf("layer %d should not be roof interface", layer)
		}
		if len(storage.Support.Layers[layer].InfillParts) == 0 {
			t.Errorf("layer %d should carry ordinary support", layer)
		}
	}
}

func TestGenerateKeepsModelClearance(t *testing.T) {
	// An overhang directly above a model column: wherever support ends
	// up, it must stay clear of the model collision region.
	storage := testStorage(t, 24)
	storage.Settings.SupportType = slicestore.SupportEverywhere
	storage.Settings.BottomDistance = 1000
	for layer := 0; layer <= 10; layer++ {
		storage.Outlines[layer] = geom.Polygons{square(20_000, 20_000, 10_000)}
	}
	overhangMesh(storage, 20, square(24_000, 24_000, 2_000))

	ts := New(storage, nil)
	ts.GenerateSupportAreas(context.Background(), storage)

	if !storage.Support.Generated {
		t.Fatal("Generated not set")
	}
	if got := storage.Support.MaxFilledLayer(); got != 18 {
		t.Errorf("MaxFilledLayer() = %d, want 18", got)
	}

	// Rebuild collision sample 0 the way the pipeline does and verify
	// the Z-clearance: property 6, up to simplification tolerance.
	settings := &storage.Settings
	zBottomLayers := int(roundUpDivide(settings.BottomDistance, settings.LayerHeight))
	for layer := range storage.Support.Layers {
		zCollisionLayer := max(0, layer-zBottomLayers+1)
		collision := storage.LayerOutlines(zCollisionLayer).
			Union(ts.volumeBorder).
			Offset(settings.XYDistance, geom.JoinRound)
		for _, part := range storage.Support.Layers[layer].InfillParts {
			if overlap := part.Outline.Intersection(collision).Area(); overlap > 1e6 {
				t.Errorf("layer %d support overlaps collision by %.0f µm²", layer, overlap)
			}
		}
	}
}

func TestGenerateFloorInterface(t *testing.T) {
	// A wide model column strands the branch; it ends on the model top
	// and the lowest support layers above the model become floor.
	storage := testStorage(t, 24)
	storage.Settings.SupportType = slicestore.SupportEverywhere
	storage.Settings.BottomDistance = 1000
	storage.Settings.BottomEnable = true
	storage.Settings.BottomHeight = 3000
	storage.Settings.InterfaceSkipHeight = 1000
	for layer := 0; layer <= 10; layer++ {
		storage.Outlines[layer] = geom.Polygons{square(10_000, 10_000, 30_000)}
	}
	overhangMesh(storage, 20, square(24_000, 24_000, 2_000))

	ts := New(storage, nil)
	ts.GenerateSupportAreas(context.Background(), storage)

	for _, layer := range []int{11, 12, 13} {
		if storage.Support.Layers[layer].Bottom.Empty() {
			t.Errorf("layer %d should carry floor interface", layer)
		}
	}
	if !storage.Support.Layers[16].Bottom.Empty() {
		t.Error("layer 16 is too far above the model for floor interface")
	}
	// The branch rests on the model: nothing descends into or below it.
	for layer := 0; layer <= 9; layer++ {
		if layerHasSupport(storage, layer) {
			t.Errorf("layer %d below the model top has support", layer)
		}
	}
}

func TestVolumeBorderRectangular(t *testing.T) {
	storage := testStorage(t, 1)
	ts := New(storage, nil)

	if ts.volumeBorder.Inside(geom.Pt(25_000, 25_000), false) {
		t.Error("centre of the plate should be printable")
	}
	if !ts.volumeBorder.Inside(geom.Pt(60_000, 25_000), false) {
		t.Error("outside the plate should be border region")
	}
}

func TestVolumeBorderElliptic(t *testing.T) {
	storage := testStorage(t, 1)
	storage.Machine.Shape = slicestore.ShapeElliptic
	ts := New(storage, nil)

	if ts.volumeBorder.Inside(geom.Pt(25_000, 25_000), false) {
		t.Error("centre of the ellipse should be printable")
	}
	// The rectangle corner lies outside the inscribed ellipse.
	if !ts.volumeBorder.Inside(geom.Pt(2_000, 2_000), false) {
		t.Error("machine corner should be border region on an elliptic plate")
	}
}

func TestVolumeBorderAdhesionInset(t *testing.T) {
	storage := testStorage(t, 1)
	storage.Machine.Adhesion = slicestore.AdhesionBrim
	storage.Machine.SkirtBrimLineWidth = 400
	storage.Machine.BrimLineCount = 10
	ts := New(storage, nil)

	// 4 mm of brim shrink the printable area from every side.
	if !ts.volumeBorder.Inside(geom.Pt(2_000, 25_000), false) {
		t.Error("brim allowance should be border region")
	}
	if ts.volumeBorder.Inside(geom.Pt(6_000, 25_000), false) {
		t.Error("area inside the brim allowance should be printable")
	}
}
