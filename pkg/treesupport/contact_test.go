package treesupport

import (
	"testing"

	"github.com/matzehuels/treestrut/pkg/geom"
	"github.com/matzehuels/treestrut/pkg/slicestore"
)

func contactHarness(t *testing.T, layers int) (*TreeSupport, *slicestore.SliceDataStorage, []nodeLayer, []geom.Polygons) {
	t.Helper()
	storage := testStorage(t, layers)
	contactNodes := make([]nodeLayer, layers)
	for i := range contactNodes {
		contactNodes[i] = make(nodeLayer)
	}
	collision := make([]geom.Polygons, layers)
	return New(storage, nil), storage, contactNodes, collision
}

func TestContactPointsInsideOverhang(t *testing.T) {
	ts, storage, contactNodes, collision := contactHarness(t, 8)
	storage.Settings.BranchDistance = 2000

	overhang := geom.Polygons{square(20_000, 20_000, 10_000)}
	mesh := overhangMesh(storage, 5, overhang[0])

	ts.generateContactPoints(mesh, &storage.Settings, contactNodes, collision)

	// z_top_layers = 2: the overhang on layer 5 seeds layer 3.
	seeded := contactNodes[3]
	if len(seeded) == 0 {
		t.Fatal("no contact nodes seeded")
	}
	for _, node := range seeded {
		if !overhang.Inside(node.Position, true) {
			t.Errorf("node %v outside the overhang", node.Position)
		}
		if node.DistanceToTop != 0 {
			t.Errorf("seed DistanceToTop = %d, want 0", node.DistanceToTop)
		}
		if !node.ToBuildplate {
			t.Error("seeds start with a path to the build plate")
		}
		if got, want := node.SkinDirection, (3+2)%2 == 1; got != want {
			t.Errorf("SkinDirection = %v, want %v", got, want)
		}
	}
	for layer, nodes := range contactNodes {
		if layer != 3 && len(nodes) != 0 {
			t.Errorf("layer %d unexpectedly seeded with %d nodes", layer, len(nodes))
		}
	}
}

func TestContactPointsAvoidCollision(t *testing.T) {
	ts, storage, contactNodes, collision := contactHarness(t, 8)
	storage.Settings.BranchDistance = 2000

	// Collision covering the lower left quarter of the overhang: no seed
	// may land there, but the rest still seeds.
	overhang := geom.Polygons{square(20_000, 20_000, 10_000)}
	collision[3] = geom.Polygons{square(15_000, 15_000, 10_000)}
	mesh := overhangMesh(storage, 5, overhang[0])

	ts.generateContactPoints(mesh, &storage.Settings, contactNodes, collision)

	if len(contactNodes[3]) == 0 {
		t.Fatal("no contact nodes seeded")
	}
	for _, node := range contactNodes[3] {
		if collision[3].Inside(node.Position, true) {
			t.Errorf("node %v inside collision", node.Position)
		}
	}
}

func TestContactPointsFallback(t *testing.T) {
	ts, storage, contactNodes, collision := contactHarness(t, 8)

	// Collision everywhere rejects every grid candidate; the part still
	// gets one centre-derived node so it is not left unseeded.
	overhang := geom.Polygons{square(20_000, 20_000, 4_000)}
	collision[3] = geom.Polygons{square(0, 0, 50_000)}
	mesh := overhangMesh(storage, 5, overhang[0])

	ts.generateContactPoints(mesh, &storage.Settings, contactNodes, collision)

	if got := len(contactNodes[3]); got != 1 {
		t.Fatalf("fallback seeded %d nodes, want 1", got)
	}
	for _, node := range contactNodes[3] {
		if !overhang.Inside(node.Position, true) {
			t.Errorf("fallback node %v outside the overhang", node.Position)
		}
	}
}

func TestContactPointsEmptyOverhang(t *testing.T) {
	ts, storage, contactNodes, collision := contactHarness(t, 8)
	mesh := slicestore.NewMesh("empty", 8)
	mesh.TreeEnable = true
	storage.Meshes = append(storage.Meshes, mesh)

	ts.generateContactPoints(mesh, &storage.Settings, contactNodes, collision)

	for layer, nodes := range contactNodes {
		if len(nodes) != 0 {
			t.Errorf("layer %d seeded for an empty mesh", layer)
		}
	}
}
