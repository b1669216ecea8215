package treesupport

import (
	"context"
	"io"
	"math"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/treestrut/pkg/geom"
	"github.com/matzehuels/treestrut/pkg/observability"
	"github.com/matzehuels/treestrut/pkg/slicestore"
)

// ellipseResolution is the vertex count of the polygon approximating an
// elliptic build plate.
const ellipseResolution = 50

// TreeSupport generates branching support structures for one slice. Build
// one per storage with New, optionally attach a Forest recorder, then call
// GenerateSupportAreas.
type TreeSupport struct {
	// volumeBorder is a ring marking everything outside the usable build
	// volume as positive area, so it adds onto per-layer model collision.
	volumeBorder geom.Polygons

	logger   *log.Logger
	forest   *Forest
	progress *progressTracker
}

// New computes the machine volume border for the storage's machine and
// returns a generator. A nil logger disables logging.
func New(storage *slicestore.SliceDataStorage, logger *log.Logger) *TreeSupport {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	machine := storage.Machine
	var actualBorder geom.Polygons
	switch machine.Shape {
	case slicestore.ShapeElliptic:
		// Approximate the build volume with an ellipse in the machine
		// bounds.
		ring := make(geom.Polygon, ellipseResolution)
		for i := range ring {
			angle := 2 * math.Pi * float64(i) / ellipseResolution
			ring[i] = geom.Pt(
				machine.Width/2+int64(math.Cos(angle)*float64(machine.Width)/2),
				machine.Depth/2+int64(math.Sin(angle)*float64(machine.Depth)/2),
			)
		}
		actualBorder.Add(ring)
	case slicestore.ShapeRectangular, "":
		actualBorder.Add(rectangleBorder(machine))
	default:
		logger.Warn("unknown machine shape, assuming rectangular", "shape", machine.Shape)
		actualBorder.Add(rectangleBorder(machine))
	}

	adhesionSize, known := machine.AdhesionSize()
	if !known {
		logger.Warn("unknown platform adhesion type, assuming no adhesion", "adhesion", machine.Adhesion)
	}
	actualBorder = actualBorder.Offset(-adhesionSize, geom.JoinMiter)

	// A border of 1 m around the print volume, minus the reversed usable
	// area: the result is a ring whose positive region is "outside the
	// print volume".
	var volumeBorder geom.Polygons
	volumeBorder.AddAll(actualBorder.Offset(1_000_000, geom.JoinMiter))
	for _, ring := range actualBorder {
		reversed := make(geom.Polygon, len(ring))
		for i, p := range ring {
			reversed[len(ring)-1-i] = p
		}
		volumeBorder.Add(reversed)
	}

	return &TreeSupport{
		volumeBorder: volumeBorder,
		logger:       logger,
	}
}

func rectangleBorder(machine slicestore.Machine) geom.Polygon {
	return geom.Polygon{
		geom.Pt(0, 0),
		geom.Pt(machine.Width, 0),
		geom.Pt(machine.Width, machine.Depth),
		geom.Pt(0, machine.Depth),
	}
}

// RecordForest attaches a recorder capturing every parent→child relation
// the node drop produces. Attach before GenerateSupportAreas.
func (ts *TreeSupport) RecordForest(f *Forest) {
	ts.forest = f
}

// GenerateSupportAreas runs the full pipeline and writes the generated
// support geometry into the storage. It is a no-op when neither the global
// setting nor any mesh enables tree support. Settings must have been
// validated beforehand.
func (ts *TreeSupport) GenerateSupportAreas(ctx context.Context, storage *slicestore.SliceDataStorage) {
	if !storage.TreeSupportEnabled() {
		return
	}

	// Collision sample count decides the progress total; compute it the
	// same way collisionAreas does.
	settings := &storage.Settings
	branchRadius := settings.BranchRadius()
	scale := diameterAngleScaleFactor(settings)
	maximumRadius := branchRadius + int64(float64(storage.NumLayers())*float64(branchRadius)*scale)
	sampleCount := int(math.Round(float64(maximumRadius)/float64(settings.CollisionResolution))) + 1
	ts.progress = newProgressTracker(sampleCount, storage.NumLayers())

	collision := ts.stageAreas(ctx, observability.StageCollision, func() [][]geom.Polygons {
		return ts.collisionAreas(ctx, storage)
	})
	avoidance := ts.stageAreas(ctx, observability.StageCollision, func() [][]geom.Polygons {
		return ts.propagateCollisionAreas(ctx, storage, collision)
	})
	internalGuide := internalGuideAreas(collision, avoidance)

	contactNodes := make([]nodeLayer, storage.NumLayers())
	for i := range contactNodes {
		contactNodes[i] = make(nodeLayer)
	}
	for _, mesh := range storage.Meshes {
		// The global setting only decides whether the pipeline runs at
		// all; each mesh is seeded by its own resolved value, so a mesh
		// that disables tree support stays unseeded.
		if !mesh.TreeEnable {
			continue
		}
		ts.generateContactPoints(mesh, settings, contactNodes, collision[0])
	}

	start := time.Now()
	observability.Support().OnStageStart(ctx, observability.StageDrop)
	ts.dropNodes(ctx, storage, contactNodes, collision, avoidance, internalGuide)
	observability.Support().OnStageComplete(ctx, observability.StageDrop, time.Since(start))
	ts.logger.Debug("dropped support nodes", "duration", time.Since(start).Round(time.Millisecond))

	start = time.Now()
	observability.Support().OnStageStart(ctx, observability.StageAreas)
	ts.drawCircles(ctx, storage, contactNodes, collision)
	observability.Support().OnStageComplete(ctx, observability.StageAreas, time.Since(start))
	ts.logger.Debug("drew support areas", "duration", time.Since(start).Round(time.Millisecond))

	storage.Support.Generated = true
}

// stageAreas wraps one area-producing stage with hooks and timing.
func (ts *TreeSupport) stageAreas(ctx context.Context, stage string, run func() [][]geom.Polygons) [][]geom.Polygons {
	start := time.Now()
	observability.Support().OnStageStart(ctx, stage)
	areas := run()
	observability.Support().OnStageComplete(ctx, stage, time.Since(start))
	ts.logger.Debug("computed support areas stage", "stage", stage, "duration", time.Since(start).Round(time.Millisecond))
	return areas
}
