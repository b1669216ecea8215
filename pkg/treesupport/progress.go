package treesupport

import (
	"context"
	"sync"

	"github.com/matzehuels/treestrut/pkg/observability"
)

// The stages weigh differently in the progress bar; the weights are
// carried over from profiling the pipeline on real models.
const (
	progressWeightCollision = 50
	progressWeightDrop      = 1
	progressWeightAreas     = 1
)

// progressTracker accumulates weighted progress across stages and forwards
// it to the observability hooks. It is the single cross-task writer in the
// pipeline, so every update goes through its mutex and the reported
// fraction is monotone non-decreasing.
type progressTracker struct {
	mu    sync.Mutex
	done  float64
	total float64
}

func newProgressTracker(sampleCount, layerCount int) *progressTracker {
	return &progressTracker{
		total: float64(sampleCount*progressWeightCollision +
			layerCount*progressWeightDrop +
			layerCount*progressWeightAreas),
	}
}

func (t *progressTracker) add(ctx context.Context, amount float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.done += amount
	if t.done > t.total {
		t.done = t.total
	}
	observability.Support().OnProgress(ctx, t.done, t.total)
}
