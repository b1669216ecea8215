package observability

import (
	"context"
	"testing"
	"time"
)

type testSupportHooks struct {
	stages   []string
	progress []float64
}

func (h *testSupportHooks) OnStageStart(_ context.Context, stage string) {
	h.stages = append(h.stages, stage)
}

func (h *testSupportHooks) OnStageComplete(context.Context, string, time.Duration) {}

func (h *testSupportHooks) OnProgress(_ context.Context, done, _ float64) {
	h.progress = append(h.progress, done)
}

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	h := NoopSupportHooks{}
	h.OnStageStart(ctx, StageCollision)
	h.OnProgress(ctx, 25, 100)
	h.OnStageComplete(ctx, StageCollision, time.Second)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()

	if _, ok := Support().(NoopSupportHooks); !ok {
		t.Error("Support() should return NoopSupportHooks by default")
	}

	custom := &testSupportHooks{}
	SetSupportHooks(custom)
	if Support() != SupportHooks(custom) {
		t.Error("SetSupportHooks should set custom hooks")
	}

	Support().OnStageStart(context.Background(), StageDrop)
	Support().OnProgress(context.Background(), 1, 2)
	if len(custom.stages) != 1 || custom.stages[0] != StageDrop {
		t.Errorf("stages = %v", custom.stages)
	}
	if len(custom.progress) != 1 {
		t.Errorf("progress = %v", custom.progress)
	}

	// Nil registrations are ignored.
	SetSupportHooks(nil)
	if Support() != SupportHooks(custom) {
		t.Error("SetSupportHooks(nil) should keep the previous hooks")
	}

	Reset()
	if _, ok := Support().(NoopSupportHooks); !ok {
		t.Error("Reset() should restore noop hooks")
	}
}
