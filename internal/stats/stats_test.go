package stats

import (
	"testing"
	"time"
)

func TestWindowSnapshotPercentiles(t *testing.T) {
	w := NewWindow(time.Hour)
	for _, us := range []int64{100, 200, 300, 400, 500} {
		w.Record(time.Duration(us) * time.Microsecond)
	}

	snap := w.Snapshot()
	if snap.Count != 5 {
		t.Fatalf("expected count=5, got %d", snap.Count)
	}
	if snap.MinUs != 100 {
		t.Fatalf("expected min=100, got %d", snap.MinUs)
	}
	if snap.MaxUs != 500 {
		t.Fatalf("expected max=500, got %d", snap.MaxUs)
	}
	if snap.AvgUs != 300 {
		t.Fatalf("expected avg=300, got %f", snap.AvgUs)
	}
	if snap.P50Us != 300 {
		t.Fatalf("expected p50=300, got %f", snap.P50Us)
	}
	if snap.P95Us != 480 {
		t.Fatalf("expected p95=480, got %f", snap.P95Us)
	}
	if snap.P99Us != 496 {
		t.Fatalf("expected p99=496, got %f", snap.P99Us)
	}
}

func TestWindowPrunesExpiredSamples(t *testing.T) {
	w := NewWindow(10 * time.Millisecond)
	w.Record(100 * time.Microsecond)
	time.Sleep(25 * time.Millisecond)

	snap := w.Snapshot()
	if snap.Count != 0 {
		t.Fatalf("expected count=0 after prune, got %d", snap.Count)
	}

	w.Record(200 * time.Microsecond)
	snap = w.Snapshot()
	if snap.Count != 1 {
		t.Fatalf("expected count=1 for fresh sample, got %d", snap.Count)
	}
	if snap.MinUs != 200 || snap.MaxUs != 200 {
		t.Fatalf("expected min=max=200, got min=%d max=%d", snap.MinUs, snap.MaxUs)
	}
}

func TestWindowRecordClampsNegativeDuration(t *testing.T) {
	w := NewWindow(time.Hour)
	w.Record(-10 * time.Microsecond)
	snap := w.Snapshot()
	if snap.Count != 1 {
		t.Fatalf("expected count=1, got %d", snap.Count)
	}
	if snap.MinUs != 0 || snap.MaxUs != 0 {
		t.Fatalf("expected clamped duration=0, got min=%d max=%d", snap.MinUs, snap.MaxUs)
	}
}

func TestOpsPerOperation(t *testing.T) {
	ops := NewOps(time.Hour)
	ops.Record("convert", 10*time.Microsecond)
	ops.Record("convert", 30*time.Microsecond)
	ops.Record("replace", 5*time.Microsecond)
	ops.Track("text")()

	snap := ops.Snapshot()
	if len(snap) != 3 {
		t.Fatalf("expected 3 operations, got %d", len(snap))
	}
	if snap["convert"].Count != 2 || snap["convert"].AvgUs != 20 {
		t.Errorf("unexpected convert snapshot: %+v", snap["convert"])
	}
	if snap["replace"].MaxUs != 5 {
		t.Errorf("unexpected replace snapshot: %+v", snap["replace"])
	}
	if snap["text"].Count != 1 {
		t.Errorf("expected tracked sample, got %+v", snap["text"])
	}
}
