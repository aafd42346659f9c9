package pipeline

import (
	"testing"
	"time"
)

func TestExtractionStats_SnapshotPercentiles(t *testing.T) {
	stats := NewExtractionStats(time.Hour)
	for _, ms := range []int64{100, 200, 300, 400, 500} {
		stats.Record(time.Duration(ms)*time.Millisecond, "pattern")
	}

	snap := stats.Snapshot()
	if snap.Count != 5 {
		t.Fatalf("expected count=5, got %d", snap.Count)
	}
	if snap.MinMs != 100 || snap.MaxMs != 500 {
		t.Fatalf("expected min=100 max=500, got %d %d", snap.MinMs, snap.MaxMs)
	}
	if snap.AvgMs != 300 {
		t.Fatalf("expected avg=300, got %f", snap.AvgMs)
	}
	if snap.P50Ms != 300 {
		t.Fatalf("expected p50=300, got %f", snap.P50Ms)
	}
	if snap.P95Ms != 480 {
		t.Fatalf("expected p95=480, got %f", snap.P95Ms)
	}
	if snap.P99Ms != 496 {
		t.Fatalf("expected p99=496, got %f", snap.P99Ms)
	}
}

func TestExtractionStats_CountsStrategies(t *testing.T) {
	stats := NewExtractionStats(time.Hour)
	stats.Record(time.Millisecond, "toc")
	stats.Record(time.Millisecond, "toc")
	stats.Record(time.Millisecond, "font")

	snap := stats.Snapshot()
	if snap.Strategies["toc"] != 2 || snap.Strategies["font"] != 1 {
		t.Errorf("unexpected strategy counts %v", snap.Strategies)
	}
}

func TestExtractionStats_PrunesExpiredSamples(t *testing.T) {
	stats := NewExtractionStats(10 * time.Millisecond)
	stats.Record(100*time.Millisecond, "toc")
	time.Sleep(25 * time.Millisecond)

	snap := stats.Snapshot()
	if snap.Count != 0 || len(snap.Strategies) != 0 {
		t.Fatalf("expected empty snapshot after prune, got %+v", snap)
	}

	stats.Record(200*time.Millisecond, "toc")
	snap = stats.Snapshot()
	if snap.Count != 1 || snap.MinMs != 200 || snap.MaxMs != 200 {
		t.Fatalf("expected one 200ms sample, got %+v", snap)
	}
}

func TestExtractionStats_ClampsNegativeDuration(t *testing.T) {
	stats := NewExtractionStats(time.Hour)
	stats.Record(-10*time.Millisecond, "")
	snap := stats.Snapshot()
	if snap.Count != 1 || snap.MinMs != 0 {
		t.Fatalf("expected one clamped sample, got %+v", snap)
	}
}
