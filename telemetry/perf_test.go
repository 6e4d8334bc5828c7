package telemetry

import (
	"testing"
	"time"
)

func TestPerfCollector_BasicTiming(t *testing.T) {
	pc := NewPerfCollector(10)

	for i := 0; i < 5; i++ {
		pc.StartFrame()
		pc.StartPhase(PhaseIntegrate)
		time.Sleep(100 * time.Microsecond)
		pc.StartPhase(PhaseCollisions)
		time.Sleep(200 * time.Microsecond)
		pc.EndFrame()
	}

	stats := pc.Stats()

	if stats.AvgFrame <= 0 {
		t.Error("expected positive average frame duration")
	}
	if _, ok := stats.PhaseAvg[PhaseIntegrate]; !ok {
		t.Error("expected integrate phase to be tracked")
	}
	if _, ok := stats.PhaseAvg[PhaseCollisions]; !ok {
		t.Error("expected collisions phase to be tracked")
	}
	if stats.MinFrame > stats.AvgFrame || stats.AvgFrame > stats.MaxFrame {
		t.Errorf("expected min <= avg <= max, got %v %v %v", stats.MinFrame, stats.AvgFrame, stats.MaxFrame)
	}
}

func TestPerfCollector_RollingWindow(t *testing.T) {
	pc := NewPerfCollector(5)

	for i := 0; i < 10; i++ {
		pc.StartFrame()
		pc.StartPhase(PhaseIntegrate)
		time.Sleep(10 * time.Microsecond)
		pc.EndFrame()
	}

	stats := pc.Stats()
	if stats.AvgFrame <= 0 {
		t.Error("expected positive average frame duration after window filled")
	}
	if stats.FramesPerSecond <= 0 {
		t.Error("expected positive frames per second")
	}
}

func TestPerfCollector_PhasePercentages(t *testing.T) {
	pc := NewPerfCollector(10)

	for i := 0; i < 5; i++ {
		pc.StartFrame()
		pc.StartPhase(PhaseInfections)
		time.Sleep(10 * time.Microsecond)
		pc.StartPhase(PhaseCollisions)
		time.Sleep(500 * time.Microsecond)
		pc.EndFrame()
	}

	stats := pc.Stats()
	if stats.PhasePct[PhaseCollisions] <= stats.PhasePct[PhaseInfections] {
		t.Errorf("expected collisions (%v%%) > infections (%v%%)",
			stats.PhasePct[PhaseCollisions], stats.PhasePct[PhaseInfections])
	}

	row := stats.ToCSV(42)
	if row.Frame != 42 || row.CollisionsPct != stats.PhasePct[PhaseCollisions] {
		t.Errorf("ToCSV mismatch: %+v", row)
	}
}

func TestPerfCollector_EmptyStats(t *testing.T) {
	stats := NewPerfCollector(10).Stats()

	if stats.AvgFrame != 0 {
		t.Error("expected zero avg frame duration for empty collector")
	}
	if stats.PhaseAvg == nil || stats.PhasePct == nil {
		t.Error("expected non-nil phase maps")
	}
}

func TestPerfCollector_DrawTiming(t *testing.T) {
	pc := NewPerfCollector(10)

	pc.RecordDraw()
	time.Sleep(16 * time.Millisecond)
	pc.RecordDraw()

	stats := pc.Stats()
	if stats.DrawFPS <= 0 || stats.DrawFPS > 70 {
		t.Errorf("expected draw FPS in (0, 70] with 16ms frames, got %v", stats.DrawFPS)
	}
}
