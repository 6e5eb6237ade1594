package logging

import "testing"

func TestNewProgressSamplerDefaults(t *testing.T) {
	if s := NewProgressSampler(0); s.step != 10 {
		t.Fatalf("step = %v, want 10", s.step)
	}
	if s := NewProgressSampler(25); s.step != 25 {
		t.Fatalf("step = %v, want 25", s.step)
	}
}

func TestProgressSamplerNil(t *testing.T) {
	var s *ProgressSampler
	if !s.ShouldLog(50, "extract") {
		t.Fatal("nil sampler should always log")
	}
	s.Reset()
}

func TestProgressSamplerSequence(t *testing.T) {
	s := NewProgressSampler(10)
	steps := []struct {
		percent float64
		phase   string
		want    bool
	}{
		{0, "extract", true},
		{4, "extract", false},
		{10, "extract", true},
		{19.9, "extract", false},
		{35, "extract", true},
		{100, "extract", true},
		{130, "extract", false},
		{5, "burn", true},
		{-1, "burn", false},
		{-1, "done", true},
	}
	for i, step := range steps {
		if got := s.ShouldLog(step.percent, step.phase); got != step.want {
			t.Fatalf("step %d (%v%% %s): got %v want %v", i, step.percent, step.phase, got, step.want)
		}
	}
}

func TestProgressSamplerReset(t *testing.T) {
	s := NewProgressSampler(10)
	s.ShouldLog(50, "extract")
	s.Reset()
	if s.lastPhase != "" || s.lastStep != -1 {
		t.Fatalf("unexpected state after reset: %+v", s)
	}
	if !s.ShouldLog(50, "extract") {
		t.Fatal("expected log after reset")
	}
}
