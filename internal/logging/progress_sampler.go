package logging

import "strings"

// ProgressSampler thins out progress lines from long-running tools (ffmpeg,
// whisper-cli) so only bucket crossings and phase changes are logged.
type ProgressSampler struct {
	step      float64
	lastPhase string
	lastStep  int
}

// NewProgressSampler returns a sampler that emits every step percent
// (10 when step is not positive).
func NewProgressSampler(step float64) *ProgressSampler {
	if step <= 0 {
		step = 10
	}
	return &ProgressSampler{step: step, lastStep: -1}
}

// ShouldLog reports whether the progress update should be logged. A negative
// percent means unknown and only phase changes are reported.
func (s *ProgressSampler) ShouldLog(percent float64, phase string) bool {
	if s == nil {
		return true
	}
	emit := false
	if phase = strings.TrimSpace(phase); phase != "" && phase != s.lastPhase {
		s.lastPhase = phase
		s.lastStep = -1
		emit = true
	}
	if percent < 0 {
		return emit
	}
	if percent > 100 {
		percent = 100
	}
	if step := int(percent / s.step); step > s.lastStep {
		s.lastStep = step
		emit = true
	}
	return emit
}

// Reset forgets the last phase and bucket.
func (s *ProgressSampler) Reset() {
	if s == nil {
		return
	}
	s.lastPhase = ""
	s.lastStep = -1
}
