package history

import (
	"strings"
	"time"
)

// Status represents the lifecycle of a run.
type Status string

const (
	StatusPending      Status = "pending"
	StatusExtracting   Status = "extracting"
	StatusTranscribing Status = "transcribing"
	StatusTranslating  Status = "translating"
	StatusStyling      Status = "styling"
	StatusBurning      Status = "burning"
	StatusCompleted    Status = "completed"
	StatusFailed       Status = "failed"
	// StatusRejected marks runs stopped by bad input or configuration rather
	// than a tool or network failure.
	StatusRejected Status = "rejected"
)

var allStatuses = []Status{
	StatusPending,
	StatusExtracting,
	StatusTranscribing,
	StatusTranslating,
	StatusStyling,
	StatusBurning,
	StatusCompleted,
	StatusFailed,
	StatusRejected,
}

// AllStatuses returns the ordered list of known statuses.
func AllStatuses() []Status {
	cp := make([]Status, len(allStatuses))
	copy(cp, allStatuses)
	return cp
}

// ParseStatus converts a string into a known Status.
func ParseStatus(value string) (Status, bool) {
	normalized := Status(strings.ToLower(strings.TrimSpace(value)))
	for _, status := range allStatuses {
		if status == normalized {
			return status, true
		}
	}
	return "", false
}

// IsTerminal reports whether no further transitions are expected.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed || s == StatusRejected
}

// Run is one recorded pipeline execution.
type Run struct {
	ID             int64
	RequestID      string
	SourcePath     string
	OutputPath     string
	SubtitlePath   string
	TargetLanguage string
	Status         Status
	Stage          string
	ErrorMessage   string
	Segments       int
	Degraded       int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Elapsed returns the time between creation and the last update.
func (r Run) Elapsed() time.Duration {
	if r.UpdatedAt.Before(r.CreatedAt) {
		return 0
	}
	return r.UpdatedAt.Sub(r.CreatedAt)
}
