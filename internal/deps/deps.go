package deps

import (
	"fmt"
	"os/exec"
	"strings"
)

// Requirement defines an external tool subtrans shells out to.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	Available   bool
	Detail      string
}

// CheckBinaries evaluates the provided requirements and reports availability.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		if cmd == "" {
			status.Available = false
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		if _, err := exec.LookPath(cmd); err != nil {
			status.Available = false
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
			results = append(results, status)
			continue
		}
		status.Available = true
		results = append(results, status)
	}
	return results
}

// Requirements lists the tools a full run needs. Empty commands fall back to
// the default binary names.
func Requirements(ffmpeg, ffprobe, whisper string) []Requirement {
	return []Requirement{
		{Name: "FFmpeg", Command: orDefault(ffmpeg, "ffmpeg"), Description: "audio extraction and subtitle burn-in"},
		{Name: "FFprobe", Command: orDefault(ffprobe, "ffprobe"), Description: "media duration and stream inspection"},
		{Name: "whisper.cpp", Command: orDefault(whisper, "whisper-cli"), Description: "speech transcription"},
	}
}

func orDefault(value, fallback string) string {
	if v := strings.TrimSpace(value); v != "" {
		return v
	}
	return fallback
}
