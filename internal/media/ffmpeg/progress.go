package ffmpeg

import (
	"strconv"
	"strings"
	"time"
)

// Progress is one update parsed from ffmpeg's -progress output.
type Progress struct {
	Processed time.Duration
	// Percent is -1 when the total duration is unknown.
	Percent float64
	Speed   string
	Done    bool
}

// progressParser accumulates key=value lines into Progress updates. ffmpeg
// ends every block with a progress=continue or progress=end line.
type progressParser struct {
	total     time.Duration
	processed time.Duration
	speed     string
}

func (p *progressParser) feed(line string) (Progress, bool) {
	key, value, ok := strings.Cut(strings.TrimSpace(line), "=")
	if !ok {
		return Progress{}, false
	}
	value = strings.TrimSpace(value)
	switch key {
	case "out_time_us", "out_time_ms":
		// Both keys carry microseconds.
		if us, err := strconv.ParseInt(value, 10, 64); err == nil && us >= 0 {
			p.processed = time.Duration(us) * time.Microsecond
		}
	case "speed":
		p.speed = value
	case "progress":
		done := value == "end"
		return Progress{
			Processed: p.processed,
			Percent:   p.percent(done),
			Speed:     p.speed,
			Done:      done,
		}, true
	}
	return Progress{}, false
}

func (p *progressParser) percent(done bool) float64 {
	if done {
		return 100
	}
	if p.total <= 0 {
		return -1
	}
	pct := float64(p.processed) / float64(p.total) * 100
	if pct > 100 {
		pct = 100
	}
	return pct
}
