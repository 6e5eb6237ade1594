package subtitles

import (
	"fmt"
	"strings"
)

// Layout controls which texts appear in an output cue and in what order.
type Layout string

const (
	LayoutTargetAbove Layout = "target-above"
	LayoutSourceAbove Layout = "source-above"
	LayoutTargetOnly  Layout = "target-only"
	LayoutSourceOnly  Layout = "source-only"
)

// Layouts lists every supported layout, default first.
var Layouts = []Layout{LayoutTargetAbove, LayoutSourceAbove, LayoutTargetOnly, LayoutSourceOnly}

// ParseLayout resolves a layout name. Empty input selects target-above.
func ParseLayout(value string) (Layout, error) {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return LayoutTargetAbove, nil
	}
	for _, layout := range Layouts {
		if string(layout) == value {
			return layout, nil
		}
	}
	return "", fmt.Errorf("unknown subtitle layout %q", value)
}

// line is one rendered text line within a cue.
type line struct {
	text   string
	target bool
}

// lines returns the cue lines for seg from top to bottom. A segment without
// an Ok translation falls back to its source text on the target line.
func (l Layout) lines(seg Segment) []line {
	target, ok := seg.Translation.Text()
	if !ok {
		target = seg.Text
	}
	source := line{text: seg.Text}
	translated := line{text: target, target: true}

	switch l {
	case LayoutSourceAbove:
		return []line{source, translated}
	case LayoutTargetOnly:
		return []line{translated}
	case LayoutSourceOnly:
		return []line{source}
	default:
		return []line{translated, source}
	}
}
