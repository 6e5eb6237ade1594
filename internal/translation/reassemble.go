package translation

import (
	"strings"

	"subtrans/internal/subtitles"
)

// Reassemble builds a new store whose segments all carry an Ok translation.
// Positions with a failed, missing or blank result take their source text and are
// counted as degraded.
func Reassemble(store *subtitles.Store, results map[string]subtitles.Translation) (*subtitles.Store, int, error) {
	degraded := 0
	out, err := store.Map(func(seg subtitles.Segment) subtitles.Segment {
		if text, ok := results[seg.Key()].Text(); ok && strings.TrimSpace(text) != "" {
			seg.Translation = subtitles.Translated(text)
			return seg
		}
		degraded++
		seg.Translation = subtitles.Translated(seg.Text)
		return seg
	})
	if err != nil {
		return nil, 0, err
	}
	return out, degraded, nil
}
