package subtitles

import "subtrans/internal/textutil"

// TrimPunctuation returns a new store with trailing punctuation removed from
// source text and from Ok translations.
func TrimPunctuation(store *Store) (*Store, error) {
	return store.Map(func(seg Segment) Segment {
		seg.Text = textutil.TrimTrailingPunctuation(seg.Text)
		if text, ok := seg.Translation.Text(); ok {
			seg.Translation = Translated(textutil.TrimTrailingPunctuation(text))
		}
		return seg
	})
}
