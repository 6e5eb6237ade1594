package subtitles

import (
	"errors"
	"testing"
	"time"
)

func TestNewStoreValidatesPositions(t *testing.T) {
	_, err := NewStore([]Segment{
		{Position: 1, Text: "a"},
		{Position: 3, Text: "b"},
	})
	if !errors.Is(err, ErrInvalidStore) {
		t.Fatalf("expected ErrInvalidStore for gap, got %v", err)
	}

	_, err = NewStore([]Segment{{Position: 1, Start: 2 * time.Second, End: time.Second}})
	if !errors.Is(err, ErrInvalidStore) {
		t.Fatalf("expected ErrInvalidStore for reversed timing, got %v", err)
	}
}

func TestStoreIsIsolatedFromCaller(t *testing.T) {
	input := []Segment{{Position: 1, Text: "original"}}
	store := mustStore(t, input...)
	input[0].Text = "mutated"

	if store.At(0).Text != "original" {
		t.Fatalf("store shares backing array with caller")
	}
	segs := store.Segments()
	segs[0].Text = "mutated"
	if store.At(0).Text != "original" {
		t.Fatalf("Segments() exposes internal slice")
	}
}

func TestStoreTexts(t *testing.T) {
	store := mustStore(t,
		Segment{Position: 1, Text: "one"},
		Segment{Position: 2, Text: "two"},
	)
	texts := store.Texts()
	if len(texts) != 2 || texts[0] != (Text{Key: "1", Text: "one"}) || texts[1] != (Text{Key: "2", Text: "two"}) {
		t.Fatalf("unexpected texts: %+v", texts)
	}

	var empty *Store
	if empty.Len() != 0 || len(empty.Texts()) != 0 {
		t.Fatal("nil store should behave as empty")
	}
}

func TestStoreMapBuildsNewStore(t *testing.T) {
	store := mustStore(t, Segment{Position: 1, Text: "hi", End: time.Second})
	mapped, err := store.Map(func(seg Segment) Segment {
		seg.Translation = Translated("salut")
		return seg
	})
	if err != nil {
		t.Fatalf("Map: %v", err)
	}
	if got := mapped.At(0).TranslatedText(); got != "salut" {
		t.Fatalf("mapped translation = %q", got)
	}
	if store.At(0).Translation.State() != TranslationUnset {
		t.Fatal("Map must not modify the source store")
	}
	if mapped.Duration() != time.Second {
		t.Fatalf("Duration = %v", mapped.Duration())
	}
}

func TestTranslationStates(t *testing.T) {
	if text, ok := Translated("x").Text(); !ok || text != "x" {
		t.Fatalf("Translated().Text() = %q, %v", text, ok)
	}
	if _, ok := Failed().Text(); ok {
		t.Fatal("Failed translation must not report text")
	}
	if Failed().State().String() != "failed" || (Translation{}).State().String() != "unset" {
		t.Fatal("unexpected state labels")
	}
}

func TestParseLayout(t *testing.T) {
	tests := []struct {
		in      string
		want    Layout
		wantErr bool
	}{
		{"", LayoutTargetAbove, false},
		{"Source-Above", LayoutSourceAbove, false},
		{" target-only ", LayoutTargetOnly, false},
		{"source-only", LayoutSourceOnly, false},
		{"sideways", "", true},
	}
	for _, tt := range tests {
		got, err := ParseLayout(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseLayout(%q) = %q, %v", tt.in, got, err)
		}
	}
}

func TestTrimPunctuation(t *testing.T) {
	store := mustStore(t,
		Segment{Position: 1, Text: "Hello.", Translation: Translated("你好。")},
		Segment{Position: 2, Text: "Why?", Translation: Failed()},
	)
	out, err := TrimPunctuation(store)
	if err != nil {
		t.Fatalf("TrimPunctuation: %v", err)
	}
	if seg := out.At(0); seg.Text != "Hello" || seg.TranslatedText() != "你好" {
		t.Fatalf("unexpected first segment: %q / %q", seg.Text, seg.TranslatedText())
	}
	if seg := out.At(1); seg.Text != "Why?" || seg.Translation.State() != TranslationFailed {
		t.Fatalf("unexpected second segment: %+v", seg)
	}
	if store.At(0).Text != "Hello." {
		t.Fatal("source store modified")
	}
}
