package subtitles

import (
	"errors"
	"fmt"
	"strconv"
	"time"
)

// ErrInvalidStore reports a segment list that violates store ordering rules.
var ErrInvalidStore = errors.New("invalid segment store")

// TranslationState tags the outcome recorded on a segment.
type TranslationState uint8

const (
	// TranslationUnset means no translation has been attempted or merged.
	TranslationUnset TranslationState = iota
	// TranslationOk carries a translated text.
	TranslationOk
	// TranslationFailed marks an item whose translation could not be produced.
	TranslationFailed
)

func (s TranslationState) String() string {
	switch s {
	case TranslationOk:
		return "ok"
	case TranslationFailed:
		return "failed"
	default:
		return "unset"
	}
}

// Translation is the tagged translation result attached to a segment.
type Translation struct {
	state TranslationState
	text  string
}

// Translated returns an Ok translation carrying text.
func Translated(text string) Translation {
	return Translation{state: TranslationOk, text: text}
}

// Failed returns a translation marked as failed.
func Failed() Translation {
	return Translation{state: TranslationFailed}
}

// State reports the translation tag.
func (t Translation) State() TranslationState { return t.state }

// Text returns the translated text and whether the translation is Ok.
func (t Translation) Text() (string, bool) {
	if t.state != TranslationOk {
		return "", false
	}
	return t.text, true
}

// Segment is one timed subtitle cue.
type Segment struct {
	Position    int
	Start       time.Duration
	End         time.Duration
	Text        string
	Translation Translation
}

// Key returns the position as the string key used in translation payloads.
func (s Segment) Key() string {
	return strconv.Itoa(s.Position)
}

// TranslatedText returns the Ok translation, or an empty string.
func (s Segment) TranslatedText() string {
	text, _ := s.Translation.Text()
	return text
}

// Store is an ordered, length-immutable collection of segments.
type Store struct {
	segments []Segment
}

// NewStore validates segments and returns a store owning a copy of them.
// Positions must run 1..N in slice order and every segment must end at or
// after its start.
func NewStore(segments []Segment) (*Store, error) {
	owned := make([]Segment, len(segments))
	for i, seg := range segments {
		if seg.Position != i+1 {
			return nil, fmt.Errorf("%w: segment %d has position %d", ErrInvalidStore, i+1, seg.Position)
		}
		if seg.Start < 0 {
			return nil, fmt.Errorf("%w: segment %d starts before zero", ErrInvalidStore, seg.Position)
		}
		if seg.End < seg.Start {
			return nil, fmt.Errorf("%w: segment %d ends before it starts", ErrInvalidStore, seg.Position)
		}
		owned[i] = seg
	}
	return &Store{segments: owned}, nil
}

// Len returns the number of segments.
func (s *Store) Len() int {
	if s == nil {
		return 0
	}
	return len(s.segments)
}

// At returns the segment at zero-based index i.
func (s *Store) At(i int) Segment {
	return s.segments[i]
}

// Segments returns a copy of the segments in position order.
func (s *Store) Segments() []Segment {
	if s == nil {
		return nil
	}
	out := make([]Segment, len(s.segments))
	copy(out, s.segments)
	return out
}

// Text pairs a position key with its source text.
type Text struct {
	Key  string
	Text string
}

// Texts returns position key and source text for every segment, in order.
func (s *Store) Texts() []Text {
	if s == nil {
		return nil
	}
	out := make([]Text, 0, len(s.segments))
	for _, seg := range s.segments {
		out = append(out, Text{Key: seg.Key(), Text: seg.Text})
	}
	return out
}

// Map builds a new store by applying fn to every segment. Positions and
// timings returned by fn are validated like NewStore.
func (s *Store) Map(fn func(Segment) Segment) (*Store, error) {
	mapped := make([]Segment, 0, s.Len())
	for _, seg := range s.segments {
		mapped = append(mapped, fn(seg))
	}
	return NewStore(mapped)
}

// Duration returns the end time of the last segment.
func (s *Store) Duration() time.Duration {
	if s.Len() == 0 {
		return 0
	}
	return s.segments[len(s.segments)-1].End
}
