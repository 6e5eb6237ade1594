package subtitles

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestWriteASSTargetAbove(t *testing.T) {
	store := mustStore(t, Segment{
		Position:    1,
		Start:       1500 * time.Millisecond,
		End:         3 * time.Second,
		Text:        "Hello {there}\nfriend",
		Translation: Translated("你好"),
	})

	var buf bytes.Buffer
	if err := WriteASS(&buf, store, Options{}); err != nil {
		t.Fatalf("WriteASS: %v", err)
	}
	out := buf.String()

	for _, want := range []string{"[Script Info]", "[V4+ Styles]", "Style: Default,", "Style: Secondary,", "[Events]"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}

	source := `Dialogue: 0,0:00:01.50,0:00:03.00,Secondary,,0,0,0,,Hello (there)\Nfriend`
	target := "Dialogue: 0,0:00:01.50,0:00:03.00,Default,,0,0,0,,你好"
	si := strings.Index(out, source)
	ti := strings.Index(out, target)
	if si < 0 || ti < 0 {
		t.Fatalf("missing dialogue lines:\n%s", out)
	}
	if si > ti {
		t.Fatal("bottom line should be written before the line above it")
	}
}

func TestWriteASSSingleLineLayouts(t *testing.T) {
	store := mustStore(t, Segment{Position: 1, End: time.Second, Text: "src", Translation: Translated("dst")})

	var buf bytes.Buffer
	if err := WriteASS(&buf, store, Options{Layout: LayoutSourceOnly}); err != nil {
		t.Fatalf("WriteASS: %v", err)
	}
	if got := strings.Count(buf.String(), "Dialogue:"); got != 1 {
		t.Fatalf("expected one dialogue, got %d", got)
	}
	if !strings.Contains(buf.String(), ",Default,,0,0,0,,src\n") {
		t.Fatalf("single-line layout should use the Default style:\n%s", buf.String())
	}
}

func TestWriteASSRejectsIncompleteStyle(t *testing.T) {
	store := mustStore(t)
	style := "Style: Default,Arial,20,&H00FFFFFF,&H000000FF,&H00000000,&H00000000,0,0,0,0,100,100,0,0,1,1,0,2,10,10,10,1\n"
	err := WriteASS(&bytes.Buffer{}, store, Options{Style: style})
	if !errors.Is(err, ErrInvalidStyle) {
		t.Fatalf("expected ErrInvalidStyle, got %v", err)
	}
}

func TestLoadStyleAddsHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "style.txt")
	body := "Style: Default,Arial,20,&H00FFFFFF,&H000000FF,&H00000000,&H00000000,0,0,0,0,100,100,0,0,1,1,0,2,10,10,10,1\r\n" +
		"Style: Secondary,Arial,14,&H00FFFFFF,&H000000FF,&H00000000,&H00000000,0,0,0,0,100,100,0,0,1,1,0,2,10,10,10,1\r\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	style, err := LoadStyle(path)
	if err != nil {
		t.Fatalf("LoadStyle: %v", err)
	}
	if !strings.HasPrefix(style, "[V4+ Styles]\n") || strings.Contains(style, "\r") {
		t.Fatalf("unexpected normalized style: %q", style)
	}

	def, err := LoadStyle("")
	if err != nil || def != DefaultStyle() {
		t.Fatalf("empty path should return default style, err=%v", err)
	}
}

func TestFormatASSTimestamp(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{0, "0:00:00.00"},
		{-time.Second, "0:00:00.00"},
		{61*time.Second + 239*time.Millisecond, "0:01:01.23"},
		{2*time.Hour + 5*time.Minute, "2:05:00.00"},
	}
	for _, tt := range tests {
		if got := formatASSTimestamp(tt.in); got != tt.want {
			t.Errorf("formatASSTimestamp(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
