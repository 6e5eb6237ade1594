package subtitles

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"subtrans/internal/fileutil"
)

//go:embed default_style.ass
var defaultStyle string

const (
	assStylesHeader   = "[V4+ Styles]"
	assPrimaryStyle   = "Default"
	assSecondaryStyle = "Secondary"
)

// ErrInvalidStyle reports an ASS style block missing a required style.
var ErrInvalidStyle = errors.New("invalid ass style")

// Options controls ASS rendering.
type Options struct {
	Layout Layout
	// Style is a [V4+ Styles] block. Empty selects the embedded default.
	Style string
}

// DefaultStyle returns the embedded style block.
func DefaultStyle() string {
	return defaultStyle
}

// LoadStyle reads a style block from path and validates it. An empty path
// returns the embedded default.
func LoadStyle(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return defaultStyle, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read style file: %w", err)
	}
	style, err := normalizeStyle(string(data))
	if err != nil {
		return "", fmt.Errorf("%s: %w", path, err)
	}
	return style, nil
}

// normalizeStyle ensures the section header is present and that both the
// primary and secondary styles are defined.
func normalizeStyle(style string) (string, error) {
	style = strings.ReplaceAll(style, "\r\n", "\n")
	style = strings.TrimSpace(strings.TrimPrefix(style, "\ufeff"))
	if !strings.Contains(style, assStylesHeader) {
		style = assStylesHeader + "\n" + style
	}
	for _, name := range []string{assPrimaryStyle, assSecondaryStyle} {
		if !hasStyle(style, name) {
			return "", fmt.Errorf("%w: style %q not defined", ErrInvalidStyle, name)
		}
	}
	return style + "\n", nil
}

func hasStyle(block, name string) bool {
	for _, line := range strings.Split(block, "\n") {
		line = strings.TrimSpace(line)
		rest, ok := strings.CutPrefix(line, "Style:")
		if !ok {
			continue
		}
		fields := strings.SplitN(rest, ",", 2)
		if strings.TrimSpace(fields[0]) == name {
			return true
		}
	}
	return false
}

// WriteASS renders store as an Advanced SubStation Alpha script. Two-line
// layouts emit one Dialogue per line: translated text uses the Default
// style and source text uses Secondary. Lines are written bottom first so
// renderers stack them in layout order.
func WriteASS(w io.Writer, store *Store, opts Options) error {
	style := opts.Style
	if strings.TrimSpace(style) == "" {
		style = defaultStyle
	}
	style, err := normalizeStyle(style)
	if err != nil {
		return err
	}
	layout := opts.Layout
	if layout == "" {
		layout = LayoutTargetAbove
	}

	var buf bytes.Buffer
	buf.WriteString("[Script Info]\n")
	buf.WriteString("ScriptType: v4.00+\n")
	buf.WriteString("PlayResX: 1920\n")
	buf.WriteString("PlayResY: 1080\n")
	buf.WriteString("WrapStyle: 0\n")
	buf.WriteString("ScaledBorderAndShadow: yes\n\n")
	buf.WriteString(style)
	buf.WriteString("\n[Events]\n")
	buf.WriteString("Format: Layer, Start, End, Style, Name, MarginL, MarginR, MarginV, Effect, Text\n")

	for _, seg := range store.Segments() {
		lines := layout.lines(seg)
		single := len(lines) == 1
		for i := len(lines) - 1; i >= 0; i-- {
			name := assSecondaryStyle
			if lines[i].target || single {
				name = assPrimaryStyle
			}
			fmt.Fprintf(&buf, "Dialogue: 0,%s,%s,%s,,0,0,0,,%s\n",
				formatASSTimestamp(seg.Start), formatASSTimestamp(seg.End), name, escapeASSText(lines[i].text))
		}
	}
	_, err = w.Write(buf.Bytes())
	return err
}

// SaveASS writes store to path atomically.
func SaveASS(path string, store *Store, opts Options) error {
	var buf bytes.Buffer
	if err := WriteASS(&buf, store, opts); err != nil {
		return err
	}
	return fileutil.WriteFileAtomic(path, buf.Bytes(), 0o644)
}

var assTextReplacer = strings.NewReplacer(
	"\r\n", `\N`,
	"\n", `\N`,
	"{", "(",
	"}", ")",
)

func escapeASSText(text string) string {
	return assTextReplacer.Replace(text)
}

// formatASSTimestamp renders H:MM:SS.cc with centisecond precision.
func formatASSTimestamp(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	cs := d.Milliseconds() / 10
	return fmt.Sprintf("%d:%02d:%02d.%02d", cs/360_000, (cs/6000)%60, (cs/100)%60, cs%100)
}
