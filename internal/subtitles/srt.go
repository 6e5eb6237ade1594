package subtitles

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"subtrans/internal/fileutil"
)

const srtArrow = "-->"

// ParseSRT reads SRT cues into a store. Cue numbers in the file are ignored and
// positions are assigned 1..N in file order; cues without text are dropped.
func ParseSRT(r io.Reader) (*Store, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read srt: %w", err)
	}
	data = bytes.TrimPrefix(data, []byte("\ufeff"))
	content := strings.ReplaceAll(string(data), "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")

	var segments []Segment
	for i, block := range splitBlocks(content) {
		start, end, text, err := parseBlock(block)
		if err != nil {
			return nil, fmt.Errorf("%w: cue %d: %v", ErrInvalidStore, i+1, err)
		}
		if text == "" {
			continue
		}
		segments = append(segments, Segment{
			Position: len(segments) + 1,
			Start:    start,
			End:      end,
			Text:     text,
		})
	}
	return NewStore(segments)
}

// LoadSRT parses the SRT file at path.
func LoadSRT(path string) (*Store, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open srt: %w", err)
	}
	defer file.Close()
	return ParseSRT(file)
}

// WriteSRT writes store as SRT, rendering each cue's lines with layout.
func WriteSRT(w io.Writer, store *Store, layout Layout) error {
	var buf bytes.Buffer
	for i, seg := range store.Segments() {
		if i > 0 {
			buf.WriteByte('\n')
		}
		texts := make([]string, 0, 2)
		for _, l := range layout.lines(seg) {
			texts = append(texts, l.text)
		}
		fmt.Fprintf(&buf, "%d\n%s %s %s\n%s\n",
			seg.Position, formatSRTTimestamp(seg.Start), srtArrow, formatSRTTimestamp(seg.End),
			strings.Join(texts, "\n"))
	}
	_, err := w.Write(buf.Bytes())
	return err
}

// SaveSRT writes store to path atomically.
func SaveSRT(path string, store *Store, layout Layout) error {
	var buf bytes.Buffer
	if err := WriteSRT(&buf, store, layout); err != nil {
		return err
	}
	return fileutil.WriteFileAtomic(path, buf.Bytes(), 0o644)
}

// splitBlocks separates cues on blank lines. Lines holding only whitespace
// count as blank.
func splitBlocks(content string) []string {
	var (
		blocks  []string
		current []string
	)
	flush := func() {
		if len(current) > 0 {
			blocks = append(blocks, strings.Join(current, "\n"))
			current = current[:0]
		}
	}
	for _, line := range strings.Split(content, "\n") {
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		current = append(current, line)
	}
	flush()
	return blocks
}

func parseBlock(block string) (time.Duration, time.Duration, string, error) {
	lines := strings.Split(block, "\n")
	timing := -1
	for i, line := range lines {
		if strings.Contains(line, srtArrow) {
			timing = i
			break
		}
		if i > 0 {
			break
		}
	}
	if timing < 0 {
		return 0, 0, "", fmt.Errorf("missing timing line")
	}

	parts := strings.SplitN(lines[timing], srtArrow, 2)
	start, err := parseSRTTimestamp(parts[0])
	if err != nil {
		return 0, 0, "", err
	}
	// Position hints such as "X1:100" may follow the end timestamp.
	endFields := strings.Fields(parts[1])
	if len(endFields) == 0 {
		return 0, 0, "", fmt.Errorf("missing end timestamp")
	}
	end, err := parseSRTTimestamp(endFields[0])
	if err != nil {
		return 0, 0, "", err
	}
	if end < start {
		end = start
	}

	textLines := make([]string, 0, len(lines)-timing-1)
	for _, line := range lines[timing+1:] {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			textLines = append(textLines, trimmed)
		}
	}
	return start, end, strings.Join(textLines, "\n"), nil
}

func parseSRTTimestamp(value string) (time.Duration, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, fmt.Errorf("empty timestamp")
	}
	// Whisper and some editors use a period before the milliseconds.
	value = strings.ReplaceAll(value, ".", ",")
	timeParts := strings.Split(value, ",")
	if len(timeParts) != 2 || timeParts[1] == "" || len(timeParts[1]) > 3 {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	hms := strings.Split(timeParts[0], ":")
	if len(hms) != 3 {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	hours, errH := strconv.Atoi(hms[0])
	minutes, errM := strconv.Atoi(hms[1])
	seconds, errS := strconv.Atoi(hms[2])
	millis, errMS := strconv.Atoi(timeParts[1] + strings.Repeat("0", 3-len(timeParts[1])))
	if errH != nil || errM != nil || errS != nil || errMS != nil {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	if hours < 0 || minutes < 0 || minutes > 59 || seconds < 0 || seconds > 59 || millis < 0 {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	total := time.Duration(hours)*time.Hour +
		time.Duration(minutes)*time.Minute +
		time.Duration(seconds)*time.Second +
		time.Duration(millis)*time.Millisecond
	return total, nil
}

func formatSRTTimestamp(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	ms := d.Milliseconds()
	return fmt.Sprintf("%02d:%02d:%02d,%03d", ms/3_600_000, (ms/60_000)%60, (ms/1000)%60, ms%1000)
}
