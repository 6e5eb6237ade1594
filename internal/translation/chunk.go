package translation

import (
	"bytes"
	"encoding/json"
	"fmt"

	"subtrans/internal/subtitles"
)

// Entry is one position-keyed source line inside a chunk.
type Entry struct {
	Key  string
	Text string
}

// Chunk is a contiguous run of entries translated together.
type Chunk struct {
	// Index is 1-based and follows store order.
	Index   int
	Entries []Entry
}

// Len returns the number of entries in the chunk.
func (c Chunk) Len() int { return len(c.Entries) }

// Keys returns the entry keys in order.
func (c Chunk) Keys() []string {
	keys := make([]string, len(c.Entries))
	for i, e := range c.Entries {
		keys[i] = e.Key
	}
	return keys
}

// Payload serializes the chunk as a JSON object whose keys appear in position
// order. Non-ASCII text is written as-is.
func (c Chunk) Payload() (string, error) {
	var out bytes.Buffer
	out.WriteByte('{')
	for i, e := range c.Entries {
		if i > 0 {
			out.WriteString(", ")
		}
		key, err := encodeJSONString(e.Key)
		if err != nil {
			return "", fmt.Errorf("encode chunk %d: %w", c.Index, err)
		}
		text, err := encodeJSONString(e.Text)
		if err != nil {
			return "", fmt.Errorf("encode chunk %d: %w", c.Index, err)
		}
		out.Write(key)
		out.WriteString(": ")
		out.Write(text)
	}
	out.WriteByte('}')
	return out.String(), nil
}

func encodeJSONString(s string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// Partition splits store into ceil(N/batchSize) chunks. Chunk i holds
// positions i*batchSize+1 through min(N, (i+1)*batchSize). An empty store
// yields no chunks.
func Partition(store *subtitles.Store, batchSize int) ([]Chunk, error) {
	if batchSize <= 0 {
		return nil, fmt.Errorf("batch size must be positive, got %d", batchSize)
	}
	texts := store.Texts()
	if len(texts) == 0 {
		return nil, nil
	}

	chunks := make([]Chunk, 0, (len(texts)+batchSize-1)/batchSize)
	for start := 0; start < len(texts); start += batchSize {
		end := min(start+batchSize, len(texts))
		entries := make([]Entry, 0, end-start)
		for _, t := range texts[start:end] {
			entries = append(entries, Entry{Key: t.Key, Text: t.Text})
		}
		chunks = append(chunks, Chunk{Index: len(chunks) + 1, Entries: entries})
	}
	return chunks, nil
}
