package translation

import (
	"encoding/json"
	"strconv"
	"strings"
	"testing"

	"subtrans/internal/subtitles"
)

func TestPartitionSizes(t *testing.T) {
	tests := []struct {
		n, batch int
		want     []int
	}{
		{0, 10, nil},
		{1, 10, []int{1}},
		{10, 10, []int{10}},
		{11, 10, []int{10, 1}},
		{25, 10, []int{10, 10, 5}},
		{7, 3, []int{3, 3, 1}},
	}
	for _, tt := range tests {
		chunks, err := Partition(buildStore(t, tt.n), tt.batch)
		if err != nil {
			t.Fatalf("Partition(%d, %d): %v", tt.n, tt.batch, err)
		}
		if len(chunks) != len(tt.want) {
			t.Fatalf("Partition(%d, %d) = %d chunks, want %d", tt.n, tt.batch, len(chunks), len(tt.want))
		}
		next := 1
		for i, chunk := range chunks {
			if chunk.Index != i+1 || chunk.Len() != tt.want[i] {
				t.Fatalf("chunk %d: index=%d len=%d, want len %d", i, chunk.Index, chunk.Len(), tt.want[i])
			}
			for _, key := range chunk.Keys() {
				if key != strconv.Itoa(next) {
					t.Fatalf("chunk %d key %q out of order, want %d", i, key, next)
				}
				next++
			}
		}
		if next != tt.n+1 {
			t.Fatalf("covered %d positions, want %d", next-1, tt.n)
		}
	}
}

func TestPartitionRejectsBadBatchSize(t *testing.T) {
	if _, err := Partition(buildStore(t, 3), 0); err == nil {
		t.Fatal("expected error for zero batch size")
	}
}

func TestChunkPayloadKeepsOrderAndText(t *testing.T) {
	chunk := Chunk{Index: 1, Entries: []Entry{
		{Key: "9", Text: "<b>Tom & Jerry</b>"},
		{Key: "10", Text: "他说 \"你好\""},
		{Key: "11", Text: "11"},
	}}
	payload, err := chunk.Payload()
	if err != nil {
		t.Fatalf("Payload: %v", err)
	}
	want := `{"9": "<b>Tom & Jerry</b>", "10": "他说 \"你好\"", "11": "11"}`
	if payload != want {
		t.Fatalf("payload = %s\nwant      %s", payload, want)
	}

	var decoded map[string]string
	if err := json.Unmarshal([]byte(payload), &decoded); err != nil {
		t.Fatalf("payload is not valid JSON: %v", err)
	}
	if decoded["10"] != `他说 "你好"` {
		t.Fatalf("decoded text = %q", decoded["10"])
	}
}

func TestParseBatchResponseCoercesValues(t *testing.T) {
	raw := "```json\n{\"1\": \"一\", \"2\": 42, \"3\": 1.50, \"4\": true, \"5\": null,}\n```"
	got, err := parseBatchResponse(raw)
	if err != nil {
		t.Fatalf("parseBatchResponse: %v", err)
	}
	want := map[string]string{"1": "一", "2": "42", "3": "1.50", "4": "true", "5": ""}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("key %s = %q, want %q", k, got[k], v)
		}
	}

	for _, bad := range []string{"", "null", `["a","b"]`, "no json here"} {
		if _, err := parseBatchResponse(bad); err == nil {
			t.Errorf("parseBatchResponse(%q) should fail", bad)
		}
	}
}

func TestBuildPromptsSubstitutesKnownPlaceholders(t *testing.T) {
	prompts := BuildPrompts("简体中文", "Use a casual tone.")
	if !strings.Contains(prompts.Batch, "into 简体中文") || !strings.HasSuffix(prompts.Batch, "Use a casual tone.") {
		t.Fatalf("unexpected batch prompt: %q", prompts.Batch)
	}
	if !strings.Contains(prompts.Single, "into 简体中文") {
		t.Fatalf("unexpected single prompt: %q", prompts.Single)
	}
	if strings.Contains(prompts.Batch, "${") || strings.Contains(prompts.Single, "${") {
		t.Fatal("placeholders left in prompts")
	}

	got := expandTemplate("${known} and ${unknown} and $plain", map[string]string{"known": "x"})
	if got != "x and ${unknown} and $plain" {
		t.Fatalf("expandTemplate = %q", got)
	}
}

func TestReassembleResolvesEveryPosition(t *testing.T) {
	store := buildStore(t, 4)
	results := map[string]subtitles.Translation{
		"1": subtitles.Translated("one"),
		"2": subtitles.Failed(),
		"4": subtitles.Translated("four"),
		"9": subtitles.Translated("stray"),
	}
	out, degraded, err := Reassemble(store, results)
	if err != nil {
		t.Fatalf("Reassemble: %v", err)
	}
	if degraded != 2 {
		t.Fatalf("degraded = %d, want 2", degraded)
	}
	want := []string{"one", "line 2", "line 3", "four"}
	for i, seg := range out.Segments() {
		if seg.Translation.State() != subtitles.TranslationOk || seg.TranslatedText() != want[i] {
			t.Fatalf("position %d = %v %q, want %q", seg.Position, seg.Translation.State(), seg.TranslatedText(), want[i])
		}
	}
	if out.Len() != store.Len() {
		t.Fatalf("length changed: %d -> %d", store.Len(), out.Len())
	}
}
