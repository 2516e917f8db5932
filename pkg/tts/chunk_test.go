package tts

import (
	"errors"
	"strings"
	"testing"
)

func TestSplitRawRoundTrip(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		maxChars int
		want     int // expected chunk count
	}{
		{name: "Empty", text: "", maxChars: 5, want: 0},
		{name: "ShorterThanLimit", text: "hi", maxChars: 5, want: 1},
		{name: "ExactMultiple", text: "aaaaabbbbb", maxChars: 5, want: 2},
		{name: "Remainder", text: "aaaaabbbbbcc", maxChars: 5, want: 3},
		{name: "Multibyte", text: "నమస్కారం ప్రపంచం", maxChars: 4, want: 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunks := SplitRaw(tt.text, tt.maxChars)
			if len(chunks) != tt.want {
				t.Fatalf("got %d chunks, want %d: %q", len(chunks), tt.want, chunks)
			}
			if strings.Join(chunks, "") != tt.text {
				t.Errorf("round trip failed: %q", chunks)
			}
			for i, c := range chunks {
				if n := len([]rune(c)); n > tt.maxChars {
					t.Errorf("chunk %d has %d runes, limit %d", i, n, tt.maxChars)
				}
			}
		})
	}
}

func TestSplitWords(t *testing.T) {
	chunks, err := SplitWords("the quick brown fox jumps", 10, 0)
	if err != nil {
		t.Fatalf("SplitWords failed: %v", err)
	}
	// "the quick" (9), "brown fox" (9), "jumps"
	if len(chunks) != 3 {
		t.Fatalf("got %d chunks: %q", len(chunks), chunks)
	}
	for i, c := range chunks {
		if n := len([]rune(c)); n > 10 {
			t.Errorf("chunk %d has %d runes: %q", i, n, c)
		}
	}
	if got := strings.Join(chunks, " "); got != "the quick brown fox jumps" {
		t.Errorf("space join round trip failed: %q", got)
	}
}

func TestSplitWordsEmpty(t *testing.T) {
	for _, text := range []string{"", "   ", "\n\t "} {
		chunks, err := SplitWords(text, 10, 100)
		if err != nil {
			t.Fatalf("SplitWords(%q) failed: %v", text, err)
		}
		if len(chunks) != 0 {
			t.Errorf("SplitWords(%q) = %q, want no chunks", text, chunks)
		}
	}
}

func TestSplitWordsNonPositiveMaxChars(t *testing.T) {
	// Matches SplitRaw: a degenerate limit yields no chunks, not a panic.
	for _, maxChars := range []int{0, -1} {
		chunks, err := SplitWords("a b c", maxChars, 100)
		if err != nil {
			t.Fatalf("SplitWords(maxChars=%d) failed: %v", maxChars, err)
		}
		if len(chunks) != 0 {
			t.Errorf("SplitWords(maxChars=%d) = %q, want no chunks", maxChars, chunks)
		}
	}
}

func TestSplitWordsCeiling(t *testing.T) {
	atLimit := strings.Repeat("word ", 1500)
	if _, err := SplitWords(atLimit, 500, 1500); err != nil {
		t.Errorf("1500 words should pass the ceiling, got %v", err)
	}

	overLimit := strings.Repeat("word ", 1501)
	_, err := SplitWords(overLimit, 500, 1500)
	if err == nil {
		t.Fatal("1501 words should fail the ceiling")
	}
	var tle *TextTooLongError
	if !errors.As(err, &tle) {
		t.Fatalf("expected TextTooLongError, got %T", err)
	}
	if tle.Words != 1501 || tle.Limit != 1500 {
		t.Errorf("error = %+v", tle)
	}
}

func TestSplitWordsOversizedWord(t *testing.T) {
	chunks, err := SplitWords("ok "+strings.Repeat("x", 12)+" done", 5, 0)
	if err != nil {
		t.Fatalf("SplitWords failed: %v", err)
	}
	for i, c := range chunks {
		if n := len([]rune(c)); n > 5 {
			t.Errorf("chunk %d has %d runes: %q", i, n, c)
		}
	}
	if got := strings.Join(chunks, ""); !strings.Contains(got, strings.Repeat("x", 12)) {
		t.Errorf("oversized word lost: %q", chunks)
	}
}

func TestBatchChunks(t *testing.T) {
	tests := []struct {
		name        string
		chunks      []string
		size        int
		wantBatches int
	}{
		{name: "Empty", chunks: nil, size: 3, wantBatches: 0},
		{name: "UnderOneBatch", chunks: []string{"a", "b"}, size: 3, wantBatches: 1},
		{name: "ExactBatches", chunks: []string{"a", "b", "c", "d", "e", "f"}, size: 3, wantBatches: 2},
		{name: "Remainder", chunks: []string{"a", "b", "c", "d"}, size: 3, wantBatches: 2},
		{name: "SizeOne", chunks: []string{"a", "b"}, size: 1, wantBatches: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			batches := BatchChunks(tt.chunks, tt.size)
			if len(batches) != tt.wantBatches {
				t.Fatalf("got %d batches, want %d", len(batches), tt.wantBatches)
			}

			// Flattening reproduces the input in order
			var flat []string
			for i, b := range batches {
				if len(b) > tt.size {
					t.Errorf("batch %d has %d elements, limit %d", i, len(b), tt.size)
				}
				if i < len(batches)-1 && len(b) != tt.size {
					t.Errorf("only the last batch may be short; batch %d has %d", i, len(b))
				}
				flat = append(flat, b...)
			}
			if len(flat) != len(tt.chunks) {
				t.Fatalf("flatten lost chunks: %d vs %d", len(flat), len(tt.chunks))
			}
			for i := range flat {
				if flat[i] != tt.chunks[i] {
					t.Errorf("order broken at %d: %q vs %q", i, flat[i], tt.chunks[i])
				}
			}
		})
	}
}
