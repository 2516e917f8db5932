package tts

import "strings"

// Chunking strategy names as used in configuration.
const (
	StrategyWords = "words"
	StrategyRaw   = "raw"
)

// SplitRaw splits text into chunks of at most maxChars runes, cutting
// regardless of word boundaries. Concatenating the chunks in order
// reproduces the input exactly. Empty input yields no chunks.
func SplitRaw(text string, maxChars int) []string {
	if text == "" || maxChars <= 0 {
		return nil
	}

	runes := []rune(text)
	chunks := make([]string, 0, (len(runes)+maxChars-1)/maxChars)
	for start := 0; start < len(runes); start += maxChars {
		end := start + maxChars
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[start:end]))
	}
	return chunks
}

// SplitWords splits text at word boundaries: whitespace-delimited words are
// accumulated until adding the next word would push a chunk past maxChars
// runes, counting the joining spaces. Words inside a chunk are joined with
// single spaces, so concatenation reproduces the input up to whitespace.
// Input above maxWords words fails with TextTooLongError before any
// splitting happens; a single word longer than maxChars is cut raw.
// Empty or all-whitespace input, like a non-positive maxChars, yields no
// chunks.
func SplitWords(text string, maxChars, maxWords int) ([]string, error) {
	if maxChars <= 0 {
		return nil, nil
	}

	words := strings.Fields(text)
	if len(words) == 0 {
		return nil, nil
	}
	if maxWords > 0 && len(words) > maxWords {
		return nil, &TextTooLongError{Words: len(words), Limit: maxWords}
	}

	var chunks []string
	var current []rune
	for _, word := range words {
		w := []rune(word)

		if len(w) > maxChars {
			if len(current) > 0 {
				chunks = append(chunks, string(current))
				current = nil
			}
			chunks = append(chunks, SplitRaw(word, maxChars)...)
			// Re-open the last oversized piece so following words can join it
			last := []rune(chunks[len(chunks)-1])
			if len(last) < maxChars {
				current = last
				chunks = chunks[:len(chunks)-1]
			}
			continue
		}

		switch {
		case len(current) == 0:
			current = w
		case len(current)+1+len(w) > maxChars:
			chunks = append(chunks, string(current))
			current = w
		default:
			current = append(current, ' ')
			current = append(current, w...)
		}
	}
	if len(current) > 0 {
		chunks = append(chunks, string(current))
	}
	return chunks, nil
}

// BatchChunks partitions chunks into contiguous groups of at most size
// elements, preserving order. The last group may be smaller. No chunk is
// dropped or duplicated.
func BatchChunks(chunks []string, size int) [][]string {
	if len(chunks) == 0 || size <= 0 {
		return nil
	}

	batches := make([][]string, 0, (len(chunks)+size-1)/size)
	for start := 0; start < len(chunks); start += size {
		end := start + size
		if end > len(chunks) {
			end = len(chunks)
		}
		batches = append(batches, chunks[start:end])
	}
	return batches
}
