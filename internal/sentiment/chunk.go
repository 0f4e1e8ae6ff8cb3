package sentiment

import (
	"strings"
	"unicode/utf8"
)

// Chunk is one word-bounded window of a transcript. Windows overlap so a
// sentence cut at one boundary is still seen whole by its neighbour.
type Chunk struct {
	Index     int
	StartWord int
	EndWord   int
	Text      string
}

// SplitChunks cuts text into windows of size words, each starting
// size-overlap words after the previous one. The last window always ends
// at the final word. Windows whose text is shorter than minChars
// characters are dropped; Index keeps the window's original position.
func SplitChunks(text string, size, overlap, minChars int) []Chunk {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	if size <= 0 {
		size = DefaultChunkSize
	}
	if overlap < 0 || overlap >= size {
		overlap = 0
	}
	step := size - overlap

	var chunks []Chunk
	for index, start := 0, 0; ; index, start = index+1, start+step {
		end := min(start+size, len(words))
		chunkText := strings.Join(words[start:end], " ")
		if utf8.RuneCountInString(chunkText) >= minChars {
			chunks = append(chunks, Chunk{
				Index:     index,
				StartWord: start,
				EndWord:   end,
				Text:      chunkText,
			})
		}
		if end == len(words) {
			break
		}
	}
	return chunks
}
