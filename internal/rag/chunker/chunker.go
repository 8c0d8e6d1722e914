package chunker

import (
	"errors"
	"strings"

	"github.com/spevenexe/S25-NLP-project/internal/domain/commonModels"
)

var ErrInvalidChunkParams = errors.New("chunk size must be positive and overlap must be in [0, size)")

// Separators ordered from "best" to "worst" for semantic meaning
var separators = [][]rune{[]rune("\n\n"), []rune("\n"), []rune(". "), []rune(" ")}

// Split cuts text into windows of at most size runes. Consecutive chunks share exactly overlap runes.
// Within each window the cut goes after the best separator found in the second half of the window,
// else the window is cut hard at size.
func Split(text string, size int, overlap int) ([]commonModels.Chunk, error) {
	if size <= 0 || overlap < 0 || overlap >= size {
		return nil, ErrInvalidChunkParams
	}
	chunks := make([]commonModels.Chunk, 0)
	if strings.TrimSpace(text) == "" {
		return chunks, nil
	}

	runes := []rune(text)
	start := 0
	for {
		end := start + size
		if end >= len(runes) {
			chunks = append(chunks, commonModels.Chunk{SequenceIndex: len(chunks), Text: string(runes[start:])})
			return chunks, nil
		}
		end = cutPoint(runes, start, end, overlap)
		chunks = append(chunks, commonModels.Chunk{SequenceIndex: len(chunks), Text: string(runes[start:end])})
		start = end - overlap
	}
}

// cutPoint never returns a value <= start+overlap so the next window always moves forward.
func cutPoint(runes []rune, start int, end int, overlap int) int {
	lowest := max(start+overlap+1, start+(end-start)/2)
	for _, sep := range separators {
		if idx := lastIndex(runes[start:end], sep); idx >= 0 {
			cut := start + idx + len(sep)
			if cut >= lowest {
				return cut
			}
		}
	}
	return end
}

func lastIndex(haystack []rune, needle []rune) int {
	for i := len(haystack) - len(needle); i >= 0; i-- {
		match := true
		for j := range needle {
			if haystack[i+j] != needle[j] {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}
