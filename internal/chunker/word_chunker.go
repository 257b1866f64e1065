package chunker

import (
	"strings"

	"docqa/internal/domain"
)

// DefaultMaxWords is the window size used when none is configured.
const DefaultMaxWords = 150

// WordChunker splits text into consecutive, non-overlapping windows of words.
// Only the last window of a document may be shorter than maxWords.
type WordChunker struct {
	maxWords int
}

func NewWordChunker(maxWords int) *WordChunker {
	if maxWords <= 0 {
		maxWords = DefaultMaxWords
	}
	return &WordChunker{maxWords: maxWords}
}

// MaxWords returns the configured window size.
func (c *WordChunker) MaxWords() int { return c.maxWords }

func (c *WordChunker) Chunk(document domain.Document) ([]domain.Chunk, error) {
	windows := SplitWords(document.Content, c.maxWords)
	if len(windows) == 0 {
		return nil, nil
	}
	chunks := make([]domain.Chunk, 0, len(windows))
	for idx, text := range windows {
		chunks = append(chunks, domain.Chunk{
			Source: document.Name,
			Index:  idx,
			Text:   text,
		})
	}
	return chunks, nil
}

// SplitWords groups the whitespace-separated words of text into windows of at
// most maxWords words, each joined by a single space.
func SplitWords(text string, maxWords int) []string {
	if maxWords <= 0 {
		maxWords = DefaultMaxWords
	}
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	out := make([]string, 0, (len(words)+maxWords-1)/maxWords)
	for i := 0; i < len(words); i += maxWords {
		end := min(i+maxWords, len(words))
		out = append(out, strings.Join(words[i:end], " "))
	}
	return out
}
