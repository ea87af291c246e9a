package chunk

import (
	"regexp"
	"strings"

	"github.com/poiesic/librank/core"
)

const (
	// DefaultChunkWords is the target chunk size in words.
	DefaultChunkWords = 500
	// DefaultOverlapWords is the number of words carried over from the
	// end of a chunk into the start of the next one.
	DefaultOverlapWords = 80
	// DefaultMinWords is the minimum-content threshold; chunks at or
	// below it are treated as non-informative and discarded.
	DefaultMinWords = 40
)

// Chunker splits normalized text into overlapping word-bounded chunks.
// Sentences are never split: a chunk closes when appending the next
// sentence would exceed the target word count, and the next chunk is
// seeded with the tail words of the one just closed.
type Chunker struct {
	chunkWords int
	overlap    int
	minWords   int
	splitter   *regexp.Regexp
}

// NewChunker creates a chunker. Non-positive arguments fall back to the
// package defaults; a negative minimum falls back as well.
func NewChunker(chunkWords, overlap, minWords int) *Chunker {
	if chunkWords <= 0 {
		chunkWords = DefaultChunkWords
	}
	if overlap < 0 {
		overlap = DefaultOverlapWords
	}
	if minWords < 0 {
		minWords = DefaultMinWords
	}
	return &Chunker{
		chunkWords: chunkWords,
		overlap:    overlap,
		minWords:   minWords,
		splitter:   regexp.MustCompile(`(?m)(?U)[^.!?]+[.!?]`),
	}
}

// Chunk splits the document's normalized text into retained chunks, in
// document order. Retained chunks always have a word count strictly
// greater than the minimum-content threshold; the final buffer is
// flushed regardless of target size but is still subject to that
// threshold. A single sentence longer than the target is emitted as its
// own oversized chunk rather than split mid-sentence.
func (c *Chunker) Chunk(doc core.Document) []core.Chunk {
	sentences := c.sentences(doc.Text)

	var chunks []core.Chunk
	var buf []string
	bufWords := 0

	flush := func() {
		text := strings.Join(buf, " ")
		words := len(strings.Fields(text))
		if words > c.minWords {
			chunks = append(chunks, core.Chunk{
				Document: doc.Name,
				Text:     text,
				Words:    words,
			})
		}
	}

	for _, s := range sentences {
		w := len(strings.Fields(s))
		if bufWords+w <= c.chunkWords {
			buf = append(buf, s)
			bufWords += w
			continue
		}

		// Close the current buffer and seed the next one with the
		// overlap tail plus the sentence that triggered the overflow.
		closed := strings.Join(buf, " ")
		flush()

		tail := lastWords(closed, c.overlap)
		buf = buf[:0]
		tailWords := 0
		if tail != "" {
			buf = append(buf, tail)
			tailWords = len(strings.Fields(tail))
		}
		buf = append(buf, s)
		bufWords = tailWords + w
	}

	if len(buf) > 0 {
		flush()
	}

	return chunks
}

// sentences segments text into sentence units. Text after the last
// terminal punctuation mark is kept as a trailing unit.
func (c *Chunker) sentences(text string) []string {
	matches := c.splitter.FindAllStringIndex(text, -1)
	if len(matches) == 0 {
		trimmed := strings.TrimSpace(text)
		if trimmed == "" {
			return nil
		}
		return []string{trimmed}
	}

	sentences := make([]string, 0, len(matches)+1)
	end := 0
	for _, m := range matches {
		s := strings.TrimSpace(text[m[0]:m[1]])
		if s != "" {
			sentences = append(sentences, s)
		}
		end = m[1]
	}
	if rest := strings.TrimSpace(text[end:]); rest != "" {
		sentences = append(sentences, rest)
	}
	return sentences
}

// lastWords returns the last n words of text joined by single spaces.
func lastWords(text string, n int) string {
	words := strings.Fields(text)
	if len(words) > n {
		words = words[len(words)-n:]
	}
	return strings.Join(words, " ")
}
