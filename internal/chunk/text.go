package chunk

import (
	"fmt"
	"strings"
)

// ChunkPlainText splits unstructured text on blank-line-delimited
// paragraphs, one chunk per non-empty paragraph. Sections are numbered
// sequentially starting at 1.
func ChunkPlainText(text string, opts Options) []Chunk {
	var chunks []Chunk
	n := 0
	for _, para := range strings.Split(text, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		n++
		chunks = append(chunks, Chunk{
			Section: fmt.Sprintf("Section %d", n),
			Text:    truncate(para, opts.MaxChunkChars),
		})
	}
	return chunks
}
