package chunk

import "strings"

// ChunkMarkdown splits markdown content at header lines. Segments
// shorter than MinSectionChars are discarded, unless nothing survives,
// in which case the whole trimmed document becomes a single fallback
// chunk. Returned chunks carry Section labels from their leading
// header; Ordinal and ID are assigned later by the Chunker.
func ChunkMarkdown(text string, opts Options) []Chunk {
	segments := splitAtHeaders(text)

	var chunks []Chunk
	for _, seg := range segments {
		seg = strings.TrimSpace(seg)
		if len(seg) < opts.MinSectionChars {
			continue
		}
		chunks = append(chunks, Chunk{
			Section: headerTitle(seg),
			Text:    truncate(seg, opts.MaxChunkChars),
		})
	}

	if len(chunks) == 0 {
		whole := strings.TrimSpace(text)
		if whole == "" {
			return nil
		}
		chunks = []Chunk{{
			Section: headerTitle(whole),
			Text:    truncate(whole, opts.MaxChunkChars),
		}}
	}
	return chunks
}

// splitAtHeaders breaks text into segments, each starting at a line of
// the form "#... title". Content before the first header forms its own
// segment.
func splitAtHeaders(text string) []string {
	lines := strings.Split(text, "\n")

	var segments []string
	var current []string
	flush := func() {
		if len(current) > 0 {
			segments = append(segments, strings.Join(current, "\n"))
			current = nil
		}
	}

	for _, line := range lines {
		if isHeaderLine(line) {
			flush()
		}
		current = append(current, line)
	}
	flush()
	return segments
}

func isHeaderLine(line string) bool {
	i := 0
	for i < len(line) && line[i] == '#' {
		i++
	}
	if i == 0 || i >= len(line) {
		return false
	}
	return line[i] == ' ' || line[i] == '\t'
}

// headerTitle returns the first header's title in a segment, or a
// generic label when the segment has no header.
func headerTitle(seg string) string {
	line, _, _ := strings.Cut(seg, "\n")
	if !isHeaderLine(line) {
		return "Document"
	}
	return strings.TrimSpace(strings.TrimLeft(line, "#"))
}
