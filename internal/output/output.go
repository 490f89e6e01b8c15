// Package output renders CLI results, styled on a terminal and plain
// everywhere else.
package output

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/promptops/kbindex/internal/chunk"
	"github.com/promptops/kbindex/internal/search"
	"github.com/promptops/kbindex/internal/telemetry"
)

// Color palette, 256-color codes.
const (
	colorAccent = "39"  // blue accent for scores and headers
	colorGray   = "245" // secondary text
	colorYellow = "220" // warnings
)

// Styles holds the renderer's lipgloss styles.
type Styles struct {
	Header  lipgloss.Style
	Score   lipgloss.Style
	Source  lipgloss.Style
	Dim     lipgloss.Style
	Warning lipgloss.Style
}

// DefaultStyles returns the styled palette.
func DefaultStyles() Styles {
	return Styles{
		Header:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(colorAccent)),
		Score:   lipgloss.NewStyle().Foreground(lipgloss.Color(colorAccent)),
		Source:  lipgloss.NewStyle().Bold(true),
		Dim:     lipgloss.NewStyle().Foreground(lipgloss.Color(colorGray)),
		Warning: lipgloss.NewStyle().Foreground(lipgloss.Color(colorYellow)),
	}
}

// PlainStyles returns unstyled passthroughs for pipes and CI.
func PlainStyles() Styles {
	plain := lipgloss.NewStyle()
	return Styles{Header: plain, Score: plain, Source: plain, Dim: plain, Warning: plain}
}

// Renderer writes human-readable output.
type Renderer struct {
	w      io.Writer
	styles Styles
}

// NewRenderer picks styled or plain output for w. NO_COLOR always
// forces plain.
func NewRenderer(w io.Writer) *Renderer {
	if IsTTY(w) && !noColor() {
		return &Renderer{w: w, styles: DefaultStyles()}
	}
	return &Renderer{w: w, styles: PlainStyles()}
}

// IsTTY checks whether w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func noColor() bool {
	_, exists := os.LookupEnv("NO_COLOR")
	return exists
}

// Hits renders ranked results, one block per hit.
func (r *Renderer) Hits(hits []search.Hit) {
	if len(hits) == 0 {
		fmt.Fprintln(r.w, r.styles.Warning.Render("no results"))
		return
	}
	for i, h := range hits {
		fmt.Fprintf(r.w, "%s %s %s\n",
			r.styles.Score.Render(fmt.Sprintf("%2d. %.4f", i+1, h.Score)),
			r.styles.Source.Render(h.Chunk.SourcePath),
			r.styles.Dim.Render(fmt.Sprintf("(%s, %s)", h.Chunk.Kind, h.Chunk.Section)))
		fmt.Fprintf(r.w, "    %s\n", r.styles.Dim.Render(excerpt(h.Chunk.Text, 160)))
	}
}

// BuildSummary renders post-build statistics.
func (r *Renderer) BuildSummary(files, chunks, terms int) {
	fmt.Fprintln(r.w, r.styles.Header.Render("index built"))
	fmt.Fprintf(r.w, "  files:  %d\n", files)
	fmt.Fprintf(r.w, "  chunks: %d\n", chunks)
	fmt.Fprintf(r.w, "  terms:  %d\n", terms)
}

// KindCounts renders chunk counts by kind, alphabetically.
func (r *Renderer) KindCounts(counts map[chunk.Kind]int) {
	if len(counts) == 0 {
		return
	}
	kinds := make([]string, 0, len(counts))
	for k := range counts {
		kinds = append(kinds, string(k))
	}
	sort.Strings(kinds)

	fmt.Fprintln(r.w, r.styles.Header.Render("chunks by kind"))
	for _, k := range kinds {
		fmt.Fprintf(r.w, "  %-10s %d\n", k, counts[chunk.Kind(k)])
	}
}

// UsageSummary renders telemetry statistics.
func (r *Renderer) UsageSummary(sum telemetry.Summary, topTerms []telemetry.TermCount) {
	fmt.Fprintln(r.w, r.styles.Header.Render("query usage"))
	fmt.Fprintf(r.w, "  queries:      %d\n", sum.TotalQueries)
	fmt.Fprintf(r.w, "  cache hits:   %d\n", sum.CacheHits)
	fmt.Fprintf(r.w, "  zero results: %d\n", sum.ZeroResults)
	if len(topTerms) > 0 {
		fmt.Fprintln(r.w, r.styles.Header.Render("top terms"))
		for _, tc := range topTerms {
			fmt.Fprintf(r.w, "  %-24s %d\n", tc.Term, tc.Count)
		}
	}
}

// excerpt flattens text to one line and bounds its length.
func excerpt(text string, max int) string {
	flat := strings.Join(strings.Fields(text), " ")
	if len(flat) > max {
		cut := max
		for cut > 0 && !utf8.RuneStart(flat[cut]) {
			cut--
		}
		flat = flat[:cut] + "…"
	}
	return flat
}
