// Package linker rewrites free-form summary or nugget text into an
// annotated span representation: literal text spans interleaved with
// reference spans carrying a transcript anchor id. Rendering is left to
// the caller, so no markup is ever injected into the text itself.
package linker

import "strings"

// NoAnchor is the sentinel the pipeline emits for a citation that could
// not be tied to a transcript segment.
const NoAnchor = "None"

// Fragment pairs a literal citation substring with its target anchor id.
type Fragment struct {
	Text   string
	Anchor string
}

// Span is a run of literal text. Anchor is empty for plain text and holds
// the target anchor id for a citation reference.
type Span struct {
	Text   string
	Anchor string
}

// Line is one newline-delimited line of annotated text.
type Line []Span

// Result is the annotated form of one text. Linked counts the fragments
// that actually resolved; the rest degraded to plain text.
type Result struct {
	Lines  []Line
	Linked int
}

// Linkable reports whether a fragment can produce a reference at all:
// non-empty literal, a real anchor id, and (when a registry is supplied)
// an anchor that is actually addressable.
func (f Fragment) Linkable(known map[string]bool) bool {
	if f.Text == "" || f.Anchor == "" || f.Anchor == NoAnchor {
		return false
	}
	if known != nil && !known[f.Anchor] {
		return false
	}
	return true
}

// Resolve links citation fragments into text. Fragments are processed in
// the order supplied; each links only the first literal occurrence of its
// text among the still-plain spans, and a fragment whose literal does not
// occur is skipped silently. Resolve never fails: worst case the whole
// text comes back as plain spans. Newlines split the output into lines,
// one Line per input line.
func Resolve(text string, frags []Fragment, known map[string]bool) Result {
	spans := []Span{{Text: text}}
	linked := 0

	for _, frag := range frags {
		if !frag.Linkable(known) {
			continue
		}
		if next, ok := linkFirst(spans, frag); ok {
			spans = next
			linked++
		}
	}

	return Result{Lines: splitLines(spans), Linked: linked}
}

// ResolveInline links a single fragment written inline in parentheses,
// as nugget text carries it: "... (Page 4, Line 12) ...". Only the
// fragment itself becomes a reference; the parentheses stay plain. Same
// first-occurrence, skip-on-miss semantics as Resolve.
func ResolveInline(text, fragment, anchor string, known map[string]bool) Result {
	frag := Fragment{Text: fragment, Anchor: anchor}
	spans := []Span{{Text: text}}
	linked := 0

	if frag.Linkable(known) {
		if idx := strings.Index(text, "("+fragment+")"); idx >= 0 {
			spans = []Span{
				{Text: text[:idx+1]},
				{Text: fragment, Anchor: anchor},
				{Text: text[idx+1+len(fragment):]},
			}
			linked = 1
		}
	}

	return Result{Lines: splitLines(spans), Linked: linked}
}

// linkFirst replaces the first literal occurrence of frag.Text inside a
// plain span with a reference span. Reference spans are never split again,
// so earlier links cannot be corrupted by later fragments.
func linkFirst(spans []Span, frag Fragment) ([]Span, bool) {
	for i, s := range spans {
		if s.Anchor != "" {
			continue
		}
		idx := strings.Index(s.Text, frag.Text)
		if idx < 0 {
			continue
		}

		out := make([]Span, 0, len(spans)+2)
		out = append(out, spans[:i]...)
		if idx > 0 {
			out = append(out, Span{Text: s.Text[:idx]})
		}
		out = append(out, Span{Text: frag.Text, Anchor: frag.Anchor})
		if rest := s.Text[idx+len(frag.Text):]; rest != "" {
			out = append(out, Span{Text: rest})
		}
		out = append(out, spans[i+1:]...)
		return out, true
	}
	return spans, false
}

// splitLines cuts the span list at newline characters. The empty text
// still yields one (empty) line, so line counts always match the input.
func splitLines(spans []Span) []Line {
	lines := []Line{{}}
	for _, s := range spans {
		parts := strings.Split(s.Text, "\n")
		for pi, part := range parts {
			if pi > 0 {
				lines = append(lines, Line{})
			}
			if part == "" {
				continue
			}
			cur := len(lines) - 1
			lines[cur] = append(lines[cur], Span{Text: part, Anchor: s.Anchor})
		}
	}
	return lines
}
