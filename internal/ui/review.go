package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/casemark/depo-review/internal/annotation"
	"github.com/casemark/depo-review/internal/linker"
	"github.com/casemark/depo-review/internal/transcript"
)

// Pane identifies which review pane has focus
type Pane int

const (
	PaneTranscript Pane = iota
	PaneSummary
)

// ReviewView renders the side-by-side transcript and summary panes and
// owns anchor navigation between them.
type ReviewView struct {
	styles Styles
	width  int
	height int

	segments  []transcript.Segment
	groups    []transcript.SegmentGroup
	citations []annotation.Citation
	summary   linker.Result
	stats     string

	transcriptVP viewport.Model
	summaryVP    viewport.Model
	nav          *Navigator

	focus Pane

	// Cited passages in transcript order, for n/p cycling
	citedAnchors   []string
	citedLabels    []string
	citationCursor int

	// Linked spans in summary order, for n/p cycling on the summary side
	summaryLinks []string
	linkCursor   int
}

func NewReviewView(width, height int, styles Styles) *ReviewView {
	rv := &ReviewView{
		styles: styles,
		nav:    NewNavigator(),
	}
	rv.SetSize(width, height)
	return rv
}

func (rv *ReviewView) SetSize(width, height int) {
	rv.width = width
	rv.height = height

	paneWidth := width/2 - 3
	if paneWidth < 20 {
		paneWidth = 20
	}
	// Reserve header(1) + pane titles(1) + stats(1) + footer(2)
	paneHeight := height - 7
	if paneHeight < 5 {
		paneHeight = 5
	}

	rv.transcriptVP = viewport.New(paneWidth, paneHeight)
	rv.summaryVP = viewport.New(paneWidth, paneHeight)
	rv.render()
}

func (rv *ReviewView) SetStyles(styles Styles) {
	rv.styles = styles
	rv.render()
}

// SetContent loads a processed result into the view. The transcript is
// grouped and rendered first so the summary resolver can see which
// anchors exist.
func (rv *ReviewView) SetContent(segments []transcript.Segment, frags []linker.Fragment, summaryText string, citations []annotation.Citation, summaryLength int) {
	rv.segments = segments
	rv.groups = transcript.Group(segments)
	rv.citations = citations
	rv.citationCursor = 0
	rv.linkCursor = 0

	rv.nav.Reset()
	rv.renderTranscript()

	rv.summary = linker.Resolve(summaryText, frags, rv.nav.Known())
	rv.collectSummaryLinks()

	rv.citedAnchors = nil
	rv.citedLabels = nil
	for _, seg := range rv.segments {
		if seg.Cited {
			rv.citedAnchors = append(rv.citedAnchors, transcript.AnchorFor(seg))
			rv.citedLabels = append(rv.citedLabels, seg.CitationLabel)
		}
	}

	rv.stats = fmt.Sprintf("%d chars · %d citations · %d linked",
		summaryLength, len(rv.citedAnchors), rv.summary.Linked)

	rv.render()
}

// NuggetItem is one extracted fact with its inline citation fragment.
type NuggetItem struct {
	Text     string
	Fragment string
	Anchor   string
}

// SetNuggetContent loads a standalone deposition's nuggets. Each nugget
// resolves its own inline "(fragment)" citation against the transcript.
func (rv *ReviewView) SetNuggetContent(segments []transcript.Segment, nuggets []NuggetItem) {
	rv.segments = segments
	rv.groups = transcript.Group(segments)
	rv.citations = nil
	rv.citationCursor = 0
	rv.linkCursor = 0

	rv.nav.Reset()
	rv.renderTranscript()
	known := rv.nav.Known()

	rv.summary = linker.Result{}
	for i, n := range nuggets {
		resolved := linker.ResolveInline(n.Text, n.Fragment, n.Anchor, known)
		if i > 0 {
			rv.summary.Lines = append(rv.summary.Lines, linker.Line{})
		}
		rv.summary.Lines = append(rv.summary.Lines, resolved.Lines...)
		rv.summary.Linked += resolved.Linked
	}
	rv.collectSummaryLinks()

	rv.citedAnchors = nil
	rv.citedLabels = nil
	for _, seg := range rv.segments {
		if seg.Cited {
			rv.citedAnchors = append(rv.citedAnchors, transcript.AnchorFor(seg))
			rv.citedLabels = append(rv.citedLabels, seg.CitationLabel)
		}
	}

	rv.stats = fmt.Sprintf("%d nuggets · %d linked", len(nuggets), rv.summary.Linked)
	rv.render()
}

// CurrentCitationLabel returns the label of the cited passage under the
// citation cursor.
func (rv *ReviewView) CurrentCitationLabel() string {
	if rv.citationCursor < 0 || rv.citationCursor >= len(rv.citedLabels) {
		return ""
	}
	return rv.citedLabels[rv.citationCursor]
}

// CurrentCitationAnchor returns the anchor id of the cited passage under
// the citation cursor. Anchors are unique per payload, unlike labels.
func (rv *ReviewView) CurrentCitationAnchor() string {
	if rv.citationCursor < 0 || rv.citationCursor >= len(rv.citedAnchors) {
		return ""
	}
	return rv.citedAnchors[rv.citationCursor]
}

func (rv *ReviewView) collectSummaryLinks() {
	rv.summaryLinks = nil
	for _, line := range rv.summary.Lines {
		for _, span := range line {
			if span.Anchor != "" {
				rv.summaryLinks = append(rv.summaryLinks, span.Anchor)
			}
		}
	}
}

// Focus returns which pane currently has focus
func (rv *ReviewView) Focus() Pane {
	return rv.focus
}

// ToggleFocus switches focus between the two panes
func (rv *ReviewView) ToggleFocus() {
	if rv.focus == PaneTranscript {
		rv.focus = PaneSummary
	} else {
		rv.focus = PaneTranscript
	}
}

// Scroll moves the focused pane by delta lines
func (rv *ReviewView) Scroll(delta int) {
	if rv.focus == PaneTranscript {
		rv.transcriptVP.SetYOffset(rv.transcriptVP.YOffset + delta)
	} else {
		rv.summaryVP.SetYOffset(rv.summaryVP.YOffset + delta)
	}
}

// CycleCitation moves the citation cursor and activates the passage it
// lands on. On the summary pane it cycles linked spans instead.
func (rv *ReviewView) CycleCitation(delta int) tea.Cmd {
	if rv.focus == PaneSummary {
		return rv.cycleLink(delta)
	}
	if len(rv.citedAnchors) == 0 {
		return nil
	}
	rv.citationCursor = (rv.citationCursor + delta + len(rv.citedAnchors)) % len(rv.citedAnchors)
	return rv.Activate(rv.citedAnchors[rv.citationCursor])
}

func (rv *ReviewView) cycleLink(delta int) tea.Cmd {
	if len(rv.summaryLinks) == 0 {
		return nil
	}
	rv.linkCursor = (rv.linkCursor + delta + len(rv.summaryLinks)) % len(rv.summaryLinks)
	return rv.Activate(rv.summaryLinks[rv.linkCursor])
}

// ActivateCurrentLink follows the summary link under the cursor.
func (rv *ReviewView) ActivateCurrentLink() tea.Cmd {
	if len(rv.summaryLinks) == 0 {
		return nil
	}
	return rv.Activate(rv.summaryLinks[rv.linkCursor])
}

// Activate scrolls the transcript to an anchor and emphasizes it.
func (rv *ReviewView) Activate(anchor string) tea.Cmd {
	line, cmd, ok := rv.nav.Activate(anchor)
	if !ok {
		return nil
	}
	rv.transcriptVP.SetYOffset(line)
	rv.render()
	return cmd
}

// ExpireEmphasis handles the expiry tick for an activation.
func (rv *ReviewView) ExpireEmphasis(generation int) {
	before := rv.nav.Active()
	rv.nav.Expire(generation)
	if before != rv.nav.Active() {
		rv.render()
	}
}

// CitationCursor returns the index of the current citation among the
// cited passages, in transcript order.
func (rv *ReviewView) CitationCursor() int {
	return rv.citationCursor
}

func (rv *ReviewView) render() {
	rv.renderTranscript()
	rv.renderSummary()
}

// renderTranscript rebuilds the transcript pane content and records the
// rendered line offset of every anchor.
func (rv *ReviewView) renderTranscript() {
	wrapWidth := rv.transcriptVP.Width - 2
	if wrapWidth < 10 {
		wrapWidth = 10
	}

	var lines []string
	lastPage := -1
	active := rv.nav.Active()

	for _, group := range rv.groups {
		if group.Page != lastPage {
			lines = append(lines, rv.styles.PageHeader.Render(fmt.Sprintf("— page %d —", group.Page)))
			lastPage = group.Page
		}
		for _, seg := range group.Segments {
			anchor := transcript.AnchorFor(seg)
			rv.nav.SetAnchorLine(anchor, len(lines))

			style := rv.styles.Normal
			if seg.Cited {
				style = rv.styles.Cited
				label := seg.CitationLabel
				if label != "" {
					lines = append(lines, rv.styles.Highlight.Render("["+label+"]"))
				}
			}
			if anchor == active {
				style = rv.styles.Emphasis
			}
			for _, raw := range wrapText(seg.Text, wrapWidth) {
				lines = append(lines, style.Render(raw))
			}
		}
		lines = append(lines, "")
	}

	rv.transcriptVP.SetContent(strings.Join(lines, "\n"))
}

func (rv *ReviewView) renderSummary() {
	var lines []string
	linkIdx := 0
	for _, line := range rv.summary.Lines {
		var b strings.Builder
		for _, span := range line {
			if span.Anchor == "" {
				b.WriteString(rv.styles.Normal.Render(span.Text))
				continue
			}
			style := rv.styles.Link
			if rv.focus == PaneSummary && linkIdx == rv.linkCursor {
				style = rv.styles.Selected
			}
			b.WriteString(style.Render(span.Text))
			linkIdx++
		}
		lines = append(lines, b.String())
	}
	rv.summaryVP.SetContent(strings.Join(lines, "\n"))
}

// View renders both panes side by side with the stats line below.
func (rv *ReviewView) View() string {
	transcriptTitle := rv.styles.PaneTitle.Render("Transcript")
	summaryTitle := rv.styles.PaneTitle.Render("Summary")

	transcriptBorder := rv.styles.PaneBlur
	summaryBorder := rv.styles.PaneBlur
	if rv.focus == PaneTranscript {
		transcriptBorder = rv.styles.PaneFocus
	} else {
		summaryBorder = rv.styles.PaneFocus
	}

	left := lipgloss.JoinVertical(lipgloss.Left,
		transcriptTitle,
		transcriptBorder.Render(rv.transcriptVP.View()),
	)
	right := lipgloss.JoinVertical(lipgloss.Left,
		summaryTitle,
		summaryBorder.Render(rv.summaryVP.View()),
	)

	panes := lipgloss.JoinHorizontal(lipgloss.Top, left, " ", right)
	statsLine := rv.styles.Help.Render("  " + rv.stats)
	return panes + "\n" + statsLine
}

// wrapText hard-wraps text at width, preserving existing newlines. Empty
// text still yields one line so anchors stay addressable.
func wrapText(text string, width int) []string {
	var out []string
	for _, raw := range strings.Split(text, "\n") {
		if runewidth.StringWidth(raw) <= width {
			out = append(out, raw)
			continue
		}
		var line strings.Builder
		lineWidth := 0
		for _, word := range strings.Fields(raw) {
			w := runewidth.StringWidth(word)
			if lineWidth > 0 && lineWidth+1+w > width {
				out = append(out, line.String())
				line.Reset()
				lineWidth = 0
			}
			if lineWidth > 0 {
				line.WriteString(" ")
				lineWidth++
			}
			line.WriteString(word)
			lineWidth += w
		}
		out = append(out, line.String())
	}
	return out
}
