package ui

import (
	"log"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/casemark/depo-review/internal/linker"
)

// emphasisDuration is how long an activated passage stays highlighted.
const emphasisDuration = 2 * time.Second

// EmphasisExpiredMsg clears the emphasis started by the matching activation.
type EmphasisExpiredMsg struct {
	Generation int
}

// Navigator maps anchors to transcript line offsets and tracks which
// anchor is currently emphasized. Each activation bumps the generation so
// an expiry from a superseded activation cannot clear a newer one.
type Navigator struct {
	lines      map[string]int
	active     string
	generation int
}

func NewNavigator() *Navigator {
	return &Navigator{lines: make(map[string]int)}
}

// SetAnchorLine records the rendered line offset of an anchor.
func (n *Navigator) SetAnchorLine(anchor string, line int) {
	n.lines[anchor] = line
}

// Reset drops all anchor positions and any active emphasis.
func (n *Navigator) Reset() {
	n.lines = make(map[string]int)
	n.active = ""
}

// Known returns the anchor set for deciding fragment linkability.
func (n *Navigator) Known() map[string]bool {
	known := make(map[string]bool, len(n.lines))
	for anchor := range n.lines {
		known[anchor] = true
	}
	return known
}

// Activate starts emphasis on an anchor and returns its line offset plus
// the expiry command. The empty anchor and the "None" sentinel are
// no-ops, as is an anchor with no recorded position.
func (n *Navigator) Activate(anchor string) (int, tea.Cmd, bool) {
	if anchor == "" || anchor == linker.NoAnchor {
		log.Printf("navigate: no target for anchor %q", anchor)
		return 0, nil, false
	}
	line, ok := n.lines[anchor]
	if !ok {
		log.Printf("navigate: no position for anchor %q", anchor)
		return 0, nil, false
	}

	n.active = anchor
	n.generation++
	gen := n.generation

	cmd := tea.Tick(emphasisDuration, func(time.Time) tea.Msg {
		return EmphasisExpiredMsg{Generation: gen}
	})
	return line, cmd, true
}

// Expire clears the emphasis if it still belongs to the given activation.
func (n *Navigator) Expire(generation int) {
	if generation == n.generation {
		n.active = ""
	}
}

// Active returns the currently emphasized anchor, if any.
func (n *Navigator) Active() string {
	return n.active
}
