package transcript

import "fmt"

// Segment is one unit of deposition transcript text with its citation
// attributes. Index is assigned at ingestion and defines the total order
// of the payload's segments.
type Segment struct {
	Index         int
	Page          int
	Text          string
	Cited         bool
	CitationLabel string
	AnchorID      string
}

// SegmentGroup is a maximal run of consecutive uncited same-page segments,
// or a single cited segment. Cited segments are never merged, so every
// cited passage stays individually addressable.
type SegmentGroup struct {
	Page     int
	Cited    bool
	Segments []Segment
}

// AnchorFor returns the stable identifier used to address a segment.
// An externally supplied AnchorID wins; otherwise the id is derived from
// the segment's index, which is unique by construction.
func AnchorFor(seg Segment) string {
	if seg.AnchorID != "" {
		return seg.AnchorID
	}
	return fmt.Sprintf("segment-%d", seg.Index)
}

// Group partitions an ordered segment sequence into display groups in a
// single linear pass. A new group opens when there is no open group, the
// current segment is cited, the page changes, or the open group is itself
// cited. Concatenating the groups' members reproduces the input exactly.
func Group(segs []Segment) []SegmentGroup {
	var groups []SegmentGroup
	for _, seg := range segs {
		if len(groups) == 0 {
			groups = append(groups, newGroup(seg))
			continue
		}
		open := &groups[len(groups)-1]
		if seg.Cited || open.Cited || open.Page != seg.Page {
			groups = append(groups, newGroup(seg))
			continue
		}
		open.Segments = append(open.Segments, seg)
	}
	return groups
}

func newGroup(seg Segment) SegmentGroup {
	return SegmentGroup{
		Page:     seg.Page,
		Cited:    seg.Cited,
		Segments: []Segment{seg},
	}
}
