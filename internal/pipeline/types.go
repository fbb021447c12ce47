package pipeline

import (
	"strings"

	"github.com/casemark/depo-review/internal/annotation"
	"github.com/casemark/depo-review/internal/linker"
	"github.com/casemark/depo-review/internal/transcript"
)

// FilePair is one deposition/summary pairing the backend has on disk.
type FilePair struct {
	PairID     string `json:"pair_id"`
	CaseName   string `json:"case_name"`
	Deposition string `json:"deposition"`
	Summary    string `json:"summary"`
}

// Deposition is a standalone transcript without a paired summary.
type Deposition struct {
	DepositionID string `json:"deposition_id"`
	CaseName     string `json:"case_name"`
	Name         string `json:"deposition_name"`
}

// SegmentRecord is one transcript passage as the backend serializes it,
// carrying both the segment's display attributes and, when the record
// describes a citation, the literal fragment/link pairing used to rewrite
// the summary text.
type SegmentRecord struct {
	ID           string `json:"id"`
	Page         int    `json:"page"`
	Text         string `json:"text"`
	Cited        bool   `json:"cited"`
	CitationStr  string `json:"citation_str"`
	CitationPart string `json:"citation_part"`
	Link         string `json:"link"`
	SummaryFact  string `json:"summary_fact"`
}

// ResultStats is the derived summary statistics block.
type ResultStats struct {
	SummaryLength int `json:"summary_length"`
}

// ResultData is the text portion of a processed pair.
type ResultData struct {
	Summary string      `json:"summary"`
	Stats   ResultStats `json:"stats"`
}

// ResultPayload is the processed form of one deposition/summary pair.
// CitationData is in transcript order; UnsortedCitationData is in
// citation discovery order and is what annotation indices key off.
type ResultPayload struct {
	Status               string          `json:"status"`
	Data                 ResultData      `json:"data"`
	CitationData         []SegmentRecord `json:"citation_data"`
	UnsortedCitationData []SegmentRecord `json:"unsorted_citation_data"`
	SummaryFileName      string          `json:"summary_file_name"`
}

// Nugget is one extracted fact with its inline citation.
type Nugget struct {
	ID          string `json:"id"`
	Text        string `json:"text"`
	CitationStr string `json:"citation_str"`
	Link        string `json:"link"`
	Page        int    `json:"page"`
	Line        int    `json:"line"`
}

// NuggetData wraps the nugget list in the payload's data block.
type NuggetData struct {
	Nuggets []Nugget `json:"nuggets"`
}

// NuggetPayload is the processed form of one standalone deposition.
type NuggetPayload struct {
	Status       string          `json:"status"`
	Data         NuggetData      `json:"data"`
	CitationData []SegmentRecord `json:"citation_data"`
}

// DepositionText is the raw transcript text response.
type DepositionText struct {
	Status string `json:"status"`
	Data   struct {
		DepositionText string `json:"deposition_text"`
	} `json:"data"`
}

// Segments converts backend records into transcript segments, assigning
// ingestion order as the segment index.
func Segments(records []SegmentRecord) []transcript.Segment {
	segs := make([]transcript.Segment, len(records))
	for i, r := range records {
		segs[i] = transcript.Segment{
			Index:         i,
			Page:          r.Page,
			Text:          r.Text,
			Cited:         r.Cited,
			CitationLabel: r.CitationStr,
			AnchorID:      r.ID,
		}
	}
	return segs
}

// Fragments extracts the citation fragment/anchor pairings from the
// records, in record order. Link values arrive as "#<anchor>" references;
// the leading hash is stripped. Records without a fragment are skipped.
func Fragments(records []SegmentRecord) []linker.Fragment {
	var frags []linker.Fragment
	for _, r := range records {
		if r.CitationPart == "" {
			continue
		}
		frags = append(frags, linker.Fragment{
			Text:   r.CitationPart,
			Anchor: AnchorFromLink(r.Link),
		})
	}
	return frags
}

// AnchorFromLink strips the "#" prefix off a backend link value. The
// sentinel "None" passes through untouched.
func AnchorFromLink(link string) string {
	return strings.TrimPrefix(link, "#")
}

// Citations converts the discovery-ordered records into snapshot inputs.
func Citations(records []SegmentRecord) []annotation.Citation {
	cits := make([]annotation.Citation, len(records))
	for i, r := range records {
		cits[i] = annotation.Citation{
			Label:       r.CitationStr,
			SummaryFact: r.SummaryFact,
			Cited:       r.Cited,
		}
	}
	return cits
}
