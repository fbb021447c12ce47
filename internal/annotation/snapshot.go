package annotation

// Citation is the slice of a result payload the snapshot needs: one entry
// per citation in discovery order, cited or not.
type Citation struct {
	Label       string
	SummaryFact string
	Cited       bool
}

// Entry is one exported judgement, shaped for the pipeline's
// save-annotations endpoint.
type Entry struct {
	CitationLabel string    `json:"citation_str"`
	SummaryFact   string    `json:"citation_summary_fact"`
	Judgement     Judgement `json:"annotation"`
}

// Snapshot exports the sheet for persistence: one entry per cited
// citation, carrying whatever judgement exists (possibly empty). The
// entries are built fresh on every call and share no state with the
// sheet, so a push can safely outlive further edits.
func (s *Sheet) Snapshot(citations []Citation) []Entry {
	var entries []Entry
	idx := 0
	for _, c := range citations {
		if !c.Cited {
			continue
		}
		entries = append(entries, Entry{
			CitationLabel: c.Label,
			SummaryFact:   c.SummaryFact,
			Judgement:     s.Judgement(idx),
		})
		idx++
	}
	return entries
}
