package ui

import (
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/casemark/depo-review/internal/pipeline"
)

func newTestModel(t *testing.T) *Model {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("DEPO_REVIEW_CONFIG", filepath.Join(dir, "config.yaml"))
	t.Setenv("DEPO_PIPELINE_URL", "http://fake:8000")
	t.Setenv("DEPO_REVIEW_MODE", "")

	m := NewModel()
	t.Cleanup(m.Close)
	m.width = 100
	m.height = 40
	return m
}

func TestPairsLoadedSortsByCase(t *testing.T) {
	m := newTestModel(t)

	m.Update(PairsLoadedMsg{Pairs: []pipeline.FilePair{
		{CaseName: "Zeta v Omega", Deposition: "z.txt", Summary: "z_sum.txt"},
		{CaseName: "Abel v Baker", Deposition: "a.txt", Summary: "a_sum.txt"},
	}})

	if m.state != StateSelecting {
		t.Fatalf("expected StateSelecting, got %s", m.state)
	}
	if m.pairs[0].CaseName != "Abel v Baker" {
		t.Errorf("pairs not grouped by case: %+v", m.pairs)
	}
	if row := m.pairList.GetRow(0); row == nil || row.Case != "Abel v Baker" {
		t.Errorf("list rows out of sync with pairs")
	}
}

func TestErrorMsgShowsMessageAndReturns(t *testing.T) {
	m := newTestModel(t)

	m.Update(ErrorMsg{Error: errFake("backend down")})
	if m.state != StateMessage {
		t.Fatalf("expected StateMessage, got %s", m.state)
	}
	if m.messageType != "error" {
		t.Errorf("expected error message type, got %q", m.messageType)
	}

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{' '}})
	if m.state != StateSelecting {
		t.Errorf("any key should return to selection, got %s", m.state)
	}
}

type errFake string

func (e errFake) Error() string { return string(e) }

func resultPayload() *pipeline.ResultPayload {
	return &pipeline.ResultPayload{
		Status: "success",
		Data: pipeline.ResultData{
			Summary: "The witness arrived at 9am and left before noon.",
			Stats:   pipeline.ResultStats{SummaryLength: 48},
		},
		CitationData: []pipeline.SegmentRecord{
			{ID: "seg-0", Page: 4, Text: "Q. What time did you arrive?"},
			{ID: "seg-1", Page: 4, Text: "A. Around nine.", Cited: true, CitationStr: "4:12-4:19",
				CitationPart: "arrived at 9am", Link: "#seg-1", SummaryFact: "Witness arrived at 9am."},
			{ID: "seg-2", Page: 5, Text: "A. Just before noon.", Cited: true, CitationStr: "5:2-5:4",
				CitationPart: "left before noon", Link: "#seg-2", SummaryFact: "Witness left before noon."},
		},
		UnsortedCitationData: []pipeline.SegmentRecord{
			{ID: "seg-2", Cited: true, CitationStr: "5:2-5:4", SummaryFact: "Witness left before noon."},
			{ID: "seg-1", Cited: true, CitationStr: "4:12-4:19", SummaryFact: "Witness arrived at 9am."},
		},
		SummaryFileName: "summary_smith.txt",
	}
}

func TestResultLoadedStartsReviewSession(t *testing.T) {
	m := newTestModel(t)

	m.Update(ResultLoadedMsg{Payload: resultPayload()})

	if m.state != StateReviewing {
		t.Fatalf("expected StateReviewing, got %s", m.state)
	}
	if m.sheet == nil || m.saver == nil {
		t.Fatal("expected an annotation session")
	}
	if len(m.citations) != 2 {
		t.Fatalf("expected 2 citations, got %d", len(m.citations))
	}
	// Sheet indices key off the discovery (unsorted) ordering.
	if m.citedIndexByAnchor["seg-2"] != 0 || m.citedIndexByAnchor["seg-1"] != 1 {
		t.Errorf("cited index mapping wrong: %v", m.citedIndexByAnchor)
	}
}

func TestResultIDDerivedFromSummaryFile(t *testing.T) {
	m := newTestModel(t)
	m.Update(ResultLoadedMsg{Payload: resultPayload()})

	id := m.saver.ResultID()
	const prefix = "summary_smith_"
	if len(id) != len(prefix)+8 || id[:len(prefix)] != prefix {
		t.Errorf("unexpected result id %q", id)
	}
}

func TestNuggetsLoadedDisablesAnnotation(t *testing.T) {
	m := newTestModel(t)

	m.Update(NuggetsLoadedMsg{Payload: &pipeline.NuggetPayload{
		Status: "success",
		Data: pipeline.NuggetData{Nuggets: []pipeline.Nugget{
			{ID: "n1", Text: "Arrived at nine (4:12-4:19).", CitationStr: "4:12-4:19", Link: "#seg-1"},
		}},
		CitationData: []pipeline.SegmentRecord{
			{ID: "seg-1", Page: 4, Text: "A. Around nine.", Cited: true, CitationStr: "4:12-4:19"},
		},
	}})

	if m.state != StateReviewing {
		t.Fatalf("expected StateReviewing, got %s", m.state)
	}
	if m.sheet != nil || m.saver != nil {
		t.Error("nugget mode should not create an annotation session")
	}

	// Pressing annotate surfaces a message instead of a form.
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'a'}})
	if m.state != StateMessage {
		t.Errorf("expected StateMessage after annotate in nugget mode, got %s", m.state)
	}
}

func TestNuggetsFallBackToRawTranscript(t *testing.T) {
	m := newTestModel(t)

	m.Update(NuggetsLoadedMsg{
		Payload: &pipeline.NuggetPayload{Status: "success"},
		RawText: "Q. State your name.\nA. John Smith.\n\nQ. Where do you live?",
	})

	if m.state != StateReviewing {
		t.Fatalf("expected StateReviewing, got %s", m.state)
	}
	if len(m.review.segments) != 2 {
		t.Errorf("expected 2 paragraph segments, got %d", len(m.review.segments))
	}
}

func TestAnnotateOpensFormForCitationUnderCursor(t *testing.T) {
	m := newTestModel(t)
	m.Update(ResultLoadedMsg{Payload: resultPayload()})

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'a'}})
	if m.state != StateAnnotating {
		t.Fatalf("expected StateAnnotating, got %s", m.state)
	}
	// Cursor starts on the first cited passage in transcript order,
	// which maps to discovery index 1.
	if m.formCitation != 1 {
		t.Errorf("expected citation 1 under cursor, got %d", m.formCitation)
	}
}

func TestAnnotateRoutesDuplicateLabelsByAnchor(t *testing.T) {
	m := newTestModel(t)

	// Two facts cite the same transcript range, so both records carry
	// the same label but distinct anchors.
	m.Update(ResultLoadedMsg{Payload: &pipeline.ResultPayload{
		Status: "success",
		Data: pipeline.ResultData{
			Summary: "The witness arrived at 9am. The witness arrived alone.",
			Stats:   pipeline.ResultStats{SummaryLength: 54},
		},
		CitationData: []pipeline.SegmentRecord{
			{ID: "seg-1", Page: 4, Text: "A. Around nine, by myself.", Cited: true, CitationStr: "4:12-4:19",
				CitationPart: "arrived at 9am", Link: "#seg-1", SummaryFact: "Witness arrived at 9am."},
			{ID: "seg-2", Page: 4, Text: "A. Yes, alone.", Cited: true, CitationStr: "4:12-4:19",
				CitationPart: "arrived alone", Link: "#seg-2", SummaryFact: "Witness arrived alone."},
		},
		UnsortedCitationData: []pipeline.SegmentRecord{
			{ID: "seg-1", Cited: true, CitationStr: "4:12-4:19", SummaryFact: "Witness arrived at 9am."},
			{ID: "seg-2", Cited: true, CitationStr: "4:12-4:19", SummaryFact: "Witness arrived alone."},
		},
		SummaryFileName: "summary_smith.txt",
	}})

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'n'}})
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'a'}})

	if m.state != StateAnnotating {
		t.Fatalf("expected StateAnnotating, got %s", m.state)
	}
	if m.formCitation != 1 {
		t.Errorf("expected citation 1 under cursor, got %d", m.formCitation)
	}
}

func TestModeToggleSavesConfig(t *testing.T) {
	m := newTestModel(t)
	m.Update(PairsLoadedMsg{Pairs: nil})

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'m'}})
	if m.mode != "deposition" {
		t.Errorf("expected deposition mode, got %q", m.mode)
	}
	if m.state != StateLoading {
		t.Errorf("mode toggle should reload the list, got %s", m.state)
	}
}
