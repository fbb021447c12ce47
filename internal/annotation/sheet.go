package annotation

// Judgement is one citation's recorded answers. A zero-valued field means
// "unanswered". The JSON field names match the annotation payload the
// pipeline backend stores.
type Judgement struct {
	Relevance           string   `json:"relevance,omitempty"`
	Sufficiency         string   `json:"sufficiency,omitempty"`
	InsufficientReasons []string `json:"insufficientReason,omitempty"`
}

// Empty reports whether no criterion has been answered.
func (j Judgement) Empty() bool {
	return j.Relevance == "" && j.Sufficiency == "" && len(j.InsufficientReasons) == 0
}

// Answerable reports whether a criterion's enabling condition currently
// holds: sufficiency requires relevance = Relevant, insufficientReason
// requires sufficiency = Insufficient. The clearing rules in SetAnswer
// keep recorded answers consistent with this at all times.
func (j Judgement) Answerable(criterion string) bool {
	switch criterion {
	case CriterionRelevance:
		return true
	case CriterionSufficiency:
		return j.Relevance == Relevant
	case CriterionInsufficientReason:
		return j.Sufficiency == Insufficient
	default:
		return false
	}
}

// HasReason reports whether a multi-select reason is currently selected.
func (j Judgement) HasReason(value string) bool {
	for _, r := range j.InsufficientReasons {
		if r == value {
			return true
		}
	}
	return false
}

func (j Judgement) clone() Judgement {
	if len(j.InsufficientReasons) > 0 {
		j.InsufficientReasons = append([]string(nil), j.InsufficientReasons...)
	}
	return j
}

// Sheet holds the live judgements for one review session, keyed by
// citation index (position in the cited-citation ordering). All mutation
// goes through SetAnswer; Reset clears every judgement at once.
type Sheet struct {
	judgements map[int]Judgement
}

func NewSheet() *Sheet {
	return &Sheet{judgements: make(map[int]Judgement)}
}

// Judgement returns a copy of the citation's current judgement; an
// unseen citation yields the empty judgement.
func (s *Sheet) Judgement(citation int) Judgement {
	return s.judgements[citation].clone()
}

// Answered reports whether at least one criterion has been answered for
// at least one citation. Persistence only starts once this is true.
func (s *Sheet) Answered() bool {
	for _, j := range s.judgements {
		if !j.Empty() {
			return true
		}
	}
	return false
}

// SetAnswer applies one answer and the cascading resets that keep the
// sheet dependency-consistent:
//
//   - relevance = Irrelevant clears sufficiency and insufficientReason;
//   - sufficiency set to anything but Insufficient clears insufficientReason;
//   - insufficientReason toggles membership of the given option;
//   - other single-select answers overwrite the prior value.
//
// Answers for a criterion whose enabling condition does not hold, unknown
// criteria, and options outside the catalog are ignored. Returns whether
// the sheet changed.
func (s *Sheet) SetAnswer(citation int, criterion, value string) bool {
	c, ok := CriterionByName(criterion)
	if !ok || !validOption(c, value) {
		return false
	}

	j := s.judgements[citation].clone()
	if !j.Answerable(criterion) {
		return false
	}

	switch criterion {
	case CriterionRelevance:
		j.Relevance = value
		if value == Irrelevant {
			j.Sufficiency = ""
			j.InsufficientReasons = nil
		}
	case CriterionSufficiency:
		j.Sufficiency = value
		if value != Insufficient {
			j.InsufficientReasons = nil
		}
	case CriterionInsufficientReason:
		if j.HasReason(value) {
			kept := j.InsufficientReasons[:0]
			for _, r := range j.InsufficientReasons {
				if r != value {
					kept = append(kept, r)
				}
			}
			j.InsufficientReasons = kept
		} else {
			j.InsufficientReasons = append(j.InsufficientReasons, value)
		}
	}

	s.judgements[citation] = j
	return true
}

// Reset clears all judgements for all citations.
func (s *Sheet) Reset() {
	s.judgements = make(map[int]Judgement)
}
