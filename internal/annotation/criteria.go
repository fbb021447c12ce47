package annotation

// Criterion names. These are the keys a Judgement is defined over and the
// field names the annotation payload carries.
const (
	CriterionRelevance          = "relevance"
	CriterionSufficiency        = "sufficiency"
	CriterionInsufficientReason = "insufficientReason"
)

// Option strings, verbatim as the review form presents them.
const (
	Relevant   = "Relevant"
	Irrelevant = "Irrelevant"

	Sufficient                  = "Sufficient"
	SufficientMinorDisplacement = "Sufficient (Minor Displacement, Approx less than a page surrounding)"
	Insufficient                = "Insufficient"

	ReasonMissingKeyDetail = "Missing A Key Detail"
	ReasonNeedsMoreContext = "Needs More Context"
	ReasonContradictory    = "Contradictory Information"
)

// Criterion is one judgement question with its enumerated options.
// Multiple marks a multi-select criterion (answers toggle membership
// instead of replacing the value).
type Criterion struct {
	Name        string
	Title       string
	Description string
	Options     []string
	Multiple    bool
}

// Criteria returns the fixed catalog in presentation order.
func Criteria() []Criterion {
	return []Criterion{
		{
			Name:        CriterionRelevance,
			Title:       "Relevance Check",
			Description: "Does the deposition discuss the same event or topic as the summary fact?",
			Options:     []string{Relevant, Irrelevant},
		},
		{
			Name:        CriterionSufficiency,
			Title:       "Sufficiency Check",
			Description: "Does the deposition provide enough details to fully support the summary fact?",
			Options:     []string{Sufficient, SufficientMinorDisplacement, Insufficient},
		},
		{
			Name:        CriterionInsufficientReason,
			Title:       "Reason for Insufficiency",
			Description: "If insufficient, why? (Select all that apply)",
			Options:     []string{ReasonMissingKeyDetail, ReasonNeedsMoreContext, ReasonContradictory},
			Multiple:    true,
		},
	}
}

// CriterionByName looks a criterion up in the catalog.
func CriterionByName(name string) (Criterion, bool) {
	for _, c := range Criteria() {
		if c.Name == name {
			return c, true
		}
	}
	return Criterion{}, false
}

func validOption(c Criterion, value string) bool {
	for _, opt := range c.Options {
		if opt == value {
			return true
		}
	}
	return false
}
