package ui

import (
	"github.com/charmbracelet/huh"

	"github.com/casemark/depo-review/internal/annotation"
)

// JudgementForm collects the review answers for one citation. Gated
// criteria stay hidden until their prerequisite is met, mirroring the
// dependency rules the sheet enforces.
type JudgementForm struct {
	form *huh.Form

	relevance   string
	sufficiency string
	reasons     []string
}

// NewJudgementForm builds a form pre-filled from the citation's current
// judgement.
func NewJudgementForm(current annotation.Judgement) *JudgementForm {
	jf := &JudgementForm{
		relevance:   current.Relevance,
		sufficiency: current.Sufficiency,
		reasons:     append([]string(nil), current.InsufficientReasons...),
	}

	var groups []*huh.Group
	for _, criterion := range annotation.Criteria() {
		criterion := criterion
		switch {
		case criterion.Multiple:
			options := make([]huh.Option[string], len(criterion.Options))
			for i, opt := range criterion.Options {
				options[i] = huh.NewOption(opt, opt)
			}
			group := huh.NewGroup(
				huh.NewMultiSelect[string]().
					Title(criterion.Title).
					Description(criterion.Description).
					Options(options...).
					Value(&jf.reasons),
			)
			groups = append(groups, group.WithHideFunc(func() bool {
				return !jf.reasonsVisible()
			}))
		case criterion.Name == annotation.CriterionSufficiency:
			options := make([]huh.Option[string], len(criterion.Options))
			for i, opt := range criterion.Options {
				options[i] = huh.NewOption(opt, opt)
			}
			group := huh.NewGroup(
				huh.NewSelect[string]().
					Title(criterion.Title).
					Description(criterion.Description).
					Options(options...).
					Value(&jf.sufficiency),
			)
			groups = append(groups, group.WithHideFunc(func() bool {
				return jf.relevance != annotation.Relevant
			}))
		default:
			options := make([]huh.Option[string], len(criterion.Options))
			for i, opt := range criterion.Options {
				options[i] = huh.NewOption(opt, opt)
			}
			groups = append(groups, huh.NewGroup(
				huh.NewSelect[string]().
					Title(criterion.Title).
					Description(criterion.Description).
					Options(options...).
					Value(&jf.relevance),
			))
		}
	}

	jf.form = huh.NewForm(groups...)
	return jf
}

func (jf *JudgementForm) reasonsVisible() bool {
	return jf.relevance == annotation.Relevant && jf.sufficiency == annotation.Insufficient
}

// GetForm returns the underlying huh form for embedding in the program.
func (jf *JudgementForm) GetForm() *huh.Form {
	return jf.form
}

// Apply writes the collected answers onto the sheet, relevance first so
// the gated answers land on an answerable judgement. Returns how many
// answers the sheet accepted.
func (jf *JudgementForm) Apply(sheet *annotation.Sheet, citation int) int {
	applied := 0

	if jf.relevance != "" && sheet.SetAnswer(citation, annotation.CriterionRelevance, jf.relevance) {
		applied++
	}
	if jf.sufficiency != "" && sheet.SetAnswer(citation, annotation.CriterionSufficiency, jf.sufficiency) {
		applied++
	}

	// The sheet toggles reasons, so clear what the form dropped and add
	// what it kept.
	current := sheet.Judgement(citation)
	for _, reason := range current.InsufficientReasons {
		if !containsString(jf.reasons, reason) {
			if sheet.SetAnswer(citation, annotation.CriterionInsufficientReason, reason) {
				applied++
			}
		}
	}
	current = sheet.Judgement(citation)
	for _, reason := range jf.reasons {
		if !containsString(current.InsufficientReasons, reason) {
			if sheet.SetAnswer(citation, annotation.CriterionInsufficientReason, reason) {
				applied++
			}
		}
	}

	return applied
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
