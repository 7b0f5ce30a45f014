package service

import "inspectkit/internal/model"

// Default point values applied when a score is not explicitly set
const (
	defaultYesScore     = 2
	defaultFullScore    = 2
	defaultPartialScore = 1
)

// MaxScore returns the maximum achievable score for a single question,
// before the weight multiplier. Missing or malformed inputs degrade to 0;
// this never fails.
func MaxScore(q *model.Question) int {
	if q == nil {
		return 0
	}
	switch q.AnswerType {
	case model.AnswerYesNo:
		max := scoreOr(q.Scores, model.OptionYes, defaultYesScore)
		if no := scoreOr(q.Scores, model.OptionNo, 0); no > max {
			max = no
		}
		if q.IncludeNA {
			if na := scoreOr(q.Scores, model.OptionNA, 0); na > max {
				max = na
			}
		}
		return max
	case model.AnswerCompliance:
		max := scoreOr(q.Scores, model.ComplianceFull, defaultFullScore)
		if p := scoreOr(q.Scores, model.CompliancePartial, defaultPartialScore); p > max {
			max = p
		}
		if n := scoreOr(q.Scores, model.ComplianceNon, 0); n > max {
			max = n
		}
		if na := scoreOr(q.Scores, model.ComplianceNA, 0); na > max {
			max = na
		}
		return max
	case model.AnswerSelect, model.AnswerMultipleChoice, model.AnswerCheckbox:
		// checkbox carries no scores map and so contributes 0
		max := 0
		for _, v := range q.Scores {
			if v > max {
				max = v
			}
		}
		return max
	default:
		// text, number, date, signature, media, file, and unknown types
		// score only through an explicit override
		if q.Scoring.Enabled {
			return q.Scoring.Max
		}
		return 0
	}
}

// QuestionContribution is the question's share of its section's maximum:
// weight x max score. Weight 0 (or a malformed negative) excludes the
// question entirely.
func QuestionContribution(q *model.Question) int {
	if q == nil || q.Weight <= 0 {
		return 0
	}
	return q.Weight * MaxScore(q)
}

// AnswerScore returns the points achieved for a chosen answer, weighted.
// Unscored types and unknown options yield 0.
func AnswerScore(q *model.Question, answer string) int {
	if q == nil || q.Weight <= 0 || answer == "" {
		return 0
	}
	switch q.AnswerType {
	case model.AnswerYesNo:
		def := 0
		if answer == model.OptionYes {
			def = defaultYesScore
		}
		return q.Weight * scoreOr(q.Scores, answer, def)
	case model.AnswerCompliance:
		def := 0
		switch answer {
		case model.ComplianceFull:
			def = defaultFullScore
		case model.CompliancePartial:
			def = defaultPartialScore
		}
		return q.Weight * scoreOr(q.Scores, answer, def)
	case model.AnswerSelect, model.AnswerMultipleChoice:
		return q.Weight * q.Scores[answer]
	default:
		return 0
	}
}

// SectionMaxScore sums the weighted contributions of a section's questions
func SectionMaxScore(sec *model.Section) int {
	if sec == nil {
		return 0
	}
	total := 0
	for i := range sec.Questions {
		total += QuestionContribution(&sec.Questions[i])
	}
	return total
}

// PageMaxScore sums the section maxima of a page
func PageMaxScore(p *model.Page) int {
	if p == nil {
		return 0
	}
	total := 0
	for i := range p.Sections {
		total += SectionMaxScore(&p.Sections[i])
	}
	return total
}

// TemplateMaxScore sums the page maxima of a template
func TemplateMaxScore(t *model.Template) int {
	if t == nil {
		return 0
	}
	total := 0
	for i := range t.Pages {
		total += PageMaxScore(&t.Pages[i])
	}
	return total
}

// RecomputeScoring refreshes the denormalized scoring.max cache on every
// question. Must run after any edit touching scores, answerType, includeNA
// or weight, and always before a save.
func RecomputeScoring(t *model.Template) {
	if t == nil {
		return
	}
	for pi := range t.Pages {
		for si := range t.Pages[pi].Sections {
			sec := &t.Pages[pi].Sections[si]
			for qi := range sec.Questions {
				sec.Questions[qi].Scoring.Max = MaxScore(&sec.Questions[qi])
			}
		}
	}
}

func scoreOr(scores map[string]int, key string, def int) int {
	if v, ok := scores[key]; ok {
		return v
	}
	return def
}
