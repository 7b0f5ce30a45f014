package model

// AnswerType defines how a question is answered
type AnswerType string

const (
	AnswerText           AnswerType = "text"
	AnswerNumber         AnswerType = "number"
	AnswerDate           AnswerType = "date"
	AnswerYesNo          AnswerType = "yesno"
	AnswerSelect         AnswerType = "select"
	AnswerMultipleChoice AnswerType = "multiple_choice"
	AnswerCheckbox       AnswerType = "checkbox"
	AnswerCompliance     AnswerType = "compliance"
	AnswerSignature      AnswerType = "signature"
	AnswerMedia          AnswerType = "media"
	AnswerFile           AnswerType = "file"
)

// RequirementType marks how strongly a question is expected to be answered
type RequirementType string

const (
	RequirementMandatory   RequirementType = "mandatory"
	RequirementRecommended RequirementType = "recommended"
)

// Yes/no option labels
const (
	OptionYes = "yes"
	OptionNo  = "no"
	OptionNA  = "na"
)

// Compliance option labels (fixed 4-option scale)
const (
	ComplianceFull    = "full_compliance"
	CompliancePartial = "partial_compliance"
	ComplianceNon     = "non_compliance"
	ComplianceNA      = "not_applicable"
)

// Scoring is the denormalized score cache stored on a question. Max is
// recomputed from the answer type, scores map, weight-independent per-answer
// maximum on every relevant edit; for non-scored answer types with Enabled
// set, Max is an explicit override used verbatim.
type Scoring struct {
	Enabled bool `json:"enabled" bson:"enabled"`
	Max     int  `json:"max" bson:"max"`
}

// Question is a single inspection question inside a section
type Question struct {
	ID              string          `json:"id" bson:"id"`
	Text            string          `json:"text" bson:"text"`
	Description     string          `json:"description,omitempty" bson:"description,omitempty"`
	AnswerType      AnswerType      `json:"answerType" bson:"answerType"`
	Options         []string        `json:"options,omitempty" bson:"options,omitempty"`
	Scores          map[string]int  `json:"scores,omitempty" bson:"scores,omitempty"`
	Weight          int             `json:"weight" bson:"weight"`
	RequirementType RequirementType `json:"requirementType" bson:"requirementType"`
	Required        bool            `json:"required" bson:"required"`
	IncludeNA       bool            `json:"includeNA" bson:"includeNA"` // yesno only
	Scoring         Scoring         `json:"scoring" bson:"scoring"`
}

// HasOptions reports whether the answer type carries an options list
func (q *Question) HasOptions() bool {
	switch q.AnswerType {
	case AnswerYesNo, AnswerSelect, AnswerMultipleChoice, AnswerCheckbox, AnswerCompliance:
		return true
	}
	return false
}

// QuestionPatch is a shallow merge over an existing question; nil fields are
// left untouched
type QuestionPatch struct {
	Text            *string          `json:"text,omitempty"`
	Description     *string          `json:"description,omitempty"`
	AnswerType      *AnswerType      `json:"answerType,omitempty"`
	Options         *[]string        `json:"options,omitempty"`
	Scores          *map[string]int  `json:"scores,omitempty"`
	Weight          *int             `json:"weight,omitempty"`
	RequirementType *RequirementType `json:"requirementType,omitempty"`
	Required        *bool            `json:"required,omitempty"`
	IncludeNA       *bool            `json:"includeNA,omitempty"`
	Scoring         *Scoring         `json:"scoring,omitempty"`
}

// Apply merges the patch into the question
func (q *Question) Apply(p *QuestionPatch) {
	if p == nil {
		return
	}
	if p.Text != nil {
		q.Text = *p.Text
	}
	if p.Description != nil {
		q.Description = *p.Description
	}
	if p.AnswerType != nil {
		q.AnswerType = *p.AnswerType
	}
	if p.Options != nil {
		q.Options = *p.Options
	}
	if p.Scores != nil {
		q.Scores = *p.Scores
	}
	if p.Weight != nil {
		q.Weight = *p.Weight
	}
	if p.RequirementType != nil {
		q.RequirementType = *p.RequirementType
	}
	if p.Required != nil {
		q.Required = *p.Required
	}
	if p.IncludeNA != nil {
		q.IncludeNA = *p.IncludeNA
	}
	if p.Scoring != nil {
		q.Scoring = *p.Scoring
	}
}
