package model

// LogicAction is the effect a triggered rule applies to its targets
type LogicAction string

const (
	ActionShow    LogicAction = "show"
	ActionHide    LogicAction = "hide"
	ActionRequire LogicAction = "require"
	ActionSkip    LogicAction = "skip"
)

// LogicCondition is a comparison operator on the trigger question's answer
type LogicCondition string

const (
	CondEquals         LogicCondition = "equals"
	CondNotEquals      LogicCondition = "not_equals"
	CondContains       LogicCondition = "contains"
	CondNotContains    LogicCondition = "not_contains"
	CondIsEmpty        LogicCondition = "is_empty"
	CondIsNotEmpty     LogicCondition = "is_not_empty"
	CondGreaterThan    LogicCondition = "greater_than"
	CondLessThan       LogicCondition = "less_than"
	CondGreaterOrEqual LogicCondition = "greater_than_or_equal"
	CondLessOrEqual    LogicCondition = "less_than_or_equal"
)

// LogicRule is a conditional attached to a section: when the trigger
// question's answer satisfies the condition, the action is applied to every
// target question.
type LogicRule struct {
	ID        string         `json:"id" bson:"id"`
	Question  string         `json:"question" bson:"question"` // trigger question id
	Condition LogicCondition `json:"condition" bson:"condition"`
	Value     string         `json:"value,omitempty" bson:"value,omitempty"`
	Action    LogicAction    `json:"action" bson:"action"`
	Targets   []string       `json:"targets" bson:"targets"`
}

// ConditionsFor returns the operators valid for a trigger question's answer
// type. Unknown types get the default equals/not_equals pair.
func ConditionsFor(t AnswerType) []LogicCondition {
	switch t {
	case AnswerText:
		return []LogicCondition{CondContains, CondNotContains, CondEquals, CondNotEquals, CondIsEmpty, CondIsNotEmpty}
	case AnswerNumber:
		return []LogicCondition{CondEquals, CondNotEquals, CondGreaterThan, CondLessThan, CondGreaterOrEqual, CondLessOrEqual}
	default:
		return []LogicCondition{CondEquals, CondNotEquals}
	}
}

// ConditionAllowed reports whether the condition is valid for the answer type
func ConditionAllowed(t AnswerType, c LogicCondition) bool {
	for _, allowed := range ConditionsFor(t) {
		if c == allowed {
			return true
		}
	}
	return false
}

// QuestionState is the derived visibility/requirement state of a question
// after logic evaluation
type QuestionState struct {
	Visible  bool `json:"visible"`
	Required bool `json:"required"`
}
