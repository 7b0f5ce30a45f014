package service

import (
	"strconv"
	"strings"

	"inspectkit/internal/model"
)

// Answers maps question id to the current answer value. Choice answers use
// the option label; numbers their decimal string form.
type Answers map[string]string

// LogicResult is the derived state of one section after rule evaluation
type LogicResult struct {
	States      map[string]model.QuestionState `json:"states"`
	SkipSection bool                           `json:"skipSection"`
}

// EvaluateSection runs a section's rules against the current answers. Every
// question starts visible with its own required flag; rules are applied in
// array order, so on conflicting actions the last rule wins. Skip marks the
// section for sequential navigation to pass over; it mutates nothing.
func EvaluateSection(sec *model.Section, answers Answers) LogicResult {
	res := LogicResult{States: make(map[string]model.QuestionState)}
	if sec == nil {
		return res
	}
	for i := range sec.Questions {
		q := &sec.Questions[i]
		res.States[q.ID] = model.QuestionState{Visible: true, Required: q.Required}
	}

	for _, rule := range sec.Logic {
		val, answered := answers[rule.Question]
		if !conditionMet(rule.Condition, val, answered, rule.Value) {
			continue
		}
		if rule.Action == model.ActionSkip {
			res.SkipSection = true
			continue
		}
		for _, target := range rule.Targets {
			state, ok := res.States[target]
			if !ok {
				continue
			}
			switch rule.Action {
			case model.ActionShow:
				state.Visible = true
			case model.ActionHide:
				state.Visible = false
			case model.ActionRequire:
				state.Required = true
			}
			res.States[target] = state
		}
	}
	return res
}

// EvaluateTemplate evaluates every section's rules, keyed by section id
func EvaluateTemplate(t *model.Template, answers Answers) map[string]LogicResult {
	results := make(map[string]LogicResult)
	if t == nil {
		return results
	}
	for pi := range t.Pages {
		for si := range t.Pages[pi].Sections {
			sec := &t.Pages[pi].Sections[si]
			results[sec.ID] = EvaluateSection(sec, answers)
		}
	}
	return results
}

// conditionMet evaluates one operator. Malformed input degrades to false,
// never errors. An unanswered trigger only satisfies is_empty.
func conditionMet(cond model.LogicCondition, current string, answered bool, want string) bool {
	switch cond {
	case model.CondEquals:
		return answered && current == want
	case model.CondNotEquals:
		return answered && current != want
	case model.CondContains:
		return answered && strings.Contains(current, want)
	case model.CondNotContains:
		return answered && !strings.Contains(current, want)
	case model.CondIsEmpty:
		return !answered || current == ""
	case model.CondIsNotEmpty:
		return answered && current != ""
	case model.CondGreaterThan, model.CondLessThan, model.CondGreaterOrEqual, model.CondLessOrEqual:
		if !answered {
			return false
		}
		a, err1 := strconv.ParseFloat(strings.TrimSpace(current), 64)
		b, err2 := strconv.ParseFloat(strings.TrimSpace(want), 64)
		if err1 != nil || err2 != nil {
			return false
		}
		switch cond {
		case model.CondGreaterThan:
			return a > b
		case model.CondLessThan:
			return a < b
		case model.CondGreaterOrEqual:
			return a >= b
		default:
			return a <= b
		}
	default:
		return false
	}
}
