package service

import (
	"testing"

	"inspectkit/internal/model"
)

func logicSection(rules ...model.LogicRule) *model.Section {
	return &model.Section{
		ID: "s1",
		Questions: []model.Question{
			{ID: "q1", AnswerType: model.AnswerCompliance},
			{ID: "q2", AnswerType: model.AnswerText},
			{ID: "q3", AnswerType: model.AnswerNumber, Required: true},
		},
		Logic: rules,
	}
}

func TestHideRuleFromTriggerAnswer(t *testing.T) {
	sec := logicSection(model.LogicRule{
		Question: "q1", Condition: model.CondEquals, Value: model.ComplianceFull,
		Action: model.ActionHide, Targets: []string{"q2"},
	})

	res := EvaluateSection(sec, Answers{"q1": model.ComplianceFull})
	if res.States["q2"].Visible {
		t.Fatal("q2 visible, want hidden when q1 = full_compliance")
	}

	for _, other := range []string{model.CompliancePartial, model.ComplianceNon, ""} {
		res := EvaluateSection(sec, Answers{"q1": other})
		if !res.States["q2"].Visible {
			t.Fatalf("q2 hidden for answer %q, want visible", other)
		}
	}

	// unanswered trigger leaves q2 visible
	res = EvaluateSection(sec, Answers{})
	if !res.States["q2"].Visible {
		t.Fatal("q2 hidden with no answers, want visible")
	}
}

func TestConflictingRulesLastWins(t *testing.T) {
	hide := model.LogicRule{Question: "q1", Condition: model.CondEquals, Value: "x", Action: model.ActionHide, Targets: []string{"q2"}}
	show := model.LogicRule{Question: "q1", Condition: model.CondEquals, Value: "x", Action: model.ActionShow, Targets: []string{"q2"}}

	res := EvaluateSection(logicSection(hide, show), Answers{"q1": "x"})
	if !res.States["q2"].Visible {
		t.Fatal("show listed last, want visible")
	}

	res = EvaluateSection(logicSection(show, hide), Answers{"q1": "x"})
	if res.States["q2"].Visible {
		t.Fatal("hide listed last, want hidden")
	}
}

func TestRequireForcesRequired(t *testing.T) {
	sec := logicSection(model.LogicRule{
		Question: "q2", Condition: model.CondIsNotEmpty,
		Action: model.ActionRequire, Targets: []string{"q1"},
	})
	res := EvaluateSection(sec, Answers{"q2": "leak observed"})
	if !res.States["q1"].Required {
		t.Fatal("q1 not required after require rule fired")
	}

	// without the trigger, the question keeps its own flag
	res = EvaluateSection(sec, Answers{})
	if res.States["q1"].Required {
		t.Fatal("q1 required without trigger")
	}
	if !res.States["q3"].Required {
		t.Fatal("q3 lost its own required flag")
	}
}

func TestSkipMarksSectionOnly(t *testing.T) {
	sec := logicSection(model.LogicRule{
		Question: "q1", Condition: model.CondEquals, Value: model.ComplianceNA,
		Action: model.ActionSkip, Targets: []string{"q2"},
	})
	res := EvaluateSection(sec, Answers{"q1": model.ComplianceNA})
	if !res.SkipSection {
		t.Fatal("section not marked for skip")
	}
	if !res.States["q2"].Visible {
		t.Fatal("skip changed a question state")
	}
}

func TestConditionOperators(t *testing.T) {
	cases := []struct {
		name     string
		cond     model.LogicCondition
		current  string
		answered bool
		want     string
		expect   bool
	}{
		{"equals", model.CondEquals, "a", true, "a", true},
		{"equals unanswered", model.CondEquals, "", false, "", false},
		{"not_equals", model.CondNotEquals, "a", true, "b", true},
		{"contains", model.CondContains, "cracked wall", true, "crack", true},
		{"not_contains", model.CondNotContains, "ok", true, "crack", true},
		{"is_empty unanswered", model.CondIsEmpty, "", false, "", true},
		{"is_empty blank answer", model.CondIsEmpty, "", true, "", true},
		{"is_not_empty", model.CondIsNotEmpty, "x", true, "", true},
		{"greater_than", model.CondGreaterThan, "10.5", true, "10", true},
		{"greater_than false", model.CondGreaterThan, "9", true, "10", false},
		{"less_than", model.CondLessThan, "3", true, "4", true},
		{"greater_or_equal boundary", model.CondGreaterOrEqual, "4", true, "4", true},
		{"less_or_equal boundary", model.CondLessOrEqual, "4", true, "4", true},
		{"numeric garbage degrades false", model.CondGreaterThan, "abc", true, "10", false},
		{"unknown operator false", model.LogicCondition("sounds_like"), "a", true, "a", false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := conditionMet(c.cond, c.current, c.answered, c.want); got != c.expect {
				t.Fatalf("conditionMet(%s) = %v, want %v", c.cond, got, c.expect)
			}
		})
	}
}

func TestEvaluateTemplateKeysBySection(t *testing.T) {
	tpl := model.NewTemplate("op", "t")
	sec := &tpl.Pages[0].Sections[0]
	sec.Questions = []model.Question{{ID: "q1", AnswerType: model.AnswerYesNo}}
	sec.Logic = []model.LogicRule{{
		Question: "q1", Condition: model.CondEquals, Value: model.OptionNo,
		Action: model.ActionRequire, Targets: []string{"q1"},
	}}

	results := EvaluateTemplate(tpl, Answers{"q1": model.OptionNo})
	res, ok := results[sec.ID]
	if !ok {
		t.Fatalf("no result for section %s", sec.ID)
	}
	if !res.States["q1"].Required {
		t.Fatal("rule did not fire through template evaluation")
	}
}

func TestRuleTargetingUnknownQuestionIgnored(t *testing.T) {
	sec := logicSection(model.LogicRule{
		Question: "q1", Condition: model.CondEquals, Value: "x",
		Action: model.ActionHide, Targets: []string{"ghost"},
	})
	res := EvaluateSection(sec, Answers{"q1": "x"})
	if _, ok := res.States["ghost"]; ok {
		t.Fatal("state created for unknown target")
	}
}
