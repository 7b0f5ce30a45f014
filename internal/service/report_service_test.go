package service

import (
	"context"
	"testing"

	"inspectkit/internal/model"
)

func reportTemplate() *model.Template {
	tpl := model.NewTemplate("op1", "Fire safety audit")
	sec := &tpl.Pages[0].Sections[0]
	sec.Questions = []model.Question{
		{ID: "q1", Text: "Extinguishers charged?", AnswerType: model.AnswerCompliance, Weight: 3},
		{ID: "q2", Text: "Notes", AnswerType: model.AnswerText, Weight: 1},
		{ID: "q3", Text: "Exits clear?", AnswerType: model.AnswerYesNo, Weight: 1},
	}
	return tpl
}

func TestProjectReportScores(t *testing.T) {
	tpl := reportTemplate()
	answers := Answers{
		"q1": model.CompliancePartial, // 3 * 1 = 3
		"q3": model.OptionYes,         // 1 * 2 = 2
	}

	report := ProjectReport(tpl, answers)
	if report.Title != "Fire safety audit" {
		t.Errorf("title = %q", report.Title)
	}
	if report.MaxScore != 8 { // 3*2 + 0 + 1*2
		t.Errorf("maxScore = %d, want 8", report.MaxScore)
	}
	if report.Score != 5 {
		t.Errorf("score = %d, want 5", report.Score)
	}
	if len(report.Sections) != 1 || len(report.Sections[0].Items) != 3 {
		t.Fatalf("unexpected report shape: %+v", report.Sections)
	}
}

func TestProjectReportExcludesHiddenQuestions(t *testing.T) {
	tpl := reportTemplate()
	sec := &tpl.Pages[0].Sections[0]
	sec.Logic = []model.LogicRule{{
		Question: "q1", Condition: model.CondEquals, Value: model.ComplianceFull,
		Action: model.ActionHide, Targets: []string{"q3"},
	}}

	report := ProjectReport(tpl, Answers{"q1": model.ComplianceFull, "q3": model.OptionYes})
	for _, item := range report.Sections[0].Items {
		if item.QuestionID == "q3" {
			t.Fatal("hidden question present in report items")
		}
	}
	if report.Score != 6 { // only q1: 3 * 2
		t.Errorf("score = %d, want 6 (hidden q3 excluded)", report.Score)
	}
	// maxScore stays the full rollup regardless of logic state
	if report.MaxScore != 8 {
		t.Errorf("maxScore = %d, want 8", report.MaxScore)
	}
}

func TestProjectReportSkippedSectionScoresZero(t *testing.T) {
	tpl := reportTemplate()
	sec := &tpl.Pages[0].Sections[0]
	sec.Logic = []model.LogicRule{{
		Question: "q1", Condition: model.CondEquals, Value: model.ComplianceNA,
		Action: model.ActionSkip,
	}}

	report := ProjectReport(tpl, Answers{"q1": model.ComplianceNA, "q3": model.OptionYes})
	rs := report.Sections[0]
	if !rs.Skipped {
		t.Fatal("section not marked skipped")
	}
	if rs.Score != 0 || report.Score != 0 {
		t.Errorf("skipped section scored: section=%d total=%d", rs.Score, report.Score)
	}
}

func TestBuildReportOwnership(t *testing.T) {
	repo := newFakeTemplateRepo()
	ctx := context.Background()
	id, _ := repo.Create(ctx, reportTemplate())

	svc := NewReportService(repo)
	if _, err := svc.BuildReport(ctx, "op2", id, nil); err != ErrNotOwner {
		t.Fatalf("err = %v, want ErrNotOwner", err)
	}
	if _, err := svc.BuildReport(ctx, "op1", id, nil); err != nil {
		t.Fatalf("owner build failed: %v", err)
	}
	if _, err := svc.BuildReport(ctx, "op1", "missing", nil); err != ErrTemplateNotFound {
		t.Fatalf("err = %v, want ErrTemplateNotFound", err)
	}
}
