package model

import "testing"

func buildTemplate() *Template {
	t := NewTemplate("op1", "Warehouse audit")
	page := &t.Pages[0]
	page.Sections[0].Questions = []Question{
		{ID: "q1", Text: "Floor clear?", AnswerType: AnswerYesNo, Weight: 1},
		{ID: "q2", Text: "Notes", AnswerType: AnswerText},
	}
	return t
}

func TestNewTemplateStartsWithOnePageOneSection(t *testing.T) {
	tpl := NewTemplate("op1", "Audit")
	if len(tpl.Pages) != 1 {
		t.Fatalf("pages = %d, want 1", len(tpl.Pages))
	}
	if len(tpl.Pages[0].Sections) != 1 {
		t.Fatalf("sections = %d, want 1", len(tpl.Pages[0].Sections))
	}
	if tpl.Status != StatusDraft {
		t.Errorf("status = %q, want draft", tpl.Status)
	}
}

func TestRemoveLastPageRejected(t *testing.T) {
	tpl := buildTemplate()
	err := tpl.RemovePage(tpl.Pages[0].ID)
	if err != ErrLastPage {
		t.Fatalf("err = %v, want ErrLastPage", err)
	}
	if len(tpl.Pages) != 1 {
		t.Fatalf("pages = %d after rejected removal, want 1", len(tpl.Pages))
	}
}

func TestRemovePageRenumbers(t *testing.T) {
	tpl := buildTemplate()
	tpl.AddPage("Page 2")
	tpl.AddPage("Page 3")
	if err := tpl.RemovePage(tpl.Pages[1].ID); err != nil {
		t.Fatalf("RemovePage: %v", err)
	}
	for i, p := range tpl.Pages {
		if p.Order != i {
			t.Errorf("page %d order = %d, want %d", i, p.Order, i)
		}
	}
}

func TestReorderSectionsDenseOrder(t *testing.T) {
	tpl := buildTemplate()
	pageID := tpl.Pages[0].ID
	tpl.AddSection(pageID, "B")
	tpl.AddSection(pageID, "C")
	secC := tpl.Pages[0].Sections[2].ID

	if err := tpl.ReorderSection(pageID, secC, 0); err != nil {
		t.Fatalf("ReorderSection: %v", err)
	}
	page := tpl.Page(pageID)
	if page.Sections[0].ID != secC {
		t.Errorf("section 0 = %s, want %s", page.Sections[0].ID, secC)
	}
	seen := map[int]bool{}
	for i, s := range page.Sections {
		if s.Order != i {
			t.Errorf("section %d order = %d, want %d", i, s.Order, i)
		}
		if seen[s.Order] {
			t.Errorf("duplicate order %d", s.Order)
		}
		seen[s.Order] = true
	}
}

func TestReorderSectionClampsIndex(t *testing.T) {
	tpl := buildTemplate()
	pageID := tpl.Pages[0].ID
	tpl.AddSection(pageID, "B")
	first := tpl.Pages[0].Sections[0].ID

	if err := tpl.ReorderSection(pageID, first, 99); err != nil {
		t.Fatalf("ReorderSection: %v", err)
	}
	page := tpl.Page(pageID)
	if page.Sections[len(page.Sections)-1].ID != first {
		t.Errorf("expected section moved to end")
	}
}

func TestUpdateQuestionShallowMerge(t *testing.T) {
	tpl := buildTemplate()
	pageID := tpl.Pages[0].ID
	secID := tpl.Pages[0].Sections[0].ID

	text := "Floor fully clear?"
	weight := 3
	q, err := tpl.UpdateQuestion(pageID, secID, "q1", &QuestionPatch{Text: &text, Weight: &weight})
	if err != nil {
		t.Fatalf("UpdateQuestion: %v", err)
	}
	if q.Text != text || q.Weight != 3 {
		t.Errorf("patched fields not applied: %+v", q)
	}
	if q.AnswerType != AnswerYesNo {
		t.Errorf("untouched field changed: answerType = %q", q.AnswerType)
	}
}

func TestMoveQuestionPreservesFields(t *testing.T) {
	tpl := buildTemplate()
	pageID := tpl.Pages[0].ID
	sec, err := tpl.AddSection(pageID, "Target")
	if err != nil {
		t.Fatalf("AddSection: %v", err)
	}
	targetID := sec.ID

	moved, err := tpl.MoveQuestion("q1", pageID, targetID)
	if err != nil {
		t.Fatalf("MoveQuestion: %v", err)
	}
	if !moved {
		t.Fatal("moved = false, want true")
	}
	src := tpl.Pages[0].Sections[0]
	for _, q := range src.Questions {
		if q.ID == "q1" {
			t.Fatal("q1 still present in source section")
		}
	}
	target := tpl.Section(pageID, targetID)
	if len(target.Questions) != 1 {
		t.Fatalf("target questions = %d, want 1", len(target.Questions))
	}
	got := target.Questions[0]
	if got.ID != "q1" || got.Text != "Floor clear?" || got.AnswerType != AnswerYesNo || got.Weight != 1 {
		t.Errorf("question mutated by move: %+v", got)
	}
}

func TestMoveQuestionSameLocationNoOp(t *testing.T) {
	tpl := buildTemplate()
	pageID := tpl.Pages[0].ID
	secID := tpl.Pages[0].Sections[0].ID

	moved, err := tpl.MoveQuestion("q1", pageID, secID)
	if err != nil {
		t.Fatalf("MoveQuestion: %v", err)
	}
	if moved {
		t.Error("same-location move reported moved = true")
	}
	if len(tpl.Pages[0].Sections[0].Questions) != 2 {
		t.Errorf("question count changed on no-op move")
	}
}

func TestMoveQuestionUnknownTarget(t *testing.T) {
	tpl := buildTemplate()
	if _, err := tpl.MoveQuestion("q1", tpl.Pages[0].ID, "nope"); err != ErrSectionNotFound {
		t.Fatalf("err = %v, want ErrSectionNotFound", err)
	}
	if _, err := tpl.MoveQuestion("q1", "nope", "nope"); err != ErrPageNotFound {
		t.Fatalf("err = %v, want ErrPageNotFound", err)
	}
}

func TestFlattenOrder(t *testing.T) {
	tpl := buildTemplate()
	p2 := tpl.AddPage("Page 2")
	sec, _ := tpl.AddSection(p2.ID, "S")
	sec.Questions = append(sec.Questions, Question{ID: "q3", AnswerType: AnswerNumber})

	flat := tpl.Flatten()
	if len(flat) != 3 {
		t.Fatalf("flattened = %d questions, want 3", len(flat))
	}
	want := []string{"q1", "q2", "q3"}
	for i, id := range want {
		if flat[i].ID != id {
			t.Errorf("flat[%d] = %s, want %s", i, flat[i].ID, id)
		}
	}
}

func TestAddQuestionAssignsID(t *testing.T) {
	tpl := buildTemplate()
	q, err := tpl.AddQuestion(tpl.Pages[0].ID, tpl.Pages[0].Sections[0].ID, Question{Text: "New"})
	if err != nil {
		t.Fatalf("AddQuestion: %v", err)
	}
	if q.ID == "" {
		t.Error("id not assigned")
	}
	if q.RequirementType != RequirementMandatory {
		t.Errorf("requirementType = %q, want mandatory default", q.RequirementType)
	}
}
