package service

import (
	"context"
	"time"

	"inspectkit/internal/model"
	"inspectkit/internal/repository"
)

// ReportService builds the report projection consumed by the export
// renderer: title, score, maxScore and sections-with-items.
type ReportService struct {
	repo repository.TemplateRepo
}

// NewReportService creates a new report service
func NewReportService(repo repository.TemplateRepo) *ReportService {
	return &ReportService{repo: repo}
}

// BuildReport projects a template plus current answers into a report.
// MaxScore is the full scoring rollup; achieved score counts only questions
// left visible by logic evaluation, and skip-flagged sections contribute
// nothing.
func (s *ReportService) BuildReport(ctx context.Context, operatorID, templateID string, answers Answers) (*model.Report, error) {
	tpl, err := s.repo.GetByID(ctx, templateID)
	if err != nil {
		return nil, err
	}
	if tpl == nil {
		return nil, ErrTemplateNotFound
	}
	if tpl.OwnerID != operatorID {
		return nil, ErrNotOwner
	}
	return ProjectReport(tpl, answers), nil
}

// ProjectReport is the pure projection step, usable without persistence
func ProjectReport(tpl *model.Template, answers Answers) *model.Report {
	report := &model.Report{
		TemplateID:  tpl.ID,
		Title:       tpl.Name,
		MaxScore:    TemplateMaxScore(tpl),
		Sections:    []model.ReportSection{},
		GeneratedAt: time.Now(),
	}

	for pi := range tpl.Pages {
		for si := range tpl.Pages[pi].Sections {
			sec := &tpl.Pages[pi].Sections[si]
			logic := EvaluateSection(sec, answers)

			rs := model.ReportSection{
				SectionID: sec.ID,
				Name:      sec.Name,
				Skipped:   logic.SkipSection,
				MaxScore:  SectionMaxScore(sec),
				Items:     []model.ReportItem{},
			}
			for qi := range sec.Questions {
				q := &sec.Questions[qi]
				state := logic.States[q.ID]
				if !state.Visible {
					continue
				}
				item := model.ReportItem{
					QuestionID: q.ID,
					Text:       q.Text,
					AnswerType: q.AnswerType,
					Answer:     answers[q.ID],
					MaxScore:   QuestionContribution(q),
					Required:   state.Required,
				}
				if !logic.SkipSection {
					item.Score = AnswerScore(q, answers[q.ID])
				}
				rs.Score += item.Score
				rs.Items = append(rs.Items, item)
			}
			report.Score += rs.Score
			report.Sections = append(report.Sections, rs)
		}
	}
	return report
}
