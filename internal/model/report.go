package model

import (
	"encoding/json"
	"time"
)

// ReportItem is one answered (or unanswered) question in a report
type ReportItem struct {
	QuestionID string     `json:"questionId"`
	Text       string     `json:"text"`
	AnswerType AnswerType `json:"answerType"`
	Answer     string     `json:"answer,omitempty"`
	Score      int        `json:"score"`
	MaxScore   int        `json:"maxScore"`
	Required   bool       `json:"required"`
}

// ReportSection groups report items by section
type ReportSection struct {
	SectionID string       `json:"sectionId"`
	Name      string       `json:"name"`
	Skipped   bool         `json:"skipped"`
	Score     int          `json:"score"`
	MaxScore  int          `json:"maxScore"`
	Items     []ReportItem `json:"items"`
}

// Report is the projection of a template plus answers handed to the export
// renderer: title, score, maxScore, sections-with-items
type Report struct {
	TemplateID  string          `json:"templateId"`
	Title       string          `json:"title"`
	Score       int             `json:"score"`
	MaxScore    int             `json:"maxScore"`
	Sections    []ReportSection `json:"sections"`
	GeneratedAt time.Time       `json:"generatedAt"`
}

// ExportResult describes the outcome of an export request
type ExportResult struct {
	Format     string          `json:"format"`
	Status     string          `json:"status"` // "ready" or "rendered_inline"
	URL        string          `json:"url,omitempty"`
	Artifact   json.RawMessage `json:"artifact,omitempty"` // inline fallback
	RenderedAt time.Time       `json:"renderedAt"`
}
